package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/daily-coding-api/internal/dto"
	"github.com/noah-isme/daily-coding-api/internal/models"
	"github.com/noah-isme/daily-coding-api/internal/observability"
	"github.com/noah-isme/daily-coding-api/internal/repository"
)

// SubmissionService records student answers and reports on them.
type SubmissionService interface {
	Submit(ctx context.Context, studentID uint, payload dto.SubmitAnswerRequest) (dto.SubmissionResponse, error)
	ListForStudent(ctx context.Context, studentID uint) ([]dto.SubmissionResponse, error)
	Summarize(ctx context.Context, studentID uint) (dto.SubmissionSummary, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(submissions repository.SubmissionRepository, validate *validator.Validate, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: submissions,
		validator:   validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

func (s *submissionService) Submit(ctx context.Context, studentID uint, payload dto.SubmitAnswerRequest) (dto.SubmissionResponse, error) {
	if studentID == 0 {
		return dto.SubmissionResponse{}, ErrUnauthenticated
	}

	payload.Status = strings.ToLower(strings.TrimSpace(payload.Status))
	if err := Validate(s.validator, payload); err != nil {
		return dto.SubmissionResponse{}, err
	}
	if strings.TrimSpace(payload.Code) == "" {
		return dto.SubmissionResponse{}, invalidInput("code is required")
	}

	status := payload.Status
	if status == "" {
		status = models.SubmissionStatusPending
	}
	if !models.IsValidSubmissionStatus(status) {
		return dto.SubmissionResponse{}, invalidInput("status must be one of: pending, accepted, rejected")
	}

	submission := models.Submission{
		StudentID:   studentID,
		QuestionID:  payload.QuestionID,
		Code:        payload.Code,
		Status:      status,
		SubmittedAt: s.now().UTC(),
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	observability.RecordSubmission(status)
	s.logger.Info().
		Uint("submission_id", submission.ID).
		Uint("student_id", studentID).
		Uint("question_id", submission.QuestionID).
		Str("status", status).
		Msg("answer submitted")

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) ListForStudent(ctx context.Context, studentID uint) ([]dto.SubmissionResponse, error) {
	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{StudentID: &studentID})
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *submissionService) Summarize(ctx context.Context, studentID uint) (dto.SubmissionSummary, error) {
	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{StudentID: &studentID})
	if err != nil {
		return dto.SubmissionSummary{}, err
	}

	return summarize(submissions), nil
}

// summarize tallies statuses; unknown statuses count toward total and pending.
func summarize(submissions []models.Submission) dto.SubmissionSummary {
	summary := dto.SubmissionSummary{Total: len(submissions)}
	for _, submission := range submissions {
		switch submission.Status {
		case models.SubmissionStatusAccepted:
			summary.Accepted++
		case models.SubmissionStatusRejected:
			summary.Rejected++
		default:
			summary.Pending++
		}
	}
	return summary
}
