package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/daily-coding-api/internal/dto"
	"github.com/noah-isme/daily-coding-api/internal/repository"
)

// StudentDashboardService produces the aggregated view a student lands on.
type StudentDashboardService interface {
	GetDashboard(ctx context.Context, studentID uint) (dto.StudentDashboardResponse, error)
}

type studentDashboardService struct {
	users       repository.UserRepository
	submissions repository.SubmissionRepository
	questions   QuestionService
	logger      zerolog.Logger
}

// NewStudentDashboardService builds the dashboard aggregator.
func NewStudentDashboardService(users repository.UserRepository, submissions repository.SubmissionRepository, questions QuestionService, logger zerolog.Logger) StudentDashboardService {
	return &studentDashboardService{
		users:       users,
		submissions: submissions,
		questions:   questions,
		logger:      logger.With().Str("component", "student_dashboard_service").Logger(),
	}
}

func (s *studentDashboardService) GetDashboard(ctx context.Context, studentID uint) (dto.StudentDashboardResponse, error) {
	user, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentDashboardResponse{}, ErrUserNotFound
		}
		return dto.StudentDashboardResponse{}, err
	}

	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{StudentID: &studentID})
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	response := dto.StudentDashboardResponse{
		User:              dto.NewUserResponse(user),
		SubmissionSummary: summarize(submissions),
		Submissions:       dto.NewSubmissionResponseSlice(submissions),
	}

	today, err := s.questions.Today(ctx)
	switch {
	case err == nil:
		response.TodayQuestion = &today
	case errors.Is(err, ErrNoQuestionAvailable):
		s.logger.Debug().Uint("student_id", studentID).Msg("dashboard built without a question")
	default:
		return dto.StudentDashboardResponse{}, err
	}

	return response, nil
}
