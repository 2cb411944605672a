package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/daily-coding-api/internal/dto"
	"github.com/noah-isme/daily-coding-api/internal/models"
	"github.com/noah-isme/daily-coding-api/internal/repository"
)

// FacultyService backs the faculty views over students and their progress.
type FacultyService interface {
	GetDashboard(ctx context.Context) (dto.FacultyDashboardResponse, error)
	ListStudents(ctx context.Context) ([]dto.UserResponse, error)
	GetStudentOverview(ctx context.Context, studentID uint) (dto.StudentOverviewResponse, error)
}

type facultyService struct {
	users       repository.UserRepository
	questions   repository.QuestionRepository
	submissions repository.SubmissionRepository
	logger      zerolog.Logger
}

// NewFacultyService constructs the faculty service.
func NewFacultyService(users repository.UserRepository, questions repository.QuestionRepository, submissions repository.SubmissionRepository, logger zerolog.Logger) FacultyService {
	return &facultyService{
		users:       users,
		questions:   questions,
		submissions: submissions,
		logger:      logger.With().Str("component", "faculty_service").Logger(),
	}
}

func (s *facultyService) GetDashboard(ctx context.Context) (dto.FacultyDashboardResponse, error) {
	var (
		response dto.FacultyDashboardResponse
		err      error
	)
	if response.TotalStudents, err = s.users.CountByRole(ctx, models.RoleStudent); err != nil {
		return dto.FacultyDashboardResponse{}, err
	}
	if response.TotalQuestions, err = s.questions.Count(ctx); err != nil {
		return dto.FacultyDashboardResponse{}, err
	}
	if response.TotalSubmissions, err = s.submissions.Count(ctx); err != nil {
		return dto.FacultyDashboardResponse{}, err
	}

	return response, nil
}

func (s *facultyService) ListStudents(ctx context.Context) ([]dto.UserResponse, error) {
	students, err := s.users.ListByRole(ctx, models.RoleStudent)
	if err != nil {
		return nil, err
	}

	return dto.NewUserResponseSlice(students), nil
}

func (s *facultyService) GetStudentOverview(ctx context.Context, studentID uint) (dto.StudentOverviewResponse, error) {
	student, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentOverviewResponse{}, ErrStudentNotFound
		}
		return dto.StudentOverviewResponse{}, err
	}
	if student.Role != models.RoleStudent {
		return dto.StudentOverviewResponse{}, ErrStudentNotFound
	}

	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{StudentID: &studentID})
	if err != nil {
		return dto.StudentOverviewResponse{}, err
	}

	return dto.StudentOverviewResponse{
		Student:     dto.NewUserResponse(student),
		Summary:     summarize(submissions),
		Submissions: dto.NewSubmissionResponseSlice(submissions),
	}, nil
}
