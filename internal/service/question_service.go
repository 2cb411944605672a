package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gosimple/slug"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/daily-coding-api/internal/dto"
	"github.com/noah-isme/daily-coding-api/internal/models"
	"github.com/noah-isme/daily-coding-api/internal/observability"
	"github.com/noah-isme/daily-coding-api/internal/repository"
)

// QuestionService exposes the question of the day and its administration.
type QuestionService interface {
	// GetToday resolves the question for the day containing now, falling back to the
	// most recently assigned earlier question.
	GetToday(ctx context.Context, now time.Time) (dto.QuestionResponse, error)
	// Today is GetToday evaluated at the service clock.
	Today(ctx context.Context) (dto.QuestionResponse, error)
	List(ctx context.Context) ([]dto.QuestionResponse, error)
	Get(ctx context.Context, id uint) (dto.QuestionResponse, error)
	Create(ctx context.Context, caller Actor, payload dto.QuestionCreateRequest) (dto.QuestionResponse, error)
	Update(ctx context.Context, caller Actor, id uint, payload dto.QuestionUpdateRequest) (dto.QuestionResponse, error)
	Delete(ctx context.Context, caller Actor, id uint) error
}

type questionService struct {
	repo      repository.QuestionRepository
	validator *validator.Validate
	location  *time.Location
	dashboard DashboardInvalidator
	tracer    trace.Tracer
	logger    zerolog.Logger
	now       func() time.Time
}

// NewQuestionService builds the question service. Day windows are computed in location (UTC when nil).
// dashboard may be nil.
func NewQuestionService(repo repository.QuestionRepository, validate *validator.Validate, location *time.Location, dashboard DashboardInvalidator, logger zerolog.Logger) QuestionService {
	if location == nil {
		location = time.UTC
	}

	return &questionService{
		repo:      repo,
		validator: validate,
		location:  location,
		dashboard: dashboard,
		tracer:    otel.Tracer("github.com/noah-isme/daily-coding-api/internal/service/question"),
		logger:    logger.With().Str("component", "question_service").Logger(),
		now:       time.Now,
	}
}

// WithClock returns a copy of svc that reads the current time from now.
func WithClock(svc QuestionService, now func() time.Time) QuestionService {
	qs, ok := svc.(*questionService)
	if !ok || now == nil {
		return svc
	}
	clone := *qs
	clone.now = now
	return &clone
}

// DayWindow returns the half-open interval [midnight, next midnight) containing now in loc.
func DayWindow(now time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

func (s *questionService) GetToday(ctx context.Context, now time.Time) (dto.QuestionResponse, error) {
	start, end := DayWindow(now, s.location)
	ctx, span := s.tracer.Start(ctx, "question.today")
	span.SetAttributes(attribute.String("question.day", start.Format(models.AssignedDayLayout)))
	defer span.End()

	question, err := s.repo.FindAssignedBetween(ctx, start, end)
	if err == nil {
		observability.RecordQuestionServed(false)
		return dto.NewQuestionResponse(question), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "find_assigned_failed")
		return dto.QuestionResponse{}, err
	}

	question, err = s.repo.FindLatestBefore(ctx, start)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuestionResponse{}, ErrNoQuestionAvailable
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "find_latest_failed")
		return dto.QuestionResponse{}, err
	}

	span.SetAttributes(attribute.Bool("question.fallback", true))
	observability.RecordQuestionServed(true)
	s.logger.Debug().Uint("question_id", question.ID).Str("day", start.Format(models.AssignedDayLayout)).Msg("no question assigned today, using latest")

	return dto.NewQuestionResponse(question), nil
}

func (s *questionService) Today(ctx context.Context) (dto.QuestionResponse, error) {
	return s.GetToday(ctx, s.now())
}

func (s *questionService) List(ctx context.Context) ([]dto.QuestionResponse, error) {
	questions, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewQuestionResponseSlice(questions), nil
}

func (s *questionService) Get(ctx context.Context, id uint) (dto.QuestionResponse, error) {
	question, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuestionResponse{}, ErrQuestionNotFound
		}
		return dto.QuestionResponse{}, err
	}

	return dto.NewQuestionResponse(question), nil
}

func (s *questionService) Create(ctx context.Context, caller Actor, payload dto.QuestionCreateRequest) (dto.QuestionResponse, error) {
	if !caller.IsAdmin() {
		return dto.QuestionResponse{}, ErrForbidden
	}

	if err := Validate(s.validator, payload); err != nil {
		return dto.QuestionResponse{}, err
	}

	title, err := s.cleanTitle(payload.Title)
	if err != nil {
		return dto.QuestionResponse{}, err
	}

	difficulty, err := normalizeDifficulty(payload.Difficulty)
	if err != nil {
		return dto.QuestionResponse{}, err
	}

	description := strings.TrimSpace(payload.Description)
	if description == "" {
		return dto.QuestionResponse{}, invalidInput("description is required")
	}

	assigned, err := s.parseAssignedDate(payload.AssignedDate)
	if err != nil {
		return dto.QuestionResponse{}, err
	}

	question := models.Question{
		Title:       title,
		Slug:        slug.Make(title),
		Description: description,
		Difficulty:  difficulty,
		CreatedByID: caller.ID,
	}
	s.assign(&question, assigned)

	if err := s.repo.Create(ctx, &question); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.QuestionResponse{}, ErrQuestionDayTaken
		}
		return dto.QuestionResponse{}, err
	}

	invalidateDashboard(ctx, s.dashboard)
	s.logger.Info().Uint("question_id", question.ID).Str("day", question.AssignedDay).Msg("question created")

	created, err := s.repo.GetByID(ctx, question.ID)
	if err != nil {
		return dto.NewQuestionResponse(question), nil
	}
	return dto.NewQuestionResponse(created), nil
}

func (s *questionService) Update(ctx context.Context, caller Actor, id uint, payload dto.QuestionUpdateRequest) (dto.QuestionResponse, error) {
	if !caller.IsAdmin() {
		return dto.QuestionResponse{}, ErrForbidden
	}

	if err := Validate(s.validator, payload); err != nil {
		return dto.QuestionResponse{}, err
	}

	question, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuestionResponse{}, ErrQuestionNotFound
		}
		return dto.QuestionResponse{}, err
	}

	if payload.Title != nil {
		title, err := s.cleanTitle(*payload.Title)
		if err != nil {
			return dto.QuestionResponse{}, err
		}
		question.Title = title
		question.Slug = slug.Make(title)
	}

	if payload.Description != nil {
		description := strings.TrimSpace(*payload.Description)
		if description == "" {
			return dto.QuestionResponse{}, invalidInput("description must not be empty")
		}
		question.Description = description
	}

	if payload.Difficulty != nil {
		difficulty, err := normalizeDifficulty(*payload.Difficulty)
		if err != nil {
			return dto.QuestionResponse{}, err
		}
		question.Difficulty = difficulty
	}

	if payload.AssignedDate != nil {
		if strings.TrimSpace(*payload.AssignedDate) == "" {
			return dto.QuestionResponse{}, invalidInput("assigned_date must not be empty")
		}
		assigned, err := s.parseAssignedDate(*payload.AssignedDate)
		if err != nil {
			return dto.QuestionResponse{}, err
		}
		s.assign(&question, assigned)
	}

	if err := s.repo.Update(ctx, &question); err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return dto.QuestionResponse{}, ErrQuestionDayTaken
		case errors.Is(err, gorm.ErrRecordNotFound):
			return dto.QuestionResponse{}, ErrQuestionNotFound
		default:
			return dto.QuestionResponse{}, err
		}
	}

	s.logger.Info().Uint("question_id", question.ID).Msg("question updated")

	return s.Get(ctx, question.ID)
}

func (s *questionService) Delete(ctx context.Context, caller Actor, id uint) error {
	if !caller.IsAdmin() {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}
		return err
	}

	invalidateDashboard(ctx, s.dashboard)
	s.logger.Info().Uint("question_id", id).Msg("question deleted")
	return nil
}

func (s *questionService) assign(question *models.Question, assigned time.Time) {
	question.AssignedDate = assigned.UTC()
	question.AssignedDay = assigned.In(s.location).Format(models.AssignedDayLayout)
}

// parseAssignedDate accepts an empty value (now), a YYYY-MM-DD day (midnight in the
// reference timezone) or an RFC3339 instant.
func (s *questionService) parseAssignedDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return s.now(), nil
	}

	if day, err := time.ParseInLocation(models.AssignedDayLayout, value, s.location); err == nil {
		return day, nil
	}

	instant, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, invalidInput("assigned_date must be YYYY-MM-DD or an RFC3339 timestamp")
	}
	return instant, nil
}

// cleanTitle keeps the title verbatim apart from surrounding whitespace. Titles such as
// "Implement Stack<T>" are legitimate; the JSON encoder escapes them on output.
func (s *questionService) cleanTitle(value string) (string, error) {
	title := strings.TrimSpace(value)
	if title == "" {
		return "", invalidInput("title is required")
	}
	return title, nil
}

func normalizeDifficulty(value string) (string, error) {
	difficulty := strings.ToLower(strings.TrimSpace(value))
	if !models.IsValidDifficulty(difficulty) {
		return "", invalidInput("difficulty must be one of: easy, medium, hard")
	}
	return difficulty, nil
}
