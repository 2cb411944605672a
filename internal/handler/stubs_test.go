package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/daily-coding-api/internal/dto"
	"github.com/noah-isme/daily-coding-api/internal/middleware"
	"github.com/noah-isme/daily-coding-api/internal/service"
)

var tokenActors = map[string]service.Actor{
	"student": {ID: 11, Role: "student", Email: "stu@example.com", Name: "Stu"},
	"faculty": {ID: 22, Role: "faculty", Email: "fac@example.com", Name: "Fac"},
	"admin":   {ID: 33, Role: "admin", Email: "adm@example.com", Name: "Adm"},
}

// withActor mimics the access guard for handlers registered on pre-guarded routers.
func withActor(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.SetUserContext(middleware.ContextWithActor(c.UserContext(), tokenActors[token]))
		return c.Next()
	}
}

type stubAuthService struct {
	registerResult dto.AuthResult
	registerErr    error
	loginErr       error
	createErr      error
	lastCaller     service.Actor
}

func (s *stubAuthService) Register(_ context.Context, payload dto.RegisterRequest) (dto.AuthResult, error) {
	if s.registerErr != nil {
		return dto.AuthResult{}, s.registerErr
	}
	result := s.registerResult
	result.User.Email = payload.Email
	return result, nil
}

func (s *stubAuthService) Login(_ context.Context, payload dto.LoginRequest) (dto.AuthResult, error) {
	if s.loginErr != nil {
		return dto.AuthResult{}, s.loginErr
	}
	return dto.AuthResult{Token: "signed", User: dto.UserResponse{ID: 1, Email: payload.Email, Role: "student"}}, nil
}

func (s *stubAuthService) CreateUser(_ context.Context, caller service.Actor, payload dto.CreateUserRequest) (dto.UserResponse, error) {
	s.lastCaller = caller
	if s.createErr != nil {
		return dto.UserResponse{}, s.createErr
	}
	return dto.UserResponse{ID: 99, Name: payload.Name, Email: payload.Email, Role: payload.Role}, nil
}

func (s *stubAuthService) GetProfile(_ context.Context, userID uint) (dto.UserResponse, error) {
	for _, actor := range tokenActors {
		if actor.ID == userID {
			return dto.UserResponse{ID: actor.ID, Name: actor.Name, Email: actor.Email, Role: actor.Role}, nil
		}
	}
	return dto.UserResponse{}, service.ErrUserNotFound
}

func (s *stubAuthService) ResolveIdentity(_ context.Context, token string) (service.Actor, error) {
	actor, ok := tokenActors[token]
	if !ok {
		return service.Actor{}, service.ErrUnauthenticated
	}
	return actor, nil
}

type stubQuestionService struct {
	today     dto.QuestionResponse
	todayErr  error
	list      []dto.QuestionResponse
	createErr error
	updateErr error
	deleteErr error
	lastID    uint
}

func (s *stubQuestionService) GetToday(ctx context.Context, _ time.Time) (dto.QuestionResponse, error) {
	return s.Today(ctx)
}

func (s *stubQuestionService) Today(context.Context) (dto.QuestionResponse, error) {
	if s.todayErr != nil {
		return dto.QuestionResponse{}, s.todayErr
	}
	return s.today, nil
}

func (s *stubQuestionService) List(context.Context) ([]dto.QuestionResponse, error) {
	return s.list, nil
}

func (s *stubQuestionService) Get(_ context.Context, id uint) (dto.QuestionResponse, error) {
	return dto.QuestionResponse{ID: id}, nil
}

func (s *stubQuestionService) Create(_ context.Context, _ service.Actor, payload dto.QuestionCreateRequest) (dto.QuestionResponse, error) {
	if s.createErr != nil {
		return dto.QuestionResponse{}, s.createErr
	}
	return dto.QuestionResponse{ID: 5, Title: payload.Title, Difficulty: payload.Difficulty}, nil
}

func (s *stubQuestionService) Update(_ context.Context, _ service.Actor, id uint, _ dto.QuestionUpdateRequest) (dto.QuestionResponse, error) {
	s.lastID = id
	if s.updateErr != nil {
		return dto.QuestionResponse{}, s.updateErr
	}
	return dto.QuestionResponse{ID: id}, nil
}

func (s *stubQuestionService) Delete(_ context.Context, _ service.Actor, id uint) error {
	s.lastID = id
	return s.deleteErr
}

type stubSubmissionService struct {
	submitErr   error
	lastStudent uint
	lastPayload dto.SubmitAnswerRequest
	list        []dto.SubmissionResponse
	listErr     error
}

func (s *stubSubmissionService) Submit(_ context.Context, studentID uint, payload dto.SubmitAnswerRequest) (dto.SubmissionResponse, error) {
	s.lastStudent = studentID
	s.lastPayload = payload
	if s.submitErr != nil {
		return dto.SubmissionResponse{}, s.submitErr
	}
	return dto.SubmissionResponse{ID: 1, StudentID: studentID, QuestionID: payload.QuestionID, Code: payload.Code, Status: "pending", SubmittedAt: time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)}, nil
}

func (s *stubSubmissionService) ListForStudent(_ context.Context, studentID uint) ([]dto.SubmissionResponse, error) {
	s.lastStudent = studentID
	return s.list, s.listErr
}

func (s *stubSubmissionService) Summarize(context.Context, uint) (dto.SubmissionSummary, error) {
	return dto.SubmissionSummary{}, nil
}

type stubStudentDashboardService struct {
	response dto.StudentDashboardResponse
	lastID   uint
}

func (s *stubStudentDashboardService) GetDashboard(_ context.Context, studentID uint) (dto.StudentDashboardResponse, error) {
	s.lastID = studentID
	return s.response, nil
}

type stubAdminDashboardService struct {
	response dto.AdminDashboardResponse
}

func (s stubAdminDashboardService) GetDashboard(context.Context) (dto.AdminDashboardResponse, error) {
	return s.response, nil
}

type stubFacultyService struct {
	students    []dto.UserResponse
	overview    dto.StudentOverviewResponse
	overviewErr error
}

func (s stubFacultyService) GetDashboard(context.Context) (dto.FacultyDashboardResponse, error) {
	return dto.FacultyDashboardResponse{TotalStudents: int64(len(s.students))}, nil
}

func (s stubFacultyService) ListStudents(context.Context) ([]dto.UserResponse, error) {
	return s.students, nil
}

func (s stubFacultyService) GetStudentOverview(_ context.Context, _ uint) (dto.StudentOverviewResponse, error) {
	return s.overview, s.overviewErr
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Count   *int            `json:"count"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Token   string          `json:"token"`
	User    json.RawMessage `json:"user"`
}

func send(t *testing.T, app *fiber.App, method, target string, body interface{}, token string) (*http.Response, envelope, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch value := body.(type) {
		case string:
			reader = bytes.NewBufferString(value)
		default:
			encoded, err := json.Marshal(value)
			require.NoError(t, err)
			reader = bytes.NewReader(encoded)
		}
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload envelope
	require.NoError(t, json.Unmarshal(raw, &payload), string(raw))
	return resp, payload, raw
}
