package handler_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/daily-coding-api/internal/dto"
	"github.com/noah-isme/daily-coding-api/internal/handler"
	"github.com/noah-isme/daily-coding-api/internal/service"
)

func newFacultyApp(svc stubFacultyService) *fiber.App {
	app := fiber.New()
	handler.NewFacultyHandler(svc, zerolog.Nop()).Register(app.Group("/api/faculty", withActor("faculty")))
	return app
}

func TestFacultyHandlerListsStudentsWithCount(t *testing.T) {
	app := newFacultyApp(stubFacultyService{students: []dto.UserResponse{{ID: 1, Name: "Amy"}, {ID: 2, Name: "Zed"}}})

	resp, payload, _ := send(t, app, http.MethodGet, "/api/faculty/students", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 2, *payload.Count)

	empty := newFacultyApp(stubFacultyService{students: []dto.UserResponse{}})
	resp, payload, _ = send(t, empty, http.MethodGet, "/api/faculty/students", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 0, *payload.Count)
	require.JSONEq(t, `[]`, string(payload.Data))
}

func TestFacultyHandlerStudentOverview(t *testing.T) {
	app := newFacultyApp(stubFacultyService{overview: dto.StudentOverviewResponse{
		Student:     dto.UserResponse{ID: 1, Name: "Amy"},
		Summary:     dto.SubmissionSummary{Total: 1, Accepted: 1},
		Submissions: []dto.SubmissionResponse{},
	}})

	resp, payload, _ := send(t, app, http.MethodGet, "/api/faculty/students/1", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(payload.Data), `"summary"`)

	missing := newFacultyApp(stubFacultyService{overviewErr: service.ErrStudentNotFound})
	resp, payload, _ = send(t, missing, http.MethodGet, "/api/faculty/students/77", nil, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "student not found", payload.Message)

	resp, _, _ = send(t, app, http.MethodGet, "/api/faculty/students/0", nil, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
