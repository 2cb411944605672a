package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/daily-coding-api/internal/dto"
	"github.com/noah-isme/daily-coding-api/internal/handler"
	"github.com/noah-isme/daily-coding-api/internal/service"
)

func newAuthApp(svc *stubAuthService) *fiber.App {
	app := fiber.New()
	handler.NewAuthHandler(svc, zerolog.Nop()).Register(app.Group("/api/auth"))
	return app
}

func TestAuthHandlerRegisterReturnsTokenAndUser(t *testing.T) {
	svc := &stubAuthService{registerResult: dto.AuthResult{Token: "signed", User: dto.UserResponse{ID: 7, Name: "Ada", Role: "student"}}}
	app := newAuthApp(svc)

	resp, payload, _ := send(t, app, http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "secret123",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.True(t, payload.Success)
	require.Equal(t, "signed", payload.Token)

	var user dto.UserResponse
	require.NoError(t, json.Unmarshal(payload.User, &user))
	require.Equal(t, "ada@example.com", user.Email)
}

func TestAuthHandlerRegisterMapsErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"conflict", service.ErrEmailTaken, http.StatusConflict, "conflict"},
		{"invalid", &service.InputError{Message: "email must be a valid email address"}, http.StatusBadRequest, "invalid_input"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newAuthApp(&stubAuthService{registerErr: tc.err})
			resp, payload, _ := send(t, app, http.MethodPost, "/api/auth/register", map[string]string{"name": "x"}, "")
			require.Equal(t, tc.status, resp.StatusCode)
			require.False(t, payload.Success)
			require.Equal(t, tc.code, payload.Error)
		})
	}

	app := newAuthApp(&stubAuthService{registerErr: service.ErrEmailTaken})
	_, payload, _ := send(t, app, http.MethodPost, "/api/auth/register", map[string]string{"name": "x"}, "")
	require.Equal(t, "user with this email already exists", payload.Message)
}

func TestAuthHandlerRejectsMalformedBody(t *testing.T) {
	app := newAuthApp(&stubAuthService{})

	resp, payload, _ := send(t, app, http.MethodPost, "/api/auth/login", "{not json", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "invalid request body", payload.Message)
}

func TestAuthHandlerLoginFailureIsGeneric(t *testing.T) {
	app := newAuthApp(&stubAuthService{loginErr: service.ErrUnauthorized})

	resp, payload, _ := send(t, app, http.MethodPost, "/api/auth/login", map[string]string{"email": "a@example.com", "password": "x"}, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "invalid email or password", payload.Message)
	require.Empty(t, payload.Token)

	app = newAuthApp(&stubAuthService{loginErr: service.ErrTooManyLoginAttempts})
	resp, _, _ = send(t, app, http.MethodPost, "/api/auth/login", map[string]string{"email": "a@example.com", "password": "x"}, "")
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestAuthHandlerMeRequiresToken(t *testing.T) {
	app := newAuthApp(&stubAuthService{})

	resp, _, _ := send(t, app, http.MethodGet, "/api/auth/me", nil, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, payload, _ := send(t, app, http.MethodGet, "/api/auth/me", nil, "faculty")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var user dto.UserResponse
	require.NoError(t, json.Unmarshal(payload.Data, &user))
	require.Equal(t, "fac@example.com", user.Email)
}

func TestAuthHandlerCreateUserIsAdminOnly(t *testing.T) {
	svc := &stubAuthService{}
	app := newAuthApp(svc)
	body := map[string]string{"name": "Prof", "email": "prof@example.com", "password": "secret123", "role": "faculty"}

	resp, _, _ := send(t, app, http.MethodPost, "/api/auth/users", body, "faculty")
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, payload, _ := send(t, app, http.MethodPost, "/api/auth/users", body, "admin")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.True(t, payload.Success)
	require.Equal(t, uint(33), svc.lastCaller.ID)
}
