package service

import (
	"context"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/daily-coding-api/internal/dto"
	"github.com/noah-isme/daily-coding-api/internal/models"
	"github.com/noah-isme/daily-coding-api/internal/repository"
	"github.com/noah-isme/daily-coding-api/internal/security"
)

func newAuthServiceForTest(t *testing.T, limiter LoginLimiter) (AuthService, *gorm.DB, *security.TokenManager) {
	t.Helper()
	db := setupServiceDB(t)
	tokens := security.NewTokenManager("test-secret", "daily-coding-api")
	svc := NewAuthService(repository.NewUserRepository(db), tokens, NewValidator(), limiter, TokenPolicy{}, nil, testLogger())
	return svc, db, tokens
}

func TestRegisterIssuesVerifiableToken(t *testing.T) {
	svc, _, tokens := newAuthServiceForTest(t, nil)

	result, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:     "Ada Lovelace",
		Email:    "  Ada@Example.com ",
		Password: "secret123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.Equal(t, "ada@example.com", result.User.Email)
	require.Equal(t, models.RoleStudent, result.User.Role)

	claims, err := tokens.Verify(result.Token)
	require.NoError(t, err)
	require.Equal(t, result.User.ID, claims.UserID)
	require.Equal(t, models.RoleStudent, claims.Role)
	require.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestRegisterRejectsDuplicateEmailAndAdminRole(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t, nil)
	payload := dto.RegisterRequest{Name: "Grace", Email: "grace@example.com", Password: "secret123", Role: "faculty"}

	_, err := svc.Register(context.Background(), payload)
	require.NoError(t, err)

	payload.Email = "GRACE@example.com"
	_, err = svc.Register(context.Background(), payload)
	require.ErrorIs(t, err, ErrEmailTaken)
	require.ErrorIs(t, err, ErrConflict)

	_, err = svc.Register(context.Background(), dto.RegisterRequest{Name: "Mallory", Email: "m@example.com", Password: "secret123", Role: "admin"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestRegisterValidatesPayload(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t, nil)

	cases := map[string]dto.RegisterRequest{
		"missing name":   {Email: "a@example.com", Password: "secret123"},
		"bad email":      {Name: "A", Email: "not-an-email", Password: "secret123"},
		"short password": {Name: "A", Email: "a@example.com", Password: "123"},
		"unknown role":   {Name: "A", Email: "a@example.com", Password: "secret123", Role: "janitor"},
		"markup in name": {Name: "<script>alert(1)</script>", Email: "a@example.com", Password: "secret123"},
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), payload)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestPasswordLengthIsMeasuredInBytes(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t, nil)

	// 40 runes, 80 bytes: within the validator's rune limit but past bcrypt's byte limit.
	multibyte := strings.Repeat("é", 40)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{Name: "Zoe", Email: "zoe@example.com", Password: multibyte})
	require.ErrorIs(t, err, ErrInvalidInput)
	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	require.Equal(t, "password must be at most 72 bytes", inputErr.Message)

	admin := Actor{ID: 1, Role: models.RoleAdmin}
	_, err = svc.CreateUser(context.Background(), admin, dto.CreateUserRequest{Name: "Zoe", Email: "zoe@example.com", Password: multibyte, Role: "faculty"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(context.Background(), dto.RegisterRequest{Name: "Zoe", Email: "zoe@example.com", Password: strings.Repeat("é", 36)})
	require.NoError(t, err)
}

func TestRegisterKeepsPunctuationInNames(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t, nil)

	result, err := svc.Register(context.Background(), dto.RegisterRequest{Name: "Seán O'Brien & Co", Email: "sean@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.Equal(t, "Seán O'Brien & Co", result.User.Name)
}

func TestLoginUsesGenericCredentialError(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t, nil)
	_, err := svc.Register(context.Background(), dto.RegisterRequest{Name: "Linus", Email: "linus@example.com", Password: "secret123"})
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), dto.LoginRequest{Email: "LINUS@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)

	_, wrongPassword := svc.Login(context.Background(), dto.LoginRequest{Email: "linus@example.com", Password: "nope"})
	_, unknownEmail := svc.Login(context.Background(), dto.LoginRequest{Email: "ghost@example.com", Password: "nope"})
	require.ErrorIs(t, wrongPassword, ErrUnauthorized)
	require.ErrorIs(t, unknownEmail, ErrUnauthorized)
	require.Equal(t, wrongPassword.Error(), unknownEmail.Error())

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "linus@example.com"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestLoginThrottlesRepeatedFailures(t *testing.T) {
	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc, _, _ := newAuthServiceForTest(t, NewRedisLoginLimiter(client, 2, time.Minute))
	_, err := svc.Register(context.Background(), dto.RegisterRequest{Name: "Ken", Email: "ken@example.com", Password: "secret123"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "ken@example.com", Password: "wrong"})
		require.ErrorIs(t, err, ErrUnauthorized)
	}

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "ken@example.com", Password: "secret123"})
	require.ErrorIs(t, err, ErrTooManyLoginAttempts)

	mini.FastForward(2 * time.Minute)
	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "ken@example.com", Password: "secret123"})
	require.NoError(t, err)
}

func TestLoginLimiterResetsOnSuccess(t *testing.T) {
	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter := NewRedisLoginLimiter(client, 3, time.Minute)
	ctx := context.Background()

	require.NoError(t, limiter.RecordFailure(ctx, "a@example.com"))
	require.NoError(t, limiter.RecordFailure(ctx, "a@example.com"))
	allowed, err := limiter.Allow(ctx, "a@example.com")
	require.NoError(t, err)
	require.True(t, allowed)

	require.NoError(t, limiter.Reset(ctx, "a@example.com"))
	require.Empty(t, mini.Keys())
	require.Nil(t, NewRedisLoginLimiter(nil, 3, time.Minute))
}

func TestCreateUserIsAdminOnly(t *testing.T) {
	svc, db, _ := newAuthServiceForTest(t, nil)
	admin := createUser(t, db, "Root", models.RoleAdmin)
	payload := dto.CreateUserRequest{Name: "Prof", Email: "prof@example.com", Password: "secret123", Role: "faculty"}

	_, err := svc.CreateUser(context.Background(), Actor{ID: 2, Role: models.RoleFaculty}, payload)
	require.ErrorIs(t, err, ErrForbidden)

	created, err := svc.CreateUser(context.Background(), Actor{ID: admin.ID, Role: models.RoleAdmin}, payload)
	require.NoError(t, err)
	require.Equal(t, models.RoleFaculty, created.Role)

	_, err = svc.CreateUser(context.Background(), Actor{ID: admin.ID, Role: models.RoleAdmin}, payload)
	require.ErrorIs(t, err, ErrEmailTaken)

	payload.Email = "other@example.com"
	payload.Role = "overlord"
	_, err = svc.CreateUser(context.Background(), Actor{ID: admin.ID, Role: models.RoleAdmin}, payload)
	require.ErrorIs(t, err, ErrInvalidInput)

	payload.Role = "admin"
	promoted, err := svc.CreateUser(context.Background(), Actor{ID: admin.ID, Role: models.RoleAdmin}, payload)
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, promoted.Role)
}

func TestGetProfileAndResolveIdentity(t *testing.T) {
	svc, db, tokens := newAuthServiceForTest(t, nil)

	result, err := svc.Register(context.Background(), dto.RegisterRequest{Name: "Barbara", Email: "barbara@example.com", Password: "secret123", Role: "faculty"})
	require.NoError(t, err)

	profile, err := svc.GetProfile(context.Background(), result.User.ID)
	require.NoError(t, err)
	require.Equal(t, "Barbara", profile.Name)

	_, err = svc.GetProfile(context.Background(), 999)
	require.ErrorIs(t, err, ErrUserNotFound)

	actor, err := svc.ResolveIdentity(context.Background(), result.Token)
	require.NoError(t, err)
	require.Equal(t, result.User.ID, actor.ID)
	require.Equal(t, models.RoleFaculty, actor.Role)
	require.Equal(t, "Barbara", actor.Name)

	_, err = svc.ResolveIdentity(context.Background(), "garbage")
	require.ErrorIs(t, err, ErrUnauthenticated)

	foreign, err := security.NewTokenManager("other-secret", "daily-coding-api").Issue(security.Identity{ID: result.User.ID, Role: models.RoleAdmin}, time.Hour)
	require.NoError(t, err)
	_, err = svc.ResolveIdentity(context.Background(), foreign)
	require.ErrorIs(t, err, ErrUnauthenticated)

	orphan, err := tokens.Issue(security.Identity{ID: 4040, Role: models.RoleAdmin}, time.Hour)
	require.NoError(t, err)
	_, err = svc.ResolveIdentity(context.Background(), orphan)
	require.ErrorIs(t, err, ErrUnauthenticated)

	require.NoError(t, db.Delete(&models.User{}, result.User.ID).Error)
	_, err = svc.ResolveIdentity(context.Background(), result.Token)
	require.ErrorIs(t, err, ErrUnauthenticated)
}
