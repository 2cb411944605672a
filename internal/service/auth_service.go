package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
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
	"github.com/noah-isme/daily-coding-api/internal/security"
)

// TokenPolicy configures token lifetimes and hashing cost for the auth service.
type TokenPolicy struct {
	LoginTTL    time.Duration
	RegisterTTL time.Duration
	BcryptCost  int
}

// AuthService covers registration, login and identity resolution.
type AuthService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResult, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResult, error)
	CreateUser(ctx context.Context, caller Actor, payload dto.CreateUserRequest) (dto.UserResponse, error)
	GetProfile(ctx context.Context, userID uint) (dto.UserResponse, error)
	ResolveIdentity(ctx context.Context, rawToken string) (Actor, error)
}

type authService struct {
	users     repository.UserRepository
	tokens    *security.TokenManager
	validator *validator.Validate
	limiter   LoginLimiter
	policy    TokenPolicy
	sanitizer *bluemonday.Policy
	dashboard DashboardInvalidator
	tracer    trace.Tracer
	logger    zerolog.Logger

	decoyOnce sync.Once
	decoyHash string
}

// NewAuthService constructs the authentication service. limiter and dashboard may be nil.
func NewAuthService(users repository.UserRepository, tokens *security.TokenManager, validate *validator.Validate, limiter LoginLimiter, policy TokenPolicy, dashboard DashboardInvalidator, logger zerolog.Logger) AuthService {
	if policy.LoginTTL <= 0 {
		policy.LoginTTL = 24 * time.Hour
	}
	if policy.RegisterTTL <= 0 {
		policy.RegisterTTL = 7 * 24 * time.Hour
	}

	return &authService{
		users:     users,
		tokens:    tokens,
		validator: validate,
		limiter:   limiter,
		policy:    policy,
		sanitizer: bluemonday.StrictPolicy(),
		dashboard: dashboard,
		tracer:    otel.Tracer("github.com/noah-isme/daily-coding-api/internal/service/auth"),
		logger:    logger.With().Str("component", "auth_service").Logger(),
	}
}

func (s *authService) Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResult, error) {
	payload.Email = normalizeEmail(payload.Email)
	payload.Role = normalizeRole(payload.Role)
	if payload.Role == "" {
		payload.Role = models.RoleStudent
	}
	if err := Validate(s.validator, payload); err != nil {
		return dto.AuthResult{}, err
	}
	if payload.Role == models.RoleAdmin {
		return dto.AuthResult{}, invalidInput("role must be one of: student, faculty")
	}

	user, err := s.createUser(ctx, payload.Name, payload.Email, payload.Password, payload.Role)
	if err != nil {
		return dto.AuthResult{}, err
	}

	token, err := s.issue(user, s.policy.RegisterTTL)
	if err != nil {
		return dto.AuthResult{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("role", user.Role).Msg("user registered")

	return dto.AuthResult{Token: token, User: dto.NewUserResponse(user)}, nil
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResult, error) {
	ctx, span := s.tracer.Start(ctx, "auth.login")
	defer span.End()

	payload.Email = normalizeEmail(payload.Email)
	if err := Validate(s.validator, payload); err != nil {
		return dto.AuthResult{}, err
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, payload.Email)
		if err != nil {
			s.logger.Warn().Err(err).Msg("login limiter unavailable")
		} else if !allowed {
			span.SetAttributes(attribute.Bool("auth.throttled", true))
			observability.RecordLogin("throttled")
			return dto.AuthResult{}, ErrTooManyLoginAttempts
		}
	}

	user, err := s.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "lookup_failed")
			return dto.AuthResult{}, err
		}
		// Spend the same hashing work as a real comparison.
		_ = security.CheckPassword(s.decoy(), payload.Password)
		s.recordFailure(ctx, payload.Email)
		observability.RecordLogin("failure")
		return dto.AuthResult{}, ErrUnauthorized
	}

	if err := security.CheckPassword(user.PasswordHash, payload.Password); err != nil {
		s.recordFailure(ctx, payload.Email)
		observability.RecordLogin("failure")
		return dto.AuthResult{}, ErrUnauthorized
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, payload.Email); err != nil {
			s.logger.Warn().Err(err).Msg("failed to reset login attempts")
		}
	}

	token, err := s.issue(user, s.policy.LoginTTL)
	if err != nil {
		return dto.AuthResult{}, err
	}

	span.SetAttributes(attribute.Int64("auth.user_id", int64(user.ID)))
	observability.RecordLogin("success")
	s.logger.Info().Uint("user_id", user.ID).Msg("user logged in")

	return dto.AuthResult{Token: token, User: dto.NewUserResponse(user)}, nil
}

func (s *authService) CreateUser(ctx context.Context, caller Actor, payload dto.CreateUserRequest) (dto.UserResponse, error) {
	if !caller.IsAdmin() {
		return dto.UserResponse{}, ErrForbidden
	}

	payload.Email = normalizeEmail(payload.Email)
	payload.Role = normalizeRole(payload.Role)
	if err := Validate(s.validator, payload); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.createUser(ctx, payload.Name, payload.Email, payload.Password, payload.Role)
	if err != nil {
		return dto.UserResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Uint("created_by", caller.ID).Str("role", user.Role).Msg("user created by admin")

	return dto.NewUserResponse(user), nil
}

func (s *authService) GetProfile(ctx context.Context, userID uint) (dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *authService) ResolveIdentity(ctx context.Context, rawToken string) (Actor, error) {
	claims, err := s.tokens.Verify(rawToken)
	if err != nil {
		return Actor{}, ErrUnauthenticated
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Actor{}, ErrUnauthenticated
		}
		return Actor{}, err
	}

	return actorFromUser(user), nil
}

func (s *authService) createUser(ctx context.Context, name, email, password, role string) (models.User, error) {
	email = normalizeEmail(email)
	name, ok := plainText(s.sanitizer, name)
	if !ok {
		return models.User{}, invalidInput("name must not contain markup")
	}
	if name == "" {
		return models.User{}, invalidInput("name is required")
	}
	if !models.IsValidRole(role) {
		return models.User{}, invalidInput("role must be one of: student, faculty, admin")
	}
	if len(password) > security.MaxPasswordBytes {
		return models.User{}, invalidInput("password must be at most %d bytes", security.MaxPasswordBytes)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return models.User{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}

	hash, err := security.HashPassword(password, s.policy.BcryptCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}

	// The unique index arbitrates registrations racing past the lookup above.
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}

	invalidateDashboard(ctx, s.dashboard)
	return user, nil
}

func (s *authService) issue(user models.User, ttl time.Duration) (string, error) {
	token, err := s.tokens.Issue(security.Identity{ID: user.ID, Role: user.Role, Email: user.Email}, ttl)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}

func (s *authService) recordFailure(ctx context.Context, key string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, key); err != nil {
		s.logger.Warn().Err(err).Msg("failed to record login failure")
	}
}

func (s *authService) decoy() string {
	s.decoyOnce.Do(func() {
		hash, err := security.HashPassword("decoy-password", s.policy.BcryptCost)
		if err == nil {
			s.decoyHash = hash
		}
	})
	return s.decoyHash
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}
