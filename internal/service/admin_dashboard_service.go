package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/daily-coding-api/internal/dto"
	"github.com/noah-isme/daily-coding-api/internal/models"
	"github.com/noah-isme/daily-coding-api/internal/repository"
)

const adminDashboardCacheKey = "dashboard:admin"

// AdminDashboardService reports platform wide totals.
type AdminDashboardService interface {
	GetDashboard(ctx context.Context) (dto.AdminDashboardResponse, error)
}

type adminDashboardService struct {
	users     repository.UserRepository
	questions repository.QuestionRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	logger    zerolog.Logger
}

// NewAdminDashboardService builds the admin dashboard. Counts are cached for ttl when cache is set.
func NewAdminDashboardService(users repository.UserRepository, questions repository.QuestionRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) AdminDashboardService {
	return &adminDashboardService{
		users:     users,
		questions: questions,
		cache:     cache,
		cacheTTL:  ttl,
		logger:    logger.With().Str("component", "admin_dashboard_service").Logger(),
	}
}

func (s *adminDashboardService) GetDashboard(ctx context.Context) (dto.AdminDashboardResponse, error) {
	if s.cacheEnabled() {
		if cached, err := s.cache.Get(ctx, adminDashboardCacheKey).Bytes(); err == nil {
			var response dto.AdminDashboardResponse
			if err := json.Unmarshal(cached, &response); err == nil {
				return response, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	var (
		response dto.AdminDashboardResponse
		err      error
	)
	if response.TotalUsers, err = s.users.Count(ctx); err != nil {
		return dto.AdminDashboardResponse{}, err
	}
	if response.TotalQuestions, err = s.questions.Count(ctx); err != nil {
		return dto.AdminDashboardResponse{}, err
	}
	if response.TotalStudents, err = s.users.CountByRole(ctx, models.RoleStudent); err != nil {
		return dto.AdminDashboardResponse{}, err
	}
	if response.TotalFaculty, err = s.users.CountByRole(ctx, models.RoleFaculty); err != nil {
		return dto.AdminDashboardResponse{}, err
	}

	if s.cacheEnabled() {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, adminDashboardCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}

func (s *adminDashboardService) cacheEnabled() bool {
	return s.cache != nil && s.cacheTTL > 0
}

// DashboardInvalidator drops cached admin totals after a write that changes them.
type DashboardInvalidator interface {
	Invalidate(ctx context.Context)
}

type redisDashboardInvalidator struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewDashboardCacheInvalidator returns nil when client is nil.
func NewDashboardCacheInvalidator(client *redis.Client, logger zerolog.Logger) DashboardInvalidator {
	if client == nil {
		return nil
	}
	return &redisDashboardInvalidator{
		client: client,
		logger: logger.With().Str("component", "admin_dashboard_cache").Logger(),
	}
}

func (i *redisDashboardInvalidator) Invalidate(ctx context.Context) {
	if err := i.client.Del(ctx, adminDashboardCacheKey).Err(); err != nil {
		i.logger.Warn().Err(err).Msg("failed to invalidate dashboard cache")
	}
}

func invalidateDashboard(ctx context.Context, invalidator DashboardInvalidator) {
	if invalidator != nil {
		invalidator.Invalidate(ctx)
	}
}
