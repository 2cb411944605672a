package bootstrap

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/daily-coding-api/internal/config"
	"github.com/noah-isme/daily-coding-api/internal/handler"
	"github.com/noah-isme/daily-coding-api/internal/middleware"
	"github.com/noah-isme/daily-coding-api/internal/repository"
	"github.com/noah-isme/daily-coding-api/internal/router"
	"github.com/noah-isme/daily-coding-api/internal/security"
	"github.com/noah-isme/daily-coding-api/internal/service"
	"github.com/noah-isme/daily-coding-api/internal/utils"
)

// Resources are the long lived handles the server is built on. Redis is optional.
type Resources struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Logger zerolog.Logger
	// Now overrides the clock used to resolve the question of the day.
	Now func() time.Time
}

// NewServer wires repositories, services and handlers into a ready to listen fiber app.
func NewServer(cfg config.Config, res Resources) (*fiber.App, error) {
	if res.DB == nil {
		return nil, errors.New("database handle is required")
	}

	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	logger := res.Logger
	validate := service.NewValidator()
	tokens := security.NewTokenManager(cfg.JWTSecret, cfg.AppName)

	userRepo := repository.NewUserRepository(res.DB)
	questionRepo := repository.NewQuestionRepository(res.DB)
	submissionRepo := repository.NewSubmissionRepository(res.DB)

	dashboardCache := service.NewDashboardCacheInvalidator(res.Redis, logger)
	authService := service.NewAuthService(
		userRepo,
		tokens,
		validate,
		service.NewRedisLoginLimiter(res.Redis, cfg.LoginMaxAttempts, cfg.LoginWindow),
		service.TokenPolicy{
			LoginTTL:    cfg.LoginTokenTTL,
			RegisterTTL: cfg.RegisterTokenTTL,
			BcryptCost:  cfg.BcryptCost,
		},
		dashboardCache,
		logger,
	)
	questionService := service.NewQuestionService(questionRepo, validate, location, dashboardCache, logger)
	if res.Now != nil {
		questionService = service.WithClock(questionService, res.Now)
	}
	submissionService := service.NewSubmissionService(submissionRepo, validate, logger)
	studentDashboard := service.NewStudentDashboardService(userRepo, submissionRepo, questionService, logger)
	adminDashboard := service.NewAdminDashboardService(userRepo, questionRepo, res.Redis, cfg.DashboardCacheTTL, logger)
	facultyService := service.NewFacultyService(userRepo, questionRepo, submissionRepo, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    1 << 20,
		ErrorHandler: errorHandler(logger),
	})

	middleware.Register(app, middleware.Config{
		Logger:         &logger,
		AllowedOrigins: cfg.AllowedOrigins(),
	})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:    handler.NewAuthHandler(authService, logger),
		StudentHandler: handler.NewStudentHandler(studentDashboard, questionService, submissionService, logger),
		AdminHandler:   handler.NewAdminHandler(adminDashboard, questionService, logger),
		FacultyHandler: handler.NewFacultyHandler(facultyService, logger),
		Resolver:       authService,
	})

	return app, nil
}

// errorHandler renders errors escaping the handlers in the standard envelope.
func errorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return utils.SendError(c, fiberErr.Code, "http_error", fiberErr.Message)
		}

		logger.Error().
			Err(err).
			Str("correlation_id", middleware.GetCorrelationID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("unhandled error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal", "internal server error")
	}
}
