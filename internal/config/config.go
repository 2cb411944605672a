package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvProduction marks a production deployment.
const EnvProduction = "production"

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName            string
	AppEnv             string
	AppPort            string
	DatabaseURL        string
	RedisURL           string
	JWTSecret          string
	JWTSecretGenerated bool
	LoginTokenTTL      time.Duration
	RegisterTokenTTL   time.Duration
	CORSAllowedOrigin  string
	QuestionTimezone   string
	AdminName          string
	AdminEmail         string
	AdminPassword      string
	LoginMaxAttempts   int
	LoginWindow        time.Duration
	AuthRateLimit      int
	OTelEndpoint       string
	BcryptCost         int
	DashboardCacheTTL  time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, EnvProduction)
}

// Location resolves the reference timezone used for question day windows.
func (c Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.QuestionTimezone)
	if name == "" {
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid question timezone %q: %w", name, err)
	}

	return loc, nil
}

// AllowedOrigins returns the CORS origin list passed to the cors middleware.
func (c Config) AllowedOrigins() string {
	if origin := strings.TrimSpace(c.CORSAllowedOrigin); origin != "" {
		return origin
	}
	if c.IsProduction() {
		return ""
	}
	return "*"
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("DAILY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Daily Coding API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "5000")
	v.SetDefault("jwt.login_ttl", "24h")
	v.SetDefault("jwt.register_ttl", "168h")
	v.SetDefault("question.timezone", "UTC")
	v.SetDefault("admin.name", "Administrator")
	v.SetDefault("login.max_attempts", 5)
	v.SetDefault("login.window", "15m")
	v.SetDefault("auth.rate_limit", 30)
	v.SetDefault("bcrypt.cost", 10)
	v.SetDefault("dashboard.cache_ttl", "30s")

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	loginTTL, err := parseDuration(v.GetString("jwt.login_ttl"), 24*time.Hour)
	if err != nil {
		return Config{}, fmt.Errorf("invalid login token ttl: %w", err)
	}

	registerTTL, err := parseDuration(v.GetString("jwt.register_ttl"), 7*24*time.Hour)
	if err != nil {
		return Config{}, fmt.Errorf("invalid register token ttl: %w", err)
	}

	loginWindow, err := parseDuration(v.GetString("login.window"), 15*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid login window: %w", err)
	}

	dashboardTTL, err := parseDuration(v.GetString("dashboard.cache_ttl"), 0)
	if err != nil {
		return Config{}, fmt.Errorf("invalid dashboard cache ttl: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            strings.ToLower(strings.TrimSpace(v.GetString("app.env"))),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		JWTSecret:         v.GetString("jwt.secret"),
		LoginTokenTTL:     loginTTL,
		RegisterTokenTTL:  registerTTL,
		CORSAllowedOrigin: v.GetString("cors.allowed_origin"),
		QuestionTimezone:  v.GetString("question.timezone"),
		AdminName:         v.GetString("admin.name"),
		AdminEmail:        strings.ToLower(strings.TrimSpace(v.GetString("admin.email"))),
		AdminPassword:     v.GetString("admin.password"),
		LoginMaxAttempts:  v.GetInt("login.max_attempts"),
		LoginWindow:       loginWindow,
		AuthRateLimit:     v.GetInt("auth.rate_limit"),
		OTelEndpoint:      v.GetString("otel.endpoint"),
		BcryptCost:        v.GetInt("bcrypt.cost"),
		DashboardCacheTTL: dashboardTTL,
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return Config{}, fmt.Errorf("jwt secret must be provided in production")
		}
		cfg.JWTSecret = uuid.NewString()
		cfg.JWTSecretGenerated = true
	}

	if cfg.LoginTokenTTL > 7*24*time.Hour || cfg.RegisterTokenTTL > 7*24*time.Hour {
		return Config{}, fmt.Errorf("token ttl must not exceed 7 days")
	}

	if _, err := cfg.Location(); err != nil {
		return Config{}, err
	}

	if cfg.BcryptCost < 10 {
		cfg.BcryptCost = 10
	}

	return cfg, nil
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}

	return time.ParseDuration(value)
}
