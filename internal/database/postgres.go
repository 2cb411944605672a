package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/noah-isme/daily-coding-api/internal/models"
)

// Options returns the gorm configuration shared by every dialect the API runs on.
// Duplicate-key errors are translated to gorm.ErrDuplicatedKey so services can
// map unique index violations without knowing the driver.
func Options() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		// References between records are advisory; no foreign keys are created.
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// ConnectPostgres establishes a connection to the PostgreSQL database using the provided DSN
// and verifies it is reachable.
func ConnectPostgres(ctx context.Context, dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn must not be empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), Options())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("postgres unreachable: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the tables backing the API.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Question{}, &models.Submission{})
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
