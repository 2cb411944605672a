package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/daily-coding-api/internal/models"
)

// AdminSeed describes the bootstrap administrator account.
type AdminSeed struct {
	Name         string
	Email        string
	PasswordHash string
}

// EnsureAdminUser creates the bootstrap administrator when no account uses its email.
// It reports whether a new account was created.
func EnsureAdminUser(ctx context.Context, db *gorm.DB, seed AdminSeed) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(seed.Email))
	if email == "" || seed.PasswordHash == "" {
		return false, nil
	}

	var existing models.User
	err := db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("lookup admin user: %w", err)
	}

	admin := models.User{
		Name:         seed.Name,
		Email:        email,
		PasswordHash: seed.PasswordHash,
		Role:         models.RoleAdmin,
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, fmt.Errorf("create admin user: %w", err)
	}

	return true, nil
}
