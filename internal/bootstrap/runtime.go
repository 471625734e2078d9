// Package bootstrap wires up runtime dependencies shared by the server and
// auxiliary commands.
package bootstrap

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"ripple/internal/cache"
	"ripple/internal/config"
	"ripple/internal/database"
	"ripple/internal/models"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// InitRuntime connects to DB and Redis and runs optional development bootstrap.
func InitRuntime(cfg *config.Config) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Redis is optional; an unreachable instance yields a nil client and the
	// cache layer degrades to pass-through.
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if err := ensureDevUser(cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap development user: %w", err)
	}

	return db, r, nil
}

// ensureDevUser creates a fixed login account in development so local
// frontends always have credentials that work.
func ensureDevUser(cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") || !cfg.DevBootstrapUser {
		return nil
	}

	email := strings.TrimSpace(strings.ToLower(cfg.DevUserEmail))
	if email == "" {
		email = "dev@ripple.local"
	}
	password := cfg.DevUserPassword
	if password == "" {
		return fmt.Errorf("DEV_USER_PASSWORD must be set when DEV_BOOTSTRAP_USER is enabled")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash dev password: %w", err)
	}

	var existing models.User
	findErr := db.Where("email = ?", email).First(&existing).Error
	switch {
	case errors.Is(findErr, gorm.ErrRecordNotFound):
		user := models.User{
			Username: "ripple_dev",
			Email:    email,
			Password: string(hashedPassword),
			Bio:      "Local development account.",
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
	case findErr != nil:
		return findErr
	default:
		if err := db.Model(&models.User{}).Where("id = ?", existing.ID).
			Update("password", string(hashedPassword)).Error; err != nil {
			return err
		}
	}

	log.Printf("development user bootstrap ensured for %s", email)
	return nil
}
