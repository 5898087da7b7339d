package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/startconnect/api/internal/app/models"
	appRepos "github.com/startconnect/api/internal/app/repositories"
	"github.com/startconnect/api/internal/config"
	"github.com/startconnect/api/internal/pkg/apperrors"
	"github.com/startconnect/api/internal/pkg/auth"
)

// CreateDefaultData seeds the initial admin account if it doesn't exist.
// The credentials come from ADMIN_EMAIL/ADMIN_PASSWORD, with development
// fallbacks.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)

	adminEmail := config.GetEnv("ADMIN_EMAIL", "admin@startconnect.app")
	adminPassword := config.GetEnv("ADMIN_PASSWORD", "admin123!")

	lgr.Info().Msg("Checking/Creating default admin account...")

	hashed, err := auth.HashPassword(adminPassword)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return err
	}

	admin := &appModels.User{
		Name:       "Administrator",
		Email:      adminEmail,
		Password:   hashed,
		Role:       appModels.RoleAdmin,
		IsVerified: true,
	}

	if _, err := userRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			lgr.Debug().Str("email", adminEmail).Msg("Admin account already exists, skipping")
			return nil
		}
		lgr.Error().Err(err).Msg("Error creating admin account")
		return err
	}

	lgr.Info().Str("email", adminEmail).Msg("Admin account created")
	return nil
}
