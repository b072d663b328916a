// Package seed creates the default records a fresh installation needs:
// one admin account and a demo course with an open batch.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	appModels "github.com/mertdogan/coursehub/internal/app/models"
	appRepos "github.com/mertdogan/coursehub/internal/app/repositories"
	pkgAuth "github.com/mertdogan/coursehub/internal/pkg/auth"
)

const (
	defaultAdminEmail = "admin@coursehub.app"
	// Default password, expected to be changed on first login
	defaultAdminPassword = "ChangeMe123"

	demoCourseName = "Getting Started with CourseHub"
)

// CreateDefaultData seeds the default admin account and a demo course with
// one batch. Existing records are left untouched, so the seed is safe to
// run on every startup.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data...")
	var finalErr error

	exists, err := userRepo.EmailExists(ctx, defaultAdminEmail)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking for default admin account")
		finalErr = errors.Join(finalErr, err)
	} else if !exists {
		hashed, err := pkgAuth.HashPassword(defaultAdminPassword)
		if err != nil {
			lgr.Error().Err(err).Msg("Error hashing default admin password")
			finalErr = errors.Join(finalErr, err)
		} else {
			admin := &appModels.User{
				Name:     "CourseHub Admin",
				Email:    defaultAdminEmail,
				Password: hashed,
				Role:     appModels.RoleAdmin,
				IsActive: true,
			}
			if err := userRepo.Create(ctx, admin); err != nil {
				lgr.Error().Err(err).Msg("Error creating default admin account")
				finalErr = errors.Join(finalErr, err)
			} else {
				lgr.Info().Str("email", defaultAdminEmail).Msg("Default admin account created")
			}
		}
	}

	if err := seedDemoCourse(ctx, dbPool, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	if finalErr != nil {
		lgr.Warn().Err(finalErr).Msg("Some errors occurred during default data creation")
	} else {
		lgr.Info().Msg("Default data check complete.")
	}
	return finalErr
}

// seedDemoCourse inserts an approved demo course with one open batch
func seedDemoCourse(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	var exists bool
	err := dbPool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM courses WHERE name = $1)`, demoCourseName).Scan(&exists)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking for demo course")
		return err
	}
	if exists {
		return nil
	}

	var courseID int64
	err = dbPool.QueryRow(ctx, `
		INSERT INTO courses (name, description, level, category, price, is_active, is_approved)
		VALUES ($1, $2, 'BEGINNER', 'platform', 0, TRUE, TRUE)
		RETURNING id`,
		demoCourseName,
		"A short introduction to the platform: finding courses, requesting enrollment and watching videos.",
	).Scan(&courseID)
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating demo course")
		return err
	}

	start := time.Now()
	_, err = dbPool.Exec(ctx, `
		INSERT INTO batches (title, course_id, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, TRUE)`,
		"Open Cohort", courseID, start, start.AddDate(1, 0, 0))
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating demo batch")
		return err
	}

	lgr.Info().Str("course", demoCourseName).Msg("Demo course and batch created")
	return nil
}
