// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"log/slog"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/observability"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

var conflictMessages = map[string]string{
	"idx_articles_slug":  "an article with this slug already exists",
	"idx_users_username": "username has already been taken",
	"idx_users_email":    "email has already been taken",
	"idx_tags_name":      "tag already exists",
}

// storeError converts a persistence failure into the application taxonomy.
// Unique violations become conflicts; anything else is logged and reported as
// a store error. AppErrors pass through untouched.
func storeError(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		if msg, ok := conflictMessages[pgErr.ConstraintName]; ok {
			return models.NewConflictError(msg)
		}
		return models.NewConflictError("resource already exists")
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.NewConflictError("resource already exists")
	}

	observability.StoreErrors.WithLabelValues(op).Inc()
	middleware.Logger.ErrorContext(ctx, "store operation failed",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
	return models.NewStoreError(err)
}
