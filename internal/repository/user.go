package repository

import (
	"context"
	"errors"
	"time"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/values"

	"gorm.io/gorm"
)

// UserField names a column a user can be looked up by.
type UserField int

const (
	UserByID UserField = iota
	UserByEmail
	UserByUsername
)

func (f UserField) column() string {
	switch f {
	case UserByEmail:
		return "email"
	case UserByUsername:
		return "username"
	default:
		return "id"
	}
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	// GetBy returns nil when no user matches.
	GetBy(ctx context.Context, field UserField, value interface{}) (*models.User, error)
	Update(ctx context.Context, id values.UserID, upd *UserUpdate) (*models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return storeError(ctx, "user.Create", r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) GetBy(ctx context.Context, field UserField, value interface{}) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where(field.column()+" = ?", value).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError(ctx, "user.GetBy", err)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, id values.UserID, upd *UserUpdate) (*models.User, error) {
	if upd.IsEmpty() {
		return nil, errNoFieldsToUpdate
	}
	middleware.Logger.DebugContext(ctx, "user update", "id", id, "fields", upd.Fields())

	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(upd.fields.columns(time.Now()))
	if res.Error != nil {
		return nil, storeError(ctx, "user.Update", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("user", uint(id))
	}

	return r.GetBy(ctx, UserByID, id)
}
