package repository

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/values"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository manages follow edges between users.
type ProfileRepository interface {
	// Follow is idempotent.
	Follow(ctx context.Context, follower, followee values.UserID) error
	Unfollow(ctx context.Context, follower, followee values.UserID) error
	IsFollowing(ctx context.Context, follower, followee values.UserID) (bool, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Follow(ctx context.Context, follower, followee values.UserID) error {
	edge := models.UserFollow{FollowerID: uint(follower), FolloweeID: uint(followee)}
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&edge).Error
	return storeError(ctx, "profile.Follow", err)
}

func (r *profileRepository) Unfollow(ctx context.Context, follower, followee values.UserID) error {
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", follower, followee).
		Delete(&models.UserFollow{}).Error
	return storeError(ctx, "profile.Unfollow", err)
}

func (r *profileRepository) IsFollowing(ctx context.Context, follower, followee values.UserID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UserFollow{}).
		Where("follower_id = ? AND followee_id = ?", follower, followee).
		Count(&count).Error
	if err != nil {
		return false, storeError(ctx, "profile.IsFollowing", err)
	}
	return count > 0, nil
}
