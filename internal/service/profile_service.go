package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/values"
	"inkwell/internal/viewquery"
)

var errSelfFollow = models.NewValidationError("you cannot follow yourself")

type ProfileService struct {
	store repository.Store
}

func NewProfileService(store repository.Store) *ProfileService {
	return &ProfileService{store: store}
}

func (s *ProfileService) findUser(ctx context.Context, username values.Username) (*models.User, error) {
	user, err := s.store.Users().GetBy(ctx, repository.UserByUsername, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("profile", username.String())
	}
	return user, nil
}

func profileOf(user *models.User, following bool) *models.Profile {
	return &models.Profile{
		Username:  user.Username,
		Bio:       user.Bio,
		Image:     user.Image,
		Following: following,
	}
}

func (s *ProfileService) GetProfile(ctx context.Context, username values.Username, viewer viewquery.Viewer) (*models.Profile, error) {
	user, err := s.findUser(ctx, username)
	if err != nil {
		return nil, err
	}

	following := false
	if id, ok := viewer.ID(); ok {
		following, err = s.store.Profiles().IsFollowing(ctx, id, values.UserID(user.ID))
		if err != nil {
			return nil, err
		}
	}
	return profileOf(user, following), nil
}

// Follow is idempotent.
func (s *ProfileService) Follow(ctx context.Context, follower values.UserID, username values.Username) (*models.Profile, error) {
	user, err := s.findUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if user.ID == uint(follower) {
		return nil, errSelfFollow
	}
	if err := s.store.Profiles().Follow(ctx, follower, values.UserID(user.ID)); err != nil {
		return nil, err
	}
	return profileOf(user, true), nil
}

// Unfollow is idempotent: removing a missing edge, including one to
// yourself, succeeds.
func (s *ProfileService) Unfollow(ctx context.Context, follower values.UserID, username values.Username) (*models.Profile, error) {
	user, err := s.findUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := s.store.Profiles().Unfollow(ctx, follower, values.UserID(user.ID)); err != nil {
		return nil, err
	}
	return profileOf(user, false), nil
}
