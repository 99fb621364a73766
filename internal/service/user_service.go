package service

import (
	"context"
	"errors"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/values"

	"golang.org/x/crypto/bcrypt"
)

var (
	errUsernameTaken      = models.NewConflictError("username has already been taken")
	errEmailTaken         = models.NewConflictError("email has already been taken")
	errInvalidCredentials = models.NewUnauthorizedError("invalid email or password")
)

type UserService struct {
	store    repository.Store
	hashCost int
}

type RegisterInput struct {
	Username values.Username
	Email    values.Email
	Password values.Password
}

type LoginInput struct {
	Email    values.Email
	Password values.Password
}

// UpdateUserInput carries the fields to change; nil fields are left alone.
type UpdateUserInput struct {
	UserID   values.UserID
	Email    *values.Email
	Username *values.Username
	Password *values.Password
	Bio      *values.Bio
	Image    *values.Image
}

func NewUserService(store repository.Store) *UserService {
	return &UserService{store: store, hashCost: bcrypt.DefaultCost}
}

func (s *UserService) hash(password values.Password) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password.Reveal()), s.hashCost)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return string(hashed), nil
}

// ensureFree fails with Conflict when another user already owns value in
// field. self is ignored so a user can resubmit their own values.
func (s *UserService) ensureFree(ctx context.Context, field repository.UserField, value interface{}, self uint, conflict error) error {
	existing, err := s.store.Users().GetBy(ctx, field, value)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return conflict
	}
	return nil
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := s.ensureFree(ctx, repository.UserByUsername, in.Username, 0, errUsernameTaken); err != nil {
		return nil, err
	}
	if err := s.ensureFree(ctx, repository.UserByEmail, in.Email, 0, errEmailTaken); err != nil {
		return nil, err
	}

	hashed, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     in.Username.String(),
		Email:        in.Email.String(),
		PasswordHash: hashed,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login fails with the same Unauthorized error for an unknown email and a
// wrong password.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*models.User, error) {
	user, err := s.store.Users().GetBy(ctx, repository.UserByEmail, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password.Reveal()))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id values.UserID) (*models.User, error) {
	user, err := s.store.Users().GetBy(ctx, repository.UserByID, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("user", uint(id))
	}
	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, in UpdateUserInput) (*models.User, error) {
	upd := &repository.UserUpdate{}
	self := uint(in.UserID)

	if in.Username != nil {
		if err := s.ensureFree(ctx, repository.UserByUsername, *in.Username, self, errUsernameTaken); err != nil {
			return nil, err
		}
		upd.SetUsername(*in.Username)
	}
	if in.Email != nil {
		if err := s.ensureFree(ctx, repository.UserByEmail, *in.Email, self, errEmailTaken); err != nil {
			return nil, err
		}
		upd.SetEmail(*in.Email)
	}
	if in.Password != nil {
		hashed, err := s.hash(*in.Password)
		if err != nil {
			return nil, err
		}
		upd.SetPasswordHash(hashed)
	}
	if in.Bio != nil {
		upd.SetBio(*in.Bio)
	}
	if in.Image != nil {
		upd.SetImage(*in.Image)
	}

	return s.store.Users().Update(ctx, in.UserID, upd)
}
