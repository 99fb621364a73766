package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"
	"inkwell/internal/values"

	"github.com/gofiber/fiber/v2"
)

// Register handles POST /api/users
func (s *Server) Register(c *fiber.Ctx) error {
	var req userBody
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	username, err := values.NewUsername(deref(req.User.Username))
	if err != nil {
		return respondError(c, err)
	}
	email, err := values.NewEmail(deref(req.User.Email))
	if err != nil {
		return respondError(c, err)
	}
	password, err := values.NewPassword(deref(req.User.Password))
	if err != nil {
		return respondError(c, err)
	}

	user, err := s.userService.Register(c.UserContext(), service.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return respondError(c, err)
	}

	return s.respondWithUser(c, fiber.StatusCreated, user)
}

// Login handles POST /api/users/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req userBody
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	email, err := values.NewEmail(deref(req.User.Email))
	if err != nil {
		return respondError(c, err)
	}
	// A password that could never have been registered cannot match.
	password, err := values.NewPassword(deref(req.User.Password))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("invalid email or password"))
	}

	user, err := s.userService.Login(c.UserContext(), service.LoginInput{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return respondError(c, err)
	}

	return s.respondWithUser(c, fiber.StatusOK, user)
}

// GetCurrentUser handles GET /api/user
func (s *Server) GetCurrentUser(c *fiber.Ctx) error {
	user, err := s.userService.GetUser(c.UserContext(), mustUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return s.respondWithUser(c, fiber.StatusOK, user)
}

// UpdateCurrentUser handles PUT /api/user
func (s *Server) UpdateCurrentUser(c *fiber.Ctx) error {
	var req userBody
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	in := service.UpdateUserInput{UserID: mustUser(c)}
	if req.User.Username != nil {
		username, err := values.NewUsername(*req.User.Username)
		if err != nil {
			return respondError(c, err)
		}
		in.Username = &username
	}
	if req.User.Email != nil {
		email, err := values.NewEmail(*req.User.Email)
		if err != nil {
			return respondError(c, err)
		}
		in.Email = &email
	}
	if req.User.Password != nil {
		password, err := values.NewPassword(*req.User.Password)
		if err != nil {
			return respondError(c, err)
		}
		in.Password = &password
	}
	if req.User.Bio != nil {
		bio, err := values.NewBio(*req.User.Bio)
		if err != nil {
			return respondError(c, err)
		}
		in.Bio = &bio
	}
	if req.User.Image != nil {
		image, err := values.NewImage(*req.User.Image)
		if err != nil {
			return respondError(c, err)
		}
		in.Image = &image
	}

	user, err := s.userService.UpdateUser(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return s.respondWithUser(c, fiber.StatusOK, user)
}

// respondWithUser issues a fresh token for user and writes the user envelope.
func (s *Server) respondWithUser(c *fiber.Ctx, status int, user *models.User) error {
	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	return c.Status(status).JSON(userResponse{User: authUser{
		Email:    user.Email,
		Token:    token,
		Username: user.Username,
		Bio:      user.Bio,
		Image:    user.Image,
	}})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
