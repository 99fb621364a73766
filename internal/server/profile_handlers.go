package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/profiles/:username
func (s *Server) GetProfile(c *fiber.Ctx) error {
	username, err := usernameParam(c)
	if err != nil {
		return respondError(c, err)
	}

	profile, err := s.profileService.GetProfile(c.UserContext(), username, viewerOf(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profileResponse{Profile: profile})
}

// FollowUser handles POST /api/profiles/:username/follow
func (s *Server) FollowUser(c *fiber.Ctx) error {
	username, err := usernameParam(c)
	if err != nil {
		return respondError(c, err)
	}

	profile, err := s.profileService.Follow(c.UserContext(), mustUser(c), username)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profileResponse{Profile: profile})
}

// UnfollowUser handles DELETE /api/profiles/:username/follow
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	username, err := usernameParam(c)
	if err != nil {
		return respondError(c, err)
	}

	profile, err := s.profileService.Unfollow(c.UserContext(), mustUser(c), username)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profileResponse{Profile: profile})
}
