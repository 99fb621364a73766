package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"
	"inkwell/internal/values"

	"github.com/gofiber/fiber/v2"
)

// ListComments handles GET /api/articles/:slug/comments
func (s *Server) ListComments(c *fiber.Ctx) error {
	slug, err := slugParam(c)
	if err != nil {
		return respondError(c, err)
	}

	comments, err := s.commentService.ListComments(c.UserContext(), slug, viewerOf(c))
	if err != nil {
		return respondError(c, err)
	}
	if comments == nil {
		comments = []models.CommentView{}
	}
	return c.JSON(commentsResponse{Comments: comments})
}

// AddComment handles POST /api/articles/:slug/comments
func (s *Server) AddComment(c *fiber.Ctx) error {
	slug, err := slugParam(c)
	if err != nil {
		return respondError(c, err)
	}

	var req commentBody
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	body, err := values.NewCommentBody(req.Comment.Body)
	if err != nil {
		return respondError(c, err)
	}

	comment, err := s.commentService.AddComment(c.UserContext(), service.AddCommentInput{
		Author: mustUser(c),
		Slug:   slug,
		Body:   body,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(commentResponse{Comment: comment})
}

// DeleteComment handles DELETE /api/articles/:slug/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	slug, err := slugParam(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := values.ParseCommentID(c.Params("id"))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid comment ID"))
	}

	if err := s.commentService.DeleteComment(c.UserContext(), service.DeleteCommentInput{
		Requester: mustUser(c),
		Slug:      slug,
		CommentID: id,
	}); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
