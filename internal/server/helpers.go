package server

import (
	"errors"
	"net/http"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/values"
	"inkwell/internal/viewquery"

	"github.com/gofiber/fiber/v2"
)

const (
	maxPaginationLimit = 100
)

// parsePagination reads the optional limit and offset query parameters.
// Missing, malformed and negative values are left nil so the list defaults
// apply; limit is capped at maxPaginationLimit.
func parsePagination(c *fiber.Ctx) (limit, offset *int) {
	if l := c.QueryInt("limit", -1); l >= 0 {
		if l > maxPaginationLimit {
			l = maxPaginationLimit
		}
		limit = &l
	}
	if o := c.QueryInt("offset", -1); o >= 0 {
		offset = &o
	}
	return limit, offset
}

// currentUser returns the authenticated user id, if any.
func currentUser(c *fiber.Ctx) (values.UserID, bool) {
	id, ok := c.Locals(middleware.LocalUserID).(uint)
	if !ok || id == 0 {
		return 0, false
	}
	return values.UserID(id), true
}

// viewerOf returns the viewer for the request: the authenticated user or
// anonymous.
func viewerOf(c *fiber.Ctx) viewquery.Viewer {
	if id, ok := currentUser(c); ok {
		return viewquery.ViewerOf(id)
	}
	return viewquery.Anonymous()
}

// mustUser returns the user id set by AuthRequired.
func mustUser(c *fiber.Ctx) values.UserID {
	id, _ := currentUser(c)
	return id
}

// slugParam parses the :slug route parameter and scopes the request context
// to that article.
func slugParam(c *fiber.Ctx) (values.Slug, error) {
	slug, err := values.NewSlug(c.Params("slug"))
	if err != nil {
		return values.Slug{}, err
	}
	c.SetUserContext(middleware.WithArticle(c.UserContext(), slug.String()))
	return slug, nil
}

// usernameParam parses the :username route parameter and scopes the request
// context to that profile.
func usernameParam(c *fiber.Ctx) (values.Username, error) {
	username, err := values.NewUsername(c.Params("username"))
	if err != nil {
		return values.Username{}, err
	}
	c.SetUserContext(middleware.WithProfile(c.UserContext(), username.String()))
	return username, nil
}

// respondError maps err to its HTTP status and writes the error body. Value
// object rejections become validation errors; anything unclassified is an
// internal error whose cause stays in the server log.
func respondError(c *fiber.Ctx, err error) error {
	var verr *values.ValidationError
	if errors.As(err, &verr) {
		return models.RespondWithError(c, fiber.StatusUnprocessableEntity,
			models.NewValidationError(verr.Error()))
	}

	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		appErr = models.NewInternalError(err)
	}

	status := appErr.Status()
	if status >= http.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			"code", appErr.Code,
			"error", err,
		)
	}
	return models.RespondWithError(c, status, appErr)
}

// badBody writes the response for an unparseable request body.
func badBody(c *fiber.Ctx) error {
	return models.RespondWithError(c, fiber.StatusBadRequest,
		models.NewValidationError("Invalid request body"))
}
