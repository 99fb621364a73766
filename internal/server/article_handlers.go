package server

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/service"
	"inkwell/internal/values"
	"inkwell/internal/viewquery"

	"github.com/gofiber/fiber/v2"
)

// ListArticles handles GET /api/articles
// Query: tag, author, favorited, limit, offset.
func (s *Server) ListArticles(c *fiber.Ctx) error {
	var filter viewquery.ListFilter
	filter.Limit, filter.Offset = parsePagination(c)

	if raw := c.Query("tag"); raw != "" {
		tag, err := values.NewTagName(raw)
		if err != nil {
			return respondError(c, err)
		}
		filter.Tag = &tag
	}
	if raw := c.Query("author"); raw != "" {
		author, err := values.NewUsername(raw)
		if err != nil {
			return respondError(c, err)
		}
		filter.Author = &author
	}
	if raw := c.Query("favorited"); raw != "" {
		favoritedBy, err := values.NewUsername(raw)
		if err != nil {
			return respondError(c, err)
		}
		filter.FavoritedBy = &favoritedBy
	}

	views, count, err := s.articleService.ListArticles(c.UserContext(), filter, viewerOf(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(newArticlesResponse(views, count))
}

// FeedArticles handles GET /api/articles/feed
func (s *Server) FeedArticles(c *fiber.Ctx) error {
	page := viewquery.NewPage(parsePagination(c))

	views, count, err := s.articleService.Feed(c.UserContext(), viewerOf(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(newArticlesResponse(views, count))
}

// GetArticle handles GET /api/articles/:slug
func (s *Server) GetArticle(c *fiber.Ctx) error {
	slug, err := slugParam(c)
	if err != nil {
		return respondError(c, err)
	}

	view, err := s.articleService.GetArticle(c.UserContext(), slug, viewerOf(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(articleResponse{Article: view})
}

// CreateArticle handles POST /api/articles
func (s *Server) CreateArticle(c *fiber.Ctx) error {
	var req articleBody
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	title, err := values.NewTitle(deref(req.Article.Title))
	if err != nil {
		return respondError(c, err)
	}
	description, err := values.NewDescription(deref(req.Article.Description))
	if err != nil {
		return respondError(c, err)
	}
	body, err := values.NewArticleBody(deref(req.Article.Body))
	if err != nil {
		return respondError(c, err)
	}
	tags, err := values.NewTagNames(req.Article.TagList)
	if err != nil {
		return respondError(c, err)
	}

	view, err := s.articleService.CreateArticle(c.UserContext(), service.CreateArticleInput{
		Author:      mustUser(c),
		Title:       title,
		Description: description,
		Body:        body,
		Tags:        tags,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(articleResponse{Article: view})
}

// UpdateArticle handles PUT /api/articles/:slug
// Only the fields present in the body change.
func (s *Server) UpdateArticle(c *fiber.Ctx) error {
	slug, err := slugParam(c)
	if err != nil {
		return respondError(c, err)
	}

	var req articleBody
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	in := service.UpdateArticleInput{Requester: mustUser(c), Slug: slug}
	if req.Article.Title != nil {
		title, err := values.NewTitle(*req.Article.Title)
		if err != nil {
			return respondError(c, err)
		}
		in.Title = &title
	}
	if req.Article.Description != nil {
		description, err := values.NewDescription(*req.Article.Description)
		if err != nil {
			return respondError(c, err)
		}
		in.Description = &description
	}
	if req.Article.Body != nil {
		body, err := values.NewArticleBody(*req.Article.Body)
		if err != nil {
			return respondError(c, err)
		}
		in.Body = &body
	}

	view, err := s.articleService.UpdateArticle(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(articleResponse{Article: view})
}

// DeleteArticle handles DELETE /api/articles/:slug
func (s *Server) DeleteArticle(c *fiber.Ctx) error {
	slug, err := slugParam(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := s.articleService.DeleteArticle(c.UserContext(), mustUser(c), slug); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// FavoriteArticle handles POST /api/articles/:slug/favorite
func (s *Server) FavoriteArticle(c *fiber.Ctx) error {
	return s.toggleFavorite(c, s.articleService.FavoriteArticle)
}

// UnfavoriteArticle handles DELETE /api/articles/:slug/favorite
func (s *Server) UnfavoriteArticle(c *fiber.Ctx) error {
	return s.toggleFavorite(c, s.articleService.UnfavoriteArticle)
}

type favoriteFunc func(ctx context.Context, user values.UserID, slug values.Slug) (*models.ArticleView, error)

func (s *Server) toggleFavorite(c *fiber.Ctx, fn favoriteFunc) error {
	slug, err := slugParam(c)
	if err != nil {
		return respondError(c, err)
	}

	view, err := fn(c.UserContext(), mustUser(c), slug)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(articleResponse{Article: view})
}
