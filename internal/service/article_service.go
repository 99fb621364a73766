// Package service orchestrates repository calls into the application's use cases.
package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/values"
	"inkwell/internal/viewquery"
)

var errSlugTaken = models.NewConflictError("an article with this slug already exists")

type ArticleService struct {
	store repository.Store
	tags  *TagService
}

type CreateArticleInput struct {
	Author      values.UserID
	Title       values.Title
	Description values.Description
	Body        values.ArticleBody
	Tags        []values.TagName
}

// UpdateArticleInput carries the fields to change; nil fields are left alone.
type UpdateArticleInput struct {
	Requester   values.UserID
	Slug        values.Slug
	Title       *values.Title
	Description *values.Description
	Body        *values.ArticleBody
}

func NewArticleService(store repository.Store, tags *TagService) *ArticleService {
	return &ArticleService{store: store, tags: tags}
}

func slugFor(title values.Title) (values.Slug, error) {
	slug := values.DeriveSlug(title)
	if slug.IsZero() {
		return values.Slug{}, models.NewValidationError("title must contain at least one letter or digit")
	}
	return slug, nil
}

func ensureSlugFree(ctx context.Context, articles repository.ArticleRepository, slug values.Slug) error {
	existing, err := articles.GetBy(ctx, viewquery.ArticleBySlug, slug)
	if err != nil {
		return err
	}
	if existing != nil {
		return errSlugTaken
	}
	return nil
}

func findArticle(ctx context.Context, articles repository.ArticleRepository, slug values.Slug) (*models.Article, error) {
	article, err := articles.GetBy(ctx, viewquery.ArticleBySlug, slug)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, models.NewNotFoundError("article", slug.String())
	}
	return article, nil
}

// CreateArticle inserts the article and its tags in one transaction and
// returns the author's view of it.
func (s *ArticleService) CreateArticle(ctx context.Context, in CreateArticleInput) (*models.ArticleView, error) {
	slug, err := slugFor(in.Title)
	if err != nil {
		return nil, err
	}

	var (
		id         values.ArticleID
		newTagSeen bool
	)
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := ensureSlugFree(ctx, tx.Articles(), slug); err != nil {
			return err
		}

		article := &models.Article{
			Slug:        slug.String(),
			Title:       in.Title.String(),
			Description: in.Description.String(),
			Body:        in.Body.String(),
			AuthorID:    uint(in.Author),
		}
		if err := tx.Articles().Insert(ctx, article); err != nil {
			return err
		}
		id = values.ArticleID(article.ID)

		tagIDs, created, err := resolveTags(ctx, tx.Tags(), in.Tags)
		if err != nil {
			return err
		}
		newTagSeen = created
		return tx.Articles().AddTags(ctx, id, tagIDs)
	})
	if err != nil {
		return nil, err
	}

	if newTagSeen && s.tags != nil {
		s.tags.Invalidate(ctx)
	}
	return s.store.Articles().GetViewByID(ctx, id, viewquery.ViewerOf(in.Author))
}

func (s *ArticleService) GetArticle(ctx context.Context, slug values.Slug, viewer viewquery.Viewer) (*models.ArticleView, error) {
	view, err := s.store.Articles().GetViewBy(ctx, viewquery.ArticleBySlug, slug, viewer)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, models.NewNotFoundError("article", slug.String())
	}
	return view, nil
}

// ListArticles returns one page of matching articles and the total number of
// matches across all pages.
func (s *ArticleService) ListArticles(ctx context.Context, filter viewquery.ListFilter, viewer viewquery.Viewer) ([]models.ArticleListView, int64, error) {
	articles, err := s.store.Articles().List(ctx, filter, viewer)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.store.Articles().Count(ctx, filter, viewer)
	if err != nil {
		return nil, 0, err
	}
	return articles, count, nil
}

// Feed lists articles by authors the viewer follows.
func (s *ArticleService) Feed(ctx context.Context, viewer viewquery.Viewer, page viewquery.Page) ([]models.ArticleListView, int64, error) {
	follower, ok := viewer.ID()
	if !ok {
		return nil, 0, models.NewUnauthorizedError("authentication required")
	}
	articles, err := s.store.Articles().Feed(ctx, follower, page)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.store.Articles().CountFeed(ctx, follower)
	if err != nil {
		return nil, 0, err
	}
	return articles, count, nil
}

// UpdateArticle applies a partial update. A new title re-derives the slug.
func (s *ArticleService) UpdateArticle(ctx context.Context, in UpdateArticleInput) (*models.ArticleView, error) {
	var id values.ArticleID
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		article, err := findArticle(ctx, tx.Articles(), in.Slug)
		if err != nil {
			return err
		}
		if article.AuthorID != uint(in.Requester) {
			return models.NewForbiddenError("only the author can edit this article")
		}
		id = values.ArticleID(article.ID)

		upd := &repository.ArticleUpdate{}
		if in.Title != nil {
			slug, err := slugFor(*in.Title)
			if err != nil {
				return err
			}
			if slug.String() != article.Slug {
				if err := ensureSlugFree(ctx, tx.Articles(), slug); err != nil {
					return err
				}
				upd.SetSlug(slug)
			}
			upd.SetTitle(*in.Title)
		}
		if in.Description != nil {
			upd.SetDescription(*in.Description)
		}
		if in.Body != nil {
			upd.SetBody(*in.Body)
		}

		_, err = tx.Articles().Update(ctx, id, upd)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.store.Articles().GetViewByID(ctx, id, viewquery.ViewerOf(in.Requester))
}

func (s *ArticleService) DeleteArticle(ctx context.Context, requester values.UserID, slug values.Slug) error {
	article, err := findArticle(ctx, s.store.Articles(), slug)
	if err != nil {
		return err
	}
	if article.AuthorID != uint(requester) {
		return models.NewForbiddenError("only the author can delete this article")
	}
	return s.store.Articles().Delete(ctx, values.ArticleID(article.ID))
}

func (s *ArticleService) FavoriteArticle(ctx context.Context, user values.UserID, slug values.Slug) (*models.ArticleView, error) {
	article, err := findArticle(ctx, s.store.Articles(), slug)
	if err != nil {
		return nil, err
	}
	id := values.ArticleID(article.ID)
	if err := s.store.Articles().Favorite(ctx, user, id); err != nil {
		return nil, err
	}
	return s.store.Articles().GetViewByID(ctx, id, viewquery.ViewerOf(user))
}

func (s *ArticleService) UnfavoriteArticle(ctx context.Context, user values.UserID, slug values.Slug) (*models.ArticleView, error) {
	article, err := findArticle(ctx, s.store.Articles(), slug)
	if err != nil {
		return nil, err
	}
	id := values.ArticleID(article.ID)
	if err := s.store.Articles().Unfavorite(ctx, user, id); err != nil {
		return nil, err
	}
	return s.store.Articles().GetViewByID(ctx, id, viewquery.ViewerOf(user))
}
