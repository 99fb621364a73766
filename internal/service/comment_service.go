package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/values"
	"inkwell/internal/viewquery"
)

type CommentService struct {
	store repository.Store
}

type AddCommentInput struct {
	Author values.UserID
	Slug   values.Slug
	Body   values.CommentBody
}

type DeleteCommentInput struct {
	Requester values.UserID
	Slug      values.Slug
	CommentID values.CommentID
}

func NewCommentService(store repository.Store) *CommentService {
	return &CommentService{store: store}
}

func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (*models.CommentView, error) {
	article, err := findArticle(ctx, s.store.Articles(), in.Slug)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Body:      in.Body.String(),
		ArticleID: article.ID,
		AuthorID:  uint(in.Author),
	}
	if err := s.store.Comments().Insert(ctx, comment); err != nil {
		return nil, err
	}
	return s.store.Comments().GetView(ctx, values.CommentID(comment.ID), viewquery.ViewerOf(in.Author))
}

// ListComments returns the article's comments, newest first.
func (s *CommentService) ListComments(ctx context.Context, slug values.Slug, viewer viewquery.Viewer) ([]models.CommentView, error) {
	article, err := findArticle(ctx, s.store.Articles(), slug)
	if err != nil {
		return nil, err
	}
	return s.store.Comments().ListViews(ctx, values.ArticleID(article.ID), viewer)
}

// DeleteComment removes a comment. Only its author may do so, and the
// comment must belong to the article named by the slug.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	article, err := findArticle(ctx, s.store.Articles(), in.Slug)
	if err != nil {
		return err
	}

	comment, err := s.store.Comments().GetByID(ctx, in.CommentID)
	if err != nil {
		return err
	}
	if comment == nil || comment.ArticleID != article.ID {
		return models.NewNotFoundError("comment", uint(in.CommentID))
	}
	if comment.AuthorID != uint(in.Requester) {
		return models.NewForbiddenError("only the author can delete this comment")
	}
	return s.store.Comments().Delete(ctx, in.CommentID)
}
