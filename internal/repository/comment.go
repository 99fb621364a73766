package repository

import (
	"context"
	"errors"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/values"
	"inkwell/internal/viewquery"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Insert(ctx context.Context, comment *models.Comment) error
	// GetByID returns nil when the comment does not exist.
	GetByID(ctx context.Context, id values.CommentID) (*models.Comment, error)
	// GetView fails with NotFound when the comment is missing.
	GetView(ctx context.Context, id values.CommentID, viewer viewquery.Viewer) (*models.CommentView, error)
	ListViews(ctx context.Context, article values.ArticleID, viewer viewquery.Viewer) ([]models.CommentView, error)
	Delete(ctx context.Context, id values.CommentID) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Insert(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error
	return storeError(ctx, "comment.Insert", err)
}

func (r *commentRepository) GetByID(ctx context.Context, id values.CommentID) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError(ctx, "comment.GetByID", err)
	}
	return &comment, nil
}

func (r *commentRepository) GetView(ctx context.Context, id values.CommentID, viewer viewquery.Viewer) (view *models.CommentView, err error) {
	ctx, done := observability.StartRepositoryOp(ctx, "comment.GetView", "comments")
	defer func() { done(err) }()

	q := viewquery.Comments{Viewer: viewer, Predicates: []viewquery.Predicate{viewquery.CommentWithID(id)}}

	var rows []viewquery.CommentRow
	if err := q.One(r.db.WithContext(ctx)).Find(&rows).Error; err != nil {
		return nil, storeError(ctx, "comment.GetView", err)
	}
	if len(rows) == 0 {
		return nil, models.NewNotFoundError("comment", uint(id))
	}
	v := rows[0].View()
	return &v, nil
}

func (r *commentRepository) ListViews(ctx context.Context, article values.ArticleID, viewer viewquery.Viewer) (out []models.CommentView, err error) {
	ctx, done := observability.StartRepositoryOp(ctx, "comment.ListViews", "comments")
	defer func() { done(err) }()

	q := viewquery.Comments{Viewer: viewer, Predicates: []viewquery.Predicate{viewquery.OnArticle(article)}}

	var rows []viewquery.CommentRow
	if err := q.List(r.db.WithContext(ctx)).Find(&rows).Error; err != nil {
		return nil, storeError(ctx, "comment.ListViews", err)
	}

	out = make([]models.CommentView, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.View())
	}
	return out, nil
}

func (r *commentRepository) Delete(ctx context.Context, id values.CommentID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Comment{})
	if res.Error != nil {
		return storeError(ctx, "comment.Delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("comment", uint(id))
	}
	return nil
}
