package repository

import (
	"context"
	"errors"
	"time"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/values"
	"inkwell/internal/viewquery"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	Insert(ctx context.Context, article *models.Article) error
	// GetBy returns nil when no article matches.
	GetBy(ctx context.Context, field viewquery.ArticleField, value interface{}) (*models.Article, error)
	// GetViewBy returns nil when no article matches.
	GetViewBy(ctx context.Context, field viewquery.ArticleField, value interface{}, viewer viewquery.Viewer) (*models.ArticleView, error)
	// GetViewByID fails with NotFound when the article is missing.
	GetViewByID(ctx context.Context, id values.ArticleID, viewer viewquery.Viewer) (*models.ArticleView, error)
	Update(ctx context.Context, id values.ArticleID, upd *ArticleUpdate) (*models.Article, error)
	Delete(ctx context.Context, id values.ArticleID) error
	List(ctx context.Context, filter viewquery.ListFilter, viewer viewquery.Viewer) ([]models.ArticleListView, error)
	Count(ctx context.Context, filter viewquery.ListFilter, viewer viewquery.Viewer) (int64, error)
	Feed(ctx context.Context, follower values.UserID, page viewquery.Page) ([]models.ArticleListView, error)
	CountFeed(ctx context.Context, follower values.UserID) (int64, error)
	// Favorite is idempotent.
	Favorite(ctx context.Context, user values.UserID, article values.ArticleID) error
	Unfavorite(ctx context.Context, user values.UserID, article values.ArticleID) error
	// AddTags links tags to an article; already linked tags are ignored.
	AddTags(ctx context.Context, article values.ArticleID, tags []values.TagID) error
}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository creates a new article repository
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Insert(ctx context.Context, article *models.Article) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(article).Error
	return storeError(ctx, "article.Insert", err)
}

func (r *articleRepository) GetBy(ctx context.Context, field viewquery.ArticleField, value interface{}) (*models.Article, error) {
	var article models.Article
	err := r.db.WithContext(ctx).Where(field.String()+" = ?", value).Take(&article).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError(ctx, "article.GetBy", err)
	}
	return &article, nil
}

func (r *articleRepository) GetViewBy(ctx context.Context, field viewquery.ArticleField, value interface{}, viewer viewquery.Viewer) (view *models.ArticleView, err error) {
	ctx, done := observability.StartRepositoryOp(ctx, "article.GetViewBy", "articles")
	defer func() { done(err) }()

	q := viewquery.Articles{
		Viewer:     viewer,
		Predicates: []viewquery.Predicate{viewquery.ArticleEquals(field, value)},
		Projection: viewquery.Detail,
	}

	var rows []viewquery.ArticleRow
	if err := q.One(r.db.WithContext(ctx)).Find(&rows).Error; err != nil {
		return nil, storeError(ctx, "article.GetViewBy", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	v := rows[0].View()
	return &v, nil
}

func (r *articleRepository) GetViewByID(ctx context.Context, id values.ArticleID, viewer viewquery.Viewer) (*models.ArticleView, error) {
	view, err := r.GetViewBy(ctx, viewquery.ArticleByID, id, viewer)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, models.NewNotFoundError("article", uint(id))
	}
	return view, nil
}

func (r *articleRepository) Update(ctx context.Context, id values.ArticleID, upd *ArticleUpdate) (*models.Article, error) {
	if upd.IsEmpty() {
		return nil, errNoFieldsToUpdate
	}
	middleware.Logger.DebugContext(ctx, "article update", "id", id, "fields", upd.Fields())

	res := r.db.WithContext(ctx).
		Model(&models.Article{}).
		Where("id = ?", id).
		Updates(upd.fields.columns(time.Now()))
	if res.Error != nil {
		return nil, storeError(ctx, "article.Update", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("article", uint(id))
	}

	return r.GetBy(ctx, viewquery.ArticleByID, id)
}

// Delete removes the article together with its tag links, favorites and
// comments in one transaction.
func (r *articleRepository) Delete(ctx context.Context, id values.ArticleID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", id).Delete(&models.ArticleTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", id).Delete(&models.ArticleFavorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Article{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("article", uint(id))
		}
		return nil
	})
	return storeError(ctx, "article.Delete", err)
}

func (r *articleRepository) list(ctx context.Context, op string, q viewquery.Articles, page viewquery.Page) (out []models.ArticleListView, err error) {
	ctx, done := observability.StartRepositoryOp(ctx, op, "articles")
	defer func() { done(err) }()

	var rows []viewquery.ArticleRow
	if err := q.List(r.db.WithContext(ctx), page).Find(&rows).Error; err != nil {
		return nil, storeError(ctx, op, err)
	}

	out = make([]models.ArticleListView, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ListView())
	}
	return out, nil
}

func (r *articleRepository) count(ctx context.Context, op string, q viewquery.Articles) (n int64, err error) {
	ctx, done := observability.StartRepositoryOp(ctx, op, "articles")
	defer func() { done(err) }()

	if err := q.Count(r.db.WithContext(ctx)).Count(&n).Error; err != nil {
		return 0, storeError(ctx, op, err)
	}
	return n, nil
}

func (r *articleRepository) List(ctx context.Context, filter viewquery.ListFilter, viewer viewquery.Viewer) ([]models.ArticleListView, error) {
	q := viewquery.Articles{Viewer: viewer, Predicates: filter.Predicates()}
	return r.list(ctx, "article.List", q, filter.Page())
}

func (r *articleRepository) Count(ctx context.Context, filter viewquery.ListFilter, viewer viewquery.Viewer) (int64, error) {
	q := viewquery.Articles{Viewer: viewer, Predicates: filter.Predicates()}
	return r.count(ctx, "article.Count", q)
}

func feedQuery(follower values.UserID) viewquery.Articles {
	return viewquery.Articles{
		Viewer:     viewquery.ViewerOf(follower),
		Predicates: []viewquery.Predicate{viewquery.FollowedBy(follower)},
	}
}

func (r *articleRepository) Feed(ctx context.Context, follower values.UserID, page viewquery.Page) ([]models.ArticleListView, error) {
	return r.list(ctx, "article.Feed", feedQuery(follower), page)
}

func (r *articleRepository) CountFeed(ctx context.Context, follower values.UserID) (int64, error) {
	return r.count(ctx, "article.CountFeed", feedQuery(follower))
}

func (r *articleRepository) Favorite(ctx context.Context, user values.UserID, article values.ArticleID) error {
	fav := models.ArticleFavorite{UserID: uint(user), ArticleID: uint(article)}
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&fav).Error
	return storeError(ctx, "article.Favorite", err)
}

func (r *articleRepository) Unfavorite(ctx context.Context, user values.UserID, article values.ArticleID) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND article_id = ?", user, article).
		Delete(&models.ArticleFavorite{}).Error
	return storeError(ctx, "article.Unfavorite", err)
}

func (r *articleRepository) AddTags(ctx context.Context, article values.ArticleID, tags []values.TagID) error {
	if len(tags) == 0 {
		return nil
	}
	links := make([]models.ArticleTag, 0, len(tags))
	for _, tagID := range tags {
		links = append(links, models.ArticleTag{ArticleID: uint(article), TagID: uint(tagID)})
	}
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&links).Error
	return storeError(ctx, "article.AddTags", err)
}
