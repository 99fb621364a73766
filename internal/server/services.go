package server

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/service"
	"inkwell/internal/values"
	"inkwell/internal/viewquery"
)

// The handlers depend on these narrow views of the domain services so tests
// can substitute mocks.

type userService interface {
	Register(ctx context.Context, in service.RegisterInput) (*models.User, error)
	Login(ctx context.Context, in service.LoginInput) (*models.User, error)
	GetUser(ctx context.Context, id values.UserID) (*models.User, error)
	UpdateUser(ctx context.Context, in service.UpdateUserInput) (*models.User, error)
}

type profileService interface {
	GetProfile(ctx context.Context, username values.Username, viewer viewquery.Viewer) (*models.Profile, error)
	Follow(ctx context.Context, follower values.UserID, username values.Username) (*models.Profile, error)
	Unfollow(ctx context.Context, follower values.UserID, username values.Username) (*models.Profile, error)
}

type articleService interface {
	CreateArticle(ctx context.Context, in service.CreateArticleInput) (*models.ArticleView, error)
	GetArticle(ctx context.Context, slug values.Slug, viewer viewquery.Viewer) (*models.ArticleView, error)
	ListArticles(ctx context.Context, filter viewquery.ListFilter, viewer viewquery.Viewer) ([]models.ArticleListView, int64, error)
	Feed(ctx context.Context, viewer viewquery.Viewer, page viewquery.Page) ([]models.ArticleListView, int64, error)
	UpdateArticle(ctx context.Context, in service.UpdateArticleInput) (*models.ArticleView, error)
	DeleteArticle(ctx context.Context, requester values.UserID, slug values.Slug) error
	FavoriteArticle(ctx context.Context, user values.UserID, slug values.Slug) (*models.ArticleView, error)
	UnfavoriteArticle(ctx context.Context, user values.UserID, slug values.Slug) (*models.ArticleView, error)
}

type commentService interface {
	AddComment(ctx context.Context, in service.AddCommentInput) (*models.CommentView, error)
	ListComments(ctx context.Context, slug values.Slug, viewer viewquery.Viewer) ([]models.CommentView, error)
	DeleteComment(ctx context.Context, in service.DeleteCommentInput) error
}

type tagService interface {
	ListTags(ctx context.Context) ([]string, error)
}
