package server

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/service"
	"inkwell/internal/values"
	"inkwell/internal/viewquery"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserService is a mock of the userService interface
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, in service.RegisterInput) (*models.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, in service.LoginInput) (*models.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, id values.UserID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, in service.UpdateUserInput) (*models.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockProfileService is a mock of the profileService interface
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) GetProfile(ctx context.Context, username values.Username, viewer viewquery.Viewer) (*models.Profile, error) {
	args := m.Called(ctx, username, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) Follow(ctx context.Context, follower values.UserID, username values.Username) (*models.Profile, error) {
	args := m.Called(ctx, follower, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) Unfollow(ctx context.Context, follower values.UserID, username values.Username) (*models.Profile, error) {
	args := m.Called(ctx, follower, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

// MockArticleService is a mock of the articleService interface
type MockArticleService struct {
	mock.Mock
}

func (m *MockArticleService) CreateArticle(ctx context.Context, in service.CreateArticleInput) (*models.ArticleView, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ArticleView), args.Error(1)
}

func (m *MockArticleService) GetArticle(ctx context.Context, slug values.Slug, viewer viewquery.Viewer) (*models.ArticleView, error) {
	args := m.Called(ctx, slug, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ArticleView), args.Error(1)
}

func (m *MockArticleService) ListArticles(ctx context.Context, filter viewquery.ListFilter, viewer viewquery.Viewer) ([]models.ArticleListView, int64, error) {
	args := m.Called(ctx, filter, viewer)
	views, _ := args.Get(0).([]models.ArticleListView)
	return views, args.Get(1).(int64), args.Error(2)
}

func (m *MockArticleService) Feed(ctx context.Context, viewer viewquery.Viewer, page viewquery.Page) ([]models.ArticleListView, int64, error) {
	args := m.Called(ctx, viewer, page)
	views, _ := args.Get(0).([]models.ArticleListView)
	return views, args.Get(1).(int64), args.Error(2)
}

func (m *MockArticleService) UpdateArticle(ctx context.Context, in service.UpdateArticleInput) (*models.ArticleView, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ArticleView), args.Error(1)
}

func (m *MockArticleService) DeleteArticle(ctx context.Context, requester values.UserID, slug values.Slug) error {
	args := m.Called(ctx, requester, slug)
	return args.Error(0)
}

func (m *MockArticleService) FavoriteArticle(ctx context.Context, user values.UserID, slug values.Slug) (*models.ArticleView, error) {
	args := m.Called(ctx, user, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ArticleView), args.Error(1)
}

func (m *MockArticleService) UnfavoriteArticle(ctx context.Context, user values.UserID, slug values.Slug) (*models.ArticleView, error) {
	args := m.Called(ctx, user, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ArticleView), args.Error(1)
}

// MockCommentService is a mock of the commentService interface
type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) AddComment(ctx context.Context, in service.AddCommentInput) (*models.CommentView, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CommentView), args.Error(1)
}

func (m *MockCommentService) ListComments(ctx context.Context, slug values.Slug, viewer viewquery.Viewer) ([]models.CommentView, error) {
	args := m.Called(ctx, slug, viewer)
	comments, _ := args.Get(0).([]models.CommentView)
	return comments, args.Error(1)
}

func (m *MockCommentService) DeleteComment(ctx context.Context, in service.DeleteCommentInput) error {
	args := m.Called(ctx, in)
	return args.Error(0)
}

// MockTagService is a mock of the tagService interface
type MockTagService struct {
	mock.Mock
}

func (m *MockTagService) ListTags(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	tags, _ := args.Get(0).([]string)
	return tags, args.Error(1)
}

const testSecret = "handler-test-secret"

func newTestServer() *Server {
	return &Server{tokens: middleware.NewTokenManager(testSecret, time.Hour)}
}

// newTestApp returns an app that authenticates every request as userID, or
// none when userID is zero.
func newTestApp(userID uint) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	if userID != 0 {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("userID", userID)
			return c.Next()
		})
	}
	return app
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func mustSlug(t *testing.T, raw string) values.Slug {
	t.Helper()
	s, err := values.NewSlug(raw)
	require.NoError(t, err)
	return s
}

func mustUsername(t *testing.T, raw string) values.Username {
	t.Helper()
	u, err := values.NewUsername(raw)
	require.NoError(t, err)
	return u
}
