package service

import (
	"context"
	"errors"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/values"
	"inkwell/internal/viewquery"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// articleRepoStub is a stub for repository.ArticleRepository.
type articleRepoStub struct {
	insertFn      func(context.Context, *models.Article) error
	getByFn       func(context.Context, viewquery.ArticleField, interface{}) (*models.Article, error)
	getViewByFn   func(context.Context, viewquery.ArticleField, interface{}, viewquery.Viewer) (*models.ArticleView, error)
	getViewByIDFn func(context.Context, values.ArticleID, viewquery.Viewer) (*models.ArticleView, error)
	updateFn      func(context.Context, values.ArticleID, *repository.ArticleUpdate) (*models.Article, error)
	deleteFn      func(context.Context, values.ArticleID) error
	listFn        func(context.Context, viewquery.ListFilter, viewquery.Viewer) ([]models.ArticleListView, error)
	countFn       func(context.Context, viewquery.ListFilter, viewquery.Viewer) (int64, error)
	feedFn        func(context.Context, values.UserID, viewquery.Page) ([]models.ArticleListView, error)
	countFeedFn   func(context.Context, values.UserID) (int64, error)
	favoriteFn    func(context.Context, values.UserID, values.ArticleID) error
	unfavoriteFn  func(context.Context, values.UserID, values.ArticleID) error
	addTagsFn     func(context.Context, values.ArticleID, []values.TagID) error
}

func (s *articleRepoStub) Insert(ctx context.Context, a *models.Article) error {
	return s.insertFn(ctx, a)
}
func (s *articleRepoStub) GetBy(ctx context.Context, f viewquery.ArticleField, v interface{}) (*models.Article, error) {
	return s.getByFn(ctx, f, v)
}
func (s *articleRepoStub) GetViewBy(ctx context.Context, f viewquery.ArticleField, v interface{}, viewer viewquery.Viewer) (*models.ArticleView, error) {
	return s.getViewByFn(ctx, f, v, viewer)
}
func (s *articleRepoStub) GetViewByID(ctx context.Context, id values.ArticleID, viewer viewquery.Viewer) (*models.ArticleView, error) {
	return s.getViewByIDFn(ctx, id, viewer)
}
func (s *articleRepoStub) Update(ctx context.Context, id values.ArticleID, upd *repository.ArticleUpdate) (*models.Article, error) {
	return s.updateFn(ctx, id, upd)
}
func (s *articleRepoStub) Delete(ctx context.Context, id values.ArticleID) error {
	return s.deleteFn(ctx, id)
}
func (s *articleRepoStub) List(ctx context.Context, f viewquery.ListFilter, viewer viewquery.Viewer) ([]models.ArticleListView, error) {
	return s.listFn(ctx, f, viewer)
}
func (s *articleRepoStub) Count(ctx context.Context, f viewquery.ListFilter, viewer viewquery.Viewer) (int64, error) {
	return s.countFn(ctx, f, viewer)
}
func (s *articleRepoStub) Feed(ctx context.Context, follower values.UserID, page viewquery.Page) ([]models.ArticleListView, error) {
	return s.feedFn(ctx, follower, page)
}
func (s *articleRepoStub) CountFeed(ctx context.Context, follower values.UserID) (int64, error) {
	return s.countFeedFn(ctx, follower)
}
func (s *articleRepoStub) Favorite(ctx context.Context, u values.UserID, a values.ArticleID) error {
	return s.favoriteFn(ctx, u, a)
}
func (s *articleRepoStub) Unfavorite(ctx context.Context, u values.UserID, a values.ArticleID) error {
	return s.unfavoriteFn(ctx, u, a)
}
func (s *articleRepoStub) AddTags(ctx context.Context, a values.ArticleID, tags []values.TagID) error {
	return s.addTagsFn(ctx, a, tags)
}

func noopArticleRepo() *articleRepoStub {
	return &articleRepoStub{
		insertFn: func(_ context.Context, a *models.Article) error { a.ID = 1; return nil },
		getByFn:  func(_ context.Context, _ viewquery.ArticleField, _ interface{}) (*models.Article, error) { return nil, nil },
		getViewByFn: func(_ context.Context, _ viewquery.ArticleField, _ interface{}, _ viewquery.Viewer) (*models.ArticleView, error) {
			return nil, nil
		},
		getViewByIDFn: func(_ context.Context, id values.ArticleID, _ viewquery.Viewer) (*models.ArticleView, error) {
			return &models.ArticleView{ID: uint(id), TagList: []string{}}, nil
		},
		updateFn: func(_ context.Context, id values.ArticleID, _ *repository.ArticleUpdate) (*models.Article, error) {
			return &models.Article{ID: uint(id)}, nil
		},
		deleteFn: func(_ context.Context, _ values.ArticleID) error { return nil },
		listFn: func(_ context.Context, _ viewquery.ListFilter, _ viewquery.Viewer) ([]models.ArticleListView, error) {
			return nil, nil
		},
		countFn: func(_ context.Context, _ viewquery.ListFilter, _ viewquery.Viewer) (int64, error) { return 0, nil },
		feedFn: func(_ context.Context, _ values.UserID, _ viewquery.Page) ([]models.ArticleListView, error) {
			return nil, nil
		},
		countFeedFn:  func(_ context.Context, _ values.UserID) (int64, error) { return 0, nil },
		favoriteFn:   func(_ context.Context, _ values.UserID, _ values.ArticleID) error { return nil },
		unfavoriteFn: func(_ context.Context, _ values.UserID, _ values.ArticleID) error { return nil },
		addTagsFn:    func(_ context.Context, _ values.ArticleID, _ []values.TagID) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn func(context.Context, *models.User) error
	getByFn  func(context.Context, repository.UserField, interface{}) (*models.User, error)
	updateFn func(context.Context, values.UserID, *repository.UserUpdate) (*models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, u *models.User) error {
	return s.createFn(ctx, u)
}
func (s *userRepoStub) GetBy(ctx context.Context, f repository.UserField, v interface{}) (*models.User, error) {
	return s.getByFn(ctx, f, v)
}
func (s *userRepoStub) Update(ctx context.Context, id values.UserID, upd *repository.UserUpdate) (*models.User, error) {
	return s.updateFn(ctx, id, upd)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn: func(_ context.Context, u *models.User) error { u.ID = 1; return nil },
		getByFn:  func(_ context.Context, _ repository.UserField, _ interface{}) (*models.User, error) { return nil, nil },
		updateFn: func(_ context.Context, id values.UserID, _ *repository.UserUpdate) (*models.User, error) {
			return &models.User{ID: uint(id)}, nil
		},
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	insertFn    func(context.Context, *models.Comment) error
	getByIDFn   func(context.Context, values.CommentID) (*models.Comment, error)
	getViewFn   func(context.Context, values.CommentID, viewquery.Viewer) (*models.CommentView, error)
	listViewsFn func(context.Context, values.ArticleID, viewquery.Viewer) ([]models.CommentView, error)
	deleteFn    func(context.Context, values.CommentID) error
}

func (s *commentRepoStub) Insert(ctx context.Context, c *models.Comment) error {
	return s.insertFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id values.CommentID) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) GetView(ctx context.Context, id values.CommentID, viewer viewquery.Viewer) (*models.CommentView, error) {
	return s.getViewFn(ctx, id, viewer)
}
func (s *commentRepoStub) ListViews(ctx context.Context, a values.ArticleID, viewer viewquery.Viewer) ([]models.CommentView, error) {
	return s.listViewsFn(ctx, a, viewer)
}
func (s *commentRepoStub) Delete(ctx context.Context, id values.CommentID) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		insertFn:  func(_ context.Context, c *models.Comment) error { c.ID = 1; return nil },
		getByIDFn: func(_ context.Context, _ values.CommentID) (*models.Comment, error) { return nil, nil },
		getViewFn: func(_ context.Context, id values.CommentID, _ viewquery.Viewer) (*models.CommentView, error) {
			return &models.CommentView{ID: uint(id)}, nil
		},
		listViewsFn: func(_ context.Context, _ values.ArticleID, _ viewquery.Viewer) ([]models.CommentView, error) {
			return []models.CommentView{}, nil
		},
		deleteFn: func(_ context.Context, _ values.CommentID) error { return nil },
	}
}

// tagRepoStub is a stub for repository.TagRepository.
type tagRepoStub struct {
	getByNameFn   func(context.Context, values.TagName) (*models.Tag, error)
	getOrCreateFn func(context.Context, values.TagName) (*models.Tag, bool, error)
	listNamesFn   func(context.Context) ([]string, error)
}

func (s *tagRepoStub) GetByName(ctx context.Context, name values.TagName) (*models.Tag, error) {
	return s.getByNameFn(ctx, name)
}
func (s *tagRepoStub) GetOrCreate(ctx context.Context, name values.TagName) (*models.Tag, bool, error) {
	return s.getOrCreateFn(ctx, name)
}
func (s *tagRepoStub) ListNames(ctx context.Context) ([]string, error) {
	return s.listNamesFn(ctx)
}

func noopTagRepo() *tagRepoStub {
	return &tagRepoStub{
		getByNameFn: func(_ context.Context, _ values.TagName) (*models.Tag, error) { return nil, nil },
		getOrCreateFn: func(_ context.Context, name values.TagName) (*models.Tag, bool, error) {
			return &models.Tag{ID: 1, Name: name.String()}, false, nil
		},
		listNamesFn: func(_ context.Context) ([]string, error) { return []string{}, nil },
	}
}

// profileRepoStub is a stub for repository.ProfileRepository.
type profileRepoStub struct {
	followFn      func(context.Context, values.UserID, values.UserID) error
	unfollowFn    func(context.Context, values.UserID, values.UserID) error
	isFollowingFn func(context.Context, values.UserID, values.UserID) (bool, error)
}

func (s *profileRepoStub) Follow(ctx context.Context, follower, followee values.UserID) error {
	return s.followFn(ctx, follower, followee)
}
func (s *profileRepoStub) Unfollow(ctx context.Context, follower, followee values.UserID) error {
	return s.unfollowFn(ctx, follower, followee)
}
func (s *profileRepoStub) IsFollowing(ctx context.Context, follower, followee values.UserID) (bool, error) {
	return s.isFollowingFn(ctx, follower, followee)
}

func noopProfileRepo() *profileRepoStub {
	return &profileRepoStub{
		followFn:      func(_ context.Context, _, _ values.UserID) error { return nil },
		unfollowFn:    func(_ context.Context, _, _ values.UserID) error { return nil },
		isFollowingFn: func(_ context.Context, _, _ values.UserID) (bool, error) { return false, nil },
	}
}

// storeStub is a stub for repository.Store. Transaction runs fn against the
// same stub and records how many transactions were opened.
type storeStub struct {
	articles *articleRepoStub
	users    *userRepoStub
	comments *commentRepoStub
	tags     *tagRepoStub
	profiles *profileRepoStub
	txCount  int
}

func newStoreStub() *storeStub {
	return &storeStub{
		articles: noopArticleRepo(),
		users:    noopUserRepo(),
		comments: noopCommentRepo(),
		tags:     noopTagRepo(),
		profiles: noopProfileRepo(),
	}
}

func (s *storeStub) Users() repository.UserRepository       { return s.users }
func (s *storeStub) Articles() repository.ArticleRepository { return s.articles }
func (s *storeStub) Comments() repository.CommentRepository { return s.comments }
func (s *storeStub) Tags() repository.TagRepository         { return s.tags }
func (s *storeStub) Profiles() repository.ProfileRepository { return s.profiles }

func (s *storeStub) Transaction(_ context.Context, fn func(tx repository.Store) error) error {
	s.txCount++
	return fn(s)
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func mustTitle(t *testing.T, raw string) values.Title {
	t.Helper()
	v, err := values.NewTitle(raw)
	require.NoError(t, err)
	return v
}

func mustSlug(t *testing.T, raw string) values.Slug {
	t.Helper()
	v, err := values.NewSlug(raw)
	require.NoError(t, err)
	return v
}

func mustUsername(t *testing.T, raw string) values.Username {
	t.Helper()
	v, err := values.NewUsername(raw)
	require.NoError(t, err)
	return v
}

func mustEmail(t *testing.T, raw string) values.Email {
	t.Helper()
	v, err := values.NewEmail(raw)
	require.NoError(t, err)
	return v
}

func mustPassword(t *testing.T, raw string) values.Password {
	t.Helper()
	v, err := values.NewPassword(raw)
	require.NoError(t, err)
	return v
}
