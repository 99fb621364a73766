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

func createInput(t *testing.T, title string, tags ...string) CreateArticleInput {
	t.Helper()
	desc, err := values.NewDescription("a description")
	require.NoError(t, err)
	body, err := values.NewArticleBody("a body")
	require.NoError(t, err)
	tagNames, err := values.NewTagNames(tags)
	require.NoError(t, err)
	return CreateArticleInput{
		Author:      7,
		Title:       mustTitle(t, title),
		Description: desc,
		Body:        body,
		Tags:        tagNames,
	}
}

func TestArticleService_CreateArticle(t *testing.T) {
	t.Parallel()

	store := newStoreStub()
	var inserted *models.Article
	store.articles.insertFn = func(_ context.Context, a *models.Article) error {
		a.ID = 42
		inserted = a
		return nil
	}
	var created []string
	store.tags.getOrCreateFn = func(_ context.Context, name values.TagName) (*models.Tag, bool, error) {
		created = append(created, name.String())
		return &models.Tag{ID: uint(len(created)), Name: name.String()}, name.String() == "new", nil
	}
	var linked []values.TagID
	store.articles.addTagsFn = func(_ context.Context, id values.ArticleID, tags []values.TagID) error {
		assert.Equal(t, values.ArticleID(42), id)
		linked = tags
		return nil
	}
	store.articles.getViewByIDFn = func(_ context.Context, id values.ArticleID, viewer viewquery.Viewer) (*models.ArticleView, error) {
		viewerID, ok := viewer.ID()
		assert.True(t, ok)
		assert.Equal(t, values.UserID(7), viewerID)
		return &models.ArticleView{ID: uint(id), Slug: "how-to-build-things"}, nil
	}

	svc := NewArticleService(store, NewTagService(store, nil))
	view, err := svc.CreateArticle(context.Background(), createInput(t, "How to Build Things!", "go", "new"))
	require.NoError(t, err)

	assert.Equal(t, "how-to-build-things", view.Slug)
	require.NotNil(t, inserted)
	assert.Equal(t, "how-to-build-things", inserted.Slug)
	assert.Equal(t, "How to Build Things!", inserted.Title)
	assert.Equal(t, uint(7), inserted.AuthorID)
	assert.Equal(t, []string{"go", "new"}, created)
	assert.Equal(t, []values.TagID{1, 2}, linked)
	assert.Equal(t, 1, store.txCount, "create must run in one transaction")
}

func TestArticleService_CreateArticleErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		title    string
		setup    func(*storeStub)
		wantCode string
	}{
		{
			name:  "Slug Taken",
			title: "Hello World",
			setup: func(s *storeStub) {
				s.articles.getByFn = func(_ context.Context, f viewquery.ArticleField, _ interface{}) (*models.Article, error) {
					assert.Equal(t, viewquery.ArticleBySlug, f)
					return &models.Article{ID: 1, Slug: "hello-world"}, nil
				}
				s.articles.insertFn = func(_ context.Context, _ *models.Article) error {
					return errors.New("insert must not run when the slug is taken")
				}
			},
			wantCode: models.CodeConflict,
		},
		{
			name:     "Title Without Letters",
			title:    "!!!",
			setup:    func(*storeStub) {},
			wantCode: models.CodeValidation,
		},
		{
			name:  "Race Lost At Insert",
			title: "Hello World",
			setup: func(s *storeStub) {
				s.articles.insertFn = func(_ context.Context, _ *models.Article) error {
					return models.NewConflictError("an article with this slug already exists")
				}
			},
			wantCode: models.CodeConflict,
		},
		{
			name:  "Tag Store Failure",
			title: "Hello World",
			setup: func(s *storeStub) {
				s.tags.getOrCreateFn = func(_ context.Context, _ values.TagName) (*models.Tag, bool, error) {
					return nil, false, models.NewStoreError(errors.New("boom"))
				}
			},
			wantCode: models.CodeStore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStoreStub()
			tt.setup(store)
			svc := NewArticleService(store, nil)

			view, err := svc.CreateArticle(context.Background(), createInput(t, tt.title, "go"))
			assert.Nil(t, view)
			assertCode(t, err, tt.wantCode)
		})
	}
}

func TestArticleService_GetArticleNotFound(t *testing.T) {
	t.Parallel()

	svc := NewArticleService(newStoreStub(), nil)
	_, err := svc.GetArticle(context.Background(), mustSlug(t, "missing"), viewquery.Anonymous())
	assertCode(t, err, models.CodeNotFound)
}

func TestArticleService_ListArticles(t *testing.T) {
	t.Parallel()

	store := newStoreStub()
	tag, err := values.NewTagName("go")
	require.NoError(t, err)
	filter := viewquery.ListFilter{Tag: &tag}

	store.articles.listFn = func(_ context.Context, f viewquery.ListFilter, _ viewquery.Viewer) ([]models.ArticleListView, error) {
		assert.Equal(t, filter, f)
		return []models.ArticleListView{{Slug: "a"}, {Slug: "b"}}, nil
	}
	store.articles.countFn = func(_ context.Context, f viewquery.ListFilter, _ viewquery.Viewer) (int64, error) {
		assert.Equal(t, filter, f, "count must see the same filter as the page")
		return 12, nil
	}

	svc := NewArticleService(store, nil)
	articles, count, err := svc.ListArticles(context.Background(), filter, viewquery.Anonymous())
	require.NoError(t, err)
	assert.Len(t, articles, 2)
	assert.Equal(t, int64(12), count)
}

func TestArticleService_Feed(t *testing.T) {
	t.Parallel()

	store := newStoreStub()
	store.articles.feedFn = func(_ context.Context, follower values.UserID, page viewquery.Page) ([]models.ArticleListView, error) {
		assert.Equal(t, values.UserID(3), follower)
		assert.Equal(t, viewquery.DefaultLimit, page.Limit)
		return []models.ArticleListView{{Slug: "followed"}}, nil
	}
	store.articles.countFeedFn = func(_ context.Context, _ values.UserID) (int64, error) { return 1, nil }
	svc := NewArticleService(store, nil)

	_, _, err := svc.Feed(context.Background(), viewquery.Anonymous(), viewquery.NewPage(nil, nil))
	assertCode(t, err, models.CodeUnauthorized)

	articles, count, err := svc.Feed(context.Background(), viewquery.ViewerOf(3), viewquery.NewPage(nil, nil))
	require.NoError(t, err)
	assert.Len(t, articles, 1)
	assert.Equal(t, int64(1), count)
}

func TestArticleService_UpdateArticle(t *testing.T) {
	t.Parallel()

	existing := &models.Article{ID: 5, Slug: "old-title", AuthorID: 7}
	newTitle := mustTitle(t, "New Title")
	sameTitle := mustTitle(t, "Old Title")
	body, err := values.NewArticleBody("fresh")
	require.NoError(t, err)

	tests := []struct {
		name       string
		in         UpdateArticleInput
		slugTaken  bool
		wantCode   string
		wantFields []string
	}{
		{
			name:       "Retitle Changes Slug",
			in:         UpdateArticleInput{Requester: 7, Title: &newTitle},
			wantFields: []string{"slug", "title"},
		},
		{
			name:       "Same Slug Keeps Slug",
			in:         UpdateArticleInput{Requester: 7, Title: &sameTitle},
			wantFields: []string{"title"},
		},
		{
			name:       "Body Only",
			in:         UpdateArticleInput{Requester: 7, Body: &body},
			wantFields: []string{"body"},
		},
		{
			name:     "Non Author",
			in:       UpdateArticleInput{Requester: 8, Body: &body},
			wantCode: models.CodeForbidden,
		},
		{
			name:      "New Slug Taken",
			in:        UpdateArticleInput{Requester: 7, Title: &newTitle},
			slugTaken: true,
			wantCode:  models.CodeConflict,
		},
		{
			name:     "Empty Update",
			in:       UpdateArticleInput{Requester: 7},
			wantCode: models.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStoreStub()
			store.articles.getByFn = func(_ context.Context, _ viewquery.ArticleField, v interface{}) (*models.Article, error) {
				switch v.(values.Slug).String() {
				case "old-title":
					return existing, nil
				case "new-title":
					if tt.slugTaken {
						return &models.Article{ID: 9, Slug: "new-title"}, nil
					}
				}
				return nil, nil
			}
			var gotFields []string
			store.articles.updateFn = func(_ context.Context, id values.ArticleID, upd *repository.ArticleUpdate) (*models.Article, error) {
				if upd.IsEmpty() {
					return nil, models.NewValidationError("no fields to update")
				}
				assert.Equal(t, values.ArticleID(5), id)
				gotFields = upd.Fields()
				return existing, nil
			}

			in := tt.in
			in.Slug = mustSlug(t, "old-title")
			view, err := NewArticleService(store, nil).UpdateArticle(context.Background(), in)
			if tt.wantCode != "" {
				assertCode(t, err, tt.wantCode)
				assert.Nil(t, view)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFields, gotFields)
			assert.Equal(t, 1, store.txCount)
		})
	}
}

func TestArticleService_UpdateMissingArticle(t *testing.T) {
	t.Parallel()

	body, err := values.NewArticleBody("x")
	require.NoError(t, err)
	_, err = NewArticleService(newStoreStub(), nil).UpdateArticle(context.Background(), UpdateArticleInput{
		Requester: 1, Slug: mustSlug(t, "nope"), Body: &body,
	})
	assertCode(t, err, models.CodeNotFound)
}

func TestArticleService_DeleteArticle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		requester  values.UserID
		found      bool
		wantCode   string
		wantDelete bool
	}{
		{"Author Deletes", 7, true, "", true},
		{"Non Author Forbidden", 8, true, models.CodeForbidden, false},
		{"Missing Article", 7, false, models.CodeNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStoreStub()
			store.articles.getByFn = func(_ context.Context, _ viewquery.ArticleField, _ interface{}) (*models.Article, error) {
				if !tt.found {
					return nil, nil
				}
				return &models.Article{ID: 5, AuthorID: 7}, nil
			}
			deleted := false
			store.articles.deleteFn = func(_ context.Context, id values.ArticleID) error {
				deleted = true
				assert.Equal(t, values.ArticleID(5), id)
				return nil
			}

			err := NewArticleService(store, nil).DeleteArticle(context.Background(), tt.requester, mustSlug(t, "post"))
			if tt.wantCode != "" {
				assertCode(t, err, tt.wantCode)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantDelete, deleted)
		})
	}
}

func TestArticleService_FavoriteToggle(t *testing.T) {
	t.Parallel()

	store := newStoreStub()
	store.articles.getByFn = func(_ context.Context, _ viewquery.ArticleField, _ interface{}) (*models.Article, error) {
		return &models.Article{ID: 5, AuthorID: 1}, nil
	}
	favorites := map[values.UserID]bool{}
	store.articles.favoriteFn = func(_ context.Context, u values.UserID, _ values.ArticleID) error {
		favorites[u] = true
		return nil
	}
	store.articles.unfavoriteFn = func(_ context.Context, u values.UserID, _ values.ArticleID) error {
		delete(favorites, u)
		return nil
	}
	store.articles.getViewByIDFn = func(_ context.Context, _ values.ArticleID, viewer viewquery.Viewer) (*models.ArticleView, error) {
		id, _ := viewer.ID()
		return &models.ArticleView{Favorited: favorites[id], FavoritesCount: int64(len(favorites))}, nil
	}

	svc := NewArticleService(store, nil)
	ctx := context.Background()

	view, err := svc.FavoriteArticle(ctx, 2, mustSlug(t, "post"))
	require.NoError(t, err)
	assert.True(t, view.Favorited)

	view, err = svc.FavoriteArticle(ctx, 2, mustSlug(t, "post"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), view.FavoritesCount)

	view, err = svc.UnfavoriteArticle(ctx, 2, mustSlug(t, "post"))
	require.NoError(t, err)
	assert.False(t, view.Favorited)
	assert.Equal(t, int64(0), view.FavoritesCount)

	store.articles.getByFn = func(_ context.Context, _ viewquery.ArticleField, _ interface{}) (*models.Article, error) {
		return nil, nil
	}
	_, err = svc.FavoriteArticle(ctx, 2, mustSlug(t, "gone"))
	assertCode(t, err, models.CodeNotFound)
}
