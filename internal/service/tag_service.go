package service

import (
	"context"

	"inkwell/internal/cache"
	"inkwell/internal/repository"
	"inkwell/internal/values"
)

type TagService struct {
	store repository.Store
	cache *cache.Cache
}

// NewTagService creates a tag service. c may be nil to disable caching.
func NewTagService(store repository.Store, c *cache.Cache) *TagService {
	return &TagService{store: store, cache: c}
}

// ListTags returns every tag name in alphabetical order.
func (s *TagService) ListTags(ctx context.Context) ([]string, error) {
	var names []string
	err := s.cache.Aside(ctx, cache.TagsKey, &names, cache.TagsTTL, func() error {
		var fetchErr error
		names, fetchErr = s.store.Tags().ListNames(ctx)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// Invalidate drops the cached tag list.
func (s *TagService) Invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, cache.TagsKey)
}

// resolveTags finds or creates every named tag through repo and reports
// whether any tag was new.
func resolveTags(ctx context.Context, repo repository.TagRepository, names []values.TagName) ([]values.TagID, bool, error) {
	ids := make([]values.TagID, 0, len(names))
	anyCreated := false
	for _, name := range names {
		tag, created, err := repo.GetOrCreate(ctx, name)
		if err != nil {
			return nil, false, err
		}
		anyCreated = anyCreated || created
		ids = append(ids, values.TagID(tag.ID))
	}
	return ids, anyCreated, nil
}
