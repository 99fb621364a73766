package repository

import (
	"context"
	"errors"

	"inkwell/internal/models"
	"inkwell/internal/values"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TagRepository defines the interface for tag data operations
type TagRepository interface {
	// GetByName returns nil when the tag does not exist.
	GetByName(ctx context.Context, name values.TagName) (*models.Tag, error)
	// GetOrCreate reports whether the tag was newly created.
	GetOrCreate(ctx context.Context, name values.TagName) (*models.Tag, bool, error)
	// ListNames returns every tag name alphabetically.
	ListNames(ctx context.Context) ([]string, error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) GetByName(ctx context.Context, name values.TagName) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).Where("name = ?", name).Take(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError(ctx, "tag.GetByName", err)
	}
	return &tag, nil
}

// GetOrCreate inserts with ON CONFLICT DO NOTHING and falls back to a lookup,
// so concurrent callers converge on the same row.
func (r *tagRepository) GetOrCreate(ctx context.Context, name values.TagName) (*models.Tag, bool, error) {
	tag := models.Tag{Name: name.String()}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&tag)
	if res.Error != nil {
		return nil, false, storeError(ctx, "tag.GetOrCreate", res.Error)
	}
	if res.RowsAffected > 0 && tag.ID != 0 {
		return &tag, true, nil
	}

	existing, err := r.GetByName(ctx, name)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, models.NewNotFoundError("tag", name.String())
	}
	return existing, false, nil
}

func (r *tagRepository) ListNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&models.Tag{}).
		Order("name ASC").
		Pluck("name", &names).Error
	if err != nil {
		return nil, storeError(ctx, "tag.ListNames", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}
