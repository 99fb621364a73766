package viewquery

import (
	"time"

	"inkwell/internal/models"

	"gorm.io/datatypes"
)

// ArticleRow is the scan target of an article view query.
type ArticleRow struct {
	ID             uint
	Slug           string
	Title          string
	Description    string
	Body           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	AuthorID       uint
	AuthorUsername string
	AuthorBio      *string
	AuthorImage    *string
	FavoritesCount int64
	TagList        datatypes.JSONSlice[string]
	Following      bool
	Favorited      bool
}

func (r ArticleRow) author() models.Profile {
	return models.Profile{
		Username:  r.AuthorUsername,
		Bio:       r.AuthorBio,
		Image:     r.AuthorImage,
		Following: r.Following,
	}
}

func (r ArticleRow) tags() []string {
	if r.TagList == nil {
		return []string{}
	}
	return []string(r.TagList)
}

// View maps the row to the detail view.
func (r ArticleRow) View() models.ArticleView {
	return models.ArticleView{
		ID:             r.ID,
		Slug:           r.Slug,
		Title:          r.Title,
		Description:    r.Description,
		Body:           r.Body,
		TagList:        r.tags(),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		Favorited:      r.Favorited,
		FavoritesCount: r.FavoritesCount,
		Author:         r.author(),
	}
}

// ListView maps the row to the list view.
func (r ArticleRow) ListView() models.ArticleListView {
	return models.ArticleListView{
		ID:             r.ID,
		Slug:           r.Slug,
		Title:          r.Title,
		Description:    r.Description,
		TagList:        r.tags(),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		Favorited:      r.Favorited,
		FavoritesCount: r.FavoritesCount,
		Author:         r.author(),
	}
}

// CommentRow is the scan target of a comment view query.
type CommentRow struct {
	ID             uint
	Body           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	AuthorID       uint
	AuthorUsername string
	AuthorBio      *string
	AuthorImage    *string
	Following      bool
}

func (r CommentRow) View() models.CommentView {
	return models.CommentView{
		ID:        r.ID,
		Body:      r.Body,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Author: models.Profile{
			Username:  r.AuthorUsername,
			Bio:       r.AuthorBio,
			Image:     r.AuthorImage,
			Following: r.Following,
		},
	}
}
