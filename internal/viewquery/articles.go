package viewquery

import (
	"gorm.io/gorm"
)

// Projection selects which article columns a view carries.
type Projection int

const (
	// Summary omits the article body; used by lists and counts.
	Summary Projection = iota
	// Detail includes the body; used by single-article lookups.
	Detail
)

const (
	articleColumns = "articles.id, articles.slug, articles.title, articles.description, " +
		"articles.created_at, articles.updated_at"
	authorColumns = "users.id AS author_id, users.username AS author_username, " +
		"users.bio AS author_bio, users.image AS author_image"
	aggregateColumns = "COUNT(DISTINCT article_favorites.user_id) AS favorites_count, " +
		"ARRAY_TO_JSON(COALESCE(ARRAY_AGG(DISTINCT tags.name ORDER BY tags.name) " +
		"FILTER (WHERE tags.name IS NOT NULL), ARRAY[]::text[])) AS tag_list"

	viewerArticleFlags = "EXISTS (SELECT 1 FROM user_follows viewer_follows " +
		"WHERE viewer_follows.follower_id = ? AND viewer_follows.followee_id = users.id) AS following, " +
		"EXISTS (SELECT 1 FROM article_favorites viewer_favorites " +
		"WHERE viewer_favorites.user_id = ? AND viewer_favorites.article_id = articles.id) AS favorited"
	anonymousArticleFlags = "FALSE AS following, FALSE AS favorited"
)

// Articles describes an article view query.
type Articles struct {
	Viewer     Viewer
	Predicates []Predicate
	Projection Projection
}

// base compiles the grouped statement every article view is derived from.
func (q Articles) base(tx *gorm.DB) *gorm.DB {
	cols := articleColumns
	if q.Projection == Detail {
		cols += ", articles.body"
	}
	cols += ", " + authorColumns + ", " + aggregateColumns + ", "

	if id, ok := q.Viewer.ID(); ok {
		tx = tx.Table("articles").Select(cols+viewerArticleFlags, id, id)
	} else {
		tx = tx.Table("articles").Select(cols + anonymousArticleFlags)
	}

	tx = tx.
		Joins("INNER JOIN users ON users.id = articles.author_id").
		Joins("LEFT JOIN article_tags ON article_tags.article_id = articles.id").
		Joins("LEFT JOIN tags ON tags.id = article_tags.tag_id").
		Joins("LEFT JOIN article_favorites ON article_favorites.article_id = articles.id")

	return applyAll(tx, q.Predicates).Group("articles.id, users.id")
}

// One returns the statement for a single-article lookup. Callers decide
// whether zero rows is an error.
func (q Articles) One(tx *gorm.DB) *gorm.DB {
	return q.base(tx)
}

// List returns the statement for one page, newest first.
func (q Articles) List(tx *gorm.DB, page Page) *gorm.DB {
	return q.base(tx).
		Order("articles.created_at DESC").
		Order("articles.id DESC").
		Limit(page.Limit).
		Offset(page.Offset)
}

// Count wraps the unpaginated statement so the total always matches List.
// Run it with Count(&n).
func (q Articles) Count(tx *gorm.DB) *gorm.DB {
	inner := q.base(tx.Session(&gorm.Session{NewDB: true}))
	return tx.Table("(?) AS a", inner)
}
