package viewquery

import (
	"inkwell/internal/values"

	"gorm.io/gorm"
)

// Predicate is one WHERE fragment of a view query. The set of predicates is
// closed; build them with the constructors below.
type Predicate interface {
	apply(tx *gorm.DB) *gorm.DB
}

type tagPredicate struct{ name values.TagName }

func (p tagPredicate) apply(tx *gorm.DB) *gorm.DB {
	return tx.Where(`EXISTS (SELECT 1 FROM article_tags filter_article_tags `+
		`INNER JOIN tags filter_tags ON filter_tags.id = filter_article_tags.tag_id `+
		`WHERE filter_article_tags.article_id = articles.id AND filter_tags.name = ?)`, p.name)
}

// TagNamed keeps articles carrying the named tag.
func TagNamed(name values.TagName) Predicate {
	return tagPredicate{name: name}
}

type authorPredicate struct{ username values.Username }

func (p authorPredicate) apply(tx *gorm.DB) *gorm.DB {
	return tx.Where("users.username = ?", p.username)
}

// AuthoredBy keeps articles written by the named user.
func AuthoredBy(username values.Username) Predicate {
	return authorPredicate{username: username}
}

type favoritedByPredicate struct{ username values.Username }

func (p favoritedByPredicate) apply(tx *gorm.DB) *gorm.DB {
	return tx.Where(`articles.id IN (SELECT filter_favorites.article_id FROM article_favorites filter_favorites `+
		`INNER JOIN users filter_users ON filter_users.id = filter_favorites.user_id `+
		`WHERE filter_users.username = ?)`, p.username)
}

// FavoritedBy keeps articles the named user has favorited.
func FavoritedBy(username values.Username) Predicate {
	return favoritedByPredicate{username: username}
}

type followedByPredicate struct{ follower values.UserID }

func (p followedByPredicate) apply(tx *gorm.DB) *gorm.DB {
	return tx.Where(`EXISTS (SELECT 1 FROM user_follows feed_follows `+
		`WHERE feed_follows.follower_id = ? AND feed_follows.followee_id = users.id)`, p.follower)
}

// FollowedBy keeps articles whose author is followed by the given user.
func FollowedBy(follower values.UserID) Predicate {
	return followedByPredicate{follower: follower}
}

// ArticleField names a column an article can be looked up by.
type ArticleField int

const (
	ArticleByID ArticleField = iota
	ArticleBySlug
)

func (f ArticleField) column() string {
	if f == ArticleBySlug {
		return "articles.slug"
	}
	return "articles.id"
}

func (f ArticleField) String() string {
	if f == ArticleBySlug {
		return "slug"
	}
	return "id"
}

type articleEqualsPredicate struct {
	field ArticleField
	value any
}

func (p articleEqualsPredicate) apply(tx *gorm.DB) *gorm.DB {
	return tx.Where(p.field.column()+" = ?", p.value)
}

// ArticleEquals keeps the article whose field equals value.
func ArticleEquals(field ArticleField, value any) Predicate {
	return articleEqualsPredicate{field: field, value: value}
}

type onArticlePredicate struct{ id values.ArticleID }

func (p onArticlePredicate) apply(tx *gorm.DB) *gorm.DB {
	return tx.Where("comments.article_id = ?", p.id)
}

// OnArticle keeps comments posted on the given article.
func OnArticle(id values.ArticleID) Predicate {
	return onArticlePredicate{id: id}
}

type commentIDPredicate struct{ id values.CommentID }

func (p commentIDPredicate) apply(tx *gorm.DB) *gorm.DB {
	return tx.Where("comments.id = ?", p.id)
}

// CommentWithID keeps the comment with the given id.
func CommentWithID(id values.CommentID) Predicate {
	return commentIDPredicate{id: id}
}

func applyAll(tx *gorm.DB, preds []Predicate) *gorm.DB {
	for _, p := range preds {
		tx = p.apply(tx)
	}
	return tx
}
