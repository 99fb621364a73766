package values

import (
	"database/sql/driver"
	"strconv"
)

// UserID identifies a user.
type UserID uint

// ArticleID identifies an article.
type ArticleID uint

// CommentID identifies a comment.
type CommentID uint

// TagID identifies a tag.
type TagID uint

func NewUserID(raw uint) (UserID, error) {
	if raw == 0 {
		return 0, invalid("user id", "must be positive")
	}
	return UserID(raw), nil
}

func NewArticleID(raw uint) (ArticleID, error) {
	if raw == 0 {
		return 0, invalid("article id", "must be positive")
	}
	return ArticleID(raw), nil
}

// ParseCommentID parses a path segment into a CommentID.
func ParseCommentID(raw string) (CommentID, error) {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, invalid("comment id", "must be a positive integer")
	}
	return CommentID(n), nil
}

func (id UserID) Value() (driver.Value, error)    { return int64(id), nil }
func (id ArticleID) Value() (driver.Value, error) { return int64(id), nil }
func (id CommentID) Value() (driver.Value, error) { return int64(id), nil }
func (id TagID) Value() (driver.Value, error)     { return int64(id), nil }
