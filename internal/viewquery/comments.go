package viewquery

import (
	"gorm.io/gorm"
)

const (
	commentColumns = "comments.id, comments.body, comments.created_at, comments.updated_at, " +
		"users.id AS author_id, users.username AS author_username, " +
		"users.bio AS author_bio, users.image AS author_image, "

	viewerCommentFlag = "EXISTS (SELECT 1 FROM user_follows viewer_follows " +
		"WHERE viewer_follows.follower_id = ? AND viewer_follows.followee_id = users.id) AS following"
	anonymousCommentFlag = "FALSE AS following"
)

// Comments describes a comment view query.
type Comments struct {
	Viewer     Viewer
	Predicates []Predicate
}

func (q Comments) base(tx *gorm.DB) *gorm.DB {
	if id, ok := q.Viewer.ID(); ok {
		tx = tx.Table("comments").Select(commentColumns+viewerCommentFlag, id)
	} else {
		tx = tx.Table("comments").Select(commentColumns + anonymousCommentFlag)
	}
	tx = tx.Joins("INNER JOIN users ON users.id = comments.author_id")
	return applyAll(tx, q.Predicates)
}

func (q Comments) One(tx *gorm.DB) *gorm.DB {
	return q.base(tx)
}

// List returns every matching comment, newest first.
func (q Comments) List(tx *gorm.DB) *gorm.DB {
	return q.base(tx).Order("comments.created_at DESC").Order("comments.id DESC")
}
