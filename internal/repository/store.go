package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories over one connection and runs multi-step
// writes atomically.
type Store interface {
	Users() UserRepository
	Articles() ArticleRepository
	Comments() CommentRepository
	Tags() TagRepository
	Profiles() ProfileRepository
	// Transaction runs fn against a Store bound to a single transaction.
	// Returning an error from fn rolls everything back.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type gormStore struct {
	db       *gorm.DB
	users    UserRepository
	articles ArticleRepository
	comments CommentRepository
	tags     TagRepository
	profiles ProfileRepository
}

// NewStore creates a store over db.
func NewStore(db *gorm.DB) Store {
	return &gormStore{
		db:       db,
		users:    NewUserRepository(db),
		articles: NewArticleRepository(db),
		comments: NewCommentRepository(db),
		tags:     NewTagRepository(db),
		profiles: NewProfileRepository(db),
	}
}

func (s *gormStore) Users() UserRepository       { return s.users }
func (s *gormStore) Articles() ArticleRepository { return s.articles }
func (s *gormStore) Comments() CommentRepository { return s.comments }
func (s *gormStore) Tags() TagRepository         { return s.tags }
func (s *gormStore) Profiles() ProfileRepository { return s.profiles }

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
	return storeError(ctx, "store.Transaction", err)
}
