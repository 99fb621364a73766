// Package seed creates demo data through the domain services. It is intended
// for development and testing only.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"inkwell/internal/cache"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/service"
	"inkwell/internal/values"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// DemoPassword is the password of every seeded user.
const DemoPassword = "password123"

// DefaultTags is the pool seeded articles draw their tags from.
var DefaultTags = []string{
	"go", "rust", "databases", "distributed-systems",
	"testing", "devops", "security", "career",
}

// Options controls how much data Run creates.
type Options struct {
	Users     int
	Articles  int
	Follows   int
	Favorites int
	Comments  int
	MaxTags   int
	Tags      []string
}

// Summary counts what Run created.
type Summary struct {
	Users     int
	Articles  int
	Follows   int
	Favorites int
	Comments  int
}

// Seeder drives the services with generated content so every row passes the
// same validation as API traffic.
type Seeder struct {
	faker    *gofakeit.Faker
	rng      *rand.Rand
	users    *service.UserService
	profiles *service.ProfileService
	articles *service.ArticleService
	comments *service.CommentService
}

// NewSeeder builds a seeder whose generated content is reproducible for a
// given seed.
func NewSeeder(store repository.Store, c *cache.Cache, seed int64) *Seeder {
	return &Seeder{
		faker:    gofakeit.New(seed),
		rng:      rand.New(rand.NewSource(seed)),
		users:    service.NewUserService(store),
		profiles: service.NewProfileService(store),
		articles: service.NewArticleService(store, service.NewTagService(store, c)),
		comments: service.NewCommentService(store),
	}
}

// userInput generates a registration for the i-th user.
func (s *Seeder) userInput(i int) (service.RegisterInput, error) {
	handle := strings.ToLower(s.faker.Username())
	if len(handle) > 40 {
		handle = handle[:40]
	}
	username, err := values.NewUsername(fmt.Sprintf("%s_%d", handle, i))
	if err != nil {
		return service.RegisterInput{}, err
	}
	email, err := values.NewEmail(fmt.Sprintf("%s@example.com", strings.ToLower(username.String())))
	if err != nil {
		return service.RegisterInput{}, err
	}
	password, err := values.NewPassword(DemoPassword)
	if err != nil {
		return service.RegisterInput{}, err
	}
	return service.RegisterInput{Username: username, Email: email, Password: password}, nil
}

// articleInput generates the i-th article for author with up to maxTags tags.
func (s *Seeder) articleInput(i int, author values.UserID, pool []string, maxTags int) (service.CreateArticleInput, error) {
	title, err := values.NewTitle(fmt.Sprintf("%s %d", strings.TrimSuffix(s.faker.Sentence(5), "."), i))
	if err != nil {
		return service.CreateArticleInput{}, err
	}
	description, err := values.NewDescription(s.faker.Sentence(12))
	if err != nil {
		return service.CreateArticleInput{}, err
	}
	body, err := values.NewArticleBody(s.faker.Paragraph(3, 4, 12, "\n\n"))
	if err != nil {
		return service.CreateArticleInput{}, err
	}

	var raw []string
	if maxTags > 0 && len(pool) > 0 {
		n := s.rng.Intn(maxTags + 1)
		for _, idx := range s.rng.Perm(len(pool))[:min(n, len(pool))] {
			raw = append(raw, pool[idx])
		}
	}
	tags, err := values.NewTagNames(raw)
	if err != nil {
		return service.CreateArticleInput{}, err
	}

	return service.CreateArticleInput{
		Author:      author,
		Title:       title,
		Description: description,
		Body:        body,
		Tags:        tags,
	}, nil
}

// Run creates users, articles and the relations between them.
func (s *Seeder) Run(ctx context.Context, opts Options) (Summary, error) {
	var sum Summary
	if opts.Tags == nil {
		opts.Tags = DefaultTags
	}

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		in, err := s.userInput(i)
		if err != nil {
			return sum, err
		}
		user, err := s.users.Register(ctx, in)
		if models.IsCode(err, models.CodeConflict) {
			continue
		}
		if err != nil {
			return sum, fmt.Errorf("register user: %w", err)
		}
		users = append(users, user)
	}
	sum.Users = len(users)
	if len(users) == 0 {
		return sum, nil
	}

	slugs := make([]values.Slug, 0, opts.Articles)
	for i := 0; i < opts.Articles; i++ {
		author := users[s.rng.Intn(len(users))]
		in, err := s.articleInput(i, values.UserID(author.ID), opts.Tags, opts.MaxTags)
		if err != nil {
			return sum, err
		}
		view, err := s.articles.CreateArticle(ctx, in)
		if models.IsCode(err, models.CodeConflict) {
			continue
		}
		if err != nil {
			return sum, fmt.Errorf("create article: %w", err)
		}
		slug, err := values.NewSlug(view.Slug)
		if err != nil {
			return sum, err
		}
		slugs = append(slugs, slug)
	}
	sum.Articles = len(slugs)

	for i := 0; i < opts.Follows && len(users) > 1; i++ {
		follower, followee := s.pair(users)
		username, err := values.NewUsername(followee.Username)
		if err != nil {
			return sum, err
		}
		if _, err := s.profiles.Follow(ctx, values.UserID(follower.ID), username); err != nil {
			return sum, fmt.Errorf("follow: %w", err)
		}
		sum.Follows++
	}

	for i := 0; i < opts.Favorites && len(slugs) > 0; i++ {
		user := users[s.rng.Intn(len(users))]
		slug := slugs[s.rng.Intn(len(slugs))]
		if _, err := s.articles.FavoriteArticle(ctx, values.UserID(user.ID), slug); err != nil {
			return sum, fmt.Errorf("favorite: %w", err)
		}
		sum.Favorites++
	}

	for i := 0; i < opts.Comments && len(slugs) > 0; i++ {
		user := users[s.rng.Intn(len(users))]
		body, err := values.NewCommentBody(s.faker.Sentence(10))
		if err != nil {
			return sum, err
		}
		if _, err := s.comments.AddComment(ctx, service.AddCommentInput{
			Author: values.UserID(user.ID),
			Slug:   slugs[s.rng.Intn(len(slugs))],
			Body:   body,
		}); err != nil {
			return sum, fmt.Errorf("comment: %w", err)
		}
		sum.Comments++
	}

	middleware.Logger.InfoContext(ctx, "seed complete",
		"users", sum.Users,
		"articles", sum.Articles,
		"follows", sum.Follows,
		"favorites", sum.Favorites,
		"comments", sum.Comments,
	)
	return sum, nil
}

// pair picks two distinct users.
func (s *Seeder) pair(users []*models.User) (*models.User, *models.User) {
	i := s.rng.Intn(len(users))
	j := s.rng.Intn(len(users) - 1)
	if j >= i {
		j++
	}
	return users[i], users[j]
}

// Clear deletes all rows, children first.
func Clear(db *gorm.DB) error {
	tables := []interface{}{
		&models.Comment{},
		&models.ArticleFavorite{},
		&models.ArticleTag{},
		&models.Article{},
		&models.Tag{},
		&models.UserFollow{},
		&models.User{},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, model := range tables {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}
		return nil
	})
}
