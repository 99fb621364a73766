package repository

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"inkwell/internal/database"
	"inkwell/internal/models"
	"inkwell/internal/values"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	return gormDB, mock
}

// setupSQLiteDB opens a private in-memory database with the full schema.
func setupSQLiteDB(t *testing.T) *gorm.DB {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	return db
}

// setupPostgresDB connects to the database named by INKWELL_TEST_DATABASE_DSN
// or skips the test.
func setupPostgresDB(t *testing.T) *gorm.DB {
	dsn := os.Getenv("INKWELL_TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("INKWELL_TEST_DATABASE_DSN not set; skipping Postgres integration test")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

func createArticle(t *testing.T, db *gorm.DB, author *models.User, slug string) *models.Article {
	t.Helper()
	article := &models.Article{
		Slug:        slug,
		Title:       slug,
		Description: "description of " + slug,
		Body:        "body of " + slug,
		AuthorID:    author.ID,
	}
	require.NoError(t, NewArticleRepository(db).Insert(context.Background(), article))
	return article
}

func mustTagName(t *testing.T, raw string) values.TagName {
	t.Helper()
	v, err := values.NewTagName(raw)
	require.NoError(t, err)
	return v
}

func mustUsername(t *testing.T, raw string) values.Username {
	t.Helper()
	v, err := values.NewUsername(raw)
	require.NoError(t, err)
	return v
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}
