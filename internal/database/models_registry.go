package database

import "inkwell/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models,
// parents before the tables that reference them.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.UserFollow{},
		&models.Article{},
		&models.Tag{},
		&models.ArticleTag{},
		&models.ArticleFavorite{},
		&models.Comment{},
	}
}
