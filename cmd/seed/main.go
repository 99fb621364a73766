// Command seed fills the database with demo users, articles and relations.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/repository"
	"inkwell/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numArticles := flag.Int("articles", 100, "Number of articles to create")
	numFollows := flag.Int("follows", 60, "Number of follow edges to create")
	numFavorites := flag.Int("favorites", 200, "Number of favorites to create")
	numComments := flag.Int("comments", 150, "Number of comments to create")
	maxTags := flag.Int("max-tags", 3, "Maximum tags per article")
	randSeed := flag.Int64("seed", time.Now().UnixNano(), "Random seed for generated content")
	shouldClean := flag.Bool("clean", false, "Delete existing data before seeding")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to read .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}

	c := cache.Connect(cfg.RedisURL)
	defer func() { _ = c.Close() }()

	if *shouldClean {
		if err := seed.Clear(db); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		c.Invalidate(context.Background(), cache.TagsKey)
	}

	s := seed.NewSeeder(repository.NewStore(db), c, *randSeed)
	sum, err := s.Run(context.Background(), seed.Options{
		Users:     *numUsers,
		Articles:  *numArticles,
		Follows:   *numFollows,
		Favorites: *numFavorites,
		Comments:  *numComments,
		MaxTags:   *maxTags,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %d articles, %d follows, %d favorites, %d comments",
		sum.Users, sum.Articles, sum.Follows, sum.Favorites, sum.Comments)
	log.Printf("All seeded users have the password: %s", seed.DemoPassword)
}
