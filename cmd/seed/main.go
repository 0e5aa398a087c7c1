package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/roozanaryal/TwitterClone-sub000/internal/auth"
	"github.com/roozanaryal/TwitterClone-sub000/internal/config"
	"github.com/roozanaryal/TwitterClone-sub000/internal/container"
	"github.com/roozanaryal/TwitterClone-sub000/internal/database"
	"github.com/roozanaryal/TwitterClone-sub000/internal/models"
	"github.com/roozanaryal/TwitterClone-sub000/internal/seed"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	command := "dev"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "dev", "test", "clean":
	default:
		fmt.Println("Usage: seed [dev|test|clean]")
		fmt.Println("  dev   - Seed development database with fake users and activity")
		fmt.Println("  test  - Seed alice, bob and carol with a few fixed posts")
		fmt.Println("  clean - Remove all rows (use with caution)")
		os.Exit(1)
	}

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	ctx := context.Background()
	c, err := container.Build(ctx, cfg, db)
	if err != nil {
		log.Fatalf("Failed to build services: %v", err)
	}
	defer func() {
		_ = c.Cleanup(ctx)
		_ = database.Close(db)
	}()

	seeder := seed.NewSeeder(db, c.Engagement())

	var users []*models.User
	switch command {
	case "dev":
		log.Println("Seeding development database...")
		users, err = seeder.SeedDev(ctx, seed.DefaultOptions())
	case "test":
		log.Println("Seeding test database...")
		users, err = seeder.SeedTest(ctx)
	case "clean":
		log.Println("Removing all rows...")
		err = seeder.Clean(ctx)
	}
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	printTokens(cfg, users)
	log.Println("Done")
}

// printTokens prints a bearer token per seeded user so the cli can act as
// them.
func printTokens(cfg *config.Config, users []*models.User) {
	if len(users) == 0 {
		return
	}
	if cfg.Auth.JWTSecret == "" {
		fmt.Println("No JWT secret configured; send X-User-ID with one of these ids:")
	}
	for _, u := range users {
		if cfg.Auth.JWTSecret == "" {
			fmt.Printf("  %-20s %s\n", u.Username, u.ID)
			continue
		}
		token, _, err := auth.IssueToken(cfg.Auth.JWTSecret, cfg.Auth.Issuer, u.ID, cfg.Auth.TokenTTL)
		if err != nil {
			log.Printf("Failed to issue token for %s: %v", u.Username, err)
			continue
		}
		fmt.Printf("  %-20s %s\n", u.Username, token)
	}
}
