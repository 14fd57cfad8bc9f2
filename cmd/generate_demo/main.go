// Command generate_demo creates a demo database with sample users and posts.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"

	"github.com/avasilenko/scribe/internal/auth"
	"github.com/avasilenko/scribe/internal/config"
	"github.com/avasilenko/scribe/internal/database"
	"github.com/avasilenko/scribe/internal/database/posts"
	"github.com/avasilenko/scribe/internal/database/users"
)

const defaultDemoDatabasePath = "./demo/demo.db"

// Demo accounts all share this password.
const demoPassword = "letmein"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	userRepo := users.NewRepository(db.DB)
	postRepo := posts.NewRepository(db.DB)
	authService := auth.NewService(userRepo, config.Auth{BcryptCost: config.DefaultBcryptCost})

	authors := createUsers(authService)

	for _, p := range getSamplePosts() {
		authorID := authors[p.author]
		if authorID == 0 {
			log.Printf("Skipping post %q: unknown author %s", p.title, p.author)
			continue
		}
		if _, err := postRepo.Create(p.title, p.content, authorID); err != nil {
			log.Printf("Failed to save post %q: %v", p.title, err)
			continue
		}
		log.Printf("Saved: %q by %s", p.title, p.author)
	}

	log.Println("Demo database generated successfully!")
}

func createUsers(service *auth.Service) map[string]uint {
	usernames := []string{
		"marcus",
		"seneca",
		"dorian",
	}

	ids := make(map[string]uint)
	for _, name := range usernames {
		user, err := service.Register(name, demoPassword)
		if err != nil {
			log.Printf("Failed to create user %s: %v", name, err)
			continue
		}
		ids[name] = user.ID
		log.Printf("Created user %s (password %q)", name, demoPassword)
	}
	return ids
}

type samplePost struct {
	author  string
	title   string
	content string
}

func getSamplePosts() []samplePost {
	return []samplePost{
		{
			author: "marcus",
			title:  "On mornings",
			content: "When you arise in the morning, think of what a precious privilege " +
				"it is to be alive. To breathe, to think, to enjoy, to love. Most days I " +
				"forget this before the first coffee; writing it down helps.",
		},
		{
			author: "marcus",
			title:  "The quality of thoughts",
			content: "The happiness of your life depends upon the quality of your " +
				"thoughts. A short post, but I keep coming back to it.",
		},
		{
			author: "seneca",
			title:  "On wasted time",
			content: "It is not that we have a short time to live, but that we waste a " +
				"lot of it. I tracked my week and the results were not flattering. " +
				"Notes and numbers below.",
		},
		{
			author: "seneca",
			title:  "Preparation and opportunity",
			content: "Luck is what happens when preparation meets opportunity. Some " +
				"thoughts on how that applies to side projects.",
		},
		{
			author: "dorian",
			title:  "On definitions",
			content: "To define is to limit. Which is exactly why writing a good " +
				"glossary is so hard, and why most of mine are bad.",
		},
		{
			author: "dorian",
			title:  "Experience",
			content: "Experience is merely the name men gave to their mistakes. A " +
				"retrospective on a year of them.",
		},
	}
}
