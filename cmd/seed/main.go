// Command main runs the database seeder for Atelier.
package main

import (
	"flag"
	"log"

	"atelier/internal/config"
	"atelier/internal/database"
	"atelier/internal/seed"
)

func main() {
	// Parse command line flags
	numPosts := flag.Int("posts", 40, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Store the admin password unhashed (dev only)")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d posts, clean=%v\n", *numPosts, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if _, err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(database.DB, seed.Options{
		NumPosts:    *numPosts,
		ShouldClean: *shouldClean,
		SkipBcrypt:  *skipBcrypt,
	})
	if err := s.Run(); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}
}
