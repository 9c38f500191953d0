// Command seed fills the database with demo users, groups, posts, comments and follows.
package main

import (
	"flag"
	"log"

	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	numComments := flag.Int("comments", 300, "Number of comments to create")
	follows := flag.Int("follows", 5, "Authors followed by each user")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	fixtures := flag.String("groups", "", "Group fixtures YAML file (built-in set when empty)")
	flag.Parse()

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

	groupFile := *fixtures
	if groupFile == "" {
		groupFile = cfg.GroupFixtures
	}

	result, err := seed.Seed(db, seed.Options{
		NumUsers:       *numUsers,
		NumPosts:       *numPosts,
		NumComments:    *numComments,
		FollowsPerUser: *follows,
		ShouldClean:    *shouldClean,
		GroupFixtures:  groupFile,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %d groups, %d posts, %d comments, %d follows",
		result.Users, result.Groups, result.Posts, result.Comments, result.Follows)
	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}
