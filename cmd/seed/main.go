// Command main runs the database seeder for Inkwell.
package main

import (
	"flag"
	"log"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numPosts := flag.Int("posts", 150, "Number of posts to create")
	numComments := flag.Int("comments", 300, "Number of comments to create")
	numFollows := flag.Int("follows", 60, "Number of follow attempts between users")
	groupsOnly := flag.Bool("groups-only", false, "Only create the built-in groups")
	fast := flag.Bool("fast", false, "Store the demo password unhashed (throwaway databases only)")
	randSeed := flag.Int64("seed", 0, "Random seed for reproducible content (0 means random)")
	flag.Parse()

	log.Println("Inkwell database seeder")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if *groupsOnly {
		if err := seed.Groups(db); err != nil {
			log.Fatalf("Group seeding failed: %v", err)
		}
		log.Println("Built-in groups are in place.")
		return
	}

	log.Printf("Target: %d users, %d posts, %d comments, %d follows", *numUsers, *numPosts, *numComments, *numFollows)

	res, err := seed.NewSeeder(db, seed.Options{
		Users:      *numUsers,
		Posts:      *numPosts,
		Comments:   *numComments,
		Follows:    *numFollows,
		SkipBcrypt: *fast,
		Seed:       *randSeed,
	}).Run()
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Done: %d users, %d posts, %d comments, %d follows", res.Users, res.Posts, res.Comments, res.Follows)
	log.Printf("All generated users have the password: %s", seed.DemoPassword)
}
