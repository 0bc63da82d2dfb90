package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/quillpost/quill/models"
	"github.com/quillpost/quill/utils"
)

const seedPassword = "password123"

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate an empty database with demo users, posts, likes and follows",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer closeDatabase(db)

		summary, err := seedDemoData(db)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users, %d posts, %d likes, %d follows (password %q)\n",
			summary.Users, summary.Posts, summary.Likes, summary.Follows, seedPassword)
		return nil
	},
}

type seedSummary struct {
	Users, Posts, Likes, Follows int
}

// seedDemoData inserts a small fixed dataset. It refuses to touch a database that already has users.
func seedDemoData(db *gorm.DB) (seedSummary, error) {
	var summary seedSummary

	var existing int64
	if err := db.Model(&models.User{}).Count(&existing).Error; err != nil {
		return summary, err
	}
	if existing > 0 {
		return summary, fmt.Errorf("database already has %d users, refusing to seed", existing)
	}

	hash, err := utils.HashPassword(seedPassword)
	if err != nil {
		return summary, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		users := []models.User{
			{Name: "Alice", Email: "alice@example.com", Password: hash},
			{Name: "Bob", Email: "bob@example.com", Password: hash},
			{Name: "Carol", Email: "carol@example.com", Password: hash},
		}
		if err := tx.Create(&users).Error; err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
		alice, bob, carol := users[0], users[1], users[2]

		posts := []models.Post{
			{Title: "Hello, Quill", Body: "First post on the platform.", AuthorID: alice.ID},
			{Title: "Notes on pagination", Body: "Pages start at 1 and hold at most 100 items.", AuthorID: alice.ID},
			{Title: "Weekend hike", Body: "Photos coming soon.", AuthorID: bob.ID},
		}
		if err := tx.Create(&posts).Error; err != nil {
			return fmt.Errorf("seed posts: %w", err)
		}

		likes := []models.Like{
			{UserID: bob.ID, PostID: posts[0].ID},
			{UserID: carol.ID, PostID: posts[0].ID},
			{UserID: alice.ID, PostID: posts[2].ID},
		}
		if err := tx.Create(&likes).Error; err != nil {
			return fmt.Errorf("seed likes: %w", err)
		}

		follows := []models.Follow{
			{FollowerID: bob.ID, FollowingID: alice.ID},
			{FollowerID: carol.ID, FollowingID: alice.ID},
			{FollowerID: alice.ID, FollowingID: bob.ID},
		}
		if err := tx.Create(&follows).Error; err != nil {
			return fmt.Errorf("seed follows: %w", err)
		}

		summary = seedSummary{Users: len(users), Posts: len(posts), Likes: len(likes), Follows: len(follows)}
		return nil
	})
	return summary, err
}
