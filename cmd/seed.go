package cmd

import (
	"fmt"

	"bloghub/internal/config"
	"bloghub/internal/database"
	"bloghub/internal/seed"

	"github.com/spf13/cobra"
)

var (
	seedUsers      int
	seedCategories int
	seedPosts      int
)

// seedCmd fills the database with demo data.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with demo data",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if cfg.Env == "production" || cfg.Env == "prod" {
			return fmt.Errorf("refusing to seed a production database")
		}

		db, err := database.Connect(cfg)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}

		opts := seed.DefaultOptions
		if seedUsers > 0 {
			opts.Users = seedUsers
		}
		if seedCategories > 0 {
			opts.Categories = seedCategories
		}
		if seedPosts > 0 {
			opts.PostsPerUser = seedPosts
		}
		return seed.Run(db, opts)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().IntVar(&seedUsers, "users", 0, "number of users to create")
	seedCmd.Flags().IntVar(&seedCategories, "categories", 0, "number of categories to create")
	seedCmd.Flags().IntVar(&seedPosts, "posts-per-user", 0, "posts per user")
}
