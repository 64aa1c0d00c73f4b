package cmd

import (
	"fmt"

	"bloghub/internal/config"
	"bloghub/internal/database"

	"github.com/spf13/cobra"
)

// cleanupCmd deletes unverified accounts older than the retention window.
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete accounts that stayed unverified past the retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		db, err := database.Connect(cfg)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}

		users := newUserService(cfg, db)
		deleted, err := users.DeleteUnverified(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Deleted %d unverified accounts\n", deleted)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}
