package cmd

import (
	"fmt"

	"bloghub/internal/auth"
	"bloghub/internal/config"
	"bloghub/internal/database"
	"bloghub/internal/mailer"
	"bloghub/internal/repository"
	"bloghub/internal/service"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	superuserEmail     string
	superuserFirstName string
	superuserLastName  string
	superuserPassword  string
)

// createsuperuserCmd provisions a verified staff account from the CLI.
var createsuperuserCmd = &cobra.Command{
	Use:   "createsuperuser",
	Short: "Create a superuser account",
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
		user, err := users.CreateSuperuser(cmd.Context(), superuserEmail, superuserFirstName, superuserLastName, superuserPassword)
		if err != nil {
			return err
		}

		fmt.Printf("Superuser %s created (id %d)\n", user.Email, user.ID)
		return nil
	},
}

// newUserService wires a UserService for one-shot CLI commands. Emails are
// logged rather than queued; these commands do not touch the broker.
func newUserService(cfg *config.Config, db *gorm.DB) *service.UserService {
	return service.NewUserService(
		repository.NewUserRepository(db),
		repository.NewTokenRepository(db),
		auth.NewJWTManager(cfg.JWTSecret),
		auth.NewResetTokenGenerator(cfg.JWTSecret),
		mailer.NewLogPublisher(),
		cfg.Domain,
	)
}

func init() {
	rootCmd.AddCommand(createsuperuserCmd)
	createsuperuserCmd.Flags().StringVar(&superuserEmail, "email", "", "superuser email (required)")
	createsuperuserCmd.Flags().StringVar(&superuserFirstName, "first-name", "Admin", "first name")
	createsuperuserCmd.Flags().StringVar(&superuserLastName, "last-name", "User", "last name")
	createsuperuserCmd.Flags().StringVar(&superuserPassword, "password", "", "password (required)")
	_ = createsuperuserCmd.MarkFlagRequired("email")
	_ = createsuperuserCmd.MarkFlagRequired("password")
}
