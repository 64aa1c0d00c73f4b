// Package cmd contains the bloghub CLI commands.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bloghub",
	Short: "Bloghub blog platform backend",
	Long: `Bloghub is a blog platform backend: accounts with email verification,
opaque token and JWT authentication, posts, categories, comments, likes
and favorites over a versioned JSON API.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
