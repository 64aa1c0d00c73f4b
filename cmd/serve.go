package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bloghub/internal/config"
	"bloghub/internal/scheduler"
	"bloghub/internal/server"

	"github.com/spf13/cobra"
)

// serveCmd starts the API server with the cleanup scheduler attached.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the bloghub API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		srv, err := server.NewServer(cfg)
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		sched, err := scheduler.New(srv.UserService())
		if err != nil {
			return fmt.Errorf("failed to create scheduler: %w", err)
		}
		sched.Start()

		// Graceful shutdown
		go func() {
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			<-sigChan

			log.Println("Shutting down server...")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			sched.Stop()
			if err := srv.Shutdown(ctx); err != nil {
				log.Printf("Server resource shutdown error: %v", err)
			}
		}()

		return srv.Start()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
