package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bloghub/internal/config"
	"bloghub/internal/mailer"
	"bloghub/internal/mq"

	"github.com/spf13/cobra"
)

// workerCmd runs the email delivery worker.
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the email delivery worker",
	Long: `Consumes the email queue and delivers verification and password
reset emails over SMTP. Run alongside the API server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if cfg.RabbitURL == "" {
			return errors.New("RABBITMQ_URL must be set to run the worker")
		}

		client, err := mq.NewRabbitMQClient(cfg.RabbitURL)
		if err != nil {
			return fmt.Errorf("failed to connect to message broker: %w", err)
		}
		broker := mq.New(client)
		defer broker.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		worker := mailer.NewWorker(broker, cfg.EmailQueue, mailer.NewSMTPSender(cfg))
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
