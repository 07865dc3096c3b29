package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"portfolio/internal/config"
	"portfolio/internal/database"
	"portfolio/internal/mail"
	"portfolio/internal/server"
	"portfolio/internal/services"
	"portfolio/pkg/rabbitmq"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/streadway/amqp"
)

var provisionOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the portfolio web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		// --- Configuration ---
		cfg := config.Load(config.New())
		log := newLogger(cfg)
		if err := cfg.Validate(); err != nil {
			log.Errorf("Refusing to start: %v", err)
			return err
		}

		// --- Database ---
		db, err := database.Open(cfg.DatabaseURL, cfg.Debug)
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return err
		}

		// --- Mail dispatch ---
		sender := mail.NewSender(cfg.Mail, log)
		var dispatcher services.Dispatcher = services.NewDirectDispatcher(sender, cfg.Mail.Timeout)
		var mqClient *rabbitmq.Client
		if cfg.RabbitMQURL != "" {
			mqClient, err = rabbitmq.NewClient(rabbitmq.Config{
				URL:        cfg.RabbitMQURL,
				Queues:     []string{services.ContactQueue},
				DeadLetter: true,
			}, log)
			if err != nil {
				return err
			}
			defer mqClient.Close()
			dispatcher = services.NewQueueDispatcher(mqClient)
		}

		srv := server.New(cfg, db, sender, dispatcher, log)

		// --- Provisioning ---
		if provisionOnStart {
			if !cfg.Admin.Configured() {
				log.Warn("ADMIN_USERNAME or ADMIN_PASSWORD not set; skipping admin provisioning")
			} else if _, err := srv.Auth.EnsureAdmin(cmd.Context(), cfg.Admin.Username, cfg.Admin.Password); err != nil {
				log.Errorf("Admin provisioning failed: %v", err)
			}
		}

		// --- Background jobs ---
		if mqClient != nil {
			err := mqClient.Consume(services.ContactQueue, func(msg amqp.Delivery) error {
				return srv.Contact.Deliver(msg.Body)
			})
			if err != nil {
				return err
			}
		}

		scheduler := cron.New()
		_, err = scheduler.AddFunc(cfg.Session.PruneSchedule, func() {
			n, err := srv.Auth.PruneRevoked(context.Background())
			if err != nil {
				log.Errorf("Pruning revoked sessions failed: %v", err)
				return
			}
			log.Debugf("Pruned %d revoked session(s)", n)
		})
		if err != nil {
			return err
		}
		scheduler.Start()
		defer scheduler.Stop()

		// --- HTTP server ---
		log.Infof("Starting server on %s", cfg.AppPort)

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		listenErr := make(chan error, 1)
		go func() {
			listenErr <- srv.App.Listen(cfg.AppPort)
		}()

		select {
		case err := <-listenErr:
			return err
		case <-quit:
		}

		log.Info("Shutting down server...")
		if err := srv.App.Shutdown(); err != nil {
			log.Errorf("Error during Fiber shutdown: %v", err)
		}
		log.Info("Server gracefully stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&provisionOnStart, "ensure-admin", true, "create or reset the configured administrator on start")
}
