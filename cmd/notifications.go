package main

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"restaurant-cart/internal/logger"
	"restaurant-cart/internal/messaging"
	"restaurant-cart/internal/services/notification"
)

var notificationsPrefetch int

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Print cart, order and contact notifications from RabbitMQ",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.RabbitMQURL() == "" {
			return errors.New("notifications require rabbitmq settings")
		}

		log := newLogger("notifications")
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		d, err := connect(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer d.Close()

		consumer := messaging.NewConsumer(d.mq, log, messaging.NotificationsQueue,
			"notifications-"+logger.GenerateRequestID()[:8], notificationsPrefetch)
		return notification.NewSubscriber(consumer, cmd.OutOrStdout(), log).Start(ctx)
	},
}

func init() {
	notificationsCmd.Flags().IntVar(&notificationsPrefetch, "prefetch", 10, "RabbitMQ prefetch count")
}
