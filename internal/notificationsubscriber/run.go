package notificationsubscriber

import (
	"context"
	"errors"
	"flag"

	"sochow/internal/config"
	"sochow/internal/notificationsubscriber/subscriber"
	"sochow/pkg/logger"
	"sochow/pkg/rabbitmq"
)

type params struct {
	configPath string
}

// Execute runs the notification relay until ctx is cancelled.
func Execute(ctx context.Context, mylog *logger.Logger, args []string) error {
	p, err := parseParams(args)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(p.configPath)
	if err != nil {
		mylog.Error("startup", "config_load_failed", "Failed to load config", err)
		return err
	}

	rmq, err := rabbitmq.ConnectRabbitMQ(cfg.RMQ, mylog)
	if err != nil {
		mylog.Error("startup", "rabbitmq_connection_failed", "Failed to connect to RabbitMQ", err)
		return err
	}
	defer rmq.Close()

	sub := subscriber.NewNotificationSubscriber(rmq, mylog)
	if err := sub.Start(ctx); err != nil {
		mylog.Error("runtime", "subscriber_failed", "Notification subscriber stopped with error", err)
		return err
	}

	mylog.Info("shutdown", "graceful_shutdown_completed", "Notification subscriber stopped")
	return nil
}

func parseParams(args []string) (*params, error) {
	fs := flag.NewFlagSet("notification-subscriber", flag.ContinueOnError)
	configPath := fs.String("config-path", "config.yaml", "path to the yaml config")

	if err := fs.Parse(args); err != nil {
		return nil, errors.New("cannot parse arguments")
	}

	return &params{configPath: *configPath}, nil
}
