package orderservice

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"time"

	"sochow/internal/cache"
	"sochow/internal/config"
	"sochow/internal/notify"
	"sochow/internal/objectstore"
	"sochow/internal/orderservice/db"
	"sochow/internal/orderservice/handler"
	"sochow/internal/orderservice/service"
	pkgdb "sochow/pkg/db"
	"sochow/pkg/logger"
	"sochow/pkg/rabbitmq"
)

type params struct {
	port       int
	configPath string
}

// Execute runs the customer-facing ordering API until ctx is cancelled.
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

	dbPool, err := pkgdb.ConnectDB(cfg.DB, mylog)
	if err != nil {
		mylog.Error("startup", "db_connection_failed", "Failed to connect to database", err)
		return err
	}
	defer dbPool.Close()

	if err := pkgdb.Migrate(ctx, dbPool, mylog); err != nil {
		mylog.Error("startup", "migration_failed", "Failed to run schema migration", err)
		return err
	}

	rmq, err := rabbitmq.ConnectRabbitMQ(cfg.RMQ, mylog)
	if err != nil {
		mylog.Error("startup", "rabbitmq_connection_failed", "Failed to connect to RabbitMQ", err)
		return err
	}
	defer rmq.Close()

	store, err := objectstore.Connect(ctx, cfg.MinIO, mylog)
	if err != nil {
		mylog.Error("startup", "minio_connection_failed", "Failed to connect to MinIO", err)
		return err
	}

	// The menu cache is an optimization: run without it if Redis is down.
	var menuCache service.MenuCache
	if c, err := cache.Connect(cfg.Redis, mylog); err != nil {
		mylog.Warn("startup", "redis_unavailable", "Running without menu cache: "+err.Error())
	} else {
		menuCache = c
		defer c.Close()
	}

	orderingDB := db.NewOrderingDB(dbPool, mylog)
	notifier := notify.NewNotifier(rmq, mylog)
	svc := service.NewOrderingService(orderingDB, notifier, menuCache, *cfg.Payment, mylog)

	mux := http.NewServeMux()
	handler.NewOrderingHandler(svc, store, mylog).Register(mux)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", p.port),
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	mylog.Info("startup", "server_started", fmt.Sprintf("Ordering service listening on port %d", p.port))

	select {
	case <-ctx.Done():
		mylog.Info("shutdown", "graceful_shutdown_started", "Shutting down ordering service")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			mylog.Error("shutdown", "graceful_shutdown_failed", "Failed to shut down HTTP server", err)
			return err
		}
		mylog.Info("shutdown", "graceful_shutdown_completed", "Ordering service stopped")
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			mylog.Error("runtime", "server_failed", "HTTP server failed unexpectedly", err)
			return err
		}
		return nil
	}
}

func parseParams(args []string) (*params, error) {
	fs := flag.NewFlagSet("order-service", flag.ContinueOnError)
	port := fs.Int("port", 3000, "Port to run the ordering service")
	configPath := fs.String("config-path", "config.yaml", "path to the yaml config")

	if err := fs.Parse(args); err != nil {
		return nil, errors.New("cannot parse arguments")
	}
	if *port <= 0 || *port >= 65536 {
		return nil, fmt.Errorf("port must be in [1, 65535]: %d", *port)
	}

	return &params{port: *port, configPath: *configPath}, nil
}
