package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"sochow/internal/adminservice"
	"sochow/internal/notificationsubscriber"
	"sochow/internal/orderservice"
	"sochow/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	// A missing .env file is fine; the config falls back to defaults.
	_ = godotenv.Load()

	// Global flags for selecting the service mode
	fs := flag.NewFlagSet("main", flag.ExitOnError)
	mode := fs.String("mode", "", "service to run: order-service | admin-service | notification-subscriber")

	// Only parse up to `--mode`, the rest goes to the service
	args := os.Args[1:]
	modeArgs := []string{}
	for i, arg := range args {
		if strings.HasPrefix(arg, "--mode") || strings.HasPrefix(arg, "-mode") {
			modeArgs = args[:i+1]
			break
		}
	}
	if err := fs.Parse(modeArgs); err != nil {
		help(fs)
		return
	}
	if *mode == "" {
		help(fs)
		return
	}
	remainingArgs := args[len(modeArgs):]

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "order-service", "os":
		mylog := logger.NewLogger("order-service")
		mylog.Info("startup", "service_started", "Starting order service")
		if err := orderservice.Execute(ctx, mylog, remainingArgs); err != nil {
			log.Fatalf("failed to execute order-service: %s", err)
		}
		mylog.Info("shutdown", "service_completed", "Order service completed")

	case "admin-service", "as":
		mylog := logger.NewLogger("admin-service")
		mylog.Info("startup", "service_started", "Starting admin service")
		if err := adminservice.Execute(ctx, mylog, remainingArgs); err != nil {
			log.Fatalf("failed to execute admin-service: %s", err)
		}
		mylog.Info("shutdown", "service_completed", "Admin service completed")

	case "notification-subscriber", "ns":
		mylog := logger.NewLogger("notification-subscriber")
		mylog.Info("startup", "service_started", "Starting notification subscriber")
		if err := notificationsubscriber.Execute(ctx, mylog, remainingArgs); err != nil {
			log.Fatalf("failed to execute notification-subscriber: %s", err)
		}
		mylog.Info("shutdown", "service_completed", "Notification subscriber completed")

	default:
		help(fs)
	}
}

func help(fs *flag.FlagSet) {
	fmt.Println("\nUsage:")
	fs.PrintDefaults()
	fmt.Println("\nExample:")
	fmt.Println("  ./sochow --mode=order-service --port=3000")
	fmt.Println("  ./sochow --mode=admin-service --port=3001")
	fmt.Println("  ./sochow --mode=notification-subscriber")
}
