package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"staffdesk/internal/events"
	"staffdesk/internal/notification"
	"staffdesk/internal/shared/connection"

	"go.uber.org/zap"
)

// RunConsumer tails the workflow topics and writes the in-app notification
// feed until signalled.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	notificationRepo := notification.NewRepository(gormDB)
	notificationService := notification.NewService(notificationRepo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	leaveConsumer := notification.NewWorkflowConsumer(
		kafkaBroker,
		events.LeaveWorkflowTopic,
		"staffdesk-notification-leave",
		notificationService,
	)
	defer leaveConsumer.Close()
	leaveConsumer.Start(ctx)

	programConsumer := notification.NewWorkflowConsumer(
		kafkaBroker,
		events.ProgramWorkflowTopic,
		"staffdesk-notification-program",
		notificationService,
	)
	defer programConsumer.Close()
	programConsumer.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
