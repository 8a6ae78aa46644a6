package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/surau-digital/surauhub/db"
	"github.com/surau-digital/surauhub/lib/logging"
	"github.com/surau-digital/surauhub/lib/service"
	"github.com/surau-digital/surauhub/rabbitmq"
)

// The notes worker keeps the auto generated notes of the annual statement in
// step with the transactions. It listens to the domain events published by
// the server and regenerates the notes of every affected year.
func main() {

	c := &service.Config{}
	// Load configruation from environment variables
	err := godotenv.Load(".env")
	if err != nil {
		fmt.Println("Failed to load .env file")
	}
	err = envconfig.Process("", c)
	if err != nil {
		log.Fatalf("Error loading environment variables: %v", err)
	}
	logger := logging.Logger(c.LogFilePath, c.LogLevel)
	if c.RabbitMQUri == "" {
		logger.Fatal("RABBITMQ_URI is required for the notes worker")
	}

	if c.SentryDSN != "" {
		if err = sentry.Init(sentry.ClientOptions{
			Dsn: c.SentryDSN,
		}); err != nil {
			logger.Errorf("sentry init error: %v", err)
		}
	}

	// Open a DB connection based on the configured DATABASE_URI
	dbConn, err := db.Open(c)
	if err != nil {
		logger.Fatalf("Error initializing db connection: %v", err)
	}
	defer dbConn.Close()

	amqpClient, err := rabbitmq.DialAMQP(c.RabbitMQUri, rabbitmq.WithAmqpLogger(logger))
	if err != nil {
		logger.Fatal(err)
	}
	rabbitmqClient, err := rabbitmq.NewClient(amqpClient,
		rabbitmq.WithLogger(logger),
		rabbitmq.WithEventExchange(c.RabbitMQEventExchange),
		rabbitmq.WithNotesConsumerQueueName(c.RabbitMQNotesQueueName),
	)
	if err != nil {
		logger.Fatal(err)
	}
	// close the connection gently at the end of the runtime
	defer rabbitmqClient.Close()

	// events produced by the worker itself are not published anywhere
	svc := &service.SurauService{
		Config: c,
		DB:     dbConn,
		Logger: logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = rabbitmqClient.ConsumeNotaEvents(ctx, svc)
	if err != nil && err != context.Canceled {
		sentry.CaptureException(err)
		logger.Error(err)
	}
	logger.Info("Notes worker exiting gracefully. Goodbye.")
}
