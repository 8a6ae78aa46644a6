package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/surau-digital/surauhub/common"
	"github.com/surau-digital/surauhub/db"
	"github.com/surau-digital/surauhub/db/models"
	"github.com/surau-digital/surauhub/lib/logging"
	"github.com/surau-digital/surauhub/lib/service"
	"github.com/surau-digital/surauhub/rabbitmq"
)

// Publishes statement.imported again for every statement uploaded between
// START_DATE and END_DATE, so the notes worker rebuilds the affected years.
func main() {

	c := &service.Config{}
	// Load configruation from environment variables
	err := godotenv.Load(".env")
	if err != nil {
		fmt.Println("Failed to load .env file")
	}
	startDate, endDate, err := loadStartAndEndDateFromEnv()
	if err != nil {
		log.Fatalf("Could not load start and end date from env %v", err)
	}
	err = envconfig.Process("", c)
	if err != nil {
		log.Fatalf("Error loading environment variables: %v", err)
	}
	logger := logging.Logger(c.LogFilePath, c.LogLevel)
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
	)
	if err != nil {
		logger.Fatal(err)
	}
	// close the connection gently at the end of the runtime
	defer rabbitmqClient.Close()

	result := []models.BankStatement{}
	err = dbConn.NewSelect().Model(&result).
		Where("created_at > ?", startDate).
		Where("created_at < ?", endDate).
		OrderExpr("year ASC, month ASC").
		Scan(context.Background())
	if err != nil {
		logger.Fatal(err)
	}
	logger.Infof("Found %d statements", len(result))
	dryRun := os.Getenv("DRY_RUN") == "true"
	for _, stmt := range result {
		logger.Infof("Publishing statement %d for %02d/%d", stmt.ID, stmt.Month, stmt.Year)
		if dryRun {
			continue
		}
		err = rabbitmqClient.PublishEvent(context.Background(), models.Event{
			Type:       common.EventStatementImported,
			EntityID:   stmt.ID,
			Tahun:      stmt.Year,
			Bulan:      stmt.Month,
			UserID:     stmt.UploadedBy,
			OccurredAt: time.Now().UTC(),
		})
		if err != nil {
			logger.Error(err)
		}
	}
	logger.Infof("Published %d statements", len(result))
}

func loadStartAndEndDateFromEnv() (start, end time.Time, err error) {
	start, err = time.Parse(time.RFC3339, os.Getenv("START_DATE"))
	if err != nil {
		return
	}
	end, err = time.Parse(time.RFC3339, os.Getenv("END_DATE"))
	return
}
