package rabbitmq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/surau-digital/surauhub/common"
	"github.com/surau-digital/surauhub/db/models"
	"github.com/ziflex/lecho/v3"
)

// bufPool is a classic buffer pool pattern that allows more clever reuse of heap memory.
// Instead of allocating new memory everytime we need to encode an event we
// reuse buffers from this buffer pool.
var bufPool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

const (
	contentTypeJSON = "application/json"
)

type (
	SubscribeToEventsFunc = func() (string, chan models.Event, error)
	UnsubscribeFunc       = func(subId string)
)

type Client interface {
	StartPublishEvents(context.Context, SubscribeToEventsFunc, UnsubscribeFunc) error
	ConsumeNotaEvents(context.Context, NotaRegenerator) error
	PublishEvent(context.Context, models.Event) error
	// Close will close all connections to rabbitmq
	Close() error
}

// NotaRegenerator refreshes the auto generated notes of the given years.
type NotaRegenerator interface {
	RegenerateNotes(ctx context.Context, years []int) (int, error)
}

type DefaultClient struct {
	amqpClient AMQPClient

	logger *lecho.Logger

	eventExchange      string
	notesConsumerQueue string
}

type ClientOption = func(client *DefaultClient)

func WithEventExchange(exchange string) ClientOption {
	return func(client *DefaultClient) {
		client.eventExchange = exchange
	}
}

func WithNotesConsumerQueueName(name string) ClientOption {
	return func(client *DefaultClient) {
		client.notesConsumerQueue = name
	}
}

func WithLogger(logger *lecho.Logger) ClientOption {
	return func(client *DefaultClient) {
		client.logger = logger
	}
}

func NewClient(amqpClient AMQPClient, options ...ClientOption) (Client, error) {
	client := &DefaultClient{
		amqpClient: amqpClient,

		logger: lecho.New(
			os.Stdout,
			lecho.WithLevel(log.DEBUG),
			lecho.WithTimestamp(),
		),

		eventExchange:      "surau_events",
		notesConsumerQueue: "surau_nota_regenerator",
	}

	for _, opt := range options {
		opt(client)
	}

	return client, nil
}

func (client *DefaultClient) Close() error { return client.amqpClient.Close() }

// StartPublishEvents forwards every domain event to the event exchange. The
// event type is the routing key.
func (client *DefaultClient) StartPublishEvents(ctx context.Context, subscribe SubscribeToEventsFunc, unsubscribe UnsubscribeFunc) error {
	err := client.amqpClient.ExchangeDeclare(
		client.eventExchange,
		// topic is a type of exchange that allows routing messages to different queue's bases on a routing key
		"topic",
		// Durable and Non-Auto-Deleted exchanges will survive server restarts and remain
		// declared when there are no remaining bindings.
		true,
		false,
		// Non-Internal exchange's accept direct publishing
		false,
		// Nowait: We set this to false as we want to wait for a server response
		// to check whether the exchange was created succesfully
		false,
		nil,
	)
	if err != nil {
		return err
	}

	subId, events, err := subscribe()
	if err != nil {
		return err
	}
	defer unsubscribe(subId)

	client.logger.Info("Starting rabbitmq event publisher")
	for {
		select {
		case <-ctx.Done():
			return context.Canceled
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := client.PublishEvent(ctx, event); err != nil {
				captureErr(client.logger, err)
			}
		}
	}
}

func (client *DefaultClient) PublishEvent(ctx context.Context, event models.Event) error {
	payload := bufPool.Get().(*bytes.Buffer)
	payload.Reset()
	defer bufPool.Put(payload)

	if err := json.NewEncoder(payload).Encode(event); err != nil {
		return err
	}

	err := client.amqpClient.PublishWithContext(ctx,
		client.eventExchange,
		event.Type,
		false,
		false,
		amqp.Publishing{
			ContentType: contentTypeJSON,
			Body:        payload.Bytes(),
		},
	)
	if err != nil {
		return err
	}

	client.logger.Debugf("Successfully published event %s for entity %d", event.Type, event.EntityID)
	return nil
}

// ConsumeNotaEvents regenerates notes whenever the transactions of a year change.
func (client *DefaultClient) ConsumeNotaEvents(ctx context.Context, regenerator NotaRegenerator) error {
	deliveries, err := client.amqpClient.Listen(ctx, client.eventExchange, "#", client.notesConsumerQueue)
	if err != nil {
		return err
	}

	client.logger.Info("Starting notes rabbitmq consumer")
	for {
		select {
		case <-ctx.Done():
			return context.Canceled
		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("disconnected from RabbitMQ")
			}
			var event models.Event
			if err := json.Unmarshal(delivery.Body, &event); err != nil {
				captureErr(client.logger, err)

				// If we can't even Unmarshall the message we are dealing with
				// badly formatted events. In that case we simply Nack the message
				// and explicitly do not requeue it.
				if err := delivery.Nack(false, false); err != nil {
					captureErr(client.logger, err)
				}
				continue
			}

			years := AffectedYears(event)
			if len(years) > 0 {
				count, err := regenerator.RegenerateNotes(ctx, years)
				if err != nil {
					captureErr(client.logger, err)

					// If for some reason we can't handle the message we also don't requeue
					// because this can lead to an endless loop that puts pressure on the
					// database and logs.
					if err := delivery.Nack(false, false); err != nil {
						captureErr(client.logger, err)
					}
					continue
				}
				client.logger.Infof("Regenerated %d notes after %s for years %v", count, event.Type, years)
			}

			if err := delivery.Ack(false); err != nil {
				captureErr(client.logger, err)
			}
		}
	}
}

// AffectedYears lists the years whose notes can change after event. A notes
// row of year Y also shows Y-1, so every touched year Y marks Y+1 as well.
func AffectedYears(event models.Event) []int {
	var touched []int
	switch event.Type {
	case common.EventStatementImported, common.EventStatementDeleted:
		if event.Tahun != 0 {
			touched = append(touched, event.Tahun)
			// the first days of a statement may be attributed to the month before
			if event.Bulan == 1 {
				touched = append(touched, event.Tahun-1)
			}
		}
	case common.EventTransactionCategorized:
		if raw, ok := event.Data["years"].([]interface{}); ok {
			for _, y := range raw {
				if f, ok := y.(float64); ok {
					touched = append(touched, int(f))
				}
			}
		}
		if event.Tahun != 0 {
			touched = append(touched, event.Tahun)
		}
	}

	seen := map[int]bool{}
	years := []int{}
	for _, y := range touched {
		for _, affected := range []int{y, y + 1} {
			if !seen[affected] {
				seen[affected] = true
				years = append(years, affected)
			}
		}
	}
	return years
}

func captureErr(logger *lecho.Logger, err error) {
	logger.Error(err)
	sentry.CaptureException(err)
}
