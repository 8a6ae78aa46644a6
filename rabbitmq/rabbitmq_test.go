package rabbitmq_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surau-digital/surauhub/common"
	"github.com/surau-digital/surauhub/db/models"
	"github.com/surau-digital/surauhub/rabbitmq"
	"github.com/surau-digital/surauhub/rabbitmq/mock_rabbitmq"
)

//go:generate mockgen -destination=./mock_rabbitmq/rabbitmq.go github.com/surau-digital/surauhub/rabbitmq NotaRegenerator,AMQPClient

// fakeAcknowledger records what the consumer did with each delivery.
type fakeAcknowledger struct {
	acked  chan uint64
	nacked chan uint64
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.acked <- tag
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple bool, requeue bool) error {
	a.nacked <- tag
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	a.nacked <- tag
	return nil
}

func TestConsumeNotaEvents(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	regenerator := mock_rabbitmq.NewMockNotaRegenerator(ctrl)
	amqpClient := mock_rabbitmq.NewMockAMQPClient(ctrl)

	client, err := rabbitmq.NewClient(amqpClient, rabbitmq.WithNotesConsumerQueueName("test_notes"))
	assert.NoError(t, err)

	ch := make(chan amqp.Delivery, 3)
	amqpClient.EXPECT().
		Listen(gomock.Any(), "surau_events", "#", "test_notes").
		Times(1).
		Return(ch, nil)

	regenerator.EXPECT().
		RegenerateNotes(gomock.Any(), gomock.Eq([]int{2024, 2025})).
		Times(1).
		Return(2, nil)

	categorized, err := json.Marshal(models.Event{
		Type:     common.EventTransactionCategorized,
		EntityID: 7,
		Tahun:    2024,
		Data:     map[string]interface{}{"years": []int{2024}},
	})
	require.NoError(t, err)
	approved, err := json.Marshal(models.Event{Type: common.EventKhairatApproved, EntityID: 3})
	require.NoError(t, err)

	ack := &fakeAcknowledger{acked: make(chan uint64, 3), nacked: make(chan uint64, 3)}
	ch <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: categorized}
	ch <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 2, Body: approved}
	ch <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 3, Body: []byte("not json")}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- client.ConsumeNotaEvents(ctx, regenerator)
	}()

	assert.Equal(t, uint64(1), waitFor(t, ack.acked))
	// events without financial impact are acknowledged without regenerating
	assert.Equal(t, uint64(2), waitFor(t, ack.acked))
	assert.Equal(t, uint64(3), waitFor(t, ack.nacked))

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestStartPublishEvents(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	amqpClient := mock_rabbitmq.NewMockAMQPClient(ctrl)
	client, err := rabbitmq.NewClient(amqpClient, rabbitmq.WithEventExchange("test_events"))
	assert.NoError(t, err)

	amqpClient.EXPECT().
		ExchangeDeclare("test_events", "topic", true, false, false, false, gomock.Nil()).
		Times(1).
		Return(nil)

	published := make(chan amqp.Publishing, 1)
	amqpClient.EXPECT().
		PublishWithContext(gomock.Any(), "test_events", common.EventNotaGenerated, false, false, gomock.Any()).
		Times(1).
		DoAndReturn(func(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
			published <- msg
			return nil
		})

	events := make(chan models.Event, 1)
	unsubscribed := make(chan string, 1)
	subscribe := func() (string, chan models.Event, error) { return "sub-1", events, nil }
	unsubscribe := func(subId string) { unsubscribed <- subId }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- client.StartPublishEvents(ctx, subscribe, unsubscribe)
	}()

	events <- models.Event{Type: common.EventNotaGenerated, Tahun: 2024}
	select {
	case msg := <-published:
		assert.Equal(t, "application/json", msg.ContentType)
		var event models.Event
		require.NoError(t, json.Unmarshal(msg.Body, &event))
		assert.Equal(t, 2024, event.Tahun)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not published")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, "sub-1", <-unsubscribed)
}

func TestAffectedYears(t *testing.T) {
	assert.Equal(t, []int{2024, 2025}, rabbitmq.AffectedYears(models.Event{Type: common.EventStatementImported, Tahun: 2024, Bulan: 5}))
	// January statements can carry December accruals of the year before
	assert.Equal(t, []int{2024, 2025, 2023}, rabbitmq.AffectedYears(models.Event{Type: common.EventStatementDeleted, Tahun: 2024, Bulan: 1}))
	assert.Equal(t, []int{2023, 2024, 2025}, rabbitmq.AffectedYears(models.Event{
		Type: common.EventTransactionCategorized,
		Data: map[string]interface{}{"years": []interface{}{float64(2023), float64(2024)}},
	}))
	assert.Empty(t, rabbitmq.AffectedYears(models.Event{Type: common.EventKhairatRejected}))
}

func waitFor(t *testing.T, ch chan uint64) uint64 {
	t.Helper()
	select {
	case tag := <-ch:
		return tag
	case <-time.After(2 * time.Second):
		t.Fatal("delivery was not settled")
		return 0
	}
}
