package service

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/surau-digital/surauhub/db/models"
)

// TopicAll receives every event regardless of its type.
const TopicAll = "*"

type Pubsub struct {
	mu   sync.RWMutex
	subs map[string]map[string]chan models.Event
}

func NewPubsub() *Pubsub {
	ps := &Pubsub{}
	ps.subs = make(map[string]map[string]chan models.Event)
	return ps
}

func (ps *Pubsub) Subscribe(topic string, ch chan models.Event) string {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.subs[topic] == nil {
		ps.subs[topic] = make(map[string]chan models.Event)
	}
	subId := uuid.NewString()
	ps.subs[topic][subId] = ch
	return subId
}

func (ps *Pubsub) Unsubscribe(id string, topic string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.subs[topic] == nil {
		return
	}
	if ps.subs[topic][id] == nil {
		return
	}
	close(ps.subs[topic][id])
	delete(ps.subs[topic], id)
}

func (ps *Pubsub) Subscribers(topic string) int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.subs[topic])
}

// Publish delivers msg to the subscribers of its type and of TopicAll.
// Subscribers own buffered channels; a full channel drops the event.
func (ps *Pubsub) Publish(msg models.Event) (dropped int) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	for _, topic := range []string{msg.Type, TopicAll} {
		for _, ch := range ps.subs[topic] {
			select {
			case ch <- msg:
			default:
				dropped++
			}
		}
	}
	return dropped
}

func (svc *SurauService) publish(event models.Event) {
	if svc.EventPubSub == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if dropped := svc.EventPubSub.Publish(event); dropped > 0 {
		svc.Logger.Warnf("event %s dropped by %d slow subscribers", event.Type, dropped)
	}
}

// SubscribeEvents returns a channel receiving every domain event and the
// subscription id to release it with.
func (svc *SurauService) SubscribeEvents() (string, chan models.Event, error) {
	if svc.EventPubSub == nil {
		return "", nil, errors.New("event pubsub is not configured")
	}
	events := make(chan models.Event, 100)
	subId := svc.EventPubSub.Subscribe(TopicAll, events)
	return subId, events, nil
}

func (svc *SurauService) UnsubscribeEvents(subId string) {
	svc.EventPubSub.Unsubscribe(subId, TopicAll)
}
