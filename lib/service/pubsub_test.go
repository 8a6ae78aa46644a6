package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/surau-digital/surauhub/common"
	"github.com/surau-digital/surauhub/db/models"
)

func TestPubsubDeliversToTopicAndWildcard(t *testing.T) {
	ps := NewPubsub()
	byType := make(chan models.Event, 1)
	all := make(chan models.Event, 2)
	other := make(chan models.Event, 1)
	ps.Subscribe(common.EventStatementImported, byType)
	ps.Subscribe(TopicAll, all)
	ps.Subscribe(common.EventKhairatApproved, other)

	dropped := ps.Publish(models.Event{Type: common.EventStatementImported, EntityID: 7})
	assert.Equal(t, 0, dropped)
	assert.Equal(t, int64(7), (<-byType).EntityID)
	assert.Equal(t, int64(7), (<-all).EntityID)
	assert.Len(t, other, 0)
}

func TestPubsubDropsWhenSubscriberIsFull(t *testing.T) {
	ps := NewPubsub()
	full := make(chan models.Event)
	ps.Subscribe(TopicAll, full)
	assert.Equal(t, 1, ps.Publish(models.Event{Type: common.EventNotaGenerated}))
}

func TestPubsubUnsubscribeClosesChannel(t *testing.T) {
	ps := NewPubsub()
	ch := make(chan models.Event, 1)
	id := ps.Subscribe(common.EventNotaGenerated, ch)
	ps.Unsubscribe(id, common.EventNotaGenerated)
	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, ps.Publish(models.Event{Type: common.EventNotaGenerated}))
}
