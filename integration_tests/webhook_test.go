package integration_tests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/surau-digital/surauhub/common"
	"github.com/surau-digital/surauhub/db/models"
	"github.com/surau-digital/surauhub/lib/service"
)

type WebhookTestSuite struct {
	TestSuite
	webhookServer *httptest.Server
	events        chan models.Event
	cancel        context.CancelFunc
}

func (suite *WebhookTestSuite) SetupSuite() {
	suite.setup()
	suite.events = make(chan models.Event, 10)
	suite.webhookServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		event := models.Event{}
		assert.NoError(suite.T(), json.NewDecoder(r.Body).Decode(&event))
		suite.events <- event
	}))
	ctx, cancel := context.WithCancel(context.Background())
	suite.cancel = cancel
	go suite.service.StartWebhookSubscription(ctx, suite.webhookServer.URL)
	suite.Require().Eventually(func() bool {
		return suite.service.EventPubSub.Subscribers(service.TopicAll) == 1
	}, 5*time.Second, 10*time.Millisecond)
}

func (suite *WebhookTestSuite) TearDownSuite() {
	suite.cancel()
	suite.webhookServer.Close()
	suite.teardown()
}

func (suite *WebhookTestSuite) nextEvent() models.Event {
	select {
	case event := <-suite.events:
		return event
	case <-time.After(5 * time.Second):
		suite.FailNow("no webhook call received")
	}
	return models.Event{}
}

func (suite *WebhookTestSuite) TestStatementImportedEvent() {
	rec := suite.upload("/api/financial/statements", common.RoleBendahari, "jan-2024.csv", []byte(januaryCSV), map[string]string{
		"month": "1",
		"year":  "2024",
	})
	suite.Require().Equal(http.StatusCreated, rec.Code)
	result := &service.StatementImportResult{}
	suite.decode(rec, result)

	event := suite.nextEvent()
	assert.Equal(suite.T(), common.EventStatementImported, event.Type)
	assert.Equal(suite.T(), result.Statement.ID, event.EntityID)
	assert.Equal(suite.T(), 2024, event.Tahun)
	assert.Equal(suite.T(), 1, event.Bulan)
	assert.NotZero(suite.T(), event.UserID)
}

func TestWebhookTestSuite(t *testing.T) {
	suite.Run(t, new(WebhookTestSuite))
}
