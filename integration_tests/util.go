package integration_tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"sync/atomic"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/surau-digital/surauhub/common"
	"github.com/surau-digital/surauhub/db"
	"github.com/surau-digital/surauhub/db/migrations"
	"github.com/surau-digital/surauhub/lib/archive"
	"github.com/surau-digital/surauhub/lib/logging"
	"github.com/surau-digital/surauhub/lib/responses"
	"github.com/surau-digital/surauhub/lib/service"
	"github.com/surau-digital/surauhub/lib/tokens"
	"github.com/surau-digital/surauhub/lib/transport"
	"github.com/uptrace/bun/migrate"
)

const (
	testPassword   = "rahsia-123"
	testAdminToken = "bootstrap-token"
)

var dbCounter int64

// SurauTestServiceInit returns a service over a fresh in-memory database and a
// temporary upload directory.
func SurauTestServiceInit() (svc *service.SurauService, err error) {
	c := &service.Config{
		DatabaseUri:          fmt.Sprintf("file:integration%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1)),
		JWTSecret:            []byte("SECRET"),
		JWTAccessTokenExpiry: 3600,
		SessionCookieName:    "surau_session",
		AdminToken:           testAdminToken,
		DefaultRateLimit:     1000,
		StrictRateLimit:      1000,
		BurstRateLimit:       1000,
		MaxUploadSize:        "10M",
		Branding:             service.BrandingConfig{Title: "Surau Ujian"},
	}

	dbConn, err := db.Open(c)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx := context.Background()
	migrator := migrate.NewMigrator(dbConn, migrations.Migrations)
	err = migrator.Init(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to init migrations: %w", err)
	}
	_, err = migrator.Migrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	uploadDir, err := os.MkdirTemp("", "surau-uploads")
	if err != nil {
		return nil, err
	}
	store, err := archive.NewLocalStore(uploadDir)
	if err != nil {
		return nil, err
	}

	svc = &service.SurauService{
		Config:      c,
		DB:          dbConn,
		Logger:      logging.Logger("", "off"),
		EventPubSub: service.NewPubsub(),
		Archive:     store,
	}
	return svc, nil
}

// createUsers creates one user per role and returns a session token for each.
func createUsers(svc *service.SurauService, roles ...string) (map[string]string, error) {
	sessions := map[string]string{}
	for _, role := range roles {
		username := "user_" + role
		if _, err := svc.CreateUser(context.Background(), username, testPassword, role, role); err != nil {
			return nil, err
		}
		token, _, err := svc.GenerateToken(context.Background(), username, testPassword)
		if err != nil {
			return nil, err
		}
		sessions[role] = token
	}
	return sessions, nil
}

// initEcho mounts the full route table the way the server does.
func initEcho(svc *service.SurauService) *echo.Echo {
	e := transport.InitEcho(svc.Config, svc.Logger)
	logMw := transport.CreateLoggingMiddleware(svc.Logger)
	strict := transport.CreateRateLimitMiddleware(svc.Config.StrictRateLimit, svc.Config.BurstRateLimit)
	secured := e.Group("", tokens.Middleware(svc.Config.JWTSecret, svc.Config.SessionCookieName), logMw)
	transport.RegisterEndpoints(svc, e, secured, strict, tokens.AdminTokenMiddleware(svc.Config.AdminToken), logMw)
	return e
}

type TestSuite struct {
	suite.Suite
	echo     *echo.Echo
	service  *service.SurauService
	sessions map[string]string
}

func (suite *TestSuite) setup() {
	svc, err := SurauTestServiceInit()
	suite.Require().NoError(err)
	sessions, err := createUsers(svc, common.AllRoles...)
	suite.Require().NoError(err)
	suite.service = svc
	suite.sessions = sessions
	suite.echo = initEcho(svc)
}

func (suite *TestSuite) teardown() {
	if suite.service != nil {
		suite.service.DB.Close()
	}
}

// request builds a request with an optional JSON body.
func (suite *TestSuite) request(method, path string, body ...interface{}) *http.Request {
	var reader io.Reader
	if len(body) > 0 && body[0] != nil {
		var buf bytes.Buffer
		assert.NoError(suite.T(), json.NewEncoder(&buf).Encode(body[0]))
		reader = &buf
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return req
}

// do sends a request as the user of role. An empty role sends the request
// without a token.
func (suite *TestSuite) do(method, path, role string, body interface{}) *httptest.ResponseRecorder {
	return suite.send(suite.request(method, path, body), role)
}

func (suite *TestSuite) upload(path, role, fileName string, content []byte, fields map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		assert.NoError(suite.T(), writer.WriteField(k, v))
	}
	part, err := writer.CreateFormFile("file", fileName)
	assert.NoError(suite.T(), err)
	_, err = part.Write(content)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return suite.send(req, role)
}

func (suite *TestSuite) send(req *http.Request, role string) *httptest.ResponseRecorder {
	if role != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+suite.sessions[role])
	}
	rec := httptest.NewRecorder()
	suite.echo.ServeHTTP(rec, req)
	return rec
}

// decode reads a {success, data} envelope into data.
func (suite *TestSuite) decode(rec *httptest.ResponseRecorder, data interface{}) {
	envelope := struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}{}
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(&envelope))
	assert.True(suite.T(), envelope.Success)
	assert.NoError(suite.T(), json.Unmarshal(envelope.Data, data))
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func checkErrResponse(suite *TestSuite, rec *httptest.ResponseRecorder, status int) *responses.ErrorResponse {
	errorResponse := &responses.ErrorResponse{}
	assert.Equal(suite.T(), status, rec.Code)
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(errorResponse))
	assert.False(suite.T(), errorResponse.Success)
	assert.NotEmpty(suite.T(), errorResponse.Error)
	return errorResponse
}
