package integration_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/metinatakli/seat-reservation/internal/app"
	"github.com/metinatakli/seat-reservation/internal/booking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
)

const (
	dbName         = "seat_reservation"
	dbUser         = "test_user"
	dbPassword     = "test_password"
	dbImageName    = "postgres:17-alpine"
	cacheImageName = "redis:7"
)

type BaseSuite struct {
	suite.Suite
	app            *TestApp
	dbContainer    *PostgresContainer
	cacheContainer *RedisContainer
}

func (s *BaseSuite) SetupSuite() {
	ctx := context.Background()

	postgresContainer, err := getDbContainer(ctx)
	s.Require().NoError(err, "failed to start database container")
	s.dbContainer = postgresContainer

	redisContainer, err := getCacheContainer(ctx)
	s.Require().NoError(err, "failed to start cache container")
	s.cacheContainer = redisContainer

	var cfg app.Config
	cfg.Env = "test"
	cfg.DB.DSN = postgresContainer.ConnectionString
	cfg.DB.MaxOpenConns = 25
	cfg.DB.MaxIdleTime = 2 * time.Minute
	cfg.Redis.Url = redisContainer.ConnectionString
	cfg.Redis.MaxOpenConns = 10
	cfg.Redis.MaxIdleConns = 10
	cfg.Redis.MaxIdleTime = 2 * time.Minute
	cfg.Redis.Idempotency = true
	cfg.HoldWindow = booking.DefaultHoldWindow

	testApp, err := newTestApp(cfg)
	s.Require().NoError(err, "cannot initialize app")

	s.app = testApp
}

func (s *BaseSuite) SetupTest() {
	ctx := context.Background()

	_, err := s.app.DB.Exec(ctx, seedSQL)
	s.Require().NoError(err)

	// Event streams and their consumer groups must survive between tests.
	keys, err := s.app.Redis.Keys(ctx, "hold_idempotency:*").Result()
	s.Require().NoError(err)
	if len(keys) > 0 {
		s.Require().NoError(s.app.Redis.Del(ctx, keys...).Err())
	}

	s.app.Mailer.Reset()
}

func (s *BaseSuite) TearDownSuite() {
	if s.app != nil {
		s.app.Close()
	}
	if s.dbContainer != nil {
		if err := testcontainers.TerminateContainer(s.dbContainer.Container.Container); err != nil {
			s.T().Logf("failed to terminate container: %s", err)
		}
	}
	if s.cacheContainer != nil {
		if err := testcontainers.TerminateContainer(s.cacheContainer.Container); err != nil {
			s.T().Logf("failed to terminate container: %s", err)
		}
	}
}

type Scenario struct {
	Name             string
	Method           string
	URL              string
	Body             io.Reader
	Headers          map[string]string
	ExpectedStatus   int
	ExpectedResponse string
	BeforeTestFunc   func(t testing.TB, app *TestApp)
	AfterTestFunc    func(t testing.TB, app *TestApp, res *http.Response)
}

func (s Scenario) Run(t *testing.T, testApp *TestApp) {
	t.Run(s.Name, func(t *testing.T) {
		req, err := prepareRequest(s.Method, s.URL, s.Body, s.Headers)
		require.NoError(t, err)

		if s.BeforeTestFunc != nil {
			s.BeforeTestFunc(t, testApp)
		}

		rec := httptest.NewRecorder()
		testApp.App.Routes().ServeHTTP(rec, req)

		res := rec.Result()
		defer res.Body.Close()

		assert.Equal(t, s.ExpectedStatus, res.StatusCode)

		if s.ExpectedResponse != "" {
			compareResponse(t, res.Body, s.ExpectedResponse)
		}

		if s.AfterTestFunc != nil {
			s.AfterTestFunc(t, testApp, res)
		}
	})
}
