package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"suru/internal/app"
	"suru/internal/config"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inMemoryConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:         "127.0.0.1",
			Port:         "0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
			RateLimitRPM: 100,
			CORSOrigins:  []string{"*"},
		},
		Repository: config.RepositoryConfig{Type: config.RepositoryInMemory},
		Sessions: config.SessionsConfig{
			TTL:           time.Hour,
			SweepInterval: time.Minute,
			SweepBatch:    10,
		},
	}
}

func TestInit_InMemoryRouter(t *testing.T) {
	a := app.New(inMemoryConfig())
	require.NoError(t, a.Init(context.Background()))
	t.Cleanup(a.Shutdown)

	rr := httptest.NewRecorder()
	a.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	assert.NotEmpty(t, rr.Header().Get("X-RateLimit-Limit"))

	// сквозной запрос через все middleware
	rr = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/teams", nil)
	a.Router().ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRun_StopsOnCancel(t *testing.T) {
	a := app.New(inMemoryConfig())
	require.NoError(t, a.Init(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}
