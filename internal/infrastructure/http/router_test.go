package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adinrama/eto-telco-tracking/internal/infrastructure/db/memory"
	redisdb "github.com/adinrama/eto-telco-tracking/internal/infrastructure/db/redis"
	"github.com/adinrama/eto-telco-tracking/internal/infrastructure/http/handlers"
	_ "github.com/adinrama/eto-telco-tracking/internal/metrics"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRouter_Routes(t *testing.T) {
	e := NewRouter(memory.NewShipmentRepository(), nil, zerolog.Nop())

	assert.Equal(t, http.StatusOK, get(t, e, "/health").Code)
	assert.Equal(t, http.StatusOK, get(t, e, "/health/ready").Code)
	assert.Equal(t, http.StatusNotFound, get(t, e, "/shipments").Code)

	metrics := get(t, e, "/metrics")
	require.Equal(t, http.StatusOK, metrics.Code)
	assert.True(t, strings.Contains(metrics.Body.String(), "go_goroutines"))
}

func TestRouter_ReadinessWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := redisdb.Connect(context.Background(), redisdb.Config{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	ping := handlers.PingFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() })
	e := NewRouter(memory.NewShipmentRepository(), ping, zerolog.Nop())

	assert.Equal(t, http.StatusOK, get(t, e, "/health/ready").Code)

	mr.Close()
	assert.Equal(t, http.StatusServiceUnavailable, get(t, e, "/health/ready").Code)
}
