package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/trackline/tracking-api/src/database"
)

func healthy(context.Context) error   { return nil }
func unhealthy(context.Context) error { return errors.New("dial tcp 10.0.0.5:5432: connection refused") }

func TestHandleHealth_Success(t *testing.T) {
	database.WithTestDB(t, func(tdb *database.TestDB) {
		w, c := createTestContext()
		c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

		db := database.NewDatabaseFromPool(tdb.Pool)
		handler := NewHealthHandler(db.Health, nil, EnvStatus{JWTSecret: true, DatabaseURL: true}, "test")

		handler.HandleHealth(c)

		assertStatusCode(t, w, http.StatusOK)

		var response HealthResponse
		decodeJSON(t, w, &response)
		assert.Equal(t, "ok", response.Status)
		assert.Equal(t, "connected", response.Database)
		assert.NotEmpty(t, response.DBLatency)
		assert.Equal(t, "disabled", response.Cache)
	})
}

func TestHandleHealth_Report(t *testing.T) {
	w, c := createTestContext()
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	env := EnvStatus{JWTSecret: true, DatabaseURL: true, Redis: true}
	handler := NewHealthHandler(healthy, healthy, env, "test")

	handler.HandleHealth(c)

	assertStatusCode(t, w, http.StatusOK)

	var response HealthResponse
	decodeJSON(t, w, &response)
	assert.Equal(t, "ok", response.Status)
	assert.Equal(t, "connected", response.Cache)
	assert.Equal(t, env, response.Env)
	assert.NotEmpty(t, response.Uptime)
	assert.NotZero(t, response.Memory.SysBytes)
	assert.NotZero(t, response.Memory.AllocBytes)
}

func TestHandleHealth_DBError(t *testing.T) {
	w, c := createTestContext()
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	// nil pool = DB error
	db := database.NewDatabaseFromPool(nil)
	handler := NewHealthHandler(db.Health, nil, EnvStatus{}, "test")

	handler.HandleHealth(c)

	assertStatusCode(t, w, http.StatusServiceUnavailable)

	var response HealthResponse
	decodeJSON(t, w, &response)
	assert.Equal(t, "unhealthy", response.Status)
	assert.Equal(t, "disconnected", response.Database)
	assert.Empty(t, response.DBLatency)
}

func TestHandleHealth_HidesProbeError(t *testing.T) {
	w, c := createTestContext()
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	handler := NewHealthHandler(unhealthy, nil, EnvStatus{}, "test")
	handler.HandleHealth(c)

	assertStatusCode(t, w, http.StatusServiceUnavailable)
	assert.NotContains(t, w.Body.String(), "connection refused")
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
}

func TestHandleHealth_CacheDownStillHealthy(t *testing.T) {
	w, c := createTestContext()
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	handler := NewHealthHandler(healthy, unhealthy, EnvStatus{Redis: true}, "test")
	handler.HandleHealth(c)

	assertStatusCode(t, w, http.StatusOK)

	var response HealthResponse
	decodeJSON(t, w, &response)
	assert.Equal(t, "disconnected", response.Cache)
}

func TestHandleReady(t *testing.T) {
	w, c := createTestContext()
	c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)
	NewHealthHandler(healthy, nil, EnvStatus{}, "test").HandleReady(c)
	assertStatusCode(t, w, http.StatusOK)

	w, c = createTestContext()
	c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)
	NewHealthHandler(unhealthy, nil, EnvStatus{}, "test").HandleReady(c)
	assertStatusCode(t, w, http.StatusServiceUnavailable)
}

func TestHandleInfoAndRoot(t *testing.T) {
	handler := NewHealthHandler(healthy, nil, EnvStatus{}, "staging")

	w, c := createTestContext()
	c.Request = httptest.NewRequest(http.MethodGet, "/info", nil)
	handler.HandleInfo(c)
	assertStatusCode(t, w, http.StatusOK)

	var info map[string]interface{}
	decodeJSON(t, w, &info)
	assert.Equal(t, "tracking-api", info["service"])
	assert.Equal(t, "staging", info["environment"])

	w, c = createTestContext()
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	handler.HandleRoot(c)
	assertStatusCode(t, w, http.StatusOK)
	assert.Contains(t, w.Body.String(), "staging")
}
