package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// EnvStatus reports which settings were supplied, never their values
type EnvStatus struct {
	JWTSecret   bool `json:"jwtSecret"`
	DatabaseURL bool `json:"databaseUrl"`
	Redis       bool `json:"redis"`
}

// MemoryStats is a subset of runtime.MemStats
type MemoryStats struct {
	AllocBytes uint64 `json:"allocBytes"`
	SysBytes   uint64 `json:"sysBytes"`
	NumGC      uint32 `json:"numGC"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string      `json:"status"`
	Database  string      `json:"database"`
	DBLatency string      `json:"dbLatency,omitempty"`
	Cache     string      `json:"cache"`
	Uptime    string      `json:"uptime"`
	Env       EnvStatus   `json:"env"`
	Memory    MemoryStats `json:"memory"`
}

// HealthHandler handles health check requests
type HealthHandler struct {
	db          HealthCheck
	cache       HealthCheck
	env         EnvStatus
	environment string
}

// NewHealthHandler creates a new health handler. cache may be nil.
func NewHealthHandler(db HealthCheck, cache HealthCheck, env EnvStatus, environment string) *HealthHandler {
	return &HealthHandler{
		db:          db,
		cache:       cache,
		env:         env,
		environment: environment,
	}
}

func memoryStats() MemoryStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemoryStats{
		AllocBytes: m.Alloc,
		SysBytes:   m.Sys,
		NumGC:      m.NumGC,
	}
}

// HandleHealth returns health status with DB check.
// Only the database decides the status code; the cache is informational.
func (hh *HealthHandler) HandleHealth(c *gin.Context) {
	resp := HealthResponse{
		Status:   "ok",
		Database: "connected",
		Cache:    "disabled",
		Uptime:   time.Since(startTime).String(),
		Env:      hh.env,
		Memory:   memoryStats(),
	}

	start := time.Now()
	err := hh.db(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		resp.Status = "unhealthy"
		resp.Database = "disconnected"
	} else {
		resp.DBLatency = time.Since(start).String()
	}

	if hh.cache != nil {
		resp.Cache = "connected"
		if err := hh.cache(c.Request.Context()); err != nil {
			_ = c.Error(err)
			resp.Cache = "disconnected"
		}
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

// HandleInfo returns service information
func (hh *HealthHandler) HandleInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":     "tracking-api",
		"version":     "1.0.0",
		"environment": hh.environment,
		"status":      "running",
		"uptime":      time.Since(startTime).String(),
	})
}

// HandleReady returns readiness status (for load balancers)
func (hh *HealthHandler) HandleReady(c *gin.Context) {
	err := hh.db(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"ready": false,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ready": true,
	})
}

// HandleRoot answers with a plain-text greeting
func (hh *HealthHandler) HandleRoot(c *gin.Context) {
	c.String(http.StatusOK, "Tracking API is running (%s)", hh.environment)
}
