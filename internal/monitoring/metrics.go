package monitoring

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type Metrics struct {
	mu            sync.RWMutex
	RequestCount  int64            `json:"request_count"`
	ErrorCount    int64            `json:"error_count"`
	StatusCodes   map[string]int64 `json:"status_codes"`
	Endpoints     map[string]int64 `json:"endpoint_calls"`
	StartTime     time.Time        `json:"start_time"`
	LastRequest   time.Time        `json:"last_request"`
	totalDuration time.Duration
}

func NewMetrics() *Metrics {
	return &Metrics{
		StatusCodes: make(map[string]int64),
		Endpoints:   make(map[string]int64),
		StartTime:   time.Now(),
	}
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		m.mu.Lock()
		m.RequestCount++
		m.LastRequest = time.Now()
		m.totalDuration += time.Since(start)
		m.StatusCodes[strconv.Itoa(c.Writer.Status())]++
		m.Endpoints[c.Request.Method+" "+c.FullPath()]++
		if c.Writer.Status() >= 500 {
			m.ErrorCount++
		}
		m.mu.Unlock()
	}
}

func (m *Metrics) Handler(c *gin.Context) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var avgMs float64
	if m.RequestCount > 0 {
		avgMs = float64(m.totalDuration.Milliseconds()) / float64(m.RequestCount)
	}

	c.JSON(http.StatusOK, gin.H{
		"request_count":           m.RequestCount,
		"error_count":             m.ErrorCount,
		"status_codes":            m.StatusCodes,
		"endpoint_calls":          m.Endpoints,
		"avg_request_duration_ms": avgMs,
		"uptime_seconds":          time.Since(m.StartTime).Seconds(),
	})
}

type HealthCheckFunc func(ctx context.Context) error

type HealthChecker struct {
	mu     sync.RWMutex
	checks map[string]HealthCheckFunc
}

func NewHealthChecker() *HealthChecker {
	return &HealthChecker{checks: make(map[string]HealthCheckFunc)}
}

func (h *HealthChecker) Register(name string, check HealthCheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// Handler runs every registered check with a short deadline and
// reports 503 when any of them fails.
func (h *HealthChecker) Handler(c *gin.Context) {
	h.mu.RLock()
	checks := make(map[string]HealthCheckFunc, len(h.checks))
	for name, check := range h.checks {
		checks[name] = check
	}
	h.mu.RUnlock()

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(checks))
	for name, check := range checks {
		if err := check(ctx); err != nil {
			results[name] = "unhealthy: " + err.Error()
			status = http.StatusServiceUnavailable
		} else {
			results[name] = "healthy"
		}
	}

	c.JSON(status, gin.H{
		"status": http.StatusText(status),
		"checks": results,
	})
}
