// Package health reports the state of the service's dependencies over HTTP
// and through the gRPC health service.
package health

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/gophspace-server/internal/logger"
)

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"

	checkTimeout = 5 * time.Second
)

// Dependency is one checked dependency. A failing critical dependency makes
// the service unhealthy, any other failure only degrades it.
type Dependency struct {
	Name     string
	Critical bool
	Ping     func(ctx context.Context) error
}

// SQLDependency checks a database with a ping and a trivial query.
func SQLDependency(name string, db *sql.DB) Dependency {
	return Dependency{
		Name:     name,
		Critical: true,
		Ping: func(ctx context.Context) error {
			if err := db.PingContext(ctx); err != nil {
				return err
			}
			var one int
			return db.QueryRowContext(ctx, "SELECT 1").Scan(&one)
		},
	}
}

// RedisDependency checks Redis. Redis only backs rate limiting, so it is not critical.
func RedisDependency(client redis.Cmdable) Dependency {
	return Dependency{
		Name: "redis",
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
	}
}

// Status is the overall health of the service.
type Status struct {
	Status       string                      `json:"status"`
	Timestamp    time.Time                   `json:"timestamp"`
	Dependencies map[string]DependencyStatus `json:"dependencies"`
}

// DependencyStatus is the health of a single dependency.
type DependencyStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency int64  `json:"latency_ms"`
}

type Checker struct {
	deps   []Dependency
	logger *logger.Logger
}

func NewChecker(logger *logger.Logger, deps ...Dependency) *Checker {
	sort.SliceStable(deps, func(i, j int) bool { return deps[i].Name < deps[j].Name })
	return &Checker{deps: deps, logger: logger}
}

// Check pings every dependency.
func (c *Checker) Check(ctx context.Context) Status {
	status := Status{
		Status:       StatusHealthy,
		Timestamp:    time.Now(),
		Dependencies: make(map[string]DependencyStatus, len(c.deps)),
	}

	for _, dep := range c.deps {
		start := time.Now()
		err := dep.Ping(ctx)
		ds := DependencyStatus{
			Status:  StatusHealthy,
			Latency: time.Since(start).Milliseconds(),
		}
		if err != nil {
			ds.Status = StatusUnhealthy
			ds.Message = err.Error()
			switch {
			case dep.Critical:
				status.Status = StatusUnhealthy
			case status.Status == StatusHealthy:
				status.Status = StatusDegraded
			}
		}
		status.Dependencies[dep.Name] = ds
	}

	return status
}

// ServeHTTP answers 503 when unhealthy and 200 otherwise.
func (c *Checker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	status := c.Check(ctx)

	w.Header().Set("Content-Type", "application/json")
	if status.Status == StatusUnhealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	if err := json.NewEncoder(w).Encode(status); err != nil {
		c.logger.Error("Health checker: failed to write response", "error", err.Error())
	}
}

// Watch re-checks every interval and publishes the result to the gRPC health
// server until ctx is done.
func (c *Checker) Watch(ctx context.Context, interval time.Duration, server *grpchealth.Server) {
	update := func() {
		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		defer cancel()

		serving := healthpb.HealthCheckResponse_SERVING
		if status := c.Check(checkCtx); status.Status == StatusUnhealthy {
			serving = healthpb.HealthCheckResponse_NOT_SERVING
			c.logger.Warn("Health checker: service unhealthy", "dependencies", status.Dependencies)
		}
		server.SetServingStatus("", serving)
	}

	update()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			update()
		}
	}
}
