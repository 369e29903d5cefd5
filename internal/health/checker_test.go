package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/gophspace-server/internal/testutil"
)

func newSQLMock(t *testing.T) (sqlmock.Sqlmock, Dependency) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return mock, SQLDependency("database", db)
}

func TestChecker_Check(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("healthy", func(t *testing.T) {
		t.Parallel()
		mock, db := newSQLMock(t)
		mock.ExpectPing()
		mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"one"}).AddRow(1))

		srv := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
		t.Cleanup(func() { _ = client.Close() })

		status := NewChecker(testutil.MakeNoopLogger(), db, RedisDependency(client)).Check(ctx)
		assert.Equal(t, StatusHealthy, status.Status)
		assert.Equal(t, StatusHealthy, status.Dependencies["database"].Status)
		assert.Equal(t, StatusHealthy, status.Dependencies["redis"].Status)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database down", func(t *testing.T) {
		t.Parallel()
		mock, db := newSQLMock(t)
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		status := NewChecker(testutil.MakeNoopLogger(), db).Check(ctx)
		assert.Equal(t, StatusUnhealthy, status.Status)
		assert.Equal(t, "connection refused", status.Dependencies["database"].Message)
	})

	t.Run("query fails", func(t *testing.T) {
		t.Parallel()
		mock, db := newSQLMock(t)
		mock.ExpectPing()
		mock.ExpectQuery("SELECT 1").WillReturnError(errors.New("recovery in progress"))

		status := NewChecker(testutil.MakeNoopLogger(), db).Check(ctx)
		assert.Equal(t, StatusUnhealthy, status.Status)
	})

	t.Run("redis down degrades", func(t *testing.T) {
		t.Parallel()
		mock, db := newSQLMock(t)
		mock.ExpectPing()
		mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"one"}).AddRow(1))

		srv := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: srv.Addr(), MaxRetries: -1})
		t.Cleanup(func() { _ = client.Close() })
		srv.Close()

		status := NewChecker(testutil.MakeNoopLogger(), db, RedisDependency(client)).Check(ctx)
		assert.Equal(t, StatusDegraded, status.Status)
		assert.Equal(t, StatusUnhealthy, status.Dependencies["redis"].Status)
	})
}

func TestChecker_ServeHTTP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		critical bool
		err      error
		wantCode int
		want     string
	}{
		{name: "healthy", err: nil, wantCode: http.StatusOK, want: StatusHealthy},
		{name: "degraded", err: errors.New("down"), wantCode: http.StatusOK, want: StatusDegraded},
		{name: "unhealthy", critical: true, err: errors.New("down"), wantCode: http.StatusServiceUnavailable, want: StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dep := Dependency{Name: "store", Critical: tt.critical, Ping: func(context.Context) error { return tt.err }}
			checker := NewChecker(testutil.MakeNoopLogger(), dep)

			rec := httptest.NewRecorder()
			checker.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var status Status
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
			assert.Equal(t, tt.want, status.Status)
		})
	}
}

func TestChecker_Watch(t *testing.T) {
	t.Parallel()

	var failing atomic.Bool
	dep := Dependency{Name: "store", Critical: true, Ping: func(context.Context) error {
		if failing.Load() {
			return errors.New("down")
		}
		return nil
	}}
	checker := NewChecker(testutil.MakeNoopLogger(), dep)
	server := grpchealth.NewServer()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		checker.Watch(ctx, 10*time.Millisecond, server)
	}()

	servingStatus := func() healthpb.HealthCheckResponse_ServingStatus {
		resp, err := server.Check(context.Background(), &healthpb.HealthCheckRequest{})
		if err != nil {
			return healthpb.HealthCheckResponse_UNKNOWN
		}
		return resp.GetStatus()
	}

	require.Eventually(t, func() bool {
		return servingStatus() == healthpb.HealthCheckResponse_SERVING
	}, time.Second, 5*time.Millisecond)

	failing.Store(true)
	require.Eventually(t, func() bool {
		return servingStatus() == healthpb.HealthCheckResponse_NOT_SERVING
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}
