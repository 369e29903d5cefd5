package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
	grpchealth "google.golang.org/grpc/health"

	grpcrouter "github.com/dtroode/gophspace-server/internal/api/grpc/router"
	grpcserver "github.com/dtroode/gophspace-server/internal/api/grpc/server"
	httpctx "github.com/dtroode/gophspace-server/internal/api/http/context"
	httprouter "github.com/dtroode/gophspace-server/internal/api/http/router"
	httpserver "github.com/dtroode/gophspace-server/internal/api/http/server"
	"github.com/dtroode/gophspace-server/internal/config"
	"github.com/dtroode/gophspace-server/internal/health"
	"github.com/dtroode/gophspace-server/internal/logger"
	"github.com/dtroode/gophspace-server/internal/metrics"
	"github.com/dtroode/gophspace-server/internal/model"
	"github.com/dtroode/gophspace-server/internal/ratelimit"
	"github.com/dtroode/gophspace-server/internal/repository/cache"
	"github.com/dtroode/gophspace-server/internal/repository/memory"
	"github.com/dtroode/gophspace-server/internal/repository/postgres"
	"github.com/dtroode/gophspace-server/internal/server"
	"github.com/dtroode/gophspace-server/internal/service"
	storage "github.com/dtroode/gophspace-server/internal/storage/minio"
	"github.com/dtroode/gophspace-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const (
	shutdownTimeout     = 10 * time.Second
	healthWatchInterval = 15 * time.Second
)

type stores struct {
	tx          model.Transactor
	users       model.UserStore
	spaces      model.SpaceStore
	permissions model.PermissionStore
	messages    model.MessageStore
	audit       model.AuditStore
	dependency  health.Dependency
	close       func() error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	logAppVersion()

	st, err := openStores(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer func() {
		if err := st.close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(registry)

	access := service.NewAccessControl(st.spaces, st.permissions, m, logger)
	identity, err := service.NewIdentity(st.users, cfg.BcryptCost, logger)
	if err != nil {
		logger.Fatal("failed to initialize identity service", "error", err)
	}
	tokenService := service.NewTokenService(identity, token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL), logger)
	auditService := service.NewAudit(st.audit, cfg.Audit.Auditors, logger)

	services := httprouter.Services{
		Identity:    identity,
		Tokens:      tokenService,
		Spaces:      service.NewSpace(st.spaces, st.users, access, cfg.Limits.MaxSpaceNameLength, logger),
		Permissions: service.NewPermission(st.tx, st.spaces, st.users, st.permissions, logger),
		Messages:    service.NewMessage(st.tx, st.messages, access, cfg.Limits, logger),
		Audit:       auditService,
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	deps := []health.Dependency{st.dependency}
	opts := []httprouter.Option{
		httprouter.WithMetrics(m),
		httprouter.WithAllowedOrigins(cfg.CORS.AllowedOrigins),
	}
	if cfg.RateLimit.Enabled {
		limiter, err := ratelimit.NewFixedWindowLimiter(redisClient, cfg.RateLimit.Prefix, cfg.RateLimit.Limit, cfg.RateLimit.Window)
		if err != nil {
			logger.Fatal("failed to initialize rate limiter", "error", err)
		}
		opts = append(opts, httprouter.WithLimiter(limiter))
		deps = append(deps, health.RedisDependency(redisClient))
	}
	checker := health.NewChecker(logger, deps...)
	opts = append(opts, httprouter.WithHealth(checker))

	if cfg.Archive.Enabled {
		scheduler, err := startArchiver(ctx, cfg, st.audit, m, logger)
		if err != nil {
			logger.Fatal("failed to initialize audit archiver", "error", err)
		}
		defer func() { <-scheduler.Stop().Done() }()
	}

	healthServer := grpchealth.NewServer()
	go checker.Watch(ctx, healthWatchInterval, healthServer)

	handler := httprouter.New(services, httpctx.NewManager(), logger, opts...).Register()
	httpSrv := httpserver.NewHTTPServer(&http.Server{
		Handler:           handler,
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
	}, fmt.Sprintf(":%s", cfg.HTTP.Port))

	grpcSrv := grpcserver.NewGRPCServer(grpcrouter.New(healthServer, logger).Register(), fmt.Sprintf(":%s", cfg.GRPC.Port))

	servers := []struct {
		srv model.Server
		sl  model.SecurityLayer
	}{
		{httpSrv, securityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)},
		{grpcSrv, securityLayer(cfg.GRPC.EnableHTTPS, cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range servers {
		g.Go(func() error {
			logger.Info("Starting server on", "address", s.srv.Address())
			if err := s.srv.Start(s.sl); err != nil {
				return fmt.Errorf("server %s: %w", s.srv.Address(), err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down servers")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		for _, s := range servers {
			if err := s.srv.Stop(shutdownCtx); err != nil {
				logger.Error("error during server shutdown", "error", err, "address", s.srv.Address())
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", "error", err)
	}
	logger.Info("shutdown complete")
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		db := memory.NewDB()
		return &stores{
			tx:          db,
			users:       memory.NewUserRepository(db),
			spaces:      memory.NewSpaceRepository(db),
			permissions: memory.NewPermissionRepository(db),
			messages:    memory.NewMessageRepository(db),
			audit:       memory.NewAuditRepository(db),
			dependency:  health.Dependency{Name: "memory", Critical: true, Ping: db.Ping},
			close:       func() error { return nil },
		}, nil
	default:
		db, err := postgres.NewConection(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		spaces, err := cache.NewSpaceRepository(postgres.NewSpaceRepository(db), cfg.SpaceCacheSize)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		return &stores{
			tx:          db,
			users:       postgres.NewUserRepository(db),
			spaces:      spaces,
			permissions: postgres.NewPermissionRepository(db),
			messages:    postgres.NewMessageRepository(db),
			audit:       postgres.NewAuditRepository(db),
			dependency:  health.SQLDependency("postgres", db.SQL()),
			close:       db.Close,
		}, nil
	}
}

func startArchiver(ctx context.Context, cfg *config.Config, audit model.AuditStore, m *metrics.Metrics, logger *logger.Logger) (*cron.Cron, error) {
	objects, err := storage.Connect(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	archiver := service.NewArchiver(audit, objects, cfg.Archive.BatchSize, cfg.Archive.OpenGrace, logger)

	c := cron.New()
	_, err = c.AddFunc(cfg.Archive.Schedule, func() {
		n, err := archiver.Run(ctx)
		if err != nil {
			logger.Error("audit archive run failed", "error", err)
		}
		m.ObserveArchived(n)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid archive schedule %q: %w", cfg.Archive.Schedule, err)
	}
	c.Start()

	logger.Info("audit archiver scheduled", "schedule", cfg.Archive.Schedule, "bucket", cfg.Storage.Bucket)
	return c, nil
}

func securityLayer(enableHTTPS bool, certFileName, privateKeyFileName string) model.SecurityLayer {
	if enableHTTPS {
		return server.NewTLSListener(certFileName, privateKeyFileName)
	}
	return server.NewPlainListener()
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
