package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	grpcrouter "github.com/dtroode/interview-assistant/internal/api/grpc/router"
	httpctx "github.com/dtroode/interview-assistant/internal/api/http/context"
	httprouter "github.com/dtroode/interview-assistant/internal/api/http/router"
	"github.com/dtroode/interview-assistant/internal/config"
	"github.com/dtroode/interview-assistant/internal/logger"
	"github.com/dtroode/interview-assistant/internal/metrics"
	"github.com/dtroode/interview-assistant/internal/model"
	"github.com/dtroode/interview-assistant/internal/password"
	"github.com/dtroode/interview-assistant/internal/repository/postgres"
	"github.com/dtroode/interview-assistant/internal/server"
	"github.com/dtroode/interview-assistant/internal/service"
	storage "github.com/dtroode/interview-assistant/internal/storage/minio"
	"github.com/dtroode/interview-assistant/internal/storage/redis"
	"github.com/dtroode/interview-assistant/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const healthCheckInterval = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	logAppVersion()

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN, postgres.PoolConfig{
		MaxConns:       cfg.Database.MaxConns,
		Policy:         cfg.Database.AcquirePolicy,
		AcquireTimeout: cfg.Database.AcquireTimeout,
	})
	if err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	questionRepo := postgres.NewQuestionRepository(db)
	responseRepo := postgres.NewResponseRepository(db)
	feedbackRepo := postgres.NewFeedbackRepository(db)

	revocations := newRevocationStore(ctx, cfg.Redis, logger)
	defer revocations.Close()
	archive := newArchiveStorage(ctx, cfg.Storage, logger)

	hasher := password.NewHasher(cfg.BcryptCost)
	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)

	authService := service.NewAuth(userRepo, hasher, tokenManager, revocations, logger)
	interviewService := service.NewInterview(sessionRepo, questionRepo, responseRepo, feedbackRepo, logger)
	reportService := service.NewReport(sessionRepo, feedbackRepo, archive, logger)

	m := metrics.New()
	m.RegisterPool(db.Stats)

	httpHandler := httprouter.New(
		authService,
		interviewService,
		reportService,
		m,
		httpctx.NewManager(),
		cfg.HTTP.CORSOrigins,
		logger,
	).Register()

	grpcRouter := grpcrouter.New(db, logger)
	srv := server.New(fmt.Sprintf(":%s", cfg.HTTP.Port), httpHandler, grpcRouter.Register(), logger)

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting server on", "address", srv.Address())
		return srv.Start(sl)
	})
	g.Go(func() error {
		grpcRouter.WatchDatabase(gctx, healthCheckInterval)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", srv.Address())
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", "error", err)
	}
	logger.Info("shutdown complete")
}

type revocationStore interface {
	model.RevocationStore
	io.Closer
}

// newRevocationStore falls back to a store that never revokes when Redis is not configured.
func newRevocationStore(ctx context.Context, cfg config.Redis, logger *logger.Logger) revocationStore {
	if cfg.Addr == "" {
		logger.Warn("REDIS_ADDR is empty, logout will not revoke tokens")
		return redis.NoopRevocationStore{}
	}

	store, err := redis.NewRevocationStore(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to connect to redis", "error", err)
	}
	return store
}

// newArchiveStorage returns nil when archiving is disabled, which the report service checks.
func newArchiveStorage(ctx context.Context, cfg config.Storage, logger *logger.Logger) model.Storage {
	if !cfg.Enabled {
		return nil
	}

	client, err := storage.New(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize object storage", "error", err)
	}
	return client
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
