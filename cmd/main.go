package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/grpc/reflection"

	grpcctx "github.com/dtroode/trivia-server/internal/api/grpc/context"
	"github.com/dtroode/trivia-server/internal/api/grpc/router"
	grpcServer "github.com/dtroode/trivia-server/internal/api/grpc/server"
	"github.com/dtroode/trivia-server/internal/config"
	"github.com/dtroode/trivia-server/internal/docstore"
	"github.com/dtroode/trivia-server/internal/docstore/memory"
	"github.com/dtroode/trivia-server/internal/docstore/postgres"
	"github.com/dtroode/trivia-server/internal/leaderboard"
	"github.com/dtroode/trivia-server/internal/logger"
	"github.com/dtroode/trivia-server/internal/metrics"
	"github.com/dtroode/trivia-server/internal/model"
	"github.com/dtroode/trivia-server/internal/server"
	"github.com/dtroode/trivia-server/internal/service"
	"github.com/dtroode/trivia-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel, cfg.LogFormat)

	var (
		storeOpts = []docstore.Option{docstore.WithRetryPolicy(docstore.RetryPolicy{
			MaxAttempts:     cfg.Store.MaxAttempts,
			InitialInterval: cfg.Store.InitialBackoff,
			MaxInterval:     cfg.Store.MaxBackoff,
		})}
		recorder model.OperationRecorder
		servers  []model.Server
	)

	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		collector := metrics.NewCollector(registry)
		storeOpts = append(storeOpts, docstore.WithObserver(collector))
		recorder = collector

		servers = append(servers, server.NewHTTPServer(metrics.Handler(registry), fmt.Sprintf(":%s", cfg.Metrics.Port)))
	}

	engine, err := newEngine(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err, "backend", cfg.Store.Backend)
	}
	store := docstore.New(engine, storeOpts...)
	defer store.Close()

	var board model.LeaderboardStore
	if cfg.Redis.Addr != "" {
		client, err := leaderboard.Dial(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal("failed to initialize leaderboard", "error", err)
		}
		defer client.Close()
		board = leaderboard.New(client, cfg.Redis.Key)
	} else {
		logger.Info("leaderboard disabled, REDIS_ADDR is not set")
	}

	ledger := service.NewLedger(store, recorder, logger, cfg.Ledger.AwardOnce)
	profileService := service.NewProfile(store, ledger, board, logger)
	questionService := service.NewQuestion(store, ledger, logger)

	verifier := token.NewJWT(cfg.JWT.Secret, cfg.JWT.Issuer)
	ctxMgr := grpcctx.NewManager()

	r := router.New(profileService, questionService, verifier, ctxMgr, logger, router.RateLimit{
		RPS:   cfg.RateLimit.RPS,
		Burst: cfg.RateLimit.Burst,
	})
	s := r.Register()
	reflection.Register(s)
	servers = append(servers, grpcServer.NewGRPCServer(s, fmt.Sprintf(":%s", cfg.GRPC.Port)))

	var sl model.SecurityLayer
	if cfg.GRPC.EnableHTTPS {
		sl = server.NewTLSListener(cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	for _, srv := range servers {
		wg.Add(1)
		go func(s model.Server) {
			defer wg.Done()
			logger.Info("Starting server on", "address", s.Address())
			if err := s.Start(sl); err != nil {
				logger.Error("failed to start server", "error", err, "address", s.Address())
				stop()
			}
		}(srv)
	}

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	for _, srv := range servers {
		if err := srv.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", srv.Address())
		}
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func newEngine(ctx context.Context, cfg *config.Config) (docstore.Engine, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return memory.New(), nil
	default:
		conn, err := postgres.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		return postgres.NewEngine(conn), nil
	}
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
