// Command persona-server starts the persona-keeper gRPC server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	pb "github.com/and161185/persona-keeper/internal/api/personav1"
	"github.com/and161185/persona-keeper/internal/auth"
	"github.com/and161185/persona-keeper/internal/config"
	"github.com/and161185/persona-keeper/internal/crypto"
	"github.com/and161185/persona-keeper/internal/limiter"
	"github.com/and161185/persona-keeper/internal/metrics"
	"github.com/and161185/persona-keeper/internal/migrate"
	"github.com/and161185/persona-keeper/internal/repository/postgres"
	grpcserver "github.com/and161185/persona-keeper/internal/server/grpc"
	"github.com/and161185/persona-keeper/internal/service"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, runs migrations, and starts the gRPC server.
func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		os.Exit(configExit(err, os.Stderr))
	}

	logger := newLogger(cfg.Dev)
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr),
	)

	masterKey, err := cfg.Validate()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}
	sealer, err := crypto.NewSealer(masterKey)
	if err != nil {
		logger.Fatal("credential sealer", zap.Error(err))
	}

	var opts []grpc.ServerOption
	if !cfg.Insecure {
		creds, err := credentials.NewServerTLSFromFile(cfg.TLSCert, cfg.TLSKey)
		if err != nil {
			logger.Fatal("failed to load TLS cert/key", zap.Error(err))
		}
		opts = append(opts, grpc.Creds(creds))
	} else {
		logger.Warn("serving without TLS")
	}

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, cfg.DSN); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	db, err := postgres.New(ctx, cfg.DSN)
	if err != nil {
		logger.Fatal("connect postgres", zap.Error(err))
	}
	defer db.Close()

	// Repositories
	userRepo := postgres.NewUserRepo(db)
	credRepo := postgres.NewCredentialRepo(db)
	charRepo := postgres.NewCharacterRepo(db)
	moduleRepo := postgres.NewModuleRepo(db)

	lim := limiter.NewPG(db.Pool, cfg.LoginPolicy())
	tokens := auth.NewTokens([]byte(cfg.JWTKey), cfg.AccessTTL)

	// Metrics
	collector := metrics.NewMetricsCollector()
	reg, err := metrics.NewRegistry(collector)
	if err != nil {
		logger.Fatal("metrics registry", zap.Error(err))
	}

	// Services
	authSvc := service.NewAuthService(userRepo, tokens, lim)
	vault := service.NewVault(credRepo, sealer)
	charSvc := service.NewCharacterService(charRepo, moduleRepo, service.MultiSink{
		service.LogSink{Log: logger.Named("composition")},
		collector,
	})

	// gRPC server with interceptors
	opts = append(opts, grpc.ChainUnaryInterceptor(
		grpcserver.RecoverUnary(logger),
		collector.UnaryInterceptor(),
		grpcserver.AuthUnary(tokens),
		grpcserver.LoggingUnary(logger),
	))
	s := grpc.NewServer(opts...)

	app := grpcserver.New(authSvc, vault, charSvc, logger)
	pb.RegisterPersonaServiceServer(s, app)

	// Health & reflection (dev)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	if cfg.Dev {
		reflection.Register(s)
	}

	lis, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		logger.Fatal("listen", zap.Error(err))
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr), zap.Bool("tls", !cfg.Insecure))
		errCh <- s.Serve(lis)
	}()

	var metricsSrv *http.Server
	if cfg.MetricsAddr != "" {
		metricsSrv = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           metrics.Handler(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("metrics listening", zap.String("addr", cfg.MetricsAddr))
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
	}

	// Wait for stop
	select {
	case <-ctx.Done():
		hs.Shutdown()
		done := make(chan struct{})
		go func() {
			s.GracefulStop()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			s.Stop()
		}
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}

	if metricsSrv != nil {
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = metricsSrv.Shutdown(shCtx)
		cancel()
	}

	logger.Info("shutdown complete")
}

func newLogger(dev bool) *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	if dev {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// configExit reports a config.Load failure and returns the exit status.
func configExit(err error, stderr io.Writer) int {
	switch {
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, config.ErrFlags):
		return 2
	}
	fmt.Fprintf(stderr, "persona-server: %v\n", err)
	return 2
}
