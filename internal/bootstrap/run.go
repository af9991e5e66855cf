package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/target/gallery-ui/config"
	httpx "github.com/target/gallery-ui/internal/http"
	"github.com/target/gallery-ui/internal/observability/tracing"
)

const shutdownWaitTimeout = 10 * time.Second

// RunConfig groups dependencies for Run.
type RunConfig struct {
	Config *config.AppConfig
	Logger *slog.Logger
}

// Run connects infrastructure, wires services and serves HTTP until SIGINT/SIGTERM.
func Run(ctx context.Context, rc RunConfig) error {
	if rc.Config == nil {
		return errors.New("run config missing AppConfig")
	}
	cfg := rc.Config
	logger := rc.Logger
	if logger == nil {
		logger = slog.Default()
	}

	shutdownTracing, err := tracing.Setup(ctx, tracing.Options{
		ServiceName: cfg.Observability.Tracing.ServiceName,
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		Insecure:    cfg.Observability.Tracing.Insecure,
	})
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownWaitTimeout)
		defer cancel()
		if terr := shutdownTracing(flushCtx); terr != nil {
			logger.Error("shutdown tracing failed", "error", terr)
		}
	}()

	deps := &ServiceDeps{Config: cfg, Logger: logger}
	var health []httpx.Pinger
	if cfg.Redis.Enabled() {
		client, rerr := ConnectRedis(ctx, RedisConnectConfig{RedisConfig: cfg.Redis, Logger: logger})
		if rerr != nil {
			return fmt.Errorf("connect redis: %w", rerr)
		}
		defer func() {
			if cerr := client.Close(); cerr != nil {
				logger.Error("close redis failed", "error", cerr)
			}
		}()
		deps.RedisClient = client
		health = append(health, redisPinger{client: client})
	}

	services, err := NewServices(deps)
	if err != nil {
		return err
	}
	server := NewHTTPServer(&HTTPServerConfig{
		Config:   cfg,
		Services: services,
		Health:   health,
		Logger:   logger,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return watchSignals(gctx, logger) })
	g.Go(func() error { return ServeHTTP(gctx, server, logger) })
	if err := g.Wait(); err != nil && !errors.Is(err, errShutdownSignal) {
		return err
	}
	return nil
}

// errShutdownSignal cancels the run group when the process is asked to stop.
var errShutdownSignal = errors.New("shutdown signal received")

func watchSignals(ctx context.Context, logger *slog.Logger) error {
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()
	if ctx.Err() != nil {
		return nil
	}
	logger.Info("shutting down services...")
	return errShutdownSignal
}
