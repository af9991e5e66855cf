package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/target/gallery-ui/config"
	"github.com/target/gallery-ui/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	if err = bootstrap.SetLogLevel(cfg.LogLevel); err != nil {
		return err
	}

	logStartupInfo(ctx, logger, &cfg)

	return bootstrap.Run(ctx, bootstrap.RunConfig{Config: &cfg, Logger: logger})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting gallery-ui",
		"backend", cfg.Backend.BaseURL,
		"login_mode", cfg.Auth.LoginMode,
		"addr", cfg.HTTP.Addr,
		"redis", cfg.Redis.Enabled(),
		"tracing", cfg.Observability.Tracing.IsEnabled(),
		"dev", cfg.IsDev)
}
