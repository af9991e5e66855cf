package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/target/gallery-ui/config"
	"github.com/target/gallery-ui/internal/adapters/cookies"
	httpx "github.com/target/gallery-ui/internal/http"
	"github.com/target/gallery-ui/internal/observability/metrics"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Health   []httpx.Pinger
	Logger   *slog.Logger
}

// NewHTTPServer builds the HTTP server without starting it.
func NewHTTPServer(cfg *HTTPServerConfig) *http.Server {
	if cfg == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	services := httpx.RouterServices{
		Auth:     cfg.Services.Auth,
		Profiles: cfg.Services.Profiles,
		Identity: cfg.Services.Identity,
		Resolver: cfg.Services.Resolver,
		Cookies: cookies.Options{
			Domain:   appCfg.HTTP.CookieDomain,
			Insecure: appCfg.HTTP.CookieInsecure,
		},
		LoginPath: appCfg.Auth.LoginPath,
		Health:    cfg.Health,
		Dev:       appCfg.IsDev,
		Logger:    logger,
	}
	if appCfg.Observability.Metrics.Enabled && cfg.Services.Observability.Registry != nil {
		services.Metrics = metrics.Handler(cfg.Services.Observability.Registry)
	}

	handler := buildHTTPHandler(httpHandlerConfig{
		Logger:   logger,
		Services: services,
		Metrics:  cfg.Services.Observability.Metrics,
	})

	addr := appCfg.HTTP.Addr
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":3000"
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

type httpHandlerConfig struct {
	Logger   *slog.Logger
	Services httpx.RouterServices
	Metrics  *metrics.Metrics
}

// buildHTTPHandler applies Recover -> Logging -> Tracing -> Metrics -> Router.
func buildHTTPHandler(cfg httpHandlerConfig) http.Handler {
	h := httpx.NewRouter(cfg.Services)
	if cfg.Metrics != nil {
		h = metrics.Middleware(cfg.Metrics)(h)
	}
	h = otelhttp.NewHandler(h, "gallery-ui",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
	h = httpx.Logging(cfg.Logger)(h)
	h = httpx.Recover(cfg.Logger)(h)
	return h
}

// ServeHTTP runs server until ctx is canceled, then shuts it down gracefully.
func ServeHTTP(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownWaitTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("HTTP server stopped")
	return nil
}
