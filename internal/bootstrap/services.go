package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/target/gallery-ui/config"
	"github.com/target/gallery-ui/internal/adapters/backend"
	"github.com/target/gallery-ui/internal/adapters/memory"
	redisadapter "github.com/target/gallery-ui/internal/adapters/redis"
	"github.com/target/gallery-ui/internal/observability/metrics"
	"github.com/target/gallery-ui/internal/ports"
	"github.com/target/gallery-ui/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Backend   *backend.Client
	Refresher *service.TokenRefreshCoordinator
	Gateway   *service.Gateway
	Resolver  *service.SessionResolver
	Auth      *service.AuthService
	Profiles  *service.ProfileService
	Identity  *service.IdentityService

	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient // optional; nil keeps demo identities in memory
	Logger      *slog.Logger
}

// buildObservability registers the process collectors and the proxy metrics on a fresh registry.
func buildObservability() ObservabilityContainer {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return ObservabilityContainer{Registry: reg, Metrics: metrics.New(reg)}
}

func newDemoIdentityStore(cfg config.RedisConfig, client redis.UniversalClient) ports.DemoIdentityStore {
	if client == nil {
		return memory.NewDemoIdentityStore()
	}
	return redisadapter.NewDemoIdentityStoreWithPrefix(client, cfg.KeyPrefix, cfg.DemoTTL)
}

func loginMode(m config.LoginMode) service.LoginMode {
	if m == config.LoginModeBackend {
		return service.LoginBackend
	}
	return service.LoginStub
}

// NewServices wires the gateway, its collaborators and the services built on top of it.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps with config are required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	obs := buildObservability()

	client, err := backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
		Metrics: obs.Metrics,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("backend client: %w", err)
	}

	refresher := service.NewTokenRefreshCoordinator(service.TokenRefreshOptions{
		Backend:   client,
		Metrics:   obs.Metrics,
		Logger:    logger,
		AccessTTL: cfg.Auth.AccessTTL,
	})
	gateway := service.NewGateway(service.GatewayOptions{
		Backend:   client,
		Refresher: refresher,
		Metrics:   obs.Metrics,
		Logger:    logger,
		Dev:       cfg.IsDev,
	})
	resolver, err := service.NewSessionResolver(service.SessionResolverOptions{
		Gateway: gateway,
		Mapping: service.IdentityMapping{
			ID:          cfg.Auth.Identity.ID,
			DisplayName: cfg.Auth.Identity.DisplayName,
			Email:       cfg.Auth.Identity.Email,
			Role:        cfg.Auth.Identity.Role,
		},
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("session resolver: %w", err)
	}

	demo := service.NewDemoIdentityFallback(newDemoIdentityStore(cfg.Redis, deps.RedisClient), logger)

	return ServiceContainer{
		Backend:   client,
		Refresher: refresher,
		Gateway:   gateway,
		Resolver:  resolver,
		Auth: service.NewAuthService(service.AuthServiceOptions{
			Gateway:    gateway,
			Refresher:  refresher,
			LoginMode:  loginMode(cfg.Auth.LoginMode),
			AccessTTL:  cfg.Auth.AccessTTL,
			RefreshTTL: cfg.Auth.RefreshTTL,
			Dev:        cfg.IsDev,
			Logger:     logger,
		}),
		Profiles:      service.NewProfileService(gateway),
		Identity:      service.NewIdentityService(resolver, refresher, demo),
		Observability: obs,
	}, nil
}
