package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/stacklok/donation-coordinator/internal/api"
	"github.com/stacklok/donation-coordinator/internal/app/storage"
	"github.com/stacklok/donation-coordinator/internal/auth"
	"github.com/stacklok/donation-coordinator/internal/config"
	"github.com/stacklok/donation-coordinator/internal/events"
	"github.com/stacklok/donation-coordinator/internal/geocode"
	"github.com/stacklok/donation-coordinator/internal/httpclient"
	"github.com/stacklok/donation-coordinator/internal/matching"
	"github.com/stacklok/donation-coordinator/internal/notify"
	"github.com/stacklok/donation-coordinator/internal/scoring"
	"github.com/stacklok/donation-coordinator/internal/service"
	"github.com/stacklok/donation-coordinator/internal/store/postgres"
	"github.com/stacklok/donation-coordinator/internal/telemetry"
)

const (
	defaultReadTimeout = 10 * time.Second
	defaultIdleTimeout = 60 * time.Second

	scoringTracerName  = "github.com/stacklok/donation-coordinator/scoring"
	matchingTracerName = "github.com/stacklok/donation-coordinator/matching"
)

// AppOptions is a function that configures the donation app builder
type AppOptions func(*appConfig) error

// appConfig collects everything NewDonationApp needs. Component overrides
// exist for tests; production wiring derives every component from config.
type appConfig struct {
	config *config.Config

	// Optional component overrides
	storageFactory storage.Factory
	scorer         scoring.Scorer
	resolver       geocode.Resolver
	publisher      events.Publisher

	// HTTP server options
	address      string
	middlewares  []func(http.Handler) http.Handler
	readTimeout  time.Duration
	writeTimeout time.Duration
	idleTimeout  time.Duration

	authMiddleware func(http.Handler) http.Handler
	telemetry      *telemetry.Telemetry
}

func baseConfig(opts ...AppOptions) (*appConfig, error) {
	cfg := &appConfig{
		readTimeout: defaultReadTimeout,
		idleTimeout: defaultIdleTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.address == "" {
		cfg.address = cfg.config.Server.GetAddress()
	}
	if cfg.writeTimeout == 0 {
		cfg.writeTimeout = cfg.config.Server.GetWriteTimeout()
	}

	return cfg, nil
}

// NewDonationApp wires storage, matching, notifications and the HTTP API from configuration
func NewDonationApp(
	ctx context.Context,
	opts ...AppOptions,
) (*DonationApp, error) {
	cfg, err := baseConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build base configuration: %w", err)
	}

	cfg.telemetry, err = telemetry.New(ctx, telemetry.WithTelemetryConfig(cfg.config.Telemetry))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	cleanupNeeded := true
	defer func() {
		if cleanupNeeded {
			releaseResources(context.Background(), cfg)
		}
	}()

	if cfg.storageFactory == nil {
		cfg.storageFactory, err = storage.NewStorageFactory(ctx, cfg.config,
			storage.WithTracer(cfg.telemetry.Tracer(postgres.TracerName)))
		if err != nil {
			return nil, fmt.Errorf("failed to create storage factory: %w", err)
		}
	}

	components, err := buildComponents(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.authMiddleware == nil {
		cfg.authMiddleware, err = auth.NewAuthMiddleware(cfg.config.Auth)
		if err != nil {
			return nil, fmt.Errorf("failed to build auth middleware: %w", err)
		}
	}

	httpServer, err := buildHTTPServer(ctx, cfg, components.Service)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP server: %w", err)
	}

	appCtx, cancel := context.WithCancel(ctx)

	// From here on the app owns the resources
	cleanupNeeded = false

	return &DonationApp{
		config:     cfg.config,
		components: components,
		httpServer: httpServer,
		ctx:        appCtx,
		cancelFunc: sync.OnceFunc(func() {
			cancel()
			releaseResources(context.Background(), cfg)
		}),
	}, nil
}

// WithConfig sets the configuration
func WithConfig(c *config.Config) AppOptions {
	return func(cfg *appConfig) error {
		cfg.config = c
		return nil
	}
}

// WithAddress sets the HTTP server address, overriding server.address
func WithAddress(addr string) AppOptions {
	return func(cfg *appConfig) error {
		if addr == "" {
			return fmt.Errorf("address cannot be empty")
		}

		host, port, found := strings.Cut(addr, ":")
		if !found || port == "" {
			return fmt.Errorf("address is not a valid port: %s", addr)
		}
		if host == "localhost" {
			host = "127.0.0.1"
		}
		if host == "" {
			host = "0.0.0.0"
		}

		if _, err := netip.ParseAddrPort(host + ":" + port); err != nil {
			return fmt.Errorf("address is not a valid port: %w", err)
		}

		cfg.address = addr
		return nil
	}
}

// WithMiddlewares replaces the default HTTP middlewares
func WithMiddlewares(mw ...func(http.Handler) http.Handler) AppOptions {
	return func(cfg *appConfig) error {
		cfg.middlewares = mw
		return nil
	}
}

// WithStorageFactory allows injecting a custom storage factory (for testing)
func WithStorageFactory(f storage.Factory) AppOptions {
	return func(cfg *appConfig) error {
		cfg.storageFactory = f
		return nil
	}
}

// WithScorer allows injecting a scorer instead of the configured scoring service
func WithScorer(s scoring.Scorer) AppOptions {
	return func(cfg *appConfig) error {
		cfg.scorer = s
		return nil
	}
}

// WithResolver allows injecting an address resolver instead of the configured provider
func WithResolver(r geocode.Resolver) AppOptions {
	return func(cfg *appConfig) error {
		cfg.resolver = r
		return nil
	}
}

// WithPublisher allows injecting an event publisher instead of the configured Kafka sink
func WithPublisher(p events.Publisher) AppOptions {
	return func(cfg *appConfig) error {
		cfg.publisher = p
		return nil
	}
}

// buildComponents creates the store and every domain component on top of it
func buildComponents(ctx context.Context, b *appConfig) (*AppComponents, error) {
	slog.Info("Initializing service components")

	st, err := b.storageFactory.CreateStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	if b.publisher == nil {
		b.publisher, err = buildPublisher(b.config.Events)
		if err != nil {
			return nil, fmt.Errorf("failed to create event publisher: %w", err)
		}
	}
	if b.resolver == nil {
		b.resolver, err = buildResolver(b.config.Geocoding)
		if err != nil {
			return nil, fmt.Errorf("failed to create geocoding resolver: %w", err)
		}
	}

	mp := b.telemetry.MeterProvider()
	if b.scorer == nil {
		scoringMetrics, err := telemetry.NewScoringMetrics(mp)
		if err != nil {
			return nil, fmt.Errorf("failed to create scoring metrics: %w", err)
		}
		b.scorer, err = scoring.New(
			scoring.WithBaseURL(b.config.Scoring.BaseURL),
			scoring.WithHTTPClient(httpclient.NewDefaultClient(b.config.Scoring.GetTimeout())),
			scoring.WithPollInterval(b.config.Scoring.GetPollInterval()),
			scoring.WithMaxAttempts(b.config.Scoring.GetMaxAttempts()),
			scoring.WithSuccessMarker(successMarker(b.config.Scoring)),
			scoring.WithTracer(b.telemetry.Tracer(scoringTracerName)),
			scoring.WithMetrics(scoringMetrics),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create scoring client: %w", err)
		}
	}

	dispatcher, err := notify.NewDispatcher(st, st,
		notify.WithPublisher(b.publisher),
		notify.WithTracer(b.telemetry.Tracer(notify.TracerName)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification dispatcher: %w", err)
	}

	matchingMetrics, err := telemetry.NewMatchingMetrics(mp)
	if err != nil {
		return nil, fmt.Errorf("failed to create matching metrics: %w", err)
	}
	orchestrator, err := matching.New(st, b.scorer, dispatcher,
		matching.WithMaxConcurrency(b.config.Scoring.GetMaxConcurrency()),
		matching.WithTracer(b.telemetry.Tracer(matchingTracerName)),
		matching.WithMetrics(matchingMetrics),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create matching orchestrator: %w", err)
	}

	donationMetrics, err := telemetry.NewDonationMetrics(mp)
	if err != nil {
		return nil, fmt.Errorf("failed to create donation metrics: %w", err)
	}
	svc, err := service.New(st, orchestrator, dispatcher,
		service.WithResolver(b.resolver),
		service.WithPublisher(b.publisher),
		service.WithTracer(b.telemetry.Tracer(service.TracerName)),
		service.WithMetrics(donationMetrics),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create donation service: %w", err)
	}

	slog.Info("Service components initialized successfully")
	return &AppComponents{
		Store:        st,
		Service:      svc,
		Orchestrator: orchestrator,
		Dispatcher:   dispatcher,
		Publisher:    b.publisher,
	}, nil
}

func successMarker(cfg config.ScoringConfig) string {
	if cfg.SuccessMarker == "" {
		return scoring.DefaultSuccessMarker
	}
	return cfg.SuccessMarker
}

// buildPublisher returns the Kafka publisher when events are enabled
func buildPublisher(cfg *config.EventsConfig) (events.Publisher, error) {
	if cfg == nil || !cfg.Enabled {
		slog.Debug("Lifecycle event publishing disabled")
		return events.NopPublisher{}, nil
	}
	p, err := events.NewKafkaPublisher(cfg.Brokers, cfg.GetTopic())
	if err != nil {
		return nil, err
	}
	slog.Info("Publishing lifecycle events", "brokers", cfg.Brokers, "topic", cfg.GetTopic())
	return p, nil
}

// buildResolver returns the configured geocoding provider. Without one,
// location updates must carry coordinates.
func buildResolver(cfg *config.GeocodingConfig) (geocode.Resolver, error) {
	if cfg == nil {
		slog.Info("Geocoding disabled")
		return geocode.Disabled{}, nil
	}

	key, err := cfg.GetAPIKey()
	if err != nil {
		return nil, err
	}
	opts := []geocode.Option{
		geocode.WithHTTPClient(httpclient.NewDefaultClient(cfg.GetTimeout())),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, geocode.WithEndpoint(cfg.Endpoint))
	}
	return geocode.NewLocationIQ(key, opts...)
}

// buildHTTPServer builds the HTTP server with router and middleware
//
//nolint:unparam // we prefer having a similar interface
func buildHTTPServer(
	_ context.Context,
	b *appConfig,
	svc service.Service,
) (*http.Server, error) {
	slog.Info("Initializing HTTP server")

	if b.middlewares == nil {
		b.middlewares = []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			api.LoggingMiddleware,
		}
	}

	serverOpts := []api.ServerOption{
		api.WithTimeouts(b.config.Server.GetRequestTimeout(), b.config.Server.GetMatchTimeout()),
	}

	if b.telemetry != nil {
		// Metrics and tracing go first so requests rejected by auth are still observed
		metricsMiddleware, err := telemetry.MetricsMiddleware(b.telemetry.MeterProvider())
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics middleware: %w", err)
		}
		observe := []func(http.Handler) http.Handler{telemetry.TracingMiddleware(b.telemetry.TracerProvider())}
		if metricsMiddleware != nil {
			observe = append(observe, metricsMiddleware)
		}
		b.middlewares = append(observe, b.middlewares...)

		if h := b.telemetry.MetricsHandler(); h != nil {
			serverOpts = append(serverOpts, api.WithMetricsHandler(h))
			slog.Info("Prometheus metrics served at /metrics")
		}
	}

	if b.authMiddleware != nil {
		b.middlewares = append(b.middlewares, b.authMiddleware)
	}
	serverOpts = append(serverOpts, api.WithMiddlewares(b.middlewares...))

	router := api.NewServer(svc, serverOpts...)

	server := &http.Server{
		Addr:         b.address,
		Handler:      router,
		ReadTimeout:  b.readTimeout,
		WriteTimeout: b.writeTimeout,
		IdleTimeout:  b.idleTimeout,
	}

	slog.Info("HTTP server configured", "address", b.address)
	return server, nil
}

// releaseResources closes the publisher, the storage backend and telemetry
func releaseResources(ctx context.Context, b *appConfig) {
	if b.publisher != nil {
		if err := b.publisher.Close(); err != nil {
			slog.Error("Failed to close event publisher", "error", err)
		}
	}
	if b.storageFactory != nil {
		b.storageFactory.Cleanup()
	}
	if b.telemetry != nil {
		if err := b.telemetry.Shutdown(ctx); err != nil {
			slog.Error("Failed to shut down telemetry", "error", err)
		}
	}
}
