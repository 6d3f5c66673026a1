package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/eugenenazirov/tech-news-planner/internal/api"
	"github.com/eugenenazirov/tech-news-planner/internal/config"
	"github.com/eugenenazirov/tech-news-planner/internal/readingplan"
	"github.com/eugenenazirov/tech-news-planner/internal/storage"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	storage storage.Storage
	planner readingplan.Planner
	handler *api.Handler
	router  http.Handler
	logger  *zap.Logger
	server  *http.Server
	closer  io.Closer
}

// New initializes the application with all dependencies from the provided configuration.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	store, closer, err := OpenStorage(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	seeded, err := storage.Seed(ctx, store, cfg.SeedFile)
	if err != nil {
		closeQuietly(closer)
		return nil, fmt.Errorf("failed to seed news: %w", err)
	}
	if seeded > 0 {
		logger.Info("news seeded", zap.Int("count", seeded), zap.String("file", cfg.SeedFile))
	}

	planner := readingplan.New(store, readingplan.WithLogger(logger.Named("readingplan")))

	routerOpts := []api.RouterOption{
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	}
	var handlerOpts []api.HandlerOption
	if cfg.EnableMetrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics := api.NewMetrics(reg)
		routerOpts = append(routerOpts, api.WithMetrics(metrics, reg))
		handlerOpts = append(handlerOpts, api.WithPlanMetrics(metrics))
	}

	handler := api.NewHandler(planner, store, handlerOpts...)
	router := api.NewRouter(handler, logger, routerOpts...)

	return &App{
		storage: store,
		planner: planner,
		handler: handler,
		router:  router,
		logger:  logger,
		server:  NewServer(cfg, router),
		closer:  closer,
	}, nil
}

// OpenStorage builds the configured news storage. The returned closer is nil for in-memory storage.
func OpenStorage(cfg config.Config) (storage.Storage, io.Closer, error) {
	if cfg.StorageBackend == "" || cfg.StorageBackend == storage.BackendMemory {
		return storage.NewMemoryStorage(), nil, nil
	}

	store, err := storage.OpenSQL(cfg.StorageBackend, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	return store, store, nil
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// Close releases the storage connection, if any.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
