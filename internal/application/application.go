package application

import (
	"errors"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/drhimam/islamic-will-creator/internal/api"
	"github.com/drhimam/islamic-will-creator/internal/config"
	"github.com/drhimam/islamic-will-creator/internal/inheritance"
	"github.com/drhimam/islamic-will-creator/internal/metrics"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	allocator inheritance.Allocator
	metrics   *metrics.Metrics
	handler   *api.Handler
	router    http.Handler
	logger    *zap.Logger
	server    *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	alloc := inheritance.New(inheritance.WithAwl(cfg.ApplyAwl))
	m := metrics.New()
	handler := api.NewHandler(alloc,
		api.WithMetrics(m),
		api.WithBatchLimits(cfg.MaxBatchSize, cfg.BatchWorkers),
	)
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	logger.Info("application configured",
		zap.Bool("awl", cfg.ApplyAwl),
		zap.Int("batch_max_size", cfg.MaxBatchSize),
		zap.Int("batch_workers", cfg.BatchWorkers),
		zap.Float64("rate_limit_rps", cfg.RateLimitRPS),
	)

	return &App{
		allocator: alloc,
		metrics:   m,
		handler:   handler,
		router:    apiRouter,
		logger:    logger,
		server:    NewServer(cfg, BuildRootHandler(apiRouter, m.Handler())),
	}, nil
}

// BuildRootHandler routes API requests and the Prometheus scrape endpoint. The
// root path describes the service; every other path is not found.
func BuildRootHandler(apiHandler, metricsHandler http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	mux.Handle("GET /metrics", metricsHandler)
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(serviceIndex)
	}))
	return mux
}

var serviceIndex = struct {
	Service   string   `json:"service"`
	Endpoints []string `json:"endpoints"`
}{
	Service: "islamic-will-creator",
	Endpoints: []string{
		"GET /api/health",
		"GET /api/heirs",
		"POST /api/calculate",
		"POST /api/calculate/batch",
		"POST /api/wills/distribution",
		"GET /metrics",
	},
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

// Handler returns the root handler, for tests and embedding.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}
