package application

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/plate-calculator/internal/api"
	"github.com/eugenenazirov/plate-calculator/internal/config"
	"github.com/eugenenazirov/plate-calculator/internal/plates"
	"github.com/eugenenazirov/plate-calculator/internal/session"
	"github.com/eugenenazirov/plate-calculator/internal/storage"
)

const indexText = "Plate Calculator - POST /api/resolve with {\"targetWeight\": 135} to get the plates for each side of the bar.\n"

// App encapsulates the application dependencies and HTTP server.
type App struct {
	storage storage.Storage
	logger  *zap.Logger
	server  *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	store := storage.NewMemoryStorage()
	if err := store.SetDenominations(cfg.Denominations); err != nil {
		return nil, fmt.Errorf("failed to apply configured plates: %w", err)
	}

	handler := api.NewHandler(plates.New(), store,
		api.WithBarWeight(cfg.BarWeight),
		api.WithMaxTargetWeight(cfg.MaxTargetWeight),
		api.WithLogger(logger),
	)
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	server := NewServer(cfg, BuildRootHandler(apiRouter))

	return &App{
		storage: store,
		logger:  logger,
		server:  server,
	}, nil
}

// NewSession starts an interactive session seeded with the configured plates and weights.
func NewSession(cfg config.Config) (*session.Session, error) {
	s, err := session.New(plates.New(), cfg.Denominations, cfg.BarWeight, cfg.TargetWeight,
		session.WithMaxTargetWeight(cfg.MaxTargetWeight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	return s, nil
}

// BuildRootHandler constructs the root HTTP handler that routes API requests and answers
// the bare root path with a short usage line.
func BuildRootHandler(apiHandler http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(indexText))
	}))
	return mux
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

// Storage returns the plate store served by the API.
func (a *App) Storage() storage.Storage {
	return a.storage
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}
