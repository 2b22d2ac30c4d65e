// Package gateway exposes named SQLite database files over HTTP. Every
// request runs through a pkg/sqlite handle; the registry of known
// databases is itself a handle over a metadata database in the data
// directory.
package gateway

import (
	"context"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/tguichaoua/promised-sqlite3/pkg/config"
	"github.com/tguichaoua/promised-sqlite3/pkg/logging"
	"github.com/tguichaoua/promised-sqlite3/pkg/sqlite"
)

// Gateway serves database operations over HTTP.
type Gateway struct {
	logger *logging.ColoredLogger
	cfg    *config.GatewayConfig
	meta   *sqlite.DB
	router chi.Router
	server *http.Server
}

// New prepares the data directory, opens the metadata registry and
// builds the routes.
func New(logger *logging.ColoredLogger, cfg *config.GatewayConfig) (*Gateway, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	meta, err := sqlite.Open(ctx, filepath.Join(cfg.DataDir, "meta.db"),
		sqlite.WithJournalMode(cfg.JournalMode),
		sqlite.WithBusyTimeout(5*time.Second),
	)
	if err != nil {
		return nil, err
	}

	if err := meta.CreateTable(ctx, "databases", true,
		"id TEXT PRIMARY KEY",
		"name TEXT NOT NULL UNIQUE",
		"file_path TEXT NOT NULL",
		"created_at TEXT NOT NULL",
	); err != nil {
		meta.Close()
		return nil, err
	}

	g := &Gateway{
		logger: logger,
		cfg:    cfg,
		meta:   meta,
		router: chi.NewRouter(),
	}

	g.router.Use(middleware.RequestID)
	g.router.Use(middleware.Recoverer)
	g.router.Use(middleware.Timeout(30 * time.Second))

	g.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	g.router.Route("/v1/db", func(r chi.Router) {
		r.Post("/create", g.CreateDatabase)
		r.Post("/query", g.QueryDatabase)
		r.Post("/drop", g.DropDatabase)
		r.Get("/list", g.ListDatabases)
	})

	logger.ComponentInfo(logging.ComponentGateway, "Gateway initialized",
		zap.String("listen_addr", cfg.ListenAddr),
		zap.String("data_dir", cfg.DataDir),
	)

	return g, nil
}

// Routes returns the router for serving or testing.
func (g *Gateway) Routes() chi.Router {
	return g.router
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully.
func (g *Gateway) Start(ctx context.Context) error {
	g.server = &http.Server{
		Addr:    g.cfg.ListenAddr,
		Handler: g.router,
	}

	listener, err := net.Listen("tcp", g.cfg.ListenAddr)
	if err != nil {
		return err
	}

	g.logger.ComponentInfo(logging.ComponentGateway, "Gateway HTTP server starting",
		zap.String("addr", g.cfg.ListenAddr),
	)

	go func() {
		if err := g.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			g.logger.ComponentError(logging.ComponentGateway, "HTTP server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	return g.Stop()
}

// Stop gracefully stops the HTTP server.
func (g *Gateway) Stop() error {
	if g.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	g.logger.ComponentInfo(logging.ComponentGateway, "Gateway shutting down")
	return g.server.Shutdown(ctx)
}

// Close releases the metadata handle.
func (g *Gateway) Close() error {
	return g.meta.Close()
}
