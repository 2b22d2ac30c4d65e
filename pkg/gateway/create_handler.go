package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tguichaoua/promised-sqlite3/pkg/errors"
	"github.com/tguichaoua/promised-sqlite3/pkg/logging"
	"github.com/tguichaoua/promised-sqlite3/pkg/sqlite"
)

// databaseRecord is one row of the metadata registry.
type databaseRecord struct {
	ID        string `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	FilePath  string `json:"file_path" db:"file_path"`
	CreatedAt string `json:"created_at" db:"created_at"`
}

// CreateDatabase creates a new named database file and records it in
// the registry.
func (g *Gateway) CreateDatabase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		DatabaseName string `json:"database_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteJSON(w, errors.NewDatabaseError("BAD_REQUEST", "invalid request body", errors.ErrInvalidInput))
		return
	}
	if !isValidDatabaseName(req.DatabaseName) {
		errors.WriteJSON(w, errors.NewDatabaseError("BAD_NAME",
			"database name must be 1-64 alphanumeric, underscore or hyphen characters", errors.ErrInvalidInput))
		return
	}

	if rec, err := g.databaseRecord(ctx, req.DatabaseName); err == nil && rec != nil {
		errors.WriteJSON(w, errors.NewDatabaseError("DB_CONFLICT", "database already exists", errors.ErrConflict))
		return
	}

	g.logger.ComponentInfo(logging.ComponentGateway, "Creating database",
		zap.String("database", req.DatabaseName),
	)

	rec := databaseRecord{
		ID:        uuid.New().String(),
		Name:      req.DatabaseName,
		FilePath:  filepath.Join(g.cfg.DataDir, req.DatabaseName+".db"),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	// Opening with create mode materializes the file and applies the
	// configured journal mode.
	db, err := sqlite.Open(ctx, rec.FilePath, sqlite.WithJournalMode(g.cfg.JournalMode))
	if err != nil {
		g.logger.ComponentError(logging.ComponentGateway, "Failed to create database file", zap.Error(err))
		errors.WriteJSON(w, errors.NewDatabaseError("DB_CREATE", "failed to create database", err))
		return
	}
	db.Close()

	if _, err := g.meta.Insert(ctx, "databases", sqlite.Row{
		"id":         rec.ID,
		"name":       rec.Name,
		"file_path":  rec.FilePath,
		"created_at": rec.CreatedAt,
	}); err != nil {
		g.logger.ComponentError(logging.ComponentGateway, "Failed to record database", zap.Error(err))
		errors.WriteJSON(w, errors.NewDatabaseError("DB_RECORD", "failed to record database", err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(rec)
}

// databaseRecord looks a database up by name; (nil, nil) when unknown.
func (g *Gateway) databaseRecord(ctx context.Context, name string) (*databaseRecord, error) {
	row, err := g.meta.Get(ctx, "SELECT id, name, file_path, created_at FROM databases WHERE name = ?", name)
	if err != nil || row == nil {
		return nil, err
	}
	return &databaseRecord{
		ID:        row["id"].(string),
		Name:      row["name"].(string),
		FilePath:  row["file_path"].(string),
		CreatedAt: row["created_at"].(string),
	}, nil
}

// isValidDatabaseName validates database name
func isValidDatabaseName(name string) bool {
	if len(name) == 0 || len(name) > 64 {
		return false
	}
	for _, ch := range name {
		if !((ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') ||
			(ch >= '0' && ch <= '9') || ch == '_' || ch == '-') {
			return false
		}
	}
	return true
}
