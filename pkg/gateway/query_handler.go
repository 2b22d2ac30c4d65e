package gateway

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/tguichaoua/promised-sqlite3/pkg/errors"
	"github.com/tguichaoua/promised-sqlite3/pkg/logging"
	"github.com/tguichaoua/promised-sqlite3/pkg/sqlite"
)

// QueryRequest represents a SQL statement request.
type QueryRequest struct {
	DatabaseName string `json:"database_name"`
	Query        string `json:"query"`
	Params       []any  `json:"params"`
}

// QueryResponse represents a SQL statement response.
type QueryResponse struct {
	Rows         []sqlite.Row `json:"rows,omitempty"`
	Count        int          `json:"count"`
	RowsAffected int64        `json:"rows_affected,omitempty"`
	LastInsertID int64        `json:"last_insert_id,omitempty"`
}

// QueryDatabase runs one statement against a named database. Read
// statements answer with the matched rows; write statements answer with
// the engine's result descriptor.
func (g *Gateway) QueryDatabase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteJSON(w, errors.NewDatabaseError("BAD_REQUEST", "invalid request body", errors.ErrInvalidInput))
		return
	}
	if req.DatabaseName == "" || req.Query == "" {
		errors.WriteJSON(w, errors.NewDatabaseError("BAD_REQUEST", "database_name and query are required", errors.ErrInvalidInput))
		return
	}

	rec, err := g.databaseRecord(ctx, req.DatabaseName)
	if err != nil || rec == nil {
		errors.WriteJSON(w, errors.NewDatabaseError("DB_NOT_FOUND", "database not found", errors.ErrNotFound))
		return
	}

	db, err := sqlite.Open(ctx, rec.FilePath, sqlite.WithJournalMode(g.cfg.JournalMode))
	if err != nil {
		g.logger.ComponentError(logging.ComponentGateway, "Failed to open database", zap.Error(err))
		errors.WriteJSON(w, errors.NewDatabaseError("DB_OPEN", "failed to open database", err))
		return
	}
	defer db.Close()

	var resp QueryResponse
	if isWriteQuery(req.Query) {
		res, err := db.Run(ctx, req.Query, req.Params...)
		if err != nil {
			errors.WriteJSON(w, errors.NewDatabaseError("QUERY_FAILED", err.Error(), errors.ErrInvalidInput))
			return
		}
		resp.RowsAffected = res.RowsAffected
		resp.LastInsertID = res.LastInsertID
	} else {
		rows, err := db.All(ctx, req.Query, req.Params...)
		if err != nil {
			errors.WriteJSON(w, errors.NewDatabaseError("QUERY_FAILED", err.Error(), errors.ErrInvalidInput))
			return
		}
		resp.Rows = rows
		resp.Count = len(rows)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// ListDatabases answers with every registered database.
func (g *Gateway) ListDatabases(w http.ResponseWriter, r *http.Request) {
	var records []databaseRecord
	if err := g.meta.AllInto(r.Context(), &records,
		"SELECT id, name, file_path, created_at FROM databases ORDER BY created_at DESC"); err != nil {
		g.logger.ComponentError(logging.ComponentGateway, "Failed to list databases", zap.Error(err))
		errors.WriteJSON(w, errors.NewDatabaseError("DB_LIST", "failed to list databases", err))
		return
	}

	type entry struct {
		databaseRecord
		SizeBytes int64 `json:"size_bytes"`
	}
	entries := make([]entry, 0, len(records))
	for _, rec := range records {
		e := entry{databaseRecord: rec}
		if stat, err := os.Stat(rec.FilePath); err == nil {
			e.SizeBytes = stat.Size()
		}
		entries = append(entries, e)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"databases": entries,
		"count":     len(entries),
	})
}

// DropDatabase removes a database file and its registry row.
func (g *Gateway) DropDatabase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		DatabaseName string `json:"database_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DatabaseName == "" {
		errors.WriteJSON(w, errors.NewDatabaseError("BAD_REQUEST", "database_name is required", errors.ErrInvalidInput))
		return
	}

	rec, err := g.databaseRecord(ctx, req.DatabaseName)
	if err != nil || rec == nil {
		errors.WriteJSON(w, errors.NewDatabaseError("DB_NOT_FOUND", "database not found", errors.ErrNotFound))
		return
	}

	if _, err := g.meta.Run(ctx, "DELETE FROM databases WHERE id = ?", rec.ID); err != nil {
		errors.WriteJSON(w, errors.NewDatabaseError("DB_DROP", "failed to drop database", err))
		return
	}
	if err := os.Remove(rec.FilePath); err != nil && !os.IsNotExist(err) {
		g.logger.ComponentWarn(logging.ComponentGateway, "Failed to remove database file",
			zap.String("path", rec.FilePath), zap.Error(err))
	}

	g.logger.ComponentInfo(logging.ComponentGateway, "Database dropped",
		zap.String("database", req.DatabaseName),
	)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "dropped"})
}

// isWriteQuery determines if a SQL statement is a write operation
func isWriteQuery(query string) bool {
	upperQuery := strings.ToUpper(strings.TrimSpace(query))
	writeKeywords := []string{
		"INSERT", "UPDATE", "DELETE", "CREATE", "DROP", "ALTER", "REPLACE",
	}
	for _, keyword := range writeKeywords {
		if strings.HasPrefix(upperQuery, keyword) {
			return true
		}
	}
	return false
}
