package gateway

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tguichaoua/promised-sqlite3/pkg/config"
	"github.com/tguichaoua/promised-sqlite3/pkg/logging"
)

func newTestGateway(t *testing.T) *Gateway {
	t.Helper()

	logger, err := logging.NewColoredLogger(logging.ComponentGateway, false)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.Logging.Colors = false

	g, err := New(logger, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { g.Close() })
	return g
}

func do(t *testing.T, g *Gateway, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	g.Routes().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	g := newTestGateway(t)
	rec := do(t, g, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestCreateQueryRoundTrip(t *testing.T) {
	g := newTestGateway(t)

	rec := do(t, g, http.MethodPost, "/v1/db/create", map[string]string{"database_name": "app"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, g, http.MethodPost, "/v1/db/query", QueryRequest{
		DatabaseName: "app",
		Query:        "CREATE TABLE t (id INTEGER PRIMARY KEY, v TEXT)",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, g, http.MethodPost, "/v1/db/query", QueryRequest{
		DatabaseName: "app",
		Query:        "INSERT INTO t (v) VALUES (?)",
		Params:       []any{"x"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var write QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &write))
	assert.Equal(t, int64(1), write.LastInsertID)
	assert.Equal(t, int64(1), write.RowsAffected)

	rec = do(t, g, http.MethodPost, "/v1/db/query", QueryRequest{
		DatabaseName: "app",
		Query:        "SELECT v FROM t WHERE id = 1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var read QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &read))
	require.Equal(t, 1, read.Count)
	assert.Equal(t, "x", read.Rows[0]["v"])
}

func TestCreateValidation(t *testing.T) {
	g := newTestGateway(t)

	rec := do(t, g, http.MethodPost, "/v1/db/create", map[string]string{"database_name": "no/slashes"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, g, http.MethodPost, "/v1/db/create", map[string]string{"database_name": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateConflict(t *testing.T) {
	g := newTestGateway(t)

	rec := do(t, g, http.MethodPost, "/v1/db/create", map[string]string{"database_name": "dup"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, g, http.MethodPost, "/v1/db/create", map[string]string{"database_name": "dup"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestQueryUnknownDatabase(t *testing.T) {
	g := newTestGateway(t)
	rec := do(t, g, http.MethodPost, "/v1/db/query", QueryRequest{
		DatabaseName: "ghost",
		Query:        "SELECT 1",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQueryEngineErrorSurfaces(t *testing.T) {
	g := newTestGateway(t)

	rec := do(t, g, http.MethodPost, "/v1/db/create", map[string]string{"database_name": "app"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, g, http.MethodPost, "/v1/db/query", QueryRequest{
		DatabaseName: "app",
		Query:        "SELECT * FROM missing",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing")
}

func TestListAndDrop(t *testing.T) {
	g := newTestGateway(t)

	for _, name := range []string{"one", "two"} {
		rec := do(t, g, http.MethodPost, "/v1/db/create", map[string]string{"database_name": name})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := do(t, g, http.MethodGet, "/v1/db/list", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Count     int               `json:"count"`
		Databases []json.RawMessage `json:"databases"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 2, list.Count)

	rec = do(t, g, http.MethodPost, "/v1/db/drop", map[string]string{"database_name": "one"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, g, http.MethodGet, "/v1/db/list", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)

	rec = do(t, g, http.MethodPost, "/v1/db/drop", map[string]string{"database_name": "one"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
