package errors

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDatabaseError(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := NewDatabaseError("QUERY_FAILED", "query failed", cause)

	if err.Code() != "QUERY_FAILED" {
		t.Errorf("Code() = %q", err.Code())
	}
	if !strings.Contains(err.Error(), "disk I/O error") {
		t.Errorf("Error() = %q, want cause included", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should match the cause")
	}
}

func TestDatabaseErrorMatchesSentinel(t *testing.T) {
	err := NewDatabaseError("DB_NOT_FOUND", "no such database", ErrNotFound)
	if !errors.Is(err, ErrNotFound) {
		t.Error("coded error should match its sentinel cause")
	}
	if HTTPStatus(err) != http.StatusNotFound {
		t.Errorf("HTTPStatus = %d, want 404", HTTPStatus(err))
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{ErrNotFound, http.StatusNotFound},
		{ErrConflict, http.StatusConflict},
		{ErrInvalidInput, http.StatusBadRequest},
		{ErrInternal, http.StatusInternalServerError},
		{errors.New("anything else"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, NewDatabaseError("DB_CONFLICT", "database already exists", ErrConflict))

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "DB_CONFLICT") || !strings.Contains(body, "database already exists") {
		t.Fatalf("body = %q", body)
	}
}
