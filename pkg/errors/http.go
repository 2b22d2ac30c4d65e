package errors

import (
	"encoding/json"
	"errors"
	"net/http"
)

// HTTPStatus maps an error to the HTTP status code the gateway should
// answer with. Unknown errors map to 500.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorResponse is the JSON error body shape.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// WriteJSON writes err as a JSON error response with the mapped status.
func WriteJSON(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error()}

	var coded *DatabaseError
	if errors.As(err, &coded) {
		resp.Code = coded.Code()
		resp.Error = coded.Message()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatus(err))
	json.NewEncoder(w).Encode(resp)
}
