// Package httputil centralizes JSON response writing so every handler emits
// the same envelopes.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	domainerrors "sporemap/pkg/domain-errors"
)

// WriteJSON serializes v with the given status. Encoding failures are
// swallowed; by the time encoding runs the status line is already written.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the `{"error": message}`
// envelope. Errors without a domain code are reported as a generic internal
// error so storage details never reach the caller.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	var derr *domainerrors.Error
	if errors.As(err, &derr) {
		status = domainerrors.ToHTTPStatus(derr.Code)
		message = derr.Message
	}

	WriteJSON(w, status, map[string]string{"error": message})
}
