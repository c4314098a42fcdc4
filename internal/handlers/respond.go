package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lumora-app/lumora-backend/internal/services"
)

// Envelope is the uniform JSON response shape for every non-redirect endpoint.
type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}

// statusForKind is the single place a service error kind becomes an HTTP
// status.
func statusForKind(kind services.Kind) int {
	switch kind {
	case services.KindInvalid:
		return http.StatusBadRequest
	case services.KindUnauthorized:
		return http.StatusUnauthorized
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError converts a service failure into an envelope. Internal failures
// only expose their underlying text when verbose is set (non-production).
func writeError(w http.ResponseWriter, err error, verbose bool) {
	kind := services.KindOf(err)
	status := statusForKind(kind)

	message := services.MessageOf(err)
	if kind == services.KindInternal {
		if verbose {
			message = err.Error()
		} else {
			message = "Something went wrong. Please try again later."
		}
	}
	if message == "" {
		message = http.StatusText(status)
	}

	writeJSON(w, status, Envelope{Success: false, Message: message})
}

// requireFields returns a field -> message map for every empty required field.
func requireFields(fields map[string]string) map[string]string {
	var missing map[string]string
	for name, value := range fields {
		if value == "" {
			if missing == nil {
				missing = make(map[string]string)
			}
			missing[name] = name + " is required"
		}
	}
	return missing
}
