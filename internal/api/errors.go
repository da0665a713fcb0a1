package api

import (
	"encoding/json"
	"net/http"

	"github.com/MikeSquared-Agency/knowji/internal/apperr"
)

type errorBody struct {
	Error string `json:"error"`
}

// Kinds that mean the caller sent something unusable.
var clientKinds = []apperr.Kind{
	apperr.InvalidArgument,
	apperr.MissingParameter,
	apperr.EmptyContent,
	apperr.InvalidURL,
	apperr.UnsupportedType,
	apperr.FileReadError,
}

// statusFor maps an error to an HTTP status. Client mistakes win over the
// pipeline failure that wraps them.
func statusFor(err error) int {
	for _, k := range clientKinds {
		if apperr.Is(err, k) {
			return http.StatusBadRequest
		}
	}
	switch {
	case apperr.Is(err, apperr.NotFound):
		return http.StatusNotFound
	case apperr.Is(err, apperr.CompletionFailed), apperr.Is(err, apperr.ProcessingFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// fail writes err and logs it when the fault is on our side.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(op+" failed", "status", status, "error", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}
