package httpapi

import (
	"encoding/json"
	"net/http"

	"sleuth/internal/platform/errors"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
	URL   string `json:"url,omitempty"`
}

// writeError answers with {"error": ...} and the status mapped from err.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errors.StatusCode(err), errorBody{Error: err.Error()})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.StatusCode(err)
	if status >= http.StatusInternalServerError {
		s.log(r).Err(err, "status", status)
	} else {
		s.log(r).Debug("request rejected", "status", status, "error", err.Error())
	}
	writeError(w, err)
}
