package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"package-tracking-service/internal/platform/obs"
	"package-tracking-service/internal/services"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("encode failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]any{"ok": false, "error": msg})
}

// writeServiceError maps service sentinels onto status codes. Anything
// unrecognized is logged and reported as a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case eris.Is(err, services.ErrValidation):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case eris.Is(err, services.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "package not found")
	case eris.Is(err, services.ErrConflict):
		writeError(w, r, http.StatusConflict, err.Error())
	default:
		zap.L().Error("request failed",
			zap.String("req_id", obs.RequestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

// decodeBody reads exactly one JSON value into dst. An empty body leaves
// dst untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}
