package handlers

import (
	"net/http"
)

// Health provides a minimal liveness check endpoint.
func Health(w http.ResponseWriter, r *http.Request) {
	res := map[string]any{"ok": true, "status": "ok"}
	writeJSON(w, r, http.StatusOK, res)
}
