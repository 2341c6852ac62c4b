package api

import (
	"net/http"

	"package-tracking-service/internal/api/handlers"
	"package-tracking-service/internal/platform/obs"
	"package-tracking-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(svc *services.PackageService) http.Handler {
	mux := http.NewServeMux()

	pkgHandler := &handlers.PackageHandler{Service: svc}
	geoHandler := &handlers.GeocodeHandler{Service: svc}

	mux.HandleFunc("GET /health", handlers.Health)
	mux.Handle("GET /metrics", obs.Handler())

	mux.HandleFunc("GET /packages", pkgHandler.List)
	mux.HandleFunc("POST /packages", pkgHandler.Create)
	mux.HandleFunc("DELETE /packages", pkgHandler.DeleteAll)
	mux.HandleFunc("POST /packages/geocode-batch", geoHandler.Batch)
	mux.HandleFunc("GET /packages/{id}", pkgHandler.Get)
	mux.HandleFunc("PUT /packages/{id}", pkgHandler.Update)
	mux.HandleFunc("DELETE /packages/{id}", pkgHandler.Delete)
	mux.HandleFunc("PATCH /packages/{id}/status", pkgHandler.SetStatus)
	mux.HandleFunc("PUT /packages/{id}/coords", pkgHandler.SetCoords)

	mux.HandleFunc("GET /geocode", geoHandler.Lookup)

	return requestIDMiddleware(loggingMiddleware(mux))
}
