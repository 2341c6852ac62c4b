package handlers

import (
	"net/http"

	"package-tracking-service/internal/api/dto"
	"package-tracking-service/internal/services"
)

// GeocodeHandler exposes batch enrichment and single address lookups.
type GeocodeHandler struct {
	Service *services.PackageService
}

// Batch runs a geocoding batch. The request blocks for the whole batch,
// roughly one delay per candidate.
func (h *GeocodeHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req dto.GeocodeBatchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.Service.GeocodeBatch(r.Context(), services.GeocodeBatchRequest{
		Limit:   req.Limit,
		Force:   req.Force,
		DelayMs: req.DelayMs,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.GeocodeBatchResponse{OK: true, EnrichResult: res})
}

// Lookup geocodes ?address= (or ?direccion=) without storing anything.
func (h *GeocodeHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	address := q.Get("address")
	if address == "" {
		address = q.Get("direccion")
	}

	res, err := h.Service.GeocodeAddress(r.Context(), address)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.GeocodeAddressResponse{OK: true, AddressLookup: res})
}
