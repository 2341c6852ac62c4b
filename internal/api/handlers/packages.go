package handlers

import (
	"net/http"

	"package-tracking-service/internal/api/dto"
	"package-tracking-service/internal/domain"
	"package-tracking-service/internal/services"
)

// PackageHandler exposes package CRUD and status/coordinate updates.
type PackageHandler struct {
	Service *services.PackageService
}

// List returns the collection as a bare JSON array.
func (h *PackageHandler) List(w http.ResponseWriter, r *http.Request) {
	pkgs, err := h.Service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, pkgs)
}

func (h *PackageHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}

func (h *PackageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.PackageInput
	if !decodeBody(w, r, &in) {
		return
	}

	p, err := h.Service.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, p)
}

func (h *PackageHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in domain.PackageInput
	if !decodeBody(w, r, &in) {
		return
	}

	p, err := h.Service.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}

func (h *PackageHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.StatusRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := h.Service.SetStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}

func (h *PackageHandler) SetCoords(w http.ResponseWriter, r *http.Request) {
	var req dto.CoordsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := h.Service.SetCoords(r.Context(), r.PathValue("id"), req.Lat, req.Lng)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}

func (h *PackageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.DeletePackageResponse{OK: true, Removed: p})
}

func (h *PackageHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	n, err := h.Service.DeleteAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.DeleteAllResponse{OK: true, Removed: n})
}
