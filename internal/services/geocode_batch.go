package services

import (
	"context"
	"strings"
	"time"

	"package-tracking-service/internal/domain"
	"package-tracking-service/internal/platform/obs"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

type GeocodeBatchRequest struct {
	Limit   *int
	Force   bool
	DelayMs *int
}

// AddressLookup is the outcome of a single address geocode.
type AddressLookup struct {
	Found       bool     `json:"found"`
	Lat         *float64 `json:"lat,omitempty"`
	Lng         *float64 `json:"lng,omitempty"`
	DisplayName string   `json:"displayName,omitempty"`
}

// GeocodeBatch enriches stored records that lack coordinates. Once started
// the batch runs to completion even if ctx is cancelled. Coordinates are
// merged into a fresh snapshot before writing, so records created, edited
// or deleted while the batch ran are not overwritten wholesale.
func (s *PackageService) GeocodeBatch(ctx context.Context, req GeocodeBatchRequest) (_ EnrichResult, err error) {
	ctx = context.WithoutCancel(ctx)
	defer obs.Time(ctx, "service.geocodeBatch")(&err)

	if s.enricher == nil {
		return EnrichResult{}, eris.New("geocode batch: no geocoder configured")
	}

	list, err := s.store.ReadAll(ctx)
	if err != nil {
		return EnrichResult{}, eris.Wrap(err, "geocode batch")
	}

	opts := EnrichOptions{Limit: req.Limit, Force: req.Force}
	if req.DelayMs != nil {
		d := time.Duration(*req.DelayMs) * time.Millisecond
		opts.Delay = &d
	}

	res := s.enricher.Enrich(ctx, list, opts)
	if res.Updated == 0 {
		return res, nil
	}

	enriched := make(map[string]domain.Package, len(res.UpdatedIDs))
	for _, id := range res.UpdatedIDs {
		if idx := domain.Index(list, id); idx != -1 {
			enriched[id] = list[idx]
		}
	}

	latest, err := s.store.ReadAll(ctx)
	if err != nil {
		return res, eris.Wrap(err, "geocode batch: reread")
	}

	merged := 0
	for i := range latest {
		src, ok := enriched[latest[i].ID]
		if !ok {
			continue
		}
		latest[i].Lat = src.Lat
		latest[i].Lng = src.Lng
		latest[i].UpdatedAt = src.UpdatedAt
		merged++
	}

	if err := s.store.WriteAll(ctx, latest); err != nil {
		return res, eris.Wrap(err, "geocode batch")
	}

	obs.CountBatchUpdated(merged)
	zap.L().Info("geocode batch finished",
		zap.Int("scanned", res.Scanned),
		zap.Int("updated", res.Updated),
		zap.Int("merged", merged),
		zap.Int("errors", len(res.Errors)),
	)

	return res, nil
}

// GeocodeAddress resolves a free-text address without touching storage.
func (s *PackageService) GeocodeAddress(ctx context.Context, address string) (AddressLookup, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return AddressLookup{}, eris.Wrap(ErrValidation, "geocode address: address is required")
	}
	if s.enricher == nil {
		return AddressLookup{}, eris.New("geocode address: no geocoder configured")
	}

	r, err := s.enricher.Geocoder.Lookup(ctx, address)
	if err != nil {
		return AddressLookup{}, eris.Wrap(err, "geocode address")
	}
	if r == nil || !domain.ValidLatLng(r.Lat, r.Lng) {
		return AddressLookup{Found: false}, nil
	}

	lat, lng := r.Lat, r.Lng
	return AddressLookup{
		Found:       true,
		Lat:         &lat,
		Lng:         &lng,
		DisplayName: r.DisplayName,
	}, nil
}
