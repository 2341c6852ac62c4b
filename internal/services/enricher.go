package services

import (
	"context"
	"strings"
	"time"

	"package-tracking-service/internal/domain"
	"package-tracking-service/internal/ports"

	"go.uber.org/zap"
)

const (
	DefaultBatchLimit   = 30
	MaxBatchLimit       = 120
	DefaultGeocodeDelay = 1100 * time.Millisecond
	MinGeocodeDelay     = 800 * time.Millisecond
	DefaultCountryHint  = "Colombia"
)

type EnrichOptions struct {
	Limit *int
	Force bool
	Delay *time.Duration
}

// EnrichError reports one candidate that could not be geocoded.
type EnrichError struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

type EnrichResult struct {
	Scanned int           `json:"scanned"`
	Updated int           `json:"updated"`
	Skipped int           `json:"skipped"`
	Errors  []EnrichError `json:"errors"`

	// UpdatedIDs lists the records that received coordinates, in order.
	UpdatedIDs []string `json:"-"`
}

// Enricher fills in missing coordinates by geocoding each candidate's
// address, one lookup at a time with a fixed pause after every call.
// It mutates the records it is given and never touches storage.
type Enricher struct {
	Geocoder     ports.Geocoder
	CountryHint  string
	DefaultDelay time.Duration

	// Sleep pauses between lookups; tests replace it.
	Sleep func(ctx context.Context, d time.Duration)
	Now   func() time.Time
}

func NewEnricher(geocoder ports.Geocoder, countryHint string, defaultDelay time.Duration) *Enricher {
	if strings.TrimSpace(countryHint) == "" {
		countryHint = DefaultCountryHint
	}
	if defaultDelay <= 0 {
		defaultDelay = DefaultGeocodeDelay
	}
	return &Enricher{
		Geocoder:     geocoder,
		CountryHint:  countryHint,
		DefaultDelay: defaultDelay,
		Sleep:        sleepContext,
		Now:          domain.Now,
	}
}

// ClampLimit returns the number of candidates a batch may process.
func ClampLimit(limit *int) int {
	if limit == nil {
		return DefaultBatchLimit
	}
	return min(max(*limit, 1), MaxBatchLimit)
}

// ClampDelay returns the pause between lookups, never below MinGeocodeDelay.
func ClampDelay(delay *time.Duration, def time.Duration) time.Duration {
	d := def
	if delay != nil {
		d = *delay
	}
	return max(d, MinGeocodeDelay)
}

// BuildQuery joins address, zone and the country hint, skipping blanks.
func BuildQuery(p domain.Package, countryHint string) string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.Address, p.Zone, countryHint} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// Enrich geocodes up to ClampLimit(opts.Limit) candidates in list order.
// Candidates are the records without coordinates, or all records when
// opts.Force is set. A failed candidate is reported and the batch goes on.
func (e *Enricher) Enrich(ctx context.Context, records []domain.Package, opts EnrichOptions) EnrichResult {
	limit := ClampLimit(opts.Limit)
	delay := ClampDelay(opts.Delay, e.DefaultDelay)

	candidates := make([]int, 0, limit)
	for i := range records {
		if len(candidates) == limit {
			break
		}
		if opts.Force || !records[i].HasCoords() {
			candidates = append(candidates, i)
		}
	}

	res := EnrichResult{
		Scanned: len(candidates),
		Errors:  []EnrichError{},
	}

	for _, i := range candidates {
		p := &records[i]

		if err := e.enrichOne(ctx, p); err != nil {
			zap.L().Warn("enrich: geocode failed",
				zap.String("id", p.ID),
				zap.Error(err),
			)
			res.Errors = append(res.Errors, EnrichError{ID: p.ID, Error: err.Error()})
		} else {
			res.Updated++
			res.UpdatedIDs = append(res.UpdatedIDs, p.ID)
		}

		e.Sleep(ctx, delay)
	}

	res.Skipped = res.Scanned - res.Updated
	return res
}

func (e *Enricher) enrichOne(ctx context.Context, p *domain.Package) error {
	r, err := e.Geocoder.Lookup(ctx, BuildQuery(*p, e.CountryHint))
	if err != nil {
		return err
	}
	if r == nil {
		return errNoMatch
	}

	c := domain.Coordinates{Lat: r.Lat, Lng: r.Lng}
	if !c.Valid() {
		return errInvalidCoords
	}

	p.SetCoords(c)
	p.UpdatedAt = domain.Timestamp(e.Now())
	return nil
}

var (
	errNoMatch       = enrichError("no match")
	errInvalidCoords = enrichError("geocoder returned invalid coordinates")
)

type enrichError string

func (e enrichError) Error() string { return string(e) }

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
