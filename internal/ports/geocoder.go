package ports

import "context"

// Single best-effort match for a free-text address.
type GeocodeResult struct {
	Lat         float64
	Lng         float64
	DisplayName string
}

// Contract for resolving an address into coordinates.
type Geocoder interface {
	// Return the best match for query, or nil when the provider has none.
	// Errors are reserved for transport failures.
	Lookup(ctx context.Context, query string) (*GeocodeResult, error)
}
