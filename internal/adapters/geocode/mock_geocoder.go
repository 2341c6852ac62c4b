package geocode

import (
	"context"
	"strings"
	"sync"

	"package-tracking-service/internal/ports"
)

// Mock is an in-memory geocoder keyed by exact query. Queries listed in
// Failures return that error; unknown queries have no match.
type Mock struct {
	mu       sync.Mutex
	results  map[string]ports.GeocodeResult
	Failures map[string]error
	Queries  []string
}

var _ ports.Geocoder = (*Mock)(nil)

func NewMock(results map[string]ports.GeocodeResult) *Mock {
	m := make(map[string]ports.GeocodeResult, len(results))
	for q, r := range results {
		m[strings.TrimSpace(q)] = r
	}
	return &Mock{results: m, Failures: map[string]error{}}
}

func (m *Mock) Lookup(ctx context.Context, query string) (*ports.GeocodeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	query = strings.TrimSpace(query)
	m.Queries = append(m.Queries, query)

	if err, ok := m.Failures[query]; ok {
		return nil, err
	}

	r, ok := m.results[query]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

// Calls returns the queries received so far.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.Queries...)
}
