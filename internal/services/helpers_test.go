package services

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"package-tracking-service/internal/domain"
	"package-tracking-service/internal/ports"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	zap.ReplaceGlobals(zap.NewNop())
	os.Exit(m.Run())
}

// memStore is an in-memory PackageStore that hands out copies.
type memStore struct {
	mu     sync.Mutex
	list   []domain.Package
	reads  int
	writes int
}

func (m *memStore) ReadAll(ctx context.Context) ([]domain.Package, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reads++
	return append([]domain.Package{}, m.list...), nil
}

func (m *memStore) WriteAll(ctx context.Context, list []domain.Package) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.writes++
	m.list = append([]domain.Package{}, list...)
	return nil
}

func (m *memStore) snapshot() []domain.Package {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]domain.Package{}, m.list...)
}

type geocoderFunc func(ctx context.Context, query string) (*ports.GeocodeResult, error)

func (f geocoderFunc) Lookup(ctx context.Context, query string) (*ports.GeocodeResult, error) {
	return f(ctx, query)
}

// clock returns successive minutes starting at base.
type clock struct {
	mu   sync.Mutex
	base time.Time
	n    int
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.base.Add(time.Duration(c.n) * time.Minute)
	c.n++
	return t
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("pkg-%d", n)
	}
}

// recordingSleep collects requested pauses instead of sleeping.
type recordingSleep struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *recordingSleep) Sleep(_ context.Context, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.delays = append(r.delays, d)
}

func newTestEnricher(g ports.Geocoder, sleeper *recordingSleep, clk *clock) *Enricher {
	e := NewEnricher(g, "", 0)
	e.Sleep = sleeper.Sleep
	e.Now = clk.Now
	return e
}

func coordsOf(lat, lng float64) (*float64, *float64) {
	return &lat, &lng
}
