package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"package-tracking-service/internal/adapters/geocode"
	"package-tracking-service/internal/domain"
	"package-tracking-service/internal/ports"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocodeBatch(t *testing.T) {
	store := &memStore{list: fivePackages()}
	g := geocode.NewMock(map[string]ports.GeocodeResult{
		"Calle 2, Centro, Colombia": {Lat: 4.61, Lng: -74.07},
		"Calle 4, Colombia":         {Lat: 4.62, Lng: -74.06},
		"Calle 5, Colombia":         {Lat: 4.63, Lng: -74.05},
	})
	sleeper := &recordingSleep{}
	svc := newTestService(store, newTestEnricher(g, sleeper, &clock{base: base}))

	res, err := svc.GeocodeBatch(context.Background(), GeocodeBatchRequest{})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Scanned)
	assert.Equal(t, 3, res.Updated)
	assert.Equal(t, 0, res.Skipped)
	assert.Equal(t, 1, store.writes)

	for _, p := range store.snapshot() {
		assert.True(t, p.HasCoords(), "id=%s", p.ID)
	}
}

func TestGeocodeBatchDelayRequest(t *testing.T) {
	store := &memStore{list: fivePackages()}
	sleeper := &recordingSleep{}
	svc := newTestService(store, newTestEnricher(geocode.NewMock(nil), sleeper, &clock{base: base}))

	_, err := svc.GeocodeBatch(context.Background(), GeocodeBatchRequest{Limit: intPtr(1), DelayMs: intPtr(2500)})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{2500 * time.Millisecond}, sleeper.delays)

	sleeper.delays = nil
	_, err = svc.GeocodeBatch(context.Background(), GeocodeBatchRequest{Limit: intPtr(1), DelayMs: intPtr(10)})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{MinGeocodeDelay}, sleeper.delays)
}

func TestGeocodeBatchNothingUpdatedSkipsWrite(t *testing.T) {
	store := &memStore{list: fivePackages()}
	svc := newTestService(store, newTestEnricher(geocode.NewMock(nil), &recordingSleep{}, &clock{base: base}))

	res, err := svc.GeocodeBatch(context.Background(), GeocodeBatchRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Scanned)
	assert.Len(t, res.Errors, 3)
	assert.Zero(t, store.writes)
}

func TestGeocodeBatchMergesIntoLatestSnapshot(t *testing.T) {
	store := &memStore{list: fivePackages()}

	// While the batch runs, another writer deletes p4 and renames p2.
	g := geocoderFunc(func(_ context.Context, query string) (*ports.GeocodeResult, error) {
		if query == "Calle 2, Centro, Colombia" {
			list := store.snapshot()
			list = append(list[:3], list[4:]...)
			list[1].RecipientName = "Beatriz"
			_ = store.WriteAll(context.Background(), list)
		}
		return &ports.GeocodeResult{Lat: 5, Lng: -75}, nil
	})

	svc := newTestService(store, newTestEnricher(g, &recordingSleep{}, &clock{base: base}))

	res, err := svc.GeocodeBatch(context.Background(), GeocodeBatchRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Updated)

	list := store.snapshot()
	require.Len(t, list, 4, "deleted records are not resurrected")
	assert.Equal(t, -1, domain.Index(list, "p4"))

	p2 := list[domain.Index(list, "p2")]
	assert.Equal(t, "Beatriz", p2.RecipientName, "concurrent edit survives")
	assert.True(t, p2.HasCoords())
}

func TestGeocodeBatchIgnoresCancellation(t *testing.T) {
	store := &memStore{list: fivePackages()}
	g := geocode.NewMock(map[string]ports.GeocodeResult{
		"Calle 4, Colombia": {Lat: 4.62, Lng: -74.06},
	})
	svc := newTestService(store, newTestEnricher(g, &recordingSleep{}, &clock{base: base}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := svc.GeocodeBatch(ctx, GeocodeBatchRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Scanned)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 1, store.writes)
}

func TestGeocodeAddress(t *testing.T) {
	g := geocode.NewMock(map[string]ports.GeocodeResult{
		"Calle 5, Cali": {Lat: 3.45, Lng: -76.53, DisplayName: "Calle 5, Cali, Valle del Cauca"},
	})
	g.Failures["down"] = errors.New("timeout")
	svc := newTestService(&memStore{}, newTestEnricher(g, &recordingSleep{}, &clock{base: base}))
	ctx := context.Background()

	found, err := svc.GeocodeAddress(ctx, "  Calle 5, Cali ")
	require.NoError(t, err)
	assert.True(t, found.Found)
	require.NotNil(t, found.Lat)
	assert.Equal(t, 3.45, *found.Lat)
	assert.Equal(t, "Calle 5, Cali, Valle del Cauca", found.DisplayName)

	missing, err := svc.GeocodeAddress(ctx, "nowhere")
	require.NoError(t, err)
	assert.Equal(t, AddressLookup{Found: false}, missing)

	_, err = svc.GeocodeAddress(ctx, " ")
	assert.True(t, eris.Is(err, ErrValidation))

	_, err = svc.GeocodeAddress(ctx, "down")
	assert.Error(t, err)
	assert.False(t, eris.Is(err, ErrValidation))
}
