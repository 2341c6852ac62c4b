package storage

import (
	"context"
	"testing"
	"time"

	"package-tracking-service/internal/domain"
	"package-tracking-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePackages() []domain.Package {
	created := domain.Timestamp(time.Date(2026, 3, 2, 14, 30, 0, 123456789, time.UTC))
	delivered := created.Add(2 * time.Hour)
	lat, lng := 4.6097, -74.0817

	return []domain.Package{
		{
			ID:            "pkg-b",
			RecipientName: "Ana",
			Address:       "Calle 5",
			Zone:          "Centro",
			Phone:         "3001234567",
			ProductValue:  15000.5,
			Status:        domain.StatusDelivered,
			Order:         1,
			Lat:           &lat,
			Lng:           &lng,
			DeliveredAt:   &delivered,
			CreatedAt:     created,
			UpdatedAt:     delivered,
		},
		{
			ID:            "pkg-a",
			RecipientName: domain.DefaultRecipientName,
			Address:       "Carrera 7 # 12-30",
			Status:        domain.StatusPending,
			Order:         2,
			CreatedAt:     created,
			UpdatedAt:     created,
		},
	}
}

// exerciseStore checks full-sync semantics common to every backend.
func exerciseStore(t *testing.T, store ports.PackageStore) {
	t.Helper()
	ctx := context.Background()

	list, err := store.ReadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	want := samplePackages()
	require.NoError(t, store.WriteAll(ctx, want))

	got, err := store.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got, "order and values survive a round trip")

	// Reorder, drop one record and add another.
	third := want[0]
	third.ID = "pkg-c"
	third.Order = 3
	next := []domain.Package{want[1], third}
	require.NoError(t, store.WriteAll(ctx, next))

	got, err = store.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, next, got)

	require.NoError(t, store.WriteAll(ctx, nil))
	got, err = store.ReadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}
