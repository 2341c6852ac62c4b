package services

import (
	"context"
	"testing"
	"time"

	"package-tracking-service/internal/domain"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

func newTestService(store *memStore, e *Enricher) *PackageService {
	clk := &clock{base: base}
	return NewPackageService(store, e, WithClock(clk.Now), WithIDGenerator(sequentialIDs()))
}

func TestCreatePackage(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store, nil)

	p, err := svc.Create(context.Background(), domain.PackageInput{
		Address: domain.Set(domain.Scalar("Calle 5")),
		Zone:    domain.Set(domain.Scalar("Centro")),
	})
	require.NoError(t, err)

	assert.Equal(t, "pkg-1", p.ID)
	assert.Equal(t, domain.StatusPending, p.Status)
	assert.Nil(t, p.Lat)
	assert.Nil(t, p.Lng)
	assert.Equal(t, 1, p.Order)
	assert.Equal(t, []domain.Package{p}, store.snapshot())
}

func TestCreatePackageOrder(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.PackageInput{Address: domain.Set(domain.Scalar("A"))})
	require.NoError(t, err)

	second, err := svc.Create(ctx, domain.PackageInput{Address: domain.Set(domain.Scalar("B"))})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Order)

	explicit, err := svc.Create(ctx, domain.PackageInput{
		Address: domain.Set(domain.Scalar("C")),
		Order:   domain.Set(domain.Scalar("9")),
	})
	require.NoError(t, err)
	assert.Equal(t, 9, explicit.Order)
}

func TestCreatePackageValidation(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store, nil)

	_, err := svc.Create(context.Background(), domain.PackageInput{Zone: domain.Set(domain.Scalar("Centro"))})
	assert.True(t, eris.Is(err, ErrValidation))

	_, err = svc.Create(context.Background(), domain.PackageInput{Address: domain.Set(domain.Scalar("   "))})
	assert.True(t, eris.Is(err, ErrValidation))

	assert.Zero(t, store.writes)
}

func TestCreatePackageConflict(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.PackageInput{ID: domain.Set(domain.Scalar("A-1")), Address: domain.Set(domain.Scalar("A"))})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.PackageInput{ID: domain.Set(domain.Scalar(" A-1 ")), Address: domain.Set(domain.Scalar("B"))})
	assert.True(t, eris.Is(err, ErrConflict))
	assert.Len(t, store.snapshot(), 1)
}

func TestGetPackage(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.PackageInput{Address: domain.Set(domain.Scalar("A"))})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = svc.Get(ctx, "missing")
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestUpdatePackage(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.PackageInput{
		Address:       domain.Set(domain.Scalar("Calle 5")),
		RecipientName: domain.Set(domain.Scalar("Ana")),
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, domain.PackageInput{
		ID:    domain.Set(domain.Scalar("hijack")),
		Phone: domain.Set(domain.Scalar("3001234567")),
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Ana", updated.RecipientName)
	assert.Equal(t, "3001234567", updated.Phone)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	_, err = svc.Update(ctx, "missing", domain.PackageInput{})
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestSetCoordsRejectsOutOfRange(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.PackageInput{Address: domain.Set(domain.Scalar("A"))})
	require.NoError(t, err)
	writes := store.writes

	_, err = svc.SetCoords(ctx, created.ID, domain.Float(95), domain.Float(10))
	assert.True(t, eris.Is(err, ErrValidation))
	assert.Equal(t, writes, store.writes)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestSetCoords(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.PackageInput{Address: domain.Set(domain.Scalar("A"))})
	require.NoError(t, err)

	p, err := svc.SetCoords(ctx, created.ID, domain.Scalar("3,4698"), domain.Scalar("-76.5225"))
	require.NoError(t, err)
	lat, lng := coordsOf(3.4698, -76.5225)
	assert.Equal(t, lat, p.Lat)
	assert.Equal(t, lng, p.Lng)

	_, err = svc.SetCoords(ctx, "missing", domain.Float(1), domain.Float(1))
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestSetStatusTwice(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.PackageInput{Address: domain.Set(domain.Scalar("A"))})
	require.NoError(t, err)

	first, err := svc.SetStatus(ctx, created.ID, "entregado")
	require.NoError(t, err)
	require.NotNil(t, first.DeliveredAt)
	assert.Equal(t, domain.StatusDelivered, first.Status)

	second, err := svc.SetStatus(ctx, created.ID, "entregado")
	require.NoError(t, err)
	require.NotNil(t, second.DeliveredAt)
	assert.Equal(t, *first.DeliveredAt, *second.DeliveredAt)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))

	back, err := svc.SetStatus(ctx, created.ID, "Pendiente")
	require.NoError(t, err)
	assert.Nil(t, back.DeliveredAt)
	assert.Nil(t, back.ReturnedAt)
}

func TestSetStatusInvalid(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.PackageInput{Address: domain.Set(domain.Scalar("A"))})
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, created.ID, "en camino")
	assert.True(t, eris.Is(err, ErrValidation))

	_, err = svc.SetStatus(ctx, "missing", "devuelto")
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestDeletePackage(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store, nil)
	ctx := context.Background()

	a, err := svc.Create(ctx, domain.PackageInput{Address: domain.Set(domain.Scalar("A"))})
	require.NoError(t, err)
	b, err := svc.Create(ctx, domain.PackageInput{Address: domain.Set(domain.Scalar("B"))})
	require.NoError(t, err)

	removed, err := svc.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a, removed)
	assert.Equal(t, []domain.Package{b}, store.snapshot())

	_, err = svc.Delete(ctx, a.ID)
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestDeleteAllPackages(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store, nil)
	ctx := context.Background()

	for _, addr := range []string{"A", "B", "C"} {
		_, err := svc.Create(ctx, domain.PackageInput{Address: domain.Set(domain.Scalar(addr))})
		require.NoError(t, err)
	}

	n, err := svc.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Empty(t, store.snapshot())
}

func TestSeed(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.PackageInput{ID: domain.Set(domain.Scalar("A-1")), Address: domain.Set(domain.Scalar("A"))})
	require.NoError(t, err)

	res, err := svc.Seed(ctx, []domain.PackageInput{
		{ID: domain.Set(domain.Scalar("A-1")), Address: domain.Set(domain.Scalar("dup"))},
		{ID: domain.Set(domain.Scalar("B-1")), Address: domain.Set(domain.Scalar("B")), Status: domain.Set(domain.Scalar("devuelta"))},
		{Address: domain.Set(domain.Scalar("C"))},
	})
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Added: 2, Skipped: 1}, res)

	list := store.snapshot()
	require.Len(t, list, 3)
	assert.Equal(t, "A", list[0].Address)
	assert.Equal(t, domain.StatusReturned, list[1].Status)
	assert.NotNil(t, list[1].ReturnedAt)
	assert.Equal(t, 3, list[2].Order)

	_, err = svc.Seed(ctx, []domain.PackageInput{{Zone: domain.Set(domain.Scalar("Norte"))}})
	assert.True(t, eris.Is(err, ErrValidation))
}
