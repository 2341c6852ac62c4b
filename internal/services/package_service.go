package services

import (
	"context"
	"time"

	"package-tracking-service/internal/domain"
	"package-tracking-service/internal/ports"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// PackageService runs every package operation as a read-modify-write cycle
// over the whole collection. Nothing is cached between calls.
type PackageService struct {
	store    ports.PackageStore
	enricher *Enricher
	now      func() time.Time
	newID    func() string
}

type ServiceOption func(*PackageService)

// WithClock overrides the time source.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *PackageService) { s.now = now }
}

// WithIDGenerator overrides id generation for new records.
func WithIDGenerator(newID func() string) ServiceOption {
	return func(s *PackageService) { s.newID = newID }
}

func NewPackageService(store ports.PackageStore, enricher *Enricher, opts ...ServiceOption) *PackageService {
	s := &PackageService{
		store:    store,
		enricher: enricher,
		now:      domain.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PackageService) List(ctx context.Context) ([]domain.Package, error) {
	list, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "list packages")
	}
	return list, nil
}

func (s *PackageService) Get(ctx context.Context, id string) (domain.Package, error) {
	list, err := s.store.ReadAll(ctx)
	if err != nil {
		return domain.Package{}, eris.Wrap(err, "get package")
	}

	idx := domain.Index(list, id)
	if idx == -1 {
		return domain.Package{}, eris.Wrapf(ErrNotFound, "get package: id=%s", id)
	}
	return list[idx], nil
}

// Create appends a new record. A supplied id must not be in use; when the
// input carries no order the record is placed at the end.
func (s *PackageService) Create(ctx context.Context, in domain.PackageInput) (domain.Package, error) {
	if in.Address.Value.String() == "" {
		return domain.Package{}, eris.Wrap(ErrValidation, "create package: address is required")
	}

	list, err := s.store.ReadAll(ctx)
	if err != nil {
		return domain.Package{}, eris.Wrap(err, "create package")
	}

	if id := in.ID.Value.String(); in.ID.Present && id != "" && domain.Index(list, id) != -1 {
		return domain.Package{}, eris.Wrapf(ErrConflict, "create package: id=%s", id)
	}

	p := domain.Normalize(in, nil, s.now(), s.newID)
	if p.Order == 0 {
		p.Order = len(list) + 1
	}

	list = append(list, p)
	if err := s.store.WriteAll(ctx, list); err != nil {
		return domain.Package{}, eris.Wrap(err, "create package")
	}
	return p, nil
}

// Update merges in over the stored record.
func (s *PackageService) Update(ctx context.Context, id string, in domain.PackageInput) (domain.Package, error) {
	return s.mutate(ctx, "update package", id, in)
}

// SetStatus moves the record to the status named by token.
func (s *PackageService) SetStatus(ctx context.Context, id, token string) (domain.Package, error) {
	if _, ok := domain.ParseStatus(token); !ok {
		return domain.Package{}, eris.Wrapf(ErrValidation, "set status: unknown status %q", token)
	}
	return s.mutate(ctx, "set status", id, domain.PackageInput{Status: domain.Set(domain.Scalar(token))})
}

// SetCoords stores a manually entered coordinate pair.
func (s *PackageService) SetCoords(ctx context.Context, id string, lat, lng domain.Scalar) (domain.Package, error) {
	if _, ok := domain.ParseCoordPair(lat.String(), lng.String()); !ok {
		return domain.Package{}, eris.Wrapf(ErrValidation,
			"set coords: invalid pair lat=%q lng=%q (lat -90..90, lng -180..180)", lat.String(), lng.String())
	}
	return s.mutate(ctx, "set coords", id, domain.PackageInput{Lat: domain.Set(lat), Lng: domain.Set(lng)})
}

func (s *PackageService) Delete(ctx context.Context, id string) (domain.Package, error) {
	list, err := s.store.ReadAll(ctx)
	if err != nil {
		return domain.Package{}, eris.Wrap(err, "delete package")
	}

	idx := domain.Index(list, id)
	if idx == -1 {
		return domain.Package{}, eris.Wrapf(ErrNotFound, "delete package: id=%s", id)
	}

	removed := list[idx]
	list = append(list[:idx], list[idx+1:]...)
	if err := s.store.WriteAll(ctx, list); err != nil {
		return domain.Package{}, eris.Wrap(err, "delete package")
	}
	return removed, nil
}

// DeleteAll empties the collection and reports how many records it held.
func (s *PackageService) DeleteAll(ctx context.Context) (int, error) {
	list, err := s.store.ReadAll(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "delete all packages")
	}

	if err := s.store.WriteAll(ctx, []domain.Package{}); err != nil {
		return 0, eris.Wrap(err, "delete all packages")
	}
	return len(list), nil
}

func (s *PackageService) mutate(ctx context.Context, op, id string, in domain.PackageInput) (domain.Package, error) {
	list, err := s.store.ReadAll(ctx)
	if err != nil {
		return domain.Package{}, eris.Wrap(err, op)
	}

	idx := domain.Index(list, id)
	if idx == -1 {
		return domain.Package{}, eris.Wrapf(ErrNotFound, "%s: id=%s", op, id)
	}

	list[idx] = domain.Normalize(in, &list[idx], s.now(), s.newID)
	if err := s.store.WriteAll(ctx, list); err != nil {
		return domain.Package{}, eris.Wrap(err, op)
	}
	return list[idx], nil
}
