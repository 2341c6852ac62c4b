package services

import (
	"context"
	"encoding/json"
	"os"

	"package-tracking-service/internal/domain"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

type SeedResult struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

// SeedFromJSON imports a JSON array of package inputs from jsonPath.
func (s *PackageService) SeedFromJSON(ctx context.Context, jsonPath string) (SeedResult, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return SeedResult{}, eris.Wrapf(err, "seed packages: read %q", jsonPath)
	}

	var data []domain.PackageInput
	if err := json.Unmarshal(bytes, &data); err != nil {
		return SeedResult{}, eris.Wrap(err, "seed packages: parse json")
	}

	return s.Seed(ctx, data)
}

// Seed normalizes every entry and appends it in one write. Entries whose id
// is already stored (or repeated in the batch) are skipped; an entry
// without an address fails the whole seed.
func (s *PackageService) Seed(ctx context.Context, data []domain.PackageInput) (SeedResult, error) {
	for i, item := range data {
		if item.Address.Value.String() == "" {
			return SeedResult{}, eris.Wrapf(ErrValidation, "seed packages: item at index %d: address cannot be empty", i+1)
		}
	}

	list, err := s.store.ReadAll(ctx)
	if err != nil {
		return SeedResult{}, eris.Wrap(err, "seed packages")
	}

	var res SeedResult
	for _, item := range data {
		if id := item.ID.Value.String(); item.ID.Present && id != "" && domain.Index(list, id) != -1 {
			zap.L().Info("seed packages: id already stored, skipping", zap.String("id", id))
			res.Skipped++
			continue
		}

		p := domain.Normalize(item, nil, s.now(), s.newID)
		if p.Order == 0 {
			p.Order = len(list) + 1
		}
		list = append(list, p)
		res.Added++
	}

	if res.Added == 0 {
		return res, nil
	}

	if err := s.store.WriteAll(ctx, list); err != nil {
		return SeedResult{}, eris.Wrap(err, "seed packages")
	}
	return res, nil
}
