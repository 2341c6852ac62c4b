package domain

import (
	"math"
	"time"
)

// Normalize merges a partial input over an existing package (nil for a new
// one) and returns the canonical record. It never fails: invalid values
// degrade to the existing value or a safe default. Callers must reject an
// empty Address before creating.
//
// Status transitions fire only on an actual change:
//   - to delivered: DeliveredAt = supplied value or now, ReturnedAt cleared
//   - to returned: ReturnedAt = supplied value or now, DeliveredAt cleared
//   - to pending: both cleared
//
// Without a status change, explicit DeliveredAt/ReturnedAt values are kept
// verbatim.
func Normalize(in PackageInput, existing *Package, now time.Time, newID func() string) Package {
	now = Timestamp(now)

	var base Package
	if existing != nil {
		base = *existing
	}

	out := Package{
		RecipientName: mergeText(in.RecipientName, base.RecipientName),
		Address:       mergeText(in.Address, base.Address),
		Zone:          mergeText(in.Zone, base.Zone),
		Phone:         mergeText(in.Phone, base.Phone),
		ProductValue:  mergeNumber(in.ProductValue, base.ProductValue),
		Order:         mergeOrder(in.Order, base.Order),
		Lat:           copyFloat(base.Lat),
		Lng:           copyFloat(base.Lng),
		DeliveredAt:   copyTime(base.DeliveredAt),
		ReturnedAt:    copyTime(base.ReturnedAt),
		CreatedAt:     base.CreatedAt,
		UpdatedAt:     now,
	}

	switch {
	case existing != nil:
		out.ID = existing.ID
	case in.ID.Present && in.ID.Value.String() != "":
		out.ID = in.ID.Value.String()
	default:
		out.ID = newID()
	}

	if existing == nil && out.RecipientName == "" {
		out.RecipientName = DefaultRecipientName
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = now
	}

	if in.Lat.Present || in.Lng.Present {
		if c, ok := ParseCoordPair(in.Lat.Value.String(), in.Lng.Value.String()); ok {
			out.SetCoords(c)
		} else {
			out.ClearCoords()
		}
	} else if !out.HasCoords() {
		out.ClearCoords()
	}

	prev := StatusPending
	if existing != nil {
		if s, ok := ParseStatus(string(existing.Status)); ok {
			prev = s
		}
	}

	out.Status = prev
	if in.Status.Present {
		if s, ok := ParseStatus(in.Status.Value.String()); ok {
			out.Status = s
		}
	}

	if out.Status != prev {
		applyTransition(&out, in, now)
	} else {
		if in.DeliveredAt.Present {
			out.DeliveredAt = normalizeTime(in.DeliveredAt.Value)
		}
		if in.ReturnedAt.Present {
			out.ReturnedAt = normalizeTime(in.ReturnedAt.Value)
		}
	}

	return out
}

func applyTransition(out *Package, in PackageInput, now time.Time) {
	switch out.Status {
	case StatusDelivered:
		out.DeliveredAt = suppliedOr(in.DeliveredAt, now)
		out.ReturnedAt = nil
	case StatusReturned:
		out.ReturnedAt = suppliedOr(in.ReturnedAt, now)
		out.DeliveredAt = nil
	case StatusPending:
		out.DeliveredAt = nil
		out.ReturnedAt = nil
	}
}

func suppliedOr(f Field[*time.Time], now time.Time) *time.Time {
	if f.Present && f.Value != nil {
		return normalizeTime(f.Value)
	}
	t := now
	return &t
}

func mergeText(f Field[Scalar], existing string) string {
	if f.Present {
		return f.Value.String()
	}
	return existing
}

func mergeNumber(f Field[Scalar], existing float64) float64 {
	if !isFinite(existing) {
		existing = 0
	}
	if !f.Present {
		return existing
	}
	if n := f.Value.Number(); isFinite(n) {
		return n
	}
	return existing
}

func mergeOrder(f Field[Scalar], existing int) int {
	if !f.Present {
		return existing
	}
	n := f.Value.Number()
	if !isFinite(n) || n > math.MaxInt32 || n < math.MinInt32 {
		return existing
	}
	return int(n)
}

func normalizeTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := Timestamp(*t)
	return &v
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
