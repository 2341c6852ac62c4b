package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Field is one value of a partial update. Present distinguishes a field that
// was sent (possibly as null) from one that was omitted.
type Field[T any] struct {
	Value   T
	Present bool
}

// Set returns a present Field holding v.
func Set[T any](v T) Field[T] {
	return Field[T]{Value: v, Present: true}
}

// UnmarshalJSON marks the field present; null decodes to the zero value.
func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Present = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		var zero T
		f.Value = zero
		return nil
	}
	return json.Unmarshal(b, &f.Value)
}

// Scalar is the text of a loosely typed input value. It accepts JSON
// strings, numbers and booleans so "3,4698", 3.4698 and "3.4698" all
// reach the normalizer intact.
type Scalar string

func (s *Scalar) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*s = ""
	case len(b) > 0 && b[0] == '"':
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = Scalar(str)
	case len(b) > 0 && (b[0] == '{' || b[0] == '['):
		// Objects and arrays carry no scalar meaning; degrade to empty.
		*s = ""
	default:
		*s = Scalar(b)
	}
	return nil
}

// String returns the trimmed text.
func (s Scalar) String() string {
	return strings.TrimSpace(string(s))
}

// Number parses the scalar as a decimal; NaN when it is not a finite number.
func (s Scalar) Number() float64 {
	return parseDecimal(string(s))
}

// Float is a convenience for building numeric scalars in code.
func Float(f float64) Scalar {
	return Scalar(strconv.FormatFloat(f, 'f', -1, 64))
}

// PackageInput is a typed partial update of a Package.
type PackageInput struct {
	ID            Field[Scalar]     `json:"id"`
	RecipientName Field[Scalar]     `json:"recipientName"`
	Address       Field[Scalar]     `json:"address"`
	Zone          Field[Scalar]     `json:"zone"`
	Phone         Field[Scalar]     `json:"phone"`
	ProductValue  Field[Scalar]     `json:"productValue"`
	Status        Field[Scalar]     `json:"status"`
	Order         Field[Scalar]     `json:"order"`
	Lat           Field[Scalar]     `json:"lat"`
	Lng           Field[Scalar]     `json:"lng"`
	DeliveredAt   Field[*time.Time] `json:"deliveredAt"`
	ReturnedAt    Field[*time.Time] `json:"returnedAt"`
}

// UnmarshalJSON decodes a partial update. A deliveredAt or returnedAt that
// is not an RFC 3339 timestamp is treated as omitted; null still clears.
func (in *PackageInput) UnmarshalJSON(b []byte) error {
	type plain PackageInput
	var aux struct {
		plain
		DeliveredAt Field[json.RawMessage] `json:"deliveredAt"`
		ReturnedAt  Field[json.RawMessage] `json:"returnedAt"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	*in = PackageInput(aux.plain)
	in.DeliveredAt = looseTime(aux.DeliveredAt)
	in.ReturnedAt = looseTime(aux.ReturnedAt)
	return nil
}

func looseTime(raw Field[json.RawMessage]) Field[*time.Time] {
	if !raw.Present {
		return Field[*time.Time]{}
	}
	if raw.Value == nil {
		return Set[*time.Time](nil)
	}

	var t time.Time
	if err := json.Unmarshal(raw.Value, &t); err != nil {
		return Field[*time.Time]{}
	}
	return Set(&t)
}
