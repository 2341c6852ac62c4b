package domain

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a Package.
type Status string

const (
	StatusPending   Status = "pending"
	StatusDelivered Status = "delivered"
	StatusReturned  Status = "returned"
)

// DefaultRecipientName is used when a package is created without a recipient.
const DefaultRecipientName = "Sin nombre"

var statusSynonyms = map[string]Status{
	"pending":   StatusPending,
	"pendiente": StatusPending,
	"delivered": StatusDelivered,
	"entregado": StatusDelivered,
	"entregada": StatusDelivered,
	"returned":  StatusReturned,
	"devuelto":  StatusReturned,
	"devuelta":  StatusReturned,
}

// ParseStatus maps a free-form token (case-insensitive, Spanish or English)
// into the closed status set.
func ParseStatus(token string) (Status, bool) {
	s, ok := statusSynonyms[strings.ToLower(strings.TrimSpace(token))]
	return s, ok
}

// Represents a single tracked delivery unit.
// Lat and Lng are either both set (and valid) or both nil.
type Package struct {
	ID            string     `json:"id" bson:"id"`
	RecipientName string     `json:"recipientName" bson:"recipientName"`
	Address       string     `json:"address" bson:"address"`
	Zone          string     `json:"zone" bson:"zone"`
	Phone         string     `json:"phone" bson:"phone"`
	ProductValue  float64    `json:"productValue" bson:"productValue"`
	Status        Status     `json:"status" bson:"status"`
	Order         int        `json:"order" bson:"order"`
	Lat           *float64   `json:"lat" bson:"lat"`
	Lng           *float64   `json:"lng" bson:"lng"`
	DeliveredAt   *time.Time `json:"deliveredAt" bson:"deliveredAt"`
	ReturnedAt    *time.Time `json:"returnedAt" bson:"returnedAt"`
	CreatedAt     time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// HasCoords reports whether the package carries a usable coordinate pair.
func (p *Package) HasCoords() bool {
	if p.Lat == nil || p.Lng == nil {
		return false
	}
	return ValidLatLng(*p.Lat, *p.Lng)
}

// SetCoords overwrites both coordinates at once.
func (p *Package) SetCoords(c Coordinates) {
	lat, lng := c.Lat, c.Lng
	p.Lat = &lat
	p.Lng = &lng
}

// ClearCoords drops both coordinates.
func (p *Package) ClearCoords() {
	p.Lat = nil
	p.Lng = nil
}

// Now returns the current time in the precision every store round-trips.
func Now() time.Time {
	return Timestamp(time.Now())
}

// Timestamp normalizes t to UTC with millisecond precision.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// Index returns the position of the package with the given id, or -1.
func Index(list []Package, id string) int {
	id = strings.TrimSpace(id)
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
