package domain

import (
	"math"
	"strconv"
	"strings"
)

// Immutable geographic coordinates (latitude, longitude).
type Coordinates struct {
	Lat float64
	Lng float64
}

// Valid reports whether both values are finite and inside their ranges.
func (c Coordinates) Valid() bool {
	return ValidLatLng(c.Lat, c.Lng)
}

// ValidLatLng reports whether lat is within [-90,90] and lng within [-180,180].
func ValidLatLng(lat, lng float64) bool {
	if !isFinite(lat) || !isFinite(lng) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// ParseCoord parses a coordinate token, accepting "," as decimal separator.
// Returns NaN for empty or unparseable input.
func ParseCoord(s string) float64 {
	return parseDecimal(s)
}

// ParseCoordPair returns the pair only if both tokens parse into a valid
// coordinate; a partial or out-of-range pair yields ok=false.
func ParseCoordPair(lat, lng string) (Coordinates, bool) {
	c := Coordinates{Lat: ParseCoord(lat), Lng: ParseCoord(lng)}
	if !c.Valid() {
		return Coordinates{}, false
	}
	return c, true
}

func parseDecimal(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}

	// Only the first comma is treated as the separator ("3,4698").
	s = strings.Replace(s, ",", ".", 1)

	n, err := strconv.ParseFloat(s, 64)
	if err != nil || !isFinite(n) {
		return math.NaN()
	}
	return n
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
