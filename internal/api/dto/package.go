package dto

import (
	"package-tracking-service/internal/domain"
	"package-tracking-service/internal/services"
)

type StatusRequest struct {
	Status string `json:"status"`
}

// CoordsRequest accepts numbers or strings ("3,4698") for both values.
type CoordsRequest struct {
	Lat domain.Scalar `json:"lat"`
	Lng domain.Scalar `json:"lng"`
}

type GeocodeBatchRequest struct {
	Limit   *int `json:"limit"`
	Force   bool `json:"force"`
	DelayMs *int `json:"delayMs"`
}

type DeletePackageResponse struct {
	OK      bool           `json:"ok"`
	Removed domain.Package `json:"removed"`
}

type DeleteAllResponse struct {
	OK      bool `json:"ok"`
	Removed int  `json:"removed"`
}

type GeocodeBatchResponse struct {
	OK bool `json:"ok"`
	services.EnrichResult
}

type GeocodeAddressResponse struct {
	OK bool `json:"ok"`
	services.AddressLookup
}
