package catalog

import "github.com/sitescout/sitesim/internal/model"

// fallbackSites is the built-in catalog used whenever the external catalog
// source is absent, empty, or malformed. The session stays fully interactive
// on this list alone.
var fallbackSites = []model.SiteRecord{
	{ID: "1", Name: "Northern Virginia", Coordinates: model.Coordinates{Lat: 38.8, Lng: -77.2}, Origin: model.OriginCatalog},
	{ID: "2", Name: "Oregon", Coordinates: model.Coordinates{Lat: 45.5, Lng: -122.5}, Origin: model.OriginCatalog},
	{ID: "3", Name: "Iceland", Coordinates: model.Coordinates{Lat: 64.1, Lng: -21.9}, Origin: model.OriginCatalog},
	{ID: "4", Name: "Singapore", Coordinates: model.Coordinates{Lat: 1.3, Lng: 103.8}, Origin: model.OriginCatalog},
	{ID: "5", Name: "Northern Sweden", Coordinates: model.Coordinates{Lat: 65.6, Lng: 22.1}, Origin: model.OriginCatalog},
}

// Fallback returns a copy of the built-in catalog.
func Fallback() []model.SiteRecord {
	out := make([]model.SiteRecord, len(fallbackSites))
	copy(out, fallbackSites)
	return out
}
