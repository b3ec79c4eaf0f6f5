// Package model defines the core domain types for the siting simulator.
package model

// Origin tags where a site record came from.
type Origin string

const (
	// OriginCatalog marks a site from the curated catalog source.
	OriginCatalog Origin = "catalog"
	// OriginCandidate marks a prospective site from the candidate source.
	OriginCandidate Origin = "candidate"
)

// Coordinates is a WGS84 lat/lng pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SiteRecord is a canonical site produced by the catalog normalizer.
// It is immutable once normalized.
type SiteRecord struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
	Origin      Origin      `json:"origin"`
}

// EnrichedSite is a SiteRecord plus the environmental and economic detail
// produced by the resolver. Sub-scores are 0-100; a zero sub-score means
// the site is unscored. EnrichedSites are never mutated after creation;
// re-selecting a site produces a fresh one.
type EnrichedSite struct {
	SiteRecord

	Climate   int `json:"climate"`
	Renewable int `json:"renewable"`
	Grid      int `json:"grid"`
	Risk      int `json:"risk"`

	LandCost          int    `json:"land_cost"`
	ElectricityCost   string `json:"electricity_cost"`
	Connectivity      string `json:"connectivity"`
	WaterAvailability string `json:"water_availability"`
	TaxIncentives     string `json:"tax_incentives"`
	ZoneType          string `json:"zone_type"`
	Description       string `json:"description"`
}

// Scored reports whether all four sub-scores are present.
func (s *EnrichedSite) Scored() bool {
	if s == nil {
		return false
	}
	return s.Climate > 0 && s.Renewable > 0 && s.Grid > 0 && s.Risk > 0
}
