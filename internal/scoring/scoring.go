// Package scoring computes site suitability and build economics. All
// functions are pure; both selection-time display and build-time commitment
// call the same code so the two always agree.
package scoring

import "github.com/sitescout/sitesim/internal/model"

// OverallScore is the arithmetic mean of the four sub-scores. An unscored
// site (any sub-score absent) rates 0 rather than erroring.
func OverallScore(site *model.EnrichedSite) float64 {
	if !site.Scored() {
		return 0
	}
	return float64(site.Climate+site.Renewable+site.Grid+site.Risk) / 4
}

// EnvironmentalImpact is the facility's effective daily impact at the given
// site. Higher site suitability reduces the facility's nominal impact.
func EnvironmentalImpact(facility model.FacilitySpec, site *model.EnrichedSite) float64 {
	return facility.CarbonImpact * (100 - OverallScore(site)) / 100
}

// PointScore is the score awarded for building the facility at the site.
func PointScore(facility model.FacilitySpec, site *model.EnrichedSite) float64 {
	return OverallScore(site) * float64(facility.EnergyEfficiency) / 10
}
