// Package forecast projects global climate trajectories from the session's
// installed facilities. The model is deliberately coarse: a linear warming
// baseline, a linear fossil-reserve decay, and a per-facility warming
// contribution derived from facility class, land cost, and latitude.
package forecast

import (
	"math"
	"strings"

	"github.com/sitescout/sitesim/internal/model"
)

const (
	// StartYear and EndYear bound the projection horizon.
	StartYear = 2025
	EndYear   = 2100

	// survivabilityFloor is the threshold below which a scenario is
	// considered collapsed.
	survivabilityFloor = 10.0

	baselineStartTemp = 1.2 // °C above pre-industrial at StartYear
	baselineEndTemp   = 3.7 // °C at EndYear

	fossilStartFraction = 1.0
	fossilEndFraction   = 0.2
)

// Point is one year of the projection.
type Point struct {
	Year                 int     `json:"year"`
	BaselineTemperature  float64 `json:"baselineTemperature"`
	FacilityContribution float64 `json:"facilityContribution"`
	TotalTemperature     float64 `json:"totalTemperature"`
	FossilFuelReserves   float64 `json:"fossilFuelReserves"`
	Survivability        int     `json:"survivability"`
}

// Projection compares the built-out scenario against a counterfactual with no
// facilities at all.
type Projection struct {
	Points            []Point `json:"points"`
	Counterfactual    []Point `json:"counterfactual"`
	YearsToCollapse   int     `json:"yearsToCollapse"`
	YearsBoughtBack   int     `json:"yearsBoughtBack"`
	TotalContribution float64 `json:"totalContribution"`
}

// Run projects StartYear..EndYear for the given installations.
func Run(installations []model.Installation) Projection {
	contribution := totalContribution(installations)

	proj := Projection{TotalContribution: contribution}
	var collapseWith, collapseWithout int

	for year := StartYear; year <= EndYear; year++ {
		baseline := baselineTemperature(year)
		reserves := fossilFuelFraction(year)

		withTemp := baseline + contribution
		withSurv := survivability(withTemp, reserves)
		proj.Points = append(proj.Points, Point{
			Year:                 year,
			BaselineTemperature:  baseline,
			FacilityContribution: contribution,
			TotalTemperature:     withTemp,
			FossilFuelReserves:   reserves,
			Survivability:        int(math.Round(withSurv)),
		})

		withoutSurv := survivability(baseline, reserves)
		proj.Counterfactual = append(proj.Counterfactual, Point{
			Year:                year,
			BaselineTemperature: baseline,
			TotalTemperature:    baseline,
			FossilFuelReserves:  reserves,
			Survivability:       int(math.Round(withoutSurv)),
		})

		if collapseWith == 0 && withSurv <= survivabilityFloor {
			collapseWith = year - StartYear
		}
		if collapseWithout == 0 && withoutSurv <= survivabilityFloor {
			collapseWithout = year - StartYear
		}
	}

	if collapseWith == 0 {
		collapseWith = EndYear - StartYear
	}
	if collapseWithout == 0 {
		collapseWithout = EndYear - StartYear
	}

	proj.YearsToCollapse = collapseWith
	proj.YearsBoughtBack = collapseWithout - collapseWith
	return proj
}

// totalContribution sums the per-facility warming fractions.
func totalContribution(installations []model.Installation) float64 {
	var total float64
	for _, install := range installations {
		total += facilityEmission(install)
	}
	return total
}

// facilityEmission estimates one installation's °C contribution. Facility
// class sets the base, large land parcels add, and the host region's energy
// mix nudges it either way.
func facilityEmission(install model.Installation) float64 {
	base := classBase(install.Facility.Name, install.Site.Description)

	if install.Site.LandCost >= 2_500_000 {
		base += 0.003
	}

	switch regionMix(install.Site.Coordinates.Lat) {
	case "coal":
		base += 0.002
	case "renewable":
		base -= 0.001
	}

	return base
}

func classBase(name, description string) float64 {
	txt := strings.ToLower(name + " " + description)
	switch {
	case strings.Contains(txt, "hpc"):
		return 0.01
	case strings.Contains(txt, "colo"):
		return 0.007
	}
	return 0.005
}

// regionMix is a naive latitude band: equatorial grids lean on coal, high
// latitudes on renewables.
func regionMix(lat float64) string {
	switch {
	case lat < 30:
		return "coal"
	case lat > 45:
		return "renewable"
	}
	return "average"
}

// baselineTemperature interpolates linearly from 1.2°C at StartYear to 3.7°C
// at EndYear.
func baselineTemperature(year int) float64 {
	frac := float64(year-StartYear) / float64(EndYear-StartYear)
	return baselineStartTemp + frac*(baselineEndTemp-baselineStartTemp)
}

// fossilFuelFraction decays linearly from 1.0 at StartYear to 0.2 at EndYear.
func fossilFuelFraction(year int) float64 {
	frac := float64(year-StartYear) / float64(EndYear-StartYear)
	return fossilStartFraction - frac*(fossilStartFraction-fossilEndFraction)
}

func survivability(temp, reserves float64) float64 {
	surv := 100 - temp*20 - (1-reserves)*40
	if surv < 0 {
		surv = 0
	}
	return surv
}
