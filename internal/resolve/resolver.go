// Package resolve enriches a canonical site into a scored, fully-described
// record, pulling from the external detail source where the site origin
// allows and synthesizing everything the source does not supply.
package resolve

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sitescout/sitesim/internal/catalog"
	"github.com/sitescout/sitesim/internal/model"
)

// Detail-field adapters, in priority order. These extend the shared site
// adapters in internal/catalog with the detail source's key spellings.
var (
	landPriceKeys    = catalog.Adapter{"land_price", "landPrice", "land_cost", "landCost"}
	electricityKeys  = catalog.Adapter{"electricity", "electricity_cost", "electricityCost"}
	connectivityKeys = catalog.Adapter{"connectivity", "network_connectivity", "networkConnectivity"}
	waterKeys        = catalog.Adapter{"water_availability", "waterAvailability", "water"}
	taxKeys          = catalog.Adapter{"tax_incentives", "taxIncentives", "incentives"}
	zoneKeys         = catalog.Adapter{"zone_type", "zoneType", "zoning"}
	descriptionKeys  = catalog.Adapter{"notes", "description", "summary"}

	climateKeys   = catalog.Adapter{"climate", "climate_score", "climateScore"}
	renewableKeys = catalog.Adapter{"renewable", "renewable_score", "renewableScore"}
	gridKeys      = catalog.Adapter{"grid", "grid_score", "gridScore"}
	riskKeys      = catalog.Adapter{"risk", "risk_score", "riskScore"}
)

// Literal defaults for detail fields the source does not supply.
const (
	defaultElectricity  = "Unknown"
	defaultConnectivity = "Standard"
	defaultWater        = "Adequate"
	defaultTax          = "None"
	defaultZone         = "Industrial"
)

// Source is the external detail boundary, keyed by coordinates.
type Source interface {
	PropertyDetails(ctx context.Context, lat, lng float64) (map[string]any, error)
}

// Resolver builds EnrichedSites from canonical site records.
type Resolver struct {
	src   Source
	synth *Synthesizer
}

// New creates a Resolver over the given detail source and synthesizer.
func New(src Source, synth *Synthesizer) *Resolver {
	return &Resolver{src: src, synth: synth}
}

// Resolve produces a fresh EnrichedSite for the given record. It never
// fails: a broken detail query yields a fully-synthesized site with
// degraded=true so the caller can surface a non-fatal notification.
// Catalog sites never query the detail source.
func (r *Resolver) Resolve(ctx context.Context, site model.SiteRecord) (enriched model.EnrichedSite, degraded bool) {
	if site.Origin != model.OriginCandidate {
		return r.synthesize(site, nil), false
	}

	details, err := r.src.PropertyDetails(ctx, site.Coordinates.Lat, site.Coordinates.Lng)
	if err != nil {
		zap.L().Warn("resolve: detail query failed, synthesizing",
			zap.String("site", site.ID),
			zap.Error(err),
		)
		return r.synthesize(site, nil), true
	}

	return r.synthesize(site, details), false
}

// synthesize fills every detail field, taking source values where present
// and documented defaults or random draws otherwise. A nil details map means
// no source was consulted (catalog sites, degraded candidates).
func (r *Resolver) synthesize(site model.SiteRecord, details map[string]any) model.EnrichedSite {
	e := model.EnrichedSite{SiteRecord: site}

	if details != nil {
		if name, ok := catalog.NameKeys.FirstString(details); ok {
			e.Name = name
		}
	}

	e.Climate = r.subScore(details, climateKeys, r.synth.Climate)
	e.Renewable = r.subScore(details, renewableKeys, r.synth.Renewable)
	e.Grid = r.subScore(details, gridKeys, r.synth.Grid)
	e.Risk = r.subScore(details, riskKeys, r.synth.Risk)

	e.LandCost = r.landCost(site, details)

	e.ElectricityCost = stringOr(details, electricityKeys, defaultElectricity)
	e.Connectivity = stringOr(details, connectivityKeys, defaultConnectivity)
	e.WaterAvailability = stringOr(details, waterKeys, defaultWater)
	e.TaxIncentives = stringOr(details, taxKeys, defaultTax)
	e.ZoneType = stringOr(details, zoneKeys, defaultZone)

	if desc, ok := descriptionKeys.FirstString(details); ok {
		e.Description = desc
	} else {
		e.Description = describe(e)
	}

	return e
}

// subScore takes a source-supplied score when present and in range,
// otherwise draws a synthetic one.
func (r *Resolver) subScore(details map[string]any, keys catalog.Adapter, draw func() int) int {
	if n, ok := keys.FirstNumber(details); ok {
		score := int(n)
		if score >= 0 && score <= 100 {
			return score
		}
	}
	return draw()
}

// landCost resolves the land cost per origin: candidate prices arrive as
// currency text and fall back to the documented default on a parse miss;
// catalog sites have no price source and draw a synthetic cost.
func (r *Resolver) landCost(site model.SiteRecord, details map[string]any) int {
	if site.Origin == model.OriginCandidate {
		text, _ := landPriceKeys.FirstString(details)
		cost, ok := ParseLandCost(text)
		if !ok && text != "" {
			zap.L().Debug("resolve: land price unparseable, using default",
				zap.String("site", site.ID),
				zap.String("text", text),
			)
		}
		if n, numOk := landPriceKeys.FirstNumber(details); numOk && text == "" {
			// Some source variants send the price as a bare number.
			return int(n)
		}
		return cost
	}
	return r.synth.CatalogLandCost()
}

func stringOr(details map[string]any, keys catalog.Adapter, fallback string) string {
	if s, ok := keys.FirstString(details); ok {
		return s
	}
	return fallback
}

func describe(e model.EnrichedSite) string {
	if e.Origin == model.OriginCandidate {
		return fmt.Sprintf("%s is a potential location for a new data center.", e.Name)
	}
	return fmt.Sprintf("Data center located in %s with excellent connectivity to major networks.", e.Name)
}
