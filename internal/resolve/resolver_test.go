package resolve

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitescout/sitesim/internal/model"
)

type mockSource struct {
	details map[string]any
	err     error
	calls   int
}

func (m *mockSource) PropertyDetails(ctx context.Context, lat, lng float64) (map[string]any, error) {
	m.calls++
	return m.details, m.err
}

func catalogSite() model.SiteRecord {
	return model.SiteRecord{
		ID:          "3",
		Name:        "Iceland",
		Coordinates: model.Coordinates{Lat: 64.1, Lng: -21.9},
		Origin:      model.OriginCatalog,
	}
}

func candidateSite() model.SiteRecord {
	return model.SiteRecord{
		ID:          "candidate-1",
		Name:        "Location 1",
		Coordinates: model.Coordinates{Lat: 33.4, Lng: -112.0},
		Origin:      model.OriginCandidate,
	}
}

func TestResolve_CatalogSiteNeverQueriesSource(t *testing.T) {
	src := &mockSource{err: eris.New("should not be called")}
	r := New(src, NewSynthesizer(1))

	enriched, degraded := r.Resolve(context.Background(), catalogSite())

	assert.Zero(t, src.calls)
	assert.False(t, degraded)
	assert.True(t, enriched.Scored())
	assert.Contains(t, enriched.Description, "Iceland")
}

func TestResolve_SynthesizedRanges(t *testing.T) {
	r := New(&mockSource{}, NewSynthesizer(42))

	// Many draws to exercise the ranges.
	for range 200 {
		enriched, _ := r.Resolve(context.Background(), catalogSite())

		assert.GreaterOrEqual(t, enriched.Climate, 60)
		assert.Less(t, enriched.Climate, 90)
		assert.GreaterOrEqual(t, enriched.Renewable, 40)
		assert.Less(t, enriched.Renewable, 80)
		assert.GreaterOrEqual(t, enriched.Grid, 40)
		assert.Less(t, enriched.Grid, 80)
		assert.GreaterOrEqual(t, enriched.Risk, 70)
		assert.Less(t, enriched.Risk, 90)
		assert.GreaterOrEqual(t, enriched.LandCost, 2_000_000)
		assert.Less(t, enriched.LandCost, 5_000_000)
	}
}

func TestResolve_SeededSynthesisIsDeterministic(t *testing.T) {
	a, _ := New(&mockSource{}, NewSynthesizer(7)).Resolve(context.Background(), catalogSite())
	b, _ := New(&mockSource{}, NewSynthesizer(7)).Resolve(context.Background(), catalogSite())

	assert.Equal(t, a, b)
}

func TestResolve_CandidateWithFullDetails(t *testing.T) {
	src := &mockSource{details: map[string]any{
		"location_name":      "Phoenix Mesa Parcel",
		"land_price":         "Listed at $3,500,000 total",
		"electricity":        "$0.07/kWh",
		"connectivity":       "Dark fiber on site",
		"water_availability": "Limited",
		"tax_incentives":     "10-year abatement",
		"zone_type":          "Heavy Industrial",
		"notes":              "Flat parcel near substation.",
	}}
	r := New(src, NewSynthesizer(1))

	enriched, degraded := r.Resolve(context.Background(), candidateSite())

	require.Equal(t, 1, src.calls)
	assert.False(t, degraded)
	assert.Equal(t, "Phoenix Mesa Parcel", enriched.Name)
	assert.Equal(t, 3_500_000, enriched.LandCost)
	assert.Equal(t, "$0.07/kWh", enriched.ElectricityCost)
	assert.Equal(t, "Dark fiber on site", enriched.Connectivity)
	assert.Equal(t, "Limited", enriched.WaterAvailability)
	assert.Equal(t, "10-year abatement", enriched.TaxIncentives)
	assert.Equal(t, "Heavy Industrial", enriched.ZoneType)
	assert.Equal(t, "Flat parcel near substation.", enriched.Description)
	assert.True(t, enriched.Scored())
}

func TestResolve_AlternateKeySpellings(t *testing.T) {
	src := &mockSource{details: map[string]any{
		"landPrice":       "$900,000",
		"electricityCost": "$0.11/kWh",
		"zoneType":        "Mixed",
	}}
	r := New(src, NewSynthesizer(1))

	enriched, _ := r.Resolve(context.Background(), candidateSite())

	assert.Equal(t, 900_000, enriched.LandCost)
	assert.Equal(t, "$0.11/kWh", enriched.ElectricityCost)
	assert.Equal(t, "Mixed", enriched.ZoneType)
}

func TestResolve_CandidateDefaults(t *testing.T) {
	src := &mockSource{details: map[string]any{}}
	r := New(src, NewSynthesizer(1))

	enriched, degraded := r.Resolve(context.Background(), candidateSite())

	assert.False(t, degraded)
	assert.Equal(t, DefaultLandCost, enriched.LandCost)
	assert.Equal(t, "Unknown", enriched.ElectricityCost)
	assert.Equal(t, "Standard", enriched.Connectivity)
	assert.Equal(t, "Adequate", enriched.WaterAvailability)
	assert.Equal(t, "None", enriched.TaxIncentives)
	assert.Equal(t, "Industrial", enriched.ZoneType)
	assert.Contains(t, enriched.Description, "Location 1")
}

func TestResolve_SourceSuppliedSubScores(t *testing.T) {
	src := &mockSource{details: map[string]any{
		"climate":   88.0,
		"renewable": 55.0,
		"grid":      61.0,
		"risk":      79.0,
	}}
	r := New(src, NewSynthesizer(1))

	enriched, _ := r.Resolve(context.Background(), candidateSite())

	assert.Equal(t, 88, enriched.Climate)
	assert.Equal(t, 55, enriched.Renewable)
	assert.Equal(t, 61, enriched.Grid)
	assert.Equal(t, 79, enriched.Risk)
}

func TestResolve_OutOfRangeSubScoreSynthesized(t *testing.T) {
	src := &mockSource{details: map[string]any{"climate": 400.0}}
	r := New(src, NewSynthesizer(1))

	enriched, _ := r.Resolve(context.Background(), candidateSite())

	assert.GreaterOrEqual(t, enriched.Climate, 60)
	assert.Less(t, enriched.Climate, 90)
}

func TestResolve_DegradedOnSourceFailure(t *testing.T) {
	src := &mockSource{err: eris.New("transport down")}
	r := New(src, NewSynthesizer(1))

	enriched, degraded := r.Resolve(context.Background(), candidateSite())

	assert.True(t, degraded)
	assert.True(t, enriched.Scored())
	assert.Equal(t, DefaultLandCost, enriched.LandCost)
	assert.Equal(t, "Unknown", enriched.ElectricityCost)
	assert.Equal(t, "Location 1", enriched.Name)
}

func TestResolve_NumericLandPrice(t *testing.T) {
	src := &mockSource{details: map[string]any{"land_cost": 1_250_000.0}}
	r := New(src, NewSynthesizer(1))

	enriched, _ := r.Resolve(context.Background(), candidateSite())

	assert.Equal(t, 1_250_000, enriched.LandCost)
}

func TestParseLandCost(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		cost   int
		parsed bool
	}{
		{"plain amount", "$3,500,000", 3_500_000, true},
		{"embedded in sentence", "asking $2,100,000 firm", 2_100_000, true},
		{"no separators", "$900000", 900_000, true},
		{"no dollar sign", "3,500,000", DefaultLandCost, false},
		{"empty", "", DefaultLandCost, false},
		{"not a price", "call for pricing", DefaultLandCost, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost, ok := ParseLandCost(tt.text)
			assert.Equal(t, tt.cost, cost)
			assert.Equal(t, tt.parsed, ok)
		})
	}
}
