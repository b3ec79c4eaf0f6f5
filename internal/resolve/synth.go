package resolve

import "math/rand/v2"

// Synthesis ranges for missing sub-scores and catalog land cost. Half-open
// [lo, hi) to match integer truncation of a scaled uniform draw.
const (
	climateLo, climateHi     = 60, 90
	renewableLo, renewableHi = 40, 80
	gridLo, gridHi           = 40, 80
	riskLo, riskHi           = 70, 90

	landCostLo, landCostHi = 2_000_000, 5_000_000
)

// Synthesizer draws the randomized metrics used when a source supplies no
// value. The generator is injected so tests can pin exact draws; production
// callers use NewSynthesizer with a time-derived seed.
type Synthesizer struct {
	rng *rand.Rand
}

// NewSynthesizer creates a Synthesizer seeded from the given value.
func NewSynthesizer(seed uint64) *Synthesizer {
	return &Synthesizer{rng: rand.New(rand.NewPCG(seed, seed))}
}

// NewSynthesizerFrom wraps an existing generator.
func NewSynthesizerFrom(rng *rand.Rand) *Synthesizer {
	return &Synthesizer{rng: rng}
}

func (s *Synthesizer) intIn(lo, hi int) int {
	return lo + s.rng.IntN(hi-lo)
}

// Climate draws a climate suitability sub-score.
func (s *Synthesizer) Climate() int { return s.intIn(climateLo, climateHi) }

// Renewable draws a renewable potential sub-score.
func (s *Synthesizer) Renewable() int { return s.intIn(renewableLo, renewableHi) }

// Grid draws a grid cleanliness sub-score.
func (s *Synthesizer) Grid() int { return s.intIn(gridLo, gridHi) }

// Risk draws a disaster safety sub-score.
func (s *Synthesizer) Risk() int { return s.intIn(riskLo, riskHi) }

// CatalogLandCost draws a land cost for a catalog site, which has no
// external price source.
func (s *Synthesizer) CatalogLandCost() int { return s.intIn(landCostLo, landCostHi) }
