package catalog

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sitescout/sitesim/internal/model"
)

// Source provides the two initial payloads the loader consumes. Both queries
// are independent and may fail independently.
type Source interface {
	Catalog(ctx context.Context) (any, error)
	Candidates(ctx context.Context) (any, error)
}

// LoadResult is the outcome of the initial catalog load.
type LoadResult struct {
	Catalog    []model.SiteRecord
	Candidates []model.SiteRecord
	// Advisories are non-fatal load problems worth surfacing to the user.
	Advisories []string
}

// Sites returns catalog and candidate sites as one ordered list,
// catalog first.
func (r LoadResult) Sites() []model.SiteRecord {
	out := make([]model.SiteRecord, 0, len(r.Catalog)+len(r.Candidates))
	out = append(out, r.Catalog...)
	out = append(out, r.Candidates...)
	return out
}

// Load fetches and normalizes both initial site lists concurrently. It never
// fails: a broken catalog source yields the fallback catalog, a broken
// candidate source yields no candidates, and each produces an advisory.
func Load(ctx context.Context, src Source) LoadResult {
	var (
		catalogPayload   any
		candidatePayload any
		catalogErr       error
		candidateErr     error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		catalogPayload, catalogErr = src.Catalog(gctx)
		return nil
	})
	g.Go(func() error {
		candidatePayload, candidateErr = src.Candidates(gctx)
		return nil
	})
	_ = g.Wait() // goroutines record their own errors

	result := LoadResult{}

	if catalogErr != nil {
		zap.L().Warn("catalog: load failed, using fallback", zap.Error(catalogErr))
		result.Catalog = Fallback()
		result.Advisories = append(result.Advisories, "catalog source unavailable, using built-in sites")
	} else {
		result.Catalog = Normalize(catalogPayload, model.OriginCatalog)
	}

	if candidateErr != nil {
		zap.L().Warn("catalog: candidate load failed", zap.Error(candidateErr))
		result.Advisories = append(result.Advisories, "candidate source unavailable")
	} else if candidatePayload != nil {
		result.Candidates = normalizeCandidates(candidatePayload)
	}

	return result
}

// normalizeCandidates runs the normalizer for the candidate origin but drops
// the fallback substitution: a broken candidate list means no candidates,
// not five phantom ones.
func normalizeCandidates(payload any) []model.SiteRecord {
	records := Normalize(payload, model.OriginCandidate)
	if len(records) > 0 && records[0].Origin == model.OriginCatalog {
		// Normalize fell back; candidates have no fallback.
		return nil
	}
	return records
}
