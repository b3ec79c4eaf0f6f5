// Package catalog reconciles heterogeneous external site records into the
// canonical SiteRecord form.
//
// The normalizer tolerates the shapes the external sources have actually
// produced: single objects instead of lists, inconsistent field casing, and
// coordinates either flat or nested under a position-like object. Any
// failure it cannot absorb per-field falls back to the built-in catalog for
// the whole batch; partial-batch corruption is deliberately not supported,
// so one unreadable record discards its siblings rather than silently
// thinning the list.
package catalog

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/sitescout/sitesim/internal/model"
)

// Normalize turns a decoded external payload of unknown shape into a
// non-empty ordered list of SiteRecords. It never fails: malformed or empty
// input yields the fallback catalog.
func Normalize(payload any, origin model.Origin) []model.SiteRecord {
	if payload == nil {
		zap.L().Debug("catalog: nil payload, using fallback")
		return Fallback()
	}

	var elements []any
	switch p := payload.(type) {
	case []any:
		elements = p
	case map[string]any:
		// Coerce a bare object into a single-element list.
		elements = []any{p}
	default:
		zap.L().Warn("catalog: unrecognized payload shape, using fallback",
			zap.String("type", fmt.Sprintf("%T", payload)),
		)
		return Fallback()
	}

	if len(elements) == 0 {
		zap.L().Debug("catalog: empty payload, using fallback")
		return Fallback()
	}

	records := make([]model.SiteRecord, 0, len(elements))
	seen := make(map[string]bool, len(elements))
	for i, el := range elements {
		m, ok := el.(map[string]any)
		if !ok {
			zap.L().Warn("catalog: non-object record, using fallback for batch",
				zap.Int("index", i),
			)
			return Fallback()
		}

		rec := model.SiteRecord{
			ID:          resolveID(m, i, origin),
			Name:        resolveName(m, i),
			Coordinates: resolveCoordinates(m),
			Origin:      origin,
		}
		if seen[rec.ID] {
			// Duplicate explicit ids break the uniqueness invariant; treat
			// the batch as malformed.
			zap.L().Warn("catalog: duplicate site id, using fallback for batch",
				zap.String("id", rec.ID),
			)
			return Fallback()
		}
		seen[rec.ID] = true
		records = append(records, rec)
	}

	return records
}

// resolveID takes an explicit id when present, else the positional index.
// Candidate sites get a prefixed positional id so they never collide with
// catalog ids.
func resolveID(m map[string]any, index int, origin model.Origin) string {
	if s, ok := IDKeys.FirstString(m); ok {
		return s
	}
	if n, ok := IDKeys.FirstNumber(m); ok {
		return fmt.Sprintf("%d", int64(n))
	}
	if origin == model.OriginCandidate {
		return fmt.Sprintf("candidate-%d", index+1)
	}
	return fmt.Sprintf("%d", index+1)
}

func resolveName(m map[string]any, index int) string {
	if s, ok := NameKeys.FirstString(m); ok {
		return s
	}
	return fmt.Sprintf("Location %d", index+1)
}

// resolveCoordinates tries flat lowercase fields, flat capitalized fields,
// then a nested position object. Unresolvable coordinates default to (0,0)
// rather than failing the batch.
func resolveCoordinates(m map[string]any) model.Coordinates {
	if lat, ok := latKeys.FirstNumber(m); ok {
		if lng, ok := lngKeys.FirstNumber(m); ok {
			return model.Coordinates{Lat: lat, Lng: lng}
		}
	}
	if lat, ok := latKeysUpper.FirstNumber(m); ok {
		if lng, ok := lngKeysUpper.FirstNumber(m); ok {
			return model.Coordinates{Lat: lat, Lng: lng}
		}
	}
	if v, ok := positionKeys.FirstValue(m); ok {
		if pos, ok := v.(map[string]any); ok {
			lat, latOK := latKeys.FirstNumber(pos)
			lng, lngOK := lngKeys.FirstNumber(pos)
			if latOK && lngOK {
				return model.Coordinates{Lat: lat, Lng: lng}
			}
		}
	}
	return model.Coordinates{}
}
