package catalog

// Field adapters resolve target fields from loosely-shaped source records by
// trying candidate keys in a fixed priority order. The same tables drive the
// normalizer here and the detail resolver, so shape tolerance lives in data
// rather than in per-call-site switch statements.

// Adapter is an ordered list of candidate source keys for one target field.
type Adapter []string

// Adapters for the site-record fields. Order is priority order.
var (
	IDKeys   = Adapter{"id", "Id", "ID", "site_id", "siteId"}
	NameKeys = Adapter{"name", "Name", "location_name", "locationName", "site_name", "title"}

	// Coordinate resolution tries flat lowercase, then flat capitalized,
	// then a nested position-like object.
	latKeys      = Adapter{"lat", "latitude"}
	lngKeys      = Adapter{"lng", "lon", "longitude"}
	latKeysUpper = Adapter{"Lat", "Latitude"}
	lngKeysUpper = Adapter{"Lng", "Lon", "Longitude"}
	positionKeys = Adapter{"position", "Position", "coordinates", "coords"}
)

// FirstString returns the first candidate key present in m with a non-empty
// string value.
func (a Adapter) FirstString(m map[string]any) (string, bool) {
	for _, key := range a {
		if v, ok := m[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// FirstNumber returns the first candidate key present in m with a numeric
// value. JSON decoding yields float64; int values cover decoded YAML and
// hand-built test fixtures.
func (a Adapter) FirstNumber(m map[string]any) (float64, bool) {
	for _, key := range a {
		v, ok := m[key]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n, true
		case int:
			return float64(n), true
		case int64:
			return float64(n), true
		}
	}
	return 0, false
}

// FirstValue returns the first candidate key present in m, whatever the type.
func (a Adapter) FirstValue(m map[string]any) (any, bool) {
	for _, key := range a {
		if v, ok := m[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}
