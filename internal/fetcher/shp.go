package fetcher

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
)

// ReadShapefilePoints reads point geometries from a shapefile and returns
// one attribute map per feature, with "lat" and "lng" filled from the
// geometry. Polygon features are reduced to their bounding-box centroid.
func ReadShapefilePoints(path string) ([]map[string]any, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "shp: open file")
	}
	defer r.Close() //nolint:errcheck

	fields := r.Fields()

	var features []map[string]any
	for r.Next() {
		row, shape := r.Shape()

		feature := make(map[string]any, len(fields)+2)
		for i, field := range fields {
			name := strings.ToLower(strings.TrimRight(field.String(), "\x00"))
			feature[name] = r.ReadAttribute(row, i)
		}

		switch s := shape.(type) {
		case *shp.Point:
			feature["lng"] = s.X
			feature["lat"] = s.Y
		case *shp.PointZ:
			feature["lng"] = s.X
			feature["lat"] = s.Y
		default:
			box := shape.BBox()
			feature["lng"] = (box.MinX + box.MaxX) / 2
			feature["lat"] = (box.MinY + box.MaxY) / 2
		}

		features = append(features, feature)
	}

	if err := r.Err(); err != nil {
		return nil, eris.Wrap(err, "shp: read features")
	}
	return features, nil
}
