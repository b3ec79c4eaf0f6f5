package fetcher

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sitescout/sitesim/internal/catalog"
	"github.com/sitescout/sitesim/internal/model"
)

// SitesFromCSV parses a headered CSV feed into candidate site records.
func SitesFromCSV(ctx context.Context, r io.Reader) ([]model.SiteRecord, error) {
	headerCh := make(chan []string, 1)
	rowCh, errCh := StreamCSV(ctx, r, CSVOptions{
		HasHeader: true,
		HeaderCh:  headerCh,
		TrimSpace: true,
	})

	var header []string
	var payload []any
	for row := range rowCh {
		if header == nil {
			select {
			case header = <-headerCh:
			default:
				return nil, eris.New("fetcher: csv feed has no header row")
			}
		}
		payload = append(payload, rowToMap(header, row))
	}
	if err := <-errCh; err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, eris.New("fetcher: csv feed has no data rows")
	}

	return sitesFromPayload(payload)
}

// SitesFromXLSX parses the first sheet of an XLSX workbook into candidate
// site records. The first row is the header.
func SitesFromXLSX(path string) ([]model.SiteRecord, error) {
	rows, err := ReadXLSX(path, XLSXOptions{})
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, eris.Errorf("fetcher: xlsx feed %s has no data rows", path)
	}

	header := rows[0]
	payload := make([]any, 0, len(rows)-1)
	for _, row := range rows[1:] {
		payload = append(payload, rowToMap(header, row))
	}

	return sitesFromPayload(payload)
}

// SitesFromShapefile parses point features from a shapefile into candidate
// site records.
func SitesFromShapefile(path string) ([]model.SiteRecord, error) {
	features, err := ReadShapefilePoints(path)
	if err != nil {
		return nil, err
	}
	if len(features) == 0 {
		return nil, eris.Errorf("fetcher: shapefile %s has no features", path)
	}

	payload := make([]any, 0, len(features))
	for _, f := range features {
		payload = append(payload, f)
	}

	return sitesFromPayload(payload)
}

// sitesFromPayload normalizes an imported payload. Unlike the live feed
// path, an import has no fallback: a batch the normalizer cannot read is an
// error the operator should see.
func sitesFromPayload(payload []any) ([]model.SiteRecord, error) {
	records := catalog.Normalize(payload, model.OriginCandidate)
	if len(records) > 0 && records[0].Origin != model.OriginCandidate {
		return nil, eris.New("fetcher: feed is malformed, no records imported")
	}
	return records, nil
}

// rowToMap zips a header and a row into a payload map, parsing numeric
// cells so coordinates survive the trip through the normalizer.
func rowToMap(header, row []string) map[string]any {
	m := make(map[string]any, len(header))
	for i, key := range header {
		if i >= len(row) {
			break
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}

		cell := row[i]
		if n, err := strconv.ParseFloat(cell, 64); err == nil && cell != "" {
			m[key] = n
		} else {
			m[key] = cell
		}
	}
	return m
}
