package fetcher

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectRows(t *testing.T, rowCh <-chan []string, errCh <-chan error) [][]string {
	t.Helper()
	var rows [][]string
	for row := range rowCh {
		rows = append(rows, row)
	}
	require.NoError(t, <-errCh)
	return rows
}

func TestStreamCSV(t *testing.T) {
	input := "name,lat,lng\nQuincy,47.23,-119.85\n"
	headerCh := make(chan []string, 1)

	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{
		HasHeader: true,
		HeaderCh:  headerCh,
	})

	rows := collectRows(t, rowCh, errCh)
	assert.Equal(t, []string{"name", "lat", "lng"}, <-headerCh)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"Quincy", "47.23", "-119.85"}, rows[0])
}

func TestStreamCSV_DelimiterAndComments(t *testing.T) {
	input := "# parcel export\nQuincy;47.23\nPrineville;44.30\n"

	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{
		Delimiter: ';',
		Comment:   '#',
	})

	rows := collectRows(t, rowCh, errCh)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Prineville", "44.30"}, rows[1])
}

func TestStreamCSV_TrimSpace(t *testing.T) {
	input := "Quincy , 47.23\n"

	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{TrimSpace: true})

	rows := collectRows(t, rowCh, errCh)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"Quincy", "47.23"}, rows[0])
}

func TestStreamCSV_MalformedQuote(t *testing.T) {
	input := "a,\"unterminated\nb,2\n"

	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{})
	for range rowCh {
	}
	assert.Error(t, <-errCh)
}
