package cluster

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/trafficdash/internal/table"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func clusterTable(t *testing.T, rows ...[]string) *table.Table {
	t.Helper()
	tbl, err := table.FromRecords("output.csv", append([][]string{{"BOROUGH", "TOTAL KILLED", "TOTAL INJURED", "prediction"}}, rows...))
	require.NoError(t, err)
	return tbl
}

func TestPointsOnePerRow(t *testing.T) {
	tbl := clusterTable(t,
		[]string{"BRONX", "0", "1", "0"},
		[]string{"QUEENS", "1", "4", "1"},
		[]string{"", "", "2", ""},
	)
	points, err := Points(tbl)
	require.NoError(t, err)
	require.Len(t, points, tbl.Len())

	assert.Equal(t, Point{Killed: 1, Injured: 4, Label: "1"}, points[1])
	assert.True(t, math.IsNaN(points[2].Killed))
	assert.Equal(t, "", points[2].Label)
}

func TestPointsEmptyTable(t *testing.T) {
	points, err := Points(clusterTable(t))
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestPointsMissingColumn(t *testing.T) {
	tbl, err := table.FromRecords("x.csv", [][]string{{"TOTAL KILLED", "TOTAL INJURED"}, {"0", "1"}})
	require.NoError(t, err)

	_, err = Points(tbl)
	var se *table.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, ViewName, se.View)
	assert.Equal(t, []string{ColumnPrediction}, se.Columns)
}

func TestScatterRendersPNGPerLabel(t *testing.T) {
	points := []Point{
		{Killed: 0, Injured: 1, Label: "10"},
		{Killed: 1, Injured: 2, Label: "2"},
		{Killed: 0, Injured: 3, Label: "2"},
		{Killed: math.NaN(), Injured: 3, Label: "2"},
		{Killed: 0, Injured: 0, Label: ""},
	}
	ch, err := Scatter(points, DefaultChartOptions())
	require.NoError(t, err)

	assert.Equal(t, "Clustering", ch.Title)
	assert.Equal(t, []string{"2", "10"}, ch.Labels)
	assert.Equal(t, 3, ch.Plotted)
	assert.Equal(t, 2, ch.Omitted)
	assert.True(t, bytes.HasPrefix(ch.PNG, pngMagic), "expected PNG output")
}

func TestScatterIsDeterministic(t *testing.T) {
	points := []Point{{Killed: 0, Injured: 1, Label: "0"}, {Killed: 2, Injured: 5, Label: "1"}}
	a, err := Scatter(points, DefaultChartOptions())
	require.NoError(t, err)
	b, err := Scatter(points, DefaultChartOptions())
	require.NoError(t, err)
	assert.Equal(t, a.PNG, b.PNG)
}

func TestScatterRejectsBadSize(t *testing.T) {
	opt := DefaultChartOptions()
	opt.WidthIn = 0
	_, err := Scatter(nil, opt)
	assert.Error(t, err)
}
