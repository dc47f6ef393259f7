// Package cluster turns the precomputed prediction labels of the accident
// table into scatter points and renders them as a chart.
package cluster

import (
	"github.com/KaramelBytes/trafficdash/internal/table"
)

const (
	ColumnKilled     = "TOTAL KILLED"
	ColumnInjured    = "TOTAL INJURED"
	ColumnPrediction = "prediction"

	// ViewName identifies the clustering view in errors and logs.
	ViewName = "clustering"
)

// Point is one accident record projected onto the clustering axes.
// Counts that are null or not numeric are NaN; a null label is empty.
type Point struct {
	Killed  float64
	Injured float64
	Label   string
}

// Points derives one point per row, in row order, with no filtering.
func Points(t *table.Table) ([]Point, error) {
	if err := t.Require(ViewName, ColumnKilled, ColumnInjured, ColumnPrediction); err != nil {
		return nil, err
	}
	killed, _ := t.Column(ColumnKilled)
	injured, _ := t.Column(ColumnInjured)
	labels, _ := t.Column(ColumnPrediction)

	out := make([]Point, t.Len())
	for i := range out {
		k, _ := killed[i].Float()
		j, _ := injured[i].Float()
		out[i] = Point{Killed: k, Injured: j, Label: labels[i].Value}
	}
	return out, nil
}
