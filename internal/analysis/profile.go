package analysis

import (
	"math"
	"sort"

	"github.com/KaramelBytes/trafficdash/internal/table"
)

// Profile is a per-column overview of a loaded table.
type Profile struct {
	Name    string          `json:"name"`
	Rows    int             `json:"rows"`
	Columns []ColumnProfile `json:"columns"`
}

// ColumnProfile captures inferred kind and statistics per column.
type ColumnProfile struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"` // numeric|categorical|empty
	NonNull int    `json:"non_null"`
	Missing int    `json:"missing"`
	Unique  int    `json:"unique"`
	// Numeric stats
	Min  float64 `json:"min,omitempty"`
	Max  float64 `json:"max,omitempty"`
	Mean float64 `json:"mean,omitempty"`
	Std  float64 `json:"std,omitempty"`
	// Categorical top values
	TopValues []CategoryCount `json:"top_values,omitempty"`
}

type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

const maxTopValues = 8

// ProfileTable summarizes every column of t in one pass per column.
func ProfileTable(t *table.Table) *Profile {
	p := &Profile{Name: t.Name, Rows: t.Len()}
	for _, name := range t.Columns() {
		cells, _ := t.Column(name)
		p.Columns = append(p.Columns, profileColumn(name, cells))
	}
	return p
}

func profileColumn(name string, cells []table.Cell) ColumnProfile {
	s := ColumnProfile{Name: name}
	cats := make(map[string]int)
	// Welford
	var n int
	var mean, m2 float64
	lo, hi := math.Inf(1), math.Inf(-1)
	numeric := true
	for _, c := range cells {
		if c.Null {
			s.Missing++
			continue
		}
		s.NonNull++
		cats[c.Value]++
		if !numeric {
			continue
		}
		x, ok := c.Float()
		if !ok {
			numeric = false
			continue
		}
		n++
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
		delta := x - mean
		mean += delta / float64(n)
		m2 += delta * (x - mean)
	}
	s.Unique = len(cats)
	switch {
	case s.NonNull == 0:
		s.Kind = "empty"
	case numeric:
		s.Kind = "numeric"
		s.Min, s.Max, s.Mean = lo, hi, mean
		if n > 1 {
			s.Std = math.Sqrt(m2 / float64(n-1))
		}
	default:
		s.Kind = "categorical"
		tops := make([]CategoryCount, 0, len(cats))
		for k, v := range cats {
			tops = append(tops, CategoryCount{Value: k, Count: v})
		}
		sort.Slice(tops, func(i, j int) bool {
			if tops[i].Count == tops[j].Count {
				return tops[i].Value < tops[j].Value
			}
			return tops[i].Count > tops[j].Count
		})
		if len(tops) > maxTopValues {
			tops = tops[:maxTopValues]
		}
		s.TopValues = tops
	}
	return s
}
