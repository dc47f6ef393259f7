package analysis

import (
	"math"
	"testing"
)

func TestProfileTable(t *testing.T) {
	p := ProfileTable(sampleTable(t))
	if p.Rows != 4 || len(p.Columns) != len(header) {
		t.Fatalf("profile = %d rows, %d columns", p.Rows, len(p.Columns))
	}
	byName := map[string]ColumnProfile{}
	for _, c := range p.Columns {
		byName[c.Name] = c
	}

	injured := byName["TOTAL INJURED"]
	if injured.Kind != "numeric" || injured.Min != 0 || injured.Max != 3 {
		t.Fatalf("injured = %#v", injured)
	}
	if math.Abs(injured.Mean-1.5) > 1e-9 {
		t.Fatalf("injured mean = %f", injured.Mean)
	}
	if math.Abs(injured.Std-math.Sqrt(5.0/3.0)) > 1e-9 {
		t.Fatalf("injured std = %f", injured.Std)
	}

	borough := byName["BOROUGH"]
	if borough.Kind != "categorical" || borough.Missing != 1 || borough.NonNull != 3 || borough.Unique != 2 {
		t.Fatalf("borough = %#v", borough)
	}
	if borough.TopValues[0].Value != "BROOKLYN" || borough.TopValues[0].Count != 2 {
		t.Fatalf("borough top = %#v", borough.TopValues)
	}
}

func TestProfileEmptyColumn(t *testing.T) {
	p := ProfileTable(accidents(t, []string{"", "", "", "", "", "", "", "", ""}))
	for _, c := range p.Columns {
		if c.Kind != "empty" || c.Missing != 1 {
			t.Fatalf("%s = %#v", c.Name, c)
		}
	}
}
