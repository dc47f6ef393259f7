package analysis

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/trafficdash/internal/table"
)

// Status describes whether a view carries data.
type Status int

const (
	StatusReady Status = iota
	StatusNotImplemented
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusNotImplemented:
		return "not_implemented"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// MarshalText renders the status name in JSON output.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Key is a grouping value. Null keys form their own group.
type Key struct {
	Value string `json:"value"`
	Null  bool   `json:"null,omitempty"`
}

func (k Key) String() string {
	if k.Null {
		return "NaN"
	}
	return k.Value
}

// Group is one partition of a view.
type Group struct {
	Key  Key `json:"key"`
	Size int `json:"size"`
	// Counts holds non-null counts per column, aligned with GroupedView.Columns.
	Counts []int `json:"counts"`
}

// GroupedView is the result of partitioning rows by one column and counting each partition.
type GroupedView struct {
	Name    string   `json:"name"`
	Column  string   `json:"column"`
	Status  Status   `json:"status"`
	Columns []string `json:"columns"`
	Groups  []Group  `json:"groups"`
	Err     error    `json:"-"`
}

// Total returns the sum of group sizes.
func (v *GroupedView) Total() int {
	n := 0
	for _, g := range v.Groups {
		n += g.Size
	}
	return n
}

// Lookup returns the group with the given key value, ignoring the null group.
func (v *GroupedView) Lookup(value string) (Group, bool) {
	for _, g := range v.Groups {
		if !g.Key.Null && g.Key.Value == value {
			return g, true
		}
	}
	return Group{}, false
}

// Options controls grouping and view assembly.
type Options struct {
	// SortByCount orders groups by size (largest first) instead of by key.
	SortByCount bool
	// SkipMissing marks views with absent columns as skipped instead of failing Aggregate.
	SkipMissing bool
}

// DefaultOptions keeps key ordering and skips views whose column is absent.
func DefaultOptions() Options {
	return Options{SkipMissing: true}
}

// GroupBy partitions t by column and counts rows per group. Every other column
// gets a non-null count in the same pass. Numeric keys are grouped by value and
// shown in canonical form. Groups are ordered by descending key
// unless opt.SortByCount is set.
func GroupBy(t *table.Table, name, column string, opt Options) (*GroupedView, error) {
	if err := t.Require(name, column); err != nil {
		return nil, err
	}
	keys, _ := t.Column(column)

	others := []string{}
	var otherCells [][]table.Cell
	for _, c := range t.Columns() {
		if c == column {
			continue
		}
		cells, _ := t.Column(c)
		others = append(others, c)
		otherCells = append(otherCells, cells)
	}

	numeric := numericKeys(keys)
	index := make(map[Key]int)
	groups := []Group{}
	for i, c := range keys {
		k := Key{Value: c.Value, Null: c.Null}
		if numeric && !c.Null {
			f, _ := parseKey(c.Value)
			k.Value = strconv.FormatFloat(f, 'f', -1, 64)
		}
		gi, seen := index[k]
		if !seen {
			gi = len(groups)
			index[k] = gi
			groups = append(groups, Group{Key: k, Counts: make([]int, len(others))})
		}
		g := &groups[gi]
		g.Size++
		for j, col := range otherCells {
			if !col[i].Null {
				g.Counts[j]++
			}
		}
	}
	sortGroups(groups, opt.SortByCount)
	return &GroupedView{Name: name, Column: column, Status: StatusReady, Columns: others, Groups: groups}, nil
}

// sortGroups orders by key descending, comparing numerically when every non-null
// key is a number. The null group always sorts last.
func sortGroups(groups []Group, byCount bool) {
	nums := make([]float64, len(groups))
	numeric := true
	for i, g := range groups {
		if g.Key.Null {
			continue
		}
		f, ok := parseKey(g.Key.Value)
		if !ok {
			numeric = false
			break
		}
		nums[i] = f
	}
	type entry struct {
		g Group
		n float64
	}
	entries := make([]entry, len(groups))
	for i := range groups {
		entries[i] = entry{g: groups[i], n: nums[i]}
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if byCount && a.g.Size != b.g.Size {
			return a.g.Size > b.g.Size
		}
		if a.g.Key.Null != b.g.Key.Null {
			return b.g.Key.Null
		}
		if numeric && a.n != b.n {
			return a.n > b.n
		}
		return a.g.Key.Value > b.g.Key.Value
	})
	for i := range entries {
		groups[i] = entries[i].g
	}
}

// numericKeys reports whether every non-null key parses as a finite number.
// Such keys are grouped by value, so "3", "03" and "3.0" share one group.
func numericKeys(cells []table.Cell) bool {
	for _, c := range cells {
		if c.Null {
			continue
		}
		if _, ok := parseKey(c.Value); !ok {
			return false
		}
	}
	return true
}

func parseKey(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
