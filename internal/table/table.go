package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

// NullTokens are cell values treated as missing, in addition to the empty string.
var NullTokens = []string{"", "NA", "NaN", "<nil>"}

// Options controls how an input file is read.
type Options struct {
	// Delimiter for CSV. If 0, picks '\t' for .tsv files and ',' otherwise.
	Delimiter rune
	// SheetName selects a workbook sheet for .xlsx input (case-insensitive).
	SheetName string
	// SheetIndex is the 1-based sheet used when SheetName is empty.
	SheetIndex int
}

// Cell is a single nullable value. Values are kept as read; no type inference is applied.
type Cell struct {
	Value string
	Null  bool
}

// Table is an owned, read-only dataset loaded from disk.
type Table struct {
	Name    string
	columns []string
	index   map[string]int
	cells   [][]Cell // column-major
	rows    int
}

// Load reads the file at path into a Table, choosing the reader by extension.
func Load(path string, opt Options) (*Table, error) {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return loadXLSX(path, opt)
	}
	return loadCSV(path, opt)
}

// FromRecords builds a Table from a header row followed by data rows.
func FromRecords(name string, records [][]string) (*Table, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, &LoadError{Path: name, Op: "parse", Err: ErrNoHeader}
	}
	header := make([]string, len(records[0]))
	copy(header, records[0])
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	ncol := len(header)

	data := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		// Normalize length
		row := make([]string, ncol)
		copy(row, rec)
		data = append(data, row)
	}

	t := &Table{Name: name, index: make(map[string]int, ncol)}
	if len(data) == 0 {
		t.columns = header
		t.cells = make([][]Cell, ncol)
		for i, c := range header {
			if _, dup := t.index[c]; !dup {
				t.index[c] = i
			}
			t.cells[i] = []Cell{}
		}
		return t, nil
	}

	df := dataframe.LoadRecords(
		append([][]string{header}, data...),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(NullTokens),
	)
	if df.Err != nil {
		return nil, &LoadError{Path: name, Op: "parse", Err: df.Err}
	}
	// gota renames blank and duplicate headers; columns keep the file's names by position.
	names := df.Names()
	if len(names) != ncol {
		return nil, &LoadError{Path: name, Op: "parse", Err: fmt.Errorf("loaded %d columns, header has %d", len(names), ncol)}
	}
	t.columns = header
	t.rows = df.Nrow()
	t.cells = make([][]Cell, ncol)
	for i, c := range header {
		s := df.Col(names[i])
		if s.Err != nil {
			return nil, &LoadError{Path: name, Op: "parse", Err: s.Err}
		}
		vals := s.Records()
		nan := s.IsNaN()
		col := make([]Cell, len(vals))
		for j, v := range vals {
			if nan[j] {
				col[j] = Cell{Null: true}
				continue
			}
			col[j] = Cell{Value: v}
		}
		t.cells[i] = col
		if _, dup := t.index[c]; !dup {
			t.index[c] = i
		}
	}
	return t, nil
}

func loadCSV(path string, opt Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.Comma = opt.Delimiter
	if r.Comma == 0 {
		r.Comma = sniffDelimiter(path)
	}
	records, err := r.ReadAll()
	if err != nil {
		return nil, &LoadError{Path: path, Op: "read", Err: err}
	}
	t, err := FromRecords(filepath.Base(path), records)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
		}
		return nil, err
	}
	return t, nil
}

func loadXLSX(path string, opt Options) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	sheet := ""
	if opt.SheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, opt.SheetName) {
				sheet = s
				break
			}
		}
		if sheet == "" {
			return nil, &LoadError{Path: path, Op: "select sheet",
				Err: fmt.Errorf("sheet %q not found; available sheets: %s", opt.SheetName, strings.Join(sheets, ", "))}
		}
	} else {
		idx := opt.SheetIndex
		if idx <= 0 {
			idx = 1
		}
		if idx > len(sheets) {
			return nil, &LoadError{Path: path, Op: "select sheet",
				Err: fmt.Errorf("sheet index %d out of range (workbook has %d)", idx, len(sheets))}
		}
		sheet = sheets[idx-1]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &LoadError{Path: path, Op: "read", Err: err}
	}
	t, err := FromRecords(filepath.Base(path), rows)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
		}
		return nil, err
	}
	return t, nil
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

// Columns returns the column names in file order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Len returns the number of data rows.
func (t *Table) Len() int { return t.rows }

// Has reports whether the named column exists. Names are matched exactly.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the cells of the named column in row order. A duplicated name
// resolves to its first occurrence. The returned slice must not be modified.
func (t *Table) Column(name string) ([]Cell, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cells[i], true
}

// Require returns a SchemaError listing the columns absent from the table, or nil.
func (t *Table) Require(view string, names ...string) error {
	var missing []string
	for _, n := range names {
		if !t.Has(n) {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{View: view, Columns: missing}
	}
	return nil
}

// Float parses the cell as a finite number. Null, unparsable, and infinite cells
// yield NaN and false.
func (c Cell) Float() (float64, bool) {
	if c.Null {
		return math.NaN(), false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(c.Value), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return math.NaN(), false
	}
	return f, true
}
