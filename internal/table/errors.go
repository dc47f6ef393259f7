package table

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoHeader is returned when the input has no header row.
var ErrNoHeader = errors.New("missing header row")

// LoadError indicates the input could not be opened, read, or parsed.
type LoadError struct {
	Path string
	Op   string
	Err  error
}

func (e *LoadError) Error() string {
	if e == nil {
		return "load failed"
	}
	if e.Path != "" {
		return fmt.Sprintf("load %s: %s: %v", e.Path, e.Op, e.Err)
	}
	return fmt.Sprintf("load: %s: %v", e.Op, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SchemaError indicates a column required by a view is absent from an otherwise loaded table.
type SchemaError struct {
	View    string
	Columns []string
}

func (e *SchemaError) Error() string {
	quoted := make([]string, len(e.Columns))
	for i, c := range e.Columns {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	return fmt.Sprintf("%s: missing column %s", e.View, strings.Join(quoted, ", "))
}
