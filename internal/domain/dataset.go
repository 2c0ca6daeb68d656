package domain

// Dataset is a set of named numeric columns of equal length.
type Dataset struct {
	// Names preserves column order as loaded (header order for CSV,
	// sorted for JSON objects).
	Names []string

	Columns map[string][]float64
}

// Len returns the number of rows. All columns share the same length.
func (d Dataset) Len() int {
	for _, col := range d.Columns {
		return len(col)
	}
	return 0
}

// Column returns the named column and whether it exists.
func (d Dataset) Column(name string) ([]float64, bool) {
	if d.Columns == nil {
		return nil, false
	}
	col, ok := d.Columns[name]
	return col, ok
}

// HasColumn reports whether the named column exists.
func (d Dataset) HasColumn(name string) bool {
	_, ok := d.Column(name)
	return ok
}

// DatasetSource describes where a dataset comes from. Exactly one field is
// normally set; precedence is Inline, then Raw, then File.
type DatasetSource struct {
	// Inline holds columns given directly (e.g. from a task file).
	Inline map[string][]float64

	// Raw is an undecoded payload string: inline JSON first, and if that
	// fails to parse, a CSV file path.
	Raw string

	// File is a CSV file path with a header row.
	File string
}

// IsZero reports whether no source was provided at all.
func (s DatasetSource) IsZero() bool {
	return len(s.Inline) == 0 && s.Raw == "" && s.File == ""
}
