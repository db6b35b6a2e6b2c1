package entity

// Table is a header row plus data rows read from a delimited file.
// Rows may be ragged; missing cells read as empty.
type Table struct {
	Header []string
	Rows   [][]string
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Column returns every cell of the named column in row order.
func (t *Table) Column(name string) ([]string, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}
	return t.ColumnAt(idx), true
}

// ColumnAt returns every cell of column idx in row order.
func (t *Table) ColumnAt(idx int) []string {
	out := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if idx < len(row) {
			out = append(out, row[idx])
		} else {
			out = append(out, "")
		}
	}
	return out
}
