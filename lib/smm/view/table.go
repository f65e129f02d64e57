package view

// Table is a row oriented table, every row has one value per column.
type Table struct {
	Columns []string
	Rows    [][]any
	// the column rows are keyed by, empty if the table has no index
	Index string
}

func (t Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of a column or -1 if it does not exist.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

func (t Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Column returns a copy of all the values of a column.
func (t Table) Column(name string) ([]any, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, true
}

func (t Table) Value(row int, column string) (any, bool) {
	idx := t.ColumnIndex(column)
	if idx < 0 || row < 0 || row >= len(t.Rows) {
		return nil, false
	}
	return t.Rows[row][idx], true
}

func (t Table) Row(i int) Record {
	record := make(Record, len(t.Columns))
	for j, c := range t.Columns {
		record[j] = Field{Key: c, Value: t.Rows[i][j]}
	}
	return record
}

// Lookup returns the first row whose index value equals key.
func (t Table) Lookup(key any) (Record, bool) {
	idx := t.ColumnIndex(t.Index)
	if idx < 0 {
		return nil, false
	}
	for i, row := range t.Rows {
		if row[idx] == key {
			return t.Row(i), true
		}
	}
	return nil, false
}

type Field struct {
	Key   string
	Value any
}

// Record is a single row kept in column order.
type Record []Field

func (r Record) Get(key string) (any, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

func (r Record) Keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.Key
	}
	return keys
}
