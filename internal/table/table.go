package table

import (
	"encoding/json"
	"io"
	"os"
	"sort"

	"github.com/rotisserie/eris"
)

// Column is one named column of cells.
type Column struct {
	Name  string
	Cells []Value
}

// Table is an ordered set of named columns sharing a row count. Stages
// operate copy-on-transform: each stage clones its input and replaces it
// rather than mutating the table an earlier stage still holds.
type Table struct {
	cols  []Column
	index map[string]int
	rows  int
}

// New returns an empty table.
func New() *Table {
	return &Table{index: make(map[string]int)}
}

// NumRows returns the row count shared by all columns.
func (t *Table) NumRows() int { return t.rows }

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.cols) }

// Names returns column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Has reports whether a column exists.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Col returns the cells of a named column.
func (t *Table) Col(name string) ([]Value, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i].Cells, true
}

// Cell returns the value at (row, column name), null if the column is absent.
func (t *Table) Cell(row int, name string) Value {
	i, ok := t.index[name]
	if !ok {
		return Null()
	}
	return t.cols[i].Cells[row]
}

// AddColumn appends a column. Cells shorter than the row count are padded
// with null; a longer column grows the table, null-padding the others.
func (t *Table) AddColumn(name string, cells []Value) error {
	if _, ok := t.index[name]; ok {
		return eris.Errorf("table: duplicate column %q", name)
	}
	if len(cells) > t.rows {
		t.grow(len(cells))
	}
	for len(cells) < t.rows {
		cells = append(cells, Null())
	}
	t.index[name] = len(t.cols)
	t.cols = append(t.cols, Column{Name: name, Cells: cells})
	return nil
}

// SetColumn replaces the cells of an existing column. The replacement must
// match the row count.
func (t *Table) SetColumn(name string, cells []Value) error {
	i, ok := t.index[name]
	if !ok {
		return eris.Errorf("table: unknown column %q", name)
	}
	if len(cells) != t.rows {
		return eris.Errorf("table: column %q length %d != %d rows", name, len(cells), t.rows)
	}
	t.cols[i].Cells = cells
	return nil
}

func (t *Table) grow(rows int) {
	for i := range t.cols {
		for len(t.cols[i].Cells) < rows {
			t.cols[i].Cells = append(t.cols[i].Cells, Null())
		}
	}
	t.rows = rows
}

// AppendRow adds one row from a name→value mapping. Missing existing
// columns get null; unseen names create new null-padded columns, appended
// in sorted order so column layout is deterministic.
func (t *Table) AppendRow(row map[string]Value) {
	var added []string
	for name := range row {
		if _, ok := t.index[name]; !ok {
			added = append(added, name)
		}
	}
	sort.Strings(added)
	for _, name := range added {
		t.index[name] = len(t.cols)
		t.cols = append(t.cols, Column{Name: name, Cells: nulls(t.rows)})
	}
	for i := range t.cols {
		v, ok := row[t.cols[i].Name]
		if !ok {
			v = Null()
		}
		t.cols[i].Cells = append(t.cols[i].Cells, v)
	}
	t.rows++
}

// Row materializes one row as a name→value mapping.
func (t *Table) Row(i int) map[string]Value {
	row := make(map[string]Value, len(t.cols))
	for _, c := range t.cols {
		row[c.Name] = c.Cells[i]
	}
	return row
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out := &Table{
		cols:  make([]Column, len(t.cols)),
		index: make(map[string]int, len(t.index)),
		rows:  t.rows,
	}
	for i, c := range t.cols {
		cells := make([]Value, len(c.Cells))
		copy(cells, c.Cells)
		out.cols[i] = Column{Name: c.Name, Cells: cells}
		out.index[c.Name] = i
	}
	return out
}

// ColumnKind infers a column's semantic type, ignoring nulls: all-number →
// KindNumber, all-temporal → KindTime, anything mixed → KindString. An
// all-null or absent column reports KindNull.
func (t *Table) ColumnKind(name string) Kind {
	cells, ok := t.Col(name)
	if !ok {
		return KindNull
	}
	kind := KindNull
	for _, v := range cells {
		if v.IsNull() {
			continue
		}
		switch {
		case kind == KindNull:
			kind = v.Kind()
		case kind != v.Kind():
			return KindString
		}
	}
	return kind
}

// NumericColumns returns the names of all number-typed columns, in order.
func (t *Table) NumericColumns() []string {
	var names []string
	for _, c := range t.cols {
		if t.ColumnKind(c.Name) == KindNumber {
			names = append(names, c.Name)
		}
	}
	return names
}

// Floats returns the non-null numeric values of a column, in row order.
func (t *Table) Floats(name string) []float64 {
	cells, ok := t.Col(name)
	if !ok {
		return nil
	}
	var out []float64
	for _, v := range cells {
		if f, ok := v.Float(); ok {
			out = append(out, f)
		}
	}
	return out
}

// MissingCells counts null cells across the whole table.
func (t *Table) MissingCells() int {
	n := 0
	for _, c := range t.cols {
		for _, v := range c.Cells {
			if v.IsNull() {
				n++
			}
		}
	}
	return n
}

func nulls(n int) []Value {
	cells := make([]Value, n)
	for i := range cells {
		cells[i] = Null()
	}
	return cells
}

type persisted struct {
	Rows    int               `json:"rows"`
	Columns []persistedColumn `json:"columns"`
}

type persistedColumn struct {
	Name   string  `json:"name"`
	Values []Value `json:"values"`
}

// WriteJSON persists the table in columnar form.
func (t *Table) WriteJSON(w io.Writer) error {
	p := persisted{Rows: t.rows, Columns: make([]persistedColumn, len(t.cols))}
	for i, c := range t.cols {
		p.Columns[i] = persistedColumn{Name: c.Name, Values: c.Cells}
	}
	enc := json.NewEncoder(w)
	if err := enc.Encode(p); err != nil {
		return eris.Wrap(err, "table: encode columnar json")
	}
	return nil
}

// WriteFile persists the table to a columnar JSON file, replacing any
// previous version.
func (t *Table) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "table: create %s", path)
	}
	defer f.Close()
	return t.WriteJSON(f)
}

// ReadJSON loads a table persisted by WriteJSON.
func ReadJSON(r io.Reader) (*Table, error) {
	var p persisted
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, eris.Wrap(err, "table: decode columnar json")
	}
	t := New()
	for _, c := range p.Columns {
		if err := t.AddColumn(c.Name, c.Values); err != nil {
			return nil, err
		}
	}
	if t.rows < p.Rows {
		t.grow(p.Rows)
	}
	return t, nil
}
