// Package table implements an ordered, schema-checked tidy table: one row per
// observation, one column per variable. Tables are immutable values; every
// operation returns a new table and leaves its inputs untouched.
package table

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cognicore/tidytext/pkg/tidytext/internalerr"
)

// Kind is the semantic type of a column.
type Kind int

const (
	String Kind = iota
	Int
	Float
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Numeric reports whether the kind holds numbers.
func (k Kind) Numeric() bool {
	return k == Int || k == Float
}

// Column declares a named, typed column.
type Column struct {
	Name string
	Kind Kind
}

// Str, I64 and F64 are shorthands for column declarations.
func Str(name string) Column { return Column{Name: name, Kind: String} }
func I64(name string) Column { return Column{Name: name, Kind: Int} }
func F64(name string) Column { return Column{Name: name, Kind: Float} }

// Schema is the ordered list of columns of a table.
type Schema []Column

// Index returns the position of the named column, or -1.
func (s Schema) Index(name string) int {
	for i, c := range s {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Lookup returns the named column.
func (s Schema) Lookup(name string) (Column, bool) {
	if i := s.Index(name); i >= 0 {
		return s[i], true
	}
	return Column{}, false
}

// Names returns the column names in order.
func (s Schema) Names() []string {
	out := make([]string, len(s))
	for i, c := range s {
		out[i] = c.Name
	}
	return out
}

// Equal reports whether both schemas declare the same columns in order.
func (s Schema) Equal(o Schema) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

func (s Schema) validate() error {
	seen := make(map[string]struct{}, len(s))
	for _, c := range s {
		if c.Name == "" {
			return fmt.Errorf("empty column name: %w", internalerr.ErrSchemaMismatch)
		}
		if c.Kind < String || c.Kind > Float {
			return fmt.Errorf("column %q has unknown kind %d: %w", c.Name, int(c.Kind), internalerr.ErrSchemaMismatch)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("column %q declared twice: %w", c.Name, internalerr.ErrSchemaMismatch)
		}
		seen[c.Name] = struct{}{}
	}
	return nil
}

// Value is a single cell: string, int64 or float64 depending on the column kind.
type Value = any

// Table is an ordered sequence of rows under a fixed schema.
type Table struct {
	schema Schema
	rows   [][]Value
}

// New validates rows against the schema and returns a table owning copies of them.
// Int cells accept any Go integer; Float cells accept floats and integers.
func New(schema Schema, rows [][]Value) (*Table, error) {
	b, err := NewBuilder(schema)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := b.Append(r...); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

// MustNew is New for rows known to fit the schema, such as literals or rows
// built from validated data; it panics on error.
func MustNew(schema Schema, rows [][]Value) *Table {
	t, err := New(schema, rows)
	if err != nil {
		panic(err)
	}
	return t
}

// Empty returns a table with the schema and no rows.
func Empty(schema Schema) (*Table, error) {
	if err := schema.validate(); err != nil {
		return nil, err
	}
	return &Table{schema: copySchema(schema)}, nil
}

// Builder accumulates validated rows. It is not safe for concurrent use.
type Builder struct {
	schema Schema
	rows   [][]Value
}

// NewBuilder starts a table with the given schema.
func NewBuilder(schema Schema) (*Builder, error) {
	if err := schema.validate(); err != nil {
		return nil, err
	}
	return &Builder{schema: copySchema(schema)}, nil
}

// Append adds one row; values must follow the schema order.
func (b *Builder) Append(values ...Value) error {
	if len(values) != len(b.schema) {
		return fmt.Errorf("row has %d values, schema has %d columns: %w", len(values), len(b.schema), internalerr.ErrInvalidInput)
	}
	row := make([]Value, len(values))
	for i, v := range values {
		nv, err := coerce(b.schema[i], v)
		if err != nil {
			return err
		}
		row[i] = nv
	}
	b.rows = append(b.rows, row)
	return nil
}

// appendTrusted adds a row that is already known to match the schema.
func (b *Builder) appendTrusted(row []Value) {
	b.rows = append(b.rows, row)
}

// Len returns the number of rows appended so far.
func (b *Builder) Len() int { return len(b.rows) }

// Build returns the table. The builder must not be used afterwards.
func (b *Builder) Build() *Table {
	t := &Table{schema: b.schema, rows: b.rows}
	b.rows = nil
	return t
}

func coerce(c Column, v Value) (Value, error) {
	switch c.Kind {
	case String:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case Int:
		switch n := v.(type) {
		case int64:
			return n, nil
		case int:
			return int64(n), nil
		case int32:
			return int64(n), nil
		case uint32:
			return int64(n), nil
		}
	case Float:
		switch n := v.(type) {
		case float64:
			return n, nil
		case float32:
			return float64(n), nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		}
	}
	return nil, fmt.Errorf("column %q (%s) cannot hold %T: %w", c.Name, c.Kind, v, internalerr.ErrInvalidInput)
}

func copySchema(s Schema) Schema {
	out := make(Schema, len(s))
	copy(out, s)
	return out
}

// Schema returns a copy of the table schema.
func (t *Table) Schema() Schema { return copySchema(t.schema) }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Has reports whether the table has the named column.
func (t *Table) Has(col string) bool { return t.schema.Index(col) >= 0 }

// Row returns the i-th row.
func (t *Table) Row(i int) Row { return Row{schema: t.schema, vals: t.rows[i]} }

// Each calls fn for every row in order.
func (t *Table) Each(fn func(i int, r Row)) {
	for i, vals := range t.rows {
		fn(i, Row{schema: t.schema, vals: vals})
	}
}

// Column returns the values of one column in row order.
func (t *Table) Column(name string) ([]Value, error) {
	idx, err := t.colIndex(name)
	if err != nil {
		return nil, err
	}
	out := make([]Value, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[idx]
	}
	return out, nil
}

// Strings returns a String column as a slice.
func (t *Table) Strings(name string) ([]string, error) {
	idx, err := t.colKind(name, String)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[idx].(string)
	}
	return out, nil
}

// Floats returns a numeric column as float64 values.
func (t *Table) Floats(name string) ([]float64, error) {
	idx, err := t.colNumeric(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(t.rows))
	for i, r := range t.rows {
		out[i] = toFloat(r[idx])
	}
	return out, nil
}

// Equal reports whether both tables have the same schema and the same rows
// in the same order.
func (t *Table) Equal(o *Table) bool {
	if !t.schema.Equal(o.schema) || len(t.rows) != len(o.rows) {
		return false
	}
	for i := range t.rows {
		for j := range t.rows[i] {
			if t.rows[i][j] != o.rows[i][j] {
				return false
			}
		}
	}
	return true
}

// Records returns the rows as fresh slices, e.g. for encoding.
func (t *Table) Records() [][]Value {
	out := make([][]Value, len(t.rows))
	for i, r := range t.rows {
		out[i] = append([]Value(nil), r...)
	}
	return out
}

// String renders a small tab-separated dump, mostly for debugging.
func (t *Table) String() string {
	var sb strings.Builder
	sb.WriteString(strings.Join(t.schema.Names(), "\t"))
	for _, r := range t.rows {
		sb.WriteByte('\n')
		for j, v := range r {
			if j > 0 {
				sb.WriteByte('\t')
			}
			sb.WriteString(Format(v))
		}
	}
	return sb.String()
}

func (t *Table) colIndex(name string) (int, error) {
	idx := t.schema.Index(name)
	if idx < 0 {
		return -1, fmt.Errorf("column %q not found (have %v): %w", name, t.schema.Names(), internalerr.ErrSchemaMismatch)
	}
	return idx, nil
}

func (t *Table) colIndexes(names []string) ([]int, error) {
	out := make([]int, len(names))
	for i, n := range names {
		idx, err := t.colIndex(n)
		if err != nil {
			return nil, err
		}
		out[i] = idx
	}
	return out, nil
}

func (t *Table) colKind(name string, kind Kind) (int, error) {
	idx, err := t.colIndex(name)
	if err != nil {
		return -1, err
	}
	if t.schema[idx].Kind != kind {
		return -1, fmt.Errorf("column %q is %s, want %s: %w", name, t.schema[idx].Kind, kind, internalerr.ErrSchemaMismatch)
	}
	return idx, nil
}

func (t *Table) colNumeric(name string) (int, error) {
	idx, err := t.colIndex(name)
	if err != nil {
		return -1, err
	}
	if !t.schema[idx].Kind.Numeric() {
		return -1, fmt.Errorf("column %q is %s, want numeric: %w", name, t.schema[idx].Kind, internalerr.ErrSchemaMismatch)
	}
	return idx, nil
}

// Row is a read-only view of one table row.
type Row struct {
	schema Schema
	vals   []Value
}

// Value returns the cell of the named column, or nil if there is no such column.
func (r Row) Value(col string) Value {
	if i := r.schema.Index(col); i >= 0 {
		return r.vals[i]
	}
	return nil
}

// Str returns a String cell; other kinds are formatted.
func (r Row) Str(col string) string {
	v := r.Value(col)
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		return ""
	}
	return Format(v)
}

// Int returns an Int cell; Float cells are truncated.
func (r Row) Int(col string) int64 {
	switch n := r.Value(col).(type) {
	case int64:
		return n
	case float64:
		return int64(n)
	}
	return 0
}

// Float returns a numeric cell as float64.
func (r Row) Float(col string) float64 {
	return toFloat(r.Value(col))
}

// Values returns a copy of the row cells in schema order.
func (r Row) Values() []Value {
	return append([]Value(nil), r.vals...)
}

// Format renders a cell the way it appears in dumps and composite keys.
func Format(v Value) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		if x == 0 {
			x = 0 // -0 and 0 share one key
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}

func toFloat(v Value) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	}
	return 0
}

// compare orders two cells of the same kind.
func compare(a, b Value) int {
	switch x := a.(type) {
	case string:
		return strings.Compare(x, b.(string))
	case int64:
		y := b.(int64)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case float64:
		y := b.(float64)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	return 0
}

// CompositeKey encodes cells into a map key. Every cell is length prefixed,
// so distinct tuples never share a key whatever bytes the cells hold.
func CompositeKey(vals ...Value) string {
	var sb strings.Builder
	for _, v := range vals {
		f := Format(v)
		sb.WriteString(strconv.Itoa(len(f)))
		sb.WriteByte(':')
		sb.WriteString(f)
	}
	return sb.String()
}

func keyOf(row []Value, idxs []int) string {
	if len(idxs) == 1 {
		return Format(row[idxs[0]])
	}
	vals := make([]Value, len(idxs))
	for i, idx := range idxs {
		vals[i] = row[idx]
	}
	return CompositeKey(vals...)
}

// describeKey renders key cells for error messages.
func describeKey(row []Value, idxs []int) string {
	parts := make([]string, len(idxs))
	for i, idx := range idxs {
		parts[i] = strconv.Quote(Format(row[idx]))
	}
	return strings.Join(parts, ", ")
}
