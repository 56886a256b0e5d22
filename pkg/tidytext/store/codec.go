package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/cognicore/tidytext/pkg/tidytext/internalerr"
	"github.com/cognicore/tidytext/pkg/tidytext/table"
)

type columnJSON struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type tableJSON struct {
	Columns []columnJSON    `json:"columns"`
	Rows    [][]table.Value `json:"rows"`
}

var kindByName = map[string]table.Kind{
	table.String.String(): table.String,
	table.Int.String():    table.Int,
	table.Float.String():  table.Float,
}

// EncodeTable serializes a table with its schema.
func EncodeTable(t *table.Table) ([]byte, error) {
	doc := tableJSON{Rows: t.Records()}
	for _, c := range t.Schema() {
		doc.Columns = append(doc.Columns, columnJSON{Name: c.Name, Kind: c.Kind.String()})
	}
	if doc.Rows == nil {
		doc.Rows = [][]table.Value{}
	}
	return json.Marshal(doc)
}

// DecodeTable is the inverse of EncodeTable.
func DecodeTable(data []byte) (*table.Table, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc tableJSON
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode table: %v: %w", err, internalerr.ErrInvalidInput)
	}
	schema := make(table.Schema, len(doc.Columns))
	for i, c := range doc.Columns {
		k, ok := kindByName[c.Kind]
		if !ok {
			return nil, fmt.Errorf("column %q has unknown kind %q: %w", c.Name, c.Kind, internalerr.ErrInvalidInput)
		}
		schema[i] = table.Column{Name: c.Name, Kind: k}
	}
	b, err := table.NewBuilder(schema)
	if err != nil {
		return nil, err
	}
	for n, r := range doc.Rows {
		if len(r) != len(schema) {
			return nil, fmt.Errorf("row %d has %d cells, want %d: %w", n, len(r), len(schema), internalerr.ErrInvalidInput)
		}
		vals := make([]table.Value, len(r))
		for i, v := range r {
			cv, err := fromJSON(schema[i], v)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", n, err)
			}
			vals[i] = cv
		}
		if err := b.Append(vals...); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

func fromJSON(c table.Column, v table.Value) (table.Value, error) {
	num, isNum := v.(json.Number)
	switch {
	case c.Kind == table.Int && isNum:
		return num.Int64()
	case c.Kind == table.Float && isNum:
		return num.Float64()
	}
	return v, nil
}
