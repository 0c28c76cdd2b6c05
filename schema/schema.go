// Package schema holds the schema value objects (spec.md §3 "Catalog").
package schema

import (
	"fmt"

	"github.com/vectorbase/vectorbase/types"
)

// Column is one entry of a Schema: a name, a type tag, and — for Varchar
// and Vector — a fixed storage size (string capacity or vector dimension).
type Column struct {
	Name   string
	Type   types.TypeID
	Size   uint32 // varchar capacity or vector dimension; 0 for fixed types
	offset uint32
}

// NewColumn builds a fixed-width column (bool, integer family, decimal, timestamp).
func NewColumn(name string, typ types.TypeID) Column {
	return Column{Name: name, Type: typ}
}

// NewVarcharColumn builds a Varchar column with the given storage capacity.
func NewVarcharColumn(name string, capacity uint32) Column {
	return Column{Name: name, Type: types.Varchar, Size: capacity}
}

// NewVectorColumn builds a fixed-dimension Vector column.
func NewVectorColumn(name string, dimension uint32) Column {
	return Column{Name: name, Type: types.Vector, Size: dimension}
}

// FixedLength returns this column's inline storage footprint (1 null byte
// plus payload, or a length-prefixed slot sized to Size for var-length types).
func (c Column) FixedLength() uint32 {
	if size, ok := c.Type.FixedSize(); ok {
		return 1 + size
	}
	switch c.Type {
	case types.Varchar:
		return 1 + 4 + c.Size
	case types.Vector:
		return 1 + 4 + c.Size*8
	default:
		return 1
	}
}

func (c Column) Offset() uint32 { return c.offset }

func (c Column) String() string {
	if c.Type == types.Varchar || c.Type == types.Vector {
		return fmt.Sprintf("%s %s(%d)", c.Name, c.Type, c.Size)
	}
	return fmt.Sprintf("%s %s", c.Name, c.Type)
}

// Schema is an ordered, cloneable sequence of columns. Schemas are value
// objects: cheap to copy, shared by reference between plans and executors,
// and compared positionally for "shape equality" (spec.md §3).
type Schema struct {
	Columns []Column
	length  uint32
}

// NewSchema computes column byte offsets and the fixed tuple length.
func NewSchema(columns []Column) *Schema {
	s := &Schema{Columns: append([]Column(nil), columns...)}
	var off uint32
	for i := range s.Columns {
		s.Columns[i].offset = off
		off += s.Columns[i].FixedLength()
	}
	s.length = off
	return s
}

func (s *Schema) ColumnCount() uint32 { return uint32(len(s.Columns)) }
func (s *Schema) Length() uint32      { return s.length }

func (s *Schema) Column(i uint32) Column { return s.Columns[i] }

// ColumnIndex returns the index of the named column, or (0, false).
func (s *Schema) ColumnIndex(name string) (uint32, bool) {
	for i, c := range s.Columns {
		if c.Name == name {
			return uint32(i), true
		}
	}
	return 0, false
}

// Project builds a new Schema containing only the given column indices,
// recomputing offsets — used for index key schemas (catalog.IndexInfo) and
// for Projection plan nodes.
func (s *Schema) Project(attrs []uint32) *Schema {
	cols := make([]Column, len(attrs))
	for i, a := range attrs {
		cols[i] = s.Columns[a]
	}
	return NewSchema(cols)
}

// ShapeEqual reports whether two schemas have the same column count and
// positionally equal types (spec.md §3's "shape-equal" relation).
func ShapeEqual(a, b *Schema) bool {
	if a.ColumnCount() != b.ColumnCount() {
		return false
	}
	for i := range a.Columns {
		if a.Columns[i].Type != b.Columns[i].Type {
			return false
		}
	}
	return true
}

// Clone returns an independent copy so callers may safely mutate offsets
// in isolation (e.g. the optimizer attaching a new output schema to a
// rewritten plan node, spec.md §4.7 rule 2).
func (s *Schema) Clone() *Schema {
	return NewSchema(s.Columns)
}
