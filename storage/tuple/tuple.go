// Package tuple implements the byte-serialized row (spec.md §3 "Tuple").
package tuple

import (
	"github.com/vectorbase/vectorbase/schema"
	"github.com/vectorbase/vectorbase/storage/page"
	"github.com/vectorbase/vectorbase/types"
)

// Tuple is an immutable, schema-serialized row. It optionally carries the
// RID it was read from; tuples constructed in memory (Values, Projection
// output) have no RID.
type Tuple struct {
	data   []byte
	rid    page.RID
	hasRID bool
}

// New serializes values against schema into a new Tuple.
func New(values []types.Value, schema *schema.Schema) *Tuple {
	types.Assert(uint32(len(values)) == schema.ColumnCount(), "tuple.New: value count %d != column count %d", len(values), schema.ColumnCount())
	var buf []byte
	for i, v := range values {
		col := schema.Column(uint32(i))
		buf = v.SerializeAs(buf, col.Type, col.Size)
	}
	return &Tuple{data: buf}
}

// FromBytes wraps raw bytes read back from a table page.
func FromBytes(data []byte, rid page.RID) *Tuple {
	return &Tuple{data: data, rid: rid, hasRID: true}
}

func (t *Tuple) Bytes() []byte { return t.data }
func (t *Tuple) Size() uint32  { return uint32(len(t.data)) }

func (t *Tuple) RID() (page.RID, bool) { return t.rid, t.hasRID }
func (t *Tuple) SetRID(rid page.RID) {
	t.rid = rid
	t.hasRID = true
}

// GetValue decodes the colIndex-th column from the tuple given its schema.
// Columns before colIndex must be decoded (not skipped by FixedLength) to
// find the right offset: Serialize writes Varchar/Vector payloads at their
// actual length, not padded out to the column's declared capacity.
func (t *Tuple) GetValue(schema *schema.Schema, colIndex uint32) types.Value {
	off := uint32(0)
	for i := uint32(0); i < colIndex; i++ {
		col := schema.Column(i)
		_, n := types.Deserialize(t.data[off:], col.Type, col.Size)
		off += n
	}
	col := schema.Column(colIndex)
	v, _ := types.Deserialize(t.data[off:], col.Type, col.Size)
	return v
}

// Values decodes every column; convenience for executors that need the
// whole row (e.g. NestedLoopJoin's LEFT-join null padding).
func (t *Tuple) Values(schema *schema.Schema) []types.Value {
	out := make([]types.Value, schema.ColumnCount())
	off := uint32(0)
	for i := uint32(0); i < schema.ColumnCount(); i++ {
		col := schema.Column(i)
		v, n := types.Deserialize(t.data[off:], col.Type, col.Size)
		out[i] = v
		off += n
	}
	return out
}
