package expression

import (
	"github.com/vectorbase/vectorbase/schema"
	"github.com/vectorbase/vectorbase/storage/tuple"
	"github.com/vectorbase/vectorbase/types"
)

// ColumnRef reads one column out of a tuple. TupleIdx selects the left (0)
// or right (1) side in a join's EvalJoin; it is ignored by Eval, which
// always reads the single tuple it is given.
type ColumnRef struct {
	TupleIdx uint32
	ColIdx   uint32
	typ      types.TypeID
}

func NewColumnRef(tupleIdx, colIdx uint32, typ types.TypeID) *ColumnRef {
	return &ColumnRef{TupleIdx: tupleIdx, ColIdx: colIdx, typ: typ}
}

func (c *ColumnRef) OutputType() types.TypeID { return c.typ }
func (c *ColumnRef) Children() []Expr         { return nil }

func (c *ColumnRef) Eval(t *tuple.Tuple, schema *schema.Schema) types.Value {
	return t.GetValue(schema, c.ColIdx)
}

func (c *ColumnRef) EvalJoin(left *tuple.Tuple, leftSchema *schema.Schema, right *tuple.Tuple, rightSchema *schema.Schema) types.Value {
	if c.TupleIdx == 0 {
		return left.GetValue(leftSchema, c.ColIdx)
	}
	return right.GetValue(rightSchema, c.ColIdx)
}
