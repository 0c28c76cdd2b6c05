package expression

import (
	"github.com/vectorbase/vectorbase/schema"
	"github.com/vectorbase/vectorbase/storage/tuple"
	"github.com/vectorbase/vectorbase/types"
)

// Constant is a literal value; used by the vector-index-scan query vector,
// which spec.md §4.5.8 requires to be constant at plan time.
type Constant struct {
	Value types.Value
}

func NewConstant(v types.Value) *Constant { return &Constant{Value: v} }

func (c *Constant) OutputType() types.TypeID { return c.Value.Type() }
func (c *Constant) Children() []Expr         { return nil }

func (c *Constant) Eval(*tuple.Tuple, *schema.Schema) types.Value { return c.Value }

func (c *Constant) EvalJoin(*tuple.Tuple, *schema.Schema, *tuple.Tuple, *schema.Schema) types.Value {
	return c.Value
}
