package expression

import (
	"github.com/vectorbase/vectorbase/errs"
	"github.com/vectorbase/vectorbase/schema"
	"github.com/vectorbase/vectorbase/storage/tuple"
	"github.com/vectorbase/vectorbase/types"
	"github.com/vectorbase/vectorbase/vectorfn"
)

// VectorDistance evaluates one of L2/InnerProduct/Cosine between two
// vector-typed operands. A non-vector operand or a dimension mismatch is a
// TypeMismatch, per spec.md §4.2 — this is checked at Eval time since the
// core has no separate type-checking pass over bound expressions.
type VectorDistance struct {
	Metric      vectorfn.Metric
	Left, Right Expr
}

func NewVectorDistance(metric vectorfn.Metric, left, right Expr) *VectorDistance {
	return &VectorDistance{Metric: metric, Left: left, Right: right}
}

func (v *VectorDistance) OutputType() types.TypeID { return types.Decimal }
func (v *VectorDistance) Children() []Expr         { return []Expr{v.Left, v.Right} }

func (v *VectorDistance) Eval(t *tuple.Tuple, schema *schema.Schema) types.Value {
	return v.apply(v.Left.Eval(t, schema), v.Right.Eval(t, schema))
}

func (v *VectorDistance) EvalJoin(left *tuple.Tuple, leftSchema *schema.Schema, right *tuple.Tuple, rightSchema *schema.Schema) types.Value {
	return v.apply(v.Left.EvalJoin(left, leftSchema, right, rightSchema), v.Right.EvalJoin(left, leftSchema, right, rightSchema))
}

func (v *VectorDistance) apply(l, r types.Value) types.Value {
	if l.IsNull() || r.IsNull() {
		return types.NewNull()
	}
	if l.Type() != types.Vector || r.Type() != types.Vector {
		panic(errs.New(errs.TypeMismatch, "vector distance requires two vector operands, got %s and %s", l.Type(), r.Type()).At("expression.VectorDistance"))
	}
	d, err := vectorfn.Distance(l.AsVector(), r.AsVector(), v.Metric)
	if err != nil {
		panic(err)
	}
	return types.NewDecimal(d)
}
