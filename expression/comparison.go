package expression

import (
	"github.com/vectorbase/vectorbase/schema"
	"github.com/vectorbase/vectorbase/storage/tuple"
	"github.com/vectorbase/vectorbase/types"
)

// CompareOp names a comparison operator.
type CompareOp int

const (
	Eq CompareOp = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

func (o CompareOp) String() string {
	return [...]string{"=", "<>", "<", "<=", ">", ">="}[o]
}

// Comparison evaluates tri-valued, per spec.md §4.2: null propagates.
type Comparison struct {
	Op          CompareOp
	Left, Right Expr
}

func NewComparison(op CompareOp, left, right Expr) *Comparison {
	return &Comparison{Op: op, Left: left, Right: right}
}

func (c *Comparison) OutputType() types.TypeID { return types.Boolean }
func (c *Comparison) Children() []Expr         { return []Expr{c.Left, c.Right} }

func (c *Comparison) Eval(t *tuple.Tuple, schema *schema.Schema) types.Value {
	return c.apply(c.Left.Eval(t, schema), c.Right.Eval(t, schema))
}

func (c *Comparison) EvalJoin(left *tuple.Tuple, leftSchema *schema.Schema, right *tuple.Tuple, rightSchema *schema.Schema) types.Value {
	return c.apply(c.Left.EvalJoin(left, leftSchema, right, rightSchema), c.Right.EvalJoin(left, leftSchema, right, rightSchema))
}

func (c *Comparison) apply(l, r types.Value) types.Value {
	var res types.CompareResult
	switch c.Op {
	case Eq:
		res = l.CompareEquals(r)
	case Ne:
		res = l.CompareNotEquals(r)
	case Lt:
		res = l.CompareLessThan(r)
	case Le:
		res = l.CompareLessThanEquals(r)
	case Gt:
		res = l.CompareGreaterThan(r)
	case Ge:
		res = l.CompareGreaterThanEquals(r)
	}
	return fromCompareResult(res)
}

func fromCompareResult(r types.CompareResult) types.Value {
	switch r {
	case types.True:
		return types.NewBoolean(true)
	case types.False:
		return types.NewBoolean(false)
	default:
		return types.NewNull()
	}
}
