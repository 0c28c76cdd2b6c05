package expression

import (
	"github.com/vectorbase/vectorbase/schema"
	"github.com/vectorbase/vectorbase/storage/tuple"
	"github.com/vectorbase/vectorbase/types"
)

type ArithOp int

const (
	Add ArithOp = iota
	Sub
	Mul
	Div
)

// Arithmetic is a binary-arithmetic node; null propagates (spec.md §4.2).
type Arithmetic struct {
	Op          ArithOp
	Left, Right Expr
	typ         types.TypeID
}

func NewArithmetic(op ArithOp, left, right Expr, resultType types.TypeID) *Arithmetic {
	return &Arithmetic{Op: op, Left: left, Right: right, typ: resultType}
}

func (a *Arithmetic) OutputType() types.TypeID { return a.typ }
func (a *Arithmetic) Children() []Expr         { return []Expr{a.Left, a.Right} }

func (a *Arithmetic) Eval(t *tuple.Tuple, schema *schema.Schema) types.Value {
	return a.apply(a.Left.Eval(t, schema), a.Right.Eval(t, schema))
}

func (a *Arithmetic) EvalJoin(left *tuple.Tuple, leftSchema *schema.Schema, right *tuple.Tuple, rightSchema *schema.Schema) types.Value {
	return a.apply(a.Left.EvalJoin(left, leftSchema, right, rightSchema), a.Right.EvalJoin(left, leftSchema, right, rightSchema))
}

func (a *Arithmetic) apply(l, r types.Value) types.Value {
	switch a.Op {
	case Add:
		return l.Add(r)
	case Sub:
		return l.Sub(r)
	case Mul:
		return l.Mul(r)
	default:
		return l.Div(r)
	}
}

// Logical implements AND/OR with SQL tri-valued truth tables.
type Logical struct {
	IsAnd       bool
	Left, Right Expr
}

func NewAnd(left, right Expr) *Logical { return &Logical{IsAnd: true, Left: left, Right: right} }
func NewOr(left, right Expr) *Logical  { return &Logical{IsAnd: false, Left: left, Right: right} }

func (l *Logical) OutputType() types.TypeID { return types.Boolean }
func (l *Logical) Children() []Expr         { return []Expr{l.Left, l.Right} }

func (l *Logical) Eval(t *tuple.Tuple, schema *schema.Schema) types.Value {
	return l.apply(l.Left.Eval(t, schema), l.Right.Eval(t, schema))
}

func (l *Logical) EvalJoin(left *tuple.Tuple, leftSchema *schema.Schema, right *tuple.Tuple, rightSchema *schema.Schema) types.Value {
	return l.apply(l.Left.EvalJoin(left, leftSchema, right, rightSchema), l.Right.EvalJoin(left, leftSchema, right, rightSchema))
}

func (l *Logical) apply(a, b types.Value) types.Value {
	av, bv := toTri(a), toTri(b)
	if l.IsAnd {
		if av == types.False || bv == types.False {
			return types.NewBoolean(false)
		}
		if av == types.Unknown || bv == types.Unknown {
			return types.NewNull()
		}
		return types.NewBoolean(true)
	}
	if av == types.True || bv == types.True {
		return types.NewBoolean(true)
	}
	if av == types.Unknown || bv == types.Unknown {
		return types.NewNull()
	}
	return types.NewBoolean(false)
}

func toTri(v types.Value) types.CompareResult {
	if v.IsNull() {
		return types.Unknown
	}
	if v.AsBoolean() {
		return types.True
	}
	return types.False
}

// IsTrue reports whether an evaluated Value is SQL-true; anything else
// (false or null) is "drop" for Filter's tri-valued semantics (spec.md §4.5.2).
func IsTrue(v types.Value) bool {
	return !v.IsNull() && v.Type() == types.Boolean && v.AsBoolean()
}
