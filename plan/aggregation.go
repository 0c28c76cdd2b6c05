package plan

import (
	"github.com/vectorbase/vectorbase/expression"
	"github.com/vectorbase/vectorbase/schema"
)

// AggFunc names a supported aggregate (spec.md §4.5.5).
type AggFunc int

const (
	CountStar AggFunc = iota // count(*): ignores Expr
	Count                    // count(expr): skips nulls
	Sum
	Min
	Max
)

func (f AggFunc) String() string {
	return [...]string{"count(*)", "count", "sum", "min", "max"}[f]
}

// AggregateCall is one aggregate slot in an Aggregation node's output.
type AggregateCall struct {
	Func AggFunc
	Expr expression.Expr // nil for CountStar
}

// Aggregation consumes its child entirely on init, folding each
// AggregateCall's expression into running state per group key (spec.md
// §4.5.5). Plain DISTINCT is the "all columns as group keys" rewrite
// (spec.md §4.6): every child column in GroupBys and Aggregates empty; the
// same empty-Aggregates shape implements GROUP BY with no aggregate projected.
type Aggregation struct {
	base
	GroupBys   []expression.Expr
	Aggregates []AggregateCall
}

func NewAggregation(schema *schema.Schema, child Plan, groupBys []expression.Expr, aggregates []AggregateCall) *Aggregation {
	return &Aggregation{base: base{schema: schema, children: []Plan{child}}, GroupBys: groupBys, Aggregates: aggregates}
}

func (*Aggregation) Kind() Kind { return KindAggregation }
