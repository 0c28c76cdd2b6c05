package optimizer

import (
	"github.com/vectorbase/vectorbase/expression"
	"github.com/vectorbase/vectorbase/plan"
	"github.com/vectorbase/vectorbase/schema"
	"github.com/vectorbase/vectorbase/types"
)

// eliminateTrueFilter implements spec.md §4.7 rule 1: Filter(true, x) → x.
func eliminateTrueFilter(p plan.Plan) (plan.Plan, bool) {
	f, ok := p.(*plan.Filter)
	if !ok {
		return p, false
	}
	c, ok := f.Predicate.(*expression.Constant)
	if !ok || c.Value.IsNull() || c.Value.Type() != types.Boolean || !c.Value.AsBoolean() {
		return p, false
	}
	return f.Children()[0], true
}

// mergeProjection implements spec.md §4.7 rule 2: a Projection whose
// expressions are identity column-refs in order over a shape-equal child
// becomes the child, keeping the projection's (possibly renamed) schema.
func mergeProjection(p plan.Plan) (plan.Plan, bool) {
	proj, ok := p.(*plan.Projection)
	if !ok {
		return p, false
	}
	child := proj.Children()[0]
	if !schema.ShapeEqual(proj.OutputSchema(), child.OutputSchema()) {
		return p, false
	}
	for i, e := range proj.Exprs {
		cr, ok := e.(*expression.ColumnRef)
		if !ok || cr.TupleIdx != 0 || cr.ColIdx != uint32(i) {
			return p, false
		}
	}
	return plan.WithSchema(child, proj.OutputSchema()), true
}

// mergeFilterScan implements spec.md §4.7 rule 3: Filter(pred, SeqScan(t))
// → SeqScan(t, pred). The predicate trivially references only t, since a
// bare SeqScan's output schema is exactly t's schema (there is nothing
// else it could reference).
func mergeFilterScan(p plan.Plan) (plan.Plan, bool) {
	f, ok := p.(*plan.Filter)
	if !ok {
		return p, false
	}
	scan, ok := f.Children()[0].(*plan.SeqScan)
	if !ok || scan.Predicate != nil {
		return p, false
	}
	return plan.NewSeqScan(scan.OutputSchema(), scan.TableOID, f.Predicate), true
}

// mergeFilterNLJ implements spec.md §4.7 rule 4: Filter(pred, NLJ(a,b,c))
// → NLJ(a,b, c AND pred).
func mergeFilterNLJ(p plan.Plan) (plan.Plan, bool) {
	f, ok := p.(*plan.Filter)
	if !ok {
		return p, false
	}
	nlj, ok := f.Children()[0].(*plan.NestedLoopJoin)
	if !ok {
		return p, false
	}
	combined := expression.NewAnd(nlj.Predicate, f.Predicate)
	return plan.NewNestedLoopJoin(f.OutputSchema(), nlj.JoinType, nlj.Left(), nlj.Right(), combined), true
}

// sortLimitToTopN implements spec.md §4.7 rule 9: Limit(n, Sort(keys, c))
// → TopN(keys, n, c).
func sortLimitToTopN(p plan.Plan) (plan.Plan, bool) {
	lim, ok := p.(*plan.Limit)
	if !ok {
		return p, false
	}
	sort, ok := lim.Children()[0].(*plan.Sort)
	if !ok {
		return p, false
	}
	return plan.NewTopN(sort.Children()[0], sort.Keys, lim.N), true
}
