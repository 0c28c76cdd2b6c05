package optimizer

import (
	"github.com/vectorbase/vectorbase/catalog"
	"github.com/vectorbase/vectorbase/config"
	"github.com/vectorbase/vectorbase/expression"
	"github.com/vectorbase/vectorbase/plan"
)

func splitVectorOperands(a, b expression.Expr) (*expression.ColumnRef, expression.Expr, bool) {
	if cr, ok := a.(*expression.ColumnRef); ok {
		if _, isConst := b.(*expression.Constant); isConst {
			return cr, b, true
		}
	}
	if cr, ok := b.(*expression.ColumnRef); ok {
		if _, isConst := a.(*expression.Constant); isConst {
			return cr, a, true
		}
	}
	return nil, nil, false
}

// vectorIndexScanRule implements spec.md §4.7 rule 10, the core rewrite:
//
//	Limit(k, Sort([(ASC, distance(col, const))], SeqScan(t)))
//
// becomes VectorIndexScan(t, matching_index, const, k) when t has a
// vector index on col whose metric matches the sort expression's. The
// session's VectorIndexMethod tie-breaks when more than one index
// matches; MethodNone suppresses the rewrite outright. The scan still
// carries the full row through by RID, so a projection above selecting
// columns other than col remains valid untouched.
func (o *Optimizer) vectorIndexScanRule(p plan.Plan) (plan.Plan, bool) {
	if o.session.VectorIndexMethod == config.MethodNone {
		return p, false
	}
	lim, ok := p.(*plan.Limit)
	if !ok {
		return p, false
	}
	sort, ok := lim.Children()[0].(*plan.Sort)
	if !ok || len(sort.Keys) != 1 || !sort.Keys[0].Ascending {
		return p, false
	}
	dist, ok := sort.Keys[0].Expr.(*expression.VectorDistance)
	if !ok {
		return p, false
	}
	scan, ok := sort.Children()[0].(*plan.SeqScan)
	if !ok || scan.Predicate != nil {
		return p, false
	}
	colRef, constExpr, ok := splitVectorOperands(dist.Left, dist.Right)
	if !ok {
		return p, false
	}
	info, err := o.cat.GetTableByOID(scan.TableOID)
	if err != nil {
		return p, false
	}

	var chosen *catalog.IndexInfo
	for _, idxInfo := range o.cat.IndexesOnTable(info.Name) {
		if !idxInfo.Kind.IsVector() || len(idxInfo.KeyAttrs) != 1 || idxInfo.KeyAttrs[0] != colRef.ColIdx {
			continue
		}
		vecIdx := idxInfo.Index.(catalog.VectorIndex)
		if vecIdx.Metric() != dist.Metric {
			continue
		}
		if o.session.VectorIndexMethod != config.MethodAny && string(o.session.VectorIndexMethod) != idxInfo.Kind.String() {
			continue
		}
		chosen = idxInfo
		break
	}
	if chosen == nil {
		return p, false
	}
	opts := catalog.VectorScanOptions{ProbeLists: o.session.ProbeLists, EfSearch: o.session.EfSearch}
	return plan.NewVectorIndexScan(scan.OutputSchema(), scan.TableOID, chosen.Name, constExpr, lim.N, opts), true
}
