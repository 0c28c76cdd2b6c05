package optimizer

import (
	"github.com/vectorbase/vectorbase/catalog"
	"github.com/vectorbase/vectorbase/expression"
	"github.com/vectorbase/vectorbase/plan"
)

// splitColConst pulls a (ColumnRef, otherOperand) pair out of a binary
// comparison's two sides, in whichever order they appear.
func splitColConst(a, b expression.Expr) (*expression.ColumnRef, expression.Expr, bool) {
	if cr, ok := a.(*expression.ColumnRef); ok {
		return cr, b, true
	}
	if cr, ok := b.(*expression.ColumnRef); ok {
		return cr, a, true
	}
	return nil, nil, false
}

// seqScanToIndexScan implements spec.md §4.7 rule 7: an equality predicate
// fused into a SeqScan (by rule 3, on an earlier pass) becomes a direct
// probe of a matching scalar index.
func (o *Optimizer) seqScanToIndexScan(p plan.Plan) (plan.Plan, bool) {
	scan, ok := p.(*plan.SeqScan)
	if !ok || scan.Predicate == nil {
		return p, false
	}
	cmp, ok := scan.Predicate.(*expression.Comparison)
	if !ok || cmp.Op != expression.Eq {
		return p, false
	}
	colRef, probe, ok := splitColConst(cmp.Left, cmp.Right)
	if !ok {
		return p, false
	}
	info, err := o.cat.GetTableByOID(scan.TableOID)
	if err != nil {
		return p, false
	}
	for _, idxInfo := range o.cat.IndexesOnTable(info.Name) {
		if idxInfo.Kind.IsVector() || len(idxInfo.KeyAttrs) != 1 || idxInfo.KeyAttrs[0] != colRef.ColIdx {
			continue
		}
		return plan.NewIndexScan(scan.OutputSchema(), scan.TableOID, idxInfo.Name, []expression.Expr{probe}, true), true
	}
	return p, false
}

// orderByToIndexScan implements spec.md §4.7 rule 8: an ORDER BY over a
// single column that matches an ordered index's prefix becomes a direct
// ordered scan of that index, dropping the Sort entirely.
func (o *Optimizer) orderByToIndexScan(p plan.Plan) (plan.Plan, bool) {
	sort, ok := p.(*plan.Sort)
	if !ok || len(sort.Keys) != 1 {
		return p, false
	}
	key := sort.Keys[0]
	colRef, ok := key.Expr.(*expression.ColumnRef)
	if !ok {
		return p, false
	}
	scan, ok := sort.Children()[0].(*plan.SeqScan)
	if !ok || scan.Predicate != nil {
		return p, false
	}
	info, err := o.cat.GetTableByOID(scan.TableOID)
	if err != nil {
		return p, false
	}
	for _, idxInfo := range o.cat.IndexesOnTable(info.Name) {
		if idxInfo.Kind.IsVector() || len(idxInfo.KeyAttrs) != 1 || idxInfo.KeyAttrs[0] != colRef.ColIdx {
			continue
		}
		if _, ok := idxInfo.Index.(catalog.RangeIndex); !ok {
			continue
		}
		return plan.NewIndexScan(scan.OutputSchema(), scan.TableOID, idxInfo.Name, nil, key.Ascending), true
	}
	return p, false
}
