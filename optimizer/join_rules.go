package optimizer

import (
	stack "github.com/golang-collections/collections/stack"
	pair "github.com/notEpsilon/go-pair"
	"github.com/vectorbase/vectorbase/expression"
	"github.com/vectorbase/vectorbase/plan"
)

// extractEqualities decomposes pred's top-level AND conjuncts looking for
// left.x = right.y shaped comparisons, walking the tree with an explicit
// stack the way the teacher's bestJoin sketch
// (planner/optimizer/selinger_optimizer.go) pushes sub-expressions instead
// of recursing. ok is false if any conjunct is not a plain cross-side
// column equality — the caller then has no equalities to build a hash or
// index join from.
func extractEqualities(pred expression.Expr) ([]pair.Pair[*expression.ColumnRef, *expression.ColumnRef], bool) {
	var out []pair.Pair[*expression.ColumnRef, *expression.ColumnRef]
	st := stack.New()
	st.Push(pred)
	for st.Len() > 0 {
		top := st.Pop().(expression.Expr)
		switch n := top.(type) {
		case *expression.Logical:
			if !n.IsAnd {
				return nil, false
			}
			st.Push(n.Left)
			st.Push(n.Right)
		case *expression.Comparison:
			if n.Op != expression.Eq {
				return nil, false
			}
			lc, lok := n.Left.(*expression.ColumnRef)
			rc, rok := n.Right.(*expression.ColumnRef)
			if !lok || !rok || lc.TupleIdx == rc.TupleIdx {
				return nil, false
			}
			if lc.TupleIdx == 0 {
				out = append(out, *pair.New(lc, rc))
			} else {
				out = append(out, *pair.New(rc, lc))
			}
		default:
			return nil, false
		}
	}
	return out, true
}

// nljToHashJoin implements spec.md §4.7 rule 5: a NestedLoopJoin whose
// predicate is a conjunction of left.x = right.y equalities becomes a
// HashJoin keyed on those columns.
func nljToHashJoin(p plan.Plan) (plan.Plan, bool) {
	nlj, ok := p.(*plan.NestedLoopJoin)
	if !ok {
		return p, false
	}
	eqs, ok := extractEqualities(nlj.Predicate)
	if !ok || len(eqs) == 0 {
		return p, false
	}
	leftKeys := make([]expression.Expr, len(eqs))
	rightKeys := make([]expression.Expr, len(eqs))
	for i, e := range eqs {
		leftKeys[i] = e.First
		rightKeys[i] = e.Second
	}
	return plan.NewHashJoin(nlj.OutputSchema(), nlj.JoinType, nlj.Left(), nlj.Right(), leftKeys, rightKeys), true
}

// nljToNestedIndexJoin implements spec.md §4.7 rule 6: when the right side
// of a join is a scan over a table carrying a single-column index on the
// join key, probe that index per outer row instead of materializing the
// whole right side. Only single-equality predicates are eligible — index
// probes have one key.
func (o *Optimizer) nljToNestedIndexJoin(p plan.Plan) (plan.Plan, bool) {
	nlj, ok := p.(*plan.NestedLoopJoin)
	if !ok {
		return p, false
	}
	scan, ok := nlj.Right().(*plan.SeqScan)
	if !ok || scan.Predicate != nil {
		return p, false
	}
	eqs, ok := extractEqualities(nlj.Predicate)
	if !ok || len(eqs) != 1 {
		return p, false
	}
	info, err := o.cat.GetTableByOID(scan.TableOID)
	if err != nil {
		return p, false
	}
	rightCol := eqs[0].Second
	for _, idxInfo := range o.cat.IndexesOnTable(info.Name) {
		if idxInfo.Kind.IsVector() || len(idxInfo.KeyAttrs) != 1 || idxInfo.KeyAttrs[0] != rightCol.ColIdx {
			continue
		}
		return plan.NewNestedIndexJoin(nlj.OutputSchema(), nlj.JoinType, nlj.Left(), scan.TableOID, idxInfo.Name, eqs[0].First), true
	}
	return p, false
}
