package optimizer

import (
	"testing"

	"github.com/vectorbase/vectorbase/catalog"
	"github.com/vectorbase/vectorbase/expression"
	"github.com/vectorbase/vectorbase/plan"
	"github.com/vectorbase/vectorbase/schema"
	"github.com/vectorbase/vectorbase/storage/buffer"
	"github.com/vectorbase/vectorbase/storage/disk"
	"github.com/vectorbase/vectorbase/types"
)

func intSchema(names ...string) *schema.Schema {
	cols := make([]schema.Column, len(names))
	for i, n := range names {
		cols[i] = schema.NewColumn(n, types.Integer)
	}
	return schema.NewSchema(cols)
}

// Rule 1: Filter(true, x) -> x.
func TestEliminateTrueFilter(t *testing.T) {
	scan := plan.NewSeqScan(intSchema("id"), 0, nil)
	f := plan.NewFilter(scan, expression.NewConstant(types.NewBoolean(true)))

	r, ok := eliminateTrueFilter(f)
	if !ok {
		t.Fatal("expected the rule to fire")
	}
	if r.(*plan.SeqScan) != scan {
		t.Errorf("expected the filter to disappear, leaving the scan itself")
	}
}

func TestEliminateTrueFilterDoesNotFireOnRealPredicate(t *testing.T) {
	scan := plan.NewSeqScan(intSchema("id"), 0, nil)
	pred := expression.NewComparison(expression.Eq,
		expression.NewColumnRef(0, 0, types.Integer), expression.NewConstant(types.NewInteger(1)))
	f := plan.NewFilter(scan, pred)

	if _, ok := eliminateTrueFilter(f); ok {
		t.Fatal("rule must not fire on a non-constant-true predicate")
	}
}

// Rule 3: Filter(pred, SeqScan(t)) -> SeqScan(t, pred).
func TestMergeFilterScan(t *testing.T) {
	scan := plan.NewSeqScan(intSchema("id"), 7, nil)
	pred := expression.NewComparison(expression.Eq,
		expression.NewColumnRef(0, 0, types.Integer), expression.NewConstant(types.NewInteger(1)))
	f := plan.NewFilter(scan, pred)

	r, ok := mergeFilterScan(f)
	if !ok {
		t.Fatal("expected the rule to fire")
	}
	merged := r.(*plan.SeqScan)
	if merged.TableOID != 7 || merged.Predicate != pred {
		t.Errorf("expected a fused scan carrying the predicate, got %+v", merged)
	}
}

// Rule 9: Limit(n, Sort(keys, c)) -> TopN(keys, n, c).
func TestSortLimitToTopN(t *testing.T) {
	scan := plan.NewSeqScan(intSchema("n"), 0, nil)
	key := plan.OrderByKey{Expr: expression.NewColumnRef(0, 0, types.Integer), Ascending: true}
	sortPlan := plan.NewSort(scan, []plan.OrderByKey{key})
	limit := plan.NewLimit(sortPlan, 5)

	r, ok := sortLimitToTopN(limit)
	if !ok {
		t.Fatal("expected the rule to fire")
	}
	topN := r.(*plan.TopN)
	if topN.N != 5 || len(topN.Keys) != 1 {
		t.Errorf("expected TopN(keys, 5), got %+v", topN)
	}
}

// Rule 5: NLJ with an equi-join predicate becomes a HashJoin.
func TestNLJToHashJoin(t *testing.T) {
	left := plan.NewSeqScan(intSchema("id"), 0, nil)
	right := plan.NewSeqScan(intSchema("doc_id"), 1, nil)
	pred := expression.NewComparison(expression.Eq,
		expression.NewColumnRef(0, 0, types.Integer), expression.NewColumnRef(1, 0, types.Integer))
	joinSchema := intSchema("id", "doc_id")
	nlj := plan.NewNestedLoopJoin(joinSchema, plan.InnerJoin, left, right, pred)

	r, ok := nljToHashJoin(nlj)
	if !ok {
		t.Fatal("expected the rule to fire")
	}
	hj := r.(*plan.HashJoin)
	if len(hj.LeftKeys) != 1 || len(hj.RightKeys) != 1 {
		t.Errorf("expected one key pair, got %+v", hj)
	}
}

func TestNLJToHashJoinDoesNotFireOnNonEquiPredicate(t *testing.T) {
	left := plan.NewSeqScan(intSchema("id"), 0, nil)
	right := plan.NewSeqScan(intSchema("doc_id"), 1, nil)
	pred := expression.NewComparison(expression.Lt,
		expression.NewColumnRef(0, 0, types.Integer), expression.NewColumnRef(1, 0, types.Integer))
	nlj := plan.NewNestedLoopJoin(intSchema("id", "doc_id"), plan.InnerJoin, left, right, pred)

	if _, ok := nljToHashJoin(nlj); ok {
		t.Fatal("rule must not fire on a non-equality predicate")
	}
}

// End-to-end fixed-point pass: a true-filter directly wrapping a
// predicated filter-over-scan collapses down to a single fused SeqScan.
func TestOptimizeFixedPoint(t *testing.T) {
	scan := plan.NewSeqScan(intSchema("id"), 3, nil)
	pred := expression.NewComparison(expression.Eq,
		expression.NewColumnRef(0, 0, types.Integer), expression.NewConstant(types.NewInteger(1)))
	inner := plan.NewFilter(scan, pred)
	outer := plan.NewFilter(inner, expression.NewConstant(types.NewBoolean(true)))

	cat := catalog.New(buffer.NewPool(4, disk.NewMemManager()), nil)
	opt := New(cat, nil, nil)
	result := opt.Optimize(outer)

	merged, ok := result.(*plan.SeqScan)
	if !ok {
		t.Fatalf("expected a single fused SeqScan, got %T", result)
	}
	if merged.Predicate != pred {
		t.Errorf("expected the fused scan to carry the original predicate")
	}
}
