package planner

import (
	"testing"

	"github.com/vectorbase/vectorbase/catalog"
	"github.com/vectorbase/vectorbase/plan"
	"github.com/vectorbase/vectorbase/storage/buffer"
	"github.com/vectorbase/vectorbase/storage/disk"
	"github.com/vectorbase/vectorbase/types"
)

func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	pool := buffer.NewPool(16, disk.NewMemManager())
	return catalog.New(pool, nil)
}

func createDocs(t *testing.T, p *Planner) {
	t.Helper()
	_, err := p.ExecuteCreateTable(&Create{
		Table: "docs",
		Columns: []ColumnDef{
			{Name: "id", Type: types.Integer},
			{Name: "title", Type: types.Varchar, Size: 64},
		},
	})
	if err != nil {
		t.Fatalf("ExecuteCreateTable: %v", err)
	}
}

func TestPlanSelectStarIsUnprojected(t *testing.T) {
	cat := newTestCatalog(t)
	p := New(cat)
	createDocs(t, p)

	sel := &Select{
		TableRef:   &TableRef{BaseTable: "docs"},
		SelectList: []BoundExpr{Star{}},
	}
	got, err := p.PlanSelect(sel)
	if err != nil {
		t.Fatalf("PlanSelect: %v", err)
	}
	if _, ok := got.(*plan.SeqScan); !ok {
		t.Fatalf("expected a bare SeqScan for SELECT *, got %T", got)
	}
}

func TestPlanSelectWhereProducesFilter(t *testing.T) {
	cat := newTestCatalog(t)
	p := New(cat)
	createDocs(t, p)

	sel := &Select{
		TableRef: &TableRef{BaseTable: "docs"},
		Where: BinaryOp{
			Op:    "=",
			Left:  ColumnRef{Column: "id"},
			Right: Constant{Value: types.NewInteger(1)},
		},
		SelectList: []BoundExpr{Star{}},
	}
	got, err := p.PlanSelect(sel)
	if err != nil {
		t.Fatalf("PlanSelect: %v", err)
	}
	f, ok := got.(*plan.Filter)
	if !ok {
		t.Fatalf("expected a Filter wrapping the scan, got %T", got)
	}
	if _, ok := f.Children()[0].(*plan.SeqScan); !ok {
		t.Fatalf("expected the Filter's child to be a SeqScan, got %T", f.Children()[0])
	}
}

func TestPlanSelectProjectionNarrowsColumns(t *testing.T) {
	cat := newTestCatalog(t)
	p := New(cat)
	createDocs(t, p)

	sel := &Select{
		TableRef:   &TableRef{BaseTable: "docs"},
		SelectList: []BoundExpr{ColumnRef{Column: "title"}},
	}
	got, err := p.PlanSelect(sel)
	if err != nil {
		t.Fatalf("PlanSelect: %v", err)
	}
	proj, ok := got.(*plan.Projection)
	if !ok {
		t.Fatalf("expected a Projection, got %T", got)
	}
	if proj.OutputSchema().ColumnCount() != 1 {
		t.Errorf("expected a single-column projection, got %d", proj.OutputSchema().ColumnCount())
	}
}

func TestPlanSelectCountStarProducesAggregation(t *testing.T) {
	cat := newTestCatalog(t)
	p := New(cat)
	createDocs(t, p)

	sel := &Select{
		TableRef:   &TableRef{BaseTable: "docs"},
		SelectList: []BoundExpr{Alias{Name: "n", Child: AggCall{Name: "count"}}},
	}
	got, err := p.PlanSelect(sel)
	if err != nil {
		t.Fatalf("PlanSelect: %v", err)
	}
	agg, ok := got.(*plan.Aggregation)
	if !ok {
		t.Fatalf("expected an Aggregation, got %T", got)
	}
	if len(agg.Aggregates) != 1 || agg.Aggregates[0].Func != plan.CountStar {
		t.Errorf("expected a single count(*) call, got %+v", agg.Aggregates)
	}
}

func TestPlanSelectDistinctGroupsByEveryColumn(t *testing.T) {
	cat := newTestCatalog(t)
	p := New(cat)
	createDocs(t, p)

	sel := &Select{
		TableRef:   &TableRef{BaseTable: "docs"},
		SelectList: []BoundExpr{Star{}},
		IsDistinct: true,
	}
	got, err := p.PlanSelect(sel)
	if err != nil {
		t.Fatalf("PlanSelect: %v", err)
	}
	agg, ok := got.(*plan.Aggregation)
	if !ok {
		t.Fatalf("expected DISTINCT to rewrite into an Aggregation, got %T", got)
	}
	if len(agg.GroupBys) != 2 || len(agg.Aggregates) != 0 {
		t.Errorf("expected every column as a group key and no aggregates, got %+v", agg)
	}
}

func TestPlanSelectMockTableNeedsNoCatalogEntry(t *testing.T) {
	cat := newTestCatalog(t)
	p := New(cat)

	sel := &Select{
		TableRef:   &TableRef{BaseTable: "__mock_rows"},
		SelectList: []BoundExpr{Star{}},
	}
	got, err := p.PlanSelect(sel)
	if err != nil {
		t.Fatalf("PlanSelect: %v", err)
	}
	if _, ok := got.(*plan.MockScan); !ok {
		t.Fatalf("expected a MockScan, got %T", got)
	}
}

func TestPlanInsertValues(t *testing.T) {
	cat := newTestCatalog(t)
	p := New(cat)
	createDocs(t, p)

	ins := &Insert{
		Table: "docs",
		Values: [][]BoundExpr{
			{Constant{Value: types.NewInteger(1)}, Constant{Value: types.NewVarchar("a")}},
		},
	}
	got, err := p.PlanInsert(ins)
	if err != nil {
		t.Fatalf("PlanInsert: %v", err)
	}
	if _, ok := got.(*plan.Insert); !ok {
		t.Fatalf("expected an Insert plan node, got %T", got)
	}
}
