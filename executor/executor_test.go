package executor

import (
	"sort"
	"testing"

	"github.com/vectorbase/vectorbase/expression"
	"github.com/vectorbase/vectorbase/plan"
	"github.com/vectorbase/vectorbase/schema"
	"github.com/vectorbase/vectorbase/storage/tuple"
	"github.com/vectorbase/vectorbase/types"
	"github.com/vectorbase/vectorbase/vectorfn"
)

func docsSchema() *schema.Schema {
	return schema.NewSchema([]schema.Column{
		schema.NewColumn("id", types.Integer),
		schema.NewVarcharColumn("title", 64),
	})
}

func mockCtx(name string, schema *schema.Schema, rows [][]types.Value) *Context {
	ctx := NewContext(nil, nil, nil)
	tuples := make([]*tuple.Tuple, len(rows))
	for i, r := range rows {
		tuples[i] = tuple.New(r, schema)
	}
	ctx.Mocks[name] = tuples
	ctx.MockSchemas[name] = schema
	return ctx
}

func drain(t *testing.T, e Executor) []*tuple.Tuple {
	t.Helper()
	if err := e.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	var out []*tuple.Tuple
	for {
		row, done, err := e.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if done {
			return out
		}
		out = append(out, row)
	}
}

// S1: SeqScan + Filter + Projection.
func TestSeqScanFilterProjection(t *testing.T) {
	sch := docsSchema()
	rows := [][]types.Value{
		{types.NewInteger(1), types.NewVarchar("aardvark")},
		{types.NewInteger(2), types.NewVarchar("barnacle")},
		{types.NewInteger(3), types.NewVarchar("cuttlefish")},
	}
	ctx := mockCtx("__mock_docs", sch, rows)

	scan := plan.NewMockScan(sch, "__mock_docs")
	pred := expression.NewComparison(expression.Gt,
		expression.NewColumnRef(0, 0, types.Integer),
		expression.NewConstant(types.NewInteger(1)))
	filter := plan.NewFilter(scan, pred)
	outSchema := schema.NewSchema([]schema.Column{schema.NewVarcharColumn("title", 64)})
	proj := plan.NewProjection(outSchema, filter, []expression.Expr{expression.NewColumnRef(0, 1, types.Varchar)})

	exec, err := Build(ctx, proj)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	got := drain(t, exec)
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].Values(outSchema)[0].AsString() != "barnacle" {
		t.Errorf("unexpected first row: %v", got[0].Values(outSchema))
	}
}

// S2: inner hash join.
func TestHashJoinInner(t *testing.T) {
	leftSchema := schema.NewSchema([]schema.Column{schema.NewColumn("id", types.Integer)})
	rightSchema := schema.NewSchema([]schema.Column{
		schema.NewColumn("doc_id", types.Integer),
		schema.NewVarcharColumn("tag", 16),
	})
	ctx := mockCtx("__mock_left", leftSchema, [][]types.Value{
		{types.NewInteger(1)}, {types.NewInteger(2)},
	})
	ctx.Mocks["__mock_right"] = []*tuple.Tuple{
		tuple.New([]types.Value{types.NewInteger(1), types.NewVarchar("mammal")}, rightSchema),
	}

	left := plan.NewMockScan(leftSchema, "__mock_left")
	right := plan.NewMockScan(rightSchema, "__mock_right")
	joinSchema := schema.NewSchema([]schema.Column{
		schema.NewColumn("id", types.Integer),
		schema.NewColumn("doc_id", types.Integer),
		schema.NewVarcharColumn("tag", 16),
	})
	hj := plan.NewHashJoin(joinSchema, plan.InnerJoin, left, right,
		[]expression.Expr{expression.NewColumnRef(0, 0, types.Integer)},
		[]expression.Expr{expression.NewColumnRef(0, 0, types.Integer)})

	exec, err := Build(ctx, hj)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	got := drain(t, exec)
	if len(got) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got))
	}
	vals := got[0].Values(joinSchema)
	if vals[0].AsInt64() != 1 || vals[1].AsInt64() != 1 || vals[2].AsString() != "mammal" {
		t.Errorf("unexpected joined row: %v", vals)
	}
}

// S3: left join against an empty right side null-pads the right columns.
func TestNestedLoopJoinLeftEmpty(t *testing.T) {
	leftSchema := schema.NewSchema([]schema.Column{schema.NewColumn("id", types.Integer)})
	rightSchema := schema.NewSchema([]schema.Column{schema.NewVarcharColumn("tag", 16)})
	ctx := mockCtx("__mock_left", leftSchema, [][]types.Value{{types.NewInteger(1)}})
	ctx.Mocks["__mock_right"] = nil

	left := plan.NewMockScan(leftSchema, "__mock_left")
	right := plan.NewMockScan(rightSchema, "__mock_right")
	joinSchema := schema.NewSchema([]schema.Column{
		schema.NewColumn("id", types.Integer),
		schema.NewVarcharColumn("tag", 16),
	})
	nlj := plan.NewNestedLoopJoin(joinSchema, plan.LeftJoin, left, right, nil)

	exec, err := Build(ctx, nlj)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	got := drain(t, exec)
	if len(got) != 1 {
		t.Fatalf("expected 1 padded row, got %d", len(got))
	}
	vals := got[0].Values(joinSchema)
	if vals[0].AsInt64() != 1 || !vals[1].IsNull() {
		t.Errorf("expected id=1, tag=NULL, got %v", vals)
	}
}

// S4: aggregation, including the empty-input default row.
func TestAggregationCountSum(t *testing.T) {
	sch := schema.NewSchema([]schema.Column{schema.NewColumn("n", types.Integer)})
	ctx := mockCtx("__mock_nums", sch, [][]types.Value{
		{types.NewInteger(3)}, {types.NewInteger(4)}, {types.NewInteger(5)},
	})
	scan := plan.NewMockScan(sch, "__mock_nums")
	outSchema := schema.NewSchema([]schema.Column{
		schema.NewColumn("count", types.BigInt),
		schema.NewColumn("sum", types.Decimal),
	})
	agg := plan.NewAggregation(outSchema, scan, nil, []plan.AggregateCall{
		{Func: plan.CountStar},
		{Func: plan.Sum, Expr: expression.NewColumnRef(0, 0, types.Integer)},
	})

	exec, err := Build(ctx, agg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	got := drain(t, exec)
	if len(got) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got))
	}
	vals := got[0].Values(outSchema)
	if vals[0].AsInt64() != 3 || vals[1].AsDecimal() != 12 {
		t.Errorf("unexpected aggregate result: %v", vals)
	}
}

func TestAggregationEmptyInputStillEmitsOneRow(t *testing.T) {
	sch := schema.NewSchema([]schema.Column{schema.NewColumn("n", types.Integer)})
	ctx := mockCtx("__mock_empty", sch, nil)
	scan := plan.NewMockScan(sch, "__mock_empty")
	outSchema := schema.NewSchema([]schema.Column{schema.NewColumn("count", types.BigInt)})
	agg := plan.NewAggregation(outSchema, scan, nil, []plan.AggregateCall{{Func: plan.CountStar}})

	exec, err := Build(ctx, agg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	got := drain(t, exec)
	if len(got) != 1 {
		t.Fatalf("expected 1 default row for empty input, got %d", len(got))
	}
	if got[0].Values(outSchema)[0].AsInt64() != 0 {
		t.Errorf("expected count 0, got %v", got[0].Values(outSchema))
	}
}

// S5: naive vector KNN via a Sort+Limit fused into TopN, ordering by
// distance to a fixed query vector.
func TestTopNVectorKNN(t *testing.T) {
	schema := schema.NewSchema([]schema.Column{
		schema.NewColumn("id", types.Integer),
		schema.NewVectorColumn("embedding", 2),
	})
	ctx := mockCtx("__mock_vecs", schema, [][]types.Value{
		{types.NewInteger(1), types.NewVector([]float64{0, 0})},
		{types.NewInteger(2), types.NewVector([]float64{10, 10})},
		{types.NewInteger(3), types.NewVector([]float64{1, 1})},
	})
	scan := plan.NewMockScan(schema, "__mock_vecs")
	query := expression.NewConstant(types.NewVector([]float64{1, 1}))
	dist := expression.NewVectorDistance(vectorfn.L2, expression.NewColumnRef(0, 1, types.Vector), query)
	topn := plan.NewTopN(scan, []plan.OrderByKey{{Expr: dist, Ascending: true}}, 2)

	exec, err := Build(ctx, topn)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	got := drain(t, exec)
	if len(got) != 2 {
		t.Fatalf("expected 2 rows (K=2), got %d", len(got))
	}
	ids := []int64{got[0].Values(schema)[0].AsInt64(), got[1].Values(schema)[0].AsInt64()}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if ids[0] != 1 || ids[1] != 3 {
		t.Errorf("expected nearest ids [1 3], got %v", ids)
	}
}

func TestLimit(t *testing.T) {
	schema := schema.NewSchema([]schema.Column{schema.NewColumn("n", types.Integer)})
	ctx := mockCtx("__mock_n", schema, [][]types.Value{
		{types.NewInteger(1)}, {types.NewInteger(2)}, {types.NewInteger(3)},
	})
	scan := plan.NewMockScan(schema, "__mock_n")
	lim := plan.NewLimit(scan, 2)

	exec, err := Build(ctx, lim)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	got := drain(t, exec)
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
}
