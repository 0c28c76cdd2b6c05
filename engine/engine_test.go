package engine

import (
	"testing"

	"github.com/vectorbase/vectorbase/errs"
	"github.com/vectorbase/vectorbase/executor"
	"github.com/vectorbase/vectorbase/expression"
	"github.com/vectorbase/vectorbase/plan"
	"github.com/vectorbase/vectorbase/schema"
	"github.com/vectorbase/vectorbase/storage/tuple"
	"github.com/vectorbase/vectorbase/types"
	"github.com/vectorbase/vectorbase/vectorfn"
)

func TestExecuteDrainsRows(t *testing.T) {
	schema := schema.NewSchema([]schema.Column{schema.NewColumn("n", types.Integer)})
	ctx := executor.NewContext(nil, nil, nil)
	ctx.Mocks["__mock_n"] = []*tuple.Tuple{
		tuple.New([]types.Value{types.NewInteger(1)}, schema),
		tuple.New([]types.Value{types.NewInteger(2)}, schema),
	}
	scan := plan.NewMockScan(schema, "__mock_n")

	eng := New(nil)
	result, err := eng.Execute(ctx, scan)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(result.Rows))
	}
}

// A TypeMismatch panic raised deep inside expression evaluation (only
// reachable as a panic, since expression.Expr.Eval has no error return)
// must surface as a normal returned error, not crash the process.
func TestExecuteRecoversTypeMismatchPanic(t *testing.T) {
	schema := schema.NewSchema([]schema.Column{
		schema.NewVectorColumn("embedding", 2),
	})
	ctx := executor.NewContext(nil, nil, nil)
	ctx.Mocks["__mock_vecs"] = []*tuple.Tuple{
		tuple.New([]types.Value{types.NewVector([]float64{1, 2})}, schema),
		tuple.New([]types.Value{types.NewVector([]float64{3, 4})}, schema),
	}
	scan := plan.NewMockScan(schema, "__mock_vecs")

	badDist := expression.NewVectorDistance(vectorfn.L2,
		expression.NewColumnRef(0, 0, types.Vector),
		expression.NewConstant(types.NewInteger(5)))
	sortPlan := plan.NewSort(scan, []plan.OrderByKey{{Expr: badDist, Ascending: true}})

	eng := New(nil)
	result, err := eng.Execute(ctx, sortPlan)
	if err == nil {
		t.Fatal("expected a recovered TypeMismatch error, got nil")
	}
	if !errs.Is(err, errs.TypeMismatch) {
		t.Errorf("expected TypeMismatch, got %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result on error, got %v", result)
	}
}

func TestExecuteBuildError(t *testing.T) {
	ctx := executor.NewContext(nil, nil, nil)
	eng := New(nil)
	_, err := eng.Execute(ctx, unknownPlan{})
	if err == nil {
		t.Fatal("expected a build error for an unhandled plan kind")
	}
}

// unknownPlan exercises executor.Build's default case (no Executor exists
// for it), independent of any real plan.Kind.
type unknownPlan struct{}

func (unknownPlan) OutputSchema() *schema.Schema { return schema.NewSchema(nil) }
func (unknownPlan) Children() []plan.Plan        { return nil }
func (unknownPlan) Kind() plan.Kind              { return plan.KindMockScan }
