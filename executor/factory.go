package executor

import (
	"github.com/vectorbase/vectorbase/errs"
	"github.com/vectorbase/vectorbase/plan"
)

// Build recursively constructs the Executor tree for p, dispatching on its
// Kind (spec.md §4.5) the way the teacher's ExecutionEngine.createExecutor
// switches on the bound plan-node type, generalized to every node kind
// this core's plan package defines.
func Build(ctx *Context, p plan.Plan) (Executor, error) {
	switch n := p.(type) {
	case *plan.SeqScan:
		return newSeqScanExecutor(ctx, n)
	case *plan.IndexScan:
		return newIndexScanExecutor(ctx, n)
	case *plan.VectorIndexScan:
		return newVectorIndexScanExecutor(ctx, n)
	case *plan.MockScan:
		return newMockScanExecutor(ctx, n), nil
	case *plan.Values:
		return newValuesExecutor(n), nil
	case *plan.Filter:
		child, err := Build(ctx, n.Children()[0])
		if err != nil {
			return nil, err
		}
		return newFilterExecutor(n, child), nil
	case *plan.Projection:
		child, err := Build(ctx, n.Children()[0])
		if err != nil {
			return nil, err
		}
		return newProjectionExecutor(n, child), nil
	case *plan.NestedLoopJoin:
		left, err := Build(ctx, n.Left())
		if err != nil {
			return nil, err
		}
		right, err := Build(ctx, n.Right())
		if err != nil {
			return nil, err
		}
		return newNestedLoopJoinExecutor(n, left, right), nil
	case *plan.HashJoin:
		left, err := Build(ctx, n.Left())
		if err != nil {
			return nil, err
		}
		right, err := Build(ctx, n.Right())
		if err != nil {
			return nil, err
		}
		return newHashJoinExecutor(n, left, right), nil
	case *plan.NestedIndexJoin:
		outer, err := Build(ctx, n.Outer())
		if err != nil {
			return nil, err
		}
		return newNestedIndexJoinExecutor(ctx, n, outer)
	case *plan.Aggregation:
		child, err := Build(ctx, n.Children()[0])
		if err != nil {
			return nil, err
		}
		return newAggregationExecutor(n, child), nil
	case *plan.Sort:
		child, err := Build(ctx, n.Children()[0])
		if err != nil {
			return nil, err
		}
		return newSortExecutor(n, child), nil
	case *plan.Limit:
		child, err := Build(ctx, n.Children()[0])
		if err != nil {
			return nil, err
		}
		return newLimitExecutor(n, child), nil
	case *plan.TopN:
		child, err := Build(ctx, n.Children()[0])
		if err != nil {
			return nil, err
		}
		return newTopNExecutor(n, child), nil
	case *plan.Insert:
		child, err := Build(ctx, n.Children()[0])
		if err != nil {
			return nil, err
		}
		return newInsertExecutor(ctx, n, child)
	case *plan.Update:
		child, err := Build(ctx, n.Children()[0])
		if err != nil {
			return nil, err
		}
		return newUpdateExecutor(ctx, n, child)
	case *plan.Delete:
		child, err := Build(ctx, n.Children()[0])
		if err != nil {
			return nil, err
		}
		return newDeleteExecutor(ctx, n, child)
	default:
		return nil, errs.New(errs.NotImplemented, "no executor for plan kind %v", p.Kind()).At("executor.Build")
	}
}
