package executor

import (
	"github.com/vectorbase/vectorbase/expression"
	"github.com/vectorbase/vectorbase/plan"
	"github.com/vectorbase/vectorbase/schema"
	"github.com/vectorbase/vectorbase/storage/tuple"
	"github.com/vectorbase/vectorbase/types"
)

// filterExecutor drops rows whose predicate does not evaluate SQL-true
// (spec.md §4.5.2); NULL and false both mean "drop".
type filterExecutor struct {
	node   *plan.Filter
	child  Executor
	schema *schema.Schema
}

func newFilterExecutor(node *plan.Filter, child Executor) *filterExecutor {
	return &filterExecutor{node: node, child: child, schema: child.OutputSchema()}
}

func (e *filterExecutor) OutputSchema() *schema.Schema { return e.node.OutputSchema() }

func (e *filterExecutor) Init() error { return e.child.Init() }

func (e *filterExecutor) Next() (*tuple.Tuple, bool, error) {
	for {
		t, done, err := e.child.Next()
		if err != nil || done {
			return nil, done, err
		}
		if expression.IsTrue(e.node.Predicate.Eval(t, e.schema)) {
			return t, false, nil
		}
	}
}

// projectionExecutor evaluates Exprs against each child row and rebuilds a
// tuple against the projection's own output schema (spec.md §4.5.3). The
// result carries no RID; a projected row is no longer a specific heap slot.
type projectionExecutor struct {
	node        *plan.Projection
	child       Executor
	childSchema *schema.Schema
}

func newProjectionExecutor(node *plan.Projection, child Executor) *projectionExecutor {
	return &projectionExecutor{node: node, child: child, childSchema: child.OutputSchema()}
}

func (e *projectionExecutor) OutputSchema() *schema.Schema { return e.node.OutputSchema() }

func (e *projectionExecutor) Init() error { return e.child.Init() }

func (e *projectionExecutor) Next() (*tuple.Tuple, bool, error) {
	t, done, err := e.child.Next()
	if err != nil || done {
		return nil, done, err
	}
	out := e.node.OutputSchema()
	values := make([]types.Value, len(e.node.Exprs))
	for i, ex := range e.node.Exprs {
		values[i] = ex.Eval(t, e.childSchema)
	}
	return tuple.New(values, out), false, nil
}

// nestedLoopJoinExecutor materializes Right fully on Init, then for each
// Left row walks the buffer probing Predicate (spec.md §4.5.4). A LeftJoin
// row with no match is emitted once, padded with NULLs on the right side.
type nestedLoopJoinExecutor struct {
	node  *plan.NestedLoopJoin
	left  Executor
	right Executor

	leftSchema, rightSchema *schema.Schema
	rightRows               []*tuple.Tuple

	curLeft        *tuple.Tuple
	rightPos       int
	curLeftMatched bool
	leftDone       bool
}

func newNestedLoopJoinExecutor(node *plan.NestedLoopJoin, left, right Executor) *nestedLoopJoinExecutor {
	return &nestedLoopJoinExecutor{
		node: node, left: left, right: right,
		leftSchema: left.OutputSchema(), rightSchema: right.OutputSchema(),
	}
}

func (e *nestedLoopJoinExecutor) OutputSchema() *schema.Schema { return e.node.OutputSchema() }

func (e *nestedLoopJoinExecutor) Init() error {
	if err := e.left.Init(); err != nil {
		return err
	}
	if err := e.right.Init(); err != nil {
		return err
	}
	for {
		t, done, err := e.right.Next()
		if err != nil {
			return err
		}
		if done {
			break
		}
		e.rightRows = append(e.rightRows, t)
	}
	return e.advanceLeft()
}

func (e *nestedLoopJoinExecutor) advanceLeft() error {
	t, done, err := e.left.Next()
	if err != nil {
		return err
	}
	e.curLeft = t
	e.leftDone = done
	e.rightPos = 0
	e.curLeftMatched = false
	return nil
}

func (e *nestedLoopJoinExecutor) combine(left, right *tuple.Tuple) *tuple.Tuple {
	values := left.Values(e.leftSchema)
	if right != nil {
		values = append(values, right.Values(e.rightSchema)...)
	} else {
		for i := uint32(0); i < e.rightSchema.ColumnCount(); i++ {
			values = append(values, types.NewNull())
		}
	}
	return tuple.New(values, e.node.OutputSchema())
}

func (e *nestedLoopJoinExecutor) Next() (*tuple.Tuple, bool, error) {
	for {
		if e.leftDone {
			return nil, true, nil
		}
		for e.rightPos < len(e.rightRows) {
			right := e.rightRows[e.rightPos]
			e.rightPos++
			if expression.IsTrue(e.node.Predicate.EvalJoin(e.curLeft, e.leftSchema, right, e.rightSchema)) {
				e.curLeftMatched = true
				return e.combine(e.curLeft, right), false, nil
			}
		}
		unmatched := e.node.JoinType == plan.LeftJoin && !e.curLeftMatched
		left := e.curLeft
		if err := e.advanceLeft(); err != nil {
			return nil, true, err
		}
		if unmatched {
			return e.combine(left, nil), false, nil
		}
	}
}
