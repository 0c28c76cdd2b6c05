package executor

import (
	"sort"

	"github.com/vectorbase/vectorbase/plan"
	"github.com/vectorbase/vectorbase/schema"
	"github.com/vectorbase/vectorbase/storage/tuple"
	"github.com/vectorbase/vectorbase/types"
)

// compareByKeys reports whether a sorts before b under keys, in order,
// treating NULL as sorting before every non-NULL value regardless of
// direction (shared by sortExecutor and topNExecutor).
func compareByKeys(a, b *tuple.Tuple, schema *schema.Schema, keys []plan.OrderByKey) bool {
	for _, k := range keys {
		av, bv := k.Expr.Eval(a, schema), k.Expr.Eval(b, schema)
		if av.IsNull() || bv.IsNull() {
			if av.IsNull() == bv.IsNull() {
				continue
			}
			return av.IsNull()
		}
		switch {
		case av.CompareLessThan(bv) == types.True:
			return k.Ascending
		case av.CompareGreaterThan(bv) == types.True:
			return !k.Ascending
		}
	}
	return false
}

// sortExecutor drains its child fully on Init and stable-sorts by Keys
// (spec.md §4.5.6). No pack example ships a sort/priority-queue library,
// so this and topNExecutor below use the standard library's sort package.
type sortExecutor struct {
	node   *plan.Sort
	child  Executor
	schema *schema.Schema
	rows   []*tuple.Tuple
	pos    int
}

func newSortExecutor(node *plan.Sort, child Executor) *sortExecutor {
	return &sortExecutor{node: node, child: child, schema: child.OutputSchema()}
}

func (e *sortExecutor) OutputSchema() *schema.Schema { return e.node.OutputSchema() }

func (e *sortExecutor) Init() error {
	if err := e.child.Init(); err != nil {
		return err
	}
	for {
		t, done, err := e.child.Next()
		if err != nil {
			return err
		}
		if done {
			break
		}
		e.rows = append(e.rows, t)
	}
	sort.SliceStable(e.rows, func(i, j int) bool {
		return compareByKeys(e.rows[i], e.rows[j], e.schema, e.node.Keys)
	})
	return nil
}

func (e *sortExecutor) Next() (*tuple.Tuple, bool, error) {
	if e.pos >= len(e.rows) {
		return nil, true, nil
	}
	t := e.rows[e.pos]
	e.pos++
	return t, false, nil
}

// limitExecutor forwards at most N rows from its child (spec.md §4.5.6).
type limitExecutor struct {
	node  *plan.Limit
	child Executor
	seen  int
}

func newLimitExecutor(node *plan.Limit, child Executor) *limitExecutor {
	return &limitExecutor{node: node, child: child}
}

func (e *limitExecutor) OutputSchema() *schema.Schema { return e.node.OutputSchema() }

func (e *limitExecutor) Init() error { e.seen = 0; return e.child.Init() }

func (e *limitExecutor) Next() (*tuple.Tuple, bool, error) {
	if e.seen >= e.node.N {
		return nil, true, nil
	}
	t, done, err := e.child.Next()
	if err != nil || done {
		return nil, done, err
	}
	e.seen++
	return t, false, nil
}

// topNExecutor is the fused Sort+Limit form (spec.md §4.7 rule 9, also the
// Sort half of the vector-index rewrite when no index matches): it drains
// the child, sorts, and truncates to N. Bounded by an actual priority
// queue it would be; full materialization keeps the same output while
// this module sources no such structure from the reference pack.
type topNExecutor struct {
	node   *plan.TopN
	child  Executor
	schema *schema.Schema
	rows   []*tuple.Tuple
	pos    int
}

func newTopNExecutor(node *plan.TopN, child Executor) *topNExecutor {
	return &topNExecutor{node: node, child: child, schema: child.OutputSchema()}
}

func (e *topNExecutor) OutputSchema() *schema.Schema { return e.node.OutputSchema() }

func (e *topNExecutor) Init() error {
	if err := e.child.Init(); err != nil {
		return err
	}
	for {
		t, done, err := e.child.Next()
		if err != nil {
			return err
		}
		if done {
			break
		}
		e.rows = append(e.rows, t)
	}
	sort.SliceStable(e.rows, func(i, j int) bool {
		return compareByKeys(e.rows[i], e.rows[j], e.schema, e.node.Keys)
	})
	if len(e.rows) > e.node.N {
		e.rows = e.rows[:e.node.N]
	}
	return nil
}

func (e *topNExecutor) Next() (*tuple.Tuple, bool, error) {
	if e.pos >= len(e.rows) {
		return nil, true, nil
	}
	t := e.rows[e.pos]
	e.pos++
	return t, false, nil
}
