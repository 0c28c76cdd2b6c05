package executor

import (
	"github.com/spaolacci/murmur3"
	"github.com/vectorbase/vectorbase/errs"
	"github.com/vectorbase/vectorbase/plan"
	"github.com/vectorbase/vectorbase/schema"
	"github.com/vectorbase/vectorbase/storage/tuple"
	"github.com/vectorbase/vectorbase/types"
)

// aggState is the running accumulator state for one AggregateCall within
// one group.
type aggState struct {
	count       int64
	sum         float64
	extreme     types.Value
	haveExtreme bool
}

// aggregationExecutor drains its child entirely on Init, folding each row
// into a per-group-key hash table — the same murmur3-of-serialized-key
// bucketing scheme index/hash.go uses for its directory, generalized here
// to fixed running accumulators instead of RID lists (spec.md §4.5.5).
// Groups are then served back in first-seen order.
type aggregationExecutor struct {
	node        *plan.Aggregation
	child       Executor
	childSchema *schema.Schema

	order []uint64
	keys  map[uint64][]types.Value
	state map[uint64][]aggState

	pos int
}

func newAggregationExecutor(node *plan.Aggregation, child Executor) *aggregationExecutor {
	return &aggregationExecutor{
		node: node, child: child, childSchema: child.OutputSchema(),
		keys:  make(map[uint64][]types.Value),
		state: make(map[uint64][]aggState),
	}
}

func (e *aggregationExecutor) OutputSchema() *schema.Schema { return e.node.OutputSchema() }

func (e *aggregationExecutor) Init() error {
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
		groupKey := evalRow(e.node.GroupBys, t, e.childSchema)
		h := murmur3.Sum64([]byte(rowKey(groupKey)))
		states, seen := e.state[h]
		if !seen {
			states = make([]aggState, len(e.node.Aggregates))
			e.keys[h] = groupKey
			e.order = append(e.order, h)
		}
		for i, agg := range e.node.Aggregates {
			states[i] = accumulate(states[i], agg, t, e.childSchema)
		}
		e.state[h] = states
	}
	if len(e.order) == 0 && len(e.node.GroupBys) == 0 {
		// A plain aggregate (no GROUP BY) over zero rows still produces
		// one row of defaults (count 0, sum/min/max NULL) — SQL's
		// "aggregate of the empty set" rule.
		e.order = append(e.order, 0)
		e.keys[0] = nil
		e.state[0] = make([]aggState, len(e.node.Aggregates))
	}
	return nil
}

func accumulate(s aggState, agg plan.AggregateCall, t *tuple.Tuple, schema *schema.Schema) aggState {
	switch agg.Func {
	case plan.CountStar:
		s.count++
	case plan.Count:
		if v := agg.Expr.Eval(t, schema); !v.IsNull() {
			s.count++
		}
	case plan.Sum:
		if v := agg.Expr.Eval(t, schema); !v.IsNull() {
			s.sum += numeric(v)
			s.count++
		}
	case plan.Min:
		if v := agg.Expr.Eval(t, schema); !v.IsNull() {
			if !s.haveExtreme || v.CompareLessThan(s.extreme) == types.True {
				s.extreme, s.haveExtreme = v, true
			}
		}
	case plan.Max:
		if v := agg.Expr.Eval(t, schema); !v.IsNull() {
			if !s.haveExtreme || v.CompareGreaterThan(s.extreme) == types.True {
				s.extreme, s.haveExtreme = v, true
			}
		}
	}
	return s
}

func numeric(v types.Value) float64 {
	if v.Type() == types.Decimal {
		return v.AsDecimal()
	}
	return float64(v.AsInt64())
}

func resultValue(agg plan.AggregateCall, s aggState) types.Value {
	switch agg.Func {
	case plan.CountStar, plan.Count:
		return types.NewBigInt(s.count)
	case plan.Sum:
		if s.count == 0 {
			return types.NewNull()
		}
		return types.NewDecimal(s.sum)
	case plan.Min, plan.Max:
		if !s.haveExtreme {
			return types.NewNull()
		}
		return s.extreme
	default:
		panic(errs.New(errs.NotImplemented, "aggregate function %v", agg.Func).At("executor.aggregationExecutor"))
	}
}

func (e *aggregationExecutor) Next() (*tuple.Tuple, bool, error) {
	if e.pos >= len(e.order) {
		return nil, true, nil
	}
	h := e.order[e.pos]
	e.pos++
	groupKey := e.keys[h]
	states := e.state[h]

	values := make([]types.Value, 0, len(groupKey)+len(states))
	values = append(values, groupKey...)
	for i, agg := range e.node.Aggregates {
		values = append(values, resultValue(agg, states[i]))
	}
	return tuple.New(values, e.node.OutputSchema()), false, nil
}
