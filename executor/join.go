package executor

import (
	"github.com/spaolacci/murmur3"
	"github.com/vectorbase/vectorbase/catalog"
	"github.com/vectorbase/vectorbase/expression"
	"github.com/vectorbase/vectorbase/plan"
	"github.com/vectorbase/vectorbase/schema"
	"github.com/vectorbase/vectorbase/storage/page"
	"github.com/vectorbase/vectorbase/storage/tuple"
	"github.com/vectorbase/vectorbase/types"
)

// evalRow evaluates each expr against t/schema, single-sided.
func evalRow(exprs []expression.Expr, t *tuple.Tuple, schema *schema.Schema) []types.Value {
	out := make([]types.Value, len(exprs))
	for i, ex := range exprs {
		out[i] = ex.Eval(t, schema)
	}
	return out
}

// rowKey serializes a value tuple into a hashable/comparable string, the
// same "concatenate the serialized bytes" scheme index/unordered.go's
// keyOf uses.
func rowKey(vals []types.Value) string {
	var b []byte
	for _, v := range vals {
		b = append(b, v.Serialize(nil)...)
	}
	return string(b)
}

func hasNull(vals []types.Value) bool {
	for _, v := range vals {
		if v.IsNull() {
			return true
		}
	}
	return false
}

// hashJoinExecutor is the runtime counterpart of the NLJ→HashJoin rewrite
// (spec.md §4.7 rule 5): it builds an in-memory hash table over Right
// keyed by RightKeys on Init, then probes it once per Left row via
// LeftKeys, murmur3-hashing the serialized key the way index/hash.go
// buckets scalar-index entries.
type hashJoinExecutor struct {
	node  *plan.HashJoin
	left  Executor
	right Executor

	leftSchema, rightSchema *schema.Schema
	table                   map[uint64][]*tuple.Tuple

	curLeft        *tuple.Tuple
	curMatches     []*tuple.Tuple
	matchPos       int
	curLeftMatched bool
	leftDone       bool
}

func newHashJoinExecutor(node *plan.HashJoin, left, right Executor) *hashJoinExecutor {
	return &hashJoinExecutor{
		node: node, left: left, right: right,
		leftSchema: left.OutputSchema(), rightSchema: right.OutputSchema(),
		table: make(map[uint64][]*tuple.Tuple),
	}
}

func (e *hashJoinExecutor) OutputSchema() *schema.Schema { return e.node.OutputSchema() }

func (e *hashJoinExecutor) Init() error {
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
		key := evalRow(e.node.RightKeys, t, e.rightSchema)
		if hasNull(key) {
			continue // NULL never joins, per SQL equality semantics
		}
		h := murmur3.Sum64([]byte(rowKey(key)))
		e.table[h] = append(e.table[h], t)
	}
	return e.advanceLeft()
}

func (e *hashJoinExecutor) advanceLeft() error {
	t, done, err := e.left.Next()
	if err != nil {
		return err
	}
	e.curLeft = t
	e.leftDone = done
	e.curLeftMatched = false
	e.matchPos = 0
	e.curMatches = nil
	if done {
		return nil
	}
	key := evalRow(e.node.LeftKeys, t, e.leftSchema)
	if !hasNull(key) {
		h := murmur3.Sum64([]byte(rowKey(key)))
		e.curMatches = e.table[h]
	}
	return nil
}

func (e *hashJoinExecutor) combine(left, right *tuple.Tuple) *tuple.Tuple {
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

func (e *hashJoinExecutor) Next() (*tuple.Tuple, bool, error) {
	for {
		if e.leftDone {
			return nil, true, nil
		}
		if e.matchPos < len(e.curMatches) {
			right := e.curMatches[e.matchPos]
			e.matchPos++
			e.curLeftMatched = true
			return e.combine(e.curLeft, right), false, nil
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

// nestedIndexJoinExecutor is the runtime counterpart of the
// NLJ→NestedIndexJoin rewrite (spec.md §4.7 rule 6): for each Outer row it
// probes IndexName directly instead of materializing the whole inner side.
type nestedIndexJoinExecutor struct {
	node                     *plan.NestedIndexJoin
	outer                    Executor
	ctx                      *Context
	info                     *catalog.TableInfo
	idxInfo                  *catalog.IndexInfo
	outerSchema, innerSchema *schema.Schema

	curOuter   *tuple.Tuple
	curRIDs    []page.RID
	ridPos     int
	curMatched bool
	outerDone  bool
}

func newNestedIndexJoinExecutor(ctx *Context, node *plan.NestedIndexJoin, outer Executor) (*nestedIndexJoinExecutor, error) {
	info, err := ctx.Catalog.GetTableByOID(node.TableOID)
	if err != nil {
		return nil, err
	}
	idxInfo, err := ctx.Catalog.GetIndex(info.Name, node.IndexName)
	if err != nil {
		return nil, err
	}
	return &nestedIndexJoinExecutor{
		node: node, outer: outer, ctx: ctx, info: info, idxInfo: idxInfo,
		outerSchema: outer.OutputSchema(), innerSchema: info.Schema,
	}, nil
}

func (e *nestedIndexJoinExecutor) OutputSchema() *schema.Schema { return e.node.OutputSchema() }

func (e *nestedIndexJoinExecutor) Init() error {
	if err := e.outer.Init(); err != nil {
		return err
	}
	return e.advanceOuter()
}

func (e *nestedIndexJoinExecutor) advanceOuter() error {
	t, done, err := e.outer.Next()
	if err != nil {
		return err
	}
	e.curOuter = t
	e.outerDone = done
	e.ridPos = 0
	e.curMatched = false
	e.curRIDs = nil
	if done {
		return nil
	}
	key := e.node.OuterKeyExpr.Eval(t, e.outerSchema)
	if !key.IsNull() {
		e.curRIDs = e.idxInfo.Index.ScanKey([]types.Value{key})
	}
	return nil
}

func (e *nestedIndexJoinExecutor) combine(outer, inner *tuple.Tuple) *tuple.Tuple {
	values := outer.Values(e.outerSchema)
	if inner != nil {
		values = append(values, inner.Values(e.innerSchema)...)
	} else {
		for i := uint32(0); i < e.innerSchema.ColumnCount(); i++ {
			values = append(values, types.NewNull())
		}
	}
	return tuple.New(values, e.node.OutputSchema())
}

func (e *nestedIndexJoinExecutor) Next() (*tuple.Tuple, bool, error) {
	for {
		if e.outerDone {
			return nil, true, nil
		}
		for e.ridPos < len(e.curRIDs) {
			rid := e.curRIDs[e.ridPos]
			e.ridPos++
			meta, t, ok := e.info.Heap.GetTuple(rid)
			if !ok || meta.IsDeleted {
				continue
			}
			e.curMatched = true
			return e.combine(e.curOuter, t), false, nil
		}
		unmatched := e.node.JoinType == plan.LeftJoin && !e.curMatched
		outer := e.curOuter
		if err := e.advanceOuter(); err != nil {
			return nil, true, err
		}
		if unmatched {
			return e.combine(outer, nil), false, nil
		}
	}
}
