package executor

import (
	"github.com/vectorbase/vectorbase/catalog"
	"github.com/vectorbase/vectorbase/errs"
	"github.com/vectorbase/vectorbase/expression"
	"github.com/vectorbase/vectorbase/plan"
	"github.com/vectorbase/vectorbase/schema"
	"github.com/vectorbase/vectorbase/storage/heap"
	"github.com/vectorbase/vectorbase/storage/page"
	"github.com/vectorbase/vectorbase/storage/tuple"
	"github.com/vectorbase/vectorbase/types"
)

// seqScanExecutor walks a table heap in insertion order, skipping
// tombstoned slots and, when the Merge-filter-scan rule fused a predicate
// in, applying it on the fly (spec.md §4.5.1).
type seqScanExecutor struct {
	node *plan.SeqScan
	info *catalog.TableInfo
	it   *heap.Iterator
}

func newSeqScanExecutor(ctx *Context, node *plan.SeqScan) (*seqScanExecutor, error) {
	info, err := ctx.Catalog.GetTableByOID(node.TableOID)
	if err != nil {
		return nil, err
	}
	return &seqScanExecutor{node: node, info: info}, nil
}

func (e *seqScanExecutor) OutputSchema() *schema.Schema { return e.node.OutputSchema() }

func (e *seqScanExecutor) Init() error {
	e.it = e.info.Heap.Iterator()
	return nil
}

func (e *seqScanExecutor) Next() (*tuple.Tuple, bool, error) {
	for {
		meta, t, ok := e.it.Next()
		if !ok {
			return nil, true, nil
		}
		if meta.IsDeleted {
			continue
		}
		if e.node.Predicate != nil && !expression.IsTrue(e.node.Predicate.Eval(t, e.info.Schema)) {
			continue
		}
		return t, false, nil
	}
}

// indexScanExecutor probes an equality key or walks an ordered/hash index
// directly (spec.md §4.5.8), resolving each matching RID back through the
// table heap.
type indexScanExecutor struct {
	node    *plan.IndexScan
	info    *catalog.TableInfo
	idxInfo *catalog.IndexInfo
	rids    []page.RID
	pos     int
}

func newIndexScanExecutor(ctx *Context, node *plan.IndexScan) (*indexScanExecutor, error) {
	info, err := ctx.Catalog.GetTableByOID(node.TableOID)
	if err != nil {
		return nil, err
	}
	idxInfo, err := ctx.Catalog.GetIndex(info.Name, node.IndexName)
	if err != nil {
		return nil, err
	}
	return &indexScanExecutor{node: node, info: info, idxInfo: idxInfo}, nil
}

func (e *indexScanExecutor) OutputSchema() *schema.Schema { return e.node.OutputSchema() }

func (e *indexScanExecutor) Init() error {
	if e.node.Equals != nil {
		key := make([]types.Value, len(e.node.Equals))
		for i, ex := range e.node.Equals {
			key[i] = ex.Eval(nil, nil)
		}
		e.rids = e.idxInfo.Index.ScanKey(key)
		return nil
	}
	rangeIdx, ok := e.idxInfo.Index.(catalog.RangeIndex)
	if !ok {
		return errs.New(errs.NotImplemented, "index %q does not support an ordered scan", e.idxInfo.Name).At("executor.indexScanExecutor")
	}
	e.rids = rangeIdx.ScanRange(nil, nil, e.node.Ascending)
	return nil
}

func (e *indexScanExecutor) Next() (*tuple.Tuple, bool, error) {
	for e.pos < len(e.rids) {
		rid := e.rids[e.pos]
		e.pos++
		meta, t, ok := e.info.Heap.GetTuple(rid)
		if !ok || meta.IsDeleted {
			continue
		}
		return t, false, nil
	}
	return nil, true, nil
}

// vectorIndexScanExecutor is the runtime counterpart of the core
// vector-specific optimizer rewrite (spec.md §4.7 rule 10): the query
// vector is resolved once at Init and the underlying index does the
// candidate-generation work.
type vectorIndexScanExecutor struct {
	node    *plan.VectorIndexScan
	info    *catalog.TableInfo
	idxInfo *catalog.IndexInfo
	rids    []page.RID
	pos     int
}

func newVectorIndexScanExecutor(ctx *Context, node *plan.VectorIndexScan) (*vectorIndexScanExecutor, error) {
	info, err := ctx.Catalog.GetTableByOID(node.TableOID)
	if err != nil {
		return nil, err
	}
	idxInfo, err := ctx.Catalog.GetIndex(info.Name, node.IndexName)
	if err != nil {
		return nil, err
	}
	return &vectorIndexScanExecutor{node: node, info: info, idxInfo: idxInfo}, nil
}

func (e *vectorIndexScanExecutor) OutputSchema() *schema.Schema { return e.node.OutputSchema() }

func (e *vectorIndexScanExecutor) Init() error {
	vecIdx, ok := e.idxInfo.Index.(catalog.VectorIndex)
	if !ok {
		return errs.New(errs.Invariant, "index %q is not a vector index", e.idxInfo.Name).At("executor.vectorIndexScanExecutor")
	}
	query := e.node.Query.Eval(nil, nil)
	if query.Type() != types.Vector {
		return errs.New(errs.TypeMismatch, "vector index scan query must evaluate to a vector, got %s", query.Type()).At("executor.vectorIndexScanExecutor")
	}
	e.rids = vecIdx.ScanVector(query.AsVector(), e.node.K, e.node.Options)
	return nil
}

func (e *vectorIndexScanExecutor) Next() (*tuple.Tuple, bool, error) {
	for e.pos < len(e.rids) {
		rid := e.rids[e.pos]
		e.pos++
		meta, t, ok := e.info.Heap.GetTuple(rid)
		if !ok || meta.IsDeleted {
			continue
		}
		return t, false, nil
	}
	return nil, true, nil
}

// mockScanExecutor serves a fixed, by-name row set registered on the
// Context (spec.md §4.5.9), for exercising the rest of the executor tree
// in tests without a catalog table backing it.
type mockScanExecutor struct {
	node   *plan.MockScan
	rows   []*tuple.Tuple
	schema *schema.Schema
	pos    int
}

func newMockScanExecutor(ctx *Context, node *plan.MockScan) *mockScanExecutor {
	schema := node.OutputSchema()
	if real, ok := ctx.MockSchemas[node.Name]; ok {
		schema = real
	}
	return &mockScanExecutor{node: node, rows: ctx.Mocks[node.Name], schema: schema}
}

func (e *mockScanExecutor) OutputSchema() *schema.Schema { return e.schema }

func (e *mockScanExecutor) Init() error { e.pos = 0; return nil }

func (e *mockScanExecutor) Next() (*tuple.Tuple, bool, error) {
	if e.pos >= len(e.rows) {
		return nil, true, nil
	}
	t := e.rows[e.pos]
	e.pos++
	return t, false, nil
}

// InitCheck wraps an Executor and counts Init/Next calls made against it
// (spec.md §4.5.9), so a join test can assert the pull protocol drove its
// children the expected number of times without instrumenting the join
// executor itself.
type InitCheck struct {
	Executor
	InitCount int
	NextCount int
}

// NewInitCheck wraps child for call counting.
func NewInitCheck(child Executor) *InitCheck {
	return &InitCheck{Executor: child}
}

func (c *InitCheck) Init() error {
	c.InitCount++
	return c.Executor.Init()
}

func (c *InitCheck) Next() (*tuple.Tuple, bool, error) {
	c.NextCount++
	return c.Executor.Next()
}

// CheckInitJoinInvariant asserts the join-correctness relationship spec.md
// §4.5.9 requires between a join's two children: right's init count must
// track left's next count with at most one call of slack. A join that
// re-inits its inner (right) child once per outer (left) row satisfies it;
// nestedLoopJoinExecutor inits right once and buffers its rows, so it
// satisfies the check only while left has produced at most one row.
func CheckInitJoinInvariant(left, right *InitCheck) bool {
	return right.InitCount+1 >= left.NextCount
}

// valuesExecutor emits a compiled constant row set (a VALUES clause or the
// source of a literal-rows INSERT).
type valuesExecutor struct {
	node *plan.Values
	pos  int
}

func newValuesExecutor(node *plan.Values) *valuesExecutor {
	return &valuesExecutor{node: node}
}

func (e *valuesExecutor) OutputSchema() *schema.Schema { return e.node.OutputSchema() }

func (e *valuesExecutor) Init() error { e.pos = 0; return nil }

func (e *valuesExecutor) Next() (*tuple.Tuple, bool, error) {
	if e.pos >= len(e.node.Rows) {
		return nil, true, nil
	}
	row := e.node.Rows[e.pos]
	e.pos++
	schema := e.node.OutputSchema()
	values := make([]types.Value, len(row))
	for i, ex := range row {
		values[i] = ex.Eval(nil, schema)
	}
	return tuple.New(values, schema), false, nil
}
