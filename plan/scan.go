package plan

import (
	"github.com/vectorbase/vectorbase/catalog"
	"github.com/vectorbase/vectorbase/expression"
	"github.com/vectorbase/vectorbase/schema"
)

// SeqScan walks a table's heap and returns every surviving row, optionally
// filtered in-place by Predicate when the Merge-filter-scan rule (spec.md
// §4.7 rule 3) has fused a Filter into it.
type SeqScan struct {
	base
	TableOID  catalog.OID
	Predicate expression.Expr // nil when no filter was fused
}

func NewSeqScan(schema *schema.Schema, tableOID catalog.OID, predicate expression.Expr) *SeqScan {
	return &SeqScan{base: base{schema: schema}, TableOID: tableOID, Predicate: predicate}
}

func (*SeqScan) Kind() Kind { return KindSeqScan }

// IndexScan probes an ordered or hash index directly, either for point
// equality (spec.md §4.7 rule 7) or for an ordered prefix scan feeding an
// ORDER BY (rule 8).
type IndexScan struct {
	base
	TableOID  catalog.OID
	IndexName string
	// Equals holds the probe key when this is an equality lookup; nil for
	// an ordered range/prefix scan, in which case Ascending governs order.
	Equals    []expression.Expr
	Ascending bool
}

func NewIndexScan(schema *schema.Schema, tableOID catalog.OID, indexName string, equals []expression.Expr, ascending bool) *IndexScan {
	return &IndexScan{base: base{schema: schema}, TableOID: tableOID, IndexName: indexName, Equals: equals, Ascending: ascending}
}

func (*IndexScan) Kind() Kind { return KindIndexScan }

// VectorIndexScan is the rewrite target of the core vector-specific
// optimizer rule (spec.md §4.7 rule 10): Query must be constant at plan
// time and K bounds the result set.
type VectorIndexScan struct {
	base
	TableOID  catalog.OID
	IndexName string
	Query     expression.Expr
	K         int
	Options   catalog.VectorScanOptions
}

func NewVectorIndexScan(schema *schema.Schema, tableOID catalog.OID, indexName string, query expression.Expr, k int, opts catalog.VectorScanOptions) *VectorIndexScan {
	return &VectorIndexScan{base: base{schema: schema}, TableOID: tableOID, IndexName: indexName, Query: query, K: k, Options: opts}
}

func (*VectorIndexScan) Kind() Kind { return KindVectorIndexScan }

// MockScan returns a hard-coded, by-name table for executor tests
// (spec.md §4.5.9); names conventionally start with "__mock".
type MockScan struct {
	base
	Name string
}

func NewMockScan(schema *schema.Schema, name string) *MockScan {
	return &MockScan{base: base{schema: schema}, Name: name}
}

func (*MockScan) Kind() Kind { return KindMockScan }

// Values emits a compiled constant row set, one expression vector per row.
type Values struct {
	base
	Rows [][]expression.Expr
}

func NewValues(schema *schema.Schema, rows [][]expression.Expr) *Values {
	return &Values{base: base{schema: schema}, Rows: rows}
}

func (*Values) Kind() Kind { return KindValues }
