// Package plan implements the plan tree (spec.md §3): immutable, typed
// nodes each carrying an output schema and children. Dispatch is by Kind
// tag rather than a virtual-method hierarchy, following the teacher's
// tagged-union style (execution/plans in the reference pack) adapted from
// Go-bustub's embedded-base-struct idiom.
package plan

import "github.com/vectorbase/vectorbase/schema"

// Kind tags a plan node's concrete shape.
type Kind int

const (
	KindSeqScan Kind = iota
	KindIndexScan
	KindVectorIndexScan
	KindFilter
	KindProjection
	KindNestedLoopJoin
	KindHashJoin
	KindNestedIndexJoin
	KindAggregation
	KindSort
	KindLimit
	KindTopN
	KindValues
	KindInsert
	KindUpdate
	KindDelete
	KindMockScan
)

func (k Kind) String() string {
	return [...]string{
		"SeqScan", "IndexScan", "VectorIndexScan", "Filter", "Projection",
		"NestedLoopJoin", "HashJoin", "NestedIndexJoin", "Aggregation", "Sort",
		"Limit", "TopN", "Values", "Insert", "Update", "Delete", "MockScan",
	}[k]
}

// Plan is the shared interface every node satisfies (spec.md §3 "Plan node").
type Plan interface {
	OutputSchema() *schema.Schema
	Children() []Plan
	Kind() Kind
}

// base holds the two fields every node shares; concrete nodes embed it.
type base struct {
	schema   *schema.Schema
	children []Plan
}

func (b *base) OutputSchema() *schema.Schema { return b.schema }
func (b *base) Children() []Plan             { return b.children }

// WithChildren rebuilds a node upward with new children and the same
// output schema — the primitive the optimizer's bottom-up rewrite uses to
// clone a subtree without touching what it didn't rewrite (spec.md §9).
func WithChildren(p Plan, children []Plan) Plan {
	switch n := p.(type) {
	case *Filter:
		c := *n
		c.base.children = children
		return &c
	case *Projection:
		c := *n
		c.base.children = children
		return &c
	case *NestedLoopJoin:
		c := *n
		c.base.children = children
		return &c
	case *HashJoin:
		c := *n
		c.base.children = children
		return &c
	case *NestedIndexJoin:
		c := *n
		c.base.children = children
		return &c
	case *Aggregation:
		c := *n
		c.base.children = children
		return &c
	case *Sort:
		c := *n
		c.base.children = children
		return &c
	case *Limit:
		c := *n
		c.base.children = children
		return &c
	case *TopN:
		c := *n
		c.base.children = children
		return &c
	case *Insert:
		c := *n
		c.base.children = children
		return &c
	case *Update:
		c := *n
		c.base.children = children
		return &c
	case *Delete:
		c := *n
		c.base.children = children
		return &c
	default:
		return p // leaves (SeqScan, IndexScan, VectorIndexScan, Values, MockScan) have no children
	}
}

// WithSchema rebuilds a node with a new output schema and its existing
// children — the counterpart to WithChildren the optimizer's
// Merge-projection rule (spec.md §4.7 rule 2) uses to fold a renaming
// Projection into its child without losing the rename.
func WithSchema(p Plan, schema *schema.Schema) Plan {
	switch n := p.(type) {
	case *SeqScan:
		c := *n
		c.base.schema = schema
		return &c
	case *IndexScan:
		c := *n
		c.base.schema = schema
		return &c
	case *VectorIndexScan:
		c := *n
		c.base.schema = schema
		return &c
	case *Filter:
		c := *n
		c.base.schema = schema
		return &c
	case *Projection:
		c := *n
		c.base.schema = schema
		return &c
	case *NestedLoopJoin:
		c := *n
		c.base.schema = schema
		return &c
	case *HashJoin:
		c := *n
		c.base.schema = schema
		return &c
	case *NestedIndexJoin:
		c := *n
		c.base.schema = schema
		return &c
	case *Aggregation:
		c := *n
		c.base.schema = schema
		return &c
	case *Sort:
		c := *n
		c.base.schema = schema
		return &c
	case *Limit:
		c := *n
		c.base.schema = schema
		return &c
	case *TopN:
		c := *n
		c.base.schema = schema
		return &c
	case *Values:
		c := *n
		c.base.schema = schema
		return &c
	case *MockScan:
		c := *n
		c.base.schema = schema
		return &c
	default:
		return p
	}
}
