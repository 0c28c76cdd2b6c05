package plan

import (
	"github.com/vectorbase/vectorbase/catalog"
	"github.com/vectorbase/vectorbase/expression"
	"github.com/vectorbase/vectorbase/schema"
)

// Filter drops child rows whose predicate is not SQL-true (spec.md §4.5.2).
type Filter struct {
	base
	Predicate expression.Expr
}

func NewFilter(child Plan, predicate expression.Expr) *Filter {
	return &Filter{base: base{schema: child.OutputSchema(), children: []Plan{child}}, Predicate: predicate}
}

func (*Filter) Kind() Kind { return KindFilter }

// Projection evaluates Exprs against each child row (spec.md §4.5.3).
type Projection struct {
	base
	Exprs []expression.Expr
}

func NewProjection(schema *schema.Schema, child Plan, exprs []expression.Expr) *Projection {
	return &Projection{base: base{schema: schema, children: []Plan{child}}, Exprs: exprs}
}

func (*Projection) Kind() Kind { return KindProjection }

// JoinType distinguishes the join variants this core executes (spec.md
// §4.5.4); anything else fails fast with NotImplemented.
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
)

func (j JoinType) String() string {
	if j == LeftJoin {
		return "LEFT"
	}
	return "INNER"
}

// NestedLoopJoin drains Right into memory on init, then walks Left probing
// the buffer for each row (spec.md §4.5.4).
type NestedLoopJoin struct {
	base
	JoinType  JoinType
	Predicate expression.Expr
}

func NewNestedLoopJoin(schema *schema.Schema, joinType JoinType, left, right Plan, predicate expression.Expr) *NestedLoopJoin {
	return &NestedLoopJoin{base: base{schema: schema, children: []Plan{left, right}}, JoinType: joinType, Predicate: predicate}
}

func (*NestedLoopJoin) Kind() Kind { return KindNestedLoopJoin }

func (n *NestedLoopJoin) Left() Plan  { return n.children[0] }
func (n *NestedLoopJoin) Right() Plan { return n.children[1] }

// HashJoin is the optimizer's rewrite target (spec.md §4.7 rule 5) when a
// NestedLoopJoin's predicate is a conjunction of left.x = right.y
// equalities: it builds an in-memory hash table over Right keyed by
// RightKeys on init, then probes it once per Left row via LeftKeys.
type HashJoin struct {
	base
	JoinType            JoinType
	LeftKeys, RightKeys []expression.Expr
}

func NewHashJoin(schema *schema.Schema, joinType JoinType, left, right Plan, leftKeys, rightKeys []expression.Expr) *HashJoin {
	return &HashJoin{base: base{schema: schema, children: []Plan{left, right}}, JoinType: joinType, LeftKeys: leftKeys, RightKeys: rightKeys}
}

func (*HashJoin) Kind() Kind { return KindHashJoin }

func (n *HashJoin) Left() Plan  { return n.children[0] }
func (n *HashJoin) Right() Plan { return n.children[1] }

// NestedIndexJoin is the optimizer's rewrite target (spec.md §4.7 rule 6)
// when the right side of a join is a scan over a table carrying an index
// on the join key: for each Outer row it probes IndexName directly instead
// of materializing the whole right side.
type NestedIndexJoin struct {
	base
	JoinType     JoinType
	TableOID     catalog.OID
	IndexName    string
	OuterKeyExpr expression.Expr // evaluated against the outer (left) row
}

func NewNestedIndexJoin(schema *schema.Schema, joinType JoinType, outer Plan, tableOID catalog.OID, indexName string, outerKeyExpr expression.Expr) *NestedIndexJoin {
	return &NestedIndexJoin{base: base{schema: schema, children: []Plan{outer}}, JoinType: joinType, TableOID: tableOID, IndexName: indexName, OuterKeyExpr: outerKeyExpr}
}

func (*NestedIndexJoin) Kind() Kind { return KindNestedIndexJoin }

func (n *NestedIndexJoin) Outer() Plan { return n.children[0] }
