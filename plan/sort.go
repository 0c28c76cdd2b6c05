package plan

import "github.com/vectorbase/vectorbase/expression"

// OrderByKey is one `(direction, expr)` entry of a Sort/TopN's ordering
// key vector (spec.md §4.5.6).
type OrderByKey struct {
	Expr      expression.Expr
	Ascending bool
}

// Sort stable-sorts every child row by Keys; it is the source half of the
// Sort+Limit→TopN rewrite (spec.md §4.7 rule 9) and of the core
// vector-index rewrite (rule 10).
type Sort struct {
	base
	Keys []OrderByKey
}

func NewSort(child Plan, keys []OrderByKey) *Sort {
	return &Sort{base: base{schema: child.OutputSchema(), children: []Plan{child}}, Keys: keys}
}

func (*Sort) Kind() Kind { return KindSort }

// Limit forwards at most N rows from its child; OFFSET is NotImplemented
// (spec.md §1 Non-goals).
type Limit struct {
	base
	N int
}

func NewLimit(child Plan, n int) *Limit {
	return &Limit{base: base{schema: child.OutputSchema(), children: []Plan{child}}, N: n}
}

func (*Limit) Kind() Kind { return KindLimit }

// TopN is the fused Sort+Limit form: the first N child rows in Keys order
// (spec.md §4.5.6), produced by rule 9 of the optimizer. Its executor
// sorts every child row and keeps the first N; it holds no bounded queue.
type TopN struct {
	base
	Keys []OrderByKey
	N    int
}

func NewTopN(child Plan, keys []OrderByKey, n int) *TopN {
	return &TopN{base: base{schema: child.OutputSchema(), children: []Plan{child}}, Keys: keys, N: n}
}

func (*TopN) Kind() Kind { return KindTopN }
