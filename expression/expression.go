// Package expression implements the expression tree (spec.md §3/§4.2):
// column-ref, constant, comparison, arithmetic, logical and vector-distance
// nodes, each exposing Eval/EvalJoin over a tuple plus its schema.
package expression

import (
	"github.com/vectorbase/vectorbase/schema"
	"github.com/vectorbase/vectorbase/storage/tuple"
	"github.com/vectorbase/vectorbase/types"
)

// Expr is the shared interface every expression node satisfies.
type Expr interface {
	// OutputType is the type this expression produces.
	OutputType() types.TypeID
	// Children returns the expression's operands, for tree walks.
	Children() []Expr
	// Eval evaluates against a single tuple (SeqScan/Filter/Projection).
	Eval(t *tuple.Tuple, schema *schema.Schema) types.Value
	// EvalJoin evaluates against a pair of tuples from a join's two sides;
	// ColumnRef.tupleIdx selects which side a given reference reads from.
	EvalJoin(left *tuple.Tuple, leftSchema *schema.Schema, right *tuple.Tuple, rightSchema *schema.Schema) types.Value
}
