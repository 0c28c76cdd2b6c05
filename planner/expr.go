package planner

import (
	"github.com/vectorbase/vectorbase/errs"
	"github.com/vectorbase/vectorbase/expression"
	"github.com/vectorbase/vectorbase/schema"
	"github.com/vectorbase/vectorbase/types"
	"github.com/vectorbase/vectorbase/vectorfn"
)

var compareOps = map[string]expression.CompareOp{
	"=": expression.Eq, "<>": expression.Ne, "!=": expression.Ne,
	"<": expression.Lt, "<=": expression.Le, ">": expression.Gt, ">=": expression.Ge,
}

var arithOps = map[string]expression.ArithOp{
	"+": expression.Add, "-": expression.Sub, "*": expression.Mul, "/": expression.Div,
}

var vectorOps = map[string]vectorfn.Metric{
	"<->": vectorfn.L2, "<#>": vectorfn.InnerProduct, "<=>": vectorfn.Cosine,
}

// buildSingle resolves a bound expression against a single flattened
// output schema (spec.md §4.2's Eval side): every ColumnRef becomes a
// TupleIdx-0 expression.ColumnRef. This is the resolver used for
// everything above a join — Filter, Projection, ORDER BY, GROUP BY keys —
// once the join itself has materialized its two sides into one row.
func buildSingle(e BoundExpr, schema *schema.Schema) (expression.Expr, error) {
	switch n := e.(type) {
	case Constant:
		return expression.NewConstant(n.Value), nil
	case ColumnRef:
		idx, ok := schema.ColumnIndex(n.Column)
		if !ok {
			return nil, errs.New(errs.SchemaMismatch, "unknown column %q", n.Column).At("planner.buildSingle")
		}
		return expression.NewColumnRef(0, idx, schema.Column(idx).Type), nil
	case Alias:
		return buildSingle(n.Child, schema)
	case BinaryOp:
		return buildBinarySingle(n, schema)
	default:
		return nil, errs.New(errs.NotImplemented, "expression kind %T not valid in this position", e).At("planner.buildSingle")
	}
}

func buildBinarySingle(n BinaryOp, schema *schema.Schema) (expression.Expr, error) {
	left, err := buildSingle(n.Left, schema)
	if err != nil {
		return nil, err
	}
	right, err := buildSingle(n.Right, schema)
	if err != nil {
		return nil, err
	}
	return combineBinary(n.Op, left, right)
}

func combineBinary(op string, left, right expression.Expr) (expression.Expr, error) {
	if cmp, ok := compareOps[op]; ok {
		return expression.NewComparison(cmp, left, right), nil
	}
	if ar, ok := arithOps[op]; ok {
		return expression.NewArithmetic(ar, left, right, resultType(left, right)), nil
	}
	if metric, ok := vectorOps[op]; ok {
		return expression.NewVectorDistance(metric, left, right), nil
	}
	switch op {
	case "and", "AND":
		return expression.NewAnd(left, right), nil
	case "or", "OR":
		return expression.NewOr(left, right), nil
	}
	return nil, errs.New(errs.NotImplemented, "unsupported operator %q", op).At("planner.combineBinary")
}

func resultType(left, right expression.Expr) types.TypeID {
	if left.OutputType() == types.Decimal || right.OutputType() == types.Decimal {
		return types.Decimal
	}
	return types.BigInt
}

// buildJoin resolves a bound expression against a join's two not-yet-
// materialized sides (spec.md §4.2's EvalJoin side): ColumnRef is looked
// up in leftSchema first, then rightSchema, and tagged with the matching
// TupleIdx. Used only for the join predicate itself.
func buildJoin(e BoundExpr, leftSchema, rightSchema *schema.Schema) (expression.Expr, error) {
	switch n := e.(type) {
	case Constant:
		return expression.NewConstant(n.Value), nil
	case ColumnRef:
		if idx, ok := leftSchema.ColumnIndex(n.Column); ok {
			return expression.NewColumnRef(0, idx, leftSchema.Column(idx).Type), nil
		}
		if idx, ok := rightSchema.ColumnIndex(n.Column); ok {
			return expression.NewColumnRef(1, idx, rightSchema.Column(idx).Type), nil
		}
		return nil, errs.New(errs.SchemaMismatch, "unknown column %q in join predicate", n.Column).At("planner.buildJoin")
	case Alias:
		return buildJoin(n.Child, leftSchema, rightSchema)
	case BinaryOp:
		left, err := buildJoin(n.Left, leftSchema, rightSchema)
		if err != nil {
			return nil, err
		}
		right, err := buildJoin(n.Right, leftSchema, rightSchema)
		if err != nil {
			return nil, err
		}
		return combineBinary(n.Op, left, right)
	default:
		return nil, errs.New(errs.NotImplemented, "expression kind %T not valid in a join predicate", e).At("planner.buildJoin")
	}
}
