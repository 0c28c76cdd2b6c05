package planner

import (
	"fmt"
	"strings"

	"github.com/vectorbase/vectorbase/catalog"
	"github.com/vectorbase/vectorbase/errs"
	"github.com/vectorbase/vectorbase/expression"
	"github.com/vectorbase/vectorbase/plan"
	"github.com/vectorbase/vectorbase/schema"
	"github.com/vectorbase/vectorbase/types"
)

// Planner turns bound statements into plan trees (spec.md §4.6). It
// consults the catalog for table/index resolution but never mutates it
// except through the two Execute* DDL helpers.
type Planner struct {
	cat *catalog.Catalog
}

func New(cat *catalog.Catalog) *Planner { return &Planner{cat: cat} }

// PlanSelect implements spec.md §4.6's rules for a bound SELECT.
func (p *Planner) PlanSelect(sel *Select) (plan.Plan, error) {
	from, err := p.planTableRef(sel.TableRef)
	if err != nil {
		return nil, err
	}

	if sel.Where != nil {
		pred, err := buildSingle(sel.Where, from.OutputSchema())
		if err != nil {
			return nil, err
		}
		from = plan.NewFilter(from, pred)
	}

	hasAgg := len(sel.GroupBy) > 0 || containsAgg(sel.SelectList) || containsAggOne(sel.Having)
	if hasAgg {
		from, err = p.planAggregate(from, sel)
		if err != nil {
			return nil, err
		}
	}

	if len(sel.OrderBy) > 0 {
		keys := make([]plan.OrderByKey, len(sel.OrderBy))
		for i, ob := range sel.OrderBy {
			e, err := buildSingle(ob.Expr, from.OutputSchema())
			if err != nil {
				return nil, err
			}
			keys[i] = plan.OrderByKey{Expr: e, Ascending: ob.Ascending}
		}
		from = plan.NewSort(from, keys)
	}

	if sel.LimitOffset != nil && *sel.LimitOffset != 0 {
		return nil, errs.New(errs.NotImplemented, "OFFSET is not supported").At("planner.PlanSelect")
	}
	if sel.LimitCount != nil {
		from = plan.NewLimit(from, *sel.LimitCount)
	}

	if sel.IsDistinct {
		return p.planDistinct(from)
	}

	if !hasAgg {
		return p.planProjection(from, sel.SelectList)
	}
	// Aggregation's output is every GROUP BY key followed by every aggregate
	// (planAggregate's layout), not the select list's order; no projection
	// is added to reorder it.
	return from, nil
}

func containsAgg(exprs []BoundExpr) bool {
	for _, e := range exprs {
		if containsAggOne(e) {
			return true
		}
	}
	return false
}

func containsAggOne(e BoundExpr) bool {
	switch n := e.(type) {
	case nil:
		return false
	case AggCall:
		return true
	case Alias:
		return containsAggOne(n.Child)
	case BinaryOp:
		return containsAggOne(n.Left) || containsAggOne(n.Right)
	default:
		return false
	}
}

func (p *Planner) planTableRef(ref *TableRef) (plan.Plan, error) {
	switch {
	case ref.Join != nil:
		return p.planJoin(ref.Join)
	case ref.Subquery != nil:
		return p.planSubquery(ref)
	default:
		return p.planBaseTable(ref.BaseTable)
	}
}

func (p *Planner) planBaseTable(name string) (plan.Plan, error) {
	if strings.HasPrefix(name, "__mock") {
		// Mock tables carry no catalog entry; callers of the executor
		// factory supply their schema out of band (spec.md §4.5.9), so the
		// planner emits a MockScan with an empty placeholder schema that
		// the factory replaces at construction time.
		return plan.NewMockScan(schema.NewSchema(nil), name), nil
	}
	info, err := p.cat.GetTableByName(name)
	if err != nil {
		return nil, err
	}
	return plan.NewSeqScan(info.Schema, info.OID, nil), nil
}

func (p *Planner) planJoin(j *JoinRef) (plan.Plan, error) {
	left, err := p.planTableRef(j.Left)
	if err != nil {
		return nil, err
	}
	right, err := p.planTableRef(j.Right)
	if err != nil {
		return nil, err
	}
	schema := concatSchemas(left.OutputSchema(), right.OutputSchema())

	var jt plan.JoinType
	var predExpr expression.Expr
	switch j.Kind {
	case CrossJoin:
		jt = plan.InnerJoin
		predExpr = expression.NewConstant(types.NewBoolean(true))
	case InnerJoinKind, LeftJoinKind:
		if j.Kind == LeftJoinKind {
			jt = plan.LeftJoin
		} else {
			jt = plan.InnerJoin
		}
		predExpr, err = buildJoin(j.Predicate, left.OutputSchema(), right.OutputSchema())
		if err != nil {
			return nil, err
		}
	default:
		return nil, errs.New(errs.NotImplemented, "join kind %v not supported", j.Kind).At("planner.planJoin")
	}
	return plan.NewNestedLoopJoin(schema, jt, left, right, predExpr), nil
}

func concatSchemas(a, b *schema.Schema) *schema.Schema {
	cols := append([]schema.Column(nil), a.Columns...)
	cols = append(cols, b.Columns...)
	return schema.NewSchema(cols)
}

// planSubquery recursively plans the derived table and renames its output
// columns with the subquery's alias (spec.md §4.6).
func (p *Planner) planSubquery(ref *TableRef) (plan.Plan, error) {
	inner, err := p.PlanSelect(ref.Subquery)
	if err != nil {
		return nil, err
	}
	innerSchema := inner.OutputSchema()
	renamed := make([]schema.Column, innerSchema.ColumnCount())
	exprs := make([]expression.Expr, innerSchema.ColumnCount())
	for i := uint32(0); i < innerSchema.ColumnCount(); i++ {
		col := innerSchema.Column(i)
		renamed[i] = schema.Column{Name: ref.Alias + "." + col.Name, Type: col.Type, Size: col.Size}
		exprs[i] = expression.NewColumnRef(0, i, col.Type)
	}
	return plan.NewProjection(schema.NewSchema(renamed), inner, exprs), nil
}

func (p *Planner) planProjection(child plan.Plan, selectList []BoundExpr) (plan.Plan, error) {
	if isStarOnly(selectList) {
		return child, nil
	}
	cols := make([]schema.Column, len(selectList))
	exprs := make([]expression.Expr, len(selectList))
	for i, item := range selectList {
		e, name, err := resolveSelectItem(item, child.OutputSchema())
		if err != nil {
			return nil, err
		}
		exprs[i] = e
		cols[i] = schema.Column{Name: name, Type: e.OutputType()}
	}
	return plan.NewProjection(schema.NewSchema(cols), child, exprs), nil
}

func isStarOnly(list []BoundExpr) bool {
	if len(list) != 1 {
		return false
	}
	_, ok := list[0].(Star)
	return ok
}

func resolveSelectItem(item BoundExpr, schema *schema.Schema) (expression.Expr, string, error) {
	if a, ok := item.(Alias); ok {
		e, err := buildSingle(a.Child, schema)
		return e, a.Name, err
	}
	e, err := buildSingle(item, schema)
	if err != nil {
		return nil, "", err
	}
	return e, exprLabel(item), nil
}

func exprLabel(e BoundExpr) string {
	switch n := e.(type) {
	case ColumnRef:
		return n.Column
	case BinaryOp:
		return fmt.Sprintf("(%s %s %s)", exprLabel(n.Left), n.Op, exprLabel(n.Right))
	default:
		return "?column?"
	}
}

// planDistinct implements the DISTINCT-as-group rewrite (spec.md §4.6):
// an Aggregation with no aggregates and every output column as a group key.
func (p *Planner) planDistinct(child plan.Plan) (plan.Plan, error) {
	schema := child.OutputSchema()
	groupBys := make([]expression.Expr, schema.ColumnCount())
	for i := uint32(0); i < schema.ColumnCount(); i++ {
		groupBys[i] = expression.NewColumnRef(0, i, schema.Column(i).Type)
	}
	return plan.NewAggregation(schema, child, groupBys, nil), nil
}
