package planner

import (
	"github.com/vectorbase/vectorbase/errs"
	"github.com/vectorbase/vectorbase/expression"
	"github.com/vectorbase/vectorbase/plan"
	"github.com/vectorbase/vectorbase/schema"
	"github.com/vectorbase/vectorbase/types"
)

func countSchema() *schema.Schema {
	return schema.NewSchema([]schema.Column{schema.NewColumn("count", types.BigInt)})
}

// PlanInsert implements spec.md §4.6's INSERT rule: plan the source (a
// SELECT or a literal VALUES list) and validate it is shape-equal to the
// target table before emitting the mutation plan.
func (p *Planner) PlanInsert(ins *Insert) (plan.Plan, error) {
	info, err := p.cat.GetTableByName(ins.Table)
	if err != nil {
		return nil, err
	}

	var source plan.Plan
	if ins.Source != nil {
		source, err = p.PlanSelect(ins.Source)
		if err != nil {
			return nil, err
		}
	} else {
		rows := make([][]expression.Expr, len(ins.Values))
		for i, row := range ins.Values {
			if len(row) != int(info.Schema.ColumnCount()) {
				return nil, errs.New(errs.SchemaMismatch, "insert row %d has %d values, table %q has %d columns",
					i, len(row), ins.Table, info.Schema.ColumnCount()).At("planner.PlanInsert")
			}
			exprs := make([]expression.Expr, len(row))
			for j, v := range row {
				exprs[j], err = buildSingle(v, info.Schema)
				if err != nil {
					return nil, err
				}
			}
			rows[i] = exprs
		}
		source = plan.NewValues(info.Schema, rows)
	}

	if !schema.ShapeEqual(source.OutputSchema(), info.Schema) {
		return nil, errs.New(errs.SchemaMismatch, "insert source does not match table %q's shape", ins.Table).At("planner.PlanInsert")
	}
	return plan.NewInsert(countSchema(), info.OID, source), nil
}

// PlanUpdate implements spec.md §4.6's UPDATE rule: scan the target table,
// filter by WHERE, and evaluate one SetExprs slot per table column — the
// bound column's replacement expression where named in Sets, or an
// identity ColumnRef carrying the existing value through otherwise.
func (p *Planner) PlanUpdate(upd *Update) (plan.Plan, error) {
	info, err := p.cat.GetTableByName(upd.Table)
	if err != nil {
		return nil, err
	}
	var from plan.Plan = plan.NewSeqScan(info.Schema, info.OID, nil)
	if upd.Where != nil {
		pred, err := buildSingle(upd.Where, from.OutputSchema())
		if err != nil {
			return nil, err
		}
		from = plan.NewFilter(from, pred)
	}

	schema := from.OutputSchema()
	setExprs := make([]expression.Expr, schema.ColumnCount())
	for i := uint32(0); i < schema.ColumnCount(); i++ {
		col := schema.Column(i)
		if boundVal, ok := upd.Sets[col.Name]; ok {
			setExprs[i], err = buildSingle(boundVal, schema)
			if err != nil {
				return nil, err
			}
			continue
		}
		setExprs[i] = expression.NewColumnRef(0, i, col.Type)
	}
	return plan.NewUpdate(countSchema(), info.OID, from, setExprs), nil
}

// PlanDelete implements spec.md §4.6's DELETE rule: scan the target table,
// filter by WHERE, and tombstone every surviving row.
func (p *Planner) PlanDelete(del *Delete) (plan.Plan, error) {
	info, err := p.cat.GetTableByName(del.Table)
	if err != nil {
		return nil, err
	}
	var from plan.Plan = plan.NewSeqScan(info.Schema, info.OID, nil)
	if del.Where != nil {
		pred, err := buildSingle(del.Where, from.OutputSchema())
		if err != nil {
			return nil, err
		}
		from = plan.NewFilter(from, pred)
	}
	return plan.NewDelete(countSchema(), info.OID, from), nil
}
