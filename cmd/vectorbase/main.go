// Command vectorbase wires the catalog, buffer pool, planner, optimizer
// and execution engine together over a fixed demo workload. The SQL
// lexer/parser and binder are out of scope (spec.md §1); this stands in
// for them the way the teacher's own main/main.go hard-codes a snippet
// instead of reading from a shell, except here it builds the bound AST
// by hand and drives it end to end through every layer this core owns.
package main

import (
	"fmt"

	"github.com/vectorbase/vectorbase/catalog"
	"github.com/vectorbase/vectorbase/config"
	"github.com/vectorbase/vectorbase/engine"
	"github.com/vectorbase/vectorbase/executor"
	"github.com/vectorbase/vectorbase/logging"
	"github.com/vectorbase/vectorbase/optimizer"
	"github.com/vectorbase/vectorbase/planner"
	"github.com/vectorbase/vectorbase/storage/buffer"
	"github.com/vectorbase/vectorbase/storage/disk"
	"github.com/vectorbase/vectorbase/types"
)

func main() {
	log, err := logging.New("info")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	pool := buffer.NewPool(64, disk.NewMemManager())
	cat := catalog.New(pool, log)
	pln := planner.New(cat)
	session := config.NewSession()
	opt := optimizer.New(cat, session, log)
	eng := engine.New(log)
	ctx := executor.NewContext(cat, session, log)

	if _, err := pln.ExecuteCreateTable(&planner.Create{
		Table: "docs",
		Columns: []planner.ColumnDef{
			{Name: "id", Type: types.Integer},
			{Name: "title", Type: types.Varchar, Size: 64},
			{Name: "embedding", Type: types.Vector, Size: 4},
		},
	}); err != nil {
		panic(err)
	}

	insertPlan, err := pln.PlanInsert(&planner.Insert{
		Table: "docs",
		Values: [][]planner.BoundExpr{
			{
				planner.Constant{Value: types.NewInteger(1)},
				planner.Constant{Value: types.NewVarchar("aardvark")},
				planner.Constant{Value: types.NewVector([]float64{1, 0, 0, 0})},
			},
			{
				planner.Constant{Value: types.NewInteger(2)},
				planner.Constant{Value: types.NewVarchar("barnacle")},
				planner.Constant{Value: types.NewVector([]float64{0, 1, 0, 0})},
			},
		},
	})
	if err != nil {
		panic(err)
	}
	if _, err := eng.Execute(ctx, opt.Optimize(insertPlan)); err != nil {
		panic(err)
	}

	selectPlan, err := pln.PlanSelect(&planner.Select{
		TableRef:   &planner.TableRef{BaseTable: "docs"},
		SelectList: []planner.BoundExpr{planner.Star{}},
	})
	if err != nil {
		panic(err)
	}
	result, err := eng.Execute(ctx, opt.Optimize(selectPlan))
	if err != nil {
		panic(err)
	}

	for _, row := range result.Rows {
		vals := row.Values(result.Schema)
		fmt.Println(vals)
	}
}
