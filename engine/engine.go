// Package engine drives a built executor tree to completion, the way the
// teacher's execution/executors.ExecutionEngine.Execute loops Init/Next,
// generalized with the panic-recovery boundary spec.md §7 requires.
package engine

import (
	"github.com/vectorbase/vectorbase/errs"
	"github.com/vectorbase/vectorbase/executor"
	"github.com/vectorbase/vectorbase/logging"
	"github.com/vectorbase/vectorbase/plan"
	"github.com/vectorbase/vectorbase/schema"
	"github.com/vectorbase/vectorbase/storage/tuple"
)

// Result is a materialized statement result: every row plus the schema
// they were produced against.
type Result struct {
	Schema *schema.Schema
	Rows   []*tuple.Tuple
}

// Engine executes a plan tree end to end.
type Engine struct {
	log *logging.Logger
}

func New(log *logging.Logger) *Engine {
	if log == nil {
		log = logging.Nop()
	}
	return &Engine{log: log}
}

// Execute builds p's executor tree and drains it to a Result.
//
// Per spec.md §7, executors never catch failures themselves; only this
// boundary does. ExecutionAborted and Invariant are both raised as panics
// (errs.Invariantf panics by construction; an executor that must abort
// mid-pipeline panics with an ExecutionAborted-kind *errs.Error rather
// than plumbing an early-exit error through every intermediate Next()).
// Expression evaluation also has no error return (expression.Expr.Eval
// yields a bare types.Value), so a TypeMismatch such as
// VectorDistance's also surfaces as a panic. This boundary recovers any
// *errs.Error, of any kind, into a normal returned error; anything else
// (a panic not carrying an *errs.Error) is a genuine programming bug and
// is left to propagate.
func (e *Engine) Execute(ctx *executor.Context, p plan.Plan) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ee, ok := r.(*errs.Error); ok {
				e.log.Warnw("execution aborted", "kind", ee.Kind, "msg", ee.Msg)
				result, err = nil, ee
				return
			}
			panic(r)
		}
	}()

	exec, buildErr := executor.Build(ctx, p)
	if buildErr != nil {
		return nil, buildErr
	}
	if initErr := exec.Init(); initErr != nil {
		return nil, initErr
	}

	var rows []*tuple.Tuple
	for {
		row, done, nextErr := exec.Next()
		if nextErr != nil {
			return nil, nextErr
		}
		if done {
			break
		}
		rows = append(rows, row)
	}
	return &Result{Schema: exec.OutputSchema(), Rows: rows}, nil
}
