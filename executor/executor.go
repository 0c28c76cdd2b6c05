// Package executor implements the pull-based (Volcano) execution engine of
// spec.md §4.5: every plan.Plan kind gets a concrete Executor that pulls
// rows from its children one at a time via Next. The shape follows the
// teacher's execution/executors package (Init-then-Next, a done flag
// instead of an io.EOF sentinel) generalized to this core's plan tree.
package executor

import (
	"github.com/vectorbase/vectorbase/catalog"
	"github.com/vectorbase/vectorbase/config"
	"github.com/vectorbase/vectorbase/logging"
	"github.com/vectorbase/vectorbase/schema"
	"github.com/vectorbase/vectorbase/storage/tuple"
)

// Executor is the shared interface every plan kind's runtime counterpart
// satisfies (spec.md §4.5). Init must be called exactly once before the
// first Next call; Next returns done=true once (with a nil tuple) when
// exhausted and must not be called again afterward.
type Executor interface {
	Init() error
	Next() (row *tuple.Tuple, done bool, err error)
	OutputSchema() *schema.Schema
}

// Context carries the collaborators every executor may need: the catalog
// for table/index lookups, the session for vector-scan tuning knobs, and a
// logger for row-count/warning diagnostics (spec.md §9's Insert Open
// Question: index-maintenance failures are logged and swallowed, not
// aborted).
type Context struct {
	Catalog *catalog.Catalog
	Session *config.Session
	Log     *logging.Logger

	// Mocks supplies a fixed row set for MockScan by name (spec.md §4.5.9),
	// used by executor tests instead of a real catalog table.
	Mocks map[string][]*tuple.Tuple

	// MockSchemas overrides a MockScan node's placeholder schema (the
	// planner has no catalog entry to resolve a mock table's real shape
	// against, per planner.planBaseTable) with the schema the caller
	// actually registered the rows under.
	MockSchemas map[string]*schema.Schema
}

func NewContext(cat *catalog.Catalog, session *config.Session, log *logging.Logger) *Context {
	if session == nil {
		session = config.NewSession()
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Context{
		Catalog:     cat,
		Session:     session,
		Log:         log,
		Mocks:       map[string][]*tuple.Tuple{},
		MockSchemas: map[string]*schema.Schema{},
	}
}
