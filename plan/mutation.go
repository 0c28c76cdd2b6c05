package plan

import (
	"github.com/vectorbase/vectorbase/catalog"
	"github.com/vectorbase/vectorbase/expression"
	"github.com/vectorbase/vectorbase/schema"
)

// Insert drains Child (the bound SELECT or VALUES source) and applies
// each row to the target table and its secondary indexes (spec.md
// §4.5.7). The single-column output schema carries the affected-row count.
type Insert struct {
	base
	TableOID catalog.OID
}

func NewInsert(schema *schema.Schema, tableOID catalog.OID, child Plan) *Insert {
	return &Insert{base: base{schema: schema, children: []Plan{child}}, TableOID: tableOID}
}

func (*Insert) Kind() Kind { return KindInsert }

// Update drains Child — rows matching the target predicate, each still
// carrying its RID — and, per row, evaluates SetExprs to build the new
// tuple, then deletes the old RID and inserts the new one (spec.md
// §4.5.7's delete-then-insert semantics; an MVCC collaborator may instead
// route this through the heap's UpdateInPlace).
type Update struct {
	base
	TableOID catalog.OID
	SetExprs []expression.Expr
}

func NewUpdate(schema *schema.Schema, tableOID catalog.OID, child Plan, setExprs []expression.Expr) *Update {
	return &Update{base: base{schema: schema, children: []Plan{child}}, TableOID: tableOID, SetExprs: setExprs}
}

func (*Update) Kind() Kind { return KindUpdate }

// Delete drains Child — rows to remove, each carrying its RID — tombstones
// each in the heap and removes it from every secondary index (spec.md §4.5.7).
type Delete struct {
	base
	TableOID catalog.OID
}

func NewDelete(schema *schema.Schema, tableOID catalog.OID, child Plan) *Delete {
	return &Delete{base: base{schema: schema, children: []Plan{child}}, TableOID: tableOID}
}

func (*Delete) Kind() Kind { return KindDelete }
