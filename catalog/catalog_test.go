package catalog

import (
	"testing"

	"github.com/vectorbase/vectorbase/errs"
	"github.com/vectorbase/vectorbase/schema"
	"github.com/vectorbase/vectorbase/storage/buffer"
	"github.com/vectorbase/vectorbase/storage/disk"
	"github.com/vectorbase/vectorbase/types"
)

func newTestCatalog() *Catalog {
	pool := buffer.NewPool(16, disk.NewMemManager())
	return New(pool, nil)
}

func TestCreateTableDuplicateNameFails(t *testing.T) {
	c := newTestCatalog()
	sch := schema.NewSchema([]schema.Column{schema.NewColumn("a", types.Integer)})
	if _, err := c.CreateTable("t", sch); err != nil {
		t.Fatal(err)
	}
	_, err := c.CreateTable("t", sch)
	if !errs.Is(err, errs.AlreadyExists) {
		t.Fatalf("expected AlreadyExists, got %v", err)
	}
}

func TestGetUnknownTableIsNotFound(t *testing.T) {
	c := newTestCatalog()
	_, err := c.GetTableByName("nope")
	if !errs.Is(err, errs.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestIndexesOnTableEmptyByDefault(t *testing.T) {
	c := newTestCatalog()
	sch := schema.NewSchema([]schema.Column{schema.NewColumn("a", types.Integer)})
	c.CreateTable("t", sch)
	if len(c.IndexesOnTable("t")) != 0 {
		t.Fatal("expected no indexes on a fresh table")
	}
}
