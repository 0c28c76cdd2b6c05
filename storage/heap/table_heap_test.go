package heap

import (
	"strings"
	"testing"

	"github.com/vectorbase/vectorbase/schema"
	"github.com/vectorbase/vectorbase/storage/buffer"
	"github.com/vectorbase/vectorbase/storage/disk"
	"github.com/vectorbase/vectorbase/storage/page"
	"github.com/vectorbase/vectorbase/storage/tuple"
	"github.com/vectorbase/vectorbase/types"
)

func newTestHeap(t *testing.T) (*TableHeap, *schema.Schema) {
	t.Helper()
	pool := buffer.NewPool(8, disk.NewMemManager())
	h := New(pool)
	sch := schema.NewSchema([]schema.Column{
		schema.NewColumn("a", types.Integer),
		schema.NewColumn("b", types.Integer),
	})
	return h, sch
}

func TestFreshTableFirstInsertIsPageZeroSlotZero(t *testing.T) {
	h, sch := newTestHeap(t)
	tup := tuple.New([]types.Value{types.NewInteger(1), types.NewInteger(10)}, sch)
	rid, err := h.Insert(page.TupleMeta{}, tup.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if rid.PageID != 0 || rid.Slot != 0 {
		t.Fatalf("expected (0,0), got %v", rid)
	}
}

func TestGetTupleRoundTripsRID(t *testing.T) {
	h, sch := newTestHeap(t)
	tup := tuple.New([]types.Value{types.NewInteger(7), types.NewInteger(8)}, sch)
	rid, err := h.Insert(page.TupleMeta{}, tup.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	_, got, ok := h.GetTuple(rid)
	if !ok {
		t.Fatal("expected tuple")
	}
	vals := got.Values(sch)
	if vals[0].AsInt64() != 7 || vals[1].AsInt64() != 8 {
		t.Fatalf("unexpected values: %v", vals)
	}
}

func TestTombstoneIsSkippedButSlotSurvives(t *testing.T) {
	h, sch := newTestHeap(t)
	tup := tuple.New([]types.Value{types.NewInteger(1), types.NewInteger(2)}, sch)
	rid, _ := h.Insert(page.TupleMeta{}, tup.Bytes())
	h.UpdateMeta(rid, page.TupleMeta{IsDeleted: true})

	meta, _, ok := h.GetTuple(rid)
	if !ok {
		t.Fatal("tombstoned slot must still exist")
	}
	if !meta.IsDeleted {
		t.Fatal("expected tombstone bit set")
	}
}

func TestIteratorSnapshotEndExcludesLaterInserts(t *testing.T) {
	h, sch := newTestHeap(t)
	mk := func(a int32) []byte {
		return tuple.New([]types.Value{types.NewInteger(a), types.NewInteger(a)}, sch).Bytes()
	}
	h.Insert(page.TupleMeta{}, mk(1))
	h.Insert(page.TupleMeta{}, mk(2))

	it := h.Iterator()
	h.Insert(page.TupleMeta{}, mk(3)) // inserted after snapshot

	count := 0
	for {
		_, _, ok := it.Next()
		if !ok {
			break
		}
		count++
	}
	if count != 2 {
		t.Fatalf("expected snapshot-end to exclude the post-snapshot insert, got %d rows", count)
	}
}

func TestMultiPageChainFollowsNextPageID(t *testing.T) {
	h, sch := newTestHeap(t)
	// a varchar column to burn through a page quickly
	bigSchema := schema.NewSchema([]schema.Column{
		schema.NewVarcharColumn("s", 3000),
	})
	_ = sch
	big := tuple.New([]types.Value{types.NewVarchar(strings.Repeat("x", 3000))}, bigSchema)
	rid1, err := h.Insert(page.TupleMeta{}, big.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	rid2, err := h.Insert(page.TupleMeta{}, big.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if rid1.PageID == rid2.PageID {
		t.Fatalf("expected second large tuple to spill to a new page")
	}
}
