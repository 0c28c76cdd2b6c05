// Package heap implements the append-oriented table heap and its forward
// iterator (spec.md §4.1).
package heap

import (
	"github.com/sasha-s/go-deadlock"
	"github.com/vectorbase/vectorbase/errs"
	"github.com/vectorbase/vectorbase/storage/buffer"
	"github.com/vectorbase/vectorbase/storage/page"
	"github.com/vectorbase/vectorbase/storage/tuple"
)

// TableHeap is a singly linked list of slotted pages (spec.md §3/§4.1).
type TableHeap struct {
	pool *buffer.Pool

	mu          deadlock.Mutex // guards only lastPageID, per spec.md §4.1
	firstPageID page.ID
	lastPageID  page.ID
}

// New allocates the heap's first page.
func New(pool *buffer.Pool) *TableHeap {
	g := pool.NewPage()
	page.Overlay(g.Page()).Init(page.InvalidID)
	id := g.Page().ID
	g.Close()
	return &TableHeap{pool: pool, firstPageID: id, lastPageID: id}
}

func (h *TableHeap) FirstPageID() page.ID { return h.firstPageID }

// Insert appends a tuple to the heap, allocating a new page when the
// current last page cannot fit it (and already holds something), per
// spec.md §4.1.
func (h *TableHeap) Insert(meta page.TupleMeta, payload []byte) (page.RID, error) {
	h.mu.Lock()
	last := h.lastPageID
	h.mu.Unlock()

	g := h.pool.FetchPageWrite(last)
	tp := page.Overlay(g.Page())
	if slot, ok := tp.InsertTuple(meta, payload); ok {
		rid := page.RID{PageID: last, Slot: slot}
		g.Close()
		return rid, nil
	}
	hadTuples := tp.SlotCount() > 0
	g.Close()

	if !hadTuples {
		return page.RID{}, errs.New(errs.Invariant, "tuple of size %d cannot fit even an empty page", len(payload)).At("heap.Insert")
	}

	ng := h.pool.NewPage()
	newID := ng.Page().ID
	ntp := page.Overlay(ng.Page())
	ntp.Init(page.InvalidID)

	h.mu.Lock()
	oldLast := h.lastPageID
	h.mu.Unlock()

	og := h.pool.FetchPageWrite(oldLast)
	page.Overlay(og.Page()).SetNextPageID(newID)
	og.Page().SetDirty(true)
	og.Close()

	h.mu.Lock()
	h.lastPageID = newID
	h.mu.Unlock()

	slot, ok := ntp.InsertTuple(meta, payload)
	ng.Page().SetDirty(true)
	ng.Close()
	if !ok {
		return page.RID{}, errs.New(errs.Invariant, "tuple of size %d too large for a page", len(payload))
	}
	return page.RID{PageID: newID, Slot: slot}, nil
}

// GetTuple latches only the target page.
func (h *TableHeap) GetTuple(rid page.RID) (page.TupleMeta, *tuple.Tuple, bool) {
	g := h.pool.FetchPageRead(rid.PageID)
	defer g.Close()
	meta, payload, ok := page.Overlay(g.Page()).GetTuple(rid.Slot)
	if !ok {
		return page.TupleMeta{}, nil, false
	}
	return meta, tuple.FromBytes(payload, rid), true
}

// GetMeta reads only the TupleMeta for rid.
func (h *TableHeap) GetMeta(rid page.RID) (page.TupleMeta, bool) {
	g := h.pool.FetchPageRead(rid.PageID)
	defer g.Close()
	return page.Overlay(g.Page()).GetMeta(rid.Slot)
}

// UpdateMeta flips a slot's TupleMeta (used for tombstoning on delete).
func (h *TableHeap) UpdateMeta(rid page.RID, meta page.TupleMeta) bool {
	g := h.pool.FetchPageWrite(rid.PageID)
	defer g.Close()
	ok := page.Overlay(g.Page()).UpdateMeta(rid.Slot, meta)
	if ok {
		g.Page().SetDirty(true)
	}
	return ok
}

// UpdateInPlace latches the page, reads the current (meta, tuple), invokes
// guard, and applies the write only if guard accepts — the hook MVCC
// collaborators use to implement in-place update semantics (spec.md §4.1).
func (h *TableHeap) UpdateInPlace(rid page.RID, guard func(page.TupleMeta, *tuple.Tuple) (page.TupleMeta, bool)) bool {
	g := h.pool.FetchPageWrite(rid.PageID)
	defer g.Close()
	tp := page.Overlay(g.Page())
	meta, payload, ok := tp.GetTuple(rid.Slot)
	if !ok {
		return false
	}
	newMeta, apply := guard(meta, tuple.FromBytes(payload, rid))
	if !apply {
		return false
	}
	tp.UpdateMeta(rid.Slot, newMeta)
	g.Page().SetDirty(true)
	return true
}

// Iterator walks the heap forward from its first page. Snapshot-end
// semantics and the eager variant are implemented in iterator.go.
func (h *TableHeap) Iterator() *Iterator {
	h.mu.Lock()
	stopPage, stopSlot := h.snapshotEnd()
	h.mu.Unlock()
	return &Iterator{heap: h, pageID: h.firstPageID, slot: 0, stopPageID: stopPage, stopSlot: stopSlot, eager: false}
}

// EagerIterator terminates only at an invalid page id, observing rows
// inserted during the scan (spec.md §4.1).
func (h *TableHeap) EagerIterator() *Iterator {
	return &Iterator{heap: h, pageID: h.firstPageID, slot: 0, eager: true}
}

func (h *TableHeap) snapshotEnd() (page.ID, uint32) {
	last := h.lastPageID
	g := h.pool.FetchPageRead(last)
	defer g.Close()
	return last, page.Overlay(g.Page()).SlotCount()
}
