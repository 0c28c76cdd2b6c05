package heap

import (
	"github.com/vectorbase/vectorbase/storage/page"
	"github.com/vectorbase/vectorbase/storage/tuple"
)

// Iterator is a forward scan over a TableHeap. It holds no latches between
// Next calls — each step re-acquires a short-lived read latch inside
// GetTuple (spec.md §4.1/§5).
type Iterator struct {
	heap       *TableHeap
	pageID     page.ID
	slot       uint32
	stopPageID page.ID
	stopSlot   uint32
	eager      bool
	done       bool
}

// Next returns the next tuple (including tombstoned ones — callers such as
// SeqScan filter those themselves) or ok=false when the iterator has
// reached its snapshot end (or, for an eager iterator, an invalid page).
func (it *Iterator) Next() (page.TupleMeta, *tuple.Tuple, bool) {
	if it.done {
		return page.TupleMeta{}, nil, false
	}
	for {
		if it.pageID == page.InvalidID {
			it.done = true
			return page.TupleMeta{}, nil, false
		}
		if !it.eager && it.pageID == it.stopPageID && it.slot >= it.stopSlot {
			it.done = true
			return page.TupleMeta{}, nil, false
		}

		g := it.heap.pool.FetchPageRead(it.pageID)
		tp := page.Overlay(g.Page())
		slotCount := tp.SlotCount()

		if it.slot >= slotCount {
			next := tp.NextPageID()
			g.Close()
			if next == page.InvalidID {
				it.done = true
				return page.TupleMeta{}, nil, false
			}
			it.pageID = next
			it.slot = 0
			continue
		}

		meta, payload, ok := tp.GetTuple(it.slot)
		rid := page.RID{PageID: it.pageID, Slot: it.slot}
		it.slot++
		g.Close()
		if !ok {
			continue // a hole left by a slot whose size was never set
		}
		return meta, tuple.FromBytes(payload, rid), true
	}
}
