// Package index implements the index family behind catalog.Index's uniform
// interface (spec.md §4.4): B+Tree, extendible hash, in-memory ordered and
// unordered, plus the vector indexes IVFFlat and HNSW.
package index

import (
	"sort"
	"sync"

	"github.com/vectorbase/vectorbase/catalog"
	"github.com/vectorbase/vectorbase/storage/page"
	"github.com/vectorbase/vectorbase/types"
)

type entry struct {
	key  types.Value
	rids []page.RID
}

// Ordered is an in-memory ordered index backed by a sorted slice —
// simplest variant in the family, exposing ScanRange so the optimizer's
// OrderBy+IndexScan rule (spec.md §4.7 rule 8) has something to match a
// sort-key prefix against without the full B+Tree machinery.
type Ordered struct {
	mu      sync.RWMutex
	entries []entry
}

func NewOrdered() *Ordered { return &Ordered{} }

var _ catalog.RangeIndex = (*Ordered)(nil)

func (o *Ordered) find(key types.Value) (int, bool) {
	i := sort.Search(len(o.entries), func(i int) bool {
		return o.entries[i].key.CompareLessThan(key) != types.True
	})
	if i < len(o.entries) && o.entries[i].key.CompareEquals(key) == types.True {
		return i, true
	}
	return i, false
}

func (o *Ordered) Insert(keyVals []types.Value, rid page.RID) bool {
	key := keyVals[0]
	o.mu.Lock()
	defer o.mu.Unlock()
	i, found := o.find(key)
	if found {
		o.entries[i].rids = append(o.entries[i].rids, rid)
		return true
	}
	o.entries = append(o.entries, entry{})
	copy(o.entries[i+1:], o.entries[i:])
	o.entries[i] = entry{key: key, rids: []page.RID{rid}}
	return true
}

func (o *Ordered) Delete(keyVals []types.Value, rid page.RID) {
	key := keyVals[0]
	o.mu.Lock()
	defer o.mu.Unlock()
	i, found := o.find(key)
	if !found {
		return
	}
	rids := o.entries[i].rids
	for j, r := range rids {
		if r == rid {
			o.entries[i].rids = append(rids[:j], rids[j+1:]...)
			break
		}
	}
	if len(o.entries[i].rids) == 0 {
		o.entries = append(o.entries[:i], o.entries[i+1:]...)
	}
}

func (o *Ordered) ScanKey(keyVals []types.Value) []page.RID {
	key := keyVals[0]
	o.mu.RLock()
	defer o.mu.RUnlock()
	i, found := o.find(key)
	if !found {
		return nil
	}
	return append([]page.RID(nil), o.entries[i].rids...)
}

// ScanRange returns RIDs whose key falls in [lo, hi] (either bound may be
// nil to mean unbounded), in ascending or descending key order.
func (o *Ordered) ScanRange(lo, hi *types.Value, ascending bool) []page.RID {
	o.mu.RLock()
	defer o.mu.RUnlock()
	var out []page.RID
	for _, e := range o.entries {
		if lo != nil && e.key.CompareLessThan(*lo) == types.True {
			continue
		}
		if hi != nil && e.key.CompareGreaterThan(*hi) == types.True {
			continue
		}
		out = append(out, e.rids...)
	}
	if !ascending {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}
