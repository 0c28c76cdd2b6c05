package index

import (
	"sync"

	"github.com/vectorbase/vectorbase/catalog"
	"github.com/vectorbase/vectorbase/storage/page"
	"github.com/vectorbase/vectorbase/types"
)

// Unordered is a hash-map-backed index with no ordering guarantees —
// the cheapest variant in the family, for equality-only lookups where an
// ordered scan is never needed.
type Unordered struct {
	mu   sync.RWMutex
	data map[string][]page.RID
}

func NewUnordered() *Unordered { return &Unordered{data: make(map[string][]page.RID)} }

var _ catalog.Index = (*Unordered)(nil)

func keyOf(vals []types.Value) string {
	var b []byte
	for _, v := range vals {
		b = append(b, v.Serialize(nil)...)
	}
	return string(b)
}

func (u *Unordered) Insert(key []types.Value, rid page.RID) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	k := keyOf(key)
	u.data[k] = append(u.data[k], rid)
	return true
}

func (u *Unordered) Delete(key []types.Value, rid page.RID) {
	u.mu.Lock()
	defer u.mu.Unlock()
	k := keyOf(key)
	rids := u.data[k]
	for i, r := range rids {
		if r == rid {
			u.data[k] = append(rids[:i], rids[i+1:]...)
			break
		}
	}
	if len(u.data[k]) == 0 {
		delete(u.data, k)
	}
}

func (u *Unordered) ScanKey(key []types.Value) []page.RID {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return append([]page.RID(nil), u.data[keyOf(key)]...)
}
