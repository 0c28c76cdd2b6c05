package index

import (
	"github.com/sasha-s/go-deadlock"
	"github.com/spaolacci/murmur3"
	"github.com/vectorbase/vectorbase/catalog"
	"github.com/vectorbase/vectorbase/storage/page"
	"github.com/vectorbase/vectorbase/types"
)

// Hash is an extendible hash index (spec.md §4.4): keys bucket by the low
// globalDepth bits of a murmur3 hash, and a bucket splits (doubling the
// directory when the bucket's own local depth has caught up to the global
// depth) once it exceeds bucketSize entries — the directory-doubling
// extendible-hashing scheme the teacher's
// container/hash/linear_probe_hash_table.go reaches for via the same
// murmur3.New128() hash, generalized here from linear probing to true
// extendible directory splitting.
type Hash struct {
	mu          deadlock.RWMutex
	globalDepth uint
	directory   []*bucket
	bucketSize  int
}

type bucket struct {
	localDepth uint
	entries    map[uint64][]keyRID
}

type keyRID struct {
	key  []types.Value
	rids []page.RID
}

const defaultBucketSize = 32

func NewHash() *Hash {
	h := &Hash{globalDepth: 1, bucketSize: defaultBucketSize}
	h.directory = []*bucket{
		{localDepth: 1, entries: make(map[uint64][]keyRID)},
		{localDepth: 1, entries: make(map[uint64][]keyRID)},
	}
	return h
}

var _ catalog.Index = (*Hash)(nil)

func hashKey(vals []types.Value) uint64 {
	var b []byte
	for _, v := range vals {
		b = append(b, v.Serialize(nil)...)
	}
	return murmur3.Sum64(b)
}

func (h *Hash) dirIndex(hv uint64) uint64 {
	mask := (uint64(1) << h.globalDepth) - 1
	return hv & mask
}

func (h *Hash) Insert(key []types.Value, rid page.RID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.insertLocked(key, rid)
	return true
}

func (h *Hash) insertLocked(key []types.Value, rid page.RID) {
	hv := hashKey(key)
	b := h.directory[h.dirIndex(hv)]
	entries := b.entries[hv]
	for i, e := range entries {
		if sameKey(e.key, key) {
			entries[i].rids = append(entries[i].rids, rid)
			return
		}
	}
	b.entries[hv] = append(entries, keyRID{key: key, rids: []page.RID{rid}})

	if h.bucketLen(b) > h.bucketSize {
		h.split(hv)
	}
}

func (h *Hash) bucketLen(b *bucket) int {
	n := 0
	for _, e := range b.entries {
		n += len(e)
	}
	return n
}

func sameKey(a, b []types.Value) bool {
	return keyOf(a) == keyOf(b)
}

func (h *Hash) split(hv uint64) {
	idx := h.dirIndex(hv)
	old := h.directory[idx]

	if old.localDepth == h.globalDepth {
		// double the directory
		h.directory = append(h.directory, h.directory...)
		h.globalDepth++
	}

	newLocal := old.localDepth + 1
	sibling := &bucket{localDepth: newLocal, entries: make(map[uint64][]keyRID)}
	old.localDepth = newLocal

	// redistribute
	allEntries := old.entries
	old.entries = make(map[uint64][]keyRID)
	splitBit := uint64(1) << (newLocal - 1)
	for key, kv := range allEntries {
		if key&splitBit != 0 {
			sibling.entries[key] = kv
		} else {
			old.entries[key] = kv
		}
	}

	// point every directory slot whose low (newLocal) bits match the
	// sibling's pattern at the sibling bucket.
	for i := range h.directory {
		if h.directory[i] == old && uint64(i)&splitBit != 0 {
			h.directory[i] = sibling
		}
	}
}

func (h *Hash) Delete(key []types.Value, rid page.RID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	hv := hashKey(key)
	b := h.directory[h.dirIndex(hv)]
	entries := b.entries[hv]
	for i, e := range entries {
		if sameKey(e.key, key) {
			for j, r := range e.rids {
				if r == rid {
					entries[i].rids = append(e.rids[:j], e.rids[j+1:]...)
					break
				}
			}
			if len(entries[i].rids) == 0 {
				b.entries[hv] = append(entries[:i], entries[i+1:]...)
			}
			return
		}
	}
}

func (h *Hash) ScanKey(key []types.Value) []page.RID {
	h.mu.RLock()
	defer h.mu.RUnlock()
	hv := hashKey(key)
	b := h.directory[h.dirIndex(hv)]
	for _, e := range b.entries[hv] {
		if sameKey(e.key, key) {
			return append([]page.RID(nil), e.rids...)
		}
	}
	return nil
}
