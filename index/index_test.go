package index

import (
	"testing"

	"github.com/vectorbase/vectorbase/catalog"
	"github.com/vectorbase/vectorbase/storage/page"
	"github.com/vectorbase/vectorbase/types"
	"github.com/vectorbase/vectorbase/vectorfn"
)

func rid(p int32, s uint32) page.RID { return page.RID{PageID: page.ID(p), Slot: s} }

// every non-tombstoned row's key is found via ScanKey (spec.md §8).
func testScalarIndex(t *testing.T, idx catalog.Index) {
	t.Helper()
	want := map[int32]page.RID{
		10: rid(0, 0),
		20: rid(0, 1),
		30: rid(1, 0),
	}
	for k, r := range want {
		idx.Insert([]types.Value{types.NewInteger(k)}, r)
	}
	for k, r := range want {
		got := idx.ScanKey([]types.Value{types.NewInteger(k)})
		if len(got) != 1 || got[0] != r {
			t.Fatalf("ScanKey(%d) = %v, want [%v]", k, got, r)
		}
	}
	idx.Delete([]types.Value{types.NewInteger(20)}, want[20])
	if got := idx.ScanKey([]types.Value{types.NewInteger(20)}); len(got) != 0 {
		t.Fatalf("ScanKey after delete = %v, want empty", got)
	}
}

func TestOrderedScalarIndex(t *testing.T)   { testScalarIndex(t, NewOrdered()) }
func TestUnorderedScalarIndex(t *testing.T) { testScalarIndex(t, NewUnordered()) }
func TestHashScalarIndex(t *testing.T)      { testScalarIndex(t, NewHash()) }
func TestBTreeScalarIndex(t *testing.T)     { testScalarIndex(t, NewBTree()) }

func TestOrderedScanRange(t *testing.T) {
	o := NewOrdered()
	for i := int32(0); i < 10; i++ {
		o.Insert([]types.Value{types.NewInteger(i)}, rid(0, uint32(i)))
	}
	lo := types.NewInteger(3)
	hi := types.NewInteger(6)
	got := o.ScanRange(&lo, &hi, true)
	if len(got) != 4 {
		t.Fatalf("ScanRange[3,6] returned %d rids, want 4", len(got))
	}
	for i, r := range got {
		if r.Slot != uint32(3+i) {
			t.Fatalf("ScanRange ascending order wrong at %d: got slot %d", i, r.Slot)
		}
	}
	desc := o.ScanRange(&lo, &hi, false)
	if desc[0].Slot != 6 {
		t.Fatalf("ScanRange descending should start at slot 6, got %d", desc[0].Slot)
	}

	unbounded := o.ScanRange(nil, nil, true)
	if len(unbounded) != 10 {
		t.Fatalf("unbounded ScanRange = %d, want 10", len(unbounded))
	}
}

func TestBTreeScanRangeAfterSplits(t *testing.T) {
	bt := NewBTree()
	const n = 200
	for i := int32(0); i < n; i++ {
		bt.Insert([]types.Value{types.NewInteger(i)}, rid(0, uint32(i)))
	}
	lo := types.NewInteger(50)
	hi := types.NewInteger(149)
	got := bt.ScanRange(&lo, &hi, true)
	if len(got) != 100 {
		t.Fatalf("ScanRange over %d inserts (forcing splits) = %d rids, want 100", n, len(got))
	}
	for i, r := range got {
		if r.Slot != uint32(50+i) {
			t.Fatalf("out of order at %d: slot %d", i, r.Slot)
		}
	}
}

func TestHashSurvivesManySplits(t *testing.T) {
	h := NewHash()
	const n = 500
	rids := make(map[int32]page.RID, n)
	for i := int32(0); i < n; i++ {
		r := rid(i/100, uint32(i%100))
		rids[i] = r
		h.Insert([]types.Value{types.NewInteger(i)}, r)
	}
	for k, want := range rids {
		got := h.ScanKey([]types.Value{types.NewInteger(k)})
		if len(got) != 1 || got[0] != want {
			t.Fatalf("ScanKey(%d) = %v, want [%v]", k, got, want)
		}
	}
}

func vectorPoints(n, dim int) []catalog.VectorPoint {
	pts := make([]catalog.VectorPoint, n)
	for i := 0; i < n; i++ {
		v := make([]float64, dim)
		for d := 0; d < dim; d++ {
			v[d] = float64(i*dim + d)
		}
		pts[i] = catalog.VectorPoint{Vector: v, RID: rid(0, uint32(i))}
	}
	return pts
}

// ScanVector(q, k) returns a permutation of some k RIDs drawn from every
// RID ever built, for both approximate vector index variants (spec.md §8).
func testVectorIndexCoverage(t *testing.T, idx catalog.VectorIndex) {
	t.Helper()
	pts := vectorPoints(40, 4)
	idx.Build(pts)

	known := make(map[page.RID]bool, len(pts))
	for _, p := range pts {
		known[p.RID] = true
	}

	got := idx.ScanVector(pts[0].Vector, 5, catalog.VectorScanOptions{ProbeLists: 4, EfSearch: 32})
	if len(got) == 0 {
		t.Fatalf("ScanVector returned no results")
	}
	seen := make(map[page.RID]bool)
	for _, r := range got {
		if !known[r] {
			t.Fatalf("ScanVector returned unknown rid %v", r)
		}
		if seen[r] {
			t.Fatalf("ScanVector returned duplicate rid %v", r)
		}
		seen[r] = true
	}
	// The query vector's own point should appear among its own nearest
	// neighbors (distance zero to itself).
	if !seen[pts[0].RID] {
		t.Fatalf("ScanVector(pts[0]) did not include pts[0].RID among results: %v", got)
	}
}

func TestIVFFlatCoverage(t *testing.T) {
	testVectorIndexCoverage(t, NewIVFFlat(vectorfn.L2, 4))
}

func TestHNSWCoverage(t *testing.T) {
	testVectorIndexCoverage(t, NewHNSW(vectorfn.L2, 16, 64, 32))
}

func TestHNSWInsertAndDelete(t *testing.T) {
	h := NewHNSW(vectorfn.L2, 16, 64, 16)
	pts := vectorPoints(20, 3)
	for _, p := range pts {
		h.Insert([]types.Value{types.NewVector(p.Vector)}, p.RID)
	}
	got := h.ScanVector(pts[0].Vector, 3, catalog.VectorScanOptions{EfSearch: 16})
	if len(got) == 0 {
		t.Fatalf("ScanVector after Insert-only build returned nothing")
	}

	h.Delete([]types.Value{types.NewVector(pts[0].Vector)}, pts[0].RID)
	for _, r := range h.ScanVector(pts[0].Vector, len(pts), catalog.VectorScanOptions{EfSearch: 32}) {
		if r == pts[0].RID {
			t.Fatalf("deleted rid %v still reachable via ScanVector", r)
		}
	}
}
