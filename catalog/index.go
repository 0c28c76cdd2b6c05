package catalog

import (
	"github.com/vectorbase/vectorbase/storage/page"
	"github.com/vectorbase/vectorbase/types"
	"github.com/vectorbase/vectorbase/vectorfn"
)

// IndexKind distinguishes the index family variants spec.md §4.4 requires
// behind a uniform interface.
type IndexKind int

const (
	BTreeIndex IndexKind = iota
	HashIndex
	OrderedIndex
	UnorderedIndex
	IVFFlatIndex
	HNSWIndex
)

func (k IndexKind) String() string {
	return [...]string{"btree", "hash", "ordered", "unordered", "ivfflat", "hnsw"}[k]
}

func (k IndexKind) IsVector() bool { return k == IVFFlatIndex || k == HNSWIndex }

// Index is the uniform scalar-index interface every variant implements
// (spec.md §4.4). Keys are a tuple of Values extracted by the index's
// KeyAttrs; scalar indexes use a single-column key in this core.
type Index interface {
	Insert(key []types.Value, rid page.RID) bool
	Delete(key []types.Value, rid page.RID)
	ScanKey(key []types.Value) []page.RID
}

// RangeIndex is implemented by ordered variants (B+Tree, Ordered) to
// support the OrderBy+IndexScan optimizer rule (spec.md §4.7 rule 8).
type RangeIndex interface {
	Index
	ScanRange(lo, hi *types.Value, ascending bool) []page.RID
}

// VectorPoint is one (vector, rid) pair fed to a vector index's Build.
type VectorPoint struct {
	Vector []float64
	RID    page.RID
}

// VectorScanOptions carries the WITH (...) tuning knobs (spec.md §6).
type VectorScanOptions struct {
	ProbeLists int // IVFFlat
	EfSearch   int // HNSW
}

// VectorIndex additionally exposes Build/ScanVector (spec.md §4.4).
type VectorIndex interface {
	Index
	Build(points []VectorPoint)
	ScanVector(query []float64, k int, opts VectorScanOptions) []page.RID
	Metric() vectorfn.Metric
}
