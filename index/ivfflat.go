package index

import (
	"math/rand"
	"sort"
	"sync"

	pair "github.com/notEpsilon/go-pair"

	"github.com/vectorbase/vectorbase/catalog"
	"github.com/vectorbase/vectorbase/storage/page"
	"github.com/vectorbase/vectorbase/types"
	"github.com/vectorbase/vectorbase/vectorfn"
)

// kmeansIterations bounds the Lloyd's-algorithm refinement pass run once
// at Build time; this core indexes small enough working sets that a fixed
// small iteration count converges well before it matters.
const kmeansIterations = 8

type ivfList struct {
	centroid []float64
	points   []catalog.VectorPoint
}

// IVFFlat partitions the vector space into ProbeLists-selectable centroid
// buckets (spec.md §4.4): Build runs a small k-means to place centroids,
// Insert assigns each new point to its nearest centroid, and ScanVector
// probes only the closest few centroids' buckets rather than the whole
// table — the inverted-file approximate-nearest-neighbor scheme.
type IVFFlat struct {
	mu      sync.RWMutex
	metric  vectorfn.Metric
	nlists  int
	lists   []ivfList
	rid2vec map[page.RID][]float64 // for Delete
}

func NewIVFFlat(metric vectorfn.Metric, nlists int) *IVFFlat {
	if nlists < 1 {
		nlists = 1
	}
	return &IVFFlat{metric: metric, nlists: nlists, rid2vec: make(map[page.RID][]float64)}
}

var _ catalog.VectorIndex = (*IVFFlat)(nil)

func (f *IVFFlat) Metric() vectorfn.Metric { return f.metric }

// Build seeds nlists centroids from a random sample of points and refines
// them with a fixed number of Lloyd's-algorithm assignment/update passes.
func (f *IVFFlat) Build(points []catalog.VectorPoint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(points) == 0 {
		return
	}
	n := f.nlists
	if n > len(points) {
		n = len(points)
	}
	perm := rand.Perm(len(points))
	f.lists = make([]ivfList, n)
	for i := 0; i < n; i++ {
		c := make([]float64, len(points[perm[i]].Vector))
		copy(c, points[perm[i]].Vector)
		f.lists[i] = ivfList{centroid: c}
	}

	for iter := 0; iter < kmeansIterations; iter++ {
		for i := range f.lists {
			f.lists[i].points = f.lists[i].points[:0]
		}
		for _, p := range points {
			idx := f.nearestList(p.Vector)
			f.lists[idx].points = append(f.lists[idx].points, p)
		}
		for i := range f.lists {
			if len(f.lists[i].points) == 0 {
				continue
			}
			f.lists[i].centroid = centroidOf(f.lists[i].points)
		}
	}
	for _, p := range points {
		f.rid2vec[p.RID] = p.Vector
	}
}

func centroidOf(points []catalog.VectorPoint) []float64 {
	dim := len(points[0].Vector)
	sum := make([]float64, dim)
	for _, p := range points {
		for i, x := range p.Vector {
			sum[i] += x
		}
	}
	for i := range sum {
		sum[i] /= float64(len(points))
	}
	return sum
}

func (f *IVFFlat) nearestList(v []float64) int {
	best, bestDist := 0, 0.0
	for i, l := range f.lists {
		d, err := vectorfn.Distance(v, l.centroid, f.metric)
		if err != nil {
			continue
		}
		if i == 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func (f *IVFFlat) Insert(keyVals []types.Value, rid page.RID) bool {
	vec := keyVals[0].AsVector()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.lists) == 0 {
		f.lists = []ivfList{{centroid: append([]float64(nil), vec...)}}
	}
	idx := f.nearestList(vec)
	f.lists[idx].points = append(f.lists[idx].points, catalog.VectorPoint{Vector: vec, RID: rid})
	f.rid2vec[rid] = vec
	return true
}

// Delete uses the rid2vec side table to look in the point's nearest list
// first. Build's last centroid update can leave a point nearer another
// list's centroid than the one of the list holding it, so the remaining
// lists are searched when the nearest one does not have it.
func (f *IVFFlat) Delete(keyVals []types.Value, rid page.RID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	vec, ok := f.rid2vec[rid]
	if !ok {
		return
	}
	delete(f.rid2vec, rid)
	order := []int{f.nearestList(vec)}
	for li := range f.lists {
		order = append(order, li)
	}
	for _, li := range order {
		pts := f.lists[li].points
		for i, p := range pts {
			if p.RID == rid {
				f.lists[li].points = append(pts[:i], pts[i+1:]...)
				return
			}
		}
	}
}

// ScanKey performs exact-vector equality lookup, scanning every list —
// scalar equality on a vector index is a rare path, not the one Build's
// centroids optimize for.
func (f *IVFFlat) ScanKey(keyVals []types.Value) []page.RID {
	vec := keyVals[0].AsVector()
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []page.RID
	for _, l := range f.lists {
		for _, p := range l.points {
			if vectorEqualsExact(p.Vector, vec) {
				out = append(out, p.RID)
			}
		}
	}
	return out
}

func vectorEqualsExact(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ScanVector probes the ProbeLists centroids nearest the query and returns
// the k closest points among their buckets (spec.md §4.4/§4.7's rewrite
// target for Sort(distance)+Limit(k)).
func (f *IVFFlat) ScanVector(query []float64, k int, opts catalog.VectorScanOptions) []page.RID {
	f.mu.RLock()
	defer f.mu.RUnlock()
	probes := opts.ProbeLists
	if probes < 1 {
		probes = 1
	}
	if probes > len(f.lists) {
		probes = len(f.lists)
	}

	type ranked struct {
		idx  int
		dist float64
	}
	centroidRanks := make([]ranked, len(f.lists))
	for i, l := range f.lists {
		d, _ := vectorfn.Distance(query, l.centroid, f.metric)
		centroidRanks[i] = ranked{i, d}
	}
	sort.Slice(centroidRanks, func(i, j int) bool { return centroidRanks[i].dist < centroidRanks[j].dist })

	var candidates []pair.Pair[float64, page.RID]
	for i := 0; i < probes; i++ {
		l := f.lists[centroidRanks[i].idx]
		for _, p := range l.points {
			d, err := vectorfn.Distance(query, p.Vector, f.metric)
			if err != nil {
				continue
			}
			candidates = append(candidates, *pair.New(d, p.RID))
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].First < candidates[j].First })
	if len(candidates) > k {
		candidates = candidates[:k]
	}
	out := make([]page.RID, len(candidates))
	for i, c := range candidates {
		out[i] = c.Second
	}
	return out
}
