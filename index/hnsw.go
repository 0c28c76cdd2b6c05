package index

import (
	"math"
	"math/rand"
	"sort"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/vectorbase/vectorbase/catalog"
	"github.com/vectorbase/vectorbase/storage/page"
	"github.com/vectorbase/vectorbase/types"
	"github.com/vectorbase/vectorbase/vectorfn"
)

const (
	hnswDefaultM              = 16 // max neighbors per node, the same limit on every layer including layer 0
	hnswDefaultEfConstruction = 64
	hnswLevelMult             = 1 / math.Ln2 // 1/ln(2), the usual HNSW level-assignment constant
)

type hnswNode struct {
	rid       page.RID
	vector    []float64
	neighbors []map[page.RID]bool // per layer
}

// HNSW is a multi-layer proximity graph (spec.md §4.4): each point enters
// at a randomly assigned top layer and greedily descends layer by layer
// from the graph's entry point, using a beam search on layer 0 to gather
// the final candidate set — the approach of the original's hnswlib-derived
// index.
type HNSW struct {
	mu             sync.RWMutex
	metric         vectorfn.Metric
	m              int
	efConstruction int
	efSearch       int
	entry          page.RID
	hasEntry       bool
	nodes          map[page.RID]*hnswNode
	topLevel       int
}

// NewHNSW builds an HNSW index tuned by the spec.md §6 WITH (...) options
// this kind recognizes: m (max neighbors per node per layer), ef_construction
// (build-time beam width) and ef_search (query-time beam width). Zero or
// negative values fall back to hnswDefaultM for m and to
// hnswDefaultEfConstruction for both ef_construction and ef_search.
func NewHNSW(metric vectorfn.Metric, m, efConstruction, efSearch int) *HNSW {
	if m < 1 {
		m = hnswDefaultM
	}
	if efConstruction < 1 {
		efConstruction = hnswDefaultEfConstruction
	}
	if efSearch < 1 {
		efSearch = hnswDefaultEfConstruction
	}
	return &HNSW{metric: metric, m: m, efConstruction: efConstruction, efSearch: efSearch, nodes: make(map[page.RID]*hnswNode)}
}

var _ catalog.VectorIndex = (*HNSW)(nil)

func (h *HNSW) Metric() vectorfn.Metric { return h.metric }

func (h *HNSW) Build(points []catalog.VectorPoint) {
	for _, p := range points {
		h.insertPoint(p.Vector, p.RID)
	}
}

func (h *HNSW) Insert(keyVals []types.Value, rid page.RID) bool {
	h.insertPoint(keyVals[0].AsVector(), rid)
	return true
}

func randomLevel() int {
	level := 0
	for rand.Float64() < 1.0/math.E && level < 32 {
		level++
	}
	return level
}

func (h *HNSW) insertPoint(vec []float64, rid page.RID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	level := randomLevel()
	node := &hnswNode{rid: rid, vector: vec, neighbors: make([]map[page.RID]bool, level+1)}
	for i := range node.neighbors {
		node.neighbors[i] = make(map[page.RID]bool)
	}
	h.nodes[rid] = node

	if !h.hasEntry {
		h.entry = rid
		h.hasEntry = true
		h.topLevel = level
		return
	}

	cur := h.entry
	for l := h.topLevel; l > level; l-- {
		cur = h.greedyDescend(cur, vec, l)
	}
	for l := min(level, h.topLevel); l >= 0; l-- {
		candidates := h.searchLayer(vec, cur, h.efConstruction, l)
		neighbors := selectNeighbors(candidates, h.m, h, vec)
		for _, nb := range neighbors {
			node.neighbors[l][nb] = true
			if nn, ok := h.nodes[nb]; ok && l < len(nn.neighbors) {
				nn.neighbors[l][rid] = true
				h.pruneLayer(nn, l)
			}
		}
		if len(candidates) > 0 {
			cur = candidates[0].rid
		}
	}
	if level > h.topLevel {
		h.topLevel = level
		h.entry = rid
	}
}

func (h *HNSW) pruneLayer(n *hnswNode, layer int) {
	if len(n.neighbors[layer]) <= h.m {
		return
	}
	cands := make([]hnswCandidate, 0, len(n.neighbors[layer]))
	for rid := range n.neighbors[layer] {
		d, _ := vectorfn.Distance(n.vector, h.nodes[rid].vector, h.metric)
		cands = append(cands, hnswCandidate{rid, d})
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })
	n.neighbors[layer] = make(map[page.RID]bool, h.m)
	for i := 0; i < h.m && i < len(cands); i++ {
		n.neighbors[layer][cands[i].rid] = true
	}
}

type hnswCandidate struct {
	rid  page.RID
	dist float64
}

func (h *HNSW) greedyDescend(from page.RID, query []float64, layer int) page.RID {
	cur := from
	curDist, _ := vectorfn.Distance(query, h.nodes[cur].vector, h.metric)
	for {
		improved := false
		if layer >= len(h.nodes[cur].neighbors) {
			return cur
		}
		for nb := range h.nodes[cur].neighbors[layer] {
			d, err := vectorfn.Distance(query, h.nodes[nb].vector, h.metric)
			if err != nil {
				continue
			}
			if d < curDist {
				cur, curDist, improved = nb, d, true
			}
		}
		if !improved {
			return cur
		}
	}
}

// searchLayer runs a beam search of width ef on the given layer starting
// from entry, returning the ef closest nodes found, nearest first.
func (h *HNSW) searchLayer(query []float64, entry page.RID, ef, layer int) []hnswCandidate {
	visited := mapset.NewSet[page.RID](entry)
	d0, _ := vectorfn.Distance(query, h.nodes[entry].vector, h.metric)
	candidates := []hnswCandidate{{entry, d0}}
	result := []hnswCandidate{{entry, d0}}

	for len(candidates) > 0 {
		sort.Slice(candidates, func(i, j int) bool { return candidates[i].dist < candidates[j].dist })
		c := candidates[0]
		candidates = candidates[1:]

		sort.Slice(result, func(i, j int) bool { return result[i].dist < result[j].dist })
		if len(result) >= ef && c.dist > result[len(result)-1].dist {
			break
		}

		node := h.nodes[c.rid]
		if layer >= len(node.neighbors) {
			continue
		}
		for nb := range node.neighbors[layer] {
			if visited.Contains(nb) {
				continue
			}
			visited.Add(nb)
			d, err := vectorfn.Distance(query, h.nodes[nb].vector, h.metric)
			if err != nil {
				continue
			}
			candidates = append(candidates, hnswCandidate{nb, d})
			result = append(result, hnswCandidate{nb, d})
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].dist < result[j].dist })
	if len(result) > ef {
		result = result[:ef]
	}
	return result
}

// selectNeighbors keeps the m closest candidates to query — the simple
// nearest-first heuristic rather than HNSW's optional diversity-preserving
// selection (which prefers spreading neighbors across directions over
// always taking the closest). Revisit if a query workload shows the
// clustering pure nearest-first is prone to at small m.
func selectNeighbors(candidates []hnswCandidate, m int, h *HNSW, query []float64) []page.RID {
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].dist < candidates[j].dist })
	if len(candidates) > m {
		candidates = candidates[:m]
	}
	out := make([]page.RID, len(candidates))
	for i, c := range candidates {
		out[i] = c.rid
	}
	return out
}

func (h *HNSW) Delete(keyVals []types.Value, rid page.RID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	n, ok := h.nodes[rid]
	if !ok {
		return
	}
	for layer, nbrs := range n.neighbors {
		for nb := range nbrs {
			if nn, ok := h.nodes[nb]; ok && layer < len(nn.neighbors) {
				delete(nn.neighbors[layer], rid)
			}
		}
	}
	delete(h.nodes, rid)
	if h.entry == rid {
		h.hasEntry = false
		h.topLevel = 0
		for other, on := range h.nodes {
			h.entry = other
			h.hasEntry = true
			h.topLevel = len(on.neighbors) - 1
			break
		}
	}
}

func (h *HNSW) ScanKey(keyVals []types.Value) []page.RID {
	vec := keyVals[0].AsVector()
	h.mu.RLock()
	defer h.mu.RUnlock()
	var out []page.RID
	for rid, n := range h.nodes {
		if vectorEqualsExact(n.vector, vec) {
			out = append(out, rid)
		}
	}
	return out
}

// ScanVector descends from the entry point to layer 0 then beam-searches
// with width max(efSearch, k), returning the k nearest RIDs.
func (h *HNSW) ScanVector(query []float64, k int, opts catalog.VectorScanOptions) []page.RID {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.hasEntry {
		return nil
	}
	ef := opts.EfSearch
	if ef < k {
		ef = h.efSearch
	}
	if ef < k {
		ef = k
	}

	cur := h.entry
	for l := h.topLevel; l > 0; l-- {
		cur = h.greedyDescend(cur, query, l)
	}
	candidates := h.searchLayer(query, cur, ef, 0)
	if len(candidates) > k {
		candidates = candidates[:k]
	}
	out := make([]page.RID, len(candidates))
	for i, c := range candidates {
		out[i] = c.rid
	}
	return out
}
