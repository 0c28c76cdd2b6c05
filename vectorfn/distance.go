// Package vectorfn implements the vector distance kernel (spec.md §4.3):
// L2, inner product and cosine, all normalized so smaller means more
// similar, plus an optional process-wide memoization cache.
package vectorfn

import (
	"math"

	"github.com/vectorbase/vectorbase/errs"
)

// Metric names a distance function. The zero value is L2.
type Metric int

const (
	L2 Metric = iota
	InnerProduct
	Cosine
)

func (m Metric) String() string {
	switch m {
	case InnerProduct:
		return "inner_product"
	case Cosine:
		return "cosine"
	default:
		return "l2"
	}
}

// ParseOpsSuffix maps a `vector_<metric>_ops` index operator-class suffix
// (spec.md §6) to a Metric.
func ParseOpsSuffix(suffix string) (Metric, error) {
	switch suffix {
	case "l2":
		return L2, nil
	case "ip":
		return InnerProduct, nil
	case "cosine":
		return Cosine, nil
	default:
		return L2, errs.New(errs.NotImplemented, "unknown vector ops suffix %q", suffix)
	}
}

// Distance computes Metric(a, b), optionally consulting the process-wide
// cache (spec.md §4.3/§5). The scalar loops are unrolled in blocks of four
// lanes with a scalar tail for dimensions not a multiple of four — Go has
// no portable SIMD intrinsics, so this unrolling is the idiomatic
// stand-in for the original's `#pragma omp simd` / AVX blocks (see
// SPEC_FULL.md's [SUPPLEMENT] section).
func Distance(a, b []float64, metric Metric) (float64, error) {
	if len(a) != len(b) {
		return 0, errs.New(errs.TypeMismatch, "vector dimension mismatch: %d vs %d", len(a), len(b))
	}
	if cache := globalCache.load(); cache != nil {
		if d, ok := cache.get(a, b, metric); ok {
			return d, nil
		}
		d := compute(a, b, metric)
		cache.put(a, b, metric, d)
		return d, nil
	}
	return compute(a, b, metric), nil
}

func compute(a, b []float64, metric Metric) float64 {
	switch metric {
	case InnerProduct:
		return -dot(a, b)
	case Cosine:
		num := dot(a, b)
		na := math.Sqrt(dot(a, a))
		nb := math.Sqrt(dot(b, b))
		if na == 0 || nb == 0 {
			return 1
		}
		return 1 - num/(na*nb)
	default:
		return math.Sqrt(sqDiffSum(a, b))
	}
}

func dot(a, b []float64) float64 {
	var sum float64
	n := len(a)
	i := 0
	for ; i+4 <= n; i += 4 {
		sum += a[i]*b[i] + a[i+1]*b[i+1] + a[i+2]*b[i+2] + a[i+3]*b[i+3]
	}
	for ; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

func sqDiffSum(a, b []float64) float64 {
	var sum float64
	n := len(a)
	i := 0
	for ; i+4 <= n; i += 4 {
		d0, d1, d2, d3 := a[i]-b[i], a[i+1]-b[i+1], a[i+2]-b[i+2], a[i+3]-b[i+3]
		sum += d0*d0 + d1*d1 + d2*d2 + d3*d3
	}
	for ; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
