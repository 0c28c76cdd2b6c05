package vectorfn

import (
	"math"
	"testing"
)

func TestDistanceSymmetric(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5} // dim 5: exercises the scalar tail after one 4-lane block
	b := []float64{5, 4, 3, 2, 1}

	for _, m := range []Metric{L2, InnerProduct, Cosine} {
		d1, err := Distance(a, b, m)
		if err != nil {
			t.Fatal(err)
		}
		d2, err := Distance(b, a, m)
		if err != nil {
			t.Fatal(err)
		}
		if d1 != d2 {
			t.Fatalf("%v: dist(a,b)=%v != dist(b,a)=%v", m, d1, d2)
		}
	}
}

func TestDistanceDimensionMismatch(t *testing.T) {
	_, err := Distance([]float64{1, 2}, []float64{1, 2, 3}, L2)
	if err == nil {
		t.Fatal("expected TypeMismatch error")
	}
}

func TestL2KnownValue(t *testing.T) {
	d, err := Distance([]float64{0, 0}, []float64{3, 4}, L2)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(d-5) > 1e-9 {
		t.Fatalf("expected 5, got %v", d)
	}
}

func TestCacheEnabledPreservesEquality(t *testing.T) {
	EnableCache()
	defer DisableCache()
	FlushCache()

	a := []float64{1, 1, 1}
	b := []float64{2, 2, 2}
	d1, _ := Distance(a, b, L2)
	d2, _ := Distance(b, a, L2)
	if d1 != d2 {
		t.Fatalf("cached distances must stay symmetric: %v vs %v", d1, d2)
	}
}
