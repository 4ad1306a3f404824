package window

import (
	"math"
	"testing"
)

func TestHammingMatchesClosedForm(t *testing.T) {
	for _, n := range []int{2, 5, 64, 512} {
		w := Generate(TypeHamming, n)
		if len(w) != n {
			t.Fatalf("len=%d want=%d", len(w), n)
		}
		for i, v := range w {
			want := 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n-1))
			if math.Abs(v-want) > 1e-12 {
				t.Fatalf("n=%d w[%d]=%v want=%v", n, i, v, want)
			}
		}
	}
}

func TestSymmetricHammingEnds(t *testing.T) {
	w := Generate(TypeHamming, 33)
	for i := range w {
		if math.Abs(w[i]-w[len(w)-1-i]) > 1e-12 {
			t.Fatalf("asymmetric at %d: %v vs %v", i, w[i], w[len(w)-1-i])
		}
	}
	if math.Abs(w[0]-0.08) > 1e-12 || math.Abs(w[16]-1) > 1e-12 {
		t.Fatalf("w[0]=%v w[16]=%v", w[0], w[16])
	}
}

func TestPeriodicHann(t *testing.T) {
	w := Generate(TypeHann, 8, WithPeriodic())
	want := []float64{0, 0.1464466094, 0.5, 0.8535533906, 1, 0.8535533906, 0.5, 0.1464466094}
	for i := range want {
		if math.Abs(w[i]-want[i]) > 1e-9 {
			t.Fatalf("w[%d]=%v want=%v", i, w[i], want[i])
		}
	}

	if sym := Generate(TypeHann, 8); math.Abs(sym[7]) > 1e-12 || w[7] < 0.1 {
		t.Fatalf("symmetric end=%v periodic end=%v", sym[7], w[7])
	}
}

func TestDegenerateLengths(t *testing.T) {
	if w := Generate(TypeHamming, 0); w != nil {
		t.Fatalf("zero length=%v want nil", w)
	}
	if w := Generate(TypeHamming, 1); len(w) != 1 || w[0] != 1 {
		t.Fatalf("single=%v want [1]", w)
	}
	for _, v := range Generate(Type(42), 4) {
		if v != 1 {
			t.Fatalf("unknown type coefficient=%v want 1", v)
		}
	}
}

func TestTaper(t *testing.T) {
	src := []float64{2, 2, 2, 2, 2}
	dst := make([]float64, len(src))

	ham := NewTaper(TypeHamming, len(src))
	ham.Apply(dst, src)
	coeffs := Generate(TypeHamming, len(src))
	for i := range dst {
		if math.Abs(dst[i]-2*coeffs[i]) > 1e-12 {
			t.Fatalf("dst[%d]=%v want=%v", i, dst[i], 2*coeffs[i])
		}
	}
	if src[0] != 2 {
		t.Fatalf("input mutated: %v", src)
	}

	rect := NewTaper(TypeRectangular, len(src))
	rect.Apply(dst, src)
	rect.ApplyInPlace(dst)
	for i, v := range dst {
		if v != 2 {
			t.Fatalf("rectangular dst[%d]=%v want 2", i, v)
		}
	}

	ham.ApplyInPlace(dst)
	if math.Abs(dst[2]-2) > 1e-12 || math.Abs(dst[0]-0.16) > 1e-12 {
		t.Fatalf("in place=%v", dst)
	}
	if ham.Type() != TypeHamming || ham.Type().String() != "hamming" {
		t.Fatalf("type=%v", ham.Type())
	}
}
