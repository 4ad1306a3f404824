package metric

import (
	"math"
	"testing"
)

func TestSomeAndNone(t *testing.T) {
	if v, ok := Some(2.5).Float(); !ok || v != 2.5 {
		t.Fatalf("Some(2.5).Float()=(%v,%v)", v, ok)
	}
	if None().Valid() {
		t.Fatal("None().Valid()=true")
	}
	if got := None().Or(-1); got != -1 {
		t.Fatalf("None().Or(-1)=%v", got)
	}
	if !math.IsNaN(None().OrNaN()) {
		t.Fatal("None().OrNaN() is not NaN")
	}
}

func TestNaNIsNotMissing(t *testing.T) {
	nan := Some(math.NaN())
	if !nan.Valid() {
		t.Fatal("Some(NaN) should be valid")
	}
	if nan == None() {
		t.Fatal("Some(NaN) compares equal to None()")
	}
}

func TestMean(t *testing.T) {
	got := Mean(Some(1), None(), Some(3))
	if v, ok := got.Float(); !ok || v != 2 {
		t.Fatalf("Mean=(%v,%v) want (2,true)", v, ok)
	}
	if Mean(None(), None()).Valid() {
		t.Fatal("Mean of missing values should be missing")
	}
	if Mean().Valid() {
		t.Fatal("Mean() should be missing")
	}
}
