package bands

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-qeeg/dsp/core"
)

func requireBands(t *testing.T, got []Band, want [][2]float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("got %d bands, want %d", len(got), len(want))
	}
	for i, b := range got {
		if b.Name != Names[i] {
			t.Fatalf("band %d name=%q want=%q", i, b.Name, Names[i])
		}
		if math.Abs(b.Lower-want[i][0]) > 1e-12 || math.Abs(b.Upper-want[i][1]) > 1e-12 {
			t.Fatalf("%s=[%v,%v) want [%v,%v)", b.Name, b.Lower, b.Upper, want[i][0], want[i][1])
		}
	}
}

func TestDrawFBFWIgnoresIAF(t *testing.T) {
	want := [][2]float64{{0, 4}, {4, 8}, {8, 12.5}, {12.5, 18}, {18, 30}, {30, 40.5}}

	for _, iaf := range []float64{8, DefaultIAF, 11.75} {
		got, err := Draw(FBFW, iaf)
		if err != nil {
			t.Fatalf("Draw: %v", err)
		}
		requireBands(t, got, want)
	}
}

func TestDrawIBIW(t *testing.T) {
	got, err := Draw(IBIW, DefaultIAF)
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	requireBands(t, got, [][2]float64{{0, 4}, {4, 8}, {8, 12.1}, {12.1, 18}, {18, 30}, {30, 40.5}})

	got, _ = Draw(IBIW, 9)
	requireBands(t, got, [][2]float64{{0, 3.6}, {3.6, 7.2}, {7.2, 10.89}, {10.89, 16.2}, {16.2, 27}, {27, 40.5}})
}

func TestDrawIBFW(t *testing.T) {
	got, err := Draw(IBFW, 11)
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	requireBands(t, got, [][2]float64{{0, 5}, {5, 9}, {9, 13.5}, {13.5, 19}, {19, 31}, {31, 40.5}})
}

func TestDrawRejectsOverrunningEdges(t *testing.T) {
	tests := []struct {
		method Method
		iaf    float64
	}{
		{IBIW, 14},
		{IBIW, 13.5},
		{IBIW, 15},
		{IBFW, 21},
		{IBFW, 5},
	}

	for _, tc := range tests {
		got, err := Draw(tc.method, tc.iaf)
		if !errors.Is(err, ErrInvalidBand) || !errors.Is(err, core.ErrInvalidConfiguration) {
			t.Fatalf("%v iaf=%v: err=%v want=%v", tc.method, tc.iaf, err, ErrInvalidBand)
		}
		if got != nil {
			t.Fatalf("%v iaf=%v: bands=%v want nil", tc.method, tc.iaf, got)
		}
	}

	got, err := Draw(IBIW, 13.4)
	if err != nil {
		t.Fatalf("Draw(IBIW, 13.4): %v", err)
	}
	for _, b := range got {
		if err := b.Validate(); err != nil || b.Upper > UpperEdge {
			t.Fatalf("%s=[%v,%v) err=%v", b.Name, b.Lower, b.Upper, err)
		}
	}
}

func TestDrawUnknownMethod(t *testing.T) {
	_, err := Draw(Method(42), DefaultIAF)
	if !errors.Is(err, ErrUnknownMethod) || !errors.Is(err, core.ErrInvalidConfiguration) {
		t.Fatalf("err=%v want=%v", err, ErrUnknownMethod)
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in   string
		want Method
	}{
		{"IBIW", IBIW},
		{"ibfw", IBFW},
		{"FbFw", FBFW},
	}

	for _, tc := range tests {
		got, err := ParseMethod(tc.in)
		if err != nil || got != tc.want {
			t.Fatalf("ParseMethod(%q)=(%v,%v) want %v", tc.in, got, err, tc.want)
		}
		if got.String() != methodNames[tc.want] {
			t.Fatalf("String()=%q", got.String())
		}
	}

	if _, err := ParseMethod("XYZ"); !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("ParseMethod(XYZ) err=%v", err)
	}
	if Method(7).String() != "Method(7)" {
		t.Fatalf("String()=%q", Method(7).String())
	}
}

func TestBandValidate(t *testing.T) {
	tests := []struct {
		band Band
		ok   bool
	}{
		{Band{"a", 0, 4}, true},
		{Band{"b", 4, 4}, false},
		{Band{"c", 5, 4}, false},
		{Band{"d", -1, 4}, false},
	}

	for _, tc := range tests {
		err := tc.band.Validate()
		if (err == nil) != tc.ok {
			t.Fatalf("%+v Validate()=%v want ok=%v", tc.band, err, tc.ok)
		}
		if err != nil && !errors.Is(err, ErrInvalidBand) {
			t.Fatalf("err=%v want=%v", err, ErrInvalidBand)
		}
	}

	for _, m := range []Method{IBIW, IBFW, FBFW} {
		bands, _ := Draw(m, DefaultIAF)
		for _, b := range bands {
			if err := b.Validate(); err != nil {
				t.Fatalf("%v: %v", m, err)
			}
		}
	}
}

func TestMeanByBand(t *testing.T) {
	freq := []float64{0, 2, 4, 6, 8}
	curve := []float64{1, 2, 3, 4, 5}

	got := MeanByBand(curve, freq, Band{"x", 2, 8})
	if v, ok := got.Float(); !ok || v != 3 {
		t.Fatalf("MeanByBand=(%v,%v) want (3,true)", v, ok)
	}

	// Upper edge is exclusive.
	got = MeanByBand(curve, freq, Band{"y", 8, 10})
	if v, ok := got.Float(); !ok || v != 5 {
		t.Fatalf("MeanByBand=(%v,%v) want (5,true)", v, ok)
	}

	if MeanByBand(curve, freq, Band{"empty", 8.5, 9}).Valid() {
		t.Fatal("empty band should be missing")
	}
	if MeanByBand(curve, freq[:4], Band{"x", 0, 10}).Valid() {
		t.Fatal("length mismatch should be missing")
	}
}

func TestIndividualized(t *testing.T) {
	if !IBIW.Individualized() || !IBFW.Individualized() || FBFW.Individualized() {
		t.Fatal("Individualized mismatch")
	}
}
