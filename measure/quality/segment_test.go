package quality

import (
	"reflect"
	"testing"
)

func TestRuns(t *testing.T) {
	got := Runs([]int{3, 3, 1, 1, 1, 2})
	want := []Run{
		{Value: 3, Start: 0, Length: 2},
		{Value: 1, Start: 2, Length: 3},
		{Value: 2, Start: 5, Length: 1},
	}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Runs=%v want=%v", got, want)
	}
	if Runs(nil) != nil {
		t.Fatal("Runs(nil) should be nil")
	}
}

func TestLongestSegment(t *testing.T) {
	tests := []struct {
		name  string
		codes []int
		rate  float64
		want  float64
	}{
		{"two runs of three", []int{3, 3, 3, 1, 1, 3, 3}, 1, 3},
		{"longer low run ignored", []int{3, 1, 1, 1, 1, 3, 3}, 1, 2},
		{"codes above 3 merge", []int{3, 4, 5, 3, 2}, 1, 4},
		{"sample rate scales", []int{3, 3, 3, 3}, 2, 2},
		{"no top quality", []int{1, 2, 2, 1}, 128, 0},
		{"empty", nil, 128, 0},
		{"invalid rate", []int{3, 3}, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := LongestSegment(tc.codes, tc.rate); got != tc.want {
				t.Fatalf("LongestSegment=%v want=%v", got, tc.want)
			}
		})
	}
}

func TestLongestSegmentLeavesInputUntouched(t *testing.T) {
	codes := []int{4, 5, 3, 1}
	LongestSegment(codes, 1)

	if !reflect.DeepEqual(codes, []int{4, 5, 3, 1}) {
		t.Fatalf("input mutated: %v", codes)
	}
}
