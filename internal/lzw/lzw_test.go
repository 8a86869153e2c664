package lzw

import (
	"reflect"
	"testing"
)

func TestCodeSizeTable(t *testing.T) {
	cases := []struct {
		n, want int
	}{
		{1, 2}, {4, 2}, {5, 3}, {8, 3}, {9, 4}, {16, 4}, {17, 5},
		{256, 8}, {257, 9}, {4096, 12}, {4097, 12},
	}
	for _, c := range cases {
		if got := CodeSize(c.n); got != c.want {
			t.Errorf("CodeSize(%d) = %d, want %d", c.n, got, c.want)
		}
	}
}

func TestRoundTripSmallPalette(t *testing.T) {
	// spec.md §8 S5: palette size 4 (lastColorIndex=3).
	indices := []int{1, 1, 1, 1, 1, 2, 2, 2, 2, 2, 1, 1, 1, 1, 1, 2, 2, 2, 2, 2}

	if got := CodeSize(4); got != 2 {
		t.Fatalf("CodeSize(4) = %d, want 2 (initial code width)", got)
	}

	encoded, err := Encode(3, indices)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(3, encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(decoded, indices) {
		t.Fatalf("round trip mismatch:\n got %v\nwant %v", decoded, indices)
	}
}

func TestRoundTripVariousPalettes(t *testing.T) {
	cases := []struct {
		lastColorIndex int
		indices        []int
	}{
		{1, []int{0, 1, 0, 1, 0, 1}},
		{255, []int{0, 1, 2, 3, 4, 5, 255, 0, 1, 2, 3, 4, 5, 255}},
		{3, []int{0}},
		{3, []int{}},
		{15, repeatPattern(15, 600)},
	}
	for i, c := range cases {
		encoded, err := Encode(c.lastColorIndex, c.indices)
		if err != nil {
			t.Fatalf("case %d: Encode: %v", i, err)
		}
		decoded, err := Decode(c.lastColorIndex, encoded)
		if err != nil {
			t.Fatalf("case %d: Decode: %v", i, err)
		}
		if !reflect.DeepEqual(decoded, c.indices) && !(len(decoded) == 0 && len(c.indices) == 0) {
			t.Fatalf("case %d round trip mismatch:\n got %v\nwant %v", i, decoded, c.indices)
		}
	}
}

// repeatPattern builds a sequence cycling through every index
// 0..lastColorIndex. At the length used above the code width grows past
// its initial size; the table does not fill, so Encode's clear-and-reset
// path is not reached.
func repeatPattern(lastColorIndex, length int) []int {
	out := make([]int, length)
	for i := range out {
		out[i] = i % (lastColorIndex + 1)
	}
	return out
}

func TestDecodeRejectsMissingClearCode(t *testing.T) {
	if _, err := Decode(3, []byte{0xFF, 0xFF, 0xFF}); err == nil {
		t.Fatal("expected an error for a stream not starting with the clear code")
	}
}
