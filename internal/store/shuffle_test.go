package store

import "testing"

func TestShuffle_PreservesElements(t *testing.T) {
	in := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	out := Shuffle(in)

	if len(out) != len(in) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(in))
	}
	counts := map[string]int{}
	for _, v := range out {
		counts[v]++
	}
	for _, v := range in {
		if counts[v] != 1 {
			t.Errorf("element %q appears %d times, want 1", v, counts[v])
		}
	}
}

func TestShuffle_DoesNotModifyInput(t *testing.T) {
	in := []int{1, 2, 3, 4, 5}
	want := []int{1, 2, 3, 4, 5}

	Shuffle(in)

	for i := range want {
		if in[i] != want[i] {
			t.Fatalf("input modified at %d: got %v", i, in)
		}
	}
}

func TestShuffle_Empty(t *testing.T) {
	out := Shuffle([]int(nil))
	if len(out) != 0 {
		t.Errorf("Shuffle(nil) = %v, want empty", out)
	}
}
