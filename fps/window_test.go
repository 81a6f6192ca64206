package fps

import (
	"slices"
	"testing"
)

func TestWindowKeepsMostRecent(t *testing.T) {
	for _, appends := range []int{0, 1, 299, 300, 301, 450, 1000} {
		w := NewWindow(WindowCapacity)
		for i := range appends {
			w.Append(float64(i))
		}

		want := min(appends, WindowCapacity)
		if w.Len() != want {
			t.Fatalf("appends=%d: len %d, want %d", appends, w.Len(), want)
		}

		got := w.Snapshot()
		for i, v := range got {
			if exp := float64(appends - want + i); v != exp {
				t.Fatalf("appends=%d: snapshot[%d] = %v, want %v", appends, i, v, exp)
			}
		}
	}
}

func TestWindowEvictsOnlyOldest(t *testing.T) {
	w := NewWindow(4)
	for _, v := range []float64{1, 2, 3, 4} {
		w.Append(v)
	}
	before := w.Snapshot()

	w.Append(5)
	after := w.Snapshot()

	if !slices.Equal(after[:3], before[1:]) {
		t.Fatalf("order changed: before %v after %v", before, after)
	}
	if after[3] != 5 {
		t.Fatalf("newest = %v, want 5", after[3])
	}
	if last, ok := w.Last(); !ok || last != 5 {
		t.Fatalf("Last() = %v, %v", last, ok)
	}
}

func TestWindowSnapshotIsIndependent(t *testing.T) {
	w := NewWindow(3)
	w.Append(1)
	w.Append(2)

	snap := w.Snapshot()
	snap[0] = 100
	w.Append(3)

	if got := w.Snapshot(); !slices.Equal(got, []float64{1, 2, 3}) {
		t.Fatalf("snapshot write leaked into window: %v", got)
	}
}

func TestWindowEmpty(t *testing.T) {
	w := NewWindow(0)
	if w.Cap() != WindowCapacity {
		t.Fatalf("cap %d, want default %d", w.Cap(), WindowCapacity)
	}
	if w.Snapshot() != nil {
		t.Fatal("empty window snapshot should be nil")
	}
	if _, ok := w.Last(); ok {
		t.Fatal("empty window has no last sample")
	}
}
