package radix

import (
	"math/rand"
	"sort"
	"testing"
)

func TestSortByKeyMatchesStdlibSort(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	n := 2000
	entries := make([]Entry, n)
	for i := range entries {
		entries[i] = Entry{Key: uint64(rng.Intn(1 << 20)), Payload: uint32(i)}
	}
	want := make([]Entry, n)
	copy(want, entries)
	sort.SliceStable(want, func(i, j int) bool { return want[i].Key < want[j].Key })

	SortByKey(entries, 3, 4)

	for i := range entries {
		if entries[i].Key != want[i].Key {
			t.Fatalf("index %d: key %d, want %d", i, entries[i].Key, want[i].Key)
		}
	}
}

func TestSortByKeySmallInput(t *testing.T) {
	entries := []Entry{{Key: 5, Payload: 0}}
	SortByKey(entries, 1, 4)
	if entries[0].Key != 5 {
		t.Fatal("single-element sort should be a no-op")
	}
}
