package plot

import (
	"testing"

	"github.com/Chia-Network/pos2-chip-sub000/pos"
)

func smallCore(t *testing.T) *pos.Core {
	t.Helper()
	var id [32]byte
	for i := range id {
		id[i] = byte(i * 5)
	}
	params, err := pos.NewProofParams(id, 18, 2)
	if err != nil {
		t.Fatal(err)
	}
	core, err := pos.NewCore(params)
	if err != nil {
		t.Fatal(err)
	}
	return core
}

func TestBuildTable1Deterministic(t *testing.T) {
	core := smallCore(t)
	a, err := BuildTable1(core)
	if err != nil {
		t.Fatal(err)
	}
	b, err := BuildTable1(core)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != len(b) {
		t.Fatalf("table 1 build not deterministic: %d vs %d entries", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("entry %d differs between identical builds", i)
		}
	}
}

func TestFinalizeT3PreservesReferencedEntries(t *testing.T) {
	core := smallCore(t)
	fc := core.FragmentCodec

	t3 := []T3Entry{
		{XValues: [8]uint32{1, 2, 3, 4, 5, 6, 7, 8}},
		{XValues: [8]uint32{9, 10, 11, 12, 13, 14, 15, 16}},
	}
	var err error
	t3[0].Fragment, err = fc.EncodeBits(0x1111)
	if err != nil {
		t.Fatal(err)
	}
	t3[1].Fragment, err = fc.EncodeBits(0x2222)
	if err != nil {
		t.Fatal(err)
	}

	t4 := []pos.T4BackPointers{{FragmentIndexL: 0, FragmentIndexR: 1}}
	pruned, ranges, mapping := FinalizeT3AndPrepareMappingsForT4(core, t3, t4)
	if len(pruned) != 2 {
		t.Fatalf("expected both entries referenced and kept, got %d", len(pruned))
	}
	if mapping[0] != 0 || mapping[1] != 1 {
		t.Fatalf("unexpected index mapping: %v", mapping)
	}
	if len(ranges) != 2*core.Params().NumPartitions() {
		t.Fatalf("lateral ranges length = %d, want %d", len(ranges), 2*core.Params().NumPartitions())
	}
}
