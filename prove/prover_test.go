package prove

import (
	"testing"

	"github.com/Chia-Network/pos2-chip-sub000/pos"
)

func TestDefaultScanFilterDeterministic(t *testing.T) {
	var id, challenge [32]byte
	for i := range id {
		id[i] = byte(i * 3)
		challenge[i] = byte(i * 7)
	}
	params, err := pos.NewProofParams(id, 18, 2)
	if err != nil {
		t.Fatal(err)
	}
	core, err := pos.NewCore(params)
	if err != nil {
		t.Fatal(err)
	}

	for _, f := range []pos.ProofFragment{0, 1, 1234567, 0xFFFFFFFF} {
		a := DefaultScanFilter(core, challenge, f)
		b := DefaultScanFilter(core, challenge, f)
		if a != b {
			t.Fatalf("fragment %d: scan filter not deterministic", f)
		}
	}
}

func TestApplyFilterKeepsOnlyPassing(t *testing.T) {
	var id, challenge [32]byte
	params, err := pos.NewProofParams(id, 18, 2)
	if err != nil {
		t.Fatal(err)
	}
	core, err := pos.NewCore(params)
	if err != nil {
		t.Fatal(err)
	}

	fragments := []pos.ProofFragment{1, 2, 3, 4, 5}
	alwaysFalse := func(core *pos.Core, challenge [32]byte, f pos.ProofFragment) bool { return false }
	got := applyFilter(core, challenge, fragments, alwaysFalse)
	if len(got) != 0 {
		t.Fatalf("expected no survivors, got %d", len(got))
	}

	alwaysTrue := func(core *pos.Core, challenge [32]byte, f pos.ProofFragment) bool { return true }
	got = applyFilter(core, challenge, fragments, alwaysTrue)
	if len(got) != len(fragments) {
		t.Fatalf("expected all %d survivors, got %d", len(fragments), len(got))
	}
}
