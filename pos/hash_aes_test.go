package pos

import "testing"

func TestAESHashDeterministic(t *testing.T) {
	var id [32]byte
	for i := range id {
		id[i] = byte(i * 4)
	}
	h1 := NewAESHash(id, 24)
	h2 := NewAESHash(id, 24)
	for x := uint32(0); x < 32; x++ {
		if h1.HashX(x, 16) != h2.HashX(x, 16) {
			t.Fatalf("x=%d: AES hash not deterministic", x)
		}
	}
}

func TestAESHashMasksToK(t *testing.T) {
	var id [32]byte
	h := NewAESHash(id, 12)
	mask := uint32(1)<<12 - 1
	for x := uint32(0); x < 32; x++ {
		if v := h.HashX(x, 10); v&^mask != 0 {
			t.Fatalf("x=%d: value %#x has bits above k=12", x, v)
		}
	}
}

func TestAESEncRoundChangesState(t *testing.T) {
	var key aesState
	in := aesSetIntVec(0x01020304)
	out := aesEncRound(in, key)
	if out == in {
		t.Fatal("aesEncRound should not be the identity for a non-trivial input")
	}
}
