package pos

import "testing"

func TestChachaHashDeterministic(t *testing.T) {
	var id [32]byte
	for i := range id {
		id[i] = byte(i)
	}
	h1 := NewChachaHash(id, 20)
	h2 := NewChachaHash(id, 20)
	for x := uint32(0); x < 64; x++ {
		if h1.GenerateMatchInfo(x) != h2.GenerateMatchInfo(x) {
			t.Fatalf("x=%d: hashes diverged across identical instances", x)
		}
	}
}

func TestChachaHashMasksToKSize(t *testing.T) {
	var id [32]byte
	h := NewChachaHash(id, 18)
	mask := uint32(1)<<18 - 1
	for x := uint32(0); x < 256; x++ {
		v := h.GenerateMatchInfo(x)
		if v&^mask != 0 {
			t.Fatalf("x=%d: value %#x has bits set above k=18", x, v)
		}
	}
}

func TestBlakeHashDeterministic(t *testing.T) {
	var id [32]byte
	for i := range id {
		id[i] = byte(i * 2)
	}
	h1 := NewBlakeHash(id)
	h2 := NewBlakeHash(id)
	if h1.GenerateHash256() != h2.GenerateHash256() {
		t.Fatal("identical inputs produced different 256-bit hashes")
	}
}

func TestBlakeHashSensitiveToData(t *testing.T) {
	var id [32]byte
	h := NewBlakeHash(id)
	h.SetData(0, 1)
	a := h.GenerateHash256()
	h.SetData(0, 2)
	b := h.GenerateHash256()
	if a == b {
		t.Fatal("changing data word did not change the hash")
	}
}

func TestChallengeWithPlotIDHashDeterministic(t *testing.T) {
	var id, challenge [32]byte
	for i := range id {
		id[i] = byte(i)
		challenge[i] = byte(255 - i)
	}
	h := NewHashing(ProofParams{plotID: id, k: 20})
	a := h.ChallengeWithPlotIDHash(challenge)
	b := h.ChallengeWithPlotIDHash(challenge)
	if a != b {
		t.Fatal("challengeWithPlotIdHash not deterministic")
	}
}

func TestLinkHashVariesByIteration(t *testing.T) {
	var prev Result256
	a := LinkHash(prev, 42, 0)
	b := LinkHash(prev, 42, 1)
	if a == b {
		t.Fatal("LinkHash should depend on the iteration counter")
	}
}
