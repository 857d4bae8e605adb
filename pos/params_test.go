package pos

import "testing"

func TestNewProofParamsRejectsOddK(t *testing.T) {
	var id [32]byte
	if _, err := NewProofParams(id, 19, 2); err == nil {
		t.Fatal("expected error for odd k")
	}
}

func TestNewProofParamsRejectsOutOfRangeStrength(t *testing.T) {
	var id [32]byte
	if _, err := NewProofParams(id, 18, 0); err == nil {
		t.Fatal("expected error for strength=0")
	}
	if _, err := NewProofParams(id, 18, 9); err == nil {
		t.Fatal("expected error for strength=9")
	}
}

func TestSubKMatchesKnownValues(t *testing.T) {
	var id [32]byte
	cases := []struct{ k, subK int }{
		{18, 15}, {28, 20}, {30, 21}, {32, 22},
	}
	for _, c := range cases {
		p, err := NewProofParams(id, c.k, 2)
		if err != nil {
			t.Fatalf("k=%d: %v", c.k, err)
		}
		if p.SubK() != c.subK {
			t.Errorf("k=%d: got sub_k=%d want %d", c.k, p.SubK(), c.subK)
		}
	}
}

func TestNumSectionBits(t *testing.T) {
	var id [32]byte
	p18, _ := NewProofParams(id, 18, 2)
	if p18.NumSectionBits() != 2 {
		t.Errorf("k=18: got %d want 2", p18.NumSectionBits())
	}
	p32, _ := NewProofParams(id, 32, 2)
	if p32.NumSectionBits() != 6 {
		t.Errorf("k=32: got %d want 6", p32.NumSectionBits())
	}
}

func TestMatchInfoRoundTrip(t *testing.T) {
	var id [32]byte
	for i := range id {
		id[i] = byte(i)
	}
	p, err := NewProofParams(id, 22, 2)
	if err != nil {
		t.Fatal(err)
	}
	const table = 1
	section := uint64(1)
	matchKey := uint64(2)
	target := uint64(5)

	matchInfo := (section << uint(p.K()-p.NumSectionBits())) |
		(matchKey << uint(p.K()-p.NumSectionBits()-p.NumMatchKeyBits(table))) |
		target

	if got := p.ExtractSection(table, matchInfo); got != section {
		t.Errorf("section: got %d want %d", got, section)
	}
	if got := p.ExtractMatchKey(table, matchInfo); got != matchKey {
		t.Errorf("match key: got %d want %d", got, matchKey)
	}
	if got := p.ExtractMatchTarget(table, matchInfo); got != target {
		t.Errorf("match target: got %d want %d", got, target)
	}
}
