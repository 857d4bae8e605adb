package plotfmt

import (
	"testing"

	"github.com/Chia-Network/pos2-chip-sub000/pos"
)

func TestCompressDecompressChunkRoundTrip(t *testing.T) {
	rangeStart := uint64(1000)
	fragments := make([]pos.ProofFragment, 50)
	v := rangeStart
	for i := range fragments {
		v += uint64(i%7) + 1
		fragments[i] = v
	}

	stubBits := 16
	body, err := CompressChunk(fragments, rangeStart, stubBits)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecompressChunk(body, rangeStart, stubBits)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(fragments) {
		t.Fatalf("got %d fragments, want %d", len(got), len(fragments))
	}
	for i := range fragments {
		if got[i] != fragments[i] {
			t.Fatalf("fragment %d: got %d, want %d", i, got[i], fragments[i])
		}
	}
}

func TestCompressEmptyChunk(t *testing.T) {
	body, err := CompressChunk(nil, 0, 16)
	if err != nil {
		t.Fatal(err)
	}
	if len(body) != chunkHeaderSize {
		t.Fatalf("empty chunk body size = %d, want %d", len(body), chunkHeaderSize)
	}
	got, err := DecompressChunk(body, 0, 16)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no fragments from empty chunk, got %d", len(got))
	}
}

func TestCompressChunkRejectsOverflow(t *testing.T) {
	fragments := []pos.ProofFragment{0, 1 << 30}
	if _, err := CompressChunk(fragments, 0, 2); err == nil {
		t.Fatal("expected delta overflow error with a tiny stub width")
	}
}

func TestPackUnpackStubsRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 2, 3, 1023, 512, 0, 777}
	stubBits := 10
	packed := packStubs(values, stubBits)
	got := unpackStubs(packed, len(values), stubBits)
	for i := range values {
		if got[i] != values[i] {
			t.Fatalf("stub %d: got %d, want %d", i, got[i], values[i])
		}
	}
}
