package pos

// BlakeHash is a single-compression-block BLAKE3-style hash. It is not a
// general streaming hash: every call compresses exactly one 64-byte block
// (block_words[0:8] fixed at construction, block_words[8:16] set per call
// via SetData) with buffer length fixed at 21 and flags fixed at 11
// (CHUNK_START|CHUNK_END|ROOT).
type BlakeHash struct {
	blockWords [16]uint32
}

// Result64/Result128/Result256 are the truncated output widths every
// caller in this package needs; all three are derived from the same
// 16-word compression, just returning a different prefix of state[i]^state[i+8].
type Result64 struct{ R [2]uint32 }
type Result128 struct{ R [4]uint32 }
type Result256 struct{ R [8]uint32 }

func u32le(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// NewBlakeHash seeds block_words[0:8] from the plot id (little-endian) and
// zeroes block_words[8:16].
func NewBlakeHash(plotID [32]byte) *BlakeHash {
	h := &BlakeHash{}
	for i := 0; i < 8; i++ {
		h.blockWords[i] = u32le(plotID[i*4 : i*4+4])
	}
	return h
}

// NewBlakeHashChallenge computes challengeWithPlotIdHash: seeds
// block_words[0:8] from the plot id and [8:16] from the challenge, hashes
// that block to 256 bits, then re-seeds block_words[0:8] from the result
// (leaving [8:16] zero) so subsequent SetData calls build on top of it.
func NewBlakeHashChallenge(plotID [32]byte, challenge [32]byte) *BlakeHash {
	h := &BlakeHash{}
	for i := 0; i < 8; i++ {
		h.blockWords[i] = u32le(plotID[i*4 : i*4+4])
		h.blockWords[i+8] = u32le(challenge[i*4 : i*4+4])
	}
	result := h.GenerateHash256()
	h.blockWords = [16]uint32{}
	copy(h.blockWords[0:8], result.R[:])
	return h
}

// SetData stores value at block_words[index+8]; index must be 0..7.
func (h *BlakeHash) SetData(index int, value uint32) {
	h.blockWords[index+8] = value
}

func rotr32(w uint32, c uint) uint32 { return (w >> c) | (w << (32 - c)) }

func blakeG(state *[16]uint32, a, b, c, d int, x, y uint32) {
	state[a] = state[a] + state[b] + x
	state[d] = rotr32(state[d]^state[a], 16)
	state[c] = state[c] + state[d]
	state[b] = rotr32(state[b]^state[c], 12)
	state[a] = state[a] + state[b] + y
	state[d] = rotr32(state[d]^state[a], 8)
	state[c] = state[c] + state[d]
	state[b] = rotr32(state[b]^state[c], 7)
}

func blakeCompress(bw *[16]uint32) [16]uint32 {
	w := bw
	state := [16]uint32{
		0x6A09E667, 0xBB67AE85, 0x3C6EF372, 0xA54FF53A,
		0x510E527F, 0x9B05688C, 0x1F83D9AB, 0x5BE0CD19,
		0x6A09E667, 0xBB67AE85, 0x3C6EF372, 0xA54FF53A,
		0, 0, 21, 11,
	}

	blakeG(&state, 0, 4, 8, 12, w[0], w[1])
	blakeG(&state, 1, 5, 9, 13, w[2], w[3])
	blakeG(&state, 2, 6, 10, 14, w[4], w[5])
	blakeG(&state, 3, 7, 11, 15, w[6], w[7])
	blakeG(&state, 0, 5, 10, 15, w[8], w[9])
	blakeG(&state, 1, 6, 11, 12, w[10], w[11])
	blakeG(&state, 2, 7, 8, 13, w[12], w[13])
	blakeG(&state, 3, 4, 9, 14, w[14], w[15])

	blakeG(&state, 0, 4, 8, 12, w[2], w[6])
	blakeG(&state, 1, 5, 9, 13, w[3], w[10])
	blakeG(&state, 2, 6, 10, 14, w[7], w[0])
	blakeG(&state, 3, 7, 11, 15, w[4], w[13])
	blakeG(&state, 0, 5, 10, 15, w[1], w[11])
	blakeG(&state, 1, 6, 11, 12, w[12], w[5])
	blakeG(&state, 2, 7, 8, 13, w[9], w[14])
	blakeG(&state, 3, 4, 9, 14, w[15], w[8])

	blakeG(&state, 0, 4, 8, 12, w[3], w[4])
	blakeG(&state, 1, 5, 9, 13, w[10], w[12])
	blakeG(&state, 2, 6, 10, 14, w[13], w[2])
	blakeG(&state, 3, 7, 11, 15, w[7], w[14])
	blakeG(&state, 0, 5, 10, 15, w[6], w[5])
	blakeG(&state, 1, 6, 11, 12, w[9], w[0])
	blakeG(&state, 2, 7, 8, 13, w[11], w[15])
	blakeG(&state, 3, 4, 9, 14, w[8], w[1])

	blakeG(&state, 0, 4, 8, 12, w[10], w[7])
	blakeG(&state, 1, 5, 9, 13, w[12], w[9])
	blakeG(&state, 2, 6, 10, 14, w[14], w[3])
	blakeG(&state, 3, 7, 11, 15, w[13], w[15])
	blakeG(&state, 0, 5, 10, 15, w[4], w[0])
	blakeG(&state, 1, 6, 11, 12, w[11], w[2])
	blakeG(&state, 2, 7, 8, 13, w[5], w[8])
	blakeG(&state, 3, 4, 9, 14, w[1], w[6])

	blakeG(&state, 0, 4, 8, 12, w[12], w[13])
	blakeG(&state, 1, 5, 9, 13, w[9], w[11])
	blakeG(&state, 2, 6, 10, 14, w[15], w[10])
	blakeG(&state, 3, 7, 11, 15, w[14], w[8])
	blakeG(&state, 0, 5, 10, 15, w[7], w[2])
	blakeG(&state, 1, 6, 11, 12, w[5], w[3])
	blakeG(&state, 2, 7, 8, 13, w[0], w[1])
	blakeG(&state, 3, 4, 9, 14, w[6], w[4])

	blakeG(&state, 0, 4, 8, 12, w[9], w[14])
	blakeG(&state, 1, 5, 9, 13, w[11], w[5])
	blakeG(&state, 2, 6, 10, 14, w[8], w[12])
	blakeG(&state, 3, 7, 11, 15, w[15], w[1])
	blakeG(&state, 0, 5, 10, 15, w[13], w[3])
	blakeG(&state, 1, 6, 11, 12, w[0], w[10])
	blakeG(&state, 2, 7, 8, 13, w[2], w[6])
	blakeG(&state, 3, 4, 9, 14, w[4], w[7])

	blakeG(&state, 0, 4, 8, 12, w[11], w[15])
	blakeG(&state, 1, 5, 9, 13, w[5], w[0])
	blakeG(&state, 2, 6, 10, 14, w[1], w[9])
	blakeG(&state, 3, 7, 11, 15, w[8], w[6])
	blakeG(&state, 0, 5, 10, 15, w[14], w[10])
	blakeG(&state, 1, 6, 11, 12, w[2], w[12])
	blakeG(&state, 2, 7, 8, 13, w[3], w[4])
	blakeG(&state, 3, 4, 9, 14, w[7], w[13])

	return state
}

func (h *BlakeHash) GenerateHash32() uint32 {
	s := blakeCompress(&h.blockWords)
	return s[0] ^ s[8]
}

func (h *BlakeHash) GenerateHash64() Result64 {
	s := blakeCompress(&h.blockWords)
	return Result64{[2]uint32{s[0] ^ s[8], s[1] ^ s[9]}}
}

func (h *BlakeHash) GenerateHash() Result128 {
	s := blakeCompress(&h.blockWords)
	return Result128{[4]uint32{s[0] ^ s[8], s[1] ^ s[9], s[2] ^ s[10], s[3] ^ s[11]}}
}

func (h *BlakeHash) GenerateHash256() Result256 {
	s := blakeCompress(&h.blockWords)
	return Result256{[8]uint32{
		s[0] ^ s[8], s[1] ^ s[9], s[2] ^ s[10], s[3] ^ s[11],
		s[4] ^ s[12], s[5] ^ s[13], s[6] ^ s[14], s[7] ^ s[15],
	}}
}

// HashBlock256 hashes an arbitrary caller-supplied 16-word block without
// going through the plot-id-seeded constructors; used by Chainer/Prover
// for link and scan hashes that compose their own block_words layout.
func HashBlock256(blockWords [16]uint32) Result256 {
	s := blakeCompress(&blockWords)
	return Result256{[8]uint32{
		s[0] ^ s[8], s[1] ^ s[9], s[2] ^ s[10], s[3] ^ s[11],
		s[4] ^ s[12], s[5] ^ s[13], s[6] ^ s[14], s[7] ^ s[15],
	}}
}
