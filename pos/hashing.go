package pos

import "github.com/pkg/errors"

// PairingResult is the decoded output of a Blake-based pairing computation:
// a match_info word (always valid), an optional meta word, and an optional
// test-bits word, depending on which widths the caller asked for.
type PairingResult struct {
	MatchInfo uint32
	Meta      uint64
	Test      uint32
}

// Hashing bundles the ChaCha x-value hash and the Blake pairing hash for a
// single plot id, mirroring ProofHashing's pairing of a ChachaHash and a
// BlakeHash instance.
type Hashing struct {
	params ProofParams
	chacha *ChachaHash
	blake  *BlakeHash
}

func NewHashing(params ProofParams) *Hashing {
	return &Hashing{
		params: params,
		chacha: NewChachaHash(params.PlotID(), params.K()),
		blake:  NewBlakeHash(params.PlotID()),
	}
}

func mask32(bits int) uint32 {
	if bits <= 0 {
		return 0
	}
	return uint32(uint64(1)<<uint(bits) - 1)
}

// G returns ProofHashing::g(x): the ChaCha hash word for x's own slot
// within its group of 16.
func (h *Hashing) G(x uint32) uint32 { return h.chacha.GenerateMatchInfo(x) }

// GRange16 returns ProofHashing::g_range_16: the 16-word block for the
// group of x-values starting at x (x must be a multiple of 16).
func (h *Hashing) GRange16(x uint32) [16]uint32 { return h.chacha.DoChacha16Range(x) }

func (h *Hashing) setDataForMatchingTarget(salt, matchKey uint32, meta uint64, numMetaBits int) error {
	h.blake.SetData(0, salt)
	h.blake.SetData(1, matchKey)
	var zeroFrom int
	switch {
	case numMetaBits <= 32:
		h.blake.SetData(2, uint32(meta))
		zeroFrom = 3
	case numMetaBits <= 64:
		h.blake.SetData(2, uint32(meta))
		h.blake.SetData(3, uint32(meta>>32))
		zeroFrom = 4
	default:
		return errors.Wrap(ErrInvalidParams, "unsupported num_meta_bits")
	}
	for i := zeroFrom; i < 8; i++ {
		h.blake.SetData(i, 0)
	}
	return nil
}

// MatchingTarget computes the match-target value used when pairing table
// entries: a salted, meta-keyed Blake hash truncated to numTargetBits.
func (h *Hashing) MatchingTarget(tableID int, matchKey uint32, meta uint64, numMetaBits, numTargetBits int) (uint32, error) {
	if err := h.setDataForMatchingTarget(uint32(tableID), matchKey, meta, numMetaBits); err != nil {
		return 0, err
	}
	return h.blake.GenerateHash32() & mask32(numTargetBits), nil
}

func (h *Hashing) SetDataForPairing(salt uint32, metaL, metaR uint64, numMetaBits int) error {
	h.blake.SetData(0, salt)
	var zeroFrom int
	switch {
	case numMetaBits <= 32:
		h.blake.SetData(1, uint32(metaL))
		h.blake.SetData(2, uint32(metaR))
		zeroFrom = 3
	case numMetaBits <= 64:
		h.blake.SetData(1, uint32(metaL))
		h.blake.SetData(2, uint32(metaL>>32))
		h.blake.SetData(3, uint32(metaR))
		h.blake.SetData(4, uint32(metaR>>32))
		zeroFrom = 5
	default:
		return errors.Wrap(ErrInvalidParams, "unsupported num_meta_bits")
	}
	for i := zeroFrom; i < 8; i++ {
		h.blake.SetData(i, 0)
	}
	return nil
}

// Pairing computes a full pairing result: match_info always, plus an
// optional meta carry-forward and an optional test-bits filter value. The
// test-only case (no match_info/meta, used by tables 3 and 5) returns
// just Test when numMatchInfoBits==0 && outNumMetaBits==0 && numTestBits>0.
func (h *Hashing) Pairing(tableID int, metaL, metaR uint64, inMetaBits, numMatchInfoBits, outNumMetaBits, numTestBits int) (PairingResult, error) {
	if err := h.SetDataForPairing(uint32(tableID), metaL, metaR, inMetaBits); err != nil {
		return PairingResult{}, err
	}
	res := h.blake.GenerateHash()

	if numMatchInfoBits == 0 && outNumMetaBits == 0 && numTestBits > 0 {
		return PairingResult{Test: res.R[0] & mask32(numTestBits)}, nil
	}

	var pr PairingResult
	switch {
	case numMatchInfoBits == 32:
		pr.MatchInfo = res.R[0]
	case numMatchInfoBits < 32:
		pr.MatchInfo = res.R[0] & mask32(numMatchInfoBits)
	default:
		return PairingResult{}, errors.Wrap(ErrInvalidParams, "num_match_info_bits > 32 not supported")
	}

	if outNumMetaBits == 0 {
		return pr, nil
	}
	metaWord := uint64(res.R[1]) + uint64(res.R[2])<<32
	switch {
	case outNumMetaBits == 64:
		pr.Meta = metaWord
	case outNumMetaBits < 64:
		pr.Meta = metaWord & (uint64(1)<<uint(outNumMetaBits) - 1)
	default:
		return PairingResult{}, errors.Wrap(ErrInvalidParams, "num_bits_meta > 64 not supported")
	}

	if numTestBits == 0 {
		return pr, nil
	}
	pr.Test = res.R[3] & mask32(numTestBits)
	return pr, nil
}

// ChallengeWithPlotIDHash hashes the plot id with a 32-byte challenge,
// producing the seed every chain search and scan-range derivation builds
// on.
func (h *Hashing) ChallengeWithPlotIDHash(challenge [32]byte) Result256 {
	var bw [16]uint32
	for i := 0; i < 8; i++ {
		bw[i] = u32le(h.params.PlotID()[i*4 : i*4+4])
	}
	for i := 0; i < 8; i++ {
		bw[i+8] = u32le(challenge[i*4 : i*4+4])
	}
	return HashBlock256(bw)
}

// LinkHash chains the previous link's 256-bit hash with one proof
// fragment and the DFS iteration counter, producing the next link's hash.
//
// Block-word placement: prev.R[0..7] in words 0..7, fragment split into
// low/high 32-bit halves in words 8..9, iteration in word 10, words
// 11..15 zero. This mirrors spec-suggested layout for linkHash (the name
// actually invoked by the chain search) rather than the differently-shaped
// three-fragment chainHash defined alongside it but never called under
// that name; see DESIGN.md for why this placement was chosen and frozen.
func LinkHash(prev Result256, fragment uint64, iteration uint32) Result256 {
	var bw [16]uint32
	copy(bw[0:8], prev.R[:])
	bw[8] = uint32(fragment)
	bw[9] = uint32(fragment >> 32)
	bw[10] = iteration
	return HashBlock256(bw)
}
