package pos

import "github.com/pkg/errors"

const (
	TotalXsInProof           = 128
	TotalT1PairsInProof      = 64
	TotalT2PairsInProof      = 32
	TotalT3PairsInProof      = 16
	TotalProofFragmentsInProof = 16
	NumChainLinks            = 16
	AverageProofsPerChallengeBits = 5
)

type QualityChainLinks [NumChainLinks]ProofFragment

type QualityChain struct {
	ChainLinks QualityChainLinks
	Strength   uint8
}

// Chain is a completed DFS chain search result: the 16 proof fragments
// chosen, one per depth level.
type Chain struct {
	Fragments [NumChainLinks]ProofFragment
}

type T1Pairing struct {
	Meta      uint64
	MatchInfo uint32
}

type T2Pairing struct {
	Meta      uint64
	MatchInfo uint32
	XBits     uint32
}

// T3Pairing is deliberately lean: only the proof fragment itself is kept.
// Partition bits (L/R/order) are derived on demand from the fragment's own
// ciphertext bit pattern rather than stored redundantly alongside it — see
// ProofFragmentCodec.
type T3Pairing struct {
	ProofFragment ProofFragment
}

// Range is an inclusive [Start, End] span over proof-fragment indices.
type Range struct {
	Start uint64
	End   uint64
}

func (r Range) InRange(v uint64) bool { return v >= r.Start && v <= r.End }

// T4BackPointers records a T4 entry's absolute indices into the pruned T3
// table.
type T4BackPointers struct {
	FragmentIndexL uint32
	FragmentIndexR uint32
}

// T5Pairing records a T5 entry's back pointers into the (pruned) T4
// table.
type T5Pairing struct {
	T4IndexL uint32
	T4IndexR uint32
}

// T4Pairing is a surviving table-4 match: the meta and match_info
// propagated forward into table 5's matching-section join, mirroring
// T1Pairing/T2Pairing's shape one table further down the cascade.
type T4Pairing struct {
	Meta      uint64
	MatchInfo uint32
}

type T4ToT3LateralPartitionRanges []Range

// Core bundles hashing and fragment-codec operations into the pairing
// rules used across plotting, proving, and validating.
type Core struct {
	Hashing       *Hashing
	FragmentCodec *ProofFragmentCodec
	params        ProofParams
}

func NewCore(params ProofParams) (*Core, error) {
	fc, err := NewProofFragmentCodec(params)
	if err != nil {
		return nil, err
	}
	return &Core{Hashing: NewHashing(params), FragmentCodec: fc, params: params}, nil
}

func (c *Core) Params() ProofParams { return c.params }

func (c *Core) MatchingTarget(tableID int, meta uint64, matchKey uint32) (uint32, error) {
	return c.Hashing.MatchingTarget(tableID, matchKey, meta, c.params.NumMetaBits(tableID), c.params.NumMatchTargetBits(tableID))
}

// MatchFilter4 is a 16-bit cheap pre-filter: most non-matching (x,y) pairs
// are rejected here before the full pairing hash runs.
func MatchFilter4(x, y uint32) bool {
	v := (x + y) & 0xFFFF
	v = v * v
	var r uint32
	r ^= v >> 25
	r ^= v >> 16
	r ^= v >> 10
	r ^= v >> 2
	return ((r>>2)+r)&3 == 2
}

// MatchFilter16 is a stricter variant of the same cheap pre-filter,
// retained for a potential future 4-match-key-bit table 1 but not invoked
// by the default (2-match-key-bit) pairing_t1 path.
func MatchFilter16(x, y uint32) bool {
	v := (x + y) & 0xFFFF
	v = v * v
	var r uint32
	r ^= v >> 24
	r ^= v >> 17
	r ^= v >> 11
	r ^= v >> 4
	return r&15 == 1
}

// PairingT1 matches two x-values (k bits each) into a T1Pairing, or
// returns ok=false if the pair does not pass the match filter.
func (c *Core) PairingT1(xL, xR uint32) (T1Pairing, bool, error) {
	if c.params.NumMatchKeyBits(1) != 2 {
		return T1Pairing{}, false, errors.Wrap(ErrInvalidParams, "pairing_t1: match filter not supported for this table")
	}
	if !MatchFilter4(xL&0xFFFF, xR&0xFFFF) {
		return T1Pairing{}, false, nil
	}
	k := c.params.K()
	pair, err := c.Hashing.Pairing(1, uint64(xL), uint64(xR), k, k, 0, 0)
	if err != nil {
		return T1Pairing{}, false, err
	}
	return T1Pairing{
		Meta:      uint64(xL)<<uint(k) | uint64(xR),
		MatchInfo: pair.MatchInfo,
	}, true, nil
}

// PairingT2 matches two T1 meta values into a T2Pairing.
func (c *Core) PairingT2(metaL, metaR uint64) (T2Pairing, bool, error) {
	if !MatchFilter4(uint32(metaL&0xFFFF), uint32(metaR&0xFFFF)) {
		return T2Pairing{}, false, nil
	}
	inMetaBits := c.params.NumPairingMetaBits()
	pair, err := c.Hashing.Pairing(2, metaL, metaR, inMetaBits, c.params.K(), inMetaBits, 0)
	if err != nil {
		return T2Pairing{}, false, err
	}
	halfK := uint(c.params.K() / 2)
	xBitsL := uint32((metaL >> uint(c.params.K())) >> halfK)
	xBitsR := uint32((metaR >> uint(c.params.K())) >> halfK)
	return T2Pairing{
		Meta:      pair.Meta,
		MatchInfo: pair.MatchInfo,
		XBits:     (xBitsL << halfK) | xBitsR,
	}, true, nil
}

// PairingT3 matches two T2 meta/x_bits pairs into a proof fragment,
// gated by a strength-bit test (the filter's false-positive rate is
// 1/2^strength).
func (c *Core) PairingT3(metaL, metaR uint64, xBitsL, xBitsR uint32) (T3Pairing, bool, error) {
	numTestBits := c.params.NumMatchKeyBits(3)
	pair, err := c.Hashing.Pairing(3, metaL, metaR, c.params.NumPairingMetaBits(), 0, 0, numTestBits)
	if err != nil {
		return T3Pairing{}, false, err
	}
	if pair.Test != 0 {
		return T3Pairing{}, false, nil
	}
	allXBits := uint64(xBitsL)<<uint(c.params.K()) | uint64(xBitsR)
	fragment, err := c.FragmentCodec.EncodeBits(allXBits)
	if err != nil {
		return T3Pairing{}, false, err
	}
	return T3Pairing{ProofFragment: fragment}, true, nil
}

// PropagateMetaT3 derives the 2k-bit meta value table 4 pairs on, the
// same Blake pairing call ProofCore::pairing_t3 uses internally to
// compute its partition meta (match_info/test bits discarded; only the
// meta output is kept, since partition and order bits are instead read
// back out of the fragment ciphertext itself via ProofFragmentCodec).
func (c *Core) PropagateMetaT3(metaL, metaR uint64) (uint64, error) {
	pair, err := c.Hashing.Pairing(3, metaL, metaR, c.params.NumPairingMetaBits(), c.params.SubK()-1, c.params.NumPairingMetaBits(), 0)
	if err != nil {
		return 0, err
	}
	return pair.Meta, nil
}

// PairingT4 matches two table-3 propagated metas into a T4Pairing,
// gated by a 1-bit-wider-than-match-key test (halving table 4's size
// relative to table 3). The top match_info bit carries the L side's
// order-bit parity forward, the way pairing_t4 folds order_bits_l into
// its returned match_info.
func (c *Core) PairingT4(metaL, metaR uint64, orderBitsL uint32) (T4Pairing, bool, error) {
	numTestBits := c.params.NumMatchKeyBits(4) + 1
	pair, err := c.Hashing.Pairing(4, metaL, metaR, c.params.NumPairingMetaBits(), c.params.K()-1, c.params.NumPairingMetaBits(), numTestBits)
	if err != nil {
		return T4Pairing{}, false, err
	}
	if pair.Test != 0 {
		return T4Pairing{}, false, nil
	}
	topBit := orderBitsL & 1
	matchInfo := (topBit << uint(c.params.K()-1)) | pair.MatchInfo
	return T4Pairing{Meta: pair.Meta, MatchInfo: matchInfo}, true, nil
}

// t5TestThreshold is 855570511<<1: pairing_t5's acceptance cutoff on its
// 32-bit test word, tuned so tables 3/4/5 prune to comparable sizes.
const t5TestThreshold = uint32(855570511) << 1

// PairingT5 is a test-only pairing: it returns no match_info or meta
// (table 5 is the root of the chain search, nothing propagates past
// it), only whether the pair's test word clears t5TestThreshold.
func (c *Core) PairingT5(metaL, metaR uint64) (bool, error) {
	pair, err := c.Hashing.Pairing(5, metaL, metaR, c.params.NumPairingMetaBits(), 0, 0, 32)
	if err != nil {
		return false, err
	}
	return pair.Test < t5TestThreshold, nil
}

// ValidateMatchInfoPairing re-derives the right-hand section/target from
// meta_l and checks it against the observed match_info values.
func (c *Core) ValidateMatchInfoPairing(tableID int, metaL uint64, matchInfoL, matchInfoR uint32) (bool, error) {
	sectionL := c.params.ExtractSection(tableID, uint64(matchInfoL))
	sectionR := c.params.ExtractSection(tableID, uint64(matchInfoR))
	if sectionR != c.MatchingSection(uint32(sectionL)) {
		return false, nil
	}
	matchKeyR := uint32(c.params.ExtractMatchKey(tableID, uint64(matchInfoR)))
	matchTargetR := c.params.ExtractMatchTarget(tableID, uint64(matchInfoR))
	target, err := c.MatchingTarget(tableID, metaL, matchKeyR)
	if err != nil {
		return false, err
	}
	return matchTargetR == uint64(target), nil
}

// MatchingSection rotates a section index left by one bit position (with
// wraparound), adds one mod the section count, then rotates the result
// right by one bit position.
func (c *Core) MatchingSection(section uint32) uint32 {
	numSectionBits := uint32(c.params.NumSectionBits())
	numSections := uint32(c.params.NumSections())
	rotatedLeft := (section << 1) | (section >> (numSectionBits - 1))
	rotatedLeftPlus1 := (rotatedLeft + 1) & (numSections - 1)
	sectionNew := (rotatedLeftPlus1 >> 1) | (rotatedLeftPlus1 << (numSectionBits - 1))
	return sectionNew & (numSections - 1)
}

// InverseMatchingSection is MatchingSection's inverse.
func (c *Core) InverseMatchingSection(section uint32) uint32 {
	numSectionBits := uint32(c.params.NumSectionBits())
	numSections := uint32(c.params.NumSections())
	rotatedLeft := ((section << 1) | (section >> (numSectionBits - 1))) & (numSections - 1)
	rotatedLeftMinus1 := (rotatedLeft - 1) & (numSections - 1)
	return ((rotatedLeftMinus1 >> 1) | (rotatedLeftMinus1 << (numSectionBits - 1))) & (numSections - 1)
}

func (c *Core) GetMatchingSections(section uint32) (section1, section2 uint32) {
	return c.MatchingSection(section), c.InverseMatchingSection(section)
}

// SelectedChallengeSets names the two chaining sets (and their fragment
// index ranges) a challenge resolves to.
type SelectedChallengeSets struct {
	FragmentSetAIndex uint32
	FragmentSetBIndex uint32
	FragmentSetARange Range
	FragmentSetBRange Range
}

// NumChainingSetsBits controls how finely the fragment universe is split
// into independent chaining sets. Neither the referencing call sites nor
// any other file in the retrieved corpus defines this; it is fixed here at
// NumPartitionBits()+1 so there are at least twice as many chaining sets as
// T4 partitions (documented as a design decision in DESIGN.md).
func (p ProofParams) NumChainingSetsBits() int { return p.NumPartitionBits() + 1 }

// ChainingSetBits controls the base pass rate of the chain-search filter
// (see Chainer.PassesFilter). Like NumChainingSetsBits, no definition for
// this was found anywhere in the retrieved corpus; it is fixed at 6 bits,
// independent of k, so the filter's average per-level branching factor
// stays roughly constant regardless of plot size. Documented in DESIGN.md.
func (p ProofParams) ChainingSetBits() int { return 6 }

// ChainingSetRange splits the k-bit fragment-index universe into
// 2^NumChainingSetsBits equal contiguous ranges and returns the one
// belonging to idx.
func (p ProofParams) ChainingSetRange(idx uint32) Range {
	bits := p.NumChainingSetsBits()
	total := uint64(1) << uint(p.K())
	numSets := uint64(1) << uint(bits)
	width := total / numSets
	start := uint64(idx) * width
	return Range{Start: start, End: start + width - 1}
}

// SelectChallengeSets picks two distinct (one even, one odd indexed)
// chaining sets for a challenge, deriving their selection from a
// plot-id/challenge hash so that a single plot reuses the same two sets
// across every chain search against that challenge.
func (c *Core) SelectChallengeSets(challenge [32]byte) SelectedChallengeSets {
	groupedHash := c.Hashing.ChallengeWithPlotIDHash(challenge)
	bits := uint32(c.params.NumChainingSetsBits())
	mask := uint32(1)<<bits - 1

	setA := (groupedHash.R[0] & mask) &^ 1
	setB := (groupedHash.R[1] & mask) | 1

	return SelectedChallengeSets{
		FragmentSetAIndex: setA,
		FragmentSetBIndex: setB,
		FragmentSetARange: c.params.ChainingSetRange(setA),
		FragmentSetBRange: c.params.ChainingSetRange(setB),
	}
}
