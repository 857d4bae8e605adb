package pos

import "github.com/pkg/errors"

// ProofParams holds the derived constants for a given plot id, k and
// strength (table-3 match key width). All other components compute their
// bit-widths and offsets from it rather than recomputing k-derived
// arithmetic locally.
type ProofParams struct {
	plotID        [32]byte
	k             int
	strength      uint8
	subK          int
	numPartBits   int
	numPartitions int
}

// NewProofParams validates k and builds the derived-constant set.
// k must be even and in [18, 32]; strength (table-3 match key bit width)
// must be in [1, 8].
func NewProofParams(plotID [32]byte, k int, strength uint8) (ProofParams, error) {
	if k%2 != 0 || k < 18 || k > 32 {
		return ProofParams{}, errors.Wrapf(ErrInvalidParams, "k=%d must be even and in [18,32]", k)
	}
	if strength < 1 || strength > 8 {
		return ProofParams{}, errors.Wrapf(ErrInvalidParams, "strength=%d must be in [1,8]", strength)
	}
	p := ProofParams{plotID: plotID, k: k, strength: strength}
	p.subK = k/2 + 6
	p.numPartBits = k - p.subK
	p.numPartitions = 1 << uint(p.numPartBits)
	return p, nil
}

func (p ProofParams) PlotID() [32]byte { return p.plotID }
func (p ProofParams) K() int           { return p.k }
func (p ProofParams) Strength() uint8  { return p.strength }
func (p ProofParams) SubK() int        { return p.subK }

func (p ProofParams) NumPartitionBits() int { return p.numPartBits }
func (p ProofParams) NumPartitions() int    { return p.numPartitions }

// NumSectionBits mirrors ProofParams::get_num_section_bits: 2 below k=28,
// otherwise k-26.
func (p ProofParams) NumSectionBits() int {
	if p.k < 28 {
		return 2
	}
	return p.k - 26
}

func (p ProofParams) NumSections() uint64 { return 1 << uint(p.NumSectionBits()) }

// NumMatchKeyBits returns the match-key bit width for the given table
// (1-indexed). Table 3 uses the configured strength; all other tables use
// a fixed 2 bits.
func (p ProofParams) NumMatchKeyBits(table int) int {
	if table == 3 {
		return int(p.strength)
	}
	return 2
}

func (p ProofParams) NumMatchKeys(table int) uint64 {
	return 1 << uint(p.NumMatchKeyBits(table))
}

func (p ProofParams) NumMatchTargetBits(table int) int {
	return p.k - p.NumSectionBits() - p.NumMatchKeyBits(table)
}

// NumMetaBits returns k for table 1 (a single x-value), 2k otherwise
// (a pair of k-bit matched values).
func (p ProofParams) NumMetaBits(table int) int {
	if table == 1 {
		return p.k
	}
	return p.k * 2
}

func (p ProofParams) NumPairingMetaBits() int { return 2 * p.k }

// ExtractSection pulls the top NumSectionBits(table) bits out of a packed
// match_info value.
func (p ProofParams) ExtractSection(table int, matchInfo uint64) uint64 {
	return matchInfo >> uint(p.k-p.NumSectionBits())
}

// ExtractMatchKey pulls the middle match-key bits out of a packed
// match_info value.
func (p ProofParams) ExtractMatchKey(table int, matchInfo uint64) uint64 {
	shift := p.k - p.NumSectionBits() - p.NumMatchKeyBits(table)
	mask := uint64(1)<<uint(p.NumMatchKeyBits(table)) - 1
	return (matchInfo >> uint(shift)) & mask
}

// ExtractMatchTarget pulls the low match-target bits out of a packed
// match_info value.
func (p ProofParams) ExtractMatchTarget(table int, matchInfo uint64) uint64 {
	mask := uint64(1)<<uint(p.NumMatchTargetBits(table)) - 1
	return matchInfo & mask
}
