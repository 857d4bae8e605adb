package pos

import "github.com/pkg/errors"

// Validator recomputes every pairing from raw x-values up through a full
// 128-x proof, confirming both the table-by-table match structure and the
// resulting quality chain.
type Validator struct {
	params ProofParams
	core   *Core
}

func NewValidator(params ProofParams) (*Validator, error) {
	core, err := NewCore(params)
	if err != nil {
		return nil, err
	}
	return &Validator{params: params, core: core}, nil
}

// ValidateTable1Pair checks that xPair[0] and xPair[1] are a genuine table-1
// match and returns the resulting pairing.
func (v *Validator) ValidateTable1Pair(xPair [2]uint32) (T1Pairing, bool, error) {
	xL, xR := xPair[0], xPair[1]
	matchInfoL := v.core.Hashing.G(xL)
	matchInfoR := v.core.Hashing.G(xR)

	ok, err := v.core.ValidateMatchInfoPairing(1, uint64(xL), matchInfoL, matchInfoR)
	if err != nil {
		return T1Pairing{}, false, err
	}
	if !ok {
		return T1Pairing{}, false, nil
	}
	return v.core.PairingT1(xL, xR)
}

// ValidateTable2Pairs checks two table-1 pairs (the first four x-values)
// against each other as a table-2 match.
func (v *Validator) ValidateTable2Pairs(xValues [4]uint32) (T2Pairing, bool, error) {
	resultL, ok, err := v.ValidateTable1Pair([2]uint32{xValues[0], xValues[1]})
	if err != nil || !ok {
		return T2Pairing{}, false, err
	}
	resultR, ok, err := v.ValidateTable1Pair([2]uint32{xValues[2], xValues[3]})
	if err != nil || !ok {
		return T2Pairing{}, false, err
	}

	ok, err = v.core.ValidateMatchInfoPairing(2, resultL.Meta, resultL.MatchInfo, resultR.MatchInfo)
	if err != nil || !ok {
		return T2Pairing{}, false, err
	}
	return v.core.PairingT2(resultL.Meta, resultR.Meta)
}

// ValidateTable3Pairs checks two table-2 pairs (eight x-values) against
// each other as a table-3 match, producing the proof fragment's
// constituent pairing.
func (v *Validator) ValidateTable3Pairs(xValues [8]uint32) (T3Pairing, bool, error) {
	var lXs, rXs [4]uint32
	copy(lXs[:], xValues[0:4])
	copy(rXs[:], xValues[4:8])

	resultL, ok, err := v.ValidateTable2Pairs(lXs)
	if err != nil || !ok {
		return T3Pairing{}, false, err
	}
	resultR, ok, err := v.ValidateTable2Pairs(rXs)
	if err != nil || !ok {
		return T3Pairing{}, false, err
	}

	ok, err = v.core.ValidateMatchInfoPairing(3, resultL.Meta, resultL.MatchInfo, resultR.MatchInfo)
	if err != nil || !ok {
		return T3Pairing{}, false, err
	}
	return v.core.PairingT3(resultL.Meta, resultR.Meta, resultL.XBits, resultR.XBits)
}

// ValidateFullProof validates a 128-x full proof (16 groups of 8 x-values)
// against a challenge: every group must pair up through table 3, and the
// resulting 16 proof fragments must form a valid quality chain against the
// challenge's two selected fragment ranges.
func (v *Validator) ValidateFullProof(fullProof [TotalXsInProof]uint32, challenge [32]byte) (QualityChainLinks, bool, error) {
	var chain Chain
	for i := 0; i < NumChainLinks; i++ {
		var xValues [8]uint32
		copy(xValues[:], fullProof[i*8:i*8+8])

		_, ok, err := v.ValidateTable3Pairs(xValues)
		if err != nil {
			return QualityChainLinks{}, false, err
		}
		if !ok {
			return QualityChainLinks{}, false, nil
		}

		fragment, err := v.core.FragmentCodec.Encode(xValues)
		if err != nil {
			return QualityChainLinks{}, false, err
		}
		chain.Fragments[i] = fragment
	}

	selected := v.core.SelectChallengeSets(challenge)
	chainer := NewChainer(v.core, challenge)
	if !chainer.Validate(chain, selected.FragmentSetARange, selected.FragmentSetBRange) {
		return QualityChainLinks{}, false, nil
	}

	return QualityChainLinks(chain.Fragments), true, nil
}

var errShortProof = errors.Wrap(ErrInvalidParams, "full proof must contain exactly 128 x-values")
