// Package prove implements the Prover (C8): given an open plot file and
// a challenge, derive the two chaining-set fragment ranges, apply a
// secondary scan filter, and feed the survivors to the Chainer to
// produce quality chains. Grounded on spec §4.7.
package prove

import (
	"github.com/pkg/errors"

	"github.com/Chia-Network/pos2-chip-sub000/plotfmt"
	"github.com/Chia-Network/pos2-chip-sub000/pos"
)

// ScanFilter gates which fragments from the two chaining-set ranges
// actually reach the Chainer. The default filter (DefaultScanFilter)
// hashes each fragment against the plot id and challenge and keeps it
// iff the result falls below a threshold tuned to the desired proofs-
// per-challenge rate; callers may supply their own for testing.
type ScanFilter func(core *pos.Core, challenge [32]byte, fragment pos.ProofFragment) bool

// DefaultScanFilter implements spec §4.7 step 3: hash the fragment's 64
// bits into Blake state pre-seeded with plot id and challenge, keep it
// iff the output falls below a threshold calibrated so that
// (survivors * chain-acceptance-probability) matches a target quality
// count per challenge. The threshold is derived from
// AverageProofsPerChallengeBits the same way the chain-search filter
// derives its own pass rate, since no independent calibration constant
// is defined anywhere in the retrieved corpus.
func DefaultScanFilter(core *pos.Core, challenge [32]byte, fragment pos.ProofFragment) bool {
	seed := core.Hashing.ChallengeWithPlotIDHash(challenge)
	h := pos.LinkHash(seed, uint64(fragment), 0)
	shift := uint(32 - pos.AverageProofsPerChallengeBits)
	return h.R[0]>>shift == 0
}

// Prove runs the Prover end to end: derive the challenge's two chaining
// sets, read their fragment ranges from the plot file, scan-filter each
// set, and chain-search the survivors.
func Prove(core *pos.Core, pf *plotfmt.File, challenge [32]byte, filter ScanFilter) ([]pos.Chain, error) {
	if filter == nil {
		filter = DefaultScanFilter
	}

	sets := core.SelectChallengeSets(challenge)

	fragmentsA, err := pf.GetProofFragmentsInRange(sets.FragmentSetARange)
	if err != nil {
		return nil, errors.Wrap(err, "reading set A range")
	}
	fragmentsB, err := pf.GetProofFragmentsInRange(sets.FragmentSetBRange)
	if err != nil {
		return nil, errors.Wrap(err, "reading set B range")
	}

	filteredA := applyFilter(core, challenge, fragmentsA, filter)
	filteredB := applyFilter(core, challenge, fragmentsB, filter)

	chainer := pos.NewChainer(core, challenge)
	return chainer.FindLinks(filteredA, filteredB), nil
}

func applyFilter(core *pos.Core, challenge [32]byte, fragments []pos.ProofFragment, filter ScanFilter) []pos.ProofFragment {
	out := fragments[:0:0]
	for _, f := range fragments {
		if filter(core, challenge, f) {
			out = append(out, f)
		}
	}
	return out
}
