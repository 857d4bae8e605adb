package pos

// The four live C-ABI entry points of the reference implementation
// (validate_proof, qualities_for_challenge, solve_partial_proof,
// create_plot) are plain Go functions in this module. This file holds the
// first two; solve_partial_proof is solve.SolvePartialProof and
// create_plot is plot.CreatePlot. A fifth entry point in the original API
// surface, get_partial_proof, is dead code there (stubbed to always fail)
// and is not ported.

// ValidateProof validates a full 128-x proof against a challenge and
// returns its quality chain links.
func ValidateProof(params ProofParams, fullProof [TotalXsInProof]uint32, challenge [32]byte) (QualityChainLinks, bool, error) {
	v, err := NewValidator(params)
	if err != nil {
		return QualityChainLinks{}, false, err
	}
	return v.ValidateFullProof(fullProof, challenge)
}

// QualitiesForChallenge derives the two chaining-set fragment ranges a
// challenge selects, without needing any particular plot's fragments in
// hand; callers scanning a plot file use this to know which fragment
// ranges to read.
func QualitiesForChallenge(params ProofParams, challenge [32]byte) (SelectedChallengeSets, error) {
	core, err := NewCore(params)
	if err != nil {
		return SelectedChallengeSets{}, err
	}
	return core.SelectChallengeSets(challenge), nil
}
