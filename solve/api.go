package solve

import "github.com/Chia-Network/pos2-chip-sub000/pos"

// SolvePartialProof is this package's rendition of the reference C ABI's
// solve_partial_proof entry point: given 16 proof fragments (a completed
// quality chain) and the plot's (id, k, strength), reconstruct every
// full 128-x proof consistent with them. Unlike the wire ABI (which
// takes raw fragments directly), reconstructing full x-values first
// requires decoding each fragment back to its four half-x-bits values
// via ProofFragmentCodec before running the ten-step solve pipeline.
func SolvePartialProof(fragments [pos.NumChainLinks]pos.ProofFragment, params pos.ProofParams) ([][pos.TotalXsInProof]uint32, error) {
	core, err := pos.NewCore(params)
	if err != nil {
		return nil, err
	}

	var xBits [64]uint32
	for i, f := range fragments {
		halves, err := core.FragmentCodec.GetXBitsFromProofFragment(f)
		if err != nil {
			return nil, err
		}
		copy(xBits[i*4:i*4+4], halves[:])
	}

	return Solve(core, xBits, DefaultLimits())
}
