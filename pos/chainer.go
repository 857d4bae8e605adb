package pos

// Chainer performs the depth-16 alternating-parity DFS search that
// assembles a quality chain out of two candidate fragment sets (set A
// supplies even-depth links, set B odd-depth links).
type Chainer struct {
	core      *Core
	challenge [32]byte
	NumHashes int
}

func NewChainer(core *Core, challenge [32]byte) *Chainer {
	return &Chainer{core: core, challenge: challenge}
}

type chainerState struct {
	challenge Result256
	iteration int
	fragments []ProofFragment
}

// FindLinks searches for every complete NUM_CHAIN_LINKS-length chain
// reachable from the challenge, alternating between fragmentsA (even
// depths) and fragmentsB (odd depths) at each step.
func (c *Chainer) FindLinks(fragmentsA, fragmentsB []ProofFragment) []Chain {
	initial := c.core.Hashing.ChallengeWithPlotIDHash(c.challenge)

	var results []Chain
	stack := []chainerState{{challenge: initial, iteration: 0, fragments: nil}}

	for len(stack) > 0 {
		st := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if st.iteration == NumChainLinks {
			var chain Chain
			copy(chain.Fragments[:], st.fragments)
			results = append(results, chain)
			continue
		}

		currentList := fragmentsA
		if st.iteration%2 != 0 {
			currentList = fragmentsB
		}

		for _, fragment := range currentList {
			newChallenge := LinkHash(st.challenge, fragment, uint32(st.iteration))
			c.NumHashes++

			if !c.PassesFilter(newChallenge, st.iteration) {
				continue
			}

			nextFragments := make([]ProofFragment, len(st.fragments)+1)
			copy(nextFragments, st.fragments)
			nextFragments[len(st.fragments)] = fragment

			stack = append(stack, chainerState{
				challenge: newChallenge,
				iteration: st.iteration + 1,
				fragments: nextFragments,
			})
		}
	}

	return results
}

// PassesFilter applies a per-depth zero-bits test on the low word of a
// candidate link hash: the middle depths use the base ChainingSetBits
// threshold, the first depth is loosened (4x easier to pass) and the last
// depth is tightened so the overall chain rate lands near
// 1/2^AverageProofsPerChallengeBits.
func (c *Chainer) PassesFilter(newChallenge Result256, iteration int) bool {
	passingZerosNeeded := c.core.Params().ChainingSetBits()
	if iteration == 0 {
		passingZerosNeeded -= 2
	} else if iteration == NumChainLinks-1 {
		passingZerosNeeded += 2
		passingZerosNeeded += AverageProofsPerChallengeBits
	}
	checkValue := newChallenge.R[0] & (uint32(1)<<uint(passingZerosNeeded) - 1)
	return checkValue == 0
}

// Validate recomputes a chain's link hashes from scratch and checks both
// that each fragment came from the range it claims (A at even depths, B at
// odd depths) and that every recomputed link passes the depth filter.
func (c *Chainer) Validate(chain Chain, fragmentA, fragmentB Range) bool {
	for i, fragment := range chain.Fragments {
		if i%2 == 0 {
			if !fragmentA.InRange(fragment) {
				return false
			}
		} else {
			if !fragmentB.InRange(fragment) {
				return false
			}
		}
	}

	challenge := c.core.Hashing.ChallengeWithPlotIDHash(c.challenge)
	for i := 0; i < NumChainLinks; i++ {
		newChallenge := LinkHash(challenge, chain.Fragments[i], uint32(i))
		if !c.PassesFilter(newChallenge, i) {
			return false
		}
		challenge = newChallenge
	}
	return true
}
