package pos

import "testing"

func TestChainerFindLinksRespectsDepthAndParity(t *testing.T) {
	var id, challenge [32]byte
	for i := range id {
		id[i] = byte(i)
		challenge[i] = byte(i * 9)
	}
	params, err := NewProofParams(id, 18, 2)
	if err != nil {
		t.Fatal(err)
	}
	core, err := NewCore(params)
	if err != nil {
		t.Fatal(err)
	}
	chainer := NewChainer(core, challenge)

	fragmentsA := make([]ProofFragment, 64)
	fragmentsB := make([]ProofFragment, 64)
	for i := range fragmentsA {
		fragmentsA[i] = ProofFragment(i * 2)
		fragmentsB[i] = ProofFragment(i*2 + 1)
	}

	chains := chainer.FindLinks(fragmentsA, fragmentsB)
	for _, chain := range chains {
		for i, fragment := range chain.Fragments {
			if i%2 == 0 {
				if fragment%2 != 0 {
					t.Errorf("even depth %d got odd fragment %d", i, fragment)
				}
			} else {
				if fragment%2 != 1 {
					t.Errorf("odd depth %d got even fragment %d", i, fragment)
				}
			}
		}
	}
}

func TestChainerValidateAcceptsWhatFindLinksProduced(t *testing.T) {
	var id, challenge [32]byte
	for i := range id {
		id[i] = byte(i + 3)
		challenge[i] = byte(i * 11)
	}
	params, err := NewProofParams(id, 18, 2)
	if err != nil {
		t.Fatal(err)
	}
	core, err := NewCore(params)
	if err != nil {
		t.Fatal(err)
	}
	chainer := NewChainer(core, challenge)

	fragmentsA := make([]ProofFragment, 256)
	fragmentsB := make([]ProofFragment, 256)
	for i := range fragmentsA {
		fragmentsA[i] = ProofFragment(i * 2)
		fragmentsB[i] = ProofFragment(i*2 + 1)
	}

	chains := chainer.FindLinks(fragmentsA, fragmentsB)
	if len(chains) == 0 {
		t.Skip("no chains found with this small synthetic fragment set; filter rate is probabilistic")
	}

	rangeA := Range{Start: 0, End: uint64(2 * (len(fragmentsA) - 1))}
	rangeB := Range{Start: 1, End: uint64(2*(len(fragmentsB)-1) + 1)}
	if !chainer.Validate(chains[0], rangeA, rangeB) {
		t.Error("Validate rejected a chain that FindLinks itself produced")
	}
}
