package plot

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/Chia-Network/pos2-chip-sub000/plot/parallel"
	"github.com/Chia-Network/pos2-chip-sub000/pos"
)

// Data is the in-memory result of a completed plot: the pruned table 3
// fragments (sorted, ready for plotfmt's chunk codec), the pruned table
// 4 back-pointers, and table 5's final pairing list. Grounded on
// src/plot/PlotData.hpp's canonical shape.
type Data struct {
	Params     pos.ProofParams
	Fragments  []pos.ProofFragment // table 3, pruned, sorted ascending
	T4         []pos.T4BackPointers
	T5         []pos.T5Pairing
	LateralT3  pos.T4ToT3LateralPartitionRanges
}

// Options configures Plot's parallelism and validation behavior.
type Options struct {
	NumThreads int
	Validate   bool
}

// Plot runs the full table cascade (C5): build tables 1-5, then prune
// table 4 against table 5 and table 3 against table 4, and sort the
// surviving fragments for plotfmt's delta codec. Grounded on spec §4.4's
// "build forward, then prune backward" pipeline shape and
// TablePruner.hpp's two-phase pruning passes.
func Plot(core *pos.Core, opts Options) (Data, error) {
	if opts.NumThreads <= 0 {
		opts.NumThreads = parallel.DefaultThreads()
	}

	t1, err := BuildTable1(core)
	if err != nil {
		return Data{}, errors.Wrap(err, "building table 1")
	}
	t2, err := BuildTable2(core, t1)
	if err != nil {
		return Data{}, errors.Wrap(err, "building table 2")
	}
	t3, err := BuildTable3(core, t2)
	if err != nil {
		return Data{}, errors.Wrap(err, "building table 3")
	}
	t4, t4Propagated, err := BuildTable4(core, t3)
	if err != nil {
		return Data{}, errors.Wrap(err, "building table 4")
	}
	t5, err := BuildTable5(core, t4Propagated)
	if err != nil {
		return Data{}, errors.Wrap(err, "building table 5")
	}

	prunedT4, updatedT5, _ := PruneT4AndUpdateT5(t4, t5)

	prunedT3, lateralRanges, oldToNewT3 := FinalizeT3AndPrepareMappingsForT4(core, t3, prunedT4)
	prunedT4 = FinalizeT4Partition(prunedT4, oldToNewT3)

	fragments := make([]pos.ProofFragment, len(prunedT3))
	for i, e := range prunedT3 {
		fragments[i] = e.Fragment
	}
	sort.Slice(fragments, func(i, j int) bool { return fragments[i] < fragments[j] })

	data := Data{
		Params:    core.Params(),
		Fragments: fragments,
		T4:        prunedT4,
		T5:        updatedT5,
		LateralT3: lateralRanges,
	}

	if opts.Validate {
		if err := validatePlotData(core, prunedT3); err != nil {
			return Data{}, errors.Wrap(err, "validating plot data")
		}
	}

	return data, nil
}

// validatePlotData re-checks every surviving table-3 entry's ancestor
// pairings via the Validator, matching spec §4.4's "validation is
// opt-in, recomputes all ancestor pairings" failure-semantics note: each
// pruned entry's eight x-values are replayed through tables 1-3 and the
// resulting proof fragment must equal the one the entry carries.
func validatePlotData(core *pos.Core, t3 []T3Entry) error {
	v, err := pos.NewValidator(core.Params())
	if err != nil {
		return err
	}
	for i, e := range t3 {
		pair, ok, err := v.ValidateTable3Pairs(e.XValues)
		if err != nil {
			return err
		}
		if !ok || pair.ProofFragment != e.Fragment {
			return errors.Errorf("table 3 entry %d fails ancestor validation", i)
		}
	}
	return nil
}

// ChunkRanges partitions data.Fragments into plotfmt's fixed-width
// chunks (each [i*2^(k+16), (i+1)*2^(k+16))) ready for plotfmt.Create.
func ChunkRanges(data Data) [][]pos.ProofFragment {
	k := data.Params.K()
	chunkSize := uint64(1) << uint(k+16)
	numChunks := uint64(1) << uint(k-16)

	chunks := make([][]pos.ProofFragment, numChunks)
	idx := 0
	for i := uint64(0); i < numChunks; i++ {
		hi := (i + 1) * chunkSize
		var chunk []pos.ProofFragment
		for idx < len(data.Fragments) && data.Fragments[idx] < hi {
			chunk = append(chunk, data.Fragments[idx])
			idx++
		}
		chunks[i] = chunk
	}
	return chunks
}
