package plot

import "github.com/Chia-Network/pos2-chip-sub000/pos"

// PrunedStats reports a pruning pass's before/after entry counts.
type PrunedStats struct {
	OriginalCount int
	PrunedCount   int
}

// PruneT4AndUpdateT5 marks every T4 entry table 5 still references,
// compacts T4 down to just those entries, and rewrites table 5's T4
// back-pointers to the new compacted indices. Grounded on
// TablePruner.hpp's prune_t4_and_update_t5.
func PruneT4AndUpdateT5(t4 []pos.T4BackPointers, t5 []pos.T5Pairing) ([]pos.T4BackPointers, []pos.T5Pairing, PrunedStats) {
	used := make([]bool, len(t4))
	for _, e := range t5 {
		used[e.T4IndexL] = true
		used[e.T4IndexR] = true
	}

	oldToNew := make([]int32, len(t4))
	prunedT4 := make([]pos.T4BackPointers, 0, len(t4))
	for i, u := range used {
		if !u {
			oldToNew[i] = -1
			continue
		}
		oldToNew[i] = int32(len(prunedT4))
		prunedT4 = append(prunedT4, t4[i])
	}

	updatedT5 := make([]pos.T5Pairing, len(t5))
	for i, e := range t5 {
		updatedT5[i] = pos.T5Pairing{
			T4IndexL: uint32(oldToNew[e.T4IndexL]),
			T4IndexR: uint32(oldToNew[e.T4IndexR]),
		}
	}

	return prunedT4, updatedT5, PrunedStats{OriginalCount: len(t4), PrunedCount: len(prunedT4)}
}

// PruneT4Partition walks a single T4 partition's back-pointer slice,
// tagging every T3 index it references as used in the shared bitmask
// t3Used. Every entry is kept: no entry is dropped, so PrunedCount always
// equals OriginalCount. Grounded on TablePruner.hpp's
// prune_t4_partition.
func PruneT4Partition(partition []pos.T4BackPointers, t3Used []bool) ([]pos.T4BackPointers, PrunedStats) {
	out := partition[:0]
	for _, bp := range partition {
		t3Used[bp.FragmentIndexL] = true
		t3Used[bp.FragmentIndexR] = true
		out = append(out, bp)
	}
	return out, PrunedStats{OriginalCount: len(partition), PrunedCount: len(out)}
}

// FinalizeT3AndPrepareMappingsForT4 compacts T3 down to the entries
// table 4 still references, computing each survivor's lateral-to-T4
// partition bucket and expanding that bucket's inclusive index range to
// cover the entry's new (compacted) position. Grounded on
// TablePruner.hpp's finalize_t3_and_prepare_mappings_for_t4.
func FinalizeT3AndPrepareMappingsForT4(core *pos.Core, t3 []T3Entry, t4 []pos.T4BackPointers) ([]T3Entry, pos.T4ToT3LateralPartitionRanges, []int32) {
	used := make([]bool, len(t3))
	for _, bp := range t4 {
		used[bp.FragmentIndexL] = true
		used[bp.FragmentIndexR] = true
	}

	oldToNew := make([]int32, len(t3))
	prunedT3 := make([]T3Entry, 0, len(t3))
	numBuckets := 2 * core.Params().NumPartitions()
	ranges := make(pos.T4ToT3LateralPartitionRanges, numBuckets)
	for i := range ranges {
		ranges[i] = pos.Range{Start: ^uint64(0), End: 0} // empty sentinel: Start > End
	}

	fc := core.FragmentCodec
	for i, u := range used {
		if !u {
			oldToNew[i] = -1
			continue
		}
		newIdx := uint64(len(prunedT3))
		oldToNew[i] = int32(newIdx)
		prunedT3 = append(prunedT3, t3[i])

		bucket := fc.LateralToT4Partition(t3[i].Fragment)
		r := ranges[bucket]
		if r.Start > r.End {
			ranges[bucket] = pos.Range{Start: newIdx, End: newIdx}
		} else {
			if newIdx < r.Start {
				r.Start = newIdx
			}
			if newIdx > r.End {
				r.End = newIdx
			}
			ranges[bucket] = r
		}
	}

	return prunedT3, ranges, oldToNew
}

// FinalizeT4Partition remaps a T4 partition's back-pointers through the
// old->new T3 index table FinalizeT3AndPrepareMappingsForT4 produced.
// Grounded on TablePruner.hpp's finalize_t4_partition.
func FinalizeT4Partition(partition []pos.T4BackPointers, oldToNewT3 []int32) []pos.T4BackPointers {
	for i, bp := range partition {
		partition[i] = pos.T4BackPointers{
			FragmentIndexL: uint32(oldToNewT3[bp.FragmentIndexL]),
			FragmentIndexR: uint32(oldToNewT3[bp.FragmentIndexR]),
		}
	}
	return partition
}
