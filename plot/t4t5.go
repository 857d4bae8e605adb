package plot

import "github.com/Chia-Network/pos2-chip-sub000/pos"

// BuildTable4 pairs table-3 fragments by lateral partition bucket
// coincidence (the same bucket-cross-join simplification BuildTable1-3
// apply to sections), then gates every candidate through the real
// pairing_t4 Blake test before keeping it. Grounded on
// TableConstructorGeneric.hpp's Table4PartitionConstructor::handle_pair
// and ProofCore.hpp's pairing_t4.
func BuildTable4(core *pos.Core, t3 []T3Entry) ([]pos.T4BackPointers, []pos.T4Pairing, error) {
	fc := core.FragmentCodec

	lateralBuckets := make(map[uint32][]int)
	rBuckets := make(map[uint32][]int)
	for i, e := range t3 {
		lateralBuckets[fc.LateralToT4Partition(e.Fragment)] = append(lateralBuckets[fc.LateralToT4Partition(e.Fragment)], i)
		rBuckets[fc.RT4Partition(e.Fragment)] = append(rBuckets[fc.RT4Partition(e.Fragment)], i)
	}

	var backPointers []pos.T4BackPointers
	var propagated []pos.T4Pairing
	for bucket, lIdxs := range lateralBuckets {
		rIdxs, ok := rBuckets[bucket]
		if !ok {
			continue
		}
		for _, li := range lIdxs {
			orderBitsL := fc.ExtractT3OrderBits(t3[li].Fragment)
			for _, ri := range rIdxs {
				if li == ri {
					continue
				}
				pair, ok, err := core.PairingT4(t3[li].Meta, t3[ri].Meta, orderBitsL)
				if err != nil {
					return nil, nil, err
				}
				if !ok {
					continue
				}
				backPointers = append(backPointers, pos.T4BackPointers{
					FragmentIndexL: uint32(li),
					FragmentIndexR: uint32(ri),
				})
				propagated = append(propagated, pair)
			}
		}
	}
	return backPointers, propagated, nil
}

// BuildTable5 pairs table-4's propagated meta/match_info the same way
// tables 1-3 pair their own carried match_info (bucket by section, join
// on target equality), then gates survivors through the test-only
// pairing_t5 instead of a threshold pairing that would carry a further
// match_info/meta forward — table 5 is the root of the quality chain
// search, so nothing propagates past it. Grounded on
// TableConstructorGeneric.hpp's Table5GenericConstructor and
// ProofCore.hpp's pairing_t5.
func BuildTable5(core *pos.Core, t4 []pos.T4Pairing) ([]pos.T5Pairing, error) {
	sections := make([]uint32, len(t4))
	for i, e := range t4 {
		sections[i] = uint32(core.Params().ExtractSection(5, uint64(e.MatchInfo)))
	}
	buckets := bucketBySection(len(t4), func(i int) uint32 { return sections[i] })

	var out []pos.T5Pairing
	for _, section := range sortedSections(buckets) {
		partner := core.MatchingSection(section)
		left := buckets[section]
		right := buckets[partner]
		for _, li := range left {
			for _, ri := range right {
				if li == ri {
					continue
				}
				match, err := core.ValidateMatchInfoPairing(5, t4[li].Meta, t4[li].MatchInfo, t4[ri].MatchInfo)
				if err != nil {
					return nil, err
				}
				if !match {
					continue
				}
				accept, err := core.PairingT5(t4[li].Meta, t4[ri].Meta)
				if err != nil {
					return nil, err
				}
				if !accept {
					continue
				}
				out = append(out, pos.T5Pairing{T4IndexL: uint32(li), T4IndexR: uint32(ri)})
			}
		}
	}
	return out, nil
}
