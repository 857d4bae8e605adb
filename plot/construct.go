// Package plot implements the plotting pipeline (C5): generate the X
// domain, pair it up through tables 1-5, prune dead back-pointers, and
// hand the result to plotfmt for serialization. Grounded on
// _examples/original_source/src/plot/PlotData.hpp (canonical struct
// shape), TablePruner.hpp (pruning passes), and ParallelForRange.hpp
// (parallel fan-out, reused here via plot/parallel).
package plot

import (
	"sort"

	"github.com/Chia-Network/pos2-chip-sub000/pos"
)

// T1Entry is a surviving table-1 match: two x-values and their carried
// meta/match_info.
type T1Entry struct {
	XL, XR    uint32
	Meta      uint64
	MatchInfo uint32
}

// T2Entry is a surviving table-2 match: the four x-values it traces back
// to (in order) plus carried meta/match_info.
type T2Entry struct {
	XValues   [4]uint32
	Meta      uint64
	MatchInfo uint32
}

// T3Entry is a surviving table-3 match, still carrying its eight
// constituent x-values (needed to build table 4's lateral partitions
// before the values themselves are discarded in favor of the fragment)
// plus the propagated meta table 4 pairs on.
type T3Entry struct {
	XValues  [8]uint32
	Fragment pos.ProofFragment
	Meta     uint64
}

// bucketBySection groups items by the section value secOf returns,
// matching spec §5's "section-major" output ordering: within a bucket,
// items keep the iteration order they were produced in.
func bucketBySection(n int, secOf func(i int) uint32) map[uint32][]int {
	buckets := make(map[uint32][]int)
	for i := 0; i < n; i++ {
		s := secOf(i)
		buckets[s] = append(buckets[s], i)
	}
	return buckets
}

// sortedSections returns a bucket map's keys in increasing order, so
// callers can walk buckets in a deterministic, section-major sequence.
func sortedSections(buckets map[uint32][]int) []uint32 {
	keys := make([]uint32, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// BuildTable1 pairs every x in [0, 2^k) against its matching-section
// partner, producing every surviving table-1 match in section-major,
// match-key-major order. A pair only survives if its match_info passes
// the target-equality join (TableConstructorGeneric::find_pairs' actual
// matching criterion, re-derived here via ValidateMatchInfoPairing
// rather than literal sorted-merge-join buffers) on top of PairingT1's
// own match-filter gate.
func BuildTable1(core *pos.Core) ([]T1Entry, error) {
	k := core.Params().K()
	n := uint32(1) << uint(k)

	matchInfos := make([]uint32, n)
	sections := make([]uint32, n)
	for x := uint32(0); x < n; x++ {
		matchInfos[x] = core.Hashing.G(x)
		sections[x] = uint32(core.Params().ExtractSection(1, uint64(matchInfos[x])))
	}
	buckets := bucketBySection(int(n), func(i int) uint32 { return sections[i] })

	var out []T1Entry
	for _, section := range sortedSections(buckets) {
		partner := core.MatchingSection(section)
		left := buckets[section]
		right := buckets[partner]
		for _, li := range left {
			xL := uint32(li)
			for _, ri := range right {
				xR := uint32(ri)
				if xL == xR {
					continue
				}
				match, err := core.ValidateMatchInfoPairing(1, uint64(xL), matchInfos[xL], matchInfos[xR])
				if err != nil {
					return nil, err
				}
				if !match {
					continue
				}
				pair, ok, err := core.PairingT1(xL, xR)
				if err != nil {
					return nil, err
				}
				if !ok {
					continue
				}
				out = append(out, T1Entry{XL: xL, XR: xR, Meta: pair.Meta, MatchInfo: pair.MatchInfo})
			}
		}
	}
	return out, nil
}

// BuildTable2 pairs table-1 matches together by their carried meta's
// section, producing every surviving table-2 match. As in BuildTable1,
// bucket membership alone is necessary but not sufficient: each
// candidate must also clear the target-equality join before PairingT2
// runs.
func BuildTable2(core *pos.Core, t1 []T1Entry) ([]T2Entry, error) {
	sections := make([]uint32, len(t1))
	for i, e := range t1 {
		sections[i] = uint32(core.Params().ExtractSection(2, uint64(e.MatchInfo)))
	}
	buckets := bucketBySection(len(t1), func(i int) uint32 { return sections[i] })

	var out []T2Entry
	for _, section := range sortedSections(buckets) {
		partner := core.MatchingSection(section)
		left := buckets[section]
		right := buckets[partner]
		for _, li := range left {
			for _, ri := range right {
				if li == ri {
					continue
				}
				match, err := core.ValidateMatchInfoPairing(2, t1[li].Meta, t1[li].MatchInfo, t1[ri].MatchInfo)
				if err != nil {
					return nil, err
				}
				if !match {
					continue
				}
				pair, ok, err := core.PairingT2(t1[li].Meta, t1[ri].Meta)
				if err != nil {
					return nil, err
				}
				if !ok {
					continue
				}
				out = append(out, T2Entry{
					XValues:   [4]uint32{t1[li].XL, t1[li].XR, t1[ri].XL, t1[ri].XR},
					Meta:      pair.Meta,
					MatchInfo: pair.MatchInfo,
				})
			}
		}
	}
	return out, nil
}

// BuildTable3 pairs table-2 matches by their carried meta's section,
// encrypting each survivor into a proof fragment and deriving the 2k-bit
// meta table 4 will pair on (PropagateMetaT3).
func BuildTable3(core *pos.Core, t2 []T2Entry) ([]T3Entry, error) {
	k := core.Params().K()
	halfK := uint(k / 2)
	sections := make([]uint32, len(t2))
	for i, e := range t2 {
		sections[i] = uint32(core.Params().ExtractSection(3, uint64(e.MatchInfo)))
	}
	buckets := bucketBySection(len(t2), func(i int) uint32 { return sections[i] })

	var out []T3Entry
	for _, section := range sortedSections(buckets) {
		partner := core.MatchingSection(section)
		left := buckets[section]
		right := buckets[partner]
		for _, li := range left {
			for _, ri := range right {
				if li == ri {
					continue
				}
				match, err := core.ValidateMatchInfoPairing(3, t2[li].Meta, t2[li].MatchInfo, t2[ri].MatchInfo)
				if err != nil {
					return nil, err
				}
				if !match {
					continue
				}
				pair, ok, err := core.PairingT3(t2[li].Meta, t2[ri].Meta, extractXBits(t2[li], halfK), extractXBits(t2[ri], halfK))
				if err != nil {
					return nil, err
				}
				if !ok {
					continue
				}
				propagatedMeta, err := core.PropagateMetaT3(t2[li].Meta, t2[ri].Meta)
				if err != nil {
					return nil, err
				}
				out = append(out, T3Entry{
					XValues:  [8]uint32{t2[li].XValues[0], t2[li].XValues[1], t2[li].XValues[2], t2[li].XValues[3], t2[ri].XValues[0], t2[ri].XValues[1], t2[ri].XValues[2], t2[ri].XValues[3]},
					Fragment: pair.ProofFragment,
					Meta:     propagatedMeta,
				})
			}
		}
	}
	return out, nil
}

// extractXBits folds the top halves of a table-2 entry's x-values 0 and 2
// (the left x of each of its two table-1 pairs) into the packed x_bits
// word PairingT2 already produced and stored alongside it
// (see T2Pairing.XBits in pos/core.go); table-3 construction re-derives
// the same packing from the raw x-values it still carries at this stage.
func extractXBits(e T2Entry, halfK uint) uint32 {
	x1 := e.XValues[0] >> halfK
	x3 := e.XValues[2] >> halfK
	return (x1 << halfK) | x3
}
