// # internal/engine/ranges/ranges.go
package ranges

import "sort"

// Range is an inclusive identifier range, To >= From.
type Range struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Gap is a maximal run of unused identifiers inside one configured range,
// inclusive on both ends.
type Gap struct {
	Start int
	End   int
}

// Count returns the number of free identifiers in the gap.
func (g Gap) Count() int { return g.End - g.Start + 1 }

// Gaps returns the unused sub-ranges of each configured range, in range input
// order. An empty ranges slice means "unconfigured" and yields an empty
// result. Overlapping input ranges are scanned independently; the caller's
// input is taken as is, so gaps may repeat across overlapping ranges. Used
// identifiers outside every range are ignored.
func Gaps(rs []Range, used map[int]bool) []Gap {
	gaps := make([]Gap, 0)
	for _, r := range rs {
		start := -1
		for id := r.From; id <= r.To; id++ {
			if used[id] {
				if start >= 0 {
					gaps = append(gaps, Gap{Start: start, End: id - 1})
					start = -1
				}
				continue
			}
			if start < 0 {
				start = id
			}
		}
		if start >= 0 {
			gaps = append(gaps, Gap{Start: start, End: r.To})
		}
	}
	return gaps
}

// NextAvailable returns the first free identifier across all ranges in range
// input order. The second return is false when every identifier is taken or
// no ranges are configured.
func NextAvailable(rs []Range, used map[int]bool) (int, bool) {
	gaps := Gaps(rs, used)
	if len(gaps) == 0 {
		return 0, false
	}
	return gaps[0].Start, true
}

// Merge folds any number of ranges into the minimal sorted set of disjoint
// ranges. Overlapping and adjacent ranges merge; empty input yields empty
// output.
func Merge(rs []Range) []Range {
	if len(rs) == 0 {
		return []Range{}
	}

	sorted := make([]Range, len(rs))
	copy(sorted, rs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].From < sorted[j].From })

	out := make([]Range, 0, len(sorted))
	run := sorted[0]
	for _, r := range sorted[1:] {
		if r.From <= run.To+1 {
			if r.To > run.To {
				run.To = r.To
			}
			continue
		}
		out = append(out, run)
		run = r
	}
	return append(out, run)
}
