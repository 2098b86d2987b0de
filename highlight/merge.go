package highlight

import "sort"

// Merge sorts ranges by start offset and fuses overlapping or touching
// ranges into the minimal ordered list of disjoint ranges. Touching ranges
// merge deliberately so adjacent match spans render as one continuous
// highlight. For all adjacent pairs of the result, prev.End < next.Start
// holds strictly.
func Merge(ranges []Range) []Range {
	if len(ranges) == 0 {
		return nil
	}

	sorted := make([]Range, len(ranges))
	copy(sorted, ranges)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	merged := make([]Range, 0, len(sorted))
	current := sorted[0]
	for _, next := range sorted[1:] {
		if next.Start <= current.End {
			if next.End > current.End {
				current.End = next.End
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	merged = append(merged, current)

	return merged
}
