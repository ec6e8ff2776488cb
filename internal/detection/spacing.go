package detection

import "sort"

// spacingGroup collects spacings considered equivalent to a representative
// value. The representative is the first spacing that started the group,
// not a running mean.
type spacingGroup struct {
	representative float64
	members        []float64
}

// consecutiveSpacings returns the gaps between consecutive positions.
func consecutiveSpacings(positions []float64) []float64 {
	if len(positions) < 2 {
		return nil
	}
	spacings := make([]float64, 0, len(positions)-1)
	for i := 1; i < len(positions); i++ {
		spacings = append(spacings, positions[i]-positions[i-1])
	}
	return spacings
}

// groupSimilarSpacings clusters spacings by relative tolerance. Values are
// visited in ascending order and attached to the first existing group whose
// representative is within tolerance; otherwise they start a new group.
//
// This is first-fit, not an optimal clustering: every spacing lands in
// exactly one group, and which one depends on visit order. Groups are kept
// in an ordered slice (creation order) so the result is deterministic on
// ambiguous inputs.
func groupSimilarSpacings(values []float64, tolerance float64) []spacingGroup {
	if len(values) == 0 {
		return nil
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var groups []spacingGroup
	for _, v := range sorted {
		placed := false
		for i := range groups {
			rep := groups[i].representative
			relDiff := (v - rep) / rep
			if relDiff < 0 {
				relDiff = -relDiff
			}
			if relDiff <= tolerance {
				groups[i].members = append(groups[i].members, v)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, spacingGroup{representative: v, members: []float64{v}})
		}
	}
	return groups
}

// dominantSpacing returns the representative of the group with the most
// members and that group's size. On a tie the earliest-created group wins.
func dominantSpacing(groups []spacingGroup) (representative float64, support int) {
	for _, g := range groups {
		if len(g.members) > support {
			support = len(g.members)
			representative = g.representative
		}
	}
	return representative, support
}
