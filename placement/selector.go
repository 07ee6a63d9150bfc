package placement

import "sort"

// RankedPlacements sorts fitting placements first, then by available area,
// largest first.
type RankedPlacements []Placement

func (rp RankedPlacements) Len() int {
	return len(rp)
}

func (rp RankedPlacements) Swap(i, j int) {
	rp[i], rp[j] = rp[j], rp[i]
}

func (rp RankedPlacements) Less(i, j int) bool {
	iEntry, jEntry := rp[i], rp[j]

	if iEntry.FitsInside != jEntry.FitsInside {
		return iEntry.FitsInside
	}
	return iEntry.AvailableArea() > jEntry.AvailableArea()
}

// SelectBest returns the highest ranked placement. Equal ranks keep input
// order. The input slice is not reordered.
func SelectBest(placements []Placement) (Placement, error) {
	if len(placements) == 0 {
		return Placement{}, ErrEmptyInput
	}

	ranked := make(RankedPlacements, len(placements))
	copy(ranked, placements)
	sort.Stable(ranked)

	return ranked[0], nil
}
