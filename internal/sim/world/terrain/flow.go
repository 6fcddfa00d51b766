package terrain

import "sort"

// RiverThreshold is the accumulated flow at which a cell counts as river.
const RiverThreshold = 100.0

var neighborOffsets = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// AccumulateFlow routes water down the height field by steepest descent.
// Every cell starts with flow 1 (its own contribution). Cells are processed
// strictly high-to-low, so each cell's accumulated flow is final by the time
// it is added to its lowest strictly-lower 8-neighbor; one pass suffices, no
// relaxation. Ties in height break on cell index so the order is fixed.
func AccumulateFlow(height *Grid) *FlowGrid {
	w, h := height.W, height.H
	fg := NewFlowGrid(w, h)
	for i := range fg.Flow {
		fg.Flow[i] = 1
	}

	order := make([]int, w*h)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ha, hb := height.Cells[order[a]], height.Cells[order[b]]
		if ha != hb {
			return ha > hb
		}
		return order[a] < order[b]
	})

	for _, idx := range order {
		x := idx % w
		y := idx / w
		own := height.Cells[idx]

		best := -1
		bestH := own
		for _, d := range neighborOffsets {
			nx, ny := x+d[0], y+d[1]
			if !height.InBounds(nx, ny) {
				continue
			}
			nh := height.Cells[ny*w+nx]
			if nh < bestH {
				bestH = nh
				best = ny*w + nx
			}
		}
		if best >= 0 {
			fg.Flow[best] += fg.Flow[idx]
		}
	}

	for i, f := range fg.Flow {
		fg.River[i] = f >= RiverThreshold
	}
	return fg
}
