package terrain

import "math"

const (
	// MoistureRadius bounds the nearest-river search.
	MoistureRadius = 15
	// ElevationPenaltyAbove halves moisture on cells higher than this.
	ElevationPenaltyAbove = 0.6
)

// DeriveMoisture assigns each cell 1 - nearestRiverDist/radius, clamped to
// [0, 1], with a 0.5 multiplier above the elevation threshold. Cells with no
// river within the radius get 0. The per-cell output values are the
// contract; the search itself is plain bounded brute force, which is cheap
// at simulation grid sizes.
func DeriveMoisture(height *Grid, flow *FlowGrid) *Grid {
	w, h := height.W, height.H
	g := NewGrid(w, h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			nearest := math.Inf(1)
			for dy := -MoistureRadius; dy <= MoistureRadius; dy++ {
				for dx := -MoistureRadius; dx <= MoistureRadius; dx++ {
					if !flow.RiverAt(x+dx, y+dy) {
						continue
					}
					d := math.Sqrt(float64(dx*dx + dy*dy))
					if d < nearest {
						nearest = d
					}
				}
			}

			m := 0.0
			if nearest <= MoistureRadius {
				m = 1 - nearest/MoistureRadius
			}
			if m < 0 {
				m = 0
			}
			if height.Cells[y*w+x] > ElevationPenaltyAbove {
				m *= 0.5
			}
			if m > 1 {
				m = 1
			}
			g.Cells[y*w+x] = m
		}
	}
	return g
}
