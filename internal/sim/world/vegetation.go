package world

import "seedworld/internal/sim/world/terrain"

// Vegetation initialization constants. Starting density is deliberately
// below the biome cap to create scarcity pressure on the initial population.
const (
	vegInitBase          = 0.25
	vegInitMoistureBonus = 0.55

	// vegStride is the row-striding factor of the amortized regrowth
	// schedule: rows where row%4 == tick%4 update each tick, with growth
	// scaled by the same factor. The exact formula is checksum-relevant.
	vegStride = 4

	// deathNutrientBonus is returned to the cell when an agent starves on it.
	deathNutrientBonus = 0.3
)

// BiomeVegetationMax is the per-biome density cap.
func BiomeVegetationMax(b terrain.Biome) float64 {
	switch b {
	case terrain.Ocean:
		return 0
	case terrain.Beach:
		return 0.1
	case terrain.Plains:
		return 0.7
	case terrain.Forest:
		return 1.0
	case terrain.Desert:
		return 0.15
	case terrain.Mountain:
		return 0.3
	case terrain.Snow:
		return 0.05
	}
	return 0
}

// BiomeGrowthRate is the per-biome logistic regrowth rate per tick.
func BiomeGrowthRate(b terrain.Biome) float64 {
	switch b {
	case terrain.Ocean:
		return 0
	case terrain.Beach:
		return 0.01
	case terrain.Plains:
		return 0.02
	case terrain.Forest:
		return 0.03
	case terrain.Desert:
		return 0.005
	case terrain.Mountain:
		return 0.01
	case terrain.Snow:
		return 0.002
	}
	return 0
}

// VegetationField is the only mutable layer: a per-cell growable, consumable
// density bounded by the cell's biome cap. The cap, growth rate and moisture
// factor are frozen at generation time since the layers beneath never change.
type VegetationField struct {
	W, H  int
	Cells []float64

	max      []float64
	rate     []float64
	moistFac []float64 // 0.25 + 0.75*moisture, precomputed
}

// NewVegetationField seeds density at min(cap, cap*(base + bonus*moisture)).
func NewVegetationField(biomes *terrain.BiomeGrid, moisture *terrain.Grid) *VegetationField {
	n := biomes.W * biomes.H
	f := &VegetationField{
		W:        biomes.W,
		H:        biomes.H,
		Cells:    make([]float64, n),
		max:      make([]float64, n),
		rate:     make([]float64, n),
		moistFac: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		b := biomes.Cells[i]
		m := moisture.Cells[i]
		cap := BiomeVegetationMax(b)
		f.max[i] = cap
		f.rate[i] = BiomeGrowthRate(b)
		f.moistFac[i] = 0.25 + 0.75*m

		d := cap * (vegInitBase + vegInitMoistureBonus*m)
		if d > cap {
			d = cap
		}
		f.Cells[i] = d
	}
	return f
}

func (f *VegetationField) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < f.W && y < f.H
}

// At returns the density; out-of-bounds reads return 0.
func (f *VegetationField) At(x, y int) float64 {
	if !f.inBounds(x, y) {
		return 0
	}
	return f.Cells[y*f.W+x]
}

// MaxAt returns the biome cap for the cell; out-of-bounds reads return 0.
func (f *VegetationField) MaxAt(x, y int) float64 {
	if !f.inBounds(x, y) {
		return 0
	}
	return f.max[y*f.W+x]
}

// Consume removes up to amount from the cell, clamping at zero, and returns
// the amount actually removed.
func (f *VegetationField) Consume(x, y int, amount float64) float64 {
	if !f.inBounds(x, y) || amount <= 0 {
		return 0
	}
	i := y*f.W + x
	removed := amount
	if removed > f.Cells[i] {
		removed = f.Cells[i]
	}
	f.Cells[i] -= removed
	return removed
}

// Deposit adds density to the cell, capped at the biome maximum.
func (f *VegetationField) Deposit(x, y int, amount float64) {
	if !f.inBounds(x, y) || amount <= 0 {
		return
	}
	i := y*f.W + x
	f.Cells[i] += amount
	if f.Cells[i] > f.max[i] {
		f.Cells[i] = f.max[i]
	}
}

// Regrow runs the logistic regrowth schedule for one tick. Only rows where
// row%4 == tick%4 are touched, with growth scaled by the stride so long-run
// regrowth matches a full per-tick update. Growth is fast when depleted and
// slows to zero at the cap.
func (f *VegetationField) Regrow(tick uint64) {
	sel := int(tick % vegStride)
	for y := 0; y < f.H; y++ {
		if y%vegStride != sel {
			continue
		}
		row := y * f.W
		for x := 0; x < f.W; x++ {
			i := row + x
			cap := f.max[i]
			if cap <= 0 {
				continue
			}
			deficit := 1 - f.Cells[i]/cap
			if deficit <= 0 {
				continue
			}
			f.Cells[i] += f.rate[i] * f.moistFac[i] * deficit * vegStride
			if f.Cells[i] > cap {
				f.Cells[i] = cap
			}
		}
	}
}
