package terrain

// Biome is a closed enum; consumption sites switch exhaustively so a new
// variant cannot be silently mishandled.
type Biome uint8

const (
	Ocean Biome = iota
	Beach
	Plains
	Forest
	Desert
	Mountain
	Snow

	biomeCount = 7
)

// BiomeCount is the number of closed Biome variants.
const BiomeCount = int(biomeCount)

func (b Biome) String() string {
	switch b {
	case Ocean:
		return "OCEAN"
	case Beach:
		return "BEACH"
	case Plains:
		return "PLAINS"
	case Forest:
		return "FOREST"
	case Desert:
		return "DESERT"
	case Mountain:
		return "MOUNTAIN"
	case Snow:
		return "SNOW"
	}
	return "UNKNOWN"
}

// ClassifyBiome is the threshold cascade over (height, moisture). Height
// thresholds are deliberately evaluated before moisture thresholds; the
// order is part of the contract.
func ClassifyBiome(height, moisture float64) Biome {
	switch {
	case height < 0.3:
		return Ocean
	case height < 0.35:
		return Beach
	case height > 0.8:
		return Snow
	case height > 0.65:
		return Mountain
	case moisture < 0.3:
		return Desert
	case moisture > 0.6:
		return Forest
	default:
		return Plains
	}
}

// DeriveBiomes classifies every cell.
func DeriveBiomes(height, moisture *Grid) *BiomeGrid {
	g := NewBiomeGrid(height.W, height.H)
	for i := range g.Cells {
		g.Cells[i] = ClassifyBiome(height.Cells[i], moisture.Cells[i])
	}
	return g
}
