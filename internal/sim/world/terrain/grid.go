// Package terrain holds the static grid layers and the generation pipeline
// that derives them: noise height, water flow accumulation, moisture
// diffusion and biome classification. Everything here is a pure function of
// the seed; no layer consumes a random stream.
package terrain

// Grid is a dense fixed-size scalar layer indexed by (x, y). Out-of-bounds
// reads return 0 so sampling code stays total.
type Grid struct {
	W, H  int
	Cells []float64
}

func NewGrid(w, h int) *Grid {
	return &Grid{W: w, H: h, Cells: make([]float64, w*h)}
}

func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.W && y < g.H
}

func (g *Grid) At(x, y int) float64 {
	if !g.InBounds(x, y) {
		return 0
	}
	return g.Cells[y*g.W+x]
}

func (g *Grid) Set(x, y int, v float64) {
	if !g.InBounds(x, y) {
		return
	}
	g.Cells[y*g.W+x] = v
}

// Clone returns an independent copy of the layer.
func (g *Grid) Clone() *Grid {
	out := NewGrid(g.W, g.H)
	copy(out.Cells, g.Cells)
	return out
}

// FlowGrid carries accumulated water flow plus the derived river flags.
// Out-of-bounds flow reads return 0 and river reads return false.
type FlowGrid struct {
	W, H  int
	Flow  []float64
	River []bool
}

func NewFlowGrid(w, h int) *FlowGrid {
	return &FlowGrid{W: w, H: h, Flow: make([]float64, w*h), River: make([]bool, w*h)}
}

func (g *FlowGrid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.W && y < g.H
}

func (g *FlowGrid) FlowAt(x, y int) float64 {
	if !g.InBounds(x, y) {
		return 0
	}
	return g.Flow[y*g.W+x]
}

func (g *FlowGrid) RiverAt(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	return g.River[y*g.W+x]
}

// BiomeGrid is the classified layer. Out-of-bounds reads return Ocean.
type BiomeGrid struct {
	W, H  int
	Cells []Biome
}

func NewBiomeGrid(w, h int) *BiomeGrid {
	return &BiomeGrid{W: w, H: h, Cells: make([]Biome, w*h)}
}

func (g *BiomeGrid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.W && y < g.H
}

func (g *BiomeGrid) At(x, y int) Biome {
	if !g.InBounds(x, y) {
		return Ocean
	}
	return g.Cells[y*g.W+x]
}

func (g *BiomeGrid) Set(x, y int, b Biome) {
	if !g.InBounds(x, y) {
		return
	}
	g.Cells[y*g.W+x] = b
}
