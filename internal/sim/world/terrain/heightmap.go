package terrain

import "math"

// NoiseParams configures the fractal value-noise height generator.
type NoiseParams struct {
	Octaves     int
	Persistence float64
	Scale       float64
}

func DefaultNoiseParams() NoiseParams {
	return NoiseParams{Octaves: 4, Persistence: 0.5, Scale: 50}
}

func (p *NoiseParams) applyDefaults() {
	if p.Octaves <= 0 {
		p.Octaves = 4
	}
	if p.Persistence <= 0 {
		p.Persistence = 0.5
	}
	if p.Scale <= 0 {
		p.Scale = 50
	}
}

func mix64(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Hash2 mixes a lattice coordinate with the seed into a uniform uint64.
// Pure integer arithmetic: the same inputs yield the same output on any
// platform, which is what keeps worldgen reproducible.
func Hash2(seed int64, x, y int) uint64 {
	ux := uint64(uint32(int32(x)))
	uy := uint64(uint32(int32(y)))
	v := uint64(seed) ^ (ux * 0x9e3779b97f4a7c15) ^ (uy * 0xbf58476d1ce4e5b9)
	return mix64(v)
}

// hash01 maps a lattice corner to [0, 1).
func hash01(seed int64, x, y int) float64 {
	return float64(Hash2(seed, x, y)>>11) / float64(1<<53)
}

func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

// valueNoise samples one octave of lattice value noise at a continuous
// position, smoothstep-interpolated between the four surrounding corners.
func valueNoise(seed int64, nx, ny float64) float64 {
	x0 := int(math.Floor(nx))
	y0 := int(math.Floor(ny))
	tx := smoothstep(nx - float64(x0))
	ty := smoothstep(ny - float64(y0))

	c00 := hash01(seed, x0, y0)
	c10 := hash01(seed, x0+1, y0)
	c01 := hash01(seed, x0, y0+1)
	c11 := hash01(seed, x0+1, y0+1)

	top := c00 + (c10-c00)*tx
	bot := c01 + (c11-c01)*tx
	return top + (bot-top)*ty
}

// GenerateHeight builds the normalized elevation layer. Octave o samples at
// frequency 2^o with amplitude persistence^o and is seeded by seed + o*1000
// so octaves never alias each other. The accumulated field is min-max
// normalized to [0, 1] over the whole grid.
func GenerateHeight(w, h int, seed int64, p NoiseParams) *Grid {
	p.applyDefaults()
	g := NewGrid(w, h)

	minV := math.Inf(1)
	maxV := math.Inf(-1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := 0.0
			freq := 1.0
			amp := 1.0
			for o := 0; o < p.Octaves; o++ {
				oseed := seed + int64(o)*1000
				sum += valueNoise(oseed, float64(x)/p.Scale*freq, float64(y)/p.Scale*freq) * amp
				freq *= 2
				amp *= p.Persistence
			}
			g.Cells[y*w+x] = sum
			if sum < minV {
				minV = sum
			}
			if sum > maxV {
				maxV = sum
			}
		}
	}

	span := maxV - minV
	if span <= 0 {
		for i := range g.Cells {
			g.Cells[i] = 0
		}
		return g
	}
	for i, v := range g.Cells {
		g.Cells[i] = (v - minV) / span
	}
	return g
}
