package terrain

// RealTerrain is an externally constructed height layer with location
// metadata. Fetching and geocoding live outside the core; once injected, the
// rest of the pipeline treats it exactly like procedural height.
type RealTerrain struct {
	Name         string
	MinElevation float64
	MaxElevation float64
	// GeoBounds is south, west, north, east in degrees.
	GeoBounds [4]float64

	Height *Grid
}

// FromElevations normalizes raw elevation samples (row-major, meters) into a
// [0, 1] height layer, recording the original bounds as metadata.
func FromElevations(w, h int, samples []float64, name string, geo [4]float64) RealTerrain {
	g := NewGrid(w, h)
	n := len(g.Cells)
	if len(samples) < n {
		n = len(samples)
	}

	minV, maxV := 0.0, 0.0
	if n > 0 {
		minV, maxV = samples[0], samples[0]
		for _, v := range samples[:n] {
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
		}
	}
	span := maxV - minV
	for i := 0; i < n; i++ {
		if span > 0 {
			g.Cells[i] = (samples[i] - minV) / span
		}
	}

	return RealTerrain{
		Name:         name,
		MinElevation: minV,
		MaxElevation: maxV,
		GeoBounds:    geo,
		Height:       g,
	}
}
