package world

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"seedworld/internal/sim/world/terrain"
)

// WorldChecksum is the layered verification value: one hash per layer plus a
// composite folding tick, seed and every layer hash. It is derived on demand
// from live state and never stored. Collision-tolerant, not collision-proof:
// this is regression tooling, not security.
type WorldChecksum struct {
	Tick uint64
	Seed int64

	Height     uint64
	Flow       uint64
	Moisture   uint64
	Biome      uint64
	Vegetation uint64
	Agents     uint64

	Composite uint64
}

// digestSampleThreshold is the array size above which value digests switch
// to a strided sample reduced to (length, sum, position-weighted sum), to
// bound hashing cost on large grids.
const digestSampleThreshold = 1 << 14

// Checksum hashes every layer and the roster. Read-only: calling it never
// changes state or the RNG.
func (w *World) Checksum() WorldChecksum {
	c := WorldChecksum{
		Tick:       w.tick,
		Seed:       w.cfg.Seed,
		Height:     digestScalarLayer(w.height),
		Flow:       digestFlowLayer(w.flow),
		Moisture:   digestScalarLayer(w.moisture),
		Biome:      digestBiomeLayer(w.biomes),
		Vegetation: digestVegetationLayer(w.vegetation),
		Agents:     w.digestAgents(),
	}

	h := xxhash.New()
	var tmp [8]byte
	writeU64(h, &tmp, c.Tick)
	writeU64(h, &tmp, uint64(c.Seed))
	writeU64(h, &tmp, c.Height)
	writeU64(h, &tmp, c.Flow)
	writeU64(h, &tmp, c.Moisture)
	writeU64(h, &tmp, c.Biome)
	writeU64(h, &tmp, c.Vegetation)
	writeU64(h, &tmp, c.Agents)
	c.Composite = h.Sum64()
	return c
}

type hashWriter interface {
	Write(p []byte) (n int, err error)
}

func writeU64(h hashWriter, tmp *[8]byte, v uint64) {
	binary.LittleEndian.PutUint64(tmp[:], v)
	h.Write(tmp[:])
}

func writeF64(h hashWriter, tmp *[8]byte, v float64) {
	writeU64(h, tmp, math.Float64bits(v))
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// writeFloatDigest writes either every value or, past the size threshold, a
// strided sample reduced to (length, sum, position-weighted sum).
func writeFloatDigest(h hashWriter, tmp *[8]byte, vals []float64) {
	writeU64(h, tmp, uint64(len(vals)))
	if len(vals) <= digestSampleThreshold {
		for _, v := range vals {
			writeF64(h, tmp, v)
		}
		return
	}
	k := len(vals)/digestSampleThreshold + 1
	var sum, posSum float64
	n := 0
	for i := 0; i < len(vals); i += k {
		sum += vals[i]
		posSum += vals[i] * float64(i)
		n++
	}
	writeU64(h, tmp, uint64(n))
	writeF64(h, tmp, sum)
	writeF64(h, tmp, posSum)
}

func digestScalarLayer(g *terrain.Grid) uint64 {
	h := xxhash.New()
	var tmp [8]byte
	writeU64(h, &tmp, uint64(g.W))
	writeU64(h, &tmp, uint64(g.H))
	writeFloatDigest(h, &tmp, g.Cells)
	return h.Sum64()
}

func digestFlowLayer(g *terrain.FlowGrid) uint64 {
	h := xxhash.New()
	var tmp [8]byte
	writeU64(h, &tmp, uint64(g.W))
	writeU64(h, &tmp, uint64(g.H))
	writeFloatDigest(h, &tmp, g.Flow)
	for _, r := range g.River {
		h.Write([]byte{boolByte(r)})
	}
	return h.Sum64()
}

// digestBiomeLayer hashes the per-type histogram in enum order; the counts
// pin the classification without hashing every cell.
func digestBiomeLayer(g *terrain.BiomeGrid) uint64 {
	var counts [terrain.BiomeCount + 1]uint64
	for _, b := range g.Cells {
		i := int(b)
		if i > terrain.BiomeCount {
			i = terrain.BiomeCount
		}
		counts[i]++
	}

	h := xxhash.New()
	var tmp [8]byte
	writeU64(h, &tmp, uint64(g.W))
	writeU64(h, &tmp, uint64(g.H))
	for _, c := range counts {
		writeU64(h, &tmp, c)
	}
	return h.Sum64()
}

func digestVegetationLayer(f *VegetationField) uint64 {
	h := xxhash.New()
	var tmp [8]byte
	writeU64(h, &tmp, uint64(f.W))
	writeU64(h, &tmp, uint64(f.H))
	writeFloatDigest(h, &tmp, f.Cells)
	return h.Sum64()
}

func (w *World) digestAgents() uint64 {
	h := xxhash.New()
	var tmp [8]byte
	writeU64(h, &tmp, uint64(len(w.agents)))
	for _, a := range w.sortedAgents() {
		writeU64(h, &tmp, a.ID)
		writeF64(h, &tmp, a.X)
		writeF64(h, &tmp, a.Y)
		writeF64(h, &tmp, a.Hunger)
		writeF64(h, &tmp, a.Energy)
		writeF64(h, &tmp, a.Speed)
		writeF64(h, &tmp, a.SenseRadius)
		writeU64(h, &tmp, uint64(a.ReproCooldown))
		h.Write([]byte{byte(a.State)})
	}
	return h.Sum64()
}
