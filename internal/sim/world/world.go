package world

import (
	"errors"
	"fmt"

	"seedworld/internal/sim/rng"
	"seedworld/internal/sim/world/terrain"
)

// ErrNoEntropySource is returned by Tick when the world-owned RNG is
// missing. The core never falls back to an ambient random source; a missing
// stream is a programming error surfaced immediately.
var ErrNoEntropySource = errors.New("world: no injected rng; ambient randomness is not permitted")

// World is a single-threaded deterministic simulation. All state is owned by
// the one live World value; callers serialize access (there is no internal
// locking) and observers only ever see pre- or post-tick snapshots.
//
// The contract: identical seed and identical tick count always produce an
// identical world state, verifiable via Checksum.
type World struct {
	cfg  Config
	tick uint64

	rng *rng.Source

	height     *terrain.Grid
	flow       *terrain.FlowGrid
	moisture   *terrain.Grid
	biomes     *terrain.BiomeGrid
	vegetation *VegetationField

	agents      []*Agent
	nextAgentID uint64

	history []HistoryEvent

	// realTerrain, when set, replaces procedural noise for the height layer.
	realTerrain *terrain.RealTerrain
}

// New builds a world from cfg and runs generation.
func New(cfg Config) (*World, error) {
	cfg.applyDefaults()
	if cfg.Width > 4096 || cfg.Height > 4096 {
		return nil, fmt.Errorf("world: grid %dx%d too large", cfg.Width, cfg.Height)
	}
	w := &World{cfg: cfg}
	w.generate()
	return w, nil
}

// generate (re)builds every layer in pipeline order and seeds the initial
// population. It reseeds the RNG and clears all mutable state, so calling it
// twice with the same config yields bit-identical worlds.
func (w *World) generate() {
	w.rng = rng.New(w.cfg.Seed)
	w.tick = 0
	w.history = nil
	w.agents = nil
	w.nextAgentID = 1

	if w.realTerrain != nil {
		w.height = w.realTerrain.Height.Clone()
	} else {
		w.height = terrain.GenerateHeight(w.cfg.Width, w.cfg.Height, w.cfg.Seed, w.cfg.Noise)
	}
	w.flow = terrain.AccumulateFlow(w.height)
	w.moisture = terrain.DeriveMoisture(w.height, w.flow)
	w.biomes = terrain.DeriveBiomes(w.height, w.moisture)
	w.vegetation = NewVegetationField(w.biomes, w.moisture)

	w.seedPopulation()

	detail := fmt.Sprintf("seed=%d size=%dx%d agents=%d", w.cfg.Seed, w.cfg.Width, w.cfg.Height, len(w.agents))
	if w.realTerrain != nil {
		detail += " terrain=" + w.realTerrain.Name
	}
	w.logEvent(HistoryEvent{Tick: 0, Kind: EventWorldGenerated, Detail: detail})
}

// seedPopulation rejection-samples spawn cells on non-ocean tiles. Attempts
// are bounded per agent; a pathological all-ocean seed simply spawns fewer
// agents rather than looping forever.
func (w *World) seedPopulation() {
	p := w.cfg.Agents
	for i := 0; i < w.cfg.InitialAgents; i++ {
		placed := false
		var x, y int
		for attempt := 0; attempt < w.cfg.MaxSpawnAttempts; attempt++ {
			x = w.rng.IntRange(0, w.cfg.Width-1)
			y = w.rng.IntRange(0, w.cfg.Height-1)
			if w.biomes.At(x, y) != terrain.Ocean {
				placed = true
				break
			}
		}
		if !placed {
			continue
		}
		a := &Agent{
			ID:          w.nextAgentID,
			X:           float64(x) + 0.5,
			Y:           float64(y) + 0.5,
			Hunger:      w.rng.Range(10, 30),
			Energy:      50,
			Speed:       w.rng.Range(0.8, 1.2),
			SenseRadius: w.rng.Range(4, 6),
			MaxHunger:   p.MaxHunger,
			MaxEnergy:   p.MaxEnergy,
			State:       StateIdle,
		}
		w.nextAgentID++
		w.agents = append(w.agents, a)
	}
}

// Regenerate discards all mutable state and rebuilds the world from a new
// seed, keeping dimensions and tuning.
func (w *World) Regenerate(seed int64) {
	w.cfg.Seed = seed
	w.generate()
}

// LoadRealTerrain substitutes an externally supplied height layer for
// procedural noise and regenerates. The rest of the pipeline treats the
// injected layer identically.
func (w *World) LoadRealTerrain(rt terrain.RealTerrain) error {
	if rt.Height == nil {
		return errors.New("world: real terrain has no height layer")
	}
	if rt.Height.W != w.cfg.Width || rt.Height.H != w.cfg.Height {
		return fmt.Errorf("world: real terrain is %dx%d, world is %dx%d",
			rt.Height.W, rt.Height.H, w.cfg.Width, w.cfg.Height)
	}
	w.realTerrain = &rt
	w.generate()
	return nil
}

// ClearRealTerrain reverts to procedural height on the next regeneration.
func (w *World) ClearRealTerrain() {
	w.realTerrain = nil
}

// Config returns the world's configuration.
func (w *World) Config() Config { return w.cfg }

// CurrentTick returns the number of completed ticks.
func (w *World) CurrentTick() uint64 { return w.tick }

// Seed returns the generation seed.
func (w *World) Seed() int64 { return w.cfg.Seed }

// Population returns the live agent count.
func (w *World) Population() int { return len(w.agents) }

// RealTerrain reports the injected-terrain metadata, if any.
func (w *World) RealTerrain() (terrain.RealTerrain, bool) {
	if w.realTerrain == nil {
		return terrain.RealTerrain{}, false
	}
	return *w.realTerrain, true
}

// Layer sampling accessors: the observation boundary. All reads are total —
// out-of-bounds coordinates return layer defaults — and nothing exposed here
// can mutate the world.

func (w *World) HeightAt(x, y int) float64 { return w.height.At(x, y) }

func (w *World) FlowAt(x, y int) float64 { return w.flow.FlowAt(x, y) }

func (w *World) RiverAt(x, y int) bool { return w.flow.RiverAt(x, y) }

func (w *World) MoistureAt(x, y int) float64 { return w.moisture.At(x, y) }

func (w *World) BiomeAt(x, y int) terrain.Biome { return w.biomes.At(x, y) }

func (w *World) VegetationAt(x, y int) float64 { return w.vegetation.At(x, y) }

// Agents returns value copies of the roster sorted by id.
func (w *World) Agents() []Agent {
	out := make([]Agent, 0, len(w.agents))
	for _, a := range w.sortedAgents() {
		out = append(out, *a)
	}
	return out
}

// DebugSetVegetation overwrites one cell's density, clamped to the biome
// cap. Test/tooling hook for constructing deterministic preconditions; not
// part of the simulation itself.
func (w *World) DebugSetVegetation(x, y int, v float64) {
	if !w.vegetation.inBounds(x, y) {
		return
	}
	i := y*w.vegetation.W + x
	w.vegetation.Cells[i] = clamp(v, 0, w.vegetation.max[i])
}

// DebugClearAgents drops all agents except those whose ids are listed.
// Test/tooling hook, same caveat as DebugSetVegetation.
func (w *World) DebugClearAgents(keep ...uint64) {
	keepSet := map[uint64]bool{}
	for _, id := range keep {
		keepSet[id] = true
	}
	next := w.agents[:0]
	for _, a := range w.agents {
		if keepSet[a.ID] {
			next = append(next, a)
		}
	}
	w.agents = next
}
