package world

import (
	"fmt"

	"seedworld/internal/persistence/snapshot"
	"seedworld/internal/sim/encoding"
	"seedworld/internal/sim/rng"
	"seedworld/internal/sim/world/terrain"
)

// Restore is the restoring constructor: it rebuilds a live world from a
// snapshot, field by field, with no generation pass. The RNG resumes via
// SetState — never by reseeding — and the flow layer is recomputed from the
// restored height. A malformed payload fails the whole load; there is no
// partial recovery.
func Restore(snap snapshot.SnapshotV1, cfg Config) (*World, error) {
	if snap.Header.Version != snapshot.Version {
		return nil, fmt.Errorf("%w: got %d, want %d", snapshot.ErrVersionMismatch, snap.Header.Version, snapshot.Version)
	}
	if snap.Width <= 0 || snap.Height <= 0 {
		return nil, fmt.Errorf("world: snapshot has invalid dimensions %dx%d", snap.Width, snap.Height)
	}

	cfg.Width = snap.Width
	cfg.Height = snap.Height
	cfg.Seed = snap.Header.Seed
	cfg.applyDefaults()

	w := &World{
		cfg:         cfg,
		tick:        snap.Header.Tick,
		nextAgentID: snap.NextAgentID,
	}

	n := snap.Width * snap.Height
	var err error
	if w.height, err = decodeScalarLayer(snap.HeightData, snap.Width, snap.Height); err != nil {
		return nil, fmt.Errorf("world: height layer: %w", err)
	}
	if w.moisture, err = decodeScalarLayer(snap.MoistureData, snap.Width, snap.Height); err != nil {
		return nil, fmt.Errorf("world: moisture layer: %w", err)
	}

	biomeIDs, err := encoding.DecodeRLE(snap.BiomeData)
	if err != nil {
		return nil, fmt.Errorf("world: biome layer: %w", err)
	}
	if len(biomeIDs) != n {
		return nil, fmt.Errorf("world: biome layer has %d cells, want %d", len(biomeIDs), n)
	}
	w.biomes = terrain.NewBiomeGrid(snap.Width, snap.Height)
	for i, id := range biomeIDs {
		if int(id) >= terrain.BiomeCount {
			return nil, fmt.Errorf("world: unknown biome id %d at cell %d", id, i)
		}
		w.biomes.Cells[i] = terrain.Biome(id)
	}

	// Flow is derived state: always rebuilt from the restored height.
	w.flow = terrain.AccumulateFlow(w.height)

	vegCells, err := encoding.DecodeFloats(snap.VegetationData)
	if err != nil {
		return nil, fmt.Errorf("world: vegetation layer: %w", err)
	}
	if len(vegCells) != n {
		return nil, fmt.Errorf("world: vegetation layer has %d cells, want %d", len(vegCells), n)
	}
	w.vegetation = NewVegetationField(w.biomes, w.moisture)
	copy(w.vegetation.Cells, vegCells)

	if snap.RealTerrain {
		w.realTerrain = &terrain.RealTerrain{
			Name:         snap.TerrainName,
			MinElevation: snap.MinElevation,
			MaxElevation: snap.MaxElevation,
			GeoBounds:    snap.GeoBounds,
			Height:       w.height.Clone(),
		}
	}

	for _, av := range snap.Agents {
		st, ok := parseAgentState(av.State)
		if !ok {
			return nil, fmt.Errorf("world: agent %d has unknown state %q", av.ID, av.State)
		}
		w.agents = append(w.agents, &Agent{
			ID:            av.ID,
			X:             av.X,
			Y:             av.Y,
			Hunger:        av.Hunger,
			Energy:        av.Energy,
			Speed:         av.Speed,
			SenseRadius:   av.SenseRadius,
			MaxHunger:     av.MaxHunger,
			MaxEnergy:     av.MaxEnergy,
			ReproCooldown: av.ReproCooldown,
			State:         st,
		})
	}

	// Replay the stored events in order to rebuild the append-only log.
	for _, ev := range snap.History {
		kind, ok := parseEventKind(ev.Kind)
		if !ok {
			return nil, fmt.Errorf("world: unknown history event kind %q", ev.Kind)
		}
		w.logEvent(HistoryEvent{
			Tick:        ev.Tick,
			Kind:        kind,
			HasLocation: ev.HasLocation,
			X:           ev.X,
			Y:           ev.Y,
			Detail:      ev.Detail,
		})
	}

	w.rng = rng.New(0)
	w.rng.SetState(snap.RNGState)

	return w, nil
}

func decodeScalarLayer(data string, width, height int) (*terrain.Grid, error) {
	vals, err := encoding.DecodeFloats(data)
	if err != nil {
		return nil, err
	}
	if len(vals) != width*height {
		return nil, fmt.Errorf("layer has %d cells, want %d", len(vals), width*height)
	}
	g := terrain.NewGrid(width, height)
	copy(g.Cells, vals)
	return g, nil
}

func parseAgentState(s string) (AgentState, bool) {
	for _, st := range []AgentState{StateIdle, StateForaging, StateEating, StateReproducing, StateDead} {
		if st.String() == s {
			return st, true
		}
	}
	return StateIdle, false
}

func parseEventKind(s string) (EventKind, bool) {
	for _, k := range []EventKind{EventWorldGenerated, EventAgentSpawned, EventAgentDied} {
		if k.String() == s {
			return k, true
		}
	}
	return EventWorldGenerated, false
}
