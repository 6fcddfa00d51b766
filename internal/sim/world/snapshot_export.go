package world

import (
	"seedworld/internal/persistence/snapshot"
	"seedworld/internal/sim/encoding"
	"seedworld/internal/sim/world/terrain"
)

// ExportSnapshot captures the complete serializable state. The flow layer is
// intentionally not exported: it is derived from height and recomputed on
// import.
func (w *World) ExportSnapshot() snapshot.SnapshotV1 {
	snap := snapshot.SnapshotV1{
		Header: snapshot.Header{
			Version: snapshot.Version,
			Tick:    w.tick,
			Seed:    w.cfg.Seed,
		},
		Width:       w.cfg.Width,
		Height:      w.cfg.Height,
		Population:  len(w.agents),
		NextAgentID: w.nextAgentID,

		HeightData:     encoding.EncodeFloats(w.height.Cells),
		MoistureData:   encoding.EncodeFloats(w.moisture.Cells),
		BiomeData:      encoding.EncodeRLE(biomeBytes(w.biomes.Cells)),
		VegetationData: encoding.EncodeFloats(w.vegetation.Cells),

		RNGState: w.rng.State(),
	}

	if w.realTerrain != nil {
		snap.RealTerrain = true
		snap.TerrainName = w.realTerrain.Name
		snap.MinElevation = w.realTerrain.MinElevation
		snap.MaxElevation = w.realTerrain.MaxElevation
		snap.GeoBounds = w.realTerrain.GeoBounds
	}

	for _, a := range w.sortedAgents() {
		snap.Agents = append(snap.Agents, snapshot.AgentV1{
			ID:            a.ID,
			X:             a.X,
			Y:             a.Y,
			Hunger:        a.Hunger,
			Energy:        a.Energy,
			Speed:         a.Speed,
			SenseRadius:   a.SenseRadius,
			State:         a.State.String(),
			MaxHunger:     a.MaxHunger,
			MaxEnergy:     a.MaxEnergy,
			ReproCooldown: a.ReproCooldown,
		})
	}

	for _, e := range w.history {
		snap.History = append(snap.History, snapshot.HistoryEventV1{
			Tick:        e.Tick,
			Kind:        e.Kind.String(),
			HasLocation: e.HasLocation,
			X:           e.X,
			Y:           e.Y,
			Detail:      e.Detail,
		})
	}

	return snap
}

func biomeBytes(cells []terrain.Biome) []uint8 {
	out := make([]uint8, len(cells))
	for i, b := range cells {
		out[i] = uint8(b)
	}
	return out
}
