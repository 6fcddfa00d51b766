package observer

import (
	"fmt"

	"seedworld/internal/protocol"
	"seedworld/internal/sim/world"
)

// BuildFrame assembles the per-tick observer message from live world state.
// Must be called from the goroutine that owns the world.
func BuildFrame(w *world.World, events []world.HistoryEvent) protocol.FrameMsg {
	c := w.Checksum()
	f := protocol.FrameMsg{
		Type:            protocol.TypeFrame,
		ProtocolVersion: protocol.Version,
		Tick:            w.CurrentTick(),
		Population:      w.Population(),
		Checksum: protocol.ChecksumMsg{
			Tick:       c.Tick,
			Seed:       c.Seed,
			Height:     hex64(c.Height),
			Flow:       hex64(c.Flow),
			Moisture:   hex64(c.Moisture),
			Biome:      hex64(c.Biome),
			Vegetation: hex64(c.Vegetation),
			Agents:     hex64(c.Agents),
			Composite:  hex64(c.Composite),
		},
	}
	for _, ev := range events {
		m := protocol.EventMsg{
			Tick:   ev.Tick,
			Kind:   ev.Kind.String(),
			Detail: ev.Detail,
		}
		if ev.HasLocation {
			x, y := ev.X, ev.Y
			m.X, m.Y = &x, &y
		}
		f.Events = append(f.Events, m)
	}
	return f
}

func hex64(v uint64) string {
	return fmt.Sprintf("%016x", v)
}
