// Package worldtest is a small black-box helper for driving a world through
// its exported API only, so determinism tests can live outside the world
// package and exercise exactly what external callers see.
package worldtest

import (
	"testing"

	"seedworld/internal/sim/world"
)

type Harness struct {
	T *testing.T
	W *world.World
}

func NewHarness(t *testing.T, cfg world.Config) *Harness {
	t.Helper()
	w, err := world.New(cfg)
	if err != nil {
		t.Fatalf("world.New: %v", err)
	}
	return &Harness{T: t, W: w}
}

// NewHarnessWithWorld wraps an already-constructed world, for snapshot
// round-trip tests where the world is restored rather than generated.
func NewHarnessWithWorld(t *testing.T, w *world.World) *Harness {
	t.Helper()
	if w == nil {
		t.Fatalf("NewHarnessWithWorld: nil world")
	}
	return &Harness{T: t, W: w}
}

// StepFor advances the world n ticks, failing the test on any tick error.
func (h *Harness) StepFor(n int) {
	h.T.Helper()
	for i := 0; i < n; i++ {
		if err := h.W.Tick(); err != nil {
			h.T.Fatalf("Tick %d: %v", i, err)
		}
	}
}

func (h *Harness) Checksum() world.WorldChecksum {
	return h.W.Checksum()
}

// ZeroVegetation clears every vegetation cell.
func (h *Harness) ZeroVegetation() {
	cfg := h.W.Config()
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			h.W.DebugSetVegetation(x, y, 0)
		}
	}
}
