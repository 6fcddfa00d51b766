package worldtest

import (
	"errors"
	"path/filepath"
	"testing"

	"seedworld/internal/persistence/snapshot"
	"seedworld/internal/sim/world"
)

func TestSnapshotFile_RoundTripResumesIdentically(t *testing.T) {
	cfg := world.Config{Width: 48, Height: 48, Seed: 2026}
	h := NewHarness(t, cfg)
	h.StepFor(25)

	path := filepath.Join(t.TempDir(), "t25.snap.zst")
	if err := snapshot.WriteSnapshot(path, h.W.ExportSnapshot()); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	snap, err := snapshot.ReadSnapshot(path)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}

	restored, err := world.Restore(snap, cfg)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	r := NewHarnessWithWorld(t, restored)

	if got, want := r.Checksum(), h.Checksum(); got != want {
		t.Fatalf("checksum after restore: %016x, want %016x", got.Composite, want.Composite)
	}

	// The restored world must continue bit-for-bit, not just match at the
	// restore point.
	h.StepFor(25)
	r.StepFor(25)
	if got, want := r.Checksum(), h.Checksum(); got != want {
		t.Fatalf("divergence after resume: %016x vs %016x", got.Composite, want.Composite)
	}
}

func TestSnapshotFile_FutureVersionRejected(t *testing.T) {
	cfg := world.Config{Width: 16, Height: 16, Seed: 5}
	h := NewHarness(t, cfg)
	h.StepFor(3)

	snap := h.W.ExportSnapshot()
	snap.Header.Version = snapshot.Version + 1

	path := filepath.Join(t.TempDir(), "future.snap.zst")
	if err := snapshot.WriteSnapshot(path, snap); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	if _, err := snapshot.ReadSnapshot(path); !errors.Is(err, snapshot.ErrVersionMismatch) {
		t.Fatalf("ReadSnapshot error = %v, want ErrVersionMismatch", err)
	}
}
