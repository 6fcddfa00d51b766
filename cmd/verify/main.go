// Command verify checks reproducibility: fresh runs against each other,
// snapshot round-trips against the live world, and snapshot replays against
// the run index. Exits nonzero on any divergence.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"seedworld/internal/persistence/indexdb"
	"seedworld/internal/persistence/snapshot"
	"seedworld/internal/sim/tuning"
	"seedworld/internal/sim/world"
)

func main() {
	var (
		mode       = flag.String("mode", "fresh", "fresh | roundtrip | replay")
		configPath = flag.String("config", "", "path to tuning.yaml (optional; defaults apply)")
		seed       = flag.Int64("seed", 12345, "world seed (fresh, roundtrip)")
		ticks      = flag.Uint64("ticks", 100, "ticks to simulate")
		runs       = flag.Int("runs", 3, "independent runs to compare (fresh)")
		snapPath   = flag.String("snapshot", "", "snapshot to replay (replay)")
		indexPath  = flag.String("index", "", "run index db to check composites against (replay, optional)")
	)
	flag.Parse()

	cfg := world.Config{}
	if *configPath != "" {
		tune, err := tuning.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "load tuning:", err)
			os.Exit(2)
		}
		cfg = tune.WorldConfig()
	}

	var err error
	switch *mode {
	case "fresh":
		cfg.Seed = *seed
		err = verifyFresh(cfg, *ticks, *runs)
	case "roundtrip":
		cfg.Seed = *seed
		err = verifyRoundtrip(cfg, *ticks)
	case "replay":
		err = verifyReplay(cfg, *snapPath, *ticks, *indexPath)
	default:
		fmt.Fprintf(os.Stderr, "unknown -mode %q\n", *mode)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "FAIL:", err)
		os.Exit(1)
	}
	fmt.Println("OK")
}

// verifyFresh runs the same configuration several times from scratch and
// requires every run to land on the same layered checksum.
func verifyFresh(cfg world.Config, ticks uint64, runs int) error {
	if runs < 2 {
		runs = 2
	}
	var want world.WorldChecksum
	for i := 0; i < runs; i++ {
		c, err := runFresh(cfg, ticks)
		if err != nil {
			return err
		}
		if i == 0 {
			want = c
			fmt.Printf("run 1/%d: tick=%d composite=%016x\n", runs, c.Tick, c.Composite)
			continue
		}
		if c != want {
			return fmt.Errorf("run %d diverged: composite %016x, want %016x", i+1, c.Composite, want.Composite)
		}
		fmt.Printf("run %d/%d: composite matches\n", i+1, runs)
	}
	return nil
}

// verifyRoundtrip steps a world, snapshots it through a file, restores it,
// then steps both the original and the restored copy further and compares.
func verifyRoundtrip(cfg world.Config, ticks uint64) error {
	w, err := world.New(cfg)
	if err != nil {
		return err
	}
	if err := step(w, ticks); err != nil {
		return err
	}

	dir, err := os.MkdirTemp("", "seedworld-verify-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "roundtrip.snap.zst")
	if err := snapshot.WriteSnapshot(path, w.ExportSnapshot()); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	snap, err := snapshot.ReadSnapshot(path)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	r, err := world.Restore(snap, cfg)
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}

	if got, want := r.Checksum(), w.Checksum(); got != want {
		return fmt.Errorf("restore point mismatch: %016x, want %016x", got.Composite, want.Composite)
	}
	if err := step(w, ticks); err != nil {
		return err
	}
	if err := step(r, ticks); err != nil {
		return err
	}
	got, want := r.Checksum(), w.Checksum()
	if got != want {
		return fmt.Errorf("resume divergence at tick %d: %016x vs %016x", got.Tick, got.Composite, want.Composite)
	}
	fmt.Printf("roundtrip: tick=%d composite=%016x\n", got.Tick, got.Composite)
	return nil
}

// verifyReplay restores a snapshot, checks its checksum against the run
// index when one is given, then steps it forward to prove it stays healthy.
func verifyReplay(cfg world.Config, snapPath string, ticks uint64, indexPath string) error {
	if snapPath == "" {
		return fmt.Errorf("missing -snapshot")
	}
	snap, err := snapshot.ReadSnapshot(snapPath)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	fmt.Printf("snapshot v%d tick=%d seed=%d size=%dx%d agents=%d\n",
		snap.Header.Version, snap.Header.Tick, snap.Header.Seed, snap.Width, snap.Height, len(snap.Agents))

	w, err := world.Restore(snap, cfg)
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	composite := fmt.Sprintf("%016x", w.Checksum().Composite)
	fmt.Printf("restored composite=%s\n", composite)

	if indexPath != "" {
		idx, err := indexdb.OpenSQLite(indexPath)
		if err != nil {
			return fmt.Errorf("open index: %w", err)
		}
		defer idx.Close()
		hits, err := idx.LookupComposite(composite)
		if err != nil {
			return fmt.Errorf("lookup composite: %w", err)
		}
		found := false
		for _, h := range hits {
			if h.Tick == snap.Header.Tick {
				found = true
				fmt.Printf("index: run=%s tick=%d path=%s\n", h.RunID, h.Tick, h.Path)
				break
			}
		}
		if !found {
			return fmt.Errorf("composite %s at tick %d not present in index %s", composite, snap.Header.Tick, indexPath)
		}
	}

	if err := step(w, ticks); err != nil {
		return err
	}
	c := w.Checksum()
	fmt.Printf("replayed %d ticks: tick=%d composite=%016x population=%d\n", ticks, c.Tick, c.Composite, w.Population())
	return nil
}

func runFresh(cfg world.Config, ticks uint64) (world.WorldChecksum, error) {
	w, err := world.New(cfg)
	if err != nil {
		return world.WorldChecksum{}, err
	}
	if err := step(w, ticks); err != nil {
		return world.WorldChecksum{}, err
	}
	return w.Checksum(), nil
}

func step(w *world.World, n uint64) error {
	for i := uint64(0); i < n; i++ {
		if err := w.Tick(); err != nil {
			return fmt.Errorf("tick %d: %w", w.CurrentTick(), err)
		}
	}
	return nil
}
