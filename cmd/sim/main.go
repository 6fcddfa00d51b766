package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"seedworld/internal/persistence/indexdb"
	"seedworld/internal/persistence/snapshot"
	"seedworld/internal/protocol"
	"seedworld/internal/sim/tuning"
	"seedworld/internal/sim/world"
	"seedworld/internal/transport/observer"
)

func main() {
	var (
		configPath = flag.String("config", "./configs/tuning.yaml", "path to tuning.yaml")
		seed       = flag.Int64("seed", 0, "world seed (overrides tuning when set)")
		ticks      = flag.Uint64("ticks", 0, "stop after this many ticks (0 = run until signal)")
		rate       = flag.Int("rate", 0, "ticks per second (overrides tuning when set; 0 with no tuning = unthrottled)")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		listen     = flag.String("listen", "127.0.0.1:8080", "observer http listen address (empty to disable)")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite run index")

		snapPath  = flag.String("snapshot", "", "path to snapshot to resume from (optional)")
		snapEvery = flag.Int("snapshot_every", 0, "write a snapshot every N ticks (overrides tuning when set)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[sim] ", log.LstdFlags|log.Lmicroseconds)

	seedSet, rateSet, everySet := false, false, false
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			seedSet = true
		case "rate":
			rateSet = true
		case "snapshot_every":
			everySet = true
		}
	})

	tune, err := tuning.Load(*configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load tuning: %v", err)
		}
		logger.Printf("tuning not found (%s); using defaults", *configPath)
	}
	cfg := tune.WorldConfig()
	if seedSet {
		cfg.Seed = *seed
	}
	tickRate := tune.TickRateHz
	if rateSet {
		tickRate = *rate
	}
	snapshotEvery := tune.SnapshotEveryTicks
	if everySet {
		snapshotEvery = *snapEvery
	}

	snapDir := filepath.Join(*dataDir, "snapshots")
	if err := os.MkdirAll(snapDir, 0o755); err != nil {
		logger.Fatalf("mkdir %s: %v", snapDir, err)
	}

	// World: fresh or resumed from snapshot.
	var w *world.World
	if p := strings.TrimSpace(*snapPath); p != "" {
		snap, err := snapshot.ReadSnapshot(p)
		if err != nil {
			logger.Fatalf("read snapshot: %v", err)
		}
		w, err = world.Restore(snap, cfg)
		if err != nil {
			logger.Fatalf("restore snapshot: %v", err)
		}
		logger.Printf("resumed from snapshot=%s tick=%d seed=%d", filepath.Base(p), w.CurrentTick(), w.Seed())
	} else {
		w, err = world.New(cfg)
		if err != nil {
			logger.Fatalf("world: %v", err)
		}
		logger.Printf("generated world seed=%d size=%dx%d agents=%d",
			w.Seed(), w.Config().Width, w.Config().Height, w.Population())
	}

	// Run index (does not affect sim determinism).
	var idx *indexdb.SQLiteIndex
	var runID string
	if !*disableDB {
		idx, err = indexdb.OpenSQLite(filepath.Join(*dataDir, "index.db"))
		if err != nil {
			logger.Fatalf("open run index: %v", err)
		}
		defer idx.Close()
		runID, err = idx.BeginRun(w.Seed(), w.Config().Width, w.Config().Height)
		if err != nil {
			logger.Fatalf("register run: %v", err)
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	hub := observer.NewHub()
	if *listen != "" {
		head := protocol.HelloMsg{
			Width:      w.Config().Width,
			Height:     w.Config().Height,
			Seed:       w.Seed(),
			TickRateHz: tickRate,
		}
		mux := http.NewServeMux()
		mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
			rw.WriteHeader(200)
			_, _ = rw.Write([]byte("ok"))
		})
		mux.HandleFunc("/v1/observer/ws", observer.NewServer(hub, head, logger).WSHandler())

		srv := &http.Server{
			Addr:              *listen,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			<-ctx.Done()
			ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel2()
			_ = srv.Shutdown(ctx2)
		}()
		go func() {
			logger.Printf("observer listening on %s", *listen)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Fatalf("ListenAndServe: %v", err)
			}
		}()
	}

	var throttle <-chan time.Time
	if tickRate > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(tickRate))
		defer ticker.Stop()
		throttle = ticker.C
	}

	histLen := len(w.History())
	stepped := uint64(0)
	for {
		if *ticks > 0 && stepped >= *ticks {
			break
		}
		if throttle != nil {
			select {
			case <-ctx.Done():
			case <-throttle:
			}
		}
		if ctx.Err() != nil {
			break
		}

		if err := w.Tick(); err != nil {
			logger.Fatalf("tick %d: %v", w.CurrentTick(), err)
		}
		stepped++

		hist := w.History()
		frame := observer.BuildFrame(w, hist[histLen:])
		histLen = len(hist)
		if b, err := json.Marshal(frame); err == nil {
			hub.Broadcast(w.CurrentTick(), b)
		}

		if snapshotEvery > 0 && w.CurrentTick()%uint64(snapshotEvery) == 0 {
			writeCheckpoint(w, snapDir, idx, runID, logger)
		}
	}

	// Final checkpoint so the run can be resumed or replayed.
	if snapshotEvery > 0 {
		writeCheckpoint(w, snapDir, idx, runID, logger)
	}
	c := w.Checksum()
	logger.Printf("stopped at tick=%d population=%d composite=%016x", w.CurrentTick(), w.Population(), c.Composite)
}

func writeCheckpoint(w *world.World, snapDir string, idx *indexdb.SQLiteIndex, runID string, logger *log.Logger) {
	snap := w.ExportSnapshot()
	path := filepath.Join(snapDir, fmt.Sprintf("t%010d.snap.zst", snap.Header.Tick))
	if err := snapshot.WriteSnapshot(path, snap); err != nil {
		logger.Printf("snapshot write: %v", err)
		return
	}
	composite := fmt.Sprintf("%016x", w.Checksum().Composite)
	if idx != nil {
		if err := idx.RecordCheckpoint(runID, snap, composite, path); err != nil {
			logger.Printf("index checkpoint: %v", err)
		}
	}
	logger.Printf("checkpoint tick=%d path=%s composite=%s", snap.Header.Tick, filepath.Base(path), composite)
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
