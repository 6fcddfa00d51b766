package indexdb

import (
	"path/filepath"
	"testing"

	"seedworld/internal/persistence/snapshot"
)

func TestSQLiteIndex_RunsAndCheckpoints(t *testing.T) {
	dir := t.TempDir()
	idx, err := OpenSQLite(filepath.Join(dir, "index.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer idx.Close()

	runID, err := idx.BeginRun(12345, 64, 64)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if runID == "" {
		t.Fatalf("BeginRun returned empty id")
	}

	snap := snapshot.SnapshotV1{
		Header: snapshot.Header{Version: snapshot.Version, Tick: 100, Seed: 12345},
		Agents: make([]snapshot.AgentV1, 7),
	}
	if err := idx.RecordCheckpoint(runID, snap, "00000000deadbeef", "/data/t100.snap.zst"); err != nil {
		t.Fatalf("RecordCheckpoint: %v", err)
	}

	runs, err := idx.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != runID || runs[0].Seed != 12345 || runs[0].Width != 64 {
		t.Fatalf("ListRuns = %+v", runs)
	}

	cps, err := idx.Checkpoints(runID)
	if err != nil {
		t.Fatalf("Checkpoints: %v", err)
	}
	if len(cps) != 1 || cps[0].Tick != 100 || cps[0].Agents != 7 || cps[0].Path != "/data/t100.snap.zst" {
		t.Fatalf("Checkpoints = %+v", cps)
	}
}

func TestSQLiteIndex_LookupComposite(t *testing.T) {
	dir := t.TempDir()
	idx, err := OpenSQLite(filepath.Join(dir, "index.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer idx.Close()

	runID, err := idx.BeginRun(7, 32, 32)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	snap := snapshot.SnapshotV1{Header: snapshot.Header{Version: snapshot.Version, Tick: 5, Seed: 7}}
	if err := idx.RecordCheckpoint(runID, snap, "0123456789abcdef", "/data/t5.snap.zst"); err != nil {
		t.Fatalf("RecordCheckpoint: %v", err)
	}

	hits, err := idx.LookupComposite("0123456789abcdef")
	if err != nil {
		t.Fatalf("LookupComposite: %v", err)
	}
	if len(hits) != 1 || hits[0].RunID != runID || hits[0].Tick != 5 {
		t.Fatalf("LookupComposite = %+v", hits)
	}

	hits, err = idx.LookupComposite("ffffffffffffffff")
	if err != nil {
		t.Fatalf("LookupComposite miss: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("expected no hits, got %+v", hits)
	}
}

func TestSQLiteIndex_RecheckpointReplacesRow(t *testing.T) {
	dir := t.TempDir()
	idx, err := OpenSQLite(filepath.Join(dir, "index.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer idx.Close()

	runID, err := idx.BeginRun(1, 16, 16)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	snap := snapshot.SnapshotV1{Header: snapshot.Header{Version: snapshot.Version, Tick: 10, Seed: 1}}
	if err := idx.RecordCheckpoint(runID, snap, "aaaaaaaaaaaaaaaa", "/data/a.snap.zst"); err != nil {
		t.Fatalf("first RecordCheckpoint: %v", err)
	}
	if err := idx.RecordCheckpoint(runID, snap, "bbbbbbbbbbbbbbbb", "/data/b.snap.zst"); err != nil {
		t.Fatalf("second RecordCheckpoint: %v", err)
	}

	cps, err := idx.Checkpoints(runID)
	if err != nil {
		t.Fatalf("Checkpoints: %v", err)
	}
	if len(cps) != 1 || cps[0].Composite != "bbbbbbbbbbbbbbbb" {
		t.Fatalf("Checkpoints after replace = %+v", cps)
	}
}
