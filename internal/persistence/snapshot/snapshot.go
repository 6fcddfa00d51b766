// Package snapshot defines the versioned world snapshot and its on-disk
// codec: a one-line JSON header for cheap inspection, then a gob body, the
// whole stream zstd-compressed.
package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// Version is the current snapshot format version. Decode rejects anything
// else outright; there is no best-effort load.
const Version = 1

// ErrVersionMismatch is returned when a snapshot's format version is not the
// one this build writes.
var ErrVersionMismatch = errors.New("snapshot: format version mismatch")

type Header struct {
	Version int    `json:"version"`
	Tick    uint64 `json:"tick"`
	Seed    int64  `json:"seed"`
}

// SnapshotV1 is the full serialization contract. Layer storage is carried as
// encoded text (base64 float bits for scalars, base64 RLE for the biome
// enum). Flow is deliberately absent: it is derived and recomputed from the
// restored height layer on import.
type SnapshotV1 struct {
	Header Header `json:"header"`

	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Population  int    `json:"population"`
	NextAgentID uint64 `json:"next_agent_id"`

	RealTerrain  bool       `json:"real_terrain"`
	TerrainName  string     `json:"terrain_name,omitempty"`
	MinElevation float64    `json:"min_elevation,omitempty"`
	MaxElevation float64    `json:"max_elevation,omitempty"`
	GeoBounds    [4]float64 `json:"geo_bounds,omitempty"`

	HeightData     string `json:"height_data"`
	MoistureData   string `json:"moisture_data"`
	BiomeData      string `json:"biome_data"`
	VegetationData string `json:"vegetation_data"`

	Agents  []AgentV1        `json:"agents"`
	History []HistoryEventV1 `json:"history"`

	RNGState uint32 `json:"rng_state"`
}

type AgentV1 struct {
	ID            uint64  `json:"id"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Hunger        float64 `json:"hunger"`
	Energy        float64 `json:"energy"`
	Speed         float64 `json:"speed"`
	SenseRadius   float64 `json:"sense_radius"`
	State         string  `json:"state"`
	MaxHunger     float64 `json:"max_hunger"`
	MaxEnergy     float64 `json:"max_energy"`
	ReproCooldown int     `json:"repro_cooldown"`
}

type HistoryEventV1 struct {
	Tick        uint64 `json:"tick"`
	Kind        string `json:"kind"`
	HasLocation bool   `json:"has_location"`
	X           int    `json:"x,omitempty"`
	Y           int    `json:"y,omitempty"`
	Detail      string `json:"detail,omitempty"`
}

func WriteSnapshot(path string, snap SnapshotV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer enc.Close()

	bw := bufio.NewWriterSize(enc, 256*1024)
	defer bw.Flush()

	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}

	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	return nil
}

func ReadSnapshot(path string) (SnapshotV1, error) {
	var snap SnapshotV1
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)

	// Header line is advisory; the gob body carries it too.
	_, _ = br.ReadBytes('\n')

	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	if snap.Header.Version != Version {
		return snap, fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, snap.Header.Version, Version)
	}
	return snap, nil
}
