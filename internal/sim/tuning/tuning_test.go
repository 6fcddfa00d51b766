package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ReferenceConfig(t *testing.T) {
	tn, err := Load(filepath.Join("..", "..", "..", "configs", "tuning.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tn.Width != 64 || tn.Height != 64 {
		t.Fatalf("dims %dx%d, want 64x64", tn.Width, tn.Height)
	}
	if tn.Seed != 12345 {
		t.Fatalf("seed %d, want 12345", tn.Seed)
	}
	if tn.Agents.MaxHunger != 100 {
		t.Fatalf("max hunger %v", tn.Agents.MaxHunger)
	}

	cfg := tn.WorldConfig()
	if cfg.Width != 64 || cfg.Seed != 12345 || cfg.Agents.HungerRate != 0.5 {
		t.Fatalf("world config mapping wrong: %+v", cfg)
	}
}

func TestLoad_RejectsBadYAML(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(p, []byte("width: [not an int"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(p); err == nil {
		t.Fatalf("bad yaml accepted")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("missing file accepted")
	}
}
