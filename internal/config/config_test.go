package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/san-kum/lifecal/internal/storage"
	"github.com/san-kum/lifecal/internal/timeline"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scale != "w" {
		t.Errorf("expected scale w, got %s", cfg.Scale)
	}
	if cfg.Store != storage.BackendFile {
		t.Errorf("expected file store, got %s", cfg.Store)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lifecal.yaml")
	cfg := DefaultConfig()
	cfg.Scale = "d"
	cfg.Seed = 42

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Scale != "d" || loaded.Seed != 42 {
		t.Errorf("round trip lost values: %+v", loaded)
	}
	if loaded.Theme != DefaultTheme {
		t.Errorf("expected default theme to survive, got %s", loaded.Theme)
	}
}

func TestResolve_Env(t *testing.T) {
	t.Setenv("LIFECAL_SCALE", "m")
	t.Setenv("LIFECAL_STORE", "sqlite")
	t.Setenv("LIFECAL_SEED", "7")

	cfg, err := Resolve("")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if cfg.Scale != "m" || cfg.Store != "sqlite" || cfg.Seed != 7 {
		t.Errorf("env not applied: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scale = "y"
	if err := cfg.Validate(); !errors.Is(err, timeline.ErrUnknownScale) {
		t.Errorf("expected ErrUnknownScale, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.Store = "redis"
	if err := cfg.Validate(); !errors.Is(err, storage.ErrUnknownBackend) {
		t.Errorf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("glance")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Scale != "m" {
		t.Errorf("expected scale m, got %s", cfg.Scale)
	}

	cfg.Scale = "d"
	if Presets["glance"].Scale != "m" {
		t.Error("GetPreset returned shared pointer")
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.ApplyPreset("days") {
		t.Fatal("expected days preset")
	}
	if cfg.Scale != "d" || cfg.Theme != "ocean" {
		t.Errorf("preset not applied: %+v", cfg)
	}
	if cfg.ApplyPreset("nope") {
		t.Error("unknown preset applied")
	}
	if len(ListPresets()) != len(Presets) {
		t.Error("ListPresets incomplete")
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lifecal.yaml")

	if err := WriteDefault(path, false); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	cfg, err := Resolve(path)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if cfg.Scale != DefaultScale || cfg.Addr != DefaultAddr {
		t.Errorf("unexpected config %+v", cfg)
	}

	if err := WriteDefault(path, false); err == nil {
		t.Error("expected refusal to overwrite")
	}
	if err := WriteDefault(path, true); err != nil {
		t.Errorf("overwrite failed: %v", err)
	}
}
