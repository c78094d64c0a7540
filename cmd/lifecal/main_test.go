package main

import (
	"bytes"
	"context"
	"go/format"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/lifecal/internal/config"
	"github.com/san-kum/lifecal/internal/storage"
	"github.com/san-kum/lifecal/internal/timeline"
	"github.com/spf13/cobra"
)

func TestLifespanRand_Shared(t *testing.T) {
	cfg = &config.Config{Seed: 7}
	rng = nil
	t.Cleanup(func() { cfg, rng = nil, nil })

	r1 := lifespanRand()
	if r2 := lifespanRand(); r1 != r2 {
		t.Fatal("expected one generator per process")
	}

	// initial draw and first reroll continue one seeded sequence
	ref := newRand(7)
	first, second := timeline.Lifespan(lifespanRand()), timeline.Lifespan(lifespanRand())
	if want := timeline.Lifespan(ref); first != want {
		t.Errorf("first draw %d, want %d", first, want)
	}
	if want := timeline.Lifespan(ref); second != want {
		t.Errorf("second draw %d, want %d", second, want)
	}
}

func TestCloseStore(t *testing.T) {
	db, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	kv = db
	t.Cleanup(func() { kv = nil })

	if err := closeStore(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if kv != nil {
		t.Error("store still set after close")
	}
	if _, _, err := db.Get(context.Background(), "k"); err == nil {
		t.Error("expected closed database to fail")
	}
	if err := closeStore(); err != nil {
		t.Errorf("second close: %v", err)
	}

	kv = storage.NewMemory()
	if err := closeStore(); err != nil {
		t.Errorf("memory close: %v", err)
	}
}

func TestRunConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "lifecal.yaml")
	cfg = config.DefaultConfig()
	configFile = path
	force = false
	t.Cleanup(func() { cfg, configFile, force = nil, "", false })

	cmd := &cobra.Command{}
	if err := runConfigInit(cmd, nil); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	loaded, err := config.Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Scale != config.DefaultScale {
		t.Errorf("expected default scale, got %s", loaded.Scale)
	}

	if err := runConfigInit(cmd, nil); err == nil {
		t.Error("expected refusal without --force")
	}
	force = true
	if err := runConfigInit(cmd, nil); err != nil {
		t.Errorf("forced init failed: %v", err)
	}
}

func TestSourcesGofmt(t *testing.T) {
	for _, root := range []string{"../../cmd", "../../internal"} {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() || filepath.Ext(path) != ".go" {
				return err
			}
			src, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			formatted, err := format.Source(src)
			if err != nil {
				t.Errorf("%s: %v", path, err)
				return nil
			}
			if !bytes.Equal(src, formatted) {
				t.Errorf("%s is not gofmt-clean", path)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("walk %s: %v", root, err)
		}
	}
}
