package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.World.Width != 3000 || cfg.World.Height != 3000 {
		t.Errorf("unexpected world size %dx%d", cfg.World.Width, cfg.World.Height)
	}
	if cfg.Screen.Width != 1280 || cfg.Screen.Height != 800 {
		t.Errorf("unexpected screen size %dx%d", cfg.Screen.Width, cfg.Screen.Height)
	}
	if cfg.Player.StartMass != 100 {
		t.Errorf("unexpected start mass %f", cfg.Player.StartMass)
	}
	if cfg.Physics.DTCap <= 0 {
		t.Error("dt cap must be positive")
	}
	if cfg.Bot.WanderMin >= cfg.Bot.WanderMax {
		t.Errorf("wander interval inverted: [%f, %f]", cfg.Bot.WanderMin, cfg.Bot.WanderMax)
	}
	if cfg.Duel.DominanceThreshold <= 1 {
		t.Errorf("dominance threshold %f would make equal masses dominate", cfg.Duel.DominanceThreshold)
	}
	if cfg.Population.FoodCount <= 0 || cfg.Population.BotCount <= 0 {
		t.Errorf("population targets must be positive: %d food, %d bots", cfg.Population.FoodCount, cfg.Population.BotCount)
	}
}

func TestDerivedValues(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.Derived.WorldW32 != float32(cfg.World.Width) {
		t.Errorf("derived world width %f != %d", cfg.Derived.WorldW32, cfg.World.Width)
	}
	if cfg.Derived.ScreenH32 != float32(cfg.Screen.Height) {
		t.Errorf("derived screen height %f != %d", cfg.Derived.ScreenH32, cfg.Screen.Height)
	}
}

func TestDerivedWorldFallsBackToScreen(t *testing.T) {
	cfg := &Config{}
	cfg.Screen.Width = 640
	cfg.Screen.Height = 480
	cfg.computeDerived()

	if cfg.Derived.WorldW32 != 640 || cfg.Derived.WorldH32 != 480 {
		t.Errorf("expected world to default to screen, got %fx%f", cfg.Derived.WorldW32, cfg.Derived.WorldH32)
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	override := []byte("player:\n  start_mass: 250\nworld:\n  width: 5000\n")
	if err := os.WriteFile(path, override, 0644); err != nil {
		t.Fatalf("writing override: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading override: %v", err)
	}

	if cfg.Player.StartMass != 250 {
		t.Errorf("override not applied: start mass %f", cfg.Player.StartMass)
	}
	if cfg.World.Width != 5000 {
		t.Errorf("override not applied: world width %d", cfg.World.Width)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Player.BoostMult != 1.8 {
		t.Errorf("default lost during merge: boost mult %f", cfg.Player.BoostMult)
	}
	if cfg.World.Height != 3000 {
		t.Errorf("default lost during merge: world height %d", cfg.World.Height)
	}
	if cfg.Derived.WorldW32 != 5000 {
		t.Errorf("derived not recomputed: %f", cfg.Derived.WorldW32)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("reloading written config: %v", err)
	}
	if back.Player.StartMass != cfg.Player.StartMass || back.World.Width != cfg.World.Width {
		t.Error("written config does not round trip")
	}
}
