package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()
	if cfg.Addr != ":8080" {
		t.Errorf("unexpected default addr %q", cfg.Addr)
	}
	if cfg.MinPlayers != 5 || cfg.MaxPlayers != 20 {
		t.Errorf("unexpected default table size %d-%d", cfg.MinPlayers, cfg.MaxPlayers)
	}
	if cfg.Difficulty != "normal" {
		t.Errorf("unexpected default difficulty %q", cfg.Difficulty)
	}
	if !cfg.AFKKick || cfg.AFKThreshold != 3 {
		t.Error("AFK kicking should default to three strikes")
	}
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv("NIGHT_SECONDS", "15")
	t.Setenv("DIFFICULTY", "hard")
	t.Setenv("AFK_KICK", "false")
	t.Setenv("MIN_PLAYERS", "not-a-number")

	cfg := loadConfig(filepath.Join(t.TempDir(), "missing.json"))

	if cfg.NightSeconds != 15 {
		t.Errorf("NIGHT_SECONDS should win over the default, got %d", cfg.NightSeconds)
	}
	if cfg.Difficulty != "hard" {
		t.Errorf("DIFFICULTY should win over the default, got %q", cfg.Difficulty)
	}
	if cfg.AFKKick {
		t.Error("AFK_KICK=false should stick")
	}
	if cfg.MinPlayers != 5 {
		t.Errorf("a malformed env int should be ignored, got %d", cfg.MinPlayers)
	}
}

func TestConfigFileOverridesEnv(t *testing.T) {
	t.Setenv("NIGHT_SECONDS", "15")

	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"night_seconds": 30, "dev": true}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := loadConfig(path)

	if cfg.NightSeconds != 30 {
		t.Errorf("the config file should win over env, got %d", cfg.NightSeconds)
	}
	if !cfg.Dev {
		t.Error("the file's dev flag should stick")
	}
	// Fields absent from the file keep their layered values.
	if cfg.DaySeconds != defaultConfig().DaySeconds {
		t.Errorf("untouched fields should keep defaults, got %d", cfg.DaySeconds)
	}
}

func TestMalformedConfigFileIsIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{night: broken`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := loadConfig(path)
	if cfg.NightSeconds != defaultConfig().NightSeconds {
		t.Error("a broken file should leave the config untouched")
	}
}

func TestDerivedSettings(t *testing.T) {
	cfg := defaultConfig()
	cfg.HunterSeconds = 7
	cfg.PhasePauseMS = 250

	if cfg.hunterWindow() != 7*time.Second {
		t.Errorf("unexpected hunter window %v", cfg.hunterWindow())
	}
	if cfg.phasePause() != 250*time.Millisecond {
		t.Errorf("unexpected phase pause %v", cfg.phasePause())
	}

	s := cfg.gameSettings()
	if s.NightSeconds != cfg.NightSeconds || s.Difficulty != cfg.Difficulty || s.AFKThreshold != cfg.AFKThreshold {
		t.Errorf("session settings should start from the config, got %+v", s)
	}
}
