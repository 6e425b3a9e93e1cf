package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedMatchesDefault(t *testing.T) {
	cfg, err := Parse(defaultSessionYAML)
	if err != nil {
		t.Fatalf("Parse(embedded) error: %v", err)
	}
	def := Default()

	if cfg.Engine != def.Engine {
		t.Errorf("embedded engine = %+v, expected %+v", cfg.Engine, def.Engine)
	}
	if cfg.Boss != def.Boss {
		t.Errorf("embedded boss = %+v, expected %+v", cfg.Boss, def.Boss)
	}
	if cfg.Hype != def.Hype {
		t.Errorf("embedded hype = %+v, expected %+v", cfg.Hype, def.Hype)
	}
	if len(cfg.Quiz.Questions) < len(def.Quiz.Questions) {
		t.Errorf("embedded quiz bank has %d questions", len(cfg.Quiz.Questions))
	}
}

func TestLoadCustomPartial(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	data := []byte("settings:\n  mode: wheel\nboss:\n  hp_start: 300\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Settings.Mode != "wheel" {
		t.Errorf("Settings.Mode = %q, expected %q", cfg.Settings.Mode, "wheel")
	}
	if cfg.Boss.HPStart != 300 {
		t.Errorf("Boss.HPStart = %d, expected 300", cfg.Boss.HPStart)
	}
	if cfg.Boss.ChatDamage != Default().Boss.ChatDamage {
		t.Errorf("unnamed keys should keep defaults, got ChatDamage %d", cfg.Boss.ChatDamage)
	}
}

func TestLoadMissingCustom(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() with a missing custom path should fail")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv(EnvMode, " quiz ")
	t.Setenv(EnvActionCommand, "!go")

	cfg := Default()
	applyEnv(&cfg)

	if cfg.Settings.Mode != "quiz" {
		t.Errorf("Settings.Mode = %q, expected %q", cfg.Settings.Mode, "quiz")
	}
	if cfg.Settings.ActionCommand != "!go" {
		t.Errorf("Settings.ActionCommand = %q, expected %q", cfg.Settings.ActionCommand, "!go")
	}
}

func TestNormalizeClamps(t *testing.T) {
	cfg := Default()
	cfg.Engine.NotifyCap = 50
	cfg.Engine.MaxDT = 2
	cfg.Hype.Policy = "stack"
	cfg.Boss.GrowthFactor = 0.5
	cfg.Quiz.Questions = []Question{{Prompt: "bad", Choices: []string{"a"}, Answer: 3}}
	cfg.Normalize()

	if cfg.Engine.NotifyCap != 8 {
		t.Errorf("NotifyCap = %d, expected 8", cfg.Engine.NotifyCap)
	}
	if cfg.Engine.MaxDT != Default().Engine.MaxDT {
		t.Errorf("MaxDT = %v, expected default", cfg.Engine.MaxDT)
	}
	if cfg.Hype.Policy != PolicyIgnore {
		t.Errorf("Policy = %q, expected %q", cfg.Hype.Policy, PolicyIgnore)
	}
	if cfg.Boss.GrowthFactor != 1 {
		t.Errorf("GrowthFactor = %v, expected 1", cfg.Boss.GrowthFactor)
	}
	if len(cfg.Quiz.Questions) == 0 {
		t.Error("invalid bank should fall back to default questions")
	}

	cfg.Engine.NotifyCap = 1
	cfg.Normalize()
	if cfg.Engine.NotifyCap != 6 {
		t.Errorf("NotifyCap = %d, expected 6", cfg.Engine.NotifyCap)
	}
}

func TestNormalizeBotCounts(t *testing.T) {
	tests := []struct {
		name     string
		bots     int
		expected int
	}{
		{"negative", -3, 0},
		{"zero", 0, 0},
		{"in range", 4, 4},
		{"over visible cap", 500, Default().Engine.MaxVisible},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.Racer.MinBots = tc.bots
			cfg.Arena.MinBots = tc.bots
			cfg.Wheel.MinBots = tc.bots
			cfg.Normalize()

			got := []int{cfg.Racer.MinBots, cfg.Arena.MinBots, cfg.Wheel.MinBots}
			for i, name := range []string{"Racer", "Arena", "Wheel"} {
				if got[i] != tc.expected {
					t.Errorf("%s.MinBots = %d, expected %d", name, got[i], tc.expected)
				}
			}
		})
	}
}

func TestLoadQuestions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.yaml")
	data := []byte("- prompt: \"2+2?\"\n  choices: [\"3\", \"4\"]\n  answer: 1\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	bank, err := LoadQuestions(path)
	if err != nil {
		t.Fatalf("LoadQuestions() error: %v", err)
	}
	if len(bank) != 1 || bank[0].Answer != 1 || bank[0].Choices[1] != "4" {
		t.Errorf("LoadQuestions() = %+v", bank)
	}
}

func TestDifficultyInterval(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "score", MaxAt: 100},
		Scaling:     ScalingConfig{RateMultiplier: 3},
	})

	if got := d.Interval(1.2, 0.25, 0, 0); got != 1.2 {
		t.Errorf("Interval(score 0) = %v, expected 1.2", got)
	}
	if got := d.Interval(1.2, 0.25, 100, 0); got != 0.3 {
		t.Errorf("Interval(score max) = %v, expected 0.3", got)
	}
	if got := d.Interval(1.2, 0.5, 1000, 0); got != 0.5 {
		t.Errorf("Interval should not drop below min, got %v", got)
	}
}
