package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Hype saturation policies while a boost window is already active.
const (
	PolicyIgnore = "ignore" // Re-saturation holds the meter at 1, window unchanged
	PolicyExtend = "extend" // Re-saturation restarts the window from now
)

// Environment overrides, applied after the YAML layers.
const (
	EnvMode          = "LIVEARCADE_MODE"
	EnvJoinCommand   = "LIVEARCADE_JOIN_COMMAND"
	EnvActionCommand = "LIVEARCADE_ACTION_COMMAND"
	EnvFeedURL       = "LIVEARCADE_FEED_URL"
	EnvFeedListen    = "LIVEARCADE_FEED_LISTEN"
)

// Load loads the session configuration.
// Search order: customPath -> ~/.livearcade/config.yaml -> ./configs/session.yaml -> embedded default
// Every layer decodes on top of Default(), so a partial file only overrides what it names.
// A .env file in the working directory is honored for the LIVEARCADE_* overrides.
func Load(customPath string) (Config, error) {
	cfg, err := loadYAML(customPath)
	if err != nil {
		return cfg, err
	}

	//nolint:errcheck // .env is optional
	godotenv.Load()
	applyEnv(&cfg)

	if cfg.Quiz.BankPath != "" {
		bank, err := LoadQuestions(cfg.Quiz.BankPath)
		if err != nil {
			return cfg, err
		}
		cfg.Quiz.Questions = bank
	}

	cfg.Normalize()
	return cfg, nil
}

func loadYAML(customPath string) (Config, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Default(), fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return Default(), fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("config.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/session.yaml"); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultSessionYAML)
	if err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// LoadQuestions reads an external quiz bank: a YAML list of questions.
func LoadQuestions(path string) ([]Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question bank %s: %w", path, err)
	}
	var bank []Question
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("failed to parse question bank %s: %w", path, err)
	}
	return bank, nil
}

// Dir returns the per-user state directory (~/.livearcade), or empty if home is unavailable.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".livearcade")
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, filename)
}

func applyEnv(cfg *Config) {
	set := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	set(EnvMode, &cfg.Settings.Mode)
	set(EnvJoinCommand, &cfg.Settings.JoinCommand)
	set(EnvActionCommand, &cfg.Settings.ActionCommand)
	set(EnvFeedURL, &cfg.Feed.URL)
	set(EnvFeedListen, &cfg.Feed.Listen)
}

// Normalize clamps out-of-range values into their usable ranges instead
// of rejecting the configuration.
func (c *Config) Normalize() {
	def := Default()

	c.Engine.NotifyCap = clampI(c.Engine.NotifyCap, 6, 8)
	if c.Engine.MaxDT <= 0 || c.Engine.MaxDT > 0.1 {
		c.Engine.MaxDT = def.Engine.MaxDT
	}
	if c.Engine.TickRate <= 0 {
		c.Engine.TickRate = def.Engine.TickRate
	}
	if c.Engine.ActionCooldownMS < 0 {
		c.Engine.ActionCooldownMS = 0
	}
	if c.Engine.MaxVisible <= 0 {
		c.Engine.MaxVisible = def.Engine.MaxVisible
	}
	if c.Engine.MaxFailures <= 0 {
		c.Engine.MaxFailures = def.Engine.MaxFailures
	}
	if c.Engine.Damping < 0 {
		c.Engine.Damping = 0
	}

	if c.Tiers.MediumRepeat <= 0 {
		c.Tiers.MediumRepeat = def.Tiers.MediumRepeat
	}
	if c.Tiers.LargeRepeat < c.Tiers.MediumRepeat {
		c.Tiers.LargeRepeat = c.Tiers.MediumRepeat
	}
	if c.Tiers.LargeValue < c.Tiers.MediumValue {
		c.Tiers.LargeValue = c.Tiers.MediumValue
	}

	if c.Hype.Policy != PolicyExtend {
		c.Hype.Policy = PolicyIgnore
	}
	if c.Hype.BoostSeconds <= 0 {
		c.Hype.BoostSeconds = def.Hype.BoostSeconds
	}
	c.Hype.Decay = clampF(c.Hype.Decay, 0, 1)

	if c.Effects.MaxParticles <= 0 {
		c.Effects.MaxParticles = def.Effects.MaxParticles
	}
	if c.Effects.MaxTexts <= 0 {
		c.Effects.MaxTexts = def.Effects.MaxTexts
	}
	if c.Effects.ParticleLifetime <= 0 {
		c.Effects.ParticleLifetime = def.Effects.ParticleLifetime
	}
	if c.Effects.TextLifetime <= 0 {
		c.Effects.TextLifetime = def.Effects.TextLifetime
	}
	if c.Effects.ShakeDecay <= 0 {
		c.Effects.ShakeDecay = def.Effects.ShakeDecay
	}
	if c.Effects.FlashDecay <= 0 {
		c.Effects.FlashDecay = def.Effects.FlashDecay
	}

	if c.Boss.HPStart <= 0 {
		c.Boss.HPStart = def.Boss.HPStart
	}
	if c.Boss.HPCap < c.Boss.HPStart {
		c.Boss.HPCap = c.Boss.HPStart
	}
	if c.Boss.GrowthFactor < 1 {
		c.Boss.GrowthFactor = 1
	}
	if c.Boss.GrowthConstant < 0 {
		c.Boss.GrowthConstant = 0
	}
	if c.Boss.LikeDamageEvery <= 0 {
		c.Boss.LikeDamageEvery = def.Boss.LikeDamageEvery
	}
	if c.Boss.BotInterval <= 0 {
		c.Boss.BotInterval = def.Boss.BotInterval
	}
	if c.Boss.BoostMultiplier < 1 {
		c.Boss.BoostMultiplier = 1
	}

	if c.Field.MaxObstacles <= 0 {
		c.Field.MaxObstacles = def.Field.MaxObstacles
	}
	if c.Field.MaxProjectiles <= 0 {
		c.Field.MaxProjectiles = def.Field.MaxProjectiles
	}
	if c.Field.SpawnInterval <= 0 {
		c.Field.SpawnInterval = def.Field.SpawnInterval
	}
	if c.Field.MinSpawnInterval <= 0 || c.Field.MinSpawnInterval > c.Field.SpawnInterval {
		c.Field.MinSpawnInterval = c.Field.SpawnInterval
	}
	if c.Field.MaxRadius < c.Field.MinRadius {
		c.Field.MaxRadius = c.Field.MinRadius
	}
	c.Field.ShieldAbsorb = clampF(c.Field.ShieldAbsorb, 0, 1)
	if c.Field.HullMax <= 0 {
		c.Field.HullMax = def.Field.HullMax
	}

	if c.Racer.Lanes <= 0 {
		c.Racer.Lanes = def.Racer.Lanes
	}
	if c.Racer.MaxSpeed < c.Racer.BaseSpeed {
		c.Racer.MaxSpeed = c.Racer.BaseSpeed
	}
	c.Racer.CollisionSlow = clampF(c.Racer.CollisionSlow, 0, 1)
	c.Racer.MinBots = clampI(c.Racer.MinBots, 0, c.Engine.MaxVisible)

	if c.Quiz.QuestionSeconds <= 0 {
		c.Quiz.QuestionSeconds = def.Quiz.QuestionSeconds
	}
	valid := c.Quiz.Questions[:0]
	for _, q := range c.Quiz.Questions {
		if q.Prompt != "" && len(q.Choices) >= 2 && len(q.Choices) <= 4 && q.Answer >= 0 && q.Answer < len(q.Choices) {
			valid = append(valid, q)
		}
	}
	c.Quiz.Questions = valid
	if len(c.Quiz.Questions) == 0 {
		c.Quiz.Questions = def.Quiz.Questions
	}

	if len(c.Wheel.Segments) < 2 {
		c.Wheel.Segments = def.Wheel.Segments
	}
	c.Wheel.Friction = clampF(c.Wheel.Friction, 0.01, 1)
	if c.Wheel.MaxSpin <= 0 {
		c.Wheel.MaxSpin = def.Wheel.MaxSpin
	}
	c.Wheel.MinBots = clampI(c.Wheel.MinBots, 0, c.Engine.MaxVisible)
	if c.Wheel.BotInterval <= 0 {
		c.Wheel.BotInterval = def.Wheel.BotInterval
	}

	if c.Arena.Radius <= 0 {
		c.Arena.Radius = def.Arena.Radius
	}
	if c.Arena.DashSeconds <= 0 {
		c.Arena.DashSeconds = def.Arena.DashSeconds
	}
	c.Arena.MinBots = clampI(c.Arena.MinBots, 0, c.Engine.MaxVisible)

	if c.Feed.ReplaySpeed <= 0 {
		c.Feed.ReplaySpeed = 1
	}
	if c.Feed.DemoRate <= 0 {
		c.Feed.DemoRate = def.Feed.DemoRate
	}
	if c.Feed.BackoffMinMS <= 0 {
		c.Feed.BackoffMinMS = def.Feed.BackoffMinMS
	}
	if c.Feed.BackoffMaxMS < c.Feed.BackoffMinMS {
		c.Feed.BackoffMaxMS = c.Feed.BackoffMinMS
	}
}

func clampI(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
