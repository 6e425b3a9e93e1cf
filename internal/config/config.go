// Package config provides YAML-based session configuration loading and
// difficulty management for the live arcade.
package config

// Config is the complete, read-only configuration of one session.
type Config struct {
	Settings Settings      `yaml:"settings"`
	Engine   EngineConfig  `yaml:"engine"`
	Tiers    TierConfig    `yaml:"tiers"`
	Hype     HypeConfig    `yaml:"hype"`
	Effects  EffectsConfig `yaml:"effects"`
	Boss     BossConfig    `yaml:"boss"`
	Field    FieldConfig   `yaml:"field"`
	Racer    RacerConfig   `yaml:"racer"`
	Quiz     QuizConfig    `yaml:"quiz"`
	Wheel    WheelConfig   `yaml:"wheel"`
	Arena    ArenaConfig   `yaml:"arena"`
	Feed     FeedConfig    `yaml:"feed"`
	Storage  StorageConfig `yaml:"storage"`
}

// Settings is the host-supplied settings record. Static for the session.
type Settings struct {
	JoinCommand   string  `yaml:"join_command"`
	ActionCommand string  `yaml:"action_command"`
	RoundSeconds  float64 `yaml:"round_seconds"`
	WinGoal       int     `yaml:"win_goal"`
	Mode          string  `yaml:"mode"`        // Mode id; empty selects by keywords
	Title         string  `yaml:"title"`       // Free text used for keyword selection
	Description   string  `yaml:"description"` // Free text used for keyword selection
}

// EngineConfig tunes the frame scheduler and shared bookkeeping.
type EngineConfig struct {
	TickRate         int     `yaml:"tick_rate"`          // Repaints per second
	MaxDT            float64 `yaml:"max_dt"`             // Upper bound for one tick, seconds
	NotifyCap        int     `yaml:"notify_cap"`         // Notification queue length
	ActionCooldownMS int     `yaml:"action_cooldown_ms"` // Per-participant action throttle
	MaxVisible       int     `yaml:"max_visible"`        // Soft cap on on-screen participants
	Damping          float64 `yaml:"damping"`            // Participant velocity damping per second
	MaxFailures      int     `yaml:"max_failures"`       // Consecutive failed updates before reset
}

// TierConfig classifies gifts into Small/Medium/Large.
type TierConfig struct {
	MediumRepeat int `yaml:"medium_repeat"`
	LargeRepeat  int `yaml:"large_repeat"`
	MediumValue  int `yaml:"medium_value"`
	LargeValue   int `yaml:"large_value"`
}

// HypeConfig tunes the hype meter.
type HypeConfig struct {
	LikeCharge   float64 `yaml:"like_charge"`  // Per like count
	GiftCharge   float64 `yaml:"gift_charge"`  // Per gift repeat
	ShareCharge  float64 `yaml:"share_charge"` // Per share
	Decay        float64 `yaml:"decay"`        // Linear decay per second
	BoostSeconds float64 `yaml:"boost_seconds"`
	Policy       string  `yaml:"policy"` // "ignore" or "extend"
}

// EffectsConfig bounds the effects subsystem.
type EffectsConfig struct {
	MaxParticles     int     `yaml:"max_particles"`
	MaxTexts         int     `yaml:"max_texts"`
	ParticleLifetime float64 `yaml:"particle_lifetime"`
	TextLifetime     float64 `yaml:"text_lifetime"`
	TextRise         float64 `yaml:"text_rise"`   // Cells per second
	ShakeDecay       float64 `yaml:"shake_decay"` // Units per second
	FlashDecay       float64 `yaml:"flash_decay"` // Units per second
	ShakeCells       int     `yaml:"shake_cells"` // Offset at full strength
}

// BossConfig tunes the boss encounter.
type BossConfig struct {
	HPStart         int     `yaml:"hp_start"`
	HPCap           int     `yaml:"hp_cap"`
	GrowthFactor    float64 `yaml:"growth_factor"`
	GrowthConstant  float64 `yaml:"growth_constant"`
	ChatDamage      int     `yaml:"chat_damage"`
	SmallDamage     int     `yaml:"small_damage"`
	MediumDamage    int     `yaml:"medium_damage"`
	LargeDamage     int     `yaml:"large_damage"`
	LikeDamageEvery int     `yaml:"like_damage_every"`
	BotInterval     float64 `yaml:"bot_interval"`
	BotDamage       int     `yaml:"bot_damage"`
	RespawnSeconds  float64 `yaml:"respawn_seconds"`
	BoostMultiplier int     `yaml:"boost_multiplier"`
}

// FieldConfig tunes the field-clear mode.
type FieldConfig struct {
	MaxObstacles     int              `yaml:"max_obstacles"`
	MaxProjectiles   int              `yaml:"max_projectiles"`
	SpawnInterval    float64          `yaml:"spawn_interval"`
	MinSpawnInterval float64          `yaml:"min_spawn_interval"`
	ObstacleSpeed    float64          `yaml:"obstacle_speed"` // Cells per second
	MinRadius        float64          `yaml:"min_radius"`
	MaxRadius        float64          `yaml:"max_radius"`
	ProjectileSpeed  float64          `yaml:"projectile_speed"`
	ProjectileLife   float64          `yaml:"projectile_life"`
	AvatarRadius     float64          `yaml:"avatar_radius"`
	HullMax          float64          `yaml:"hull_max"`
	ShieldMax        float64          `yaml:"shield_max"`
	ShieldPerLike    float64          `yaml:"shield_per_like"`
	ShieldDecay      float64          `yaml:"shield_decay"`  // Per second
	ShieldAbsorb     float64          `yaml:"shield_absorb"` // Fraction of a hit absorbed
	HitDamage        float64          `yaml:"hit_damage"`    // Per unit of obstacle radius
	KillScore        int              `yaml:"kill_score"`
	WavePenalty      int              `yaml:"wave_penalty"`
	BotFireInterval  float64          `yaml:"bot_fire_interval"`
	Difficulty       DifficultyConfig `yaml:"difficulty"`
}

// RacerConfig tunes the lane runner.
type RacerConfig struct {
	Lanes         int              `yaml:"lanes"`
	BaseSpeed     float64          `yaml:"base_speed"` // Laps per second
	BoostSpeed    float64          `yaml:"boost_speed"`
	MaxSpeed      float64          `yaml:"max_speed"`
	SpeedDecay    float64          `yaml:"speed_decay"` // Per second, toward base
	Obstacles     int              `yaml:"obstacles"`
	ObstacleDrift float64          `yaml:"obstacle_drift"` // Laps per second
	CollisionSlow float64          `yaml:"collision_slow"` // Speed multiplier on hit
	MinBots       int              `yaml:"min_bots"`
	BotInterval   float64          `yaml:"bot_interval"`
	RoundBreak    float64          `yaml:"round_break"` // Seconds between rounds
	WinnerPoints  int              `yaml:"winner_points"`
	Difficulty    DifficultyConfig `yaml:"difficulty"`
}

// QuizConfig tunes the quiz mode and carries its question bank.
type QuizConfig struct {
	QuestionSeconds float64    `yaml:"question_seconds"`
	RevealSeconds   float64    `yaml:"reveal_seconds"`
	CorrectPoints   int        `yaml:"correct_points"`
	BankPath        string     `yaml:"bank_path"` // Optional external question bank
	Questions       []Question `yaml:"questions"`
}

// Question is one multiple-choice quiz question.
type Question struct {
	Prompt  string   `yaml:"prompt"`
	Choices []string `yaml:"choices"`
	Answer  int      `yaml:"answer"` // Zero-based index into Choices
}

// WheelConfig tunes the prize wheel.
type WheelConfig struct {
	Segments      []WheelSegment `yaml:"segments"`
	Friction      float64        `yaml:"friction"` // Fraction of spin lost per second
	ActionImpulse float64        `yaml:"action_impulse"`
	LikeImpulse   float64        `yaml:"like_impulse"`
	GiftImpulse   float64        `yaml:"gift_impulse"` // Scaled by tier
	MaxSpin       float64        `yaml:"max_spin"`     // Radians per second
	IdleSpin      float64        `yaml:"idle_spin"`
	StopThreshold float64        `yaml:"stop_threshold"`
	MinBots       int            `yaml:"min_bots"`
	BotInterval   float64        `yaml:"bot_interval"` // Idle seconds before a bot spins
}

// WheelSegment is one prize slice.
type WheelSegment struct {
	Label  string `yaml:"label"`
	Points int    `yaml:"points"`
}

// ArenaConfig tunes the idle arena.
type ArenaConfig struct {
	MinBots     int     `yaml:"min_bots"`
	WanderSpeed float64 `yaml:"wander_speed"` // Plane units per second
	DashSpeed   float64 `yaml:"dash_speed"`
	DashSeconds float64 `yaml:"dash_seconds"`
	Radius      float64 `yaml:"radius"` // Plane units
	HitPoints   int     `yaml:"hit_points"`
	BotInterval float64 `yaml:"bot_interval"`
}

// FeedConfig selects where raw events come from.
type FeedConfig struct {
	URL          string  `yaml:"url"`    // Upstream websocket to dial
	Listen       string  `yaml:"listen"` // Address for the push ingest listener
	Replay       string  `yaml:"replay"` // JSONL capture to replay
	ReplaySpeed  float64 `yaml:"replay_speed"`
	Demo         bool    `yaml:"demo"`
	DemoRate     float64 `yaml:"demo_rate"` // Events per second
	BackoffMinMS int     `yaml:"backoff_min_ms"`
	BackoffMaxMS int     `yaml:"backoff_max_ms"`
}

// StorageConfig configures result persistence.
type StorageConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // Empty selects ~/.livearcade/results.db
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string  `yaml:"type"`   // "score", "time", or "none"
	MaxAt float64 `yaml:"max_at"` // Score or seconds at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Multiplier added to speed at max difficulty
	RateMultiplier  float64 `yaml:"rate_multiplier"`  // Multiplier added to spawn rate at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ApplyPreset modifies the scaled sections based on a difficulty preset.
func ApplyPreset(cfg *Config, preset DifficultyPreset) {
	for _, d := range []*DifficultyConfig{&cfg.Field.Difficulty, &cfg.Racer.Difficulty} {
		if preset == DifficultyFixed {
			d.Enabled = false
			continue
		}
		d.Enabled = true
		d.InitialLevel = InitialLevelForPreset(preset)
	}
}
