package config

import (
	_ "embed"
)

//go:embed defaults/session.yaml
var defaultSessionYAML []byte

// Default returns the hard-coded session configuration.
// The embedded session.yaml mirrors these values and adds the quiz bank.
func Default() Config {
	return Config{
		Settings: Settings{
			JoinCommand:   "!join",
			ActionCommand: "!attack",
			RoundSeconds:  90,
			WinGoal:       3,
		},
		Engine: EngineConfig{
			TickRate:         30,
			MaxDT:            0.033,
			NotifyCap:        8,
			ActionCooldownMS: 250,
			MaxVisible:       40,
			Damping:          1.5,
			MaxFailures:      3,
		},
		Tiers: TierConfig{
			MediumRepeat: 5,
			LargeRepeat:  10,
			MediumValue:  20,
			LargeValue:   100,
		},
		Hype: HypeConfig{
			LikeCharge:   0.01,
			GiftCharge:   0.04,
			ShareCharge:  0.05,
			Decay:        0.03,
			BoostSeconds: 8,
			Policy:       PolicyIgnore,
		},
		Effects: EffectsConfig{
			MaxParticles:     240,
			MaxTexts:         24,
			ParticleLifetime: 0.9,
			TextLifetime:     1.5,
			TextRise:         3,
			ShakeDecay:       2,
			FlashDecay:       2.5,
			ShakeCells:       2,
		},
		Boss: BossConfig{
			HPStart:         120,
			HPCap:           100000,
			GrowthFactor:    1.25,
			GrowthConstant:  20,
			ChatDamage:      2,
			SmallDamage:     5,
			MediumDamage:    25,
			LargeDamage:     120,
			LikeDamageEvery: 5,
			BotInterval:     1.5,
			BotDamage:       1,
			RespawnSeconds:  2.5,
			BoostMultiplier: 2,
		},
		Field: FieldConfig{
			MaxObstacles:     40,
			MaxProjectiles:   120,
			SpawnInterval:    1.2,
			MinSpawnInterval: 0.25,
			ObstacleSpeed:    5,
			MinRadius:        1,
			MaxRadius:        2.5,
			ProjectileSpeed:  30,
			ProjectileLife:   2,
			AvatarRadius:     1,
			HullMax:          100,
			ShieldMax:        100,
			ShieldPerLike:    3,
			ShieldDecay:      4,
			ShieldAbsorb:     0.6,
			HitDamage:        8,
			KillScore:        10,
			WavePenalty:      50,
			BotFireInterval:  0.8,
			Difficulty: DifficultyConfig{
				Enabled:      true,
				InitialLevel: 0.0,
				Progression: ProgressionConfig{
					Type:  "score",
					MaxAt: 2000,
				},
				Scaling: ScalingConfig{
					SpeedMultiplier: 1.0,
					RateMultiplier:  3.0,
				},
			},
		},
		Racer: RacerConfig{
			Lanes:         5,
			BaseSpeed:     0.05,
			BoostSpeed:    0.04,
			MaxSpeed:      0.3,
			SpeedDecay:    0.5,
			Obstacles:     6,
			ObstacleDrift: 0.02,
			CollisionSlow: 0.5,
			MinBots:       3,
			BotInterval:   1,
			RoundBreak:    4,
			WinnerPoints:  100,
			Difficulty: DifficultyConfig{
				Enabled:      true,
				InitialLevel: 0.0,
				Progression: ProgressionConfig{
					Type:  "time",
					MaxAt: 600,
				},
				Scaling: ScalingConfig{
					SpeedMultiplier: 1.5,
					RateMultiplier:  0,
				},
			},
		},
		Quiz: QuizConfig{
			QuestionSeconds: 15,
			RevealSeconds:   4,
			CorrectPoints:   10,
			Questions: []Question{
				{Prompt: "How many sides does a hexagon have?", Choices: []string{"5", "6", "7", "8"}, Answer: 1},
				{Prompt: "Which planet is closest to the sun?", Choices: []string{"Venus", "Earth", "Mercury", "Mars"}, Answer: 2},
			},
		},
		Wheel: WheelConfig{
			Segments: []WheelSegment{
				{Label: "10", Points: 10},
				{Label: "25", Points: 25},
				{Label: "5", Points: 5},
				{Label: "50", Points: 50},
				{Label: "0", Points: 0},
				{Label: "100", Points: 100},
			},
			Friction:      0.35,
			ActionImpulse: 1.5,
			LikeImpulse:   0.15,
			GiftImpulse:   3,
			MaxSpin:       25,
			IdleSpin:      0.2,
			StopThreshold: 0.3,
			MinBots:       1,
			BotInterval:   10,
		},
		Arena: ArenaConfig{
			MinBots:     6,
			WanderSpeed: 0.08,
			DashSpeed:   0.6,
			DashSeconds: 0.6,
			Radius:      0.03,
			HitPoints:   5,
			BotInterval: 1.2,
		},
		Feed: FeedConfig{
			ReplaySpeed:  1,
			DemoRate:     4,
			BackoffMinMS: 500,
			BackoffMaxMS: 30000,
		},
		Storage: StorageConfig{
			Enabled: true,
		},
	}
}
