// Package boss implements the boss encounter: viewers wear down a boss
// whose maximum hp grows every time it is defeated.
package boss

import (
	"fmt"
	"math"

	"github.com/vovakirdan/live-arcade/internal/config"
	"github.com/vovakirdan/live-arcade/internal/core"
	"github.com/vovakirdan/live-arcade/internal/event"
	"github.com/vovakirdan/live-arcade/internal/mode"
	"github.com/vovakirdan/live-arcade/internal/participant"
	"github.com/vovakirdan/live-arcade/internal/session"
)

// ID is the registry id of this mode.
const ID = "boss"

// State is the boss encounter state.
type State int

const (
	StateActive   State = iota // hp > 0, taking damage
	StateDefeated              // hp == 0, celebrating until respawn
)

// String returns the state name.
func (s State) String() string {
	if s == StateDefeated {
		return "defeated"
	}
	return "active"
}

const (
	botCount   = 3
	maxRing    = 24  // Attackers drawn around the boss
	hitWobble  = 0.2 // Seconds the boss flashes after a hit
	burstCount = 80
)

func init() {
	mode.Register(mode.Info{
		ID:       ID,
		Title:    "Boss Encounter",
		Keywords: []string{"boss", "raid", "fight", "battle", "monster", "dragon"},
	}, func(ctx *session.Context) mode.Mode {
		return New(ctx)
	})
}

// Mode implements the boss encounter.
type Mode struct {
	ctx   *session.Context
	cfg   config.BossConfig
	tiers config.TierConfig

	state       State
	hp          int
	hpMax       int
	defeats     int
	respawnLeft float64
	score       int
	likeAcc     int
	botTimer    float64
	botTurn     int
	wobble      float64
	lastHitter  string

	bots      []*participant.Participant
	attackers []string // Recent attacker ids, refreshed in Update
	width     int
	height    int
}

// New creates a boss mode bound to a session.
func New(ctx *session.Context) *Mode {
	return &Mode{
		ctx:    ctx,
		cfg:    ctx.Config.Boss,
		tiers:  ctx.Config.Tiers,
		width:  core.DefaultConfig().ScreenW,
		height: core.DefaultConfig().ScreenH,
	}
}

// ID returns the unique identifier for this mode.
func (m *Mode) ID() string { return ID }

// Title returns the display name for this mode.
func (m *Mode) Title() string { return "Boss Encounter" }

// Init spawns the first boss and the ambient attackers.
func (m *Mode) Init() {
	m.state = StateActive
	m.hpMax = m.cfg.HPStart
	m.hp = m.hpMax
	m.defeats = 0
	m.respawnLeft = 0
	m.score = 0
	m.likeAcc = 0
	m.botTimer = 0
	m.botTurn = 0
	m.wobble = 0
	m.lastHitter = ""
	m.attackers = m.attackers[:0]
	m.bots = mode.EnsureBots(m.ctx, "boss", botCount)
}

// Reset restarts the encounter from the first boss.
func (m *Mode) Reset() {
	m.Init()
}

// Destroy releases nothing; the mode holds no external handles.
func (m *Mode) Destroy() {}

// HP returns the current boss hp.
func (m *Mode) HP() int { return m.hp }

// HPMax returns the current maximum hp.
func (m *Mode) HPMax() int { return m.hpMax }

// Defeats returns how many times the boss has been defeated.
func (m *Mode) Defeats() int { return m.defeats }

// State returns the encounter state.
func (m *Mode) State() State { return m.state }

// NextHPMax returns the maximum hp after one more defeat.
func (m *Mode) NextHPMax() int {
	return grow(m.hpMax, m.cfg)
}

// grow computes the post-defeat maximum hp. It never decreases and never
// exceeds the cap.
func grow(hpMax int, cfg config.BossConfig) int {
	next := int(math.Floor(float64(hpMax)*cfg.GrowthFactor + cfg.GrowthConstant))
	if next < hpMax {
		next = hpMax
	}
	if next > cfg.HPCap {
		next = max(cfg.HPCap, hpMax)
	}
	return next
}

// Damage applies damage from a participant (nil for anonymous).
// A hit that drives hp to zero resolves the defeat in the same call.
func (m *Mode) Damage(amount int, by *participant.Participant) {
	if m.state != StateActive || amount <= 0 {
		return
	}
	if m.ctx.Boosted() {
		amount *= m.cfg.BoostMultiplier
	}
	if amount > m.hp {
		amount = m.hp
	}

	m.hp -= amount
	m.score += amount
	m.wobble = hitWobble

	center := m.center()
	color := core.ColorBrightWhite
	if by != nil {
		by.AddScore(amount, m.ctx.Now())
		m.lastHitter = by.ID
		color = by.Color
	}
	m.ctx.Effects.SpawnFloatingText(fmt.Sprintf("-%d", amount), center.Add(core.V(m.ctx.RNG.Float64()*8-4, -2)), color)
	m.ctx.Effects.SpawnParticles(center, 3+min(amount, 20)/2, 0.8, color)
	m.ctx.Effects.Shake(math.Min(0.4, float64(amount)/float64(m.hpMax)*2))

	if m.hp <= 0 {
		m.defeat()
	}
}

// defeat runs the Active -> Defeated transition. hpMax grows at once, but hp
// stays 0 until respawn_seconds pass and respawn sets hp = hpMax. With a
// non-positive respawn_seconds the boss respawns in the same call.
func (m *Mode) defeat() {
	m.hp = 0
	m.state = StateDefeated
	m.defeats++

	center := m.center()
	m.ctx.Effects.Shake(1)
	m.ctx.Effects.Flash(1)
	m.ctx.Effects.SpawnParticles(center, burstCount, 2.5, core.ColorBrightYellow)
	m.ctx.Effects.SpawnFloatingText("BOSS DEFEATED!", center.Add(core.V(0, -4)), core.ColorBrightYellow)

	name := "the crowd"
	if p, ok := m.ctx.Participants.Get(m.lastHitter); ok {
		name = p.Name()
	}
	m.ctx.Notify(fmt.Sprintf("Boss #%d defeated by %s", m.defeats, name), core.ColorBrightYellow)
	m.ctx.Log.Info("boss defeated", "defeats", m.defeats, "hp_max", m.hpMax, "finisher", m.lastHitter)

	m.hpMax = grow(m.hpMax, m.cfg)
	m.respawnLeft = m.cfg.RespawnSeconds
	if m.respawnLeft <= 0 {
		m.respawn()
	}
}

func (m *Mode) respawn() {
	m.state = StateActive
	m.hp = m.hpMax
	m.respawnLeft = 0
	m.ctx.Effects.SpawnFloatingText(fmt.Sprintf("LEVEL %d", m.defeats+1), m.center().Add(core.V(0, -3)), core.ColorBrightRed)
}

// OnChat applies the attack command, subject to the per-participant cooldown.
func (m *Mode) OnChat(e event.Chat) {
	if !m.ctx.IsAction(e.Text) {
		return
	}
	if !m.ctx.Allow(e.ParticipantID) {
		return
	}
	m.Damage(m.cfg.ChatDamage, mode.Author(m.ctx, e))
}

// OnGift applies the tier's fixed damage.
func (m *Mode) OnGift(e event.Gift) {
	m.Damage(m.tierDamage(mode.TierOf(e, m.tiers)), mode.Author(m.ctx, e))
}

// OnLike chips one damage per like_damage_every likes.
func (m *Mode) OnLike(e event.Like) {
	m.likeAcc += e.Count
	if d := m.likeAcc / m.cfg.LikeDamageEvery; d > 0 {
		m.likeAcc %= m.cfg.LikeDamageEvery
		m.Damage(d, mode.Author(m.ctx, e))
	}
}

// OnJoin greets the newcomer with a small burst at their ring slot.
func (m *Mode) OnJoin(e event.Join) {
	p := mode.Author(m.ctx, e)
	m.ctx.Effects.SpawnParticles(m.center(), 6, 0.6, p.Color)
}

func (m *Mode) tierDamage(t mode.Tier) int {
	switch t {
	case mode.TierLarge:
		return m.cfg.LargeDamage
	case mode.TierMedium:
		return m.cfg.MediumDamage
	default:
		return m.cfg.SmallDamage
	}
}

// Update advances respawn, ambient bot attacks and the attacker ring.
func (m *Mode) Update(dt float64, width, height int) {
	m.width, m.height = width, height

	if m.hpMax <= 0 || m.hp < 0 || m.hp > m.hpMax {
		m.ctx.Log.Warn("boss state inconsistent, resetting", "hp", m.hp, "hp_max", m.hpMax)
		m.Reset()
		return
	}

	m.wobble = math.Max(0, m.wobble-dt)

	if m.state == StateDefeated {
		m.respawnLeft -= dt
		if m.respawnLeft <= 0 {
			m.respawn()
		}
	}

	m.botTimer += dt
	if m.botTimer >= m.cfg.BotInterval {
		m.botTimer -= m.cfg.BotInterval
		if len(m.bots) > 0 {
			bot := m.bots[m.botTurn%len(m.bots)]
			m.botTurn++
			bot.LastAction = m.ctx.Now()
			m.Damage(m.cfg.BotDamage, bot)
		}
	}

	m.refreshAttackers()
}

// refreshAttackers keeps the most recently active participants for the ring.
func (m *Mode) refreshAttackers() {
	limit := min(maxRing, m.ctx.Config.Engine.MaxVisible)
	m.attackers = m.attackers[:0]
	var recent []*participant.Participant
	m.ctx.Participants.ForEach(func(p *participant.Participant) bool {
		recent = append(recent, p)
		return true
	})
	// Newest activity first; insertion order breaks ties.
	for i := 1; i < len(recent); i++ {
		for j := i; j > 0 && recent[j].LastAction > recent[j-1].LastAction; j-- {
			recent[j], recent[j-1] = recent[j-1], recent[j]
		}
	}
	for _, p := range recent {
		if len(m.attackers) == limit {
			break
		}
		m.attackers = append(m.attackers, p.ID)
	}
}

// Status returns score and boss hp for the HUD.
func (m *Mode) Status() mode.Status {
	progress := 0.0
	if m.hpMax > 0 {
		progress = float64(m.hp) / float64(m.hpMax)
	}
	return mode.Status{
		Score:    m.score,
		Progress: progress,
		Label:    "BOSS HP",
		Detail:   fmt.Sprintf("Lv %d  %d/%d", m.defeats+1, m.hp, m.hpMax),
	}
}

// center returns the boss center in surface cells.
func (m *Mode) center() core.Vec2 {
	return core.V(float64(m.width)/2, float64(m.height)*0.42)
}
