// Package wheel implements the prize wheel. Chat actions, likes and gifts
// push the wheel; when it coasts to a stop the segment under the pointer
// pays out to whoever spun it last.
package wheel

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
const ID = "wheel"

const tau = 2 * math.Pi

func init() {
	mode.Register(mode.Info{
		ID:       ID,
		Title:    "Prize Wheel",
		Keywords: []string{"wheel", "spin", "prize", "fortune", "lucky", "raffle"},
	}, func(ctx *session.Context) mode.Mode {
		return New(ctx)
	})
}

// Result is one finished spin.
type Result struct {
	Segment config.WheelSegment
	Winner  string
	Points  int
}

// Mode implements the prize wheel.
type Mode struct {
	ctx   *session.Context
	cfg   config.WheelConfig
	tiers config.TierConfig

	angle    float64 // Radians, grows with spin
	spin     float64 // Radians per second
	spinning bool
	spinner  string
	spins    int
	score    int
	last     *Result
	flare    float64
	width    int
	height   int

	bots    []*participant.Participant
	botTurn int
	idle    float64 // Seconds since the last push
}

// New creates a wheel mode bound to a session.
func New(ctx *session.Context) *Mode {
	return &Mode{
		ctx:    ctx,
		cfg:    ctx.Config.Wheel,
		tiers:  ctx.Config.Tiers,
		width:  core.DefaultConfig().ScreenW,
		height: core.DefaultConfig().ScreenH,
	}
}

// ID returns the unique identifier for this mode.
func (m *Mode) ID() string { return ID }

// Title returns the display name for this mode.
func (m *Mode) Title() string { return "Prize Wheel" }

// Init parks the wheel at a random angle with an idle drift.
func (m *Mode) Init() {
	m.angle = m.ctx.RNG.Float64() * tau
	m.spin = m.cfg.IdleSpin
	m.spinning = false
	m.spinner = ""
	m.spins = 0
	m.score = 0
	m.last = nil
	m.idle = 0
	m.botTurn = 0
	m.bots = mode.EnsureBots(m.ctx, ID, m.cfg.MinBots)
}

// Reset restarts the wheel.
func (m *Mode) Reset() { m.Init() }

// Destroy releases nothing; the mode holds no external handles.
func (m *Mode) Destroy() {}

// Spin returns the current angular velocity.
func (m *Mode) Spin() float64 { return m.spin }

// Spinning reports whether a payout is pending.
func (m *Mode) Spinning() bool { return m.spinning }

// Spins returns the number of finished spins.
func (m *Mode) Spins() int { return m.spins }

// Last returns the most recent result, or nil before the first payout.
func (m *Mode) Last() *Result { return m.last }

// SegmentAt returns the index of the segment under the pointer for an angle.
func SegmentAt(angle float64, n int) int {
	if n <= 0 {
		return 0
	}
	a := math.Mod(angle, tau)
	if a < 0 {
		a += tau
	}
	return int(a/(tau/float64(n))) % n
}

// Current returns the segment under the pointer.
func (m *Mode) Current() int {
	return SegmentAt(m.angle, len(m.cfg.Segments))
}

func (m *Mode) push(p *participant.Participant, amount float64) {
	if amount <= 0 {
		return
	}
	if m.ctx.Boosted() {
		amount *= 2
	}
	m.spin = math.Min(m.cfg.MaxSpin, m.spin+amount)
	m.spinner = p.ID
	m.idle = 0
	if m.spin > m.cfg.StopThreshold {
		m.spinning = true
	}
	m.flare = 1
}

// OnChat spins the wheel on the action command.
func (m *Mode) OnChat(e event.Chat) {
	if !m.ctx.IsAction(e.Text) {
		return
	}
	p := mode.Author(m.ctx, e)
	if !m.ctx.Allow(p.ID) {
		return
	}
	m.push(p, m.cfg.ActionImpulse)
}

// OnLike nudges the wheel.
func (m *Mode) OnLike(e event.Like) {
	m.push(mode.Author(m.ctx, e), m.cfg.LikeImpulse*float64(max(1, e.Count)))
}

// OnGift gives the wheel a hard spin scaled by the gift tier.
func (m *Mode) OnGift(e event.Gift) {
	p := mode.Author(m.ctx, e)
	tier := mode.TierOf(e, m.tiers)
	m.push(p, m.cfg.GiftImpulse*tier.Scale())
	m.ctx.Effects.SpawnParticles(m.hub(), int(6*tier.Scale()), 1.2, p.Color)
}

// Update integrates the wheel and pays out when it stops. An ambient bot
// spins a wheel left idle for bot_interval seconds.
func (m *Mode) Update(dt float64, width, height int) {
	m.width, m.height = width, height
	if len(m.cfg.Segments) == 0 || math.IsNaN(m.angle) || math.IsNaN(m.spin) {
		m.ctx.Log.Warn("wheel state invalid, resetting")
		m.Reset()
		return
	}

	m.angle = math.Mod(m.angle+m.spin*dt, tau)
	m.spin *= math.Exp(-m.cfg.Friction * dt)
	m.flare = math.Max(0, m.flare-dt*2)

	if m.spinning && m.spin < m.cfg.StopThreshold {
		m.spinning = false
		m.payout()
		m.spin = 0
	}
	if !m.spinning && m.spin < m.cfg.IdleSpin {
		m.spin = m.cfg.IdleSpin
	}

	if !m.spinning {
		m.idle += dt
		if len(m.bots) > 0 && m.idle >= m.cfg.BotInterval {
			bot := m.bots[m.botTurn%len(m.bots)]
			m.botTurn++
			bot.LastAction = m.ctx.Now()
			m.push(bot, m.cfg.ActionImpulse)
		}
	}
}

func (m *Mode) payout() {
	seg := m.cfg.Segments[m.Current()]
	m.spins++
	res := &Result{Segment: seg, Winner: m.spinner, Points: seg.Points}
	m.last = res

	p, ok := m.ctx.Participants.Get(m.spinner)
	if !ok {
		return
	}
	name := p.Name()
	if seg.Points <= 0 {
		m.ctx.Notify(fmt.Sprintf("%s spun %s. Better luck next time!", name, seg.Label), core.ColorGray)
		return
	}
	p.AddScore(seg.Points, m.ctx.Now())
	m.score += seg.Points
	m.ctx.Effects.SpawnParticles(m.hub(), 20+seg.Points/4, 1.5, core.ColorBrightYellow)
	m.ctx.Effects.SpawnFloatingText(fmt.Sprintf("+%d", seg.Points), m.hub().Add(core.V(0, -2)), core.ColorBrightYellow)
	m.ctx.Effects.Flash(0.4)
	m.ctx.Notify(fmt.Sprintf("%s won %s!", name, seg.Label), core.ColorBrightYellow)
	m.ctx.Log.Info("wheel payout", "winner", p.ID, "segment", seg.Label, "points", seg.Points)
}

func (m *Mode) hub() core.Vec2 {
	return core.V(float64(m.width)/2, float64(m.height)/2)
}

// Status returns the wheel speed for the HUD.
func (m *Mode) Status() mode.Status {
	detail := "Type the action command to spin"
	if m.last != nil {
		detail = fmt.Sprintf("Last: %s", m.last.Segment.Label)
		if p, ok := m.ctx.Participants.Get(m.last.Winner); ok {
			detail += " by " + p.Name()
		}
	}
	progress := 0.0
	if m.cfg.MaxSpin > 0 {
		progress = core.ClampF(m.spin/m.cfg.MaxSpin, 0, 1)
	}
	return mode.Status{
		Score:    m.score,
		Progress: progress,
		Label:    "SPIN",
		Detail:   detail,
	}
}
