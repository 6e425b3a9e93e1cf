// Package arena implements the idle arena: every viewer is a wandering
// token, and the action command dashes it at the nearest rival.
package arena

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
const ID = "arena"

func init() {
	mode.Register(mode.Info{
		ID:       ID,
		Title:    "Idle Arena",
		Keywords: []string{"arena", "fight", "brawl", "battle", "chill", "idle", "hangout"},
	}, func(ctx *session.Context) mode.Mode {
		return New(ctx)
	})
}

// Mode implements the idle arena. Movement is integrated by the session
// scheduler; the mode only steers velocities and resolves dash hits.
type Mode struct {
	ctx   *session.Context
	cfg   config.ArenaConfig
	tiers config.TierConfig
	limit int

	roster   []*participant.Participant
	visible  map[string]bool
	dashLeft map[string]float64
	botTimer float64
	hits     int
	score    int
	width    int
	height   int
}

// New creates an arena mode bound to a session.
func New(ctx *session.Context) *Mode {
	return &Mode{
		ctx:    ctx,
		cfg:    ctx.Config.Arena,
		tiers:  ctx.Config.Tiers,
		limit:  max(1, ctx.Config.Engine.MaxVisible),
		width:  core.DefaultConfig().ScreenW,
		height: core.DefaultConfig().ScreenH,
	}
}

// ID returns the unique identifier for this mode.
func (m *Mode) ID() string { return ID }

// Title returns the display name for this mode.
func (m *Mode) Title() string { return "Idle Arena" }

// Init fills the arena with ambient fighters.
func (m *Mode) Init() {
	m.roster = m.roster[:0]
	m.visible = make(map[string]bool)
	m.dashLeft = make(map[string]float64)
	m.botTimer = m.cfg.BotInterval
	m.hits = 0
	m.score = 0
	for _, b := range mode.EnsureBots(m.ctx, "arena", m.cfg.MinBots) {
		m.enter(b)
	}
}

// Reset refills the arena.
func (m *Mode) Reset() { m.Init() }

// Destroy stops every fighter so nothing drifts into the next mode.
func (m *Mode) Destroy() {
	for _, p := range m.roster {
		p.Vel = core.V(0, 0)
	}
}

// Roster returns the visible fighters.
func (m *Mode) Roster() []*participant.Participant { return m.roster }

// Visible reports whether a participant has a token in the arena.
func (m *Mode) Visible(id string) bool { return m.visible[id] }

// Hits returns the number of dash hits so far.
func (m *Mode) Hits() int { return m.hits }

// enter puts p on the board. When the board is full a real viewer takes
// the slot of the ambient fighter that scored least recently.
func (m *Mode) enter(p *participant.Participant) bool {
	if m.visible[p.ID] {
		return true
	}
	if len(m.roster) < m.limit {
		m.roster = append(m.roster, p)
		m.visible[p.ID] = true
		return true
	}
	if p.IsAmbient {
		return false
	}
	slot := -1
	for i, o := range m.roster {
		if !o.IsAmbient {
			continue
		}
		if slot < 0 || o.LastScored < m.roster[slot].LastScored {
			slot = i
		}
	}
	if slot < 0 {
		return false
	}
	old := m.roster[slot]
	old.Vel = core.V(0, 0)
	delete(m.visible, old.ID)
	delete(m.dashLeft, old.ID)
	m.roster[slot] = p
	m.visible[p.ID] = true
	return true
}

// nearest returns the closest other fighter, or nil when p is alone.
func (m *Mode) nearest(p *participant.Participant) *participant.Participant {
	var best *participant.Participant
	bestD := math.Inf(1)
	for _, o := range m.roster {
		if o == p {
			continue
		}
		if d := core.DistSq(p.Pos, o.Pos); d < bestD {
			best, bestD = o, d
		}
	}
	return best
}

// Dash launches p at its nearest rival.
func (m *Mode) Dash(p *participant.Participant, power float64) {
	if !m.visible[p.ID] {
		return
	}
	dir := core.V(m.ctx.RNG.Float64()-0.5, m.ctx.RNG.Float64()-0.5)
	if target := m.nearest(p); target != nil {
		dir = target.Pos.Sub(p.Pos)
	}
	if dir.Len() == 0 {
		dir = core.V(1, 0)
	}
	if m.ctx.Boosted() {
		power *= 1.5
	}
	p.Vel = dir.Norm().Scale(m.cfg.DashSpeed * power)
	m.dashLeft[p.ID] = m.cfg.DashSeconds
}

// Dashing reports whether p is mid-dash.
func (m *Mode) Dashing(id string) bool { return m.dashLeft[id] > 0 }

// OnChat brings the author into the arena and dashes on the action command.
func (m *Mode) OnChat(e event.Chat) {
	p := mode.Author(m.ctx, e)
	if !m.enter(p) {
		return
	}
	if m.ctx.IsAction(e.Text) && m.ctx.Allow(p.ID) {
		m.Dash(p, 1)
	}
}

// OnJoin gives the viewer a token.
func (m *Mode) OnJoin(e event.Join) {
	p := mode.Author(m.ctx, e)
	if m.enter(p) {
		m.ctx.Effects.SpawnParticles(m.cell(p), 8, 0.6, p.Color)
	}
}

// OnGift launches a dash scaled by the gift tier.
func (m *Mode) OnGift(e event.Gift) {
	p := mode.Author(m.ctx, e)
	if !m.enter(p) {
		return
	}
	tier := mode.TierOf(e, m.tiers)
	m.Dash(p, 1+0.25*tier.Scale())
	m.ctx.Effects.SpawnParticles(m.cell(p), int(8*tier.Scale()), 1, p.Color)
}

// Update steers wanderers, runs the bots and resolves dash hits.
func (m *Mode) Update(dt float64, width, height int) {
	m.width, m.height = width, height
	if len(m.visible) != len(m.roster) {
		m.ctx.Log.Warn("arena roster inconsistent, resetting")
		m.Reset()
		return
	}

	for _, p := range m.roster {
		if left := m.dashLeft[p.ID]; left > 0 {
			m.dashLeft[p.ID] = left - dt
			continue
		}
		m.wander(p)
	}

	m.botTimer -= dt
	if m.botTimer <= 0 {
		m.botTimer = m.cfg.BotInterval
		m.botDash()
	}

	m.collide()
}

func (m *Mode) wander(p *participant.Participant) {
	if p.Vel.Len() >= m.cfg.WanderSpeed {
		return
	}
	heading := p.Vel
	if heading.Len() == 0 {
		a := m.ctx.RNG.Float64() * 2 * math.Pi
		heading = core.V(math.Cos(a), math.Sin(a))
	}
	turn := (m.ctx.RNG.Float64() - 0.5) * 0.6
	sin, cos := math.Sincos(turn)
	heading = core.V(heading.X*cos-heading.Y*sin, heading.X*sin+heading.Y*cos)
	p.Vel = heading.Norm().Scale(m.cfg.WanderSpeed)
}

func (m *Mode) botDash() {
	var bots []*participant.Participant
	for _, p := range m.roster {
		if p.IsAmbient && !m.Dashing(p.ID) {
			bots = append(bots, p)
		}
	}
	if len(bots) > 0 {
		m.Dash(bots[m.ctx.RNG.Intn(len(bots))], 1)
	}
}

// collide scores each dashing fighter at most once per dash.
func (m *Mode) collide() {
	for _, p := range m.roster {
		if !m.Dashing(p.ID) {
			continue
		}
		for _, o := range m.roster {
			if o == p || !core.CirclesOverlap(p.Pos, m.cfg.Radius, o.Pos, m.cfg.Radius) {
				continue
			}
			away := o.Pos.Sub(p.Pos)
			if away.Len() == 0 {
				away = core.V(0, 1)
			}
			o.Vel = away.Norm().Scale(m.cfg.DashSpeed * 0.6)
			p.Vel = p.Vel.Scale(0.3)
			m.dashLeft[p.ID] = 0

			p.AddScore(m.cfg.HitPoints, m.ctx.Now())
			m.score += m.cfg.HitPoints
			m.hits++
			pos := m.cell(o)
			m.ctx.Effects.SpawnParticles(pos, 12, 0.8, p.Color)
			m.ctx.Effects.SpawnFloatingText(fmt.Sprintf("+%d", m.cfg.HitPoints), pos, p.Color)
			m.ctx.Effects.Shake(0.15)
			break
		}
	}
}

// cell maps a plane position to surface cells.
func (m *Mode) cell(p *participant.Participant) core.Vec2 {
	x, y := core.ToCells(p.Pos, m.width, m.height)
	return core.V(x, y)
}

// Status returns the crowd size for the HUD.
func (m *Mode) Status() mode.Status {
	detail := fmt.Sprintf("Fighters %d  Hits %d", len(m.roster), m.hits)
	if top := m.ctx.Participants.Top(1); len(top) > 0 {
		detail += "  Top " + top[0].Name()
	}
	return mode.Status{
		Score:    m.score,
		Progress: float64(len(m.roster)) / float64(m.limit),
		Label:    "CROWD",
		Detail:   detail,
	}
}
