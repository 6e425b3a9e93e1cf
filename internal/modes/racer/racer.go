// Package racer implements the lane runner: every participant is a car,
// the action command boosts it, and the leader takes each round.
package racer

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
const ID = "racer"

func init() {
	mode.Register(mode.Info{
		ID:       ID,
		Title:    "Lane Racer",
		Keywords: []string{"race", "racer", "racing", "car", "cars", "lane", "runner", "speed"},
	}, func(ctx *session.Context) mode.Mode {
		return New(ctx)
	})
}

// Car is one participant's racer. Pos is measured in laps.
type Car struct {
	ID    string
	Lane  int
	Pos   float64
	Speed float64
}

// Laps returns the number of completed laps.
func (c *Car) Laps() int { return int(math.Floor(c.Pos)) }

// Hazard is a cone sitting on a lane at track fraction Pos in [0,1).
type Hazard struct {
	Lane int
	Pos  float64
}

// Mode implements the lane runner.
type Mode struct {
	ctx        *session.Context
	cfg        config.RacerConfig
	settings   config.Settings
	tiers      config.TierConfig
	difficulty *config.DifficultyManager

	cars     []*Car
	byID     map[string]*Car
	hazards  []Hazard
	bots     []*participant.Participant
	round    int
	clock    float64 // Seconds into the current round
	breakFor float64 // Seconds left in the between-rounds pause
	winner   string
	score    int
	botTimer float64
	elapsed  float64
	width    int
	height   int
}

// New creates a racer mode bound to a session.
func New(ctx *session.Context) *Mode {
	return &Mode{
		ctx:        ctx,
		cfg:        ctx.Config.Racer,
		settings:   ctx.Config.Settings,
		tiers:      ctx.Config.Tiers,
		difficulty: config.NewDifficultyManager(ctx.Config.Racer.Difficulty),
		width:      core.DefaultConfig().ScreenW,
		height:     core.DefaultConfig().ScreenH,
	}
}

// ID returns the unique identifier for this mode.
func (m *Mode) ID() string { return ID }

// Title returns the display name for this mode.
func (m *Mode) Title() string { return "Lane Racer" }

// Init clears the grid and starts round one with ambient racers.
func (m *Mode) Init() {
	m.cars = m.cars[:0]
	m.byID = make(map[string]*Car)
	m.round = 1
	m.clock = 0
	m.breakFor = 0
	m.winner = ""
	m.score = 0
	m.botTimer = 0
	m.elapsed = 0
	m.placeHazards()

	m.bots = mode.EnsureBots(m.ctx, "racer", m.cfg.MinBots)
	for _, b := range m.bots {
		m.enter(b.ID)
	}
}

// Reset restarts from round one.
func (m *Mode) Reset() { m.Init() }

// Destroy releases nothing; the mode holds no external handles.
func (m *Mode) Destroy() {}

// Cars returns the grid in entry order. Callers must not modify it.
func (m *Mode) Cars() []*Car { return m.cars }

// Car returns the car of a participant.
func (m *Mode) Car(id string) (*Car, bool) {
	c, ok := m.byID[id]
	return c, ok
}

// Round returns the current round number.
func (m *Mode) Round() int { return m.round }

// Winner returns the winner of the last finished round.
func (m *Mode) Winner() string { return m.winner }

func (m *Mode) placeHazards() {
	m.hazards = m.hazards[:0]
	for i := 0; i < m.cfg.Obstacles; i++ {
		m.hazards = append(m.hazards, Hazard{
			Lane: m.ctx.RNG.Intn(m.cfg.Lanes),
			Pos:  0.15 + m.ctx.RNG.Float64()*0.8,
		})
	}
}

// enter adds a car for id. When the grid is full a real viewer replaces the
// ambient car that is furthest behind.
func (m *Mode) enter(id string) *Car {
	if c, ok := m.byID[id]; ok {
		return c
	}
	if len(m.cars) >= m.ctx.Config.Engine.MaxVisible {
		p, _ := m.ctx.Participants.Get(id)
		if p == nil || p.IsAmbient {
			return nil
		}
		slot := -1
		for i, c := range m.cars {
			if q, ok := m.ctx.Participants.Get(c.ID); ok && q.IsAmbient && (slot < 0 || c.Pos < m.cars[slot].Pos) {
				slot = i
			}
		}
		if slot < 0 {
			return nil
		}
		delete(m.byID, m.cars[slot].ID)
		c := &Car{ID: id, Lane: m.cars[slot].Lane, Speed: m.cfg.BaseSpeed}
		m.cars[slot] = c
		m.byID[id] = c
		return c
	}
	c := &Car{ID: id, Lane: len(m.cars) % m.cfg.Lanes, Speed: m.cfg.BaseSpeed}
	m.cars = append(m.cars, c)
	m.byID[id] = c
	return c
}

// boost accelerates a car, capped at the configured top speed.
func (m *Mode) boost(c *Car, amount float64) {
	if c == nil || m.breakFor > 0 {
		return
	}
	c.Speed = math.Min(m.cfg.MaxSpeed, c.Speed+amount)
}

// OnChat boosts the sender's car for the action command.
func (m *Mode) OnChat(e event.Chat) {
	if !m.ctx.IsAction(e.Text) || !m.ctx.Allow(e.ParticipantID) {
		return
	}
	mode.Author(m.ctx, e)
	m.boost(m.enter(e.ParticipantID), m.cfg.BoostSpeed)
}

// OnGift boosts by the gift tier.
func (m *Mode) OnGift(e event.Gift) {
	mode.Author(m.ctx, e)
	m.boost(m.enter(e.ParticipantID), m.cfg.BoostSpeed*mode.TierOf(e, m.tiers).Scale())
}

// OnLike gives a nudge proportional to the like count.
func (m *Mode) OnLike(e event.Like) {
	mode.Author(m.ctx, e)
	m.boost(m.enter(e.ParticipantID), math.Min(m.cfg.BoostSpeed, m.cfg.BoostSpeed*0.1*float64(e.Count)))
}

// OnJoin puts the newcomer on the grid.
func (m *Mode) OnJoin(e event.Join) {
	mode.Author(m.ctx, e)
	m.enter(e.ParticipantID)
}

// Update advances cars and hazards, and finishes rounds.
func (m *Mode) Update(dt float64, width, height int) {
	m.elapsed += dt
	m.width, m.height = width, height

	if m.byID == nil || len(m.byID) != len(m.cars) {
		m.ctx.Log.Warn("racer grid inconsistent, resetting", "cars", len(m.cars))
		m.Reset()
		return
	}

	if m.breakFor > 0 {
		m.breakFor -= dt
		if m.breakFor <= 0 {
			m.startRound()
		}
		return
	}

	m.clock += dt
	drift := m.difficulty.Speed(m.cfg.ObstacleDrift, m.score, m.elapsed)
	for i := range m.hazards {
		h := &m.hazards[i]
		h.Pos -= drift * dt
		if h.Pos < 0 {
			h.Pos += 1
			h.Lane = m.ctx.RNG.Intn(m.cfg.Lanes)
		}
	}

	m.botTimer += dt
	if m.botTimer >= m.cfg.BotInterval && len(m.bots) > 0 {
		m.botTimer -= m.cfg.BotInterval
		bot := m.bots[m.ctx.RNG.Intn(len(m.bots))]
		m.boost(m.byID[bot.ID], m.cfg.BoostSpeed*(0.5+m.ctx.RNG.Float64()))
	}

	base := m.difficulty.Speed(m.cfg.BaseSpeed, m.score, m.elapsed)
	for _, c := range m.cars {
		c.Speed += (base - c.Speed) * math.Min(1, m.cfg.SpeedDecay*dt)
		from := c.Pos
		c.Pos += c.Speed * dt
		m.checkHazards(c, from)
		if m.settings.WinGoal > 0 && c.Laps() >= m.settings.WinGoal {
			m.finishRound()
			return
		}
	}

	if m.settings.RoundSeconds > 0 && m.clock >= m.settings.RoundSeconds {
		m.finishRound()
	}
}

// checkHazards slows a car that drove over a cone in its lane this tick.
func (m *Mode) checkHazards(c *Car, from float64) {
	travelled := c.Pos - from
	if travelled <= 0 {
		return
	}
	f := from - math.Floor(from)
	for _, h := range m.hazards {
		if h.Lane != c.Lane {
			continue
		}
		ahead := h.Pos - f
		if ahead <= 0 {
			ahead++
		}
		if ahead <= travelled {
			c.Speed *= m.cfg.CollisionSlow
			m.ctx.Effects.SpawnParticles(m.carCell(c, m.width, m.height), 5, 0.6, core.ColorOrange)
			return
		}
	}
}

// Leader returns the car furthest along the track.
func (m *Mode) Leader() *Car {
	var best *Car
	for _, c := range m.cars {
		if best == nil || c.Pos > best.Pos {
			best = c
		}
	}
	return best
}

func (m *Mode) finishRound() {
	leader := m.Leader()
	if leader == nil {
		m.startRound()
		return
	}
	m.winner = leader.ID
	m.score += m.cfg.WinnerPoints

	name := leader.ID
	color := core.ColorBrightYellow
	if p, ok := m.ctx.Participants.Get(leader.ID); ok {
		p.AddScore(m.cfg.WinnerPoints, m.ctx.Now())
		name = p.Name()
		color = p.Color
	}
	m.ctx.Effects.Flash(0.6)
	m.ctx.Effects.Shake(0.5)
	m.ctx.Effects.SpawnFloatingText(fmt.Sprintf("%s WINS!", name), core.V(float64(m.width)/2, 3), color)
	m.ctx.Notify(fmt.Sprintf("Round %d won by %s", m.round, name), color)
	m.ctx.Log.Info("race round finished", "round", m.round, "winner", leader.ID)

	m.breakFor = m.cfg.RoundBreak
	if m.breakFor <= 0 {
		m.startRound()
	}
}

func (m *Mode) startRound() {
	m.round++
	m.clock = 0
	m.breakFor = 0
	for _, c := range m.cars {
		c.Pos = 0
		c.Speed = m.cfg.BaseSpeed
	}
	m.placeHazards()
}

// Status returns the round clock for the HUD.
func (m *Mode) Status() mode.Status {
	progress := 0.0
	if m.settings.RoundSeconds > 0 {
		progress = core.ClampF(1-m.clock/m.settings.RoundSeconds, 0, 1)
	}
	detail := fmt.Sprintf("Round %d", m.round)
	if l := m.Leader(); l != nil {
		name := l.ID
		if p, ok := m.ctx.Participants.Get(l.ID); ok {
			name = p.Name()
		}
		detail = fmt.Sprintf("Round %d  Leader %s  Lap %d/%d", m.round, name, l.Laps()+1, m.settings.WinGoal)
	}
	return mode.Status{
		Score:    m.score,
		Progress: progress,
		Label:    "ROUND",
		Detail:   detail,
	}
}
