// Package field implements the field-clear mode: viewers pilot turrets
// that shoot down a steady rain of obstacles before they hit the fleet.
package field

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
const ID = "field"

const (
	maxShips = 16
	botCount = 2
)

func init() {
	mode.Register(mode.Info{
		ID:       ID,
		Title:    "Field Clear",
		Keywords: []string{"asteroid", "asteroids", "space", "meteor", "shooter", "galaxy", "rocks"},
	}, func(ctx *session.Context) mode.Mode {
		return New(ctx)
	})
}

// Obstacle is a destructible rock drifting toward the fleet.
type Obstacle struct {
	Pos    core.Vec2
	Vel    core.Vec2
	Radius float64
	HP     int
}

// Projectile is a shot owned by the participant who fired it.
type Projectile struct {
	Pos   core.Vec2
	Vel   core.Vec2
	Life  float64
	Owner string
}

// Mode implements the field-clear mode.
type Mode struct {
	ctx        *session.Context
	cfg        config.FieldConfig
	tiers      config.TierConfig
	difficulty *config.DifficultyManager

	obstacles   []Obstacle
	projectiles []Projectile
	roster      []string // Ship owners, in slot order
	bots        []*participant.Participant

	hull       float64
	shield     float64
	score      int
	wave       int
	kills      int
	spawnTimer float64
	botTimer   float64
	botTurn    int
	elapsed    float64
	width      int
	height     int
}

// New creates a field mode bound to a session.
func New(ctx *session.Context) *Mode {
	return &Mode{
		ctx:        ctx,
		cfg:        ctx.Config.Field,
		tiers:      ctx.Config.Tiers,
		difficulty: config.NewDifficultyManager(ctx.Config.Field.Difficulty),
		width:      core.DefaultConfig().ScreenW,
		height:     core.DefaultConfig().ScreenH,
	}
}

// ID returns the unique identifier for this mode.
func (m *Mode) ID() string { return ID }

// Title returns the display name for this mode.
func (m *Mode) Title() string { return "Field Clear" }

// Init resets the fleet and seeds a few obstacles so the field is never empty.
func (m *Mode) Init() {
	m.obstacles = make([]Obstacle, 0, m.cfg.MaxObstacles)
	m.projectiles = make([]Projectile, 0, m.cfg.MaxProjectiles)
	m.roster = m.roster[:0]
	m.hull = m.cfg.HullMax
	m.shield = 0
	m.score = 0
	m.wave = 1
	m.kills = 0
	m.spawnTimer = 0
	m.botTimer = 0
	m.botTurn = 0
	m.elapsed = 0

	m.bots = mode.EnsureBots(m.ctx, "field", botCount)
	for _, b := range m.bots {
		m.board(b.ID)
	}
	for i := 0; i < 3; i++ {
		m.spawnObstacle()
	}
}

// Reset restarts from wave one.
func (m *Mode) Reset() { m.Init() }

// Destroy releases nothing; the mode holds no external handles.
func (m *Mode) Destroy() {}

// Hull returns the shared hull integrity.
func (m *Mode) Hull() float64 { return m.hull }

// Shield returns the shared shield charge.
func (m *Mode) Shield() float64 { return m.shield }

// Score returns the accumulated score.
func (m *Mode) Score() int { return m.score }

// Wave returns the current wave number.
func (m *Mode) Wave() int { return m.wave }

// Obstacles returns the live obstacles. Callers must not modify them.
func (m *Mode) Obstacles() []Obstacle { return m.obstacles }

// Projectiles returns the live projectiles. Callers must not modify them.
func (m *Mode) Projectiles() []Projectile { return m.projectiles }

// board gives a participant a ship slot. A real viewer may take a bot's slot
// when the fleet is full; the bot stays registered, just off the field.
func (m *Mode) board(id string) {
	for _, r := range m.roster {
		if r == id {
			return
		}
	}
	if len(m.roster) < maxShips {
		m.roster = append(m.roster, id)
		return
	}
	for i, r := range m.roster {
		if p, ok := m.ctx.Participants.Get(r); ok && p.IsAmbient {
			m.roster[i] = id
			return
		}
	}
}

// shipPos returns the ship position of roster slot i in cells.
func (m *Mode) shipPos(i int) core.Vec2 {
	n := len(m.roster)
	x := float64(m.width) * float64(i+1) / float64(n+1)
	return core.V(x, float64(m.height)-3)
}

func (m *Mode) slotOf(id string) int {
	for i, r := range m.roster {
		if r == id {
			return i
		}
	}
	return -1
}

// fire launches a projectile from owner's ship toward the nearest obstacle.
// spread rotates the heading by that many radians.
func (m *Mode) fire(owner string, spread float64) {
	if len(m.projectiles) >= m.cfg.MaxProjectiles {
		return
	}
	slot := m.slotOf(owner)
	if slot < 0 {
		return
	}
	from := m.shipPos(slot)
	dir := core.V(0, -1)
	if target, ok := m.nearest(from); ok {
		dir = iso(target.Sub(from)).Norm()
	}
	if spread != 0 {
		s, c := math.Sin(spread), math.Cos(spread)
		dir = core.V(dir.X*c-dir.Y*s, dir.X*s+dir.Y*c)
	}
	// Back to cell space: vertical cells are twice as tall.
	vel := core.V(dir.X, dir.Y*0.5).Scale(m.cfg.ProjectileSpeed)
	m.projectiles = append(m.projectiles, Projectile{
		Pos:   from.Add(core.V(0, -1)),
		Vel:   vel,
		Life:  m.cfg.ProjectileLife,
		Owner: owner,
	})
}

// nearest returns the obstacle closest to p.
func (m *Mode) nearest(p core.Vec2) (core.Vec2, bool) {
	best, bestD := core.Vec2{}, math.MaxFloat64
	for _, o := range m.obstacles {
		if d := core.DistSq(iso(o.Pos), iso(p)); d < bestD {
			best, bestD = o.Pos, d
		}
	}
	return best, bestD < math.MaxFloat64
}

func (m *Mode) spawnObstacle() {
	if len(m.obstacles) >= m.cfg.MaxObstacles {
		return
	}
	rng := m.ctx.RNG
	r := m.cfg.MinRadius + rng.Float64()*(m.cfg.MaxRadius-m.cfg.MinRadius)
	speed := m.difficulty.Speed(m.cfg.ObstacleSpeed, m.score, m.elapsed)
	x := r + rng.Float64()*math.Max(1, float64(m.width)-2*r)
	m.obstacles = append(m.obstacles, Obstacle{
		Pos:    core.V(x, -r/2),
		Vel:    core.V((rng.Float64()*2-1)*speed*0.3, speed*(0.4+rng.Float64()*0.3)),
		Radius: r,
		HP:     1 + int(r),
	})
}

// OnChat fires a shot for the action command, subject to the cooldown.
func (m *Mode) OnChat(e event.Chat) {
	if !m.ctx.IsAction(e.Text) || !m.ctx.Allow(e.ParticipantID) {
		return
	}
	mode.Author(m.ctx, e)
	m.board(e.ParticipantID)
	m.fire(e.ParticipantID, 0)
}

// OnGift fires a tier-sized volley.
func (m *Mode) OnGift(e event.Gift) {
	mode.Author(m.ctx, e)
	m.board(e.ParticipantID)
	n := int(mode.TierOf(e, m.tiers).Scale()) * 2
	for i := 0; i < n; i++ {
		m.fire(e.ParticipantID, (float64(i)-float64(n-1)/2)*0.12)
	}
}

// OnLike charges the shared shield.
func (m *Mode) OnLike(e event.Like) {
	m.shield = math.Min(m.cfg.ShieldMax, m.shield+float64(e.Count)*m.cfg.ShieldPerLike)
}

// OnJoin gives the newcomer a ship.
func (m *Mode) OnJoin(e event.Join) {
	mode.Author(m.ctx, e)
	m.board(e.ParticipantID)
}

// Update spawns, moves and resolves collisions.
func (m *Mode) Update(dt float64, width, height int) {
	m.width, m.height = width, height
	m.elapsed += dt

	if m.hull <= 0 || m.hull > m.cfg.HullMax || math.IsNaN(m.hull) {
		m.ctx.Log.Warn("field hull inconsistent, resetting", "hull", m.hull)
		m.Reset()
		return
	}

	if m.shield > 0 {
		m.shield = math.Max(0, m.shield-m.cfg.ShieldDecay*dt)
	}

	m.spawnTimer += dt
	interval := m.difficulty.Interval(m.cfg.SpawnInterval, m.cfg.MinSpawnInterval, m.score, m.elapsed)
	for m.spawnTimer >= interval {
		m.spawnTimer -= interval
		m.spawnObstacle()
	}

	m.botTimer += dt
	if m.botTimer >= m.cfg.BotFireInterval && len(m.bots) > 0 {
		m.botTimer -= m.cfg.BotFireInterval
		bot := m.bots[m.botTurn%len(m.bots)]
		m.botTurn++
		m.fire(bot.ID, 0)
	}

	m.move(dt)
	m.collide()
	m.cull()
}

// Status returns the score and hull for the HUD.
func (m *Mode) Status() mode.Status {
	return mode.Status{
		Score:    m.score,
		Progress: core.ClampF(m.hull/m.cfg.HullMax, 0, 1),
		Label:    "HULL",
		Detail:   fmt.Sprintf("Wave %d  Kills %d  Shield %.0f", m.wave, m.kills, m.shield),
	}
}
