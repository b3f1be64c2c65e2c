package amoebawars

import (
	"fmt"
	"math"
	"math/rand"
)

// A Clock holds the global state shared by all amoebas during a frame.
// It is owned by a World and only changed by Step.
type Clock struct {
	Frame      int     // wraps from FrameWrap back to 0
	Steps      int     // number of frames simulated so far
	Difficulty float64 // scales steering and hp transfers
	TimeScale  float64 // scales every integration, 0 pauses
}

// tick starts a new frame.
func (c *Clock) tick(p *Params, difficulty, timeScale float64) {
	c.Frame++
	if c.Frame > p.FrameWrap {
		c.Frame = 0
	}
	c.Steps++
	c.Difficulty = difficulty
	c.TimeScale = timeScale
}

// swimming reports whether non-player intents apply during the frame.
func (c Clock) swimming(p *Params) bool {
	return c.Frame%p.SwimPeriod < p.SwimOn
}

// playerSwimming reports whether the player's intent applies during the frame.
func (c Clock) playerSwimming(p *Params) bool {
	f := c.Frame
	if f > p.PlayerShift {
		f -= p.PlayerShift
	}
	return f < p.SwimOn
}

// A World contains all the amoebas and the shared state of a simulation.
type World struct {
	params   Params
	behavior Behavior
	rng      *rand.Rand
	clock    Clock

	amoebas []*Amoeba
	player  ID
	bodies  []Body // frame-start snapshot

	pulse   Pulse
	outcome Outcome
}

// A transfer is a pending hp change.
type transfer struct {
	id     ID
	amount float64
}

// NewWorld returns an empty world. The seed drives the random links of meshes.
func NewWorld(p Params, seed int64) (*World, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &World{
		params:   p,
		behavior: DefaultBehavior(),
		rng:      rand.New(rand.NewSource(seed)),
		clock:    Clock{Difficulty: 1},
		player:   -1,
	}, nil
}

// Spawn adds an amoeba to the world. The first amoeba spawned is the player.
func (w *World) Spawn(s Shape) (*Amoeba, error) {
	a, err := NewAmoeba(s, &w.params, w.rng, w.Player())
	if err != nil {
		return nil, err
	}
	a.id = ID(len(w.amoebas))
	w.amoebas = append(w.amoebas, a)
	if a.kind == Player {
		w.player = a.id
	}
	return a, nil
}

// SetBehavior replaces the steering laws of non-player amoebas.
func (w *World) SetBehavior(b Behavior) { w.behavior = b }

// Params returns the parameters of the world.
func (w *World) Params() Params { return w.params }

// Clock returns the current clock.
func (w *World) Clock() Clock { return w.clock }

// Amoebas returns all amoebas in spawn order, dead ones included.
// The returned slice must not be modified.
func (w *World) Amoebas() []*Amoeba { return w.amoebas }

// Amoeba returns the amoeba with the given identifier, or nil.
func (w *World) Amoeba(id ID) *Amoeba {
	if id < 0 || int(id) >= len(w.amoebas) {
		return nil
	}
	return w.amoebas[id]
}

// PlayerID returns the identifier of the player, or -1 before the first spawn.
func (w *World) PlayerID() ID { return w.player }

// Player returns the player amoeba, or nil before the first spawn.
func (w *World) Player() *Amoeba { return w.Amoeba(w.player) }

// Pulse returns the health feedback state of the player.
func (w *World) Pulse() Pulse { return w.pulse }

// Outcome returns the win/lose signal.
func (w *World) Outcome() Outcome { return w.outcome }

// VertexCount returns the total number of vertices in the world.
func (w *World) VertexCount() int {
	var n int
	for _, a := range w.amoebas {
		n += len(a.vertices)
	}
	return n
}

// Step runs a single frame. Difficulty must lie within the bounds of the
// parameters and timeScale must not be negative. Intents are only read for
// the player.
func (w *World) Step(difficulty, timeScale float64, intents Intents) error {
	p := &w.params
	switch {
	case !(difficulty >= p.MinDifficulty && difficulty <= p.MaxDifficulty):
		return fmt.Errorf("%w: difficulty %g outside [%g, %g]",
			ErrInvalidConfiguration, difficulty, p.MinDifficulty, p.MaxDifficulty)
	case !(timeScale >= 0) || math.IsInf(timeScale, 0):
		return fmt.Errorf("%w: time scale %g must be finite and not negative", ErrInvalidConfiguration, timeScale)
	case w.Player() == nil:
		return fmt.Errorf("%w: world has no player", ErrInvalidConfiguration)
	}
	w.clock.tick(p, difficulty, timeScale)

	for _, a := range w.amoebas {
		a.healthChanging = false // dead ones included
		if a.alive {
			a.settle(p)
		}
	}

	// interactions read the snapshot and hp changes wait for the end
	// of the frame, so amoeba order does not matter
	w.snapshot()
	var transfers []transfer
	for _, a := range w.amoebas {
		switch {
		case !a.alive:
		case a.id == w.player:
			transfers = w.absorb(a, transfers)
		default:
			w.separate(a)
		}
	}
	for _, a := range w.amoebas {
		if a.alive {
			w.steer(a, intents)
		}
	}
	for _, a := range w.amoebas {
		if a.alive {
			a.advance(p, w.clock)
		}
	}
	for _, t := range transfers {
		w.ChangeHP(t.id, t.amount)
	}

	if pl := w.Player(); pl.healthAnchor && !pl.healthChanging {
		pl.healthAnchor = false
		w.pulse = PulseNone
	}
	w.evaluate()
	return nil
}

// snapshot copies the aggregate state of every amoeba.
func (w *World) snapshot() {
	w.bodies = w.bodies[:0]
	for _, a := range w.amoebas {
		w.bodies = append(w.bodies, a.Body())
	}
}

// separate pushes a non-player away from the other non-players it overlaps.
func (w *World) separate(a *Amoeba) {
	self := w.bodies[a.id]
	for _, b := range w.bodies {
		if b.ID == a.id || b.ID == w.player || !b.Alive {
			continue
		}
		if Dist(self.Center, b.Center) < self.Radius+b.Radius {
			a.vel = a.vel.Sub(b.Center.Sub(self.Center).Mul(self.Speed * w.params.PushScale))
		}
	}
}

// absorb queues the hp transfers between the player and the amoebas it touches.
func (w *World) absorb(a *Amoeba, transfers []transfer) []transfer {
	p, d := &w.params, w.clock.Difficulty
	self := w.bodies[a.id]
	for _, b := range w.bodies {
		if b.ID == a.id || !b.Alive {
			continue
		}
		if Dist(self.Center, b.Center) >= self.Radius+b.Radius/2 {
			continue
		}
		switch b.Kind {
		case Food:
			g := p.FoodGain * (2 - d)
			transfers = append(transfers, transfer{a.id, g}, transfer{b.ID, -g})
		case Enemy:
			transfers = append(transfers, transfer{a.id, -p.EnemyDrain * d}, transfer{b.ID, p.EnemyGain})
		}
	}
	return transfers
}

// steer applies movement intents during the swimming windows of the clock.
func (w *World) steer(a *Amoeba, intents Intents) {
	p := &w.params
	self, player := w.bodies[a.id], w.bodies[w.player]
	if a.kind == Player {
		if intent, ok := intents[a.id]; ok && finite(intent) && w.clock.playerSwimming(p) {
			a.push(intent, p)
		}
		return
	}
	if !player.Alive {
		return
	}
	var steer SteerFunc
	switch a.kind {
	case Food:
		steer = w.behavior.Food
		if self.Center.Y() < p.CeilingY {
			a.vel[1] += p.CeilingNudge
		}
	case Enemy:
		steer = w.behavior.Enemy
	}
	if steer != nil && w.clock.swimming(p) {
		a.push(steer(self, player, w.clock, p), p)
	}
}

// ChangeHP changes the size of an amoeba. Amoebas whose radius falls to the
// death radius die, and dead amoebas never grow back. A change of the player
// reclassifies every other amoeba; a change of another amoeba reclassifies it.
func (w *World) ChangeHP(id ID, amount float64) {
	a := w.Amoeba(id)
	if a == nil {
		return
	}
	p := &w.params
	a.healthChanging, a.healthAnchor = true, true
	if !a.alive {
		return
	}

	a.hp += amount
	a.radius = a.initialRadius * a.hp
	if a.radius <= p.DeathRadius {
		a.die(p)
	} else {
		a.Rescale(a.hp)
		if id == w.player {
			a.updateSpeed(p, nil)
			for _, b := range w.amoebas {
				if b != a && b.alive {
					w.classify(b)
				}
			}
			w.updatePulse(amount)
		} else {
			w.classify(a)
		}
	}

	if w.clock.Steps > 0 {
		w.evaluate()
	}
}

// classify makes the kind of a non-player agree with its size
// relative to the player, and refreshes its speed.
func (w *World) classify(a *Amoeba) {
	p, pl := &w.params, w.Player()
	if !pl.alive {
		a.updateSpeed(p, pl)
		return
	}
	kind := Enemy
	if a.radius <= pl.radius {
		kind = Food
	}
	w.setKind(a, kind)
}

// setKind changes the kind of an amoeba and recomputes its speed.
func (w *World) setKind(a *Amoeba, k Kind) {
	a.kind = k
	a.updateSpeed(&w.params, w.Player())
}

// updatePulse drives the health feedback of the player: the pulse is set on
// the first frame of every period and cleared in the middle of it.
func (w *World) updatePulse(amount float64) {
	p := &w.params
	switch w.clock.Frame % p.PulsePeriod {
	case 0:
		if amount > 0 {
			w.pulse = PulseHeal
		} else {
			w.pulse = PulseDamage
		}
	case p.PulsePeriod / 2:
		w.pulse = PulseNone
	}
}

// evaluate updates the outcome. With no enemy left the player wins, with no
// food left the player loses; when neither is left winning takes precedence.
func (w *World) evaluate() {
	pl := w.Player()
	if pl == nil {
		return
	}
	if !pl.alive {
		w.outcome = Lost
		return
	}
	var food, enemy bool
	for _, a := range w.amoebas {
		if a == pl || !a.alive {
			continue
		}
		switch a.kind {
		case Food:
			food = true
		case Enemy:
			enemy = true
		}
	}
	switch {
	case !enemy:
		w.outcome = Won
	case !food:
		w.outcome = Lost
	default:
		w.outcome = InProgress
	}
}
