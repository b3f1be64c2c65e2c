package amoebawars

import (
	"fmt"
	"math"
	"math/rand"
)

// An Amoeba is a soft body made of vertices seeking an elastic target center.
type Amoeba struct {
	id       ID
	kind     Kind
	vertices []Vertex

	target Vec3 // point all vertices elastically seek
	vel    Vec3 // velocity of the target center
	center Vec3 // mean of vertex positions, recomputed every frame

	hp            float64
	radius        float64
	initialRadius float64
	speed         float64
	alive         bool

	healthChanging bool // hp changed during the current frame
	healthAnchor   bool // hp changed during a previous frame and the pulse is not reset yet
}

// NewAmoeba builds the mesh of an amoeba. The first amoeba created without
// a player becomes the player; others are food when they are not larger than
// the player and enemies otherwise. A vertex never picks a vertex that picked
// it, so meshes need at least 2·NearestLinks+1 vertices, 7 by default.
// Smaller meshes, and meshes whose vertices cannot all find distinct nearest
// neighbors, are rejected with ErrInvalidConfiguration.
func NewAmoeba(s Shape, p *Params, rng *rand.Rand, player *Amoeba) (*Amoeba, error) {
	switch {
	case s.Vertices < 2*p.NearestLinks+1:
		return nil, fmt.Errorf("%w: amoeba needs at least %d vertices, got %d",
			ErrInvalidConfiguration, 2*p.NearestLinks+1, s.Vertices)
	case !(s.Radius > p.DeathRadius) || math.IsInf(s.Radius, 0):
		return nil, fmt.Errorf("%w: radius %g must be finite and above the death radius %g",
			ErrInvalidConfiguration, s.Radius, p.DeathRadius)
	case !finite(s.Center):
		return nil, fmt.Errorf("%w: center %v is not finite", ErrInvalidConfiguration, s.Center)
	}

	vs, err := buildMesh(FibonacciSphere(s.Vertices, s.Radius, s.Center), s.Center, p, rng)
	if err != nil {
		return nil, err
	}

	a := &Amoeba{
		vertices:      vs,
		target:        s.Center,
		center:        s.Center,
		hp:            1,
		radius:        s.Radius,
		initialRadius: s.Radius,
		alive:         true,
	}
	switch {
	case player == nil:
		a.kind = Player
	case a.radius <= player.radius:
		a.kind = Food
	default:
		a.kind = Enemy
	}
	a.updateSpeed(p, player)
	return a, nil
}

// ID returns the identifier of the amoeba in its world.
func (a *Amoeba) ID() ID { return a.id }

// Kind returns the classification of the amoeba.
func (a *Amoeba) Kind() Kind { return a.kind }

// Center returns the true center, the mean position of the vertices.
func (a *Amoeba) Center() Vec3 { return a.center }

// Target returns the target center.
func (a *Amoeba) Target() Vec3 { return a.target }

// Velocity returns the velocity of the target center.
func (a *Amoeba) Velocity() Vec3 { return a.vel }

// Radius returns the current radius.
func (a *Amoeba) Radius() float64 { return a.radius }

// HP returns the size of the amoeba relative to its initial size.
func (a *Amoeba) HP() float64 { return a.hp }

// Speed returns the current movement speed.
func (a *Amoeba) Speed() float64 { return a.speed }

// Alive reports whether the amoeba still takes part in the simulation.
func (a *Amoeba) Alive() bool { return a.alive }

// Vertices returns the vertices of the amoeba.
// The returned slice must not be modified.
func (a *Amoeba) Vertices() []Vertex { return a.vertices }

// Body returns a copy of the aggregate state of the amoeba.
func (a *Amoeba) Body() Body {
	return Body{
		ID:     a.id,
		Kind:   a.kind,
		Center: a.center,
		Target: a.target,
		Radius: a.radius,
		Speed:  a.speed,
		Alive:  a.alive,
	}
}

// Rescale sets the rest offset of every vertex to its initial offset
// multiplied by factor. Rest lengths of links are left untouched.
func (a *Amoeba) Rescale(factor float64) {
	for i := range a.vertices {
		a.vertices[i].offset = a.vertices[i].initialOffset.Mul(factor)
	}
}

// updateSpeed applies the speed law: smaller amoebas are faster,
// and food stays slower than the player.
func (a *Amoeba) updateSpeed(p *Params, player *Amoeba) {
	s := p.BaseSpeed + (1-a.hp)*p.SpeedPerHP
	s = math.Max(p.MinSpeed, math.Min(p.MaxSpeed, s))
	if a.kind == Food && player != nil {
		s = math.Min(s, p.FoodSpeedRatio*player.speed)
	}
	a.speed = s
}

// updateCenter recomputes the true center.
func (a *Amoeba) updateCenter() {
	var sum Vec3
	for i := range a.vertices {
		sum = sum.Add(a.vertices[i].pos)
	}
	a.center = sum.Mul(1 / float64(len(a.vertices)))
}

// settle starts a frame: gravity and damping on the target center,
// true center and floor.
func (a *Amoeba) settle(p *Params) {
	a.vel[1] += p.Gravity
	a.vel = a.vel.Mul(p.BodyDamping)
	a.updateCenter()
	if a.center.Y() >= 0 {
		a.center[1] = -1
		a.vel[1] = -a.vel[1]
	}
}

// push applies an intentional movement force.
func (a *Amoeba) push(intent Vec3, p *Params) {
	a.vel = a.vel.Add(intent).Mul(a.speed * p.IntentGain)
}

// advance integrates the target center then every vertex.
func (a *Amoeba) advance(p *Params, clk Clock) {
	a.target = a.target.Add(a.vel.Mul(clk.TimeScale))
	for i := range a.vertices {
		a.vertices[i].applyForces(a, p, clk)
	}
}

// die removes the amoeba from the simulation.
func (a *Amoeba) die(p *Params) {
	a.alive = false
	a.vel = Vec3{}
	a.target = p.Sentinel
}
