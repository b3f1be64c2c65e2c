// Package amoebawars runs soft-body simulations of spherical amoebas.
//
// An amoeba is a mesh of point masses (vertices) tied together by springs
// and pulled toward an elastic target center. One amoeba is the player;
// the others are food when they are smaller than the player and enemies
// when they are larger. The player grows by absorbing food and shrinks
// when touching enemies. The game is won once no enemy is left and lost
// once no food is left.
//
// The simulation is single-threaded and advances one frame per call to
// World.Step. Rendering, camera and input mapping are left to the host.
package amoebawars

import "errors"

var (
	// ErrInvalidConfiguration is returned when a mesh, a parameter set or a
	// step input cannot produce a valid simulation.
	ErrInvalidConfiguration = errors.New("amoebawars: invalid configuration")

	// ErrDegenerateGeometry is returned when a vector operation has no
	// defined result, for instance normalizing a zero vector.
	ErrDegenerateGeometry = errors.New("amoebawars: degenerate geometry")
)

// A Kind classifies an amoeba relative to the player.
type Kind int

// Kinds of amoebas.
const (
	Player Kind = iota
	Food
	Enemy
)

func (k Kind) String() string {
	switch k {
	case Player:
		return "player"
	case Food:
		return "food"
	case Enemy:
		return "enemy"
	}
	return "unknown"
}

// An Outcome is the global win/lose signal.
type Outcome int

// Outcomes of a simulation.
const (
	InProgress Outcome = iota
	Won
	Lost
)

func (o Outcome) String() string {
	switch o {
	case InProgress:
		return "in progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	}
	return "unknown"
}

// A Pulse is the periodic health feedback state of the player.
type Pulse int

// Pulse states.
const (
	PulseNone Pulse = iota
	PulseHeal
	PulseDamage
)

// ID identifies an amoeba within a world.
type ID int

// Intents maps amoebas to externally supplied movement forces.
// Only the player's entry is consumed.
type Intents map[ID]Vec3

// A Shape describes the initial mesh of an amoeba.
type Shape struct {
	Vertices int     // number of point masses
	Radius   float64 // initial radius
	Center   Vec3    // initial target center
}

// A Body is a frame-start copy of the aggregate state of an amoeba.
// Collisions and steering read bodies rather than live amoebas
// so that the order of amoebas does not change the result of a frame.
type Body struct {
	ID     ID
	Kind   Kind
	Center Vec3 // true center
	Target Vec3 // target center
	Radius float64
	Speed  float64
	Alive  bool
}
