package amoebawars

import (
	"fmt"
	"math"
)

// Params contains all the physics and gameplay constants of a simulation.
// The zero value is not usable; start from DefaultParams.
type Params struct {
	// Vertex springs
	Spring             float64 // stiffness of links between vertices
	CollapseStiffening float64 // spring multiplier when a link is below half its rest length
	Tolerance          float64 // deviation from rest length without spring force
	CenterSpring       float64 // stiffness of the pull toward the target center
	InsideReaction     float64 // fraction of the center spring fed back when inside the radius
	OutsideReaction    float64 // fraction of the center spring fed back when outside the radius
	GroundReaction     float64 // fraction of a vertex bounce fed back to the target center
	OffsetSpring       float64 // stiffness of the pull toward the rest offset
	VertexDamping      float64 // velocity multiplier per frame for vertices

	// Mesh
	NearestLinks int // links to the nearest vertices, applied every frame
	RandomLinks  int // links to random vertices, recorded only

	// Bodies
	Gravity     float64 // added to the Y velocity every frame (toward the floor)
	BodyDamping float64 // velocity multiplier per frame for target centers
	DeathRadius float64 // an amoeba dies when its radius falls to this value
	Sentinel    Vec3    // where dead amoebas are parked

	// Speed law
	BaseSpeed      float64
	SpeedPerHP     float64 // speed gained per unit of hp lost
	MinSpeed       float64
	MaxSpeed       float64
	FoodSpeedRatio float64 // food is never faster than this fraction of the player

	// Collisions and absorption
	PushScale  float64 // separation force per unit of speed between non-players
	FoodGain   float64 // hp moved from food to player, scaled by 2-difficulty
	EnemyDrain float64 // hp lost by the player to an enemy, scaled by difficulty
	EnemyGain  float64 // hp gained by an enemy touching the player

	// Steering
	IntentGain    float64 // velocity = (velocity + intent) * speed * IntentGain
	SafeDistance  float64 // distance food tries to keep from the player
	FleeScale     float64
	ApproachScale float64
	ChaseScale    float64
	CeilingY      float64 // food above this altitude is nudged back down
	CeilingNudge  float64 // Y velocity per frame, about twenty times Gravity

	// Clock
	FrameWrap   int // the frame counter goes from 0 to FrameWrap inclusive
	SwimPeriod  int // non-player intents are on for SwimOn frames every SwimPeriod
	SwimOn      int
	PlayerShift int // the player window is (frame > PlayerShift ? frame-PlayerShift : frame) < SwimOn
	PulsePeriod int // pulse is set at frame%PulsePeriod == 0, cleared at PulsePeriod/2

	// Step inputs
	MinDifficulty float64
	MaxDifficulty float64
}

// DefaultParams returns the parameters the game is tuned for.
func DefaultParams() Params {
	return Params{
		Spring:             0.001,
		CollapseStiffening: 10,
		Tolerance:          5,
		CenterSpring:       0.0006,
		InsideReaction:     0.2,
		OutsideReaction:    0.5,
		GroundReaction:     0.6,
		OffsetSpring:       0.001,
		VertexDamping:      0.96,

		NearestLinks: 3,
		RandomLinks:  3,

		Gravity:     0.0025,
		BodyDamping: 0.9,
		DeathRadius: 6,
		Sentinel:    Vec3{10000, 10000, 10000},

		BaseSpeed:      0.008,
		SpeedPerHP:     1.0 / 200,
		MinSpeed:       0.001,
		MaxSpeed:       0.01,
		FoodSpeedRatio: 0.4,

		PushScale:  1.5,
		FoodGain:   0.0025,
		EnemyDrain: 0.00025,
		EnemyGain:  0.0025,

		IntentGain:    100,
		SafeDistance:  200,
		FleeScale:     250,
		ApproachScale: 200,
		ChaseScale:    60,
		CeilingY:      -200,
		CeilingNudge:  0.05,

		FrameWrap:   180,
		SwimPeriod:  120,
		SwimOn:      60,
		PlayerShift: 90,
		PulsePeriod: 20,

		MinDifficulty: 0.2,
		MaxDifficulty: 2,
	}
}

// Links returns the number of links of every vertex.
func (p *Params) Links() int {
	return p.NearestLinks + p.RandomLinks
}

// Validate checks that the parameters can run a simulation.
func (p *Params) Validate() error {
	positive := []struct {
		name string
		val  float64
	}{
		{"Spring", p.Spring},
		{"CenterSpring", p.CenterSpring},
		{"DeathRadius", p.DeathRadius},
		{"BaseSpeed", p.BaseSpeed},
		{"MinSpeed", p.MinSpeed},
		{"MaxSpeed", p.MaxSpeed},
		{"IntentGain", p.IntentGain},
		{"MaxDifficulty", p.MaxDifficulty},
	}
	for _, f := range positive {
		if !(f.val > 0) || math.IsInf(f.val, 0) {
			return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidConfiguration, f.name, f.val)
		}
	}
	for _, f := range []struct {
		name string
		val  float64
	}{
		{"VertexDamping", p.VertexDamping},
		{"BodyDamping", p.BodyDamping},
	} {
		if f.val < 0 || f.val > 1 {
			return fmt.Errorf("%w: %s must be within [0, 1], got %g", ErrInvalidConfiguration, f.name, f.val)
		}
	}
	switch {
	case p.Tolerance < 0:
		return fmt.Errorf("%w: Tolerance must not be negative, got %g", ErrInvalidConfiguration, p.Tolerance)
	case p.MinSpeed > p.MaxSpeed:
		return fmt.Errorf("%w: MinSpeed %g above MaxSpeed %g", ErrInvalidConfiguration, p.MinSpeed, p.MaxSpeed)
	case p.MinDifficulty > p.MaxDifficulty:
		return fmt.Errorf("%w: MinDifficulty %g above MaxDifficulty %g", ErrInvalidConfiguration, p.MinDifficulty, p.MaxDifficulty)
	case p.NearestLinks < 1:
		return fmt.Errorf("%w: NearestLinks must be at least 1, got %d", ErrInvalidConfiguration, p.NearestLinks)
	case p.RandomLinks < 0:
		return fmt.Errorf("%w: RandomLinks must not be negative, got %d", ErrInvalidConfiguration, p.RandomLinks)
	case p.FrameWrap < 1 || p.SwimPeriod < 1 || p.PulsePeriod < 2:
		return fmt.Errorf("%w: clock periods must be positive", ErrInvalidConfiguration)
	}
	return nil
}
