package opengl

import (
	"math"

	"github.com/DaveM0820/amoebawars"
	"github.com/go-gl/mathgl/mgl32"
)

// Distance bounds of the camera to its target.
const (
	MinDistance     = 30
	MaxDistance     = 1000
	DefaultDistance = 400
)

// A Camera orbits around a target point.
type Camera struct {
	Yaw      float64 // rad, around the vertical axis
	Pitch    float64 // rad, positive looks down on the target
	Distance float64
}

// NewCamera returns a camera slightly above its target.
func NewCamera() Camera {
	return Camera{Pitch: 0.3, Distance: DefaultDistance}
}

// Orbit turns the camera by the given angles.
// Pitch is kept away from the vertical so the view direction is never parallel to it.
func (c *Camera) Orbit(yaw, pitch float64) {
	const maxPitch = 1.4
	c.Yaw = math.Mod(c.Yaw+yaw, 2*math.Pi)
	c.Pitch = math.Max(-maxPitch, math.Min(maxPitch, c.Pitch+pitch))
}

// Zoom moves the camera toward its target for positive steps.
func (c *Camera) Zoom(steps float64) {
	c.Distance = math.Max(MinDistance, math.Min(MaxDistance, c.Distance*math.Pow(0.9, steps)))
}

// offset returns the position of the camera relative to its target.
// Up is negative Y.
func (c Camera) offset() amoebawars.Vec3 {
	sinp, cosp := math.Sincos(c.Pitch)
	siny, cosy := math.Sincos(c.Yaw)
	return amoebawars.V(cosp*siny, -sinp, -cosp*cosy).Mul(c.Distance)
}

// Eye returns the position of the camera.
func (c Camera) Eye(target amoebawars.Vec3) amoebawars.Vec3 {
	return target.Add(c.offset())
}

// Direction returns the unit view direction.
func (c Camera) Direction() amoebawars.Vec3 {
	return amoebawars.Direction(c.offset(), amoebawars.Vec3{})
}

// Matrix returns the projection-view matrix for the given target and aspect ratio.
func (c Camera) Matrix(target amoebawars.Vec3, aspect float32) mgl32.Mat4 {
	eye := c.Eye(target)
	view := mgl32.LookAtV(vec32(eye), vec32(target), mgl32.Vec3{0, -1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(45), aspect, 1, 5000)
	return proj.Mul4(view)
}

func vec32(v amoebawars.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}
