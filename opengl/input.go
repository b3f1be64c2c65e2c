package opengl

import "github.com/DaveM0820/amoebawars"

// Keys holds the movement keys held down.
type Keys struct {
	Forward bool
	Back    bool
	Left    bool
	Right   bool
	Up      bool
	Down    bool
}

// Movement intent magnitudes.
var (
	moveSpeed  = 2.0
	upIntent   = amoebawars.V(0, -2.5, 0)
	downIntent = amoebawars.V(0, 1.5, 0)
)

// Intent returns the movement intent of the player for the held keys,
// relative to the view direction dir.
func Intent(k Keys, dir amoebawars.Vec3) amoebawars.Vec3 {
	var v amoebawars.Vec3
	if k.Forward {
		v = v.Add(dir.Mul(moveSpeed))
	}
	if k.Back {
		v = v.Sub(dir.Mul(moveSpeed))
	}
	if k.Left || k.Right {
		// looking straight up or down leaves no strafe direction
		if side, err := amoebawars.Cross(dir, amoebawars.V(0, 1, 0)); err == nil {
			side, _ = amoebawars.Normalize(side)
			if k.Left {
				v = v.Add(side.Mul(moveSpeed))
			}
			if k.Right {
				v = v.Sub(side.Mul(moveSpeed))
			}
		}
	}
	if k.Up {
		v = v.Add(upIntent)
	}
	if k.Down {
		v = v.Add(downIntent)
	}
	return v
}
