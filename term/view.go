package term

import (
	"math"

	"github.com/DaveM0820/amoebawars"
)

// A view maps the X/Z plane of the world onto terminal cells, centered on a point.
// Terminal cells are about twice as high as wide so columns count double.
type view struct {
	center        amoebawars.Vec3
	scale         float64 // world units per row
	width, height int
}

// project returns the cell showing p, and false when p is off screen.
// North (+Z) is up.
func (v view) project(p amoebawars.Vec3) (x, y int, ok bool) {
	dx := (p.X() - v.center.X()) / v.scale
	dz := (p.Z() - v.center.Z()) / v.scale
	x = v.width/2 + int(math.Round(2*dx))
	y = v.height/2 - int(math.Round(dz))
	return x, y, x >= 0 && x < v.width && y >= 0 && y < v.height
}

// keyIntents are the movement intents bound to keys.
var keyIntents = map[rune]amoebawars.Vec3{
	'w': amoebawars.V(0, 0, 2),
	's': amoebawars.V(0, 0, -2),
	'a': amoebawars.V(-2, 0, 0),
	'd': amoebawars.V(2, 0, 0),
	'k': amoebawars.V(0, -2.5, 0),
	'j': amoebawars.V(0, 1.5, 0),
}

// held tracks the keys pressed recently. Terminals report no key releases,
// so a key stays held for a few frames after its last press.
type held map[rune]int

// press holds a movement key for the given number of frames.
// Other keys are ignored.
func (h held) press(r rune, frames int) {
	if _, ok := keyIntents[r]; ok {
		h[r] = frames
	}
}

// intent returns the sum of the intents of the held keys and releases
// the keys whose time is up.
func (h held) intent() amoebawars.Vec3 {
	var v amoebawars.Vec3
	for r, n := range h {
		v = v.Add(keyIntents[r])
		if n <= 1 {
			delete(h, r)
		} else {
			h[r] = n - 1
		}
	}
	return v
}
