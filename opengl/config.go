// Package opengl runs interactive amoebawars simulations in an OpenGL window.
//
// The player swims with W, A, S, D relative to the camera, Space moves up and
// Control moves down. Dragging with the left mouse button orbits the camera
// and scrolling zooms. P pauses, the right arrow steps while paused, R resets
// the camera and Escape quits. Build with the nogl tag to leave out OpenGL support.
package opengl

import "github.com/DaveM0820/amoebawars"

// Config holds the parameters of the OpenGL driver.
type Config struct {
	Step       func(intent amoebawars.Vec3) error // go to next step
	ForcePause bool                               // step manually only?

	Title  string
	Width  int
	Height int
}
