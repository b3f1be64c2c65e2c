//go:build nogl

package opengl

import (
	"fmt"
	"os"

	"github.com/DaveM0820/amoebawars"
)

// Run returns an error explaining that OpenGL support is disabled.
func Run(w *amoebawars.World, conf *Config) error {
	return fmt.Errorf("%s was built without OpenGL support", os.Args[0])
}
