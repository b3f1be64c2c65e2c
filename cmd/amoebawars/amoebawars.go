// Command amoebawars runs amoeba wars: soft-body amoebas eating each other.
//
// Usage
//
// The amoebawars command takes one optional argument:
//  amoebawars [config_file]
// It is the path to a TOML config file. Without it, the file named by
// AMOEBAWARS_CONFIG is used if set, and the default arena otherwise.
// A .env file in the working directory may set AMOEBAWARS_CONFIG and
// AMOEBAWARS_SEED.
//
// Config file
//
// The config file is written in TOML. Top level keys set the run mode,
// [[Amoeba]] tables replace the arena (the player first), the [Window] table
// sets the title and size of the OpenGL window (ForcePause starts it paused
// for manual stepping) and the [Physics] table overrides individual physics
// constants.
//
// Interactive mode
//
// With an empty Output the game runs interactively, in an OpenGL window or in
// the terminal depending on Viewer. Otherwise Steps frames are recorded to the
// Output HDF5 file without player input.
package main

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/DaveM0820/amoebawars"
	"github.com/DaveM0820/amoebawars/hdf5"
	"github.com/DaveM0820/amoebawars/opengl"
	"github.com/DaveM0820/amoebawars/term"
)

const usage = `Usage: amoebawars [config_file]

The first argument is optional and is the path to a TOML config file.
If no config file is specified, the game runs in the default arena.
`

func init() {
	// Most OpenGL functions have to run from the main thread.
	// This is needed to arrange that main() runs on main thread.
	// See https://github.com/golang/go/wiki/LockOSThread for more info.
	runtime.LockOSThread()
}

func main() {
	if err := loadEnv(); err != nil {
		Fatal(err)
	}

	var conf *Config
	var err error
	switch len(os.Args) {
	case 1:
		if path := os.Getenv(envConfig); path != "" {
			conf, err = ParseConfig(path)
		} else {
			conf = DefaultConfig()
		}
	case 2:
		conf, err = ParseConfig(os.Args[1])
	default:
		err = fmt.Errorf("%d arguments provided (0 required, 1 optional)\n\n%s", len(os.Args)-1, usage)
	}
	if err == nil {
		err = conf.applyEnv()
	}
	if err == nil {
		err = conf.validate()
	}
	if err != nil {
		Fatal(err)
	}

	// setup simulation
	w, err := setup(conf)
	if err != nil {
		Fatal(err)
	}
	step := stepper(w, conf)

	// run interactively or not depending on config
	switch {
	case conf.Output != "":
		err = hdf5.Run(w, &hdf5.Config{
			Output:   conf.Output,
			Steps:    conf.Steps,
			Step:     func() error { return step(amoebawars.Vec3{}) },
			Meta:     conf,
			Datasets: hdf5.DefaultDatasets(w),
		})
	case conf.Viewer == "term":
		err = term.Run(w, &term.Config{Step: step, Sound: conf.Sound})
	default:
		err = opengl.Run(w, glConfig(conf, step))
	}
	if err != nil {
		Fatal(err)
	}
	log.Printf("%s after %d frames", w.Outcome(), w.Clock().Steps)
}

// Fatal prints an error on the standard output and exits with a non-zero status.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	os.Exit(1)
}

// glConfig returns the parameters of the OpenGL viewer.
func glConfig(conf *Config, step func(amoebawars.Vec3) error) *opengl.Config {
	return &opengl.Config{
		Step:       step,
		ForcePause: conf.Window.ForcePause,
		Title:      conf.Window.Title,
		Width:      conf.Window.Width,
		Height:     conf.Window.Height,
	}
}

// setup creates the world and spawns the arena.
func setup(conf *Config) (*amoebawars.World, error) {
	if conf.Seed == 0 {
		conf.Seed = time.Now().UnixNano()
	}
	w, err := amoebawars.NewWorld(conf.Physics, conf.Seed)
	if err != nil {
		return nil, err
	}
	for i, a := range conf.Amoeba {
		s := amoebawars.Shape{Vertices: a.Vertices, Radius: a.Radius, Center: a.Center}
		if _, err := w.Spawn(s); err != nil {
			return nil, fmt.Errorf("amoeba %d: %w", i, err)
		}
	}
	return w, nil
}

// stepper returns a function stepping the world with the player's intent.
// The game slows down once it is over.
func stepper(w *amoebawars.World, conf *Config) func(intent amoebawars.Vec3) error {
	return func(intent amoebawars.Vec3) error {
		ts := conf.TimeScale
		switch w.Outcome() {
		case amoebawars.Won:
			ts = conf.WonTimeScale
		case amoebawars.Lost:
			ts = conf.LostTimeScale
		}
		return w.Step(conf.Difficulty, ts, amoebawars.Intents{w.PlayerID(): intent})
	}
}
