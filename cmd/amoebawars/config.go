package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/DaveM0820/amoebawars"
	"github.com/joho/godotenv"
)

// Environment variables read at startup, possibly from a .env file.
const (
	envConfig = "AMOEBAWARS_CONFIG" // config file used when none is given
	envSeed   = "AMOEBAWARS_SEED"   // overrides the seed of the config
)

// Config holds the various parameters required for running a simulation.
type Config struct {
	// Output is either a filename (path) for the HDF5 output file,
	// or the empty string for an interactive simulation.
	Output string

	Viewer string // possible values: opengl, term
	Sound  bool   // pulse tones (term only)
	Steps  int    // number of time steps (hdf5 only)
	Seed   int64  // seed of the random mesh links, 0 picks one from the clock

	Difficulty    float64 // unit: 1, within [0.2, 2]
	TimeScale     float64 // while in progress
	WonTimeScale  float64 // slow motion once won
	LostTimeScale float64 // slow motion once lost

	// Window sets up the OpenGL viewer.
	Window WindowConfig

	// Amoeba lists the amoebas of the arena, the player first.
	Amoeba []AmoebaConfig

	Physics amoebawars.Params
}

// WindowConfig holds the parameters of the OpenGL window.
type WindowConfig struct {
	Title      string
	Width      int // unit: screen coordinates
	Height     int
	ForcePause bool // step manually only?
}

// AmoebaConfig describes an amoeba of the arena.
type AmoebaConfig struct {
	Vertices int
	Radius   float64
	Center   [3]float64
}

// DefaultConfig returns the default parameters: the classic eight amoeba arena.
func DefaultConfig() *Config {
	return &Config{
		Output:        "",
		Viewer:        "opengl",
		Sound:         true,
		Steps:         3000,
		Seed:          0,
		Difficulty:    1,
		TimeScale:     1.5,
		WonTimeScale:  0.01,
		LostTimeScale: 0.03,
		Window:        WindowConfig{Title: "Amoeba Wars", Width: 1024, Height: 768},
		Amoeba: []AmoebaConfig{
			{200, 25, [3]float64{0, -100, 0}},
			{60, 50, [3]float64{0, -300, 400}},
			{60, 20, [3]float64{-400, -400, 400}},
			{60, 20, [3]float64{200, -100, -200}},
			{60, 10, [3]float64{-200, -300, 200}},
			{60, 40, [3]float64{280, -100, -100}},
			{60, 26, [3]float64{-350, -300, 350}},
			{60, 24, [3]float64{-200, -300, 120}},
		},
		Physics: amoebawars.DefaultParams(),
	}
}

// ParseConfig parses the TOML config file whose path is provided.
// Keys missing from the file keep their default value.
func ParseConfig(path string) (*Config, error) {
	// config file overwrites default parameters
	conf := DefaultConfig()
	md, err := toml.DecodeFile(path, conf)
	if err != nil {
		return nil, err
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys %s", path, strings.Join(names, ", "))
	}
	return conf, nil
}

// loadEnv loads a .env file from the working directory, if any.
func loadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// applyEnv overrides config values with the environment.
func (c *Config) applyEnv() error {
	if s := os.Getenv(envSeed); s != "" {
		seed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", envSeed, err)
		}
		c.Seed = seed
	}
	return nil
}

// validate checks the values the simulation does not check itself.
func (c *Config) validate() error {
	switch {
	case c.Output == "" && c.Viewer != "opengl" && c.Viewer != "term":
		return fmt.Errorf("bad viewer %q", c.Viewer)
	case c.Output != "" && c.Steps < 1:
		return fmt.Errorf("%d steps to record", c.Steps)
	case c.Window.Width < 0 || c.Window.Height < 0:
		return fmt.Errorf("bad window size %dx%d", c.Window.Width, c.Window.Height)
	case len(c.Amoeba) == 0:
		return fmt.Errorf("no amoeba in the arena")
	}
	for _, ts := range []float64{c.TimeScale, c.WonTimeScale, c.LostTimeScale} {
		if ts < 0 {
			return fmt.Errorf("negative time scale %g", ts)
		}
	}
	if c.Difficulty < c.Physics.MinDifficulty || c.Difficulty > c.Physics.MaxDifficulty {
		return fmt.Errorf("difficulty %g outside [%g, %g]", c.Difficulty, c.Physics.MinDifficulty, c.Physics.MaxDifficulty)
	}
	return nil
}
