// Command replay prints a summary of an amoebawars recording.
//
// Usage
//
// The replay command takes one required and one optional argument:
//  replay recording.h5 [every]
// The first is the path to an HDF5 file written by amoebawars
// and the second prints only one frame out of every (1 by default).
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/DaveM0820/amoebawars"
	"github.com/DaveM0820/amoebawars/hdf5"
)

const usage = `Usage: replay recording.h5 [every]

The first argument is the path to an HDF5 recording.
The second argument is optional and prints only one frame out of every.
`

func main() {
	every := 1
	var err error
	switch len(os.Args) {
	case 2:
	case 3:
		every, err = strconv.Atoi(os.Args[2])
		if err == nil && every < 1 {
			err = fmt.Errorf("cannot print one frame out of every %d", every)
		}
	default:
		err = fmt.Errorf("%d arguments provided (1 required, 1 optional)\n\n%s", len(os.Args)-1, usage)
	}
	if err != nil {
		Fatal(err)
	}

	if err := replay(os.Stdout, os.Args[1], every); err != nil {
		Fatal(err)
	}
}

// Fatal prints an error on the standard output and exits with a non-zero status.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	os.Exit(1)
}

// replay prints one line per printed frame of the recording at path.
func replay(out io.Writer, path string, every int) (err error) {
	outcomes, err := hdf5.ReadOutcomes(path)
	if err != nil {
		return err
	}
	l, err := hdf5.NewLoader(path, "bodies")
	if err != nil {
		return err
	}
	defer func() {
		if cerr := l.Close(); err == nil {
			err = cerr
		}
	}()

	fmt.Fprintf(out, "%6s %8s %8s %5s %7s  %s\n", "frame", "hp", "radius", "food", "enemies", "outcome")
	for k := 0; k < l.Frames(); k++ {
		rows, err := l.Load()
		if err != nil {
			return err
		}
		if k%every != 0 && k != l.Frames()-1 {
			continue
		}
		var o amoebawars.Outcome
		if k < len(outcomes) {
			o = outcomes[k]
		}
		s := summarize(rows)
		fmt.Fprintf(out, "%6d %8.4f %8.3f %5d %7d  %s\n", k, s.hp, s.radius, s.food, s.enemies, o)
	}
	return nil
}

// A summary is the state of a recorded frame at a glance.
type summary struct {
	hp, radius    float64 // of the player
	food, enemies int     // living ones
}

// summarize sums up the records of a frame. The player comes first.
func summarize(rows []hdf5.BodyRecord) summary {
	var s summary
	for i, r := range rows {
		if i == 0 {
			s.hp, s.radius = r.HP, r.Radius
			continue
		}
		if r.Alive == 0 {
			continue
		}
		switch amoebawars.Kind(r.Kind) {
		case amoebawars.Food:
			s.food++
		case amoebawars.Enemy:
			s.enemies++
		}
	}
	return s
}
