// Package term runs interactive amoebawars simulations in a terminal.
//
// The arena is seen from above, centered on the player. W, A, S, D swim
// north, west, south and east, K swims up and J down. P pauses, N steps
// while paused and Escape or Q quits.
package term

import (
	"fmt"
	"time"

	"github.com/DaveM0820/amoebawars"
	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

// Config holds the parameters of the terminal driver.
type Config struct {
	Step   func(intent amoebawars.Vec3) error // go to next step
	Period time.Duration                      // time between steps, 16ms by default
	Scale  float64                            // world units per row, 10 by default
	Hold   int                                // frames a key stays held, 8 by default
	Sound  bool                               // play tones for the health pulse
}

var styles = map[amoebawars.Kind]tcell.Style{
	amoebawars.Player: tcell.StyleDefault.Foreground(tcell.ColorGreen),
	amoebawars.Food:   tcell.StyleDefault.Foreground(tcell.ColorBlue),
	amoebawars.Enemy:  tcell.StyleDefault.Foreground(tcell.ColorOrange),
}

var marks = map[amoebawars.Kind]rune{
	amoebawars.Player: '@',
	amoebawars.Food:   'o',
	amoebawars.Enemy:  'X',
}

// Run runs an interactive simulation in the terminal.
func Run(w *amoebawars.World, conf *Config) error {
	period, scale, hold := conf.Period, conf.Scale, conf.Hold
	if period <= 0 {
		period = 16 * time.Millisecond
	}
	if scale <= 0 {
		scale = 10
	}
	if hold <= 0 {
		hold = 8
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	var audio *tones
	if conf.Sound {
		// the game runs without sound when no audio device is available
		audio, _ = newTones()
		defer audio.close()
	}

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	keys := make(held)
	var pause, step bool
	pulse := w.Pulse()
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
					return nil
				}
				if ev.Key() != tcell.KeyRune {
					break
				}
				switch r := ev.Rune(); r {
				case 'q':
					return nil
				case 'p':
					pause = !pause
				case 'n':
					step = pause
				default:
					keys.press(r, hold)
				}
			case *tcell.EventResize:
				screen.Sync()
			}

		case <-ticker.C:
			if !pause || step {
				step = false
				if err := conf.Step(keys.intent()); err != nil {
					return err
				}
			}
			if p := w.Pulse(); p != pulse {
				pulse = p
				audio.play(p)
			}
			draw(screen, w, scale, pause)
		}
	}
}

// draw renders the arena and a status line.
func draw(screen tcell.Screen, w *amoebawars.World, scale float64, paused bool) {
	screen.Clear()
	width, height := screen.Size()
	pl := w.Player()
	v := view{center: pl.Center(), scale: scale, width: width, height: height - 1}

	var food, enemies int
	for _, a := range w.Amoebas() {
		if !a.Alive() {
			continue
		}
		switch a.Kind() {
		case amoebawars.Food:
			food++
		case amoebawars.Enemy:
			enemies++
		}
		style := styles[a.Kind()]
		if a.Kind() == amoebawars.Player && w.Pulse() != amoebawars.PulseNone {
			style = style.Reverse(true)
		}
		for _, vx := range a.Vertices() {
			if x, y, ok := v.project(vx.Position()); ok {
				screen.SetContent(x, y, '·', nil, style)
			}
		}
		if x, y, ok := v.project(a.Center()); ok {
			screen.SetContent(x, y, marks[a.Kind()], nil, style.Bold(true))
		}
	}

	status := fmt.Sprintf(" hp %.3f  depth %.0f  food %d  enemies %d  %s",
		pl.HP(), -pl.Center().Y(), food, enemies, w.Outcome())
	if paused {
		status += "  (paused)"
	}
	style := tcell.StyleDefault.Reverse(true)
	for x := 0; x < width; x++ {
		r := ' '
		if x < len(status) {
			r = rune(status[x])
		}
		screen.SetContent(x, height-1, r, nil, style)
	}
	screen.Show()
}

// tones plays short cues when the health pulse of the player changes.
type tones struct {
	rate beep.SampleRate
}

func newTones() (*tones, error) {
	rate := beep.SampleRate(44100)
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return nil, err
	}
	return &tones{rate: rate}, nil
}

func (t *tones) close() {
	if t != nil {
		speaker.Close()
	}
}

// play plays a high tone for healing and a low one for damage.
func (t *tones) play(p amoebawars.Pulse) {
	if t == nil {
		return
	}
	var freq float64
	switch p {
	case amoebawars.PulseHeal:
		freq = 880
	case amoebawars.PulseDamage:
		freq = 220
	default:
		return
	}
	sine, err := generators.SineTone(t.rate, freq)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(t.rate.N(60*time.Millisecond), sine))
}
