package opengl

import (
	"math"

	"github.com/DaveM0820/amoebawars"
)

// A glVertex is the layout of a vertex in the OpenGL buffers.
type glVertex struct {
	Pos   [3]float32
	Color [4]float32
}

var palette = map[amoebawars.Kind][4]float32{
	amoebawars.Player: {0.3, 0.9, 0.4, 1},
	amoebawars.Food:   {0.3, 0.6, 1, 1},
	amoebawars.Enemy:  {1, 0.5, 0.1, 1},
}

// color returns the color of an amoeba. The player flashes with its health pulse.
func color(k amoebawars.Kind, p amoebawars.Pulse) [4]float32 {
	if k == amoebawars.Player {
		switch p {
		case amoebawars.PulseHeal:
			return [4]float32{0.7, 1, 0.7, 1}
		case amoebawars.PulseDamage:
			return [4]float32{1, 0.2, 0.2, 1}
		}
	}
	return palette[k]
}

// fill appends the vertices of living amoebas to points and their nearest
// links to lines, as pairs of end points. Links stretched beyond their rest
// length fade out.
func fill(w *amoebawars.World, points, lines []glVertex) ([]glVertex, []glVertex) {
	nearest := w.Params().NearestLinks
	for _, a := range w.Amoebas() {
		if !a.Alive() {
			continue
		}
		c := color(a.Kind(), w.Pulse())
		vs := a.Vertices()
		for i := range vs {
			v := &vs[i]
			p := glVertex{Pos: vec32(v.Position()), Color: c}
			points = append(points, p)
			for k := 0; k < nearest; k++ {
				q := glVertex{Pos: vec32(vs[v.Links()[k]].Position()), Color: c}
				if span := v.Span(k); span > v.Rest(k) {
					alpha := float32(math.Max(0.2, v.Rest(k)/span))
					p.Color[3], q.Color[3] = alpha, alpha
				} else {
					p.Color[3], q.Color[3] = 1, 1
				}
				lines = append(lines, p, q)
			}
		}
	}
	return points, lines
}
