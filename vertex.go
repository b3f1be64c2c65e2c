package amoebawars

import "math"

// A Vertex is a point mass of an amoeba.
type Vertex struct {
	pos Vec3
	vel Vec3

	links []int     // nearest links first, then random links
	rest  []float64 // rest length of each link
	peers []int     // vertices that picked this one as a nearest link

	offset        Vec3 // rest offset from the target center, after resize
	initialOffset Vec3 // rest offset from the target center at construction

	refresh int       // frame on which spans are recomputed
	spans   []float64 // cached lengths of the nearest links
}

// Position returns the position of the vertex.
func (v *Vertex) Position() Vec3 { return v.pos }

// Velocity returns the velocity of the vertex.
func (v *Vertex) Velocity() Vec3 { return v.vel }

// Links returns the indices of the linked vertices, nearest links first.
// The returned slice must not be modified.
func (v *Vertex) Links() []int { return v.links }

// Rest returns the rest length of link k.
func (v *Vertex) Rest(k int) float64 { return v.rest[k] }

// Offset returns the rest offset of the vertex from the target center.
func (v *Vertex) Offset() Vec3 { return v.offset }

// InitialOffset returns the rest offset recorded at construction.
func (v *Vertex) InitialOffset() Vec3 { return v.initialOffset }

// Linked reports whether vertex j is linked to this one,
// either through a link slot or as a peer.
func (v *Vertex) Linked(j int) bool {
	for _, k := range v.links {
		if k == j {
			return true
		}
	}
	for _, k := range v.peers {
		if k == j {
			return true
		}
	}
	return false
}

// Span returns the cached length of nearest link k.
// Spans are refreshed once per clock period, on the vertex's refresh frame,
// which is all renderers need to size connectors.
func (v *Vertex) Span(k int) float64 { return v.spans[k] }

// RefreshFrame returns the frame on which the spans of the vertex are recomputed.
func (v *Vertex) RefreshFrame() int { return v.refresh }

// applyForces accumulates the spring, center, ground, offset, gravity and
// damping forces acting on v, then moves it.
func (v *Vertex) applyForces(a *Amoeba, p *Params, clk Clock) {
	// springs to nearest neighbors, random links are left out
	// as they make large amoebas unstable
	for k := 0; k < p.NearestLinks; k++ {
		q := a.vertices[v.links[k]].pos
		delta := v.pos.Sub(q)
		d := delta.Len()
		rest := v.rest[k]
		if math.Abs(d-rest) <= p.Tolerance {
			continue
		}
		if d > rest {
			v.vel = v.vel.Sub(delta.Mul(p.Spring))
		} else if d < rest/2 {
			v.vel = v.vel.Add(delta.Mul(p.Spring * p.CollapseStiffening))
		} else {
			v.vel = v.vel.Add(delta.Mul(p.Spring))
		}
	}

	// spring to the target center, with reaction on the amoeba
	delta := v.pos.Sub(a.target)
	if delta.Len() < a.radius {
		v.vel = v.vel.Add(delta.Mul(p.CenterSpring))
		a.vel = a.vel.Add(delta.Mul(-p.CenterSpring * p.InsideReaction))
	} else {
		v.vel = v.vel.Sub(delta.Mul(p.CenterSpring))
		a.vel = a.vel.Add(delta.Mul(p.CenterSpring * p.OutsideReaction))
	}

	// bounce on the floor
	if v.pos.Y() >= 0 {
		v.pos[1] = -1
		v.vel[1] = -v.vel[1]
		a.vel = a.vel.Add(Vec3{0, v.vel.Y() * p.GroundReaction, 0})
	}

	// keep the same position relative to the center
	v.vel = v.vel.Add(v.offset.Sub(v.pos.Sub(a.target)).Mul(p.OffsetSpring))

	v.vel[1] += p.Gravity
	v.vel = v.vel.Mul(p.VertexDamping)
	v.pos = v.pos.Add(v.vel.Mul(clk.TimeScale))

	if clk.Frame == v.refresh {
		v.updateSpans(a)
	}
}

// updateSpans recomputes the cached lengths of the nearest links.
func (v *Vertex) updateSpans(a *Amoeba) {
	for k := range v.spans {
		v.spans[k] = Dist(v.pos, a.vertices[v.links[k]].pos)
	}
}
