package amoebawars

import (
	"fmt"
	"math"
	"math/rand"
)

// goldenRatio drives the longitude increment of the Fibonacci sphere.
var goldenRatio = (1 + math.Sqrt(5)) / 2

// FibonacciSphere returns n points spread over the sphere of radius r
// around center. Point i has latitude i·π/n and longitude i·2π/φ.
func FibonacciSphere(n int, r float64, center Vec3) []Vec3 {
	points := make([]Vec3, n)
	dθ := math.Pi / float64(n)
	dφ := 2 * math.Pi / goldenRatio
	for i := range points {
		sinθ, cosθ := math.Sincos(float64(i) * dθ)
		sinφ, cosφ := math.Sincos(float64(i) * dφ)
		points[i] = center.Add(Vec3{r * sinθ * cosφ, r * sinθ * sinφ, r * cosθ})
	}
	return points
}

// buildMesh creates the vertices of an amoeba and links them together.
// Vertex refresh frames are spread evenly over the clock period.
func buildMesh(points []Vec3, center Vec3, p *Params, rng *rand.Rand) ([]Vertex, error) {
	n := len(points)
	vs := make([]Vertex, n)
	for i := range vs {
		vs[i] = Vertex{
			pos:     points[i],
			links:   make([]int, 0, p.Links()),
			rest:    make([]float64, 0, p.Links()),
			refresh: i * (p.FrameWrap + 1) / n,
			spans:   make([]float64, p.NearestLinks),
		}
	}
	for i := range vs {
		if err := connect(vs, i, center, p, rng); err != nil {
			return nil, err
		}
	}
	for i := range vs {
		for k := range vs[i].spans {
			vs[i].spans[k] = vs[i].rest[k]
		}
	}
	return vs, nil
}

// connect links vertex i to its nearest unlinked vertices, then to random ones,
// and records its rest offset from the center.
func connect(vs []Vertex, i int, center Vec3, p *Params, rng *rand.Rand) error {
	v := &vs[i]
	for k := 0; k < p.NearestLinks; k++ {
		best, nearest := -1, math.Inf(1)
		for j := range vs {
			if j == i || v.Linked(j) {
				continue
			}
			// strict comparison: the first vertex found wins ties
			if d := Dist(v.pos, vs[j].pos); d < nearest {
				best, nearest = j, d
			}
		}
		if best < 0 {
			return fmt.Errorf("%w: vertex %d of %d has no free neighbor for link %d",
				ErrInvalidConfiguration, i, len(vs), k)
		}
		v.links = append(v.links, best)
		v.rest = append(v.rest, nearest)
		vs[best].peers = append(vs[best].peers, i)
	}

	// random links help the mesh keep its shape, duplicates are allowed
	for k := 0; k < p.RandomLinks; k++ {
		j := rng.Intn(len(vs) - 1)
		if j >= i {
			j++
		}
		v.links = append(v.links, j)
		v.rest = append(v.rest, Dist(v.pos, vs[j].pos))
	}

	v.offset = v.pos.Sub(center)
	v.initialOffset = v.offset
	return nil
}
