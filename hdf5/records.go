package hdf5

import "github.com/DaveM0820/amoebawars"

// A BodyRecord is what is recorded for each amoeba at each step.
// This structure is mapped to a compound datatype in HDF5 so member names are important.
type BodyRecord struct {
	Center [3]float64 // true center
	Target [3]float64 // target center
	Radius float64
	HP     float64
	Speed  float64
	Kind   int32 // see amoebawars.Kind
	Alive  int32 // 1 while alive
}

// A VertexRecord is what is recorded for each vertex at each step.
type VertexRecord struct {
	Pos [3]float64
	Vel [3]float64
}

// NewBodyRecord returns the record of an amoeba.
func NewBodyRecord(a *amoebawars.Amoeba) BodyRecord {
	r := BodyRecord{
		Center: a.Center(),
		Target: a.Target(),
		Radius: a.Radius(),
		HP:     a.HP(),
		Speed:  a.Speed(),
		Kind:   int32(a.Kind()),
	}
	if a.Alive() {
		r.Alive = 1
	}
	return r
}

// Bodies returns a dataset named "bodies" holding one record per amoeba.
// The amoebas of the world must all be spawned before recording.
func Bodies(w *amoebawars.World) *Dataset {
	buf := make([]BodyRecord, len(w.Amoebas()))
	return &Dataset{
		Name: "bodies",
		Val:  BodyRecord{},
		Dims: []int{len(buf)},
		Data: func(w *amoebawars.World) interface{} {
			for i, a := range w.Amoebas() {
				buf[i] = NewBodyRecord(a)
			}
			return &buf
		},
	}
}

// Vertices returns a dataset named "vertices" holding the vertices
// of every amoeba, in spawn order.
func Vertices(w *amoebawars.World) *Dataset {
	buf := make([]VertexRecord, w.VertexCount())
	return &Dataset{
		Name: "vertices",
		Val:  VertexRecord{},
		Dims: []int{len(buf)},
		Data: func(w *amoebawars.World) interface{} {
			i := 0
			for _, a := range w.Amoebas() {
				for _, v := range a.Vertices() {
					buf[i] = VertexRecord{Pos: v.Position(), Vel: v.Velocity()}
					i++
				}
			}
			return &buf
		},
	}
}

// Outcomes returns a dataset named "outcome" holding the win/lose signal.
func Outcomes() *Dataset {
	var buf int32
	return &Dataset{
		Name: "outcome",
		Val:  buf,
		Data: func(w *amoebawars.World) interface{} {
			buf = int32(w.Outcome())
			return &buf
		},
	}
}

// DefaultDatasets returns the bodies, vertices and outcome datasets.
func DefaultDatasets(w *amoebawars.World) []*Dataset {
	return []*Dataset{Bodies(w), Vertices(w), Outcomes()}
}
