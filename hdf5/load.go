package hdf5

import (
	"fmt"

	"github.com/DaveM0820/amoebawars"
	"gonum.org/v1/hdf5"
)

// A Loader sequentially loads body records from an HDF5 dataset.
type Loader struct {
	i uint // index of current slice
	n uint // total number of slices

	data []BodyRecord // data buffer

	file   *hdf5.File
	dset   *hdf5.Dataset
	fspace *hdf5.Dataspace
	mspace *hdf5.Dataspace
}

// NewLoader opens a dataset in an HDF5 file and returns an initialized loader.
func NewLoader(filepath, dataset string) (*Loader, error) {
	l := new(Loader)
	var err error
	l.file, err = hdf5.OpenFile(filepath, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, err
	}
	l.dset, err = l.file.OpenDataset(dataset)
	if err != nil {
		checkClose(&err, l.file)
		return nil, err
	}
	l.fspace = l.dset.Space()
	dims, _, err := l.fspace.SimpleExtentDims()
	if err != nil {
		checkClose(&err, l.dset)
		checkClose(&err, l.file)
		return nil, err
	}
	if len(dims) != 2 {
		err = fmt.Errorf("loader: expected 2 dimensions, got %d", len(dims))
		checkClose(&err, l.fspace)
		checkClose(&err, l.dset)
		checkClose(&err, l.file)
		return nil, err
	}
	l.n = dims[0]

	l.mspace, err = hdf5.CreateSimpleDataspace(dims[1:], nil)
	if err != nil {
		checkClose(&err, l.fspace)
		checkClose(&err, l.dset)
		checkClose(&err, l.file)
		return nil, err
	}

	start := []uint{0, 0}
	count := []uint{1, dims[1]}
	if err := l.fspace.SelectHyperslab(start, nil, count, nil); err != nil {
		l.Close()
		return nil, err
	}

	l.data = make([]BodyRecord, dims[1])

	return l, nil
}

// Frames returns the number of recorded steps.
func (l *Loader) Frames() int { return int(l.n) }

// Load loads the records of the next step
// and cycles when everything has already been loaded.
// The returned slice is only valid until the next call.
func (l *Loader) Load() ([]BodyRecord, error) {
	start := []uint{l.i, 0}
	if err := l.fspace.SetOffset(start); err != nil {
		return nil, err
	}
	l.i = (l.i + 1) % l.n

	if err := l.dset.ReadSubset(&l.data, l.mspace, l.fspace); err != nil {
		return nil, err
	}
	return l.data, nil
}

// Close closes every HDF5 handle held by the loader.
func (l *Loader) Close() (err error) {
	defer checkClose(&err, l.file)
	defer checkClose(&err, l.dset)
	defer checkClose(&err, l.fspace)
	defer checkClose(&err, l.mspace)
	return nil
}

// ReadOutcomes reads the whole outcome dataset of a recording.
func ReadOutcomes(filepath string) (out []amoebawars.Outcome, err error) {
	file, err := hdf5.OpenFile(filepath, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, err
	}
	defer checkClose(&err, file)

	dset, err := file.OpenDataset("outcome")
	if err != nil {
		return nil, err
	}
	defer checkClose(&err, dset)

	space := dset.Space()
	defer checkClose(&err, space)
	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return nil, err
	}
	if len(dims) != 1 {
		return nil, fmt.Errorf("loader: expected 1 dimension, got %d", len(dims))
	}

	raw := make([]int32, dims[0])
	if err := dset.Read(&raw); err != nil {
		return nil, err
	}
	out = make([]amoebawars.Outcome, len(raw))
	for i, o := range raw {
		out[i] = amoebawars.Outcome(o)
	}
	return out, nil
}
