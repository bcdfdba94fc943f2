/*
Copyright © 2025 the ncread authors.
This file is part of ncread.

ncread is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ncread is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ncread.  If not, see <http://www.gnu.org/licenses/>.
*/

package ncread

import (
	"fmt"
	"os"

	"github.com/ctessum/cdf"
)

// AccessMode selects how ranks coordinate their reads of a variable.
type AccessMode int

const (
	// Collective access keeps all ranks in lockstep: every rank
	// participates in each variable's read phase together.
	Collective AccessMode = iota
	// Independent access lets each rank proceed at its own pace
	// between file synchronization points.
	Independent
)

func (m AccessMode) String() string {
	if m == Independent {
		return "independent"
	}
	return "collective"
}

// A Dimension is one axis of the global grid.
type Dimension struct {
	Name   string
	Length int
}

// A Variable is one variable in a dataset. IsDim marks dimension
// variables: variables whose name exactly matches a dimension's name.
// Dimension variables hold coordinate values and are excluded from
// every benchmarked read.
type Variable struct {
	Name  string
	ID    int
	IsDim bool
}

// Axes holds the dimension indices of the two designated grid axes.
// The longitude axis is the periodic one.
type Axes struct {
	Lon, Lat int
}

// A Dataset is an open NetCDF file together with the per-variable
// access configuration for this run.
type Dataset struct {
	path   string
	f      *os.File
	cf     *cdf.File
	recLen int
	access map[string]AccessMode
}

// OpenDataset opens the NetCDF file at path for reading. The record
// dimension's length, which the header stores as zero, is resolved
// from the file size at open so that Dimensions reports the actual
// record count.
func OpenDataset(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	cf, err := cdf.Open(f)
	if err != nil {
		f.Close()
		return nil, &OpenError{Path: path, Err: err}
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, &OpenError{Path: path, Err: err}
	}
	return &Dataset{
		path:   path,
		f:      f,
		cf:     cf,
		recLen: int(cf.Header.NumRecs(fi.Size())),
		access: make(map[string]AccessMode),
	}, nil
}

// Close closes the underlying file.
func (d *Dataset) Close() error { return d.f.Close() }

// Path returns the path the dataset was opened from.
func (d *Dataset) Path() string { return d.path }

// Dimensions returns the dataset's dimensions in file order. A record
// dimension carries the number of complete records in the file, not
// the zero length the header stores for it.
func (d *Dataset) Dimensions() []Dimension {
	names := d.cf.Header.Dimensions("")
	lengths := d.cf.Header.Lengths("")
	dims := make([]Dimension, len(names))
	for i := range names {
		dims[i] = Dimension{Name: names[i], Length: lengths[i]}
		if dims[i].Length == 0 {
			dims[i].Length = d.recLen
		}
	}
	return dims
}

// Variables returns the dataset's variables in file order, with
// dimension variables marked.
func (d *Dataset) Variables() []Variable {
	dimNames := make(map[string]bool)
	for _, name := range d.cf.Header.Dimensions("") {
		dimNames[name] = true
	}
	names := d.cf.Header.Variables()
	vars := make([]Variable, len(names))
	for i, name := range names {
		vars[i] = Variable{Name: name, ID: i, IsDim: dimNames[name]}
	}
	return vars
}

// FindAxes resolves the configured longitude and latitude dimension
// names to dimension indices. It is called once against the first file
// of a run; all later files are assumed to share its layout.
func (d *Dataset) FindAxes(lonName, latName string) (Axes, error) {
	axes := Axes{Lon: -1, Lat: -1}
	for i, name := range d.cf.Header.Dimensions("") {
		switch name {
		case lonName:
			axes.Lon = i
		case latName:
			axes.Lat = i
		}
	}
	if axes.Lon == -1 {
		return axes, &AxisNotFoundError{Name: lonName, Path: d.path}
	}
	if axes.Lat == -1 {
		return axes, &AxisNotFoundError{Name: latName, Path: d.path}
	}
	return axes, nil
}

// SetAccess configures the access policy for the named variable. The
// policy is a run-wide constant; it is set once per variable per file
// before the timed read phase begins.
func (d *Dataset) SetAccess(name string, mode AccessMode) error {
	if d.cf.Header.Lengths(name) == nil {
		return &AccessError{Variable: name, Mode: mode,
			Err: fmt.Errorf("no such variable in %s", d.path)}
	}
	d.access[name] = mode
	return nil
}

// Access returns the configured access policy for the named variable.
// Variables without an explicit configuration default to Collective.
func (d *Dataset) Access(name string) AccessMode { return d.access[name] }

// reader returns a bounded-range reader for the named variable covering
// the inclusive corner range [begin, end].
func (d *Dataset) reader(name string, begin, end []int) cdf.Reader {
	return d.cf.Reader(name, begin, end)
}

// zeroValue returns a zeroed read buffer of the variable's element type.
func (d *Dataset) zeroValue(name string, n int) interface{} {
	return d.cf.Header.ZeroValue(name, n)
}
