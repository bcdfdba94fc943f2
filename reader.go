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

import "fmt"

// readScale is multiplied into the first buffer element after every
// read so that neither the compiler nor the I/O layer can elide the
// read as dead work. The value has no meaning.
const readScale = 3.4

// A SubdomainReader issues bounded-range reads that fill one rank's
// buffer with its subdomain block and, for periodic-halo owners, the
// wrap-around block. The buffer is allocated once, sized for the larger
// of the two blocks across all extra axes taken in full, and
// overwritten on every read.
type SubdomainReader struct {
	dims []Dimension
	axes Axes
	sub  Subdomain
	halo HaloSpec
	buf  []float32
}

// NewSubdomainReader creates a reader for the given subdomain and halo
// plan. dims is the global dimension layout from the run's first file.
func NewSubdomainReader(dims []Dimension, axes Axes, sub Subdomain, halo HaloSpec) *SubdomainReader {
	r := &SubdomainReader{dims: dims, axes: axes, sub: sub, halo: halo}
	n := r.blockSize(sub.LonCount())
	if halo.Periodic {
		if hn := r.blockSize(halo.SourceLen); hn > n {
			n = hn
		}
	}
	r.buf = make([]float32, n)
	return r
}

// Buffer exposes the read buffer. Its contents are only meaningful
// immediately after a read.
func (r *SubdomainReader) Buffer() []float32 { return r.buf }

// blockSize returns the element count of a block spanning the
// subdomain's latitude rows, lonCount longitude columns, and the full
// extent of every extra axis.
func (r *SubdomainReader) blockSize(lonCount int) int {
	n := 1
	for i, d := range r.dims {
		switch i {
		case r.axes.Lat:
			n *= r.sub.LatCount()
		case r.axes.Lon:
			n *= lonCount
		default:
			n *= d.Length
		}
	}
	return n
}

// ReadSubdomain reads the rank's main block and, if the rank owns a
// periodic halo, the wrap-around block from the opposite edge of the
// longitude axis. The halo block overwrites the main block in the
// buffer: the benchmark measures read cost, not a stitched result.
func (r *SubdomainReader) ReadSubdomain(ds *Dataset, v Variable) error {
	if len(r.buf) == 0 {
		// An empty subdomain has nothing to read.
		return nil
	}
	if err := r.readBlock(ds, v, r.sub.LonStart, r.sub.LonCount()); err != nil {
		return err
	}
	r.buf[0] *= readScale
	if r.halo.Periodic {
		if err := r.readBlock(ds, v, r.halo.SourceStart, r.halo.SourceLen); err != nil {
			return err
		}
		r.buf[0] *= readScale
	}
	return nil
}

// readBlock fills the buffer with the hyperslab bounded by the
// subdomain's latitude range, [lonStart, lonStart+lonCount) on the
// longitude axis, and the full extent of every extra axis. The file
// stores the block as a set of contiguous runs along the innermost
// dimension, so the block is read as one bounded-range read per run.
func (r *SubdomainReader) readBlock(ds *Dataset, v Variable, lonStart, lonCount int) error {
	if ds.cf.Header.Lengths(v.Name) == nil {
		return &ReadError{Variable: v.Name, Path: ds.path,
			Err: fmt.Errorf("no such variable")}
	}
	if _, ok := ds.zeroValue(v.Name, 1).([]float32); !ok {
		return &ReadError{Variable: v.Name, Path: ds.path,
			Err: fmt.Errorf("variable is not of type float")}
	}
	ndims := len(r.dims)
	if got := len(ds.cf.Header.Dimensions(v.Name)); got != ndims {
		return &ReadError{Variable: v.Name, Path: ds.path,
			Err: fmt.Errorf("variable has %d dimensions, want %d", got, ndims)}
	}
	start := make([]int, ndims)
	count := make([]int, ndims)
	for i, d := range r.dims {
		start[i], count[i] = 0, d.Length
	}
	start[r.axes.Lat], count[r.axes.Lat] = r.sub.LatStart, r.sub.LatCount()
	start[r.axes.Lon], count[r.axes.Lon] = lonStart, lonCount

	last := ndims - 1
	runLen := count[last]
	begin := make([]int, ndims)
	end := make([]int, ndims)
	copy(begin, start)
	off := 0
	for {
		copy(end, begin)
		end[last] = start[last] + runLen - 1
		rr := ds.reader(v.Name, begin, end)
		if rr == nil {
			return &ReadError{Variable: v.Name, Path: ds.path,
				Err: fmt.Errorf("no such variable")}
		}
		if _, err := rr.Read(r.buf[off : off+runLen]); err != nil {
			return &ReadError{Variable: v.Name, Path: ds.path, Err: err}
		}
		off += runLen

		// Advance the odometer over the outer dimensions.
		d := last - 1
		for ; d >= 0; d-- {
			begin[d]++
			if begin[d] < start[d]+count[d] {
				break
			}
			begin[d] = start[d]
		}
		if d < 0 {
			break
		}
	}
	return nil
}
