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

// Package ncread benchmarks parallel read throughput of gridded NetCDF
// datasets decomposed across a fixed 2D grid of worker ranks. Each rank
// owns a rectangular longitude/latitude subdomain, optionally extended
// by a halo border with periodic wrap-around at the longitude boundary,
// and repeatedly reads its subdomain from a sequence of files while
// recording per-file elapsed time.
package ncread

import "fmt"

// ProcessGrid describes the decomposition of the global grid across
// worker ranks: NX columns along the longitude axis and NY rows along
// the latitude axis. NX×NY must equal the number of workers.
type ProcessGrid struct {
	NX, NY int
}

// Size returns the number of ranks the grid requires.
func (g ProcessGrid) Size() int { return g.NX * g.NY }

// Position returns the column and row of the given rank. Ranks are
// numbered row-major: column varies fastest.
func (g ProcessGrid) Position(rank int) (col, row int) {
	return rank % g.NX, rank / g.NX
}

func (g ProcessGrid) String() string { return fmt.Sprintf("%dx%d", g.NX, g.NY) }

// A Subdomain is the rectangular index range of the global grid owned
// by one rank. Bounds are inclusive on both ends.
type Subdomain struct {
	LatStart, LatEnd int
	LonStart, LonEnd int
}

// LatCount returns the number of latitude rows in the subdomain.
func (s Subdomain) LatCount() int { return s.LatEnd - s.LatStart + 1 }

// LonCount returns the number of longitude columns in the subdomain,
// including any halo extensions.
func (s Subdomain) LonCount() int { return s.LonEnd - s.LonStart + 1 }

func (s Subdomain) String() string {
	return fmt.Sprintf("lat[%d:%d], lon[%d:%d]", s.LatStart, s.LatEnd, s.LonStart, s.LonEnd)
}

// A HaloSpec describes the halo configuration of one rank. A rank on an
// edge column of the process grid has no neighbor to extend its halo
// into; instead it reads a wrap-around segment from the opposite edge
// of the globally periodic longitude axis.
type HaloSpec struct {
	// Width is the effective halo width in grid cells.
	Width int
	// Periodic reports whether this rank owns a periodic wrap segment.
	Periodic bool
	// SourceStart and SourceLen locate the wrap segment on the global
	// longitude axis. Only meaningful when Periodic is true.
	SourceStart, SourceLen int
}

// effectiveHalo forces the halo to zero for a 1×1 process grid, which
// has no neighbors to halo against. This is a policy decision kept as
// an explicit branch.
func effectiveHalo(grid ProcessGrid, halo int) int {
	if grid.NX == 1 && grid.NY == 1 {
		return 0
	}
	return halo
}

// Decompose computes the subdomain owned by the rank at (col, row) of
// the process grid, for a global grid with the given longitude and
// latitude extents. Tile sizes are globalLon/grid.NX by
// globalLat/grid.NY using integer division; any remainder cells are
// dropped from the decomposition (no rank absorbs them). The halo
// extends the subdomain along the longitude axis only; the extension is
// retracted on an edge column, where the missing neighbor is served
// periodically instead (see PlanHalo). Latitude bounds never receive a
// halo.
func Decompose(globalLon, globalLat int, grid ProcessGrid, col, row, halo int) Subdomain {
	halo = effectiveHalo(grid, halo)
	subLon := globalLon / grid.NX
	subLat := globalLat / grid.NY
	s := Subdomain{
		LatStart: row * subLat,
		LatEnd:   row*subLat + subLat - 1,
		LonStart: col*subLon - halo,
		LonEnd:   col*subLon + subLon - 1 + halo,
	}
	if col == 0 {
		s.LonStart += halo
	}
	if col == grid.NX-1 {
		s.LonEnd -= halo
	}
	return s
}

// PlanHalo determines whether the rank in the given column owns a
// periodic wrap segment and, if so, where that segment lives on the
// global longitude axis. The leftmost column wraps to the last halo
// columns of the grid; the rightmost column wraps to the first halo
// columns. A 1×1 process grid never owns a periodic halo because its
// halo is forced to zero.
func PlanHalo(grid ProcessGrid, globalLon, col, halo int) HaloSpec {
	halo = effectiveHalo(grid, halo)
	hs := HaloSpec{Width: halo}
	if halo <= 0 || grid.NX <= 1 {
		return hs
	}
	switch col {
	case 0:
		hs.Periodic = true
		hs.SourceStart = globalLon - halo
		hs.SourceLen = halo
	case grid.NX - 1:
		hs.Periodic = true
		hs.SourceStart = 0
		hs.SourceLen = halo
	}
	return hs
}
