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
	"io"

	"github.com/GaryBoone/GoStats/stats"
	"github.com/ctessum/sparse"
)

// A TimingTable holds the gathered per-file elapsed times of every
// rank, indexed [rank][file]. It is built once from the gather at the
// coordinator and never mutated afterwards.
type TimingTable struct {
	times *sparse.DenseArray
}

// NewTimingTable builds a table from gathered rows in rank order. Every
// row must have one entry per file in file-processing order.
func NewTimingTable(rows [][]float64) *TimingTable {
	nranks := len(rows)
	nfiles := 0
	if nranks > 0 {
		nfiles = len(rows[0])
	}
	t := &TimingTable{times: sparse.ZerosDense(nranks, nfiles)}
	for r, row := range rows {
		for f, v := range row {
			t.times.Set(v, r, f)
		}
	}
	return t
}

// Ranks returns the number of ranks in the table.
func (t *TimingTable) Ranks() int { return t.times.Shape[0] }

// Files returns the number of files in the table.
func (t *TimingTable) Files() int { return t.times.Shape[1] }

// Get returns the elapsed seconds rank spent reading file.
func (t *TimingTable) Get(rank, file int) float64 { return t.times.Get(rank, file) }

// MaxAcrossRanks returns the slowest rank's time for the given file.
// The slowest rank bounds the file's effective read time, since no rank
// proceeds past the post-file barrier before it finishes.
func (t *TimingTable) MaxAcrossRanks(file int) float64 {
	max := t.times.Get(0, file)
	for r := 1; r < t.Ranks(); r++ {
		if v := t.times.Get(r, file); v > max {
			max = v
		}
	}
	return max
}

// SweepBytes returns the uncompressed size in bytes of one full
// variable sweep: every data variable over the full extent of every
// global dimension, at 4 bytes per element. This is the whole-file
// reference size used for throughput reporting; it does not depend on
// the process-grid shape or any rank's subdomain size.
func SweepBytes(dims []Dimension, dataVars int) int64 {
	n := int64(4) * int64(dataVars)
	for _, d := range dims {
		n *= int64(d.Length)
	}
	return n
}

// Report writes the per-rank timing lines preceded by the reference
// file size, in the format consumed by downstream log parsers.
func (t *TimingTable) Report(w io.Writer, sweepBytes int64) {
	fmt.Fprintf(w, "filesize=%f MB\n", float64(sweepBytes)/1e6)
	for r := 0; r < t.Ranks(); r++ {
		fmt.Fprintf(w, "rank=%d ; times=", r)
		for f := 0; f < t.Files(); f++ {
			if f > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, "%.6f", t.Get(r, f))
		}
		fmt.Fprintln(w)
	}
}

// A Summary condenses a timing table: for each file, the maximum time
// across ranks is taken, and the summary statistics are computed over
// those per-file maxima.
type Summary struct {
	Mean, Std, Min, Max float64
	// Speed is the effective read throughput in MB/s, relative to the
	// full-sweep file size.
	Speed float64
}

// Summarize computes summary statistics over the per-file maxima.
func (t *TimingTable) Summarize(sweepBytes int64) Summary {
	maxes := make([]float64, t.Files())
	for f := range maxes {
		maxes[f] = t.MaxAcrossRanks(f)
	}
	s := Summary{
		Mean: stats.StatsMean(maxes),
		Std:  stats.StatsPopulationStandardDeviation(maxes),
		Min:  stats.StatsMin(maxes),
		Max:  stats.StatsMax(maxes),
	}
	if s.Mean > 0 {
		s.Speed = float64(sweepBytes) / 1e6 / s.Mean
	}
	return s
}

// Fprint writes the summary in a single line.
func (s Summary) Fprint(w io.Writer) {
	fmt.Fprintf(w, "per-file max time: mean=%.6f std=%.6f min=%.6f max=%.6f ; speed=%.2f MB/s\n",
		s.Mean, s.Std, s.Min, s.Max, s.Speed)
}
