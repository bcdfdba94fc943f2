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
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spatialbench/ncread/comm"
)

// A Benchmark describes one run: the files to sweep, the process grid,
// the halo width, the access policy, and the names of the two grid
// axes.
type Benchmark struct {
	Files  []string
	Grid   ProcessGrid
	Halo   int
	Access AccessMode
	// LonDim and LatDim name the periodic and non-periodic axes.
	LonDim, LatDim string

	Log *logrus.Logger
}

// A Plan is the fixed per-run metadata derived from the first file:
// the dimension layout, the variable catalog, and the resolved axes.
// Every file in the run is assumed to share this layout; there is no
// per-file re-validation.
type Plan struct {
	Dims []Dimension
	Vars []Variable
	Axes Axes
}

// DataVarCount returns the number of non-dimension variables; only
// these are read and timed.
func (p *Plan) DataVarCount() int {
	n := 0
	for _, v := range p.Vars {
		if !v.IsDim {
			n++
		}
	}
	return n
}

// SweepBytes returns the full-sweep reference size for this layout.
func (p *Plan) SweepBytes() int64 {
	return SweepBytes(p.Dims, p.DataVarCount())
}

// Plan opens the first file of the run and derives the run plan from
// its metadata.
func (b *Benchmark) Plan() (*Plan, error) {
	if len(b.Files) == 0 {
		return nil, errors.New("ncread: no input files")
	}
	ds, err := OpenDataset(b.Files[0])
	if err != nil {
		return nil, err
	}
	defer ds.Close()
	axes, err := ds.FindAxes(b.LonDim, b.LatDim)
	if err != nil {
		return nil, err
	}
	return &Plan{
		Dims: ds.Dimensions(),
		Vars: ds.Variables(),
		Axes: axes,
	}, nil
}

// Run executes the benchmark on the given rank group and returns the
// gathered timing table. Each rank runs the per-file state machine
// Open → ConfigureAccess → TimedReadPhase → Close → Barrier over the
// file list, then contributes its timings to a gather at rank 0. The
// first rank error aborts the whole group: the remaining ranks unblock
// from their collectives with that error, and Run returns it.
func (b *Benchmark) Run(ctx context.Context, group *comm.Group, pl *Plan) (*TimingTable, error) {
	log := b.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	var (
		wg    sync.WaitGroup
		table *TimingTable
	)
	for i := 0; i < group.Size(); i++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			t, err := b.runRank(ctx, group.Rank(rank), pl, log)
			if err != nil {
				group.Abort(err)
				return
			}
			if rank == 0 {
				table = t
			}
		}(i)
	}
	wg.Wait()
	if err := group.Err(); err != nil {
		return nil, err
	}
	return table, nil
}

// runRank is the body executed by every rank. Rank 0 returns the
// gathered table; all other ranks return nil.
func (b *Benchmark) runRank(ctx context.Context, c *comm.Comm, pl *Plan, log *logrus.Logger) (*TimingTable, error) {
	col, row := b.Grid.Position(c.Rank())
	lonLen := pl.Dims[pl.Axes.Lon].Length
	latLen := pl.Dims[pl.Axes.Lat].Length
	sub := Decompose(lonLen, latLen, b.Grid, col, row, b.Halo)
	if sub.LatCount() < 1 || sub.LonCount() < 1 {
		return nil, fmt.Errorf("ncread: rank %d owns no grid cells: process grid %v is too large for the %dx%d global grid",
			c.Rank(), b.Grid, lonLen, latLen)
	}
	hs := PlanHalo(b.Grid, lonLen, col, b.Halo)
	log.WithFields(logrus.Fields{
		"rank":     c.Rank(),
		"lat":      [2]int{sub.LatStart, sub.LatEnd},
		"lon":      [2]int{sub.LonStart, sub.LonEnd},
		"periodic": hs.Periodic,
	}).Info("subdomain assigned")

	rdr := NewSubdomainReader(pl.Dims, pl.Axes, sub, hs)
	times := make([]float64, len(b.Files))
	for i, path := range b.Files {
		elapsed, err := b.runFile(ctx, c, pl, rdr, path)
		if err != nil {
			return nil, err
		}
		times[i] = elapsed
	}

	rows, err := c.Gather(ctx, 0, times)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		return nil, nil
	}
	return NewTimingTable(rows), nil
}

// runFile runs the per-file state machine for one rank and returns the
// elapsed seconds of the timed read phase.
func (b *Benchmark) runFile(ctx context.Context, c *comm.Comm, pl *Plan, rdr *SubdomainReader, path string) (float64, error) {
	ds, err := OpenDataset(path)
	if err != nil {
		return 0, err
	}
	elapsed, err := b.timedPhase(ctx, c, pl, rdr, ds)
	if err != nil {
		ds.Close()
		return 0, err
	}
	if err := ds.Close(); err != nil {
		return 0, err
	}
	// No rank starts the next file while another is still reading;
	// this keeps per-file timings comparable under shared-storage
	// contention.
	if err := c.Barrier(ctx); err != nil {
		return 0, err
	}
	return elapsed, nil
}

// timedPhase performs the collective-open agreement, configures the
// access policy, and times the variable sweep for one open file.
func (b *Benchmark) timedPhase(ctx context.Context, c *comm.Comm, pl *Plan, rdr *SubdomainReader, ds *Dataset) (float64, error) {
	// Every rank must reach this point with its own handle on the file
	// open before any read begins; the barrier gives the group
	// agreement on the file lifecycle that a parallel access
	// discipline requires.
	if err := c.Barrier(ctx); err != nil {
		return 0, err
	}

	// ConfigureAccess for every data variable.
	for _, v := range pl.Vars {
		if v.IsDim {
			continue
		}
		if err := ds.SetAccess(v.Name, b.Access); err != nil {
			return 0, err
		}
	}

	// TimedReadPhase: visit variables in catalog order, skipping
	// dimension variables entirely.
	start := time.Now()
	for _, v := range pl.Vars {
		if v.IsDim {
			continue
		}
		if b.Access == Collective {
			// Collective access: all ranks read each variable in
			// lockstep.
			if err := c.Barrier(ctx); err != nil {
				return 0, err
			}
		}
		if err := rdr.ReadSubdomain(ds, v); err != nil {
			return 0, err
		}
	}
	return time.Since(start).Seconds(), nil
}
