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

package ncreadutil

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/spatialbench/ncread"
	"github.com/spatialbench/ncread/comm"
)

// Run executes one benchmark run: it derives the run plan from the
// first file, echoes the configuration, sweeps every file with a group
// of worker ranks, and writes the timing report and summary to w.
func Run(ctx context.Context, w io.Writer, cfg *Config, log *logrus.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	grid := cfg.Grid()
	halo := cfg.Halo
	if grid.Size() == 1 && halo > 0 {
		fmt.Fprintln(w, "Warning: 1x1 domain decomposition detected, forcing halo=0")
		halo = 0
	}

	fmt.Fprintf(w, "Halo size: %d\n", halo)
	fmt.Fprintf(w, "Process grid: %v\n", grid)
	if cfg.Independent {
		fmt.Fprintln(w, "Use independent access: yes")
	} else {
		fmt.Fprintln(w, "Use independent access: no")
	}
	fmt.Fprintf(w, "Number of files: %d\n", len(cfg.Files))

	b := &ncread.Benchmark{
		Files:  cfg.Files,
		Grid:   grid,
		Halo:   halo,
		Access: cfg.AccessMode(),
		LonDim: cfg.LonDim,
		LatDim: cfg.LatDim,
		Log:    log,
	}
	pl, err := b.Plan()
	if err != nil {
		return abort(log, err)
	}
	echoPlan(w, cfg, pl)

	group, err := comm.NewGroup(cfg.Workers)
	if err != nil {
		return abort(log, err)
	}
	fmt.Fprintf(w, "Processing %d files with %d ranks (%v decomposition, halo=%d)\n",
		len(cfg.Files), group.Size(), grid, halo)

	table, err := b.Run(ctx, group, pl)
	if err != nil {
		return abort(log, err)
	}

	table.Report(w, pl.SweepBytes())
	table.Summarize(pl.SweepBytes()).Fprint(w)
	return nil
}

// echoPlan writes the dimension and variable layout derived from the
// run's first file.
func echoPlan(w io.Writer, cfg *Config, pl *ncread.Plan) {
	for i, d := range pl.Dims {
		fmt.Fprintf(w, "  Dimension %d: name='%s', length=%d\n", i, d.Name, d.Length)
	}
	fmt.Fprintf(w, "Found lon dimension at index %d\n", pl.Axes.Lon)
	fmt.Fprintf(w, "Found lat dimension at index %d\n", pl.Axes.Lat)
	fmt.Fprintf(w, "First file contains %d dimensions and %d variables (+ %d dimension variables)\n",
		len(pl.Dims), pl.DataVarCount(), len(pl.Vars)-pl.DataVarCount())
}

// abort logs a fatal run error and gives buffered log output a moment
// to drain before the process exits with a failure status.
func abort(log *logrus.Logger, err error) error {
	log.Error(err)
	os.Stdout.Sync()
	time.Sleep(100 * time.Millisecond)
	return err
}
