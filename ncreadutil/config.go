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
	"fmt"

	"github.com/spf13/cast"

	"github.com/spatialbench/ncread"
)

// A ConfigError reports an invalid run configuration. Configuration
// errors are detected before any dataset is opened.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return "ncread: " + e.Msg }

// Config holds one benchmark run's configuration.
type Config struct {
	Halo        int
	NX, NY      int
	Independent bool
	LonDim      string
	LatDim      string
	Files       []string
	// Workers is the worker count; zero means NX×NY.
	Workers int
}

// ParseArgs builds a Config from the positional command line
// arguments:
//
//	<halo> <nproc_x> <nproc_y> <use_independent> <lon_dim_name> <lat_dim_name> <file1> [file2 ...]
func ParseArgs(args []string) (*Config, error) {
	if len(args) < 7 {
		return nil, &ConfigError{Msg: fmt.Sprintf("expected at least 7 arguments, got %d", len(args))}
	}
	c := new(Config)
	for _, a := range []struct {
		dst  *int
		name string
		val  string
	}{
		{&c.Halo, "halo", args[0]},
		{&c.NX, "nproc_x", args[1]},
		{&c.NY, "nproc_y", args[2]},
	} {
		v, err := cast.ToIntE(a.val)
		if err != nil {
			return nil, &ConfigError{Msg: fmt.Sprintf("invalid %s %q", a.name, a.val)}
		}
		*a.dst = v
	}
	ind, err := cast.ToIntE(args[3])
	if err != nil {
		return nil, &ConfigError{Msg: fmt.Sprintf("invalid use_independent %q", args[3])}
	}
	c.Independent = ind != 0
	c.LonDim = args[4]
	c.LatDim = args[5]
	c.Files = args[6:]
	return c, nil
}

// Validate checks the configuration and resolves the worker count. A
// worker count that does not match the process grid is fatal, matching
// the group-wide agreement a fixed-size decomposition requires.
func (c *Config) Validate() error {
	if c.Halo < 0 {
		return &ConfigError{Msg: fmt.Sprintf("halo must be non-negative, got %d", c.Halo)}
	}
	if c.NX < 1 || c.NY < 1 {
		return &ConfigError{Msg: fmt.Sprintf("process grid %dx%d is invalid", c.NX, c.NY)}
	}
	if c.Workers == 0 {
		c.Workers = c.NX * c.NY
	}
	if c.Workers != c.NX*c.NY {
		return &ConfigError{Msg: "nprocs != nproc_x * nproc_y"}
	}
	if len(c.Files) == 0 {
		return &ConfigError{Msg: "no input files"}
	}
	return nil
}

// AccessMode returns the run-wide access policy.
func (c *Config) AccessMode() ncread.AccessMode {
	if c.Independent {
		return ncread.Independent
	}
	return ncread.Collective
}

// Grid returns the process grid.
func (c *Config) Grid() ncread.ProcessGrid {
	return ncread.ProcessGrid{NX: c.NX, NY: c.NY}
}
