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

// Any failure below is fatal to the whole run: the benchmark's timings
// are only meaningful if every rank completes every file, so there is
// no retry and no partial-failure tolerance.

// An OpenError reports a dataset that could not be opened or is not a
// valid NetCDF file.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("ncread: opening dataset %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// An AxisNotFoundError reports that a configured longitude or latitude
// dimension name is absent from the dataset.
type AxisNotFoundError struct {
	Name string
	Path string
}

func (e *AxisNotFoundError) Error() string {
	return fmt.Sprintf("ncread: dimension %q not found in %s", e.Name, e.Path)
}

// An AccessError reports a failure to configure the access policy for a
// variable.
type AccessError struct {
	Variable string
	Mode     AccessMode
	Err      error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("ncread: setting %s access for variable %s: %v", e.Mode, e.Variable, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

// A ReadError reports a failed subdomain or halo read.
type ReadError struct {
	Variable string
	Path     string
	Err      error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("ncread: reading variable %s from %s: %v", e.Variable, e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }
