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
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/cdf"
)

// Test dataset layout shared across the package tests: a small global
// grid with one record axis and two data variables.
const (
	testTime = 2
	testLat  = 6
	testLon  = 8
)

var testDataVars = []string{"t2m", "sst"}

// testValue is the value stored at (t, lat, lon) in every data variable
// of a test dataset. The encoding makes each cell's coordinates
// recoverable from its value.
func testValue(t, lat, lon int) float32 {
	return float32(t*10000 + lat*100 + lon)
}

// writeTestFile creates a NetCDF file at dir/name with dimensions
// time/lat/lon, one coordinate variable per dimension, and the data
// variables in testDataVars filled with testValue.
func writeTestFile(t *testing.T, dir, name string) string {
	t.Helper()
	h := cdf.NewHeader([]string{"time", "lat", "lon"}, []int{testTime, testLat, testLon})
	h.AddVariable("time", []string{"time"}, []float32{0})
	h.AddVariable("lat", []string{"lat"}, []float32{0})
	h.AddVariable("lon", []string{"lon"}, []float32{0})
	for _, v := range testDataVars {
		h.AddVariable(v, []string{"time", "lat", "lon"}, []float32{0})
	}
	h.Define()

	path := filepath.Join(dir, name)
	ff, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer ff.Close()
	f, err := cdf.Create(ff, h)
	if err != nil {
		t.Fatal(err)
	}

	coords := func(n int) []float32 {
		c := make([]float32, n)
		for i := range c {
			c[i] = float32(i)
		}
		return c
	}
	writeVar(t, f, "time", coords(testTime))
	writeVar(t, f, "lat", coords(testLat))
	writeVar(t, f, "lon", coords(testLon))

	data := make([]float32, testTime*testLat*testLon)
	i := 0
	for tt := 0; tt < testTime; tt++ {
		for lat := 0; lat < testLat; lat++ {
			for lon := 0; lon < testLon; lon++ {
				data[i] = testValue(tt, lat, lon)
				i++
			}
		}
	}
	for _, v := range testDataVars {
		writeVar(t, f, v, data)
	}
	return path
}

// writeRecordTestFile creates a NetCDF file like writeTestFile but with
// time as the record (unlimited) dimension, holding testTime complete
// records of one data variable.
func writeRecordTestFile(t *testing.T, dir, name string) string {
	t.Helper()
	h := cdf.NewHeader([]string{"time", "lat", "lon"}, []int{0, testLat, testLon})
	h.AddVariable("lat", []string{"lat"}, []float32{0})
	h.AddVariable("lon", []string{"lon"}, []float32{0})
	h.AddVariable("t2m", []string{"time", "lat", "lon"}, []float32{0})
	h.Define()

	path := filepath.Join(dir, name)
	ff, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	f, err := cdf.Create(ff, h)
	if err != nil {
		t.Fatal(err)
	}

	coords := func(n int) []float32 {
		c := make([]float32, n)
		for i := range c {
			c[i] = float32(i)
		}
		return c
	}
	writeVar(t, f, "lat", coords(testLat))
	writeVar(t, f, "lon", coords(testLon))

	data := make([]float32, testTime*testLat*testLon)
	i := 0
	for tt := 0; tt < testTime; tt++ {
		for lat := 0; lat < testLat; lat++ {
			for lon := 0; lon < testLon; lon++ {
				data[i] = testValue(tt, lat, lon)
				i++
			}
		}
	}
	// A record variable grows the file as records are appended.
	if _, err := f.Writer("t2m", nil, nil).Write(data); err != nil {
		t.Fatal(err)
	}
	if err := cdf.UpdateNumRecs(ff); err != nil {
		t.Fatal(err)
	}
	if err := ff.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeVar(t *testing.T, f *cdf.File, name string, data []float32) {
	t.Helper()
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	if _, err := f.Writer(name, start, end).Write(data); err != nil {
		t.Fatal(err)
	}
}

func TestOpenDataset(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "test.nc")
	ds, err := OpenDataset(path)
	if err != nil {
		t.Fatal(err)
	}
	defer ds.Close()
	if ds.Path() != path {
		t.Errorf("path: got %q, want %q", ds.Path(), path)
	}

	wantDims := []Dimension{{"time", testTime}, {"lat", testLat}, {"lon", testLon}}
	dims := ds.Dimensions()
	if len(dims) != len(wantDims) {
		t.Fatalf("got %d dimensions, want %d", len(dims), len(wantDims))
	}
	for i, d := range dims {
		if d != wantDims[i] {
			t.Errorf("dimension %d: got %+v, want %+v", i, d, wantDims[i])
		}
	}

	nData := 0
	for _, v := range ds.Variables() {
		switch v.Name {
		case "time", "lat", "lon":
			if !v.IsDim {
				t.Errorf("variable %s should be marked as a dimension variable", v.Name)
			}
		case "t2m", "sst":
			nData++
			if v.IsDim {
				t.Errorf("variable %s should not be marked as a dimension variable", v.Name)
			}
		default:
			t.Errorf("unexpected variable %s", v.Name)
		}
	}
	if nData != len(testDataVars) {
		t.Errorf("got %d data variables, want %d", nData, len(testDataVars))
	}
}

// The header stores a record dimension with length zero; Dimensions
// must report the actual record count instead.
func TestDimensionsRecordDimension(t *testing.T) {
	path := writeRecordTestFile(t, t.TempDir(), "rec.nc")
	ds, err := OpenDataset(path)
	if err != nil {
		t.Fatal(err)
	}
	defer ds.Close()

	wantDims := []Dimension{{"time", testTime}, {"lat", testLat}, {"lon", testLon}}
	dims := ds.Dimensions()
	if len(dims) != len(wantDims) {
		t.Fatalf("got %d dimensions, want %d", len(dims), len(wantDims))
	}
	for i, d := range dims {
		if d != wantDims[i] {
			t.Errorf("dimension %d: got %+v, want %+v", i, d, wantDims[i])
		}
	}
}

func TestOpenDatasetMissing(t *testing.T) {
	_, err := OpenDataset(filepath.Join(t.TempDir(), "nope.nc"))
	var oe *OpenError
	if !errors.As(err, &oe) {
		t.Fatalf("got %v, want an OpenError", err)
	}
}

func TestFindAxes(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "test.nc")
	ds, err := OpenDataset(path)
	if err != nil {
		t.Fatal(err)
	}
	defer ds.Close()

	axes, err := ds.FindAxes("lon", "lat")
	if err != nil {
		t.Fatal(err)
	}
	if axes.Lon != 2 || axes.Lat != 1 {
		t.Errorf("got lon=%d lat=%d, want lon=2 lat=1", axes.Lon, axes.Lat)
	}

	_, err = ds.FindAxes("longitude", "lat")
	var ae *AxisNotFoundError
	if !errors.As(err, &ae) {
		t.Fatalf("got %v, want an AxisNotFoundError", err)
	}
	if ae.Name != "longitude" {
		t.Errorf("got axis name %q, want %q", ae.Name, "longitude")
	}
}

func TestSetAccess(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "test.nc")
	ds, err := OpenDataset(path)
	if err != nil {
		t.Fatal(err)
	}
	defer ds.Close()

	if err := ds.SetAccess("t2m", Independent); err != nil {
		t.Fatal(err)
	}
	if got := ds.Access("t2m"); got != Independent {
		t.Errorf("got %v, want %v", got, Independent)
	}
	if got := ds.Access("sst"); got != Collective {
		t.Errorf("unconfigured variable: got %v, want %v", got, Collective)
	}

	err = ds.SetAccess("missing", Collective)
	var ae *AccessError
	if !errors.As(err, &ae) {
		t.Fatalf("got %v, want an AccessError", err)
	}
}
