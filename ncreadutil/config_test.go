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
	"errors"
	"testing"

	"github.com/spatialbench/ncread"
)

func TestParseArgs(t *testing.T) {
	cfg, err := ParseArgs([]string{"2", "2", "1", "0", "longitude", "latitude", "a.nc", "b.nc"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Halo != 2 || cfg.NX != 2 || cfg.NY != 1 {
		t.Errorf("got halo=%d grid=%dx%d, want halo=2 grid=2x1", cfg.Halo, cfg.NX, cfg.NY)
	}
	if cfg.Independent {
		t.Error("use_independent=0 should select collective access")
	}
	if cfg.LonDim != "longitude" || cfg.LatDim != "latitude" {
		t.Errorf("got axes %q/%q", cfg.LonDim, cfg.LatDim)
	}
	if len(cfg.Files) != 2 || cfg.Files[0] != "a.nc" || cfg.Files[1] != "b.nc" {
		t.Errorf("got files %v", cfg.Files)
	}

	cfg, err = ParseArgs([]string{"0", "1", "1", "1", "lon", "lat", "a.nc"})
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Independent {
		t.Error("use_independent=1 should select independent access")
	}
	if cfg.AccessMode() != ncread.Independent {
		t.Errorf("got %v, want %v", cfg.AccessMode(), ncread.Independent)
	}
}

func TestParseArgsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"too few arguments", []string{"2", "2", "1", "0", "lon", "lat"}},
		{"non-numeric halo", []string{"two", "2", "1", "0", "lon", "lat", "a.nc"}},
		{"non-numeric grid extent", []string{"2", "x", "1", "0", "lon", "lat", "a.nc"}},
		{"non-numeric access flag", []string{"2", "2", "1", "maybe", "lon", "lat", "a.nc"}},
	}
	for _, test := range tests {
		_, err := ParseArgs(test.args)
		var ce *ConfigError
		if !errors.As(err, &ce) {
			t.Errorf("%s: got %v, want a ConfigError", test.name, err)
		}
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{Halo: 1, NX: 2, NY: 3, LonDim: "lon", LatDim: "lat", Files: []string{"a.nc"}}
	}

	cfg := base()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.Workers != 6 {
		t.Errorf("default workers: got %d, want 6", cfg.Workers)
	}

	cfg = base()
	cfg.Workers = 6
	if err := cfg.Validate(); err != nil {
		t.Errorf("matching worker count: got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative halo", func(c *Config) { c.Halo = -1 }},
		{"zero grid extent", func(c *Config) { c.NX = 0 }},
		{"worker count mismatch", func(c *Config) { c.Workers = 4 }},
		{"no files", func(c *Config) { c.Files = nil }},
	}
	for _, test := range tests {
		cfg := base()
		test.mutate(cfg)
		err := cfg.Validate()
		var ce *ConfigError
		if !errors.As(err, &ce) {
			t.Errorf("%s: got %v, want a ConfigError", test.name, err)
		}
	}
}
