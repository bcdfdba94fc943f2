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

// Package ncreadutil holds the command-line interface of the ncread
// benchmark.
package ncreadutil

import (
	"fmt"
	"io"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/spatialbench/ncread"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to ncread.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "workers",
			usage: `
              workers specifies the number of worker ranks to run. The
              default of 0 means nproc_x * nproc_y; any other value must
              match that product exactly.`,
			shorthand:  "n",
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{Root.Flags()},
		},
		{
			name: "log_level",
			usage: `
              log_level sets the diagnostic logging level. Valid options
              are "debug", "info", "warn", and "error".`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("NCREAD")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	Root.AddCommand(versionCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("ncread: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "ncread [flags] halo nproc_x nproc_y use_independent lon_dim_name lat_dim_name file [file...]",
	Short: "A parallel read benchmark for gridded NetCDF datasets.",
	Long: `ncread sweeps every data variable of a list of NetCDF files with a
group of worker ranks arranged in an nproc_x by nproc_y grid. Each rank
reads its own subdomain of the global longitude/latitude grid, widened
by a halo on the longitude axis with periodic wrap-around at the grid
edges, and the per-file read times of all ranks are gathered and
reported.

use_independent selects the access policy for the data variables: 0 for
collective access, where all ranks read each variable in lockstep, and
any other value for independent access.

Configuration can be changed by using a configuration file (and providing
the path to the file using the --config flag), by using command-line
arguments, or by setting environment variables in the format 'NCREAD_var'
where 'var' is the name of the variable to be set.`,
	Args:              cobra.MinimumNArgs(7),
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := ParseArgs(args)
		if err != nil {
			return err
		}
		cfg.Workers = Cfg.GetInt("workers")
		if err := cfg.Validate(); err != nil {
			return err
		}
		log, err := newLogger(Cfg.GetString("log_level"), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		return Run(cmd.Context(), cmd.OutOrStdout(), cfg, log)
	},
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of ncread.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("ncread v%s\n", ncread.Version)
	},
	DisableAutoGenTag: true,
}

// newLogger builds the diagnostic logger. Diagnostics go to w; the
// benchmark report itself is written separately and is not affected by
// the logging level.
func newLogger(level string, w io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("ncread: invalid log level %q", level)
	}
	log := logrus.New()
	log.SetLevel(lvl)
	log.SetOutput(w)
	return log, nil
}
