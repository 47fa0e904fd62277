/*
Copyright © 2026 the Shoreline authors.
This file is part of Shoreline.

Shoreline is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Shoreline is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Shoreline.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package shoreutil contains the command-line interface and configuration
// handling for the shoreline tools.
package shoreutil

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/shoreline"
	"github.com/spatialmodel/shoreline/encoding/dbf"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information and the commands that use it.
type Cfg struct {
	*viper.Viper

	Root, versionCmd, explodeCmd, intersectCmd, configCmd *cobra.Command

	// Log is the logger used by the commands. It is configured from
	// the LogLevel and LogFile options before each command runs.
	Log *logrus.Logger

	logFile io.Closer
	options []option
}

type option struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

// InitializeConfig creates a new configuration with its commands and
// flags.
func InitializeConfig() *Cfg {
	cfg := &Cfg{
		Viper: viper.New(),
		Log:   logrus.New(),
	}
	cfg.Log.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	}

	cfg.Root = &cobra.Command{
		Use:   "shoreline",
		Short: "Shoreline uncertainty and change measurement tools.",
		Long: `shoreline resolves the per-point uncertainty of shoreline vertices and
measures shoreline change along transects.
Use the subcommands specified below to access the functionality.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'SHORELINE_var' where 'var' is the
name of the variable to be set. Many configuration variables are additionally
allowed to contain environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if err := cfg.setConfig(); err != nil {
				return err
			}
			return cfg.setLogging()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if cfg.logFile != nil {
				cfg.logFile.Close()
				cfg.logFile = nil
			}
		},
	}

	cfg.versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Long:  "version prints the version number of this version of shoreline.",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("shoreline v%s\n", shoreline.Version)
		},
		DisableAutoGenTag: true,
	}

	cfg.explodeCmd = &cobra.Command{
		Use:   "explode [shapefile...]",
		Short: "Write per-point uncertainty onto shoreline vertices.",
		Long: `explode reads each shoreline shapefile (given with or without the .shp
extension) together with its uncertainty table, which must be named
<name>_uncertainty.dbf, and writes <name>_zencode.shp where every vertex
carries its resolved uncertainty in the Z coordinate. The vertex measures of
the input are point identifiers that are looked up in the uncertainty table
together with the surveyID attribute of the shoreline; vertices whose point
is not in the table get the uncy attribute of the shoreline.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ec, err := ExplodeConfigFromViper(cfg.Viper, args)
			if err != nil {
				return err
			}
			_, err = ExplodeAll(ec, cfg.Log)
			return err
		},
		DisableAutoGenTag: true,
	}

	cfg.intersectCmd = &cobra.Command{
		Use:   "intersect",
		Short: "Intersect transects with shorelines.",
		Long: `intersect calculates where each transect crosses the shorelines of each
date, keeping the closest (or farthest) crossing per date, and writes the
intersection points with their distance along the transect and their
interpolated uncertainty.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ic, err := IntersectConfigFromViper(cfg.Viper)
			if err != nil {
				return err
			}
			_, err = Intersect(ic, cfg.Log)
			return err
		},
		DisableAutoGenTag: true,
	}

	cfg.configCmd = &cobra.Command{
		Use:   "config",
		Short: "Print the configuration.",
		Long: `config prints the current configuration in TOML format. The output
can be used as a starting point for a configuration file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cfg.WriteTOML(cmd.OutOrStdout())
		},
		DisableAutoGenTag: true,
	}

	cfg.Root.AddCommand(cfg.versionCmd, cfg.explodeCmd, cfg.intersectCmd, cfg.configCmd)

	// Options are the configuration options available to shoreline.
	cfg.options = []option{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel specifies the minimum severity of log messages:
              one of debug, info, warn or error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile specifies a file that log messages are written to
              in addition to standard error. It may contain environment
              variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name: "Explode.Inputs",
			usage: `
              Explode.Inputs lists shoreline shapefiles to process in
              addition to any given as arguments. The paths may contain
              environment variables.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{cfg.explodeCmd.Flags()},
		},
		{
			name: "Explode.Measure",
			usage: `
              Explode.Measure specifies where the point identifiers of the
              input vertices are stored: "m" for the measure coordinate or
              "z" for the elevation coordinate.`,
			shorthand:  "m",
			defaultVal: "m",
			flagsets:   []*pflag.FlagSet{cfg.explodeCmd.Flags()},
		},
		{
			name: "Explode.OutputDir",
			usage: `
              Explode.OutputDir specifies the directory the exploded
              shapefiles are written to. By default each is written next to
              its input.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.explodeCmd.Flags()},
		},
		{
			name: "Explode.TableEncoding",
			usage: `
              Explode.TableEncoding specifies the character encoding of the
              text columns in the uncertainty tables, for example
              "ISO-8859-1".`,
			defaultVal: dbf.DefaultEncoding,
			flagsets:   []*pflag.FlagSet{cfg.explodeCmd.Flags()},
		},
		{
			name: "Intersect.Shorelines",
			usage: `
              Intersect.Shorelines lists the shoreline shapefiles to intersect.
              The paths may contain environment variables.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{cfg.intersectCmd.Flags()},
		},
		{
			name: "Intersect.Measure",
			usage: `
              Intersect.Measure specifies where the resolved uncertainty of the
              shoreline vertices is stored: "z" for the elevation coordinate
              (as written by the explode command) or "m" for the measure
              coordinate.`,
			defaultVal: "z",
			flagsets:   []*pflag.FlagSet{cfg.intersectCmd.Flags()},
		},
		{
			name: "Intersect.Transects",
			usage: `
              Intersect.Transects specifies the transect shapefile. Each
              transect must have a TransectID attribute and may have an Orient
              attribute, which is "seaward" or "shoreward".`,
			shorthand:  "t",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.intersectCmd.Flags()},
		},
		{
			name: "Intersect.OutputFile",
			usage: `
              Intersect.OutputFile specifies the path of the intersection
              shapefile to write.`,
			shorthand:  "o",
			defaultVal: "intersections.shp",
			flagsets:   []*pflag.FlagSet{cfg.intersectCmd.Flags()},
		},
		{
			name: "Intersect.TableFile",
			usage: `
              Intersect.TableFile optionally specifies a tab-separated file
              that the date, distance and uncertainty of every intersection
              are written to, grouped by transect.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.intersectCmd.Flags()},
		},
		{
			name: "Intersect.Farthest",
			usage: `
              Intersect.Farthest specifies that the intersection farthest from
              the transect origin is kept for each shoreline date instead of
              the closest one.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{cfg.intersectCmd.Flags()},
		},
		{
			name: "Intersect.MaxTransectLength",
			usage: `
              Intersect.MaxTransectLength specifies the maximum length of the
              pieces transects are processed in, in the units of the shoreline
              projection. Zero means transects are processed whole.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{cfg.intersectCmd.Flags()},
		},
	}

	// Set the prefix for configuration environment variables.
	cfg.SetEnvPrefix("SHORELINE")
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	for _, option := range cfg.options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case []string:
				set.StringSliceP(option.name, option.shorthand, v, option.usage)
			case bool:
				set.BoolP(option.name, option.shorthand, v, option.usage)
			case int:
				set.IntP(option.name, option.shorthand, v, option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, v, option.usage)
			default:
				panic("invalid argument type")
			}
			cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
	return cfg
}

// setConfig finds and reads in the configuration file, if there is one.
func (cfg *Cfg) setConfig() error {
	if cfgpath := cfg.GetString("config"); cfgpath != "" {
		cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("shoreline: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// setLogging configures cfg.Log from the LogLevel and LogFile options.
func (cfg *Cfg) setLogging() error {
	level, err := logrus.ParseLevel(cfg.GetString("LogLevel"))
	if err != nil {
		return fmt.Errorf("shoreline: invalid LogLevel: %v", err)
	}
	cfg.Log.Level = level
	if logFile := os.ExpandEnv(cfg.GetString("LogFile")); logFile != "" {
		f, err := os.Create(logFile)
		if err != nil {
			return fmt.Errorf("shoreline: creating log file: %v", err)
		}
		cfg.logFile = f
		cfg.Log.Out = io.MultiWriter(os.Stderr, f)
	}
	return nil
}

// WriteTOML writes the current value of every option except "config" to w
// as a TOML document.
func (cfg *Cfg) WriteTOML(w io.Writer) error {
	doc := make(map[string]interface{})
	for _, o := range cfg.options {
		if o.name == "config" {
			continue
		}
		var v interface{}
		switch o.defaultVal.(type) {
		case string:
			v = cfg.GetString(o.name)
		case []string:
			v = cfg.GetStringSlice(o.name)
		case bool:
			v = cfg.GetBool(o.name)
		case int:
			v = cfg.GetInt(o.name)
		case float64:
			v = cfg.GetFloat64(o.name)
		}
		// Dotted option names become TOML tables.
		m := doc
		parts := strings.Split(o.name, ".")
		for _, p := range parts[:len(parts)-1] {
			sub, ok := m[p].(map[string]interface{})
			if !ok {
				sub = make(map[string]interface{})
				m[p] = sub
			}
			m = sub
		}
		m[parts[len(parts)-1]] = v
	}
	return toml.NewEncoder(w).Encode(doc)
}
