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

package shoreutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/shoreline"
	"github.com/spatialmodel/shoreline/encoding/dbf"
	"github.com/spatialmodel/shoreline/encoding/mshp"
	"github.com/spf13/cast"
)

const (
	// uncertaintySuffix is appended to a shoreline file name to get the
	// name of its uncertainty table.
	uncertaintySuffix = "_uncertainty"
	// explodedSuffix is appended to a shoreline file name to get the
	// name of its exploded output.
	explodedSuffix = "_zencode"
)

// ExplodeConfig holds the settings of the explode command.
type ExplodeConfig struct {
	// Inputs are shoreline shapefile paths, with or without the .shp
	// extension.
	Inputs []string

	// Slot is where the input point identifiers are stored.
	Slot mshp.Slot

	// OutputDir is the directory outputs are written to. If empty,
	// outputs are written next to their inputs.
	OutputDir string

	// TableEncoding is the character encoding of the uncertainty tables.
	TableEncoding string
}

// IntersectConfig holds the settings of the intersect command.
type IntersectConfig struct {
	Shorelines []string
	Slot       mshp.Slot
	Transects  string
	OutputFile string
	TableFile  string
	Policy     shoreline.Policy

	// MaxTransectLength is the longest piece transects are processed
	// in; zero means no limit.
	MaxTransectLength float64
}

// ExplodeConfigFromViper reads the explode settings from cfg. args are
// additional input paths.
func ExplodeConfigFromViper(cfg *viper.Viper, args []string) (*ExplodeConfig, error) {
	inputs, err := cast.ToStringSliceE(cfg.Get("Explode.Inputs"))
	if err != nil {
		return nil, fmt.Errorf("shoreline: invalid Explode.Inputs: %v", err)
	}
	ec := &ExplodeConfig{
		Inputs:        expandStringSlice(append(args, inputs...)),
		OutputDir:     os.ExpandEnv(cfg.GetString("Explode.OutputDir")),
		TableEncoding: cfg.GetString("Explode.TableEncoding"),
	}
	if ec.TableEncoding == "" {
		ec.TableEncoding = dbf.DefaultEncoding
	}
	if len(ec.Inputs) == 0 {
		return nil, fmt.Errorf("shoreline: no input shapefiles were specified")
	}
	if ec.Slot, err = mshp.ParseSlot(cfg.GetString("Explode.Measure")); err != nil {
		return nil, err
	}
	if ec.OutputDir != "" {
		if err := checkDir(ec.OutputDir); err != nil {
			return nil, err
		}
	}
	return ec, nil
}

// IntersectConfigFromViper reads the intersect settings from cfg.
func IntersectConfigFromViper(cfg *viper.Viper) (*IntersectConfig, error) {
	shorelines, err := cast.ToStringSliceE(cfg.Get("Intersect.Shorelines"))
	if err != nil {
		return nil, fmt.Errorf("shoreline: invalid Intersect.Shorelines: %v", err)
	}
	ic := &IntersectConfig{
		Shorelines:        expandStringSlice(shorelines),
		Transects:         os.ExpandEnv(cfg.GetString("Intersect.Transects")),
		TableFile:         os.ExpandEnv(cfg.GetString("Intersect.TableFile")),
		MaxTransectLength: cfg.GetFloat64("Intersect.MaxTransectLength"),
	}
	if len(ic.Shorelines) == 0 {
		return nil, fmt.Errorf("shoreline: no shoreline shapefiles were specified (Intersect.Shorelines)")
	}
	if ic.Transects == "" {
		return nil, fmt.Errorf("shoreline: no transect shapefile was specified (Intersect.Transects)")
	}
	if ic.MaxTransectLength < 0 {
		return nil, fmt.Errorf("shoreline: Intersect.MaxTransectLength must not be negative")
	}
	if ic.Slot, err = mshp.ParseSlot(cfg.GetString("Intersect.Measure")); err != nil {
		return nil, err
	}
	if cfg.GetBool("Intersect.Farthest") {
		ic.Policy = shoreline.Farthest
	}
	if ic.OutputFile, err = checkOutputFile(cfg.GetString("Intersect.OutputFile")); err != nil {
		return nil, err
	}
	if ic.TableFile != "" {
		if err := checkDir(filepath.Dir(ic.TableFile)); err != nil {
			return nil, err
		}
	}
	return ic, nil
}

// expandStringSlice expands the environment variables in a slice of strings
// and drops empty entries.
func expandStringSlice(s []string) []string {
	var o []string
	for _, v := range s {
		if v = strings.TrimSpace(os.ExpandEnv(v)); v != "" {
			o = append(o, v)
		}
	}
	return o
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expands any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`shoreline: you need to specify an output file (for example: OutputFile="intersections.shp")`)
	}
	f = os.ExpandEnv(f)
	if err := checkDir(filepath.Dir(f)); err != nil {
		return f, err
	}
	return f, nil
}

func checkDir(dir string) error {
	fi, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("shoreline: the output directory doesn't exist: %v", err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("shoreline: %s is not a directory", dir)
	}
	return nil
}

// shapefileBase removes the .shp extension from path, if present.
func shapefileBase(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".shp") {
		return strings.TrimSuffix(path, filepath.Ext(path))
	}
	return path
}

// UncertaintyTablePath returns the path of the uncertainty table that
// accompanies the shoreline shapefile at path.
func UncertaintyTablePath(path string) string {
	return shapefileBase(path) + uncertaintySuffix + ".dbf"
}

// ExplodedPath returns the path the exploded version of the shoreline
// shapefile at path is written to. If outputDir is empty the output is
// placed next to the input.
func ExplodedPath(path, outputDir string) string {
	base := shapefileBase(path)
	if outputDir != "" {
		base = filepath.Join(outputDir, filepath.Base(base))
	}
	return base + explodedSuffix + ".shp"
}
