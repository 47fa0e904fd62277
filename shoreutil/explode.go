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
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/shoreline"
	"github.com/spatialmodel/shoreline/encoding/dbf"
	"github.com/spatialmodel/shoreline/encoding/mshp"
	"github.com/spatialmodel/shoreline/internal/hash"
)

// Explode resolves the per-point uncertainty of the shoreline shapefile at
// path using its uncertainty table, whose text columns use encoding, and
// writes the result to ExplodedPath(path, outputDir). An empty encoding
// means dbf.DefaultEncoding.
func Explode(path string, slot mshp.Slot, outputDir, encoding string, log logrus.FieldLogger) (*shoreline.ExplodeResult, error) {
	out := ExplodedPath(path, outputDir)
	log = log.WithFields(logrus.Fields{
		"input":  shapefileBase(path) + ".shp",
		"output": out,
	})

	if encoding == "" {
		encoding = dbf.DefaultEncoding
	}
	t, err := dbf.OpenEncoding(UncertaintyTablePath(path), encoding)
	if err != nil {
		return nil, err
	}
	uncy, err := shoreline.BuildUncertaintyTable(t, log)
	t.Close()
	if err != nil {
		return nil, err
	}

	r, err := mshp.Open(path, slot, shoreline.Key)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	prj, err := r.Projection()
	if err != nil {
		return nil, err
	}

	e := &shoreline.Exploder{Log: log}
	return e.Explode(r, uncy, mshp.Factory(out, prj, log))
}

// ExplodeAll runs Explode on every input in cfg. It stops at the first
// failure; outputs already written are kept.
func ExplodeAll(cfg *ExplodeConfig, log logrus.FieldLogger) ([]*shoreline.ExplodeResult, error) {
	log = log.WithField("run", hash.Hash(cfg))
	results := make([]*shoreline.ExplodeResult, 0, len(cfg.Inputs))
	for _, in := range cfg.Inputs {
		res, err := Explode(in, cfg.Slot, cfg.OutputDir, cfg.TableEncoding, log)
		if err != nil {
			log.WithError(err).WithField("input", in).Error("explode failed")
			return results, err
		}
		log.WithFields(logrus.Fields{
			"input":           in,
			"shapes":          res.Shapes,
			"points":          res.Points,
			"min_uncertainty": res.Min,
			"max_uncertainty": res.Max,
			"mean":            res.Mean,
		}).Info("exploded shoreline")
		results = append(results, res)
	}
	return results, nil
}
