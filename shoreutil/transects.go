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

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/ctessum/geom/proj"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/shoreline"
	"github.com/spatialmodel/shoreline/encoding/mshp"
)

// transectIDField is the name of the required transect identifier column.
const transectIDField = "TransectID"

// transectRecord is the shapefile record format of a transect.
type transectRecord struct {
	geom.Geom
	TransectID int
	Orient     string
}

// ReadTransects reads the transects in the shapefile at path. If sr is not
// nil and the shapefile has a projection file with a different spatial
// reference, the transects are reprojected into sr.
func ReadTransects(path string, sr *proj.SR, log logrus.FieldLogger) ([]shoreline.Transect, error) {
	d, err := shp.NewDecoder(path)
	if err != nil {
		return nil, fmt.Errorf("shoreline: opening transects: %v", err)
	}
	defer d.Close()

	fields := mshp.AttributeFields(d.Fields())
	if _, err := shoreline.LocateField(fields, transectIDField, shoreline.Integer); err != nil {
		return nil, fmt.Errorf("shoreline: transects %s: %w", path, err)
	}

	var ct proj.Transformer
	if sr != nil {
		tsr, err := d.SR()
		switch {
		case os.IsNotExist(err):
			log.Warn("transect shapefile has no projection file; assuming it matches the shorelines")
		case err != nil:
			return nil, fmt.Errorf("shoreline: reading transect projection: %v", err)
		case !tsr.Equal(sr, 0):
			if ct, err = tsr.NewTransform(sr); err != nil {
				return nil, fmt.Errorf("shoreline: reprojecting transects: %v", err)
			}
			log.Info("reprojecting transects into the shoreline spatial reference")
		}
	}

	var transects []shoreline.Transect
	for {
		var rec transectRecord
		if more := d.DecodeRow(&rec); !more {
			break
		}
		g := rec.Geom
		if ct != nil {
			if g, err = g.Transform(ct); err != nil {
				return nil, fmt.Errorf("shoreline: reprojecting transect %d: %v", rec.TransectID, err)
			}
		}
		var l geom.LineString
		switch t := g.(type) {
		case geom.MultiLineString:
			if len(t) > 0 {
				l = t[0]
			}
		case geom.LineString:
			l = t
		default:
			return nil, fmt.Errorf("shoreline: transect %d has unsupported geometry type %T", rec.TransectID, g)
		}
		tr, err := shoreline.NewTransect(rec.TransectID, l, shoreline.ParseOrientation(rec.Orient))
		if err != nil {
			return nil, err
		}
		transects = append(transects, tr)
	}
	if err := d.Error(); err != nil {
		return nil, fmt.Errorf("shoreline: reading transects: %v", err)
	}
	log.WithField("transects", len(transects)).Info("read transects")
	return transects, nil
}

