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
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ctessum/geom/proj"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/shoreline"
	"github.com/spatialmodel/shoreline/encoding/mshp"
	"github.com/spatialmodel/shoreline/internal/hash"
)

// shorelineSet is the contents of one shoreline shapefile.
type shorelineSet struct {
	attrs    *shoreline.AttributeGetter
	features []*shoreline.ShorelineFeature
	prj      []byte
}

// readShorelines reads the shoreline shapefile at path. source is the
// position of the file among the inputs.
func readShorelines(path string, source int, slot mshp.Slot) (*shorelineSet, error) {
	r, err := mshp.Open(path, slot, shoreline.Uncertainty)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	prj, err := r.Projection()
	if err != nil {
		return nil, err
	}
	fs, err := r.Features()
	if err != nil {
		return nil, err
	}
	s := &shorelineSet{
		attrs:    shoreline.NewAttributeGetter(r.Schema().Attributes()),
		features: make([]*shoreline.ShorelineFeature, len(fs)),
		prj:      prj,
	}
	for i, f := range fs {
		s.features[i] = shoreline.NewShorelineFeature(f, s.attrs)
		s.features[i].Source = source
	}
	return s, nil
}

// reproject transforms the shorelines in s into sr, the spatial reference
// of the first shoreline file.
func (s *shorelineSet) reproject(sr *proj.SR, log logrus.FieldLogger) error {
	if sr == nil || s.prj == nil {
		if sr != nil || s.prj != nil {
			log.Warn("only some shoreline shapefiles have a projection file; assuming they match")
		}
		return nil
	}
	ssr, err := proj.Parse(string(s.prj))
	if err != nil {
		return fmt.Errorf("parsing projection: %v", err)
	}
	if ssr.Equal(sr, 0) {
		return nil
	}
	ct, err := ssr.NewTransform(sr)
	if err != nil {
		return fmt.Errorf("reprojecting: %v", err)
	}
	for _, f := range s.features {
		for _, l := range f.Geometry {
			for j := range l {
				if l[j].X, l[j].Y, err = ct(l[j].X, l[j].Y); err != nil {
					return fmt.Errorf("reprojecting record %d: %v", f.Record, err)
				}
			}
		}
	}
	log.Info("reprojected shorelines into the spatial reference of the first shoreline file")
	return nil
}

// Intersect intersects the transects in ic with the shorelines in ic and
// writes the chosen intersections to ic.OutputFile and, if it is set,
// ic.TableFile. It returns the number of intersections written.
func Intersect(ic *IntersectConfig, log logrus.FieldLogger) (int, error) {
	log = log.WithField("run", hash.Hash(ic))

	var (
		features []*shoreline.ShorelineFeature
		fieldSet [][]shoreline.Field
		prj      []byte
		sr       *proj.SR
	)
	for i, path := range ic.Shorelines {
		s, err := readShorelines(path, i, ic.Slot)
		if err != nil {
			return 0, err
		}
		flog := log.WithField("shoreline", path)
		if i == 0 {
			prj = s.prj
			if prj != nil {
				if sr, err = proj.Parse(string(prj)); err != nil {
					return 0, fmt.Errorf("shoreline: parsing projection of %s: %v", path, err)
				}
			}
		} else if err := s.reproject(sr, flog); err != nil {
			return 0, fmt.Errorf("shoreline: %s: %v", path, err)
		}
		features = append(features, s.features...)
		fieldSet = append(fieldSet, s.attrs.Fields())
		flog.WithField("features", len(s.features)).Info("read shorelines")
	}

	transects, err := ReadTransects(ic.Transects, sr, log)
	if err != nil {
		return 0, err
	}

	e := &shoreline.Engine{
		Index:  shoreline.NewSpatialIndex(shoreline.Segments(features)),
		Policy: ic.Policy,
		Log:    log,
	}
	log.WithField("segments", e.Index.Len()).Info("built shoreline index")

	results := make([]shoreline.Intersections, len(transects))
	for i, t := range transects {
		if results[i], err = e.CalculateSplit(t, ic.MaxTransectLength); err != nil {
			return 0, fmt.Errorf("shoreline: transect %d: %v", t.ID, err)
		}
	}

	n, err := writeIntersections(ic.OutputFile, prj, fieldSet, results, log)
	if err != nil {
		return 0, err
	}
	if ic.TableFile != "" {
		if err := writeTableFile(ic.TableFile, transects, results); err != nil {
			return 0, err
		}
	}
	log.WithFields(logrus.Fields{
		"transects":     len(transects),
		"intersections": n,
		"policy":        ic.Policy,
		"output":        ic.OutputFile,
	}).Info("intersected transects")
	return n, nil
}

func writeIntersections(path string, prj []byte, fieldSet [][]shoreline.Field, results []shoreline.Intersections, log logrus.FieldLogger) (n int, err error) {
	schema := shoreline.IntersectionSchema(fieldSet...)
	w, err := mshp.Factory(path, prj, log)(schema)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := w.Rollback(); rerr != nil {
				log.WithError(rerr).Error("rolling back intersection output")
			}
		}
	}()
	for _, xs := range results {
		for _, x := range xs.Sorted() {
			g, row, err := x.Values(schema)
			if err != nil {
				return 0, err
			}
			if err := w.Write(g, row); err != nil {
				return 0, err
			}
			n++
		}
	}
	if err := w.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}

// writeTableFile writes the intersections of each transect to path as
// tab-separated text.
func writeTableFile(path string, transects []shoreline.Transect, results []shoreline.Intersections) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("shoreline: creating table file: %v", err)
	}
	if err := WriteTable(f, transects, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteTable writes a header line followed by one
// "TransectID\tdate\tdistance\tuncy" line per intersection, grouped by
// transect and ordered by date within each transect.
func WriteTable(w io.Writer, transects []shoreline.Transect, results []shoreline.Intersections) error {
	b := bufio.NewWriter(w)
	if _, err := b.WriteString("TransectID\tdate\tdistance\tuncy\n"); err != nil {
		return err
	}
	for i, t := range transects {
		id := strconv.Itoa(t.ID)
		for _, x := range results[i].Sorted() {
			s, err := x.Format()
			if err != nil {
				return fmt.Errorf("shoreline: transect %d: %v", t.ID, err)
			}
			if _, err := b.WriteString(id + "\t" + s + "\n"); err != nil {
				return err
			}
		}
	}
	return b.Flush()
}
