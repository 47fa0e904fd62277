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

package shoreline

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// Exploder rewrites shoreline features so that every vertex carries its
// resolved uncertainty.
type Exploder struct {
	// Log receives progress messages. If nil, the standard logrus
	// logger is used.
	Log logrus.FieldLogger
}

// ExplodeResult summarizes an Explode run.
type ExplodeResult struct {
	Shapes, Points int

	// FromTable and FromFeature count the vertices whose uncertainty
	// came from the uncertainty table and from the feature's own
	// uncertainty attribute, respectively.
	FromTable, FromFeature int

	// Min, Max and Mean describe the resolved uncertainties. They are
	// NaN if no points were written.
	Min, Max, Mean float64
}

func (r *ExplodeResult) add(vals []float64) {
	if len(vals) == 0 {
		return
	}
	if r.Points == 0 {
		r.Min, r.Max, r.Mean = math.Inf(1), math.Inf(-1), 0
	}
	r.Min = math.Min(r.Min, floats.Min(vals))
	r.Max = math.Max(r.Max, floats.Max(vals))
	r.Mean += floats.Sum(vals)
	r.Points += len(vals)
}

// ExplodedSchema returns the schema of the features written by Explode
// for input schema s: the geometry becomes a MultiLine and a record index
// column is appended.
func ExplodedSchema(s Schema) Schema {
	o := Schema{Name: s.Name, Fields: make([]Field, len(s.Fields), len(s.Fields)+1)}
	copy(o.Fields, s.Fields)
	for i, f := range o.Fields {
		if f.Kind == Geometry {
			o.Fields[i].GeometryType = MultiLineGeometry
		}
	}
	o.Fields = append(o.Fields, Field{Name: RecordIndexField, Kind: Integer, Size: 10})
	return o
}

// Explode reads every feature from r, replaces the point key of each vertex
// with the uncertainty found in uncy (or the feature's own uncertainty if the
// vertex has no key or the key is not in the table), and writes the result
// to a writer obtained from create. The uncertainty attribute of the written
// features is set to DistributedUncertainty and the record number of the
// source feature is appended.
//
// The writer is committed only if every feature was written; on any error it
// is rolled back.
func (e *Exploder) Explode(r FeatureReader, uncy *UncertaintyTable, create WriterFactory) (result *ExplodeResult, err error) {
	log := e.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	schema := r.Schema()
	if gi := schema.GeometryIndex(); gi != 0 {
		return nil, &PreconditionError{Msg: fmt.Sprintf("geometry must be the first field of %q; found at index %d", schema.Name, gi)}
	}
	attrs := schema.Attributes()
	uncyIdx, err := LocateField(attrs, UncertaintyField, Float)
	if err != nil {
		return nil, err
	}
	surveyIdx, err := LocateField(attrs, SurveyIDField, String)
	if err != nil {
		return nil, err
	}

	w, err := create(ExplodedSchema(schema))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rerr := w.Rollback(); rerr != nil {
				log.WithError(rerr).Error("rolling back exploded output")
			}
		}
	}()

	result = &ExplodeResult{Min: math.NaN(), Max: math.NaN(), Mean: math.NaN()}
	for r.Next() {
		f := r.Feature()
		ml, vals, err := e.resolve(f, uncyIdx, surveyIdx, uncy, result)
		if err != nil {
			return nil, err
		}
		row := make(Row, len(f.Row), len(f.Row)+1)
		copy(row, f.Row)
		row[uncyIdx] = DistributedUncertainty
		row = append(row, int64(f.Record))
		if err := w.Write(ml, row); err != nil {
			return nil, err
		}
		result.add(vals)
		result.Shapes++
		log.WithFields(logrus.Fields{
			"record": f.Record,
			"points": len(vals),
		}).Debug("exploded feature")
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	if err := w.Commit(); err != nil {
		return nil, err
	}
	if result.Points > 0 {
		result.Mean /= float64(result.Points)
	}
	log.WithFields(logrus.Fields{
		"shapes":      result.Shapes,
		"points":      result.Points,
		"fromTable":   result.FromTable,
		"fromFeature": result.FromFeature,
	}).Info("wrote exploded shapefile")
	return result, nil
}

// resolve returns the geometry of f with every vertex measure replaced by
// its resolved uncertainty, along with the resolved values.
func (e *Exploder) resolve(f Feature, uncyIdx, surveyIdx int, uncy *UncertaintyTable, result *ExplodeResult) (MultiLine, []float64, error) {
	survey, _ := f.Row[surveyIdx].(string)
	featureUncy, haveFeatureUncy := f.Row[uncyIdx].(float64)

	ml := make(MultiLine, len(f.Geometry))
	vals := make([]float64, 0, f.Geometry.NumVertices())
	for i, l := range f.Geometry {
		ml[i] = make(Line, len(l))
		for j, v := range l {
			u, found := 0.0, false
			if key, ok := v.M.Key(); ok {
				u, found = uncy.Lookup(key, survey)
			}
			if found {
				result.FromTable++
			} else {
				if !haveFeatureUncy || math.IsNaN(featureUncy) {
					return nil, nil, validationf("record %d: vertex %d has no uncertainty and the feature has no %s value", f.Record, len(vals), UncertaintyField)
				}
				if featureUncy < 0 {
					return nil, nil, validationf("record %d: negative feature uncertainty %g", f.Record, featureUncy)
				}
				u = featureUncy
				result.FromFeature++
			}
			ml[i][j] = Vertex{Point: v.Point, M: UncertaintyMeasure(u)}
			vals = append(vals, u)
		}
	}
	return ml, vals, nil
}
