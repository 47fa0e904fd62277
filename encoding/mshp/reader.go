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

package mshp

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	goshp "github.com/jonas-p/go-shp"
	"github.com/spatialmodel/shoreline"
)

// Reader reads features from a shapefile, pairing geometry record N with
// attribute row N. It implements shoreline.FeatureReader.
//
// A Reader can be read more than once: after it has been read from, Reset
// (or Features) reopens the files and starts over from the first record.
type Reader struct {
	base string
	slot Slot
	wrap func(float64) shoreline.Measure

	shp    *goshp.Reader
	schema shoreline.Schema
	attrs  []shoreline.Field

	row  int
	used bool
	rec  shoreline.Feature
	err  error
}

// Open opens the shapefile at path (with or without the .shp extension).
// Vertex measures are read from slot and interpreted as as, which must be
// shoreline.Key or shoreline.Uncertainty.
//
// Open checks that the geometry and attribute files hold the same number
// of records.
func Open(path string, slot Slot, as shoreline.MeasureKind) (*Reader, error) {
	r := &Reader{
		base: strings.TrimSuffix(path, filepath.Ext(path)),
		slot: slot,
	}
	switch as {
	case shoreline.Key:
		r.wrap = shoreline.KeyMeasure
	case shoreline.Uncertainty:
		r.wrap = shoreline.UncertaintyMeasure
	default:
		return nil, fmt.Errorf("mshp: invalid measure interpretation %v", as)
	}
	if err := r.open(); err != nil {
		return nil, err
	}
	if err := r.checkCounts(); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

func (r *Reader) open() error {
	s, err := goshp.Open(r.base + ".shp")
	if err != nil {
		return fmt.Errorf("mshp: opening %s: %w", r.base, err)
	}
	gt, err := geometryType(s.GeometryType)
	if err != nil {
		s.Close()
		return err
	}
	r.shp = s
	r.attrs = AttributeFields(s.Fields())
	r.schema = shoreline.Schema{
		Name:   filepath.Base(r.base),
		Fields: append([]shoreline.Field{{Name: "the_geom", Kind: shoreline.Geometry, GeometryType: gt}}, r.attrs...),
	}
	r.row = 0
	r.used = false
	r.err = nil
	return nil
}

// checkCounts compares the number of records in the index file with the
// number of rows in the attribute file.
func (r *Reader) checkCounts() error {
	fi, err := os.Stat(r.base + ".shx")
	if err != nil {
		return fmt.Errorf("mshp: %w", err)
	}
	shapes := int((fi.Size() - 100) / 8)
	rows := r.shp.AttributeCount()
	if shapes != rows {
		return &shoreline.DecodeError{Msg: fmt.Sprintf("%s has %d shapes but %d attribute rows", r.base, shapes, rows)}
	}
	return nil
}

func geometryType(t goshp.ShapeType) (shoreline.GeometryType, error) {
	switch t {
	case goshp.POINT, goshp.POINTM, goshp.POINTZ:
		return shoreline.PointGeometry, nil
	case goshp.POLYLINE, goshp.POLYLINEM, goshp.POLYLINEZ:
		return shoreline.MultiLineGeometry, nil
	}
	return 0, &shoreline.PreconditionError{Msg: fmt.Sprintf("unsupported shapefile geometry type %d; only points and lines are supported", t)}
}

func fieldName(f goshp.Field) string {
	name := string(f.Name[:])
	if i := strings.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}

// AttributeFields describes the attribute columns of a go-shp reader.
func AttributeFields(fields []goshp.Field) []shoreline.Field {
	o := make([]shoreline.Field, len(fields))
	for i, f := range fields {
		o[i] = shoreline.Field{
			Name:      fieldName(f),
			Kind:      shoreline.DBFKind(f.Fieldtype, f.Precision),
			Size:      f.Size,
			Precision: f.Precision,
		}
	}
	return o
}

// Schema returns the geometry field followed by the attribute fields.
func (r *Reader) Schema() shoreline.Schema { return r.schema }

// Next advances to the next feature. It returns false at the end of the
// file or on error.
func (r *Reader) Next() bool {
	if r.err != nil || r.shp == nil {
		return false
	}
	r.used = true
	if !r.shp.Next() {
		if err := r.shp.Err(); err != nil {
			r.err = &shoreline.DecodeError{Record: r.row + 1, Msg: "reading shape", Err: err}
		}
		return false
	}
	_, shape := r.shp.Shape()
	record := r.row + 1
	ml, err := DecodeShape(record, shape, r.slot, r.wrap)
	if err != nil {
		r.err = err
		return false
	}
	row := make(shoreline.Row, len(r.attrs))
	for i, f := range r.attrs {
		v, err := shoreline.ParseValue(f, r.shp.ReadAttribute(r.row, i))
		if err != nil {
			if de, ok := err.(*shoreline.DecodeError); ok {
				de.Record = record
			}
			r.err = err
			return false
		}
		row[i] = v
	}
	r.rec = shoreline.Feature{Record: record, Geometry: ml, Row: row}
	r.row++
	return true
}

// Feature returns the current feature.
func (r *Reader) Feature() shoreline.Feature { return r.rec }

// Err returns the first error encountered while reading.
func (r *Reader) Err() error { return r.err }

// Reset starts reading over from the first record. It does nothing if the
// reader has not been read from yet.
func (r *Reader) Reset() error {
	if !r.used {
		return nil
	}
	r.Close()
	return r.open()
}

// Features resets r and reads all of its features.
func (r *Reader) Features() ([]shoreline.Feature, error) {
	if err := r.Reset(); err != nil {
		return nil, err
	}
	var o []shoreline.Feature
	for r.Next() {
		o = append(o, r.Feature())
	}
	return o, r.Err()
}

// Projection returns the contents of the .prj file accompanying the
// shapefile, or nil if there is none.
func (r *Reader) Projection() ([]byte, error) {
	b, err := os.ReadFile(r.base + ".prj")
	if os.IsNotExist(err) {
		return nil, nil
	}
	return b, err
}

// Close closes the underlying files.
func (r *Reader) Close() {
	if r.shp != nil {
		r.shp.Close()
		r.shp = nil
	}
}
