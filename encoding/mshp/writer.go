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

	"github.com/google/uuid"
	goshp "github.com/jonas-p/go-shp"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/shoreline"
)

// Default DBF column widths used when a field does not declare one.
const (
	stringLength   = 50
	intLength      = 10
	floatLength    = 19
	floatPrecision = 11
)

// Writer writes features into a staging directory next to the destination
// and moves them into place on Commit. It implements
// shoreline.FeatureWriter.
type Writer struct {
	// ID identifies the transaction; the staging directory is named
	// after it.
	ID string

	dest     string // destination path without extension
	stageDir string
	w        *goshp.Writer
	geomType shoreline.GeometryType
	attrs    []shoreline.Field
	prj      []byte
	row      int
	closed   bool
	done     bool
	log      logrus.FieldLogger
}

// Create starts writing a shapefile to path (with or without the .shp
// extension) with the given schema. Point schemas are written as POINT
// shapefiles and multi-line schemas as POLYLINEZ shapefiles with the
// vertex uncertainty in the Z array.
func Create(path string, schema shoreline.Schema) (*Writer, error) {
	gi := schema.GeometryIndex()
	if gi < 0 {
		return nil, &shoreline.PreconditionError{Msg: fmt.Sprintf("schema %q has no geometry field", schema.Name)}
	}
	var st goshp.ShapeType
	switch gt := schema.Fields[gi].GeometryType; gt {
	case shoreline.PointGeometry:
		st = goshp.POINT
	case shoreline.MultiLineGeometry:
		st = goshp.POLYLINEZ
	default:
		return nil, &shoreline.PreconditionError{Msg: fmt.Sprintf("unsupported geometry type %v", gt)}
	}

	id := uuid.New().String()
	dest := strings.TrimSuffix(path, filepath.Ext(path))
	stageDir := filepath.Join(filepath.Dir(dest), ".stage-"+id)
	if err := os.Mkdir(stageDir, 0755); err != nil {
		return nil, fmt.Errorf("mshp: creating staging directory: %w", err)
	}
	w, err := goshp.Create(filepath.Join(stageDir, filepath.Base(dest)+".shp"), st)
	if err != nil {
		os.RemoveAll(stageDir)
		return nil, fmt.Errorf("mshp: creating %s: %w", dest, err)
	}
	wr := &Writer{
		ID:       id,
		dest:     dest,
		stageDir: stageDir,
		w:        w,
		geomType: schema.Fields[gi].GeometryType,
		attrs:    schema.Attributes(),
		log:      logrus.StandardLogger(),
	}
	if err := w.SetFields(shpFields(wr.attrs)); err != nil {
		wr.Rollback()
		return nil, fmt.Errorf("mshp: setting fields of %s: %w", dest, err)
	}
	return wr, nil
}

// Factory returns a shoreline.WriterFactory that creates Writers for
// path. If prj is not empty it is written as the projection file of the
// output.
func Factory(path string, prj []byte, log logrus.FieldLogger) shoreline.WriterFactory {
	return func(s shoreline.Schema) (shoreline.FeatureWriter, error) {
		w, err := Create(path, s)
		if err != nil {
			return nil, err
		}
		w.prj = prj
		if log != nil {
			w.log = log
		}
		w.log.WithFields(logrus.Fields{
			"transaction": w.ID,
			"file":        w.dest + ".shp",
		}).Debug("started shapefile transaction")
		return w, nil
	}
}

// SetProjection sets the contents of the projection (.prj) file.
func (w *Writer) SetProjection(prj []byte) { w.prj = prj }

func shpFields(attrs []shoreline.Field) []goshp.Field {
	o := make([]goshp.Field, len(attrs))
	for i, f := range attrs {
		size, prec := f.Size, f.Precision
		switch f.Kind {
		case shoreline.Integer:
			if size == 0 {
				size = intLength
			}
			o[i] = goshp.NumberField(f.Name, size)
		case shoreline.Float:
			if size == 0 {
				size, prec = floatLength, floatPrecision
			}
			o[i] = goshp.FloatField(f.Name, size, prec)
		case shoreline.Date:
			o[i] = goshp.DateField(f.Name)
		case shoreline.Bool:
			var bf goshp.Field
			copy(bf.Name[:], f.Name)
			bf.Fieldtype = 'L'
			bf.Size = 1
			o[i] = bf
		default:
			if size == 0 {
				size = stringLength
			}
			o[i] = goshp.StringField(f.Name, size)
		}
	}
	return o
}

// Write writes one feature. values must be in the order of the schema's
// attribute fields.
func (w *Writer) Write(g shoreline.MultiLine, values shoreline.Row) error {
	if w.done {
		return fmt.Errorf("mshp: write to finished transaction %s", w.ID)
	}
	if len(values) != len(w.attrs) {
		return fmt.Errorf("mshp: record %d has %d values but the schema has %d fields", w.row+1, len(values), len(w.attrs))
	}
	var shape goshp.Shape
	var err error
	if w.geomType == shoreline.PointGeometry {
		shape, err = EncodePoint(g)
	} else {
		shape, err = EncodeMultiLine(g)
	}
	if err != nil {
		return err
	}
	w.w.Write(shape)
	for i, v := range values {
		var val interface{}
		switch t := v.(type) {
		case nil:
			continue
		case int64:
			val = int(t)
		case int:
			val = t
		case float64:
			val = t
		case string:
			val = t
		default:
			val = shoreline.FormatValue(w.attrs[i], v)
		}
		if err := w.w.WriteAttribute(w.row, i, val); err != nil {
			return fmt.Errorf("mshp: writing field %q of record %d: %w", w.attrs[i].Name, w.row+1, err)
		}
	}
	w.row++
	return nil
}

// Commit closes the staged files and moves them to their destination.
// The .shp file is moved last.
func (w *Writer) Commit() error {
	if w.done {
		return fmt.Errorf("mshp: commit of finished transaction %s", w.ID)
	}
	w.close()
	stage := filepath.Join(w.stageDir, filepath.Base(w.dest))
	if len(w.prj) > 0 {
		if err := os.WriteFile(stage+".prj", w.prj, 0644); err != nil {
			w.Rollback()
			return fmt.Errorf("mshp: writing projection: %w", err)
		}
	}
	exts := []string{".dbf", ".shx", ".shp"}
	for _, ext := range exts {
		if _, err := os.Stat(stage + ext); err != nil {
			w.Rollback()
			return fmt.Errorf("mshp: staged %s file of %s is missing: %w", ext, w.dest, err)
		}
	}
	if len(w.prj) > 0 {
		exts = []string{".dbf", ".shx", ".prj", ".shp"}
	}
	for _, ext := range exts {
		if err := os.Rename(stage+ext, w.dest+ext); err != nil {
			w.Rollback()
			return fmt.Errorf("mshp: committing %s: %w", w.dest+ext, err)
		}
	}
	w.done = true
	w.log.WithFields(logrus.Fields{
		"transaction": w.ID,
		"file":        w.dest + ".shp",
		"records":     w.row,
	}).Debug("committed shapefile transaction")
	return os.RemoveAll(w.stageDir)
}

// Rollback discards everything written. Calling Rollback after Commit or
// a previous Rollback does nothing.
func (w *Writer) Rollback() error {
	if w.done {
		return nil
	}
	w.close()
	w.done = true
	w.log.WithField("transaction", w.ID).Debug("rolled back shapefile transaction")
	return os.RemoveAll(w.stageDir)
}

func (w *Writer) close() {
	if !w.closed {
		w.w.Close()
		w.closed = true
	}
}
