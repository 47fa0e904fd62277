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
	"errors"
	"os"
	"path/filepath"
	"testing"

	goshp "github.com/jonas-p/go-shp"
	"github.com/kr/pretty"
	"github.com/spatialmodel/shoreline"
)

const testPrj = `PROJCS["NAD_1983_UTM_Zone_18N",GEOGCS["GCS_North_American_1983",DATUM["D_North_American_1983",SPHEROID["GRS_1980",6378137.0,298.257222101]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]],PROJECTION["Transverse_Mercator"],PARAMETER["False_Easting",500000.0],PARAMETER["False_Northing",0.0],PARAMETER["Central_Meridian",-75.0],PARAMETER["Scale_Factor",0.9996],PARAMETER["Latitude_Of_Origin",0.0],UNIT["Meter",1.0]]`

// writeShapefile writes shapes and their attribute rows to path.
func writeShapefile(t *testing.T, path string, st goshp.ShapeType, fields []goshp.Field, shapes []goshp.Shape, rows [][]interface{}) {
	t.Helper()
	w, err := goshp.Create(path, st)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.SetFields(fields); err != nil {
		t.Fatal(err)
	}
	for i, s := range shapes {
		w.Write(s)
		for j, v := range rows[i] {
			if err := w.WriteAttribute(i, j, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	w.Close()
}

// writeTestShorelines writes two shoreline features with point keys in
// their M values.
func writeTestShorelines(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "shore.shp")
	writeShapefile(t, path, goshp.POLYLINEM,
		[]goshp.Field{
			goshp.StringField("name", 20),
			goshp.StringField("surveyID", 20),
			goshp.FloatField("uncy", 19, 11),
		},
		[]goshp.Shape{
			polyLineM(
				[][3]float64{{0, 0, 1}, {1, 0, 2}, {2, 1, 3}},
				[][3]float64{{5, 5, 4}, {6, 5, 5}},
			),
			polyLineM([][3]float64{{10, 0, 1}, {10, 3, 9}}),
		},
		[][]interface{}{
			{"north", "A", 8.0},
			{"south", "B", 4.5},
		})
	if err := os.WriteFile(filepath.Join(dir, "shore.prj"), []byte(testPrj), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReader(t *testing.T) {
	path := writeTestShorelines(t, t.TempDir())
	r, err := Open(path, OptionalSlot, shoreline.Key)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	s := r.Schema()
	if s.GeometryIndex() != 0 || s.Fields[0].GeometryType != shoreline.MultiLineGeometry {
		t.Errorf("geometry field: %+v", s.Fields[0])
	}
	wantKinds := []shoreline.Kind{shoreline.Geometry, shoreline.String, shoreline.String, shoreline.Float}
	for i, f := range s.Fields {
		if f.Kind != wantKinds[i] {
			t.Errorf("field %d (%s): have %v, want %v", i, f.Name, f.Kind, wantKinds[i])
		}
	}
	if s.Fields[2].Name != "surveyID" {
		t.Errorf("field name: have %q", s.Fields[2].Name)
	}

	features, err := r.Features()
	if err != nil {
		t.Fatal(err)
	}
	if len(features) != 2 {
		t.Fatalf("have %d features, want 2", len(features))
	}
	if features[0].Record != 1 || features[1].Record != 2 {
		t.Errorf("records: %d, %d", features[0].Record, features[1].Record)
	}
	if k, ok := features[1].Geometry[0][1].M.Key(); !ok || k != 9 {
		t.Errorf("key: have %d, %v", k, ok)
	}
	if diff := pretty.Diff(features[1].Row, shoreline.Row{"south", "B", 4.5}); len(diff) != 0 {
		t.Error(diff)
	}

	// The reader can be read again.
	again, err := r.Features()
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != 2 || again[0].Geometry.NumVertices() != 5 {
		t.Errorf("second read: %d features", len(again))
	}

	prj, err := r.Projection()
	if err != nil {
		t.Fatal(err)
	}
	if string(prj) != testPrj {
		t.Errorf("projection: have %q", prj)
	}
}

func TestReaderCountMismatch(t *testing.T) {
	path := writeTestShorelines(t, t.TempDir())
	shx := path[:len(path)-4] + ".shx"
	fi, err := os.Stat(shx)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Truncate(shx, fi.Size()-8); err != nil {
		t.Fatal(err)
	}
	_, err = Open(path, OptionalSlot, shoreline.Key)
	var de *shoreline.DecodeError
	if !errors.As(err, &de) {
		t.Errorf("have %v, want DecodeError", err)
	}
}

func TestReaderUnsupportedGeometry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poly.shp")
	writeShapefile(t, path, goshp.POLYGON, []goshp.Field{goshp.StringField("a", 5)},
		[]goshp.Shape{goshp.NewPolyLine([][]goshp.Point{{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 0}}})},
		[][]interface{}{{"x"}})
	_, err := Open(path, OptionalSlot, shoreline.Key)
	var pe *shoreline.PreconditionError
	if !errors.As(err, &pe) {
		t.Errorf("have %v, want PreconditionError", err)
	}
}

func TestExplodeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeTestShorelines(t, dir)
	r, err := Open(path, OptionalSlot, shoreline.Key)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	prj, err := r.Projection()
	if err != nil {
		t.Fatal(err)
	}
	uncy := shoreline.NewUncertaintyTable(map[shoreline.UncertaintyKey]float64{
		{PointID: 1, SurveyID: "A"}: 0.25,
		{PointID: 2, SurveyID: "A"}: 0.5,
		{PointID: 3, SurveyID: "A"}: 0.75,
		{PointID: 1, SurveyID: "B"}: 1.25,
	})
	out := filepath.Join(dir, "shore_zencode.shp")
	result, err := new(shoreline.Exploder).Explode(r, uncy, Factory(out, prj, nil))
	if err != nil {
		t.Fatal(err)
	}
	if result.Shapes != 2 || result.Points != 7 || result.FromTable != 4 || result.FromFeature != 3 {
		t.Errorf("result: %+v", result)
	}

	stages, err := filepath.Glob(filepath.Join(dir, ".stage-*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(stages) != 0 {
		t.Errorf("staging directories were left behind: %v", stages)
	}

	in, err := r.Features()
	if err != nil {
		t.Fatal(err)
	}
	er, err := Open(out, ElevationSlot, shoreline.Uncertainty)
	if err != nil {
		t.Fatal(err)
	}
	defer er.Close()
	exploded, err := er.Features()
	if err != nil {
		t.Fatal(err)
	}
	if len(exploded) != len(in) {
		t.Fatalf("have %d features, want %d", len(exploded), len(in))
	}

	wantZ := [][][]float64{
		{{0.25, 0.5, 0.75}, {8, 8}},
		{{1.25, 4.5}},
	}
	for i, f := range exploded {
		if len(f.Geometry) != len(in[i].Geometry) {
			t.Fatalf("feature %d: have %d parts, want %d", i, len(f.Geometry), len(in[i].Geometry))
		}
		for j, l := range f.Geometry {
			for k, v := range l {
				if v.Point != in[i].Geometry[j][k].Point {
					t.Errorf("feature %d part %d vertex %d: moved from %v to %v", i, j, k, in[i].Geometry[j][k].Point, v.Point)
				}
				if u, ok := v.M.Uncertainty(); !ok || u != wantZ[i][j][k] {
					t.Errorf("feature %d part %d vertex %d: have %g, want %g", i, j, k, u, wantZ[i][j][k])
				}
			}
		}
	}

	wantRows := []shoreline.Row{
		{"north", "A", -1.0, int64(1)},
		{"south", "B", -1.0, int64(2)},
	}
	for i, f := range exploded {
		if diff := pretty.Diff(f.Row, wantRows[i]); len(diff) != 0 {
			t.Errorf("feature %d: %v", i, diff)
		}
	}
	if last := er.Schema().Fields[4]; last.Name != shoreline.RecordIndexField || last.Kind != shoreline.Integer {
		t.Errorf("record index field: %+v", last)
	}

	// The exploded M values are not readable as keys.
	mr, err := Open(out, OptionalSlot, shoreline.Key)
	if err != nil {
		t.Fatal(err)
	}
	defer mr.Close()
	mf, err := mr.Features()
	if err != nil {
		t.Fatal(err)
	}
	if m := mf[0].Geometry[0][0].M; m.Kind() != shoreline.Absent {
		t.Errorf("have %v, want absent", m)
	}

	eprj, err := er.Projection()
	if err != nil {
		t.Fatal(err)
	}
	if string(eprj) != testPrj {
		t.Error("projection was not copied")
	}
}

func TestWriterRollback(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.shp")
	schema := shoreline.Schema{Fields: []shoreline.Field{
		{Name: "geom", Kind: shoreline.Geometry, GeometryType: shoreline.MultiLineGeometry},
		{Name: "v", Kind: shoreline.Float},
	}}
	w, err := Create(out, schema)
	if err != nil {
		t.Fatal(err)
	}
	g := shoreline.MultiLine{{{M: shoreline.UncertaintyMeasure(1)}, {M: shoreline.UncertaintyMeasure(2)}}}
	if err := w.Write(g, shoreline.Row{1.5}); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(g, shoreline.Row{1.5, 2.5}); err == nil {
		t.Error("expected an error for a row of the wrong length")
	}
	if err := w.Rollback(); err != nil {
		t.Fatal(err)
	}
	if err := w.Rollback(); err != nil {
		t.Errorf("second rollback: %v", err)
	}
	files, err := filepath.Glob(filepath.Join(dir, "*"))
	if err != nil {
		t.Fatal(err)
	}
	hidden, err := filepath.Glob(filepath.Join(dir, ".stage-*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 0 || len(hidden) != 0 {
		t.Errorf("files were left behind: %v %v", files, hidden)
	}
	if err := w.Write(g, shoreline.Row{1.5}); err == nil {
		t.Error("expected an error writing to a finished transaction")
	}
	if err := w.Commit(); err == nil {
		t.Error("expected an error committing a finished transaction")
	}
}

func TestWriterPoints(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "points.shp")
	schema := shoreline.IntersectionSchema([]shoreline.Field{
		{Name: "date", Kind: shoreline.String},
		{Name: "when", Kind: shoreline.Date},
		{Name: "ok", Kind: shoreline.Bool},
	})
	w, err := Create(out, schema)
	if err != nil {
		t.Fatal(err)
	}
	pt := shoreline.MultiLine{{{M: shoreline.NoMeasure()}}}
	pt[0][0].X, pt[0][0].Y = 3, 4
	row := shoreline.Row{int64(12), -2.5, 0.75, "1/2/2006", nil, true}
	if err := w.Write(pt, row); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(shoreline.MultiLine{}, row); err == nil {
		t.Error("expected an error for an empty point")
	}
	if err := w.Commit(); err != nil {
		t.Fatal(err)
	}

	r, err := Open(out, OptionalSlot, shoreline.Uncertainty)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	fs, err := r.Features()
	if err != nil {
		t.Fatal(err)
	}
	if len(fs) != 1 {
		t.Fatalf("have %d features, want 1", len(fs))
	}
	if p := fs[0].Geometry[0][0].Point; p.X != 3 || p.Y != 4 {
		t.Errorf("point: have %v", p)
	}
	want := shoreline.Row{int64(12), -2.5, 0.75, "1/2/2006", nil, true}
	if diff := pretty.Diff(fs[0].Row, want); len(diff) != 0 {
		t.Error(diff)
	}
	if _, err := os.Stat(filepath.Join(dir, "points.prj")); !os.IsNotExist(err) {
		t.Error("no projection file should be written without a projection")
	}
}

func TestWriterCommitFiles(t *testing.T) {
	schema := shoreline.Schema{Fields: []shoreline.Field{
		{Name: "geom", Kind: shoreline.Geometry, GeometryType: shoreline.MultiLineGeometry},
		{Name: "v", Kind: shoreline.Float},
	}}
	g := shoreline.MultiLine{{{M: shoreline.UncertaintyMeasure(1)}, {M: shoreline.UncertaintyMeasure(2)}}}

	dir := t.TempDir()
	w, err := Create(filepath.Join(dir, "out.shp"), schema)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Write(g, shoreline.Row{1.5}); err != nil {
		t.Fatal(err)
	}
	if err := w.Commit(); err != nil {
		t.Fatal(err)
	}
	for _, ext := range []string{".shp", ".shx", ".dbf"} {
		if _, err := os.Stat(filepath.Join(dir, "out"+ext)); err != nil {
			t.Errorf("%s: %v", ext, err)
		}
	}
	if hidden, _ := filepath.Glob(filepath.Join(dir, ".stage-*")); len(hidden) != 0 {
		t.Errorf("staging directory left behind: %v", hidden)
	}

	// A transaction missing one of its files is not committed.
	dir = t.TempDir()
	w, err = Create(filepath.Join(dir, "out.shp"), schema)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Write(g, shoreline.Row{1.5}); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(filepath.Join(w.stageDir, "out.dbf")); err != nil {
		t.Fatal(err)
	}
	if err := w.Commit(); err == nil {
		t.Error("expected an error for a missing attribute file")
	}
	if files, _ := filepath.Glob(filepath.Join(dir, "*")); len(files) != 0 {
		t.Errorf("files were committed: %v", files)
	}
	if hidden, _ := filepath.Glob(filepath.Join(dir, ".stage-*")); len(hidden) != 0 {
		t.Errorf("staging directory left behind: %v", hidden)
	}
}

func TestWriterLargeDistance(t *testing.T) {
	out := filepath.Join(t.TempDir(), "far.shp")
	w, err := Create(out, shoreline.IntersectionSchema())
	if err != nil {
		t.Fatal(err)
	}
	pt := shoreline.MultiLine{{{M: shoreline.NoMeasure()}}}
	for _, d := range []float64{-1234567.891, 98765432.5} {
		if err := w.Write(pt, shoreline.Row{int64(1), d, 0.5}); err != nil {
			t.Fatalf("distance %g: %v", d, err)
		}
	}
	if err := w.Commit(); err != nil {
		t.Fatal(err)
	}

	r, err := Open(out, OptionalSlot, shoreline.Uncertainty)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	fs, err := r.Features()
	if err != nil {
		t.Fatal(err)
	}
	if len(fs) != 2 || fs[0].Row[1] != -1234567.891 || fs[1].Row[1] != 98765432.5 {
		t.Errorf("have %v", fs)
	}
}
