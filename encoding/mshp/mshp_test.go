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
	"math"
	"testing"

	goshp "github.com/jonas-p/go-shp"
	"github.com/kr/pretty"
	"github.com/spatialmodel/shoreline"
)

// polyLineM creates a PolyLineM from parts of x, y, m triples.
func polyLineM(parts ...[][3]float64) *goshp.PolyLineM {
	s := &goshp.PolyLineM{NumParts: int32(len(parts))}
	for _, p := range parts {
		s.Parts = append(s.Parts, int32(len(s.Points)))
		for _, v := range p {
			s.Points = append(s.Points, goshp.Point{X: v[0], Y: v[1]})
			s.MArray = append(s.MArray, v[2])
		}
	}
	s.NumPoints = int32(len(s.Points))
	s.Box = goshp.BBoxFromPoints(s.Points)
	s.MRange = [2]float64{0, 100}
	return s
}

// triples flattens ml into x, y and measure triples.
func triples(ml shoreline.MultiLine) [][][3]float64 {
	o := make([][][3]float64, len(ml))
	for i, l := range ml {
		for _, v := range l {
			o[i] = append(o[i], [3]float64{v.X, v.Y, v.M.Float()})
		}
	}
	return o
}

func TestParseSlot(t *testing.T) {
	for in, want := range map[string]Slot{"m": OptionalSlot, "Optional": OptionalSlot, " z ": ElevationSlot, "elevation": ElevationSlot} {
		s, err := ParseSlot(in)
		if err != nil {
			t.Errorf("%q: %v", in, err)
		} else if s != want {
			t.Errorf("%q: have %v, want %v", in, s, want)
		}
	}
	if _, err := ParseSlot("x"); err == nil {
		t.Error("expected an error")
	}
}

func TestDecodeShape(t *testing.T) {
	pm := polyLineM([][3]float64{{0, 0, 5.9}, {1, 0, 2}}, [][3]float64{{2, 2, math.NaN()}})
	ml, err := DecodeShape(1, pm, OptionalSlot, shoreline.KeyMeasure)
	if err != nil {
		t.Fatal(err)
	}
	if len(ml) != 2 || ml.NumVertices() != 3 {
		t.Fatalf("have %d parts, %d vertices", len(ml), ml.NumVertices())
	}
	if k, ok := ml[0][0].M.Key(); !ok || k != 5 {
		t.Errorf("key: have %d, %v", k, ok)
	}
	if ml[1][0].M.Kind() != shoreline.Absent {
		t.Errorf("NaN should decode as absent, not %v", ml[1][0].M)
	}

	// A PolyLineM has no Z values.
	ml, err = DecodeShape(1, pm, ElevationSlot, shoreline.UncertaintyMeasure)
	if err != nil {
		t.Fatal(err)
	}
	for _, l := range ml {
		for _, v := range l {
			if v.M.Kind() != shoreline.Absent {
				t.Errorf("have %v, want absent", v.M)
			}
		}
	}

	pz := &goshp.PolyLineZ{
		NumParts: 1, NumPoints: 2,
		Parts:  []int32{0},
		Points: []goshp.Point{{X: 0, Y: 0}, {X: 3, Y: 4}},
		ZArray: []float64{1, 2},
		MArray: []float64{10, 20},
	}
	for slot, want := range map[Slot][]float64{ElevationSlot: {1, 2}, OptionalSlot: {10, 20}} {
		ml, err := DecodeShape(1, pz, slot, shoreline.UncertaintyMeasure)
		if err != nil {
			t.Fatal(err)
		}
		for i, v := range ml[0] {
			if u, _ := v.M.Uncertainty(); u != want[i] {
				t.Errorf("%v %d: have %g, want %g", slot, i, u, want[i])
			}
		}
	}

	ml, err = DecodeShape(1, &goshp.PointZ{X: 1, Y: 2, Z: 3, M: 4}, ElevationSlot, shoreline.UncertaintyMeasure)
	if err != nil {
		t.Fatal(err)
	}
	if diff := pretty.Diff(triples(ml), [][][3]float64{{{1, 2, 3}}}); len(diff) != 0 {
		t.Error(diff)
	}
	ml, err = DecodeShape(1, &goshp.Null{}, ElevationSlot, shoreline.UncertaintyMeasure)
	if err != nil || len(ml) != 0 {
		t.Errorf("null shape: have %v, %v", ml, err)
	}
}

func TestDecodeShapeErrors(t *testing.T) {
	bad := polyLineM([][3]float64{{0, 0, 1}, {1, 1, 2}})
	bad.Parts = []int32{1}
	tests := []struct {
		name string
		s    goshp.Shape
	}{
		{"nil", nil},
		{"polygon", &goshp.Polygon{}},
		{"bad offsets", bad},
		{"short measures", &goshp.PolyLineM{NumParts: 1, NumPoints: 2, Parts: []int32{0}, Points: make([]goshp.Point, 2), MArray: []float64{1}}},
		{"point count", &goshp.PolyLine{NumParts: 1, NumPoints: 3, Parts: []int32{0}, Points: make([]goshp.Point, 2)}},
	}
	for _, test := range tests {
		_, err := DecodeShape(7, test.s, OptionalSlot, shoreline.KeyMeasure)
		var de *shoreline.DecodeError
		if !errors.As(err, &de) {
			t.Errorf("%s: have %v, want DecodeError", test.name, err)
			continue
		}
		if de.Record != 7 {
			t.Errorf("%s: record %d", test.name, de.Record)
		}
	}
}

func TestEncodeMultiLine(t *testing.T) {
	ml := shoreline.MultiLine{
		{{M: shoreline.UncertaintyMeasure(2)}, {M: shoreline.UncertaintyMeasure(0.5)}},
		{{M: shoreline.NoMeasure()}},
	}
	ml[0][1].X, ml[0][1].Y = 4, 3
	ml[1][0].X, ml[1][0].Y = -1, 6
	s, err := EncodeMultiLine(ml)
	if err != nil {
		t.Fatal(err)
	}
	if s.NumParts != 2 || s.NumPoints != 3 || s.Parts[1] != 2 {
		t.Errorf("have %d parts, %d points, offsets %v", s.NumParts, s.NumPoints, s.Parts)
	}
	if s.ZArray[0] != 2 || s.ZArray[1] != 0.5 || !math.IsNaN(s.ZArray[2]) {
		t.Errorf("Z: have %v", s.ZArray)
	}
	for _, m := range s.MArray {
		if !math.IsNaN(m) {
			t.Errorf("M: have %v", s.MArray)
		}
	}
	if s.ZRange != [2]float64{0.5, 2} {
		t.Errorf("Z range: have %v", s.ZRange)
	}
	if s.Box != (goshp.Box{MinX: -1, MinY: 0, MaxX: 4, MaxY: 6}) {
		t.Errorf("box: have %+v", s.Box)
	}

	back, err := DecodeShape(1, s, ElevationSlot, shoreline.UncertaintyMeasure)
	if err != nil {
		t.Fatal(err)
	}
	if diff := pretty.Diff(triples(back)[0], triples(ml)[0]); len(diff) != 0 {
		t.Error(diff)
	}
	if back[1][0].M.Kind() != shoreline.Absent {
		t.Errorf("have %v, want absent", back[1][0].M)
	}

	ml[0][0].M = shoreline.KeyMeasure(3)
	_, err = EncodeMultiLine(ml)
	var ve *shoreline.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("have %v, want ValidationError", err)
	}
}
