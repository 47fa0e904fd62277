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
	"testing"

	"github.com/ctessum/geom"
)

func TestSpatialIndex(t *testing.T) {
	features := []*ShorelineFeature{
		testShoreline(2, "1/2/2006", 1.0, "b", v(0, 0, NoMeasure()), v(1, 0, NoMeasure()), v(1, 1, NoMeasure())),
		testShoreline(1, "1/2/2006", 1.0, "a", v(5, 5, NoMeasure()), v(6, 6, NoMeasure())),
	}
	idx := NewSpatialIndex(Segments(features))
	if idx.Len() != 3 {
		t.Fatalf("Len: have %d, want 3", idx.Len())
	}

	all := idx.Query(&geom.Bounds{Min: geom.Point{X: -10, Y: -10}, Max: geom.Point{X: 10, Y: 10}})
	if len(all) != 3 {
		t.Fatalf("have %d segments, want 3", len(all))
	}
	// Results are ordered by record, then segment.
	if all[0].Feature.Record != 1 || all[1].Index != 0 || all[2].Index != 1 {
		t.Errorf("unexpected order: %d/%d, %d/%d, %d/%d",
			all[0].Feature.Record, all[0].Index, all[1].Feature.Record, all[1].Index, all[2].Feature.Record, all[2].Index)
	}

	// A degenerate envelope on the vertical segment.
	found := idx.Query(&geom.Bounds{Min: geom.Point{X: 1, Y: 0.5}, Max: geom.Point{X: 1, Y: 0.5}})
	if len(found) != 1 || found[0].Index != 1 {
		t.Errorf("have %d segments", len(found))
	}

	if n := len(idx.Query(&geom.Bounds{Min: geom.Point{X: 20, Y: 20}, Max: geom.Point{X: 30, Y: 30}})); n != 0 {
		t.Errorf("have %d segments, want 0", n)
	}
}

func TestSpatialIndexSourceOrder(t *testing.T) {
	a := testShoreline(2, "1/2/2006", 1.0, "a", v(0, 0, NoMeasure()), v(1, 0, NoMeasure()))
	b := testShoreline(1, "1/2/2006", 1.0, "b", v(0, 0, NoMeasure()), v(1, 0, NoMeasure()))
	c := testShoreline(1, "1/2/2006", 1.0, "c", v(0, 0, NoMeasure()), v(1, 0, NoMeasure()))
	b.Source = 1
	idx := NewSpatialIndex(Segments([]*ShorelineFeature{b, c, a}))
	all := idx.Query(&geom.Bounds{Min: geom.Point{X: -1, Y: -1}, Max: geom.Point{X: 2, Y: 2}})
	if len(all) != 3 {
		t.Fatalf("have %d segments, want 3", len(all))
	}
	// Source 0 before source 1, records in order within a source.
	if all[0].Feature != c || all[1].Feature != a || all[2].Feature != b {
		t.Errorf("unexpected order: %v, %v, %v", all[0].Feature.Row, all[1].Feature.Row, all[2].Feature.Row)
	}
}

func TestSegments(t *testing.T) {
	f := &ShorelineFeature{Geometry: MultiLine{
		{v(0, 0, NoMeasure())},
		{v(0, 0, NoMeasure()), v(1, 0, NoMeasure()), v(2, 0, NoMeasure())},
	}}
	segs := Segments([]*ShorelineFeature{f})
	if len(segs) != 2 {
		t.Fatalf("have %d segments, want 2", len(segs))
	}
	if segs[1].Part != 1 || segs[1].Index != 1 || segs[1].B.X != 2 {
		t.Errorf("have %+v", segs[1])
	}
}

func TestSegmentIntersect(t *testing.T) {
	p := func(x, y float64) geom.Point { return geom.Point{X: x, Y: y} }
	tests := []struct {
		name           string
		p1, p2, p3, p4 geom.Point
		ok             bool
		want           geom.Point
	}{
		{"cross", p(0, 0), p(4, 4), p(0, 4), p(4, 0), true, p(2, 2)},
		{"endpoint", p(0, 0), p(4, 0), p(4, 0), p(4, 3), true, p(4, 0)},
		{"miss", p(0, 0), p(1, 1), p(3, 0), p(3, 5), false, geom.Point{}},
		{"parallel", p(0, 0), p(4, 0), p(0, 1), p(4, 1), false, geom.Point{}},
		{"collinear apart", p(0, 0), p(1, 0), p(2, 0), p(3, 0), false, geom.Point{}},
		{"collinear touching", p(0, 0), p(1, 0), p(1, 0), p(3, 0), true, p(1, 0)},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			pt, ok, err := segmentIntersect(test.p1, test.p2, test.p3, test.p4)
			if err != nil {
				t.Fatal(err)
			}
			if ok != test.ok || (ok && pt != test.want) {
				t.Errorf("have %v, %v; want %v, %v", pt, ok, test.want, test.ok)
			}
		})
	}
	if _, _, err := segmentIntersect(p(0, 0), p(0, 4), p(0, 1), p(0, 6)); err == nil {
		t.Error("expected an error for overlapping segments")
	}
}
