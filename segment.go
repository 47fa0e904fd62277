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
	"math"
	"time"

	"github.com/ctessum/geom"
)

// ShorelineFeature is a shoreline with its attributes.
type ShorelineFeature struct {
	// Source is the position of the feature's file among the files
	// being processed together.
	Source int
	// Record is the 1-based record number of the feature in its file.
	Record   int
	Geometry MultiLine
	Row      Row
	Attrs    *AttributeGetter
}

// NewShorelineFeature pairs a Feature with the getter for its schema.
func NewShorelineFeature(f Feature, attrs *AttributeGetter) *ShorelineFeature {
	return &ShorelineFeature{Record: f.Record, Geometry: f.Geometry, Row: f.Row, Attrs: attrs}
}

// Date returns the date the shoreline was surveyed.
func (f *ShorelineFeature) Date() (time.Time, error) {
	return ParseDate(f.Attrs.Value(DateAttr, f.Row))
}

// Uncertainty returns the whole-feature uncertainty attribute.
func (f *ShorelineFeature) Uncertainty() (float64, error) {
	return f.Attrs.Float(UncyAttr, f.Row)
}

// SurveyID returns the survey the shoreline belongs to.
func (f *ShorelineFeature) SurveyID() string {
	return f.Attrs.String(SurveyIDAttr, f.Row)
}

// ShorelineSegment is a straight piece of a shoreline between two
// consecutive vertices.
type ShorelineSegment struct {
	Feature *ShorelineFeature
	// Part is the index of the line within the feature and Index the
	// index of the segment within the line.
	Part, Index int
	A, B        Vertex
}

// Segments splits features into their segments, in feature, part and
// segment order. Lines with a single vertex give no segments.
func Segments(features []*ShorelineFeature) []*ShorelineSegment {
	var o []*ShorelineSegment
	for _, f := range features {
		for p, l := range f.Geometry {
			for i := 0; i < len(l)-1; i++ {
				o = append(o, &ShorelineSegment{Feature: f, Part: p, Index: i, A: l[i], B: l[i+1]})
			}
		}
	}
	return o
}

// Bounds returns the extent of s.
func (s *ShorelineSegment) Bounds() *geom.Bounds {
	b := geom.NewBoundsPoint(s.A.Point)
	b.Extend(geom.NewBoundsPoint(s.B.Point))
	return b
}

// less orders segments by feature source, record, part and index.
func (s *ShorelineSegment) less(o *ShorelineSegment) bool {
	if s.Feature.Source != o.Feature.Source {
		return s.Feature.Source < o.Feature.Source
	}
	if s.Feature.Record != o.Feature.Record {
		return s.Feature.Record < o.Feature.Record
	}
	if s.Part != o.Part {
		return s.Part < o.Part
	}
	return s.Index < o.Index
}

func distance(a, b geom.Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// segmentIntersect finds the single point where segments p1-p2 and p3-p4
// meet. ok is false if they do not meet. Collinear segments that share more
// than one point give a ValidationError.
func segmentIntersect(p1, p2, p3, p4 geom.Point) (pt geom.Point, ok bool, err error) {
	dx12, dy12 := p2.X-p1.X, p2.Y-p1.Y
	dx34, dy34 := p4.X-p3.X, p4.Y-p3.Y
	dx13, dy13 := p3.X-p1.X, p3.Y-p1.Y

	denom := dx12*dy34 - dy12*dx34
	if denom == 0 {
		if dx13*dy12-dy13*dx12 != 0 {
			return pt, false, nil // parallel
		}
		return collinearIntersect(p1, p2, p3, p4)
	}
	t := (dx13*dy34 - dy13*dx34) / denom
	u := (dx13*dy12 - dy13*dx12) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return pt, false, nil
	}
	return geom.Point{X: p1.X + t*dx12, Y: p1.Y + t*dy12}, true, nil
}

// collinearIntersect handles segments that lie on the same line.
func collinearIntersect(p1, p2, p3, p4 geom.Point) (geom.Point, bool, error) {
	// Project onto the axis with the larger extent.
	proj := func(p geom.Point) float64 { return p.X }
	if math.Abs(p2.X-p1.X)+math.Abs(p4.X-p3.X) < math.Abs(p2.Y-p1.Y)+math.Abs(p4.Y-p3.Y) {
		proj = func(p geom.Point) float64 { return p.Y }
	}
	aMin, aMax := minmax(proj(p1), proj(p2))
	bMin, bMax := minmax(proj(p3), proj(p4))
	lo, hi := math.Max(aMin, bMin), math.Min(aMax, bMax)
	switch {
	case lo > hi:
		return geom.Point{}, false, nil
	case lo < hi:
		return geom.Point{}, false, validationf("transect overlaps shoreline segment from (%g, %g) to (%g, %g)", p3.X, p3.Y, p4.X, p4.Y)
	}
	for _, p := range []geom.Point{p1, p2, p3, p4} {
		if proj(p) == lo {
			return p, true, nil
		}
	}
	return geom.Point{}, false, nil
}

func minmax(a, b float64) (float64, float64) {
	if a < b {
		return a, b
	}
	return b, a
}
