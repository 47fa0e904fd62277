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
	"strconv"
	"strings"
	"time"

	"github.com/ctessum/geom"
)

// Intersection is the point where a transect crosses a shoreline.
//
// The uncertainty of an Intersection is computed on first use and then
// cached, so an Intersection must not be shared between goroutines until
// Uncertainty has been called once.
type Intersection struct {
	Point geom.Point

	// Distance is the signed distance from the transect origin.
	Distance   float64
	TransectID int

	row   Row
	attrs *AttributeGetter

	// segment is the crossed shoreline segment. It is nil for
	// intersections read back from a file.
	segment *ShorelineSegment

	uncy     float64
	uncyErr  error
	uncyDone bool
}

// NewIntersection creates an intersection of transect transectID with seg
// at pt.
func NewIntersection(pt geom.Point, distance float64, seg *ShorelineSegment, transectID int) *Intersection {
	return &Intersection{
		Point:      pt,
		Distance:   distance,
		TransectID: transectID,
		row:        seg.Feature.Row,
		attrs:      seg.Feature.Attrs,
		segment:    seg,
	}
}

// IntersectionFromFeature reconstructs an intersection from a feature
// written with IntersectionSchema. Its uncertainty is the stored
// uncertainty attribute.
func IntersectionFromFeature(f Feature, attrs *AttributeGetter) (*Intersection, error) {
	if len(f.Geometry) == 0 || len(f.Geometry[0]) == 0 {
		return nil, validationf("intersection record %d has no point", f.Record)
	}
	id, err := attrs.Int(TransectIDAttr, f.Row)
	if err != nil {
		return nil, err
	}
	d, err := attrs.Float(DistanceAttr, f.Row)
	if err != nil {
		return nil, err
	}
	return &Intersection{
		Point:      f.Geometry[0][0].Point,
		Distance:   d,
		TransectID: id,
		row:        f.Row,
		attrs:      attrs,
	}, nil
}

// Segment returns the crossed shoreline segment, or nil.
func (x *Intersection) Segment() *ShorelineSegment { return x.segment }

// Row returns the attributes of the crossed shoreline.
func (x *Intersection) Row() Row { return x.row }

// Date returns the date of the crossed shoreline.
func (x *Intersection) Date() (time.Time, error) {
	return ParseDate(x.attrs.Value(DateAttr, x.row))
}

// Uncertainty returns the uncertainty at the intersection. If both ends of
// the crossed segment carry a resolved uncertainty, it is their linear
// interpolation at the intersection point (or the smaller one for a
// zero-length segment). Otherwise it is the shoreline's own uncertainty
// attribute, which must be a floating point value.
func (x *Intersection) Uncertainty() (float64, error) {
	if !x.uncyDone {
		x.uncy, x.uncyErr = x.uncertainty()
		x.uncyDone = true
	}
	return x.uncy, x.uncyErr
}

func (x *Intersection) uncertainty() (float64, error) {
	u, ok, err := x.pointUncertainty()
	if err != nil || ok {
		return u, err
	}
	return x.attrs.Float(UncyAttr, x.row)
}

func (x *Intersection) pointUncertainty() (float64, bool, error) {
	if x.segment == nil {
		return 0, false, nil
	}
	u1, ok1 := x.segment.A.M.Uncertainty()
	u2, ok2 := x.segment.B.M.Uncertainty()
	if !ok1 || !ok2 {
		return 0, false, nil
	}
	if u1 < 0 || u2 < 0 {
		return 0, false, validationf("point uncertainties can not be less than zero (%g, %g)", u1, u2)
	}
	d1 := distance(x.segment.A.Point, x.Point)
	d2 := distance(x.segment.B.Point, x.Point)
	if dt := d1 + d2; dt > 0 {
		return (d2*u1 + d1*u2) / dt, true, nil
	}
	return math.Min(u1, u2), true, nil
}

// Format returns the date, distance and uncertainty of x separated by tabs.
func (x *Intersection) Format() (string, error) {
	d, err := x.Date()
	if err != nil {
		return "", err
	}
	u, err := x.Uncertainty()
	if err != nil {
		return "", err
	}
	return strings.Join([]string{
		FormatDate(d),
		strconv.FormatFloat(x.Distance, 'g', -1, 64),
		strconv.FormatFloat(u, 'g', -1, 64),
	}, "\t"), nil
}

func (x *Intersection) String() string {
	s, err := x.Format()
	if err != nil {
		return fmt.Sprintf("transect %d: %v", x.TransectID, err)
	}
	return s
}

// Policy selects which intersection is kept when a transect crosses
// several shorelines of the same date.
type Policy int

const (
	// Closest keeps the intersection nearest to the transect origin.
	Closest Policy = iota
	// Farthest keeps the intersection farthest from the transect origin.
	Farthest
)

func (p Policy) String() string {
	if p == Farthest {
		return "farthest"
	}
	return "closest"
}

// Compare returns whichever of a and b is preferred under p. a is returned
// unless b is strictly closer (or strictly farther) than a.
func Compare(a, b *Intersection, p Policy) *Intersection {
	da, db := math.Abs(a.Distance), math.Abs(b.Distance)
	switch {
	case p == Closest && db < da:
		return b
	case p == Farthest && db > da:
		return b
	}
	return a
}

// AbsoluteFarthest returns the largest absolute distance in xs, or min if
// none is larger.
func AbsoluteFarthest(min float64, xs []*Intersection) float64 {
	m := min
	for _, x := range xs {
		if d := math.Abs(x.Distance); d > m {
			m = d
		}
	}
	return m
}

// IntersectionSchema returns the schema intersections are written with: a
// point geometry, the transect ID, the distance and the uncertainty,
// followed by the attribute fields of the given shoreline schemas. Fields
// are de-duplicated by name, and shoreline uncertainty fields are dropped.
func IntersectionSchema(shorelines ...[]Field) Schema {
	s := Schema{
		Name: "Intersections",
		Fields: []Field{
			{Name: "geom", Kind: Geometry, GeometryType: PointGeometry},
			{Name: "TransectID", Kind: Integer, Size: 10},
			{Name: "Distance", Kind: Float, Size: 19, Precision: 8},
			{Name: UncertaintyField, Kind: Float, Size: 19, Precision: 11},
		},
	}
	seen := map[string]bool{"transectid": true, "distance": true, UncertaintyField: true}
	for _, fields := range shorelines {
		for _, f := range fields {
			n := strings.ToLower(f.Name)
			if f.Kind == Geometry || seen[n] {
				continue
			}
			seen[n] = true
			s.Fields = append(s.Fields, f)
		}
	}
	return s
}

// Values returns the geometry and attribute values of x for a schema made
// by IntersectionSchema.
func (x *Intersection) Values(s Schema) (MultiLine, Row, error) {
	attrs := s.Attributes()
	row := make(Row, len(attrs))
	for i, f := range attrs {
		switch {
		case x.attrs.Matches(f.Name, TransectIDAttr):
			row[i] = int64(x.TransectID)
		case x.attrs.Matches(f.Name, DistanceAttr):
			row[i] = x.Distance
		case x.attrs.Matches(f.Name, UncyAttr):
			u, err := x.Uncertainty()
			if err != nil {
				return nil, nil, err
			}
			row[i] = u
		default:
			row[i] = x.attrs.Value(f.Name, x.row)
		}
	}
	return MultiLine{{{Point: x.Point}}}, row, nil
}
