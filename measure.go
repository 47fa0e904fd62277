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

	"github.com/ctessum/geom"
)

// MeasureKind tells how the third value of a vertex is to be interpreted.
type MeasureKind uint8

const (
	// Absent means the vertex carries no usable value.
	Absent MeasureKind = iota
	// Key means the value is a raw point identifier that has not been
	// resolved against an uncertainty table yet.
	Key
	// Uncertainty means the value is a resolved uncertainty.
	Uncertainty
)

func (k MeasureKind) String() string {
	switch k {
	case Absent:
		return "absent"
	case Key:
		return "key"
	case Uncertainty:
		return "uncertainty"
	default:
		return fmt.Sprintf("MeasureKind(%d)", k)
	}
}

// noData is the shapefile convention for missing measures: any value
// below it is treated as absent.
const noData = -1e38

// Measure is the third per-vertex value. A Measure is either absent, a raw
// point key or a resolved uncertainty, and a value of one kind can not be
// read as the other.
type Measure struct {
	kind  MeasureKind
	value float64
}

// NoMeasure returns an absent Measure.
func NoMeasure() Measure { return Measure{} }

// KeyMeasure returns a Measure holding a raw point key. NaN and shapefile
// no-data values give an absent Measure.
func KeyMeasure(v float64) Measure { return newMeasure(Key, v) }

// UncertaintyMeasure returns a Measure holding a resolved uncertainty.
// NaN and shapefile no-data values give an absent Measure.
func UncertaintyMeasure(v float64) Measure { return newMeasure(Uncertainty, v) }

func newMeasure(k MeasureKind, v float64) Measure {
	if math.IsNaN(v) || v < noData {
		return Measure{}
	}
	return Measure{kind: k, value: v}
}

// Kind returns the kind of m.
func (m Measure) Kind() MeasureKind { return m.kind }

// Key returns the point identifier held by m, truncated toward zero, and
// whether m is a Key measure.
func (m Measure) Key() (int, bool) {
	if m.kind != Key {
		return 0, false
	}
	return int(m.value), true
}

// Uncertainty returns the uncertainty held by m and whether m is an
// Uncertainty measure.
func (m Measure) Uncertainty() (float64, bool) {
	if m.kind != Uncertainty {
		return math.NaN(), false
	}
	return m.value, true
}

// Float returns the stored value, or NaN if m is absent. It is meant for
// encoders that need to write the value into a file slot.
func (m Measure) Float() float64 {
	if m.kind == Absent {
		return math.NaN()
	}
	return m.value
}

func (m Measure) String() string {
	if m.kind == Absent {
		return "absent"
	}
	return fmt.Sprintf("%v(%g)", m.kind, m.value)
}

// Vertex is a planar point with a Measure.
type Vertex struct {
	geom.Point
	M Measure
}

// Line is an ordered sequence of vertices.
type Line []Vertex

// MultiLine is an ordered sequence of lines. All supported geometries are
// represented as a MultiLine; a point is a single line of one vertex.
type MultiLine []Line

// NumVertices returns the total number of vertices in ml.
func (ml MultiLine) NumVertices() int {
	n := 0
	for _, l := range ml {
		n += len(l)
	}
	return n
}

// Geom returns the planar geometry of ml.
func (ml MultiLine) Geom() geom.MultiLineString {
	o := make(geom.MultiLineString, len(ml))
	for i, l := range ml {
		o[i] = make(geom.LineString, len(l))
		for j, v := range l {
			o[i][j] = v.Point
		}
	}
	return o
}

// Bounds returns the planar extent of ml.
func (ml MultiLine) Bounds() *geom.Bounds {
	b := geom.NewBounds()
	for _, l := range ml {
		for _, v := range l {
			b.Extend(geom.NewBoundsPoint(v.Point))
		}
	}
	return b
}
