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
	"strings"

	"github.com/ctessum/geom"
)

// Orientation tells which way along a transect distances are positive.
type Orientation int

const (
	// Shoreward transects measure positive distances from their origin.
	Shoreward Orientation = 1
	// Seaward transects measure negative distances from their origin.
	Seaward Orientation = -1
)

// ParseOrientation converts a baseline orientation attribute into an
// Orientation. Anything other than "seaward" is Shoreward.
func ParseOrientation(s string) Orientation {
	if strings.EqualFold(strings.Trim(s, " \t\x00"), "seaward") {
		return Seaward
	}
	return Shoreward
}

// Sign returns +1 or -1.
func (o Orientation) Sign() float64 {
	if o == Seaward {
		return -1
	}
	return 1
}

func (o Orientation) String() string {
	if o == Seaward {
		return "seaward"
	}
	return "shoreward"
}

// Transect is a straight reference line cast from a baseline across the
// shorelines.
type Transect struct {
	ID          int
	Start, End  geom.Point
	Orientation Orientation
}

// NewTransect creates a transect from the first to the last point of l.
func NewTransect(id int, l geom.LineString, o Orientation) (Transect, error) {
	if len(l) < 2 {
		return Transect{}, validationf("transect %d has %d points; at least 2 are required", id, len(l))
	}
	return Transect{ID: id, Start: l[0], End: l[len(l)-1], Orientation: o}, nil
}

// Origin returns the point distances are measured from.
func (t Transect) Origin() geom.Point { return t.Start }

// Length returns the length of t.
func (t Transect) Length() float64 { return distance(t.Start, t.End) }

// Bounds returns the envelope of t.
func (t Transect) Bounds() *geom.Bounds {
	b := geom.NewBoundsPoint(t.Start)
	b.Extend(geom.NewBoundsPoint(t.End))
	return b
}

// LineString returns t as a two-point line.
func (t Transect) LineString() geom.LineString {
	return geom.LineString{t.Start, t.End}
}

// Split divides t into consecutive sub-transects no longer than maxLength.
// The sub-transects keep the ID and orientation of t. If maxLength is not
// positive or t is already short enough, t is returned alone.
func (t Transect) Split(maxLength float64) []Transect {
	l := t.Length()
	if maxLength <= 0 || l <= maxLength {
		return []Transect{t}
	}
	n := int(math.Ceil(l / maxLength))
	o := make([]Transect, n)
	at := func(f float64) geom.Point {
		return geom.Point{X: t.Start.X + f*(t.End.X-t.Start.X), Y: t.Start.Y + f*(t.End.Y-t.Start.Y)}
	}
	for i := 0; i < n; i++ {
		end := at(math.Min(float64(i+1)*maxLength/l, 1))
		if i == n-1 {
			end = t.End
		}
		o[i] = Transect{ID: t.ID, Start: at(float64(i) * maxLength / l), End: end, Orientation: t.Orientation}
	}
	o[0].Start = t.Start
	return o
}
