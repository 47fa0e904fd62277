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
	"sort"

	"github.com/ctessum/geom"
	"github.com/sirupsen/logrus"
)

// Intersections holds at most one Intersection per shoreline date, keyed
// by the date formatted with OutputDateLayout.
type Intersections map[string]*Intersection

// Dates returns the keys of xs in ascending order.
func (xs Intersections) Dates() []string {
	o := make([]string, 0, len(xs))
	for d := range xs {
		o = append(o, d)
	}
	sort.Strings(o)
	return o
}

// Sorted returns the intersections in xs ordered by date.
func (xs Intersections) Sorted() []*Intersection {
	dates := xs.Dates()
	o := make([]*Intersection, len(dates))
	for i, d := range dates {
		o[i] = xs[d]
	}
	return o
}

// merge stores x under date unless an intersection preferred under p is
// already there.
func (xs Intersections) merge(date string, x *Intersection, p Policy) {
	if old, ok := xs[date]; ok {
		xs[date] = Compare(old, x, p)
		return
	}
	xs[date] = x
}

// Engine intersects transects with the shorelines in an index.
type Engine struct {
	Index  *SpatialIndex
	Policy Policy

	// Log receives debugging messages. If nil, the standard logrus
	// logger is used.
	Log logrus.FieldLogger
}

func (e *Engine) log() logrus.FieldLogger {
	if e.Log == nil {
		return logrus.StandardLogger()
	}
	return e.Log
}

// Calculate returns the intersections of t with the indexed shorelines,
// one per shoreline date. Distances are signed by the orientation of t.
// When t crosses several shorelines of one date, the one preferred by the
// engine's Policy is kept; of equally distant ones, the one from the
// earliest shoreline record is kept.
func (e *Engine) Calculate(t Transect) (Intersections, error) {
	xs := make(Intersections)
	origin := t.Origin()
	candidates := e.Index.Query(t.Bounds())
	for _, seg := range candidates {
		pt, ok, err := segmentIntersect(t.Start, t.End, seg.A.Point, seg.B.Point)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		x := NewIntersection(pt, t.Orientation.Sign()*distance(origin, pt), seg, t.ID)
		date, err := x.Date()
		if err != nil {
			return nil, err
		}
		xs.merge(FormatDate(date), x, e.Policy)
	}
	e.log().WithFields(logrus.Fields{
		"transect":      t.ID,
		"candidates":    len(candidates),
		"intersections": len(xs),
	}).Debug("calculated transect intersections")
	return xs, nil
}

// UpdateWithSubTransect calculates the intersections of sub, which is a
// piece of a longer transect starting at origin, and merges them into
// soFar. Distances are measured from origin and signed by the orientation
// of sub.
func (e *Engine) UpdateWithSubTransect(soFar Intersections, origin geom.Point, sub Transect) error {
	xs, err := e.Calculate(sub)
	if err != nil {
		return err
	}
	for _, date := range xs.Dates() {
		x := xs[date]
		x.Distance = sub.Orientation.Sign() * distance(x.Point, origin)
		soFar.merge(date, x, e.Policy)
	}
	return nil
}

// CalculateSplit is like Calculate, but processes t in pieces no longer
// than maxLength.
func (e *Engine) CalculateSplit(t Transect, maxLength float64) (Intersections, error) {
	parts := t.Split(maxLength)
	if len(parts) == 1 {
		return e.Calculate(t)
	}
	xs := make(Intersections)
	for _, p := range parts {
		if err := e.UpdateWithSubTransect(xs, t.Origin(), p); err != nil {
			return nil, err
		}
	}
	return xs, nil
}
