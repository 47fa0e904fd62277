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

// Package mshp reads and writes shapefiles whose vertices carry a measure
// value. It wraps the github.com/jonas-p/go-shp shapefile library.
package mshp

import (
	"fmt"
	"math"
	"strings"

	goshp "github.com/jonas-p/go-shp"
	"github.com/spatialmodel/shoreline"
)

// Slot selects where in a record the per-vertex measure is stored.
type Slot int

const (
	// OptionalSlot is the M (measure) array of M and Z shapes.
	OptionalSlot Slot = iota
	// ElevationSlot is the Z array of Z shapes.
	ElevationSlot
)

// ParseSlot converts "m" (or "optional") and "z" (or "elevation") into a
// Slot.
func ParseSlot(s string) (Slot, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m", "optional":
		return OptionalSlot, nil
	case "z", "elevation":
		return ElevationSlot, nil
	}
	return 0, fmt.Errorf("mshp: invalid measure slot %q; valid values are \"m\" and \"z\"", s)
}

func (s Slot) String() string {
	if s == ElevationSlot {
		return "z"
	}
	return "m"
}

// DecodeShape converts a shapefile record into a MultiLine. The values in
// the selected slot are converted into measures with wrap. Shapes without
// the selected slot decode with absent measures. record is only used in
// error messages.
func DecodeShape(record int, s goshp.Shape, slot Slot, wrap func(float64) shoreline.Measure) (shoreline.MultiLine, error) {
	switch t := s.(type) {
	case *goshp.Null:
		return shoreline.MultiLine{}, nil
	case *goshp.Point:
		return pointLine(t.X, t.Y, shoreline.NoMeasure()), nil
	case *goshp.PointM:
		m := shoreline.NoMeasure()
		if slot == OptionalSlot {
			m = wrap(t.M)
		}
		return pointLine(t.X, t.Y, m), nil
	case *goshp.PointZ:
		v := t.M
		if slot == ElevationSlot {
			v = t.Z
		}
		return pointLine(t.X, t.Y, wrap(v)), nil
	case *goshp.PolyLine:
		return lines(record, t.NumParts, t.Parts, t.NumPoints, t.Points, nil, wrap)
	case *goshp.PolyLineM:
		var v []float64
		if slot == OptionalSlot {
			v = t.MArray
		}
		return lines(record, t.NumParts, t.Parts, t.NumPoints, t.Points, v, wrap)
	case *goshp.PolyLineZ:
		v := t.MArray
		if slot == ElevationSlot {
			v = t.ZArray
		}
		return lines(record, t.NumParts, t.Parts, t.NumPoints, t.Points, v, wrap)
	case nil:
		return nil, &shoreline.DecodeError{Record: record, Msg: "missing shape"}
	default:
		return nil, &shoreline.DecodeError{Record: record, Msg: fmt.Sprintf("unsupported shape type %T", s)}
	}
}

func pointLine(x, y float64, m shoreline.Measure) shoreline.MultiLine {
	v := shoreline.Vertex{M: m}
	v.X, v.Y = x, y
	return shoreline.MultiLine{{v}}
}

func lines(record int, numParts int32, parts []int32, numPoints int32, points []goshp.Point, values []float64, wrap func(float64) shoreline.Measure) (shoreline.MultiLine, error) {
	if int(numParts) != len(parts) {
		return nil, &shoreline.DecodeError{Record: record, Msg: fmt.Sprintf("header declares %d parts but record has %d", numParts, len(parts))}
	}
	if int(numPoints) != len(points) {
		return nil, &shoreline.DecodeError{Record: record, Msg: fmt.Sprintf("header declares %d points but record has %d", numPoints, len(points))}
	}
	if values != nil && len(values) != len(points) {
		return nil, &shoreline.DecodeError{Record: record, Msg: fmt.Sprintf("record has %d points but %d measures", len(points), len(values))}
	}
	ml := make(shoreline.MultiLine, len(parts))
	for i := range parts {
		start := int(parts[i])
		end := len(points)
		if i < len(parts)-1 {
			end = int(parts[i+1])
		}
		if start < 0 || end < start || end > len(points) || (i == 0 && start != 0) {
			return nil, &shoreline.DecodeError{Record: record, Msg: fmt.Sprintf("invalid part offsets %v for %d points", parts, len(points))}
		}
		l := make(shoreline.Line, end-start)
		for j := start; j < end; j++ {
			l[j-start].X, l[j-start].Y = points[j].X, points[j].Y
			if values != nil {
				l[j-start].M = wrap(values[j])
			}
		}
		ml[i] = l
	}
	return ml, nil
}

// EncodeMultiLine converts ml into a PolyLineZ record with the resolved
// uncertainty of each vertex in the Z array. The M array is filled with
// NaN so that the values can not later be read back as point keys.
func EncodeMultiLine(ml shoreline.MultiLine) (*goshp.PolyLineZ, error) {
	n := ml.NumVertices()
	s := &goshp.PolyLineZ{
		NumParts:  int32(len(ml)),
		NumPoints: int32(n),
		Parts:     make([]int32, len(ml)),
		Points:    make([]goshp.Point, 0, n),
		ZArray:    make([]float64, 0, n),
		MArray:    make([]float64, n),
	}
	zmin, zmax := math.Inf(1), math.Inf(-1)
	for i, l := range ml {
		s.Parts[i] = int32(len(s.Points))
		for _, v := range l {
			if v.M.Kind() == shoreline.Key {
				return nil, &shoreline.ValidationError{Msg: fmt.Sprintf("vertex (%g, %g) holds an unresolved point key", v.X, v.Y)}
			}
			z := v.M.Float()
			s.Points = append(s.Points, goshp.Point{X: v.X, Y: v.Y})
			s.ZArray = append(s.ZArray, z)
			if !math.IsNaN(z) {
				zmin, zmax = math.Min(zmin, z), math.Max(zmax, z)
			}
		}
	}
	for i := range s.MArray {
		s.MArray[i] = math.NaN()
	}
	if zmin > zmax {
		zmin, zmax = 0, 0
	}
	s.ZRange = [2]float64{zmin, zmax}
	s.MRange = [2]float64{math.NaN(), math.NaN()}
	b := ml.Bounds()
	if !b.Empty() {
		s.Box = goshp.Box{MinX: b.Min.X, MinY: b.Min.Y, MaxX: b.Max.X, MaxY: b.Max.Y}
	}
	return s, nil
}

// EncodePoint converts the first vertex of ml into a Point record.
func EncodePoint(ml shoreline.MultiLine) (*goshp.Point, error) {
	if len(ml) == 0 || len(ml[0]) == 0 {
		return nil, &shoreline.ValidationError{Msg: "point feature has no vertex"}
	}
	v := ml[0][0]
	return &goshp.Point{X: v.X, Y: v.Y}, nil
}
