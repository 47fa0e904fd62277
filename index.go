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
	"github.com/dhconnelly/rtreego"
)

// rectPad is added around every rectangle: the R-tree does not accept
// rectangles with zero extent, which vertical or horizontal segments and
// transects would otherwise have.
const rectPad = 1e-9

func toRect(b *geom.Bounds) rtreego.Rect {
	p := rtreego.Point{b.Min.X - rectPad, b.Min.Y - rectPad}
	lengths := []float64{b.Max.X - b.Min.X + 2*rectPad, b.Max.Y - b.Min.Y + 2*rectPad}
	r, err := rtreego.NewRect(p, lengths)
	if err != nil {
		panic(err) // lengths are always positive
	}
	return r
}

type indexedSegment struct {
	*ShorelineSegment
	rect rtreego.Rect
	seq  int // position in the slice the index was loaded from
}

func (s *indexedSegment) Bounds() rtreego.Rect { return s.rect }

// SpatialIndex finds the shoreline segments whose extent overlaps a query
// envelope. It is built once and not changed afterwards.
type SpatialIndex struct {
	tree *rtreego.Rtree
	n    int
}

// NewSpatialIndex bulk loads segments into a new index.
func NewSpatialIndex(segments []*ShorelineSegment) *SpatialIndex {
	objs := make([]rtreego.Spatial, len(segments))
	for i, s := range segments {
		objs[i] = &indexedSegment{ShorelineSegment: s, rect: toRect(s.Bounds()), seq: i}
	}
	return &SpatialIndex{
		tree: rtreego.NewTree(2, 25, 50, objs...),
		n:    len(segments),
	}
}

// Len returns the number of indexed segments.
func (idx *SpatialIndex) Len() int { return idx.n }

// Query returns the segments whose extent overlaps b, ordered by feature
// source, record, line and segment, then by load order. The result may
// include segments that do not actually intersect the geometry b was
// computed from.
func (idx *SpatialIndex) Query(b *geom.Bounds) []*ShorelineSegment {
	found := idx.tree.SearchIntersect(toRect(b))
	segs := make([]*indexedSegment, len(found))
	for i, s := range found {
		segs[i] = s.(*indexedSegment)
	}
	sort.Slice(segs, func(i, j int) bool {
		a, b := segs[i], segs[j]
		if a.less(b.ShorelineSegment) || b.less(a.ShorelineSegment) {
			return a.less(b.ShorelineSegment)
		}
		return a.seq < b.seq
	})
	o := make([]*ShorelineSegment, len(segs))
	for i, s := range segs {
		o[i] = s.ShorelineSegment
	}
	return o
}
