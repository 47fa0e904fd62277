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


package hash

import (
	"math"
	"testing"
)

type settings struct {
	Inputs []string
	Limit  float64
	Inner  *settings
}

func TestHash(t *testing.T) {
	a := &settings{Inputs: []string{"a.shp", "b.shp"}, Limit: math.NaN(), Inner: &settings{Limit: 1}}
	b := &settings{Inputs: []string{"a.shp", "b.shp"}, Limit: math.NaN(), Inner: &settings{Limit: 1}}
	c := &settings{Inputs: []string{"a.shp"}, Limit: math.NaN(), Inner: &settings{Limit: 1}}

	ha, hb, hc := Hash(a), Hash(b), Hash(c)
	if len(ha) != 16 {
		t.Errorf("have %q, want 16 characters", ha)
	}
	if ha != hb {
		t.Errorf("equal values: %s != %s", ha, hb)
	}
	if ha == hc {
		t.Errorf("different values have the same key %s", ha)
	}
}
