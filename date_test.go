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
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2009, 3, 14, 0, 0, 0, 0, time.UTC)
	for _, in := range []interface{}{"3/14/2009", " 03/14/2009 ", want} {
		d, err := ParseDate(in)
		if err != nil {
			t.Errorf("%v: %v", in, err)
			continue
		}
		if !d.Equal(want) {
			t.Errorf("%v: have %v, want %v", in, d, want)
		}
		if s := FormatDate(d); s != "2009-03-14" {
			t.Errorf("%v: formatted as %q", in, s)
		}
	}
	for _, in := range []interface{}{"2009-03-14", "", nil, 20090314} {
		_, err := ParseDate(in)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("%#v: have %v, want ValidationError", in, err)
		}
	}
}
