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
	"strings"
	"time"
)

const (
	// inputDateLayout is the layout of shoreline dates stored as text.
	inputDateLayout = "1/2/2006"
	// OutputDateLayout is the layout used when dates are written out.
	OutputDateLayout = "2006-01-02"
)

// ParseDate converts a shoreline date attribute into a time. v may be a
// time.Time or a string in month/day/year order.
func ParseDate(v interface{}) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		d, err := time.Parse(inputDateLayout, strings.TrimSpace(t))
		if err != nil {
			return time.Time{}, &ValidationError{Msg: "invalid shoreline date", Err: err}
		}
		return d, nil
	case nil:
		return time.Time{}, validationf("missing shoreline date")
	default:
		return time.Time{}, validationf("shoreline date has unsupported type %T", v)
	}
}

// FormatDate formats t using OutputDateLayout.
func FormatDate(t time.Time) string {
	return t.Format(OutputDateLayout)
}
