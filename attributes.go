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

	"github.com/spf13/cast"
)

// Canonical attribute names understood by AttributeGetter.
const (
	DateAttr       = "date"
	UncyAttr       = "uncy"
	SurveyIDAttr   = "surveyid"
	TransectIDAttr = "transectid"
	DistanceAttr   = "distance"
	OrientAttr     = "orient"
)

// attrAliases lists the normalized field names accepted for each canonical
// attribute.
var attrAliases = map[string][]string{
	DateAttr:       {"date", "shoredate"},
	UncyAttr:       {"uncy", "uncertainty"},
	SurveyIDAttr:   {"surveyid"},
	TransectIDAttr: {"transectid", "tid"},
	DistanceAttr:   {"distance", "dist"},
	OrientAttr:     {"orient", "orientation"},
}

// normalizeName lowercases s and drops underscores, so that "Date_",
// "DATE" and "date" are the same attribute.
func normalizeName(s string) string {
	return strings.ToLower(strings.Replace(strings.TrimSpace(s), "_", "", -1))
}

// AttributeGetter looks up attribute values by name, tolerating the
// differences in capitalization and decoration that shoreline files
// commonly have.
type AttributeGetter struct {
	fields []Field
	index  map[string]int
}

// NewAttributeGetter creates an AttributeGetter for rows with the given
// attribute fields.
func NewAttributeGetter(fields []Field) *AttributeGetter {
	g := &AttributeGetter{fields: fields, index: make(map[string]int)}
	for i, f := range fields {
		n := normalizeName(f.Name)
		if _, ok := g.index[n]; !ok {
			g.index[n] = i
		}
	}
	for canonical, aliases := range attrAliases {
		if _, ok := g.index[canonical]; ok {
			continue
		}
		for _, a := range aliases {
			if i, ok := g.index[a]; ok {
				g.index[canonical] = i
				break
			}
		}
	}
	return g
}

// Fields returns the attribute fields g was created with.
func (g *AttributeGetter) Fields() []Field { return g.fields }

// Index returns the row index of the named attribute.
func (g *AttributeGetter) Index(name string) (int, bool) {
	i, ok := g.index[normalizeName(name)]
	return i, ok
}

// Matches returns whether fieldName refers to the canonical attribute.
func (g *AttributeGetter) Matches(fieldName, canonical string) bool {
	n := normalizeName(fieldName)
	if n == canonical {
		return true
	}
	for _, a := range attrAliases[canonical] {
		if n == a {
			return true
		}
	}
	return false
}

// Value returns the value of the named attribute in row, or nil if there
// is no such attribute.
func (g *AttributeGetter) Value(name string, row Row) interface{} {
	i, ok := g.Index(name)
	if !ok || i >= len(row) {
		return nil
	}
	return row[i]
}

// Float returns the named attribute, which must hold a floating point
// value.
func (g *AttributeGetter) Float(name string, row Row) (float64, error) {
	i, ok := g.Index(name)
	if !ok {
		return 0, &SchemaMismatchError{Field: name, Expected: Float}
	}
	if i >= len(row) || row[i] == nil {
		return 0, missingValue(g.fields[i].Name)
	}
	if v, ok := row[i].(float64); ok {
		return v, nil
	}
	return 0, &SchemaMismatchError{Field: g.fields[i].Name, Expected: Float, Found: g.fields[i].Kind}
}

// Int returns the named attribute converted to an int.
func (g *AttributeGetter) Int(name string, row Row) (int, error) {
	i, ok := g.Index(name)
	if !ok {
		return 0, &SchemaMismatchError{Field: name, Expected: Integer}
	}
	if i >= len(row) || row[i] == nil {
		return 0, missingValue(g.fields[i].Name)
	}
	v, err := cast.ToIntE(row[i])
	if err != nil {
		return 0, &ValidationError{Msg: "attribute " + g.fields[i].Name, Err: err}
	}
	return v, nil
}

func missingValue(name string) error {
	return validationf("attribute %s: missing value", name)
}

// String returns the named attribute converted to a string, or "" if
// there is no such attribute.
func (g *AttributeGetter) String(name string, row Row) string {
	return cast.ToString(g.Value(name, row))
}
