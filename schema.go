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
	"strconv"
	"strings"
	"time"
)

// Kind is the value type of a field.
type Kind uint8

// Field kinds. Number is only used as an expected kind: it accepts both
// Integer and Float fields.
const (
	String Kind = iota + 1
	Integer
	Float
	Date
	Bool
	Geometry
	Number
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Date:
		return "date"
	case Bool:
		return "bool"
	case Geometry:
		return "geometry"
	case Number:
		return "number"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// accepts returns whether a field declared as kind found can be read as k.
func (k Kind) accepts(found Kind) bool {
	if k == Number {
		return found == Integer || found == Float
	}
	return k == found
}

// GeometryType is the type of geometry held by a Geometry field.
type GeometryType uint8

// Supported geometry types.
const (
	PointGeometry GeometryType = iota + 1
	MultiLineGeometry
)

func (g GeometryType) String() string {
	switch g {
	case PointGeometry:
		return "point"
	case MultiLineGeometry:
		return "multiline"
	}
	return fmt.Sprintf("GeometryType(%d)", g)
}

// Field describes one column of a Schema.
type Field struct {
	Name string
	Kind Kind

	// GeometryType is only set for Geometry fields.
	GeometryType GeometryType

	// Size and Precision are the declared width and number of decimal
	// places of a DBF column. They are kept so that copied columns can
	// be written back unchanged; zero means unknown.
	Size, Precision uint8
}

// Schema is an ordered, name-keyed list of fields. Shapefile-backed
// schemas hold the geometry field at index 0 followed by the attribute
// fields.
type Schema struct {
	Name   string
	Fields []Field
}

// GeometryIndex returns the index of the first Geometry field, or -1.
func (s Schema) GeometryIndex() int {
	for i, f := range s.Fields {
		if f.Kind == Geometry {
			return i
		}
	}
	return -1
}

// Attributes returns the non-geometry fields of s in order.
func (s Schema) Attributes() []Field {
	o := make([]Field, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.Kind != Geometry {
			o = append(o, f)
		}
	}
	return o
}

// Row holds the typed values of one attribute record, in field order.
// Values are string, int64, float64, time.Time, bool or nil for blank
// numeric and date values.
type Row []interface{}

// LocateField returns the index of the field called name (compared case
// insensitively) whose declared kind can be read as expected. If several
// fields match the name the last one is used.
func LocateField(fields []Field, name string, expected Kind) (int, error) {
	idx := -1
	for i, f := range fields {
		if strings.EqualFold(f.Name, name) {
			idx = i
		}
	}
	if idx < 0 {
		return -1, &SchemaMismatchError{Field: name, Expected: expected}
	}
	if !expected.accepts(fields[idx].Kind) {
		return -1, &SchemaMismatchError{Field: name, Expected: expected, Found: fields[idx].Kind}
	}
	return idx, nil
}

// DBFKind returns the kind of a DBF column with the given type code and
// number of decimal places. Numeric columns without decimals are integers.
func DBFKind(fieldType byte, precision uint8) Kind {
	switch fieldType {
	case 'N':
		if precision > 0 {
			return Float
		}
		return Integer
	case 'F', 'O':
		return Float
	case 'D':
		return Date
	case 'L':
		return Bool
	}
	return String
}

// dbfDate is the layout of DBF date values.
const dbfDate = "20060102"

// ParseValue converts the text of a DBF cell into the typed value for f.
func ParseValue(f Field, raw string) (interface{}, error) {
	s := strings.TrimSpace(strings.Trim(raw, "\x00"))
	switch f.Kind {
	case String:
		return s, nil
	case Integer:
		if s == "" || strings.Trim(s, "*") == "" {
			return nil, nil
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			// Some writers store integers with a decimal point.
			fv, ferr := strconv.ParseFloat(s, 64)
			if ferr != nil {
				return nil, &DecodeError{Msg: fmt.Sprintf("field %q", f.Name), Err: err}
			}
			v = int64(fv)
		}
		return v, nil
	case Float:
		if s == "" || strings.Trim(s, "*") == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, &DecodeError{Msg: fmt.Sprintf("field %q", f.Name), Err: err}
		}
		return v, nil
	case Date:
		if s == "" || strings.Trim(s, "0") == "" {
			return nil, nil
		}
		t, err := time.Parse(dbfDate, s)
		if err != nil {
			return nil, &DecodeError{Msg: fmt.Sprintf("field %q", f.Name), Err: err}
		}
		return t, nil
	case Bool:
		switch strings.ToUpper(s) {
		case "T", "Y":
			return true, nil
		case "F", "N":
			return false, nil
		default:
			return nil, nil
		}
	}
	return nil, &DecodeError{Msg: fmt.Sprintf("field %q has unsupported kind %v", f.Name, f.Kind)}
}

// FormatValue converts v into DBF cell text for f. It is the inverse of
// ParseValue.
func FormatValue(f Field, v interface{}) string {
	if v == nil {
		return ""
	}
	switch t := v.(type) {
	case time.Time:
		return t.Format(dbfDate)
	case bool:
		if t {
			return "T"
		}
		return "F"
	case float64:
		return strconv.FormatFloat(t, 'f', int(f.Precision), 64)
	default:
		return fmt.Sprint(v)
	}
}

// AttributeTable is a sequence of typed attribute rows.
type AttributeTable interface {
	Fields() []Field
	Next() bool
	Row() Row
	Err() error
}

// Feature is one geometry record paired with its attribute row.
type Feature struct {
	// Record is the 1-based shapefile record number.
	Record   int
	Geometry MultiLine
	// Row holds the attribute values in the order of
	// Schema.Attributes().
	Row Row
}

// FeatureReader is a sequence of features. Geometry record N is paired
// with attribute row N.
type FeatureReader interface {
	// Schema returns the geometry field followed by the attribute fields.
	Schema() Schema
	Next() bool
	Feature() Feature
	Err() error
	// Reset starts the sequence over from the first record.
	Reset() error
}

// FeatureWriter writes features inside a transaction. Nothing written is
// visible until Commit succeeds, and Rollback discards everything written.
type FeatureWriter interface {
	// Write writes one feature. values are in the order of
	// Schema.Attributes() of the schema the writer was created with.
	Write(g MultiLine, values Row) error
	Commit() error
	Rollback() error
}

// WriterFactory creates a FeatureWriter for the given schema.
type WriterFactory func(Schema) (FeatureWriter, error)
