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

import "fmt"

// DecodeError is returned when a geometry record cannot be decoded.
type DecodeError struct {
	// Record is the 1-based record number, or 0 if unknown.
	Record int
	Msg    string
	Err    error
}

func (e *DecodeError) Error() string {
	s := "shoreline: decoding"
	if e.Record > 0 {
		s += fmt.Sprintf(" record %d", e.Record)
	}
	s += ": " + e.Msg
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *DecodeError) Unwrap() error { return e.Err }

// SchemaMismatchError is returned when an expected field is missing or
// its declared type is not compatible with the expected type.
type SchemaMismatchError struct {
	Field    string
	Expected Kind
	// Found is the declared kind of the field, or 0 if the field
	// is missing.
	Found Kind
}

func (e *SchemaMismatchError) Error() string {
	if e.Found == 0 {
		return fmt.Sprintf("shoreline: field %q not found (expected %v)", e.Field, e.Expected)
	}
	return fmt.Sprintf("shoreline: field %q has type %v; expected %v", e.Field, e.Found, e.Expected)
}

// ValidationError is returned for values that are out of their valid
// domain, such as negative uncertainties or unparseable dates.
type ValidationError struct {
	Msg string
	Err error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return "shoreline: " + e.Msg + ": " + e.Err.Error()
	}
	return "shoreline: " + e.Msg
}

func (e *ValidationError) Unwrap() error { return e.Err }

// PreconditionError is returned when the input is structurally unsuitable
// for an operation, before any output has been written.
type PreconditionError struct {
	Msg string
}

func (e *PreconditionError) Error() string { return "shoreline: " + e.Msg }

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
