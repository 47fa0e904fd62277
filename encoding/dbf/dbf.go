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

// Package dbf reads stand-alone dBase (.dbf) attribute tables, such as the
// uncertainty tables that accompany shoreline shapefiles.
package dbf

import (
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/LindsayBradford/go-dbf/godbf"
	"github.com/axgle/mahonia"
	"github.com/spatialmodel/shoreline"
)

// DefaultEncoding is the character encoding of text columns used by Open.
const DefaultEncoding = "UTF-8"

const (
	eofMarker        = 0x1A
	headerLength     = 32
	descriptorLength = 32
)

// Table reads the rows of a dBase file in order. It implements
// shoreline.AttributeTable. Rows marked as deleted are skipped.
type Table struct {
	t      *godbf.DbfTable
	fields []shoreline.Field

	next int
	row  shoreline.Row
	err  error
}

// Open opens the dBase file at path, assuming DefaultEncoding.
func Open(path string) (*Table, error) {
	return OpenEncoding(path, DefaultEncoding)
}

// OpenEncoding opens the dBase file at path whose text columns use the
// named character encoding.
func OpenEncoding(path, encoding string) (*Table, error) {
	if mahonia.GetCharset(encoding) == nil {
		return nil, fmt.Errorf("dbf: unknown character encoding %q", encoding)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dbf: %w", err)
	}
	// go-shp does not terminate the tables it writes.
	if n := len(data); n > 0 && data[n-1] != eofMarker {
		data = append(data, eofMarker)
	}
	t, err := godbf.NewFromByteArray(data, encoding)
	if err != nil {
		return nil, &shoreline.DecodeError{Msg: "reading dbf header of " + path, Err: err}
	}

	// Columns of unsupported types and repeated names are dropped by
	// godbf, which would shift every following column.
	declared := (int(binary.LittleEndian.Uint16(data[8:10])) - headerLength - 1) / descriptorLength
	if len(t.Fields()) != declared {
		return nil, &shoreline.DecodeError{Msg: fmt.Sprintf("%s declares %d columns but only %d have a supported type and a unique name", path, declared, len(t.Fields()))}
	}

	tbl := &Table{t: t}
	for _, fd := range t.Fields() {
		fd := fd
		tbl.fields = append(tbl.fields, shoreline.Field{
			Name:      strings.TrimSpace(fd.Name()),
			Kind:      shoreline.DBFKind(byte(fd.FieldType()), fd.DecimalPlaces()),
			Size:      fd.Length(),
			Precision: fd.DecimalPlaces(),
		})
	}
	return tbl, nil
}

// Fields returns the columns of the table.
func (t *Table) Fields() []shoreline.Field { return t.fields }

// Len returns the number of rows declared in the header, including
// deleted rows.
func (t *Table) Len() int { return t.t.NumberOfRecords() }

// Next reads the next row. It returns false at the end of the table or on
// error.
func (t *Table) Next() bool {
	for t.err == nil && t.next < t.t.NumberOfRecords() {
		i := t.next
		t.next++
		if t.t.RowIsDeleted(i) {
			continue
		}
		row := make(shoreline.Row, len(t.fields))
		for j, f := range t.fields {
			v, err := shoreline.ParseValue(f, t.t.FieldValue(i, j))
			if err != nil {
				if de, ok := err.(*shoreline.DecodeError); ok {
					de.Record = i + 1
				}
				t.err = err
				return false
			}
			row[j] = v
		}
		t.row = row
		return true
	}
	return false
}

// Row returns the current row.
func (t *Table) Row() shoreline.Row { return t.row }

// Err returns the first error encountered while reading.
func (t *Table) Err() error { return t.err }

// Close releases the table. The file itself is closed by Open once it has
// been read.
func (t *Table) Close() error { return nil }
