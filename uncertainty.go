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
	"math"

	"github.com/sirupsen/logrus"
)

// UncertaintyKey identifies a point within a survey. Point identifiers are
// only unique within a survey.
type UncertaintyKey struct {
	PointID  int
	SurveyID string
}

// UncertaintyTable maps points to their uncertainty. It is not modified
// after it has been built.
type UncertaintyTable struct {
	m          map[UncertaintyKey]float64
	duplicates int
}

// BuildUncertaintyTable reads every row of t into an UncertaintyTable.
// t must have a numeric "id" field, a string "surveyID" field and a float
// "uncy" field. When a key appears more than once the last row wins;
// the number of such rows is reported by Duplicates and logged.
func BuildUncertaintyTable(t AttributeTable, log logrus.FieldLogger) (*UncertaintyTable, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	fields := t.Fields()
	idIdx, err := LocateField(fields, PointIDField, Number)
	if err != nil {
		return nil, err
	}
	surveyIdx, err := LocateField(fields, SurveyIDField, String)
	if err != nil {
		return nil, err
	}
	uncyIdx, err := LocateField(fields, UncertaintyField, Float)
	if err != nil {
		return nil, err
	}

	u := &UncertaintyTable{m: make(map[UncertaintyKey]float64)}
	row := 0
	for t.Next() {
		row++
		r := t.Row()
		id, ok := toPointID(r[idIdx])
		if !ok {
			return nil, validationf("uncertainty table row %d: missing point id", row)
		}
		survey, _ := r[surveyIdx].(string)
		v, ok := r[uncyIdx].(float64)
		if !ok || math.IsNaN(v) {
			return nil, validationf("uncertainty table row %d: missing uncertainty", row)
		}
		if v < 0 {
			return nil, validationf("uncertainty table row %d: negative uncertainty %g", row, v)
		}
		k := UncertaintyKey{PointID: id, SurveyID: survey}
		if _, ok := u.m[k]; ok {
			u.duplicates++
		}
		u.m[k] = v
	}
	if err := t.Err(); err != nil {
		return nil, fmt.Errorf("shoreline: reading uncertainty table: %w", err)
	}
	log.WithFields(logrus.Fields{
		"entries": len(u.m),
		"rows":    row,
	}).Info("read uncertainty table")
	if u.duplicates > 0 {
		log.WithField("duplicates", u.duplicates).Warn("uncertainty table has repeated point keys; the last row for each key is used")
	}
	return u, nil
}

func toPointID(v interface{}) (int, bool) {
	switch t := v.(type) {
	case int64:
		return int(t), true
	case float64:
		if math.IsNaN(t) {
			return 0, false
		}
		return int(t), true
	}
	return 0, false
}

// NewUncertaintyTable creates a table from an existing map. It is mostly
// useful for testing.
func NewUncertaintyTable(m map[UncertaintyKey]float64) *UncertaintyTable {
	u := &UncertaintyTable{m: make(map[UncertaintyKey]float64, len(m))}
	for k, v := range m {
		u.m[k] = v
	}
	return u
}

// Lookup returns the uncertainty for a point and whether it was found.
func (u *UncertaintyTable) Lookup(pointID int, surveyID string) (float64, bool) {
	v, ok := u.m[UncertaintyKey{PointID: pointID, SurveyID: surveyID}]
	return v, ok
}

// Len returns the number of distinct keys in u.
func (u *UncertaintyTable) Len() int { return len(u.m) }

// Duplicates returns the number of rows whose key had already been seen
// when the table was built.
func (u *UncertaintyTable) Duplicates() int { return u.duplicates }
