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

// Package shoreline resolves per-point uncertainty for shoreline vertices
// and measures shoreline change along reference transects.
//
// Shoreline vertices carry a measure value. Before resolution the measure
// is a point identifier that, together with the survey the shoreline
// belongs to, keys into a side-car uncertainty table. The Exploder replaces
// each key with the resolved uncertainty and writes a new shapefile. The
// Engine intersects transects with the resolved shorelines and keeps one
// Intersection per transect and shoreline date, with the uncertainty
// interpolated at the intersection point.
//
// File formats are handled by the encoding/mshp and encoding/dbf
// packages; this package only works through the FeatureReader,
// FeatureWriter and AttributeTable interfaces.
package shoreline

// Version gives the version number.
const Version = "0.3.0"

// UncertaintyField is the name of the attribute holding the
// whole-feature uncertainty of a shoreline.
const UncertaintyField = "uncy"

// SurveyIDField is the name of the attribute naming the survey a
// shoreline (or an uncertainty table row) belongs to.
const SurveyIDField = "surveyID"

// PointIDField is the name of the uncertainty table attribute holding
// the point identifier.
const PointIDField = "id"

// RecordIndexField is the name of the column appended by the Exploder
// that holds the shapefile record number of the source feature.
const RecordIndexField = "inShape"

// DistributedUncertainty is the value written into the UncertaintyField
// of exploded features to mark that the uncertainty now lives on the
// vertices.
const DistributedUncertainty = -1.0
