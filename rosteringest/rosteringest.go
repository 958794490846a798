// Copyright 2026 The GroupBuilder Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package rosteringest is the seam between a generic tabular row source (a
// spreadsheet library, an HTTP form decoder, a CSV reader — all out of
// scope for this engine) and roster.Row. A caller that has already parsed
// rows into string-keyed maps hands them here; FromRecords does nothing
// more than column lookup and trimming of surrounding whitespace, leaving
// sanitization and validation to roster.
package rosteringest

import (
	"strings"

	"github.com/groupbuilder/seatingengine/roster"
)

// ColumnMap names the source columns to read, letting a caller whose
// spreadsheet uses different headers (e.g. lowercase, localized) reuse this
// adapter without forking it.
type ColumnMap struct {
	Name, Religion, Gender, Partner, Facilitator string
}

// DefaultColumns matches the upstream spreadsheet template's headers.
var DefaultColumns = ColumnMap{
	Name:        "Name",
	Religion:    "Religion",
	Gender:      "Gender",
	Partner:     "Partner",
	Facilitator: "Facilitator",
}

// FromRecords converts generic string-keyed rows (as produced by a
// spreadsheet parser or form decoder) into roster.Row values, using cols to
// resolve column names. Missing columns read as the zero value, matching
// how a missing "Facilitator" column upstream means "nobody facilitates".
func FromRecords(records []map[string]string, cols ColumnMap) []roster.Row {
	rows := make([]roster.Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, roster.Row{
			Name:        strings.TrimSpace(rec[cols.Name]),
			Religion:    strings.TrimSpace(rec[cols.Religion]),
			Gender:      strings.TrimSpace(rec[cols.Gender]),
			Partner:     strings.TrimSpace(rec[cols.Partner]),
			Facilitator: rec[cols.Facilitator],
		})
	}
	return rows
}
