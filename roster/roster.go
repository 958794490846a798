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

// Package roster turns raw, untrusted roster rows into the canonical
// Participant list the rest of the engine works with: names sanitized,
// partner relationships validated for symmetry, and couples assigned a
// shared id.
package roster

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cast"

	"github.com/groupbuilder/seatingengine/internal/seatingerrors"
)

// Row is one raw, unsanitized roster entry as read off a spreadsheet or
// form submission.
type Row struct {
	Name        string
	Religion    string
	Gender      string
	Partner     string
	Facilitator interface{} // "yes"/"y"/"true"/"1" (any case), bool, or empty
}

// Participant is a sanitized, validated roster entry with couples resolved.
type Participant struct {
	ID            int
	Name          string
	Religion      string
	Gender        string
	PartnerName   string
	CoupleID      int // 0 means unpartnered
	IsFacilitator bool
}

var dangerousChars = strings.NewReplacer(
	"<", "", ">", "", "&", "", `"`, "", "'", "", "/", "", `\`, "",
	"{", "", "}", "", "[", "", "]", "",
)

var whitespaceRun = regexp.MustCompile(`\s+`)

const maxNameLength = 100

// SanitizeName strips surrounding whitespace, removes characters with
// injection potential, collapses internal whitespace runs, and truncates to
// 100 characters. Exported so callers matching user-supplied names against
// an already-normalized roster (e.g. an absentee list) apply the identical
// transformation first.
func SanitizeName(name string) string { return sanitizeName(name) }

func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	name = dangerousChars.Replace(name)
	name = whitespaceRun.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)
	if runes := []rune(name); len(runes) > maxNameLength {
		name = strings.TrimSpace(string(runes[:maxNameLength]))
	}
	return name
}

// Normalize converts raw rows into a canonical participant list. All
// roster problems (empty names, bad partner relationships) across the whole
// roster are collected and returned together (via go-multierror) rather
// than failing on the first bad row, so a caller can surface every
// offending row in one pass.
func Normalize(rows []Row) ([]Participant, error) {
	participants := make([]Participant, 0, len(rows))
	for i, row := range rows {
		partner := ""
		if row.Partner != "" {
			partner = sanitizeName(row.Partner)
		}
		isFacilitator, _ := cast.ToBoolE(row.Facilitator)
		if s, ok := row.Facilitator.(string); ok {
			isFacilitator = isFacilitatorString(s)
		}
		participants = append(participants, Participant{
			ID:            i + 1,
			Name:          sanitizeName(row.Name),
			Religion:      strings.TrimSpace(row.Religion),
			Gender:        strings.TrimSpace(row.Gender),
			PartnerName:   partner,
			IsFacilitator: isFacilitator,
		})
	}

	if err := validatePartnerRelationships(participants); err != nil {
		return nil, err
	}

	assignCoupleIDs(participants)
	return participants, nil
}

// isFacilitatorString accepts "yes", "y", "true", "1", case-insensitive.
func isFacilitatorString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "1":
		return true
	default:
		return false
	}
}

// validatePartnerRelationships checks every row for a name left empty by
// sanitization, and every partnered participant for self-partnership, a
// partner name absent from the roster, and asymmetric partnerships (A lists
// B, but B does not list A), accumulating every offending row into a single
// error.
func validatePartnerRelationships(participants []Participant) error {
	byName := make(map[string]Participant, len(participants))
	for _, p := range participants {
		byName[p.Name] = p
	}

	var errs *multierror.Error
	for _, p := range participants {
		if p.Name == "" {
			errs = multierror.Append(errs, seatingerrors.ErrInvalidRoster.New(
				"row "+strconv.Itoa(p.ID)+" has an empty name after sanitization"))
			continue
		}
		if p.PartnerName == "" {
			continue
		}
		if p.PartnerName == p.Name {
			errs = multierror.Append(errs, seatingerrors.ErrInvalidRoster.New(
				p.Name+" cannot be their own partner (row "+strconv.Itoa(p.ID)+")"))
			continue
		}
		partner, ok := byName[p.PartnerName]
		if !ok {
			errs = multierror.Append(errs, seatingerrors.ErrInvalidRoster.New(
				p.Name+" lists '"+p.PartnerName+"' as partner, but they are not in the roster (row "+strconv.Itoa(p.ID)+")"))
			continue
		}
		if partner.PartnerName != p.Name {
			errs = multierror.Append(errs, seatingerrors.ErrInvalidRoster.New(
				p.Name+" lists '"+p.PartnerName+"' as partner, but '"+p.PartnerName+"' does not list them back (rows "+strconv.Itoa(p.ID)+" and "+strconv.Itoa(partner.ID)+")"))
		}
	}
	return errs.ErrorOrNil()
}

// assignCoupleIDs mints a shared couple id the first time a partnered pair
// is encountered (scanning rows in order), keyed by the sorted name pair so
// either member's row reuses the same id.
func assignCoupleIDs(participants []Participant) {
	nextID := 1
	coupleOf := make(map[string]int)
	for i, p := range participants {
		if p.PartnerName == "" {
			continue
		}
		key := couplesKey(p.Name, p.PartnerName)
		id, ok := coupleOf[key]
		if !ok {
			id = nextID
			nextID++
			coupleOf[key] = id
		}
		participants[i].CoupleID = id
	}
}

func couplesKey(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return pair[0] + "\x00" + pair[1]
}

