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

package roster

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeSanitizesNames(t *testing.T) {
	rows := []Row{
		{Name: "  John   <Doe>  ", Religion: "Christian", Gender: "Male"},
	}
	out, err := Normalize(rows)
	require.NoError(t, err)
	require.Equal(t, "John Doe", out[0].Name)
}

func TestNormalizeTruncatesLongNames(t *testing.T) {
	long := ""
	for i := 0; i < 150; i++ {
		long += "a"
	}
	out, err := Normalize([]Row{{Name: long}})
	require.NoError(t, err)
	require.Len(t, out[0].Name, 100)
}

func TestNormalizeAssignsCoupleIDs(t *testing.T) {
	rows := []Row{
		{Name: "Jane Doe", Partner: "John Doe"},
		{Name: "John Doe", Partner: "Jane Doe"},
		{Name: "Ali Hassan"},
	}
	out, err := Normalize(rows)
	require.NoError(t, err)
	require.NotZero(t, out[0].CoupleID)
	require.Equal(t, out[0].CoupleID, out[1].CoupleID)
	require.Zero(t, out[2].CoupleID)
}

func TestNormalizeRejectsEmptyNameAfterSanitization(t *testing.T) {
	for _, name := range []string{"", "   ", "<<<>>>", ` {[\/]} `} {
		_, err := Normalize([]Row{{Name: name, Religion: "Christian", Gender: "Male"}})
		require.Errorf(t, err, "name %q should be rejected", name)
	}
}

func TestNormalizeRejectsSelfPartnership(t *testing.T) {
	_, err := Normalize([]Row{{Name: "Jane Doe", Partner: "Jane Doe"}})
	require.Error(t, err)
}

func TestNormalizeRejectsMissingPartner(t *testing.T) {
	_, err := Normalize([]Row{{Name: "Jane Doe", Partner: "Ghost"}})
	require.Error(t, err)
}

func TestNormalizeRejectsAsymmetricPartnership(t *testing.T) {
	rows := []Row{
		{Name: "Jane Doe", Partner: "John Doe"},
		{Name: "John Doe", Partner: "Someone Else"},
		{Name: "Someone Else"},
	}
	_, err := Normalize(rows)
	require.Error(t, err)
}

func TestNormalizeFacilitatorTruthyStrings(t *testing.T) {
	rows := []Row{
		{Name: "A", Facilitator: "yes"},
		{Name: "B", Facilitator: "Y"},
		{Name: "C", Facilitator: "TRUE"},
		{Name: "D", Facilitator: "1"},
		{Name: "E", Facilitator: "no"},
		{Name: "F", Facilitator: ""},
	}
	out, err := Normalize(rows)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		require.Truef(t, out[i].IsFacilitator, "row %d should be facilitator", i)
	}
	require.False(t, out[4].IsFacilitator)
	require.False(t, out[5].IsFacilitator)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	rows := []Row{
		{Name: "  Jane   <Doe> ", Religion: "Jewish", Gender: "Female", Partner: " John  Doe "},
		{Name: "John Doe", Religion: "Jewish", Gender: "Male", Partner: "Jane Doe"},
	}
	once, err := Normalize(rows)
	require.NoError(t, err)

	again := make([]Row, len(once))
	for i, p := range once {
		again[i] = Row{Name: p.Name, Religion: p.Religion, Gender: p.Gender, Partner: p.PartnerName}
	}
	twice, err := Normalize(again)
	require.NoError(t, err)
	for i := range once {
		require.Equal(t, once[i].Name, twice[i].Name)
		require.Equal(t, once[i].PartnerName, twice[i].PartnerName)
		require.Equal(t, once[i].CoupleID, twice[i].CoupleID)
	}
}

func TestCoupleIDsCanonicalUnderRowReordering(t *testing.T) {
	forward := []Row{
		{Name: "Jane Doe", Partner: "John Doe"},
		{Name: "John Doe", Partner: "Jane Doe"},
		{Name: "Amal Hassan", Partner: "Omar Hassan"},
		{Name: "Omar Hassan", Partner: "Amal Hassan"},
	}
	reversed := []Row{forward[3], forward[2], forward[1], forward[0]}

	a, err := Normalize(forward)
	require.NoError(t, err)
	b, err := Normalize(reversed)
	require.NoError(t, err)

	coupleKey := func(ps []Participant) map[string]map[string]bool {
		groups := make(map[int][]string)
		for _, p := range ps {
			groups[p.CoupleID] = append(groups[p.CoupleID], p.Name)
		}
		out := make(map[string]map[string]bool)
		for _, names := range groups {
			set := make(map[string]bool)
			for _, n := range names {
				set[n] = true
			}
			for _, n := range names {
				out[n] = set
			}
		}
		return out
	}
	// The numbering differs with row order, but the partition into couples
	// is identical.
	require.Equal(t, coupleKey(a), coupleKey(b))
}

func TestSanitizeNameIsIdempotent(t *testing.T) {
	in := `  <script>  Jane \ {Doe}  `
	once := SanitizeName(in)
	require.Equal(t, once, SanitizeName(once))
}

func TestNormalizeAccumulatesMultipleErrors(t *testing.T) {
	rows := []Row{
		{Name: "A", Partner: "A"},
		{Name: "B", Partner: "Ghost"},
		{Name: "<>"},
	}
	_, err := Normalize(rows)
	require.Error(t, err)
	require.Contains(t, err.Error(), "3 errors occurred")
}
