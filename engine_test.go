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

package seating_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	seating "github.com/groupbuilder/seatingengine"
	"github.com/groupbuilder/seatingengine/internal/cpsat/gophersat"
)

func newTestEngine() *seating.Engine {
	return seating.New(gophersat.New(), nil)
}

func quickOptions() seating.Options {
	opts := seating.DefaultOptions()
	opts.MaxTimeSeconds = 60
	opts.Workers = 1
	return opts
}

// fourWithCouples is spec scenario 1: John-Jane and Bob-Alice are couples.
func fourWithCouples() []seating.Participant {
	return []seating.Participant{
		{ID: 1, Name: "John", Religion: "Christian", Gender: "Male", PartnerName: "Jane", CoupleID: 1},
		{ID: 2, Name: "Jane", Religion: "Christian", Gender: "Female", PartnerName: "John", CoupleID: 1},
		{ID: 3, Name: "Bob", Religion: "Jewish", Gender: "Male", PartnerName: "Alice", CoupleID: 2},
		{ID: 4, Name: "Alice", Religion: "Jewish", Gender: "Female", PartnerName: "Bob", CoupleID: 2},
	}
}

// tableOf maps every seated name to its (1-based) table number.
func tableOf(t *testing.T, a seating.SessionAssignment) map[string]int {
	t.Helper()
	out := make(map[string]int)
	for table, views := range a.Tables {
		for _, v := range views {
			require.NotContains(t, out, v.Name, "participant seated twice in session %d", a.Session)
			out[v.Name] = table
		}
	}
	return out
}

// checkInvariants verifies the per-session success invariants from spec
// section 8: balance, attribute spread, and couple separation.
func checkInvariants(t *testing.T, participants []seating.Participant, a seating.SessionAssignment, tables int) {
	t.Helper()
	seats := tableOf(t, a)
	require.Len(t, seats, len(participants), "session %d must seat everyone exactly once", a.Session)

	counts := func(filter func(seating.Participant) bool) map[int]int {
		c := make(map[int]int)
		for _, p := range participants {
			if filter(p) {
				c[seats[p.Name]]++
			}
		}
		return c
	}
	gap := func(c map[int]int) int {
		max, min := 0, len(participants)
		for tb := 1; tb <= tables; tb++ {
			n := c[tb]
			if n > max {
				max = n
			}
			if n < min {
				min = n
			}
		}
		return max - min
	}

	require.LessOrEqual(t, gap(counts(func(seating.Participant) bool { return true })), 1,
		"session %d table sizes unbalanced", a.Session)

	for _, p := range participants {
		attr := p.Religion
		if attr != "" {
			c := counts(func(q seating.Participant) bool { return q.Religion == attr })
			require.LessOrEqual(t, gap(c), 1, "session %d religion %q not spread", a.Session, attr)
		}
		if p.Gender != "" {
			g := p.Gender
			c := counts(func(q seating.Participant) bool { return q.Gender == g })
			require.LessOrEqual(t, gap(c), 1, "session %d gender %q not spread", a.Session, g)
		}
	}

	byID := make(map[int]seating.Participant)
	for _, p := range participants {
		byID[p.ID] = p
	}
	couples := make(map[int][]seating.Participant)
	for _, p := range participants {
		if p.CoupleID != 0 {
			couples[p.CoupleID] = append(couples[p.CoupleID], p)
		}
	}
	for _, members := range couples {
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				require.NotEqual(t, seats[members[i].Name], seats[members[j].Name],
					"session %d seats couple %s/%s together", a.Session, members[i].Name, members[j].Name)
			}
		}
	}
}

func TestGenerateSplitsCouplesAcrossTwoTables(t *testing.T) {
	engine := newTestEngine()
	participants := fourWithCouples()

	result, err := engine.Generate(context.Background(), participants, 2, 1, quickOptions())
	require.NoError(t, err)
	require.Len(t, result.Assignments, 1)
	require.Equal(t, 1, result.Assignments[0].Session)

	checkInvariants(t, participants, result.Assignments[0], 2)
	for tb := 1; tb <= 2; tb++ {
		require.Len(t, result.Assignments[0].Tables[tb], 2)
	}
	require.Contains(t, []seating.SolutionStatus{seating.StatusOptimal, seating.StatusFeasible}, result.Report.Status)
	require.NotEmpty(t, result.Report.SolveID)
}

func TestGenerateSpreadsReligionAcrossTables(t *testing.T) {
	engine := newTestEngine()
	participants := []seating.Participant{
		{ID: 1, Name: "Amal", Religion: "Muslim", Gender: "Female"},
		{ID: 2, Name: "Beth", Religion: "Christian", Gender: "Female"},
		{ID: 3, Name: "Carl", Religion: "Christian", Gender: "Male"},
		{ID: 4, Name: "Dina", Religion: "Christian", Gender: "Female"},
		{ID: 5, Name: "Evan", Religion: "Christian", Gender: "Male"},
		{ID: 6, Name: "Fred", Religion: "Christian", Gender: "Male"},
	}

	result, err := engine.Generate(context.Background(), participants, 3, 1, quickOptions())
	require.NoError(t, err)
	require.Len(t, result.Assignments, 1)
	checkInvariants(t, participants, result.Assignments[0], 3)

	// Five Christians over three tables: no table may hold more than two.
	seats := tableOf(t, result.Assignments[0])
	christians := make(map[int]int)
	for _, p := range participants {
		if p.Religion == "Christian" {
			christians[seats[p.Name]]++
		}
	}
	for tb, n := range christians {
		require.LessOrEqual(t, n, 2, "table %d has %d Christians", tb, n)
	}
}

func TestGenerateTrivialSingleton(t *testing.T) {
	engine := newTestEngine()
	participants := []seating.Participant{{ID: 1, Name: "Solo", Religion: "other", Gender: "Female"}}

	result, err := engine.Generate(context.Background(), participants, 1, 1, quickOptions())
	require.NoError(t, err)
	require.Len(t, result.Assignments, 1)
	require.Len(t, result.Assignments[0].Tables[1], 1)
}

func TestGenerateIncrementalAutoTakesEffect(t *testing.T) {
	engine := newTestEngine()
	participants := []seating.Participant{
		{ID: 1, Name: "P1", Religion: "Christian", Gender: "Male"},
		{ID: 2, Name: "P2", Religion: "Christian", Gender: "Female"},
		{ID: 3, Name: "P3", Religion: "Jewish", Gender: "Male"},
		{ID: 4, Name: "P4", Religion: "Jewish", Gender: "Female"},
		{ID: 5, Name: "P5", Religion: "Muslim", Gender: "Male"},
		{ID: 6, Name: "P6", Religion: "Muslim", Gender: "Female"},
	}

	// Four sessions triggers the auto-incremental rule (S >= 4).
	result, err := engine.Generate(context.Background(), participants, 2, 4, quickOptions())
	require.NoError(t, err)
	require.Len(t, result.Assignments, 4)
	require.Equal(t, "incremental", result.Report.SolutionQuality)
	require.Equal(t, seating.StatusIncremental, result.Report.Status)
	require.Nil(t, result.Report.TotalDeviation)

	for i, a := range result.Assignments {
		require.Equal(t, i+1, a.Session)
		checkInvariants(t, participants, a, 2)
	}
}

func TestGenerateRejectsOutOfBoundsRequests(t *testing.T) {
	engine := newTestEngine()
	participants := fourWithCouples()
	ctx := context.Background()

	_, err := engine.Generate(ctx, participants, 0, 1, seating.Options{})
	require.True(t, seating.ErrInvalidBounds.Is(err))

	_, err = engine.Generate(ctx, participants, 11, 1, seating.Options{})
	require.True(t, seating.ErrInvalidBounds.Is(err))

	_, err = engine.Generate(ctx, participants, 2, 7, seating.Options{})
	require.True(t, seating.ErrInvalidBounds.Is(err))

	_, err = engine.Generate(ctx, participants, 2, 1, seating.Options{MaxTimeSeconds: 10})
	require.True(t, seating.ErrInvalidBounds.Is(err))

	_, err = engine.Generate(ctx, participants[:1], 2, 1, seating.Options{})
	require.True(t, seating.ErrInsufficientParticipants.Is(err))
}

func TestRegenerateSessionMovesEveryone(t *testing.T) {
	engine := newTestEngine()
	participants := fourWithCouples()
	ctx := context.Background()

	generated, err := engine.Generate(ctx, participants, 2, 1, quickOptions())
	require.NoError(t, err)

	result, err := engine.RegenerateSession(ctx, generated.Assignments, 1, nil, quickOptions())
	require.NoError(t, err)
	require.False(t, result.AssignmentsUnchanged)
	require.Len(t, result.Assignments, 1)
	require.Equal(t, 1, result.Assignments[0].Session)

	before := tableOf(t, generated.Assignments[0])
	after := tableOf(t, result.Assignments[0])
	for name, oldTable := range before {
		require.NotEqual(t, oldTable, after[name], "%s stayed at table %d", name, oldTable)
	}
	checkInvariants(t, participants, result.Assignments[0], 2)
}

func TestRegenerateSessionExcludesAbsentees(t *testing.T) {
	engine := newTestEngine()
	participants := []seating.Participant{
		{ID: 1, Name: "P1", Religion: "Christian", Gender: "Male"},
		{ID: 2, Name: "P2", Religion: "Christian", Gender: "Female"},
		{ID: 3, Name: "P3", Religion: "Jewish", Gender: "Male"},
		{ID: 4, Name: "P4", Religion: "Jewish", Gender: "Female"},
		{ID: 5, Name: "P5", Religion: "Muslim", Gender: "Male"},
		{ID: 6, Name: "P6", Religion: "Muslim", Gender: "Female"},
	}
	ctx := context.Background()

	generated, err := engine.Generate(ctx, participants, 2, 1, quickOptions())
	require.NoError(t, err)

	result, err := engine.RegenerateSession(ctx, generated.Assignments, 1, []string{"P5", "P6"}, quickOptions())
	require.NoError(t, err)

	regenerated := result.Assignments[0]
	seated := tableOf(t, regenerated)
	require.Len(t, seated, 4)
	require.NotContains(t, seated, "P5")
	require.NotContains(t, seated, "P6")

	absentNames := make([]string, 0, len(regenerated.Absent))
	for _, v := range regenerated.Absent {
		absentNames = append(absentNames, v.Name)
	}
	require.ElementsMatch(t, []string{"P5", "P6"}, absentNames)
}

func TestRegenerateSessionFallsBackToSoftWhenHardImpossible(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	// One table: nobody can move, so the hard "everyone changes table"
	// attempt is infeasible and the soft fallback must carry it.
	existing := []seating.SessionAssignment{
		{
			Session: 1,
			Tables: map[int][]seating.ParticipantView{
				1: {
					{Name: "P1", Religion: "Christian", Gender: "Male"},
					{Name: "P2", Religion: "Jewish", Gender: "Female"},
				},
			},
		},
	}

	result, err := engine.RegenerateSession(ctx, existing, 1, nil, quickOptions())
	require.NoError(t, err)
	require.True(t, result.AssignmentsUnchanged)
	seated := tableOf(t, result.Assignments[0])
	require.Equal(t, map[string]int{"P1": 1, "P2": 1}, seated)
}

func TestRegenerateSessionFailsWhenEvenSoftIsInfeasible(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	// A couple squeezed onto a single table can never be reseated: the
	// hard attempt forbids the table outright and the soft attempt still
	// cannot satisfy couple separation.
	existing := []seating.SessionAssignment{
		{
			Session: 1,
			Tables: map[int][]seating.ParticipantView{
				1: {
					{Name: "John", Religion: "Christian", Gender: "Male", Partner: "Jane"},
					{Name: "Jane", Religion: "Christian", Gender: "Female", Partner: "John"},
				},
			},
		},
	}

	_, err := engine.RegenerateSession(ctx, existing, 1, nil, quickOptions())
	require.Error(t, err)
	require.True(t, seating.ErrRegenerationImpossible.Is(err))
}

func TestRegenerateSessionRejectsBadSessionNumber(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()
	existing := []seating.SessionAssignment{
		{Session: 1, Tables: map[int][]seating.ParticipantView{1: {{Name: "P1"}}}},
	}

	_, err := engine.RegenerateSession(ctx, existing, 0, nil, seating.Options{})
	require.True(t, seating.ErrInvalidBounds.Is(err))

	_, err = engine.RegenerateSession(ctx, existing, 2, nil, seating.Options{})
	require.True(t, seating.ErrInvalidBounds.Is(err))

	_, err = engine.RegenerateSession(ctx, nil, 1, nil, seating.Options{})
	require.True(t, seating.ErrInvalidBounds.Is(err))
}

func TestRegenerateSessionLeavesOtherSessionsUntouched(t *testing.T) {
	engine := newTestEngine()
	participants := fourWithCouples()
	ctx := context.Background()

	generated, err := engine.Generate(ctx, participants, 2, 2, quickOptions())
	require.NoError(t, err)
	require.Len(t, generated.Assignments, 2)

	result, err := engine.RegenerateSession(ctx, generated.Assignments, 2, nil, quickOptions())
	require.NoError(t, err)
	require.Equal(t, generated.Assignments[0], result.Assignments[0])
	require.Equal(t, 2, result.Assignments[1].Session)
}
