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

// Package modelbuild turns a core.Problem into an internal/cpsat.Model:
// one boolean decision variable per (participant, session, table) cell,
// the hard constraints (assignment, balance, attribute spread, couple
// separation, locks, forbidden tables, symmetry breaking), and the
// penalty terms that discourage repeat pairings.
package modelbuild

import (
	"github.com/groupbuilder/seatingengine/internal/core"
	"github.com/groupbuilder/seatingengine/internal/cpsat"
)

// Vars is the decision-variable index produced by Build, handed to the
// Result Decoder so it can read x[p,s,t] back out of a solved model.
type Vars struct {
	lits map[varKey]cpsat.Lit
}

type varKey struct {
	participant int
	session     int
	table       int
}

// Lit returns the decision variable for participant, session, table, or
// false if that combination was never allocated (e.g. a participant absent
// from the problem).
func (v *Vars) Lit(participantID, session, table int) (cpsat.Lit, bool) {
	l, ok := v.lits[varKey{participantID, session, table}]
	return l, ok
}

// PairingWindowDefault is the default near-window size: repeat meetings
// this many sessions apart (or closer) are penalized.
const PairingWindowDefault = 3

// Build constructs the CP-SAT-class model for problem. The returned Vars
// lets callers decode a solved cpsat.Result back into seating assignments.
func Build(problem core.Problem) (*cpsat.Model, *Vars, error) {
	m := cpsat.NewModel()
	vars := &Vars{lits: make(map[varKey]cpsat.Lit)}

	window := problem.PairingWindow
	if window <= 0 {
		window = PairingWindowDefault
	}

	// Decision variables: x[p,s,t] for every participant, session, table.
	for _, p := range problem.Participants {
		for s := 0; s < problem.Sessions; s++ {
			for t := 0; t < problem.Tables; t++ {
				vars.lits[varKey{p.ID, s, t}] = m.NewBoolVar("x")
			}
		}
	}

	addExactlyOnePerSession(m, vars, problem)
	addTableSizeBalance(m, vars, problem)
	addAttributeSpread(m, vars, problem)
	addCoupleSeparation(m, vars, problem)
	addLockedPositions(m, vars, problem)
	addForbiddenSameTable(m, vars, problem)
	addSymmetryBreaking(m, vars, problem)

	meets := newMeetsCache(m, vars, problem)
	addNearWindowPenalty(m, meets, problem, window)
	addHistoricalPenalty(m, meets, problem)
	addSameTableVarietyPenalty(m, vars, problem)

	return m, vars, nil
}

// addExactlyOnePerSession requires that for every p and s, exactly
// one table is chosen.
func addExactlyOnePerSession(m *cpsat.Model, vars *Vars, problem core.Problem) {
	for _, p := range problem.Participants {
		for s := 0; s < problem.Sessions; s++ {
			lits := make([]cpsat.Lit, 0, problem.Tables)
			for t := 0; t < problem.Tables; t++ {
				lits = append(lits, vars.lits[varKey{p.ID, s, t}])
			}
			m.AddExactlyOne(lits)
		}
	}
}

// addTableSizeBalance requires that, per session, max headcount
// across tables minus min headcount across tables is at most 1.
func addTableSizeBalance(m *cpsat.Model, vars *Vars, problem core.Problem) {
	for s := 0; s < problem.Sessions; s++ {
		groups := make([][]cpsat.Lit, problem.Tables)
		for t := 0; t < problem.Tables; t++ {
			group := make([]cpsat.Lit, 0, len(problem.Participants))
			for _, p := range problem.Participants {
				group = append(group, vars.lits[varKey{p.ID, s, t}])
			}
			groups[t] = group
		}
		m.AddMaxMinGapAtMostOne(groups)
	}
}

// addAttributeSpread applies the same max-min<=1 pattern per session, per
// attribute kind (religion, gender), per distinct value of that attribute,
// counting only participants carrying that value.
func addAttributeSpread(m *cpsat.Model, vars *Vars, problem core.Problem) {
	for s := 0; s < problem.Sessions; s++ {
		addSpreadForAttribute(m, vars, problem, s, func(p core.Participant) string { return p.Religion })
		addSpreadForAttribute(m, vars, problem, s, func(p core.Participant) string { return p.Gender })
	}
}

func addSpreadForAttribute(m *cpsat.Model, vars *Vars, problem core.Problem, s int, attr func(core.Participant) string) {
	values := distinctValues(problem.Participants, attr)
	for _, value := range values {
		if value == "" {
			continue
		}
		groups := make([][]cpsat.Lit, problem.Tables)
		for t := 0; t < problem.Tables; t++ {
			var group []cpsat.Lit
			for _, p := range problem.Participants {
				if attr(p) != value {
					continue
				}
				group = append(group, vars.lits[varKey{p.ID, s, t}])
			}
			groups[t] = group
		}
		m.AddMaxMinGapAtMostOne(groups)
	}
}

func distinctValues(participants []core.Participant, attr func(core.Participant) string) []string {
	seen := make(map[string]bool)
	var values []string
	for _, p := range participants {
		v := attr(p)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return values
}

// addCoupleSeparation requires that every couple group sits at
// different tables, every session.
func addCoupleSeparation(m *cpsat.Model, vars *Vars, problem core.Problem) {
	groups := make(map[int][]core.Participant)
	for _, p := range problem.Participants {
		if p.CoupleID == 0 {
			continue
		}
		groups[p.CoupleID] = append(groups[p.CoupleID], p)
	}
	for _, members := range groups {
		if len(members) < 2 {
			continue
		}
		for s := 0; s < problem.Sessions; s++ {
			for t := 0; t < problem.Tables; t++ {
				lits := make([]cpsat.Lit, 0, len(members))
				for _, p := range members {
					lits = append(lits, vars.lits[varKey{p.ID, s, t}])
				}
				m.AddAtMostOneQuadratic(lits)
			}
		}
	}
}

// addLockedPositions fixes every pre-decided cell.
func addLockedPositions(m *cpsat.Model, vars *Vars, problem core.Problem) {
	for key, value := range problem.Locked {
		lit, ok := vars.lits[varKey{key.ParticipantID, key.Session, key.Table}]
		if !ok {
			continue
		}
		if value {
			m.Fix(lit)
		} else {
			m.Fix(lit.Negate())
		}
	}
}

// addForbiddenSameTable applies in hard-mode regeneration only:
// forbid a participant from landing back at their current table in session
// 0 (single-session regeneration always models exactly one session).
func addForbiddenSameTable(m *cpsat.Model, vars *Vars, problem core.Problem) {
	if !problem.RequireDifferent {
		return
	}
	for participantID, table := range problem.CurrentTable {
		lit, ok := vars.lits[varKey{participantID, 0, table}]
		if !ok {
			continue
		}
		m.Fix(lit.Negate())
	}
}

// addSymmetryBreaking collapses the permutational symmetry
// over table labels in the first session by pinning the first participant
// to table 0. Skipped when a current-table map is present: regeneration
// references concrete table labels (participants must move away from, or
// are penalized for staying at, a specific table), so labels are no longer
// interchangeable and the pin could contradict the forbidden-table
// constraint outright.
func addSymmetryBreaking(m *cpsat.Model, vars *Vars, problem core.Problem) {
	if len(problem.Participants) == 0 || problem.Sessions == 0 || problem.Tables == 0 {
		return
	}
	if len(problem.CurrentTable) > 0 {
		return
	}
	first := problem.Participants[0]
	lit, ok := vars.lits[varKey{first.ID, 0, 0}]
	if !ok {
		return
	}
	m.Fix(lit)
}
