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

package modelbuild

import (
	"github.com/groupbuilder/seatingengine/internal/core"
	"github.com/groupbuilder/seatingengine/internal/cpsat"
)

// meetsCache memoizes meets[i,j,s] (true iff participants i and j share a
// table in session s) so the near-window and historical objective terms,
// which both need it, never encode the same AND/OR gadget twice.
type meetsCache struct {
	m      *cpsat.Model
	vars   *Vars
	tables int
	cache  map[meetsKey]cpsat.Lit
}

type meetsKey struct {
	a, b, session int
}

func newMeetsCache(m *cpsat.Model, vars *Vars, problem core.Problem) *meetsCache {
	return &meetsCache{m: m, vars: vars, tables: problem.Tables, cache: make(map[meetsKey]cpsat.Lit)}
}

// at returns meets[a,b,s], building it the first time via per-table AND
// gadgets (both[a,b,s,t] = x[a,s,t] AND x[b,s,t]) ORed together.
func (mc *meetsCache) at(a, b, session int) cpsat.Lit {
	if a > b {
		a, b = b, a
	}
	key := meetsKey{a, b, session}
	if lit, ok := mc.cache[key]; ok {
		return lit
	}
	var boths []cpsat.Lit
	for t := 0; t < mc.tables; t++ {
		litA, okA := mc.vars.Lit(a, session, t)
		litB, okB := mc.vars.Lit(b, session, t)
		if !okA || !okB {
			continue
		}
		boths = append(boths, mc.m.NewAnd(litA, litB))
	}
	lit := mc.m.NewOrMany(boths)
	mc.cache[key] = lit
	return lit
}

// addNearWindowPenalty is the objective's first term: every unordered pair
// repeating a table within window sessions of each other costs one unit.
func addNearWindowPenalty(m *cpsat.Model, meets *meetsCache, problem core.Problem, window int) {
	ids := participantIDs(problem.Participants)
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a, b := ids[i], ids[j]
			for s1 := 0; s1 < problem.Sessions; s1++ {
				for s2 := s1 + 1; s2 < problem.Sessions && s2-s1 <= window; s2++ {
					bothSessions := m.NewAnd(meets.at(a, b, s1), meets.at(a, b, s2))
					m.AddPenalty(bothSessions, 1)
				}
			}
		}
	}
}

// addHistoricalPenalty is the objective's second term: repeating a pairing
// that already happened in an earlier-fixed batch costs one unit per
// modeled session in which it recurs. Sessions frozen by Locked are
// included too; their contribution is a constant, so only the free
// sessions of the current batch affect which assignment is chosen.
func addHistoricalPenalty(m *cpsat.Model, meets *meetsCache, problem core.Problem) {
	if problem.Historical == nil {
		return
	}
	problem.Historical.Pairs(func(a, b int) {
		for s := 0; s < problem.Sessions; s++ {
			if _, ok := meets.vars.Lit(a, s, 0); !ok {
				continue
			}
			if _, ok := meets.vars.Lit(b, s, 0); !ok {
				continue
			}
			m.AddPenalty(meets.at(a, b, s), 1)
		}
	})
}

// addSameTableVarietyPenalty is the objective's third term, soft-mode
// single-session regeneration only: landing back at the current table
// costs one unit instead of being forbidden outright.
func addSameTableVarietyPenalty(m *cpsat.Model, vars *Vars, problem core.Problem) {
	if problem.RequireDifferent {
		return
	}
	for participantID, table := range problem.CurrentTable {
		lit, ok := vars.Lit(participantID, 0, table)
		if !ok {
			continue
		}
		m.AddPenalty(lit, 1)
	}
}

func participantIDs(participants []core.Participant) []int {
	ids := make([]int, len(participants))
	for i, p := range participants {
		ids[i] = p.ID
	}
	return ids
}
