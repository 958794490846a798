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

// Package decode is the Result Decoder: it turns a solved cpsat.Result back
// into seating.SessionAssignment values, reading the x[p,s,t] decision
// variables the Model Builder allocated.
package decode

import (
	"github.com/groupbuilder/seatingengine/internal/core"
	"github.com/groupbuilder/seatingengine/internal/cpsat"
	"github.com/groupbuilder/seatingengine/modelbuild"
)

// Lookup is the subset of modelbuild.Vars the decoder needs, so tests can
// substitute a fake without building a real model.
type Lookup interface {
	Lit(participantID, session, table int) (cpsat.Lit, bool)
}

var _ Lookup = (*modelbuild.Vars)(nil)

// Sessions decodes every session 0..sessions-1 for the given participants
// out of result, using vars to find each x[p,s,t] literal. absent holds,
// keyed by id, participants left out of problem.Participants; they are
// listed on every decoded session's Absent list (used by single-session
// regeneration callers that model only the active subset).
func Sessions(problem core.Problem, vars Lookup, result cpsat.Result, absent map[int]core.Participant) ([]core.SessionAssignment, error) {
	out := make([]core.SessionAssignment, 0, problem.Sessions)
	for s := 0; s < problem.Sessions; s++ {
		assignment := core.SessionAssignment{
			Session: s,
			Tables:  make(map[int][]core.ParticipantView, problem.Tables),
		}
		for _, p := range problem.Participants {
			table, err := seatedTable(vars, result.Model, p.ID, s, problem.Tables)
			if err != nil {
				return nil, err
			}
			assignment.Tables[table] = append(assignment.Tables[table], view(p))
		}
		for _, p := range absent {
			assignment.Absent = append(assignment.Absent, view(p))
		}
		out = append(out, assignment)
	}
	return out, nil
}

// SeatedTables decodes the same solved result into a session -> participant
// id -> table map, id-preserving where core.SessionAssignment's
// ParticipantView (name/religion/gender/partner only) is not: the
// Incremental Scheduler needs participant ids to track historical pairings
// and lock positions across batches.
func SeatedTables(problem core.Problem, vars Lookup, result cpsat.Result) (map[int]map[int]int, error) {
	out := make(map[int]map[int]int, problem.Sessions)
	for s := 0; s < problem.Sessions; s++ {
		perSession := make(map[int]int, len(problem.Participants))
		for _, p := range problem.Participants {
			table, err := seatedTable(vars, result.Model, p.ID, s, problem.Tables)
			if err != nil {
				return nil, err
			}
			perSession[p.ID] = table
		}
		out[s] = perSession
	}
	return out, nil
}

func seatedTable(vars Lookup, model []bool, participantID, session, tables int) (int, error) {
	for t := 0; t < tables; t++ {
		lit, ok := vars.Lit(participantID, session, t)
		if !ok {
			continue
		}
		if cpsat.Eval(model, lit) {
			return t, nil
		}
	}
	return 0, errNoTableFound
}

func view(p core.Participant) core.ParticipantView {
	return core.ParticipantView{
		Name:     p.Name,
		Religion: p.Religion,
		Gender:   p.Gender,
		Partner:  p.PartnerName,
	}
}
