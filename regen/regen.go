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

// Package regen re-solves a single session of an otherwise finished
// assignment set: given the session and a set of absentees, it seats the
// remaining participants again, first forbidding everyone's current table
// outright (hard mode) and, if that solve fails for any reason, falling
// back to penalizing it instead (soft mode).
package regen

import (
	"context"
	"time"

	"github.com/groupbuilder/seatingengine/decode"
	"github.com/groupbuilder/seatingengine/internal/core"
	"github.com/groupbuilder/seatingengine/internal/cpsat"
	"github.com/groupbuilder/seatingengine/internal/seatingerrors"
	"github.com/groupbuilder/seatingengine/modelbuild"
)

// Regenerator re-solves a single session against a CP-SAT-class backend.
type Regenerator struct {
	Backend cpsat.Backend
}

// New returns a Regenerator bound to backend.
func New(backend cpsat.Backend) *Regenerator {
	return &Regenerator{Backend: backend}
}

// Result is the outcome of one regeneration: the new session assignment,
// whether the hard or soft fallback path produced it, and the
// AssignmentsUnchanged flag surfaced to callers: false when the hard
// "everyone moves" constraint held, true when the soft fallback had to drop
// that guarantee.
type Result struct {
	Assignment           core.SessionAssignment
	Report               core.Report
	UsedHardConstraint   bool
	AssignmentsUnchanged bool
}

// RegenerateSession re-solves one session for the still-active subset of
// participants (everyone in allParticipants not listed in absent), keeping
// every other participant's seat out of scope entirely: single-session
// regeneration always models exactly one session, indexed 0.
func (r *Regenerator) RegenerateSession(
	ctx context.Context,
	allParticipants []core.Participant,
	absentIDs map[int]bool,
	tables int,
	historical *core.HistoricalPairings,
	currentTable core.CurrentTableMap,
	opts core.Options,
) (Result, error) {
	opts = opts.WithDefaults()

	active := make([]core.Participant, 0, len(allParticipants))
	absent := make(map[int]core.Participant)
	for _, p := range allParticipants {
		if absentIDs[p.ID] {
			absent[p.ID] = p
			continue
		}
		active = append(active, p)
	}
	if len(active) < tables {
		return Result{}, seatingerrors.ErrInsufficientParticipants.New(len(active), tables)
	}

	deadline := time.Duration(opts.MaxTimeSeconds) * time.Second

	hardProblem := core.Problem{
		Participants:     active,
		Tables:           tables,
		Sessions:         1,
		Historical:       historical,
		CurrentTable:     currentTable,
		PairingWindow:    opts.PairingWindow,
		Workers:          opts.Workers,
		RequireDifferent: true,
	}
	report, assignment, err := r.solve(ctx, hardProblem, deadline, absent)
	if err == nil {
		return Result{Assignment: assignment, Report: report, UsedHardConstraint: true}, nil
	}

	// Any hard-mode failure (infeasible, timeout, internal model error)
	// gets exactly one soft retry before the caller hears about it.
	softProblem := hardProblem
	softProblem.RequireDifferent = false
	report, assignment, err = r.solve(ctx, softProblem, deadline, absent)
	if err != nil {
		if seatingerrors.ErrInfeasibleModel.Is(err) {
			return Result{}, seatingerrors.ErrRegenerationImpossible.New()
		}
		return Result{}, err
	}

	// The soft path may well have moved people anyway (repeats are only
	// penalized), but the caller is told the variety guarantee was dropped.
	return Result{
		Assignment:           assignment,
		Report:               report,
		UsedHardConstraint:   false,
		AssignmentsUnchanged: true,
	}, nil
}

func (r *Regenerator) solve(ctx context.Context, problem core.Problem, deadline time.Duration, absent map[int]core.Participant) (core.Report, core.SessionAssignment, error) {
	m, vars, err := modelbuild.Build(problem)
	if err != nil {
		return core.Report{}, core.SessionAssignment{}, err
	}

	start := time.Now()
	result := cpsat.Solve(ctx, m, r.Backend, cpsat.Options{Deadline: deadline, Workers: problem.Workers})
	elapsed := time.Since(start)

	report := core.Report{
		SolveTime:    elapsed,
		NumBranches:  result.Stats.Branches,
		NumConflicts: result.Stats.Conflicts,
	}

	switch {
	case result.Infeasible:
		report.Status = core.StatusInfeasible
		return report, core.SessionAssignment{}, seatingerrors.ErrInfeasibleModel.New()
	case !result.Satisfied:
		report.Status = core.StatusTimeout
		return report, core.SessionAssignment{}, seatingerrors.ErrTimeout.New()
	case result.Optimal:
		report.Status = core.StatusOptimal
		report.SolutionQuality = "optimal"
	default:
		report.Status = core.StatusFeasible
		report.SolutionQuality = "feasible"
	}
	deviation := float64(result.Penalty)
	report.TotalDeviation = &deviation

	assignments, err := decode.Sessions(problem, vars, result, absent)
	if err != nil {
		return report, core.SessionAssignment{}, err
	}
	return report, assignments[0], nil
}
