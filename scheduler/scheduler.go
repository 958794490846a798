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

// Package scheduler solves many-session problems either in one shot or
// incrementally: sessions are committed batch by batch, each batch solved
// with every earlier session frozen and the pairings formed so far carried
// forward as penalties, so diversity pressure survives the decomposition.
package scheduler

import (
	"context"
	"time"

	"github.com/groupbuilder/seatingengine/decode"
	"github.com/groupbuilder/seatingengine/diagnostics"
	"github.com/groupbuilder/seatingengine/internal/core"
	"github.com/groupbuilder/seatingengine/internal/cpsat"
	"github.com/groupbuilder/seatingengine/internal/seatingerrors"
	"github.com/groupbuilder/seatingengine/modelbuild"
)

// Scheduler drives one or more solves of a Problem against a CP-SAT-class
// backend.
type Scheduler struct {
	Backend cpsat.Backend
	Log     *diagnostics.Logger // nil disables batch logging
}

// New returns a Scheduler bound to backend.
func New(backend cpsat.Backend) *Scheduler {
	return &Scheduler{Backend: backend}
}

// Generate solves problem in full, or incrementally in batches, depending on
// opts (explicit or auto-selected per ShouldUseIncremental). The returned
// Report carries a solve id correlating every log line the call produced.
func (sch *Scheduler) Generate(ctx context.Context, problem core.Problem, opts core.Options) (core.Report, []core.SessionAssignment, error) {
	opts = opts.WithDefaults()
	solveID := opts.SolveID
	if solveID == "" {
		solveID = diagnostics.NewSolveID()
	}
	if !opts.ShouldUseIncremental(problem.Sessions) {
		report, assignments, _, err := sch.solveOnce(ctx, problem, time.Duration(opts.MaxTimeSeconds)*time.Second, opts.Workers)
		report.SolveID = solveID
		if err != nil {
			sch.Log.SolveFailed(solveID, err)
		}
		return report, assignments, err
	}
	return sch.solveIncremental(ctx, problem, opts, solveID)
}

// solveOnce builds and solves the entire problem in a single model,
// returning both the external (view-based) assignments and the
// id-preserving session->participant->table map the incremental scheduler
// needs for its own bookkeeping.
func (sch *Scheduler) solveOnce(ctx context.Context, problem core.Problem, deadline time.Duration, workers int) (core.Report, []core.SessionAssignment, map[int]map[int]int, error) {
	m, vars, err := modelbuild.Build(problem)
	if err != nil {
		return core.Report{}, nil, nil, err
	}

	start := time.Now()
	result := cpsat.Solve(ctx, m, sch.Backend, cpsat.Options{Deadline: deadline, Workers: workers})
	elapsed := time.Since(start)

	report := core.Report{
		SolveTime:    elapsed,
		NumBranches:  result.Stats.Branches,
		NumConflicts: result.Stats.Conflicts,
	}

	switch {
	case result.Infeasible:
		report.Status = core.StatusInfeasible
		return report, nil, nil, seatingerrors.ErrInfeasibleModel.New()
	case !result.Satisfied:
		report.Status = core.StatusTimeout
		return report, nil, nil, seatingerrors.ErrTimeout.New()
	case result.Optimal:
		report.Status = core.StatusOptimal
		report.SolutionQuality = "optimal"
	default:
		report.Status = core.StatusFeasible
		report.SolutionQuality = "feasible"
	}
	deviation := float64(result.Penalty)
	report.TotalDeviation = &deviation

	assignments, err := decode.Sessions(problem, vars, result, nil)
	if err != nil {
		return report, nil, nil, err
	}
	seated, err := decode.SeatedTables(problem, vars, result)
	if err != nil {
		return report, nil, nil, err
	}
	return report, assignments, seated, nil
}

// calculateBatchTimeouts splits maxTime across ceil(totalSessions/batchSize)
// batches: the first batch gets half the budget (it starts with no fixed
// history and is usually hardest), the rest split the remaining half evenly.
func calculateBatchTimeouts(totalSessions, batchSize int, maxTime time.Duration) []time.Duration {
	numBatches := (totalSessions + batchSize - 1) / batchSize
	if numBatches <= 1 {
		return []time.Duration{maxTime}
	}
	first := time.Duration(float64(maxTime) * 0.5)
	remaining := maxTime - first
	other := remaining / time.Duration(numBatches-1)
	timeouts := make([]time.Duration, numBatches)
	timeouts[0] = first
	for i := 1; i < numBatches; i++ {
		timeouts[i] = other
	}
	return timeouts
}

// solveIncremental runs the batch loop: sessions 0..start-1 stay fixed via
// locked, sessions start..end-1 are solved fresh, and every pairing newly
// formed in this batch is folded into historical before the next batch's
// model is built.
func (sch *Scheduler) solveIncremental(ctx context.Context, problem core.Problem, opts core.Options, solveID string) (core.Report, []core.SessionAssignment, error) {
	totalSessions := problem.Sessions
	batchSize := opts.BatchSize
	timeouts := calculateBatchTimeouts(totalSessions, batchSize, time.Duration(opts.MaxTimeSeconds)*time.Second)

	locked := core.LockedPositions{}
	historical := core.NewHistoricalPairings()

	var allAssignments []core.SessionAssignment
	var totalTime time.Duration
	var totalBranches, totalConflicts int64

	batchIdx := 0
	for start := 0; start < totalSessions; start += batchSize {
		end := start + batchSize
		if end > totalSessions {
			end = totalSessions
		}

		batchProblem := problem
		batchProblem.Sessions = end
		batchProblem.Locked = locked
		batchProblem.Historical = historical
		batchProblem.RequireDifferent = false
		batchProblem.CurrentTable = nil

		sch.Log.BatchStarted(solveID, batchIdx, len(timeouts), start, end, historical.Len())
		span, batchCtx := diagnostics.StartSpan(ctx, "seating.batch")
		report, assignments, seated, err := sch.solveOnce(batchCtx, batchProblem, timeouts[batchIdx], opts.Workers)
		span.Finish()
		if err != nil {
			sch.Log.SolveFailed(solveID, err)
			report.SolveID = solveID
			return report, nil, err
		}
		sch.Log.BatchComplete(solveID, batchIdx, report.Status, report.NumBranches, report.NumConflicts)

		totalTime += report.SolveTime
		totalBranches += report.NumBranches
		totalConflicts += report.NumConflicts

		for _, a := range assignments {
			if a.Session >= start && a.Session < end {
				allAssignments = append(allAssignments, a)
			}
		}

		// Track every pairing newly formed in this batch's free sessions,
		// then lock every session solved so far (re-locking an
		// already-locked session is a harmless no-op).
		for session, seatedAt := range seated {
			if session < start || session >= end {
				continue
			}
			trackHistoricalPairings(seatedAt, historical)
		}
		for session, seatedAt := range seated {
			lockBatchAssignments(session, seatedAt, problem.Tables, locked)
		}

		batchIdx++
	}

	report := core.Report{
		Status:          core.StatusIncremental,
		SolutionQuality: "incremental",
		TotalDeviation:  nil,
		SolveTime:       totalTime,
		NumBranches:     totalBranches,
		NumConflicts:    totalConflicts,
		SolveID:         solveID,
	}
	return report, allAssignments, nil
}

// trackHistoricalPairings records every pair seated at the same table in
// one session's id->table map.
func trackHistoricalPairings(seatedAt map[int]int, historical *core.HistoricalPairings) {
	byTable := make(map[int][]int)
	for participantID, table := range seatedAt {
		byTable[table] = append(byTable[table], participantID)
	}
	for _, ids := range byTable {
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				historical.Add(ids[i], ids[j])
			}
		}
	}
}

// lockBatchAssignments fixes every participant to their solved table in
// session, and forbids every other table in that session.
func lockBatchAssignments(session int, seatedAt map[int]int, tables int, locked core.LockedPositions) {
	for participantID, table := range seatedAt {
		locked[core.LockedKey{ParticipantID: participantID, Session: session, Table: table}] = true
		for t := 0; t < tables; t++ {
			if t == table {
				continue
			}
			locked[core.LockedKey{ParticipantID: participantID, Session: session, Table: t}] = false
		}
	}
}
