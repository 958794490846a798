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

package cpsat

import (
	"context"
	"sync"
	"time"
)

// Status is the raw outcome of one decision-procedure call.
type Status int

const (
	StatusUnknown Status = iota
	StatusSat
	StatusUnsat
)

// Stats is solver telemetry for one decision-procedure call.
type Stats struct {
	Branches  int64
	Conflicts int64
}

// Backend decides satisfiability of a CNF formula under a deadline. It is
// the seam any CP-SAT-class engine plugs into; see the gophersat
// subpackage for the concrete implementation this repository ships.
type Backend interface {
	Solve(ctx context.Context, numVars int32, clauses [][]Lit) (Status, []bool, Stats, error)
}

// Result is the outcome of Solve: whether (and how well) the model was
// satisfied, a full boolean assignment if so, and telemetry.
type Result struct {
	Optimal    bool
	Satisfied  bool
	Infeasible bool   // true only when the hard clauses alone are proven UNSAT
	Model      []bool // Model[v] is the truth value of variable v (1-indexed; index 0 unused)
	Penalty    int
	Stats      Stats
}

// Options configures one Solve call.
type Options struct {
	Deadline time.Duration
	Workers  int // goroutine portfolio size; 0 defaults to 1
}

// Solve runs the model's hard clauses through backend, then performs
// SAT-based minimization of the accumulated penalty literals by iterative
// upper-bound tightening: solve, read off how many penalty literals came
// out true, forbid that count or worse, and solve again, until the
// backend proves UNSAT (meaning the previous round's assignment was
// optimal) or the deadline elapses (meaning it was merely feasible).
//
// This realizes objective minimization without requiring the backend to
// expose a native weighted-MaxSAT mode: only a yes/no decision procedure
// under a growing set of hard clauses is needed.
func Solve(ctx context.Context, m *Model, backend Backend, opts Options) Result {
	deadline := opts.Deadline
	if deadline <= 0 {
		deadline = 120 * time.Second
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	indicators := m.AtLeastIndicators(m.Penalties())
	clauses := append([][]Lit(nil), m.Clauses()...)
	numVars := m.NumVars()

	var best Result
	bound := -1 // -1 means "no bound asserted yet"

	for {
		status, model, stats, err := solvePortfolio(ctx, numVars, clauses, backend, workers)
		best.Stats.Branches += stats.Branches
		best.Stats.Conflicts += stats.Conflicts
		if err != nil || status == StatusUnknown {
			// Deadline expired (or the backend could not decide) before
			// this round finished; whatever we found in an earlier round
			// is the best we can report.
			return best
		}
		if status == StatusUnsat {
			if bound < 0 {
				// Even the hard constraints alone are unsatisfiable.
				best.Satisfied = false
				best.Infeasible = true
				return best
			}
			// No assignment beats the last one we found: it was optimal.
			best.Optimal = true
			return best
		}

		best.Satisfied = true
		best.Model = model
		best.Penalty = countTrue(model, m.Penalties())

		if best.Penalty == 0 {
			best.Optimal = true
			return best
		}

		bound = best.Penalty - 1
		clauses = append([][]Lit(nil), m.Clauses()...)
		boundModel := NewModel()
		boundModel.nextVar = numVars
		boundModel.AddAtMostKFromIndicators(indicators, bound)
		clauses = append(clauses, boundModel.Clauses()...)
		numVars = boundModel.NumVars()

		select {
		case <-ctx.Done():
			return best
		default:
		}
	}
}

// Eval reports the truth value of literal l under model (as returned on
// Result.Model), the one place outside this package that needs to turn a
// solved assignment back into booleans (the Result Decoder reads decision
// variables this way).
func Eval(model []bool, l Lit) bool {
	v := int(l.Var())
	truth := v < len(model) && model[v]
	if l < 0 {
		truth = !truth
	}
	return truth
}

func countTrue(model []bool, lits []Lit) int {
	n := 0
	for _, l := range lits {
		if Eval(model, l) {
			n++
		}
	}
	return n
}

// solvePortfolio runs `workers` independent attempts at the same formula
// (the Go rendering of the "num_search_workers" configuration knob, since
// the backend contract exposes only a single-threaded decision procedure):
// the first SAT result wins; the round only reports UNSAT once every
// worker has reported UNSAT, and reports Unknown as soon as any worker
// errors or the deadline fires without a verdict.
func solvePortfolio(ctx context.Context, numVars int32, clauses [][]Lit, backend Backend, workers int) (Status, []bool, Stats, error) {
	type outcome struct {
		status Status
		model  []bool
		stats  Stats
		err    error
	}
	results := make(chan outcome, workers)
	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, model, stats, err := backend.Solve(workerCtx, numVars, clauses)
			select {
			case results <- outcome{status, model, stats, err}:
			case <-workerCtx.Done():
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var total Stats
	unsatCount := 0
	for res := range results {
		total.Branches += res.stats.Branches
		total.Conflicts += res.stats.Conflicts
		if res.err != nil {
			cancel()
			continue
		}
		switch res.status {
		case StatusSat:
			cancel()
			return StatusSat, res.model, total, nil
		case StatusUnsat:
			unsatCount++
			if unsatCount == workers {
				return StatusUnsat, nil, total, nil
			}
		}
	}
	return StatusUnknown, nil, total, ctx.Err()
}
