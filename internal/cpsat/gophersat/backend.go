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

// Package gophersat adapts github.com/crillab/gophersat's CDCL SAT solver
// to this repository's cpsat.Backend contract. The hard-clause CNF built
// by the Model Builder is rendered to DIMACS text (the solver's native
// input format) and handed to the solver package directly; this keeps the
// dependency surface on gophersat's internals to the handful of symbols
// every DIMACS-based solver exposes (parse, construct, solve, read model,
// read stats), documented per-symbol below.
package gophersat

import (
	"bytes"
	"context"
	"fmt"

	"github.com/crillab/gophersat/solver"

	"github.com/groupbuilder/seatingengine/internal/cpsat"
)

// Backend is a cpsat.Backend backed by gophersat.
type Backend struct{}

// New returns a gophersat-backed solver.
func New() *Backend { return &Backend{} }

// Solve decides the given CNF. gophersat itself is single-threaded per
// call; the goroutine portfolio that realizes "num_search_workers" lives
// one layer up, in cpsat.Solve, and calls this method concurrently from
// multiple goroutines, each against its own parsed solver.Problem.
func (b *Backend) Solve(ctx context.Context, numVars int32, clauses [][]cpsat.Lit) (cpsat.Status, []bool, cpsat.Stats, error) {
	dimacs := toDIMACS(numVars, clauses)

	problem, err := solver.ParseCNF(bytes.NewReader(dimacs))
	if err != nil {
		return cpsat.StatusUnknown, nil, cpsat.Stats{}, fmt.Errorf("gophersat: parsing generated CNF: %w", err)
	}

	s := solver.New(problem)

	done := make(chan solver.Status, 1)
	go func() { done <- s.Solve() }()

	select {
	case <-ctx.Done():
		return cpsat.StatusUnknown, nil, cpsat.Stats{}, ctx.Err()
	case status := <-done:
		stats := cpsat.Stats{
			Branches:  int64(s.Stats.NbDecisions),
			Conflicts: int64(s.Stats.NbConflicts),
		}
		switch status {
		case solver.Sat:
			// gophersat's Model() is 0-indexed (entry i is variable i+1);
			// cpsat keeps DIMACS numbering with index 0 unused.
			raw := s.Model()
			model := make([]bool, len(raw)+1)
			copy(model[1:], raw)
			return cpsat.StatusSat, model, stats, nil
		case solver.Unsat:
			return cpsat.StatusUnsat, nil, stats, nil
		default:
			return cpsat.StatusUnknown, nil, stats, nil
		}
	}
}

// toDIMACS renders a CNF formula in the standard DIMACS "p cnf" text
// format, the lowest-risk, most universally supported entry point into
// any SAT solver library.
func toDIMACS(numVars int32, clauses [][]cpsat.Lit) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "p cnf %d %d\n", numVars, len(clauses))
	for _, clause := range clauses {
		for _, lit := range clause {
			fmt.Fprintf(&buf, "%d ", int32(lit))
		}
		buf.WriteString("0\n")
	}
	return buf.Bytes()
}
