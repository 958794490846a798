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

// Package seatingerrors is the shared error-kind taxonomy used across the
// engine's internal packages. It lives below the import-cycle line (the
// public seating package re-exports these kinds) so that leaf packages such
// as roster and modelbuild can return a properly-kinded error without
// importing the root package.
package seatingerrors

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrInvalidBounds is returned by the external API layer when a request
	// parameter falls outside its documented range (tables, sessions,
	// roster size, time budget). These are surface-level bounds, not engine
	// limits.
	ErrInvalidBounds = errors.NewKind("out of bounds: %s")

	// ErrInvalidRoster covers self-partnership, a partner name missing
	// from the roster, asymmetric partnerships, and a name left empty
	// after sanitization.
	ErrInvalidRoster = errors.NewKind("invalid roster: %s")

	// ErrInsufficientParticipants is returned when fewer participants are
	// active (present) than there are tables.
	ErrInsufficientParticipants = errors.NewKind("not enough active participants (%d) for %d tables")

	// ErrInfeasibleModel is returned when the solver proves no assignment
	// satisfies the hard constraints.
	ErrInfeasibleModel = errors.NewKind("no assignment exists with the given constraints")

	// ErrInvalidModel signals an internal model-construction bug; it should
	// never occur in production.
	ErrInvalidModel = errors.NewKind("internal error: invalid constraint model")

	// ErrTimeout is returned when the solver exhausts its deadline without
	// a feasible answer.
	ErrTimeout = errors.NewKind("solver timed out or returned an unknown status")

	// ErrRegenerationImpossible is returned when the hard single-session
	// regeneration attempt fails and the soft retry is proven infeasible.
	// A soft retry that fails for another reason (a timeout, say) returns
	// that error instead.
	ErrRegenerationImpossible = errors.NewKind("could not regenerate the session even without the variety constraint")
)
