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

package seating

import "github.com/groupbuilder/seatingengine/internal/seatingerrors"

// Error taxonomy, by kind rather than by concrete type, so callers can
// branch on "what went wrong" (ErrInfeasibleModel.Is(err)) without caring
// which layer produced it. The kinds themselves live in internal/seatingerrors
// so that leaf packages (roster, modelbuild, regen, ...) can return a
// properly-kinded error without importing this root package and creating an
// import cycle; they are re-exported here under their public names.
var (
	// ErrInvalidBounds is returned when a request parameter falls outside
	// its documented range (tables, sessions, roster size, time budget).
	ErrInvalidBounds = seatingerrors.ErrInvalidBounds

	// ErrInvalidRoster covers self-partnership, a partner name missing
	// from the roster, asymmetric partnerships, and a name left empty
	// after sanitization.
	ErrInvalidRoster = seatingerrors.ErrInvalidRoster

	// ErrInsufficientParticipants is returned when fewer participants are
	// active (present) than there are tables.
	ErrInsufficientParticipants = seatingerrors.ErrInsufficientParticipants

	// ErrInfeasibleModel is returned when the solver proves no assignment
	// satisfies the hard constraints.
	ErrInfeasibleModel = seatingerrors.ErrInfeasibleModel

	// ErrInvalidModel signals an internal model-construction bug; it should
	// never occur in production.
	ErrInvalidModel = seatingerrors.ErrInvalidModel

	// ErrTimeout is returned when the solver exhausts its deadline without
	// a feasible answer.
	ErrTimeout = seatingerrors.ErrTimeout

	// ErrRegenerationImpossible is returned when the hard single-session
	// regeneration attempt fails and the soft retry is proven infeasible.
	// A soft retry that fails for another reason (a timeout, say) returns
	// that error instead.
	ErrRegenerationImpossible = seatingerrors.ErrRegenerationImpossible
)
