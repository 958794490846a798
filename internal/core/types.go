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

// Package core holds the data model shared by every layer of the engine
// (roster normalization, model building, scheduling, decoding). It is kept
// below the root package so that leaf packages (modelbuild, scheduler,
// decode, regen, store, diagnostics) can depend on these types without
// importing the root seating package, which itself depends on all of them;
// the root package re-exports these as type aliases (seating.Problem, and
// so on).
package core

import "time"

// Participant is one row of the roster, after normalization.
type Participant struct {
	ID            int
	Name          string
	Religion      string
	Gender        string
	PartnerName   string
	CoupleID      int // 0 means the participant has no partner
	IsFacilitator bool
}

// LockedKey identifies one assignment-variable cell fixed ahead of solving.
type LockedKey struct {
	ParticipantID int
	Session       int
	Table         int
}

// LockedPositions is a partial equality assignment applied before solving,
// used by the incremental scheduler to freeze already-solved sessions.
type LockedPositions map[LockedKey]bool

// CurrentTableMap is, for a session being regenerated, the table each
// still-active participant currently occupies (0-based). It is either
// forbidden (hard mode) or penalized (soft mode) by the Model Builder.
type CurrentTableMap map[int]int

// Problem is one fully-specified instance to hand to the Model Builder.
type Problem struct {
	Participants []Participant
	Tables       int
	Sessions     int

	Locked       LockedPositions
	Historical   *HistoricalPairings
	CurrentTable CurrentTableMap

	PairingWindow    int
	Workers          int
	RequireDifferent bool
}

// ParticipantView is the externally visible shape of a seated participant.
type ParticipantView struct {
	Name     string `json:"name"`
	Religion string `json:"religion"`
	Gender   string `json:"gender"`
	Partner  string `json:"partner,omitempty"`
}

// SessionAssignment is the decoded output for a single session.
type SessionAssignment struct {
	Session int                       `json:"session"`
	Tables  map[int][]ParticipantView `json:"tables"`
	Absent  []ParticipantView         `json:"absent,omitempty"`
}

// SolutionStatus is the coarse outcome of one solver invocation.
type SolutionStatus string

const (
	StatusOptimal     SolutionStatus = "optimal"
	StatusFeasible    SolutionStatus = "feasible"
	StatusInfeasible  SolutionStatus = "infeasible"
	StatusInvalid     SolutionStatus = "invalid"
	StatusTimeout     SolutionStatus = "timeout"
	StatusIncremental SolutionStatus = "incremental"
)

// Report carries the status and telemetry of one solve.
type Report struct {
	Status          SolutionStatus `json:"status"`
	SolutionQuality string         `json:"solution_quality,omitempty"`
	TotalDeviation  *float64       `json:"total_deviation,omitempty"`
	SolveTime       time.Duration  `json:"solve_time"`
	NumBranches     int64          `json:"num_branches"`
	NumConflicts    int64          `json:"num_conflicts"`
	SolveID         string         `json:"solve_id,omitempty"`
}

// Options configures one call to Generate or RegenerateSession.
type Options struct {
	MaxTimeSeconds int
	UseIncremental *bool // nil means "auto": true iff Sessions >= 4
	BatchSize      int
	PairingWindow  int
	Workers        int

	// SolveID correlates every log line of one call; a fresh id is minted
	// when empty. Diagnostic only, never interpreted.
	SolveID string
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		MaxTimeSeconds: 120,
		BatchSize:      2,
		PairingWindow:  3,
		Workers:        4,
	}
}

// WithDefaults fills every zero-valued field with its documented default.
func (o Options) WithDefaults() Options {
	if o.MaxTimeSeconds == 0 {
		o.MaxTimeSeconds = 120
	}
	if o.BatchSize == 0 {
		o.BatchSize = 2
	}
	if o.PairingWindow == 0 {
		o.PairingWindow = 3
	}
	if o.Workers == 0 {
		o.Workers = 4
	}
	return o
}

// ShouldUseIncremental resolves the "auto" incremental-scheduling rule:
// explicit UseIncremental wins, otherwise true iff sessions >= 4.
func (o Options) ShouldUseIncremental(sessions int) bool {
	if o.UseIncremental != nil {
		return *o.UseIncremental
	}
	return sessions >= 4
}
