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

// Package seating implements the assignment engine of a facilitated-dialogue
// seating system: given a roster of participants and a number of tables and
// sessions, it produces a table assignment per session that is balanced,
// demographically spread, keeps partners apart, and maximizes how many
// distinct participants meet across sessions.
package seating

import "github.com/groupbuilder/seatingengine/internal/core"

// The data model lives in internal/core so the component packages
// (modelbuild, scheduler, decode, regen, store, diagnostics) can share it
// without importing this root package; these aliases are the public
// spelling.

type (
	Participant        = core.Participant
	LockedKey          = core.LockedKey
	LockedPositions    = core.LockedPositions
	CurrentTableMap    = core.CurrentTableMap
	Problem            = core.Problem
	ParticipantView    = core.ParticipantView
	SessionAssignment  = core.SessionAssignment
	SolutionStatus     = core.SolutionStatus
	Report             = core.Report
	Options            = core.Options
	HistoricalPairings = core.HistoricalPairings
)

const (
	StatusOptimal     = core.StatusOptimal
	StatusFeasible    = core.StatusFeasible
	StatusInfeasible  = core.StatusInfeasible
	StatusInvalid     = core.StatusInvalid
	StatusTimeout     = core.StatusTimeout
	StatusIncremental = core.StatusIncremental
)

// DefaultOptions returns the documented defaults: 120 s budget, batches of
// two sessions, pairing window 3, four workers.
var DefaultOptions = core.DefaultOptions

// NewHistoricalPairings returns an empty pairing set.
var NewHistoricalPairings = core.NewHistoricalPairings
