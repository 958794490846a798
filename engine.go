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

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/groupbuilder/seatingengine/diagnostics"
	"github.com/groupbuilder/seatingengine/internal/core"
	"github.com/groupbuilder/seatingengine/internal/cpsat"
	"github.com/groupbuilder/seatingengine/internal/cpsat/gophersat"
	"github.com/groupbuilder/seatingengine/internal/seatingerrors"
	"github.com/groupbuilder/seatingengine/regen"
	"github.com/groupbuilder/seatingengine/roster"
	"github.com/groupbuilder/seatingengine/scheduler"
)

// Request bounds enforced at this layer. These are surface-level limits on
// what a caller may ask for, not limits of the engine itself.
const (
	MaxTables       = 10
	MaxSessions     = 6
	MaxParticipants = 200
	MinTimeSeconds  = 30
	MaxTimeSeconds  = 240
)

// Engine is the public face of the assignment engine: the two operations
// every other layer of a deployment (HTTP handlers, result cache, CLI) calls
// through. It is purely functional — each call builds its own model and
// shares nothing with concurrent calls.
type Engine struct {
	scheduler *scheduler.Scheduler
	regen     *regen.Regenerator
	log       *diagnostics.Logger
}

// New returns an Engine solving against backend, logging through l. A nil
// logger disables logging.
func New(backend cpsat.Backend, l *logrus.Logger) *Engine {
	var log *diagnostics.Logger
	if l != nil {
		log = diagnostics.NewLogger(l)
	}
	return &Engine{
		scheduler: &scheduler.Scheduler{Backend: backend, Log: log},
		regen:     regen.New(backend),
		log:       log,
	}
}

// NewDefault returns an Engine with the bundled gophersat backend and the
// standard logrus logger.
func NewDefault() *Engine {
	return New(gophersat.New(), logrus.StandardLogger())
}

// GenerateResult is the success shape of Generate: one assignment per
// session (1-based session numbers, 1-based table numbers) and the solver
// report.
type GenerateResult struct {
	Assignments []SessionAssignment
	Report      Report
}

// Generate produces a table assignment for every one of sessions rounds of
// seating, either in one solve or incrementally in batches (opts, default
// auto: incremental iff sessions >= 4). On failure no partial assignments
// are returned.
func (e *Engine) Generate(ctx context.Context, participants []Participant, tables, sessions int, opts Options) (*GenerateResult, error) {
	if err := validateBounds(len(participants), tables, sessions, opts); err != nil {
		return nil, err
	}
	opts = opts.WithDefaults()
	if opts.SolveID == "" {
		opts.SolveID = diagnostics.NewSolveID()
	}

	span, ctx := diagnostics.StartSpan(ctx, "seating.Generate")
	defer span.Finish()

	problem := core.Problem{
		Participants:  participants,
		Tables:        tables,
		Sessions:      sessions,
		PairingWindow: opts.PairingWindow,
		Workers:       opts.Workers,
	}
	if fp, err := diagnostics.Fingerprint(problem); err == nil {
		e.log.SolveStarted(opts.SolveID, fp, len(participants), tables, sessions)
	}

	report, assignments, err := e.scheduler.Generate(ctx, problem, opts)
	if err != nil {
		return nil, err
	}
	e.log.SolveComplete(report.SolveID, report.Status, report.SolveTime)

	return &GenerateResult{
		Assignments: externalize(assignments),
		Report:      report,
	}, nil
}

// RegenerateResult is the success shape of RegenerateSession: a full copy of
// the assignment set with session k replaced, and whether the hard
// "everybody moves" guarantee had to be dropped (soft fallback).
type RegenerateResult struct {
	Assignments          []SessionAssignment
	AssignmentsUnchanged bool
	Report               Report
}

// RegenerateSession re-solves session k (1-based) of an existing assignment
// set, leaving every other session untouched. Participants named in absent
// sit this session out; everyone else is reseated, preferring not to share a
// table with anyone they sat with in another session. The first attempt
// forbids anyone staying at
// their current table outright; if that attempt fails the constraint is
// retried once as a penalty.
func (e *Engine) RegenerateSession(ctx context.Context, existing []SessionAssignment, k int, absent []string, opts Options) (*RegenerateResult, error) {
	if len(existing) == 0 {
		return nil, seatingerrors.ErrInvalidBounds.New("no existing assignments to regenerate")
	}
	if k < 1 || k > len(existing) {
		return nil, seatingerrors.ErrInvalidBounds.New(
			fmt.Sprintf("session %d does not exist (have %d sessions)", k, len(existing)))
	}
	if opts.MaxTimeSeconds != 0 && (opts.MaxTimeSeconds < MinTimeSeconds || opts.MaxTimeSeconds > MaxTimeSeconds) {
		return nil, seatingerrors.ErrInvalidBounds.New(
			fmt.Sprintf("max time must be between %d and %d seconds, got %d", MinTimeSeconds, MaxTimeSeconds, opts.MaxTimeSeconds))
	}
	opts = opts.WithDefaults()
	if opts.SolveID == "" {
		opts.SolveID = diagnostics.NewSolveID()
	}

	span, ctx := diagnostics.StartSpan(ctx, "seating.RegenerateSession")
	defer span.Finish()

	participants, err := participantsFromAssignments(existing)
	if err != nil {
		return nil, err
	}

	absentIDs := make(map[int]bool, len(absent))
	byName := make(map[string]int, len(participants))
	for _, p := range participants {
		byName[p.Name] = p.ID
	}
	for _, name := range absent {
		if id, ok := byName[roster.SanitizeName(name)]; ok {
			absentIDs[id] = true
		}
	}

	current := existing[k-1]
	tables := len(current.Tables)

	// Every pair co-seated in any session other than k counts as already
	// met; repeating one of those pairings in the new session k is
	// penalized like a historical (earlier-batch) pairing.
	historical := core.NewHistoricalPairings()
	for _, a := range existing {
		if a.Session == current.Session {
			continue
		}
		for _, views := range a.Tables {
			for i := 0; i < len(views); i++ {
				for j := i + 1; j < len(views); j++ {
					historical.Add(byName[views[i].Name], byName[views[j].Name])
				}
			}
		}
	}

	currentTable := make(core.CurrentTableMap, len(participants))
	for tableNo, views := range current.Tables {
		for _, v := range views {
			id := byName[v.Name]
			if absentIDs[id] {
				continue
			}
			currentTable[id] = tableNo - 1
		}
	}

	result, err := e.regen.RegenerateSession(ctx, participants, absentIDs, tables, historical, currentTable, opts)
	if err != nil {
		e.log.SolveFailed(opts.SolveID, err)
		return nil, err
	}

	merged := make([]SessionAssignment, len(existing))
	copy(merged, existing)
	regenerated := externalize([]core.SessionAssignment{result.Assignment})[0]
	regenerated.Session = k
	merged[k-1] = regenerated

	report := result.Report
	report.SolveID = opts.SolveID
	e.log.SolveComplete(report.SolveID, report.Status, report.SolveTime)

	return &RegenerateResult{
		Assignments:          merged,
		AssignmentsUnchanged: result.AssignmentsUnchanged,
		Report:               report,
	}, nil
}

func validateBounds(participants, tables, sessions int, opts Options) error {
	switch {
	case tables < 1 || tables > MaxTables:
		return seatingerrors.ErrInvalidBounds.New(
			fmt.Sprintf("tables must be between 1 and %d, got %d", MaxTables, tables))
	case sessions < 1 || sessions > MaxSessions:
		return seatingerrors.ErrInvalidBounds.New(
			fmt.Sprintf("sessions must be between 1 and %d, got %d", MaxSessions, sessions))
	case participants > MaxParticipants:
		return seatingerrors.ErrInvalidBounds.New(
			fmt.Sprintf("at most %d participants are supported, got %d", MaxParticipants, participants))
	}
	if participants < tables {
		return seatingerrors.ErrInsufficientParticipants.New(participants, tables)
	}
	if opts.MaxTimeSeconds != 0 && (opts.MaxTimeSeconds < MinTimeSeconds || opts.MaxTimeSeconds > MaxTimeSeconds) {
		return seatingerrors.ErrInvalidBounds.New(
			fmt.Sprintf("max time must be between %d and %d seconds, got %d", MinTimeSeconds, MaxTimeSeconds, opts.MaxTimeSeconds))
	}
	return nil
}

// externalize renumbers decoded assignments for callers: sessions and
// tables are 1-based outside the engine, 0-based inside it.
func externalize(assignments []core.SessionAssignment) []SessionAssignment {
	out := make([]SessionAssignment, len(assignments))
	for i, a := range assignments {
		tables := make(map[int][]ParticipantView, len(a.Tables))
		for t, views := range a.Tables {
			tables[t+1] = views
		}
		out[i] = SessionAssignment{
			Session: a.Session + 1,
			Tables:  tables,
			Absent:  a.Absent,
		}
	}
	return out
}

// participantsFromAssignments reconstructs the canonical participant list
// from an externalized assignment set, re-running the roster normalizer so
// partners again share a couple id (the normalizer is idempotent over
// already-sanitized names). Participant and couple ids are renumbered in
// table order, so the numbers may differ from the original Generate call.
func participantsFromAssignments(existing []SessionAssignment) ([]Participant, error) {
	first := existing[0]
	tableNos := make([]int, 0, len(first.Tables))
	for t := range first.Tables {
		tableNos = append(tableNos, t)
	}
	sort.Ints(tableNos)

	var rows []roster.Row
	for _, t := range tableNos {
		for _, v := range first.Tables[t] {
			rows = append(rows, roster.Row{
				Name:     v.Name,
				Religion: v.Religion,
				Gender:   v.Gender,
				Partner:  v.Partner,
			})
		}
	}
	for _, v := range first.Absent {
		rows = append(rows, roster.Row{
			Name:     v.Name,
			Religion: v.Religion,
			Gender:   v.Gender,
			Partner:  v.Partner,
		})
	}

	normalized, err := roster.Normalize(rows)
	if err != nil {
		return nil, err
	}
	participants := make([]Participant, len(normalized))
	for i, p := range normalized {
		participants[i] = Participant{
			ID:            p.ID,
			Name:          p.Name,
			Religion:      p.Religion,
			Gender:        p.Gender,
			PartnerName:   p.PartnerName,
			CoupleID:      p.CoupleID,
			IsFacilitator: p.IsFacilitator,
		}
	}
	return participants, nil
}
