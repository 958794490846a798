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

// Package diagnostics is this engine's observability surface: structured
// logging around each solve, opentracing spans covering Generate and
// RegenerateSession, a deterministic Problem fingerprint for correlating
// repeated solves of the same input, and solve-id generation for tying a
// multi-batch incremental solve's log lines together.
package diagnostics

import (
	"context"
	"time"

	"github.com/mitchellh/hashstructure"
	"github.com/opentracing/opentracing-go"
	"github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"

	"github.com/groupbuilder/seatingengine/internal/core"
)

// Logger wraps a logrus.Entry tagged with this engine's system name.
type Logger struct {
	entry *logrus.Entry
}

// NewLogger returns a Logger writing through l, tagged "system=seating".
func NewLogger(l *logrus.Logger) *Logger {
	return &Logger{entry: l.WithField("system", "seating")}
}

// NewSolveID mints an opaque id for correlating one Generate or
// RegenerateSession call's log lines (and, via store, its cached result).
func NewSolveID() string {
	return uuid.NewV4().String()
}

// Fingerprint returns a deterministic hash of a Problem. It is logged with
// each solve start, so log lines of two solve requests describing the same
// input can be recognized.
func Fingerprint(problem core.Problem) (uint64, error) {
	return hashstructure.Hash(problem, nil)
}

// SolveStarted logs the start of one Generate or RegenerateSession call.
func (l *Logger) SolveStarted(solveID string, fingerprint uint64, participants, tables, sessions int) {
	if l == nil {
		return
	}
	l.entry.WithFields(logrus.Fields{
		"solve_id":     solveID,
		"fingerprint":  fingerprint,
		"participants": participants,
		"tables":       tables,
		"sessions":     sessions,
	}).Info("solve started")
}

// SolveComplete logs the outcome of one Generate or RegenerateSession call.
func (l *Logger) SolveComplete(solveID string, status core.SolutionStatus, solveTime time.Duration) {
	if l == nil {
		return
	}
	l.entry.WithFields(logrus.Fields{
		"solve_id":   solveID,
		"status":     status,
		"solve_time": solveTime,
	}).Info("solve complete")
}

// BatchStarted logs the start of one incremental batch.
func (l *Logger) BatchStarted(solveID string, batchIdx, numBatches, start, end, historicalLen int) {
	if l == nil {
		return
	}
	l.entry.WithFields(logrus.Fields{
		"solve_id":     solveID,
		"batch":        batchIdx + 1,
		"num_batches":  numBatches,
		"session_from": start,
		"session_to":   end,
		"historical":   historicalLen,
	}).Info("batch started")
}

// BatchComplete logs the outcome of one incremental batch.
func (l *Logger) BatchComplete(solveID string, batchIdx int, status core.SolutionStatus, branches, conflicts int64) {
	if l == nil {
		return
	}
	l.entry.WithFields(logrus.Fields{
		"solve_id":  solveID,
		"batch":     batchIdx + 1,
		"status":    status,
		"branches":  branches,
		"conflicts": conflicts,
	}).Info("batch complete")
}

// SolveFailed logs a failed solve (single-shot or one incremental batch).
func (l *Logger) SolveFailed(solveID string, err error) {
	if l == nil {
		return
	}
	l.entry.WithFields(logrus.Fields{
		"solve_id": solveID,
		"err":      err,
	}).Error("solve failed")
}

// StartSpan opens an opentracing span for name, wiring ctx through so
// nested spans (one per incremental batch) parent correctly.
func StartSpan(ctx context.Context, name string) (opentracing.Span, context.Context) {
	return opentracing.StartSpanFromContext(ctx, name)
}
