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

package regen

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/groupbuilder/seatingengine/internal/core"
	"github.com/groupbuilder/seatingengine/internal/cpsat"
	"github.com/groupbuilder/seatingengine/internal/seatingerrors"
)

// timeoutBackend never reaches a verdict, so every solve reads as a
// deadline expiry.
type timeoutBackend struct {
	calls int64
}

func (b *timeoutBackend) Solve(context.Context, int32, [][]cpsat.Lit) (cpsat.Status, []bool, cpsat.Stats, error) {
	atomic.AddInt64(&b.calls, 1)
	return cpsat.StatusUnknown, nil, cpsat.Stats{}, nil
}

func TestRegenerateSessionRejectsTooFewActiveParticipants(t *testing.T) {
	r := New(nil)
	participants := []core.Participant{{ID: 1, Name: "A"}}
	absent := map[int]bool{1: true}
	_, err := r.RegenerateSession(context.Background(), participants, absent, 2, core.NewHistoricalPairings(), nil, core.DefaultOptions())
	require.Error(t, err)
}

func TestRegenerateSessionRetriesSoftAfterHardTimeout(t *testing.T) {
	backend := &timeoutBackend{}
	r := New(backend)
	participants := []core.Participant{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	opts := core.DefaultOptions()
	opts.Workers = 1

	_, err := r.RegenerateSession(context.Background(), participants, nil, 2,
		core.NewHistoricalPairings(), core.CurrentTableMap{1: 0, 2: 1}, opts)
	require.Error(t, err)
	require.True(t, seatingerrors.ErrTimeout.Is(err))
	require.EqualValues(t, 2, atomic.LoadInt64(&backend.calls),
		"the hard timeout should be followed by exactly one soft attempt")
}

func TestRegenerateSessionCountsAbsenteesOut(t *testing.T) {
	r := New(nil)
	participants := []core.Participant{
		{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"},
	}
	absent := map[int]bool{2: true, 3: true}
	_, err := r.RegenerateSession(context.Background(), participants, absent, 2, core.NewHistoricalPairings(), nil, core.DefaultOptions())
	require.Error(t, err)
	require.True(t, seatingerrors.ErrInsufficientParticipants.Is(err))
}
