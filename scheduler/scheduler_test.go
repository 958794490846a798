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

package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/groupbuilder/seatingengine/internal/core"
)

func TestCalculateBatchTimeoutsSingleBatch(t *testing.T) {
	timeouts := calculateBatchTimeouts(3, 4, 120*time.Second)
	require.Equal(t, []time.Duration{120 * time.Second}, timeouts)
}

func TestCalculateBatchTimeoutsSplitsFirstBatchHalf(t *testing.T) {
	timeouts := calculateBatchTimeouts(6, 2, 120*time.Second)
	require.Len(t, timeouts, 3)
	require.Equal(t, 60*time.Second, timeouts[0])
	require.Equal(t, 30*time.Second, timeouts[1])
	require.Equal(t, 30*time.Second, timeouts[2])
}

func TestTrackHistoricalPairingsRecordsTablemates(t *testing.T) {
	historical := core.NewHistoricalPairings()
	seatedAt := map[int]int{1: 0, 2: 0, 3: 1}
	trackHistoricalPairings(seatedAt, historical)
	require.True(t, historical.Met(1, 2))
	require.False(t, historical.Met(1, 3))
	require.False(t, historical.Met(2, 3))
}

func TestLockBatchAssignmentsFixesAndForbids(t *testing.T) {
	locked := core.LockedPositions{}
	lockBatchAssignments(0, map[int]int{1: 1}, 3, locked)
	require.True(t, locked[core.LockedKey{ParticipantID: 1, Session: 0, Table: 1}])
	require.False(t, locked[core.LockedKey{ParticipantID: 1, Session: 0, Table: 0}])
	require.False(t, locked[core.LockedKey{ParticipantID: 1, Session: 0, Table: 2}])
}
