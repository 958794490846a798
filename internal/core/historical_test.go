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

package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHistoricalPairingsSymmetry(t *testing.T) {
	h := NewHistoricalPairings()
	h.Add(1, 2)
	require.True(t, h.Met(1, 2))
	require.True(t, h.Met(2, 1))
	require.False(t, h.Met(1, 3))
}

func TestHistoricalPairingsIgnoresSelfPairs(t *testing.T) {
	h := NewHistoricalPairings()
	h.Add(1, 1)
	require.False(t, h.Met(1, 1))
	require.Zero(t, h.Len())
}

func TestHistoricalPairingsLenCountsDistinctPairs(t *testing.T) {
	h := NewHistoricalPairings()
	h.Add(1, 2)
	h.Add(2, 1) // duplicate, reversed
	h.Add(2, 3)
	require.Equal(t, 2, h.Len())
}

func TestHistoricalPairingsPairsVisitsEachOnce(t *testing.T) {
	h := NewHistoricalPairings()
	h.Add(1, 2)
	h.Add(3, 4)
	seen := make(map[[2]int]int)
	h.Pairs(func(a, b int) { seen[[2]int{a, b}]++ })
	require.Equal(t, map[[2]int]int{{1, 2}: 1, {3, 4}: 1}, seen)
}

func TestHistoricalPairingsCloneIsIndependent(t *testing.T) {
	h := NewHistoricalPairings()
	h.Add(1, 2)
	clone := h.Clone()
	clone.Add(3, 4)
	require.True(t, clone.Met(1, 2))
	require.False(t, h.Met(3, 4))
}
