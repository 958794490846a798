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
	"github.com/pilosa/pilosa/roaring"
)

// HistoricalPairings is the set of unordered participant pairs that have
// already shared a table in an earlier-fixed (already-solved) session. It
// grows monotonically as the incremental scheduler commits batches.
//
// Membership is backed by one roaring bitmap per participant id, rather
// than a map[[2]int]struct{}, so that merging a batch's newly-discovered
// pairings (a union per participant) and testing "have p and q already
// met" stay cheap even at the roster sizes this engine targets.
type HistoricalPairings struct {
	met map[int]*roaring.Bitmap
}

// NewHistoricalPairings returns an empty pairing set.
func NewHistoricalPairings() *HistoricalPairings {
	return &HistoricalPairings{met: make(map[int]*roaring.Bitmap)}
}

// Add records that participants a and b have been seated together.
func (h *HistoricalPairings) Add(a, b int) {
	if a == b {
		return
	}
	h.addDirected(a, b)
	h.addDirected(b, a)
}

func (h *HistoricalPairings) addDirected(from, to int) {
	bm, ok := h.met[from]
	if !ok {
		bm = roaring.NewBitmap()
		h.met[from] = bm
	}
	bm.Add(uint64(to))
}

// Met reports whether a and b have already been seated together.
func (h *HistoricalPairings) Met(a, b int) bool {
	bm, ok := h.met[a]
	if !ok {
		return false
	}
	return bm.Contains(uint64(b))
}

// Len returns the number of distinct pairs tracked, for diagnostics.
func (h *HistoricalPairings) Len() int {
	n := 0
	for id, bm := range h.met {
		for _, other := range bm.Slice() {
			if int(other) > id {
				n++
			}
		}
	}
	return n
}

// Pairs calls fn once for every distinct pair currently tracked.
func (h *HistoricalPairings) Pairs(fn func(a, b int)) {
	for id, bm := range h.met {
		for _, other := range bm.Slice() {
			if int(other) > id {
				fn(id, int(other))
			}
		}
	}
}

// Clone returns a deep copy, so a batch can extend its own working set
// without mutating the scheduler's running history until it commits.
func (h *HistoricalPairings) Clone() *HistoricalPairings {
	out := NewHistoricalPairings()
	for id, bm := range h.met {
		out.met[id] = bm.Clone()
	}
	return out
}
