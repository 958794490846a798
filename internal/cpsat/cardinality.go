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

package cpsat

// AtLeastIndicators returns len(lits) indicator literals: the literal at
// index k-1 (1-indexed k) is true if and only if at least k of lits are
// true. This is the standard incremental "unary counter" Tseitin
// construction (a relative of Sinz's sequential-counter encoding, but
// carried to the full range rather than a bounded k), and is the one
// primitive both the table/attribute balance constraints and the
// objective's upper-bound tightening are built from.
func (m *Model) AtLeastIndicators(lits []Lit) []Lit {
	if len(lits) == 0 {
		return nil
	}
	prev := []Lit{lits[0]}
	for i := 1; i < len(lits); i++ {
		x := lits[i]
		cur := make([]Lit, i+1)
		cur[0] = m.newOr(prev[0], x)
		for j := 1; j < i; j++ {
			cur[j] = m.newOr(prev[j], m.newAnd(prev[j-1], x))
		}
		cur[i] = m.newAnd(prev[i-1], x)
		prev = cur
	}
	return prev
}

// AddMaxMinGapAtMostOne constrains max(count(g)) - min(count(g)) <= 1 over
// the given groups of literals (one group per table, or one group per
// table restricted to a single attribute value). It serves both the
// table-size balance constraint and the per-attribute spread constraint.
//
// It works by building an at-least-k indicator chain per group, then
// asserting, for every ordered pair of groups (i, j) and every k,
// "at least k+2 in group i" implies "at least k+1 in group j". Requiring
// this for every ordered pair is equivalent to the global max-min<=1
// requirement: if it held for every pair, the group with the global
// maximum and the group with the global minimum are one such pair, so
// their difference is <=1; conversely a global gap of <=1 trivially
// implies every pairwise gap is <=1.
func (m *Model) AddMaxMinGapAtMostOne(groups [][]Lit) {
	indicators := make([][]Lit, len(groups))
	for i, g := range groups {
		indicators[i] = m.AtLeastIndicators(g)
	}
	for i := range groups {
		for j := range groups {
			if i == j {
				continue
			}
			for k := 0; k+1 < len(indicators[i]); k++ {
				atLeastKPlus2InI := indicators[i][k+1]
				if k < len(indicators[j]) {
					atLeastKPlus1InJ := indicators[j][k]
					m.AddClause(atLeastKPlus2InI.Negate(), atLeastKPlus1InJ)
				} else {
					m.AddClause(atLeastKPlus2InI.Negate())
				}
			}
		}
	}
}

// AddAtMostKFromIndicators forbids more than k of lits from being true, by reusing an
// already-built at-least-indicator chain: "at least k+1" must be false.
// indicators must have been produced by AtLeastIndicators over the same
// lits (or a superset ordering) so indicators[k] means "at least k+1".
func (m *Model) AddAtMostKFromIndicators(indicators []Lit, k int) {
	if k < 0 {
		for _, l := range indicators {
			m.AddClause(l.Negate())
		}
		return
	}
	if k >= len(indicators) {
		return // constraint is vacuous, every literal may be true
	}
	m.AddClause(indicators[k].Negate())
}
