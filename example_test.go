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

package seating_test

import (
	"context"
	"fmt"

	seating "github.com/groupbuilder/seatingengine"
	"github.com/groupbuilder/seatingengine/roster"
)

func Example() {
	// Normalize a raw roster: sanitize names, validate partnerships, and
	// assign couple ids.
	rows := []roster.Row{
		{Name: "John", Religion: "Christian", Gender: "Male", Partner: "Jane"},
		{Name: "Jane", Religion: "Christian", Gender: "Female", Partner: "John"},
		{Name: "Bob", Religion: "Jewish", Gender: "Male", Partner: "Alice"},
		{Name: "Alice", Religion: "Jewish", Gender: "Female", Partner: "Bob"},
	}
	normalized, err := roster.Normalize(rows)
	checkIfError(err)

	participants := make([]seating.Participant, len(normalized))
	for i, p := range normalized {
		participants[i] = seating.Participant{
			ID: p.ID, Name: p.Name, Religion: p.Religion, Gender: p.Gender,
			PartnerName: p.PartnerName, CoupleID: p.CoupleID,
		}
	}

	// Seat them across two tables for one session. Partners never share a
	// table, and tables stay balanced.
	engine := seating.NewDefault()
	result, err := engine.Generate(context.Background(), participants, 2, 1, seating.DefaultOptions())
	checkIfError(err)

	for _, assignment := range result.Assignments {
		fmt.Printf("session %d has %d tables\n", assignment.Session, len(assignment.Tables))
	}
	// The exact seating varies run to run (the solver breaks ties
	// internally), so only the shape is printed here.
}

func checkIfError(err error) {
	if err != nil {
		panic(err)
	}
}
