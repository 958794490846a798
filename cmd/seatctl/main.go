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

// seatctl drives the assignment engine from the command line: it reads a
// roster file, generates (or regenerates one session of) a seating plan, and
// prints the result as JSON. It exists to exercise the engine's two public
// operations end to end without the out-of-scope HTTP surface.
//
// Generate six sessions across four tables:
//
//	seatctl -roster roster.json -tables 4 -sessions 6
//
// Regenerate session 2 of a previous run with two absentees:
//
//	seatctl -roster roster.json -tables 4 -sessions 6 \
//	    -regenerate 2 -absent "Jane Doe,John Doe" -in result.json
//
// The roster file is a JSON array of objects with Name, Religion, Gender,
// Partner and optional Facilitator fields, the same columns the upstream
// spreadsheet ingestion produces.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	seating "github.com/groupbuilder/seatingengine"
	"github.com/groupbuilder/seatingengine/roster"
	"github.com/groupbuilder/seatingengine/rosteringest"
	"github.com/groupbuilder/seatingengine/store"
)

func main() {
	var (
		rosterPath = flag.String("roster", "", "path to the roster JSON file (required)")
		tables     = flag.Int("tables", 2, "number of tables per session")
		sessions   = flag.Int("sessions", 1, "number of sessions to generate")
		configPath = flag.String("config", "", "optional YAML config file")
		inPath     = flag.String("in", "", "existing result JSON to regenerate a session of")
		regenerate = flag.Int("regenerate", 0, "1-based session to regenerate (requires -in)")
		absentCSV  = flag.String("absent", "", "comma-separated names absent from the regenerated session")
		storePath  = flag.String("store", "", "optional bolt database to append the result to")
		sessionID  = flag.String("session-id", "", "session id for -store (required with -store)")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	log := logrus.StandardLogger()
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if *rosterPath == "" {
		fail("missing -roster")
	}
	if *storePath != "" && *sessionID == "" {
		fail("-store requires -session-id")
	}

	opts := seating.DefaultOptions()
	if *configPath != "" {
		cfg, err := seating.LoadConfig(*configPath)
		if err != nil {
			fail(err.Error())
		}
		opts = cfg.Options()
	}

	participants, err := loadRoster(*rosterPath)
	if err != nil {
		fail(err.Error())
	}

	engine := seating.NewDefault()
	ctx := context.Background()

	if *regenerate > 0 {
		if *inPath == "" {
			fail("-regenerate requires -in")
		}
		existing, err := loadResult(*inPath)
		if err != nil {
			fail(err.Error())
		}
		var absent []string
		if *absentCSV != "" {
			absent = strings.Split(*absentCSV, ",")
		}
		result, err := engine.RegenerateSession(ctx, existing, *regenerate, absent, opts)
		if err != nil {
			fail(err.Error())
		}
		if *storePath != "" {
			if err := persistRegenerated(*storePath, *sessionID, result, *regenerate); err != nil {
				fail(err.Error())
			}
		}
		printJSON(map[string]interface{}{
			"assignments":           result.Assignments,
			"assignments_unchanged": result.AssignmentsUnchanged,
			"report":                result.Report,
		})
		return
	}

	result, err := engine.Generate(ctx, participants, *tables, *sessions, opts)
	if err != nil {
		fail(err.Error())
	}
	if *storePath != "" {
		if err := persistGenerated(*storePath, *sessionID, result); err != nil {
			fail(err.Error())
		}
	}
	printJSON(map[string]interface{}{
		"assignments": result.Assignments,
		"report":      result.Report,
	})
}

func loadRoster(path string) ([]seating.Participant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []map[string]string
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing roster %s: %w", path, err)
	}
	rows := rosteringest.FromRecords(records, rosteringest.DefaultColumns)
	normalized, err := roster.Normalize(rows)
	if err != nil {
		return nil, err
	}
	participants := make([]seating.Participant, len(normalized))
	for i, p := range normalized {
		participants[i] = seating.Participant{
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

func loadResult(path string) ([]seating.SessionAssignment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var wrapper struct {
		Assignments []seating.SessionAssignment `json:"assignments"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("parsing result %s: %w", path, err)
	}
	if len(wrapper.Assignments) > 0 {
		return wrapper.Assignments, nil
	}
	// Also accept a bare assignments array.
	var bare []seating.SessionAssignment
	if err := json.Unmarshal(data, &bare); err != nil {
		return nil, fmt.Errorf("parsing result %s: %w", path, err)
	}
	return bare, nil
}

func persistGenerated(path, sessionID string, result *seating.GenerateResult) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()
	_, err = st.PutResult(sessionID, result.Assignments, result.Report)
	return err
}

func persistRegenerated(path, sessionID string, result *seating.RegenerateResult, session int) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()
	_, err = st.PutRegenerated(sessionID, result.Assignments, result.Report, session)
	return err
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fail(err.Error())
	}
}

func fail(msg string) {
	fmt.Fprintln(os.Stderr, "seatctl:", msg)
	os.Exit(1)
}
