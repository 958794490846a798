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

// Package store is the versioned result cache the engine's design notes call
// an explicit collaborator: generated assignment sets are appended under an
// opaque session id, one version per Generate or RegenerateSession call,
// with a TTL after which a version reads as gone. The engine itself never
// touches this package; callers that want persistence write results here
// after the fact.
package store

import (
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/boltdb/bolt"
	pkgerrors "github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/groupbuilder/seatingengine/internal/core"
)

var (
	// ErrResultNotFound is returned when a session has no live (unexpired)
	// result versions, or the named version does not exist.
	ErrResultNotFound = errors.NewKind("no result found for session %s")
)

// DefaultResultTTL matches the upstream cache's 30-day result expiry.
const DefaultResultTTL = 30 * 24 * time.Hour

var resultsBucket = []byte("results")

// Record is one stored result version.
type Record struct {
	SessionID string    `json:"session_id"`
	VersionID string    `json:"version_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`

	Assignments []core.SessionAssignment `json:"assignments"`
	Report      core.Report              `json:"report"`

	// Regenerated marks versions produced by RegenerateSession rather than
	// a full Generate; RegeneratedSession is the 1-based session touched.
	Regenerated        bool `json:"regenerated,omitempty"`
	RegeneratedSession int  `json:"regenerated_session,omitempty"`
}

// VersionInfo is the metadata listing shape of Versions.
type VersionInfo struct {
	VersionID          string    `json:"version_id"`
	CreatedAt          time.Time `json:"created_at"`
	Regenerated        bool      `json:"regenerated,omitempty"`
	RegeneratedSession int       `json:"regenerated_session,omitempty"`
}

// Store is an embedded, append-only versioned result cache.
type Store struct {
	db  *bolt.DB
	ttl time.Duration
	now func() time.Time
}

// Open opens (creating if needed) the bolt database at path with the
// default TTL.
func Open(path string) (*Store, error) {
	return OpenWithTTL(path, DefaultResultTTL)
}

// OpenWithTTL opens the bolt database at path using ttl for new versions.
func OpenWithTTL(path string, ttl time.Duration) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "opening result store")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(resultsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, pkgerrors.Wrap(err, "initializing result store")
	}
	return &Store{db: db, ttl: ttl, now: time.Now}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// PutResult appends a new version of sessionID's result and returns its
// minted version id. Earlier versions remain readable until they expire.
func (s *Store) PutResult(sessionID string, assignments []core.SessionAssignment, report core.Report) (string, error) {
	return s.put(Record{
		SessionID:   sessionID,
		Assignments: assignments,
		Report:      report,
	})
}

// PutRegenerated appends a version produced by regenerating one session
// (1-based) of an earlier result.
func (s *Store) PutRegenerated(sessionID string, assignments []core.SessionAssignment, report core.Report, session int) (string, error) {
	return s.put(Record{
		SessionID:          sessionID,
		Assignments:        assignments,
		Report:             report,
		Regenerated:        true,
		RegeneratedSession: session,
	})
}

func (s *Store) put(rec Record) (string, error) {
	rec.VersionID = uuid.NewV4().String()
	rec.CreatedAt = s.now().UTC()
	rec.ExpiresAt = rec.CreatedAt.Add(s.ttl)

	data, err := json.Marshal(rec)
	if err != nil {
		return "", pkgerrors.Wrap(err, "encoding result record")
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		sessions := tx.Bucket(resultsBucket)
		b, err := sessions.CreateBucketIfNotExists([]byte(rec.SessionID))
		if err != nil {
			return err
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(seqKey(seq), data)
	})
	if err != nil {
		return "", pkgerrors.Wrap(err, "storing result")
	}
	return rec.VersionID, nil
}

// GetResult returns the latest unexpired version for sessionID.
func (s *Store) GetResult(sessionID string) (*Record, error) {
	var rec *Record
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(resultsBucket).Bucket([]byte(sessionID))
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var r Record
			if err := json.Unmarshal(v, &r); err != nil {
				return pkgerrors.Wrap(err, "decoding result record")
			}
			if s.expired(r) {
				continue
			}
			rec = &r
			return nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrResultNotFound.New(sessionID)
	}
	return rec, nil
}

// GetResultVersion returns one specific unexpired version for sessionID.
func (s *Store) GetResultVersion(sessionID, versionID string) (*Record, error) {
	var rec *Record
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(resultsBucket).Bucket([]byte(sessionID))
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var r Record
			if err := json.Unmarshal(v, &r); err != nil {
				return pkgerrors.Wrap(err, "decoding result record")
			}
			if r.VersionID == versionID && !s.expired(r) {
				rec = &r
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrResultNotFound.New(sessionID)
	}
	return rec, nil
}

// Versions lists the unexpired versions of sessionID, newest first.
func (s *Store) Versions(sessionID string) ([]VersionInfo, error) {
	var out []VersionInfo
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(resultsBucket).Bucket([]byte(sessionID))
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var r Record
			if err := json.Unmarshal(v, &r); err != nil {
				return pkgerrors.Wrap(err, "decoding result record")
			}
			if s.expired(r) {
				continue
			}
			out = append(out, VersionInfo{
				VersionID:          r.VersionID,
				CreatedAt:          r.CreatedAt,
				Regenerated:        r.Regenerated,
				RegeneratedSession: r.RegeneratedSession,
			})
		}
		return nil
	})
	return out, err
}

// DeleteResult removes every version of sessionID.
func (s *Store) DeleteResult(sessionID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		sessions := tx.Bucket(resultsBucket)
		if sessions.Bucket([]byte(sessionID)) == nil {
			return nil
		}
		return sessions.DeleteBucket([]byte(sessionID))
	})
}

// PurgeExpired deletes every expired version and returns how many were
// removed. Bolt has no native TTL; callers run this periodically.
func (s *Store) PurgeExpired() (int, error) {
	purged := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		sessions := tx.Bucket(resultsBucket)
		var emptied [][]byte
		err := sessions.ForEach(func(sessionID, v []byte) error {
			if v != nil {
				return nil // not a nested bucket
			}
			b := sessions.Bucket(sessionID)
			var stale [][]byte
			live := 0
			err := b.ForEach(func(k, v []byte) error {
				var r Record
				if err := json.Unmarshal(v, &r); err != nil {
					return pkgerrors.Wrap(err, "decoding result record")
				}
				if s.expired(r) {
					stale = append(stale, append([]byte(nil), k...))
				} else {
					live++
				}
				return nil
			})
			if err != nil {
				return err
			}
			for _, k := range stale {
				if err := b.Delete(k); err != nil {
					return err
				}
				purged++
			}
			if live == 0 && len(stale) > 0 {
				emptied = append(emptied, append([]byte(nil), sessionID...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, sessionID := range emptied {
			if err := sessions.DeleteBucket(sessionID); err != nil {
				return err
			}
		}
		return nil
	})
	return purged, err
}

func (s *Store) expired(r Record) bool {
	return !r.ExpiresAt.IsZero() && s.now().After(r.ExpiresAt)
}

// seqKey renders a bucket sequence number big-endian so bolt's byte-sorted
// cursor walks versions in insertion order.
func seqKey(seq uint64) []byte {
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], seq)
	return k[:]
}
