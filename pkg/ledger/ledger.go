// Copyright 2025 walteh LLC
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

package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/sortrc/pkg/move"
)

// 🚨 ErrLedgerCorrupt means the persisted ledger is unreadable or invalid.
// Undo refuses to run on a ledger it cannot trust, with no partial attempt.
var ErrLedgerCorrupt = errors.New("ledger unreadable or invalid")

// 📒 Ledger is the persisted form of one committed run: the full ordered
// sequence of move records, read back in full by the undo operation.
type Ledger struct {
	RunID       string        `json:"run_id"`
	CommittedAt time.Time     `json:"committed_at"`
	Records     []move.Record `json:"records"`
}

// 🏃 Run collects move records for one organize operation. A run is owned by
// the single worker that produced it and is not safe for concurrent use.
type Run struct {
	ID      string
	Started time.Time
	records []move.Record
}

// Record appends one move record to the run.
func (r *Run) Record(rec move.Record) {
	r.records = append(r.records, rec)
}

// Records returns the ordered records collected so far.
func (r *Run) Records() []move.Record {
	return r.records
}

// Moved returns the number of records with a moved outcome.
func (r *Run) Moved() int {
	count := 0
	for _, rec := range r.records {
		if rec.Outcome == move.OutcomeMoved {
			count++
		}
	}
	return count
}

// 💾 Store persists runs to a single well-known ledger file. Only the most
// recent committed run is kept, so only the last run is undoable.
type Store struct {
	path string
}

// 🏭 NewStore creates a store writing to the given ledger path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the ledger file location.
func (s *Store) Path() string {
	return s.path
}

// 🏁 Begin starts a new run with a fresh id.
func (s *Store) Begin() *Run {
	return &Run{
		ID:      uuid.NewString(),
		Started: time.Now().UTC(),
	}
}

// 📝 Commit serializes the run to the ledger file, replacing any previously
// committed run. The write is atomic (temp file + rename) so a crash cannot
// leave a half-written ledger behind.
func (s *Store) Commit(ctx context.Context, run *Run) error {
	logger := zerolog.Ctx(ctx)

	led := Ledger{
		RunID:       run.ID,
		CommittedAt: time.Now().UTC(),
		Records:     run.Records(),
	}
	data, err := json.MarshalIndent(led, "", "  ")
	if err != nil {
		return errors.Errorf("encoding ledger: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Errorf("creating ledger directory: %w", err)
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return errors.Errorf("writing temp ledger: %w", err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp ledger: %w", err)
	}

	logger.Debug().
		Str("run_id", run.ID).
		Int("records", len(run.Records())).
		Str("path", s.path).
		Msg("committed run ledger")
	return nil
}

// 📖 Load reads the last committed ledger. A missing file returns (nil, nil);
// anything unreadable or undecodable returns ErrLedgerCorrupt.
func (s *Store) Load(ctx context.Context) (*Ledger, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Errorf("reading ledger %s: %w", s.path, ErrLedgerCorrupt)
	}

	var led Ledger
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&led); err != nil {
		return nil, errors.Errorf("decoding ledger %s: %w", s.path, ErrLedgerCorrupt)
	}
	return &led, nil
}

// 🧹 Clear removes the ledger file so the consumed run cannot be undone twice.
func (s *Store) Clear(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Errorf("clearing ledger: %w", err)
	}
	return nil
}
