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
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/sortrc/pkg/move"
)

// 📊 UndoOutcome is the per-record result of an undo attempt.
type UndoOutcome string

const (
	UndoRestored UndoOutcome = "restored"
	UndoSkipped  UndoOutcome = "skipped"
	UndoFailed   UndoOutcome = "failed"
)

// 🚫 ErrUndoTargetMissing means a record's destination no longer exists:
// the file was moved or deleted externally since the run.
var ErrUndoTargetMissing = errors.New("undo target missing")

// ReasonUndoTargetMissing marks skipped undo entries in reports and logs.
const ReasonUndoTargetMissing = "undo-target-missing"

// 📄 UndoEntry is the outcome of undoing one move record.
type UndoEntry struct {
	Index       int         `json:"index"`
	Source      string      `json:"source"`
	Destination string      `json:"destination"`
	RestoredTo  string      `json:"restored_to,omitempty"`
	Outcome     UndoOutcome `json:"outcome"`
	Reason      string      `json:"reason,omitempty"`
}

// 📋 UndoReport aggregates per-record undo outcomes for the caller to present.
type UndoReport struct {
	RunID         string      `json:"run_id,omitempty"`
	NothingToUndo bool        `json:"nothing_to_undo,omitempty"`
	Entries       []UndoEntry `json:"entries,omitempty"`
}

// Restored returns the number of restored entries.
func (r *UndoReport) Restored() int { return r.count(UndoRestored) }

// Skipped returns the number of skipped entries.
func (r *UndoReport) Skipped() int { return r.count(UndoSkipped) }

// Failed returns the number of failed entries.
func (r *UndoReport) Failed() int { return r.count(UndoFailed) }

func (r *UndoReport) count(outcome UndoOutcome) int {
	count := 0
	for _, e := range r.Entries {
		if e.Outcome == outcome {
			count++
		}
	}
	return count
}

// ↩️ UndoLastRun replays the last committed run in reverse chronological
// order, moving each file back to its original path. The last moved file is
// undone first, which unwinds any chain of disambiguated renames that
// depended on earlier moves.
//
// Undo is not transactional: a failure on one record does not stop the rest.
// After a full or partial undo the ledger is cleared, so a second call is a
// no-op reporting nothing to undo.
func (s *Store) UndoLastRun(ctx context.Context) (*UndoReport, error) {
	logger := zerolog.Ctx(ctx)

	led, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	if led == nil {
		logger.Debug().Str("path", s.path).Msg("no ledger to undo")
		return &UndoReport{NothingToUndo: true}, nil
	}

	report := &UndoReport{RunID: led.RunID}

	// The restorer's claimed set keeps two restores from racing for the
	// same origin name, same as during the forward run.
	restorer := move.New(move.Options{})

	for i := len(led.Records) - 1; i >= 0; i-- {
		rec := led.Records[i]
		if rec.Outcome != move.OutcomeMoved {
			continue
		}
		report.Entries = append(report.Entries, s.undoRecord(ctx, restorer, i, rec))
	}

	if err := s.Clear(ctx); err != nil {
		return report, errors.Errorf("consuming ledger after undo: %w", err)
	}

	logger.Info().
		Str("run_id", led.RunID).
		Int("restored", report.Restored()).
		Int("skipped", report.Skipped()).
		Int("failed", report.Failed()).
		Msg("undo complete")
	return report, nil
}

// undoRecord moves one record's file back to its origin. If the origin path
// is occupied at restore time, the restored file is disambiguated rather
// than overwriting the occupant.
func (s *Store) undoRecord(ctx context.Context, restorer *move.Mover, index int, rec move.Record) UndoEntry {
	logger := zerolog.Ctx(ctx)
	entry := UndoEntry{
		Index:       index,
		Source:      rec.Source,
		Destination: rec.Destination,
	}

	if _, err := os.Lstat(rec.Destination); err != nil {
		entry.Outcome = UndoSkipped
		entry.Reason = ReasonUndoTargetMissing
		logger.Warn().
			Int("record", index).
			Str("destination", rec.Destination).
			Err(ErrUndoTargetMissing).
			Msg("skipping record")
		return entry
	}

	originDir := filepath.Dir(rec.Source)
	if err := os.MkdirAll(originDir, 0755); err != nil {
		entry.Outcome = UndoFailed
		entry.Reason = err.Error()
		return entry
	}

	target, err := restorer.ResolveDestination(originDir, filepath.Base(rec.Source))
	if err != nil {
		entry.Outcome = UndoFailed
		entry.Reason = err.Error()
		return entry
	}

	if err := move.Relocate(rec.Destination, target); err != nil {
		entry.Outcome = UndoFailed
		entry.Reason = err.Error()
		logger.Warn().
			Int("record", index).
			Str("destination", rec.Destination).
			Err(err).
			Msg("undo move failed")
		return entry
	}

	entry.Outcome = UndoRestored
	entry.RestoredTo = target
	logger.Debug().
		Int("record", index).
		Str("from", rec.Destination).
		Str("to", target).
		Msg("restored file")
	return entry
}
