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

package ledger_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/sortrc/pkg/ledger"
	"github.com/walteh/sortrc/pkg/move"
)

// 🧪 testContext returns a context carrying a test logger
func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

// 🧪 newStore creates a store in a temp data dir
func newStore(t *testing.T) *ledger.Store {
	return ledger.NewStore(filepath.Join(t.TempDir(), "last_run.json"))
}

// 🧪 writeFile creates a file with content in dir and returns its path
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// 🧪 TestCommitAndLoad verifies the ledger round-trips through disk
func TestCommitAndLoad(t *testing.T) {
	ctx := testContext(t)
	store := newStore(t)

	run := store.Begin()
	require.NotEmpty(t, run.ID)
	run.Record(move.Record{
		Source:      "/src/a.txt",
		Destination: "/dst/a.txt",
		Outcome:     move.OutcomeMoved,
	})
	run.Record(move.Record{
		Source:  "/src/b.txt",
		Outcome: move.OutcomeFailed,
		Reason:  move.ReasonSourceMissing,
	})
	require.NoError(t, store.Commit(ctx, run))

	led, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, led)
	assert.Equal(t, run.ID, led.RunID)
	require.Len(t, led.Records, 2)
	assert.Equal(t, move.OutcomeMoved, led.Records[0].Outcome)
	assert.Equal(t, move.ReasonSourceMissing, led.Records[1].Reason)
	assert.Equal(t, 1, run.Moved())
}

// 🧪 TestCommitSingleSlot verifies a new run replaces the previous ledger
func TestCommitSingleSlot(t *testing.T) {
	ctx := testContext(t)
	store := newStore(t)

	first := store.Begin()
	first.Record(move.Record{Source: "/src/old.txt", Outcome: move.OutcomeMoved, Destination: "/dst/old.txt"})
	require.NoError(t, store.Commit(ctx, first))

	second := store.Begin()
	second.Record(move.Record{Source: "/src/new.txt", Outcome: move.OutcomeMoved, Destination: "/dst/new.txt"})
	require.NoError(t, store.Commit(ctx, second))

	led, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, led)
	assert.Equal(t, second.ID, led.RunID)
	require.Len(t, led.Records, 1)
	assert.Equal(t, "/src/new.txt", led.Records[0].Source)
}

// 🧪 TestLoadMissing verifies an absent ledger is not an error
func TestLoadMissing(t *testing.T) {
	led, err := newStore(t).Load(testContext(t))
	require.NoError(t, err)
	assert.Nil(t, led)
}

// 🧪 TestLoadCorrupt verifies undo refuses an untrusted ledger
func TestLoadCorrupt(t *testing.T) {
	ctx := testContext(t)
	path := filepath.Join(t.TempDir(), "last_run.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	store := ledger.NewStore(path)

	_, err := store.Load(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrLedgerCorrupt)

	_, err = store.UndoLastRun(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrLedgerCorrupt)

	// the corrupt ledger itself is left untouched
	assert.FileExists(t, path)
}

// 🧪 TestUndoRoundTrip verifies organize-then-undo restores every file
func TestUndoRoundTrip(t *testing.T) {
	ctx := testContext(t)
	store := newStore(t)
	srcDir := t.TempDir()
	destDir := t.TempDir()

	names := []string{"a.txt", "b.pdf", "c.jpg"}
	mover := move.New(move.Options{})
	run := store.Begin()
	for _, name := range names {
		src := writeFile(t, srcDir, name, "content of "+name)
		rec := mover.Move(ctx, src, destDir)
		require.Equal(t, move.OutcomeMoved, rec.Outcome)
		run.Record(rec)
	}
	require.NoError(t, store.Commit(ctx, run))

	report, err := store.UndoLastRun(ctx)
	require.NoError(t, err)
	assert.False(t, report.NothingToUndo)
	assert.Equal(t, len(names), report.Restored())
	assert.Zero(t, report.Skipped())
	assert.Zero(t, report.Failed())

	for _, name := range names {
		assert.FileExists(t, filepath.Join(srcDir, name))
		assert.NoFileExists(t, filepath.Join(destDir, name))
	}
}

// 🧪 TestUndoReverseOrder verifies disambiguated names unwind correctly
func TestUndoReverseOrder(t *testing.T) {
	ctx := testContext(t)
	store := newStore(t)
	srcA := t.TempDir()
	srcB := t.TempDir()
	destDir := t.TempDir()

	// two same-named sources from different folders: the second one is
	// renamed to "x (1).txt" at move time
	fileA := writeFile(t, srcA, "x.txt", "first")
	fileB := writeFile(t, srcB, "x.txt", "second")

	mover := move.New(move.Options{})
	run := store.Begin()
	recA := mover.Move(ctx, fileA, destDir)
	recB := mover.Move(ctx, fileB, destDir)
	require.Equal(t, filepath.Join(destDir, "x.txt"), recA.Destination)
	require.Equal(t, filepath.Join(destDir, "x (1).txt"), recB.Destination)
	run.Record(recA)
	run.Record(recB)
	require.NoError(t, store.Commit(ctx, run))

	report, err := store.UndoLastRun(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, report.Restored())

	// "x (1).txt" is undone first, then "x.txt", without collision
	assert.Equal(t, fileB, report.Entries[0].RestoredTo)
	assert.Equal(t, fileA, report.Entries[1].RestoredTo)

	contentA, err := os.ReadFile(fileA)
	require.NoError(t, err)
	assert.Equal(t, "first", string(contentA))
	contentB, err := os.ReadFile(fileB)
	require.NoError(t, err)
	assert.Equal(t, "second", string(contentB))
}

// 🧪 TestUndoTargetMissing verifies externally removed files are skipped
func TestUndoTargetMissing(t *testing.T) {
	ctx := testContext(t)
	store := newStore(t)
	srcDir := t.TempDir()
	destDir := t.TempDir()

	mover := move.New(move.Options{})
	run := store.Begin()

	kept := writeFile(t, srcDir, "kept.txt", "kept")
	gone := writeFile(t, srcDir, "gone.txt", "gone")
	recKept := mover.Move(ctx, kept, destDir)
	recGone := mover.Move(ctx, gone, destDir)
	run.Record(recKept)
	run.Record(recGone)
	require.NoError(t, store.Commit(ctx, run))

	// someone deletes the moved file before undo runs
	require.NoError(t, os.Remove(recGone.Destination))

	report, err := store.UndoLastRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Restored())
	assert.Equal(t, 1, report.Skipped())
	assert.Equal(t, ledger.ReasonUndoTargetMissing, report.Entries[0].Reason)
	assert.FileExists(t, kept)
}

// 🧪 TestUndoRestoreIntoOccupiedOrigin verifies restores never overwrite
func TestUndoRestoreIntoOccupiedOrigin(t *testing.T) {
	ctx := testContext(t)
	store := newStore(t)
	srcDir := t.TempDir()
	destDir := t.TempDir()

	src := writeFile(t, srcDir, "a.txt", "original")
	mover := move.New(move.Options{})
	run := store.Begin()
	rec := mover.Move(ctx, src, destDir)
	run.Record(rec)
	require.NoError(t, store.Commit(ctx, run))

	// a new file appears at the origin path before undo
	writeFile(t, srcDir, "a.txt", "newcomer")

	report, err := store.UndoLastRun(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.Restored())
	assert.Equal(t, filepath.Join(srcDir, "a (1).txt"), report.Entries[0].RestoredTo)

	content, err := os.ReadFile(filepath.Join(srcDir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "newcomer", string(content))
}

// 🧪 TestDoubleUndo verifies the second undo is a no-op
func TestDoubleUndo(t *testing.T) {
	ctx := testContext(t)
	store := newStore(t)
	srcDir := t.TempDir()
	destDir := t.TempDir()

	src := writeFile(t, srcDir, "a.txt", "x")
	mover := move.New(move.Options{})
	run := store.Begin()
	run.Record(mover.Move(ctx, src, destDir))
	require.NoError(t, store.Commit(ctx, run))

	first, err := store.UndoLastRun(ctx)
	require.NoError(t, err)
	assert.False(t, first.NothingToUndo)

	second, err := store.UndoLastRun(ctx)
	require.NoError(t, err)
	assert.True(t, second.NothingToUndo)
	assert.Empty(t, second.Entries)
}
