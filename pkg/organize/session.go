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

package organize

import (
	"context"
	"path/filepath"

	"github.com/walteh/sortrc/pkg/ledger"
	"github.com/walteh/sortrc/pkg/move"
)

// 🎫 Session holds the per-run state shared by every move of one run: the
// mover's claimed-destination set and the ledger run. Both the batch path
// and the watch worker route their files through a session, which keeps the
// no-parallel-move invariant in one place. A session belongs to a single
// worker and is not safe for concurrent use.
type Session struct {
	organizer *Organizer
	mover     *move.Mover
	run       *ledger.Run
}

// 🏭 NewSession starts a session with a fresh claimed set and ledger run.
func (o *Organizer) NewSession() *Session {
	return &Session{
		organizer: o,
		mover:     move.New(move.Options{}),
		run:       o.store.Begin(),
	}
}

// Run exposes the underlying ledger run.
func (s *Session) Run() *ledger.Run {
	return s.run
}

// 🚚 Process relocates one planned file and records the outcome.
func (s *Session) Process(ctx context.Context, planned PlannedMove) move.Record {
	rec := s.mover.Move(ctx, planned.Source, planned.DestDir)
	rec.Category = planned.Category.String()
	s.run.Record(rec)
	return rec
}

// 🚚 ProcessFile classifies and relocates a single discovered file. Watch
// mode calls this for every event the worker dequeues.
func (s *Session) ProcessFile(ctx context.Context, path string) move.Record {
	category := s.organizer.classifier.Classify(filepath.Base(path))
	return s.Process(ctx, PlannedMove{
		Source:   path,
		Category: category,
		DestDir:  s.organizer.DestinationFor(filepath.Dir(path), category),
	})
}

// 📝 Commit persists the session's run if anything moved. Sessions with no
// moved records leave the previous ledger in place, so an empty run never
// destroys an undoable one.
func (s *Session) Commit(ctx context.Context) error {
	if s.run.Moved() == 0 {
		return nil
	}
	return s.organizer.store.Commit(ctx, s.run)
}
