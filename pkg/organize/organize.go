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
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/sortrc/pkg/classify"
	"github.com/walteh/sortrc/pkg/config"
	"github.com/walteh/sortrc/pkg/ledger"
	"github.com/walteh/sortrc/pkg/log"
	"github.com/walteh/sortrc/pkg/move"
)

// 📊 Outcome is the result of one batch run.
type Outcome string

const (
	OutcomeSuccess Outcome = "success" // everything eligible was moved
	OutcomePartial Outcome = "partial" // some files failed, reported individually
	OutcomeNoop    Outcome = "noop"    // nothing to move
)

// 📋 Summary aggregates one batch run.
type Summary struct {
	RunID     string
	Outcome   Outcome
	Moved     int
	Skipped   int
	Failed    int
	Cancelled bool
}

// 🗺️ PlannedMove is one entry of the preview plan: where a file would go.
type PlannedMove struct {
	Source   string
	Category classify.CategoryPath
	DestDir  string
}

// 🔧 Options configures an Organizer.
type Options struct {
	// Config is the rule configuration. Required.
	Config *config.Config
	// Store persists run ledgers. Required.
	Store *ledger.Store
	// Sink receives one line per outcome. Nil means the context default.
	Sink *log.Logger
}

// 🎮 Organizer wires the classifier, safe mover, ledger and log sink into
// the organize, preview and undo operations.
type Organizer struct {
	config     *config.Config
	classifier *classify.Classifier
	store      *ledger.Store
	sink       *log.Logger
}

// 🏭 New creates an organizer with the given options.
func New(opts Options) (*Organizer, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Store == nil {
		return nil, errors.New("ledger store is required")
	}
	return &Organizer{
		config:     opts.Config,
		classifier: classify.New(opts.Config.Rules()),
		store:      opts.Store,
		sink:       opts.Sink,
	}, nil
}

// Classifier exposes the run's classifier, e.g. for preview rendering.
func (o *Organizer) Classifier() *classify.Classifier {
	return o.classifier
}

// 📂 Sources returns the configured source folders.
func (o *Organizer) Sources() []string {
	return o.config.Sources
}

// 🔍 Plan scans the configured source folders (non-recursive, regular files
// only) and returns the preview plan without touching anything.
func (o *Organizer) Plan(ctx context.Context) ([]PlannedMove, error) {
	logger := zerolog.Ctx(ctx)

	if len(o.config.Sources) == 0 {
		return nil, errors.New("no source folders configured")
	}

	var plan []PlannedMove
	for _, source := range o.config.Sources {
		entries, err := os.ReadDir(source)
		if err != nil {
			if os.IsNotExist(err) {
				logger.Warn().Str("source", source).Msg("source folder not found, skipping")
				continue
			}
			return nil, errors.Errorf("reading source folder %s: %w", source, err)
		}
		for _, entry := range entries {
			if !entry.Type().IsRegular() {
				continue
			}
			if !o.Eligible(entry.Name()) {
				logger.Debug().Str("file", entry.Name()).Msg("excluded by rules")
				continue
			}
			category := o.classifier.Classify(entry.Name())
			plan = append(plan, PlannedMove{
				Source:   filepath.Join(source, entry.Name()),
				Category: category,
				DestDir:  o.DestinationFor(source, category),
			})
		}
	}
	return plan, nil
}

// 🏃 Run executes the plan sequentially: one move at a time, every outcome
// recorded, the ledger committed when anything moved. Per-file failures are
// reported and never abort the batch. Cancellation is honored between
// files, never mid-copy; already-recorded moves stay undoable.
func (o *Organizer) Run(ctx context.Context) (*Summary, error) {
	plan, err := o.Plan(ctx)
	if err != nil {
		return nil, err
	}

	session := o.NewSession()
	sink := o.sinkFor(ctx)
	sink.StartRun(ctx, o.config.Sources)

	summary := &Summary{RunID: session.Run().ID}
	for _, planned := range plan {
		select {
		case <-ctx.Done():
			summary.Cancelled = true
		default:
		}
		if summary.Cancelled {
			break
		}

		rec := session.Process(ctx, planned)
		sink.LogMoveRecord(ctx, rec)
		switch rec.Outcome {
		case move.OutcomeMoved:
			summary.Moved++
		case move.OutcomeSkipped:
			summary.Skipped++
		default:
			summary.Failed++
		}
	}

	if err := session.Commit(ctx); err != nil {
		return nil, err
	}

	switch {
	case summary.Moved == 0 && summary.Failed == 0:
		summary.Outcome = OutcomeNoop
	case summary.Failed > 0:
		summary.Outcome = OutcomePartial
	default:
		summary.Outcome = OutcomeSuccess
	}

	sink.EndRun(ctx, summary.Moved, summary.Skipped, summary.Failed)
	return summary, nil
}

// ↩️ Undo reverses the last committed run and logs every entry.
func (o *Organizer) Undo(ctx context.Context) (*ledger.UndoReport, error) {
	report, err := o.store.UndoLastRun(ctx)
	if err != nil {
		return nil, err
	}
	sink := o.sinkFor(ctx)
	for _, entry := range report.Entries {
		sink.LogUndoEntry(ctx, entry)
	}
	return report, nil
}

// 🎯 DestinationFor resolves where a category's files land for a given
// source folder: the per-category override wins, then the others
// destination for fallback files, then the global destination, then the
// source folder itself.
func (o *Organizer) DestinationFor(sourceDir string, category classify.CategoryPath) string {
	if dest := o.config.CategoryDestination(category); dest != "" {
		return dest
	}
	if category.String() == classify.Fallback.String() && o.config.OthersDestination != "" {
		return o.config.OthersDestination
	}
	root := o.config.Destination
	if root == "" {
		root = sourceDir
	}
	return category.Dir(root)
}

// Eligible reports whether a file name passes the hidden-file and
// ignore-pattern rules.
func (o *Organizer) Eligible(name string) bool {
	if o.config.SkipHiddenFiles() && strings.HasPrefix(name, ".") {
		return false
	}
	for _, pattern := range o.config.IgnorePatterns {
		if matched, err := doublestar.Match(pattern, name); err == nil && matched {
			return false
		}
	}
	return true
}

func (o *Organizer) sinkFor(ctx context.Context) *log.Logger {
	if o.sink != nil {
		return o.sink
	}
	return log.FromContext(ctx)
}
