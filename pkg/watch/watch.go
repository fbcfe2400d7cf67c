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

// 📦 Package watch keeps source folders organized continuously. It listens
// for filesystem events, waits for each new file to settle (downloads and
// copies arrive in chunks), and routes it through the same session pipeline
// the one-shot run uses. A file lock guarantees a single watcher instance
// per machine.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/sortrc/pkg/log"
	"github.com/walteh/sortrc/pkg/move"
	"github.com/walteh/sortrc/pkg/organize"
)

// 🚫 ErrAlreadyRunning means another watcher holds the instance lock.
var ErrAlreadyRunning = errors.New("another watch instance is already running")

// readyQueueSize bounds how many settled files can pile up while the
// consumer is busy moving a previous one.
const readyQueueSize = 64

// 🎛️ Options configures a watch service.
type Options struct {
	// Organizer classifies and moves files (required).
	Organizer *organize.Organizer

	// LockPath is the single-instance lock file (required).
	LockPath string

	// Patterns restricts which file names are picked up. Empty means
	// everything the organizer considers eligible.
	Patterns []string

	// SettleDelay is how long a file must stay quiet before it is moved.
	SettleDelay time.Duration
}

// 👀 Service watches the configured source folders and organizes new
// files as they settle.
type Service struct {
	organizer *organize.Organizer
	lock      *flock.Flock
	patterns  []string
	settle    time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
	ready  chan string
	done   chan struct{}
}

// 🏭 New creates a watch service.
func New(opts Options) (*Service, error) {
	if opts.Organizer == nil {
		return nil, errors.New("organizer is required")
	}
	if opts.LockPath == "" {
		return nil, errors.New("lock path is required")
	}
	settle := opts.SettleDelay
	if settle <= 0 {
		settle = 500 * time.Millisecond
	}
	return &Service{
		organizer: opts.Organizer,
		lock:      flock.New(opts.LockPath),
		patterns:  opts.Patterns,
		settle:    settle,
		timers:    map[string]*time.Timer{},
		ready:     make(chan string, readyQueueSize),
		done:      make(chan struct{}),
	}, nil
}

// 🔒 LockPath returns the single-instance lock file path.
func (s *Service) LockPath() string {
	return s.lock.Path()
}

// 🏃 Run blocks until the context is cancelled. It first sweeps files
// already sitting in the source folders, then handles new arrivals one at
// a time. Every move is committed to the ledger immediately, so an undo
// after shutdown reverses everything the watcher did.
func (s *Service) Run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	ok, err := s.lock.TryLock()
	if err != nil {
		return errors.Errorf("acquiring watch lock: %w", err)
	}
	if !ok {
		return ErrAlreadyRunning
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			logger.Warn().Err(err).Msg("failed to release watch lock")
		}
	}()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Errorf("creating filesystem watcher: %w", err)
	}
	defer watcher.Close()

	// register the watches before the sweep so a file arriving in between
	// is caught by one or the other
	for _, source := range s.organizer.Sources() {
		if err := watcher.Add(source); err != nil {
			return errors.Errorf("watching %s: %w", source, err)
		}
		logger.Info().Str("source", source).Msg("watching folder")
	}

	plan, err := s.organizer.Plan(ctx)
	if err != nil {
		return err
	}

	session := s.organizer.NewSession()
	sink := log.FromContext(ctx)

	// files that predate the watcher get organized right away
	for _, planned := range plan {
		rec := session.Process(ctx, planned)
		sink.LogMoveRecord(ctx, rec)
		if err := session.Commit(ctx); err != nil {
			return err
		}
	}

	defer s.stopTimers()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(s.done)
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case event, ok := <-watcher.Events:
				if !ok {
					return errors.New("watcher event channel closed")
				}
				s.handleEvent(gctx, event)
			case err, ok := <-watcher.Errors:
				if !ok {
					return errors.New("watcher error channel closed")
				}
				logger.Warn().Err(err).Msg("watcher error")
			}
		}
	})

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case path := <-s.ready:
				s.process(gctx, session, sink, path)
			}
		}
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		logger.Info().Msg("watch stopped")
		return nil
	}
	return err
}

// handleEvent schedules eligible new files and keeps resetting their
// settle timers while writes are still arriving.
func (s *Service) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Rename) {
		return
	}
	name := filepath.Base(event.Name)
	if !s.organizer.Eligible(name) || !s.matches(name) {
		return
	}
	zerolog.Ctx(ctx).Debug().Str("file", event.Name).Stringer("op", event.Op).Msg("scheduling file")
	s.schedule(event.Name)
}

// schedule (re)arms the settle timer for a path. The file is queued only
// after it has been quiet for the full settle delay.
func (s *Service) schedule(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[path]; ok {
		timer.Reset(s.settle)
		return
	}
	s.timers[path] = time.AfterFunc(s.settle, func() {
		s.mu.Lock()
		delete(s.timers, path)
		s.mu.Unlock()
		select {
		case s.ready <- path:
		case <-s.done:
		}
	})
}

func (s *Service) stopTimers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for path, timer := range s.timers {
		timer.Stop()
		delete(s.timers, path)
	}
}

// process moves one settled file and commits the ledger so the run stays
// undoable even if the watcher dies later.
func (s *Service) process(ctx context.Context, session *organize.Session, sink *log.Logger, path string) {
	logger := zerolog.Ctx(ctx)

	info, err := os.Lstat(path)
	if err != nil {
		// vanished between settling and processing, nothing to do
		logger.Debug().Str("file", path).Msg("file gone before processing")
		return
	}
	if !info.Mode().IsRegular() {
		return
	}

	rec := session.ProcessFile(ctx, path)
	sink.LogMoveRecord(ctx, rec)
	if rec.Outcome == move.OutcomeFailed {
		logger.Warn().Str("file", path).Str("reason", rec.Reason).Msg("move failed")
	}
	if err := session.Commit(ctx); err != nil {
		logger.Error().Err(err).Msg("failed to commit ledger")
	}
}

// matches reports whether the file name matches any monitor pattern.
// No patterns means everything matches.
func (s *Service) matches(name string) bool {
	if len(s.patterns) == 0 {
		return true
	}
	for _, pattern := range s.patterns {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}
