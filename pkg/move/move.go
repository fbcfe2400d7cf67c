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

package move

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 Outcome is the result of one relocation attempt.
type Outcome string

const (
	OutcomeMoved   Outcome = "moved"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// 📄 Record is one ledger entry: the logged outcome of attempting to
// relocate a single file. Records are never mutated after creation.
type Record struct {
	Source      string    `json:"source"`
	Destination string    `json:"destination,omitempty"`
	Category    string    `json:"category,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Outcome     Outcome   `json:"outcome"`
	Reason      string    `json:"reason,omitempty"`
}

// 🔍 ExistsFunc reports whether a destination path is already occupied.
// Tests inject this to simulate disk state without a real filesystem.
type ExistsFunc func(path string) bool

// 🔧 Options configures a Mover.
type Options struct {
	// Exists overrides the on-disk existence check. Nil means os.Lstat.
	Exists ExistsFunc

	// MaxAttempts caps the " (n)" disambiguation counter. Zero means
	// DefaultMaxAttempts.
	MaxAttempts int
}

// DefaultMaxAttempts is the safety ceiling for name disambiguation.
const DefaultMaxAttempts = 10000

// 📦 Mover relocates files without ever overwriting an existing occupant.
// It remembers every destination it has handed out during the run, so two
// same-named sources from different folders cannot both resolve to the same
// "first free" name before either is physically moved.
//
// A Mover serves a single sequential run and is not safe for concurrent use.
type Mover struct {
	exists      ExistsFunc
	claimed     map[string]struct{}
	maxAttempts int
}

// 🏭 New creates a mover with a fresh claimed-destination set.
func New(opts Options) *Mover {
	exists := opts.Exists
	if exists == nil {
		exists = func(path string) bool {
			_, err := os.Lstat(path)
			return err == nil
		}
	}
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Mover{
		exists:      exists,
		claimed:     make(map[string]struct{}),
		maxAttempts: maxAttempts,
	}
}

// 🚚 Move relocates sourcePath into destDir under a collision-free name.
// Failures are folded into the returned record, never escalated: the caller
// decides whether to continue the batch, and the default policy is
// continue-and-report.
func (m *Mover) Move(ctx context.Context, sourcePath, destDir string) Record {
	logger := zerolog.Ctx(ctx)

	info, err := os.Lstat(sourcePath)
	if err != nil {
		if os.IsNotExist(err) {
			return m.failed(ctx, sourcePath, errors.Errorf("statting source: %w", ErrSourceMissing))
		}
		return m.failed(ctx, sourcePath, errors.Errorf("statting source: %w", err))
	}
	if !info.Mode().IsRegular() {
		logger.Debug().Str("source", sourcePath).Msg("skipping non-regular file")
		return Record{
			Source:    sourcePath,
			Timestamp: time.Now().UTC(),
			Outcome:   OutcomeSkipped,
			Reason:    "not a regular file",
		}
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return m.failed(ctx, sourcePath, errors.Errorf("creating destination directory: %w", ErrDestinationUnwritable))
	}

	destination, err := m.ResolveDestination(destDir, filepath.Base(sourcePath))
	if err != nil {
		return m.failed(ctx, sourcePath, err)
	}

	if err := Relocate(sourcePath, destination); err != nil {
		delete(m.claimed, destination)
		return m.failed(ctx, sourcePath, err)
	}

	logger.Debug().Str("source", sourcePath).Str("destination", destination).Msg("moved file")
	return Record{
		Source:      sourcePath,
		Destination: destination,
		Timestamp:   time.Now().UTC(),
		Outcome:     OutcomeMoved,
	}
}

// 🎯 ResolveDestination picks the first name in destDir that has no on-disk
// occupant and no earlier claim from this run, appending " (1)", " (2)", …
// before the extension until one is free. The claim is recorded before the
// path is returned. Both checks live here so the collision-avoidance oracle
// is a single function.
func (m *Mover) ResolveDestination(destDir, name string) (string, error) {
	for n := 0; n <= m.maxAttempts; n++ {
		candidate := filepath.Join(destDir, disambiguate(name, n))
		if _, ok := m.claimed[candidate]; ok {
			continue
		}
		if m.exists(candidate) {
			continue
		}
		m.claimed[candidate] = struct{}{}
		return candidate, nil
	}
	return "", errors.Errorf("resolving free name for %q in %s: %w", name, destDir, ErrNameCollisionExhausted)
}

// failed builds a failed record carrying the taxonomy label for err.
func (m *Mover) failed(ctx context.Context, sourcePath string, err error) Record {
	zerolog.Ctx(ctx).Warn().Str("source", sourcePath).Err(err).Msg("move failed")
	return Record{
		Source:    sourcePath,
		Timestamp: time.Now().UTC(),
		Outcome:   OutcomeFailed,
		Reason:    failureReason(err),
	}
}

// disambiguate inserts the numeric disambiguator before the extension:
// "a.txt" -> "a (1).txt".
func disambiguate(name string, n int) string {
	if n == 0 {
		return name
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s (%d)%s", stem, n, ext)
}

// 🔁 Relocate renames src to dst, falling back to copy-verify-delete when
// the rename crosses volumes. The fallback never leaves the file duplicated
// or lost: on any error the copy is removed and the source stays in place.
func Relocate(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) {
		return errors.Errorf("renaming file: %w", err)
	}
	return copyAcrossVolumes(src, dst)
}

func copyAcrossVolumes(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return errors.Errorf("statting source: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return errors.Errorf("creating destination: %w", err)
	}

	written, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		os.Remove(dst)
		return errors.Errorf("copying content: %w", err)
	}
	if err := out.Sync(); err != nil {
		out.Close()
		os.Remove(dst)
		return errors.Errorf("syncing destination: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return errors.Errorf("closing destination: %w", err)
	}
	if written != info.Size() {
		os.Remove(dst)
		return errors.Errorf("short copy: wrote %d of %d bytes", written, info.Size())
	}

	// Only now is the copy verified; removing the source completes the move.
	// If that fails, drop the copy so the source remains the single occupant.
	if err := os.Remove(src); err != nil {
		os.Remove(dst)
		return errors.Errorf("removing source after copy: %w", err)
	}
	return nil
}
