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

package log

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/walteh/sortrc/pkg/ledger"
	"github.com/walteh/sortrc/pkg/move"
)

// 🎨 Display configuration
const (
	fileIndent    = 4  // spaces to indent file entries
	nameWidth     = 35 // Base width for filename
	categoryWidth = 25 // Width for category path
)

// 🎯 Logger is the human-readable sink for move and undo outcomes. It prints
// one line per record to the console and mirrors each event to zerolog.
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context, or a console default.
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		return New(color.Output, zerolog.InfoLevel)
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatMoveRecord formats one move outcome for display
func (l *Logger) formatMoveRecord(rec move.Record) string {
	var symbol rune
	var symbolColor color.Attribute
	var status string
	switch rec.Outcome {
	case move.OutcomeMoved:
		symbol = '✓'
		symbolColor = color.FgGreen
		status = "moved"
	case move.OutcomeSkipped:
		symbol = '-'
		symbolColor = color.FgYellow
		status = "skipped: " + rec.Reason
	default:
		symbol = '✗'
		symbolColor = color.FgRed
		status = "failed: " + rec.Reason
	}

	category := rec.Category
	if category == "" {
		category = "-"
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, filepath.Base(rec.Source)),
		color.New(color.FgCyan).Sprint(fmt.Sprintf("%-*s", categoryWidth, category)),
		status)
}

// 📝 LogMoveRecord logs one move outcome
func (l *Logger) LogMoveRecord(ctx context.Context, rec move.Record) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, l.formatMoveRecord(rec))

	l.zlog.Info().
		Str("source", rec.Source).
		Str("destination", rec.Destination).
		Str("category", rec.Category).
		Str("outcome", string(rec.Outcome)).
		Str("reason", rec.Reason).
		Msg("move record")
}

// 📝 LogUndoEntry logs one undo outcome
func (l *Logger) LogUndoEntry(ctx context.Context, entry ledger.UndoEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var symbol rune
	var symbolColor color.Attribute
	var status string
	switch entry.Outcome {
	case ledger.UndoRestored:
		symbol = '✓'
		symbolColor = color.FgGreen
		status = "restored"
	case ledger.UndoSkipped:
		symbol = '-'
		symbolColor = color.FgYellow
		status = "skipped: " + entry.Reason
	default:
		symbol = '✗'
		symbolColor = color.FgRed
		status = "failed: " + entry.Reason
	}

	fmt.Fprintf(l.console, "%s%s %s %s\n",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, filepath.Base(entry.Source)),
		status)

	l.zlog.Info().
		Int("record", entry.Index).
		Str("source", entry.Source).
		Str("destination", entry.Destination).
		Str("outcome", string(entry.Outcome)).
		Str("reason", entry.Reason).
		Msg("undo record")
}

// 📝 StartRun prints the header for one organize run
func (l *Logger) StartRun(ctx context.Context, sources []string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, source := range sources {
		fmt.Fprintf(l.console, "%s %s\n",
			color.New(color.FgMagenta).Sprint("◆"),
			color.New(color.Bold).Sprint(source))
	}

	l.zlog.Info().Strs("sources", sources).Msg("starting organize run")
}

// 📝 EndRun prints the per-run summary line
func (l *Logger) EndRun(ctx context.Context, moved, skipped, failed int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "\n%s %s %s\n",
		color.New(color.FgGreen).Sprintf("%d moved", moved),
		color.New(color.FgYellow).Sprintf("%d skipped", skipped),
		color.New(color.FgRed).Sprintf("%d failed", failed))

	l.zlog.Info().
		Int("moved", moved).
		Int("skipped", skipped).
		Int("failed", failed).
		Msg("organize run complete")
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	sortrcText := color.New(color.Bold, color.FgCyan).Sprint("sortrc")
	fmt.Fprintf(l.console, "\n%s %s\n\n", sortrcText, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
