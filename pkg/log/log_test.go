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
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/sortrc/pkg/ledger"
	"github.com/walteh/sortrc/pkg/move"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_moved_record",
			op: func(t *testing.T, logger *Logger) {
				logger.LogMoveRecord(context.Background(), move.Record{
					Source:      "/downloads/report.pdf",
					Destination: "/organized/Documents/PDFs/report.pdf",
					Category:    "Documents/PDFs",
					Outcome:     move.OutcomeMoved,
				})
			},
			wantLogs: []string{
				"✓ report.pdf",
				"Documents/PDFs",
				"moved",
			},
		},
		{
			name: "log_failed_record",
			op: func(t *testing.T, logger *Logger) {
				logger.LogMoveRecord(context.Background(), move.Record{
					Source:  "/downloads/gone.txt",
					Outcome: move.OutcomeFailed,
					Reason:  move.ReasonSourceMissing,
				})
			},
			wantLogs: []string{
				"✗ gone.txt",
				"failed: source-missing",
			},
		},
		{
			name: "log_undo_entry",
			op: func(t *testing.T, logger *Logger) {
				logger.LogUndoEntry(context.Background(), ledger.UndoEntry{
					Source:      "/downloads/a.txt",
					Destination: "/organized/Documents/Text/a.txt",
					Outcome:     ledger.UndoRestored,
				})
			},
			wantLogs: []string{
				"✓ a.txt",
				"restored",
			},
		},
		{
			name: "log_run_summary",
			op: func(t *testing.T, logger *Logger) {
				logger.StartRun(context.Background(), []string{"/downloads"})
				logger.EndRun(context.Background(), 3, 1, 1)
			},
			wantLogs: []string{
				"◆ /downloads",
				"3 moved 1 skipped 1 failed",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(&buf, zerolog.Disabled)

			tt.op(t, logger)

			output := buf.String()
			for _, want := range tt.wantLogs {
				assert.Contains(t, output, want)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, zerolog.Disabled)

	ctx := NewContext(context.Background(), logger)
	require.Same(t, logger, FromContext(ctx))

	// a bare context still yields a usable logger instead of panicking
	require.NotNil(t, FromContext(context.Background()))
}

func TestFormatMoveRecordAlignment(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	logger := New(&buf, zerolog.Disabled)
	logger.LogMoveRecord(context.Background(), move.Record{
		Source:   "/downloads/x.txt",
		Category: "Documents/Text",
		Outcome:  move.OutcomeMoved,
	})

	line := strings.TrimRight(buf.String(), "\n")
	assert.True(t, strings.HasPrefix(line, "    ✓ x.txt"), "line=%q", line)
}
