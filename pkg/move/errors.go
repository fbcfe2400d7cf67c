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
	"os"

	"gitlab.com/tozd/go/errors"
)

// 🚨 Error taxonomy for move failures. All of these are per-file: the caller
// records a failed outcome and continues with the next file.
var (
	ErrSourceMissing          = errors.New("source file missing")
	ErrDestinationUnwritable  = errors.New("destination unwritable")
	ErrNameCollisionExhausted = errors.New("name disambiguation exhausted")
)

// 🏷️ Failure reasons carried on failed records, one per taxonomy entry.
const (
	ReasonSourceMissing         = "source-missing"
	ReasonDestinationUnwritable = "destination-unwritable"
	ReasonCollisionExhausted    = "collision-exhausted"
)

// failureReason maps a move error onto its taxonomy label.
func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrNameCollisionExhausted):
		return ReasonCollisionExhausted
	case errors.Is(err, ErrSourceMissing), errors.Is(err, os.ErrNotExist):
		return ReasonSourceMissing
	default:
		return ReasonDestinationUnwritable
	}
}
