// sim/errors.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"errors"
)

var (
	ErrInvalidStepCount = errors.New("Step count must be non-negative")
	ErrNoSeeds          = errors.New("No seeds given for batch run")
	ErrNoRecorder       = errors.New("Recording is not enabled for this run")
)
