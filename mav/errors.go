// mav/errors.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package mav

import "errors"

var (
	ErrDegenerateFlightCondition = errors.New("Degenerate flight condition")
	ErrInvalidParams             = errors.New("Invalid aircraft parameters")
	ErrInvalidTimeStep           = errors.New("Time step must be positive and finite")
)
