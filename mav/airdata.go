// mav/airdata.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package mav

import (
	"fmt"
	gomath "math"

	"github.com/tjbonner/FlightDynamics/math"
)

// Below these the angle of attack and sideslip are undefined.
const (
	minForwardAirspeed = 1e-6
	minAirspeed        = 1e-6
)

// ResolveAirData returns the airspeed, angle of attack and sideslip for
// the given state and wind.
//
// The steady wind is rotated into the body frame and the gust added to
// it; the sum is subtracted from the body velocity to give the relative
// wind. Sideslip is sin(v_r/Va) rather than its arcsine, matching the
// pitch extraction in math.QuaternionToEuler.
func ResolveAirData(s State, wind WindVector) (AirData, error) {
	rot := math.QuaternionToRotation(s.Quaternion())
	airmass := rot.Transpose().Apply(wind.Steady()).Add(wind.Gust())
	rel := s.Velocity().Sub(airmass)

	va := rel.Length()
	if !math.IsFinite(va) {
		return AirData{}, fmt.Errorf("non-finite relative wind %v: %w", rel, ErrDegenerateFlightCondition)
	}
	if math.Abs(rel[0]) < minForwardAirspeed {
		return AirData{}, fmt.Errorf("relative forward velocity %g: %w", rel[0], ErrDegenerateFlightCondition)
	}
	if va < minAirspeed {
		return AirData{}, fmt.Errorf("airspeed %g: %w", va, ErrDegenerateFlightCondition)
	}

	return AirData{
		Va:    va,
		Alpha: gomath.Atan(rel[2] / rel[0]),
		Beta:  gomath.Sin(rel[1] / va),
	}, nil
}
