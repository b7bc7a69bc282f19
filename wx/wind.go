// wx/wind.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package wx

import (
	gomath "math"

	"github.com/tjbonner/FlightDynamics/math"
)

// WindVector holds the wind acting on the aircraft for one step. The
// first three components are the steady wind in the inertial (NED)
// frame; the last three are the gust, expressed in the body frame. The
// zero value is calm air.
type WindVector [6]float64

// MakeWindVector assembles a WindVector from its two halves.
func MakeWindVector(steady, gust math.Vec3) WindVector {
	return WindVector{steady[0], steady[1], steady[2], gust[0], gust[1], gust[2]}
}

// Steady returns the inertial-frame steady wind (north, east, down).
func (w WindVector) Steady() math.Vec3 {
	return math.Vec3{w[0], w[1], w[2]}
}

// Gust returns the body-frame gust (u, v, w axes).
func (w WindVector) Gust() math.Vec3 {
	return math.Vec3{w[3], w[4], w[5]}
}

// SteadyWind returns the NED steady wind for a horizontal wind of the
// given speed blowing from fromDeg (degrees clockwise from north, the
// meteorological convention), plus a down component.
func SteadyWind(speed, fromDeg, down float64) math.Vec3 {
	// Wind from the north blows toward the south.
	s, c := gomath.Sincos(math.Radians(fromDeg))
	return math.Vec3{-speed * c, -speed * s, down}
}
