// math/core.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"

	"golang.org/x/exp/constraints"
)

// Degrees converts an angle expressed in radians to degrees
func Degrees(r float64) float64 {
	return r * 180 / gomath.Pi
}

// Radians converts an angle expressed in degrees to radians
func Radians(d float64) float64 {
	return d / 180 * gomath.Pi
}

func Abs[V constraints.Integer | constraints.Float](x V) V {
	if x < 0 {
		return -x
	}
	return x
}

func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

func Sqr[V constraints.Integer | constraints.Float](v V) V { return v * v }

// IsFinite reports whether none of the given values is NaN or infinite.
func IsFinite(v ...float64) bool {
	for _, x := range v {
		if gomath.IsNaN(x) || gomath.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// WrapAngle returns the angle equivalent to a (radians) in [-pi, pi).
func WrapAngle(a float64) float64 {
	a = gomath.Mod(a+gomath.Pi, 2*gomath.Pi)
	if a < 0 {
		a += 2 * gomath.Pi
	}
	return a - gomath.Pi
}
