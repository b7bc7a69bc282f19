// math/attitude_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func randomQuaternion(r *rand.Rand) Quaternion {
	for {
		e := Quaternion{r.NormFloat64(), r.NormFloat64(), r.NormFloat64(), r.NormFloat64()}
		if e.Norm() > 1e-3 {
			return e.Normalize()
		}
	}
}

func TestEulerToQuaternionUnitNorm(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for range 1000 {
		phi := (2*r.Float64() - 1) * gomath.Pi
		theta := (r.Float64() - 0.5) * gomath.Pi
		psi := (2*r.Float64() - 1) * gomath.Pi

		e := EulerToQuaternion(phi, theta, psi)
		if n := e.Norm(); gomath.Abs(n-1) > 1e-12 {
			t.Errorf("EulerToQuaternion(%g, %g, %g) norm %.15f, expected 1", phi, theta, psi, n)
		}
	}
}

func TestEulerToQuaternionKnownValues(t *testing.T) {
	for _, tc := range []struct {
		phi, theta, psi float64
		e               Quaternion
	}{
		{0, 0, 0, Quaternion{1, 0, 0, 0}},
		{gomath.Pi / 2, 0, 0, Quaternion{gomath.Sqrt2 / 2, gomath.Sqrt2 / 2, 0, 0}},
		{0, gomath.Pi / 2, 0, Quaternion{gomath.Sqrt2 / 2, 0, gomath.Sqrt2 / 2, 0}},
		{0, 0, gomath.Pi / 2, Quaternion{gomath.Sqrt2 / 2, 0, 0, gomath.Sqrt2 / 2}},
		{0, 0, gomath.Pi, Quaternion{0, 0, 0, 1}},
	} {
		e := EulerToQuaternion(tc.phi, tc.theta, tc.psi)
		for i := range e {
			if gomath.Abs(e[i]-tc.e[i]) > 1e-12 {
				t.Errorf("EulerToQuaternion(%g, %g, %g) = %v, expected %v", tc.phi, tc.theta, tc.psi, e, tc.e)
				break
			}
		}
	}
}

func TestEulerQuaternionRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	for range 1000 {
		phi := (2*r.Float64() - 1) * gomath.Pi
		theta := (2*r.Float64() - 1) * Radians(80)
		psi := (2*r.Float64() - 1) * gomath.Pi

		gphi, gtheta, gpsi := QuaternionToEuler(EulerToQuaternion(phi, theta, psi))

		if d := WrapAngle(gphi - phi); gomath.Abs(d) > 1e-9 {
			t.Errorf("phi: got %g, expected %g", gphi, phi)
		}
		if d := WrapAngle(gpsi - psi); gomath.Abs(d) > 1e-9 {
			t.Errorf("psi: got %g, expected %g", gpsi, psi)
		}
		// Pitch comes back as sin(sin(theta)), not theta.
		if expected := gomath.Sin(gomath.Sin(theta)); gomath.Abs(gtheta-expected) > 1e-9 {
			t.Errorf("theta: got %g, expected %g for input %g", gtheta, expected, theta)
		}
	}
}

func TestQuaternionToEulerSmallPitch(t *testing.T) {
	for _, theta := range []float64{-0.05, -0.01, 0, 0.02, 0.05} {
		_, gtheta, _ := QuaternionToEuler(EulerToQuaternion(0.1, theta, -0.3))
		// sin(sin(x)) = x - x^3/3 + ...
		if tol := gomath.Abs(theta*theta*theta)/3 + 1e-12; gomath.Abs(gtheta-theta) > tol {
			t.Errorf("small pitch %g: got %g", theta, gtheta)
		}
	}
}

func TestQuaternionToEulerNormalizes(t *testing.T) {
	e := EulerToQuaternion(0.3, 0.2, -1.1)
	phi, theta, psi := QuaternionToEuler(e)

	scaled := Quaternion{3 * e[0], 3 * e[1], 3 * e[2], 3 * e[3]}
	sphi, stheta, spsi := QuaternionToEuler(scaled)
	if gomath.Abs(phi-sphi) > 1e-12 || gomath.Abs(theta-stheta) > 1e-12 || gomath.Abs(psi-spsi) > 1e-12 {
		t.Errorf("scaled quaternion gave (%g, %g, %g), expected (%g, %g, %g)", sphi, stheta, spsi, phi, theta, psi)
	}
}

func TestRotationOrthonormal(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))
	for range 1000 {
		e := randomQuaternion(r)
		R := QuaternionToRotation(e)

		for i := range 3 {
			var v Vec3
			v[i] = 1
			if back := R.Transpose().Apply(R.Apply(v)); back.Sub(v).Length() > 1e-12 {
				t.Fatalf("R^T R e%d = %v for %v", i, back, e)
			}
			if l := R.Apply(v).Length(); gomath.Abs(l-1) > 1e-12 {
				t.Fatalf("|R e%d| = %g for %v", i, l, e)
			}
		}

		if d := R.Determinant(); gomath.Abs(d-1) > 1e-12 {
			t.Errorf("det(R) = %.15f for %v, expected 1", d, e)
		}
		gd := mat.Det(mat.NewDense(3, 3, []float64{
			R[0][0], R[0][1], R[0][2],
			R[1][0], R[1][1], R[1][2],
			R[2][0], R[2][1], R[2][2]}))
		if gomath.Abs(gd-1) > 1e-12 {
			t.Errorf("LU det(R) = %.15f for %v, expected 1", gd, e)
		}
	}
}

func TestRotationBodyToInertial(t *testing.T) {
	// Yawed 90 degrees right: body x points east.
	R := QuaternionToRotation(EulerToQuaternion(0, 0, gomath.Pi/2))
	v := R.Apply(Vec3{1, 0, 0})
	if gomath.Abs(v[0]) > 1e-12 || gomath.Abs(v[1]-1) > 1e-12 || gomath.Abs(v[2]) > 1e-12 {
		t.Errorf("body x axis mapped to %v, expected [0 1 0]", v)
	}

	// Pitched 90 degrees up: body x points up (-down).
	R = QuaternionToRotation(EulerToQuaternion(0, gomath.Pi/2, 0))
	v = R.Apply(Vec3{1, 0, 0})
	if gomath.Abs(v[0]) > 1e-12 || gomath.Abs(v[1]) > 1e-12 || gomath.Abs(v[2]+1) > 1e-12 {
		t.Errorf("body x axis mapped to %v, expected [0 0 -1]", v)
	}

	// The transpose undoes it.
	w := R.Transpose().Apply(v)
	if gomath.Abs(w[0]-1) > 1e-12 || gomath.Abs(w[1]) > 1e-12 || gomath.Abs(w[2]) > 1e-12 {
		t.Errorf("inverse rotation gave %v, expected [1 0 0]", w)
	}
}
