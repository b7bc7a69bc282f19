// mav/propulsion.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package mav

import (
	"fmt"
	gomath "math"

	"github.com/tjbonner/FlightDynamics/math"
)

// PropellerOutput is the operating point of the propeller and motor.
type PropellerOutput struct {
	Thrust float64 // N, along body x
	Torque float64 // N m, reaction torque about body x
	Omega  float64 // rad/s
	J      float64 // advance ratio

	// Coefficients of a Omega^2 + b Omega + c = 0, the balance of motor
	// and aerodynamic torque.
	A, B, C float64
}

// Propeller finds the rotor speed where motor torque balances propeller
// torque for the given airspeed and throttle, then evaluates thrust and
// torque at that speed. Throttle maps linearly to motor voltage.
func Propeller(params Params, va, throttle float64) (PropellerOutput, error) {
	if !math.IsFinite(va, throttle) {
		return PropellerOutput{}, fmt.Errorf("airspeed %g throttle %g: %w", va, throttle, ErrDegenerateFlightCondition)
	}
	if va < minAirspeed {
		return PropellerOutput{}, fmt.Errorf("airspeed %g: %w", va, ErrDegenerateFlightCondition)
	}

	p, rho := params.Propulsion, params.Rho
	d := p.Diameter
	kq := p.KQ()
	vin := p.VMax() * throttle

	out := PropellerOutput{
		A: p.CQ0 * rho * gomath.Pow(d, 5) / math.Sqr(2*gomath.Pi),
		B: p.CQ1*rho*gomath.Pow(d, 4)/(2*gomath.Pi)*va + kq*kq/p.RMotor,
		C: p.CQ2*rho*gomath.Pow(d, 3)*va*va - kq/p.RMotor*vin + kq*p.I0,
	}

	disc := out.B*out.B - 4*out.A*out.C
	if disc < 0 {
		return PropellerOutput{}, fmt.Errorf("no rotor speed for throttle %g at %g m/s (discriminant %g): %w",
			throttle, va, disc, ErrDegenerateFlightCondition)
	}
	out.Omega = (-out.B + gomath.Sqrt(disc)) / (2 * out.A)
	if !(out.Omega > 0) {
		return PropellerOutput{}, fmt.Errorf("rotor speed %g for throttle %g at %g m/s: %w",
			out.Omega, throttle, va, ErrDegenerateFlightCondition)
	}

	out.J = 2 * gomath.Pi * va / (out.Omega * d)
	ct := p.CT2*out.J*out.J + p.CT1*out.J + p.CT0
	cq := p.CQ2*out.J*out.J + p.CQ1*out.J + p.CQ0

	n := out.Omega / (2 * gomath.Pi)
	out.Thrust = rho * n * n * gomath.Pow(d, 4) * ct
	out.Torque = -rho * n * n * gomath.Pow(d, 5) * cq

	return out, nil
}
