// mav/forces.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package mav

import (
	"fmt"
	gomath "math"

	"github.com/tjbonner/FlightDynamics/math"
)

// bodyCoefficients projects a drag/lift coefficient pair onto the body x
// and z axes through the angle of attack.
func bodyCoefficients(cd, cl, alpha float64) (cx, cz float64) {
	s, c := gomath.Sincos(alpha)
	return -cd*c + cl*s, -cd*s - cl*c
}

// ForcesMoments returns the body-frame forces and moments due to
// gravity, propulsion and aerodynamics for state s with air data air.
// The aerodynamics are linear in alpha with no stall model.
func ForcesMoments(params Params, s State, air AirData, ctrl ControlInput) (ForceMoment, error) {
	if !math.IsFinite(air.Va, air.Alpha, air.Beta) || air.Va < minAirspeed {
		return ForceMoment{}, fmt.Errorf("air data %+v: %w", air, ErrDegenerateFlightCondition)
	}
	if t := ctrl.Array(); !math.IsFinite(t[:]...) {
		return ForceMoment{}, fmt.Errorf("control %+v: %w", ctrl, ErrDegenerateFlightCondition)
	}

	prop, err := Propeller(params, air.Va, ctrl.Throttle)
	if err != nil {
		return ForceMoment{}, err
	}

	a := params.Aero
	va, alpha, beta := air.Va, air.Alpha, air.Beta
	p, q, r := s[P], s[Q], s[R]
	phi, theta, _ := s.Euler()

	cx, cz := bodyCoefficients(a.CD0+a.CDAlpha*alpha, a.CL0+a.CLAlpha*alpha, alpha)
	cxq, czq := bodyCoefficients(a.CDQ, a.CLQ, alpha)
	cxde, czde := bodyCoefficients(a.CDDeltaE, a.CLDeltaE, alpha)

	qbar := 0.5 * params.Rho * va * va * params.S
	mg := params.Mass * params.Gravity
	cq := params.C / (2 * va) * q // nondimensional pitch rate
	bp := params.B / (2 * va) * p
	br := params.B / (2 * va) * r
	de, da, dr := ctrl.Elevator, ctrl.Aileron, ctrl.Rudder

	var fm ForceMoment
	fm[0] = -mg*gomath.Sin(theta) + prop.Thrust +
		qbar*(cx+cxq*cq+cxde*de)
	fm[1] = mg*gomath.Cos(theta)*gomath.Sin(phi) +
		qbar*(a.CY0+a.CYBeta*beta+a.CYP*bp+a.CYR*br+a.CYDeltaA*da+a.CYDeltaR*dr)
	fm[2] = mg*gomath.Cos(theta)*gomath.Cos(phi) +
		qbar*(cz+czq*cq+czde*de)

	fm[3] = qbar*params.B*(a.Cell0+a.CellBeta*beta+a.CellP*bp+a.CellR*br+a.CellDeltaA*da+a.CellDeltaR*dr) +
		prop.Torque
	fm[4] = qbar * params.C * (a.Cm0 + a.CmAlpha*alpha + a.CmQ*cq + a.CmDeltaE*de)
	fm[5] = qbar * params.B * (a.Cn0 + a.CnBeta*beta + a.CnP*bp + a.CnR*br + a.CnDeltaA*da + a.CnDeltaR*dr)

	if !math.IsFinite(fm[:]...) {
		return ForceMoment{}, fmt.Errorf("non-finite forces %v: %w", fm, ErrDegenerateFlightCondition)
	}
	return fm, nil
}
