// mav/dynamics.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package mav

import (
	"fmt"

	"github.com/tjbonner/FlightDynamics/log"
	"github.com/tjbonner/FlightDynamics/math"
)

// Dynamics integrates the equations of motion of a single aircraft. It
// is not safe for concurrent use; each Dynamics owns its state.
type Dynamics struct {
	params Params
	gammas Gammas
	dt     float64

	state  State
	air    AirData
	wind   WindVector
	forces math.Vec3
	truth  TrueState
	steps  int

	lg *log.Logger
}

// DynamicsSnapshot captures everything UpdateState modifies so that a
// run can be rewound. It holds only values, so copying it is enough to
// keep it independent of the Dynamics it came from.
type DynamicsSnapshot struct {
	State     State
	AirData   AirData
	Wind      WindVector
	Forces    math.Vec3
	TrueState TrueState
	Steps     int
}

// NewDynamics returns a Dynamics at the initial conditions in params,
// with air data resolved for calm air.
func NewDynamics(params Params, dt float64, lg *log.Logger) (*Dynamics, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if dt <= 0 || !math.IsFinite(dt) {
		return nil, fmt.Errorf("%g: %w", dt, ErrInvalidTimeStep)
	}

	d := &Dynamics{
		params: params,
		gammas: params.Gammas(),
		dt:     dt,
		state:  params.Initial.State(),
		lg:     lg,
	}

	var err error
	if d.air, err = ResolveAirData(d.state, d.wind); err != nil {
		return nil, fmt.Errorf("initial conditions: %w", err)
	}
	d.truth = makeTrueState(d.state, d.air, d.wind)

	lg.Info("initialized dynamics", "airframe", params.Name, "dt", dt, "va", d.air.Va,
		"alpha", d.air.Alpha, "altitude", d.truth.H)

	return d, nil
}

// UpdateState advances the state by one time step.
//
// Forces and moments are evaluated once, from the state and air data at
// the start of the step, and held fixed across all four Runge-Kutta
// stages. The quaternion is then renormalized and the air data
// recomputed from the new state using wind. On error nothing is
// modified.
func (d *Dynamics) UpdateState(ctrl ControlInput, wind WindVector) error {
	if !math.IsFinite(wind[:]...) {
		return fmt.Errorf("wind %v: %w", wind, ErrDegenerateFlightCondition)
	}

	fm, err := ForcesMoments(d.params, d.state, d.air, ctrl)
	if err != nil {
		d.lg.Warn("force model failed", "step", d.steps, "error", err, "state", d.state.String())
		return err
	}

	h := d.dt
	k1 := d.derivatives(d.state, fm)
	k2 := d.derivatives(d.state.add(h/2, k1), fm)
	k3 := d.derivatives(d.state.add(h/2, k2), fm)
	k4 := d.derivatives(d.state.add(h, k3), fm)

	next := d.state
	for i := range next {
		next[i] += h / 6 * (k1[i] + 2*k2[i] + 2*k3[i] + k4[i])
	}
	if !math.IsFinite(next[:]...) {
		err := fmt.Errorf("non-finite state after step %d: %w", d.steps, ErrDegenerateFlightCondition)
		d.lg.Warn("integration diverged", "step", d.steps, "forces", fm)
		return err
	}
	next = next.normalizeAttitude()

	air, err := ResolveAirData(next, wind)
	if err != nil {
		d.lg.Warn("air data failed", "step", d.steps, "error", err, "state", next.String())
		return err
	}

	d.state = next
	d.air = air
	d.wind = wind
	d.forces = fm.Force()
	d.truth = makeTrueState(next, air, wind)
	d.steps++

	if d.lg.DebugEnabled() {
		d.lg.Debug("step", "n", d.steps, "state", d.state.String(), "va", air.Va,
			"alpha", air.Alpha, "beta", air.Beta)
	}

	return nil
}

func (d *Dynamics) derivatives(s State, fm ForceMoment) State {
	return derivatives(d.params.Mass, d.params.Jy, d.gammas, s, fm)
}

// Derivatives returns the time derivative of s under the forces and
// moments fm.
func Derivatives(params Params, s State, fm ForceMoment) State {
	return derivatives(params.Mass, params.Jy, params.Gammas(), s, fm)
}

func derivatives(mass, jy float64, g Gammas, s State, fm ForceMoment) State {
	u, v, w := s[U], s[V], s[W]
	e0, e1, e2, e3 := s[E0], s[E1], s[E2], s[E3]
	p, q, r := s[P], s[Q], s[R]
	fx, fy, fz := fm[0], fm[1], fm[2]
	l, m, n := fm[3], fm[4], fm[5]

	var ds State

	// Position kinematics: body velocity rotated to NED by the quaternion.
	ds[PN] = u*(e1*e1+e0*e0-e2*e2-e3*e3) + v*2*(e1*e2-e3*e0) + w*2*(e1*e3+e2*e0)
	ds[PE] = u*2*(e1*e2+e3*e0) + v*(e2*e2+e0*e0-e1*e1-e3*e3) + w*2*(e2*e3-e1*e0)
	ds[PD] = u*2*(e1*e3-e2*e0) + v*2*(e2*e3+e1*e0) + w*(e3*e3+e0*e0-e1*e1-e2*e2)

	ds[U] = r*v - q*w + fx/mass
	ds[V] = p*w - r*u + fy/mass
	ds[W] = q*u - p*v + fz/mass

	ds[E0] = 0.5 * (-e1*p - e2*q - e3*r)
	ds[E1] = 0.5 * (e0*p + e2*r - e3*q)
	ds[E2] = 0.5 * (e0*q - e1*r + e3*p)
	ds[E3] = 0.5 * (e0*r + e1*q - e2*p)

	ds[P] = g.G1*p*q - g.G2*q*r + g.G3*l + g.G4*n
	ds[Q] = g.G5*p*r - g.G6*(p*p-r*r) + m/jy
	ds[R] = g.G7*p*q - g.G1*q*r + g.G4*l + g.G8*n

	return ds
}

func (d *Dynamics) State() State {
	return d.state
}

func (d *Dynamics) AirData() AirData {
	return d.air
}

// Forces returns the body-frame force of the most recent step, for use by
// sensor models. It is zero before the first step.
func (d *Dynamics) Forces() math.Vec3 {
	return d.forces
}

func (d *Dynamics) TrueState() TrueState {
	return d.truth
}

func (d *Dynamics) Params() Params {
	return d.params
}

func (d *Dynamics) TimeStep() float64 {
	return d.dt
}

func (d *Dynamics) Steps() int {
	return d.steps
}

// Time returns the simulated time elapsed since construction.
func (d *Dynamics) Time() float64 {
	return float64(d.steps) * d.dt
}

func (d *Dynamics) TakeSnapshot() DynamicsSnapshot {
	return DynamicsSnapshot{
		State:     d.state,
		AirData:   d.air,
		Wind:      d.wind,
		Forces:    d.forces,
		TrueState: d.truth,
		Steps:     d.steps,
	}
}

func (d *Dynamics) RestoreSnapshot(snap DynamicsSnapshot) {
	d.state = snap.State
	d.air = snap.AirData
	d.wind = snap.Wind
	d.forces = snap.Forces
	d.truth = snap.TrueState
	d.steps = snap.Steps
}
