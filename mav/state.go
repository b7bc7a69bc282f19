// mav/state.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package mav

import (
	"fmt"

	"github.com/tjbonner/FlightDynamics/math"
	"github.com/tjbonner/FlightDynamics/wx"
)

// State is the 13-element rigid-body state: NED position, body-frame
// velocity, the body-to-inertial attitude quaternion and body-frame
// angular rates.
type State [13]float64

const (
	PN = iota
	PE
	PD
	U
	V
	W
	E0
	E1
	E2
	E3
	P
	Q
	R
)

func (s State) Position() math.Vec3 {
	return math.Vec3{s[PN], s[PE], s[PD]}
}

func (s State) Velocity() math.Vec3 {
	return math.Vec3{s[U], s[V], s[W]}
}

func (s State) Quaternion() math.Quaternion {
	return math.Quaternion{s[E0], s[E1], s[E2], s[E3]}
}

func (s State) Rates() math.Vec3 {
	return math.Vec3{s[P], s[Q], s[R]}
}

func (s State) Euler() (phi, theta, psi float64) {
	return math.QuaternionToEuler(s.Quaternion())
}

// add returns s + h*d.
func (s State) add(h float64, d State) State {
	for i := range s {
		s[i] += h * d[i]
	}
	return s
}

func (s State) normalizeAttitude() State {
	e := s.Quaternion().Normalize()
	s[E0], s[E1], s[E2], s[E3] = e[0], e[1], e[2], e[3]
	return s
}

func (s State) String() string {
	return fmt.Sprintf("pos %.2f %.2f %.2f vel %.3f %.3f %.3f e %.5f %.5f %.5f %.5f pqr %.4f %.4f %.4f",
		s[PN], s[PE], s[PD], s[U], s[V], s[W], s[E0], s[E1], s[E2], s[E3], s[P], s[Q], s[R])
}

// ControlInput holds the control deflections for a step. The fixed
// array order is elevator, throttle, aileron, rudder.
type ControlInput struct {
	Elevator float64 `json:"elevator" msgpack:"elevator"`
	Throttle float64 `json:"throttle" msgpack:"throttle"`
	Aileron  float64 `json:"aileron" msgpack:"aileron"`
	Rudder   float64 `json:"rudder" msgpack:"rudder"`
}

func (c ControlInput) Array() [4]float64 {
	return [4]float64{c.Elevator, c.Throttle, c.Aileron, c.Rudder}
}

func ControlFromArray(a [4]float64) ControlInput {
	return ControlInput{Elevator: a[0], Throttle: a[1], Aileron: a[2], Rudder: a[3]}
}

// WindVector is the steady inertial wind followed by the body-frame gust.
type WindVector = wx.WindVector

// AirData is derived from the state and the wind after every step.
type AirData struct {
	Va    float64 // airspeed
	Alpha float64 // angle of attack
	Beta  float64 // sideslip
}

// ForceMoment is the body-frame force and moment acting on the aircraft:
// fx, fy, fz, then roll, pitch and yaw moments.
type ForceMoment [6]float64

func (fm ForceMoment) Force() math.Vec3 {
	return math.Vec3{fm[0], fm[1], fm[2]}
}

// TrueState is the published, read-only view of the aircraft after a
// step. The gyro bias fields are carried for downstream sensor models and
// are never set here.
type TrueState struct {
	Pn     float64 `msgpack:"pn"`
	Pe     float64 `msgpack:"pe"`
	H      float64 `msgpack:"h"`
	Va     float64 `msgpack:"va"`
	Alpha  float64 `msgpack:"alpha"`
	Beta   float64 `msgpack:"beta"`
	Phi    float64 `msgpack:"phi"`
	Theta  float64 `msgpack:"theta"`
	Psi    float64 `msgpack:"psi"`
	P      float64 `msgpack:"p"`
	Q      float64 `msgpack:"q"`
	R      float64 `msgpack:"r"`
	Vg     float64 `msgpack:"vg"`
	Wn     float64 `msgpack:"wn"`
	We     float64 `msgpack:"we"`
	Wd     float64 `msgpack:"wd"`
	GyroBx float64 `msgpack:"bx"`
	GyroBy float64 `msgpack:"by"`
	GyroBz float64 `msgpack:"bz"`
}

// Values returns the fields in their fixed publication order.
func (ts TrueState) Values() [19]float64 {
	return [19]float64{ts.Pn, ts.Pe, ts.H, ts.Va, ts.Alpha, ts.Beta, ts.Phi, ts.Theta, ts.Psi,
		ts.P, ts.Q, ts.R, ts.Vg, ts.Wn, ts.We, ts.Wd, ts.GyroBx, ts.GyroBy, ts.GyroBz}
}

func makeTrueState(s State, air AirData, wind WindVector) TrueState {
	phi, theta, psi := s.Euler()
	pos, rates := s.Position(), s.Rates()
	steady := wind.Steady()
	return TrueState{
		Pn:    pos[0],
		Pe:    pos[1],
		H:     -pos[2],
		Va:    air.Va,
		Alpha: air.Alpha,
		Beta:  air.Beta,
		Phi:   phi,
		Theta: theta,
		Psi:   psi,
		P:     rates[0],
		Q:     rates[1],
		R:     rates[2],
		Vg:    s.Velocity().Length(),
		Wn:    steady[0],
		We:    steady[1],
		Wd:    steady[2],
	}
}
