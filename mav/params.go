// mav/params.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package mav

import (
	"encoding/json"
	"fmt"
	gomath "math"
	"os"

	"github.com/tjbonner/FlightDynamics/math"
	"github.com/tjbonner/FlightDynamics/util"
)

// Params holds the physical, aerodynamic and propulsion constants of an
// airframe along with its initial conditions. It is treated as an
// immutable value once handed to NewDynamics.
type Params struct {
	Name string `json:"name"`

	Initial InitialConditions `json:"initial"`
	// Trim is the control input that holds Initial in steady flight.
	Trim ControlInput `json:"trim"`

	Mass float64 `json:"mass"` // kg
	Jx   float64 `json:"jx"`   // kg m^2
	Jy   float64 `json:"jy"`
	Jz   float64 `json:"jz"`
	Jxz  float64 `json:"jxz"`

	S       float64 `json:"s_wing"` // wing area, m^2
	B       float64 `json:"b"`      // span, m
	C       float64 `json:"c"`      // mean chord, m
	Rho     float64 `json:"rho"`    // air density, kg/m^3
	Gravity float64 `json:"gravity"`

	Aero       AeroCoefficients `json:"aero"`
	Propulsion Propulsion       `json:"propulsion"`
}

type InitialConditions struct {
	Pn    float64 `json:"pn"`
	Pe    float64 `json:"pe"`
	Pd    float64 `json:"pd"`
	U     float64 `json:"u"`
	V     float64 `json:"v"`
	W     float64 `json:"w"`
	Phi   float64 `json:"phi"`
	Theta float64 `json:"theta"`
	Psi   float64 `json:"psi"`
	P     float64 `json:"p"`
	Q     float64 `json:"q"`
	R     float64 `json:"r"`
}

// State returns the 13-element state for the initial conditions.
func (ic InitialConditions) State() State {
	e := math.EulerToQuaternion(ic.Phi, ic.Theta, ic.Psi)
	return State{ic.Pn, ic.Pe, ic.Pd, ic.U, ic.V, ic.W, e[0], e[1], e[2], e[3], ic.P, ic.Q, ic.R}
}

// AeroCoefficients are the stability and control derivatives of the
// linear aerodynamic model.
type AeroCoefficients struct {
	// Longitudinal
	CL0      float64 `json:"C_L_0"`
	CD0      float64 `json:"C_D_0"`
	Cm0      float64 `json:"C_m_0"`
	CLAlpha  float64 `json:"C_L_alpha"`
	CDAlpha  float64 `json:"C_D_alpha"`
	CmAlpha  float64 `json:"C_m_alpha"`
	CLQ      float64 `json:"C_L_q"`
	CDQ      float64 `json:"C_D_q"`
	CmQ      float64 `json:"C_m_q"`
	CLDeltaE float64 `json:"C_L_delta_e"`
	CDDeltaE float64 `json:"C_D_delta_e"`
	CmDeltaE float64 `json:"C_m_delta_e"`

	// Lateral
	CY0        float64 `json:"C_Y_0"`
	Cell0      float64 `json:"C_ell_0"`
	Cn0        float64 `json:"C_n_0"`
	CYBeta     float64 `json:"C_Y_beta"`
	CellBeta   float64 `json:"C_ell_beta"`
	CnBeta     float64 `json:"C_n_beta"`
	CYP        float64 `json:"C_Y_p"`
	CellP      float64 `json:"C_ell_p"`
	CnP        float64 `json:"C_n_p"`
	CYR        float64 `json:"C_Y_r"`
	CellR      float64 `json:"C_ell_r"`
	CnR        float64 `json:"C_n_r"`
	CYDeltaA   float64 `json:"C_Y_delta_a"`
	CellDeltaA float64 `json:"C_ell_delta_a"`
	CnDeltaA   float64 `json:"C_n_delta_a"`
	CYDeltaR   float64 `json:"C_Y_delta_r"`
	CellDeltaR float64 `json:"C_ell_delta_r"`
	CnDeltaR   float64 `json:"C_n_delta_r"`
}

// Propulsion describes the propeller and the DC motor driving it.
type Propulsion struct {
	Diameter float64 `json:"d_prop"`  // m
	KV       float64 `json:"k_v"`     // RPM/V
	RMotor   float64 `json:"r_motor"` // ohms
	I0       float64 `json:"i0"`      // no-load current, A
	NCells   float64 `json:"ncells"`  // battery cells, 3.7V each

	// Torque and thrust coefficients as quadratics in advance ratio:
	// C = C2 J^2 + C1 J + C0.
	CQ2 float64 `json:"C_Q2"`
	CQ1 float64 `json:"C_Q1"`
	CQ0 float64 `json:"C_Q0"`
	CT2 float64 `json:"C_T2"`
	CT1 float64 `json:"C_T1"`
	CT0 float64 `json:"C_T0"`
}

// KQ is the motor torque constant in N m/A.
func (p Propulsion) KQ() float64 {
	return (1 / p.KV) * 60 / (2 * gomath.Pi)
}

// VMax is the full-throttle motor voltage.
func (p Propulsion) VMax() float64 {
	return 3.7 * p.NCells
}

// Aerosonde returns the parameters of the Aerosonde UAV, initialized in
// straight and level trimmed flight at 25 m/s, 100 m up.
func Aerosonde() Params {
	const (
		trimAlpha = 0.0496475841842816
		trimPhi   = -0.000498041370257305
		trimVa    = 25.0
	)

	return Params{
		Name: "Aerosonde",
		Initial: InitialConditions{
			Pd:    -100,
			U:     trimVa * gomath.Cos(trimAlpha),
			W:     trimVa * gomath.Sin(trimAlpha),
			Phi:   trimPhi,
			Theta: trimAlpha,
		},
		Trim: ControlInput{
			Elevator: -0.123772101681749,
			Throttle: 0.763950828055793,
			Aileron:  0.00550228448920404,
			Rudder:   -0.000877175788133976,
		},

		Mass: 11,
		Jx:   0.8244,
		Jy:   1.135,
		Jz:   1.759,
		Jxz:  0.1204,

		S:       0.55,
		B:       2.8956,
		C:       0.18994,
		Rho:     1.2682,
		Gravity: 9.8,

		Aero: AeroCoefficients{
			CL0:      0.23,
			CD0:      0.043,
			Cm0:      0.0135,
			CLAlpha:  5.61,
			CDAlpha:  0.03,
			CmAlpha:  -2.74,
			CLQ:      7.95,
			CDQ:      0,
			CmQ:      -38.21,
			CLDeltaE: 0.13,
			CDDeltaE: 0.0135,
			CmDeltaE: -0.99,

			CY0:        0,
			Cell0:      0,
			Cn0:        0,
			CYBeta:     -0.98,
			CellBeta:   -0.13,
			CnBeta:     0.073,
			CYP:        0,
			CellP:      -0.51,
			CnP:        0.069,
			CYR:        0,
			CellR:      0.25,
			CnR:        -0.095,
			CYDeltaA:   0.075,
			CellDeltaA: 0.17,
			CnDeltaA:   -0.011,
			CYDeltaR:   0.19,
			CellDeltaR: 0.0024,
			CnDeltaR:   -0.069,
		},

		Propulsion: Propulsion{
			Diameter: 20 * 0.0254,
			KV:       145,
			RMotor:   0.042,
			I0:       1.5,
			NCells:   12,
			CQ2:      -0.01664,
			CQ1:      0.004970,
			CQ0:      0.005230,
			CT2:      -0.1079,
			CT1:      -0.06044,
			CT0:      0.09357,
		},
	}
}

// Inertia returns the body-axis inertia tensor. The airframe is
// symmetric about its xz plane, so Jxy and Jyz are zero.
func (p Params) Inertia() math.Matrix3 {
	return math.MakeMatrix3(
		p.Jx, 0, -p.Jxz,
		0, p.Jy, 0,
		-p.Jxz, 0, p.Jz)
}

// Gammas are the inertia coupling terms of Euler's equations for an
// airframe symmetric about its x-z plane.
type Gammas struct {
	G1, G2, G3, G4, G5, G6, G7, G8 float64
}

func (p Params) Gammas() Gammas {
	gamma := p.Jx*p.Jz - p.Jxz*p.Jxz
	return Gammas{
		G1: p.Jxz * (p.Jx - p.Jy + p.Jz) / gamma,
		G2: (p.Jz*(p.Jz-p.Jy) + p.Jxz*p.Jxz) / gamma,
		G3: p.Jz / gamma,
		G4: p.Jxz / gamma,
		G5: (p.Jz - p.Jx) / p.Jy,
		G6: p.Jxz / p.Jy,
		G7: ((p.Jx-p.Jy)*p.Jx + p.Jxz*p.Jxz) / gamma,
		G8: p.Jx / gamma,
	}
}

// Validate reports every problem with p at once; the returned error
// wraps ErrInvalidParams.
func (p Params) Validate() error {
	var e util.ErrorLogger
	e.Push(p.Name)
	defer e.Pop()

	positive := func(name string, v float64) {
		if !math.IsFinite(v) || v <= 0 {
			e.ErrorString("%s must be positive and finite, got %g", name, v)
		}
	}
	finite := func(name string, v float64) {
		if !math.IsFinite(v) {
			e.ErrorString("%s must be finite, got %g", name, v)
		}
	}

	e.Push("mass properties")
	positive("mass", p.Mass)
	positive("Jx", p.Jx)
	positive("Jy", p.Jy)
	positive("Jz", p.Jz)
	finite("Jxz", p.Jxz)
	// Sylvester's criterion; the leading minors Jx and Jx Jy are checked above.
	if det := p.Inertia().Determinant(); p.Jx > 0 && p.Jy > 0 && !(det > 0) {
		e.ErrorString("inertia tensor is not positive definite (det = %g)", det)
	}
	e.Pop()

	e.Push("geometry")
	positive("wing area", p.S)
	positive("span", p.B)
	positive("chord", p.C)
	positive("rho", p.Rho)
	if !math.IsFinite(p.Gravity) || p.Gravity < 0 {
		e.ErrorString("gravity must be non-negative, got %g", p.Gravity)
	}
	e.Pop()

	e.Push("aerodynamics")
	a := p.Aero
	for _, c := range []struct {
		name string
		v    float64
	}{
		{"C_L_0", a.CL0}, {"C_D_0", a.CD0}, {"C_m_0", a.Cm0},
		{"C_L_alpha", a.CLAlpha}, {"C_D_alpha", a.CDAlpha}, {"C_m_alpha", a.CmAlpha},
		{"C_L_q", a.CLQ}, {"C_D_q", a.CDQ}, {"C_m_q", a.CmQ},
		{"C_L_delta_e", a.CLDeltaE}, {"C_D_delta_e", a.CDDeltaE}, {"C_m_delta_e", a.CmDeltaE},
		{"C_Y_0", a.CY0}, {"C_ell_0", a.Cell0}, {"C_n_0", a.Cn0},
		{"C_Y_beta", a.CYBeta}, {"C_ell_beta", a.CellBeta}, {"C_n_beta", a.CnBeta},
		{"C_Y_p", a.CYP}, {"C_ell_p", a.CellP}, {"C_n_p", a.CnP},
		{"C_Y_r", a.CYR}, {"C_ell_r", a.CellR}, {"C_n_r", a.CnR},
		{"C_Y_delta_a", a.CYDeltaA}, {"C_ell_delta_a", a.CellDeltaA}, {"C_n_delta_a", a.CnDeltaA},
		{"C_Y_delta_r", a.CYDeltaR}, {"C_ell_delta_r", a.CellDeltaR}, {"C_n_delta_r", a.CnDeltaR},
	} {
		finite(c.name, c.v)
	}
	e.Pop()

	e.Push("propulsion")
	pr := p.Propulsion
	positive("propeller diameter", pr.Diameter)
	positive("K_V", pr.KV)
	positive("motor resistance", pr.RMotor)
	positive("battery cells", pr.NCells)
	finite("i0", pr.I0)
	// The rotor speed solve divides by the C_Q0 term.
	positive("C_Q0", pr.CQ0)
	finite("C_Q1", pr.CQ1)
	finite("C_Q2", pr.CQ2)
	finite("C_T0", pr.CT0)
	finite("C_T1", pr.CT1)
	finite("C_T2", pr.CT2)
	e.Pop()

	e.Push("initial conditions")
	ic := p.Initial
	if !math.IsFinite(ic.Pn, ic.Pe, ic.Pd, ic.U, ic.V, ic.W, ic.Phi, ic.Theta, ic.Psi, ic.P, ic.Q, ic.R) {
		e.ErrorString("non-finite initial condition %+v", ic)
	}
	if t := p.Trim.Array(); !math.IsFinite(t[:]...) {
		e.ErrorString("non-finite trim %+v", p.Trim)
	}
	e.Pop()

	return e.Err(ErrInvalidParams)
}

// LoadParams reads airframe parameters from a JSON file, which may be
// zstd-compressed if its name ends in .zst. Fields missing from the file
// keep their Aerosonde values; unknown or duplicated keys are errors.
func LoadParams(path string) (Params, error) {
	b, err := util.ReadMaybeCompressed(path)
	if err != nil {
		return Params{}, err
	}

	var e util.ErrorLogger
	e.Push(path)
	for _, dup := range util.FindDuplicateJSONKeys(b) {
		e.ErrorString("key %q repeated in %q", dup.Key, dup.Path)
	}
	util.CheckJSON[Params](b, &e)
	if e.HaveErrors() {
		return Params{}, e.Err(ErrInvalidParams)
	}

	p := Aerosonde()
	if err := util.UnmarshalJSONBytes(b, &p); err != nil {
		return Params{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Params{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// SaveParams writes p to path as indented JSON.
func SaveParams(path string, p Params) error {
	b, err := json.MarshalIndent(p, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
