// wx/gust.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package wx

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/tjbonner/FlightDynamics/math"
)

var ErrInvalidGustParams = errors.New("Invalid gust parameters")

// GustParams describes a Dryden turbulence model: three shaping filters
// driven by white noise, one per body axis, plus a constant steady wind.
type GustParams struct {
	// Airspeed is the nominal airspeed used to shape the filters; it is
	// not updated as the aircraft's airspeed changes.
	Airspeed float64 `json:"airspeed"`

	// Turbulence length scales, meters.
	Lu float64 `json:"lu"`
	Lv float64 `json:"lv"`
	Lw float64 `json:"lw"`

	// Turbulence intensities, m/s.
	SigmaU float64 `json:"sigma_u"`
	SigmaV float64 `json:"sigma_v"`
	SigmaW float64 `json:"sigma_w"`

	// Steady wind, NED, m/s.
	Steady math.Vec3 `json:"steady"`
}

// DefaultGustParams returns low-altitude light turbulence parameters.
func DefaultGustParams() GustParams {
	return GustParams{
		Airspeed: 20,
		Lu:       200,
		Lv:       200,
		Lw:       50,
		SigmaU:   2.12,
		SigmaV:   2.12,
		SigmaW:   1.4,
		Steady:   math.Vec3{1, -0.5, 0.1},
	}
}

func (p GustParams) Validate() error {
	if !math.IsFinite(p.Airspeed, p.Lu, p.Lv, p.Lw, p.SigmaU, p.SigmaV, p.SigmaW) ||
		!math.IsFinite(p.Steady[:]...) {
		return fmt.Errorf("non-finite value: %w", ErrInvalidGustParams)
	}
	if p.Airspeed <= 0 || p.Lu <= 0 || p.Lv <= 0 || p.Lw <= 0 {
		return fmt.Errorf("airspeed and length scales must be positive: %w", ErrInvalidGustParams)
	}
	if p.SigmaU < 0 || p.SigmaV < 0 || p.SigmaW < 0 {
		return fmt.Errorf("intensities must be non-negative: %w", ErrInvalidGustParams)
	}
	return nil
}

// TransferFunctions returns the numerator and denominator of the u, v,
// and w shaping filters, in that order.
func (p GustParams) TransferFunctions() (num, den [3][]float64) {
	va := p.Airspeed

	a1 := p.SigmaU * gomath.Sqrt(2*va/(gomath.Pi*p.Lu))
	a2 := p.SigmaV * gomath.Sqrt(3*va/(gomath.Pi*p.Lv))
	a3 := a2 * va / (gomath.Sqrt(3) * p.Lv)
	a4 := p.SigmaW * gomath.Sqrt(3*va/(gomath.Pi*p.Lw))
	a5 := a4 * va / (gomath.Sqrt(3) * p.Lw)
	b1 := va / p.Lu
	b2 := va / p.Lv
	b3 := va / p.Lw

	num = [3][]float64{{a1}, {a2, a3}, {a4, a5}}
	den = [3][]float64{{1, b1}, {1, 2 * b2, b2 * b2}, {1, 2 * b3, b3 * b3}}
	return
}

// NormalSource provides standard normal samples. *rand.Rand from this
// module satisfies it, as does math/rand/v2's.
type NormalSource interface {
	NormFloat64() float64
}

// GustGenerator produces a WindVector every time step: the fixed steady
// wind plus Dryden gusts.
type GustGenerator struct {
	params  GustParams
	src     NormalSource
	filters [3]*DiscreteFilter
}

func NewGustGenerator(params GustParams, dt float64, src NormalSource) (*GustGenerator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("no noise source: %w", ErrInvalidGustParams)
	}

	g := &GustGenerator{params: params, src: src}
	num, den := params.TransferFunctions()
	for i := range g.filters {
		var err error
		if g.filters[i], err = NewDiscreteFilter(num[i], den[i], dt); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (g *GustGenerator) Params() GustParams {
	return g.params
}

// Update draws one sample per axis (u, then v, then w), advances the
// shaping filters, and returns the combined wind.
func (g *GustGenerator) Update() WindVector {
	var gust math.Vec3
	for i, f := range g.filters {
		gust[i] = f.Update(g.src.NormFloat64())
	}
	return MakeWindVector(g.params.Steady, gust)
}

// Reset returns the filters to their initial, quiescent state.
func (g *GustGenerator) Reset() {
	for _, f := range g.filters {
		f.Reset()
	}
}
