// wx/filter.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package wx

import (
	"errors"
	"fmt"

	"github.com/tjbonner/FlightDynamics/math"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrImproperTransferFunction = errors.New("Numerator order exceeds denominator order")
	ErrInvalidDenominator       = errors.New("Denominator must be non-empty with a non-zero leading coefficient")
	ErrInvalidFilterTimeStep    = errors.New("Filter time step must be positive and finite")
	ErrNonFiniteCoefficient     = errors.New("Transfer function coefficients must be finite")
)

// DiscreteFilter is a single-input single-output digital filter that
// realizes a continuous transfer function
//
//	num[0] s^m + ... + num[m]
//	-------------------------
//	den[0] s^n + ... + den[n]
//
// sampled every dt with a zero-order hold on the input. The continuous
// system is put in controllable canonical form and discretized once, at
// construction, so Update is a handful of multiply-adds.
type DiscreteFilter struct {
	ad [][]float64 // n x n
	bd []float64
	c  []float64
	d  float64
	x  []float64

	next []float64 // scratch for Update
}

func NewDiscreteFilter(num, den []float64, dt float64) (*DiscreteFilter, error) {
	if len(den) == 0 || den[0] == 0 {
		return nil, ErrInvalidDenominator
	}
	if len(num) > len(den) {
		return nil, fmt.Errorf("%d > %d: %w", len(num)-1, len(den)-1, ErrImproperTransferFunction)
	}
	if dt <= 0 || !math.IsFinite(dt) {
		return nil, fmt.Errorf("%g: %w", dt, ErrInvalidFilterTimeStep)
	}
	if !math.IsFinite(num...) || !math.IsFinite(den...) {
		return nil, fmt.Errorf("%v / %v: %w", num, den, ErrNonFiniteCoefficient)
	}

	n := len(den) - 1

	// Monic denominator, numerator padded to the same length.
	a := make([]float64, n+1)
	for i := range den {
		a[i] = den[i] / den[0]
	}
	b := make([]float64, n+1)
	for i := range num {
		b[n+1-len(num)+i] = num[i] / den[0]
	}

	f := &DiscreteFilter{
		d: b[0],
		c:    make([]float64, n),
		x:    make([]float64, n),
		next: make([]float64, n),
	}
	for i := range n {
		f.c[i] = b[i+1] - b[0]*a[i+1]
	}
	if n == 0 {
		return f, nil
	}

	// Exponentiate [A B; 0 0]*dt: the top rows give Ad and Bd.
	m := mat.NewDense(n+1, n+1, nil)
	for j := range n {
		m.Set(0, j, -a[j+1]*dt)
	}
	for i := 1; i < n; i++ {
		m.Set(i, i-1, dt)
	}
	m.Set(0, n, dt)

	var e mat.Dense
	e.Exp(m)

	f.ad = make([][]float64, n)
	f.bd = make([]float64, n)
	for i := range n {
		f.ad[i] = make([]float64, n)
		for j := range n {
			f.ad[i][j] = e.At(i, j)
		}
		f.bd[i] = e.At(i, n)
	}

	return f, nil
}

// Update advances the delay line by one step with input u and returns
// the filter output.
func (f *DiscreteFilter) Update(u float64) float64 {
	n := len(f.x)
	if n > 0 {
		for i := range n {
			v := f.bd[i] * u
			for j := range n {
				v += f.ad[i][j] * f.x[j]
			}
			f.next[i] = v
		}
		f.x, f.next = f.next, f.x
	}

	y := f.d * u
	for i := range n {
		y += f.c[i] * f.x[i]
	}
	return y
}

// Reset zeroes the delay line.
func (f *DiscreteFilter) Reset() {
	clear(f.x)
}
