// wx/filter_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package wx

import (
	"errors"
	gomath "math"
	"testing"
)

func TestDiscreteFilterFirstOrder(t *testing.T) {
	// k/(s+a) under a zero-order hold: x' = e^{-a dt} x + (1-e^{-a dt})/a u, y = k x
	k, a, dt := 0.75, 0.4, 0.05
	f, err := NewDiscreteFilter([]float64{k}, []float64{1, a}, dt)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.x) != 1 {
		t.Errorf("order: got %d, expected 1", len(f.x))
	}

	ad := gomath.Exp(-a * dt)
	bd := (1 - ad) / a
	x := 0.0
	for i, u := range []float64{1, -2, 0.5, 0, 3, -1} {
		x = ad*x + bd*u
		if y := f.Update(u); gomath.Abs(y-k*x) > 1e-12 {
			t.Errorf("step %d: got %g, expected %g", i, y, k*x)
		}
	}
}

func TestDiscreteFilterStepResponse(t *testing.T) {
	for _, test := range []struct {
		name     string
		num, den []float64
		expected []float64
	}{
		// (s+2)/((s+1)(s+2)) reduces to 1/(s+1)
		{"proper", []float64{1, 2}, []float64{1, 3, 2}, []float64{0.0951625819640404, 0.181269246922018, 0.259181779318282}},
		// (2s+1)/(s+1) = 2 - 1/(s+1)
		{"feedthrough", []float64{2, 1}, []float64{1, 1}, []float64{1.90483741803596, 1.81873075307798, 1.74081822068172}},
		// Non-monic denominator is normalized.
		{"scaled", []float64{2, 4}, []float64{2, 6, 4}, []float64{0.0951625819640404, 0.181269246922018, 0.259181779318282}},
		{"gain", []float64{3}, []float64{2}, []float64{1.5, 1.5, 1.5}},
	} {
		f, err := NewDiscreteFilter(test.num, test.den, 0.1)
		if err != nil {
			t.Errorf("%s: %v", test.name, err)
			continue
		}
		for i, e := range test.expected {
			if y := f.Update(1); gomath.Abs(y-e) > 1e-12 {
				t.Errorf("%s step %d: got %.15g, expected %.15g", test.name, i, y, e)
			}
		}
	}
}

func TestDiscreteFilterReset(t *testing.T) {
	f, err := NewDiscreteFilter([]float64{1}, []float64{1, 2, 1}, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	first := f.Update(1)
	f.Update(1)
	f.Reset()
	if y := f.Update(1); y != first {
		t.Errorf("after reset: got %g, expected %g", y, first)
	}
}

func TestDiscreteFilterUpdateAllocs(t *testing.T) {
	f, err := NewDiscreteFilter([]float64{0.5, 0.2}, []float64{1, 0.8, 0.16}, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	if n := testing.AllocsPerRun(100, func() { f.Update(0.3) }); n != 0 {
		t.Errorf("Update allocated %g times per call, expected 0", n)
	}
}

func TestDiscreteFilterErrors(t *testing.T) {
	for _, test := range []struct {
		num, den []float64
		dt       float64
		err      error
	}{
		{[]float64{1, 2, 3}, []float64{1, 1}, 0.01, ErrImproperTransferFunction},
		{[]float64{1}, nil, 0.01, ErrInvalidDenominator},
		{[]float64{1}, []float64{0, 1}, 0.01, ErrInvalidDenominator},
		{[]float64{gomath.NaN()}, []float64{1, 1}, 0.01, ErrNonFiniteCoefficient},
		{[]float64{1}, []float64{1, gomath.Inf(-1)}, 0.01, ErrNonFiniteCoefficient},
		{[]float64{1}, []float64{gomath.NaN(), 1}, 0.01, ErrNonFiniteCoefficient},
		{[]float64{1}, []float64{1, 1}, 0, ErrInvalidFilterTimeStep},
		{[]float64{1}, []float64{1, 1}, gomath.Inf(1), ErrInvalidFilterTimeStep},
	} {
		_, err := NewDiscreteFilter(test.num, test.den, test.dt)
		if !errors.Is(err, test.err) {
			t.Errorf("%v / %v dt=%g: got error %v, expected %v", test.num, test.den, test.dt, err, test.err)
		}
		if test.err == ErrNonFiniteCoefficient && errors.Is(err, ErrInvalidDenominator) {
			t.Errorf("%v / %v: non-finite coefficients reported as %v", test.num, test.den, err)
		}
	}
}
