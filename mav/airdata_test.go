// mav/airdata_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package mav

import (
	"errors"
	gomath "math"
	"testing"
)

func offTrimConditions() InitialConditions {
	return InitialConditions{
		Pd:    -100,
		U:     22 * gomath.Cos(0.08),
		W:     22 * gomath.Sin(0.08),
		Phi:   0.1,
		Theta: 0.08,
		P:     0.05,
		Q:     -0.02,
		R:     0.03,
	}
}

func TestResolveAirDataCalm(t *testing.T) {
	p := Aerosonde()
	air, err := ResolveAirData(p.Initial.State(), WindVector{})
	if err != nil {
		t.Fatal(err)
	}
	if gomath.Abs(air.Va-25) > 1e-12 {
		t.Errorf("Va: got %g, expected 25", air.Va)
	}
	if gomath.Abs(air.Alpha-p.Initial.Theta) > 1e-12 {
		t.Errorf("alpha: got %g, expected %g", air.Alpha, p.Initial.Theta)
	}
	if air.Beta != 0 {
		t.Errorf("beta: got %g, expected 0", air.Beta)
	}
}

func TestResolveAirDataWind(t *testing.T) {
	ic := InitialConditions{Pd: -100, U: 25 * gomath.Cos(0.1), W: 25 * gomath.Sin(0.1), Phi: 0.2, Theta: 0.1}
	air, err := ResolveAirData(ic.State(), WindVector{1, -0.5, 0.1, 0.3, -0.2, 0.4})
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range []struct {
		name          string
		got, expected float64
	}{
		{"Va", air.Va, 23.6676825744432},
		{"alpha", air.Alpha, 0.0762037393370293},
		{"beta", air.Beta, 0.0274783936865699},
	} {
		if gomath.Abs(c.got-c.expected) > 1e-12 {
			t.Errorf("%s: got %.15g, expected %.15g", c.name, c.got, c.expected)
		}
	}
}

func TestResolveAirDataHeadwind(t *testing.T) {
	// Level, heading north into a 10 m/s wind from the north.
	var s State
	s[U], s[E0] = 20, 1
	air, err := ResolveAirData(s, WindVector{-10, 0, 0, 0, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	if gomath.Abs(air.Va-30) > 1e-12 || air.Alpha != 0 || air.Beta != 0 {
		t.Errorf("got %+v, expected Va 30 and zero angles", air)
	}

	// A gust along the body y axis shows up as sideslip.
	air, err = ResolveAirData(s, WindVector{0, 0, 0, 0, -2, 0})
	if err != nil {
		t.Fatal(err)
	}
	va := gomath.Sqrt(404)
	if gomath.Abs(air.Va-va) > 1e-12 || gomath.Abs(air.Beta-gomath.Sin(2/va)) > 1e-12 {
		t.Errorf("got %+v, expected Va %g beta %g", air, va, gomath.Sin(2/va))
	}
}

func TestResolveAirDataDegenerate(t *testing.T) {
	level := func(u, v, w float64) State {
		var s State
		s[U], s[V], s[W], s[E0] = u, v, w, 1
		return s
	}

	for _, test := range []struct {
		name string
		s    State
		wind WindVector
	}{
		{"at rest", level(0, 0, 0), WindVector{}},
		{"no forward airspeed", level(0, 3, 4), WindVector{}},
		{"flying with the wind", level(10, 0, 0), WindVector{10, 0, 0, 0, 0, 0}},
		{"NaN velocity", level(gomath.NaN(), 0, 0), WindVector{}},
		{"infinite gust", level(20, 0, 0), WindVector{0, 0, 0, gomath.Inf(-1), 0, 0}},
	} {
		if _, err := ResolveAirData(test.s, test.wind); !errors.Is(err, ErrDegenerateFlightCondition) {
			t.Errorf("%s: got error %v, expected ErrDegenerateFlightCondition", test.name, err)
		}
	}
}
