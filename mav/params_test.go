// mav/params_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package mav

import (
	"errors"
	gomath "math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func TestAerosondeValid(t *testing.T) {
	if err := Aerosonde().Validate(); err != nil {
		t.Errorf("Aerosonde parameters invalid: %v", err)
	}
}

func TestGammas(t *testing.T) {
	g := Aerosonde().Gammas()
	got := []float64{g.G1, g.G2, g.G3, g.G4, g.G5, g.G6, g.G7, g.G8}
	expected := []float64{0.12147151902172897, 0.7746545013224356, 1.2252516579138606, 0.0838660031909203,
		0.8234361233480175, 0.10607929515418502, -0.16826312058543708, 0.5742452909517832}
	for i := range got {
		if gomath.Abs(got[i]-expected[i]) > 1e-12 {
			t.Errorf("gamma%d: got %.17g, expected %.17g", i+1, got[i], expected[i])
		}
	}
}

func TestInitialConditionsState(t *testing.T) {
	s := Aerosonde().Initial.State()
	if n := s.Quaternion().Norm(); gomath.Abs(n-1) > 1e-12 {
		t.Errorf("initial quaternion norm %g", n)
	}
	if va := s.Velocity().Length(); gomath.Abs(va-25) > 1e-12 {
		t.Errorf("initial speed: got %g, expected 25", va)
	}
	if s[PD] != -100 {
		t.Errorf("initial pd: got %g, expected -100", s[PD])
	}
}

func TestInertia(t *testing.T) {
	p := Aerosonde()
	J := p.Inertia()
	if J[0][2] != -p.Jxz || J[2][0] != -p.Jxz || J[1][1] != p.Jy {
		t.Errorf("unexpected inertia tensor %v", J)
	}
	expected := p.Jy * (p.Jx*p.Jz - p.Jxz*p.Jxz)
	if det := J.Determinant(); gomath.Abs(det-expected) > 1e-12 {
		t.Errorf("det J: got %g, expected %g", det, expected)
	}

	p.Jxz = 1.5 * gomath.Sqrt(p.Jx*p.Jz)
	if err := p.Validate(); err == nil || !strings.Contains(err.Error(), "positive definite") {
		t.Errorf("indefinite inertia tensor: got error %v", err)
	}
}

func TestValidateReportsAllErrors(t *testing.T) {
	p := Aerosonde()
	p.Mass = 0
	p.Jxz = 5 // Jx Jz - Jxz^2 < 0
	p.Aero.CmAlpha = gomath.NaN()
	p.Propulsion.CQ0 = -1
	p.Trim.Throttle = gomath.Inf(1)

	err := p.Validate()
	if !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("got error %v, expected ErrInvalidParams", err)
	}
	for _, s := range []string{"mass properties: mass", "positive definite", "aerodynamics: C_m_alpha",
		"propulsion: C_Q0", "trim"} {
		if !strings.Contains(err.Error(), s) {
			t.Errorf("error %q does not mention %q", err, s)
		}
	}
}

func TestLoadParams(t *testing.T) {
	dir := t.TempDir()
	overrides := []byte(`{"name": "heavy", "mass": 13.5, "aero": {"C_m_q": -40}, "propulsion": {"ncells": 6}}`)

	plain := filepath.Join(dir, "heavy.json")
	if err := os.WriteFile(plain, overrides, 0o644); err != nil {
		t.Fatal(err)
	}

	zw, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	compressed := filepath.Join(dir, "heavy.json.zst")
	if err := os.WriteFile(compressed, zw.EncodeAll(overrides, nil), 0o644); err != nil {
		t.Fatal(err)
	}
	zw.Close()

	for _, path := range []string{plain, compressed} {
		p, err := LoadParams(path)
		if err != nil {
			t.Errorf("%s: %v", path, err)
			continue
		}
		if p.Name != "heavy" || p.Mass != 13.5 || p.Aero.CmQ != -40 || p.Propulsion.NCells != 6 {
			t.Errorf("%s: overrides not applied: %+v", path, p)
		}
		// Untouched fields keep their defaults.
		def := Aerosonde()
		if p.Jy != def.Jy || p.Aero.CLAlpha != def.Aero.CLAlpha || p.Propulsion.KV != def.Propulsion.KV {
			t.Errorf("%s: defaults lost: %+v", path, p)
		}
		if gomath.Abs(p.Propulsion.VMax()-22.2) > 1e-12 {
			t.Errorf("%s: VMax got %g, expected 22.2", path, p.Propulsion.VMax())
		}
	}
}

func TestLoadParamsErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadParams(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: got %v", err)
	}

	for _, test := range []struct {
		json, message string
	}{
		{`{"mass": "heavy"}`, "expected a number"},
		{`{"mas": 12}`, "misspelled"},
		{`{"aero": {"C_L_0": 0.2, "C_L_0": 0.3}}`, `"C_L_0" repeated in "aero"`},
		{`{"mass": 12,` + "\n" + `}`, "line 2"},
	} {
		bad := filepath.Join(dir, "bad.json")
		os.WriteFile(bad, []byte(test.json), 0o644)
		if _, err := LoadParams(bad); !errors.Is(err, ErrInvalidParams) || !strings.Contains(err.Error(), test.message) {
			t.Errorf("%s: got error %v, expected ErrInvalidParams mentioning %q", test.json, err, test.message)
		}
	}

	invalid := filepath.Join(dir, "invalid.json")
	os.WriteFile(invalid, []byte(`{"rho": -1}`), 0o644)
	if _, err := LoadParams(invalid); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("invalid params: got %v", err)
	}
}

func TestSaveParamsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aerosonde.json")
	p := Aerosonde()
	if err := SaveParams(path, p); err != nil {
		t.Fatal(err)
	}
	q, err := LoadParams(path)
	if err != nil {
		t.Fatal(err)
	}
	if q != p {
		t.Errorf("round trip: got %+v, expected %+v", q, p)
	}
}
