// pkg/magnetic/wmm_test.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package magnetic

import (
	"errors"
	gomath "math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mmp/chartplot/pkg/math"
)

// A tilted dipole with a drifting h11, for which declination on the
// equator has a closed form.
const testCoefficients = `    2020.0            TEST-DIPOLE     01/01/2020
  1  0  -30000.0       0.0        0.0        0.0
  1  1   -1500.0    5000.0        0.0     1000.0
999999999999999999999999999999999999999999999999
`

func TestWMMDipole(t *testing.T) {
	w, err := ReadWMM(strings.NewReader(testCoefficients))
	if err != nil {
		t.Fatal(err)
	}
	if w.Name != "TEST-DIPOLE" || w.Epoch != 2020 || w.Released != "01/01/2020" {
		t.Errorf("unexpected header %q %v %q", w.Name, w.Epoch, w.Released)
	}

	tests := []struct {
		name     string
		p        math.Point2LL
		t        time.Time
		expected float64
	}{
		// atan2(-h11, -g10)
		{"prime meridian", math.LL(0, 0), time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), -9.462322208},
		// atan2(g11, -g10)
		{"90E", math.LL(0, 90), time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), -2.862405226},
		// h11 has drifted to 7000
		{"secular variation", math.LL(0, 0), time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), -13.134022306},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := w.Declination(tt.p, tt.t)
			if err != nil {
				t.Fatal(err)
			}
			if !math.ApproxEqual(d, tt.expected, 1e-6) {
				t.Errorf("got %.9f, expected %.9f", d, tt.expected)
			}
		})
	}

	axial, err := ReadWMM(strings.NewReader("2020.0 AXIAL\n1 0 -30000 0 0 0\n"))
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []math.Point2LL{math.LL(45, 30), math.LL(-60, -120), math.LL(90, 0)} {
		if d, _ := axial.Declination(p, testDate); !math.ApproxEqual(d, 0, 1e-9) {
			t.Errorf("%v: axial dipole declination %v, expected 0", p, d)
		}
	}
}

func TestDefaultWMM(t *testing.T) {
	w, err := DefaultWMM()
	if err != nil {
		t.Fatal(err)
	}
	if w.Name != "WMM-2025" || w.Epoch != 2025 {
		t.Errorf("unexpected model %s epoch %v", w.Name, w.Epoch)
	}
	if !w.Valid(testDate) || w.Valid(time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected validity period")
	}

	at := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		p        math.Point2LL
		expected float64
	}{
		{"New York", math.LL(40.71, -74.01), -12.5},
		{"Boulder", math.LL(40.015, -105.27), 7.8},
		{"London", math.LL(51.51, -0.13), 1},
		{"Sydney", math.LL(-33.87, 151.21), 12.8},
		{"Auckland", math.LL(-36.85, 174.76), 20.3},
		{"Cape Town", math.LL(-33.92, 18.42), -26.5},
		{"Tokyo", math.LL(35.68, 139.69), -7.9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := w.Declination(tt.p, at)
			if err != nil {
				t.Fatal(err)
			}
			if gomath.Abs(d-tt.expected) > 0.5 {
				t.Errorf("got %.2f, expected about %.1f", d, tt.expected)
			}
		})
	}

	x, y, z := w.Field(math.LL(40.015, -105.27), 0, at)
	if f := gomath.Sqrt(x*x + y*y + z*z); f < 48000 || f > 55000 || z < 0 {
		t.Errorf("Boulder field %.0f nT, down %.0f", f, z)
	}
}

func TestReadWMMErrors(t *testing.T) {
	for name, input := range map[string]string{
		"empty":       "",
		"header only": "2025.0 WMM-2025 11/13/2024\n",
		"bad epoch":   "twenty WMM\n1 0 1 0 0 0\n",
		"short line":  "2025.0 WMM\n1 0 1 0 0\n",
		"order":       "2025.0 WMM\n1 2 1 0 0 0\n",
		"value":       "2025.0 WMM\n1 0 x 0 0 0\n",
	} {
		if _, err := ReadWMM(strings.NewReader(input)); !errors.Is(err, ErrBadCoefficients) {
			t.Errorf("%s: expected ErrBadCoefficients, got %v", name, err)
		}
	}
}

func TestLoadWMM(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "WMM.COF")
	if err := os.WriteFile(fn, []byte(testCoefficients), 0o600); err != nil {
		t.Fatal(err)
	}
	if w, err := LoadWMM(fn); err != nil || w.Name != "TEST-DIPOLE" {
		t.Errorf("LoadWMM: %v %v", w, err)
	}
	if _, err := LoadWMM(filepath.Join(t.TempDir(), "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}
