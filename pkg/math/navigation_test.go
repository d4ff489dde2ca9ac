// pkg/math/navigation_test.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"
	"testing"
)

var testPairs = []struct {
	name string
	a, b Point2LL
}{
	{"Kiel to Fehmarn", LL(54.33, 10.15), LL(54.50, 11.25)},
	{"Channel crossing", LL(50.80, -1.10), LL(49.65, -1.62)},
	{"Biscay", LL(46.10, -6.00), LL(43.50, -8.30)},
	{"Southern hemisphere", LL(-33.85, 151.20), LL(-34.20, 151.60)},
	{"Due north", LL(10, 20), LL(11, 20)},
	{"Due west", LL(-20, 5), LL(-20, 4)},
	{"Long leg", LL(40, -70), LL(50, -5)},
}

func TestMercatorRoundTrip(t *testing.T) {
	for _, p := range []Point2LL{LL(0, 0), LL(54, 9), LL(-70, -120), LL(85, 179.5)} {
		q := Merc2LL(LL2Merc(p))
		if !ApproxEqual(p[0], q[0], 1e-9) || !ApproxEqual(p[1], q[1], 1e-9) {
			t.Errorf("Mercator round trip of %v gave %v", p, q)
		}
	}
}

func TestRhumbProjectRoundTrip(t *testing.T) {
	nav := RhumbLine{}
	for _, tc := range testPairs {
		t.Run(tc.name, func(t *testing.T) {
			brg := nav.Bearing(tc.a, tc.b)
			dist := nav.Distance(tc.a, tc.b)
			p := nav.Project(tc.a, brg, dist)

			if d := HeadingDifference(nav.Bearing(tc.a, p), brg); d > 1e-6 {
				t.Errorf("bearing after projection differs by %v", d)
			}
			if got := nav.Distance(tc.a, p); !ApproxEqual(got, dist, 1e-6*max(1, dist)) {
				t.Errorf("distance after projection %v, expected %v", got, dist)
			}
			if !ApproxEqual(p[0], tc.b[0], 1e-6) || !ApproxEqual(p[1], tc.b[1], 1e-6) {
				t.Errorf("projected %v, expected %v", p, tc.b)
			}
		})
	}
}

func TestRhumbSymmetry(t *testing.T) {
	nav := RhumbLine{}
	for _, tc := range testPairs {
		t.Run(tc.name, func(t *testing.T) {
			if ab, ba := nav.Distance(tc.a, tc.b), nav.Distance(tc.b, tc.a); !ApproxEqual(ab, ba, 1e-9) {
				t.Errorf("distance not symmetric: %v vs %v", ab, ba)
			}
			ab, ba := nav.Bearing(tc.a, tc.b), nav.Bearing(tc.b, tc.a)
			if d := HeadingDifference(ab, OppositeHeading(ba)); d > 1e-9 {
				t.Errorf("bearings %v and %v are not reciprocal", ab, ba)
			}
		})
	}
}

func TestRhumbDueEast(t *testing.T) {
	nav := RhumbLine{}
	a := LL(54, 9)
	p := nav.Project(a, 90, 10)

	expected := 10 * MetersPerNM / (111320 * gomath.Cos(Radians(54)))
	if dlng := p.Longitude() - a.Longitude(); !ApproxEqual(dlng, expected, 1e-3) {
		t.Errorf("longitude increase %v, expected about %v", dlng, expected)
	}
	if !ApproxEqual(p.Latitude(), 54, 1e-9) {
		t.Errorf("latitude changed to %v", p.Latitude())
	}
	if d := nav.Distance(a, p); !ApproxEqual(d, 10, 1e-9) {
		t.Errorf("distance %v, expected 10", d)
	}
}

func TestRhumbKnownValues(t *testing.T) {
	nav := RhumbLine{}
	// One minute of latitude is about a nautical mile.
	if d := nav.Distance(LL(54, 9), LL(54+1.0/60, 9)); !ApproxEqual(d, 1, 0.01) {
		t.Errorf("one minute of latitude measured as %v nm", d)
	}
	for _, tc := range []struct {
		b   Point2LL
		brg float64
	}{
		{LL(55, 9), 0},
		{LL(54, 10), 90},
		{LL(53, 9), 180},
		{LL(54, 8), 270},
	} {
		if got := nav.Bearing(LL(54, 9), tc.b); !ApproxEqual(got, tc.brg, 1e-9) {
			t.Errorf("bearing to %v = %v, expected %v", tc.b, got, tc.brg)
		}
	}
}

func TestGreatCircle(t *testing.T) {
	nav := GreatCircle{}
	for _, tc := range testPairs {
		t.Run(tc.name, func(t *testing.T) {
			brg := nav.Bearing(tc.a, tc.b)
			dist := nav.Distance(tc.a, tc.b)
			p := nav.Project(tc.a, brg, dist)
			if !ApproxEqual(p[0], tc.b[0], 1e-6) || !ApproxEqual(p[1], tc.b[1], 1e-6) {
				t.Errorf("projected %v, expected %v", p, tc.b)
			}
			if ab, ba := dist, nav.Distance(tc.b, tc.a); !ApproxEqual(ab, ba, 1e-9) {
				t.Errorf("distance not symmetric: %v vs %v", ab, ba)
			}
		})
	}
}

func TestDegenerate(t *testing.T) {
	for _, nav := range []Navigator{RhumbLine{}, GreatCircle{}} {
		a := LL(54, 9)
		if b := nav.Bearing(a, a); !gomath.IsNaN(b) {
			t.Errorf("%s: bearing between coincident points = %v, expected NaN", nav.Name(), b)
		}
		if d := nav.Distance(a, a); d != 0 {
			t.Errorf("%s: distance between coincident points = %v", nav.Name(), d)
		}
		for _, brg := range []float64{0, 45, 271, gomath.NaN()} {
			if p := nav.Project(a, brg, 0); p != a {
				t.Errorf("%s: zero distance projection moved the point to %v", nav.Name(), p)
			}
		}
		if p := Mix(nav, a, a, 0.5); p != a {
			t.Errorf("%s: Mix of coincident points gave %v", nav.Name(), p)
		}
	}
}

func TestMix(t *testing.T) {
	for _, nav := range []Navigator{RhumbLine{}, GreatCircle{}} {
		a, b := LL(54, 9), LL(55, 11)
		m := Mix(nav, a, b, 0.5)
		da, db := nav.Distance(a, m), nav.Distance(m, b)
		if !ApproxEqual(da, db, 0.05) {
			t.Errorf("%s: midpoint distances %v and %v differ", nav.Name(), da, db)
		}
		if p := Mix(nav, a, b, 1); !ApproxEqual(p[0], b[0], 1e-6) || !ApproxEqual(p[1], b[1], 1e-6) {
			t.Errorf("%s: Mix(1) = %v, expected %v", nav.Name(), p, b)
		}
	}
}

func TestNavigatorByName(t *testing.T) {
	for name, expected := range map[string]string{
		"":            "rhumb",
		"Rhumb":       "rhumb",
		"greatcircle": "greatcircle",
		"GC":          "greatcircle",
	} {
		nav, err := NavigatorByName(name)
		if err != nil {
			t.Errorf("%q: unexpected error %v", name, err)
		} else if nav.Name() != expected {
			t.Errorf("%q: got %s, expected %s", name, nav.Name(), expected)
		}
	}
	if _, err := NavigatorByName("loxodrome2"); err == nil {
		t.Errorf("expected error for unknown model")
	}
}
