// cmd/chartplot/session_test.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mmp/chartplot/pkg/magnetic"
	"github.com/mmp/chartplot/pkg/math"
	"github.com/mmp/chartplot/pkg/plot"
	"github.com/mmp/chartplot/pkg/util"
)

func TestSessionRoundTrip(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "sub", "session.msgpack.zst")

	s := &Session{
		Center: math.LL(50.5, -1.25),
		Zoom:   11,
		Records: []plot.Record{
			plot.MakeRecord(plot.Waypoint{P: math.LL(50.5, -1.25)}),
			plot.MakeRecord(plot.BearingLine{From: math.LL(50.6, -1.1), To: math.LL(50.5, -1.3)}),
		},
	}
	if err := saveSession(fn, s); err != nil {
		t.Fatal(err)
	}

	s2, err := loadSession(fn, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	if s2.Version != CurrentSessionVersion || s2.Center != s.Center || s2.Zoom != s.Zoom {
		t.Errorf("got %+v, expected %+v", s2, s)
	}
	if len(s2.Records) != 2 || s2.Records[1].Variant != plot.VariantBearingLine {
		t.Fatalf("unexpected records %+v", s2.Records)
	}
	if c, err := s2.Records[1].Construction(); err != nil {
		t.Errorf("record: %v", err)
	} else if bl := c.(plot.BearingLine); bl.To != math.LL(50.5, -1.3) {
		t.Errorf("unexpected construction %+v", bl)
	}

	s3, err := loadSession(fn, true, nil)
	if err != nil || len(s3.Records) != 0 {
		t.Errorf("reset session: %+v %v", s3, err)
	}
}

func TestRestoreView(t *testing.T) {
	tests := []struct {
		name     string
		session  Session
		restored bool
	}{
		{"empty", Session{}, false},
		{"no zoom", Session{Center: math.LL(51, -2)}, false},
		{"zero center", Session{Zoom: 12}, false},
		{"invalid", Session{Center: math.LL(95, -2), Zoom: 12}, false},
		{"saved view", Session{Center: math.LL(51, -2), Zoom: 12}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := getDefaultConfig(nil)
			def := *c
			if restoreView(c, &tt.session) != tt.restored {
				t.Errorf("expected restored = %v", tt.restored)
			}
			if tt.restored && (c.Center != tt.session.Center || c.Zoom != tt.session.Zoom) {
				t.Errorf("view not restored: %v %v", c.Center, c.Zoom)
			}
			if !tt.restored && (c.Center != def.Center || c.Zoom != def.Zoom) {
				t.Errorf("view changed: %v %v", c.Center, c.Zoom)
			}
		})
	}
}

func TestLoadSessionErrors(t *testing.T) {
	dir := t.TempDir()

	s, err := loadSession(filepath.Join(dir, "missing"), false, nil)
	if err != nil || s == nil || len(s.Records) != 0 {
		t.Errorf("missing session: %+v %v", s, err)
	}

	damaged := filepath.Join(dir, "damaged")
	if err := os.WriteFile(damaged, []byte("not a session"), 0o600); err != nil {
		t.Fatal(err)
	}
	s, err = loadSession(damaged, false, nil)
	if err == nil || !strings.Contains(err.Error(), damaged) {
		t.Errorf("expected error mentioning %s, got %v", damaged, err)
	}
	if s == nil {
		t.Errorf("expected empty session for damaged file")
	}

	newer := filepath.Join(dir, "newer")
	if err := util.StoreObject(newer, &Session{Version: CurrentSessionVersion + 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := loadSession(newer, false, nil); err == nil {
		t.Errorf("expected error for newer session version")
	}
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	grid := filepath.Join(dir, "grid.csv")
	if err := os.WriteFile(grid, []byte("lat,lon,decl\n50,-2,-1\n50,0,-1\n52,-2,-3\n52,0,-3\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	c := getDefaultConfig(nil)
	c.SessionFile = filepath.Join(dir, "session")
	c.MagneticModel = "grid"
	c.DeclinationGrid = grid

	model, session, err := loadAll(c, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	if session == nil || len(session.Records) != 0 {
		t.Errorf("unexpected session %+v", session)
	}
	if _, ok := model.(*magnetic.Cached); !ok {
		t.Errorf("expected cached grid model, got %T", model)
	}
	if d, err := model.Declination(math.LL(51, -1), time.Now()); err != nil || !math.ApproxEqual(d, -2, 1e-9) {
		t.Errorf("declination = %v, %v; expected -2", d, err)
	}

	c.DeclinationGrid = filepath.Join(dir, "missing.csv")
	if model, _, err := loadAll(c, false, nil); err == nil || model != nil {
		t.Errorf("expected error for missing grid, got %v", err)
	}

	c.MagneticModel = "fixed"
	c.FixedDeclination = 4
	model, _, err = loadAll(c, false, nil)
	if err != nil || model != magnetic.Fixed(4) {
		t.Errorf("expected fixed model, got %v %v", model, err)
	}

	// The default configuration uses the built-in World Magnetic Model.
	model, _, err = loadAll(getDefaultConfig(nil), true, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cm, ok := model.(*magnetic.Cached); !ok {
		t.Errorf("expected cached model, got %T", model)
	} else if _, ok := cm.Model.(*magnetic.WMM); !ok {
		t.Errorf("expected WMM, got %T", cm.Model)
	}
	at := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	if d, err := model.Declination(math.LL(40.71, -74.01), at); err != nil || d > -11.5 || d < -13.5 {
		t.Errorf("New York declination %v, %v; expected about -12.5", d, err)
	}

	c.MagneticModel = "wmm"
	c.WMMCoefficients = filepath.Join(dir, "missing.cof")
	if model, _, err := loadAll(c, false, nil); err == nil || model != nil {
		t.Errorf("expected error for missing coefficients, got %v", err)
	}
}

func TestCalculate(t *testing.T) {
	var b strings.Builder
	nav := math.RhumbLine{}
	if err := calculate(&b, "50,-1;51,-1", nav, magnetic.Fixed(-2), nil); err != nil {
		t.Fatal(err)
	}

	out := b.String()
	dist := plot.FormatDistance(nav.Distance(math.LL(50, -1), math.LL(51, -1)))
	for _, s := range []string{
		"From:        N 50° 00.000' W 001° 00.000'\n",
		"To:          N 51° 00.000' W 001° 00.000'\n",
		"Model:       rhumb\n",
		"Bearing:     0.0°(2.0°M)\n",
		"Reciprocal:  180.0°(182.0°M)\n",
		"Distance:    " + dist + "\n",
		"Declination: -2.0°\n",
	} {
		if !strings.Contains(out, s) {
			t.Errorf("expected %q in output:\n%s", s, out)
		}
	}

	b.Reset()
	if err := calculate(&b, "N50 30 W001 15;N50 30 W001 15", nav, magnetic.Fixed(0), nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "Bearing:     undefined") || !strings.Contains(b.String(), "Distance:    0.00M") {
		t.Errorf("unexpected output for coincident points:\n%s", b.String())
	}

	for _, bad := range []string{"50,-1", "50,-1;51,-1;52,-1", "50,-1;north"} {
		if err := calculate(&b, bad, nav, magnetic.Fixed(0), nil); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}
