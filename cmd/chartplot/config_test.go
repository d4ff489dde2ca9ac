// cmd/chartplot/config_test.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mmp/chartplot/pkg/math"
	"github.com/mmp/chartplot/pkg/util"
)

func TestLoadOrMakeDefaultConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing", func(t *testing.T) {
		c, err := LoadOrMakeDefaultConfig(filepath.Join(dir, "missing.json"), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.Version != CurrentConfigVersion || c.Model != "rhumb" || c.MagneticModel != "wmm" || c.SessionFile == "" {
			t.Errorf("unexpected default config %+v", c)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		fn := filepath.Join(dir, "config.json")
		c := getDefaultConfig(nil)
		c.Center = math.LL(54.5, -9.25)
		c.Zoom = 12.5
		c.Model = "greatcircle"
		c.FixedDeclination = -3.5
		c.SessionFile = filepath.Join(dir, "session")
		if err := c.Save(fn, nil); err != nil {
			t.Fatal(err)
		}

		c2, err := LoadOrMakeDefaultConfig(fn, nil)
		if err != nil {
			t.Fatal(err)
		}
		if *c2 != *c {
			t.Errorf("got %+v, expected %+v", c2, c)
		}
	})

	t.Run("upgrade", func(t *testing.T) {
		fn := filepath.Join(dir, "old.json")
		if err := os.WriteFile(fn, []byte(`{"Version": 1, "Center": [-1, 50], "Zoom": 9, "Zoon": 3}`), 0o600); err != nil {
			t.Fatal(err)
		}
		c, err := LoadOrMakeDefaultConfig(fn, nil)
		if err != nil {
			t.Fatal(err)
		}
		if c.Version != CurrentConfigVersion || c.DeclinationCacheSize != defaultDeclinationCacheSize {
			t.Errorf("config not upgraded: %+v", c)
		}
		if c.Center != math.LL(50, -1) || c.Zoom != 9 || c.Model == "" || c.SessionFile == "" {
			t.Errorf("unexpected config %+v", c)
		}
		if c.MagneticModel != "wmm" {
			t.Errorf("magnetic model %q, expected wmm", c.MagneticModel)
		}
	})

	t.Run("upgrade magnetic model", func(t *testing.T) {
		for _, tt := range []struct {
			json     string
			expected string
		}{
			{`{"Version": 2, "DeclinationGrid": "grid.csv", "FixedDeclination": 2}`, "grid"},
			{`{"Version": 2, "FixedDeclination": -3}`, "fixed"},
			{`{"Version": 2}`, "wmm"},
			{`{"Version": 3, "FixedDeclination": -3}`, "wmm"},
		} {
			fn := filepath.Join(dir, "v2.json")
			if err := os.WriteFile(fn, []byte(tt.json), 0o600); err != nil {
				t.Fatal(err)
			}
			c, err := LoadOrMakeDefaultConfig(fn, nil)
			if err != nil {
				t.Fatal(err)
			}
			if c.MagneticModel != tt.expected {
				t.Errorf("%s: magnetic model %q, expected %q", tt.json, c.MagneticModel, tt.expected)
			}
		}
	})

	t.Run("corrupt", func(t *testing.T) {
		fn := filepath.Join(dir, "corrupt.json")
		if err := os.WriteFile(fn, []byte(`{"Version": `), 0o600); err != nil {
			t.Fatal(err)
		}
		c, err := LoadOrMakeDefaultConfig(fn, nil)
		if err == nil {
			t.Errorf("expected error for corrupt config")
		}
		if c == nil || c.Version != CurrentConfigVersion {
			t.Errorf("expected default config, got %+v", c)
		}
	})
}

func TestConfigValidate(t *testing.T) {
	dir := t.TempDir()
	grid := filepath.Join(dir, "grid.csv")
	if err := os.WriteFile(grid, []byte("50,-2,-1\n50,0,-0.5\n52,-2,-1.5\n52,0,-1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		modify func(c *Config)
		errors []string
	}{
		{"default", func(c *Config) {}, nil},
		{"grid", func(c *Config) { c.MagneticModel, c.DeclinationGrid = "grid", grid }, nil},
		{"fixed", func(c *Config) { c.MagneticModel, c.FixedDeclination = "fixed", -4 }, nil},
		{"coefficients", func(c *Config) { c.WMMCoefficients = filepath.Join(dir, "nope.cof") }, []string{"config / wmm: "}},
		{"magnetic model", func(c *Config) { c.MagneticModel = "igrf" }, []string{`"igrf": unknown magnetic model`}},
		{"no grid", func(c *Config) { c.MagneticModel = "grid" }, []string{"no declination grid"}},
		{"bad latitude", func(c *Config) { c.Center = math.LL(91, 0) }, []string{"config: center"}},
		{"zoom", func(c *Config) { c.Zoom = 30 }, []string{"zoom 30.0"}},
		{"model", func(c *Config) { c.Model = "loxodrome" }, []string{"unknown navigation model"}},
		{"missing grid", func(c *Config) {
			c.MagneticModel = "grid"
			c.DeclinationGrid = filepath.Join(dir, "nope.csv")
			c.DeclinationCacheSize = 0
		}, []string{"config / grid: ", "cache size 0"}},
		{"several", func(c *Config) {
			c.Zoom = 1
			c.MagneticModel = "fixed"
			c.FixedDeclination = 200
			c.SessionFile = ""
		}, []string{"zoom 1.0", "fixed declination", "no session file"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := getDefaultConfig(nil)
			tt.modify(c)

			var e util.ErrorLogger
			c.Validate(&e)
			if len(tt.errors) == 0 {
				if e.HaveErrors() {
					t.Errorf("unexpected errors: %s", e.String())
				}
				return
			}
			for _, s := range tt.errors {
				if !strings.Contains(e.String(), s) {
					t.Errorf("expected %q in errors %q", s, e.String())
				}
			}
		})
	}
}
