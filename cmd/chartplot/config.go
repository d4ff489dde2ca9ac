// cmd/chartplot/config.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mmp/chartplot/pkg/log"
	"github.com/mmp/chartplot/pkg/math"
	"github.com/mmp/chartplot/pkg/plot"
	"github.com/mmp/chartplot/pkg/tui"
	"github.com/mmp/chartplot/pkg/util"
)

// CurrentConfigVersion is bumped whenever a field is added that needs a
// non-zero default when an older config is loaded.
//
// 1: initial
// 2: DeclinationCacheSize
// 3: MagneticModel, WMMCoefficients
const CurrentConfigVersion = 3

const defaultDeclinationCacheSize = 4096

type Config struct {
	Version int

	Center math.Point2LL
	Zoom   float64

	// Model is the navigation model name: "rhumb" or "greatcircle".
	Model string

	// MagneticModel selects where declination comes from: "wmm" for the
	// World Magnetic Model, "grid" for the samples in DeclinationGrid or
	// "fixed" for FixedDeclination everywhere.
	MagneticModel string

	// WMMCoefficients is a WMM.COF file to use instead of the built-in
	// coefficients.
	WMMCoefficients      string
	DeclinationGrid      string
	DeclinationCacheSize int
	FixedDeclination     float64

	SessionFile string
}

// Session is what is written to SessionFile: the placed constructions
// and the view they were plotted in.
type Session struct {
	Version int           `msgpack:"v"`
	Center  math.Point2LL `msgpack:"c"`
	Zoom    float64       `msgpack:"z"`
	Records []plot.Record `msgpack:"r"`
}

const CurrentSessionVersion = 1

func configDir(lg *log.Logger) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		lg.Errorf("Unable to find user config dir: %v", err)
		dir = "."
	}
	return filepath.Join(dir, "ChartPlot")
}

func configFilePath(lg *log.Logger) string {
	dir := configDir(lg)
	err := os.MkdirAll(dir, 0o700)
	if err != nil {
		lg.Errorf("%s: unable to make directory for config file: %v", dir, err)
	}

	return filepath.Join(dir, "config.json")
}

func (c *Config) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(c)
}

func (c *Config) Save(fn string, lg *log.Logger) error {
	lg.Infof("Saving config to: %s", fn)
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer f.Close()

	return c.Encode(f)
}

func getDefaultConfig(lg *log.Logger) *Config {
	return &Config{
		Version:              CurrentConfigVersion,
		Center:               math.LL(50.8, -1.1), // Solent
		Zoom:                 10,
		Model:                math.DefaultNavigator.Name(),
		MagneticModel:        "wmm",
		DeclinationCacheSize: defaultDeclinationCacheSize,
		SessionFile:          filepath.Join(configDir(lg), "session.msgpack.zst"),
	}
}

func LoadOrMakeDefaultConfig(fn string, lg *log.Logger) (config *Config, configErr error) {
	lg.Infof("Loading config from: %s", fn)

	config = getDefaultConfig(lg)

	defer func() {
		if err := recover(); err != nil {
			configErr = fmt.Errorf("%v", err)
			lg.Errorf("%s: crashed loading config: %v", fn, err)
			config = getDefaultConfig(lg)
		}
	}()

	contents, err := os.ReadFile(fn)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, err
	}

	var e util.ErrorLogger
	e.Push(fn)
	util.CheckJSON[Config](contents, &e)
	if e.HaveErrors() {
		// Misspelled entries are ignored by the decoder; report them but
		// still use the rest of the config.
		lg.Warnf("%v", e.Err())
	}

	config = &Config{}
	if err := util.UnmarshalJSON(contents, config); err != nil {
		return getDefaultConfig(lg), fmt.Errorf("%s: %w", fn, err)
	}

	if config.Version < 2 {
		config.DeclinationCacheSize = defaultDeclinationCacheSize
	}
	if config.Version < 3 {
		// Older configs used the grid if one was given and the fixed
		// declination otherwise.
		if config.DeclinationGrid != "" {
			config.MagneticModel = "grid"
		} else if config.FixedDeclination != 0 {
			config.MagneticModel = "fixed"
		}
	}
	if config.MagneticModel == "" {
		config.MagneticModel = "wmm"
	}
	if config.Model == "" {
		config.Model = math.DefaultNavigator.Name()
	}
	if config.SessionFile == "" {
		config.SessionFile = getDefaultConfig(lg).SessionFile
	}
	config.Version = CurrentConfigVersion

	return config, nil
}

// Validate reports all of the problems with the configuration at once.
func (c *Config) Validate(e *util.ErrorLogger) {
	e.Push("config")
	defer e.Pop()

	if !c.Center.Valid() {
		e.ErrorString("center %s: %v", c.Center.DDString(), math.ErrInvalidLatitude)
	}
	if c.Zoom < tui.MinZoom || c.Zoom > tui.MaxZoom {
		e.ErrorString("zoom %.1f: must be between %d and %d", c.Zoom, tui.MinZoom, tui.MaxZoom)
	}
	if _, err := math.NavigatorByName(c.Model); err != nil {
		e.Error(err)
	}
	switch c.MagneticModel {
	case "wmm", "grid":
		e.Push(c.MagneticModel)
		fn := util.Select(c.MagneticModel == "grid", c.DeclinationGrid, c.WMMCoefficients)
		if fn == "" && c.MagneticModel == "grid" {
			e.ErrorString("no declination grid specified")
		} else if fn != "" {
			if _, err := os.Stat(fn); err != nil {
				e.Error(err)
			}
		}
		if c.DeclinationCacheSize <= 0 {
			e.ErrorString("cache size %d: must be positive", c.DeclinationCacheSize)
		}
		e.Pop()
	case "fixed":
		if c.FixedDeclination < -180 || c.FixedDeclination > 180 {
			e.ErrorString("fixed declination %.1f: must be within ±180°", c.FixedDeclination)
		}
	default:
		e.ErrorString("%q: unknown magnetic model; expected \"wmm\", \"grid\" or \"fixed\"", c.MagneticModel)
	}
	if c.SessionFile == "" {
		e.ErrorString("no session file specified")
	}
}
