// cmd/chartplot/main.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

// This file contains the implementation of the main() function, which
// loads the configuration and saved session and then either answers a
// one-off query or runs the interactive plotter until the user quits.

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/goforj/godump"

	"github.com/mmp/chartplot/pkg/log"
	"github.com/mmp/chartplot/pkg/magnetic"
	"github.com/mmp/chartplot/pkg/math"
	"github.com/mmp/chartplot/pkg/plot"
	"github.com/mmp/chartplot/pkg/tui"
	"github.com/mmp/chartplot/pkg/util"

	"github.com/apenwarr/fixconsole"
)

var (
	cpuprofile    = flag.String("cpuprofile", "", "write CPU profile to file")
	memprofile    = flag.String("memprofile", "", "write memory profile to this file")
	logLevel      = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir        = flag.String("logdir", "", "log file directory")
	navModel      = flag.String("model", "", "navigation model: rhumb or greatcircle")
	center        = flag.String("center", "", "initial chart center, e.g. \"50.8,-1.1\" or \"N50 48 W001 06\"")
	zoom          = flag.Float64("zoom", 0, "initial zoom level")
	gridFilename  = flag.String("grid", "", "CSV file of declination samples; selects the grid magnetic model")
	magModel      = flag.String("magnetic", "", "magnetic model: wmm, grid or fixed")
	sessionFile   = flag.String("session", "", "file to load and save plotted constructions")
	resetSession  = flag.Bool("resetsession", false, "discard the saved constructions and start with an empty chart")
	dumpSession   = flag.Bool("dump", false, "print the configuration and saved constructions and exit")
	plotPositions = flag.String("plot", "", "print the bearing and distance between two positions, separated by \";\", and exit")
)

// applyFlags overrides config values with any that were given on the
// command line.
func applyFlags(config *Config) error {
	if *navModel != "" {
		config.Model = *navModel
	}
	if *center != "" {
		p, err := math.ParseLatLong(*center)
		if err != nil {
			return err
		}
		config.Center = p
	}
	if *zoom != 0 {
		config.Zoom = *zoom
	}
	if *gridFilename != "" {
		config.DeclinationGrid = *gridFilename
		config.MagneticModel = "grid"
	}
	if *magModel != "" {
		config.MagneticModel = *magModel
	}
	if *sessionFile != "" {
		config.SessionFile = *sessionFile
	}
	return nil
}

func main() {
	flag.Parse()

	if err := fixconsole.FixConsoleIfNeeded(); err != nil {
		fmt.Printf("FixConsole: %v\n", err)
	}

	// Initialize the logging system first and foremost.
	lg := log.New(*logLevel, *logDir)

	profiler, err := util.CreateProfiler(*cpuprofile, *memprofile)
	if err != nil {
		lg.Errorf("%v", err)
	}
	defer func() {
		if err := profiler.Cleanup(); err != nil {
			lg.Errorf("%v", err)
		}
	}()

	configFile := configFilePath(lg)
	config, configErr := LoadOrMakeDefaultConfig(configFile, lg)
	if configErr != nil {
		lg.Errorf("%v", configErr)
		fmt.Fprintf(os.Stderr, "%v; using default configuration\n", configErr)
	}
	if err := applyFlags(config); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var e util.ErrorLogger
	config.Validate(&e)
	if e.HaveErrors() {
		e.PrintErrors(lg)
		os.Exit(1)
	}

	nav, _ := math.NavigatorByName(config.Model) // checked by Validate

	model, session, err := loadAll(config, *resetSession, lg)
	sessionFn := config.SessionFile
	if model == nil {
		lg.Errorf("%v", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	} else if err != nil {
		// A damaged session file shouldn't keep us from plotting, but
		// don't overwrite it when we exit.
		lg.Errorf("%v", err)
		fmt.Fprintf(os.Stderr, "%v; starting with an empty chart\n", err)
		sessionFn = ""
	}

	if *plotPositions != "" {
		if err := calculate(os.Stdout, *plotPositions, nav, model, lg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	} else if *dumpSession {
		godump.Dump(config)
		godump.Dump(session.Records)
	} else {
		if err := run(config, sessionFn, nav, model, session, lg); err != nil {
			lg.Errorf("%v", err)
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		if err := config.Save(configFile, lg); err != nil {
			lg.Errorf("%s: %v", configFile, err)
		}
	}
}

// run runs the interactive plotter. The config's view and the session
// are updated with the final state when the user quits; the session is
// only written if sessionFn is non-empty.
func run(config *Config, sessionFn string, nav math.Navigator, model magnetic.Model, session *Session, lg *log.Logger) error {
	defer lg.CatchAndReportCrash()

	scr, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := scr.Init(); err != nil {
		return err
	}
	defer scr.Fini()
	scr.SetStyle(tcell.StyleDefault)

	if *center == "" && *zoom == 0 {
		restoreView(config, session)
	}

	w, h := scr.Size()
	vp := tui.NewViewport(config.Center, config.Zoom, w, h-1)
	surface := tui.NewScreen()
	dec := magnetic.NewTracker(model, lg)
	plotter := plot.NewPlotter(surface, nav, dec, lg)
	if err := plotter.Load(session.Records); err != nil {
		lg.Warnf("%v", err)
	}

	save := func() error {
		config.Center, config.Zoom = vp.Center, vp.Zoom
		session.Center, session.Zoom = vp.Center, vp.Zoom
		session.Records = plotter.Records()
		if sessionFn == "" {
			return errors.New("session file could not be read; not overwriting it")
		}
		return saveSession(sessionFn, session)
	}

	host := tui.NewHost(scr, vp, surface, plotter, dec, lg)
	host.Save = save
	if err := host.Run(); err != nil {
		return err
	}

	if err := save(); err != nil {
		lg.Warnf("%v", err)
	}
	return nil
}
