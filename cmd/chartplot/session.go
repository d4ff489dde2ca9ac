// cmd/chartplot/session.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	gomath "math"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mmp/chartplot/pkg/log"
	"github.com/mmp/chartplot/pkg/magnetic"
	"github.com/mmp/chartplot/pkg/math"
	"github.com/mmp/chartplot/pkg/plot"
	"github.com/mmp/chartplot/pkg/util"
)

// loadSession returns the saved session, or an empty one if there is no
// session file yet or reset is set.
func loadSession(fn string, reset bool, lg *log.Logger) (*Session, error) {
	s := &Session{Version: CurrentSessionVersion}
	if reset {
		lg.Infof("%s: ignoring saved session", fn)
		return s, nil
	}

	if err := util.RetrieveObject(fn, s); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Session{Version: CurrentSessionVersion}, nil
		}
		return &Session{Version: CurrentSessionVersion}, fmt.Errorf("%s: %w", fn, err)
	}
	if s.Version > CurrentSessionVersion {
		return &Session{Version: CurrentSessionVersion},
			fmt.Errorf("%s: session version %d is newer than this program supports", fn, s.Version)
	}

	lg.Info("loaded session", slog.String("file", fn), slog.Int("constructions", len(s.Records)))
	return s, nil
}

// restoreView moves the config's view to where the session was saved,
// if the session recorded one.
func restoreView(c *Config, s *Session) bool {
	if s.Zoom == 0 || s.Center.IsZero() || !s.Center.Valid() {
		return false
	}
	c.Center, c.Zoom = s.Center, s.Zoom
	return true
}

func saveSession(fn string, s *Session) error {
	s.Version = CurrentSessionVersion
	return util.StoreObject(fn, s)
}

// loadModel returns the declination model described by the config. The
// WMM and grid models are wrapped in an LRU cache since they are
// consulted every time the view moves.
func loadModel(c *Config, lg *log.Logger) (magnetic.Model, error) {
	var m magnetic.Model
	switch c.MagneticModel {
	case "fixed":
		return magnetic.Fixed(c.FixedDeclination), nil

	case "grid":
		g, err := magnetic.LoadGridModel(c.DeclinationGrid)
		if err != nil {
			return nil, err
		}
		b := g.Bounds()
		lg.Info("loaded declination grid", slog.String("file", c.DeclinationGrid),
			slog.String("sw", math.Point2LL(b.P0).DDString()), slog.String("ne", math.Point2LL(b.P1).DDString()))
		m = g

	case "wmm", "":
		var w *magnetic.WMM
		var err error
		if c.WMMCoefficients != "" {
			w, err = magnetic.LoadWMM(c.WMMCoefficients)
		} else {
			w, err = magnetic.DefaultWMM()
		}
		if err != nil {
			return nil, err
		}
		lg.Info("loaded magnetic model", slog.String("model", w.Name), slog.Float64("epoch", w.Epoch))
		if !w.Valid(time.Now()) {
			lg.Warnf("%s: magnetic model epoch %.1f has expired; declination is extrapolated", w.Name, w.Epoch)
		}
		m = w

	default:
		return nil, fmt.Errorf("%q: unknown magnetic model", c.MagneticModel)
	}

	cached, err := magnetic.NewCached(m, c.DeclinationCacheSize)
	if err != nil {
		return nil, err
	}
	return cached, nil
}

// loadAll reads the declination model and the saved session in parallel;
// either may be slow if it lives on a network filesystem.
func loadAll(c *Config, reset bool, lg *log.Logger) (magnetic.Model, *Session, error) {
	var model magnetic.Model
	var session *Session

	var g errgroup.Group
	g.Go(func() error {
		var err error
		model, err = loadModel(c, lg)
		return err
	})
	g.Go(func() error {
		var err error
		session, err = loadSession(c.SessionFile, reset, lg)
		return err
	})
	err := g.Wait()
	return model, session, err
}

// calculate parses a pair of positions separated by a semicolon and
// writes the bearing and distance between them.
func calculate(w io.Writer, positions string, nav math.Navigator, model magnetic.Model, lg *log.Logger) error {
	strs := strings.Split(positions, ";")
	if len(strs) != 2 {
		return fmt.Errorf("%s: expected two positions separated by \";\"", positions)
	}

	var pts [2]math.Point2LL
	for i, s := range strs {
		p, err := math.ParseLatLong(s)
		if err != nil {
			return err
		}
		pts[i] = p
	}

	dec := magnetic.NewTracker(model, lg)
	d := dec.Update(pts[0])

	fmt.Fprintf(w, "From:        %s\n", plot.FormatPosition(pts[0]))
	fmt.Fprintf(w, "To:          %s\n", plot.FormatPosition(pts[1]))
	fmt.Fprintf(w, "Model:       %s\n", nav.Name())
	if brg := nav.Bearing(pts[0], pts[1]); gomath.IsNaN(brg) {
		fmt.Fprintf(w, "Bearing:     undefined\n")
	} else {
		fmt.Fprintf(w, "Bearing:     %s\n", plot.FormatDirection(brg, 1, dec))
		fmt.Fprintf(w, "Reciprocal:  %s\n", plot.FormatDirection(math.OppositeHeading(brg), 1, dec))
	}
	fmt.Fprintf(w, "Distance:    %s\n", plot.FormatDistance(nav.Distance(pts[0], pts[1])))
	fmt.Fprintf(w, "Declination: %.1f°\n", d)
	return nil
}
