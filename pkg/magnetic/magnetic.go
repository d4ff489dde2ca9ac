// pkg/magnetic/magnetic.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package magnetic provides magnetic declination (variation) lookups for
// labelling bearings with their magnetic equivalent.
package magnetic

import (
	"time"

	"github.com/mmp/chartplot/pkg/math"
)

// Model is a geomagnetic reference model. Declination returns the
// declination in degrees (positive east) at p for the given date.
type Model interface {
	Declination(p math.Point2LL, t time.Time) (float64, error)
}

// Fixed is a Model that returns the same declination everywhere.
type Fixed float64

func (f Fixed) Declination(math.Point2LL, time.Time) (float64, error) {
	return float64(f), nil
}

// Local corrections that take precedence over the model.
type override struct {
	bounds      math.Extent2D // exclusive
	declination float64
}

var overrides = []override{
	{
		bounds:      math.Extent2D{P0: [2]float64{-6.42, 45.6}, P1: [2]float64{-5.57, 46.5}},
		declination: -7,
	},
}

func overridden(p math.Point2LL) (float64, bool) {
	for _, o := range overrides {
		if p[0] > o.bounds.P0[0] && p[0] < o.bounds.P1[0] &&
			p[1] > o.bounds.P0[1] && p[1] < o.bounds.P1[1] {
			return o.declination, true
		}
	}
	return 0, false
}

// Declination returns the declination at p, applying the local
// corrections before consulting the model.
func Declination(m Model, p math.Point2LL, t time.Time) (float64, error) {
	if d, ok := overridden(p); ok {
		return d, nil
	}
	return m.Declination(p, t)
}
