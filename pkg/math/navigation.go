// pkg/math/navigation.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"fmt"
	gomath "math"
	"strings"
)

// MercatorOriginShift is half the circumference of the WGS84 equator in
// meters; web Mercator x and y coordinates fall in
// [-MercatorOriginShift, MercatorOriginShift].
const MercatorOriginShift = gomath.Pi * 6378137

// EarthRadius is the mean radius (meters) used by the great circle
// model.
const EarthRadius = 6371e3

// LL2Merc projects a lat-long point to spherical Mercator meters.
func LL2Merc(p Point2LL) [2]float64 {
	x := p[0] * MercatorOriginShift / 180
	y := gomath.Log(gomath.Tan((90+p[1])*gomath.Pi/360)) / (gomath.Pi / 180)
	y = y * MercatorOriginShift / 180
	return [2]float64{x, y}
}

// Merc2LL is the inverse of LL2Merc.
func Merc2LL(m [2]float64) Point2LL {
	lng := m[0] / MercatorOriginShift * 180
	lat := m[1] / MercatorOriginShift * 180
	lat = 180 / gomath.Pi * (2*gomath.Atan(gomath.Exp(lat*gomath.Pi/180)) - gomath.Pi/2)
	return Point2LL{lng, lat}
}

// Navigator computes bearings (degrees true, [0,360)) and distances
// (nautical miles) between points and projects points along a bearing.
//
// Bearing returns NaN when a and b coincide; callers must check before
// using the result.
type Navigator interface {
	Bearing(a, b Point2LL) float64
	Distance(a, b Point2LL) float64
	Project(a Point2LL, bearing, dist float64) Point2LL
	Name() string
}

// DefaultNavigator is the rhumb line model: chart plotting is done with
// compass bearings, which are straight lines on a Mercator chart.
var DefaultNavigator Navigator = RhumbLine{}

// NavigatorByName returns the model with the given name ("rhumb" or
// "greatcircle"; case insensitive). The empty string gives the default.
func NavigatorByName(name string) (Navigator, error) {
	switch strings.ToLower(name) {
	case "", "rhumb", "rhumbline":
		return RhumbLine{}, nil
	case "greatcircle", "gc":
		return GreatCircle{}, nil
	default:
		return nil, fmt.Errorf("%s: unknown navigation model", name)
	}
}

// Mix returns the point at fraction f of the way from a to b along the
// navigator's track. It is used to place symbols along plotted lines.
func Mix(nav Navigator, a, b Point2LL, f float64) Point2LL {
	if a == b {
		return a
	}
	return nav.Project(a, nav.Bearing(a, b), nav.Distance(a, b)*f)
}

///////////////////////////////////////////////////////////////////////////
// RhumbLine

// RhumbLine measures along lines of constant bearing using the Mercator
// projection; distances are planar Mercator distances scaled by the
// cosine of the mean latitude.
type RhumbLine struct{}

func (RhumbLine) Name() string { return "rhumb" }

func (RhumbLine) Bearing(a, b Point2LL) float64 {
	if a == b {
		return gomath.NaN()
	}
	p1, p2 := LL2Merc(a), LL2Merc(b)
	dx, dy := p2[0]-p1[0], p2[1]-p1[1]
	if dx == 0 && dy == 0 {
		return gomath.NaN()
	}
	// Swapping the arguments to atan2 measures clockwise from +y, i.e.,
	// north.
	return NormalizeHeading(Degrees(gomath.Atan2(dx, dy)))
}

func (RhumbLine) Distance(a, b Point2LL) float64 {
	p1, p2 := LL2Merc(a), LL2Merc(b)
	f := gomath.Cos(Radians((a[1] + b[1]) / 2))
	dx := (p2[0] - p1[0]) * f
	dy := (p2[1] - p1[1]) * f
	return gomath.Sqrt(dx*dx+dy*dy) / MetersPerNM
}

func (RhumbLine) Project(a Point2LL, bearing, dist float64) Point2LL {
	if dist == 0 {
		return a
	}
	p0 := LL2Merc(a)
	s, c := SinCosD(bearing)
	m := dist * MetersPerNM

	step := func(lat float64) Point2LL {
		f := gomath.Cos(Radians(lat))
		return Merc2LL([2]float64{p0[0] + m/f*s, p0[1] + m/f*c})
	}

	// Start with the scale at the origin, then refine using the mean
	// latitude so that Distance(a, Project(a, b, d)) matches d.
	p := step(a[1])
	for range 32 {
		q := step((a[1] + p[1]) / 2)
		if q == p {
			break
		}
		p = q
	}
	return p
}

///////////////////////////////////////////////////////////////////////////
// GreatCircle

// GreatCircle measures along the shortest path on a sphere of radius
// EarthRadius; Bearing is the initial bearing.
type GreatCircle struct{}

func (GreatCircle) Name() string { return "greatcircle" }

func (GreatCircle) Bearing(a, b Point2LL) float64 {
	if a == b {
		return gomath.NaN()
	}
	lat1, lat2 := Radians(a[1]), Radians(b[1])
	dlon := Radians(b[0] - a[0])
	y := gomath.Sin(dlon) * gomath.Cos(lat2)
	x := gomath.Cos(lat1)*gomath.Sin(lat2) - gomath.Sin(lat1)*gomath.Cos(lat2)*gomath.Cos(dlon)
	if x == 0 && y == 0 {
		return gomath.NaN()
	}
	return NormalizeHeading(Degrees(gomath.Atan2(y, x)))
}

// Distance uses the haversine formula.
// https://www.movable-type.co.uk/scripts/latlong.html
func (GreatCircle) Distance(a, b Point2LL) float64 {
	lat1, lat2 := Radians(a[1]), Radians(b[1])
	dlat, dlon := lat2-lat1, Radians(b[0]-a[0])

	x := Sqr(gomath.Sin(dlat/2)) + gomath.Cos(lat1)*gomath.Cos(lat2)*Sqr(gomath.Sin(dlon/2))
	c := 2 * gomath.Atan2(gomath.Sqrt(x), gomath.Sqrt(1-x))
	return EarthRadius * c / MetersPerNM
}

func (GreatCircle) Project(a Point2LL, bearing, dist float64) Point2LL {
	if dist == 0 {
		return a
	}
	delta := dist * MetersPerNM / EarthRadius
	theta := Radians(bearing)
	lat1, lon1 := Radians(a[1]), Radians(a[0])

	lat2 := SafeASin(gomath.Sin(lat1)*gomath.Cos(delta) + gomath.Cos(lat1)*gomath.Sin(delta)*gomath.Cos(theta))
	lon2 := lon1 + gomath.Atan2(gomath.Sin(theta)*gomath.Sin(delta)*gomath.Cos(lat1),
		gomath.Cos(delta)-gomath.Sin(lat1)*gomath.Sin(lat2))
	return Point2LL{Degrees(lon2), Degrees(lat2)}
}
