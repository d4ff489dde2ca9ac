// pkg/graticule/graticule.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package graticule chooses the spacing of latitude/longitude grid lines
// for a given zoom level and enumerates the lines that cross a view.
package graticule

import (
	gomath "math"

	"github.com/mmp/chartplot/pkg/math"
)

type interval struct {
	zoom    float64 // minimum zoom level
	degrees float64
}

// Ordered by increasing zoom.
var intervals = []interval{
	{2, 30},
	{5, 20},
	{6, 10},
	{7, 5},
	{8, 2},
	{9, 1},
	{10, 30.0 / 60},
	{11, 15.0 / 60},
	{12, 10.0 / 60},
	{13, 5.0 / 60},
	{14, 2.0 / 60},
	{15, 1.0 / 60},
	{16, 1.0 / 60 / 2},
	{17, 1.0 / 60 / 5},
	{18, 1.0 / 60 / 10},
}

// latitudeBias is added to the convergence-adjusted zoom when choosing the
// parallel spacing, so that parallels switch to the finer interval a
// little before meridians do.
const latitudeBias = 0.3

// Intervals holds the spacing in degrees between parallels (Lat) and
// meridians (Lon). A zero spacing means no lines are drawn.
type Intervals struct {
	Lat, Lon float64
}

func lookup(zoom float64) float64 {
	var deg float64
	for _, i := range intervals {
		if i.zoom <= zoom {
			deg = i.degrees
		}
	}
	return deg
}

// IntervalForZoom returns the grid spacing for a view at the given zoom
// level centered at the given latitude. Meridians use the table directly;
// parallels use the zoom adjusted by log2(1/cos(latitude)) since on a
// Mercator chart a degree of latitude is stretched by that factor.
func IntervalForZoom(zoom, latitude float64) Intervals {
	latScale := 1 / gomath.Cos(math.Radians(latitude))
	return Intervals{
		Lat: lookup(zoom + gomath.Log2(latScale) + latitudeBias),
		Lon: lookup(zoom),
	}
}

// Lines returns the positions of the grid lines with the given spacing
// that fall in [lo, hi), starting from the first multiple of interval at
// or below lo. It returns nil for a non-positive interval.
func Lines(lo, hi, interval float64) []float64 {
	if interval <= 0 || hi < lo {
		return nil
	}
	l0 := gomath.Floor(lo/interval) * interval
	var lines []float64
	for i := 0; ; i++ {
		l := l0 + float64(i)*interval
		if l >= hi {
			break
		}
		lines = append(lines, l)
	}
	return lines
}

// Label returns the tick label for a grid line.
func Label(v float64, isLatitude bool) string {
	return math.FormatDegMin(v, 2, isLatitude, false)
}

// Divisions returns the spacing, in divisions per degree, of the major and
// minor ticks drawn along the chart border given the current scale in
// pixels per minute of arc and the grid interval in degrees.
func Divisions(pxPerMinute, interval float64) (major, minor float64) {
	minutes := interval < 1
	switch {
	case pxPerMinute > 100:
		major = 120
	case minutes:
		major = 60
	default:
		major = 2
	}
	switch {
	case pxPerMinute > 100:
		minor = 600
	case pxPerMinute > 30:
		minor = 300
	case minutes:
		minor = 120
	default:
		minor = 6
	}
	return
}
