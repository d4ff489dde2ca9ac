// pkg/plot/labels.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package plot

import (
	"fmt"

	"github.com/mmp/chartplot/pkg/magnetic"
	"github.com/mmp/chartplot/pkg/math"
)

// FormatDirection formats a true bearing with the given number of
// decimals; whole-degree bearings are zero padded to three digits. If
// dec is non-nil, the magnetic bearing is appended, e.g. "095°(102°M)".
func FormatDirection(a float64, digits int, dec *magnetic.Tracker) string {
	s := formatDegrees(a, digits) + "°"
	if dec != nil {
		s += "(" + formatDegrees(a-dec.Value(), digits) + "°M)"
	}
	return s
}

func formatDegrees(a float64, digits int) string {
	width := 0
	if digits == 0 {
		width = 3
	}
	return fmt.Sprintf("%0*.*f", width, digits, math.NormalizeHeading(a))
}

// FormatDistance formats a distance in nautical miles.
func FormatDistance(d float64) string {
	return fmt.Sprintf("%.2fM", d)
}

func FormatDirectionDistance(a, d float64, dec *magnetic.Tracker) string {
	return FormatDirection(a, 0, dec) + "/" + FormatDistance(d)
}

// FormatPosition formats a position as padded degrees and minutes.
func FormatPosition(p math.Point2LL) string {
	return p.DMString(3, true)
}
