// pkg/math/heading.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"
)

///////////////////////////////////////////////////////////////////////////
// headings and directions

// NormalizeHeading reduces h to [0,360). NaN passes through.
func NormalizeHeading(h float64) float64 {
	h = gomath.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		// -1e-15 + 360 rounds to 360
		h = 0
	}
	return h
}

// To180 reduces h to (-180,180].
func To180(h float64) float64 {
	h = NormalizeHeading(h)
	if h > 180 {
		h -= 360
	}
	return h
}

func OppositeHeading(h float64) float64 {
	return NormalizeHeading(h + 180)
}

// HeadingDifference returns the minimum difference between two
// headings. (i.e., the result is always in the range [0,180].)
func HeadingDifference(a float64, b float64) float64 {
	d := Abs(NormalizeHeading(a) - NormalizeHeading(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}

// ShortCompass converts a heading expressed in degrees into an abbreviated
// string corresponding to the closest compass direction.
func ShortCompass(heading float64) string {
	h := NormalizeHeading(heading + 22.5) // now [0,45] is north, etc...
	idx := int(h / 45)
	return [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}[idx]
}
