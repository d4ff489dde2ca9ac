// pkg/math/format.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"fmt"
	gomath "math"
	"strconv"
	"strings"
)

// FormatDegMin formats a coordinate in decimal degrees as degrees and
// decimal minutes, e.g. "N 54° 19.26'".
//
// Minutes are rounded to precision decimals; a rounded value of 60
// carries into the degrees. Unless padded is set, trailing fractional
// zeros are stripped and zero minutes are omitted entirely. When padded,
// degrees are zero-padded to two (latitude) or three (longitude) digits
// and minutes are always shown with a fixed width.
//
// Longitudes are first reduced to (-180,180]. The hemisphere letter is
// omitted only when the value is exactly zero; a value that merely rounds
// to zero keeps its letter.
func FormatDegMin(v float64, precision int, isLatitude, padded bool) string {
	precision = max(precision, 0)

	var hemi string
	if isLatitude {
		if v < 0 {
			hemi = "S"
		} else if v > 0 {
			hemi = "N"
		}
	} else {
		v = NormalizeLongitude(v)
		if v < 0 {
			hemi = "W"
		} else if v > 0 {
			hemi = "E"
		}
	}

	a := gomath.Abs(v)
	d := gomath.Floor(a)
	f := gomath.Pow(10, float64(precision))
	m := gomath.Round(gomath.Mod(60*a, 60)*f) / f
	for m >= 60 {
		m -= 60
		d += 1
	}

	var deg, min string
	if padded {
		if isLatitude {
			deg = fmt.Sprintf("%02d", int(d))
		} else {
			deg = fmt.Sprintf("%03d", int(d))
		}
		width := 2
		if precision > 0 {
			width += 1 + precision
		}
		min = fmt.Sprintf("%0*.*f'", width, precision, m)
	} else {
		deg = strconv.Itoa(int(d))
		if m != 0 {
			min = strconv.FormatFloat(m, 'f', precision, 64)
			if strings.Contains(min, ".") {
				min = strings.TrimRight(min, "0")
				min = strings.TrimSuffix(min, ".")
			}
			min += "'"
		}
	}

	s := deg + "° " + min
	if hemi != "" {
		s = hemi + " " + s
	}
	return s
}
