// pkg/math/latlong.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"errors"
	"fmt"
	gomath "math"
	"regexp"
	"strconv"
)

// MetersPerNM is the length of the international nautical mile.
const MetersPerNM = 1852

var ErrInvalidLatitude = errors.New("latitude outside [-90,90]")

///////////////////////////////////////////////////////////////////////////
// Point2LL

// Point2LL represents a 2D point on the Earth in latitude-longitude.
// Important: 0 (x) is longitude, 1 (y) is latitude
type Point2LL [2]float64

// LL is a convenience constructor that takes the arguments in the order
// they are written on a chart: latitude first.
func LL(lat, lng float64) Point2LL {
	return Point2LL{lng, lat}
}

func (p Point2LL) Longitude() float64 {
	return p[0]
}

func (p Point2LL) Latitude() float64 {
	return p[1]
}

func (p Point2LL) IsZero() bool {
	return p[0] == 0 && p[1] == 0
}

// Valid reports whether the latitude is in [-90,90] and neither
// coordinate is NaN or infinite. Longitude is unconstrained.
func (p Point2LL) Valid() bool {
	if gomath.IsNaN(p[0]) || gomath.IsInf(p[0], 0) {
		return false
	}
	return p[1] >= -90 && p[1] <= 90
}

// Normalized returns the point with its longitude reduced to (-180,180].
func (p Point2LL) Normalized() Point2LL {
	return Point2LL{NormalizeLongitude(p[0]), p[1]}
}

// DDString returns the position in decimal degrees, e.g.:
// (54.321000, 10.137000)
func (p Point2LL) DDString() string {
	return fmt.Sprintf("(%f, %f)", p[1], p[0]) // latitude, longitude
}

// DMString returns the position in chart notation with the given number
// of decimals for the minutes, e.g. "N 54° 19.26' E 10° 8.22'".
func (p Point2LL) DMString(precision int, padded bool) string {
	return FormatDegMin(p[1], precision, true, padded) + " " +
		FormatDegMin(p[0], precision, false, padded)
}

// NormalizeLongitude reduces a longitude to (-180,180].
func NormalizeLongitude(lng float64) float64 {
	lng = gomath.Mod(lng, 360)
	if lng > 180 {
		lng -= 360
	} else if lng <= -180 {
		lng += 360
	}
	return lng
}

var (
	// pair of floats (no exponents), latitude first
	reDecimalPair = regexp.MustCompile(`^\s*(\-?[0-9]+(?:\.[0-9]+)?)\s*[, ]\s*(\-?[0-9]+(?:\.[0-9]+)?)\s*$`)
	// hemisphere-prefixed degrees and decimal minutes, e.g.
	// N54 19.26 E010 08.22 or "N 54° 19.26' E 10° 8.22'"
	reDegMinPair = regexp.MustCompile(`^\s*([NS])\s*([0-9]{1,2})°?\s*(?:([0-9]+(?:\.[0-9]+)?)'?)?\s*,?\s*([EW])\s*([0-9]{1,3})°?\s*(?:([0-9]+(?:\.[0-9]+)?)'?)?\s*$`)
)

// ParseLatLong parses either a "lat, lng" pair of decimal degrees or a
// pair of hemisphere-prefixed degree/minute values.
func ParseLatLong(s string) (Point2LL, error) {
	if strs := reDecimalPair.FindStringSubmatch(s); len(strs) == 3 {
		lat, err := strconv.ParseFloat(strs[1], 64)
		if err != nil {
			return Point2LL{}, err
		}
		lng, err := strconv.ParseFloat(strs[2], 64)
		if err != nil {
			return Point2LL{}, err
		}
		p := LL(lat, lng)
		if !p.Valid() {
			return Point2LL{}, fmt.Errorf("%s: %w", s, ErrInvalidLatitude)
		}
		return p, nil
	} else if strs := reDegMinPair.FindStringSubmatch(s); len(strs) == 7 {
		parse := func(hemi, deg, min string) (float64, error) {
			d, err := strconv.Atoi(deg)
			if err != nil {
				return 0, err
			}
			var m float64
			if min != "" {
				if m, err = strconv.ParseFloat(min, 64); err != nil {
					return 0, err
				}
				if m >= 60 {
					return 0, fmt.Errorf("%s: minutes must be less than 60", min)
				}
			}
			v := float64(d) + m/60
			if hemi == "S" || hemi == "W" {
				v = -v
			}
			return v, nil
		}

		lat, err := parse(strs[1], strs[2], strs[3])
		if err != nil {
			return Point2LL{}, err
		}
		lng, err := parse(strs[4], strs[5], strs[6])
		if err != nil {
			return Point2LL{}, err
		}
		p := LL(lat, lng)
		if !p.Valid() {
			return Point2LL{}, fmt.Errorf("%s: %w", s, ErrInvalidLatitude)
		}
		return p, nil
	}
	return Point2LL{}, fmt.Errorf("%s: invalid latlong string", s)
}

