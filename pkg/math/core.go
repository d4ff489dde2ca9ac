// pkg/math/core.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"

	"golang.org/x/exp/constraints"
)

// Degrees converts an angle expressed in radians to degrees
func Degrees(r float64) float64 {
	return r * 180 / gomath.Pi
}

// Radians converts an angle expressed in degrees to radians
func Radians(d float64) float64 {
	return d / 180 * gomath.Pi
}

// SinCosD returns the sine and cosine of an angle given in degrees.
func SinCosD(d float64) (float64, float64) {
	return gomath.Sincos(Radians(d))
}

func SafeASin(a float64) float64 {
	return gomath.Asin(Clamp(a, -1, 1))
}

// RoundTo rounds v to the nearest multiple of step.
func RoundTo(v, step float64) float64 {
	return gomath.Round(v/step) * step
}

func Abs[V constraints.Integer | constraints.Float](x V) V {
	if x < 0 {
		return -x
	}
	return x
}

func Sqr[V constraints.Integer | constraints.Float](v V) V { return v * v }

func Clamp[T constraints.Ordered](x T, low T, high T) T {
	if x < low {
		return low
	} else if x > high {
		return high
	}
	return x
}

func Lerp(x, a, b float64) float64 {
	return (1-x)*a + x*b
}

// ApproxEqual reports whether a and b are within eps of each other. NaNs
// are never equal.
func ApproxEqual(a, b, eps float64) bool {
	return Abs(a-b) <= eps
}
