// pkg/math/geom.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

///////////////////////////////////////////////////////////////////////////
// Extent2D

// Extent2D represents a 2D bounding box with the two vertices at its
// opposite minimum and maximum corners. When used for lat-long points,
// P0 is the south-west corner and P1 the north-east corner.
type Extent2D struct {
	P0, P1 [2]float64
}

// EmptyExtent2D returns an Extent2D representing an empty bounding box.
func EmptyExtent2D() Extent2D {
	// Degenerate bounds
	return Extent2D{P0: [2]float64{1e30, 1e30}, P1: [2]float64{-1e30, -1e30}}
}

// Extent2DFromP2LLs returns an Extent2D that bounds all of the provided
// points.
func Extent2DFromP2LLs(pts []Point2LL) Extent2D {
	e := EmptyExtent2D()
	for _, p := range pts {
		e = Union(e, p)
	}
	return e
}

func (e Extent2D) Width() float64 {
	return e.P1[0] - e.P0[0]
}

func (e Extent2D) Height() float64 {
	return e.P1[1] - e.P0[1]
}

func (e Extent2D) Center() [2]float64 {
	return [2]float64{(e.P0[0] + e.P1[0]) / 2, (e.P0[1] + e.P1[1]) / 2}
}

// Inside returns true if the given point is inside the extent.
func (e Extent2D) Inside(p [2]float64) bool {
	return p[0] >= e.P0[0] && p[0] <= e.P1[0] && p[1] >= e.P0[1] && p[1] <= e.P1[1]
}

// Union returns an Extent2D that bounds both the provided extent and
// the point.
func Union(e Extent2D, p [2]float64) Extent2D {
	for d := 0; d < 2; d++ {
		e.P0[d] = min(e.P0[d], p[d])
		e.P1[d] = max(e.P1[d], p[d])
	}
	return e
}
