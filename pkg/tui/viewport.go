// pkg/tui/viewport.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package tui

import (
	gomath "math"

	"github.com/mmp/chartplot/pkg/math"
)

const (
	MinZoom = 2
	MaxZoom = 20

	// tileSize is the width of the whole world in pixels at zoom 0.
	tileSize = 256
)

// DefaultCellSize is the nominal size of a terminal cell in pixels.
var DefaultCellSize = [2]float64{8, 16}

// Viewport maps between geographic positions and terminal cells using
// the web Mercator projection. Screen coordinates are in cells with the
// origin at the upper left; fractional values address positions inside a
// cell.
type Viewport struct {
	Center   math.Point2LL
	Zoom     float64
	Width    int // cells
	Height   int
	CellSize [2]float64 // pixels
}

func NewViewport(center math.Point2LL, zoom float64, width, height int) *Viewport {
	return &Viewport{
		Center:   center,
		Zoom:     math.Clamp(zoom, MinZoom, MaxZoom),
		Width:    width,
		Height:   height,
		CellSize: DefaultCellSize,
	}
}

// worldPixels returns the size of the world in pixels at the current zoom.
func (v *Viewport) worldPixels() float64 {
	return tileSize * gomath.Exp2(v.Zoom)
}

// pixel returns the position of p in world pixels, y increasing to the
// south.
func (v *Viewport) pixel(p math.Point2LL) [2]float64 {
	m := math.LL2Merc(p)
	w := v.worldPixels()
	return [2]float64{
		(m[0] + math.MercatorOriginShift) / (2 * math.MercatorOriginShift) * w,
		(math.MercatorOriginShift - m[1]) / (2 * math.MercatorOriginShift) * w,
	}
}

func (v *Viewport) unpixel(px [2]float64) math.Point2LL {
	w := v.worldPixels()
	return math.Merc2LL([2]float64{
		px[0]/w*2*math.MercatorOriginShift - math.MercatorOriginShift,
		math.MercatorOriginShift - px[1]/w*2*math.MercatorOriginShift,
	})
}

// GeoToScreen returns the screen position of p.
func (v *Viewport) GeoToScreen(p math.Point2LL) [2]float64 {
	c, pp := v.pixel(v.Center), v.pixel(p)
	return [2]float64{
		(pp[0]-c[0])/v.CellSize[0] + float64(v.Width)/2,
		(pp[1]-c[1])/v.CellSize[1] + float64(v.Height)/2,
	}
}

// ScreenToGeo returns the position at the given screen location.
func (v *Viewport) ScreenToGeo(s [2]float64) math.Point2LL {
	c := v.pixel(v.Center)
	return v.unpixel([2]float64{
		c[0] + (s[0]-float64(v.Width)/2)*v.CellSize[0],
		c[1] + (s[1]-float64(v.Height)/2)*v.CellSize[1],
	})
}

// CellCenter returns the position at the center of the given cell.
func (v *Viewport) CellCenter(x, y int) math.Point2LL {
	return v.ScreenToGeo([2]float64{float64(x) + 0.5, float64(y) + 0.5})
}

// Pan moves the view by the given number of cells.
func (v *Viewport) Pan(dx, dy float64) {
	c := v.ScreenToGeo([2]float64{float64(v.Width)/2 + dx, float64(v.Height)/2 + dy})
	c[1] = math.Clamp(c[1], -85, 85)
	v.Center = c.Normalized()
}

// ZoomBy changes the zoom level by delta, keeping the center fixed.
func (v *Viewport) ZoomBy(delta float64) {
	v.Zoom = math.Clamp(v.Zoom+delta, MinZoom, MaxZoom)
}

func (v *Viewport) Resize(width, height int) {
	v.Width, v.Height = width, height
}

// Bounds returns the extent of the visible area; P0 is the south-west
// corner and P1 the north-east one.
func (v *Viewport) Bounds() math.Extent2D {
	return math.Extent2DFromP2LLs([]math.Point2LL{
		v.ScreenToGeo([2]float64{0, float64(v.Height)}),
		v.ScreenToGeo([2]float64{float64(v.Width), 0}),
	})
}

// PixelsPerMinute returns the chart scale at the view center in pixels
// per minute of latitude.
func (v *Viewport) PixelsPerMinute() float64 {
	return v.worldPixels() / 360 / 60 / gomath.Cos(math.Radians(v.Center[1]))
}

// MetersPerCell returns the horizontal size of a cell at latitude lat.
func (v *Viewport) MetersPerCell(lat float64) float64 {
	return 2 * math.MercatorOriginShift / v.worldPixels() * v.CellSize[0] * gomath.Cos(math.Radians(lat))
}
