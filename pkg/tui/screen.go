// pkg/tui/screen.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package tui

import (
	gomath "math"

	"github.com/gdamore/tcell/v2"

	"github.com/mmp/chartplot/pkg/graticule"
	"github.com/mmp/chartplot/pkg/math"
	"github.com/mmp/chartplot/pkg/plot"
	"github.com/mmp/chartplot/pkg/util"
)

type shapeKind int

const (
	markerShape shapeKind = iota
	polylineShape
	circleShape
)

type shape struct {
	kind      shapeKind
	pts       []math.Point2LL
	icon      plot.Icon
	rotation  float64
	radius    float64 // meters
	style     plot.Style
	label     string
	permanent bool
}

// anchor returns the point that the shape's label is attached to.
func (s *shape) anchor() math.Point2LL {
	switch s.kind {
	case polylineShape:
		if len(s.pts) == 0 {
			return math.Point2LL{}
		}
		a, b := s.pts[0], s.pts[len(s.pts)-1]
		return math.Point2LL{(a[0] + b[0]) / 2, (a[1] + b[1]) / 2}
	default:
		return s.pts[0]
	}
}

// Screen is a plot.Surface that keeps the shapes it is given and draws
// them, along with a latitude/longitude grid, into a tcell screen.
type Screen struct {
	shapes map[plot.ShapeID]*shape
	order  []plot.ShapeID

	// hits maps cells to the last shape drawn there in the most recent
	// Draw.
	hits map[[2]int]plot.ShapeID
}

var _ plot.Surface = (*Screen)(nil)

func NewScreen() *Screen {
	return &Screen{
		shapes: make(map[plot.ShapeID]*shape),
		hits:   make(map[[2]int]plot.ShapeID),
	}
}

func (s *Screen) get(id plot.ShapeID, kind shapeKind) *shape {
	sh, ok := s.shapes[id]
	if !ok {
		sh = &shape{kind: kind}
		s.shapes[id] = sh
		s.order = append(s.order, id)
	}
	sh.kind = kind
	return sh
}

func (s *Screen) Marker(id plot.ShapeID, p math.Point2LL, icon plot.Icon, rotation float64) {
	sh := s.get(id, markerShape)
	sh.pts, sh.icon, sh.rotation = []math.Point2LL{p}, icon, rotation
}

func (s *Screen) Polyline(id plot.ShapeID, pts []math.Point2LL, style plot.Style) {
	sh := s.get(id, polylineShape)
	sh.pts, sh.style = append(sh.pts[:0], pts...), style
}

func (s *Screen) Circle(id plot.ShapeID, center math.Point2LL, radius float64, style plot.Style) {
	sh := s.get(id, circleShape)
	sh.pts, sh.radius, sh.style = []math.Point2LL{center}, radius, style
}

func (s *Screen) Label(id plot.ShapeID, text string, permanent bool) {
	if sh, ok := s.shapes[id]; ok {
		sh.label, sh.permanent = text, permanent
	}
}

func (s *Screen) Remove(id plot.ShapeID) {
	if _, ok := s.shapes[id]; !ok {
		return
	}
	delete(s.shapes, id)
	s.order = util.FilterSlice(s.order, func(sid plot.ShapeID) bool { return sid != id })
}

// Len returns the number of shapes currently on the surface.
func (s *Screen) Len() int {
	return len(s.shapes)
}

// HitTest returns the shape drawn at or next to the given cell.
func (s *Screen) HitTest(x, y int) (plot.ShapeID, bool) {
	if id, ok := s.hits[[2]int{x, y}]; ok {
		return id, true
	}
	for _, d := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		if id, ok := s.hits[[2]int{x + d[0], y + d[1]}]; ok {
			return id, true
		}
	}
	return 0, false
}

///////////////////////////////////////////////////////////////////////////
// Drawing

var (
	styleGrid      = tcell.StyleDefault.Foreground(tcell.ColorDarkCyan)
	styleGridLabel = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleLabel     = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleMarker    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
)

func lineStyle(s plot.Style) tcell.Style {
	switch s {
	case plot.StyleProvisional:
		return tcell.StyleDefault.Foreground(tcell.ColorRed)
	case plot.StyleLocked:
		return tcell.StyleDefault.Foreground(tcell.ColorGreen)
	case plot.StyleMuted:
		return tcell.StyleDefault.Foreground(tcell.ColorLightGray)
	case plot.StyleRun:
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	default:
		return tcell.StyleDefault.Foreground(tcell.ColorWhite)
	}
}

var arrows = [...]rune{'↑', '↗', '→', '↘', '↓', '↙', '←', '↖'}

// iconRune returns the character used for a marker.
func iconRune(icon plot.Icon, rotation float64) rune {
	switch icon {
	case plot.IconWaypoint:
		return 'W'
	case plot.IconFix:
		return '⊙'
	case plot.IconCross:
		return '×'
	case plot.IconDRPos:
		return '+'
	case plot.IconEstimated:
		return '△'
	case plot.IconArrow, plot.IconWater, plot.IconGround, plot.IconTide:
		return arrows[int(math.NormalizeHeading(rotation+22.5)/45)%8]
	default:
		return '?'
	}
}

type canvas struct {
	scr  tcell.Screen
	vp   *Viewport
	hits map[[2]int]plot.ShapeID
}

func (c *canvas) set(x, y int, r rune, style tcell.Style, id plot.ShapeID) {
	if x < 0 || y < 0 || x >= c.vp.Width || y >= c.vp.Height {
		return
	}
	c.scr.SetContent(x, y, r, nil, style)
	if id != 0 {
		c.hits[[2]int{x, y}] = id
	}
}

func (c *canvas) text(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		c.set(x, y, r, style, 0)
		x++
	}
}

func (c *canvas) cell(p math.Point2LL) (int, int) {
	s := c.vp.GeoToScreen(p)
	return int(gomath.Floor(s[0])), int(gomath.Floor(s[1]))
}

// line rasterizes the segment between two screen positions.
func (c *canvas) line(p0, p1 [2]float64, r rune, style tcell.Style, dashed bool, id plot.ShapeID) {
	x0, y0 := int(gomath.Floor(p0[0])), int(gomath.Floor(p0[1]))
	x1, y1 := int(gomath.Floor(p1[0])), int(gomath.Floor(p1[1]))
	dx, dy := math.Abs(x1-x0), -math.Abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	// Lines that are entirely off screen are not worth walking.
	if max(x0, x1) < 0 || max(y0, y1) < 0 || min(x0, x1) >= c.vp.Width || min(y0, y1) >= c.vp.Height {
		return
	}
	e := dx + dy
	for i := 0; ; i++ {
		if !dashed || i%2 == 0 {
			c.set(x0, y0, r, style, id)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// Draw renders the grid and all shapes. hover is the cell under the
// pointer; hover labels of shapes next to it are shown.
func (s *Screen) Draw(scr tcell.Screen, vp *Viewport, hover [2]int) {
	c := &canvas{scr: scr, vp: vp, hits: make(map[[2]int]plot.ShapeID)}
	s.hits = c.hits

	drawGraticule(c)

	for _, id := range s.order {
		sh := s.shapes[id]
		switch sh.kind {
		case polylineShape:
			st := lineStyle(sh.style)
			for i := 1; i < len(sh.pts); i++ {
				c.line(vp.GeoToScreen(sh.pts[i-1]), vp.GeoToScreen(sh.pts[i]), '•', st,
					sh.style == plot.StyleDashed, id)
			}
		case circleShape:
			drawCircle(c, sh, id)
		}
	}
	// Markers go on top of lines.
	for _, id := range s.order {
		if sh := s.shapes[id]; sh.kind == markerShape {
			x, y := c.cell(sh.pts[0])
			c.set(x, y, iconRune(sh.icon, sh.rotation), styleMarker, id)
		}
	}
	for _, id := range s.order {
		sh := s.shapes[id]
		if sh.label == "" {
			continue
		}
		x, y := c.cell(sh.anchor())
		if sh.kind == circleShape {
			y -= int(sh.radius / vp.MetersPerCell(sh.pts[0][1]) * vp.CellSize[0] / vp.CellSize[1])
		}
		near := math.Abs(x-hover[0]) <= 1 && math.Abs(y-hover[1]) <= 1
		if sh.permanent || near {
			c.text(x-len([]rune(sh.label))/2, y-1, sh.label, styleLabel)
		}
	}
}

func drawCircle(c *canvas, sh *shape, id plot.ShapeID) {
	center := c.vp.GeoToScreen(sh.pts[0])
	rx := sh.radius / c.vp.MetersPerCell(sh.pts[0][1])
	ry := rx * c.vp.CellSize[0] / c.vp.CellSize[1]
	if rx < 0.5 {
		x, y := int(gomath.Floor(center[0])), int(gomath.Floor(center[1]))
		c.set(x, y, '∘', lineStyle(sh.style), id)
		return
	}
	n := max(16, int(8*rx))
	prev := [2]float64{center[0] + rx, center[1]}
	for i := 1; i <= n; i++ {
		sin, cos := gomath.Sincos(2 * gomath.Pi * float64(i) / float64(n))
		p := [2]float64{center[0] + rx*cos, center[1] + ry*sin}
		c.line(prev, p, '•', lineStyle(sh.style), false, id)
		prev = p
	}
}

func drawGraticule(c *canvas) {
	vp := c.vp
	b := vp.Bounds()
	iv := graticule.IntervalForZoom(vp.Zoom, vp.Center[1])

	for _, lng := range graticule.Lines(b.P0[0], b.P1[0], iv.Lon) {
		x, _ := c.cell(math.Point2LL{lng, vp.Center[1]})
		for y := 0; y < vp.Height; y++ {
			c.set(x, y, '│', styleGrid, 0)
		}
	}
	for _, lat := range graticule.Lines(b.P0[1], b.P1[1], iv.Lat) {
		_, y := c.cell(math.Point2LL{vp.Center[0], lat})
		for x := 0; x < vp.Width; x++ {
			r := '─'
			if cur, _, _, _ := c.scr.GetContent(x, y); cur == '│' {
				r = '┼'
			}
			c.set(x, y, r, styleGrid, 0)
		}
	}

	// Tick marks along the bottom and right edges.
	ticks := func(lo, hi, interval float64, cells int, draw func(v float64, major bool)) {
		major, minor := graticule.Divisions(vp.PixelsPerMinute(), interval)
		if (hi-lo)*minor > float64(cells)/2 {
			minor = major
		}
		for _, v := range graticule.Lines(lo, hi, 1/minor) {
			m := v * major
			draw(v, gomath.Abs(m-gomath.Round(m)) < 1e-6)
		}
	}
	ticks(b.P0[0], b.P1[0], iv.Lon, vp.Width, func(lng float64, major bool) {
		x, _ := c.cell(math.Point2LL{lng, vp.Center[1]})
		c.set(x, vp.Height-1, util.Select(major, '┴', '╵'), styleGrid, 0)
	})
	ticks(b.P0[1], b.P1[1], iv.Lat, vp.Height, func(lat float64, major bool) {
		_, y := c.cell(math.Point2LL{vp.Center[0], lat})
		c.set(vp.Width-1, y, util.Select(major, '┤', '╴'), styleGrid, 0)
	})

	// Labels along the top and left edges.
	for _, lng := range graticule.Lines(b.P0[0], b.P1[0], iv.Lon) {
		x, _ := c.cell(math.Point2LL{lng, vp.Center[1]})
		c.text(x+1, 0, graticule.Label(lng, false), styleGridLabel)
	}
	for _, lat := range graticule.Lines(b.P0[1], b.P1[1], iv.Lat) {
		_, y := c.cell(math.Point2LL{vp.Center[0], lat})
		c.text(0, y-1, graticule.Label(lat, true), styleGridLabel)
	}
}
