// pkg/plot/render.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package plot

import (
	gomath "math"

	"github.com/mmp/chartplot/pkg/magnetic"
	"github.com/mmp/chartplot/pkg/math"
)

// shapes tracks the surface objects drawn for one construction or one
// stage of a tool session so that they can be removed together.
type shapes struct {
	p   *Plotter
	ids []ShapeID
}

func (s *shapes) alloc(id *ShapeID) {
	if *id == 0 {
		s.p.lastShape++
		*id = s.p.lastShape
		s.ids = append(s.ids, *id)
	}
}

// The drawing methods allocate *id on first use and update the shape
// after that.
func (s *shapes) marker(id *ShapeID, pt math.Point2LL, icon Icon, rotation float64) {
	s.alloc(id)
	if gomath.IsNaN(rotation) {
		rotation = 0
	}
	s.p.surface.Marker(*id, pt, icon, math.NormalizeHeading(rotation))
}

func (s *shapes) polyline(id *ShapeID, pts []math.Point2LL, style Style) {
	s.alloc(id)
	s.p.surface.Polyline(*id, pts, style)
}

func (s *shapes) circle(id *ShapeID, center math.Point2LL, radiusNM float64, style Style) {
	s.alloc(id)
	s.p.surface.Circle(*id, center, radiusNM*math.MetersPerNM, style)
}

func (s *shapes) label(id ShapeID, text string, permanent bool) {
	if id != 0 {
		s.p.surface.Label(id, text, permanent)
	}
}

func (s *shapes) removeAll() {
	for _, id := range s.ids {
		s.p.surface.Remove(id)
	}
	s.ids = nil
}

// leg describes how a finalized line between two points is drawn: a
// symbol at its midpoint labeled with the direction (and optionally the
// distance) and an optional end marker labeled with its position.
type leg struct {
	sym    Icon
	invert bool // symbol and label show the reciprocal bearing
	dist   bool
	dec    *magnetic.Tracker // non-nil to show magnetic direction
	style  Style
	end    Icon
}

func (p *Plotter) drawLeg(sh *shapes, a, b math.Point2LL, l leg) {
	var line, sym, end ShapeID
	sh.polyline(&line, []math.Point2LL{a, b}, l.style)

	brg, dst := p.nav.Bearing(a, b), p.nav.Distance(a, b)
	if l.invert {
		brg = math.OppositeHeading(brg)
	}
	sh.marker(&sym, math.Mix(p.nav, a, b, 0.5), l.sym, brg)
	if l.dist {
		sh.label(sym, FormatDirectionDistance(brg, dst, l.dec), false)
	} else {
		sh.label(sym, FormatDirection(brg, 0, l.dec), false)
	}

	if l.end != "" {
		sh.marker(&end, b, l.end, endRotation(p.nav.Bearing(a, b)))
		sh.label(end, FormatPosition(b), false)
	}
}

// endRotation orients the end marker of a vector across the track.
func endRotation(brg float64) float64 {
	return max(brg, math.OppositeHeading(brg)) + 90
}

// render draws a finalized construction.
func (p *Plotter) render(c Construction, sh *shapes) {
	switch c := c.(type) {
	case Waypoint:
		p.drawMark(sh, c.P, IconWaypoint)

	case Fix:
		p.drawMark(sh, c.P, IconFix)

	case BearingLine:
		p.drawLeg(sh, c.From, c.To, leg{sym: IconArrow, invert: true, style: StyleFinal})

	case RangeCircle:
		var center, circle ShapeID
		sh.marker(&center, c.Center, IconCross, 0)
		sh.label(center, FormatPosition(c.Center), false)
		r := c.Radius(p.nav)
		sh.circle(&circle, c.Center, r, StyleFinal)
		sh.label(circle, FormatDistance(r), false)

	case BearingRange:
		p.drawLeg(sh, c.From, c.To, leg{sym: IconArrow, invert: true, dist: true, style: StyleFinal, end: IconFix})

	case DeadReckoning:
		p.drawLeg(sh, c.From, c.To, leg{sym: IconWater, dist: true, dec: p.dec, style: StyleFinal, end: IconDRPos})

	case EstimatedPosition:
		p.drawLeg(sh, c.DR, c.EP, leg{sym: IconTide, dist: true, style: StyleFinal, end: IconEstimated})
		p.drawLeg(sh, c.Start, c.EP, leg{sym: IconGround, dist: true, style: StyleFinal})

	case CourseToSteer:
		p.drawLeg(sh, c.Start, c.TideEnd, leg{sym: IconTide, dist: true, style: StyleFinal})
		p.drawLeg(sh, c.Start, c.Dest, leg{sym: IconGround, dist: true, style: StyleFinal})
		p.drawLeg(sh, c.TideEnd, c.Dest, leg{sym: IconWater, dist: true, dec: p.dec, style: StyleFinal})

	case RunningFix:
		p.drawLeg(sh, c.LineFrom, c.LineTo, leg{sym: IconArrow, invert: true, style: StyleDashed})
		p.drawLeg(sh, c.RunStart(p.nav), c.Run, leg{sym: IconGround, dist: true, style: StyleRun})
		from, to := c.Transferred(p.nav)
		p.drawLeg(sh, from, to, leg{sym: IconArrow, style: StyleFinal})

	default:
		panic("unhandled construction type")
	}
}

func (p *Plotter) drawMark(sh *shapes, pt math.Point2LL, icon Icon) {
	var id ShapeID
	sh.marker(&id, pt, icon, 0)
	sh.label(id, FormatPosition(pt), false)
}
