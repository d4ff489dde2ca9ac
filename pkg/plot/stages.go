// pkg/plot/stages.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package plot

import (
	gomath "math"

	"github.com/mmp/chartplot/pkg/magnetic"
	"github.com/mmp/chartplot/pkg/math"
)

// Snapping increments used while Shift is held.
const (
	snapPosition = 1.0 / 600 // 0.1 minute of arc
	snapBearing  = 1         // degree
	snapDistance = 0.1       // nautical miles
)

var nan = gomath.NaN()

///////////////////////////////////////////////////////////////////////////
// markStage

// markStage places a single marker that follows the pointer until a
// click. Ctrl constrains the marker to the meridian or parallel through
// the last unconstrained position.
type markStage struct {
	icon   Icon
	marker ShapeID
	pos    math.Point2LL
	free   math.Point2LL
	placed bool
	done   func(math.Point2LL)
}

func (m *markStage) begin(*Plotter, *session) {}

func (m *markStage) handle(p *Plotter, s *session, ev PointerEvent) {
	pt := ev.Pos
	if ev.Shift {
		pt = math.Point2LL{math.RoundTo(pt[0], snapPosition), math.RoundTo(pt[1], snapPosition)}
	}
	if ev.Ctrl && m.placed {
		if d := math.HeadingDifference(p.nav.Bearing(m.free, pt), 0); d < 45 || d > 135 {
			pt[0] = m.free[0]
		} else {
			pt[1] = m.free[1]
		}
	} else {
		m.free = pt
	}
	m.pos, m.placed = pt, true

	s.sh.marker(&m.marker, pt, m.icon, 0)
	s.sh.label(m.marker, FormatPosition(pt), true)

	if ev.Kind == PointerClick {
		m.done(pt)
	}
}

func (m *markStage) readout() Readout {
	return Readout{Pos: m.pos, Bearing: nan, Distance: nan}
}

///////////////////////////////////////////////////////////////////////////
// rangeStage

type rangeStage struct {
	xmark, circle ShapeID
	center        math.Point2LL
	centered      bool
	pos           math.Point2LL
	radius        float64
	done          func(center, edge math.Point2LL)
}

func (r *rangeStage) begin(*Plotter, *session) {}

func (r *rangeStage) handle(p *Plotter, s *session, ev PointerEvent) {
	r.pos = ev.Pos
	if !r.centered {
		s.sh.marker(&r.xmark, ev.Pos, IconCross, 0)
		if ev.Kind == PointerClick {
			r.center, r.centered = ev.Pos, true
			s.sh.circle(&r.circle, r.center, 0, StyleLocked)
		}
		return
	}

	dst := p.nav.Distance(r.center, ev.Pos)
	if ev.Shift {
		dst = math.RoundTo(dst, snapDistance)
	}
	r.radius = dst
	s.sh.circle(&r.circle, r.center, dst, StyleLocked)
	s.sh.label(r.circle, FormatDistance(dst), ev.Kind == PointerMove)

	if ev.Kind == PointerClick && dst > 0 {
		edge := ev.Pos
		if brg := p.nav.Bearing(r.center, ev.Pos); !gomath.IsNaN(brg) {
			edge = p.nav.Project(r.center, brg, dst)
		}
		r.done(r.center, edge)
	}
}

func (r *rangeStage) readout() Readout {
	if !r.centered {
		return Readout{Pos: r.pos, Bearing: nan, Distance: nan}
	}
	return Readout{Pos: r.pos, Bearing: nan, Distance: r.radius}
}

///////////////////////////////////////////////////////////////////////////
// bearingStage

// bearingStage draws a line of position: the first click sets the start
// and the second click sets the end. The label shows the bearing from
// the end back to the start, i.e. the bearing the object was sighted on.
type bearingStage struct {
	xmark, line, arrow ShapeID
	pts                [2]math.Point2LL
	started            bool
	brg, dst           float64
	done               func(from, to math.Point2LL)
}

func (b *bearingStage) begin(*Plotter, *session) {
	b.brg, b.dst = nan, nan
}

func (b *bearingStage) handle(p *Plotter, s *session, ev PointerEvent) {
	if !b.started {
		s.sh.marker(&b.xmark, ev.Pos, IconCross, 0)
		if ev.Kind == PointerClick {
			b.pts = [2]math.Point2LL{ev.Pos, ev.Pos}
			b.started = true
			s.sh.polyline(&b.line, b.pts[:], StyleProvisional)
			s.sh.marker(&b.arrow, ev.Pos, IconArrow, 0)
		}
		return
	}

	b.pts[1] = ev.Pos
	brg := p.nav.Bearing(b.pts[0], b.pts[1])
	if gomath.IsNaN(brg) {
		s.sh.polyline(&b.line, b.pts[:], StyleProvisional)
		b.brg, b.dst = nan, 0
		return
	}
	dst := p.nav.Distance(b.pts[0], b.pts[1])
	if ev.Shift {
		brg = math.NormalizeHeading(math.RoundTo(brg, snapBearing))
		b.pts[1] = p.nav.Project(b.pts[0], brg, dst)
	}
	b.brg, b.dst = brg, dst

	recip := math.OppositeHeading(brg)
	s.sh.polyline(&b.line, b.pts[:], StyleProvisional)
	s.sh.marker(&b.arrow, math.Mix(p.nav, b.pts[0], b.pts[1], 0.5), IconArrow, recip)
	s.sh.label(b.arrow, FormatDirection(recip, 1, p.dec), true)

	if ev.Kind == PointerClick {
		b.done(b.pts[0], b.pts[1])
	}
}

func (b *bearingStage) readout() Readout {
	return Readout{Pos: b.pts[1], Bearing: b.brg, Distance: b.dst}
}

///////////////////////////////////////////////////////////////////////////
// vectorStage

// vectorStage draws a vector from a start point using the two-step
// lock: after the start is set, the first click locks the bearing so
// that further pointer movement only changes the length along it, and
// the second click sets the length.
type vectorStage struct {
	sym      Icon
	invert   bool // label and orient the symbol with the reciprocal bearing
	end      Icon
	magnetic bool // show the magnetic bearing while it is being set

	// If seeded, the vector starts at from and the first click is the
	// bearing lock.
	seeded bool
	from   math.Point2LL

	xmark, line, symbol, marker ShapeID
	pts                         [2]math.Point2LL
	started, locked             bool
	brg, dst                    float64

	done func(from, to math.Point2LL)
}

func (v *vectorStage) begin(p *Plotter, s *session) {
	v.brg, v.dst = nan, nan
	if v.seeded {
		v.start(s, v.from)
	}
}

func (v *vectorStage) start(s *session, pt math.Point2LL) {
	v.pts = [2]math.Point2LL{pt, pt}
	v.started = true
	s.sh.polyline(&v.line, v.pts[:], StyleProvisional)
	s.sh.marker(&v.symbol, pt, v.sym, 0)
	s.sh.marker(&v.marker, pt, v.end, 0)
}

func (v *vectorStage) handle(p *Plotter, s *session, ev PointerEvent) {
	if !v.started {
		s.sh.marker(&v.xmark, ev.Pos, IconCross, 0)
		if ev.Kind == PointerClick {
			v.start(s, ev.Pos)
		}
		return
	}

	p0 := v.pts[0]
	v.pts[1] = ev.Pos
	var brg float64
	if v.locked {
		brg = v.brg
		v.pts[1] = p.nav.Project(p0, brg, p.nav.Distance(p0, ev.Pos))
	} else {
		brg = p.nav.Bearing(p0, v.pts[1])
	}
	if gomath.IsNaN(brg) {
		// The pointer is on the start point; there is no bearing to show
		// or lock.
		s.sh.polyline(&v.line, v.pts[:], StyleProvisional)
		v.dst = 0
		return
	}

	dst := p.nav.Distance(p0, v.pts[1])
	if ev.Shift {
		if !v.locked {
			brg = math.NormalizeHeading(math.RoundTo(brg, snapBearing))
		} else {
			dst = math.RoundTo(dst, snapDistance)
		}
		v.pts[1] = p.nav.Project(p0, brg, dst)
	}
	v.dst = dst
	if !v.locked {
		v.brg = brg
	}

	shown := brg
	if v.invert {
		shown = math.OppositeHeading(brg)
	}
	style := StyleProvisional
	if v.locked {
		style = StyleLocked
	}
	s.sh.polyline(&v.line, v.pts[:], style)
	s.sh.marker(&v.symbol, math.Mix(p.nav, p0, v.pts[1], 0.5), v.sym, shown)
	s.sh.marker(&v.marker, v.pts[1], v.end, endRotation(brg))
	if v.locked {
		s.sh.label(v.marker, FormatDistance(dst), true)
	} else {
		var dec *magnetic.Tracker
		if v.magnetic {
			dec = p.dec
		}
		s.sh.label(v.marker, FormatDirection(shown, 1, dec), true)
	}

	if ev.Kind == PointerClick {
		if !v.locked {
			v.locked = true
			s.sh.polyline(&v.line, v.pts[:], StyleLocked)
		} else if dst > 0 {
			v.done(p0, v.pts[1])
		}
	}
}

func (v *vectorStage) readout() Readout {
	if !v.started {
		return Readout{Bearing: nan, Distance: nan}
	}
	return Readout{Pos: v.pts[1], Bearing: v.brg, Distance: v.dst, Locked: v.locked}
}

///////////////////////////////////////////////////////////////////////////
// courseStage

// courseStage finds the course to steer given a tidal vector from start
// to tide: the pointer sets the destination, giving the ground track
// from start and the water track from the end of the tidal vector. The
// ground track uses the same two-step lock as vectorStage.
type courseStage struct {
	start, tide                    math.Point2LL
	gline, wline, gsym, wsym, xmrk ShapeID
	dest                           math.Point2LL
	locked                         bool
	cog, sog, ctw, stw             float64
	done                           func(dest math.Point2LL)
}

func (c *courseStage) begin(p *Plotter, s *session) {
	c.cog, c.sog, c.ctw, c.stw = nan, nan, nan, nan
	c.dest = c.tide
	s.sh.polyline(&c.gline, []math.Point2LL{c.start, c.tide}, StyleProvisional)
	s.sh.polyline(&c.wline, []math.Point2LL{c.tide, c.tide}, StyleMuted)
	s.sh.marker(&c.gsym, math.Mix(p.nav, c.start, c.tide, 0.5), IconGround, 0)
	s.sh.marker(&c.wsym, c.tide, IconWater, 0)
	s.sh.marker(&c.xmrk, c.tide, IconCross, 0)
}

func (c *courseStage) handle(p *Plotter, s *session, ev PointerEvent) {
	dest := ev.Pos
	var cog float64
	if c.locked {
		cog = c.cog
		dest = p.nav.Project(c.start, cog, p.nav.Distance(c.start, ev.Pos))
	} else {
		cog = p.nav.Bearing(c.start, dest)
	}
	if gomath.IsNaN(cog) {
		return
	}
	sog := p.nav.Distance(c.start, dest)
	if ev.Shift {
		if !c.locked {
			cog = math.NormalizeHeading(math.RoundTo(cog, snapBearing))
		} else {
			sog = math.RoundTo(sog, snapDistance)
		}
		dest = p.nav.Project(c.start, cog, sog)
	}
	ctw, stw := p.nav.Bearing(c.tide, dest), p.nav.Distance(c.tide, dest)
	c.dest, c.cog, c.sog, c.ctw, c.stw = dest, cog, sog, ctw, stw

	gstyle, wstyle := StyleProvisional, StyleMuted
	if c.locked {
		gstyle, wstyle = StyleMuted, StyleLocked
	}
	s.sh.polyline(&c.gline, []math.Point2LL{c.start, dest}, gstyle)
	s.sh.marker(&c.gsym, math.Mix(p.nav, c.start, dest, 0.5), IconGround, cog)
	s.sh.polyline(&c.wline, []math.Point2LL{c.tide, dest}, wstyle)
	s.sh.marker(&c.wsym, math.Mix(p.nav, c.tide, dest, 0.5), IconWater, ctw)
	s.sh.marker(&c.xmrk, dest, IconCross, 0)
	if c.locked {
		s.sh.label(c.xmrk, FormatDistance(stw), true)
	} else {
		s.sh.label(c.xmrk, FormatDirection(cog, 1, nil), true)
	}

	if ev.Kind == PointerClick {
		if !c.locked {
			c.locked = true
			s.sh.polyline(&c.gline, []math.Point2LL{c.start, dest}, StyleMuted)
			s.sh.polyline(&c.wline, []math.Point2LL{c.tide, dest}, StyleLocked)
		} else if sog > 0 && !gomath.IsNaN(ctw) {
			c.done(dest)
		}
	}
}

func (c *courseStage) readout() Readout {
	return Readout{Pos: c.dest, Bearing: c.cog, Distance: c.sog, Locked: c.locked}
}
