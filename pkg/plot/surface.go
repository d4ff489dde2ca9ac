// pkg/plot/surface.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package plot

import (
	"github.com/mmp/chartplot/pkg/math"
)

// ShapeID identifies one drawing object on a Surface. IDs are allocated
// by the Plotter and are never reused.
type ShapeID int

type Icon string

const (
	IconWaypoint  Icon = "wp"
	IconFix       Icon = "fix"
	IconCross     Icon = "x"
	IconArrow     Icon = "arr"
	IconWater     Icon = "a1" // single arrowhead: course through the water
	IconGround    Icon = "a2" // double arrowhead: course over the ground
	IconTide      Icon = "a3" // triple arrowhead: tidal stream
	IconDRPos     Icon = "plus"
	IconEstimated Icon = "ep"
)

type Style int

const (
	StyleFinal       Style = iota // black
	StyleProvisional              // red, while the pointer sets the bearing
	StyleLocked                   // green, bearing locked
	StyleMuted                    // light gray
	StyleDashed                   // position line of a running fix
	StyleRun                      // gray run vector
)

// Surface is the drawing target. Each method creates the shape with the
// given id if it does not exist and updates it otherwise.
type Surface interface {
	// Marker places an icon rotated clockwise by rotation degrees.
	Marker(id ShapeID, p math.Point2LL, icon Icon, rotation float64)
	Polyline(id ShapeID, pts []math.Point2LL, style Style)
	// Circle draws a circle with the radius given in meters.
	Circle(id ShapeID, center math.Point2LL, radius float64, style Style)
	// Label attaches text to an existing shape. Permanent labels are
	// always shown; others only when the pointer hovers over the shape.
	Label(id ShapeID, text string, permanent bool)
	// Remove deletes the shape and its label.
	Remove(id ShapeID)
}

type EventKind int

const (
	PointerMove EventKind = iota
	PointerClick
	PointerCancel // context menu or escape
)

func (k EventKind) String() string {
	switch k {
	case PointerMove:
		return "move"
	case PointerClick:
		return "click"
	case PointerCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

type PointerEvent struct {
	Kind  EventKind
	Pos   math.Point2LL
	Shift bool // snap
	Ctrl  bool // constrain to meridian or parallel
	// Target is the finalized construction under the pointer, if any; it
	// is only consulted for PointerCancel when no tool is active.
	Target ID
}

// Projector converts host screen coordinates to geographic positions.
type Projector interface {
	ScreenToGeo(p [2]float64) math.Point2LL
}

type TouchKind int

const (
	TouchStart TouchKind = iota
	TouchMove
	TouchEnd
)

type TouchEvent struct {
	Kind    TouchKind
	Touches [][2]float64 // changed touch points, screen coordinates
	Shift   bool
}

// DefaultTouchOffset places the plotted point above the finger.
var DefaultTouchOffset = [2]float64{0, -64}

// TouchTranslator turns touch input into pointer events: a touch move
// becomes a pointer move and a touch end becomes a click, both at a
// fixed screen offset from the touch point.
type TouchTranslator struct {
	Projector Projector
	Offset    [2]float64
}

func NewTouchTranslator(p Projector) *TouchTranslator {
	return &TouchTranslator{Projector: p, Offset: DefaultTouchOffset}
}

// Translate returns the pointer event for the touch event; ok is false
// for touch starts and for events without a touch point.
func (t *TouchTranslator) Translate(ev TouchEvent) (pe PointerEvent, ok bool) {
	if len(ev.Touches) == 0 {
		return
	}
	switch ev.Kind {
	case TouchMove:
		pe.Kind = PointerMove
	case TouchEnd:
		pe.Kind = PointerClick
	default:
		return
	}
	s := ev.Touches[0]
	pe.Pos = t.Projector.ScreenToGeo([2]float64{s[0] + t.Offset[0], s[1] + t.Offset[1]})
	pe.Shift = ev.Shift
	return pe, true
}
