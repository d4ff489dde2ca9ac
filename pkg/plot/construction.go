// pkg/plot/construction.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package plot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mmp/chartplot/pkg/math"
)

var (
	ErrUnknownVariant = errors.New("unknown construction variant")
	ErrAnchorCount    = errors.New("wrong number of anchor points")
)

// Variant names one of the kinds of plotting construction.
type Variant string

const (
	VariantWaypoint          Variant = "waypoint"
	VariantFix               Variant = "fix"
	VariantBearingLine       Variant = "bearing"
	VariantRangeCircle       Variant = "range"
	VariantBearingRange      Variant = "bearingrange"
	VariantRunningFix        Variant = "runningfix"
	VariantDeadReckoning     Variant = "deadreckoning"
	VariantEstimatedPosition Variant = "estimatedposition"
	VariantCourseToSteer     Variant = "coursetosteer"
)

// Variants lists every variant in toolbar order.
var Variants = []Variant{
	VariantWaypoint, VariantBearingLine, VariantRangeCircle, VariantBearingRange,
	VariantRunningFix, VariantFix, VariantDeadReckoning, VariantEstimatedPosition,
	VariantCourseToSteer,
}

func ParseVariant(s string) (Variant, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, v := range Variants {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownVariant)
}

// AnchorCount returns the number of anchor points that define a
// construction of the variant.
func (v Variant) AnchorCount() int {
	switch v {
	case VariantWaypoint, VariantFix:
		return 1
	case VariantBearingLine, VariantRangeCircle, VariantBearingRange, VariantDeadReckoning:
		return 2
	case VariantRunningFix, VariantEstimatedPosition, VariantCourseToSteer:
		return 3
	default:
		return 0
	}
}

// Construction is a finalized plotting symbol. Only the anchor points are
// stored; bearings, distances and labels are derived from them.
type Construction interface {
	Variant() Variant
	Anchors() []math.Point2LL
}

type Waypoint struct {
	P math.Point2LL
}

type Fix struct {
	P math.Point2LL
}

// BearingLine is a line of position from From towards To; it is
// labeled with the bearing from To back to From.
type BearingLine struct {
	From, To math.Point2LL
}

// RangeCircle is centered at Center and passes through Edge.
type RangeCircle struct {
	Center, Edge math.Point2LL
}

// BearingRange is a fix taken by bearing and range from the object at
// From; To is the plotted position.
type BearingRange struct {
	From, To math.Point2LL
}

// RunningFix carries the position line LineFrom-LineTo along the run
// vector that starts at the line's midpoint and ends at Run.
type RunningFix struct {
	LineFrom, LineTo math.Point2LL
	Run              math.Point2LL
}

// DeadReckoning is a course and distance run from From, ending at To.
type DeadReckoning struct {
	From, To math.Point2LL
}

// EstimatedPosition applies a tidal vector from the dead reckoning
// position DR to reach EP; Start is where the dead reckoning leg began.
type EstimatedPosition struct {
	Start, DR, EP math.Point2LL
}

// CourseToSteer is the water track from TideEnd to Dest that, combined
// with the tidal vector Start-TideEnd, makes good the ground track
// Start-Dest.
type CourseToSteer struct {
	Start, TideEnd, Dest math.Point2LL
}

func (Waypoint) Variant() Variant          { return VariantWaypoint }
func (Fix) Variant() Variant               { return VariantFix }
func (BearingLine) Variant() Variant       { return VariantBearingLine }
func (RangeCircle) Variant() Variant       { return VariantRangeCircle }
func (BearingRange) Variant() Variant      { return VariantBearingRange }
func (RunningFix) Variant() Variant        { return VariantRunningFix }
func (DeadReckoning) Variant() Variant     { return VariantDeadReckoning }
func (EstimatedPosition) Variant() Variant { return VariantEstimatedPosition }
func (CourseToSteer) Variant() Variant     { return VariantCourseToSteer }

func (c Waypoint) Anchors() []math.Point2LL      { return []math.Point2LL{c.P} }
func (c Fix) Anchors() []math.Point2LL           { return []math.Point2LL{c.P} }
func (c BearingLine) Anchors() []math.Point2LL   { return []math.Point2LL{c.From, c.To} }
func (c RangeCircle) Anchors() []math.Point2LL   { return []math.Point2LL{c.Center, c.Edge} }
func (c BearingRange) Anchors() []math.Point2LL  { return []math.Point2LL{c.From, c.To} }
func (c RunningFix) Anchors() []math.Point2LL    { return []math.Point2LL{c.LineFrom, c.LineTo, c.Run} }
func (c DeadReckoning) Anchors() []math.Point2LL { return []math.Point2LL{c.From, c.To} }
func (c EstimatedPosition) Anchors() []math.Point2LL {
	return []math.Point2LL{c.Start, c.DR, c.EP}
}
func (c CourseToSteer) Anchors() []math.Point2LL {
	return []math.Point2LL{c.Start, c.TideEnd, c.Dest}
}

// Radius returns the circle's radius in nautical miles.
func (c RangeCircle) Radius(nav math.Navigator) float64 {
	return nav.Distance(c.Center, c.Edge)
}

// RunStart returns the start of the run vector, the midpoint of the
// position line.
func (c RunningFix) RunStart(nav math.Navigator) math.Point2LL {
	return math.Mix(nav, c.LineFrom, c.LineTo, 0.5)
}

// Transferred returns the position line moved along the run vector.
func (c RunningFix) Transferred(nav math.Navigator) (from, to math.Point2LL) {
	rs := c.RunStart(nav)
	if rs == c.Run {
		return c.LineFrom, c.LineTo
	}
	brg, dst := nav.Bearing(rs, c.Run), nav.Distance(rs, c.Run)
	return nav.Project(c.LineTo, brg, dst), nav.Project(c.LineFrom, brg, dst)
}

// Record is the persisted form of a construction.
type Record struct {
	Variant Variant         `msgpack:"variant" json:"variant"`
	Anchors []math.Point2LL `msgpack:"anchors" json:"anchors"`
}

func MakeRecord(c Construction) Record {
	return Record{Variant: c.Variant(), Anchors: c.Anchors()}
}

// Construction rebuilds the construction described by the record.
func (r Record) Construction() (Construction, error) {
	n := r.Variant.AnchorCount()
	if n == 0 {
		return nil, fmt.Errorf("%q: %w", r.Variant, ErrUnknownVariant)
	}
	if len(r.Anchors) != n {
		return nil, fmt.Errorf("%s: %d anchors, expected %d: %w", r.Variant, len(r.Anchors), n, ErrAnchorCount)
	}
	for _, p := range r.Anchors {
		if !p.Valid() {
			return nil, fmt.Errorf("%s: %w", r.Variant, math.ErrInvalidLatitude)
		}
	}

	a := r.Anchors
	switch r.Variant {
	case VariantWaypoint:
		return Waypoint{P: a[0]}, nil
	case VariantFix:
		return Fix{P: a[0]}, nil
	case VariantBearingLine:
		return BearingLine{From: a[0], To: a[1]}, nil
	case VariantRangeCircle:
		return RangeCircle{Center: a[0], Edge: a[1]}, nil
	case VariantBearingRange:
		return BearingRange{From: a[0], To: a[1]}, nil
	case VariantRunningFix:
		return RunningFix{LineFrom: a[0], LineTo: a[1], Run: a[2]}, nil
	case VariantDeadReckoning:
		return DeadReckoning{From: a[0], To: a[1]}, nil
	case VariantEstimatedPosition:
		return EstimatedPosition{Start: a[0], DR: a[1], EP: a[2]}, nil
	case VariantCourseToSteer:
		return CourseToSteer{Start: a[0], TideEnd: a[1], Dest: a[2]}, nil
	default:
		panic("unhandled variant " + r.Variant)
	}
}
