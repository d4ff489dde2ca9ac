// pkg/plot/plotter.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package plot implements the interactive chart plotting tools: pointer
// events are turned into waypoints, lines of position, range circles and
// vector constructions drawn on a Surface.
package plot

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmp/chartplot/pkg/log"
	"github.com/mmp/chartplot/pkg/magnetic"
	"github.com/mmp/chartplot/pkg/math"
	"github.com/mmp/chartplot/pkg/util"

	"github.com/brunoga/deep"
	"github.com/goforj/godump"
)

// ID identifies a finalized construction. The zero ID is never used.
type ID int

type placed struct {
	id     ID
	c      Construction
	rec    Record
	shapes shapes
}

// Placed is a finalized construction together with its ID.
type Placed struct {
	ID           ID
	Construction Construction
}

// Readout is the live bearing and distance of the active tool; the
// fields that do not apply to the current stage are NaN.
type Readout struct {
	Pos      math.Point2LL
	Bearing  float64
	Distance float64
	Locked   bool
}

// Plotter owns the finalized constructions and the active tool session.
// It is not safe for concurrent use; all events must be delivered from
// one goroutine in the order they occurred.
type Plotter struct {
	surface Surface
	nav     math.Navigator
	dec     *magnetic.Tracker
	lg      *log.Logger

	lastShape ShapeID
	lastID    ID
	placed    []*placed
	owners    map[ShapeID]ID

	session *session
}

type session struct {
	variant Variant
	stage   stage
	sh      shapes // provisional shapes of the current stage
	carried shapes // earlier stages that are part of the final construction
}

type stage interface {
	begin(p *Plotter, s *session)
	handle(p *Plotter, s *session, ev PointerEvent)
	readout() Readout
}

// NewPlotter returns a Plotter that draws on s. If nav is nil the rhumb
// line model is used; dec supplies the declination for magnetic labels
// and may be nil.
func NewPlotter(s Surface, nav math.Navigator, dec *magnetic.Tracker, lg *log.Logger) *Plotter {
	if nav == nil {
		nav = math.DefaultNavigator
	}
	return &Plotter{
		surface: s,
		nav:     nav,
		dec:     dec,
		lg:      lg,
		owners:  make(map[ShapeID]ID),
	}
}

func (p *Plotter) Navigator() math.Navigator { return p.nav }

// Activate starts a new construction of the given variant, cancelling
// any construction in progress.
func (p *Plotter) Activate(v Variant) error {
	if v.AnchorCount() == 0 {
		return fmt.Errorf("%q: %w", v, ErrUnknownVariant)
	}
	p.CancelActive()

	s := &session{variant: v}
	s.sh.p, s.carried.p = p, p
	p.session = s

	switch v {
	case VariantWaypoint:
		p.setStage(&markStage{icon: IconWaypoint, done: func(pt math.Point2LL) { p.commit(Waypoint{P: pt}) }})

	case VariantFix:
		p.setStage(&markStage{icon: IconFix, done: func(pt math.Point2LL) { p.commit(Fix{P: pt}) }})

	case VariantBearingLine:
		p.setStage(&bearingStage{done: func(a, b math.Point2LL) { p.commit(BearingLine{From: a, To: b}) }})

	case VariantRangeCircle:
		p.setStage(&rangeStage{done: func(c, e math.Point2LL) { p.commit(RangeCircle{Center: c, Edge: e}) }})

	case VariantBearingRange:
		p.setStage(&vectorStage{sym: IconArrow, invert: true, end: IconFix, magnetic: true,
			done: func(a, b math.Point2LL) { p.commit(BearingRange{From: a, To: b}) }})

	case VariantDeadReckoning:
		p.setStage(&vectorStage{sym: IconWater, end: IconDRPos, magnetic: true,
			done: func(a, b math.Point2LL) { p.commit(DeadReckoning{From: a, To: b}) }})

	case VariantEstimatedPosition:
		// The dead reckoning leg is kept as a construction of its own; the
		// tidal vector then starts at the DR position.
		p.setStage(&vectorStage{sym: IconWater, end: IconDRPos, magnetic: true,
			done: func(start, dr math.Point2LL) {
				p.place(DeadReckoning{From: start, To: dr})
				p.setStage(&vectorStage{sym: IconTide, end: IconEstimated, seeded: true, from: dr,
					done: func(_, ep math.Point2LL) {
						p.commit(EstimatedPosition{Start: start, DR: dr, EP: ep})
					}})
			}})

	case VariantCourseToSteer:
		p.setStage(&vectorStage{sym: IconTide, end: IconCross,
			done: func(start, tide math.Point2LL) {
				p.drawLeg(&s.carried, start, tide, leg{sym: IconTide, dist: true, style: StyleFinal})
				p.setStage(&courseStage{start: start, tide: tide,
					done: func(dest math.Point2LL) {
						p.commit(CourseToSteer{Start: start, TideEnd: tide, Dest: dest})
					}})
			}})

	case VariantRunningFix:
		p.setStage(&bearingStage{done: func(a, b math.Point2LL) {
			p.drawLeg(&s.carried, a, b, leg{sym: IconArrow, invert: true, style: StyleDashed})
			p.setStage(&vectorStage{sym: IconGround, end: IconCross, magnetic: true, seeded: true,
				from: math.Mix(p.nav, a, b, 0.5),
				done: func(_, run math.Point2LL) {
					p.commit(RunningFix{LineFrom: a, LineTo: b, Run: run})
				}})
		}})

	default:
		panic("unhandled variant " + v)
	}

	p.lg.Debug("activated tool", slog.String("variant", string(v)))
	return nil
}

// setStage replaces the provisional shapes of the active session's
// current stage with the next stage.
func (p *Plotter) setStage(st stage) {
	s := p.session
	s.sh.removeAll()
	s.stage = st
	st.begin(p, s)
}

// Active returns the variant being drawn, if any.
func (p *Plotter) Active() (Variant, bool) {
	if p.session == nil {
		return "", false
	}
	return p.session.variant, true
}

// Readout returns the live state of the active tool.
func (p *Plotter) Readout() (Readout, bool) {
	if p.session == nil {
		return Readout{}, false
	}
	return p.session.stage.readout(), true
}

// Handle processes a single pointer event. Events while no tool is
// active are ignored, except that a cancel event with a Target removes
// that construction.
func (p *Plotter) Handle(ev PointerEvent) {
	if p.session == nil {
		if ev.Kind == PointerCancel && ev.Target != 0 {
			p.Remove(ev.Target)
		}
		return
	}

	switch ev.Kind {
	case PointerCancel:
		p.CancelActive()
	case PointerMove, PointerClick:
		if !ev.Pos.Valid() {
			p.lg.Debugf("ignoring %s event at invalid position %v", ev.Kind, ev.Pos)
			return
		}
		p.session.stage.handle(p, p.session, ev)
	}
}

// CancelActive abandons the construction in progress, removing all of
// its provisional shapes. It is a no-op if no tool is active.
func (p *Plotter) CancelActive() {
	s := p.session
	if s == nil {
		return
	}
	s.sh.removeAll()
	s.carried.removeAll()
	p.session = nil
	p.lg.Debug("cancelled tool", slog.String("variant", string(s.variant)))
}

// commit finalizes the active session with the given construction.
func (p *Plotter) commit(c Construction) {
	s := p.session
	s.sh.removeAll()
	s.carried.removeAll()
	p.session = nil
	p.place(c)
}

func (p *Plotter) place(c Construction) ID {
	p.lastID++
	pl := &placed{id: p.lastID, c: c, rec: MakeRecord(c)}
	pl.shapes.p = p
	p.draw(pl)
	p.placed = append(p.placed, pl)

	p.lg.Debug("placed construction", slog.Int("id", int(pl.id)),
		slog.String("construction", godump.DumpStr(c)))
	return pl.id
}

// Owner returns the construction that a shape belongs to.
func (p *Plotter) Owner(id ShapeID) (ID, bool) {
	cid, ok := p.owners[id]
	return cid, ok
}

// Remove deletes a finalized construction and its shapes.
func (p *Plotter) Remove(id ID) bool {
	for i, pl := range p.placed {
		if pl.id == id {
			p.unplace(pl)
			p.placed = append(p.placed[:i], p.placed[i+1:]...)
			return true
		}
	}
	return false
}

func (p *Plotter) draw(pl *placed) {
	p.render(pl.c, &pl.shapes)
	for _, sid := range pl.shapes.ids {
		p.owners[sid] = pl.id
	}
}

func (p *Plotter) unplace(pl *placed) {
	for _, sid := range pl.shapes.ids {
		delete(p.owners, sid)
	}
	pl.shapes.removeAll()
}

// Clear cancels the active tool and removes every construction.
func (p *Plotter) Clear() {
	p.CancelActive()
	for _, pl := range p.placed {
		p.unplace(pl)
	}
	p.placed = nil
}

// Constructions returns the finalized constructions in the order they
// were placed.
func (p *Plotter) Constructions() []Placed {
	var c []Placed
	for _, pl := range p.placed {
		c = append(c, Placed{ID: pl.id, Construction: pl.c})
	}
	return c
}

// Redraw re-renders every finalized construction, e.g. after the
// declination used for magnetic labels has changed.
func (p *Plotter) Redraw() {
	for _, pl := range p.placed {
		p.unplace(pl)
		p.draw(pl)
	}
}

// Records returns the persisted form of the finalized constructions.
func (p *Plotter) Records() []Record {
	recs := util.MapSlice(p.placed, func(pl *placed) Record { return pl.rec })
	return deep.MustCopy(recs)
}

// Load places the constructions described by recs. Invalid records are
// skipped; the returned error describes all of them.
func (p *Plotter) Load(recs []Record) error {
	var errs []error
	for i, r := range deep.MustCopy(recs) {
		c, err := r.Construction()
		if err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		p.place(c)
	}
	if len(errs) > 0 {
		p.lg.Warnf("%d of %d records not loaded", len(errs), len(recs))
	}
	return errors.Join(errs...)
}
