// pkg/tui/host.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package tui is a terminal chart plotter: it draws the plotting
// constructions over a latitude/longitude grid and feeds terminal mouse
// and keyboard input to a plot.Plotter.
package tui

import (
	"fmt"
	gomath "math"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/mmp/chartplot/pkg/log"
	"github.com/mmp/chartplot/pkg/magnetic"
	"github.com/mmp/chartplot/pkg/math"
	"github.com/mmp/chartplot/pkg/plot"
)

var toolKeys = map[rune]plot.Variant{
	'w': plot.VariantWaypoint,
	'f': plot.VariantFix,
	'b': plot.VariantBearingLine,
	'r': plot.VariantRangeCircle,
	'g': plot.VariantBearingRange,
	'u': plot.VariantRunningFix,
	'd': plot.VariantDeadReckoning,
	'e': plot.VariantEstimatedPosition,
	'c': plot.VariantCourseToSteer,
}

const helpText = "w b r g u f d e c:tools  tab:snap  esc:cancel  arrows:pan  +-:zoom  x:clear  s:save  q:quit"

// Host runs the interactive plotter on a tcell screen.
type Host struct {
	screen  tcell.Screen
	vp      *Viewport
	surface *Screen
	plotter *plot.Plotter
	dec     *magnetic.Tracker
	lg      *log.Logger

	// Save is called for the 's' key and may be nil.
	Save func() error

	cursor  [2]int
	buttons tcell.ButtonMask
	snap    bool
	message string
}

// NewHost returns a Host; surface must be the plot.Surface that p draws
// on.
func NewHost(scr tcell.Screen, vp *Viewport, surface *Screen, p *plot.Plotter, dec *magnetic.Tracker,
	lg *log.Logger) *Host {
	h := &Host{
		screen:  scr,
		vp:      vp,
		surface: surface,
		plotter: p,
		dec:     dec,
		lg:      lg,
		cursor:  [2]int{-1, -1},
	}
	h.viewChanged()
	return h
}

// Run draws and handles events until the user quits.
func (h *Host) Run() error {
	h.screen.EnableMouse(tcell.MouseMotionEvents)
	defer h.screen.DisableMouse()

	for {
		h.Draw()
		ev := h.screen.PollEvent()
		if ev == nil {
			// The screen was finalized.
			return nil
		}
		if h.HandleEvent(ev) {
			return nil
		}
	}
}

// HandleEvent processes a single tcell event and reports whether the
// user asked to quit.
func (h *Host) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		w, ht := ev.Size()
		h.vp.Resize(w, ht-1)
		h.screen.Sync()

	case *tcell.EventMouse:
		h.handleMouse(ev)

	case *tcell.EventKey:
		return h.handleKey(ev)
	}
	return false
}

func (h *Host) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	h.cursor = [2]int{x, y}
	if y >= h.vp.Height {
		// Status line.
		return
	}

	mods := ev.Modifiers()
	pe := plot.PointerEvent{
		Kind:  plot.PointerMove,
		Pos:   h.vp.CellCenter(x, y),
		Shift: mods&tcell.ModShift != 0 || h.snap,
		Ctrl:  mods&tcell.ModCtrl != 0,
	}

	btn := ev.Buttons()
	pressed := btn &^ h.buttons
	h.buttons = btn & (tcell.Button1 | tcell.Button2)

	switch {
	case pressed&tcell.Button1 != 0:
		pe.Kind = plot.PointerClick
	case pressed&tcell.Button2 != 0:
		pe.Kind = plot.PointerCancel
		if sid, ok := h.surface.HitTest(x, y); ok {
			pe.Target, _ = h.plotter.Owner(sid)
		}
	case btn&tcell.WheelUp != 0:
		h.zoom(1)
		return
	case btn&tcell.WheelDown != 0:
		h.zoom(-1)
		return
	}
	h.plotter.Handle(pe)
}

func (h *Host) handleKey(ev *tcell.EventKey) bool {
	h.message = ""
	switch ev.Key() {
	case tcell.KeyEscape:
		h.plotter.CancelActive()
	case tcell.KeyTab:
		h.snap = !h.snap
	case tcell.KeyLeft:
		h.pan(-8, 0)
	case tcell.KeyRight:
		h.pan(8, 0)
	case tcell.KeyUp:
		h.pan(0, -4)
	case tcell.KeyDown:
		h.pan(0, 4)
	case tcell.KeyCtrlC:
		return true

	case tcell.KeyRune:
		r := ev.Rune()
		if v, ok := toolKeys[r]; ok {
			if err := h.plotter.Activate(v); err != nil {
				h.lg.Errorf("%s: %v", v, err)
			}
			return false
		}
		switch r {
		case 'q':
			return true
		case '+', '=':
			h.zoom(1)
		case '-':
			h.zoom(-1)
		case 'x':
			h.plotter.Clear()
			h.message = "cleared"
		case 's':
			h.save()
		}
	}
	return false
}

func (h *Host) save() {
	if h.Save == nil {
		return
	}
	if err := h.Save(); err != nil {
		h.lg.Errorf("save: %v", err)
		h.message = "save failed: " + err.Error()
	} else {
		h.message = "saved"
	}
}

func (h *Host) pan(dx, dy float64) {
	h.vp.Pan(dx, dy)
	h.viewChanged()
}

func (h *Host) zoom(delta float64) {
	h.vp.ZoomBy(delta)
	h.viewChanged()
}

// viewChanged updates the declination for the new view center; magnetic
// labels are redrawn if it changed.
func (h *Host) viewChanged() {
	if h.dec == nil {
		return
	}
	old := h.dec.Value()
	if d := h.dec.Update(h.vp.Center); d != old {
		h.plotter.Redraw()
	}
}

// Draw renders the chart and status line and shows the screen.
func (h *Host) Draw() {
	h.screen.Clear()
	h.surface.Draw(h.screen, h.vp, h.cursor)

	_, height := h.screen.Size()
	drawStatus(h.screen, height-1, h.status())
	h.screen.Show()
}

func (h *Host) status() string {
	var sb strings.Builder
	if p, ok := h.Cursor(); ok {
		sb.WriteString(plot.FormatPosition(p))
	} else {
		sb.WriteString(plot.FormatPosition(h.vp.Center))
	}
	fmt.Fprintf(&sb, "  DEC %.1f°  z%.0f", h.dec.Value(), h.vp.Zoom)
	if h.snap {
		sb.WriteString("  SNAP")
	}

	if v, ok := h.plotter.Active(); ok {
		fmt.Fprintf(&sb, "  [%s", v)
		if r, _ := h.plotter.Readout(); !gomath.IsNaN(r.Bearing) || !gomath.IsNaN(r.Distance) {
			if !gomath.IsNaN(r.Bearing) {
				sb.WriteString(" " + plot.FormatDirection(r.Bearing, 1, h.dec) + " " + math.ShortCompass(r.Bearing))
			}
			if !gomath.IsNaN(r.Distance) {
				sb.WriteString(" " + plot.FormatDistance(r.Distance))
			}
			if r.Locked {
				sb.WriteString(" locked")
			}
		}
		sb.WriteString("]")
	}
	if h.message != "" {
		sb.WriteString("  " + h.message)
	} else {
		sb.WriteString("  " + helpText)
	}
	return sb.String()
}

func drawStatus(scr tcell.Screen, y int, text string) {
	width, _ := scr.Size()
	style := tcell.StyleDefault.Reverse(true)
	col := 0
	for _, r := range text {
		if col >= width {
			break
		}
		scr.SetContent(col, y, r, nil, style)
		col++
	}
	for ; col < width; col++ {
		scr.SetContent(col, y, ' ', nil, style)
	}
}

// Cursor returns the geographic position under the pointer, if it is
// over the chart.
func (h *Host) Cursor() (math.Point2LL, bool) {
	if h.cursor[0] < 0 || h.cursor[1] >= h.vp.Height {
		return math.Point2LL{}, false
	}
	return h.vp.CellCenter(h.cursor[0], h.cursor[1]), true
}
