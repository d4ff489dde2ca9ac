// pkg/magnetic/tracker.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package magnetic

import (
	"log/slog"
	"time"

	"github.com/mmp/chartplot/pkg/log"
	"github.com/mmp/chartplot/pkg/math"
)

// Tracker holds the declination for the current view. It is owned by
// whatever displays the chart and is updated as the view moves; magnetic
// bearings in labels are computed against its current value.
type Tracker struct {
	model  Model
	lg     *log.Logger
	now    func() time.Time
	center math.Point2LL
	value  float64
	valid  bool
}

func NewTracker(m Model, lg *log.Logger) *Tracker {
	return &Tracker{model: m, lg: lg, now: time.Now}
}

// Update recomputes the declination for a new view center. If the model
// fails, the previous value is kept and the error is logged.
func (t *Tracker) Update(center math.Point2LL) float64 {
	if t.valid && center == t.center {
		return t.value
	}

	d, err := Declination(t.model, center, t.now())
	if err != nil {
		t.lg.Warn("declination unavailable", slog.String("center", center.DDString()),
			slog.Any("error", err))
		return t.value
	}

	t.center, t.value, t.valid = center, d, true
	return d
}

// Value returns the most recently computed declination (0 before the
// first successful Update).
func (t *Tracker) Value() float64 {
	if t == nil {
		return 0
	}
	return t.value
}
