// pkg/magnetic/magnetic_test.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package magnetic

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mmp/chartplot/pkg/math"
)

var testDate = time.Date(2025, 7, 2, 12, 0, 0, 0, time.UTC)

type countingModel struct {
	decl  float64
	calls int
	err   error
}

func (c *countingModel) Declination(math.Point2LL, time.Time) (float64, error) {
	c.calls++
	return c.decl, c.err
}

func TestOverride(t *testing.T) {
	model := Fixed(1.5)
	tests := []struct {
		name     string
		p        math.Point2LL
		expected float64
	}{
		{"inside box", math.LL(46.0, -6.0), -7},
		{"near corner inside", math.LL(45.61, -6.41), -7},
		{"north edge is exclusive", math.LL(46.5, -6.0), 1.5},
		{"south edge is exclusive", math.LL(45.6, -6.0), 1.5},
		{"west edge is exclusive", math.LL(46.0, -6.42), 1.5},
		{"east edge is exclusive", math.LL(46.0, -5.57), 1.5},
		{"elsewhere", math.LL(54.3, 10.1), 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Declination(model, tt.p, testDate)
			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if d != tt.expected {
				t.Errorf("Declination(%v) = %v, expected %v", tt.p, d, tt.expected)
			}
		})
	}

	// The override applies even if the model is broken.
	broken := &countingModel{err: errors.New("no model")}
	if d, err := Declination(broken, math.LL(46, -6), testDate); err != nil || d != -7 || broken.calls != 0 {
		t.Errorf("override consulted the model: %v %v %d", d, err, broken.calls)
	}
}

const testGrid = `# test grid
# epoch=2025.0
lat,lon,decl,rate
54,9,3.0,0.2
54,11,4.0,0.2
56,9,5.0,0.2
56,11,6.0,0.2
`

func TestGridModel(t *testing.T) {
	g, err := ReadGridModel(strings.NewReader(testGrid))
	if err != nil {
		t.Fatalf("ReadGridModel: %v", err)
	}
	if g.Epoch != 2025 {
		t.Errorf("epoch %v, expected 2025", g.Epoch)
	}

	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		p        math.Point2LL
		expected float64
	}{
		{math.LL(54, 9), 3},
		{math.LL(56, 11), 6},
		{math.LL(55, 10), 4.5},
		{math.LL(54, 10), 3.5},
		{math.LL(55.5, 9), 4.5},
	}
	for _, tt := range tests {
		d, err := g.Declination(tt.p, at)
		if err != nil {
			t.Errorf("%v: unexpected error %v", tt.p, err)
		} else if !math.ApproxEqual(d, tt.expected, 1e-9) {
			t.Errorf("%v: got %v, expected %v", tt.p, d, tt.expected)
		}
	}

	// Two years later the annual change has accumulated.
	later := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	if d, _ := g.Declination(math.LL(54, 9), later); !math.ApproxEqual(d, 3.4, 1e-9) {
		t.Errorf("secular variation: got %v, expected 3.4", d)
	}

	if _, err := g.Declination(math.LL(60, 10), at); !errors.Is(err, ErrOutsideGrid) {
		t.Errorf("expected ErrOutsideGrid, got %v", err)
	}
}

func TestGridModelErrors(t *testing.T) {
	for name, input := range map[string]string{
		"empty":      "# nothing\n",
		"incomplete": "54,9,1\n54,10,1\n55,9,1\n",
		"bad value":  "54,9,1\n54,x,1\n",
		"latitude":   "95,9,1\n",
		"fields":     "54,9\n",
		"duplicate":  "54,9,1\n54,9,2\n55,9,1\n55,10,1\n",
	} {
		if _, err := ReadGridModel(strings.NewReader(input)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
	if _, err := ReadGridModel(strings.NewReader("")); !errors.Is(err, ErrNoGridData) {
		t.Errorf("expected ErrNoGridData, got %v", err)
	}

	// Only the first record may be a header.
	corrupt := "lat,lon,decl\n5x,9,1\n54,9,1\n54,10,1\n55,9,1\n55,10,1\n"
	if _, err := ReadGridModel(strings.NewReader(corrupt)); err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected error for line 2, got %v", err)
	}

	rates := "54,9,-2,0.1\n54,10,-2,0.1\n55,9,-2,0.1\n55,10,-2,0.1\n"
	if _, err := ReadGridModel(strings.NewReader(rates)); !errors.Is(err, ErrNoEpoch) {
		t.Errorf("expected ErrNoEpoch, got %v", err)
	}
	g, err := ReadGridModel(strings.NewReader("# epoch=2026.0\n" + rates))
	if err != nil {
		t.Fatal(err)
	}
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if d, err := g.Declination(math.LL(54.5, 9.5), at); err != nil || !math.ApproxEqual(d, -2, 1e-9) {
		t.Errorf("got %v, %v; expected -2", d, err)
	}
}

func TestCached(t *testing.T) {
	m := &countingModel{decl: 2}
	c, err := NewCached(m, 16)
	if err != nil {
		t.Fatal(err)
	}

	for _, p := range []math.Point2LL{math.LL(54.31, 10.12), math.LL(54.32, 10.13), math.LL(54.29, 10.09)} {
		if d, err := c.Declination(p, testDate); err != nil || d != 2 {
			t.Errorf("%v: got %v, %v", p, d, err)
		}
	}
	if m.calls != 1 {
		t.Errorf("model evaluated %d times, expected once", m.calls)
	}

	// A different cell or a different day is a miss.
	c.Declination(math.LL(54.5, 10.12), testDate)
	c.Declination(math.LL(54.31, 10.12), testDate.AddDate(0, 0, 1))
	if m.calls != 3 || c.Len() != 3 {
		t.Errorf("calls %d, cached %d; expected 3 and 3", m.calls, c.Len())
	}

	// Errors aren't cached.
	m.err = errors.New("unavailable")
	if _, err := c.Declination(math.LL(0, 0), testDate); err == nil {
		t.Errorf("expected error")
	}
	if c.Len() != 3 {
		t.Errorf("error result was cached")
	}
}

func TestTracker(t *testing.T) {
	m := &countingModel{decl: 4}
	tr := NewTracker(m, nil)
	tr.now = func() time.Time { return testDate }

	if tr.Value() != 0 {
		t.Errorf("initial value %v", tr.Value())
	}
	if d := tr.Update(math.LL(54, 10)); d != 4 || tr.Value() != 4 {
		t.Errorf("Update gave %v / %v", d, tr.Value())
	}
	tr.Update(math.LL(54, 10))
	if m.calls != 1 {
		t.Errorf("unchanged center re-evaluated the model")
	}

	if d := tr.Update(math.LL(46, -6)); d != -7 {
		t.Errorf("override region gave %v", d)
	}

	// A failing model keeps the last good value.
	m.err = errors.New("unavailable")
	if d := tr.Update(math.LL(50, 0)); d != -7 {
		t.Errorf("failed update gave %v, expected previous -7", d)
	}

	var nilTracker *Tracker
	if nilTracker.Value() != 0 {
		t.Errorf("nil tracker should report zero")
	}
}
