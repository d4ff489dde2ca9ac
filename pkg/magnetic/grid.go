// pkg/magnetic/grid.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package magnetic

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/mmp/chartplot/pkg/math"
	"github.com/mmp/chartplot/pkg/util"
)

var (
	ErrNoGridData  = errors.New("declination grid has no data")
	ErrOutsideGrid = errors.New("position outside declination grid")
	ErrNoEpoch     = errors.New("declination grid has annual changes but no epoch")
)

// GridModel interpolates declination from a regular latitude/longitude
// grid, such as one exported from a WMM or IGRF calculator. Each sample
// may carry an annual rate of change that is applied relative to Epoch.
type GridModel struct {
	Epoch float64 // decimal year of the samples
	lats  []float64
	lons  []float64
	decl  []float64 // [lat][lon], row-major
	rate  []float64
}

type gridSample struct {
	lat, lon, decl, rate float64
}

// LoadGridModel reads a grid file; see ReadGridModel for the format.
func LoadGridModel(path string) (*GridModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, err := ReadGridModel(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// ReadGridModel parses CSV records of the form
//
//	latitude,longitude,declination[,annual change]
//
// Lines starting with '#' are comments, except that "# epoch=2025.0"
// sets the epoch of the samples; it is required if any annual change is
// given. The first record may be a header. The samples must cover every
// latitude/longitude combination of the grid.
func ReadGridModel(r io.Reader) (*GridModel, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	g := &GridModel{}
	var samples []gridSample
	haveEpoch, haveRates := false, false
	first := true
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		if len(rec) == 0 {
			continue
		}

		if c, ok := strings.CutPrefix(strings.TrimSpace(rec[0]), "#"); ok {
			if e, ok := strings.CutPrefix(strings.TrimSpace(c), "epoch="); ok {
				if g.Epoch, err = strconv.ParseFloat(strings.TrimSpace(e), 64); err != nil {
					return nil, fmt.Errorf("line %d: invalid epoch: %w", line, err)
				}
				haveEpoch = true
			}
			continue
		}
		if len(rec) < 3 || len(rec) > 4 {
			return nil, fmt.Errorf("line %d: expected 3 or 4 fields, got %d", line, len(rec))
		}

		var v [4]float64
		for i, s := range rec {
			if v[i], err = strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
				break
			}
		}
		header := first
		first = false
		if err != nil {
			if header {
				continue
			}
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if v[0] < -90 || v[0] > 90 {
			return nil, fmt.Errorf("line %d: %w", line, math.ErrInvalidLatitude)
		}
		samples = append(samples, gridSample{lat: v[0], lon: math.NormalizeLongitude(v[1]), decl: v[2], rate: v[3]})
		haveRates = haveRates || v[3] != 0
	}

	if len(samples) == 0 {
		return nil, ErrNoGridData
	}
	if haveRates && !haveEpoch {
		return nil, ErrNoEpoch
	}

	lats, lons := map[float64]int{}, map[float64]int{}
	for _, s := range samples {
		lats[s.lat] = 0
		lons[s.lon] = 0
	}
	g.lats = util.SortedMapKeys(lats)
	g.lons = util.SortedMapKeys(lons)
	for i, lat := range g.lats {
		lats[lat] = i
	}
	for i, lon := range g.lons {
		lons[lon] = i
	}

	n := len(g.lats) * len(g.lons)
	if len(samples) != n {
		return nil, fmt.Errorf("%d samples do not form a %d x %d grid", len(samples), len(g.lats), len(g.lons))
	}
	g.decl = make([]float64, n)
	g.rate = make([]float64, n)
	seen := make([]bool, n)
	for _, s := range samples {
		idx := lats[s.lat]*len(g.lons) + lons[s.lon]
		if seen[idx] {
			return nil, fmt.Errorf("duplicate sample at %v, %v", s.lat, s.lon)
		}
		seen[idx] = true
		g.decl[idx], g.rate[idx] = s.decl, s.rate
	}

	return g, nil
}

// Bounds returns the extent covered by the grid.
func (g *GridModel) Bounds() math.Extent2D {
	return math.Extent2D{
		P0: [2]float64{g.lons[0], g.lats[0]},
		P1: [2]float64{g.lons[len(g.lons)-1], g.lats[len(g.lats)-1]},
	}
}

func (g *GridModel) Declination(p math.Point2LL, t time.Time) (float64, error) {
	if len(g.decl) == 0 {
		return 0, ErrNoGridData
	}
	p = p.Normalized()
	if !g.Bounds().Inside(p) {
		return 0, fmt.Errorf("%s: %w", p.DDString(), ErrOutsideGrid)
	}

	// Returns the index of the cell containing v along with the
	// fractional offset in it.
	locate := func(axis []float64, v float64) (int, float64) {
		if len(axis) == 1 {
			return 0, 0
		}
		i, _ := slices.BinarySearch(axis, v)
		i = math.Clamp(i-1, 0, len(axis)-2)
		return i, (v - axis[i]) / (axis[i+1] - axis[i])
	}
	y, fy := locate(g.lats, p.Latitude())
	x, fx := locate(g.lons, p.Longitude())

	years := decimalYear(t) - g.Epoch
	sample := func(yi, xi int) float64 {
		yi = min(yi, len(g.lats)-1)
		xi = min(xi, len(g.lons)-1)
		idx := yi*len(g.lons) + xi
		return g.decl[idx] + years*g.rate[idx]
	}

	d0 := math.Lerp(fx, sample(y, x), sample(y, x+1))
	d1 := math.Lerp(fx, sample(y+1, x), sample(y+1, x+1))
	return math.Lerp(fy, d0, d1), nil
}

func decimalYear(t time.Time) float64 {
	start := time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	return float64(t.Year()) + float64(t.Sub(start))/float64(end.Sub(start))
}
