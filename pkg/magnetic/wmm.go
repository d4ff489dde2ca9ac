// pkg/magnetic/wmm.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package magnetic

import (
	"bufio"
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	gomath "math"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mmp/chartplot/pkg/math"
)

// Coefficients of the World Magnetic Model as distributed by NOAA NCEI.
// The model is in the public domain.
//
//go:embed wmm2025.cof
var wmmCoefficients []byte

var ErrBadCoefficients = errors.New("invalid WMM coefficient file")

const (
	wgs84A       = 6378137.0 // meters
	wgs84F       = 1 / 298.257223563
	wmmRefRadius = 6371200.0 // meters

	// A WMM release is valid for this many years after its epoch.
	wmmLifetime = 5
)

// WMM evaluates the World Magnetic Model's spherical harmonic expansion of
// the main geomagnetic field, including its secular variation.
type WMM struct {
	Name     string
	Epoch    float64 // decimal year
	Released string

	degree     int
	g, h       [][]float64 // [n][m], nT
	gdot, hdot [][]float64 // nT/year
}

// DefaultWMM returns the model built into the program.
var DefaultWMM = sync.OnceValues(func() (*WMM, error) {
	return ReadWMM(bytes.NewReader(wmmCoefficients))
})

// LoadWMM reads a WMM.COF coefficient file.
func LoadWMM(path string) (*WMM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	w, err := ReadWMM(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return w, nil
}

// ReadWMM parses coefficients in the WMM.COF format: a header line with
// the epoch and model name followed by lines of
//
//	n m g h gdot hdot
//
// terminated by a line of 9s or the end of the input.
func ReadWMM(r io.Reader) (*WMM, error) {
	type coef struct {
		n, m int
		v    [4]float64
	}

	w := &WMM{}
	var coefs []coef
	header := false
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		f := strings.Fields(sc.Text())
		if len(f) == 0 {
			continue
		}

		if !header {
			if len(f) < 2 {
				return nil, fmt.Errorf("line %d: expected epoch and model name: %w", line, ErrBadCoefficients)
			}
			epoch, err := strconv.ParseFloat(f[0], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: epoch %q: %w", line, f[0], ErrBadCoefficients)
			}
			w.Epoch, w.Name = epoch, f[1]
			if len(f) > 2 {
				w.Released = f[2]
			}
			header = true
			continue
		}

		if strings.HasPrefix(f[0], "9999") {
			break
		}
		if len(f) != 6 {
			return nil, fmt.Errorf("line %d: expected 6 fields, got %d: %w", line, len(f), ErrBadCoefficients)
		}

		var c coef
		var err error
		if c.n, err = strconv.Atoi(f[0]); err != nil {
			return nil, fmt.Errorf("line %d: degree %q: %w", line, f[0], ErrBadCoefficients)
		}
		if c.m, err = strconv.Atoi(f[1]); err != nil {
			return nil, fmt.Errorf("line %d: order %q: %w", line, f[1], ErrBadCoefficients)
		}
		if c.n < 1 || c.m < 0 || c.m > c.n {
			return nil, fmt.Errorf("line %d: invalid degree/order %d/%d: %w", line, c.n, c.m, ErrBadCoefficients)
		}
		for i, s := range f[2:] {
			if c.v[i], err = strconv.ParseFloat(s, 64); err != nil {
				return nil, fmt.Errorf("line %d: %q: %w", line, s, ErrBadCoefficients)
			}
		}
		coefs = append(coefs, c)
		w.degree = max(w.degree, c.n)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(coefs) == 0 {
		return nil, fmt.Errorf("no coefficients: %w", ErrBadCoefficients)
	}

	alloc := func() [][]float64 {
		s := make([][]float64, w.degree+1)
		for n := range s {
			s[n] = make([]float64, n+1)
		}
		return s
	}
	w.g, w.h, w.gdot, w.hdot = alloc(), alloc(), alloc(), alloc()
	for _, c := range coefs {
		w.g[c.n][c.m], w.h[c.n][c.m] = c.v[0], c.v[1]
		w.gdot[c.n][c.m], w.hdot[c.n][c.m] = c.v[2], c.v[3]
	}

	return w, nil
}

// Valid reports whether t is within the period the model was released
// for. Declination is still computed outside it, extrapolating the
// secular variation.
func (w *WMM) Valid(t time.Time) bool {
	y := decimalYear(t)
	return y >= w.Epoch && y < w.Epoch+wmmLifetime
}

func (w *WMM) Declination(p math.Point2LL, t time.Time) (float64, error) {
	x, y, _ := w.Field(p, 0, t)
	return math.Degrees(gomath.Atan2(y, x)), nil
}

// Field returns the north, east and down components in nT of the main
// field at p, height meters above the WGS84 ellipsoid.
func (w *WMM) Field(p math.Point2LL, height float64, t time.Time) (x, y, z float64) {
	p = p.Normalized()
	// The east component is undefined at the poles.
	lat := math.Radians(math.Clamp(p.Latitude(), -89.999, 89.999))
	lon := math.Radians(p.Longitude())

	// Geodetic to geocentric spherical coordinates.
	e2 := wgs84F * (2 - wgs84F)
	sinLat, cosLat := gomath.Sincos(lat)
	rc := wgs84A / gomath.Sqrt(1-e2*sinLat*sinLat)
	px := (rc + height) * cosLat
	pz := (rc*(1-e2) + height) * sinLat
	r := gomath.Hypot(px, pz)
	latc := gomath.Asin(pz / r)

	// Schmidt semi-normalized associated Legendre functions of the
	// geocentric colatitude and their derivatives with respect to it.
	cosT, sinT := gomath.Sin(latc), gomath.Cos(latc)
	P := make([][]float64, w.degree+1)
	dP := make([][]float64, w.degree+1)
	P[0], dP[0] = []float64{1}, []float64{0}
	for n := 1; n <= w.degree; n++ {
		P[n], dP[n] = make([]float64, n+1), make([]float64, n+1)
		for m := 0; m < n; m++ {
			a := float64(2*n - 1)
			b := gomath.Sqrt(float64((n-1)*(n-1) - m*m))
			c := gomath.Sqrt(float64(n*n - m*m))
			var p2, dp2 float64
			if n-2 >= m {
				p2, dp2 = P[n-2][m], dP[n-2][m]
			}
			P[n][m] = (a*cosT*P[n-1][m] - b*p2) / c
			dP[n][m] = (a*(cosT*dP[n-1][m]-sinT*P[n-1][m]) - b*dp2) / c
		}
		k := 1.0
		if n > 1 {
			k = gomath.Sqrt(float64(2*n-1) / float64(2*n))
		}
		P[n][n] = k * sinT * P[n-1][n-1]
		dP[n][n] = k * (cosT*P[n-1][n-1] + sinT*dP[n-1][n-1])
	}

	dt := decimalYear(t) - w.Epoch
	var xc, yc, zc float64
	for n := 1; n <= w.degree; n++ {
		ar := gomath.Pow(wmmRefRadius/r, float64(n+2))
		for m := 0; m <= n; m++ {
			g := w.g[n][m] + dt*w.gdot[n][m]
			h := w.h[n][m] + dt*w.hdot[n][m]
			sinM, cosM := gomath.Sincos(float64(m) * lon)

			xc += ar * (g*cosM + h*sinM) * dP[n][m]
			yc += ar * float64(m) * (g*sinM - h*cosM) * P[n][m]
			zc -= ar * float64(n+1) * (g*cosM + h*sinM) * P[n][m]
		}
	}
	yc /= sinT

	// Rotate back to the geodetic frame.
	sinPsi, cosPsi := gomath.Sincos(latc - lat)
	x = xc*cosPsi - zc*sinPsi
	y = yc
	z = xc*sinPsi + zc*cosPsi
	return
}
