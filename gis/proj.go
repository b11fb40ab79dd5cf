package gis

import (
	"fmt"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
)

const longlatProj = "+proj=longlat +datum=WGS84 +no_defs"

// CoordSys fixes the horizontal projection of a grid: a UTM zone and
// hemisphere.
type CoordSys struct {
	Zone  int
	North bool
}

// UTMProj4 spells out the transverse Mercator definition of a WGS84 UTM
// zone, avoiding any reliance on zone shorthand support downstream.
func UTMProj4(zone int, north bool) string {
	lon0 := zone*6 - 183
	y0 := 0
	if !north {
		y0 = 10000000
	}
	return fmt.Sprintf("+proj=tmerc +lat_0=0 +lon_0=%d +k=0.9996 +x_0=500000 +y_0=%d +datum=WGS84 +units=m +no_defs", lon0, y0)
}

// LL2UTM projects lon/lat pairs into the given UTM zone.
func LL2UTM(lon, lat []float64, zone int, north bool) (x, y []float64, err error) {
	trans, err := utmTransform(zone, north, false)
	if err != nil {
		return nil, nil, err
	}
	return transformPoints(lon, lat, trans)
}

// UTM2LL inverts LL2UTM.
func UTM2LL(x, y []float64, zone int, north bool) (lon, lat []float64, err error) {
	trans, err := utmTransform(zone, north, true)
	if err != nil {
		return nil, nil, err
	}
	return transformPoints(x, y, trans)
}

func utmTransform(zone int, north, inverse bool) (proj.Transformer, error) {
	llSR, err := proj.Parse(longlatProj)
	if err != nil {
		return nil, fmt.Errorf("parsing longlat projection: %w", err)
	}
	utmSR, err := proj.Parse(UTMProj4(zone, north))
	if err != nil {
		return nil, fmt.Errorf("parsing utm zone %d projection: %w", zone, err)
	}
	if inverse {
		return utmSR.NewTransform(llSR)
	}
	return llSR.NewTransform(utmSR)
}

func transformPoints(u, v []float64, trans proj.Transformer) (tu, tv []float64, err error) {
	tu, tv = make([]float64, len(u)), make([]float64, len(v))
	for i := range u {
		g, err := geom.Point{X: u[i], Y: v[i]}.Transform(trans)
		if err != nil {
			return nil, nil, fmt.Errorf("transforming point %d: %w", i, err)
		}
		p := g.(geom.Point)
		tu[i], tv[i] = p.X, p.Y
	}
	return
}
