package gis

import "github.com/ctessum/geom"

// ClassifyPoints reports, for each x, y pair, whether the point lies
// strictly inside poly. Both the marker editor and the age source tagger
// share this test so a polygon selects edges and cells identically.
func ClassifyPoints(x, y []float64, poly geom.Polygonal) (inside []bool) {
	inside = make([]bool, len(x))
	for i := range x {
		inside[i] = geom.Point{X: x[i], Y: y[i]}.Within(poly) == geom.Inside
	}
	return
}
