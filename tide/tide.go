// Package tide declares the interfaces a tidal harmonic predictor has to
// satisfy. Implementations wrap an external constituent atlas reader (OTIS
// and friends); this repository only consumes their output.
package tide

import (
	"time"

	"github.com/ctessum/sparse"
)

// Predictor evaluates tidal elevation and depth-averaged velocity at a set
// of lon/lat points over a series of instants. The returned arrays are
// shaped [len(t), len(lon)]. depths supplies the water depth at each point
// for the velocity conversion; nil lets the atlas bathymetry stand in.
// constituents narrows the harmonic set, nil means every constituent the
// atlas carries.
type Predictor interface {
	Predict(atlas string, lon, lat []float64, t []time.Time,
		depths []float64, constituents []string) (h, u, v *sparse.DenseArray, err error)
}

// CorrectedPredictor additionally scales amplitude and phase against an
// observed station record and returns the station's low-frequency residual
// water level, one value per instant.
type CorrectedPredictor interface {
	PredictCorrected(atlas string, lon, lat []float64, t []time.Time,
		stationDB, stationID string, depths []float64,
		constituents []string) (h, u, v *sparse.DenseArray, residual []float64, err error)
}
