// Package interp defines the interpolation options shared by every data
// source and the contract a four dimensional interpolation kernel has to
// satisfy. The numeric kernels themselves live outside this repository.
package interp

import (
	"fmt"
	"strings"

	"github.com/ctessum/sparse"
)

// Method selects the scattered-data interpolation scheme.
type Method uint8

const (
	Nearest Method = iota
	IDW
	Kriging
	GridData
)

// MethodNameMap maps the configuration file spellings to Methods. Keys are
// lowercase for case-insensitive matching.
var MethodNameMap = map[string]Method{
	"nn":       Nearest,
	"nearest":  Nearest,
	"idw":      IDW,
	"kriging":  Kriging,
	"griddata": GridData,
}

func (m Method) String() string {
	names := map[Method]string{
		Nearest:  "nn",
		IDW:      "idw",
		Kriging:  "kriging",
		GridData: "griddata",
	}
	if name, ok := names[m]; ok {
		return name
	}
	return "unknown"
}

// ParseMethod converts a method name to a Method. Matching is
// case-insensitive and trims whitespace; unknown names are an error rather
// than a fallback.
func ParseMethod(name string) (Method, error) {
	if m, ok := MethodNameMap[strings.ToLower(strings.TrimSpace(name))]; ok {
		return m, nil
	}
	return Nearest, fmt.Errorf("unknown interpolation method %q", name)
}

// VariogramModel selects the kriging variogram shape.
type VariogramModel uint8

const (
	Spherical VariogramModel = iota
	Gaussian
)

func (v VariogramModel) String() string {
	if v == Gaussian {
		return "gaussian"
	}
	return "spherical"
}

func ParseVariogramModel(name string) (VariogramModel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "spherical":
		return Spherical, nil
	case "gaussian":
		return Gaussian, nil
	}
	return Spherical, fmt.Errorf("unknown variogram model %q", name)
}

// Options carries every tunable an interpolation kernel may consult. The
// value is immutable from the kernel's point of view: callers construct one
// and pass it by value with each build.
type Options struct {
	Method   Method
	NNear    int     // neighbor count for nn/idw/kriging
	Power    float64 // idw weighting exponent
	VarModel VariogramModel
	Nugget   float64
	Sill     float64
	Range    float64
}

// DefaultOptions returns the standard inverse-distance setup.
func DefaultOptions() Options {
	return Options{
		Method:   IDW,
		NNear:    4,
		Power:    1.0,
		VarModel: Spherical,
		Nugget:   0.1,
		Sill:     0.8,
		Range:    10000.0,
	}
}

func (o Options) Validate() error {
	if o.Method > GridData {
		return fmt.Errorf("unknown interpolation method %d", o.Method)
	}
	if o.Method != GridData && o.NNear < 1 {
		return fmt.Errorf("interpolation needs NNear >= 1, have %d", o.NNear)
	}
	if o.Method == IDW && o.Power <= 0 {
		return fmt.Errorf("idw power must be positive, have %g", o.Power)
	}
	if o.Method == Kriging {
		if o.Sill <= 0 || o.Range <= 0 {
			return fmt.Errorf("kriging needs positive sill and range, have %g, %g", o.Sill, o.Range)
		}
		if o.Nugget < 0 {
			return fmt.Errorf("kriging nugget must not be negative, have %g", o.Nugget)
		}
	}
	return nil
}

// Coordinates locates a set of sample points: one X, Y pair per point, a
// shared layer depth axis Z (nil for depth independent data) and a shared
// time axis T in seconds since the 1990 epoch.
type Coordinates struct {
	X, Y []float64
	Z    []float64
	T    []float64
}

// NPoints returns the horizontal sample count.
func (c Coordinates) NPoints() int { return len(c.X) }

// Interpolator4D maps data sampled on the source coordinates it was built
// with onto the destination coordinates. The input array is shaped
// [len(src.T), len(src.Z), src.NPoints()] and the result
// [len(dst.T), len(dst.Z), dst.NPoints()]; the layer axis is dropped from
// both when the respective Z is nil.
type Interpolator4D interface {
	Interpolate(data *sparse.DenseArray) (*sparse.DenseArray, error)
}

// Builder constructs interpolators. mask flags source samples to exclude
// (land or fill values), ordered layer-major to match the data layout; nil
// means every sample is valid.
type Builder interface {
	New(src, dst Coordinates, mask []bool, opt Options) (Interpolator4D, error)
}
