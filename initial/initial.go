// Package initial builds cold start files for the model: velocity, tracer
// and free surface fields over the whole grid at one instant, plus the
// age tracer source map.
package initial

import (
	"fmt"
	"time"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"

	"github.com/oceanmesh/sunbc/boundary"
	"github.com/oceanmesh/sunbc/gis"
	"github.com/oceanmesh/sunbc/grid"
	"github.com/oceanmesh/sunbc/interp"
	"github.com/oceanmesh/sunbc/metocean"
)

// InitialCond holds the state fields at the start instant. The leading
// axis of every time varying array has length one so the arrays drop
// straight into the model's record layout.
type InitialCond struct {
	Grid *grid.Grid
	Time time.Time
	CS   gis.CoordSys

	Uc, Vc, T, S   *sparse.DenseArray // [1, Nk, Nc]
	Agec, Agealpha *sparse.DenseArray // [1, Nk, Nc]
	H              *sparse.DenseArray // [1, Nc]
	Agesource      *sparse.DenseArray // [Nk, Nc]
}

// New allocates zeroed state fields for g at the instant given as
// yyyymmdd.HHMMSS.
func New(g *grid.Grid, timestep string, cs gis.CoordSys) (ic *InitialCond, err error) {
	ic = &InitialCond{Grid: g, CS: cs}
	if ic.Time, err = boundary.ParseTime(timestep); err != nil {
		return nil, err
	}
	ic.initArrays()
	return
}

func (ic *InitialCond) initArrays() {
	var (
		nk = ic.Grid.Nkmax
		nc = ic.Grid.Nc()
	)
	ic.Uc = sparse.ZerosDense(1, nk, nc)
	ic.Vc = sparse.ZerosDense(1, nk, nc)
	ic.T = sparse.ZerosDense(1, nk, nc)
	ic.S = sparse.ZerosDense(1, nk, nc)
	ic.Agec = sparse.ZerosDense(1, nk, nc)
	ic.Agealpha = sparse.ZerosDense(1, nk, nc)
	ic.H = sparse.ZerosDense(1, nc)
	ic.Agesource = sparse.ZerosDense(nk, nc)
}

// RegionalOptions selects which regional model fields survive into the
// initial state. Temperature and salinity always do.
type RegionalOptions struct {
	SetUV  bool
	SetH   bool
	Interp interp.Options
}

// OceanOptions selects how a global model snapshot is applied. Velocity
// is never taken from it.
type OceanOptions struct {
	SetH         bool
	ConvertToUTM bool
	Interp       interp.Options
}

// FromRegional interpolates a regional model archive onto every grid
// cell at the start instant, then zeroes the fields that were not asked
// for.
func (ic *InitialCond) FromRegional(ri boundary.RegionalInterpolator, path string, opt RegionalOptions) error {
	fmt.Printf("Interpolating %s onto %d grid cells...\n", path, ic.Grid.Nc())
	h, temp, salt, u, v, err := ri.Interp(path, ic.Grid.Xv, ic.Grid.Yv, ic.Grid.Z,
		[]time.Time{ic.Time}, opt.Interp)
	if err != nil {
		return fmt.Errorf("regional initial condition from %s: %w", path, err)
	}
	set(ic.H, h)
	set(ic.T, temp)
	set(ic.S, salt)
	set(ic.Uc, u)
	set(ic.Vc, v)
	if !opt.SetUV {
		zero(ic.Uc)
		zero(ic.Vc)
	}
	if !opt.SetH {
		zero(ic.H)
	}
	return nil
}

// FromOceanModel overwrites temperature and salinity from a global model
// snapshot archive, and the free surface when requested.
func (ic *InitialCond) FromOceanModel(builder interp.Builder, path, product string, opt OceanOptions) error {
	prod, err := metocean.ProductByName(product)
	if err != nil {
		return err
	}
	ds, err := metocean.Open(path, prod)
	if err != nil {
		return err
	}
	defer ds.Close()

	x, y := ds.X, ds.Y
	if opt.ConvertToUTM {
		if x, y, err = gis.LL2UTM(ds.X, ds.Y, ic.CS.Zone, ic.CS.North); err != nil {
			return fmt.Errorf("projecting %s coordinates: %w", path, err)
		}
	}
	temp, err := ds.Temp()
	if err != nil {
		return err
	}
	salt, err := ds.Salt()
	if err != nil {
		return err
	}
	fmt.Printf("Interpolating %s onto %d grid cells...\n", path, ic.Grid.Nc())
	var (
		src = interp.Coordinates{X: x, Y: y, Z: ds.Z, T: secondsOf(ds.Time)}
		dst = interp.Coordinates{X: ic.Grid.Xv, Y: ic.Grid.Yv, Z: ic.Grid.Z,
			T: []float64{boundary.SecondsSince1990(ic.Time)}}
	)
	F, err := builder.New(src, dst, temp.Mask, opt.Interp)
	if err != nil {
		return err
	}
	ti, err := F.Interpolate(temp.Data)
	if err != nil {
		return err
	}
	set(ic.T, ti)
	si, err := F.Interpolate(salt.Data)
	if err != nil {
		return err
	}
	set(ic.S, si)
	if opt.SetH {
		ssh, err := ds.SSH()
		if err != nil {
			return err
		}
		src2 := src
		src2.Z = nil
		dst2 := dst
		dst2.Z = nil
		F2, err := builder.New(src2, dst2, ssh.Mask, opt.Interp)
		if err != nil {
			return err
		}
		hi, err := F2.Interpolate(ssh.Data)
		if err != nil {
			return err
		}
		set(ic.H, hi)
	}
	return nil
}

// SetAgeSourcePolygons flags every vertical layer of each cell whose
// centre falls inside one of the polygons as an age source. Polygons
// accumulate; nothing is cleared first.
func (ic *InitialCond) SetAgeSourcePolygons(polys []gis.PolyFeature) {
	var (
		nk = ic.Grid.Nkmax
		nc = ic.Grid.Nc()
	)
	for _, p := range polys {
		inside := gis.ClassifyPoints(ic.Grid.Xv, ic.Grid.Yv, p.Polygonal)
		for i, in := range inside {
			if !in {
				continue
			}
			for k := 0; k < nk; k++ {
				ic.Agesource.Elements[k*nc+i] = 1
			}
		}
	}
}

// SetAgeSource reads source regions from a polygon shapefile. A
// shapefile without polygons is an error.
func (ic *InitialCond) SetAgeSource(shpPath string) error {
	polys, err := gis.ReadPolygons(shpPath)
	if err != nil {
		return fmt.Errorf("reading age source polygons from %s: %w", shpPath, err)
	}
	if len(polys) == 0 {
		return fmt.Errorf("no polygons in shapefile %s", shpPath)
	}
	ic.SetAgeSourcePolygons(polys)
	return nil
}

// Describe prints a short report of the state fields.
func (ic *InitialCond) Describe() {
	fmt.Printf("InitialCond: time = %s, Nk = %d, Nc = %d\n",
		ic.Time.Format("2006-01-02 15:04:05"), ic.Grid.Nkmax, ic.Grid.Nc())
	for _, f := range []struct {
		name string
		arr  *sparse.DenseArray
	}{
		{"eta", ic.H},
		{"uc", ic.Uc},
		{"vc", ic.Vc},
		{"temp", ic.T},
		{"salt", ic.S},
		{"agec", ic.Agec},
		{"agealpha", ic.Agealpha},
		{"agesource", ic.Agesource},
	} {
		if len(f.arr.Elements) == 0 {
			continue
		}
		fmt.Printf("  %-10s min = %12.5g  max = %12.5g\n",
			f.name, floats.Min(f.arr.Elements), floats.Max(f.arr.Elements))
	}
}

// set copies src into dst; the shapes have to agree.
func set(dst, src *sparse.DenseArray) {
	if len(dst.Elements) != len(src.Elements) {
		panic(fmt.Errorf("array shape mismatch: %v vs %v", dst.Shape, src.Shape))
	}
	copy(dst.Elements, src.Elements)
}

func zero(a *sparse.DenseArray) {
	for i := range a.Elements {
		a.Elements[i] = 0
	}
}

func secondsOf(ts []time.Time) []float64 {
	out := make([]float64, len(ts))
	for i, t := range ts {
		out[i] = boundary.SecondsSince1990(t)
	}
	return out
}
