package boundary

import (
	"fmt"
	"time"

	"github.com/ctessum/sparse"

	"github.com/oceanmesh/sunbc/gis"
	"github.com/oceanmesh/sunbc/interp"
	"github.com/oceanmesh/sunbc/metocean"
	"github.com/oceanmesh/sunbc/tide"
)

// RegionalInterpolator produces boundary series from a regional model
// archive (ROMS and the like). Implementations own the archive layout;
// the returned arrays are shaped [len(t), len(x)] for h and
// [len(t), len(z), len(x)] for the rest.
type RegionalInterpolator interface {
	Interp(path string, x, y, z []float64, t []time.Time,
		opt interp.Options) (h, temp, salt, u, v *sparse.DenseArray, err error)
}

// RegionalOptions selects which regional fields reach the boundary.
// Temperature and salinity always do.
type RegionalOptions struct {
	SetUV  bool
	SetH   bool
	Interp interp.Options
}

// OceanOptions selects which global model fields reach the boundary.
type OceanOptions struct {
	SetUV        bool
	SetH         bool
	ConvertToUTM bool
	Interp       interp.Options
}

// TideOptions controls tidal forcing. Constituents nil means every
// constituent the atlas carries.
type TideOptions struct {
	SetUV        bool
	Constituents []string
}

// FromRegional accumulates a regional model onto the type-3 boundary
// cells. Temperature and salinity always add in; free surface and
// velocity only when requested.
func (b *Boundary) FromRegional(ri RegionalInterpolator, path string, opt RegionalOptions) error {
	if b.Topo.N3 == 0 {
		fmt.Println("No type-3 boundary cells, skipping regional forcing")
		return nil
	}
	fmt.Printf("Interpolating %s onto %d type-3 boundary cells...\n", path, b.Topo.N3)
	h, temp, salt, u, v, err := ri.Interp(path, b.Topo.Xv, b.Topo.Yv, b.Topo.Z, b.Time.Times, opt.Interp)
	if err != nil {
		return fmt.Errorf("regional forcing from %s: %w", path, err)
	}
	accumulate(b.T, temp)
	accumulate(b.S, salt)
	if opt.SetH {
		accumulate(b.H, h)
	}
	if opt.SetUV {
		accumulate(b.Uc, u)
		accumulate(b.Vc, v)
	}
	return nil
}

// FromOceanModel interpolates a global model snapshot archive onto the
// boundary. Temperature and salinity overwrite whatever is present, at
// both the type-3 cells and the type-2 edges. Free surface adds into h
// when requested; velocity adds into the type-2 edge arrays when
// requested and never touches the type-3 cells.
func (b *Boundary) FromOceanModel(builder interp.Builder, path, product string, opt OceanOptions) error {
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
		if x, y, err = gis.LL2UTM(ds.X, ds.Y, b.CS.Zone, b.CS.North); err != nil {
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
	src := interp.Coordinates{X: x, Y: y, Z: ds.Z, T: timesToSeconds(ds.Time)}

	if b.Topo.N3 > 0 {
		fmt.Printf("Interpolating %s onto %d type-3 boundary cells...\n", path, b.Topo.N3)
		dst := interp.Coordinates{X: b.Topo.Xv, Y: b.Topo.Yv, Z: b.Topo.Z, T: b.Time.Seconds()}
		F, err := builder.New(src, dst, temp.Mask, opt.Interp)
		if err != nil {
			return err
		}
		ti, err := F.Interpolate(temp.Data)
		if err != nil {
			return err
		}
		replace(b.T, ti)
		si, err := F.Interpolate(salt.Data)
		if err != nil {
			return err
		}
		replace(b.S, si)
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
			accumulate(b.H, hi)
		}
	}

	if b.Topo.N2 > 0 {
		fmt.Printf("Interpolating %s onto %d type-2 boundary edges...\n", path, b.Topo.N2)
		dst := interp.Coordinates{X: b.Topo.Xe, Y: b.Topo.Ye, Z: b.Topo.Z, T: b.Time.Seconds()}
		F, err := builder.New(src, dst, temp.Mask, opt.Interp)
		if err != nil {
			return err
		}
		ti, err := F.Interpolate(temp.Data)
		if err != nil {
			return err
		}
		replace(b.BoundaryT, ti)
		si, err := F.Interpolate(salt.Data)
		if err != nil {
			return err
		}
		replace(b.BoundaryS, si)
		if opt.SetUV {
			u, err := ds.U()
			if err != nil {
				return err
			}
			v, err := ds.V()
			if err != nil {
				return err
			}
			ui, err := F.Interpolate(u.Data)
			if err != nil {
				return err
			}
			accumulate(b.BoundaryU, ui)
			vi, err := F.Interpolate(v.Data)
			if err != nil {
				return err
			}
			accumulate(b.BoundaryV, vi)
		}
	}
	return nil
}

// FromTides accumulates harmonic tidal predictions onto the boundary.
// Elevation adds into h at the type-3 cells, velocity into uc and vc
// when requested. At the type-2 edges velocity always adds into
// boundary_u and boundary_v, replicated over the layers, while
// boundary_h stays untouched.
func (b *Boundary) FromTides(p tide.Predictor, atlas string, opt TideOptions) error {
	if b.Topo.N3 > 0 {
		fmt.Printf("Predicting tides from %s at %d type-3 boundary cells...\n", atlas, b.Topo.N3)
		lon, lat, err := gis.UTM2LL(b.Topo.Xv, b.Topo.Yv, b.CS.Zone, b.CS.North)
		if err != nil {
			return err
		}
		depths := b.Dv
		if depths == nil {
			fmt.Println("Notice: boundary depths not set, velocities use the atlas bathymetry")
		}
		h, u, v, err := p.Predict(atlas, lon, lat, b.Time.Times, depths, opt.Constituents)
		if err != nil {
			return fmt.Errorf("tidal forcing from %s: %w", atlas, err)
		}
		accumulate(b.H, h)
		if opt.SetUV {
			addReplicated(b.Uc, u)
			addReplicated(b.Vc, v)
		}
	}
	if b.Topo.N2 > 0 {
		fmt.Printf("Predicting tides from %s at %d type-2 boundary edges...\n", atlas, b.Topo.N2)
		lon, lat, err := gis.UTM2LL(b.Topo.Xe, b.Topo.Ye, b.CS.Zone, b.CS.North)
		if err != nil {
			return err
		}
		depths := b.De
		if depths == nil {
			fmt.Println("Notice: boundary depths not set, velocities use the atlas bathymetry")
		}
		_, u, v, err := p.Predict(atlas, lon, lat, b.Time.Times, depths, opt.Constituents)
		if err != nil {
			return fmt.Errorf("tidal forcing from %s: %w", atlas, err)
		}
		addReplicated(b.BoundaryU, u)
		addReplicated(b.BoundaryV, v)
	}
	return nil
}

// FromTidesCorrected accumulates station corrected tidal predictions
// onto the type-3 boundary cells: the scaled harmonic elevation plus the
// station residual, applied uniformly to every cell.
func (b *Boundary) FromTidesCorrected(p tide.CorrectedPredictor, atlas, stationDB, stationID string, opt TideOptions) error {
	if b.Topo.N3 == 0 {
		fmt.Println("No type-3 boundary cells, skipping corrected tidal forcing")
		return nil
	}
	fmt.Printf("Predicting corrected tides from %s at %d type-3 boundary cells...\n", atlas, b.Topo.N3)
	lon, lat, err := gis.UTM2LL(b.Topo.Xv, b.Topo.Yv, b.CS.Zone, b.CS.North)
	if err != nil {
		return err
	}
	depths := b.Dv
	if depths == nil {
		fmt.Println("Notice: boundary depths not set, velocities use the atlas bathymetry")
	}
	h, u, v, residual, err := p.PredictCorrected(atlas, lon, lat, b.Time.Times, stationDB, stationID, depths, opt.Constituents)
	if err != nil {
		return fmt.Errorf("corrected tidal forcing from %s: %w", atlas, err)
	}
	accumulate(b.H, h)
	if len(residual) != b.Time.Len() {
		return fmt.Errorf("residual has %d steps, time axis has %d", len(residual), b.Time.Len())
	}
	for t := 0; t < b.Time.Len(); t++ {
		for j := 0; j < b.Topo.N3; j++ {
			b.H.Elements[t*b.Topo.N3+j] += residual[t]
		}
	}
	if opt.SetUV {
		addReplicated(b.Uc, u)
		addReplicated(b.Vc, v)
	}
	return nil
}

func timesToSeconds(ts []time.Time) []float64 {
	out := make([]float64, len(ts))
	for i, t := range ts {
		out[i] = SecondsSince1990(t)
	}
	return out
}
