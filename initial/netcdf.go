package initial

import (
	"fmt"
	"os"

	"github.com/ctessum/cdf"

	"github.com/oceanmesh/sunbc/boundary"
)

// WriteNC writes the initial condition to path in the NetCDF layout the
// model reads: the grid geometry, then the state fields under a record
// dimension holding the single start instant. A nil dv writes zero cell
// depths.
func (ic *InitialCond) WriteNC(path string, dv []float64) error {
	var (
		g  = ic.Grid
		nc = g.Nc()
		nk = g.Nkmax
	)
	if dv == nil {
		dv = make([]float64, nc)
	}
	if len(dv) != nc {
		return fmt.Errorf("depth array has %d values, grid has %d cells", len(dv), nc)
	}

	h := cdf.NewHeader(
		[]string{"time", "Nk", "Nc", "Np", "numsides"},
		[]int{0, nk, nc, g.Np(), 3})

	define := func(name string, dims []string, witness interface{}, longName, units, coords string) {
		h.AddVariable(name, dims, witness)
		h.AddAttribute(name, "long_name", longName)
		h.AddAttribute(name, "units", units)
		if coords != "" {
			h.AddAttribute(name, "coordinates", coords)
		}
	}
	define("xp", []string{"Np"}, []float64{0},
		"Easting of grid vertex", "metres", "")
	define("yp", []string{"Np"}, []float64{0},
		"Northing of grid vertex", "metres", "")
	define("xv", []string{"Nc"}, []float64{0},
		"Easting of cell Voronoi point", "metres", "")
	define("yv", []string{"Nc"}, []float64{0},
		"Northing of cell Voronoi point", "metres", "")
	define("cells", []string{"Nc", "numsides"}, []int32{0},
		"Vertex indices of each cell", "", "")
	define("nfaces", []string{"Nc"}, []int32{0},
		"Number of faces of each cell", "", "")
	define("Nk", []string{"Nc"}, []int32{0},
		"Number of vertical layers at each cell", "", "")
	define("dv", []string{"Nc"}, []float64{0},
		"Depth at cell Voronoi point", "metres", "")
	define("dz", []string{"Nk"}, []float64{0},
		"Vertical layer thickness", "metres", "")
	define("z_r", []string{"Nk"}, []float64{0},
		"Vertical grid mid-layer depth", "metres", "")
	define("time", []string{"time"}, []float64{0},
		"Time", "seconds since 1990-01-01 00:00:00", "")
	define("eta", []string{"time", "Nc"}, []float64{0},
		"Sea surface elevation", "metres", "time yv xv")
	define("uc", []string{"time", "Nk", "Nc"}, []float64{0},
		"Eastward water velocity component", "metre second-1", "time z_r yv xv")
	define("vc", []string{"time", "Nk", "Nc"}, []float64{0},
		"Northward water velocity component", "metre second-1", "time z_r yv xv")
	define("salt", []string{"time", "Nk", "Nc"}, []float64{0},
		"Salinity", "ppt", "time z_r yv xv")
	define("temp", []string{"time", "Nk", "Nc"}, []float64{0},
		"Water temperature", "degrees C", "time z_r yv xv")
	define("agec", []string{"time", "Nk", "Nc"}, []float64{0},
		"Age concentration", "", "")
	define("agealpha", []string{"time", "Nk", "Nc"}, []float64{0},
		"Age alpha parameter", "seconds", "time z_r yv xv")
	define("agesource", []string{"Nk", "Nc"}, []float64{0},
		"Age source grid cell (>0 = source)", "", "z_r yv xv")
	h.Define()

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	f, err := cdf.Create(file, h)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	write := func(name string, end []int, data interface{}) {
		if err != nil {
			return
		}
		w := f.Writer(name, make([]int, len(end)), end)
		if _, werr := w.Write(data); werr != nil {
			err = fmt.Errorf("writing %s: %w", name, werr)
		}
	}
	write("xp", []int{g.Np()}, g.Xp)
	write("yp", []int{g.Np()}, g.Yp)
	write("xv", []int{nc}, g.Xv)
	write("yv", []int{nc}, g.Yv)
	write("cells", []int{nc, 3}, cellCorners(g.Cells))
	write("nfaces", []int{nc}, int32Fill(nc, 3))
	write("Nk", []int{nc}, int32Fill(nc, int32(nk)))
	write("dv", []int{nc}, dv)
	write("dz", []int{nk}, g.Dz)
	write("z_r", []int{nk}, g.Z)
	write("time", []int{1}, []float64{boundary.SecondsSince1990(ic.Time)})
	write("eta", []int{1, nc}, ic.H.Elements)
	write("uc", []int{1, nk, nc}, ic.Uc.Elements)
	write("vc", []int{1, nk, nc}, ic.Vc.Elements)
	write("salt", []int{1, nk, nc}, ic.S.Elements)
	write("temp", []int{1, nk, nc}, ic.T.Elements)
	write("agec", []int{1, nk, nc}, ic.Agec.Elements)
	write("agealpha", []int{1, nk, nc}, ic.Agealpha.Elements)
	write("agesource", []int{nk, nc}, ic.Agesource.Elements)
	if err != nil {
		return err
	}
	if err = cdf.UpdateNumRecs(file); err != nil {
		return err
	}
	fmt.Printf("Initial condition file written to: %s\n", path)
	return nil
}

func cellCorners(cells [][3]int) []int32 {
	out := make([]int32, 0, 3*len(cells))
	for _, c := range cells {
		out = append(out, int32(c[0]), int32(c[1]), int32(c[2]))
	}
	return out
}

func int32Fill(n int, v int32) []int32 {
	out := make([]int32, n)
	for i := range out {
		out[i] = v
	}
	return out
}
