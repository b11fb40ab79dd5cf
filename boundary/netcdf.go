package boundary

import (
	"fmt"
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"

	"github.com/oceanmesh/sunbc/metocean"
	"github.com/oceanmesh/sunbc/utils"
)

// WriteNC writes the boundary forcing to path in the NetCDF layout the
// model reads: Nt is the record dimension, and the Ntype2, Ntype3 and
// Nseg dimensions only exist when the grid has boundaries of that class.
func (b *Boundary) WriteNC(path string) error {
	var (
		tp   = b.Topo
		nt   = b.Time.Len()
		dims = []string{"Nt", "Nk"}
		lens = []int{0, tp.Nk}
	)
	if tp.N2 > 0 {
		dims = append(dims, "Ntype2")
		lens = append(lens, tp.N2)
	}
	if tp.N3 > 0 {
		dims = append(dims, "Ntype3")
		lens = append(lens, tp.N3)
	}
	if tp.Nseg > 0 {
		dims = append(dims, "Nseg")
		lens = append(lens, tp.Nseg)
	}
	h := cdf.NewHeader(dims, lens)

	define := func(name string, dims []string, witness interface{}, longName, units string) {
		h.AddVariable(name, dims, witness)
		h.AddAttribute(name, "long_name", longName)
		h.AddAttribute(name, "units", units)
	}
	if tp.N3 > 0 {
		define("xv", []string{"Ntype3"}, []float64{0},
			"Easting of type-3 boundary points", "metres")
		define("yv", []string{"Ntype3"}, []float64{0},
			"Northing of type-3 boundary points", "metres")
		define("cellp", []string{"Ntype3"}, []int32{0},
			"Index of suntans grid cell corresponding to type-3 boundary", "")
	}
	if tp.N2 > 0 {
		define("xe", []string{"Ntype2"}, []float64{0},
			"Easting of type-2 boundary points", "metres")
		define("ye", []string{"Ntype2"}, []float64{0},
			"Northing of type-2 boundary points", "metres")
		define("edgep", []string{"Ntype2"}, []int32{0},
			"Index of suntans grid edge corresponding to type-2 boundary", "")
	}
	if tp.Nseg > 0 {
		define("segedgep", []string{"Ntype2"}, []int32{0},
			"Pointer to boundary segment flag for each type-2 edge", "")
		define("segp", []string{"Nseg"}, []int32{0},
			"Boundary segment flag", "")
	}
	define("z", []string{"Nk"}, []float64{0},
		"Vertical grid mid-layer depth", "metres")
	define("time", []string{"Nt"}, []float64{0},
		"Boundary time", "seconds since 1990-01-01 00:00:00")
	if tp.N2 > 0 {
		define("boundary_h", []string{"Nt", "Ntype2"}, []float64{0},
			"Free-surface elevation at type-2 boundary point", "metre")
		define("boundary_u", []string{"Nt", "Nk", "Ntype2"}, []float64{0},
			"Eastward velocity at type-2 boundary point", "metre second-1")
		define("boundary_v", []string{"Nt", "Nk", "Ntype2"}, []float64{0},
			"Northward velocity at type-2 boundary point", "metre second-1")
		define("boundary_w", []string{"Nt", "Nk", "Ntype2"}, []float64{0},
			"Vertical velocity at type-2 boundary point", "metre second-1")
		define("boundary_T", []string{"Nt", "Nk", "Ntype2"}, []float64{0},
			"Water temperature at type-2 boundary point", "degrees C")
		define("boundary_S", []string{"Nt", "Nk", "Ntype2"}, []float64{0},
			"Salinity at type-2 boundary point", "psu")
	}
	if tp.Nseg > 0 {
		define("boundary_Q", []string{"Nt", "Nseg"}, []float64{0},
			"Volume flux  at boundary segment", "metre^3 second-1")
	}
	if tp.N3 > 0 {
		define("uc", []string{"Nt", "Nk", "Ntype3"}, []float64{0},
			"Eastward velocity at type-3 boundary point", "metre second-1")
		define("vc", []string{"Nt", "Nk", "Ntype3"}, []float64{0},
			"Northward velocity at type-3 boundary point", "metre second-1")
		define("wc", []string{"Nt", "Nk", "Ntype3"}, []float64{0},
			"Vertical velocity at type-3 boundary point", "metre second-1")
		define("T", []string{"Nt", "Nk", "Ntype3"}, []float64{0},
			"Water temperature at type-3 boundary point", "degrees C")
		define("S", []string{"Nt", "Nk", "Ntype3"}, []float64{0},
			"Salinity at type-3 boundary point", "psu")
		define("h", []string{"Nt", "Ntype3"}, []float64{0},
			"Water surface elevation at type-3 boundary point", "metres")
	}
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
	if tp.N3 > 0 {
		write("xv", []int{tp.N3}, tp.Xv)
		write("yv", []int{tp.N3}, tp.Yv)
		write("cellp", []int{tp.N3}, toInt32(tp.CellIdx))
	}
	if tp.N2 > 0 {
		write("xe", []int{tp.N2}, tp.Xe)
		write("ye", []int{tp.N2}, tp.Ye)
		write("edgep", []int{tp.N2}, toInt32(tp.EdgeIdx))
	}
	if tp.Nseg > 0 {
		write("segedgep", []int{tp.N2}, toInt32(tp.EdgeSeg))
		write("segp", []int{tp.Nseg}, toInt32(tp.SegIDs))
	}
	write("z", []int{tp.Nk}, tp.Z)
	write("time", []int{nt}, b.Time.Seconds())
	if tp.N2 > 0 {
		write("boundary_h", []int{nt, tp.N2}, b.BoundaryH.Elements)
		write("boundary_u", []int{nt, tp.Nk, tp.N2}, b.BoundaryU.Elements)
		write("boundary_v", []int{nt, tp.Nk, tp.N2}, b.BoundaryV.Elements)
		write("boundary_w", []int{nt, tp.Nk, tp.N2}, b.BoundaryW.Elements)
		write("boundary_T", []int{nt, tp.Nk, tp.N2}, b.BoundaryT.Elements)
		write("boundary_S", []int{nt, tp.Nk, tp.N2}, b.BoundaryS.Elements)
	}
	if tp.Nseg > 0 {
		write("boundary_Q", []int{nt, tp.Nseg}, b.BoundaryQ.Elements)
	}
	if tp.N3 > 0 {
		write("uc", []int{nt, tp.Nk, tp.N3}, b.Uc.Elements)
		write("vc", []int{nt, tp.Nk, tp.N3}, b.Vc.Elements)
		write("wc", []int{nt, tp.Nk, tp.N3}, b.Wc.Elements)
		write("T", []int{nt, tp.Nk, tp.N3}, b.T.Elements)
		write("S", []int{nt, tp.Nk, tp.N3}, b.S.Elements)
		write("h", []int{nt, tp.N3}, b.H.Elements)
	}
	if err != nil {
		return err
	}
	if err = cdf.UpdateNumRecs(file); err != nil {
		return err
	}
	fmt.Printf("Wrote boundary conditions to %s\n", path)
	return nil
}

// Load reads a boundary file written by WriteNC. Boundary classes whose
// dimension is absent come back empty. The file records no grid
// adjacency and no projection, so EdgeCell is nil and CS is zero.
func Load(path string) (b *Boundary, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	f, err := cdf.Open(file)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	// Trailing dimension of a probe variable, 0 when the variable is
	// absent.
	card := func(name string) int {
		l := f.Header.Lengths(name)
		if len(l) == 0 {
			return 0
		}
		return l[len(l)-1]
	}
	tp := &Topology{
		N2:   card("xe"),
		N3:   card("xv"),
		Nseg: card("segp"),
		Nk:   card("z"),
	}
	if tp.Nk == 0 {
		return nil, fmt.Errorf("%s carries no vertical grid variable z", path)
	}
	if tp.Z, err = readFloats(f, "z"); err != nil {
		return nil, err
	}

	nt := card("time")
	if nt == 0 {
		return nil, fmt.Errorf("%s carries no time steps", path)
	}
	secs, err := readFloats(f, "time")
	if err != nil {
		return nil, err
	}
	units, _ := f.Header.GetAttribute("time", "units").(string)
	if units == "" {
		return nil, fmt.Errorf("time variable in %s carries no units attribute", path)
	}
	times, err := metocean.ParseCFTime(units, secs)
	if err != nil {
		return nil, fmt.Errorf("decoding time axis of %s: %w", path, err)
	}
	ta := &TimeAxis{Start: times[0], End: times[len(times)-1], Times: times}
	if nt > 1 {
		ta.Dt = times[1].Sub(times[0]).Seconds()
	}

	b = &Boundary{Topo: tp, Time: ta}
	b.initArrays()

	if tp.N3 > 0 {
		if tp.CellIdx, err = readIndex(f, "cellp"); err != nil {
			return nil, err
		}
		if tp.Xv, err = readFloats(f, "xv"); err != nil {
			return nil, err
		}
		if tp.Yv, err = readFloats(f, "yv"); err != nil {
			return nil, err
		}
		if err = readInto(f, "uc", b.Uc); err != nil {
			return nil, err
		}
		if err = readInto(f, "vc", b.Vc); err != nil {
			return nil, err
		}
		if err = readInto(f, "wc", b.Wc); err != nil {
			return nil, err
		}
		if err = readInto(f, "T", b.T); err != nil {
			return nil, err
		}
		if err = readInto(f, "S", b.S); err != nil {
			return nil, err
		}
		if err = readInto(f, "h", b.H); err != nil {
			return nil, err
		}
	}
	if tp.N2 > 0 {
		if tp.EdgeIdx, err = readIndex(f, "edgep"); err != nil {
			return nil, err
		}
		if tp.Xe, err = readFloats(f, "xe"); err != nil {
			return nil, err
		}
		if tp.Ye, err = readFloats(f, "ye"); err != nil {
			return nil, err
		}
		if err = readInto(f, "boundary_h", b.BoundaryH); err != nil {
			return nil, err
		}
		if err = readInto(f, "boundary_u", b.BoundaryU); err != nil {
			return nil, err
		}
		if err = readInto(f, "boundary_v", b.BoundaryV); err != nil {
			return nil, err
		}
		if err = readInto(f, "boundary_w", b.BoundaryW); err != nil {
			return nil, err
		}
		if err = readInto(f, "boundary_T", b.BoundaryT); err != nil {
			return nil, err
		}
		if err = readInto(f, "boundary_S", b.BoundaryS); err != nil {
			return nil, err
		}
	}
	if tp.Nseg > 0 {
		if tp.SegIDs, err = readIndex(f, "segp"); err != nil {
			return nil, err
		}
		var J utils.Index
		if J, err = readIndex(f, "segedgep"); err != nil {
			return nil, err
		}
		tp.EdgeSeg = []int(J)
		if err = readInto(f, "boundary_Q", b.BoundaryQ); err != nil {
			return nil, err
		}
	}
	fmt.Printf("Read boundary conditions from %s: Nt = %d, N2 = %d, N3 = %d, Nseg = %d\n",
		path, nt, tp.N2, tp.N3, tp.Nseg)
	return b, nil
}

func readFloats(f *cdf.File, name string) ([]float64, error) {
	r := f.Reader(name, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	switch v := buf.(type) {
	case []float64:
		return v, nil
	case []float32:
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = float64(x)
		}
		return out, nil
	case []int32:
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = float64(x)
		}
		return out, nil
	}
	return nil, fmt.Errorf("variable %s has unsupported type %T", name, buf)
}

func readIndex(f *cdf.File, name string) (utils.Index, error) {
	vals, err := readFloats(f, name)
	if err != nil {
		return nil, err
	}
	J := make(utils.Index, len(vals))
	for i, v := range vals {
		J[i] = int(v)
	}
	return J, nil
}

func readInto(f *cdf.File, name string, arr *sparse.DenseArray) error {
	vals, err := readFloats(f, name)
	if err != nil {
		return err
	}
	if len(vals) != len(arr.Elements) {
		return fmt.Errorf("variable %s has %d values, want %d", name, len(vals), len(arr.Elements))
	}
	copy(arr.Elements, vals)
	return nil
}

func toInt32(xs []int) []int32 {
	out := make([]int32, len(xs))
	for i, x := range xs {
		out[i] = int32(x)
	}
	return out
}
