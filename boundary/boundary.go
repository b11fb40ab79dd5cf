package boundary

import (
	"fmt"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
	ginterp "gonum.org/v1/gonum/interp"

	"github.com/oceanmesh/sunbc/gis"
	"github.com/oceanmesh/sunbc/grid"
	"github.com/oceanmesh/sunbc/utils"
)

// Field names one boundary forcing array. The set is closed: these are the
// only names Lookup accepts and the only variables the NetCDF layer
// carries.
type Field string

const (
	FieldBoundaryH Field = "boundary_h"
	FieldBoundaryU Field = "boundary_u"
	FieldBoundaryV Field = "boundary_v"
	FieldBoundaryW Field = "boundary_w"
	FieldBoundaryT Field = "boundary_T"
	FieldBoundaryS Field = "boundary_S"
	FieldBoundaryQ Field = "boundary_Q"
	FieldH         Field = "h"
	FieldUc        Field = "uc"
	FieldVc        Field = "vc"
	FieldWc        Field = "wc"
	FieldT         Field = "T"
	FieldS         Field = "S"
)

// Boundary holds the forcing arrays for one grid and time window. Type-2
// arrays span the boundary edges, type-3 arrays the boundary cells, and
// boundary_Q the flux segments; everything starts at zero so sources can
// accumulate into them.
type Boundary struct {
	Topo *Topology
	Time *TimeAxis
	CS   gis.CoordSys

	// Type-2: [Nt, N2] and [Nt, Nk, N2]
	BoundaryH *sparse.DenseArray
	BoundaryU *sparse.DenseArray
	BoundaryV *sparse.DenseArray
	BoundaryW *sparse.DenseArray
	BoundaryT *sparse.DenseArray
	BoundaryS *sparse.DenseArray

	// Flux segments: [Nt, Nseg]
	BoundaryQ *sparse.DenseArray

	// Type-3: [Nt, N3] and [Nt, Nk, N3]
	H  *sparse.DenseArray
	Uc *sparse.DenseArray
	Vc *sparse.DenseArray
	Wc *sparse.DenseArray
	T  *sparse.DenseArray
	S  *sparse.DenseArray

	// Depths at the boundary points, nil until SetDepth
	Dv, De []float64
}

// New resolves the boundary topology of g and allocates zeroed forcing
// arrays over the inclusive time axis [start, end] stepped every dt
// seconds.
func New(g *grid.Grid, start, end string, dt float64, cs gis.CoordSys) (b *Boundary, err error) {
	b = &Boundary{CS: cs}
	if b.Topo, err = ResolveTopology(g); err != nil {
		return nil, err
	}
	if b.Time, err = NewTimeAxis(start, end, dt); err != nil {
		return nil, err
	}
	b.initArrays()
	return
}

func (b *Boundary) initArrays() {
	var (
		nt = b.Time.Len()
		nk = b.Topo.Nk
	)
	b.BoundaryH = sparse.ZerosDense(nt, b.Topo.N2)
	b.BoundaryU = sparse.ZerosDense(nt, nk, b.Topo.N2)
	b.BoundaryV = sparse.ZerosDense(nt, nk, b.Topo.N2)
	b.BoundaryW = sparse.ZerosDense(nt, nk, b.Topo.N2)
	b.BoundaryT = sparse.ZerosDense(nt, nk, b.Topo.N2)
	b.BoundaryS = sparse.ZerosDense(nt, nk, b.Topo.N2)
	b.BoundaryQ = sparse.ZerosDense(nt, b.Topo.Nseg)
	b.H = sparse.ZerosDense(nt, b.Topo.N3)
	b.Uc = sparse.ZerosDense(nt, nk, b.Topo.N3)
	b.Vc = sparse.ZerosDense(nt, nk, b.Topo.N3)
	b.Wc = sparse.ZerosDense(nt, nk, b.Topo.N3)
	b.T = sparse.ZerosDense(nt, nk, b.Topo.N3)
	b.S = sparse.ZerosDense(nt, nk, b.Topo.N3)
}

// SetDepth maps per-cell depths dv onto the boundary points: Dv for the
// type-3 cells and De for the interior cell behind each type-2 edge.
func (b *Boundary) SetDepth(dv []float64) error {
	if b.Topo.N2 > 0 && b.Topo.EdgeCell == nil {
		return fmt.Errorf("boundary loaded from file carries no grid adjacency, cannot set depths")
	}
	for _, c := range b.Topo.CellIdx {
		if c >= len(dv) {
			return fmt.Errorf("depth array has %d cells, boundary cell %d out of range", len(dv), c)
		}
	}
	for _, c := range b.Topo.EdgeCell {
		if c >= len(dv) {
			return fmt.Errorf("depth array has %d cells, edge cell %d out of range", len(dv), c)
		}
	}
	if b.Topo.N3 > 0 {
		b.Dv = utils.SubsetFloats(dv, b.Topo.CellIdx)
	}
	if b.Topo.N2 > 0 {
		b.De = utils.SubsetFloats(dv, b.Topo.EdgeCell)
	}
	return nil
}

// Lookup returns the array behind a field name.
func (b *Boundary) Lookup(name string) (*sparse.DenseArray, error) {
	switch Field(name) {
	case FieldBoundaryH:
		return b.BoundaryH, nil
	case FieldBoundaryU:
		return b.BoundaryU, nil
	case FieldBoundaryV:
		return b.BoundaryV, nil
	case FieldBoundaryW:
		return b.BoundaryW, nil
	case FieldBoundaryT:
		return b.BoundaryT, nil
	case FieldBoundaryS:
		return b.BoundaryS, nil
	case FieldBoundaryQ:
		return b.BoundaryQ, nil
	case FieldH:
		return b.H, nil
	case FieldUc:
		return b.Uc, nil
	case FieldVc:
		return b.Vc, nil
	case FieldWc:
		return b.Wc, nil
	case FieldT:
		return b.T, nil
	case FieldS:
		return b.S, nil
	}
	return nil, fmt.Errorf("field %q not recognized", name)
}

// AtTime interpolates the named field to an arbitrary instant, given as
// seconds since the 1990 epoch. The leading axis of the result has length
// one; instants outside the axis return zeros.
func (b *Boundary) AtTime(name string, tsec float64) (*sparse.DenseArray, error) {
	arr, err := b.Lookup(name)
	if err != nil {
		return nil, err
	}
	shape := append([]int{1}, arr.Shape[1:]...)
	out := sparse.ZerosDense(shape...)
	rest := 1
	for _, s := range arr.Shape[1:] {
		rest *= s
	}
	ts := b.Time.Seconds()
	if rest == 0 || len(ts) == 0 || tsec < ts[0] || tsec > ts[len(ts)-1] {
		return out, nil
	}
	if len(ts) == 1 {
		copy(out.Elements, arr.Elements)
		return out, nil
	}
	var (
		nc ginterp.NaturalCubic
		ys = make([]float64, len(ts))
	)
	for j := 0; j < rest; j++ {
		for i := range ts {
			ys[i] = arr.Elements[i*rest+j]
		}
		if err = nc.Fit(ts, ys); err != nil {
			return nil, fmt.Errorf("interpolating %s in time: %w", name, err)
		}
		out.Elements[j] = nc.Predict(tsec)
	}
	return out, nil
}

// Describe prints a short report of the boundary arrays.
func (b *Boundary) Describe() {
	fmt.Printf("Boundary: Nt = %d, Nk = %d, N2 = %d, N3 = %d, Nseg = %d\n",
		b.Time.Len(), b.Topo.Nk, b.Topo.N2, b.Topo.N3, b.Topo.Nseg)
	for _, name := range []Field{
		FieldBoundaryH, FieldBoundaryU, FieldBoundaryV, FieldBoundaryW,
		FieldBoundaryT, FieldBoundaryS, FieldBoundaryQ,
		FieldH, FieldUc, FieldVc, FieldWc, FieldT, FieldS,
	} {
		arr, _ := b.Lookup(string(name))
		if len(arr.Elements) == 0 {
			continue
		}
		fmt.Printf("  %-10s min = %12.5g  max = %12.5g\n",
			name, floats.Min(arr.Elements), floats.Max(arr.Elements))
	}
}

// accumulate adds src into dst. Shape mismatches are programmer errors.
func accumulate(dst, src *sparse.DenseArray) {
	checkShape(dst, src)
	for i, v := range src.Elements {
		dst.Elements[i] += v
	}
}

// replace overwrites dst with src.
func replace(dst, src *sparse.DenseArray) {
	checkShape(dst, src)
	copy(dst.Elements, src.Elements)
}

// addReplicated adds a depth independent [Nt, N] series into every layer
// of a [Nt, Nk, N] array.
func addReplicated(dst, src *sparse.DenseArray) {
	var (
		nt = dst.Shape[0]
		nk = dst.Shape[1]
		n  = dst.Shape[2]
	)
	if src.Shape[0] != nt || src.Shape[1] != n {
		panic(fmt.Errorf("array shape mismatch: %v does not replicate into %v", src.Shape, dst.Shape))
	}
	for t := 0; t < nt; t++ {
		for k := 0; k < nk; k++ {
			for i := 0; i < n; i++ {
				dst.Elements[(t*nk+k)*n+i] += src.Elements[t*n+i]
			}
		}
	}
}

func checkShape(a, b *sparse.DenseArray) {
	if len(a.Shape) != len(b.Shape) {
		panic(fmt.Errorf("array shape mismatch: %v vs %v", a.Shape, b.Shape))
	}
	for i := range a.Shape {
		if a.Shape[i] != b.Shape[i] {
			panic(fmt.Errorf("array shape mismatch: %v vs %v", a.Shape, b.Shape))
		}
	}
}
