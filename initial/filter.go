package initial

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// cellCentre locates one grid cell in the search tree.
type cellCentre struct {
	geom.Point
	cell int
}

// Filter applies a spatial low pass to the state fields: the free
// surface and every vertical layer of velocity, salinity and
// temperature. Each cell value becomes a weighted mean over the cells
// within radius dx of its centre. The age fields are not filtered.
func (ic *InitialCond) Filter(dx float64) error {
	if dx <= 0 {
		return fmt.Errorf("filter length scale must be positive, got %g", dx)
	}
	var (
		nc = ic.Grid.Nc()
		nk = ic.Grid.Nkmax
	)
	fmt.Printf("Spatially filtering initial conditions...\n")
	w := filterWeights(ic.Grid.Xv, ic.Grid.Yv, dx)
	filterSlice(w, ic.H.Elements)
	for k := 0; k < nk; k++ {
		fmt.Printf("\t filtering layer %d...\n", k)
		filterSlice(w, ic.Uc.Elements[k*nc:(k+1)*nc])
		filterSlice(w, ic.Vc.Elements[k*nc:(k+1)*nc])
		filterSlice(w, ic.S.Elements[k*nc:(k+1)*nc])
		filterSlice(w, ic.T.Elements[k*nc:(k+1)*nc])
	}
	return nil
}

// filterWeights builds the low pass operator. Neighbour j of cell i
// carries weight 1/(1+d/dx), d the centre distance, and each row is
// normalized to unit sum, so a constant field passes through unchanged.
func filterWeights(xv, yv []float64, dx float64) *sparse.CSR {
	nc := len(xv)
	tree := rtree.NewTree(25, 50)
	for i := 0; i < nc; i++ {
		tree.Insert(&cellCentre{Point: geom.Point{X: xv[i], Y: yv[i]}, cell: i})
	}
	w := sparse.NewDOK(nc, nc)
	var (
		nbr []int
		wgt []float64
	)
	for i := 0; i < nc; i++ {
		nbr, wgt = nbr[:0], wgt[:0]
		box := &geom.Bounds{
			Min: geom.Point{X: xv[i] - dx, Y: yv[i] - dx},
			Max: geom.Point{X: xv[i] + dx, Y: yv[i] + dx},
		}
		var sum float64
		for _, hit := range tree.SearchIntersect(box) {
			c := hit.(*cellCentre)
			d := math.Hypot(c.X-xv[i], c.Y-yv[i])
			if d > dx {
				continue
			}
			nbr = append(nbr, c.cell)
			wgt = append(wgt, 1/(1+d/dx))
			sum += wgt[len(wgt)-1]
		}
		// The cell itself is always a neighbour, so sum >= 1.
		for n, j := range nbr {
			w.Set(i, j, wgt[n]/sum)
		}
	}
	return w.ToCSR()
}

// filterSlice replaces vals with the weighted means w*vals in place.
func filterSlice(w *sparse.CSR, vals []float64) {
	n := len(vals)
	y := sparse.NewCSR(n, 1, nil, nil, nil)
	y.Mul(w, mat.NewDense(n, 1, vals))
	for i := range vals {
		vals[i] = y.At(i, 0)
	}
}
