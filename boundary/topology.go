package boundary

import (
	"fmt"

	"github.com/oceanmesh/sunbc/grid"
	"github.com/oceanmesh/sunbc/utils"
)

// Topology pins down which grid entities carry boundary forcing. Type-2
// boundaries live on edges with marker 2, type-3 boundaries on the single
// interior cell behind each marker 3 edge, and flux segments are the
// distinct positive segment ids found on the edges.
type Topology struct {
	N2, N3, Nseg int
	Nk           int
	Z            []float64

	EdgeIdx  utils.Index // grid edge behind each type-2 point
	EdgeCell utils.Index // interior cell behind each type-2 point
	CellIdx  utils.Index // grid cell behind each type-3 point, ascending
	SegIDs   utils.Index // distinct positive segment ids, ascending
	EdgeSeg  []int       // per type-2 point: its segment id, 0 untagged

	Xe, Ye []float64
	Xv, Yv []float64
}

// ResolveTopology scans the grid markers. It is deterministic and free of
// side effects, so resolving twice yields identical topologies; cells
// shared by several type-3 edges collapse to one boundary point.
func ResolveTopology(g *grid.Grid) (tp *Topology, err error) {
	tp = &Topology{Nk: g.Nkmax, Z: g.Z}

	tp.EdgeIdx = utils.Find(g.Mark, utils.Equal, int(grid.MarkFlux))
	tp.N2 = len(tp.EdgeIdx)

	var cells utils.Index
	for _, ie := range utils.Find(g.Mark, utils.Equal, int(grid.MarkStage)) {
		c1, c2 := g.Grad[ie][0], g.Grad[ie][1]
		switch {
		case c1 == -1 && c2 == -1:
			return nil, fmt.Errorf("type-3 edge %d has no interior cell", ie)
		case c1 == -1:
			cells = append(cells, c2)
		case c2 == -1:
			cells = append(cells, c1)
		}
	}
	tp.CellIdx = cells.Unique()
	tp.N3 = len(tp.CellIdx)
	if tp.N3 > 0 {
		tp.Xv = utils.SubsetFloats(g.Xv, tp.CellIdx)
		tp.Yv = utils.SubsetFloats(g.Yv, tp.CellIdx)
	}

	if tp.N2 > 0 {
		xe, ye := g.EdgeMidpoints()
		tp.Xe = utils.SubsetFloats(xe, tp.EdgeIdx)
		tp.Ye = utils.SubsetFloats(ye, tp.EdgeIdx)

		tp.EdgeCell = make(utils.Index, tp.N2)
		for n, ie := range tp.EdgeIdx {
			c := g.Grad[ie][0]
			if c == -1 {
				c = g.Grad[ie][1]
			}
			if c == -1 {
				return nil, fmt.Errorf("type-2 edge %d has no interior cell", ie)
			}
			tp.EdgeCell[n] = c
		}

		// Flux segments are a subset of the type-2 boundary
		var ids utils.Index
		for _, id := range g.EdgeID {
			if id > 0 {
				ids = append(ids, id)
			}
		}
		tp.SegIDs = ids.Unique()
		tp.Nseg = len(tp.SegIDs)
		tp.EdgeSeg = make([]int, tp.N2)
		for n, ie := range tp.EdgeIdx {
			if g.EdgeID[ie] > 0 {
				tp.EdgeSeg[n] = g.EdgeID[ie]
			}
		}
	}

	fmt.Printf("Resolved boundary topology: N2 = %d, N3 = %d, Nseg = %d\n",
		tp.N2, tp.N3, tp.Nseg)
	return
}
