package boundary

import (
	"fmt"
	"path/filepath"

	"github.com/ctessum/geom"

	"github.com/oceanmesh/sunbc/gis"
	"github.com/oceanmesh/sunbc/grid"
	"github.com/oceanmesh/sunbc/utils"
)

// MarkerPolygon assigns a boundary marker to every open boundary edge
// whose midpoint falls inside Poly. Marker 4 is the flux segment marker:
// matching edges get SegID as their segment id and marker 2 on disk.
type MarkerPolygon struct {
	Poly   geom.Polygonal
	Marker int
	SegID  int
}

// ApplyMarkerPolygons resets every positive edge marker to closed, wipes
// the segment ids and applies the polygons in order. The candidate set is
// re-evaluated as "current marker > 0" before each polygon, so the last
// polygon covering an edge wins and interior edges are never touched.
func ApplyMarkerPolygons(g *grid.Grid, polys []MarkerPolygon) {
	for ie, m := range g.Mark {
		if m > 0 {
			g.Mark[ie] = int(grid.MarkClosed)
		}
	}
	g.EdgeID = make([]int, g.Ne())

	xe, ye := g.EdgeMidpoints()
	for _, p := range polys {
		cand := utils.Find(g.Mark, utils.Greater, 0)
		inside := gis.ClassifyPoints(
			utils.SubsetFloats(xe, cand), utils.SubsetFloats(ye, cand), p.Poly)
		m := p.Marker
		if m == int(grid.MarkFluxSegment) {
			for n, in := range inside {
				if in {
					g.EdgeID[cand[n]] = p.SegID
				}
			}
			m = int(grid.MarkFlux)
		}
		for n, in := range inside {
			if in {
				g.Mark[cand[n]] = m
			}
		}
	}
}

// ModifyEdgeMarkers loads the grid under gridDir, rewrites its boundary
// markers from the polygons in the shapefile and saves edges.dat back.
// The shapefile needs integer fields "marker" and "edge_id". An empty
// shpPath resets every open boundary to closed.
func ModifyEdgeMarkers(gridDir, shpPath string) error {
	fmt.Printf("Modifying boundary markers for grid in %s\n", gridDir)
	g, err := grid.Load(gridDir)
	if err != nil {
		return err
	}

	var polys []MarkerPolygon
	if shpPath != "" {
		feats, err := gis.ReadPolygons(shpPath, "marker", "edge_id")
		if err != nil {
			return fmt.Errorf("reading marker polygons from %s: %w", shpPath, err)
		}
		if len(feats) == 0 {
			return fmt.Errorf("no polygons with a %q field in %s", "marker", shpPath)
		}
		for _, ft := range feats {
			m, err := ft.IntField("marker")
			if err != nil {
				return fmt.Errorf("%s: %w", shpPath, err)
			}
			segID, err := ft.IntField("edge_id")
			if err != nil {
				return fmt.Errorf("%s: %w", shpPath, err)
			}
			polys = append(polys, MarkerPolygon{Poly: ft.Polygonal, Marker: m, SegID: segID})
		}
	}
	ApplyMarkerPolygons(g, polys)

	edgeFile := filepath.Join(gridDir, "edges.dat")
	if err := g.SaveEdges(edgeFile); err != nil {
		return err
	}
	fmt.Printf("Updated markers written to: %s\n", edgeFile)
	return nil
}
