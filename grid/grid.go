// Package grid reads and writes the SUNTANS ASCII mesh files
// (points.dat, cells.dat, edges.dat and friends) and answers the
// connectivity questions the boundary and initial condition builders ask.
package grid

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Grid struct {
	Dir string

	// Vertices
	Xp, Yp []float64

	// Cells: Voronoi points, corner vertex ids and neighbor cell ids
	// (-1 where no neighbor exists)
	Xv, Yv []float64
	Cells  [][3]int
	Neigh  [][3]int

	// Edges: endpoint vertex ids, marker, adjacent cell ids (-1 on the
	// open side) and the optional flux segment id column (0 = untagged)
	Edges  [][2]int
	Mark   []int
	Grad   [][2]int
	EdgeID []int

	// Vertical layers, top down. Z holds mid-layer depths.
	Nkmax int
	Dz    []float64
	Z     []float64

	// Cell depths from depths.dat-voro, nil until LoadDepths
	Dv []float64
}

func (g *Grid) Np() int { return len(g.Xp) }
func (g *Grid) Nc() int { return len(g.Xv) }
func (g *Grid) Ne() int { return len(g.Mark) }

// Load reads points.dat, cells.dat and edges.dat from dir. vertspace.dat is
// optional; without it the grid is treated as a single layer.
func Load(dir string) (g *Grid, err error) {
	defer func() {
		if r := recover(); r != nil {
			g, err = nil, fmt.Errorf("reading grid from %s: %v", dir, r)
		}
	}()
	g = &Grid{Dir: dir}
	g.readPoints(filepath.Join(dir, "points.dat"))
	g.readCells(filepath.Join(dir, "cells.dat"))
	g.readEdges(filepath.Join(dir, "edges.dat"))
	g.readVertSpace(filepath.Join(dir, "vertspace.dat"))
	fmt.Printf("Read grid: Np = %d, Nc = %d, Ne = %d, Nkmax = %d\n",
		g.Np(), g.Nc(), g.Ne(), g.Nkmax)
	return
}

// LoadDepths reads depths.dat-voro from dir (one "xv yv dv" line per
// cell) into Dv.
func (g *Grid) LoadDepths(dir string) error {
	return g.LoadDepthsFile(filepath.Join(dir, "depths.dat-voro"))
}

// LoadDepthsFile reads cell depths from a named file in the same layout.
func (g *Grid) LoadDepthsFile(fname string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading depths from %s: %v", fname, r)
		}
	}()
	var (
		dv     = make([]float64, 0, g.Nc())
		xv, yv float64
		d      float64
	)
	eachLine(fname, func(line string) {
		var (
			n   int
			err error
		)
		nargs := 3
		if n, err = fmt.Sscanf(line, "%f %f %f", &xv, &yv, &d); err != nil || n < nargs {
			if err == nil && n < nargs {
				err = fmt.Errorf("read fewer than required fields, read %d, need %d, line: %s", n, nargs, line)
			}
			panic(err)
		}
		dv = append(dv, d)
	})
	if len(dv) != g.Nc() {
		return fmt.Errorf("depths file %s holds %d cells, grid has %d", fname, len(dv), g.Nc())
	}
	g.Dv = dv
	return
}

// SaveEdges writes the edge table to path. The flux segment id column is
// written only when at least one edge carries a nonzero id, matching the
// layout of the file that was read.
func (g *Grid) SaveEdges(path string) (err error) {
	var (
		file *os.File
	)
	if file, err = os.Create(path); err != nil {
		return fmt.Errorf("unable to create %s: %w", path, err)
	}
	defer file.Close()
	w := bufio.NewWriter(file)
	defer w.Flush()
	var tagged bool
	for _, id := range g.EdgeID {
		if id != 0 {
			tagged = true
			break
		}
	}
	for i := range g.Edges {
		if tagged {
			fmt.Fprintf(w, "%d %d %d %d %d %d\n",
				g.Edges[i][0], g.Edges[i][1], g.Mark[i], g.Grad[i][0], g.Grad[i][1], g.EdgeID[i])
		} else {
			fmt.Fprintf(w, "%d %d %d %d %d\n",
				g.Edges[i][0], g.Edges[i][1], g.Mark[i], g.Grad[i][0], g.Grad[i][1])
		}
	}
	return
}

// EdgeMidpoints returns the edge midpoint coordinates.
func (g *Grid) EdgeMidpoints() (xe, ye []float64) {
	xe, ye = make([]float64, g.Ne()), make([]float64, g.Ne())
	for i, e := range g.Edges {
		xe[i] = 0.5 * (g.Xp[e[0]] + g.Xp[e[1]])
		ye[i] = 0.5 * (g.Yp[e[0]] + g.Yp[e[1]])
	}
	return
}

// EdgeDepths maps per-cell depths onto edges using the valid neighbor of
// each edge. Boundary edges take the depth of their single interior cell.
func (g *Grid) EdgeDepths(dv []float64) (de []float64) {
	de = make([]float64, g.Ne())
	for i, gr := range g.Grad {
		nc := gr[0]
		if nc < 0 {
			nc = gr[1]
		}
		if nc >= 0 {
			de[i] = dv[nc]
		}
	}
	return
}

func (g *Grid) readPoints(fname string) {
	var (
		x, y, dum float64
	)
	eachLine(fname, func(line string) {
		var (
			n   int
			err error
		)
		nargs := 2
		if n, err = fmt.Sscanf(line, "%f %f %f", &x, &y, &dum); err != nil || n < nargs {
			if err == nil && n < nargs {
				err = fmt.Errorf("read fewer than required fields, read %d, need %d, line: %s", n, nargs, line)
			}
			panic(err)
		}
		g.Xp = append(g.Xp, x)
		g.Yp = append(g.Yp, y)
	})
}

func (g *Grid) readCells(fname string) {
	var (
		xv, yv float64
		p      [3]int
		nb     [3]int
	)
	eachLine(fname, func(line string) {
		var (
			n   int
			err error
		)
		nargs := 8
		if n, err = fmt.Sscanf(line, "%f %f %d %d %d %d %d %d",
			&xv, &yv, &p[0], &p[1], &p[2], &nb[0], &nb[1], &nb[2]); err != nil || n < nargs {
			if err == nil && n < nargs {
				err = fmt.Errorf("read fewer than required fields, read %d, need %d, line: %s", n, nargs, line)
			}
			panic(err)
		}
		g.Xv = append(g.Xv, xv)
		g.Yv = append(g.Yv, yv)
		g.Cells = append(g.Cells, p)
		g.Neigh = append(g.Neigh, nb)
	})
}

func (g *Grid) readEdges(fname string) {
	var (
		e    [2]int
		mark int
		gr   [2]int
		id   int
	)
	eachLine(fname, func(line string) {
		var (
			n   int
			err error
		)
		nargs := 5
		id = 0
		if n, err = fmt.Sscanf(line, "%d %d %d %d %d %d",
			&e[0], &e[1], &mark, &gr[0], &gr[1], &id); err != nil || n < nargs {
			// The sixth column is optional, so Sscanf hitting EOF after
			// five fields is a complete record.
			if n < nargs {
				if err == nil {
					err = fmt.Errorf("read fewer than required fields, read %d, need %d, line: %s", n, nargs, line)
				}
				panic(err)
			}
		}
		g.Edges = append(g.Edges, e)
		g.Mark = append(g.Mark, mark)
		g.Grad = append(g.Grad, gr)
		g.EdgeID = append(g.EdgeID, id)
	})
}

func (g *Grid) readVertSpace(fname string) {
	if _, err := os.Stat(fname); err != nil {
		fmt.Printf("No vertspace.dat in %s, using a single layer\n", g.Dir)
		g.Nkmax = 1
		g.Dz = []float64{0}
		g.Z = []float64{0}
		return
	}
	var dz float64
	eachLine(fname, func(line string) {
		var (
			n   int
			err error
		)
		if n, err = fmt.Sscanf(line, "%f", &dz); err != nil || n < 1 {
			panic(fmt.Errorf("bad layer thickness line: %s", line))
		}
		g.Dz = append(g.Dz, dz)
	})
	g.Nkmax = len(g.Dz)
	g.Z = make([]float64, g.Nkmax)
	var sum float64
	for k, dz := range g.Dz {
		g.Z[k] = sum + 0.5*dz
		sum += dz
	}
}

// eachLine feeds every non-blank line of fname to parse, panicking on file
// errors. Callers recover at their exported boundary.
func eachLine(fname string, parse func(line string)) {
	var (
		file *os.File
		err  error
	)
	if file, err = os.Open(fname); err != nil {
		panic(fmt.Errorf("unable to open file %s\n %s", fname, err))
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}
		parse(line)
	}
	if err = scanner.Err(); err != nil {
		panic(err)
	}
}
