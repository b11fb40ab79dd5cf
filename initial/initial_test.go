package initial

import (
	"testing"
	"time"

	"github.com/ctessum/geom"
	"github.com/ctessum/sparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanmesh/sunbc/gis"
	"github.com/oceanmesh/sunbc/grid"
	"github.com/oceanmesh/sunbc/interp"
)

// testGrid is three cells in a row: two close together and one far off,
// so a filter radius can separate them.
func testGrid() *grid.Grid {
	return &grid.Grid{
		Xp:    []float64{0, 1, 2, 100, 101},
		Yp:    []float64{0, 0, 1, 0, 1},
		Xv:    []float64{0, 1, 100},
		Yv:    []float64{0, 0, 0},
		Cells: [][3]int{{0, 1, 2}, {1, 2, 3}, {2, 3, 4}},
		Neigh: [][3]int{{1, -1, -1}, {0, 2, -1}, {1, -1, -1}},
		Nkmax: 2,
		Dz:    []float64{1, 1},
		Z:     []float64{0.5, 1.5},
	}
}

func filled(v float64, shape ...int) *sparse.DenseArray {
	a := sparse.ZerosDense(shape...)
	for i := range a.Elements {
		a.Elements[i] = v
	}
	return a
}

func rect(x0, x1 float64) geom.Polygon {
	return geom.Polygon{{{X: x0, Y: -1}, {X: x1, Y: -1}, {X: x1, Y: 1}, {X: x0, Y: 1}}}
}

func TestNewInitialCond(t *testing.T) {
	ic, err := New(testGrid(), "20000101.120000", gis.CoordSys{Zone: 15, North: true})
	require.NoError(t, err)
	assert.True(t, ic.Time.Equal(time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)))
	for _, arr := range []*sparse.DenseArray{ic.Uc, ic.Vc, ic.T, ic.S, ic.Agec, ic.Agealpha} {
		assert.Equal(t, []int{1, 2, 3}, arr.Shape)
	}
	assert.Equal(t, []int{1, 3}, ic.H.Shape)
	assert.Equal(t, []int{2, 3}, ic.Agesource.Shape)
	ic.Describe()

	_, err = New(testGrid(), "not-a-time", gis.CoordSys{})
	assert.Error(t, err)
}

type stubRegional struct {
	h, temp, salt, u, v *sparse.DenseArray
}

func (s stubRegional) Interp(path string, x, y, z []float64, ts []time.Time,
	opt interp.Options) (h, temp, salt, u, v *sparse.DenseArray, err error) {
	return s.h, s.temp, s.salt, s.u, s.v, nil
}

func TestFromRegional(t *testing.T) {
	g := testGrid()
	nc, nk := g.Nc(), g.Nkmax
	src := stubRegional{
		h:    filled(0.5, 1, nc),
		temp: filled(22, 1, nk, nc),
		salt: filled(35, 1, nk, nc),
		u:    filled(0.1, 1, nk, nc),
		v:    filled(0.2, 1, nk, nc),
	}

	{ // tracers only: velocity and surface come back zeroed
		ic, err := New(g, "20000101.000000", gis.CoordSys{})
		require.NoError(t, err)
		require.NoError(t, ic.FromRegional(src, "regional.nc", RegionalOptions{}))
		assert.Equal(t, 22.0, ic.T.Elements[0])
		assert.Equal(t, 35.0, ic.S.Elements[nk*nc-1])
		assert.Equal(t, 0.0, ic.Uc.Elements[0])
		assert.Equal(t, 0.0, ic.Vc.Elements[0])
		assert.Equal(t, 0.0, ic.H.Elements[0])
	}
	{ // everything requested
		ic, err := New(g, "20000101.000000", gis.CoordSys{})
		require.NoError(t, err)
		require.NoError(t, ic.FromRegional(src, "regional.nc", RegionalOptions{SetUV: true, SetH: true}))
		assert.Equal(t, 0.1, ic.Uc.Elements[0])
		assert.Equal(t, 0.2, ic.Vc.Elements[0])
		assert.Equal(t, 0.5, ic.H.Elements[0])
	}
}

func TestSetAgeSourcePolygons(t *testing.T) {
	ic, err := New(testGrid(), "20000101.000000", gis.CoordSys{})
	require.NoError(t, err)
	nc := ic.Grid.Nc()

	ic.SetAgeSourcePolygons([]gis.PolyFeature{{Polygonal: rect(-0.5, 0.5)}})
	assert.Equal(t, 1.0, ic.Agesource.Elements[0])
	assert.Equal(t, 1.0, ic.Agesource.Elements[nc]) // every layer
	assert.Equal(t, 0.0, ic.Agesource.Elements[1])
	assert.Equal(t, 0.0, ic.Agesource.Elements[2])

	// A second polygon accumulates, nothing is cleared.
	ic.SetAgeSourcePolygons([]gis.PolyFeature{{Polygonal: rect(0.5, 1.5)}})
	assert.Equal(t, 1.0, ic.Agesource.Elements[0])
	assert.Equal(t, 1.0, ic.Agesource.Elements[1])
	assert.Equal(t, 0.0, ic.Agesource.Elements[2])
}

func TestSetAgeSourceMissingFile(t *testing.T) {
	ic, err := New(testGrid(), "20000101.000000", gis.CoordSys{})
	require.NoError(t, err)
	assert.Error(t, ic.SetAgeSource("no-such-file.shp"))
}

func TestFilter(t *testing.T) {
	ic, err := New(testGrid(), "20000101.000000", gis.CoordSys{})
	require.NoError(t, err)
	nc := ic.Grid.Nc()

	assert.Error(t, ic.Filter(0))

	// Cells 0 and 1 are 1 apart, cell 2 is far away. With dx = 2 the
	// close pair mixes with weights 1 : 2/3 and the far cell is alone.
	copy(ic.H.Elements, []float64{1, 0, 7})
	copy(ic.Uc.Elements[:nc], []float64{1, 0, 7})
	copy(ic.Uc.Elements[nc:], []float64{0, 1, 2})
	for i := range ic.T.Elements {
		ic.T.Elements[i] = 5
	}
	for i := range ic.Agec.Elements {
		ic.Agec.Elements[i] = 3
	}
	ic.Agesource.Elements[0] = 1

	require.NoError(t, ic.Filter(2))

	assert.InDelta(t, 0.6, ic.H.Elements[0], 1e-12)
	assert.InDelta(t, 0.4, ic.H.Elements[1], 1e-12)
	assert.InDelta(t, 7.0, ic.H.Elements[2], 1e-12)

	// Layers are filtered independently.
	assert.InDelta(t, 0.6, ic.Uc.Elements[0], 1e-12)
	assert.InDelta(t, 0.4, ic.Uc.Elements[1], 1e-12)
	assert.InDelta(t, 0.4, ic.Uc.Elements[nc], 1e-12)
	assert.InDelta(t, 0.6, ic.Uc.Elements[nc+1], 1e-12)
	assert.InDelta(t, 2.0, ic.Uc.Elements[nc+2], 1e-12)

	// A constant field passes through unchanged.
	for _, v := range ic.T.Elements {
		assert.InDelta(t, 5.0, v, 1e-12)
	}

	// Age fields are never filtered.
	assert.Equal(t, 3.0, ic.Agec.Elements[0])
	assert.Equal(t, 1.0, ic.Agesource.Elements[0])
	assert.Equal(t, 0.0, ic.Agesource.Elements[1])
}
