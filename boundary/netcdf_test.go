package boundary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanmesh/sunbc/gis"
	"github.com/oceanmesh/sunbc/interp"
	"github.com/oceanmesh/sunbc/utils"
)

func TestWriteLoadRoundTrip(t *testing.T) {
	b, err := New(testGrid(), "20000101.000000", "20000101.020000", 3600, gis.CoordSys{Zone: 15, North: true})
	require.NoError(t, err)
	// Distinct ramps so a transposed or shifted read cannot pass.
	for off, name := range []Field{
		FieldBoundaryH, FieldBoundaryU, FieldBoundaryV, FieldBoundaryW,
		FieldBoundaryT, FieldBoundaryS, FieldBoundaryQ,
		FieldH, FieldUc, FieldVc, FieldWc, FieldT, FieldS,
	} {
		arr, err := b.Lookup(string(name))
		require.NoError(t, err)
		for i := range arr.Elements {
			arr.Elements[i] = float64(off*100 + i)
		}
	}

	path := filepath.Join(t.TempDir(), "suntans_bc.nc")
	require.NoError(t, b.WriteNC(path))

	b2, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, b.Topo.N2, b2.Topo.N2)
	assert.Equal(t, b.Topo.N3, b2.Topo.N3)
	assert.Equal(t, b.Topo.Nseg, b2.Topo.Nseg)
	assert.Equal(t, b.Topo.Nk, b2.Topo.Nk)
	assert.Equal(t, b.Topo.Z, b2.Topo.Z)
	assert.Equal(t, utils.Index{1, 2}, b2.Topo.EdgeIdx)
	assert.Equal(t, utils.Index{2}, b2.Topo.CellIdx)
	assert.Equal(t, utils.Index{5}, b2.Topo.SegIDs)
	assert.Equal(t, []int{5, 0}, b2.Topo.EdgeSeg)
	assert.Equal(t, b.Topo.Xe, b2.Topo.Xe)
	assert.Equal(t, b.Topo.Ye, b2.Topo.Ye)
	assert.Equal(t, b.Topo.Xv, b2.Topo.Xv)
	assert.Equal(t, b.Topo.Yv, b2.Topo.Yv)

	assert.Equal(t, 3, b2.Time.Len())
	assert.Equal(t, 3600.0, b2.Time.Dt)
	for i, tm := range b.Time.Times {
		assert.True(t, tm.Equal(b2.Time.Times[i]), "time step %d", i)
	}

	for _, name := range []Field{
		FieldBoundaryH, FieldBoundaryU, FieldBoundaryV, FieldBoundaryW,
		FieldBoundaryT, FieldBoundaryS, FieldBoundaryQ,
		FieldH, FieldUc, FieldVc, FieldWc, FieldT, FieldS,
	} {
		want, err := b.Lookup(string(name))
		require.NoError(t, err)
		got, err := b2.Lookup(string(name))
		require.NoError(t, err)
		assert.Equal(t, want.Shape, got.Shape, "shape of %s", name)
		assert.Equal(t, want.Elements, got.Elements, "values of %s", name)
	}

	// No grid adjacency survives the file.
	assert.Nil(t, b2.Topo.EdgeCell)
	assert.Error(t, b2.SetDepth([]float64{1, 2, 3}))

	{ // attribute strings the model looks for
		file, err := os.Open(path)
		require.NoError(t, err)
		defer file.Close()
		f, err := cdf.Open(file)
		require.NoError(t, err)
		attr := func(v, name string) string {
			s, _ := f.Header.GetAttribute(v, name).(string)
			return s
		}
		assert.Equal(t, "seconds since 1990-01-01 00:00:00", attr("time", "units"))
		assert.Equal(t, "Volume flux  at boundary segment", attr("boundary_Q", "long_name"))
		assert.Equal(t, "metre", attr("boundary_h", "units"))
		assert.Equal(t, "metres", attr("h", "units"))
		assert.Equal(t, "metre second-1", attr("uc", "units"))
		assert.Equal(t, "psu", attr("boundary_S", "units"))
		assert.Equal(t, "Index of suntans grid cell corresponding to type-3 boundary", attr("cellp", "long_name"))
	}
}

func TestWriteLoadTypeThreeOnly(t *testing.T) {
	g := testGrid()
	g.Mark = []int{1, 1, 1, 3, 3, 0}
	g.EdgeID = make([]int, 6)
	b, err := New(g, "20000101.000000", "20000101.010000", 3600, gis.CoordSys{})
	require.NoError(t, err)
	require.Equal(t, 0, b.Topo.N2)
	require.Equal(t, 0, b.Topo.Nseg)
	b.H.Elements[0] = 1.25

	path := filepath.Join(t.TempDir(), "suntans_bc.nc")
	require.NoError(t, b.WriteNC(path))
	b2, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, b2.Topo.N2)
	assert.Equal(t, 0, b2.Topo.Nseg)
	assert.Equal(t, 1, b2.Topo.N3)
	assert.Equal(t, 1.25, b2.H.Elements[0])
	assert.Empty(t, b2.BoundaryH.Elements)
}

// writeOceanFile builds a small generic product file: all variables are
// spatially uniform so a stub interpolation kernel can be checked exactly.
func writeOceanFile(t *testing.T, path string) {
	h := cdf.NewHeader([]string{"time", "depth", "lat", "lon"}, []int{2, 2, 2, 2})
	h.AddVariable("time", []string{"time"}, []float64{0})
	h.AddAttribute("time", "units", "hours since 2000-01-01 00:00:00")
	h.AddVariable("depth", []string{"depth"}, []float64{0})
	h.AddVariable("lat", []string{"lat"}, []float64{0})
	h.AddVariable("lon", []string{"lon"}, []float64{0})
	for _, v := range []string{"temp", "salt", "u", "v"} {
		h.AddVariable(v, []string{"time", "depth", "lat", "lon"}, []float64{0})
	}
	h.AddVariable("ssh", []string{"time", "lat", "lon"}, []float64{0})
	h.Define()

	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()
	f, err := cdf.Create(file, h)
	require.NoError(t, err)
	write := func(name string, buf []float64) {
		end := f.Header.Lengths(name)
		w := f.Writer(name, make([]int, len(end)), end)
		_, err := w.Write(buf)
		require.NoError(t, err)
	}
	write("time", []float64{0, 6})
	write("depth", []float64{5, 10})
	write("lat", []float64{28, 29})
	write("lon", []float64{-95, -94})
	fill := func(v float64, n int) []float64 {
		buf := make([]float64, n)
		for i := range buf {
			buf[i] = v
		}
		return buf
	}
	write("temp", fill(20, 16))
	write("salt", fill(35, 16))
	write("u", fill(0.1, 16))
	write("v", fill(0.2, 16))
	write("ssh", fill(0.5, 8))
}

// constBuilder ignores the source samples and spreads the first element of
// whatever it is fed across the destination, which is enough to tell
// overwrites from accumulation.
type constBuilder struct{}

type constInterp struct {
	dst interp.Coordinates
}

func (constBuilder) New(src, dst interp.Coordinates, mask []bool, opt interp.Options) (interp.Interpolator4D, error) {
	return constInterp{dst: dst}, nil
}

func (ci constInterp) Interpolate(data *sparse.DenseArray) (*sparse.DenseArray, error) {
	v := data.Elements[0]
	if ci.dst.Z == nil {
		return filled(v, len(ci.dst.T), ci.dst.NPoints()), nil
	}
	return filled(v, len(ci.dst.T), len(ci.dst.Z), ci.dst.NPoints()), nil
}

func TestFromOceanModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ocean.nc")
	writeOceanFile(t, path)

	b, err := New(testGrid(), "20000101.000000", "20000101.020000", 3600, gis.CoordSys{Zone: 15, North: true})
	require.NoError(t, err)
	opt := OceanOptions{SetUV: true, SetH: true, Interp: interp.DefaultOptions()}
	require.NoError(t, b.FromOceanModel(constBuilder{}, path, "generic", opt))

	// Type-3: tracers overwritten, ssh added, velocity untouched.
	assert.Equal(t, 20.0, b.T.Elements[0])
	assert.Equal(t, 35.0, b.S.Elements[0])
	assert.Equal(t, 0.5, b.H.Elements[0])
	assert.Equal(t, 0.0, b.Uc.Elements[0])
	// Type-2: tracers overwritten, velocity added.
	assert.Equal(t, 20.0, b.BoundaryT.Elements[0])
	assert.Equal(t, 35.0, b.BoundaryS.Elements[0])
	assert.Equal(t, 0.1, b.BoundaryU.Elements[0])
	assert.Equal(t, 0.2, b.BoundaryV.Elements[0])

	// Feeding the same file twice accumulates the additive fields only.
	require.NoError(t, b.FromOceanModel(constBuilder{}, path, "generic", opt))
	assert.Equal(t, 20.0, b.T.Elements[0])
	assert.Equal(t, 1.0, b.H.Elements[0])
	assert.InDelta(t, 0.2, b.BoundaryU.Elements[0], 1e-12)

	{ // geographic coordinates can be projected first
		b2, err := New(testGrid(), "20000101.000000", "20000101.010000", 3600, gis.CoordSys{Zone: 15, North: true})
		require.NoError(t, err)
		opt.ConvertToUTM = true
		require.NoError(t, b2.FromOceanModel(constBuilder{}, path, "generic", opt))
		assert.Equal(t, 20.0, b2.T.Elements[0])
	}
	{ // unknown product
		assert.Error(t, b.FromOceanModel(constBuilder{}, path, "unknown", opt))
	}
}
