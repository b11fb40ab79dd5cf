package metocean

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ctessum/cdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestProduct builds a miniature HYCOM style archive: 2 time steps,
// 2 layers and a 2x3 lon/lat grid, with temperature stored as packed
// shorts.
func writeTestProduct(t *testing.T) (path string) {
	t.Helper()
	path = filepath.Join(t.TempDir(), "hycom.nc")

	h := cdf.NewHeader([]string{"time", "depth", "lat", "lon"}, []int{2, 2, 2, 3})
	h.AddVariable("time", []string{"time"}, []float64{0})
	h.AddAttribute("time", "units", "hours since 2000-01-01 00:00:00")
	h.AddVariable("depth", []string{"depth"}, []float64{0})
	h.AddVariable("lat", []string{"lat"}, []float64{0})
	h.AddVariable("lon", []string{"lon"}, []float64{0})
	h.AddVariable("water_temp", []string{"time", "depth", "lat", "lon"}, []int16{0})
	h.AddAttribute("water_temp", "scale_factor", []float32{0.001})
	h.AddAttribute("water_temp", "add_offset", []float32{20})
	h.AddAttribute("water_temp", "_FillValue", []int16{-30000})
	h.AddVariable("salinity", []string{"time", "depth", "lat", "lon"}, []float32{0})
	h.AddAttribute("salinity", "_FillValue", []float32{-9999})
	h.AddVariable("surf_el", []string{"time", "lat", "lon"}, []float32{0})
	h.Define()

	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()
	f, err := cdf.Create(file, h)
	require.NoError(t, err)

	write := func(name string, buf interface{}) {
		end := f.Header.Lengths(name)
		w := f.Writer(name, make([]int, len(end)), end)
		_, err := w.Write(buf)
		require.NoError(t, err)
	}
	write("time", []float64{0, 6})
	write("depth", []float64{5, 10})
	write("lat", []float64{28, 29})
	write("lon", []float64{-95, -94, -93})

	temp := make([]int16, 2*2*2*3)
	for i := range temp {
		temp[i] = int16(1000 + i)
	}
	temp[1] = -30000 // a dry column in the first step
	write("water_temp", temp)

	salt := make([]float32, 2*2*2*3)
	for i := range salt {
		salt[i] = 35
	}
	salt[2] = -9999
	write("salinity", salt)

	ssh := make([]float32, 2*2*3)
	for i := range ssh {
		ssh[i] = 0.25
	}
	write("surf_el", ssh)
	return
}

func TestProductByName(t *testing.T) {
	p, err := ProductByName("hycom")
	require.NoError(t, err)
	assert.Equal(t, "water_temp", p.Temp)
	_, err = ProductByName("NEMO")
	assert.Error(t, err)
}

func TestOpenDataset(t *testing.T) {
	p, err := ProductByName("HYCOM")
	require.NoError(t, err)
	d, err := Open(writeTestProduct(t), p)
	require.NoError(t, err)
	defer d.Close()

	{ // Coordinates expand to one position per column
		assert.Equal(t, []float64{-95, -94, -93, -95, -94, -93}, d.X)
		assert.Equal(t, []float64{28, 28, 28, 29, 29, 29}, d.Y)
		assert.Equal(t, []float64{5, 10}, d.Z)
	}
	{ // CF time decoding
		require.Len(t, d.Time, 2)
		assert.Equal(t, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), d.Time[0])
		assert.Equal(t, time.Date(2000, 1, 1, 6, 0, 0, 0, time.UTC), d.Time[1])
	}

	temp, err := d.Temp()
	require.NoError(t, err)
	{ // Packed shorts unpack through scale and offset
		assert.Equal(t, []int{2, 2, 6}, temp.Data.Shape)
		assert.InDelta(t, 21.0, temp.Data.Get(0, 0, 0), 1e-6)
		assert.InDelta(t, 21.002, temp.Data.Get(0, 0, 2), 1e-6)
	}
	{ // Mask covers the layer samples of the first step only
		require.Len(t, temp.Mask, 12)
		assert.True(t, temp.Mask[1])
		assert.False(t, temp.Mask[0])
		assert.False(t, temp.Mask[2])
	}

	salt, err := d.Salt()
	require.NoError(t, err)
	assert.True(t, salt.Mask[2])
	assert.InDelta(t, 35.0, salt.Data.Get(1, 1, 5), 1e-9)

	ssh, err := d.SSH()
	require.NoError(t, err)
	assert.Equal(t, []int{2, 6}, ssh.Data.Shape)
	require.Len(t, ssh.Mask, 6)
	assert.InDelta(t, 0.25, ssh.Data.Get(0, 3), 1e-6)

	_, err = d.U()
	assert.Error(t, err) // fixture carries no velocity
}

func TestParseCFTime(t *testing.T) {
	ts, err := ParseCFTime("days since 1990-01-01", []float64{0, 1.5})
	require.NoError(t, err)
	assert.Equal(t, time.Date(1990, 1, 2, 12, 0, 0, 0, time.UTC), ts[1])
	_, err = ParseCFTime("fortnights since 1990-01-01", []float64{0})
	assert.Error(t, err)
	_, err = ParseCFTime("hours after 1990-01-01", []float64{0})
	assert.Error(t, err)
}
