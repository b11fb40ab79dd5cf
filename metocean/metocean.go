// Package metocean reads locally downloaded ocean model product files
// (HYCOM and similar NetCDF archives) into dense arrays ready for
// interpolation onto a SUNTANS grid.
package metocean

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// Product names the variables and coordinates of one ocean model archive
// layout.
type Product struct {
	Name string

	Temp, Salt, U, V, SSH string
	Lon, Lat, Depth, Time string
}

var products = map[string]Product{
	"HYCOM": {
		Name: "HYCOM",
		Temp: "water_temp", Salt: "salinity", U: "water_u", V: "water_v", SSH: "surf_el",
		Lon: "lon", Lat: "lat", Depth: "depth", Time: "time",
	},
	"GENERIC": {
		Name: "GENERIC",
		Temp: "temp", Salt: "salt", U: "u", V: "v", SSH: "ssh",
		Lon: "lon", Lat: "lat", Depth: "depth", Time: "time",
	},
}

// ProductByName looks up a product layout case-insensitively.
func ProductByName(name string) (Product, error) {
	if p, ok := products[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return p, nil
	}
	return Product{}, fmt.Errorf("unknown ocean model product %q", name)
}

// Field is one variable hyperslab with its missing-sample mask. For depth
// resolved fields Data is [nt, nz, nxy] and Mask [nz*nxy]; for surface
// fields Data is [nt, nxy] and Mask [nxy]. The mask comes from the first
// time step, matching how the data will be fed to an interpolation kernel.
type Field struct {
	Data *sparse.DenseArray
	Mask []bool
}

// Dataset is an open product file with its coordinate axes unpacked. X and
// Y hold the horizontal position of every column in raveled row-major
// order, whether the source grid stores 1-D axes or full 2-D fields.
type Dataset struct {
	Path    string
	Product Product

	X, Y []float64
	Z    []float64
	Time []time.Time

	file *os.File
	nc   *cdf.File
}

func Open(path string, p Product) (d *Dataset, err error) {
	d = &Dataset{Path: path, Product: p}
	if d.file, err = os.Open(path); err != nil {
		return nil, err
	}
	if d.nc, err = cdf.Open(d.file); err != nil {
		d.file.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err = d.readCoordinates(); err != nil {
		d.file.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	fmt.Printf("Opened %s file %s: %d points, %d layers, %d time steps\n",
		p.Name, path, len(d.X), len(d.Z), len(d.Time))
	return
}

func (d *Dataset) Close() error { return d.file.Close() }

// Temp, Salt, U and V return the depth resolved fields; SSH the surface
// elevation field.
func (d *Dataset) Temp() (Field, error) { return d.field3D(d.Product.Temp) }
func (d *Dataset) Salt() (Field, error) { return d.field3D(d.Product.Salt) }
func (d *Dataset) U() (Field, error)    { return d.field3D(d.Product.U) }
func (d *Dataset) V() (Field, error)    { return d.field3D(d.Product.V) }

func (d *Dataset) SSH() (Field, error) {
	raw, fill, err := d.readVar(d.Product.SSH, 3)
	if err != nil {
		return Field{}, err
	}
	nt, nxy := raw.Shape[0], raw.Shape[1]*raw.Shape[2]
	data := sparse.ZerosDense(nt, nxy)
	copy(data.Elements, raw.Elements)
	return Field{Data: data, Mask: maskFirstStep(data, fill, nxy)}, nil
}

func (d *Dataset) field3D(name string) (Field, error) {
	raw, fill, err := d.readVar(name, 4)
	if err != nil {
		return Field{}, err
	}
	nt, nz := raw.Shape[0], raw.Shape[1]
	nxy := raw.Shape[2] * raw.Shape[3]
	data := sparse.ZerosDense(nt, nz, nxy)
	copy(data.Elements, raw.Elements)
	return Field{Data: data, Mask: maskFirstStep(data, fill, nz*nxy)}, nil
}

// maskFirstStep flags the samples of the leading time step that carry the
// fill value (or are not finite).
func maskFirstStep(data *sparse.DenseArray, fill float64, n int) (mask []bool) {
	mask = make([]bool, n)
	hasFill := !math.IsNaN(fill)
	for i := 0; i < n; i++ {
		v := data.Elements[i]
		mask[i] = math.IsNaN(v) || math.IsInf(v, 0) || (hasFill && v == fill)
	}
	return
}

// readVar reads a whole variable, checks its rank and applies any
// scale_factor/add_offset packing. The returned fill value is already
// scaled the same way; NaN means the variable declares no fill.
func (d *Dataset) readVar(name string, wantRank int) (data *sparse.DenseArray, fill float64, err error) {
	dims := d.nc.Header.Lengths(name)
	if len(dims) == 0 {
		return nil, 0, fmt.Errorf("variable %q not in file %s", name, d.Path)
	}
	if len(dims) != wantRank {
		return nil, 0, fmt.Errorf("variable %q has %d dimensions, want %d", name, len(dims), wantRank)
	}
	vals, err := d.readAll(name)
	if err != nil {
		return nil, 0, err
	}
	data = sparse.ZerosDense(dims...)
	if len(vals) != len(data.Elements) {
		return nil, 0, fmt.Errorf("variable %q: read %d values for shape %v", name, len(vals), dims)
	}
	copy(data.Elements, vals)

	fill = math.NaN()
	if f, ok := d.attrFloat(name, "_FillValue"); ok {
		fill = f
	} else if f, ok := d.attrFloat(name, "missing_value"); ok {
		fill = f
	}
	scale, hasScale := d.attrFloat(name, "scale_factor")
	offset, hasOffset := d.attrFloat(name, "add_offset")
	if hasScale || hasOffset {
		if !hasScale {
			scale = 1
		}
		if !hasOffset {
			offset = 0
		}
		for i, v := range data.Elements {
			data.Elements[i] = v*scale + offset
		}
		if !math.IsNaN(fill) {
			fill = fill*scale + offset
		}
	}
	return
}

func (d *Dataset) readAll(name string) ([]float64, error) {
	r := d.nc.Reader(name, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("reading %q: %w", name, err)
	}
	return toFloats(buf)
}

func toFloats(buf interface{}) (vals []float64, err error) {
	switch b := buf.(type) {
	case []float64:
		vals = b
	case []float32:
		vals = make([]float64, len(b))
		for i, v := range b {
			vals[i] = float64(v)
		}
	case []int32:
		vals = make([]float64, len(b))
		for i, v := range b {
			vals[i] = float64(v)
		}
	case []int16:
		vals = make([]float64, len(b))
		for i, v := range b {
			vals[i] = float64(v)
		}
	case []int8:
		vals = make([]float64, len(b))
		for i, v := range b {
			vals[i] = float64(v)
		}
	default:
		err = fmt.Errorf("unsupported netcdf value type %T", buf)
	}
	return
}

func (d *Dataset) readCoordinates() (err error) {
	var lon, lat []float64
	if lon, err = d.readAll(d.Product.Lon); err != nil {
		return
	}
	if lat, err = d.readAll(d.Product.Lat); err != nil {
		return
	}
	switch len(d.nc.Header.Lengths(d.Product.Lon)) {
	case 1:
		// Separate axes: expand to one position per column
		nx, ny := len(lon), len(lat)
		d.X = make([]float64, nx*ny)
		d.Y = make([]float64, nx*ny)
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				d.X[j*nx+i] = lon[i]
				d.Y[j*nx+i] = lat[j]
			}
		}
	case 2:
		if len(lon) != len(lat) {
			return fmt.Errorf("2-D lon/lat size mismatch: %d vs %d", len(lon), len(lat))
		}
		d.X, d.Y = lon, lat
	default:
		return fmt.Errorf("coordinate %q must have 1 or 2 dimensions", d.Product.Lon)
	}

	if len(d.nc.Header.Lengths(d.Product.Depth)) > 0 {
		if d.Z, err = d.readAll(d.Product.Depth); err != nil {
			return
		}
	}

	tvals, err := d.readAll(d.Product.Time)
	if err != nil {
		return
	}
	units, _ := d.attrString(d.Product.Time, "units")
	if d.Time, err = ParseCFTime(units, tvals); err != nil {
		return fmt.Errorf("time axis: %w", err)
	}
	return
}

func (d *Dataset) attrFloat(v, name string) (float64, bool) {
	switch a := d.nc.Header.GetAttribute(v, name).(type) {
	case []float64:
		if len(a) > 0 {
			return a[0], true
		}
	case []float32:
		if len(a) > 0 {
			return float64(a[0]), true
		}
	case []int32:
		if len(a) > 0 {
			return float64(a[0]), true
		}
	case []int16:
		if len(a) > 0 {
			return float64(a[0]), true
		}
	case []int8:
		if len(a) > 0 {
			return float64(a[0]), true
		}
	}
	return 0, false
}

func (d *Dataset) attrString(v, name string) (string, bool) {
	if s, ok := d.nc.Header.GetAttribute(v, name).(string); ok {
		return s, true
	}
	return "", false
}

// ParseCFTime decodes a CF style time axis: "<unit> since <reference>",
// where unit is seconds, minutes, hours or days.
func ParseCFTime(units string, vals []float64) (t []time.Time, err error) {
	parts := strings.SplitN(units, " since ", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("cannot parse time units %q", units)
	}
	var secs float64
	switch strings.ToLower(strings.TrimSpace(parts[0])) {
	case "second", "seconds", "sec", "secs", "s":
		secs = 1
	case "minute", "minutes", "min", "mins":
		secs = 60
	case "hour", "hours", "hr", "hrs", "h":
		secs = 3600
	case "day", "days", "d":
		secs = 86400
	default:
		return nil, fmt.Errorf("unknown time unit %q", parts[0])
	}
	ref, err := parseRefTime(parts[1])
	if err != nil {
		return nil, err
	}
	t = make([]time.Time, len(vals))
	for i, v := range vals {
		t[i] = ref.Add(time.Duration(v * secs * float64(time.Second)))
	}
	return
}

func parseRefTime(s string) (time.Time, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "UTC"))
	for _, layout := range []string{
		"2006-01-02 15:04:05.0",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
	} {
		if ref, err := time.Parse(layout, s); err == nil {
			return ref.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse reference time %q", s)
}
