package initial

import (
	"fmt"
	"os"
	"time"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"

	"github.com/oceanmesh/sunbc/metocean"
)

// HistoryOptions gates which fields a prior run seeds.
type HistoryOptions struct {
	SetUV bool
	SetH  bool
}

// FromHistory seeds the state from a model output file on the same grid,
// using the history step nearest the start instant. Temperature,
// salinity and the age pair come across whenever the file carries them;
// free surface and velocity only when asked for.
func (ic *InitialCond) FromHistory(path string, opt HistoryOptions) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	f, err := cdf.Open(file)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}

	times, err := historyTimes(f, path)
	if err != nil {
		return err
	}
	step := nearestStep(times, ic.Time)
	fmt.Printf("Setting initial condition from step %s of %s\n",
		times[step].Format("2006-01-02 15:04:05"), path)

	if opt.SetH {
		if err := readStepInto(f, "eta", step, ic.H); err != nil {
			return err
		}
	}
	if hasVar(f, "temp") {
		if err := readStepInto(f, "temp", step, ic.T); err != nil {
			return err
		}
	}
	if hasVar(f, "salt") {
		if err := readStepInto(f, "salt", step, ic.S); err != nil {
			return err
		}
	}
	if opt.SetUV {
		if err := readStepInto(f, "uc", step, ic.Uc); err != nil {
			return err
		}
		if err := readStepInto(f, "vc", step, ic.Vc); err != nil {
			return err
		}
	}
	if hasVar(f, "agec") {
		if err := readStepInto(f, "agec", step, ic.Agec); err != nil {
			return err
		}
		if err := readStepInto(f, "agealpha", step, ic.Agealpha); err != nil {
			return err
		}
	}
	fmt.Println("Done setting initial condition data from file.")
	return nil
}

func historyTimes(f *cdf.File, path string) ([]time.Time, error) {
	if !hasVar(f, "time") {
		return nil, fmt.Errorf("%s carries no time variable", path)
	}
	secs, err := readStep(f, "time", -1)
	if err != nil {
		return nil, err
	}
	if len(secs) == 0 {
		return nil, fmt.Errorf("%s carries no time steps", path)
	}
	units, _ := f.Header.GetAttribute("time", "units").(string)
	if units == "" {
		return nil, fmt.Errorf("time variable in %s carries no units attribute", path)
	}
	times, err := metocean.ParseCFTime(units, secs)
	if err != nil {
		return nil, fmt.Errorf("decoding time axis of %s: %w", path, err)
	}
	return times, nil
}

func nearestStep(times []time.Time, want time.Time) (step int) {
	best := time.Duration(1<<63 - 1)
	for i, tm := range times {
		d := tm.Sub(want)
		if d < 0 {
			d = -d
		}
		if d < best {
			best, step = d, i
		}
	}
	return
}

func hasVar(f *cdf.File, name string) bool {
	return len(f.Header.Lengths(name)) > 0
}

// readStep reads one record of a variable, or the whole variable when
// step is negative.
func readStep(f *cdf.File, name string, step int) ([]float64, error) {
	dims := f.Header.Lengths(name)
	if len(dims) == 0 {
		return nil, fmt.Errorf("variable %s not in file", name)
	}
	var begin, end []int
	n := 1
	if step < 0 {
		for _, d := range dims {
			n *= d
		}
	} else {
		for _, d := range dims[1:] {
			n *= d
		}
		begin, end = make([]int, len(dims)), make([]int, len(dims))
		begin[0], end[0] = step, step+1
	}
	r := f.Reader(name, begin, end)
	buf := r.Zero(n)
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

func readStepInto(f *cdf.File, name string, step int, arr *sparse.DenseArray) error {
	vals, err := readStep(f, name, step)
	if err != nil {
		return err
	}
	if len(vals) != len(arr.Elements) {
		return fmt.Errorf("variable %s holds %d values per step, grid needs %d", name, len(vals), len(arr.Elements))
	}
	copy(arr.Elements, vals)
	return nil
}
