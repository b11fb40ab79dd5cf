// Package boundary assembles SUNTANS open boundary condition files: it
// resolves which edges and cells of a grid are forced, keeps the forcing
// arrays over a shared time axis, accumulates data from ocean model, tidal
// and regional sources and persists the result in the native NetCDF
// layout.
package boundary

import (
	"fmt"
	"time"
)

// TimeFormat is the yyyymmdd.HHMMSS instant layout used throughout the
// configuration surface.
const TimeFormat = "20060102.150405"

// Epoch anchors the numeric time encoding of every file this package
// reads or writes.
var Epoch = time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)

// ParseTime parses a yyyymmdd.HHMMSS instant as UTC.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(TimeFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("instant %q does not match yyyymmdd.HHMMSS", s)
	}
	return t, nil
}

// SecondsSince1990 converts an instant to the file encoding.
func SecondsSince1990(t time.Time) float64 {
	return t.Sub(Epoch).Seconds()
}

// TimeAxis is the inclusive stepping from Start to End every Dt seconds.
// The final partial interval is dropped, so Len() == floor((End-Start)/Dt)+1.
type TimeAxis struct {
	Start, End time.Time
	Dt         float64
	Times      []time.Time
}

func NewTimeAxis(start, end string, dt float64) (ta *TimeAxis, err error) {
	if dt <= 0 {
		return nil, fmt.Errorf("time step must be positive, have %g", dt)
	}
	ta = &TimeAxis{Dt: dt}
	if ta.Start, err = ParseTime(start); err != nil {
		return nil, err
	}
	if ta.End, err = ParseTime(end); err != nil {
		return nil, err
	}
	if ta.End.Before(ta.Start) {
		return nil, fmt.Errorf("end %s precedes start %s", end, start)
	}
	step := time.Duration(dt * float64(time.Second))
	for t := ta.Start; !t.After(ta.End); t = t.Add(step) {
		ta.Times = append(ta.Times, t)
	}
	return
}

func (ta *TimeAxis) Len() int { return len(ta.Times) }

// Seconds returns every instant as seconds since the 1990 epoch.
func (ta *TimeAxis) Seconds() (s []float64) {
	s = make([]float64, len(ta.Times))
	for i, t := range ta.Times {
		s[i] = SecondsSince1990(t)
	}
	return
}
