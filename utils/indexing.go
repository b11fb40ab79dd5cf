package utils

import "sort"

type EvalOp uint8

const (
	Equal EvalOp = iota
	Less
	Greater
	LessOrEqual
	GreaterOrEqual
)

// Index addresses subsets of mesh entities (edges, cells, segments) within
// their parent slices.
type Index []int

func NewRange(rmin, rmax int) (r Index) {
	var (
		size = rmax - rmin + 1 // INCLUSIVE RANGE
	)
	r = make(Index, size)
	for i := range r {
		r[i] = i + rmin
	}
	return
}

// Find returns the positions i within vals where (vals[i] op target).
func Find(vals []int, op EvalOp, target int) (J Index) {
	test := func(val int) bool {
		switch op {
		case Equal:
			return val == target
		case Less:
			return val < target
		case Greater:
			return val > target
		case LessOrEqual:
			return val <= target
		case GreaterOrEqual:
			return val >= target
		}
		return false
	}
	for i, val := range vals {
		if test(val) {
			J = append(J, i)
		}
	}
	return
}

func (I Index) Add(val int) (r Index) {
	r = make(Index, len(I))
	for i, ival := range I {
		r[i] = val + ival
	}
	return
}

func (I Index) Subset(J Index) (r Index) {
	r = make(Index, len(J))
	for j, val := range J {
		r[j] = I[val]
	}
	return
}

func (I Index) Apply(f func(val int) int) (r Index) {
	r = make(Index, len(I))
	for i, val := range I {
		r[i] = f(val)
	}
	return
}

// Unique returns the distinct values of I in ascending order.
func (I Index) Unique() (r Index) {
	if len(I) == 0 {
		return
	}
	r = make(Index, len(I))
	copy(r, I)
	sort.Ints(r)
	var n int
	for i, val := range r {
		if i == 0 || val != r[n-1] {
			r[n] = val
			n++
		}
	}
	r = r[:n]
	return
}

func (I Index) Contains(val int) bool {
	for _, ival := range I {
		if ival == val {
			return true
		}
	}
	return false
}

// Position returns the location of val within I, -1 when absent.
func (I Index) Position(val int) int {
	for i, ival := range I {
		if ival == val {
			return i
		}
	}
	return -1
}

func SubsetFloats(x []float64, I Index) (r []float64) {
	r = make([]float64, len(I))
	for i, val := range I {
		r[i] = x[val]
	}
	return
}

func SubsetInts(x []int, I Index) (r []int) {
	r = make([]int, len(I))
	for i, val := range I {
		r[i] = x[val]
	}
	return
}
