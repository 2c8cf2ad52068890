package core

import (
	"math"
	"sort"
)

// TotalOrder returns every index of vals sorted by ascending value. Equal
// values are ordered by index, so the result is fully determined by vals.
// NaNs are placed after every other value.
func TotalOrder(vals []float32) []int {
	order := make([]int, len(vals))
	for i := range order {
		order[i] = i
	}

	sort.Slice(order, func(i, j int) bool {
		return orderLess(vals, order[i], order[j])
	})
	return order
}

func orderLess(vals []float32, a, b int) bool {
	va, vb := vals[a], vals[b]
	switch {
	case va < vb:
		return true
	case va > vb:
		return false
	case va == vb:
		return a < b
	}

	// At least one of the two is NaN.
	aNaN, bNaN := math.IsNaN(float64(va)), math.IsNaN(float64(vb))
	if aNaN && bNaN {
		return a < b
	}
	return bNaN
}
