// Small numeric helpers shared by the metrics derivations.

package sim

import "gonum.org/v1/gonum/stat"

func toFloats(xs []int64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}

// sampleVariance computes the unbiased (N-1 denominator) variance.
// Fewer than two samples yields 0.
func sampleVariance(xs []int64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return stat.Variance(toFloats(xs), nil)
}

func minInt64s(xs []int64) int64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func maxInt64s(xs []int64) int64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
