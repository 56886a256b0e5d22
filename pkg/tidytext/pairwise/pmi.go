package pairwise

import "math"

// Calculator computes association scores from co-occurrence counts.
type Calculator struct {
	epsilon float64 // smoothing constant
}

// NewCalculator creates a calculator; epsilon <= 0 means 1.
func NewCalculator(epsilon float64) *Calculator {
	if epsilon <= 0 {
		epsilon = 1.0
	}
	return &Calculator{epsilon: epsilon}
}

// PMI calculates the smoothed pointwise mutual information of two items
//
// PMI(a,b) = log((N_ab + ε) * N / ((N_a + ε)(N_b + ε)))
//
// Where:
//   - N_ab = number of features containing both a and b
//   - N_a, N_b = number of features containing each item
//   - N = total number of features
func (c *Calculator) PMI(nAB, nA, nB, n int64) float64 {
	if n == 0 {
		return 0
	}
	numerator := (float64(nAB) + c.epsilon) * float64(n)
	denominator := (float64(nA) + c.epsilon) * (float64(nB) + c.epsilon)
	return math.Log(numerator / denominator)
}

// NPMI calculates normalized PMI (range: -1 to 1)
// NPMI(a,b) = PMI(a,b) / -log(P(a,b))
func (c *Calculator) NPMI(nAB, nA, nB, n int64) float64 {
	if n == 0 || nAB == 0 {
		return 0
	}
	pAB := (float64(nAB) + c.epsilon) / float64(n)
	logPAB := math.Log(pAB)
	if logPAB == 0 {
		return 0
	}
	return c.PMI(nAB, nA, nB, n) / -logPAB
}

// Phi is the phi coefficient of the 2x2 presence table of a and b, the
// Pearson correlation of their binary indicators. It is 0 when either item is
// present in all features or in none.
func Phi(nAB, nA, nB, n int64) float64 {
	n11 := float64(nAB)
	n1x, nx1 := float64(nA), float64(nB)
	n0x, nx0 := float64(n)-n1x, float64(n)-nx1
	den := math.Sqrt(n1x * n0x * nx1 * nx0)
	if den == 0 {
		return 0
	}
	return (n11*float64(n) - n1x*nx1) / den
}
