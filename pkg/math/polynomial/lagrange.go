package polynomial

import (
	"github.com/thresh-sig/core/pkg/math/curve"
)

// BatchInvert inverts every element of xs using a single field inversion
// (Montgomery's trick): compute the running product of all elements, take
// one inverse, then sweep backwards to recover each individual inverse.
// It fails if any element of xs is zero.
func BatchInvert(group curve.Curve, xs []curve.Scalar) ([]curve.Scalar, error) {
	n := len(xs)
	if n == 0 {
		return nil, nil
	}
	// prefix[i] = xs[0] * xs[1] * ... * xs[i-1]; prefix[0] = 1.
	prefix := make([]curve.Scalar, n+1)
	prefix[0] = group.One()
	for i, x := range xs {
		if x.IsZero() {
			return nil, curve.ErrInvertZero
		}
		prefix[i+1] = prefix[i].Mul(x)
	}
	inv, err := prefix[n].Invert()
	if err != nil {
		return nil, err
	}
	out := make([]curve.Scalar, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = inv.Mul(prefix[i])
		inv = inv.Mul(xs[i])
	}
	return out, nil
}

// BatchLagrangeAtZero computes the Lagrange coefficient at x=0 for every
// scalar x-coordinate in xs simultaneously, using a single batched
// inversion instead of one inversion per coefficient.
//
// coefficient(i) = prod_{j != i} x_j / (x_j - x_i)
//
// The x=0 specialization folds each (0 - x_j)/(x_i - x_j) factor to
// x_j/(x_j - x_i), avoiding an explicit negation in the numerator.
// Result[i] corresponds to xs[i]; xs must contain no duplicates and no
// zero entries.
func BatchLagrangeAtZero(group curve.Curve, xs []curve.Scalar) ([]curve.Scalar, error) {
	n := len(xs)
	denominators := make([]curve.Scalar, n)
	for i := range xs {
		d := group.One()
		for j := range xs {
			if i == j {
				continue
			}
			diff := xs[i].Add(xs[j].Negate())
			d = d.Mul(diff)
		}
		denominators[i] = d
	}

	invDenoms, err := BatchInvert(group, denominators)
	if err != nil {
		return nil, err
	}

	out := make([]curve.Scalar, n)
	for i := range xs {
		numerator := group.One()
		for j := range xs {
			if i == j {
				continue
			}
			numerator = numerator.Mul(xs[j].Negate())
		}
		out[i] = numerator.Mul(invDenoms[i])
	}
	return out, nil
}
