// Package polynomial implements the secret-sharing polynomials, their
// coefficient commitments, and the batched Lagrange/inversion helpers the
// DKG engine and the tweak/rerandomization API depend on.
package polynomial

import (
	"io"

	"github.com/thresh-sig/core/pkg/math/curve"
)

// Polynomial holds the coefficients of a degree t-1 secret-sharing
// polynomial [a0, a1, ..., a_{t-1}]. a0 is the shared secret. For a
// reshare joiner, a0 is the zero scalar and the wire encoding of the
// commitment vector elides it (see Commitments / InsertIdentity).
type Polynomial struct {
	group  curve.Curve
	coeffs []curve.Scalar
}

// NewRandom samples a fresh polynomial of degree t-1 with a0 fixed to
// secret and every other coefficient drawn uniformly at random.
func NewRandom(group curve.Curve, t int, secret curve.Scalar, rng io.Reader) (*Polynomial, error) {
	coeffs := make([]curve.Scalar, t)
	coeffs[0] = secret
	for i := 1; i < t; i++ {
		c, err := group.RandomScalar(rng)
		if err != nil {
			return nil, err
		}
		coeffs[i] = c
	}
	return &Polynomial{group: group, coeffs: coeffs}, nil
}

// Degree returns t-1.
func (p *Polynomial) Degree() int { return len(p.coeffs) - 1 }

// Constant returns a0, the secret.
func (p *Polynomial) Constant() curve.Scalar { return p.coeffs[0] }

// Evaluate computes f(x) via Horner's method.
func (p *Polynomial) Evaluate(x curve.Scalar) curve.Scalar {
	result := p.group.Zero()
	for i := len(p.coeffs) - 1; i >= 0; i-- {
		result = result.Mul(x).Add(p.coeffs[i])
	}
	return result
}

// Commitments returns [a_i * G] for every coefficient. If a0 is the zero
// scalar (a reshare joiner), the identity element at index 0 is omitted
// from the returned slice; the wire format is asymmetric by design and
// the receiver must call InsertIdentity before verifying against it.
func (p *Polynomial) Commitments() []curve.Point {
	out := make([]curve.Point, 0, len(p.coeffs))
	for i, c := range p.coeffs {
		if i == 0 && c.IsZero() {
			continue
		}
		out = append(out, c.ActOnBase())
	}
	return out
}

// InsertIdentity prepends the group identity to a commitment vector that
// was transmitted by a joiner (whose a0 is always zero), restoring the
// full-length [Phi_0, ..., Phi_{t-1}] shape before verification.
func InsertIdentity(group curve.Curve, commitments []curve.Point) []curve.Point {
	out := make([]curve.Point, 0, len(commitments)+1)
	out = append(out, group.Identity())
	out = append(out, commitments...)
	return out
}

// VerifyShare checks the VSS predicate for a share s allegedly equal to
// f(x): s*G =?= sum_k x^k * commitments[k].
func VerifyShare(group curve.Curve, commitments []curve.Point, x curve.Scalar, s curve.Scalar) bool {
	lhs := s.ActOnBase()
	rhs := group.Identity()
	xPow := group.One()
	for _, c := range commitments {
		rhs = rhs.Add(xPow.Act(c))
		xPow = xPow.Mul(x)
	}
	return lhs.Equal(rhs)
}
