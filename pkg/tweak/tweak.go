// Package tweak implements the additive key-derivation scalar shared by
// every signing layer built on top of the DKG engine.
package tweak

import "github.com/thresh-sig/core/pkg/math/curve"

// Tweak is a scalar delta inducing X' = X + delta*G and x_i' = x_i + delta.
// A zero tweak is a valid no-op.
type Tweak struct {
	Delta curve.Scalar
}

// New wraps a scalar as a Tweak.
func New(delta curve.Scalar) Tweak { return Tweak{Delta: delta} }

// DeriveVerifyingKey computes X' = X + delta*G.
func (t Tweak) DeriveVerifyingKey(x curve.Point) curve.Point {
	return x.Add(t.Delta.ActOnBase())
}

// DeriveSigningShare computes x_i' = x_i + delta. Every qualified subset
// that reconstructs x_i' via Lagrange interpolation reconstructs the same
// tweaked secret x' = x + delta.
func (t Tweak) DeriveSigningShare(share curve.Scalar) curve.Scalar {
	return share.Add(t.Delta)
}
