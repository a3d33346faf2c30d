// Package curve defines the capability set the rest of the module needs
// from an elliptic-curve group: a scalar field, a point group, and the
// hash-to-scalar / nonce-generation primitives the DKG engine depends on.
//
// Concrete curves live in sibling files (secp256k1.go, bls12381.go). The
// engine never imports a backend curve package directly; it only sees
// the Curve/Scalar/Point interfaces so that the same round logic drives
// both threshold ECDSA (secp256k1) and confidential key derivation
// (BLS12-381 G2).
package curve

import (
	"errors"
	"io"
)

// ErrInvertZero is returned by Scalar.Invert when called on the zero
// element, which has no multiplicative inverse.
var ErrInvertZero = errors.New("curve: cannot invert zero scalar")

// ErrIdentityElement is returned when serializing the identity point,
// which the wire format refuses except where the DKG engine explicitly
// works around it for joiner commitments (see pkg/math/polynomial).
var ErrIdentityElement = errors.New("curve: cannot serialize identity element")

// ErrMalformedElement is returned when a byte string does not decode to
// a valid scalar or point for the curve.
var ErrMalformedElement = errors.New("curve: malformed encoding")

// Scalar is an element of the curve's scalar field.
type Scalar interface {
	// Add returns a new scalar equal to s + other.
	Add(other Scalar) Scalar
	// Mul returns a new scalar equal to s * other.
	Mul(other Scalar) Scalar
	// Negate returns a new scalar equal to -s.
	Negate() Scalar
	// Invert returns 1/s, or ErrInvertZero if s is zero.
	Invert() (Scalar, error)
	// IsZero reports whether s is the additive identity.
	IsZero() bool
	// Equal reports whether s and other represent the same field element.
	Equal(other Scalar) bool
	// Act multiplies a point by this scalar: s * P.
	Act(p Point) Point
	// ActOnBase multiplies the curve generator by this scalar: s * G.
	ActOnBase() Point
	// Bytes serializes the scalar to its curve-fixed-width encoding
	// (big-endian for secp256k1, little-endian for BLS12-381).
	Bytes() []byte
}

// Point is an element of the curve's group.
type Point interface {
	// Add returns a new point equal to p + other.
	Add(other Point) Point
	// Negate returns a new point equal to -p.
	Negate() Point
	// IsIdentity reports whether p is the group identity.
	IsIdentity() bool
	// Equal reports whether p and other represent the same group element.
	Equal(other Point) bool
	// Bytes serializes p to the curve's canonical compressed form. It
	// returns ErrIdentityElement if p is the identity.
	Bytes() ([]byte, error)
}

// Curve is the capability set an algorithm needs from a concrete curve.
// Implementations must be safe for concurrent use; they hold no mutable
// state of their own.
type Curve interface {
	// Name identifies the curve for error messages and domain tags.
	Name() string
	// Zero returns the additive identity of the scalar field.
	Zero() Scalar
	// One returns the multiplicative identity of the scalar field.
	One() Scalar
	// RandomScalar samples a uniformly random non-zero scalar.
	RandomScalar(rng io.Reader) (Scalar, error)
	// ScalarFromUint32 injects a participant identifier into the scalar
	// field. Used by Participant.Scalar.
	ScalarFromUint32(v uint32) Scalar
	// ScalarFromBytes decodes a scalar from its curve-fixed-width
	// encoding, failing with ErrMalformedElement on invalid input.
	ScalarFromBytes(b []byte) (Scalar, error)
	// Identity returns the group identity element.
	Identity() Point
	// Generator returns the distinguished group generator G.
	Generator() Point
	// PointFromBytes decodes a point from its canonical compressed form.
	PointFromBytes(b []byte) (Point, error)
	// HashToScalarDKG hashes msg into a non-zero field scalar using a
	// curve-fixed domain tag distinct from any other hash-to-scalar use
	// in the module.
	HashToScalarDKG(msg []byte) Scalar
	// GenerateNonce samples (k, k*G) with k != 0, used for Schnorr-style
	// proofs of knowledge and nonce commitments.
	GenerateNonce(rng io.Reader) (Scalar, Point, error)
	// HashToCurve maps msg to a group element via a random-oracle-style
	// hash-to-curve, used by confidential key derivation to turn an
	// application identifier into a masking point.
	HashToCurve(msg []byte) (Point, error)
}
