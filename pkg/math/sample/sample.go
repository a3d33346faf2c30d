// Package sample gathers the caller-injected-RNG sampling helpers used
// across the engine, so every random draw goes through one audited path.
package sample

import (
	"io"

	"github.com/thresh-sig/core/pkg/math/curve"
)

// Scalar draws a uniformly random non-zero scalar from rng. It is a thin
// wrapper over curve.Curve.RandomScalar kept as its own function so every
// call site reads the same way: sample.Scalar(rng, group).
func Scalar(rng io.Reader, group curve.Curve) (curve.Scalar, error) {
	return group.RandomScalar(rng)
}

// Nonce256 draws a fresh 256-bit nonce. The DKG engine's round 0
// session-id contribution is drawn by internal/types.NewRID instead.
func Nonce256(rng io.Reader) ([32]byte, error) {
	var out [32]byte
	_, err := io.ReadFull(rng, out[:])
	return out, err
}
