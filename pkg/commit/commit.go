// Package commit implements the binding+hiding commitment scheme used to
// bind a DKG participant to its polynomial coefficients one round before
// it reveals them.
package commit

import (
	"crypto/subtle"
	"fmt"
	"io"

	"github.com/thresh-sig/core/pkg/hash"
)

// RandomizerSize is the length of the randomizer r mixed into a
// commitment, chosen large enough that r is never guessable.
const RandomizerSize = 32

const label = "thresh/commit/v1"

// Commitment is the 32-byte output of Commit.
type Commitment [hash.Size]byte

// Commit computes (H(LABEL || r || "start" || value), r) for a freshly
// sampled 32-byte randomizer r.
func Commit(rng io.Reader, value []byte) (Commitment, [RandomizerSize]byte, error) {
	var r [RandomizerSize]byte
	if _, err := io.ReadFull(rng, r[:]); err != nil {
		return Commitment{}, r, fmt.Errorf("commit: sampling randomizer: %w", err)
	}
	c := compute(r, value)
	return c, r, nil
}

// Open reports whether c was produced by committing to value with
// randomizer r.
func Open(c Commitment, r [RandomizerSize]byte, value []byte) bool {
	want := compute(r, value)
	return subtle.ConstantTimeCompare(c[:], want[:]) == 1
}

func compute(r [RandomizerSize]byte, value []byte) Commitment {
	digest := hash.LabeledHash(label, r[:], []byte("start"), value)
	var out Commitment
	copy(out[:], digest)
	return out
}
