// Package types holds small wire-adjacent value types shared by the round
// driver and the DKG engine.
package types

import (
	"io"

	"github.com/thresh-sig/core/pkg/hash"
)

// RIDSize is the width of a round-0 nonce contribution and of the derived
// chain key / session id.
const RIDSize = 32

// RID is a 256-bit random identifier: a per-round nonce contribution, or
// a value derived from hashing every participant's contribution together.
type RID [RIDSize]byte

// NewRID samples a fresh random RID from rng.
func NewRID(rng io.Reader) (RID, error) {
	var out RID
	_, err := io.ReadFull(rng, out[:])
	return out, err
}

// Bytes returns the RID as a byte slice, satisfying hash.Transcript's
// WriteAny([]byte) path and encoding.BinaryMarshaler-shaped call sites.
func (r RID) Bytes() []byte { return r[:] }

// SessionID derives the round-0 session identifier by hashing every
// participant's nonce contribution together under a fixed domain
// separator.
func SessionID(domainSep string, nonces map[uint32]RID, order []uint32) RID {
	tr := hash.New()
	_ = tr.WriteDomain(domainSep)
	for _, id := range order {
		_ = tr.WriteAny(id)
		_ = tr.WriteAny(nonces[id].Bytes())
	}
	var out RID
	copy(out[:], tr.Sum())
	return out
}
