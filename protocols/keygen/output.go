package keygen

import (
	"fmt"

	"github.com/thresh-sig/core/internal/types"
	"github.com/thresh-sig/core/pkg/math/curve"
	"github.com/thresh-sig/core/pkg/threshold"
)

// KeygenOutput is the result of a completed DKG, Refresh, or Reshare run:
// this participant's evaluation of the aggregate polynomial, the group
// public key, and the malicious bound the polynomial's degree was fixed
// to (carried so a later refresh need not be re-supplied it). sessionID
// is the round-0 value every participant agreed on, exposed via RID as a
// ready-made seed for a follow-on signing protocol's own session id.
type KeygenOutput struct {
	PrivateShare curve.Scalar
	PublicKey    curve.Point
	MaxMalicious threshold.MaxMalicious

	sessionID types.RID
}

// RID returns the round-0 session identifier this run agreed on, handy
// as a chain-key-style seed for deriving a follow-on protocol's own
// session id without another round of nonce exchange.
func (o *KeygenOutput) RID() types.RID { return o.sessionID }

// Zeroize drops the private share. Scalar is a capability-set interface
// backed by a curve-specific concrete type the engine never inspects, so
// there is no generic way to scrub its backing memory; clearing the
// reference is the engine's half of the contract, and a caller holding
// its own copy of the share is responsible for clearing that one too.
func (o *KeygenOutput) Zeroize() {
	if o == nil {
		return
	}
	o.PrivateShare = nil
}

// MarshalBinary encodes the output as share || public_key || max_malicious
// (4-byte big-endian), in the curve's own fixed-width encodings.
func (o *KeygenOutput) MarshalBinary() ([]byte, error) {
	if o.PrivateShare == nil {
		return nil, fmt.Errorf("keygen: marshaling a zeroized output")
	}
	shareBytes := o.PrivateShare.Bytes()
	pubBytes, err := o.PublicKey.Bytes()
	if err != nil {
		return nil, fmt.Errorf("keygen: marshaling output: %w", err)
	}
	out := make([]byte, 0, len(shareBytes)+len(pubBytes)+4)
	out = append(out, shareBytes...)
	out = append(out, pubBytes...)
	out = append(out, byte(o.MaxMalicious>>24), byte(o.MaxMalicious>>16), byte(o.MaxMalicious>>8), byte(o.MaxMalicious))
	return out, nil
}
