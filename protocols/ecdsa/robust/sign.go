package robust

import (
	"fmt"
	"io"

	"github.com/thresh-sig/core/internal/round"
	"github.com/thresh-sig/core/pkg/math/curve"
	"github.com/thresh-sig/core/pkg/party"
	"github.com/thresh-sig/core/pkg/protocol"
	"github.com/thresh-sig/core/pkg/threshold"
	"github.com/thresh-sig/core/protocols/keygen"
)

// Signature is a standard ECDSA signature over secp256k1: (r, s).
type Signature struct {
	R curve.Scalar
	S curve.Scalar
}

// PartialSignature is one signer's unweighted share of the final s-value;
// Combine applies each signer's Lagrange coefficient.
type PartialSignature struct {
	R      curve.Scalar
	SShare curve.Scalar
}

// PresignOutput is reserved for a future robust presignature; see
// Presign.
type PresignOutput struct{}

// Presign is intentionally unimplemented: a robust presignature must
// stay safe even when a minority of signers actively cheats during the
// blinded-product reveal, which needs a verifiable-multiplication
// sub-protocol with per-share complaint and resolution. Sign below
// implements the cooperative path against an honest-but-possibly-absent
// signer set instead.
func Presign(
	_ curve.Curve,
	_ *keygen.KeygenOutput,
	_ *party.List,
	_ party.Participant,
	_ threshold.MaxMalicious,
	_ io.Reader,
) (*protocol.Protocol[*PresignOutput], error) {
	return nil, ErrNotImplemented
}

// Sign runs the cooperative signing round: every signer locally forms a
// share of the blinded nonce*blind product, reveals it via one
// echo-broadcast, Lagrange-reconstructs the product in the clear (safe,
// since the blind is uniform and independent of the signing key), and
// uses its public inverse to turn its own blind share into a share of
// the nonce's inverse without ever reconstructing the nonce itself.
func Sign(
	group curve.Curve,
	keyOut *keygen.KeygenOutput,
	nonce *NonceShares,
	signers *party.List,
	me party.Participant,
	digest []byte,
) (*protocol.Protocol[*PartialSignature], error) {
	if nonce.RhoShare == nil || nonce.RhoShare.IsZero() {
		return nil, fmt.Errorf("robust: nonce shares already consumed")
	}
	if !signers.Contains(me) {
		return nil, &ErrMissingParticipant{ID: me}
	}
	// The final combination multiplies a degree-(f-1) nonce-inverse share
	// by a degree-f keygen share pointwise; the resulting degree-(2f-1)
	// polynomial reconstructs at zero from 2f points, and signing requires
	// at least 2f+1 signers.
	if need := 2*keyOut.MaxMalicious.Degree() + 1; signers.Len() < need {
		return nil, &ErrNotEnoughSigners{N: signers.Len(), Need: need}
	}

	cfg := &signConfig{
		group:   group,
		keyOut:  keyOut,
		nonce:   nonce,
		signers: signers,
		me:      me,
		digest:  digest,
	}
	return protocol.Run(me, signers.Len(), runSign(cfg)), nil
}

type signConfig struct {
	group   curve.Curve
	keyOut  *keygen.KeygenOutput
	nonce   *NonceShares
	signers *party.List
	me      party.Participant
	digest  []byte
}

func runSign(cfg *signConfig) protocol.Body[*PartialSignature] {
	return func(eng *round.Engine) (*PartialSignature, error) {
		group := cfg.group

		u := cfg.nonce.RhoShare.Mul(cfg.nonce.AShare)
		view, err := round.EchoBroadcast(eng, cfg.signers, cfg.me, u.Bytes())
		if err != nil {
			return nil, err
		}

		lambdas, err := cfg.signers.BatchLagrange(group)
		if err != nil {
			return nil, fmt.Errorf("robust: computing lagrange coefficients: %w", err)
		}

		uPublic := group.Zero()
		for _, q := range cfg.signers.IDs() {
			s, err := group.ScalarFromBytes(view[q])
			if err != nil {
				return nil, &round.ErrMalformedMessage{From: q}
			}
			uPublic = uPublic.Add(lambdas[q].Mul(s))
		}
		if uPublic.IsZero() {
			return nil, ErrZeroValue
		}
		uInv, err := uPublic.Invert()
		if err != nil {
			return nil, fmt.Errorf("robust: %w", ErrZeroValue)
		}

		kInvShare := uInv.Mul(cfg.nonce.AShare)

		r, err := rFromPoint(group, cfg.nonce.BigR)
		if err != nil {
			return nil, err
		}
		m, err := group.ScalarFromBytes(cfg.digest)
		if err != nil {
			return nil, fmt.Errorf("robust: decoding message digest: %w", err)
		}

		sigma := m.Mul(kInvShare).Add(r.Mul(kInvShare.Mul(cfg.keyOut.PrivateShare)))

		cfg.nonce.RhoShare = group.Zero()
		cfg.nonce.AShare = group.Zero()

		return &PartialSignature{R: r, SShare: sigma}, nil
	}
}

// Combine reconstructs the final signature from every qualified signer's
// partial share via the same Lagrange coefficients used to reveal the
// blinded product in Sign.
func Combine(group curve.Curve, signers *party.List, shares map[party.Participant]*PartialSignature) (*Signature, error) {
	lambdas, err := signers.BatchLagrange(group)
	if err != nil {
		return nil, fmt.Errorf("robust: computing lagrange coefficients: %w", err)
	}

	s := group.Zero()
	var r curve.Scalar
	for id, sh := range shares {
		lambda, ok := lambdas[id]
		if !ok {
			return nil, fmt.Errorf("robust: %s is not a signer", id)
		}
		if r == nil {
			r = sh.R
		} else if !r.Equal(sh.R) {
			return nil, fmt.Errorf("robust: partial signatures disagree on r")
		}
		s = s.Add(lambda.Mul(sh.SShare))
	}
	if r == nil || s.IsZero() {
		return nil, ErrZeroValue
	}
	return &Signature{R: r, S: s}, nil
}

// rFromPoint reduces the nonce point's x-coordinate into the scalar
// field, mirroring the OT-based signing path's encoding: the compressed
// point's trailing bytes are the big-endian x-coordinate.
func rFromPoint(group curve.Curve, p curve.Point) (curve.Scalar, error) {
	b, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("robust: serializing nonce point: %w", ErrZeroValue)
	}
	r, err := group.ScalarFromBytes(b[1:])
	if err != nil {
		return nil, fmt.Errorf("robust: reducing nonce x-coordinate: %w", err)
	}
	if r.IsZero() {
		return nil, ErrZeroValue
	}
	return r, nil
}
