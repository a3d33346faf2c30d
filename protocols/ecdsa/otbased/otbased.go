// Package otbased implements the OT-based threshold ECDSA signing path:
// a presign phase that converts each signer's multiplicative nonce and
// key shares into additive shares of K = k^-1 and K*x via pairwise
// multiplicative-to-additive (MtA) conversions, followed by a
// presign-consuming, broadcast-free signing phase (grounded on the
// two-phase DKLs/GG18-style construction the signing layer describes:
// K is blinded by a random mu before the cross term that fixes the
// nonce point is ever revealed, so no partial or full nonce leaks).
//
// The OT-extension protocols a production MtA composes are out of scope
// (see tripleSource and NewTrustedDealerTriples).
package otbased

import (
	"fmt"
	"io"

	"github.com/thresh-sig/core/internal/round"
	"github.com/thresh-sig/core/pkg/math/curve"
	"github.com/thresh-sig/core/pkg/party"
	"github.com/thresh-sig/core/pkg/protocol"
	"github.com/thresh-sig/core/protocols/keygen"
)

// PresignOutput is a single-use presignature: an additive share of K
// (the ECDSA nonce's inverse), an additive share of K*x (the signing
// key weighted by this signer's Lagrange coefficient), and the
// jointly-agreed nonce point R = K^-1*G. Reusing a PresignOutput across
// two Sign calls leaks the signing key; callers must discard it after
// one use.
type PresignOutput struct {
	K         curve.Scalar
	ChiShare  curve.Scalar
	BigR      curve.Point
	PublicKey curve.Point
}

// Signature is a standard ECDSA signature over secp256k1: (r, s).
type Signature struct {
	R curve.Scalar
	S curve.Scalar
}

// Presign runs the presignature protocol for participants (a subset of
// size >= max_malicious+1 of the keygen cohort). triples supplies the
// MtA capability; pass NewTrustedDealerTriples(group) in tests, since no
// OT-extension implementation ships in this package.
func Presign(
	group curve.Curve,
	out *keygen.KeygenOutput,
	participants *party.List,
	me party.Participant,
	triples tripleSource,
	rng io.Reader,
) (*protocol.Protocol[*PresignOutput], error) {
	if participants.Len() < 2 {
		return nil, &ErrNotEnoughParticipants{N: participants.Len()}
	}
	if !participants.Contains(me) {
		return nil, &ErrMissingParticipant{ID: me}
	}

	cfg := &presignConfig{
		group:        group,
		out:          out,
		participants: participants,
		me:           me,
		triples:      triples,
		rng:          rng,
	}
	return protocol.Run(me, participants.Len(), runPresign(cfg)), nil
}

type presignConfig struct {
	group        curve.Curve
	out          *keygen.KeygenOutput
	participants *party.List
	me           party.Participant
	triples      tripleSource
	rng          io.Reader
}

// pairwiseProduct returns this participant's additive share of (Σ a)(Σ b)
// across participants, given its own a and b operands: the self term
// a*b plus, for every peer, one MtA conversion in each cross direction.
// Both sides of a pair run the session in which the lower identifier
// holds the first operand before the other one, so each MtA call meets
// its counterpart instead of waiting on a session the peer reaches later.
func pairwiseProduct(cfg *presignConfig, tag string, a, b curve.Scalar) (curve.Scalar, error) {
	sum := a.Mul(b)
	for _, peer := range cfg.participants.Others(cfg.me) {
		var aShare, bShare curve.Scalar
		var err error
		if cfg.me < peer {
			aShare, err = cfg.triples.MtA(mtaSession(tag, cfg.me, peer), a)
			if err == nil {
				bShare, err = cfg.triples.MtA(mtaSession(tag, peer, cfg.me), b)
			}
		} else {
			bShare, err = cfg.triples.MtA(mtaSession(tag, peer, cfg.me), b)
			if err == nil {
				aShare, err = cfg.triples.MtA(mtaSession(tag, cfg.me, peer), a)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("otbased: MtA with %s: %w", peer, err)
		}
		sum = sum.Add(aShare).Add(bShare)
	}
	return sum, nil
}

func runPresign(cfg *presignConfig) protocol.Body[*PresignOutput] {
	return func(eng *round.Engine) (*PresignOutput, error) {
		group := cfg.group

		bigK, _, err := group.GenerateNonce(cfg.rng)
		if err != nil {
			return nil, fmt.Errorf("otbased: sampling nonce share: %w", err)
		}
		mu, bigMuPoint, err := group.GenerateNonce(cfg.rng)
		if err != nil {
			return nil, fmt.Errorf("otbased: sampling blinding share: %w", err)
		}

		muPointBytes, err := bigMuPoint.Bytes()
		if err != nil {
			return nil, fmt.Errorf("otbased: serializing blinding commitment: %w", err)
		}
		muView, err := round.EchoBroadcast(eng, cfg.participants, cfg.me, muPointBytes)
		if err != nil {
			return nil, err
		}
		aggMu := group.Identity()
		for _, q := range cfg.participants.IDs() {
			p, err := group.PointFromBytes(muView[q])
			if err != nil {
				return nil, &round.ErrMalformedMessage{From: q}
			}
			aggMu = aggMu.Add(p)
		}

		muK, err := pairwiseProduct(cfg, "muK", mu, bigK)
		if err != nil {
			return nil, err
		}
		muKView, err := round.EchoBroadcast(eng, cfg.participants, cfg.me, muK.Bytes())
		if err != nil {
			return nil, err
		}
		muKSum := group.Zero()
		for _, q := range cfg.participants.IDs() {
			s, err := group.ScalarFromBytes(muKView[q])
			if err != nil {
				return nil, &round.ErrMalformedMessage{From: q}
			}
			muKSum = muKSum.Add(s)
		}
		muKInv, err := muKSum.Invert()
		if err != nil {
			return nil, fmt.Errorf("otbased: %w", ErrZeroNonce)
		}
		bigR := muKInv.Act(aggMu)
		if bigR.IsIdentity() {
			return nil, ErrZeroNonce
		}

		lambda, err := cfg.participants.Lagrange(group, cfg.me)
		if err != nil {
			return nil, fmt.Errorf("otbased: computing lagrange coefficient: %w", err)
		}
		w := lambda.Mul(cfg.out.PrivateShare)

		chi, err := pairwiseProduct(cfg, "chi", bigK, w)
		if err != nil {
			return nil, err
		}

		return &PresignOutput{K: bigK, ChiShare: chi, BigR: bigR, PublicKey: cfg.out.PublicKey}, nil
	}
}

// Sign consumes a one-time PresignOutput to produce this signer's
// additive share of the final signature's s-value, without any further
// communication. The caller combines every qualified signer's share
// with Combine. sigma_i = m*K_i + r*chi_i sums to K*(m + r*x), which is
// exactly the ECDSA s-value since K is the nonce's inverse.
func Sign(group curve.Curve, pre *PresignOutput, digest []byte) (*PartialSignature, error) {
	if pre.K == nil || pre.K.IsZero() {
		return nil, fmt.Errorf("otbased: presign output already consumed")
	}
	r, err := rFromPoint(group, pre.BigR)
	if err != nil {
		return nil, err
	}
	m, err := group.ScalarFromBytes(digest)
	if err != nil {
		return nil, fmt.Errorf("otbased: decoding message digest: %w", err)
	}
	share := m.Mul(pre.K).Add(r.Mul(pre.ChiShare))
	pre.K = group.Zero()
	return &PartialSignature{R: r, SShare: share}, nil
}

// PartialSignature is one signer's additive contribution to the final
// (r, s); combine every qualified signer's share with Combine.
type PartialSignature struct {
	R      curve.Scalar
	SShare curve.Scalar
}

// Combine sums partial signatures into a full Signature.
func Combine(group curve.Curve, shares []*PartialSignature) (*Signature, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("otbased: combining zero partial signatures")
	}
	s := group.Zero()
	r := shares[0].R
	for _, sh := range shares {
		if !sh.R.Equal(r) {
			return nil, fmt.Errorf("otbased: partial signatures disagree on r")
		}
		s = s.Add(sh.SShare)
	}
	if s.IsZero() {
		return nil, ErrZeroNonce
	}
	return &Signature{R: r, S: s}, nil
}

// rFromPoint reduces the nonce point's x-coordinate into the scalar
// field: the curve's compressed point encoding is a one-byte parity tag
// followed by the big-endian x-coordinate, which doubles as the
// fixed-width scalar encoding on secp256k1.
func rFromPoint(group curve.Curve, p curve.Point) (curve.Scalar, error) {
	b, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("otbased: serializing nonce point: %w", ErrZeroNonce)
	}
	r, err := group.ScalarFromBytes(b[1:])
	if err != nil {
		return nil, fmt.Errorf("otbased: reducing nonce x-coordinate: %w", err)
	}
	if r.IsZero() {
		return nil, ErrZeroNonce
	}
	return r, nil
}
