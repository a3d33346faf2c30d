// Package sch implements a Schnorr proof of knowledge of the discrete log
// of a group element, bound to the DKG session via Fiat-Shamir.
package sch

import (
	"errors"
	"fmt"
	"io"

	"github.com/thresh-sig/core/pkg/hash"
	"github.com/thresh-sig/core/pkg/math/curve"
	"github.com/thresh-sig/core/pkg/party"
)

// ErrInvalidProof is returned by Verify when the proof does not check out.
var ErrInvalidProof = errors.New("sch: invalid proof of knowledge")

// Proof is a Schnorr signature (R, mu) over a challenge binding the
// statement X = x*G to the DKG session.
type Proof struct {
	R  curve.Point
	Mu curve.Scalar
}

// Context is the tuple the challenge is bound to: (session_id,
// domain_separator, participant_id, public_constant_term, nonce_commitment).
type Context struct {
	SessionID    []byte
	DomainSep    string
	ID           party.Participant
	ConstantTerm curve.Point
}

func challenge(group curve.Curve, ctx Context, r curve.Point) curve.Scalar {
	tr := hash.New()
	_ = tr.WriteDomain(ctx.DomainSep)
	_ = tr.WriteAny(ctx.SessionID)
	_ = tr.WriteAny(uint32(ctx.ID))
	xBytes, _ := ctx.ConstantTerm.Bytes()
	_ = tr.WriteAny(xBytes)
	rBytes, _ := r.Bytes()
	_ = tr.WriteAny(rBytes)
	return group.HashToScalarDKG(tr.Sum())
}

// Prove constructs a proof of knowledge of x, where X = x*G is
// ctx.ConstantTerm, bound to ctx.
func Prove(group curve.Curve, rng io.Reader, ctx Context, x curve.Scalar) (*Proof, error) {
	k, r, err := group.GenerateNonce(rng)
	if err != nil {
		return nil, fmt.Errorf("sch: sampling nonce: %w", err)
	}
	e := challenge(group, ctx, r)
	mu := k.Add(e.Mul(x))
	return &Proof{R: r, Mu: mu}, nil
}

// Verify checks that pf proves knowledge of the discrete log of
// ctx.ConstantTerm, recomputing R' = mu*G - e*X and comparing to pf.R.
func Verify(group curve.Curve, ctx Context, pf *Proof) error {
	if pf == nil || pf.R == nil || pf.Mu == nil {
		return ErrInvalidProof
	}
	e := challenge(group, ctx, pf.R)
	rPrime := pf.Mu.ActOnBase().Add(e.Negate().Act(ctx.ConstantTerm))
	if !rPrime.Equal(pf.R) {
		return ErrInvalidProof
	}
	return nil
}
