package robust

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/thresh-sig/core/internal/round"
	"github.com/thresh-sig/core/pkg/math/curve"
	"github.com/thresh-sig/core/pkg/math/polynomial"
	"github.com/thresh-sig/core/pkg/math/sample"
	"github.com/thresh-sig/core/pkg/party"
	"github.com/thresh-sig/core/pkg/protocol"
	"github.com/thresh-sig/core/pkg/threshold"
)

// NonceShares is the output of a joint verifiable secret-sharing round
// dealing a fresh random nonce rho and an independent random blind a,
// both on degree-(maxMalicious-1) polynomials: this participant's evaluation
// of each, and the public nonce point R = rho*G. A NonceShares value is
// single-use; Sign consumes it.
type NonceShares struct {
	RhoShare curve.Scalar
	AShare   curve.Scalar
	BigR     curve.Point
}

type dealWire struct {
	RhoCommitments [][]byte `cbor:"rho_commitments"`
	ACommitments   [][]byte `cbor:"a_commitments"`
}

type shareWire struct {
	Rho []byte `cbor:"rho"`
	A   []byte `cbor:"a"`
}

// GenerateNonceShares runs one joint sharing round over participants
// (conceptually grounded on the dealer-less joint polynomial sharing
// shape of a JVSS round: every participant deals, broadcasts Feldman
// commitments, privately distributes shares, and verifies what it
// receives). It does not tolerate an actively cheating dealer beyond
// detecting and aborting on a bad share (robust recovery via
// accusation/resolution is the ErrNotImplemented boundary noted on
// Presign).
func GenerateNonceShares(
	group curve.Curve,
	participants *party.List,
	me party.Participant,
	maxMalicious threshold.MaxMalicious,
	rng io.Reader,
) (*protocol.Protocol[*NonceShares], error) {
	// Robust ECDSA deals its nonce and blind polynomials at t = f
	// coefficients directly (degree f-1), not the f+1 DKG uses: combined
	// with a degree-f keygen share in Sign's final product, the result has
	// degree 2f-1 and reconstructs from 2f points. Dealing, like Sign,
	// requires at least 2f+1 participants.
	t := maxMalicious.Degree()
	need := 2*t + 1
	if participants.Len() < need {
		return nil, &ErrNotEnoughSigners{N: participants.Len(), Need: need}
	}
	if !participants.Contains(me) {
		return nil, &ErrMissingParticipant{ID: me}
	}

	cfg := &nonceConfig{
		group:        group,
		participants: participants,
		me:           me,
		t:            t,
		rng:          rng,
	}
	return protocol.Run(me, participants.Len(), runNonceDealing(cfg)), nil
}

type nonceConfig struct {
	group        curve.Curve
	participants *party.List
	me           party.Participant
	t            int
	rng          io.Reader
}

func runNonceDealing(cfg *nonceConfig) protocol.Body[*NonceShares] {
	return func(eng *round.Engine) (*NonceShares, error) {
		group := cfg.group
		list := cfg.participants
		me := cfg.me
		others := list.Others(me)

		rhoSecret, err := sample.Scalar(cfg.rng, group)
		if err != nil {
			return nil, fmt.Errorf("robust: sampling nonce contribution: %w", err)
		}
		aSecret, err := sample.Scalar(cfg.rng, group)
		if err != nil {
			return nil, fmt.Errorf("robust: sampling blind contribution: %w", err)
		}
		rhoPoly, err := polynomial.NewRandom(group, cfg.t, rhoSecret, cfg.rng)
		if err != nil {
			return nil, fmt.Errorf("robust: sampling nonce polynomial: %w", err)
		}
		aPoly, err := polynomial.NewRandom(group, cfg.t, aSecret, cfg.rng)
		if err != nil {
			return nil, fmt.Errorf("robust: sampling blind polynomial: %w", err)
		}

		rhoCommBytes, err := pointsToBytes(rhoPoly.Commitments())
		if err != nil {
			return nil, fmt.Errorf("robust: serializing nonce commitments: %w", err)
		}
		aCommBytes, err := pointsToBytes(aPoly.Commitments())
		if err != nil {
			return nil, fmt.Errorf("robust: serializing blind commitments: %w", err)
		}
		dealt, err := cbor.Marshal(dealWire{RhoCommitments: rhoCommBytes, ACommitments: aCommBytes})
		if err != nil {
			return nil, fmt.Errorf("robust: encoding dealing payload: %w", err)
		}
		view, err := round.EchoBroadcast(eng, list, me, dealt)
		if err != nil {
			return nil, err
		}

		dealers := make(map[party.Participant]dealWire, list.Len())
		rhoComm := make(map[party.Participant][]curve.Point, list.Len())
		aComm := make(map[party.Participant][]curve.Point, list.Len())
		for _, q := range list.IDs() {
			var w dealWire
			if err := cbor.Unmarshal(view[q], &w); err != nil {
				return nil, &round.ErrMalformedMessage{From: q}
			}
			if len(w.RhoCommitments) != cfg.t || len(w.ACommitments) != cfg.t {
				return nil, &round.ErrMalformedMessage{From: q}
			}
			rp, err := bytesToPoints(group, w.RhoCommitments)
			if err != nil {
				return nil, &round.ErrMalformedMessage{From: q}
			}
			ap, err := bytesToPoints(group, w.ACommitments)
			if err != nil {
				return nil, &round.ErrMalformedMessage{From: q}
			}
			dealers[q] = w
			rhoComm[q] = rp
			aComm[q] = ap
		}

		ch := round.NewSharedChannel(eng)
		for _, q := range others {
			payload, err := cbor.Marshal(shareWire{
				Rho: rhoPoly.Evaluate(q.Scalar(group)).Bytes(),
				A:   aPoly.Evaluate(q.Scalar(group)).Bytes(),
			})
			if err != nil {
				return nil, fmt.Errorf("robust: encoding share for %s: %w", q, err)
			}
			ch.SendTo(q, payload)
		}

		rhoShare := rhoPoly.Evaluate(me.Scalar(group))
		aShare := aPoly.Evaluate(me.Scalar(group))
		bigR := rhoComm[me][0]
		for _, q := range others {
			bigR = bigR.Add(rhoComm[q][0])
		}

		for _, q := range others {
			raw, err := ch.Recv(q)
			if err != nil {
				return nil, err
			}
			var w shareWire
			if err := cbor.Unmarshal(raw, &w); err != nil {
				return nil, &round.ErrMalformedMessage{From: q}
			}
			rhoS, err := group.ScalarFromBytes(w.Rho)
			if err != nil {
				return nil, &round.ErrMalformedMessage{From: q}
			}
			aS, err := group.ScalarFromBytes(w.A)
			if err != nil {
				return nil, &round.ErrMalformedMessage{From: q}
			}
			if !polynomial.VerifyShare(group, rhoComm[q], me.Scalar(group), rhoS) {
				return nil, &ErrInvalidShare{From: q}
			}
			if !polynomial.VerifyShare(group, aComm[q], me.Scalar(group), aS) {
				return nil, &ErrInvalidShare{From: q}
			}
			rhoShare = rhoShare.Add(rhoS)
			aShare = aShare.Add(aS)
		}

		if bigR.IsIdentity() {
			return nil, ErrZeroValue
		}

		return &NonceShares{RhoShare: rhoShare, AShare: aShare, BigR: bigR}, nil
	}
}

func pointsToBytes(pts []curve.Point) ([][]byte, error) {
	out := make([][]byte, len(pts))
	for i, p := range pts {
		b, err := p.Bytes()
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

func bytesToPoints(group curve.Curve, bs [][]byte) ([]curve.Point, error) {
	out := make([]curve.Point, len(bs))
	for i, b := range bs {
		p, err := group.PointFromBytes(b)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}
