// Package ckd implements Confidential Key Derivation on BLS12-381 G2: a
// single-round, coordinator-terminated protocol that lets a threshold
// cohort jointly derive an application-specific key under an ephemeral
// encryption mask, without ever reconstructing or revealing the group
// signing key (grounded on the ElGamal-over-G2 construction in the
// original confidential_key_derivation module).
package ckd

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/thresh-sig/core/internal/round"
	"github.com/thresh-sig/core/pkg/math/curve"
	"github.com/thresh-sig/core/pkg/party"
	"github.com/thresh-sig/core/pkg/protocol"
)

// Output is the coordinator's result: a masking commitment Y = y·G and
// the masked confidential key C = msk·H(app_id) + y·A, where A is the
// application's own public key. Non-coordinator participants complete
// with a nil Output.
type Output struct {
	Y curve.Point
	C curve.Point
}

// Unmask recovers the confidential key msk·H(app_id) given the
// application's own secret key, by subtracting its contribution to the
// mask: C - appSecret·Y.
func (o *Output) Unmask(appSecret curve.Scalar) curve.Point {
	return o.C.Add(appSecret.Negate().Act(o.Y))
}

type wirePoints struct {
	Y []byte `cbor:"y"`
	C []byte `cbor:"c"`
}

type config struct {
	group         curve.Curve
	participants  *party.List
	coordinator   party.Participant
	me            party.Participant
	privateShare  curve.Scalar
	appID         []byte
	appPublicKey  curve.Point
	rng           io.Reader
}

// Derive starts a confidential key derivation run. Every participant
// runs the identical body; the coordinator additionally collects and
// aggregates every other participant's masked contribution and returns
// a non-nil Output, while everyone else completes with nil.
func Derive(
	group curve.Curve,
	participants *party.List,
	coordinator party.Participant,
	me party.Participant,
	privateShare curve.Scalar,
	appID []byte,
	appPublicKey curve.Point,
	rng io.Reader,
) (*protocol.Protocol[*Output], error) {
	if participants.Len() < 2 {
		return nil, &ErrNotEnoughParticipants{N: participants.Len()}
	}
	if !participants.Contains(me) {
		return nil, &ErrMissingParticipant{Role: "self", ID: me}
	}
	if !participants.Contains(coordinator) {
		return nil, &ErrMissingParticipant{Role: "coordinator", ID: coordinator}
	}

	cfg := &config{
		group:        group,
		participants: participants,
		coordinator:  coordinator,
		me:           me,
		privateShare: privateShare,
		appID:        appID,
		appPublicKey: appPublicKey,
		rng:          rng,
	}
	return protocol.Run(me, participants.Len(), runRound(cfg)), nil
}

func runRound(cfg *config) protocol.Body[*Output] {
	return func(eng *round.Engine) (*Output, error) {
		group := cfg.group

		y, bigY, err := group.GenerateNonce(cfg.rng)
		if err != nil {
			return nil, fmt.Errorf("ckd: sampling ephemeral mask: %w", err)
		}
		hashPoint, err := group.HashToCurve(cfg.appID)
		if err != nil {
			return nil, fmt.Errorf("ckd: hashing application id: %w", err)
		}
		bigS := cfg.privateShare.Act(hashPoint)
		bigC := bigS.Add(y.Act(cfg.appPublicKey))

		lambda, err := cfg.participants.Lagrange(group, cfg.me)
		if err != nil {
			return nil, fmt.Errorf("ckd: computing lagrange coefficient: %w", err)
		}
		normY := lambda.Act(bigY)
		normC := lambda.Act(bigC)

		ch := round.NewSharedChannel(eng)

		if cfg.me != cfg.coordinator {
			yBytes, err := normY.Bytes()
			if err != nil {
				return nil, fmt.Errorf("ckd: serializing masking point: %w", err)
			}
			cBytes, err := normC.Bytes()
			if err != nil {
				return nil, fmt.Errorf("ckd: serializing masked key: %w", err)
			}
			payload, err := cbor.Marshal(wirePoints{Y: yBytes, C: cBytes})
			if err != nil {
				return nil, fmt.Errorf("ckd: encoding contribution: %w", err)
			}
			ch.SendTo(cfg.coordinator, payload)
			return nil, nil
		}

		accY, accC := normY, normC
		for _, q := range cfg.participants.Others(cfg.me) {
			raw, err := ch.Recv(q)
			if err != nil {
				return nil, err
			}
			var w wirePoints
			if err := cbor.Unmarshal(raw, &w); err != nil {
				return nil, &round.ErrMalformedMessage{From: q}
			}
			qY, err := group.PointFromBytes(w.Y)
			if err != nil {
				return nil, &round.ErrMalformedMessage{From: q}
			}
			qC, err := group.PointFromBytes(w.C)
			if err != nil {
				return nil, &round.ErrMalformedMessage{From: q}
			}
			accY = accY.Add(qY)
			accC = accC.Add(qC)
		}

		return &Output{Y: accY, C: accC}, nil
	}
}
