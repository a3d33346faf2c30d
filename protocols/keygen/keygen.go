// Package keygen implements the unified Distributed Key Generation /
// Refresh / Reshare engine: a single five-round verifiable-secret-sharing
// protocol parameterized by an initial-share policy that differs across
// the three entry points.
package keygen

import (
	"fmt"
	"io"

	"github.com/thresh-sig/core/pkg/math/curve"
	"github.com/thresh-sig/core/pkg/math/sample"
	"github.com/thresh-sig/core/pkg/party"
	"github.com/thresh-sig/core/pkg/protocol"
	"github.com/thresh-sig/core/pkg/threshold"
)

// Keygen starts a fresh distributed key generation among participants,
// with this instance's own identity me and malicious bound maxMalicious.
// Every coefficient is sampled at random and every participant proves
// knowledge of its polynomial's constant term.
func Keygen(group curve.Curve, participants *party.List, me party.Participant, maxMalicious threshold.MaxMalicious, rng io.Reader) (*protocol.Protocol[*KeygenOutput], error) {
	if err := validateCommon(participants, me, maxMalicious); err != nil {
		return nil, err
	}

	secret, err := sample.Scalar(rng, group)
	if err != nil {
		return nil, fmt.Errorf("keygen: sampling initial secret: %w", err)
	}
	if secret.IsZero() {
		return nil, &ErrZeroShareFromOldParticipant{Me: me}
	}

	cfg := &config{
		group:        group,
		me:           me,
		participants: participants,
		t:            maxMalicious.Threshold(),
		maxMalicious: maxMalicious,
		secret:       secret,
		isJoiner:     false,
		rng:          rng,
	}
	return protocol.Run(me, participants.Len(), runRound(cfg)), nil
}

// Refresh re-randomizes an existing keyshare without changing the
// participant set, threshold, or group public key. Every honest
// participant's resulting signing share differs from its previous one,
// but the aggregate secret is unchanged.
func Refresh(group curve.Curve, old *KeygenOutput, participants *party.List, me party.Participant, rng io.Reader) (*protocol.Protocol[*KeygenOutput], error) {
	if err := validateCommon(participants, me, old.MaxMalicious); err != nil {
		return nil, err
	}

	coeff, err := participants.Lagrange(group, me)
	if err != nil {
		return nil, fmt.Errorf("keygen: computing refresh lagrange coefficient: %w", err)
	}
	secret := coeff.Mul(old.PrivateShare)
	if secret.IsZero() {
		return nil, &ErrZeroShareFromOldParticipant{Me: me}
	}

	cfg := &config{
		group:           group,
		me:              me,
		participants:    participants,
		oldParticipants: participants,
		t:               old.MaxMalicious.Threshold(),
		maxMalicious:    old.MaxMalicious,
		secret:          secret,
		isJoiner:        false,
		oldPublicKey:    old.PublicKey,
		rng:             rng,
	}
	return protocol.Run(me, participants.Len(), runRound(cfg)), nil
}

// Reshare moves the keyshare to a new participant set and/or malicious
// bound while preserving the group public key. A continuing member
// (present in both oldParticipants and newParticipants) must supply its
// oldShare; a joiner (present only in newParticipants) must supply nil
// and receives an initial secret of zero.
func Reshare(
	group curve.Curve,
	oldParticipants *party.List,
	oldMaxMalicious threshold.MaxMalicious,
	oldShare curve.Scalar,
	oldPublicKey curve.Point,
	newParticipants *party.List,
	newMaxMalicious threshold.MaxMalicious,
	me party.Participant,
	rng io.Reader,
) (*protocol.Protocol[*KeygenOutput], error) {
	if err := validateCommon(newParticipants, me, newMaxMalicious); err != nil {
		return nil, err
	}

	oldThreshold := oldMaxMalicious.Threshold()
	intersection := oldParticipants.Intersection(newParticipants)
	if len(intersection) < oldThreshold {
		return nil, &ErrInsufficientIntersection{Have: len(intersection), Need: oldThreshold}
	}

	isOld := oldParticipants.Contains(me)
	if isOld && oldShare == nil {
		return nil, &ErrOldShareMismatch{ID: me}
	}
	if !isOld && oldShare != nil {
		return nil, &ErrOldShareMismatch{ID: me}
	}

	isJoiner := !isOld
	var secret curve.Scalar
	if isJoiner {
		secret = group.Zero()
	} else {
		interList, err := party.NewList(intersection)
		if err != nil {
			return nil, &ErrAssertionFailed{Reason: "building old/new intersection: " + err.Error()}
		}
		coeff, err := interList.Lagrange(group, me)
		if err != nil {
			return nil, fmt.Errorf("keygen: computing reshare lagrange coefficient: %w", err)
		}
		secret = coeff.Mul(oldShare)
		if secret.IsZero() {
			return nil, &ErrZeroShareFromOldParticipant{Me: me}
		}
	}

	cfg := &config{
		group:           group,
		me:              me,
		participants:    newParticipants,
		oldParticipants: oldParticipants,
		t:               newMaxMalicious.Threshold(),
		maxMalicious:    newMaxMalicious,
		secret:          secret,
		isJoiner:        isJoiner,
		oldPublicKey:    oldPublicKey,
		rng:             rng,
	}
	return protocol.Run(me, newParticipants.Len(), runRound(cfg)), nil
}
