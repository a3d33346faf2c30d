package keygen

import (
	"io"

	"github.com/thresh-sig/core/pkg/math/curve"
	"github.com/thresh-sig/core/pkg/party"
	"github.com/thresh-sig/core/pkg/threshold"
)

// config pins everything a running instance's round body needs once
// initialization has fixed the per-participant initial-share policy:
// DKG, Refresh, and Reshare share one engine parameterized by this
// policy.
type config struct {
	group curve.Curve

	me              party.Participant
	participants    *party.List // the new participant set
	oldParticipants *party.List // nil for a pure DKG

	t            int
	maxMalicious threshold.MaxMalicious

	secret   curve.Scalar
	isJoiner bool

	oldPublicKey curve.Point // nil unless Refresh/Reshare

	rng io.Reader
}

// validateCommon runs the invariants every entry point shares.
func validateCommon(participants *party.List, me party.Participant, maxMalicious threshold.MaxMalicious) error {
	if participants.Len() < 2 {
		return &ErrNotEnoughParticipants{N: participants.Len()}
	}
	if !participants.Contains(me) {
		return &ErrMissingParticipant{Role: "self", ID: me}
	}
	if int(maxMalicious) >= participants.Len() {
		return &ErrThresholdOutOfRange{MaxMalicious: maxMalicious, N: participants.Len()}
	}
	return nil
}
