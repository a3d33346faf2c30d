package keygen

import (
	"fmt"

	"github.com/thresh-sig/core/pkg/party"
	"github.com/thresh-sig/core/pkg/threshold"
)

// Initialization errors are caught before any message is sent, from the
// arguments a caller passes to Keygen/Refresh/Reshare.

// ErrNotEnoughParticipants is returned when the new participant set has
// fewer than two members.
type ErrNotEnoughParticipants struct{ N int }

func (e *ErrNotEnoughParticipants) Error() string {
	return fmt.Sprintf("keygen: %d participants is below the minimum of 2", e.N)
}

// ErrDuplicateParticipants describes a participant list with a repeated
// identifier. Keygen, Refresh and Reshare never return it: they take a
// *party.List, and party.NewList rejects duplicates before one is built.
type ErrDuplicateParticipants struct{}

func (e *ErrDuplicateParticipants) Error() string {
	return "keygen: duplicate participant identifiers"
}

// ErrMissingParticipant is returned when a required role (self, or a
// continuing old-share holder) is absent from the relevant list.
type ErrMissingParticipant struct {
	Role string
	ID   party.Participant
}

func (e *ErrMissingParticipant) Error() string {
	return fmt.Sprintf("keygen: %s %s is missing", e.Role, e.ID)
}

// ErrThresholdOutOfRange is returned when max_malicious >= N.
type ErrThresholdOutOfRange struct {
	MaxMalicious threshold.MaxMalicious
	N            int
}

func (e *ErrThresholdOutOfRange) Error() string {
	return fmt.Sprintf("keygen: max_malicious=%d is out of range for %d participants", e.MaxMalicious, e.N)
}

// ErrInsufficientIntersection is returned when a reshare's continuing
// membership cannot reconstruct the old secret.
type ErrInsufficientIntersection struct {
	Have, Need int
}

func (e *ErrInsufficientIntersection) Error() string {
	return fmt.Sprintf("keygen: old/new intersection has %d members, need at least %d", e.Have, e.Need)
}

// ErrOldShareMismatch is returned when a joiner supplies an old share, or
// a continuing member fails to.
type ErrOldShareMismatch struct {
	ID party.Participant
}

func (e *ErrOldShareMismatch) Error() string {
	return fmt.Sprintf("keygen: old-share presence for %s does not match its old/new membership", e.ID)
}

// Protocol errors are discovered mid-run and are always fatal to the
// running instance. round.ErrMalformedMessage and round.ErrInconsistent
// (echo-broadcast equivocation) complete this taxonomy; they are defined
// in internal/round since both the DKG engine and any future protocol
// built on the same communication engine can raise them.

// ErrInvalidCommitmentHash is returned when a participant's round-2
// commitment vector does not hash to the value it published in round 1.
type ErrInvalidCommitmentHash struct{ From party.Participant }

func (e *ErrInvalidCommitmentHash) Error() string {
	return fmt.Sprintf("keygen: commitment from %s does not match its round-1 hash", e.From)
}

// ErrIncorrectNumberOfCommitments is returned when a participant's
// commitment vector has the wrong length for its joiner/non-joiner role.
type ErrIncorrectNumberOfCommitments struct{ From party.Participant }

func (e *ErrIncorrectNumberOfCommitments) Error() string {
	return fmt.Sprintf("keygen: %s sent the wrong number of coefficient commitments", e.From)
}

// ErrInvalidProofOfKnowledge is returned when a participant's PoK fails
// to verify against its own published constant term.
type ErrInvalidProofOfKnowledge struct{ From party.Participant }

func (e *ErrInvalidProofOfKnowledge) Error() string {
	return fmt.Sprintf("keygen: proof of knowledge from %s failed to verify", e.From)
}

// ErrInvalidSecretShare is returned when a privately-received share fails
// the VSS predicate against the sender's published commitments.
type ErrInvalidSecretShare struct{ From party.Participant }

func (e *ErrInvalidSecretShare) Error() string {
	return fmt.Sprintf("keygen: secret share from %s fails the VSS check", e.From)
}

// ErrMaliciousParticipant is returned when a PoK's presence or absence is
// inconsistent with the sender's joiner/non-joiner role.
type ErrMaliciousParticipant struct{ From party.Participant }

func (e *ErrMaliciousParticipant) Error() string {
	return fmt.Sprintf("keygen: %s's proof-of-knowledge presence is inconsistent with its role", e.From)
}

// ErrPublicKeyMismatch is returned when a refresh or reshare's
// reconstructed public key differs from the one supplied by the caller.
type ErrPublicKeyMismatch struct{}

func (e *ErrPublicKeyMismatch) Error() string {
	return "keygen: reconstructed public key does not match the supplied old public key"
}

// ErrAssertionFailed wraps an internal invariant violation that should be
// unreachable in a correct caller; it always indicates a programmer
// error rather than adversarial behavior.
type ErrAssertionFailed struct{ Reason string }

func (e *ErrAssertionFailed) Error() string {
	return fmt.Sprintf("keygen: internal invariant violated: %s", e.Reason)
}

// ErrZeroShareFromOldParticipant is returned when the initial-share
// policy would hand a zero secret to a participant who already held an
// old share; this is always a caller misuse, never an adversarial
// condition, since the policy is derived locally.
type ErrZeroShareFromOldParticipant struct{ Me party.Participant }

func (e *ErrZeroShareFromOldParticipant) Error() string {
	return fmt.Sprintf("keygen: %s would receive a zero initial share despite holding an old share", e.Me)
}
