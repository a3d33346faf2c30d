package otbased

import (
	"fmt"

	"github.com/thresh-sig/core/pkg/party"
)

// ErrNotEnoughParticipants is returned when fewer than two signers take
// part in a presign run.
type ErrNotEnoughParticipants struct{ N int }

func (e *ErrNotEnoughParticipants) Error() string {
	return fmt.Sprintf("otbased: %d participants is below the minimum of 2", e.N)
}

// ErrMissingParticipant is returned when self is absent from the signer
// list.
type ErrMissingParticipant struct{ ID party.Participant }

func (e *ErrMissingParticipant) Error() string {
	return fmt.Sprintf("otbased: %s is not a member of the signer list", e.ID)
}

// ErrZeroNonce is the negligible-probability abort when the aggregate
// nonce or its r-coordinate lands on zero; callers should resample.
var ErrZeroNonce = fmt.Errorf("otbased: aggregate nonce reduced to zero, resample")
