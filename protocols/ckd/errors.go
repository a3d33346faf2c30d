package ckd

import (
	"fmt"

	"github.com/thresh-sig/core/pkg/party"
)

// ErrNotEnoughParticipants is returned when fewer than two participants
// are supplied.
type ErrNotEnoughParticipants struct{ N int }

func (e *ErrNotEnoughParticipants) Error() string {
	return fmt.Sprintf("ckd: %d participants is below the minimum of 2", e.N)
}

// ErrMissingParticipant is returned when self or the coordinator is
// absent from the participant list.
type ErrMissingParticipant struct {
	Role string
	ID   party.Participant
}

func (e *ErrMissingParticipant) Error() string {
	return fmt.Sprintf("ckd: %s %s is missing", e.Role, e.ID)
}
