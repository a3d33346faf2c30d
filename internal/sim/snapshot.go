// Package sim drives a full N-party protocol run in-process for tests
// and recreational debugging: Run pokes every participant's handle in
// lockstep and routes its outbound messages to the right recipients,
// while Snapshot optionally records each participant's inbound message
// stream so a single participant's run can later be replayed without
// the rest of the cohort.
package sim

import (
	"sync"

	"github.com/thresh-sig/core/internal/round"
	"github.com/thresh-sig/core/pkg/party"
)

// ReceivedMessage is one entry in a participant's recorded inbound
// stream.
type ReceivedMessage struct {
	From      party.Participant
	Waitpoint round.Waitpoint
	Payload   []byte
}

// Snapshot records every message delivered to every participant during
// a Run, in delivery order, so a later run can be compared against it
// or a single participant's view can be replayed in isolation.
type Snapshot struct {
	mu       sync.Mutex
	received map[party.Participant][]ReceivedMessage
}

// NewSnapshot preallocates an empty recording slot for each participant.
func NewSnapshot(participants []party.Participant) *Snapshot {
	s := &Snapshot{received: make(map[party.Participant][]ReceivedMessage, len(participants))}
	for _, p := range participants {
		s.received[p] = nil
	}
	return s
}

func (s *Snapshot) record(to party.Participant, msg ReceivedMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.received[to] = append(s.received[to], msg)
}

// MessagesFor returns participant's full recorded inbound stream, in
// delivery order. The returned slice must not be mutated.
func (s *Snapshot) MessagesFor(participant party.Participant) []ReceivedMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.received[participant]
}

// NumParticipants returns how many participants this snapshot covers.
func (s *Snapshot) NumParticipants() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.received)
}
