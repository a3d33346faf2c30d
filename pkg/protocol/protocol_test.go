package protocol_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thresh-sig/core/internal/round"
	"github.com/thresh-sig/core/pkg/party"
	"github.com/thresh-sig/core/pkg/protocol"
)

func pokeUntil(t *testing.T, p *protocol.Protocol[int], outcome protocol.Outcome) protocol.Poked[int] {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		poked := p.Poke()
		if poked.Outcome == outcome {
			return poked
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for outcome %v, last was %v", outcome, poked.Outcome)
		case <-time.After(time.Millisecond):
		}
	}
}

func TestProtocolSendsThenCompletes(t *testing.T) {
	self := party.Participant(1)
	peer := party.Participant(2)

	p := protocol.Run(self, 2, func(eng *round.Engine) (int, error) {
		ch := round.NewSharedChannel(eng)
		ch.SendTo(peer, []byte("hello"))
		reply, err := ch.Recv(peer)
		if err != nil {
			return 0, err
		}
		return len(reply), nil
	})

	sent := pokeUntil(t, p, protocol.SendOutcome)
	require.NotNil(t, sent.Send.Recipient)
	assert.Equal(t, peer, *sent.Send.Recipient)
	assert.Equal(t, []byte("hello"), sent.Send.Payload)

	p.Message(peer, sent.Send.Waitpoint, []byte("hi!!!"))

	done := pokeUntil(t, p, protocol.DoneOutcome)
	assert.Equal(t, 5, done.Output)

	// Once done, further pokes keep returning the cached result.
	again := p.Poke()
	assert.Equal(t, protocol.DoneOutcome, again.Outcome)
	assert.Equal(t, 5, again.Output)
}

func TestProtocolSurfacesBodyError(t *testing.T) {
	self := party.Participant(1)
	wantErr := errors.New("boom")

	p := protocol.Run(self, 1, func(eng *round.Engine) (int, error) {
		return 0, wantErr
	})

	errd := pokeUntil(t, p, protocol.ErrOutcome)
	assert.ErrorIs(t, errd.Err, wantErr)
}

func TestCancelUnblocksPendingReceive(t *testing.T) {
	self := party.Participant(1)
	peer := party.Participant(2)

	p := protocol.Run(self, 2, func(eng *round.Engine) (int, error) {
		ch := round.NewSharedChannel(eng)
		ch.Send([]byte("ping"))
		_, err := ch.Recv(peer)
		return 0, err
	})

	pokeUntil(t, p, protocol.SendOutcome)
	p.Cancel()

	errd := pokeUntil(t, p, protocol.ErrOutcome)
	assert.Error(t, errd.Err)
}

func TestMessageBeforeMatchingWaitpointIsBuffered(t *testing.T) {
	self := party.Participant(1)
	peer := party.Participant(2)

	p := protocol.Run(self, 2, func(eng *round.Engine) (int, error) {
		ch := round.NewSharedChannel(eng)
		payload, err := ch.Recv(peer)
		if err != nil {
			return 0, err
		}
		return len(payload), nil
	})

	// Deliver before the body even issues its first Poke-visible send;
	// the waitpoint numbering is deterministic (first channel == wp 0)
	// so this simulates a message arriving ahead of the local round.
	p.Message(peer, 0, []byte("early"))

	done := pokeUntil(t, p, protocol.DoneOutcome)
	assert.Equal(t, 5, done.Output)
}
