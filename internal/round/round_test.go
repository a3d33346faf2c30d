package round_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thresh-sig/core/internal/round"
	"github.com/thresh-sig/core/internal/sim"
	"github.com/thresh-sig/core/pkg/party"
	"github.com/thresh-sig/core/pkg/protocol"
)

// drive wraps each round body in protocol.Run and drives the resulting
// instances to completion with the same simulator used by the protocol
// packages, rather than hand-rolling a second message pump here.
func drive(t *testing.T, list *party.List, bodies map[party.Participant]protocol.Body[any]) map[party.Participant]any {
	t.Helper()
	instances := make(map[party.Participant]sim.Instance[any], list.Len())
	for _, id := range list.IDs() {
		instances[id] = protocol.Run(id, list.Len(), bodies[id])
	}
	out, err := sim.Run(instances, nil)
	require.NoError(t, err)
	return out
}

func TestEchoBroadcastAgreesOnView(t *testing.T) {
	list, err := party.NewList([]party.Participant{1, 2, 3})
	require.NoError(t, err)

	bodies := make(map[party.Participant]protocol.Body[any], list.Len())
	for _, id := range list.IDs() {
		id := id
		bodies[id] = func(eng *round.Engine) (any, error) {
			mine := []byte{byte(id)}
			return round.EchoBroadcast(eng, list, id, mine)
		}
	}

	results := drive(t, list, bodies)
	want := results[list.Get(0)].(map[party.Participant][]byte)
	for _, id := range list.IDs() {
		got := results[id].(map[party.Participant][]byte)
		assert.Equal(t, len(want), len(got))
		for k, v := range want {
			assert.Equal(t, v, got[k])
		}
	}
}

func TestSharedChannelSendToAddressesOneRecipient(t *testing.T) {
	list, err := party.NewList([]party.Participant{1, 2})
	require.NoError(t, err)

	bodies := map[party.Participant]protocol.Body[any]{
		1: func(eng *round.Engine) (any, error) {
			ch := round.NewSharedChannel(eng)
			ch.SendTo(2, []byte("for-two"))
			return nil, nil
		},
		2: func(eng *round.Engine) (any, error) {
			ch := round.NewSharedChannel(eng)
			return ch.Recv(1)
		},
	}

	results := drive(t, list, bodies)
	assert.Equal(t, []byte("for-two"), results[2])
}

func TestRecvAllCollectsEveryContribution(t *testing.T) {
	list, err := party.NewList([]party.Participant{1, 2, 3})
	require.NoError(t, err)

	bodies := make(map[party.Participant]protocol.Body[any], list.Len())
	for _, id := range list.IDs() {
		id := id
		bodies[id] = func(eng *round.Engine) (any, error) {
			ch := round.NewSharedChannel(eng)
			ch.Send([]byte{byte(id)})
			return ch.RecvAll(list.Others(id))
		}
	}

	results := drive(t, list, bodies)
	for _, id := range list.IDs() {
		got := results[id].(map[party.Participant][]byte)
		assert.Len(t, got, list.Len()-1)
		for _, other := range list.Others(id) {
			assert.Equal(t, []byte{byte(other)}, got[other])
		}
	}
}

func TestDeliverDiscardsDuplicateFromSameSender(t *testing.T) {
	eng := round.NewEngine(party.Participant(1), 8)
	// The first channel allocated on a fresh engine always gets waitpoint
	// 0, so this pins Recv to the same waitpoint the two Deliver calls
	// below target.
	sc := round.NewSharedChannel(eng)

	eng.Deliver(party.Participant(2), sc.Waitpoint(), []byte("first"))
	eng.Deliver(party.Participant(2), sc.Waitpoint(), []byte("second"))

	payload, err := sc.Recv(party.Participant(2))
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), payload)
}
