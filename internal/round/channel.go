package round

import "github.com/thresh-sig/core/pkg/party"

// SharedChannel serves an all-to-all round: every participant broadcasts
// once and every other participant receives it.
type SharedChannel struct {
	eng *Engine
	wp  Waitpoint
}

// NewSharedChannel allocates a fresh Waitpoint for an all-to-all round.
func NewSharedChannel(eng *Engine) *SharedChannel {
	return &SharedChannel{eng: eng, wp: eng.NextWaitpoint()}
}

// Waitpoint returns the channel's underlying label, used by the host to
// route inbound wire messages to this channel via Engine.Deliver.
func (c *SharedChannel) Waitpoint() Waitpoint { return c.wp }

// Send broadcasts payload to every other participant. It never blocks.
func (c *SharedChannel) Send(payload []byte) {
	c.eng.send(c.wp, nil, payload)
}

// SendTo delivers a payload addressed to a single peer over this
// channel's waitpoint, distinct from whatever SendTo sends to any other
// peer. A round with N-1 distinct private payloads to send (e.g. DKG
// round 3's per-recipient shares) needs only one allocated waitpoint
// this way, since the inbox is keyed by (waitpoint, sender) rather than
// by recipient: every participant reaches the same waitpoint number for
// the round regardless of loop order, and the host routes each
// recipient-addressed OutMessage over the wire independently.
func (c *SharedChannel) SendTo(peer party.Participant, payload []byte) {
	c.eng.send(c.wp, &peer, payload)
}

// Recv blocks until from's contribution on this channel has arrived.
func (c *SharedChannel) Recv(from party.Participant) ([]byte, error) {
	return c.eng.recv(c.wp, from)
}

// RecvAll blocks until every participant in others has contributed,
// returning their payloads keyed by sender. Reception is tracked
// through a party.Map so a transport that redelivers the same message
// twice cannot double-count it.
func (c *SharedChannel) RecvAll(others []party.Participant) (map[party.Participant][]byte, error) {
	list, err := party.NewList(others)
	if err != nil {
		return nil, err
	}
	received := party.NewMap[[]byte](list)
	for _, p := range others {
		payload, err := c.Recv(p)
		if err != nil {
			return nil, err
		}
		received.Put(p, payload)
	}
	out := make(map[party.Participant][]byte, len(others))
	received.Range(func(p party.Participant, payload []byte) { out[p] = payload })
	return out, nil
}

