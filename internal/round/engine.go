// Package round implements the Communication Engine: the cooperative
// scheduler that drives a protocol body (run as its own goroutine) against
// a host that pumps it for outbound messages and feeds it inbound ones.
//
// A protocol body never blocks the host. It blocks itself on channel
// receives at well-defined Waitpoints; the Engine buffers inbound
// messages that arrive before the body reaches the matching waitpoint,
// and discards duplicates from the same sender on the same waitpoint
// after the first is accepted.
package round

import (
	"context"
	"fmt"
	"sync"

	"github.com/thresh-sig/core/pkg/party"
)

// Waitpoint is a monotonically increasing per-logical-channel round
// label. Each SharedChannel allocates its own Waitpoint from a shared
// Engine counter so two channels never collide.
type Waitpoint uint32

// OutMessage is an item the protocol body wants the host to deliver.
// Recipient == nil means broadcast to every participant.
type OutMessage struct {
	Waitpoint Waitpoint
	Recipient *party.Participant
	Payload   []byte
}

// ErrMalformedMessage is the protocol-level error the engine surfaces
// when a received payload fails to decode or otherwise violates a wire
// invariant.
type ErrMalformedMessage struct {
	From party.Participant
}

func (e *ErrMalformedMessage) Error() string {
	return fmt.Sprintf("round: malformed message from %s", e.From)
}

// Engine is the per-instance scheduler state. It is created by
// pkg/protocol.Run and passed to the protocol body; application code
// never constructs one directly.
type Engine struct {
	self party.Participant

	mu      sync.Mutex
	inbox   map[Waitpoint]map[party.Participant][]byte
	waiters map[Waitpoint]map[party.Participant][]chan struct{}

	nextWP Waitpoint

	outbox chan OutMessage

	ctx    context.Context
	cancel context.CancelFunc
}

// NewEngine creates an Engine for participant self. outboxCap sizes the
// buffered outbound channel so sends never block the protocol body.
func NewEngine(self party.Participant, outboxCap int) *Engine {
	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		self:    self,
		inbox:   make(map[Waitpoint]map[party.Participant][]byte),
		waiters: make(map[Waitpoint]map[party.Participant][]chan struct{}),
		outbox:  make(chan OutMessage, outboxCap),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Self returns the participant this engine is running as.
func (e *Engine) Self() party.Participant { return e.self }

// Outbox is the channel the protocol body's sends land on and the host
// drains via Poke.
func (e *Engine) Outbox() <-chan OutMessage { return e.outbox }

// Cancel aborts the engine: every blocked Recv returns context.Canceled
// and no further sends are produced. Mirrors dropping the Protocol
// handle.
func (e *Engine) Cancel() { e.cancel() }

// NextWaitpoint allocates a fresh Waitpoint, used by channel
// constructors so independent logical channels never share a namespace.
func (e *Engine) NextWaitpoint() Waitpoint {
	e.mu.Lock()
	defer e.mu.Unlock()
	wp := e.nextWP
	e.nextWP++
	return wp
}

// send is non-blocking from the protocol body's perspective: it always
// succeeds immediately because the outbox is sized for the whole
// protocol's worst-case fan-out.
func (e *Engine) send(wp Waitpoint, to *party.Participant, payload []byte) {
	e.outbox <- OutMessage{Waitpoint: wp, Recipient: to, Payload: payload}
}

// Deliver is called by the host (pkg/protocol.Protocol.Message) to feed
// an inbound message to the engine. Duplicate (from, waitpoint) pairs
// are silently discarded after the first.
func (e *Engine) Deliver(from party.Participant, wp Waitpoint, payload []byte) {
	e.mu.Lock()
	if e.inbox[wp] == nil {
		e.inbox[wp] = make(map[party.Participant][]byte)
	}
	if _, dup := e.inbox[wp][from]; dup {
		e.mu.Unlock()
		return
	}
	e.inbox[wp][from] = payload
	waiters := e.waiters[wp][from]
	delete(e.waiters[wp], from)
	e.mu.Unlock()

	for _, ch := range waiters {
		close(ch)
	}
}

// recv blocks until a message from `from` on waitpoint wp has arrived,
// or the engine is cancelled.
func (e *Engine) recv(wp Waitpoint, from party.Participant) ([]byte, error) {
	e.mu.Lock()
	if msgs, ok := e.inbox[wp]; ok {
		if payload, ok := msgs[from]; ok {
			e.mu.Unlock()
			return payload, nil
		}
	}
	ready := make(chan struct{})
	if e.waiters[wp] == nil {
		e.waiters[wp] = make(map[party.Participant][]chan struct{})
	}
	e.waiters[wp][from] = append(e.waiters[wp][from], ready)
	e.mu.Unlock()

	select {
	case <-ready:
	case <-e.ctx.Done():
		return nil, e.ctx.Err()
	}

	e.mu.Lock()
	payload := e.inbox[wp][from]
	e.mu.Unlock()
	return payload, nil
}
