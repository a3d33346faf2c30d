// Package protocol implements the host-facing surface of the
// Communication Engine: a Protocol[T] handle exposing a poke/message
// contract, wrapping a protocol body that runs as its own goroutine
// against an internal/round.Engine.
//
// A channel-based handle (Listen() <-chan *Message / Accept(*Message))
// would expose this same idea; Protocol[T] instead keeps a
// goroutine-driven core but surfaces it through a generator-shaped
// poke()/message() contract at the boundary.
package protocol

import (
	"github.com/thresh-sig/core/internal/round"
	"github.com/thresh-sig/core/pkg/party"
)

// outboxCapacityPerParticipant sizes the buffered channel a protocol
// body's sends land on: Run allocates n*outboxCapacityPerParticipant+8
// slots, well beyond one send per other participant per round.
const outboxCapacityPerParticipant = 4

// Outcome tags the result of a single Poke call.
type Outcome int

const (
	// NeedMore indicates the protocol is waiting on inbound messages.
	NeedMore Outcome = iota
	// SendOutcome indicates an outbound message is ready; see Poked.Send.
	SendOutcome
	// DoneOutcome indicates the protocol completed; see Poked.Output.
	DoneOutcome
	// ErrOutcome indicates the protocol aborted; see Poked.Err.
	ErrOutcome
)

// SendItem is the outbound message a Poke(SendOutcome) call returns.
// Recipient == nil means broadcast to every other participant.
type SendItem struct {
	Recipient *party.Participant
	Waitpoint round.Waitpoint
	Payload   []byte
}

// Poked is the tagged result of a single Poke call: a
// {Send|NeedMore|Done|Err} sum type.
type Poked[T any] struct {
	Outcome Outcome
	Send    SendItem
	Output  T
	Err     error
}

// Body is the protocol logic, run on its own goroutine against eng. It
// returns the final output or a protocol error, always fatal to the
// instance.
type Body[T any] func(eng *round.Engine) (T, error)

// Protocol is the host-facing handle for a running protocol instance. Not
// safe for concurrent Poke/Message calls from multiple goroutines; a
// single instance must be poked from one thread at a time.
type Protocol[T any] struct {
	eng      *round.Engine
	resultCh chan bodyResult[T]

	done   bool
	output T
	err    error
}

type bodyResult[T any] struct {
	output T
	err    error
}

// Run starts body as a protocol instance for participant self over n
// total participants (used only to size the outbox buffer).
func Run[T any](self party.Participant, n int, body Body[T]) *Protocol[T] {
	eng := round.NewEngine(self, n*outboxCapacityPerParticipant+8)
	p := &Protocol[T]{
		eng:      eng,
		resultCh: make(chan bodyResult[T], 1),
	}
	go func() {
		out, err := body(eng)
		p.resultCh <- bodyResult[T]{output: out, err: err}
	}()
	return p
}

// Poke advances the host's view of the protocol by one step. It never
// blocks: outbound sends are drained first (so nothing queued is lost
// behind a concurrently-ready completion), then completion is checked,
// and otherwise NeedMore is returned.
func (p *Protocol[T]) Poke() Poked[T] {
	if p.done {
		return p.cached()
	}

	select {
	case m, ok := <-p.eng.Outbox():
		if ok {
			return Poked[T]{
				Outcome: SendOutcome,
				Send: SendItem{
					Recipient: m.Recipient,
					Waitpoint: m.Waitpoint,
					Payload:   m.Payload,
				},
			}
		}
	default:
	}

	select {
	case r := <-p.resultCh:
		p.done = true
		p.output = r.output
		p.err = r.err
		return p.cached()
	default:
		return Poked[T]{Outcome: NeedMore}
	}
}

func (p *Protocol[T]) cached() Poked[T] {
	if p.err != nil {
		return Poked[T]{Outcome: ErrOutcome, Err: p.err}
	}
	return Poked[T]{Outcome: DoneOutcome, Output: p.output}
}

// Message delivers an inbound wire message to the protocol's buffer. It
// is safe to call before the protocol body has reached the matching
// waitpoint; the engine buffers it.
func (p *Protocol[T]) Message(from party.Participant, wp round.Waitpoint, payload []byte) {
	p.eng.Deliver(from, wp, payload)
}

// Cancel aborts the protocol instance, freeing buffered messages and
// signalling the body's blocked receives to unwind. No further sends
// are produced after Cancel.
func (p *Protocol[T]) Cancel() {
	p.eng.Cancel()
}
