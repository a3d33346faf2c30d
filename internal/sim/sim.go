package sim

import (
	"fmt"
	"runtime"

	"github.com/thresh-sig/core/internal/round"
	"github.com/thresh-sig/core/pkg/party"
	"github.com/thresh-sig/core/pkg/protocol"
)

// maxStalledSweeps bounds how many consecutive unproductive sweeps Run
// tolerates before declaring a real deadlock. A body goroutine that
// hasn't reached its first Send yet reports NeedMore just like a
// genuinely stuck one; yielding between sweeps gives it a chance to
// catch up before Run gives up on it.
const maxStalledSweeps = 64

// Instance is the subset of *protocol.Protocol[T] the simulator drives:
// any real protocol handle satisfies it as-is.
type Instance[T any] interface {
	Poke() protocol.Poked[T]
	Message(from party.Participant, wp round.Waitpoint, payload []byte)
}

// Run drives every participant's instance to completion, round-robin
// poking each one and routing its outbound sends to the right
// recipients (or to everyone else, for a nil Recipient broadcast). If
// snap is non-nil, every delivered message is recorded into it. Run
// returns once every instance has produced an output, or the first
// instance to report a protocol error.
func Run[T any](instances map[party.Participant]Instance[T], snap *Snapshot) (map[party.Participant]T, error) {
	outputs := make(map[party.Participant]T, len(instances))
	pending := make(map[party.Participant]bool, len(instances))
	for id := range instances {
		pending[id] = true
	}

	stalled := 0
	for len(pending) > 0 {
		progressed := false
		for id := range pending {
			poked := instances[id].Poke()
			switch poked.Outcome {
			case protocol.SendOutcome:
				progressed = true
				deliver(instances, snap, id, poked.Send)
			case protocol.DoneOutcome:
				progressed = true
				outputs[id] = poked.Output
				delete(pending, id)
			case protocol.ErrOutcome:
				return nil, fmt.Errorf("sim: %s aborted: %w", id, poked.Err)
			case protocol.NeedMore:
			}
		}
		if !progressed {
			stalled++
			if stalled > maxStalledSweeps {
				return nil, fmt.Errorf("sim: deadlocked with %d participant(s) still waiting", len(pending))
			}
			runtime.Gosched()
			continue
		}
		stalled = 0
	}
	return outputs, nil
}

func deliver[T any](instances map[party.Participant]Instance[T], snap *Snapshot, from party.Participant, send protocol.SendItem) {
	if send.Recipient != nil {
		to := *send.Recipient
		inst, ok := instances[to]
		if !ok {
			return
		}
		inst.Message(from, send.Waitpoint, send.Payload)
		if snap != nil {
			snap.record(to, ReceivedMessage{From: from, Waitpoint: send.Waitpoint, Payload: send.Payload})
		}
		return
	}
	for to, inst := range instances {
		if to == from {
			continue
		}
		inst.Message(from, send.Waitpoint, send.Payload)
		if snap != nil {
			snap.record(to, ReceivedMessage{From: from, Waitpoint: send.Waitpoint, Payload: send.Payload})
		}
	}
}

// Replay drives a single live instance using a previously recorded
// Snapshot in place of its real peers: every NeedMore is answered with
// the next message id originally received during the recorded run, in
// arrival order, regardless of what the instance itself tries to send
// this time around. This reproduces one participant's exact execution
// path for debugging without needing the rest of the cohort online.
func Replay[T any](instance Instance[T], snap *Snapshot, id party.Participant) (T, error) {
	var zero T
	msgs := snap.MessagesFor(id)
	next := 0

	for {
		poked := instance.Poke()
		switch poked.Outcome {
		case protocol.DoneOutcome:
			return poked.Output, nil
		case protocol.ErrOutcome:
			return zero, poked.Err
		case protocol.SendOutcome:
			// Outbound sends are dropped: replay only needs to advance
			// this instance's own state machine, not feed simulated peers.
		case protocol.NeedMore:
			if next >= len(msgs) {
				return zero, fmt.Errorf("sim: replay for %s exhausted %d recorded message(s) before completion", id, len(msgs))
			}
			m := msgs[next]
			next++
			instance.Message(m.From, m.Waitpoint, m.Payload)
		}
	}
}
