package round

import (
	"bytes"
	"fmt"

	"github.com/thresh-sig/core/pkg/party"
)

// ErrInconsistent is returned by EchoBroadcast when two honest
// participants' echoed views disagree, identifying the equivocating
// sender.
type ErrInconsistent struct {
	From party.Participant
}

func (e *ErrInconsistent) Error() string {
	return fmt.Sprintf("round: echo-broadcast equivocation by %s", e.From)
}

// EchoBroadcast runs the two-round reliable-broadcast sub-protocol: every
// participant broadcasts mine on w1, collects one message from every
// participant, then re-broadcasts the full vector it saw on w2. A
// participant whose echoed vector disagrees with the local view at any
// entry q causes every honest party to abort with ErrInconsistent{q}.
//
// list must include me. mine is this participant's own contribution; it
// is inserted into the returned map directly rather than being sent to
// itself, since a sender never actually needs to transmit its own
// contribution back to itself.
func EchoBroadcast(eng *Engine, list *party.List, me party.Participant, mine []byte) (map[party.Participant][]byte, error) {
	w1 := NewSharedChannel(eng)
	w2 := NewSharedChannel(eng)

	w1.Send(mine)

	others := list.Others(me)
	seen := party.NewCounter(list)
	seen.Mark(me)
	view := make(map[party.Participant][]byte, list.Len())
	view[me] = mine
	for _, p := range others {
		payload, err := w1.Recv(p)
		if err != nil {
			return nil, err
		}
		seen.Mark(p)
		view[p] = payload
	}
	if !seen.Full() {
		return nil, fmt.Errorf("round: echo-broadcast round 1 missing contributions from %v", seen.Missing())
	}

	encoded := encodeView(list, view)
	w2.Send(encoded)

	for _, p := range others {
		echoed, err := w2.Recv(p)
		if err != nil {
			return nil, err
		}
		echoedView, err := decodeView(echoed)
		if err != nil {
			return nil, &ErrMalformedMessage{From: p}
		}
		for _, q := range list.IDs() {
			mv, ok1 := view[q]
			ev, ok2 := echoedView[q]
			if ok1 != ok2 || !bytes.Equal(mv, ev) {
				return nil, &ErrInconsistent{From: q}
			}
		}
	}

	return view, nil
}

// encodeView/decodeView give the echoed vector a simple
// length-prefixed wire shape: count, then (id uint32, len uint32, bytes)
// tuples in list order.
func encodeView(list *party.List, view map[party.Participant][]byte) []byte {
	var buf bytes.Buffer
	ids := list.IDs()
	writeUint32(&buf, uint32(len(ids)))
	for _, id := range ids {
		v := view[id]
		writeUint32(&buf, uint32(id))
		writeUint32(&buf, uint32(len(v)))
		buf.Write(v)
	}
	return buf.Bytes()
}

func decodeView(data []byte) (map[party.Participant][]byte, error) {
	r := bytes.NewReader(data)
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	out := make(map[party.Participant][]byte, n)
	for i := uint32(0); i < n; i++ {
		id, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		l, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		v := make([]byte, l)
		if _, err := r.Read(v); err != nil && l > 0 {
			return nil, err
		}
		out[party.Participant(id)] = v
	}
	return out, nil
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
	buf.Write(b[:])
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := r.Read(b[:]); err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}
