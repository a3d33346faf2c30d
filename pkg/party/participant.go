// Package party implements Participant identifiers and the ordered,
// duplicate-free sets the rest of the module indexes round state by.
package party

import (
	"fmt"
	"sort"

	"github.com/thresh-sig/core/pkg/math/curve"
	"github.com/thresh-sig/core/pkg/math/polynomial"
)

// Participant is a 32-bit identifier. Zero is reserved as "the constant
// term" of a secret-sharing polynomial and is never a valid participant.
type Participant uint32

// ErrZeroParticipant is returned whenever a zero identifier is used where
// a real participant is expected.
var ErrZeroParticipant = fmt.Errorf("party: participant identifier 0 is reserved")

// Scalar maps the identifier into the curve's scalar field.
func (p Participant) Scalar(group curve.Curve) curve.Scalar {
	return group.ScalarFromUint32(uint32(p))
}

func (p Participant) String() string {
	return fmt.Sprintf("%#08x", uint32(p))
}

// List is an ordered, duplicate-free sequence of Participants. The zero
// value is not usable; construct with NewList.
type List struct {
	ids []Participant
}

// NewList validates and sorts ids into a List. It fails if any identifier
// is zero or duplicated.
func NewList(ids []Participant) (*List, error) {
	seen := make(map[Participant]struct{}, len(ids))
	out := make([]Participant, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			return nil, ErrZeroParticipant
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("party: duplicate participant %s", id)
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return &List{ids: out}, nil
}

// Len returns the number of participants in the list.
func (l *List) Len() int { return len(l.ids) }

// IDs returns the sorted participant identifiers. The returned slice must
// not be mutated by the caller.
func (l *List) IDs() []Participant { return l.ids }

// Contains reports whether id is a member of the list.
func (l *List) Contains(id Participant) bool {
	for _, x := range l.ids {
		if x == id {
			return true
		}
	}
	return false
}

// IndexOf returns the position of id in the sorted list, or -1.
func (l *List) IndexOf(id Participant) int {
	for i, x := range l.ids {
		if x == id {
			return i
		}
	}
	return -1
}

// Others returns every participant in the list other than me.
func (l *List) Others(me Participant) []Participant {
	out := make([]Participant, 0, len(l.ids))
	for _, x := range l.ids {
		if x != me {
			out = append(out, x)
		}
	}
	return out
}

// Get returns the participant at position i.
func (l *List) Get(i int) Participant { return l.ids[i] }

// Intersection returns the participants present in both l and other, in
// l's sorted order.
func (l *List) Intersection(other *List) []Participant {
	out := make([]Participant, 0, l.Len())
	for _, x := range l.ids {
		if other.Contains(x) {
			out = append(out, x)
		}
	}
	return out
}

// Lagrange computes the Lagrange coefficient of me at x=0 over this list:
// prod_{j in l, j != me} j/(j-me) in the scalar field.
func (l *List) Lagrange(group curve.Curve, me Participant) (curve.Scalar, error) {
	coeffs, err := l.BatchLagrange(group)
	if err != nil {
		return nil, err
	}
	v, ok := coeffs[me]
	if !ok {
		return nil, fmt.Errorf("party: %s is not a member of the list", me)
	}
	return v, nil
}

// BatchLagrange computes the Lagrange coefficient at x=0 for every
// participant in the list simultaneously, using a single batched
// inversion (pkg/math/polynomial.BatchLagrangeAtZero) instead of one
// inversion per coefficient.
func (l *List) BatchLagrange(group curve.Curve) (map[Participant]curve.Scalar, error) {
	xs := make([]curve.Scalar, l.Len())
	for i, id := range l.ids {
		xs[i] = id.Scalar(group)
	}
	coeffs, err := polynomial.BatchLagrangeAtZero(group, xs)
	if err != nil {
		return nil, err
	}
	out := make(map[Participant]curve.Scalar, l.Len())
	for i, id := range l.ids {
		out[id] = coeffs[i]
	}
	return out, nil
}
