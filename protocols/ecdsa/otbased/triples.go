package otbased

import (
	"crypto/rand"
	"fmt"
	"sync"

	"github.com/thresh-sig/core/pkg/math/curve"
	"github.com/thresh-sig/core/pkg/party"
)

// tripleSource is the multiplicative-to-additive share-conversion
// capability the presign round depends on: given a local secret scalar
// and the identity of a peer that independently calls MtA on the same
// logical session with its own secret, each side gets back an additive
// share of the product. The two inner OT-extension protocols a real
// construction composes here (a Beaver-style multiplication protocol and
// the MtA wrapper around it) are represented only by this interface; no
// OT-extension implementation ships (explicit Non-goal).
//
// session identifies which of the two per-peer multiplications (this
// participant as the k-holder, or as the w-holder) a call belongs to, so
// the two independent conversions for a pair never rendezvous with each
// other's calls.
type tripleSource interface {
	MtA(session string, mine curve.Scalar) (curve.Scalar, error)
}

// NewTrustedDealerTriples returns a tripleSource backed by an in-memory
// rendezvous: the "dealer" is simply whichever of the two calls for a
// session arrives first, waiting for the second to arrive and supply the
// other operand. Because both operands pass through shared process
// memory, this is NOT OT-secure — either call can read the other's
// scalar before computing shares. It exists purely so presign's control
// flow can be exercised by tests without pulling in OT extension.
func NewTrustedDealerTriples(group curve.Curve) tripleSource {
	return &trustedDealerTriples{
		group:   group,
		pending: make(map[string]*pendingMtA),
	}
}

type pendingMtA struct {
	scalar curve.Scalar
	done   chan curve.Scalar
}

type trustedDealerTriples struct {
	group curve.Curve

	mu      sync.Mutex
	pending map[string]*pendingMtA
}

func (d *trustedDealerTriples) MtA(session string, mine curve.Scalar) (curve.Scalar, error) {
	d.mu.Lock()
	if p, ok := d.pending[session]; ok {
		delete(d.pending, session)
		d.mu.Unlock()

		product := mine.Mul(p.scalar)
		myShare, err := d.group.RandomScalar(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("otbased: dealing MtA share: %w", err)
		}
		peerShare := product.Add(myShare.Negate())
		p.done <- peerShare
		return myShare, nil
	}

	done := make(chan curve.Scalar, 1)
	d.pending[session] = &pendingMtA{scalar: mine, done: done}
	d.mu.Unlock()

	return <-done, nil
}

// mtaSession names the ordered-pair session under tag (distinguishing,
// e.g., the k*w product conversion from the k*mu one) in which aHolder
// contributes the first operand and bHolder contributes the second,
// computing a share of their product.
func mtaSession(tag string, aHolder, bHolder party.Participant) string {
	return fmt.Sprintf("%s:%d-%d", tag, aHolder, bHolder)
}
