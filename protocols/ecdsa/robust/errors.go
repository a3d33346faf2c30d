package robust

import (
	"errors"
	"fmt"

	"github.com/thresh-sig/core/pkg/party"
)

// ErrNotImplemented marks a boundary this package intentionally does not
// cross: a robust presignature that tolerates an actively cheating
// minority needs a full verifiable-multiplication protocol (GJKR-style
// robust MPC multiplication with complaint/accusation resolution), which
// is out of scope here. Sign below still implements the cooperative
// (non-actively-robust) path end to end.
var ErrNotImplemented = errors.New("robust: not implemented")

// ErrNotEnoughSigners is returned when fewer than 2*maxMalicious+1
// participants take part in nonce dealing or signing. The degree-(2f-1)
// signature-share product itself reconstructs from 2f points.
type ErrNotEnoughSigners struct {
	N, Need int
}

func (e *ErrNotEnoughSigners) Error() string {
	return fmt.Sprintf("robust: %d signers is below the required %d", e.N, e.Need)
}

// ErrMissingParticipant is returned when self is absent from the signer
// list.
type ErrMissingParticipant struct{ ID party.Participant }

func (e *ErrMissingParticipant) Error() string {
	return fmt.Sprintf("robust: %s is not a member of the signer list", e.ID)
}

// ErrInvalidShare is returned when a dealt share fails its Feldman check.
type ErrInvalidShare struct{ From party.Participant }

func (e *ErrInvalidShare) Error() string {
	return fmt.Sprintf("robust: invalid dealt share from %s", e.From)
}

// ErrZeroValue is the negligible-probability abort when a reconstructed
// blind product or nonce reduces to zero; callers should redeal.
var ErrZeroValue = errors.New("robust: reconstructed value is zero, redeal")
