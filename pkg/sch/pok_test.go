package sch_test

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thresh-sig/core/pkg/math/curve"
	"github.com/thresh-sig/core/pkg/party"
	"github.com/thresh-sig/core/pkg/sch"
)

func TestProveVerifyRoundTrip(t *testing.T) {
	group := curve.Secp256k1{}
	x, err := group.RandomScalar(rand.Reader)
	require.NoError(t, err)
	ctx := sch.Context{
		SessionID:    []byte("session-1"),
		DomainSep:    "thresh/dkg/pok",
		ID:           party.Participant(1),
		ConstantTerm: x.ActOnBase(),
	}

	pf, err := sch.Prove(group, rand.Reader, ctx, x)
	require.NoError(t, err)
	require.NoError(t, sch.Verify(group, ctx, pf))
}

func TestVerifyRejectsWrongStatement(t *testing.T) {
	group := curve.Secp256k1{}
	x, err := group.RandomScalar(rand.Reader)
	require.NoError(t, err)
	other, err := group.RandomScalar(rand.Reader)
	require.NoError(t, err)

	ctx := sch.Context{
		SessionID:    []byte("session-1"),
		DomainSep:    "thresh/dkg/pok",
		ID:           party.Participant(1),
		ConstantTerm: x.ActOnBase(),
	}
	pf, err := sch.Prove(group, rand.Reader, ctx, x)
	require.NoError(t, err)

	wrongCtx := ctx
	wrongCtx.ConstantTerm = other.ActOnBase()
	require.ErrorIs(t, sch.Verify(group, wrongCtx, pf), sch.ErrInvalidProof)
}

func TestVerifyRejectsMismatchedSessionBinding(t *testing.T) {
	group := curve.Secp256k1{}
	x, err := group.RandomScalar(rand.Reader)
	require.NoError(t, err)
	ctx := sch.Context{
		SessionID:    []byte("session-1"),
		DomainSep:    "thresh/dkg/pok",
		ID:           party.Participant(1),
		ConstantTerm: x.ActOnBase(),
	}
	pf, err := sch.Prove(group, rand.Reader, ctx, x)
	require.NoError(t, err)

	replayed := ctx
	replayed.SessionID = []byte("session-2")
	require.ErrorIs(t, sch.Verify(group, replayed, pf), sch.ErrInvalidProof)
}

func TestVerifyRejectsNilProofFields(t *testing.T) {
	group := curve.Secp256k1{}
	x, err := group.RandomScalar(rand.Reader)
	require.NoError(t, err)
	ctx := sch.Context{
		SessionID:    []byte("session-1"),
		DomainSep:    "thresh/dkg/pok",
		ID:           party.Participant(1),
		ConstantTerm: x.ActOnBase(),
	}
	require.ErrorIs(t, sch.Verify(group, ctx, nil), sch.ErrInvalidProof)
	require.ErrorIs(t, sch.Verify(group, ctx, &sch.Proof{}), sch.ErrInvalidProof)
}
