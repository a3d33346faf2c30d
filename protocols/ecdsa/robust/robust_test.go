package robust_test

import (
	"crypto/rand"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thresh-sig/core/internal/sim"
	"github.com/thresh-sig/core/pkg/math/curve"
	"github.com/thresh-sig/core/pkg/party"
	"github.com/thresh-sig/core/pkg/threshold"
	"github.com/thresh-sig/core/protocols/ecdsa/robust"
	"github.com/thresh-sig/core/protocols/keygen"
)

func runKeygen(t *testing.T, group curve.Curve, list *party.List, f threshold.MaxMalicious) map[party.Participant]*keygen.KeygenOutput {
	t.Helper()
	instances := make(map[party.Participant]sim.Instance[*keygen.KeygenOutput], list.Len())
	for _, id := range list.IDs() {
		p, err := keygen.Keygen(group, list, id, f, rand.Reader)
		require.NoError(t, err)
		instances[id] = p
	}
	out, err := sim.Run(instances, nil)
	require.NoError(t, err)
	return out
}

func verify(t *testing.T, group curve.Curve, publicKey curve.Point, digest []byte, sig *robust.Signature) {
	t.Helper()
	m, err := group.ScalarFromBytes(digest)
	require.NoError(t, err)
	sInv, err := sig.S.Invert()
	require.NoError(t, err)
	u1 := m.Mul(sInv)
	u2 := sig.R.Mul(sInv)
	point := u1.ActOnBase().Add(u2.Act(publicKey))
	pointBytes, err := point.Bytes()
	require.NoError(t, err)
	rCheck, err := group.ScalarFromBytes(pointBytes[1:])
	require.NoError(t, err)
	require.True(t, rCheck.Equal(sig.R))
}

func TestGenerateNonceSharesSignCombineProducesValidSignature(t *testing.T) {
	group := curve.Secp256k1{}
	list, err := party.NewList([]party.Participant{1, 2, 3, 4, 5})
	require.NoError(t, err)
	f := threshold.MaxMalicious(2)

	keys := runKeygen(t, group, list, f)

	nonceInstances := make(map[party.Participant]sim.Instance[*robust.NonceShares], list.Len())
	for _, id := range list.IDs() {
		p, err := robust.GenerateNonceShares(group, list, id, f, rand.Reader)
		require.NoError(t, err)
		nonceInstances[id] = p
	}
	nonces, err := sim.Run(nonceInstances, nil)
	require.NoError(t, err)

	digest := sha256.Sum256([]byte("transfer 10 BTC to bob"))

	signInstances := make(map[party.Participant]sim.Instance[*robust.PartialSignature], list.Len())
	for _, id := range list.IDs() {
		p, err := robust.Sign(group, keys[id], nonces[id], list, id, digest[:])
		require.NoError(t, err)
		signInstances[id] = p
	}
	partials, err := sim.Run(signInstances, nil)
	require.NoError(t, err)

	sig, err := robust.Combine(group, list, partials)
	require.NoError(t, err)

	verify(t, group, keys[list.Get(0)].PublicKey, digest[:], sig)
}

func TestPresignIsNotImplemented(t *testing.T) {
	group := curve.Secp256k1{}
	list, err := party.NewList([]party.Participant{1, 2, 3})
	require.NoError(t, err)
	_, err = robust.Presign(group, nil, list, 1, threshold.MaxMalicious(1), rand.Reader)
	require.ErrorIs(t, err, robust.ErrNotImplemented)
}

func TestGenerateNonceSharesRejectsTooFewParticipants(t *testing.T) {
	group := curve.Secp256k1{}
	list, err := party.NewList([]party.Participant{1, 2, 3})
	require.NoError(t, err)
	_, err = robust.GenerateNonceShares(group, list, 1, threshold.MaxMalicious(2), rand.Reader)
	var target *robust.ErrNotEnoughSigners
	require.ErrorAs(t, err, &target)
}
