package keygen_test

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thresh-sig/core/internal/sim"
	"github.com/thresh-sig/core/pkg/math/curve"
	"github.com/thresh-sig/core/pkg/party"
	"github.com/thresh-sig/core/pkg/threshold"
	"github.com/thresh-sig/core/protocols/keygen"
)

func mustList(t *testing.T, ids ...party.Participant) *party.List {
	t.Helper()
	l, err := party.NewList(ids)
	require.NoError(t, err)
	return l
}

func runKeygen(t *testing.T, group curve.Curve, list *party.List, f threshold.MaxMalicious) map[party.Participant]*keygen.KeygenOutput {
	t.Helper()
	instances := make(map[party.Participant]sim.Instance[*keygen.KeygenOutput], list.Len())
	for _, id := range list.IDs() {
		p, err := keygen.Keygen(group, list, id, f, rand.Reader)
		require.NoError(t, err)
		instances[id] = p
	}
	outputs, err := sim.Run(instances, nil)
	require.NoError(t, err)
	return outputs
}

// Every honest participant agrees on the same group public key, and the
// aggregate secret it implies is recoverable by Lagrange interpolation
// from any qualified subset.
func TestKeygenAgreesOnPublicKey(t *testing.T) {
	group := curve.Secp256k1{}
	list := mustList(t, 1, 2, 3, 4, 5)
	f := threshold.MaxMalicious(2)

	outputs := runKeygen(t, group, list, f)
	require.Len(t, outputs, list.Len())

	want := outputs[list.Get(0)].PublicKey
	for _, id := range list.IDs() {
		assert.True(t, outputs[id].PublicKey.Equal(want), "%s disagrees on the public key", id)
	}

	lambdas, err := list.BatchLagrange(group)
	require.NoError(t, err)
	secret := group.Zero()
	for id, out := range outputs {
		secret = secret.Add(lambdas[id].Mul(out.PrivateShare))
	}
	assert.True(t, secret.ActOnBase().Equal(want))
}

// Refresh re-randomizes every share but leaves the public key (and the
// implied aggregate secret) unchanged.
func TestRefreshPreservesPublicKeyButChangesShares(t *testing.T) {
	group := curve.Secp256k1{}
	list := mustList(t, 1, 2, 3)
	f := threshold.MaxMalicious(1)

	before := runKeygen(t, group, list, f)

	instances := make(map[party.Participant]sim.Instance[*keygen.KeygenOutput], list.Len())
	for _, id := range list.IDs() {
		p, err := keygen.Refresh(group, before[id], list, id, rand.Reader)
		require.NoError(t, err)
		instances[id] = p
	}
	after, err := sim.Run(instances, nil)
	require.NoError(t, err)

	for _, id := range list.IDs() {
		assert.True(t, after[id].PublicKey.Equal(before[id].PublicKey))
		assert.False(t, after[id].PrivateShare.Equal(before[id].PrivateShare))
	}
}

// Reshare moves the keyshare onto a new participant set, a joiner
// included, while preserving the group public key.
func TestReshareAddsJoinerAndPreservesPublicKey(t *testing.T) {
	group := curve.Secp256k1{}
	oldList := mustList(t, 1, 2, 3)
	oldF := threshold.MaxMalicious(1)
	before := runKeygen(t, group, oldList, oldF)

	newList := mustList(t, 1, 2, 3, 4)
	newF := threshold.MaxMalicious(1)

	instances := make(map[party.Participant]sim.Instance[*keygen.KeygenOutput], newList.Len())
	for _, id := range newList.IDs() {
		var share curve.Scalar
		if oldList.Contains(id) {
			share = before[id].PrivateShare
		}
		p, err := keygen.Reshare(group, oldList, oldF, share, before[oldList.Get(0)].PublicKey, newList, newF, id, rand.Reader)
		require.NoError(t, err)
		instances[id] = p
	}
	after, err := sim.Run(instances, nil)
	require.NoError(t, err)
	require.Len(t, after, newList.Len())

	want := before[oldList.Get(0)].PublicKey
	for _, id := range newList.IDs() {
		assert.True(t, after[id].PublicKey.Equal(want), "%s disagrees on the reshared public key", id)
	}
}

// Initialization errors are caught before any message is sent.
func TestKeygenRejectsInvalidArguments(t *testing.T) {
	group := curve.Secp256k1{}

	t.Run("too few participants", func(t *testing.T) {
		list := mustList(t, 1)
		_, err := keygen.Keygen(group, list, 1, threshold.MaxMalicious(0), rand.Reader)
		var target *keygen.ErrNotEnoughParticipants
		assert.ErrorAs(t, err, &target)
	})

	t.Run("self missing from participant list", func(t *testing.T) {
		list := mustList(t, 1, 2, 3)
		_, err := keygen.Keygen(group, list, 9, threshold.MaxMalicious(1), rand.Reader)
		var target *keygen.ErrMissingParticipant
		assert.ErrorAs(t, err, &target)
	})

	t.Run("max malicious out of range", func(t *testing.T) {
		list := mustList(t, 1, 2, 3)
		_, err := keygen.Keygen(group, list, 1, threshold.MaxMalicious(3), rand.Reader)
		var target *keygen.ErrThresholdOutOfRange
		assert.ErrorAs(t, err, &target)
	})
}

// A reshare whose old/new intersection cannot reconstruct the old
// secret is rejected up front.
func TestReshareRejectsInsufficientIntersection(t *testing.T) {
	group := curve.Secp256k1{}
	oldList := mustList(t, 1, 2, 3, 4, 5)
	oldF := threshold.MaxMalicious(2)
	newList := mustList(t, 1, 6, 7, 8, 9)

	_, err := keygen.Reshare(group, oldList, oldF, group.One(), group.Generator(), newList, threshold.MaxMalicious(1), 1, rand.Reader)
	var target *keygen.ErrInsufficientIntersection
	assert.ErrorAs(t, err, &target)
}
