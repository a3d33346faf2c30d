package ckd_test

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thresh-sig/core/internal/sim"
	"github.com/thresh-sig/core/pkg/math/curve"
	"github.com/thresh-sig/core/pkg/party"
	"github.com/thresh-sig/core/pkg/threshold"
	"github.com/thresh-sig/core/protocols/ckd"
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

// The coordinator's unmasked derived key equals msk*H(appID) regardless
// of which application secret masked it, since unmasking subtracts
// exactly the mask the application's own key introduced.
func TestDeriveAndUnmaskRecoversApplicationKey(t *testing.T) {
	group := curve.BLS12381G2{}
	list, err := party.NewList([]party.Participant{1, 2, 3, 4})
	require.NoError(t, err)
	f := threshold.MaxMalicious(1)

	keys := runKeygen(t, group, list, f)

	appSecret, err := group.RandomScalar(rand.Reader)
	require.NoError(t, err)
	appPublicKey := appSecret.ActOnBase()
	coordinator := list.Get(0)
	appID := []byte("payments-service")

	instances := make(map[party.Participant]sim.Instance[*ckd.Output], list.Len())
	for _, id := range list.IDs() {
		p, err := ckd.Derive(group, list, coordinator, id, keys[id].PrivateShare, appID, appPublicKey, rand.Reader)
		require.NoError(t, err)
		instances[id] = p
	}
	outputs, err := sim.Run(instances, nil)
	require.NoError(t, err)

	derived := outputs[coordinator].Unmask(appSecret)

	hashPoint, err := group.HashToCurve(appID)
	require.NoError(t, err)
	msk := aggregateSecret(t, group, list, keys)
	expected := msk.Act(hashPoint)

	expectedBytes, err := expected.Bytes()
	require.NoError(t, err)
	derivedBytes, err := derived.Bytes()
	require.NoError(t, err)
	require.Equal(t, expectedBytes, derivedBytes)
}

func aggregateSecret(t *testing.T, group curve.Curve, list *party.List, keys map[party.Participant]*keygen.KeygenOutput) curve.Scalar {
	t.Helper()
	lambdas, err := list.BatchLagrange(group)
	require.NoError(t, err)
	secret := group.Zero()
	for id, out := range keys {
		secret = secret.Add(lambdas[id].Mul(out.PrivateShare))
	}
	return secret
}

func TestDeriveRejectsMissingCoordinator(t *testing.T) {
	group := curve.BLS12381G2{}
	list, err := party.NewList([]party.Participant{1, 2, 3})
	require.NoError(t, err)

	secret, err := group.RandomScalar(rand.Reader)
	require.NoError(t, err)

	_, err = ckd.Derive(group, list, 9, 1, secret, []byte("app"), group.Generator(), rand.Reader)
	var target *ckd.ErrMissingParticipant
	require.ErrorAs(t, err, &target)
}
