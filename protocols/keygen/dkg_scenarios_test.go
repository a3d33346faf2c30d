package keygen_test

import (
	"crypto/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/thresh-sig/core/internal/sim"
	"github.com/thresh-sig/core/pkg/math/curve"
	"github.com/thresh-sig/core/pkg/party"
	"github.com/thresh-sig/core/pkg/threshold"
	"github.com/thresh-sig/core/protocols/keygen"
)

var _ = Describe("DKG/Refresh/Reshare over a five-party cohort", func() {
	group := curve.Secp256k1{}
	list, err := party.NewList([]party.Participant{1, 2, 3, 4, 5})
	f := threshold.MaxMalicious(2)

	It("builds the participant list", func() {
		Expect(err).NotTo(HaveOccurred())
	})

	var dkgOutputs map[party.Participant]*keygen.KeygenOutput

	It("completes a full DKG with every participant agreeing on the public key", func() {
		instances := make(map[party.Participant]sim.Instance[*keygen.KeygenOutput], list.Len())
		for _, id := range list.IDs() {
			p, err := keygen.Keygen(group, list, id, f, rand.Reader)
			Expect(err).NotTo(HaveOccurred())
			instances[id] = p
		}
		outputs, err := sim.Run(instances, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(outputs).To(HaveLen(list.Len()))

		want := outputs[list.Get(0)].PublicKey
		for _, id := range list.IDs() {
			Expect(outputs[id].PublicKey.Equal(want)).To(BeTrue())
		}
		dkgOutputs = outputs
	})

	It("refreshes shares in place without moving the public key", func() {
		instances := make(map[party.Participant]sim.Instance[*keygen.KeygenOutput], list.Len())
		for _, id := range list.IDs() {
			p, err := keygen.Refresh(group, dkgOutputs[id], list, id, rand.Reader)
			Expect(err).NotTo(HaveOccurred())
			instances[id] = p
		}
		outputs, err := sim.Run(instances, nil)
		Expect(err).NotTo(HaveOccurred())
		for _, id := range list.IDs() {
			Expect(outputs[id].PublicKey.Equal(dkgOutputs[id].PublicKey)).To(BeTrue())
		}
	})

	It("reshares onto a shrunk participant set that still meets the old threshold", func() {
		newList, err := party.NewList([]party.Participant{1, 2, 3, 4})
		Expect(err).NotTo(HaveOccurred())
		newF := threshold.MaxMalicious(1)

		instances := make(map[party.Participant]sim.Instance[*keygen.KeygenOutput], newList.Len())
		for _, id := range newList.IDs() {
			p, err := keygen.Reshare(group, list, f, dkgOutputs[id].PrivateShare, dkgOutputs[id].PublicKey, newList, newF, id, rand.Reader)
			Expect(err).NotTo(HaveOccurred())
			instances[id] = p
		}
		outputs, err := sim.Run(instances, nil)
		Expect(err).NotTo(HaveOccurred())
		for _, id := range newList.IDs() {
			Expect(outputs[id].PublicKey.Equal(dkgOutputs[list.Get(0)].PublicKey)).To(BeTrue())
		}
	})
})
