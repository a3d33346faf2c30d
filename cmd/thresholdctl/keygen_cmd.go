package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thresh-sig/core/internal/sim"
	"github.com/thresh-sig/core/pkg/math/curve"
	"github.com/thresh-sig/core/pkg/party"
	"github.com/thresh-sig/core/pkg/threshold"
	"github.com/thresh-sig/core/protocols/keygen"
)

func newKeygenCmd() *cobra.Command {
	var parties, maxMalicious int
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Run an in-memory DKG among --parties participants and print the group public key",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := participantList(parties)
			if err != nil {
				return err
			}
			group := curve.Secp256k1{}
			f := threshold.MaxMalicious(maxMalicious)

			instances := make(map[party.Participant]sim.Instance[*keygen.KeygenOutput], list.Len())
			for _, id := range list.IDs() {
				p, err := keygen.Keygen(group, list, id, f, rand.Reader)
				if err != nil {
					return fmt.Errorf("starting keygen for %s: %w", id, err)
				}
				instances[id] = p
			}

			outputs, err := sim.Run(instances, nil)
			if err != nil {
				return fmt.Errorf("running keygen: %w", err)
			}

			any := outputs[list.Get(0)]
			pubBytes, err := any.PublicKey.Bytes()
			if err != nil {
				return fmt.Errorf("encoding public key: %w", err)
			}
			fmt.Printf("parties=%d max_malicious=%d public_key=%s\n", list.Len(), maxMalicious, hex.EncodeToString(pubBytes))
			return nil
		},
	}
	cmd.Flags().IntVar(&parties, "parties", 3, "number of participants")
	cmd.Flags().IntVar(&maxMalicious, "max-malicious", 1, "adversary tolerance f")
	return cmd
}

func participantList(n int) (*party.List, error) {
	ids := make([]party.Participant, n)
	for i := 0; i < n; i++ {
		ids[i] = party.Participant(i + 1)
	}
	return party.NewList(ids)
}
