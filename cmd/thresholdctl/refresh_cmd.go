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

func newRefreshCmd() *cobra.Command {
	var parties, maxMalicious int
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Run a DKG then a Refresh over the same participants and confirm the public key is unchanged",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := participantList(parties)
			if err != nil {
				return err
			}
			group := curve.Secp256k1{}
			f := threshold.MaxMalicious(maxMalicious)

			keygenInstances := make(map[party.Participant]sim.Instance[*keygen.KeygenOutput], list.Len())
			for _, id := range list.IDs() {
				p, err := keygen.Keygen(group, list, id, f, rand.Reader)
				if err != nil {
					return fmt.Errorf("starting keygen for %s: %w", id, err)
				}
				keygenInstances[id] = p
			}
			before, err := sim.Run(keygenInstances, nil)
			if err != nil {
				return fmt.Errorf("running keygen: %w", err)
			}

			refreshInstances := make(map[party.Participant]sim.Instance[*keygen.KeygenOutput], list.Len())
			for _, id := range list.IDs() {
				p, err := keygen.Refresh(group, before[id], list, id, rand.Reader)
				if err != nil {
					return fmt.Errorf("starting refresh for %s: %w", id, err)
				}
				refreshInstances[id] = p
			}
			after, err := sim.Run(refreshInstances, nil)
			if err != nil {
				return fmt.Errorf("running refresh: %w", err)
			}

			oldPub, err := before[list.Get(0)].PublicKey.Bytes()
			if err != nil {
				return err
			}
			newPub, err := after[list.Get(0)].PublicKey.Bytes()
			if err != nil {
				return err
			}
			if !before[list.Get(0)].PublicKey.Equal(after[list.Get(0)].PublicKey) {
				return fmt.Errorf("refresh changed the group public key: %s -> %s", hex.EncodeToString(oldPub), hex.EncodeToString(newPub))
			}
			fmt.Printf("parties=%d max_malicious=%d public_key=%s (unchanged after refresh)\n", list.Len(), maxMalicious, hex.EncodeToString(newPub))
			return nil
		},
	}
	cmd.Flags().IntVar(&parties, "parties", 3, "number of participants")
	cmd.Flags().IntVar(&maxMalicious, "max-malicious", 1, "adversary tolerance f")
	return cmd
}
