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
	"github.com/thresh-sig/core/protocols/ckd"
	"github.com/thresh-sig/core/protocols/keygen"
)

func newCKDCmd() *cobra.Command {
	var parties, maxMalicious int
	var appID string
	cmd := &cobra.Command{
		Use:   "ckd",
		Short: "Run a DKG on BLS12-381, then derive an application key for --app-id",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := participantList(parties)
			if err != nil {
				return err
			}
			group := curve.BLS12381G2{}
			f := threshold.MaxMalicious(maxMalicious)

			keygenInstances := make(map[party.Participant]sim.Instance[*keygen.KeygenOutput], list.Len())
			for _, id := range list.IDs() {
				p, err := keygen.Keygen(group, list, id, f, rand.Reader)
				if err != nil {
					return fmt.Errorf("starting keygen for %s: %w", id, err)
				}
				keygenInstances[id] = p
			}
			keys, err := sim.Run(keygenInstances, nil)
			if err != nil {
				return fmt.Errorf("running keygen: %w", err)
			}

			appSecret, err := group.RandomScalar(rand.Reader)
			if err != nil {
				return fmt.Errorf("sampling application secret: %w", err)
			}
			appPublicKey := appSecret.ActOnBase()
			coordinator := list.Get(0)

			ckdInstances := make(map[party.Participant]sim.Instance[*ckd.Output], list.Len())
			for _, id := range list.IDs() {
				p, err := ckd.Derive(group, list, coordinator, id, keys[id].PrivateShare, []byte(appID), appPublicKey, rand.Reader)
				if err != nil {
					return fmt.Errorf("starting ckd for %s: %w", id, err)
				}
				ckdInstances[id] = p
			}
			outputs, err := sim.Run(ckdInstances, nil)
			if err != nil {
				return fmt.Errorf("running ckd: %w", err)
			}

			derived := outputs[coordinator].Unmask(appSecret)
			derivedBytes, err := derived.Bytes()
			if err != nil {
				return err
			}
			fmt.Printf("parties=%d app_id=%q derived_key=%s\n", list.Len(), appID, hex.EncodeToString(derivedBytes))
			return nil
		},
	}
	cmd.Flags().IntVar(&parties, "parties", 3, "number of participants")
	cmd.Flags().IntVar(&maxMalicious, "max-malicious", 1, "adversary tolerance f")
	cmd.Flags().StringVar(&appID, "app-id", "demo-app", "application identifier to derive a key for")
	return cmd
}
