// Command thresholdctl is a thin ambient-tooling CLI demoing the core
// engine end to end in-memory, via internal/sim. It is not part of the
// engine's tested surface: a real deployment wires protocols/keygen,
// protocols/ckd, and protocols/ecdsa/* against its own transport instead
// of this demo driver.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "thresholdctl",
		Short: "Demo driver for the threshold signature protocol core",
	}
	root.AddCommand(newKeygenCmd(), newRefreshCmd(), newCKDCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
