package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Bithomp/xrpl-walletkit/pkg/signflow"
)

var signinCmd = &cobra.Command{
	Use:   "signin",
	Short: "Establish identity with a wallet backend",
	Long: `Sign in with a wallet backend without submitting anything to the ledger.
The resolved address is persisted so later commands can show who is signed in.

Examples:
  bithomp-sign signin --wallet gemwallet
  bithomp-sign signin --wallet ledger`,
	Run: runSignin,
}

func init() {
	rootCmd.AddCommand(signinCmd)
}

func runSignin(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	orchestrator, err := newOrchestrator(cfg)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = fmt.Sprintf(" Waiting for %s...", cfg.Wallet)

	var failed bool
	req := &signflow.Request{
		OnSignedIn: func(result signflow.SignedIn) {
			color.Green("\n✓ Signed in")
			fmt.Printf("  Address: %s\n", color.CyanString(result.Address))
			fmt.Printf("  Wallet:  %s\n", result.Wallet)
		},
		OnStatus: func(status string) {
			failed = true
			color.Red("\n✗ %s", status)
		},
		OnAwaiting: func(awaiting bool) {
			if awaiting {
				s.Start()
			} else {
				s.Stop()
			}
		},
	}

	if err := orchestrator.Send(cmd.Context(), cfg.Wallet, req); err != nil {
		if cmd.Context().Err() == context.Canceled {
			fmt.Println("\nSign-in cancelled.")
			os.Exit(0)
		}
		printError(err)
		os.Exit(1)
	}
	if failed {
		os.Exit(1)
	}
}
