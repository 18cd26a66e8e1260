package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Bithomp/xrpl-walletkit/pkg/signflow"
	"github.com/Bithomp/xrpl-walletkit/pkg/wallets"
	"github.com/Bithomp/xrpl-walletkit/pkg/xrpl"
)

var (
	sendFee        string
	sendSignOnly   bool
	sendBroker     string
	sendBrokerFee  string
	sendSourceAddr string
)

var sendCmd = &cobra.Command{
	Use:   "send <amount-xrp> <destination>",
	Short: "Sign and submit an XRP payment",
	Long: `Send an XRP payment through a wallet backend. The amount is in XRP and is
converted to drops; sub-drop precision is rejected.

Transaction parameters (sequence, fee, expiry) are resolved fresh from the
node service right before signing. An explicit --fee survives resolution.

Examples:
  bithomp-sign send 1.5 rN7n7otQDd6FczFgLdSqtcsAUxDkw6fzRH
  bithomp-sign send 10 rN7n7otQDd6FczFgLdSqtcsAUxDkw6fzRH --fee 15 --wallet crossmark
  bithomp-sign send 10 rN7n7otQDd6FczFgLdSqtcsAUxDkw6fzRH --sign-only`,
	Args: cobra.ExactArgs(2),
	Run:  runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringVar(&sendFee, "fee", "", "Explicit fee in drops (overrides the resolved fee)")
	sendCmd.Flags().BoolVar(&sendSignOnly, "sign-only", false, "Sign without broadcasting; prints the signed blob")
	sendCmd.Flags().StringVar(&sendBroker, "broker", "", "Marketplace broker name (display only)")
	sendCmd.Flags().StringVar(&sendBrokerFee, "broker-fee", "", "Marketplace broker fee percent (display only)")
	sendCmd.Flags().StringVar(&sendSourceAddr, "source", "", "Source address (defaults to the connected wallet's address)")
}

func runSend(cmd *cobra.Command, args []string) {
	amount, err := decimal.NewFromString(args[0])
	if err != nil {
		printError(fmt.Errorf("invalid amount %q", args[0]))
		os.Exit(1)
	}
	drops, err := xrpl.XRPToDrops(amount)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	destination := args[1]

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

	intent := &xrpl.TransactionIntent{
		TransactionType: "Payment",
		Account:         sendSourceAddr,
		Destination:     destination,
		Amount:          drops,
		Fee:             sendFee,
	}

	var broker *xrpl.Broker
	if sendBroker != "" {
		broker = &xrpl.Broker{Name: sendBroker, FeePercent: sendBrokerFee}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = fmt.Sprintf(" Waiting for %s...", cfg.Wallet)

	var failed bool
	req := &signflow.Request{
		Intent:   intent,
		SignOnly: sendSignOnly,
		Broker:   broker,
		OnSubmitted: func(result signflow.Submitted) {
			displaySubmitted(result, amount)
		},
		AfterSigning: func(result *wallets.SignResult) {
			color.Green("\n✓ Transaction signed (not broadcast)")
			if result.Hash != "" {
				fmt.Printf("  Hash: %s\n", color.CyanString(result.Hash))
			}
			fmt.Printf("  Blob: %s\n", result.Blob)
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
			fmt.Println("\nSend cancelled.")
			os.Exit(0)
		}
		printError(err)
		os.Exit(1)
	}
	if failed {
		os.Exit(1)
	}
}

func displaySubmitted(result signflow.Submitted, amount decimal.Decimal) {
	color.Green("\n✓ Transaction submitted")
	fmt.Printf("  Hash:    %s\n", color.CyanString(result.Hash))
	fmt.Printf("  Amount:  %s XRP\n", amount)
	fmt.Printf("  From:    %s\n", result.Address)
	fmt.Printf("  Wallet:  %s\n", result.Wallet)

	if result.Broker != nil {
		drops, err := xrpl.XRPToDrops(amount)
		if err != nil {
			return
		}
		fee, err := xrpl.BrokerFee(drops, result.Broker)
		if err != nil {
			return
		}
		xrpFee := fee.Div(decimal.New(1, 6))
		fmt.Printf("  Broker:  %s (fee %s XRP)\n", result.Broker.Name, xrpFee)
	}
}
