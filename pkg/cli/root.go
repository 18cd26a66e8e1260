// Package cli implements the bithomp-sign command line tool: sign in with a
// wallet backend, send transactions, or produce sign-only blobs, against any
// of the supported signing backends.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "bithomp-sign",
	Short: "Sign and submit XRPL transactions through wallet backends",
	Long: `bithomp-sign drives an XRPL wallet backend through the full signing flow:
probe, connect, resolve transaction parameters, sign, and broadcast.

Supported backends: gemwallet, crossmark, ledger, walletconnect, metamask.

Examples:
  bithomp-sign signin --wallet gemwallet
  bithomp-sign send 1.5 rN7n7otQDd6FczFgLdSqtcsAUxDkw6fzRH --wallet ledger
  bithomp-sign send 10 rN7n7otQDd6FczFgLdSqtcsAUxDkw6fzRH --sign-only`,
	Version: "1.0.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringP("wallet", "w", "", "Signing backend (gemwallet, crossmark, ledger, walletconnect, metamask)")
	rootCmd.PersistentFlags().StringP("network", "n", "", "XRPL network (mainnet, testnet, devnet)")
	rootCmd.PersistentFlags().String("node-url", "", "Node service URL")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	_ = viper.BindPFlag("wallet", rootCmd.PersistentFlags().Lookup("wallet"))
	_ = viper.BindPFlag("network", rootCmd.PersistentFlags().Lookup("network"))
	_ = viper.BindPFlag("node_url", rootCmd.PersistentFlags().Lookup("node-url"))
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}
