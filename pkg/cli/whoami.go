package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the persisted signed-in identity",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			printError(err)
			os.Exit(1)
		}

		identity, ok := newFileStore(cfg.SessionFile).Load()
		if !ok {
			fmt.Println("Not signed in.")
			return
		}
		fmt.Printf("Address: %s\n", color.CyanString(identity.Address))
		fmt.Printf("Wallet:  %s\n", identity.Wallet)
		fmt.Printf("Since:   %s\n", identity.SignedInAt.Format("2006-01-02 15:04:05 MST"))
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
