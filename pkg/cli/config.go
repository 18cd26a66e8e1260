package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/Bithomp/xrpl-walletkit/pkg/constants"
	"github.com/Bithomp/xrpl-walletkit/pkg/nodeclient"
)

// Config holds the CLI configuration
type Config struct {
	NodeURL string
	Network string
	Wallet  string

	// SessionFile is where the last signed-in identity is persisted
	SessionFile string

	GemWalletBridgeURL string
	CrossmarkBridgeURL string

	LedgerDerivationPath string

	WalletConnectRelayURL string
	WalletConnectTopic    string
	WalletConnectAccount  string

	MetamaskProviderURL string
	MetamaskSnapID      string
}

// loadConfig reads configuration from flags (bound by the root command), a
// .bithomp-sign.yaml file, and BITHOMP_SIGN_* environment variables, in that
// order of precedence
func loadConfig() (*Config, error) {
	viper.SetConfigName(".bithomp-sign")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME")
	viper.AddConfigPath(".")

	viper.SetDefault("node_url", nodeclient.DefaultNodeURL)
	viper.SetDefault("network", constants.NetworkMainnet)
	viper.SetDefault("wallet", constants.WalletGemWallet)
	viper.SetDefault("session_file", defaultSessionFile())
	viper.SetDefault("gemwallet_bridge_url", "http://localhost:8337")
	viper.SetDefault("crossmark_bridge_url", "http://localhost:8338")
	viper.SetDefault("walletconnect_relay_url", "wss://relay.walletconnect.com")

	viper.SetEnvPrefix("BITHOMP_SIGN")
	viper.AutomaticEnv()

	// config file is optional
	_ = viper.ReadInConfig()

	return &Config{
		NodeURL:               viper.GetString("node_url"),
		Network:               viper.GetString("network"),
		Wallet:                viper.GetString("wallet"),
		SessionFile:           viper.GetString("session_file"),
		GemWalletBridgeURL:    viper.GetString("gemwallet_bridge_url"),
		CrossmarkBridgeURL:    viper.GetString("crossmark_bridge_url"),
		LedgerDerivationPath:  viper.GetString("ledger_derivation_path"),
		WalletConnectRelayURL: viper.GetString("walletconnect_relay_url"),
		WalletConnectTopic:    viper.GetString("walletconnect_topic"),
		WalletConnectAccount:  viper.GetString("walletconnect_account"),
		MetamaskProviderURL:   viper.GetString("metamask_provider_url"),
		MetamaskSnapID:        viper.GetString("metamask_snap_id"),
	}, nil
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bithomp-sign-session.json"
	}
	return filepath.Join(home, ".bithomp-sign-session.json")
}
