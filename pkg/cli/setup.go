package cli

import (
	"fmt"
	"log/slog"

	"github.com/Bithomp/xrpl-walletkit/pkg/nodeclient"
	"github.com/Bithomp/xrpl-walletkit/pkg/signflow"
	"github.com/Bithomp/xrpl-walletkit/pkg/wallets"
	"github.com/Bithomp/xrpl-walletkit/pkg/wallets/crossmark"
	"github.com/Bithomp/xrpl-walletkit/pkg/wallets/gemwallet"
	"github.com/Bithomp/xrpl-walletkit/pkg/wallets/ledgerhw"
	"github.com/Bithomp/xrpl-walletkit/pkg/wallets/metamask"
	"github.com/Bithomp/xrpl-walletkit/pkg/wallets/walletconnect"
)

// newOrchestrator wires the node client, all five backend adapters, and the
// session store into a signing orchestrator
func newOrchestrator(cfg *Config) (*signflow.Orchestrator, error) {
	logger := slog.Default()

	node := nodeclient.NewClient(&nodeclient.Config{
		URL:     cfg.NodeURL,
		Network: cfg.Network,
	})

	ledger, err := ledgerhw.NewAdapter(&ledgerhw.Config{
		DerivationPath: cfg.LedgerDerivationPath,
		Network:        cfg.Network,
		Encoder:        node,
		Logger:         logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to configure Ledger backend: %w", err)
	}

	registry := wallets.NewRegistry()
	_ = registry.Register(gemwallet.NewAdapter(&gemwallet.Config{
		BridgeURL: cfg.GemWalletBridgeURL,
		Logger:    logger,
	}))
	_ = registry.Register(crossmark.NewAdapter(&crossmark.Config{
		BridgeURL: cfg.CrossmarkBridgeURL,
		Logger:    logger,
	}))
	_ = registry.Register(ledger)
	_ = registry.Register(walletconnect.NewAdapter(&walletconnect.Config{
		RelayURL:     cfg.WalletConnectRelayURL,
		SessionTopic: cfg.WalletConnectTopic,
		Account:      cfg.WalletConnectAccount,
		Logger:       logger,
	}))
	_ = registry.Register(metamask.NewAdapter(&metamask.Config{
		ProviderURL: cfg.MetamaskProviderURL,
		SnapID:      cfg.MetamaskSnapID,
		Logger:      logger,
	}))

	return signflow.NewOrchestrator(&signflow.Config{
		Registry: registry,
		Params:   node,
		Submit:   node,
		Store:    newFileStore(cfg.SessionFile),
		Network:  cfg.Network,
		Logger:   logger,
	}), nil
}
