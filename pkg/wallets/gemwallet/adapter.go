// Package gemwallet drives the GemWallet browser extension through its local
// bridge API. The backend signs and submits natively: its sign call returns
// the transaction hash and the broadcast step is skipped.
package gemwallet

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Bithomp/xrpl-walletkit/pkg/constants"
	"github.com/Bithomp/xrpl-walletkit/pkg/utils"
	"github.com/Bithomp/xrpl-walletkit/pkg/wallets"
	"github.com/Bithomp/xrpl-walletkit/pkg/xrpl"
)

// Config holds the adapter configuration
type Config struct {
	// BridgeURL is the extension bridge endpoint, e.g. http://localhost:8337
	BridgeURL string

	// HTTPClient overrides the default client with timeouts, mainly for tests
	HTTPClient *http.Client

	Logger *slog.Logger
}

// Adapter implements wallets.Wallet for the GemWallet extension
type Adapter struct {
	bridgeURL  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewAdapter creates a GemWallet adapter
func NewAdapter(config *Config) *Adapter {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = utils.NewHTTPClientWithTimeouts()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Adapter{
		bridgeURL:  config.BridgeURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Name implements wallets.Wallet
func (a *Adapter) Name() string {
	return constants.WalletGemWallet
}

// Capabilities implements wallets.Wallet
func (a *Adapter) Capabilities() wallets.Capabilities {
	return wallets.Capabilities{SubmitsOnSign: true}
}

type pingResponse struct {
	Extension bool   `json:"extension"`
	Version   string `json:"version"`
}

// Probe implements wallets.Wallet. The bridge being reachable is not enough:
// it also reports whether the extension itself is installed.
func (a *Adapter) Probe(ctx context.Context) wallets.Availability {
	probeCtx, cancel := context.WithTimeout(ctx, constants.BridgeProbeTimeout)
	defer cancel()

	resp, err := utils.MakeJSONRequest[pingResponse](
		probeCtx,
		a.httpClient,
		http.MethodGet,
		fmt.Sprintf("%s/api/ping", a.bridgeURL),
		nil,
		"ping",
	)
	if err != nil {
		return wallets.Availability{Reason: "GemWallet bridge is not reachable"}
	}
	if !resp.Extension {
		return wallets.Availability{Reason: "GemWallet extension is not installed"}
	}
	return wallets.Availability{Available: true}
}

type addressResponse struct {
	Address   string `json:"address"`
	PublicKey string `json:"publicKey"`
	Rejected  bool   `json:"rejected"`
}

// ResolveAddress implements wallets.Wallet. Opens the extension prompt and
// waits for the user; the wait is bounded only by the user, not the system.
func (a *Adapter) ResolveAddress(ctx context.Context, session *wallets.Session) error {
	if session.Matches(a.Name()) {
		return nil
	}

	resp, err := utils.MakeJSONRequest[addressResponse](
		ctx,
		a.httpClient,
		http.MethodPost,
		fmt.Sprintf("%s/api/address", a.bridgeURL),
		nil,
		"address",
	)
	if err != nil {
		return &wallets.AvailabilityError{Wallet: a.Name(), Reason: "GemWallet did not respond"}
	}
	if resp.Rejected {
		return &wallets.UserRejectedError{Wallet: a.Name()}
	}
	if resp.Address == "" {
		return &wallets.AvailabilityError{Wallet: a.Name(), Reason: "GemWallet returned no address"}
	}

	session.Address = resp.Address
	session.PublicKey = resp.PublicKey
	return nil
}

type networkResponse struct {
	Network string `json:"network"`
}

// MatchesNetwork implements wallets.NetworkMatcher. A mis-set extension would
// otherwise silently sign for the wrong network.
func (a *Adapter) MatchesNetwork(ctx context.Context, network string) (bool, error) {
	resp, err := utils.MakeJSONRequest[networkResponse](
		ctx,
		a.httpClient,
		http.MethodGet,
		fmt.Sprintf("%s/api/network", a.bridgeURL),
		nil,
		"network",
	)
	if err != nil {
		return false, &wallets.TransportError{Op: a.Name(), Err: err}
	}
	return resp.Network == network, nil
}

type signResponse struct {
	Hash              string `json:"hash"`
	SignedTransaction string `json:"signedTransaction"`
	Rejected          bool   `json:"rejected"`
}

// Sign implements wallets.Wallet. Regular transactions go through the
// extension's submit flow, which signs and broadcasts atomically and returns
// the hash. Sign-only requests use the sign flow and return the blob without
// touching network state.
func (a *Adapter) Sign(ctx context.Context, intent *xrpl.TransactionIntent, opts wallets.SignOptions) (*wallets.SignResult, error) {
	endpoint := "submit"
	if opts.SignOnly {
		endpoint = "sign"
	}

	resp, err := utils.MakeJSONRequest[signResponse](
		ctx,
		a.httpClient,
		http.MethodPost,
		fmt.Sprintf("%s/api/transaction/%s", a.bridgeURL, endpoint),
		map[string]any{"transaction": intent.TxJSON()},
		endpoint,
	)
	if err != nil {
		return nil, &wallets.TransportError{Op: a.Name(), Err: err}
	}
	if resp.Rejected {
		return nil, &wallets.UserRejectedError{Wallet: a.Name()}
	}

	if opts.SignOnly {
		if resp.SignedTransaction == "" {
			return nil, &wallets.TransportError{Op: a.Name(), Err: fmt.Errorf("sign response missing blob")}
		}
		return &wallets.SignResult{Blob: resp.SignedTransaction}, nil
	}

	if resp.Hash == "" {
		return nil, &wallets.TransportError{Op: a.Name(), Err: fmt.Errorf("submit response missing hash")}
	}
	a.logger.Debug("transaction submitted by GemWallet", "hash", resp.Hash)
	return &wallets.SignResult{Hash: resp.Hash, Submitted: true}, nil
}
