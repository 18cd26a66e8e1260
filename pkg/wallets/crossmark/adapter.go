// Package crossmark drives the Crossmark browser extension through its local
// bridge API. Unlike GemWallet, Crossmark hands back a signed blob and leaves
// submission to the broadcaster.
package crossmark

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/Bithomp/xrpl-walletkit/pkg/constants"
	"github.com/Bithomp/xrpl-walletkit/pkg/utils"
	"github.com/Bithomp/xrpl-walletkit/pkg/wallets"
	"github.com/Bithomp/xrpl-walletkit/pkg/xrpl"
)

// Config holds the adapter configuration
type Config struct {
	// BridgeURL is the extension bridge endpoint
	BridgeURL string

	// HTTPClient overrides the default client with timeouts, mainly for tests
	HTTPClient *http.Client

	Logger *slog.Logger
}

// Adapter implements wallets.Wallet for the Crossmark extension
type Adapter struct {
	bridgeURL  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewAdapter creates a Crossmark adapter
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
	return constants.WalletCrossmark
}

// Capabilities implements wallets.Wallet
func (a *Adapter) Capabilities() wallets.Capabilities {
	return wallets.Capabilities{}
}

type sessionResponse struct {
	Installed bool   `json:"installed"`
	Network   string `json:"network"`
}

// Probe implements wallets.Wallet
func (a *Adapter) Probe(ctx context.Context) wallets.Availability {
	probeCtx, cancel := context.WithTimeout(ctx, constants.BridgeProbeTimeout)
	defer cancel()

	resp, err := utils.MakeJSONRequest[sessionResponse](
		probeCtx,
		a.httpClient,
		http.MethodGet,
		fmt.Sprintf("%s/api/session", a.bridgeURL),
		nil,
		"session",
	)
	if err != nil {
		return wallets.Availability{Reason: "Crossmark bridge is not reachable"}
	}
	if !resp.Installed {
		return wallets.Availability{Reason: "Crossmark extension is not installed"}
	}
	return wallets.Availability{Available: true}
}

type signInResponse struct {
	Address   string `json:"address"`
	PublicKey string `json:"publicKey"`
	Rejected  bool   `json:"rejected"`
}

// ResolveAddress implements wallets.Wallet
func (a *Adapter) ResolveAddress(ctx context.Context, session *wallets.Session) error {
	if session.Matches(a.Name()) {
		return nil
	}

	resp, err := utils.MakeJSONRequest[signInResponse](
		ctx,
		a.httpClient,
		http.MethodPost,
		fmt.Sprintf("%s/api/session/signin", a.bridgeURL),
		map[string]any{"id": uuid.NewString()},
		"signin",
	)
	if err != nil {
		return &wallets.AvailabilityError{Wallet: a.Name(), Reason: "Crossmark did not respond"}
	}
	if resp.Rejected {
		return &wallets.UserRejectedError{Wallet: a.Name()}
	}
	if resp.Address == "" {
		return &wallets.AvailabilityError{Wallet: a.Name(), Reason: "Crossmark returned no address"}
	}

	session.Address = resp.Address
	session.PublicKey = resp.PublicKey
	return nil
}

// MatchesNetwork implements wallets.NetworkMatcher
func (a *Adapter) MatchesNetwork(ctx context.Context, network string) (bool, error) {
	resp, err := utils.MakeJSONRequest[sessionResponse](
		ctx,
		a.httpClient,
		http.MethodGet,
		fmt.Sprintf("%s/api/session", a.bridgeURL),
		nil,
		"session",
	)
	if err != nil {
		return false, &wallets.TransportError{Op: a.Name(), Err: err}
	}
	return resp.Network == network, nil
}

type signTxResponse struct {
	SignedBlob string `json:"signedBlob"`
	Hash       string `json:"hash"`
	Rejected   bool   `json:"rejected"`
}

// Sign implements wallets.Wallet. Every request gets a fresh id; the extension
// correlates its prompt responses by it.
func (a *Adapter) Sign(ctx context.Context, intent *xrpl.TransactionIntent, opts wallets.SignOptions) (*wallets.SignResult, error) {
	resp, err := utils.MakeJSONRequest[signTxResponse](
		ctx,
		a.httpClient,
		http.MethodPost,
		fmt.Sprintf("%s/api/session/sign", a.bridgeURL),
		map[string]any{
			"id":          uuid.NewString(),
			"transaction": intent.TxJSON(),
		},
		"sign",
	)
	if err != nil {
		return nil, &wallets.TransportError{Op: a.Name(), Err: err}
	}
	if resp.Rejected {
		return nil, &wallets.UserRejectedError{Wallet: a.Name()}
	}
	if resp.SignedBlob == "" {
		return nil, &wallets.TransportError{Op: a.Name(), Err: fmt.Errorf("sign response missing blob")}
	}

	return &wallets.SignResult{Blob: resp.SignedBlob, Hash: resp.Hash}, nil
}
