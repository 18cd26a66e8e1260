// Package metamask drives the XRPL snap inside MetaMask through the
// provider's JSON-RPC surface. The snap signs and submits natively, so the
// broadcast step is skipped for regular transactions.
package metamask

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/Bithomp/xrpl-walletkit/pkg/constants"
	"github.com/Bithomp/xrpl-walletkit/pkg/wallets"
	"github.com/Bithomp/xrpl-walletkit/pkg/xrpl"
)

// DefaultSnapID is the published XRPL snap
const DefaultSnapID = "npm:xrpl-snap"

// EIP-1193 provider error codes
const (
	codeUserRejected  = 4001
	codeUnauthorized  = 4100
	codeDisconnected  = 4900
	codeChainMismatch = 4901
)

// Config holds the adapter configuration
type Config struct {
	// ProviderURL is the MetaMask provider RPC endpoint
	ProviderURL string

	// SnapID defaults to DefaultSnapID
	SnapID string

	Logger *slog.Logger

	// Client overrides the RPC client, for tests (rpc.DialInProc)
	Client *rpc.Client
}

// Adapter implements wallets.Wallet for the MetaMask XRPL snap
type Adapter struct {
	providerURL string
	snapID      string
	logger      *slog.Logger

	client *rpc.Client
}

// NewAdapter creates a MetaMask adapter
func NewAdapter(config *Config) *Adapter {
	snapID := config.SnapID
	if snapID == "" {
		snapID = DefaultSnapID
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Adapter{
		providerURL: config.ProviderURL,
		snapID:      snapID,
		logger:      logger,
		client:      config.Client,
	}
}

// Name implements wallets.Wallet
func (a *Adapter) Name() string {
	return constants.WalletMetamask
}

// Capabilities implements wallets.Wallet
func (a *Adapter) Capabilities() wallets.Capabilities {
	return wallets.Capabilities{SubmitsOnSign: true}
}

// Probe implements wallets.Wallet: the provider must answer and the XRPL snap
// must be among the installed snaps
func (a *Adapter) Probe(ctx context.Context) wallets.Availability {
	probeCtx, cancel := context.WithTimeout(ctx, constants.BridgeProbeTimeout)
	defer cancel()

	client, err := a.connect(probeCtx)
	if err != nil {
		return wallets.Availability{Reason: "MetaMask provider is not reachable"}
	}

	var snaps map[string]any
	if err := client.CallContext(probeCtx, &snaps, "wallet_getSnaps"); err != nil {
		return wallets.Availability{Reason: "MetaMask provider is not reachable"}
	}
	if _, ok := snaps[a.snapID]; !ok {
		return wallets.Availability{Reason: "the XRPL snap is not installed"}
	}
	return wallets.Availability{Available: true}
}

type accountResult struct {
	Account   string `json:"account"`
	PublicKey string `json:"publicKey"`
}

// ResolveAddress implements wallets.Wallet
func (a *Adapter) ResolveAddress(ctx context.Context, session *wallets.Session) error {
	if session.Matches(a.Name()) {
		return nil
	}

	var result accountResult
	if err := a.invokeSnap(ctx, &result, "xrpl_getAccount", nil); err != nil {
		return err
	}
	if result.Account == "" {
		return &wallets.AvailabilityError{Wallet: a.Name(), Reason: "the XRPL snap returned no account"}
	}

	session.Address = result.Account
	session.PublicKey = result.PublicKey
	return nil
}

type networkResult struct {
	ChainID string `json:"chainId"`
}

// MatchesNetwork implements wallets.NetworkMatcher
func (a *Adapter) MatchesNetwork(ctx context.Context, network string) (bool, error) {
	var result networkResult
	if err := a.invokeSnap(ctx, &result, "xrpl_getActiveNetwork", nil); err != nil {
		return false, err
	}
	want, ok := constants.NetworkToChainID[network]
	if !ok {
		return false, fmt.Errorf("unknown network %q", network)
	}
	return result.ChainID == want, nil
}

type snapSignResult struct {
	Hash   string `json:"hash"`
	TxBlob string `json:"tx_blob"`
}

// Sign implements wallets.Wallet. Regular transactions go through the snap's
// sign-and-submit method; sign-only requests get the blob back unsubmitted.
func (a *Adapter) Sign(ctx context.Context, intent *xrpl.TransactionIntent, opts wallets.SignOptions) (*wallets.SignResult, error) {
	method := "xrpl_signAndSubmit"
	if opts.SignOnly {
		method = "xrpl_sign"
	}

	var result snapSignResult
	if err := a.invokeSnap(ctx, &result, method, map[string]any{"tx_json": intent.TxJSON()}); err != nil {
		return nil, err
	}

	if opts.SignOnly {
		if result.TxBlob == "" {
			return nil, &wallets.TransportError{Op: a.Name(), Err: fmt.Errorf("sign response missing blob")}
		}
		return &wallets.SignResult{Blob: result.TxBlob, Hash: result.Hash}, nil
	}

	if result.Hash == "" {
		return nil, &wallets.TransportError{Op: a.Name(), Err: fmt.Errorf("submit response missing hash")}
	}
	a.logger.Debug("transaction submitted by snap", "hash", result.Hash)
	return &wallets.SignResult{Hash: result.Hash, Submitted: true}, nil
}

// invokeSnap wraps wallet_invokeSnap and maps provider error codes to the
// shared taxonomy
func (a *Adapter) invokeSnap(ctx context.Context, result any, method string, params map[string]any) error {
	client, err := a.connect(ctx)
	if err != nil {
		return &wallets.AvailabilityError{Wallet: a.Name(), Reason: "MetaMask provider is not reachable"}
	}

	request := map[string]any{"method": method}
	if params != nil {
		request["params"] = params
	}
	err = client.CallContext(ctx, result, "wallet_invokeSnap", map[string]any{
		"snapId":  a.snapID,
		"request": request,
	})
	if err != nil {
		return a.mapProviderError(err)
	}
	return nil
}

func (a *Adapter) mapProviderError(err error) error {
	var providerErr rpc.Error
	if errors.As(err, &providerErr) {
		switch providerErr.ErrorCode() {
		case codeUserRejected:
			return &wallets.UserRejectedError{Wallet: a.Name()}
		case codeUnauthorized, codeDisconnected:
			return &wallets.AvailabilityError{Wallet: a.Name(), Reason: "MetaMask is not connected"}
		case codeChainMismatch:
			return &wallets.WrongNetworkError{Wallet: a.Name()}
		}
	}
	return &wallets.TransportError{Op: a.Name(), Err: err}
}

// connect lazily dials the provider; a test-injected client is used as-is
func (a *Adapter) connect(ctx context.Context) (*rpc.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	client, err := rpc.DialContext(ctx, a.providerURL)
	if err != nil {
		return nil, err
	}
	a.client = client
	return client, nil
}
