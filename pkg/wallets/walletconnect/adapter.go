// Package walletconnect reaches a mobile wallet through a WalletConnect v2
// relay. The adapter rides an already-paired session: the session topic and
// the namespace accounts come from the pairing flow, signing requests travel
// over the relay as JSON-RPC session requests.
package walletconnect

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Bithomp/xrpl-walletkit/pkg/constants"
	"github.com/Bithomp/xrpl-walletkit/pkg/wallets"
	"github.com/Bithomp/xrpl-walletkit/pkg/xrpl"
)

// relay protocol tags for session request/response messages
const (
	tagSessionRequest  = 1108
	tagSessionResponse = 1109
)

// wallet-side rejection codes
const (
	codeUserRejected    = 5000
	codeUserRejectedEIP = 4001
)

// Config holds the adapter configuration
type Config struct {
	// RelayURL is the websocket relay endpoint, e.g. wss://relay.walletconnect.com
	RelayURL string

	// SessionTopic identifies the established pairing session on the relay
	SessionTopic string

	// Account is the session's namespace account, e.g. "xrpl:0:rN7n7otQDd6FczFgLdSqtcsAUxDkw6fzRH"
	Account string

	Logger *slog.Logger

	// dial overrides the relay dialer, for tests
	dial func(ctx context.Context, relayURL string, logger *slog.Logger) (*relay, error)
}

// Adapter implements wallets.Wallet over a WalletConnect relay session
type Adapter struct {
	relayURL     string
	sessionTopic string
	account      string
	logger       *slog.Logger
	dial         func(ctx context.Context, relayURL string, logger *slog.Logger) (*relay, error)

	mu      sync.Mutex
	session *relay
	topicCh <-chan json.RawMessage
}

// NewAdapter creates a WalletConnect adapter
func NewAdapter(config *Config) *Adapter {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	dial := config.dial
	if dial == nil {
		dial = dialRelay
	}

	return &Adapter{
		relayURL:     config.RelayURL,
		sessionTopic: config.SessionTopic,
		account:      config.Account,
		logger:       logger,
		dial:         dial,
	}
}

// Name implements wallets.Wallet
func (a *Adapter) Name() string {
	return constants.WalletWalletConnect
}

// Capabilities implements wallets.Wallet. The wallet returns a signed blob;
// broadcast stays on this side.
func (a *Adapter) Capabilities() wallets.Capabilities {
	return wallets.Capabilities{}
}

// parseAccount splits a namespace account "xrpl:<chain>:<address>" into its
// chain id ("xrpl:<chain>") and classic address
func parseAccount(account string) (chainID string, address string, err error) {
	parts := strings.Split(account, ":")
	if len(parts) != 3 || parts[0] != "xrpl" || parts[2] == "" {
		return "", "", fmt.Errorf("malformed namespace account %q", account)
	}
	return parts[0] + ":" + parts[1], parts[2], nil
}

// Probe implements wallets.Wallet. No relay round trip here: a missing or
// malformed session config is the only thing that makes the backend
// unavailable before an attempt starts.
func (a *Adapter) Probe(_ context.Context) wallets.Availability {
	if a.relayURL == "" || a.sessionTopic == "" {
		return wallets.Availability{Reason: "no WalletConnect session configured"}
	}
	if _, _, err := parseAccount(a.account); err != nil {
		return wallets.Availability{Reason: "WalletConnect session has no XRPL account"}
	}
	return wallets.Availability{Available: true}
}

// ResolveAddress implements wallets.Wallet: dials the relay, subscribes to the
// session topic, and takes the address from the session's namespace account.
// The relay connection rides on the session so releasing it tears it down.
func (a *Adapter) ResolveAddress(ctx context.Context, session *wallets.Session) error {
	if session.Matches(a.Name()) {
		return nil
	}

	_, address, err := parseAccount(a.account)
	if err != nil {
		return &wallets.AvailabilityError{Wallet: a.Name(), Reason: "WalletConnect session has no XRPL account"}
	}

	if err := a.connect(ctx); err != nil {
		return &wallets.TransportError{Op: a.Name(), Err: err}
	}

	session.Address = address
	session.Transport = &relayHandle{adapter: a}
	return nil
}

// MatchesNetwork implements wallets.NetworkMatcher: the chain id baked into
// the namespace account must be the one the attempt targets
func (a *Adapter) MatchesNetwork(_ context.Context, network string) (bool, error) {
	chainID, _, err := parseAccount(a.account)
	if err != nil {
		return false, &wallets.TransportError{Op: a.Name(), Err: err}
	}
	want, ok := constants.NetworkToChainID[network]
	if !ok {
		return false, fmt.Errorf("unknown network %q", network)
	}
	return chainID == want, nil
}

// sessionRequest is the JSON-RPC payload published on the session topic
type sessionRequest struct {
	ID      int64                `json:"id"`
	JSONRPC string               `json:"jsonrpc"`
	Method  string               `json:"method"`
	Params  sessionRequestParams `json:"params"`
}

type sessionRequestParams struct {
	ChainID string       `json:"chainId"`
	Request innerRequest `json:"request"`
}

type innerRequest struct {
	Method string         `json:"method"`
	Params map[string]any `json:"params"`
}

type sessionResponse struct {
	ID     int64           `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type signResult struct {
	TxBlob string `json:"tx_blob"`
	Hash   string `json:"hash"`
}

// Sign implements wallets.Wallet: publishes an xrpl_signTransaction session
// request and waits for the wallet's response on the session topic. The wait
// is bounded only by the user confirming on their device, or the context.
func (a *Adapter) Sign(ctx context.Context, intent *xrpl.TransactionIntent, opts wallets.SignOptions) (*wallets.SignResult, error) {
	a.mu.Lock()
	session, topicCh := a.session, a.topicCh
	a.mu.Unlock()
	if session == nil {
		return nil, &wallets.AvailabilityError{Wallet: a.Name(), Reason: "no relay connection"}
	}

	chainID, _, err := parseAccount(a.account)
	if err != nil {
		return nil, &wallets.TransportError{Op: a.Name(), Err: err}
	}

	requestID := session.nextID.Add(1)
	request := sessionRequest{
		ID:      requestID,
		JSONRPC: "2.0",
		Method:  "wc_sessionRequest",
		Params: sessionRequestParams{
			ChainID: chainID,
			Request: innerRequest{
				Method: "xrpl_signTransaction",
				Params: map[string]any{
					"tx_json":   intent.TxJSON(),
					"autofill":  false,
					"submit":    false,
					"sign_only": opts.SignOnly,
				},
			},
		},
	}
	message, err := json.Marshal(&request)
	if err != nil {
		return nil, &wallets.TransportError{Op: a.Name(), Err: err}
	}

	if err := session.publish(ctx, a.sessionTopic, string(message), tagSessionRequest); err != nil {
		return nil, &wallets.TransportError{Op: a.Name(), Err: err}
	}

	for {
		select {
		case raw, ok := <-topicCh:
			if !ok {
				return nil, &wallets.TransportError{Op: a.Name(), Err: fmt.Errorf("relay connection lost")}
			}
			var resp sessionResponse
			if err := json.Unmarshal(raw, &resp); err != nil {
				a.logger.Warn("ignoring malformed session message", "error", err)
				continue
			}
			if resp.ID != requestID {
				continue
			}
			if resp.Error != nil {
				if resp.Error.Code == codeUserRejected || resp.Error.Code == codeUserRejectedEIP {
					return nil, &wallets.UserRejectedError{Wallet: a.Name()}
				}
				return nil, &wallets.TransportError{Op: a.Name(), Err: resp.Error.Err()}
			}

			var result signResult
			if err := json.Unmarshal(resp.Result, &result); err != nil {
				return nil, &wallets.TransportError{Op: a.Name(), Err: err}
			}
			if result.TxBlob == "" {
				return nil, &wallets.TransportError{Op: a.Name(), Err: fmt.Errorf("sign response missing blob")}
			}
			return &wallets.SignResult{Blob: result.TxBlob, Hash: result.Hash}, nil

		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// connect establishes the relay connection and topic subscription, reusing an
// existing live one
func (a *Adapter) connect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.session != nil {
		select {
		case <-a.session.done:
			a.session = nil
		default:
			return nil
		}
	}

	session, err := a.dial(ctx, a.relayURL, a.logger)
	if err != nil {
		return err
	}
	topicCh, err := session.subscribe(ctx, a.sessionTopic)
	if err != nil {
		_ = session.Close()
		return err
	}

	a.session = session
	a.topicCh = topicCh
	return nil
}

// disconnect tears down the relay connection
func (a *Adapter) disconnect() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.session != nil {
		_ = a.session.Close()
		a.session = nil
		a.topicCh = nil
	}
}

// relayHandle ties the session's transport slot to the adapter's relay
// connection
type relayHandle struct {
	adapter *Adapter
}

func (h *relayHandle) Close() error {
	h.adapter.disconnect()
	return nil
}
