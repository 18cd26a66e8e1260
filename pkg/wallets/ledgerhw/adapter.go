// Package ledgerhw drives a Ledger hardware device over USB/HID. The device
// signs raw transaction bytes, so the adapter leans on the node service for
// canonical encoding: encode unsigned, sign on the device, encode signed.
package ledgerhw

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Bithomp/xrpl-walletkit/pkg/constants"
	"github.com/Bithomp/xrpl-walletkit/pkg/wallets"
	"github.com/Bithomp/xrpl-walletkit/pkg/xrpl"
)

const walletName = constants.WalletLedger

// DefaultDerivationPath is the standard XRP account path
const DefaultDerivationPath = "44'/144'/0'/0/0"

// Encoder provides canonical transaction encoding. With an empty signature it
// returns the unsigned signing blob, with one the submittable signed blob.
// Implemented by: nodeclient.Client.
type Encoder interface {
	EncodeTx(ctx context.Context, txJSON map[string]any, signature string) (string, error)
}

// Config holds the adapter configuration
type Config struct {
	// DerivationPath defaults to DefaultDerivationPath
	DerivationPath string

	// Network this adapter instance signs for; checked before signing so a
	// mis-set instance cannot silently sign for the wrong network
	Network string

	Encoder Encoder
	Logger  *slog.Logger

	// openTransport overrides the HID transport, for tests
	openTransport func() (transport, error)
}

// Adapter implements wallets.Wallet for a Ledger device
type Adapter struct {
	path    []uint32
	network string
	encoder Encoder
	logger  *slog.Logger
	open    func() (transport, error)

	mu     sync.Mutex
	device transport // held open for reuse within one attempt
}

// NewAdapter creates a Ledger adapter
func NewAdapter(config *Config) (*Adapter, error) {
	pathSpec := config.DerivationPath
	if pathSpec == "" {
		pathSpec = DefaultDerivationPath
	}
	components, err := parsePath(pathSpec)
	if err != nil {
		return nil, fmt.Errorf("invalid derivation path: %w", err)
	}

	network := config.Network
	if network == "" {
		network = constants.NetworkMainnet
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	open := config.openTransport
	if open == nil {
		open = openHIDTransport
	}

	return &Adapter{
		path:    components,
		network: network,
		encoder: config.Encoder,
		logger:  logger,
		open:    open,
	}, nil
}

// Name implements wallets.Wallet
func (a *Adapter) Name() string {
	return walletName
}

// Capabilities implements wallets.Wallet. The device cannot resolve network
// params itself, so off-chain message signing runs with the fixed placeholder
// params the orchestrator substitutes on the sign-only path.
func (a *Adapter) Capabilities() wallets.Capabilities {
	return wallets.Capabilities{SignsMessagesWithoutParams: true}
}

// Probe implements wallets.Wallet: a device is present, opens, and answers the
// app configuration request. A locked device still counts as available; the
// lock surfaces as DeviceLockedError with remediation text later.
func (a *Adapter) Probe(ctx context.Context) wallets.Availability {
	device, err := a.acquire()
	if err != nil {
		return wallets.Availability{Reason: "no Ledger device connected"}
	}

	if _, err := a.exchange(ctx, device, buildGetAppConfigAPDU()); err != nil {
		var locked *wallets.DeviceLockedError
		if errors.As(err, &locked) {
			return wallets.Availability{Available: true}
		}
		a.release()
		return wallets.Availability{Reason: "the XRP app is not open on the device"}
	}

	return wallets.Availability{Available: true}
}

// ResolveAddress implements wallets.Wallet: asks the device for the public key
// and address of the configured derivation path. The open transport handle is
// placed on the session so a cancelled or failed attempt releases it.
func (a *Adapter) ResolveAddress(ctx context.Context, session *wallets.Session) error {
	if session.Matches(a.Name()) {
		return nil
	}

	device, err := a.acquire()
	if err != nil {
		return &wallets.AvailabilityError{Wallet: a.Name(), Reason: "no Ledger device connected"}
	}

	payload, err := a.exchange(ctx, device, buildGetPublicKeyAPDU(a.path))
	if err != nil {
		a.release()
		return err
	}

	publicKey, address, err := parsePublicKeyResponse(payload)
	if err != nil {
		a.release()
		return &wallets.TransportError{Op: a.Name(), Err: err}
	}

	session.Address = address
	session.PublicKey = publicKey
	session.Transport = &deviceHandle{adapter: a}
	return nil
}

// MatchesNetwork implements wallets.NetworkMatcher. The device itself has no
// network setting; the guard catches an adapter instance configured for a
// different network than the attempt expects.
func (a *Adapter) MatchesNetwork(_ context.Context, network string) (bool, error) {
	return a.network == network, nil
}

// Sign implements wallets.Wallet: encode unsigned via the node service, sign
// the raw bytes on the device, encode signed. The intent must already carry
// resolved params (or the sign-only placeholders) and the signing public key.
func (a *Adapter) Sign(ctx context.Context, intent *xrpl.TransactionIntent, opts wallets.SignOptions) (*wallets.SignResult, error) {
	if intent.SigningPubKey == "" {
		return nil, &wallets.TransportError{Op: a.Name(), Err: fmt.Errorf("intent missing signing public key")}
	}

	device, err := a.acquire()
	if err != nil {
		return nil, &wallets.AvailabilityError{Wallet: a.Name(), Reason: "no Ledger device connected"}
	}

	unsignedBlob, err := a.encoder.EncodeTx(ctx, intent.TxJSON(), "")
	if err != nil {
		return nil, &wallets.TransportError{Op: a.Name(), Err: err}
	}
	unsigned, err := hex.DecodeString(strings.TrimPrefix(unsignedBlob, "0x"))
	if err != nil {
		return nil, &wallets.TransportError{Op: a.Name(), Err: fmt.Errorf("invalid unsigned blob: %w", err)}
	}

	var signature []byte
	for _, apdu := range buildSignAPDUs(a.path, unsigned) {
		signature, err = a.exchange(ctx, device, apdu)
		if err != nil {
			return nil, err
		}
	}
	if len(signature) == 0 {
		return nil, &wallets.TransportError{Op: a.Name(), Err: fmt.Errorf("device returned empty signature")}
	}
	signatureHex := strings.ToUpper(hex.EncodeToString(signature))

	signedBlob, err := a.encoder.EncodeTx(ctx, intent.TxJSON(), signatureHex)
	if err != nil {
		return nil, &wallets.TransportError{Op: a.Name(), Err: err}
	}

	hash, err := xrpl.TxHash(signedBlob)
	if err != nil {
		return nil, &wallets.TransportError{Op: a.Name(), Err: err}
	}

	a.logger.Debug("transaction signed on device", "hash", hash, "signOnly", opts.SignOnly)
	return &wallets.SignResult{Blob: signedBlob, Hash: hash}, nil
}

// acquire returns the held device transport, opening one if needed
func (a *Adapter) acquire() (transport, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.device != nil {
		return a.device, nil
	}
	device, err := a.open()
	if err != nil {
		return nil, err
	}
	a.device = device
	return device, nil
}

// release closes and drops the held device transport
func (a *Adapter) release() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.device != nil {
		_ = a.device.Close()
		a.device = nil
	}
}

// exchange sends one APDU, honoring context cancellation, and maps the status
// word through the shared taxonomy
func (a *Adapter) exchange(ctx context.Context, device transport, apdu []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	response, err := device.Exchange(apdu)
	if err != nil {
		return nil, &wallets.TransportError{Op: a.Name(), Err: err}
	}

	payload, sw, err := splitStatus(response)
	if err != nil {
		return nil, &wallets.TransportError{Op: a.Name(), Err: err}
	}
	if err := statusError(sw); err != nil {
		return nil, err
	}
	return payload, nil
}

// deviceHandle ties the session's transport slot to the adapter's held device,
// so releasing the session releases the device exactly once
type deviceHandle struct {
	adapter *Adapter
}

func (h *deviceHandle) Close() error {
	h.adapter.release()
	return nil
}
