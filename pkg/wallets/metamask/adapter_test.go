package metamask

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bithomp/xrpl-walletkit/pkg/wallets"
	"github.com/Bithomp/xrpl-walletkit/pkg/xrpl"
)

// providerError mimics an EIP-1193 provider error
type providerError struct {
	code    int
	message string
}

func (e *providerError) Error() string  { return e.message }
func (e *providerError) ErrorCode() int { return e.code }

// walletService is an in-process stand-in for the MetaMask provider surface
type walletService struct {
	snaps     map[string]any
	chainID   string
	account   string
	rejectAll bool
	calls     []string
}

func (s *walletService) GetSnaps() (map[string]any, error) {
	return s.snaps, nil
}

func (s *walletService) InvokeSnap(params map[string]any) (map[string]any, error) {
	request := params["request"].(map[string]any)
	method := request["method"].(string)
	s.calls = append(s.calls, method)

	if s.rejectAll {
		return nil, &providerError{code: codeUserRejected, message: "user rejected the request"}
	}

	switch method {
	case "xrpl_getAccount":
		return map[string]any{"account": s.account, "publicKey": "ED03"}, nil
	case "xrpl_getActiveNetwork":
		return map[string]any{"chainId": s.chainID}, nil
	case "xrpl_signAndSubmit":
		return map[string]any{"hash": "HASH123"}, nil
	case "xrpl_sign":
		return map[string]any{"tx_blob": "DEADBEEF", "hash": "HASH456"}, nil
	default:
		return nil, errors.New("unknown snap method")
	}
}

func newTestAdapter(t *testing.T, service *walletService) *Adapter {
	t.Helper()
	server := rpc.NewServer()
	require.NoError(t, server.RegisterName("wallet", service))
	t.Cleanup(server.Stop)

	client := rpc.DialInProc(server)
	t.Cleanup(client.Close)

	return NewAdapter(&Config{Client: client})
}

func TestProbe(t *testing.T) {
	t.Run("snap installed", func(t *testing.T) {
		adapter := newTestAdapter(t, &walletService{snaps: map[string]any{DefaultSnapID: map[string]any{"version": "1.0.0"}}})
		availability := adapter.Probe(context.Background())
		assert.True(t, availability.Available)
	})

	t.Run("snap not installed", func(t *testing.T) {
		adapter := newTestAdapter(t, &walletService{snaps: map[string]any{}})
		availability := adapter.Probe(context.Background())
		assert.False(t, availability.Available)
		assert.Equal(t, "the XRPL snap is not installed", availability.Reason)
	})
}

func TestResolveAddress(t *testing.T) {
	service := &walletService{account: "rMetaMask"}
	adapter := newTestAdapter(t, service)

	session := &wallets.Session{Wallet: adapter.Name()}
	require.NoError(t, adapter.ResolveAddress(context.Background(), session))

	assert.Equal(t, "rMetaMask", session.Address)
	assert.Equal(t, "ED03", session.PublicKey)
	assert.Equal(t, []string{"xrpl_getAccount"}, service.calls)
}

func TestResolveAddressRejected(t *testing.T) {
	adapter := newTestAdapter(t, &walletService{rejectAll: true})

	err := adapter.ResolveAddress(context.Background(), &wallets.Session{Wallet: adapter.Name()})

	var rejected *wallets.UserRejectedError
	assert.ErrorAs(t, err, &rejected)
}

func TestMatchesNetwork(t *testing.T) {
	adapter := newTestAdapter(t, &walletService{chainID: "xrpl:1"})

	matches, err := adapter.MatchesNetwork(context.Background(), "testnet")
	require.NoError(t, err)
	assert.True(t, matches)

	matches, err = adapter.MatchesNetwork(context.Background(), "mainnet")
	require.NoError(t, err)
	assert.False(t, matches)
}

func TestSignSubmitsNatively(t *testing.T) {
	service := &walletService{}
	adapter := newTestAdapter(t, service)

	intent := &xrpl.TransactionIntent{TransactionType: "Payment", Account: "rMetaMask"}
	result, err := adapter.Sign(context.Background(), intent, wallets.SignOptions{})

	require.NoError(t, err)
	assert.Equal(t, "HASH123", result.Hash)
	assert.True(t, result.Submitted)
	assert.Equal(t, []string{"xrpl_signAndSubmit"}, service.calls)
}

func TestSignOnlyReturnsBlob(t *testing.T) {
	service := &walletService{}
	adapter := newTestAdapter(t, service)

	result, err := adapter.Sign(context.Background(), &xrpl.TransactionIntent{TransactionType: "Payment"}, wallets.SignOptions{SignOnly: true})

	require.NoError(t, err)
	assert.Equal(t, "DEADBEEF", result.Blob)
	assert.False(t, result.Submitted)
	assert.Equal(t, []string{"xrpl_sign"}, service.calls)
}

func TestProviderErrorMapping(t *testing.T) {
	adapter := NewAdapter(&Config{})

	tests := []struct {
		name     string
		code     int
		expected any
	}{
		{name: "user rejection", code: codeUserRejected, expected: new(*wallets.UserRejectedError)},
		{name: "unauthorized", code: codeUnauthorized, expected: new(*wallets.AvailabilityError)},
		{name: "disconnected", code: codeDisconnected, expected: new(*wallets.AvailabilityError)},
		{name: "chain mismatch", code: codeChainMismatch, expected: new(*wallets.WrongNetworkError)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := adapter.mapProviderError(&providerError{code: tt.code, message: "provider error"})
			assert.True(t, errors.As(err, tt.expected))
		})
	}

	var transport *wallets.TransportError
	assert.ErrorAs(t, adapter.mapProviderError(errors.New("boom")), &transport)
}
