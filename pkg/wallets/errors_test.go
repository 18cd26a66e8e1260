package wallets

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUserRejected(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "direct rejection",
			err:      &UserRejectedError{Wallet: "gemwallet"},
			expected: true,
		},
		{
			name:     "wrapped rejection",
			err:      fmt.Errorf("sign failed: %w", &UserRejectedError{Wallet: "ledger"}),
			expected: true,
		},
		{
			name:     "other taxonomy error",
			err:      &AvailabilityError{Wallet: "ledger", Reason: "no device"},
			expected: false,
		},
		{
			name:     "plain error",
			err:      errors.New("boom"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsUserRejected(tt.err))
		})
	}
}

func TestRecoverable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "params failure is recoverable",
			err:      &ParamsError{Err: errors.New("service unavailable")},
			expected: true,
		},
		{
			name:     "transport failure is recoverable",
			err:      &TransportError{Op: "submit", Err: errors.New("timeout")},
			expected: true,
		},
		{
			name:     "wrapped transport failure is recoverable",
			err:      fmt.Errorf("attempt failed: %w", &TransportError{Op: "relay", Err: errors.New("closed")}),
			expected: true,
		},
		{
			name:     "user rejection requires user action",
			err:      &UserRejectedError{Wallet: "crossmark"},
			expected: false,
		},
		{
			name:     "unavailability requires user action",
			err:      &AvailabilityError{Wallet: "metamask", Reason: "not installed"},
			expected: false,
		},
		{
			name:     "wrong network requires user action",
			err:      &WrongNetworkError{Wallet: "gemwallet", Want: "mainnet", Got: "testnet"},
			expected: false,
		},
		{
			name:     "locked device requires user action",
			err:      &DeviceLockedError{Wallet: "ledger"},
			expected: false,
		},
		{
			name:     "engine rejection is terminal for the payload",
			err:      &EngineError{Code: "tefPAST_SEQ", Message: "sequence already used"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Recoverable(tt.err))
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")

	assert.ErrorIs(t, &ParamsError{Err: cause}, cause)
	assert.ErrorIs(t, &TransportError{Op: "params", Err: cause}, cause)
}

func TestWrongNetworkErrorText(t *testing.T) {
	withGot := &WrongNetworkError{Wallet: "gemwallet", Want: "mainnet", Got: "testnet"}
	assert.Equal(t, "gemwallet is set to testnet, expected mainnet", withGot.Error())

	withoutGot := &WrongNetworkError{Wallet: "ledger", Want: "mainnet"}
	assert.Equal(t, "ledger is not set to mainnet", withoutGot.Error())
}
