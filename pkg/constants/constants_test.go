package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEngineResultAccepted(t *testing.T) {
	tests := []struct {
		code     string
		accepted bool
	}{
		{"tesSUCCESS", true},
		{"terQUEUED", true},
		{"tecUNFUNDED_PAYMENT", false},
		{"tefPAST_SEQ", false},
		{"temBAD_FEE", false},
		{"telINSUF_FEE_P", false},
		{"terPRE_SEQ", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.accepted, EngineResultAccepted(tt.code))
		})
	}
}

func TestEngineResultText(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected string
	}{
		{
			name:     "known code uses specific text",
			code:     "tecUNFUNDED_PAYMENT",
			expected: "The sending account has insufficient XRP to send this payment.",
		},
		{
			name:     "unknown tec code falls back to class text",
			code:     "tecSOME_FUTURE_CODE",
			expected: "The transaction failed but a fee was claimed.",
		},
		{
			name:     "unknown tem code falls back to class text",
			code:     "temSOME_FUTURE_CODE",
			expected: "The transaction is malformed.",
		},
		{
			name:     "unknown class uses generic text",
			code:     "txABC",
			expected: "The transaction failed with an unrecognized result code.",
		},
		{
			name:     "short code uses generic text",
			code:     "te",
			expected: "The transaction failed with an unrecognized result code.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EngineResultText(tt.code))
		})
	}
}

func TestNetworkToChainID(t *testing.T) {
	assert.Equal(t, "xrpl:0", NetworkToChainID[NetworkMainnet])
	assert.Equal(t, "xrpl:1", NetworkToChainID[NetworkTestnet])
	assert.Equal(t, "xrpl:2", NetworkToChainID[NetworkDevnet])
}
