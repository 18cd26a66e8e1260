package xrpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTxHash(t *testing.T) {
	tests := []struct {
		name          string
		blob          string
		expected      string
		expectedError bool
	}{
		{
			name:     "hashes a signed blob",
			blob:     "DEADBEEF",
			expected: "56407208DFBAA51501ED16B19D217C556A66FA8B9D075C3C09B8BA42C5E352E6",
		},
		{
			name:     "lowercase hex is accepted",
			blob:     "deadbeef",
			expected: "56407208DFBAA51501ED16B19D217C556A66FA8B9D075C3C09B8BA42C5E352E6",
		},
		{
			name:     "0x prefix is stripped",
			blob:     "0x120000",
			expected: "DC71B939905587CDF8410B02ACA9CC5E2BED966CC46C2D524EA08B62E2437A7D",
		},
		{
			name:          "non-hex blob is rejected",
			blob:          "not-hex",
			expectedError: true,
		},
		{
			name:          "empty blob is rejected",
			blob:          "",
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := TxHash(tt.blob)
			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, hash)
			assert.Len(t, hash, 64)
		})
	}
}
