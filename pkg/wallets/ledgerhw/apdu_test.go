package ledgerhw

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bithomp/xrpl-walletkit/pkg/wallets"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name          string
		path          string
		expected      []uint32
		expectedError bool
	}{
		{
			name:     "standard XRP path",
			path:     "44'/144'/0'/0/0",
			expected: []uint32{44 | hardenedBit, 144 | hardenedBit, hardenedBit, 0, 0},
		},
		{
			name:     "m prefix is accepted",
			path:     "m/44'/144'/0'/0/0",
			expected: []uint32{44 | hardenedBit, 144 | hardenedBit, hardenedBit, 0, 0},
		},
		{
			name:     "h suffix marks hardened",
			path:     "44h/144h/0h/0/0",
			expected: []uint32{44 | hardenedBit, 144 | hardenedBit, hardenedBit, 0, 0},
		},
		{name: "empty path rejected", path: "", expectedError: true},
		{name: "non-numeric component rejected", path: "44'/abc/0", expectedError: true},
		{name: "component above hardened bit rejected", path: "2147483648", expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			components, err := parsePath(tt.path)
			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, components)
		})
	}
}

func TestSerializePath(t *testing.T) {
	components := []uint32{44 | hardenedBit, 0}
	out := serializePath(components)

	assert.Equal(t, []byte{
		0x02,                   // component count
		0x80, 0x00, 0x00, 0x2c, // 44'
		0x00, 0x00, 0x00, 0x00, // 0
	}, out)
}

func TestBuildSignAPDUsChunking(t *testing.T) {
	path := []uint32{44 | hardenedBit, 144 | hardenedBit, hardenedBit, 0, 0}
	payload := bytes.Repeat([]byte{0xAB}, 400)

	apdus := buildSignAPDUs(path, payload)

	// 21 bytes of path plus 400 bytes of payload split into 255-byte chunks
	require.Len(t, apdus, 2)

	first, second := apdus[0], apdus[1]
	assert.Equal(t, byte(apduCLA), first[0])
	assert.Equal(t, byte(insSign), first[1])
	assert.Equal(t, byte(p1First), first[2])
	assert.Equal(t, byte(p2More), first[3], "first chunk signals continuation")
	assert.Equal(t, byte(maxAPDUChunkSize), first[4])
	assert.Len(t, first, 5+maxAPDUChunkSize)

	assert.Equal(t, byte(p1More), second[2])
	assert.Equal(t, byte(p2Last), second[3], "final chunk is flagged")
	assert.Equal(t, byte(21+400-maxAPDUChunkSize), second[4])

	// reassembled data is path then payload
	var data []byte
	data = append(data, first[5:]...)
	data = append(data, second[5:]...)
	assert.Equal(t, append(serializePath(path), payload...), data)
}

func TestBuildSignAPDUsSmallPayload(t *testing.T) {
	apdus := buildSignAPDUs([]uint32{0}, []byte{0x01})

	require.Len(t, apdus, 1)
	assert.Equal(t, byte(p1First), apdus[0][2])
	assert.Equal(t, byte(p2Last), apdus[0][3])
}

func TestSplitStatus(t *testing.T) {
	payload, sw, err := splitStatus([]byte{0xAA, 0xBB, 0x90, 0x00})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAA, 0xBB}, payload)
	assert.Equal(t, uint16(0x9000), sw)

	_, sw, err = splitStatus([]byte{0x69, 0x85})
	require.NoError(t, err)
	assert.Equal(t, uint16(0x6985), sw)

	_, _, err = splitStatus([]byte{0x90})
	assert.Error(t, err)
}

func TestStatusError(t *testing.T) {
	assert.NoError(t, statusError(swOK))

	var rejected *wallets.UserRejectedError
	assert.ErrorAs(t, statusError(swUserRejected), &rejected)

	var locked *wallets.DeviceLockedError
	assert.ErrorAs(t, statusError(swDeviceLocked), &locked)
	assert.ErrorAs(t, statusError(swDeviceLockedOld), &locked)

	var unavailable *wallets.AvailabilityError
	assert.ErrorAs(t, statusError(swInsNotSupported), &unavailable)
	assert.ErrorAs(t, statusError(swClaNotSupported), &unavailable)

	var transport *wallets.TransportError
	assert.ErrorAs(t, statusError(0x6a80), &transport)
}

func TestParsePublicKeyResponse(t *testing.T) {
	payload := []byte{
		0x02, 0xED, 0x01, // key
		0x04, 'r', 'A', 'B', 'C', // address
	}

	publicKey, address, err := parsePublicKeyResponse(payload)
	require.NoError(t, err)
	assert.Equal(t, "ED01", publicKey)
	assert.Equal(t, "rABC", address)
}

func TestParsePublicKeyResponseTruncated(t *testing.T) {
	_, _, err := parsePublicKeyResponse(nil)
	assert.Error(t, err)

	_, _, err = parsePublicKeyResponse([]byte{0x05, 0x01})
	assert.Error(t, err)

	_, _, err = parsePublicKeyResponse([]byte{0x01, 0xED, 0x05, 'r'})
	assert.Error(t, err)
}
