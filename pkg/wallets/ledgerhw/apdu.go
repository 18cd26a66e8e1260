package ledgerhw

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Bithomp/xrpl-walletkit/pkg/wallets"
)

// XRP app instruction set
const (
	apduCLA          = 0xE0
	insGetAppConfig  = 0x06
	insGetPublicKey  = 0x02
	insSign          = 0x04
	p1First          = 0x00
	p1More           = 0x01
	p2Last           = 0x00
	p2More           = 0x80
	maxAPDUChunkSize = 255
	hardenedBit      = 0x80000000
)

// device status words
const (
	swOK              = 0x9000
	swUserRejected    = 0x6985
	swDeviceLocked    = 0x5515
	swDeviceLockedOld = 0x6b0c
	swInsNotSupported = 0x6d00
	swClaNotSupported = 0x6e00
)

// statusError maps a device status word to the shared error taxonomy. The
// wrong-app words map to unavailability: from the caller's point of view the
// signing app simply is not there.
func statusError(sw uint16) error {
	switch sw {
	case swOK:
		return nil
	case swUserRejected:
		return &wallets.UserRejectedError{Wallet: walletName}
	case swDeviceLocked, swDeviceLockedOld:
		return &wallets.DeviceLockedError{Wallet: walletName}
	case swInsNotSupported, swClaNotSupported:
		return &wallets.AvailabilityError{Wallet: walletName, Reason: "the XRP app is not open on the device"}
	default:
		return &wallets.TransportError{Op: walletName, Err: fmt.Errorf("device returned status %#04x", sw)}
	}
}

// splitStatus separates a raw device response into payload and status word
func splitStatus(response []byte) ([]byte, uint16, error) {
	if len(response) < 2 {
		return nil, 0, fmt.Errorf("device response too short: %d bytes", len(response))
	}
	sw := uint16(response[len(response)-2])<<8 | uint16(response[len(response)-1])
	return response[:len(response)-2], sw, nil
}

// parsePath parses a BIP32 derivation path like "44'/144'/0'/0/0"
func parsePath(path string) ([]uint32, error) {
	path = strings.TrimPrefix(path, "m/")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		return nil, fmt.Errorf("empty derivation path")
	}

	components := make([]uint32, 0, len(parts))
	for _, part := range parts {
		hardened := strings.HasSuffix(part, "'") || strings.HasSuffix(part, "h")
		if hardened {
			part = part[:len(part)-1]
		}
		value, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid path component %q: %w", part, err)
		}
		if value >= hardenedBit {
			return nil, fmt.Errorf("path component %d out of range", value)
		}
		if hardened {
			value |= hardenedBit
		}
		components = append(components, uint32(value))
	}
	return components, nil
}

// serializePath encodes a parsed path as the device expects: a component
// count followed by big-endian 32-bit components
func serializePath(components []uint32) []byte {
	out := make([]byte, 0, 1+4*len(components))
	out = append(out, byte(len(components)))
	for _, c := range components {
		out = append(out, byte(c>>24), byte(c>>16), byte(c>>8), byte(c))
	}
	return out
}

// buildGetAppConfigAPDU returns the app configuration request
func buildGetAppConfigAPDU() []byte {
	return []byte{apduCLA, insGetAppConfig, 0x00, 0x00, 0x00}
}

// buildGetPublicKeyAPDU returns the address/public key request for a path
func buildGetPublicKeyAPDU(components []uint32) []byte {
	payload := serializePath(components)
	apdu := []byte{apduCLA, insGetPublicKey, 0x00, 0x00, byte(len(payload))}
	return append(apdu, payload...)
}

// buildSignAPDUs chunks the derivation path and signing payload into the APDU
// sequence the device expects. The final chunk is flagged so the device knows
// when to render the confirmation screen and produce the signature.
func buildSignAPDUs(components []uint32, payload []byte) [][]byte {
	data := append(serializePath(components), payload...)

	var apdus [][]byte
	for first := true; len(data) > 0 || first; first = false {
		n := len(data)
		if n > maxAPDUChunkSize {
			n = maxAPDUChunkSize
		}
		chunk := data[:n]
		data = data[n:]

		p1 := byte(p1More)
		if first {
			p1 = p1First
		}
		p2 := byte(p2Last)
		if len(data) > 0 {
			p2 = p2More
		}

		apdu := []byte{apduCLA, insSign, p1, p2, byte(len(chunk))}
		apdus = append(apdus, append(apdu, chunk...))
	}
	return apdus
}

// parsePublicKeyResponse decodes the get-public-key payload:
// [keyLen][key][addressLen][address]
func parsePublicKeyResponse(payload []byte) (publicKey string, address string, err error) {
	if len(payload) < 1 {
		return "", "", fmt.Errorf("empty public key response")
	}
	keyLen := int(payload[0])
	if len(payload) < 1+keyLen+1 {
		return "", "", fmt.Errorf("truncated public key response")
	}
	key := payload[1 : 1+keyLen]

	rest := payload[1+keyLen:]
	addrLen := int(rest[0])
	if len(rest) < 1+addrLen {
		return "", "", fmt.Errorf("truncated address in response")
	}
	addr := rest[1 : 1+addrLen]

	return strings.ToUpper(fmt.Sprintf("%x", key)), string(addr), nil
}
