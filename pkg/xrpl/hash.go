package xrpl

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Bithomp/xrpl-walletkit/pkg/constants"
)

// TxHash derives the transaction hash of a signed blob: the first half of
// SHA-512 over the signed-transaction prefix followed by the blob bytes.
// Backends that submit natively return the hash themselves; this covers the
// ones that only hand back a blob.
func TxHash(blobHex string) (string, error) {
	blob, err := hex.DecodeString(strings.TrimPrefix(blobHex, "0x"))
	if err != nil {
		return "", fmt.Errorf("invalid signed transaction blob: %w", err)
	}
	if len(blob) == 0 {
		return "", fmt.Errorf("empty signed transaction blob")
	}

	h := sha512.New()
	h.Write(constants.SignedTxPrefix)
	h.Write(blob)
	sum := h.Sum(nil)

	return strings.ToUpper(hex.EncodeToString(sum[:sha512.Size/2])), nil
}
