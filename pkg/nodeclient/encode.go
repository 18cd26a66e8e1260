package nodeclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Bithomp/xrpl-walletkit/pkg/utils"
)

// encodeResponse is the node service's transaction encoding response
type encodeResponse struct {
	Blob string `json:"blob"`
}

// EncodeTx asks the node service for the canonical binary encoding of a
// transaction. With an empty signature it returns the unsigned signing blob;
// with a signature it returns the submittable signed blob. Backends that sign
// raw bytes (the hardware backend) use this instead of a local binary codec.
func (c *Client) EncodeTx(ctx context.Context, txJSON map[string]any, signature string) (string, error) {
	reqBody := map[string]any{
		"txJson":  txJSON,
		"network": c.Network,
	}
	if signature != "" {
		reqBody["txnSignature"] = signature
	}

	resp, err := utils.MakeJSONRequest[encodeResponse](
		ctx,
		c.HTTPClient,
		http.MethodPost,
		fmt.Sprintf("%s/v2/transaction/encode", c.URL),
		reqBody,
		"encode",
	)
	if err != nil {
		return "", err
	}
	if resp.Blob == "" {
		return "", fmt.Errorf("encode response missing blob")
	}

	return resp.Blob, nil
}
