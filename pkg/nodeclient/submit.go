package nodeclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Bithomp/xrpl-walletkit/pkg/utils"
)

// SubmitResult is the node service's submission outcome. EngineResult carries
// the transaction engine result code; the payload was accepted only when
// constants.EngineResultAccepted reports so.
type SubmitResult struct {
	Hash                string `json:"hash"`
	EngineResult        string `json:"engineResult"`
	EngineResultMessage string `json:"engineResultMessage"`
}

// Submit posts a signed payload to the node service exactly once. Structured
// rejections (an engine result code, whether delivered with a 2xx or an error
// status) come back as a SubmitResult; only transport-level failures and
// unstructured server errors are returned as errors.
func (c *Client) Submit(ctx context.Context, blob string) (*SubmitResult, error) {
	reqBody := map[string]any{
		"signedTransaction": blob,
		"network":           c.Network,
	}

	result, err := utils.MakeJSONRequest[SubmitResult](
		ctx,
		c.HTTPClient,
		http.MethodPost,
		fmt.Sprintf("%s/v2/transaction/submit", c.URL),
		reqBody,
		"submit",
	)
	if err == nil {
		return result, nil
	}

	// Some deployments report engine rejections with an error status and an
	// {error: {code, message}} body. Normalize those into a SubmitResult so
	// callers classify rejections in one place.
	var httpErr *utils.HTTPError
	if errors.As(err, &httpErr) && len(httpErr.Body) > 0 {
		var errResp struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if jsonErr := json.Unmarshal(httpErr.Body, &errResp); jsonErr == nil && errResp.Error.Code != "" {
			return &SubmitResult{
				EngineResult:        errResp.Error.Code,
				EngineResultMessage: errResp.Error.Message,
			}, nil
		}
	}

	return nil, err
}
