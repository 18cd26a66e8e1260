package nodeclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Bithomp/xrpl-walletkit/pkg/constants"
	"github.com/Bithomp/xrpl-walletkit/pkg/utils"
	"github.com/Bithomp/xrpl-walletkit/pkg/xrpl"
)

// DefaultNodeURL is the default URL for the Bithomp node service
const DefaultNodeURL = "https://bithomp.com/api"

// Config holds the node client configuration
type Config struct {
	URL     string
	Network string // one of constants.Network*

	// HTTPClient overrides the default client with timeouts, mainly for tests
	HTTPClient *http.Client
}

// Client provides access to the network-facing node service: fresh transaction
// parameters, canonical transaction encoding, and signed payload submission.
// It is the only component that talks to the ledger network.
type Client struct {
	URL        string
	Network    string
	HTTPClient *http.Client
}

// NewClient creates a node service client
func NewClient(config *Config) *Client {
	if config == nil {
		config = &Config{}
	}

	url := config.URL
	if url == "" {
		url = DefaultNodeURL
	}
	// Fall back to the default URL rather than talking to an insecure endpoint
	if err := utils.ValidateServiceURL(url); err != nil {
		url = DefaultNodeURL
	}

	network := config.Network
	if network == "" {
		network = constants.NetworkMainnet
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = utils.NewHTTPClientWithTimeouts()
	}

	return &Client{
		URL:        url,
		Network:    network,
		HTTPClient: httpClient,
	}
}

// NextParams fetches the next valid sequence number, a current fee estimate,
// and the last-valid-ledger bound for the intent's account. Params are
// account-global mutable state: they are valid only for the attempt that
// fetched them and must never be cached.
func (c *Client) NextParams(ctx context.Context, intent *xrpl.TransactionIntent) (*xrpl.NetworkParams, error) {
	reqBody := map[string]any{
		"account":         intent.Account,
		"transactionType": intent.TransactionType,
		"network":         c.Network,
	}

	return utils.MakeJSONRequest[xrpl.NetworkParams](
		ctx,
		c.HTTPClient,
		http.MethodPost,
		fmt.Sprintf("%s/v2/transaction/params", c.URL),
		reqBody,
		"params",
	)
}
