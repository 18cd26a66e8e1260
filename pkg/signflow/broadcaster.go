package signflow

import (
	"context"
	"log/slog"

	"github.com/Bithomp/xrpl-walletkit/pkg/constants"
	"github.com/Bithomp/xrpl-walletkit/pkg/nodeclient"
	"github.com/Bithomp/xrpl-walletkit/pkg/wallets"
	"github.com/Bithomp/xrpl-walletkit/pkg/xrpl"
)

// SubmitSource submits a signed payload to the ledger network.
// Implemented by: nodeclient.Client.
type SubmitSource interface {
	Submit(ctx context.Context, blob string) (*nodeclient.SubmitResult, error)
}

// Broadcaster submits a signed payload exactly once per attempt and classifies
// the result. There is no implicit retry: a transport timeout is a transport
// error, never a silent success, and a rejected payload is never resubmitted.
type Broadcaster struct {
	source SubmitSource
	logger *slog.Logger
}

// NewBroadcaster creates a broadcast submitter
func NewBroadcaster(source SubmitSource, logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{
		source: source,
		logger: logger,
	}
}

// Broadcast submits the payload and returns the transaction hash on
// acceptance. Engine rejections map through the static result-code table;
// everything without a structured response maps to a transport error.
func (b *Broadcaster) Broadcast(ctx context.Context, payload *xrpl.SignedPayload) (string, error) {
	result, err := b.source.Submit(ctx, payload.Blob)
	if err != nil {
		return "", &wallets.TransportError{Op: "submit", Err: err}
	}

	if !constants.EngineResultAccepted(result.EngineResult) {
		b.logger.Warn("payload rejected by the network",
			"engineResult", result.EngineResult)
		return "", &wallets.EngineError{
			Code:    result.EngineResult,
			Message: constants.EngineResultText(result.EngineResult),
		}
	}

	hash := result.Hash
	if hash == "" {
		hash = payload.Hash
	}
	if hash == "" {
		// blob-signing backends may not have computed it yet
		hash, err = xrpl.TxHash(payload.Blob)
		if err != nil {
			return "", &wallets.TransportError{Op: "submit", Err: err}
		}
	}

	b.logger.Info("payload accepted by the network",
		"hash", hash,
		"engineResult", result.EngineResult)

	return hash, nil
}
