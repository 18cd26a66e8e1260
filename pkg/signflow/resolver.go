package signflow

import (
	"context"
	"log/slog"

	"github.com/Bithomp/xrpl-walletkit/pkg/wallets"
	"github.com/Bithomp/xrpl-walletkit/pkg/xrpl"
)

// ParamsSource provides fresh network transaction parameters.
// Implemented by: nodeclient.Client.
type ParamsSource interface {
	NextParams(ctx context.Context, intent *xrpl.TransactionIntent) (*xrpl.NetworkParams, error)
}

// Resolver fetches the next valid sequence number, fee estimate, and
// last-valid-ledger bound for an intent and writes them onto it in place.
//
// A fee the caller set explicitly before resolution survives it (override wins
// over the server estimate, modeling fee-bumping). An explicitly set expiry
// bound does not: the freshly resolved bound always replaces it, since a stale
// caller-held bound silently changes the transaction's validity window.
type Resolver struct {
	source ParamsSource
	logger *slog.Logger
}

// NewResolver creates a parameter resolver
func NewResolver(source ParamsSource, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		source: source,
		logger: logger,
	}
}

// Resolve performs the one parameter fetch of an attempt. On failure the
// intent is left untouched and the attempt must halt: params are never
// defaulted or guessed.
func (r *Resolver) Resolve(ctx context.Context, intent *xrpl.TransactionIntent) error {
	feeOverride := intent.Fee

	params, err := r.source.NextParams(ctx, intent)
	if err != nil {
		return &wallets.ParamsError{Err: err}
	}

	intent.Sequence = params.Sequence
	intent.Fee = params.Fee
	intent.LastLedgerSequence = params.LastLedgerSequence

	if feeOverride != "" {
		intent.Fee = feeOverride
		r.logger.Debug("caller fee override kept",
			"override", feeOverride,
			"estimate", params.Fee)
	}

	r.logger.Debug("transaction parameters resolved",
		"sequence", intent.Sequence,
		"fee", intent.Fee,
		"lastLedgerSequence", intent.LastLedgerSequence)

	return nil
}
