package wallets

import (
	"context"

	"github.com/Bithomp/xrpl-walletkit/pkg/xrpl"
)

// Wallet is the capability contract every signing backend implements. The
// orchestrator depends only on this interface; no caller-visible branching on
// backend identity exists above it.
type Wallet interface {
	// Name returns the backend name (e.g. "ledger", "walletconnect")
	Name() string

	// Capabilities returns the backend's declared capabilities, fixed at
	// construction time and never inferred at runtime
	Capabilities() Capabilities

	// Probe detects whether the backend can be used at all. Unavailability is
	// a normal outcome, not an error: Probe never fails.
	Probe(ctx context.Context) Availability

	// ResolveAddress fills the session with the backend's active address and,
	// where the backend exposes it, the matching public key. A session that
	// already names this backend and an address is reused without prompting.
	ResolveAddress(ctx context.Context, session *Session) error

	// Sign signs the intent. For sign-only requests it returns a raw
	// signature/blob without touching network state. Backends that declare
	// SubmitsOnSign submit atomically and return the transaction hash instead
	// of a blob.
	Sign(ctx context.Context, intent *xrpl.TransactionIntent, opts SignOptions) (*SignResult, error)
}

// NetworkMatcher is an optional interface for backends that must be validated
// against the caller's expected network before signing is attempted, because a
// mis-set backend would otherwise silently sign for the wrong network.
// Implemented by: hardware and extension backends.
type NetworkMatcher interface {
	// MatchesNetwork reports whether the backend is configured for the network
	MatchesNetwork(ctx context.Context, network string) (bool, error)
}

// Capabilities are declared per backend at construction time.
type Capabilities struct {
	// SubmitsOnSign marks backends whose native sign call already submits the
	// transaction atomically; their Sign result carries the hash and the
	// broadcast step is skipped.
	SubmitsOnSign bool

	// SignsMessagesWithoutParams marks backends that sign off-chain messages
	// with a fixed minimal sequence/fee placeholder instead of resolved
	// network parameters. Only honored on the sign-only path.
	SignsMessagesWithoutParams bool
}

// Availability is the result of a backend probe.
type Availability struct {
	Available bool
	Reason    string // human-readable reason when unavailable
}

// SignOptions control a single sign call.
type SignOptions struct {
	// SignOnly requests a raw signature/blob for off-chain use; the result is
	// never broadcast
	SignOnly bool

	// Network is the caller's expected network, forwarded to backends that
	// embed it in their native requests
	Network string
}

// SignResult is the outcome of a successful sign call. Exactly one of Blob or
// Hash-with-Submitted is meaningful, depending on the backend's capabilities.
type SignResult struct {
	Blob      string // hex-encoded signed transaction, empty for SubmitsOnSign backends
	Hash      string // transaction hash, set by SubmitsOnSign backends
	Submitted bool   // true when the backend already submitted the transaction
}
