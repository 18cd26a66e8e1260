package signflow

import (
	"log/slog"

	"github.com/Bithomp/xrpl-walletkit/pkg/wallets"
	"github.com/Bithomp/xrpl-walletkit/pkg/xrpl"
)

// OutcomeKind tags the terminal result of an attempt
type OutcomeKind int

const (
	OutcomeSignedIn OutcomeKind = iota + 1
	OutcomeSubmitted
	OutcomeSigned
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSignedIn:
		return "signed-in"
	case OutcomeSubmitted:
		return "submitted"
	case OutcomeSigned:
		return "signed"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SignedIn is produced when a sign-in attempt established identity
type SignedIn struct {
	Address  string
	Wallet   string
	Redirect string
}

// Submitted is produced when a transaction reached the ledger network
type Submitted struct {
	Hash    string
	Address string
	Wallet  string
	Broker  *xrpl.Broker
	TxType  string
}

// Failed is produced when an attempt terminated without a result. Recoverable
// marks failures where re-issuing the whole attempt can succeed without prior
// user action.
type Failed struct {
	Reason      string
	Recoverable bool
}

// Outcome is the single terminal result value of an attempt. Exactly one
// outcome is produced per attempt (an abandoned attempt produces none), and it
// is the only value the rest of the application may depend on.
type Outcome struct {
	Kind      OutcomeKind
	SignedIn  *SignedIn
	Submitted *Submitted
	Signed    *wallets.SignResult
	Failed    *Failed
}

// Identity is the durable session identity persisted by the dispatcher
type Identity struct {
	Address string
	Wallet  string
}

// SessionStore persists the application's current session identity. It is the
// only durable shared resource this core writes, and only the dispatcher
// writes it: never an adapter, never the resolver.
type SessionStore interface {
	Save(identity Identity) error
}

// Dispatcher turns a finished attempt into the caller-visible side effects:
// persisting identity, invoking the matching continuation, and clearing the
// awaiting state. A failed attempt never touches session identity.
type Dispatcher struct {
	store  SessionStore
	logger *slog.Logger
}

// NewDispatcher creates an outcome dispatcher. The store may be nil when the
// surrounding application persists identity elsewhere.
func NewDispatcher(store SessionStore, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		store:  store,
		logger: logger,
	}
}

// Dispatch consumes exactly one outcome for the given request
func (d *Dispatcher) Dispatch(outcome *Outcome, req *Request) {
	defer req.notifyAwaiting(false)

	switch outcome.Kind {
	case OutcomeSignedIn:
		d.saveIdentity(outcome.SignedIn.Address, outcome.SignedIn.Wallet)
		if req.OnSignedIn != nil {
			req.OnSignedIn(*outcome.SignedIn)
		}

	case OutcomeSubmitted:
		d.logger.Info("transaction submitted",
			"hash", outcome.Submitted.Hash,
			"wallet", outcome.Submitted.Wallet,
			"txType", outcome.Submitted.TxType)
		d.saveIdentity(outcome.Submitted.Address, outcome.Submitted.Wallet)
		if req.OnSubmitted != nil {
			req.OnSubmitted(*outcome.Submitted)
		}

	case OutcomeSigned:
		if req.AfterSigning != nil {
			req.AfterSigning(outcome.Signed)
		}

	case OutcomeFailed:
		d.logger.Warn("signing attempt failed",
			"reason", outcome.Failed.Reason,
			"recoverable", outcome.Failed.Recoverable)
		req.notifyStatus(outcome.Failed.Reason)
	}
}

func (d *Dispatcher) saveIdentity(address, wallet string) {
	if d.store == nil {
		return
	}
	if err := d.store.Save(Identity{Address: address, Wallet: wallet}); err != nil {
		d.logger.Error("failed to persist session identity", "error", err)
	}
}
