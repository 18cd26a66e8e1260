package signflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/Bithomp/xrpl-walletkit/pkg/constants"
	"github.com/Bithomp/xrpl-walletkit/pkg/wallets"
	"github.com/Bithomp/xrpl-walletkit/pkg/xrpl"
)

// State is a position in the attempt state machine
type State int

const (
	StateIdle State = iota
	StateProbing
	StateConnecting
	StateResolvingParams
	StateSigning
	StateBroadcasting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProbing:
		return "probing"
	case StateConnecting:
		return "connecting"
	case StateResolvingParams:
		return "resolving-params"
	case StateSigning:
		return "signing"
	case StateBroadcasting:
		return "broadcasting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrAttemptInFlight is returned when Send is called while another attempt is
// still pending. Concurrent attempts against the same backend (especially a
// hardware transport) corrupt backend state, so new requests are rejected
// rather than queued.
var ErrAttemptInFlight = errors.New("a signing attempt is already in flight")

// placeholder params for backends that sign off-chain messages without
// resolved network parameters; never used for a broadcastable transaction
const (
	placeholderSequence = 1
	placeholderFee      = "12"
)

// Config wires an orchestrator
type Config struct {
	Registry *wallets.Registry
	Params   ParamsSource
	Submit   SubmitSource
	Store    SessionStore
	Network  string // one of constants.Network*, defaults to mainnet
	Logger   *slog.Logger
}

// Orchestrator drives one wallet adapter through
// probe -> connect -> resolve-params -> sign -> broadcast, translating every
// adapter failure into the shared taxonomy and producing exactly one outcome
// per attempt. At most one attempt is in flight at a time.
type Orchestrator struct {
	registry    *wallets.Registry
	resolver    *Resolver
	broadcaster *Broadcaster
	dispatcher  *Dispatcher
	network     string
	logger      *slog.Logger

	inFlight atomic.Bool
	session  *wallets.Session
}

// NewOrchestrator creates a signing orchestrator
func NewOrchestrator(config *Config) *Orchestrator {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	network := config.Network
	if network == "" {
		network = constants.NetworkMainnet
	}

	return &Orchestrator{
		registry:    config.Registry,
		resolver:    NewResolver(config.Params, logger),
		broadcaster: NewBroadcaster(config.Submit, logger),
		dispatcher:  NewDispatcher(config.Store, logger),
		network:     network,
		logger:      logger,
	}
}

// Session returns the wallet session of the last completed attempt, if any
func (o *Orchestrator) Session() *wallets.Session {
	return o.session
}

// Send runs one signing attempt against the named backend. All results arrive
// via the request's continuations; the returned error only reports caller
// mistakes (unknown backend, attempt already in flight) or a context
// cancellation, which abandons the attempt without producing an outcome.
func (o *Orchestrator) Send(ctx context.Context, walletName string, req *Request) error {
	wallet, err := o.registry.Get(walletName)
	if err != nil {
		return err
	}

	if !o.inFlight.CompareAndSwap(false, true) {
		return ErrAttemptInFlight
	}
	defer o.inFlight.Store(false)

	return o.run(ctx, wallet, req)
}

// run executes the state machine for one attempt. Steps execute strictly in
// order; no step begins before the previous one's result is known.
func (o *Orchestrator) run(ctx context.Context, wallet wallets.Wallet, req *Request) error {
	state := StateIdle
	transition := func(to State) {
		o.logger.Debug("attempt state transition",
			"wallet", wallet.Name(),
			"from", state.String(),
			"to", to.String())
		state = to
	}

	fail := func(err error) {
		transition(StateFailed)
		// a failed attempt never keeps a live transport handle; the session
		// identity stays so a retry can skip the connect prompt
		o.session.Release()
		o.dispatcher.Dispatch(&Outcome{
			Kind: OutcomeFailed,
			Failed: &Failed{
				Reason:      statusText(err),
				Recoverable: wallets.Recoverable(err),
			},
		}, req)
	}

	// abandoned attempts release held transports and produce no outcome
	abandon := func() error {
		o.session.Release()
		req.notifyAwaiting(false)
		return ctx.Err()
	}

	req.notifyAwaiting(true)

	// Probing
	transition(StateProbing)
	availability := wallet.Probe(ctx)
	if ctx.Err() != nil {
		return abandon()
	}
	if !availability.Available {
		fail(&wallets.AvailabilityError{Wallet: wallet.Name(), Reason: availability.Reason})
		return nil
	}

	// Connecting, skipped when the session already names this backend and an
	// address (avoids redundant prompts on repeated signing)
	if !o.session.Matches(wallet.Name()) {
		// a session is never reused across a change of selected backend
		o.session.Release()
		o.session = nil

		transition(StateConnecting)
		session := &wallets.Session{Wallet: wallet.Name()}
		err := wallet.ResolveAddress(ctx, session)
		if ctx.Err() != nil {
			session.Release()
			return abandon()
		}
		if err != nil {
			session.Release()
			fail(adapterError(wallet.Name(), err))
			return nil
		}
		o.session = session
	}

	// a sign-in intent terminates after connecting: the resolver and the
	// broadcaster are never invoked
	intent := req.Intent
	if intent.IsSignIn() {
		transition(StateDone)
		o.dispatcher.Dispatch(&Outcome{
			Kind: OutcomeSignedIn,
			SignedIn: &SignedIn{
				Address:  o.session.Address,
				Wallet:   wallet.Name(),
				Redirect: req.Redirect,
			},
		}, req)
		return nil
	}

	if intent.Account == "" {
		intent.Account = o.session.Address
	}
	if intent.SigningPubKey == "" {
		intent.SigningPubKey = o.session.PublicKey
	}

	// network mismatch is checked before any parameter resolution, to fail
	// fast with a remediation message instead of wasting a signing round trip
	if matcher, ok := wallet.(wallets.NetworkMatcher); ok {
		matches, err := matcher.MatchesNetwork(ctx, o.network)
		if ctx.Err() != nil {
			return abandon()
		}
		if err != nil {
			fail(adapterError(wallet.Name(), err))
			return nil
		}
		if !matches {
			fail(&wallets.WrongNetworkError{Wallet: wallet.Name(), Want: o.network})
			return nil
		}
	}

	caps := wallet.Capabilities()

	if req.SignOnly && caps.SignsMessagesWithoutParams {
		// declared capability: fixed minimal placeholder instead of resolved
		// params, valid only because the result is never broadcast
		if intent.Sequence == 0 {
			intent.Sequence = placeholderSequence
		}
		if intent.Fee == "" {
			intent.Fee = placeholderFee
		}
	} else {
		transition(StateResolvingParams)
		if err := o.resolver.Resolve(ctx, intent); err != nil {
			if ctx.Err() != nil {
				return abandon()
			}
			fail(err)
			return nil
		}
	}

	// Signing
	transition(StateSigning)
	result, err := wallet.Sign(ctx, intent, wallets.SignOptions{
		SignOnly: req.SignOnly,
		Network:  o.network,
	})
	if ctx.Err() != nil {
		return abandon()
	}
	if err != nil {
		fail(adapterError(wallet.Name(), err))
		return nil
	}

	// sign-only attempts terminate here: the raw result goes to the signing
	// continuation instead of to broadcast
	if req.SignOnly {
		transition(StateDone)
		o.dispatcher.Dispatch(&Outcome{Kind: OutcomeSigned, Signed: result}, req)
		return nil
	}

	submitted := &Submitted{
		Address: o.session.Address,
		Wallet:  wallet.Name(),
		Broker:  req.Broker,
		TxType:  intent.TransactionType,
	}

	// backends that submit atomically skip the broadcast step entirely
	if caps.SubmitsOnSign {
		transition(StateDone)
		submitted.Hash = result.Hash
		o.dispatcher.Dispatch(&Outcome{Kind: OutcomeSubmitted, Submitted: submitted}, req)
		return nil
	}

	// Broadcasting
	transition(StateBroadcasting)
	hash, err := o.broadcaster.Broadcast(ctx, &xrpl.SignedPayload{
		Blob: result.Blob,
		Hash: result.Hash,
	})
	if ctx.Err() != nil {
		return abandon()
	}
	if err != nil {
		fail(err)
		return nil
	}

	transition(StateDone)
	submitted.Hash = hash
	o.dispatcher.Dispatch(&Outcome{Kind: OutcomeSubmitted, Submitted: submitted}, req)
	return nil
}

// adapterError keeps taxonomy errors as-is and wraps anything else, so that no
// backend-specific error type crosses into the outcome
func adapterError(wallet string, err error) error {
	var (
		availability *wallets.AvailabilityError
		wrongNet     *wallets.WrongNetworkError
		rejected     *wallets.UserRejectedError
		locked       *wallets.DeviceLockedError
		params       *wallets.ParamsError
		engine       *wallets.EngineError
		transport    *wallets.TransportError
	)
	switch {
	case errors.As(err, &availability),
		errors.As(err, &wrongNet),
		errors.As(err, &rejected),
		errors.As(err, &locked),
		errors.As(err, &params),
		errors.As(err, &engine),
		errors.As(err, &transport):
		return err
	default:
		return &wallets.TransportError{Op: wallet, Err: err}
	}
}

// statusText renders a taxonomy error as the human-readable status string a
// caller can show directly
func statusText(err error) string {
	var (
		wrongNet  *wallets.WrongNetworkError
		engine    *wallets.EngineError
		params    *wallets.ParamsError
		transport *wallets.TransportError
	)
	switch {
	case errors.As(err, &wrongNet):
		return fmt.Sprintf("Switch the %s network to %s and try again.", wrongNet.Wallet, wrongNet.Want)
	case errors.As(err, &engine):
		return fmt.Sprintf("%s %s", engine.Code, engine.Message)
	case errors.As(err, &params):
		return "Could not fetch fresh transaction parameters, please try again."
	case errors.As(err, &transport):
		return "The network did not respond, please try again."
	default:
		return err.Error()
	}
}
