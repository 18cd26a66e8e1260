package signflow

import (
	"github.com/Bithomp/xrpl-walletkit/pkg/wallets"
	"github.com/Bithomp/xrpl-walletkit/pkg/xrpl"
)

// Request describes one signing attempt: what to sign, why, and the closed set
// of continuations the caller receives results through. All results arrive via
// the continuations; Send returns nothing about the attempt synchronously.
// A Request is immutable for the duration of the attempt.
type Request struct {
	// Intent is the transaction to sign. A nil intent or the SignIn sentinel
	// type means "establish identity only".
	Intent *xrpl.TransactionIntent

	// SignOnly requests a raw signature/blob for off-chain use; the attempt
	// terminates at signing and never broadcasts.
	SignOnly bool

	// Redirect is a post-sign-in navigation intent handed back unchanged.
	Redirect string

	// Broker is optional marketplace fee metadata overlaid on the displayed
	// amount; it never changes what is signed.
	Broker *xrpl.Broker

	// OnSignedIn is invoked exactly once when a sign-in attempt establishes
	// identity.
	OnSignedIn func(SignedIn)

	// OnSubmitted is invoked exactly once when a transaction reaches the
	// ledger network.
	OnSubmitted func(Submitted)

	// AfterSigning is invoked exactly once with the raw sign result of a
	// sign-only attempt, instead of broadcasting.
	AfterSigning func(*wallets.SignResult)

	// OnStatus receives the human-readable status of a failed attempt.
	OnStatus func(string)

	// OnAwaiting marks the "awaiting user interaction" UI state; it is set
	// when an attempt starts prompting and always cleared when the attempt
	// finishes or is abandoned.
	OnAwaiting func(bool)
}

func (r *Request) notifyAwaiting(awaiting bool) {
	if r.OnAwaiting != nil {
		r.OnAwaiting(awaiting)
	}
}

func (r *Request) notifyStatus(status string) {
	if r.OnStatus != nil {
		r.OnStatus(status)
	}
}
