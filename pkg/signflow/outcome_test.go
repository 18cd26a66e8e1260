package signflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Bithomp/xrpl-walletkit/pkg/wallets"
)

type fakeStore struct {
	saved []Identity
	err   error
}

func (f *fakeStore) Save(identity Identity) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, identity)
	return nil
}

func TestDispatchSignedIn(t *testing.T) {
	store := &fakeStore{}
	dispatcher := NewDispatcher(store, nil)

	var got *SignedIn
	var awaiting []bool
	req := &Request{
		OnSignedIn: func(result SignedIn) { got = &result },
		OnAwaiting: func(a bool) { awaiting = append(awaiting, a) },
	}

	dispatcher.Dispatch(&Outcome{
		Kind:     OutcomeSignedIn,
		SignedIn: &SignedIn{Address: "rAccount", Wallet: "gemwallet", Redirect: "/account"},
	}, req)

	assert.Equal(t, &SignedIn{Address: "rAccount", Wallet: "gemwallet", Redirect: "/account"}, got)
	assert.Equal(t, []Identity{{Address: "rAccount", Wallet: "gemwallet"}}, store.saved)
	assert.Equal(t, []bool{false}, awaiting, "dispatch always clears the awaiting state")
}

func TestDispatchSubmittedPersistsIdentity(t *testing.T) {
	store := &fakeStore{}
	dispatcher := NewDispatcher(store, nil)

	var got *Submitted
	req := &Request{
		OnSubmitted: func(result Submitted) { got = &result },
	}

	dispatcher.Dispatch(&Outcome{
		Kind:      OutcomeSubmitted,
		Submitted: &Submitted{Hash: "ABC123", Address: "rAccount", Wallet: "crossmark", TxType: "Payment"},
	}, req)

	assert.Equal(t, "ABC123", got.Hash)
	assert.Equal(t, []Identity{{Address: "rAccount", Wallet: "crossmark"}}, store.saved)
}

func TestDispatchSignedSkipsStore(t *testing.T) {
	store := &fakeStore{}
	dispatcher := NewDispatcher(store, nil)

	var got *wallets.SignResult
	req := &Request{
		AfterSigning: func(result *wallets.SignResult) { got = result },
	}

	dispatcher.Dispatch(&Outcome{
		Kind:   OutcomeSigned,
		Signed: &wallets.SignResult{Blob: "DEADBEEF"},
	}, req)

	assert.Equal(t, "DEADBEEF", got.Blob)
	assert.Empty(t, store.saved)
}

func TestDispatchFailedNeverTouchesIdentity(t *testing.T) {
	store := &fakeStore{}
	dispatcher := NewDispatcher(store, nil)

	var status string
	req := &Request{
		OnStatus: func(s string) { status = s },
	}

	dispatcher.Dispatch(&Outcome{
		Kind:   OutcomeFailed,
		Failed: &Failed{Reason: "The network did not respond, please try again.", Recoverable: true},
	}, req)

	assert.Equal(t, "The network did not respond, please try again.", status)
	assert.Empty(t, store.saved)
}

func TestDispatchStoreFailureIsNotFatal(t *testing.T) {
	store := &fakeStore{err: errors.New("disk full")}
	dispatcher := NewDispatcher(store, nil)

	called := false
	req := &Request{
		OnSignedIn: func(SignedIn) { called = true },
	}

	dispatcher.Dispatch(&Outcome{
		Kind:     OutcomeSignedIn,
		SignedIn: &SignedIn{Address: "rAccount", Wallet: "gemwallet"},
	}, req)

	assert.True(t, called, "continuation still runs when persistence fails")
}

func TestDispatchNilContinuations(t *testing.T) {
	dispatcher := NewDispatcher(nil, nil)

	// no continuations wired: dispatch must not panic
	dispatcher.Dispatch(&Outcome{Kind: OutcomeSignedIn, SignedIn: &SignedIn{}}, &Request{})
	dispatcher.Dispatch(&Outcome{Kind: OutcomeSubmitted, Submitted: &Submitted{}}, &Request{})
	dispatcher.Dispatch(&Outcome{Kind: OutcomeSigned, Signed: &wallets.SignResult{}}, &Request{})
	dispatcher.Dispatch(&Outcome{Kind: OutcomeFailed, Failed: &Failed{}}, &Request{})
}

func TestOutcomeKindString(t *testing.T) {
	assert.Equal(t, "signed-in", OutcomeSignedIn.String())
	assert.Equal(t, "submitted", OutcomeSubmitted.String())
	assert.Equal(t, "signed", OutcomeSigned.String())
	assert.Equal(t, "failed", OutcomeFailed.String())
	assert.Equal(t, "unknown", OutcomeKind(99).String())
}
