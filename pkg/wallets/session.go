package wallets

import "io"

// Session is the state a backend establishes while resolving an address: the
// resolved account, optionally its public key, and any live transport handle
// (an open hardware device, a relay subscription). It is owned by the adapter
// that created it; the orchestrator holds it only by reference for the
// duration of one attempt and never mutates its internals.
type Session struct {
	Wallet    string // backend name that owns this session
	Address   string
	PublicKey string

	// Transport is the backend's live connection handle, nil for stateless
	// backends. Closed on release.
	Transport io.Closer
}

// Matches reports whether the session already names the given backend with a
// resolved address, in which case address discovery is skipped.
func (s *Session) Matches(wallet string) bool {
	return s != nil && s.Wallet == wallet && s.Address != ""
}

// Release closes any held transport handle. Safe on a nil session and
// idempotent: a released session keeps no partial state.
func (s *Session) Release() {
	if s == nil || s.Transport == nil {
		return
	}
	_ = s.Transport.Close()
	s.Transport = nil
}
