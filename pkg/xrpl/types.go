package xrpl

// TxTypeSignIn is the sentinel transaction type for identity-only attempts.
// An intent carrying it never reaches parameter resolution or broadcast.
const TxTypeSignIn = "SignIn"

// TransactionIntent is a partially-filled transaction record being prepared for
// signing. It is mutated in place: the parameter resolver fills Sequence, Fee
// and LastLedgerSequence, the signing backend fills SigningPubKey. An intent is
// built for exactly one attempt and discarded afterwards.
type TransactionIntent struct {
	TransactionType    string `json:"TransactionType"`
	Account            string `json:"Account,omitempty"`
	Destination        string `json:"Destination,omitempty"`
	Amount             string `json:"Amount,omitempty"`
	Fee                string `json:"Fee,omitempty"`
	Sequence           uint32 `json:"Sequence,omitempty"`
	LastLedgerSequence uint32 `json:"LastLedgerSequence,omitempty"`
	SigningPubKey      string `json:"SigningPubKey,omitempty"`

	// Fields carries transaction-type-specific members (NFTokenID, Flags,
	// Memos, ...) that the core never interprets.
	Fields map[string]any `json:"-"`
}

// IsSignIn reports whether the intent only establishes identity.
// A nil intent is treated as a sign-in request.
func (t *TransactionIntent) IsSignIn() bool {
	return t == nil || t.TransactionType == TxTypeSignIn || t.TransactionType == ""
}

// TxJSON returns the tx_json representation handed to backends and to the node
// service encoder. Typed members win over duplicates in Fields.
func (t *TransactionIntent) TxJSON() map[string]any {
	m := make(map[string]any, len(t.Fields)+8)
	for k, v := range t.Fields {
		m[k] = v
	}
	m["TransactionType"] = t.TransactionType
	if t.Account != "" {
		m["Account"] = t.Account
	}
	if t.Destination != "" {
		m["Destination"] = t.Destination
	}
	if t.Amount != "" {
		m["Amount"] = t.Amount
	}
	if t.Fee != "" {
		m["Fee"] = t.Fee
	}
	if t.Sequence != 0 {
		m["Sequence"] = t.Sequence
	}
	if t.LastLedgerSequence != 0 {
		m["LastLedgerSequence"] = t.LastLedgerSequence
	}
	if t.SigningPubKey != "" {
		m["SigningPubKey"] = t.SigningPubKey
	}
	return m
}

// NetworkParams are the account- and ledger-dependent transaction parameters
// fetched fresh for every attempt. Sequence numbers are account-global mutable
// state, so params must never be cached across attempts.
type NetworkParams struct {
	Sequence           uint32 `json:"sequence"`
	Fee                string `json:"fee"`
	LastLedgerSequence uint32 `json:"lastLedgerSequence"`
}

// SignedPayload is an encoded, signed transaction ready for submission.
type SignedPayload struct {
	Blob string // hex-encoded signed transaction
	Hash string // transaction hash, derived from the blob if the backend did not return one
}

// Broker carries optional third-party marketplace fee metadata overlaid on the
// displayed amount of NFT trades. It never changes what is signed.
type Broker struct {
	Name       string
	FeePercent string // e.g. "1.5"
}
