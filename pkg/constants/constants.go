package constants

import "time"

const (
	NodeServiceTimeout    = 30 * time.Second // timeout for node service calls
	TLSHandshakeTimeout   = 10 * time.Second // timeout for TLS handshake
	ResponseHeaderTimeout = 20 * time.Second // timeout for response header
	ExpectContinueTimeout = 1 * time.Second  // timeout for expect continue
	RelayDialTimeout      = 15 * time.Second // timeout for the relay websocket dial
	RelayPingInterval     = 30 * time.Second // keepalive interval for relay sessions
	BridgeProbeTimeout    = 3 * time.Second  // timeout for extension bridge probes
	MaxResponseBodySize   = 10 * 1024 * 1024 // maximum response body size in bytes (10MB)
)

// Network Types
const (
	NetworkMainnet = "mainnet"
	NetworkTestnet = "testnet"
	NetworkDevnet  = "devnet"
)

// mapping from network name to the CAIP-2 chain identifier used by relay sessions
var NetworkToChainID = map[string]string{
	NetworkMainnet: "xrpl:0",
	NetworkTestnet: "xrpl:1",
	NetworkDevnet:  "xrpl:2",
}

// mapping from network name to the numeric network id some sidechains carry in
// transactions (mainnet and testnet predate the NetworkID field)
var NetworkToNumericID = map[string]uint32{
	NetworkMainnet: 0,
	NetworkTestnet: 1,
	NetworkDevnet:  2,
}

// Wallet backend names
const (
	WalletGemWallet     = "gemwallet"
	WalletCrossmark     = "crossmark"
	WalletLedger        = "ledger"
	WalletWalletConnect = "walletconnect"
	WalletMetamask      = "metamask"
)

// Ledger hardware transport
const (
	LedgerVendorID  = 0x2c97 // Ledger USB vendor id
	LedgerUsagePage = 0xffa0 // HID usage page exposed by Ledger devices
	HIDFrameSize    = 64     // HID report size, every APDU frame is padded to this
	APDUChannel     = 0x0101 // fixed channel id for the APDU framing
	APDUTag         = 0x05   // APDU frame tag
)

// Signed transaction hashing prefix ("TXN" + 0x00), applied before SHA-512-half
var SignedTxPrefix = []byte{0x54, 0x58, 0x4E, 0x00}

// EngineResultAccepted reports whether an engine result code means the
// transaction was applied or queued for a later ledger. Queued transactions
// already have a final hash, so both count as accepted for submission purposes.
func EngineResultAccepted(code string) bool {
	return code == "tesSUCCESS" || code == "terQUEUED"
}

// engineResultText maps transaction engine result codes to human-readable text.
// Only the codes a signing front end realistically surfaces are listed; unknown
// codes fall back to their class description.
var engineResultText = map[string]string{
	"tesSUCCESS":              "The transaction was applied.",
	"terQUEUED":               "The transaction was queued and should be applied in a later ledger.",
	"tecUNFUNDED":             "The sending account has insufficient XRP to perform the transaction.",
	"tecUNFUNDED_PAYMENT":     "The sending account has insufficient XRP to send this payment.",
	"tecNO_DST":               "The destination account does not exist.",
	"tecNO_DST_INSUF_XRP":     "The destination account does not exist and the payment is below the account reserve.",
	"tecDST_TAG_NEEDED":       "The destination account requires a destination tag.",
	"tecPATH_DRY":             "The payment path had no liquidity.",
	"tecINSUFFICIENT_RESERVE": "The account does not hold enough XRP for the increased reserve requirement.",
	"tecNO_PERMISSION":        "The sending account is not authorized to perform this operation.",
	"tecEXPIRED":              "The offer or escrow has already expired.",
	"tecKILLED":               "The offer was killed without filling.",
	"tecNO_LINE":              "No trust line exists for the specified currency.",
	"tefPAST_SEQ":             "The transaction sequence number has already been used.",
	"tefMAX_LEDGER":           "The transaction expired before it could be included in a validated ledger.",
	"tefBAD_AUTH":             "The transaction was signed with the wrong key for this account.",
	"tefALREADY":              "An identical transaction has already been applied.",
	"temBAD_FEE":              "The transaction fee is malformed.",
	"temBAD_AMOUNT":           "The transaction amount is malformed.",
	"temREDUNDANT":            "The transaction would accomplish nothing.",
	"temINVALID":              "The transaction is malformed or its signature is invalid.",
	"telINSUF_FEE_P":          "The fee is insufficient for the current network load.",
	"telCAN_NOT_QUEUE":        "The transaction cannot be queued, try again with a higher fee.",
	"terPRE_SEQ":              "A transaction with an earlier sequence number has not been applied yet.",
	"terRETRY":                "The transaction could not be applied yet, retry with fresh parameters.",
}

// engineClassText describes result code classes for codes missing from the table
var engineClassText = map[string]string{
	"tes": "The transaction was applied.",
	"tec": "The transaction failed but a fee was claimed.",
	"tef": "The transaction cannot be applied and was not included in a ledger.",
	"tem": "The transaction is malformed.",
	"tel": "The transaction failed locally and was not relayed.",
	"ter": "The transaction could not be applied yet and may succeed later.",
}

// EngineResultText returns human-readable text for a transaction engine result
// code, falling back to the class description for unlisted codes.
func EngineResultText(code string) string {
	if text, ok := engineResultText[code]; ok {
		return text
	}
	if len(code) >= 3 {
		if text, ok := engineClassText[code[:3]]; ok {
			return text
		}
	}
	return "The transaction failed with an unrecognized result code."
}
