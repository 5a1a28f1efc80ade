package xrpl

import "strings"

// Engine result codes the wallet reacts to.
const (
	// ResultPastSeq reports a transaction that reuses an already consumed
	// sequence number.
	ResultPastSeq = "tefPAST_SEQ"
	// ResultNoDstInsufXRP reports a payment too small to fund an inactive
	// destination above the base reserve.
	ResultNoDstInsufXRP = "tecNO_DST_INSUF_XRP"
	// ResultDstTagNeeded reports a destination that requires a destination
	// tag which was not supplied.
	ResultDstTagNeeded = "tecDST_TAG_NEEDED"
)

// Claimed reports whether a result code is of the tec class: the transaction
// failed but the fee was claimed and the sequence slot consumed on-ledger.
func Claimed(code string) bool {
	return strings.HasPrefix(code, "tec")
}

// KnownResultClass reports whether the code carries one of the engine result
// prefixes. Anything else is not a ledger verdict and must be surfaced as a
// plain transport failure.
func KnownResultClass(code string) bool {
	for _, p := range []string{"tec", "tef", "tel", "tem", "ter", "tes"} {
		if strings.HasPrefix(code, p) {
			return true
		}
	}
	return false
}
