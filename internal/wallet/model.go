package wallet

import "time"

// State is the wallet lifecycle position imposed by the host application.
type State int

const (
	StateCreated State = iota
	StateInitializing
	StateInitialized
	StateLoading
	StateLoaded
	StateError
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateInitializing:
		return "initializing"
	case StateInitialized:
		return "initialized"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Meta is optional payment metadata. Empty strings mean absent.
type Meta struct {
	DestinationTag string
	InvoiceID      string
}

// Tx is one historical transaction from the wallet's point of view, amounts
// in drops.
type Tx struct {
	ID             string    `json:"id"`
	From           string    `json:"from"`
	To             string    `json:"to"`
	Amount         int64     `json:"amount"`
	Fee            int64     `json:"fee"`
	Incoming       bool      `json:"incoming"`
	Timestamp      time.Time `json:"timestamp"`
	Status         bool      `json:"status"`
	DestinationTag *uint32   `json:"destination_tag,omitempty"`
	InvoiceID      string    `json:"invoice_id,omitempty"`
}

// TxPage is one page of wallet history.
type TxPage struct {
	Transactions []Tx
	HasMore      bool
	Cursor       string
}

// ImportEstimate reports what a foreign-key sweep would move.
type ImportEstimate struct {
	Address  string
	Sendable int64 // drops
}
