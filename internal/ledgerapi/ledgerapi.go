package ledgerapi

import (
	"context"
	"fmt"
	"time"
)

// AccountInfo is the remote view of one account. Balance stays a decimal
// string in major units; conversion to drops happens in the wallet core.
type AccountInfo struct {
	Balance  string
	Sequence uint32
	IsActive bool
}

// Tx is one historical transaction as reported by the node, amounts in major
// units.
type Tx struct {
	ID             string
	From           string
	To             string
	Amount         string
	Fee            string
	Timestamp      time.Time
	Status         bool
	DestinationTag *uint32
	InvoiceID      string
}

// TxPage is one page of account history.
type TxPage struct {
	Transactions []Tx
	HasMore      bool
	Cursor       string
}

// API is the contract implemented by node backends. The wallet core only
// depends on this interface so tests can substitute a fake node.
type API interface {
	AccountInfo(ctx context.Context, address string) (AccountInfo, error)
	Fee(ctx context.Context) (string, error)
	MaxLedgerVersion(ctx context.Context) (uint32, error)
	Submit(ctx context.Context, rawtx string) (string, error)
	AccountTxs(ctx context.Context, address, cursor string) (TxPage, error)
	Tx(ctx context.Context, id string) (Tx, error)
}

// NodeError is a rejection reported by the node itself, carrying the engine
// result code when the node supplied one.
type NodeError struct {
	Code       string
	StatusCode int
	Message    string
}

func (e *NodeError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("node rejected request: %s", e.Code)
	}
	if e.Message != "" {
		return fmt.Sprintf("node error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("node error (status %d)", e.StatusCode)
}
