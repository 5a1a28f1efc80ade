package wallet

import (
	"fmt"

	"github.com/drip-wallet/drip_wallet/internal/xrpl"
)

// InvalidAddressError reports a destination that fails address decoding.
type InvalidAddressError struct {
	Address string
	Cause   error
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid address %q", e.Address)
}

func (e *InvalidAddressError) Unwrap() error { return e.Cause }

// DestinationEqualsSourceError reports a payment addressed to the wallet
// itself.
type DestinationEqualsSourceError struct{}

func (e *DestinationEqualsSourceError) Error() string {
	return "destination address equals source address"
}

// InvalidDestinationTagError reports a destination tag that does not parse as
// an unsigned 32-bit integer.
type InvalidDestinationTagError struct {
	Tag string
}

func (e *InvalidDestinationTagError) Error() string {
	return fmt.Sprintf("invalid destination tag %q", e.Tag)
}

// InvalidInvoiceIDError reports an invoice ID that is not a 256-bit hex
// string.
type InvalidInvoiceIDError struct {
	InvoiceID string
}

func (e *InvalidInvoiceIDError) Error() string {
	return fmt.Sprintf("invalid invoice ID %q", e.InvoiceID)
}

// InactiveAccountError reports a send attempt from an account that has not
// met the network reserve.
type InactiveAccountError struct{}

func (e *InactiveAccountError) Error() string { return "inactive account" }

// SmallAmountError reports an amount below the dust threshold. Amount carries
// the threshold in drops.
type SmallAmountError struct {
	Amount int64
}

func (e *SmallAmountError) Error() string {
	return fmt.Sprintf("amount is below the dust threshold of %s XRP", xrpl.FormatDrops(e.Amount))
}

// BigAmountError reports an amount above the computed sendable ceiling.
// Amount carries the ceiling in drops.
type BigAmountError struct {
	Amount int64
}

func (e *BigAmountError) Error() string {
	return fmt.Sprintf("amount exceeds the maximum sendable %s XRP", xrpl.FormatDrops(e.Amount))
}

// MinimumReserveDestinationError reports a payment that would leave an
// inactive destination under the base reserve. Amount carries the reserve in
// drops.
type MinimumReserveDestinationError struct {
	Amount int64
	Cause  error
}

func (e *MinimumReserveDestinationError) Error() string {
	return fmt.Sprintf("destination requires at least the %s XRP reserve", xrpl.FormatDrops(e.Amount))
}

func (e *MinimumReserveDestinationError) Unwrap() error { return e.Cause }

// DestinationTagNeededError reports a destination that requires a tag which
// was not supplied.
type DestinationTagNeededError struct {
	Cause error
}

func (e *DestinationTagNeededError) Error() string { return "destination tag needed" }

func (e *DestinationTagNeededError) Unwrap() error { return e.Cause }

// InvalidPrivateKeyError reports a malformed import secret, or one that
// belongs to the wallet itself.
type InvalidPrivateKeyError struct {
	Reason string
	Cause  error
}

func (e *InvalidPrivateKeyError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return "invalid private key"
}

func (e *InvalidPrivateKeyError) Unwrap() error { return e.Cause }
