package wallet

import (
	"context"
	"regexp"
	"strconv"

	"github.com/drip-wallet/drip_wallet/internal/xrpl"
)

var invoiceIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// ValidateAddress checks that a destination decodes as an account ID and is
// not the wallet itself.
func (w *Wallet) ValidateAddress(address string) error {
	if _, err := xrpl.DecodeAccountID(address); err != nil {
		return &InvalidAddressError{Address: address, Cause: err}
	}
	if address == w.Address() {
		return &DestinationEqualsSourceError{}
	}
	return nil
}

// ValidateMeta checks destination tag and invoice ID shape. Malformed
// metadata is rejected before any network call.
func (w *Wallet) ValidateMeta(meta Meta) error {
	if meta.DestinationTag != "" {
		if _, err := strconv.ParseUint(meta.DestinationTag, 10, 32); err != nil {
			return &InvalidDestinationTagError{Tag: meta.DestinationTag}
		}
	}
	if meta.InvoiceID != "" && !invoiceIDPattern.MatchString(meta.InvoiceID) {
		return &InvalidInvoiceIDError{InvoiceID: meta.InvoiceID}
	}
	return nil
}

// ValidateAmount runs the full amount rule chain: active source, dust floor,
// sendable ceiling, destination reserve. First failing check wins.
func (w *Wallet) ValidateAmount(ctx context.Context, address string, amount int64, meta Meta) error {
	if err := w.ValidateAddress(address); err != nil {
		return err
	}
	if err := w.ValidateMeta(meta); err != nil {
		return err
	}
	if !w.IsActive() {
		return &InactiveAccountError{}
	}
	if amount < w.cfg.DustThreshold {
		return &SmallAmountError{Amount: w.cfg.DustThreshold}
	}

	max, err := w.estimateMax(ctx)
	if err != nil {
		return err
	}
	if amount > max {
		return &BigAmountError{Amount: max}
	}

	destination, err := w.accountInfo(ctx, address)
	if err != nil {
		return err
	}
	if !destination.IsActive && amount < w.cfg.MinReserve {
		return &MinimumReserveDestinationError{Amount: w.cfg.MinReserve}
	}
	return nil
}

// estimateMax computes max(0, balance - fee - reserve); zero below the
// reserve.
func (w *Wallet) estimateMax(ctx context.Context) (int64, error) {
	balance := w.Balance()
	if balance < w.cfg.MinReserve {
		return 0, nil
	}
	fee, err := w.minerFee(ctx)
	if err != nil {
		return 0, err
	}
	max := balance - fee - w.cfg.MinReserve
	if max < 0 {
		return 0, nil
	}
	return max, nil
}

// EstimateMaxAmount reports the sendable ceiling in drops, for "send max"
// affordances.
func (w *Wallet) EstimateMaxAmount(ctx context.Context) (int64, error) {
	return w.estimateMax(ctx)
}

// EstimateTransactionFee reports the current per-transaction fee in drops. It
// does not depend on the candidate amount.
func (w *Wallet) EstimateTransactionFee(ctx context.Context) (int64, error) {
	return w.minerFee(ctx)
}
