package wallet

import (
	"context"

	"github.com/drip-wallet/drip_wallet/internal/notification"
	"github.com/drip-wallet/drip_wallet/internal/xrpl"
)

// importPlan is the sweep computed from a foreign secret.
type importPlan struct {
	address  string
	sendable int64
	fee      int64
	sequence uint32
}

func (w *Wallet) prepareImport(ctx context.Context, secret string) (importPlan, error) {
	address, err := xrpl.AddressFromSecret(secret)
	if err != nil {
		return importPlan{}, &InvalidPrivateKeyError{Cause: err}
	}
	if address == w.Address() {
		return importPlan{}, &InvalidPrivateKeyError{Reason: "private key equals wallet private key"}
	}

	info, err := w.accountInfo(ctx, address)
	if err != nil {
		return importPlan{}, err
	}
	balance, err := xrpl.ParseXRP(info.Balance)
	if err != nil {
		return importPlan{}, err
	}
	fee, err := w.minerFee(ctx)
	if err != nil {
		return importPlan{}, err
	}

	return importPlan{
		address:  address,
		sendable: balance - w.cfg.MinReserve - fee,
		fee:      fee,
		sequence: info.Sequence,
	}, nil
}

// EstimateImport reports what a sweep from the foreign secret would move into
// the wallet, applying the same reserve and dust rules as ordinary
// validation.
func (w *Wallet) EstimateImport(ctx context.Context, secret string) (ImportEstimate, error) {
	plan, err := w.prepareImport(ctx, secret)
	if err != nil {
		return ImportEstimate{}, err
	}
	if !w.IsActive() && plan.sendable < w.cfg.MinReserve {
		return ImportEstimate{}, &MinimumReserveDestinationError{Amount: w.cfg.MinReserve}
	}
	if plan.sendable < w.cfg.DustThreshold {
		return ImportEstimate{}, &SmallAmountError{Amount: w.cfg.DustThreshold}
	}
	return ImportEstimate{Address: plan.address, Sendable: plan.sendable}, nil
}

// CreateImport sweeps the foreign account's sendable balance into the wallet,
// signing with the foreign secret. It returns the transaction ID on success.
func (w *Wallet) CreateImport(ctx context.Context, secret string) (string, error) {
	plan, err := w.prepareImport(ctx, secret)
	if err != nil {
		return "", err
	}
	deadline, err := w.api.MaxLedgerVersion(ctx)
	if err != nil {
		return "", err
	}

	payment := &xrpl.Payment{
		Account:            plan.address,
		Destination:        w.Address(),
		Amount:             plan.sendable,
		Fee:                plan.fee,
		Sequence:           plan.sequence,
		LastLedgerSequence: deadline,
	}
	return w.sendPayment(ctx, payment, secret, notification.KindImportSubmitted)
}
