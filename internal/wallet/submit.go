package wallet

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/drip-wallet/drip_wallet/internal/ledgerapi"
	"github.com/drip-wallet/drip_wallet/internal/notification"
	"github.com/drip-wallet/drip_wallet/internal/xrpl"
)

// CreateTransaction validates, builds, signs and submits a payment from the
// wallet's own account. It returns the transaction ID on success.
func (w *Wallet) CreateTransaction(ctx context.Context, address string, amount int64, meta Meta, seed []byte) (string, error) {
	if err := w.ValidateAmount(ctx, address, amount, meta); err != nil {
		return "", err
	}

	fee, err := w.minerFee(ctx)
	if err != nil {
		return "", err
	}
	// The submission deadline is always fetched fresh: a stale one must fail
	// at the node, not here.
	deadline, err := w.api.MaxLedgerVersion(ctx)
	if err != nil {
		return "", err
	}

	payment := &xrpl.Payment{
		Account:            w.Address(),
		Destination:        address,
		Amount:             amount,
		Fee:                fee,
		Sequence:           w.Sequence(),
		LastLedgerSequence: deadline,
	}
	if meta.DestinationTag != "" {
		tag64, err := strconv.ParseUint(meta.DestinationTag, 10, 32)
		if err != nil {
			return "", &InvalidDestinationTagError{Tag: meta.DestinationTag}
		}
		tag := uint32(tag64)
		payment.DestinationTag = &tag
	}
	if meta.InvoiceID != "" {
		payment.InvoiceID = meta.InvoiceID
	}

	secret, err := xrpl.SecretFromSeed(seed)
	if err != nil {
		return "", err
	}
	return w.sendPayment(ctx, payment, secret, notification.KindPaymentSubmitted)
}

// sendPayment signs and submits a built payment, then reconciles local state
// from the outcome. Payments originating from the wallet consume a sequence
// number and debit amount plus fee; import sweeps credit the received amount
// only.
func (w *Wallet) sendPayment(ctx context.Context, payment *xrpl.Payment, secret, kind string) (string, error) {
	keys, err := xrpl.DeriveKeyPair(secret)
	if err != nil {
		return "", &InvalidPrivateKeyError{Cause: err}
	}
	payment.SigningPubKey = keys.PublicKey()
	payload, err := payment.SigningPayload()
	if err != nil {
		return "", err
	}
	payment.TxnSignature = keys.Sign(payload)

	blob, err := payment.Encode()
	if err != nil {
		return "", err
	}

	id, err := w.api.Submit(ctx, blob)
	if err != nil {
		return "", w.classifySubmitError(err, payment)
	}

	ownSource := payment.Account == w.Address()
	w.mu.Lock()
	if ownSource {
		w.sequence++
		w.balance -= payment.Amount + payment.Fee
	} else {
		w.balance += payment.Amount
	}
	balance := w.balance
	w.mu.Unlock()

	if err := w.persistBalance(ctx, balance); err != nil {
		// Submission already landed; the next load reconciles from the
		// network.
		w.logger.Error("persist after submit failed", slog.Any("error", err))
		return "", err
	}

	if w.notifier != nil {
		_ = w.notifier.Send(ctx, notification.Message{
			Kind:        kind,
			TxID:        id,
			Destination: payment.Destination,
			Amount:      payment.Amount,
		})
	}
	w.logger.Info("transaction submitted",
		slog.String("tx_id", id),
		slog.String("destination", payment.Destination),
		slog.Int64("amount", payment.Amount),
		slog.Int64("fee", payment.Fee))
	return id, nil
}

// classifySubmitError maps node result codes onto the domain error taxonomy.
// A tec-class rejection consumed the sequence slot on-ledger, so the local
// sequence advances to keep the next attempt valid; tefPAST_SEQ means the
// local counter lagged and is resynchronized the same way. Failures without a
// result code are transport errors and pass through verbatim.
func (w *Wallet) classifySubmitError(err error, payment *xrpl.Payment) error {
	var nodeErr *ledgerapi.NodeError
	if !errors.As(err, &nodeErr) || nodeErr.Code == "" {
		return err
	}

	code := nodeErr.Code
	consumed := xrpl.Claimed(code) || code == xrpl.ResultPastSeq
	if consumed && payment.Account == w.Address() {
		w.mu.Lock()
		w.sequence++
		w.mu.Unlock()
	}

	w.logger.Warn("submission rejected",
		slog.String("result_code", code),
		slog.Bool("sequence_consumed", consumed))

	switch code {
	case xrpl.ResultNoDstInsufXRP:
		return &MinimumReserveDestinationError{Amount: w.cfg.MinReserve, Cause: err}
	case xrpl.ResultDstTagNeeded:
		return &DestinationTagNeededError{Cause: err}
	}
	return err
}
