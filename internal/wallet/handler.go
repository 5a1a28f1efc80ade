package wallet

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/drip-wallet/drip_wallet/internal/ledgerapi"
)

// Handler exposes the wallet engine over HTTP for the host application.
type Handler struct {
	wallet *Wallet
	seed   []byte // nil for watch-only deployments
}

// NewHandler builds a wallet HTTP handler. seed may be nil, disabling the
// signing endpoints.
func NewHandler(wallet *Wallet, seed []byte) *Handler {
	return &Handler{wallet: wallet, seed: seed}
}

// Info returns the wallet's current view of its account.
func (h *Handler) Info(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"address":   h.wallet.Address(),
		"state":     h.wallet.State().String(),
		"balance":   h.wallet.Balance(),
		"sequence":  h.wallet.Sequence(),
		"is_active": h.wallet.IsActive(),
	})
}

// Load refreshes account state from the node.
func (h *Handler) Load(c *fiber.Ctx) error {
	if err := h.wallet.Load(c.UserContext()); err != nil {
		return h.mapError(err)
	}
	return h.Info(c)
}

// MaxAmount returns the sendable ceiling in drops.
func (h *Handler) MaxAmount(c *fiber.Ctx) error {
	max, err := h.wallet.EstimateMaxAmount(c.UserContext())
	if err != nil {
		return h.mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"max_amount": max})
}

// Fee returns the current per-transaction fee in drops.
func (h *Handler) Fee(c *fiber.Ctx) error {
	fee, err := h.wallet.EstimateTransactionFee(c.UserContext())
	if err != nil {
		return h.mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"fee": fee})
}

type paymentRequest struct {
	Address        string `json:"address"`
	Amount         int64  `json:"amount"`
	DestinationTag string `json:"destination_tag"`
	InvoiceID      string `json:"invoice_id"`
}

// CreatePayment validates and submits a payment from the wallet account.
func (h *Handler) CreatePayment(c *fiber.Ctx) error {
	if h.seed == nil {
		return fiber.NewError(http.StatusForbidden, "wallet is watch-only")
	}
	var req paymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	id, err := h.wallet.CreateTransaction(c.UserContext(), req.Address, req.Amount,
		Meta{DestinationTag: req.DestinationTag, InvoiceID: req.InvoiceID}, h.seed)
	if err != nil {
		return h.mapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"tx_id": id,
		"url":   h.wallet.TxURL(id),
	})
}

type importRequest struct {
	Secret string `json:"secret"`
}

// EstimateImport reports the sweepable balance of a foreign secret.
func (h *Handler) EstimateImport(c *fiber.Ctx) error {
	var req importRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	estimate, err := h.wallet.EstimateImport(c.UserContext(), req.Secret)
	if err != nil {
		return h.mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"address":  estimate.Address,
		"sendable": estimate.Sendable,
	})
}

// CreateImport sweeps a foreign account into the wallet.
func (h *Handler) CreateImport(c *fiber.Ctx) error {
	var req importRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	id, err := h.wallet.CreateImport(c.UserContext(), req.Secret)
	if err != nil {
		return h.mapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"tx_id": id,
		"url":   h.wallet.TxURL(id),
	})
}

// Transactions returns one page of wallet history.
func (h *Handler) Transactions(c *fiber.Ctx) error {
	page, err := h.wallet.LoadTransactions(c.UserContext(), c.Query("cursor"))
	if err != nil {
		return h.mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"transactions": page.Transactions,
		"has_more":     page.HasMore,
		"cursor":       page.Cursor,
	})
}

// Transaction returns a single transaction by ID.
func (h *Handler) Transaction(c *fiber.Ctx) error {
	tx, err := h.wallet.LoadTransaction(c.UserContext(), c.Params("txId"))
	if err != nil {
		return h.mapError(err)
	}
	return c.Status(http.StatusOK).JSON(tx)
}

// mapError translates domain errors into HTTP statuses; node failures become
// bad gateway, validation failures unprocessable input.
func (h *Handler) mapError(err error) error {
	var (
		invalidAddress *InvalidAddressError
		sameAddress    *DestinationEqualsSourceError
		invalidTag     *InvalidDestinationTagError
		invalidInvoice *InvalidInvoiceIDError
		inactive       *InactiveAccountError
		small          *SmallAmountError
		big            *BigAmountError
		reserve        *MinimumReserveDestinationError
		tagNeeded      *DestinationTagNeededError
		invalidKey     *InvalidPrivateKeyError
		nodeErr        *ledgerapi.NodeError
	)
	switch {
	case errors.As(err, &invalidAddress),
		errors.As(err, &sameAddress),
		errors.As(err, &invalidTag),
		errors.As(err, &invalidInvoice),
		errors.As(err, &invalidKey):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.As(err, &inactive),
		errors.As(err, &small),
		errors.As(err, &big),
		errors.As(err, &reserve),
		errors.As(err, &tagNeeded):
		return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &nodeErr):
		return fiber.NewError(http.StatusBadGateway, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
