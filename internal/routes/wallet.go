package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/drip-wallet/drip_wallet/internal/wallet"
)

// RegisterWalletRoutes wires wallet-related endpoints.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler) {
	r.Get("/wallet", h.Info)
	r.Post("/wallet/load", h.Load)
	r.Get("/wallet/max-amount", h.MaxAmount)
	r.Get("/wallet/fee", h.Fee)
	r.Post("/wallet/payments", h.CreatePayment)
	r.Post("/wallet/import/estimate", h.EstimateImport)
	r.Post("/wallet/import", h.CreateImport)
	r.Get("/wallet/transactions", h.Transactions)
	r.Get("/wallet/transactions/:txId", h.Transaction)
}
