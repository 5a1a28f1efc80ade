package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/drip-wallet/drip_wallet/internal/config"
	"github.com/drip-wallet/drip_wallet/internal/ledgerapi"
	"github.com/drip-wallet/drip_wallet/internal/logging"
	"github.com/drip-wallet/drip_wallet/internal/middleware"
	"github.com/drip-wallet/drip_wallet/internal/notification"
	"github.com/drip-wallet/drip_wallet/internal/storage"
	"github.com/drip-wallet/drip_wallet/internal/wallet"
	"github.com/drip-wallet/drip_wallet/internal/xrpl"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares, builds the wallet engine and wires all
// application routes.
func Setup(app *fiber.App, d Deps) error {
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	// The wallet address scopes persisted state, so derive it before
	// choosing a storage backend.
	address := d.Cfg.WalletAddress
	if d.Cfg.WalletSeed != nil {
		derived, err := xrpl.AddressFromSeed(d.Cfg.WalletSeed)
		if err != nil {
			return fmt.Errorf("derive wallet address: %w", err)
		}
		address = derived
	}

	var store storage.Storage
	switch {
	case d.DB != nil:
		store = storage.NewPostgres(d.DB, address)
	case d.Cache != nil:
		store = storage.NewRedis(d.Cache, address)
	default:
		store = storage.NewMemory()
	}

	node := ledgerapi.NewClient(d.Cfg.NodeURL, logging.Component(d.Logger, "ledgerapi"))
	notifier := notification.NewLoggerNotifier(d.Logger)
	engine := wallet.New(node, store, notifier, logging.Component(d.Logger, "wallet"), wallet.Config{
		MinReserve:    d.Cfg.MinReserve,
		DustThreshold: d.Cfg.DustThreshold,
		MemoTTL:       d.Cfg.MemoTTL,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if d.Cfg.WalletSeed != nil {
		if err := engine.Create(ctx, d.Cfg.WalletSeed); err != nil {
			return fmt.Errorf("create wallet: %w", err)
		}
	} else {
		if err := engine.Open(ctx, d.Cfg.WalletAddress); err != nil {
			return fmt.Errorf("open wallet: %w", err)
		}
	}

	walletHandler := wallet.NewHandler(engine, d.Cfg.WalletSeed)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	RegisterWalletRoutes(api, walletHandler)

	return nil
}
