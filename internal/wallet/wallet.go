package wallet

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/drip-wallet/drip_wallet/internal/ledgerapi"
	"github.com/drip-wallet/drip_wallet/internal/notification"
	"github.com/drip-wallet/drip_wallet/internal/storage"
	"github.com/drip-wallet/drip_wallet/internal/xrpl"
)

const balanceKey = "balance"

// Config captures the network constants and session tuning of a wallet.
type Config struct {
	// MinReserve is the minimum drops an account must hold to stay active.
	MinReserve int64
	// DustThreshold is the minimum drops a single payment may move.
	DustThreshold int64
	// MemoTTL bounds how long fee and account-info lookups are reused.
	MemoTTL time.Duration
	// ExplorerURL prefixes transaction IDs in TxURL.
	ExplorerURL string
}

func (c Config) withDefaults() Config {
	if c.MinReserve == 0 {
		c.MinReserve = 10_000000
	}
	if c.DustThreshold == 0 {
		c.DustThreshold = 1
	}
	if c.MemoTTL == 0 {
		c.MemoTTL = 30 * time.Second
	}
	if c.ExplorerURL == "" {
		c.ExplorerURL = "https://livenet.xrpl.org/transactions/"
	}
	return c
}

// Wallet is the account-state and transaction-lifecycle engine for a single
// XRP account. At most one mutating operation (Load, CreateTransaction,
// CreateImport) may be in flight at a time; that ordering is the caller's
// responsibility. The mutex only keeps the state words coherent for
// concurrent readers.
type Wallet struct {
	cfg      Config
	api      ledgerapi.API
	store    storage.Storage
	notifier notification.Notifier
	logger   *slog.Logger
	memo     *memoCache

	mu       sync.Mutex
	state    State
	address  string
	balance  int64 // drops
	sequence uint32
	isActive bool
	txs      map[string]Tx
}

// New constructs a wallet in the Created state.
func New(api ledgerapi.API, store storage.Storage, notifier notification.Notifier, logger *slog.Logger, cfg Config) *Wallet {
	return &Wallet{
		cfg:      cfg.withDefaults(),
		api:      api,
		store:    store,
		notifier: notifier,
		logger:   logger,
		memo:     newMemoCache(),
		state:    StateCreated,
		txs:      make(map[string]Tx),
	}
}

// Create derives the wallet address from a seed, making the wallet
// write-capable. The address is fixed for the wallet's lifetime.
func (w *Wallet) Create(ctx context.Context, seed []byte) error {
	w.setState(StateInitializing)
	address, err := xrpl.AddressFromSeed(seed)
	if err != nil {
		w.setState(StateError)
		return fmt.Errorf("derive address: %w", err)
	}
	return w.initialize(ctx, address)
}

// Open initializes the wallet with a known public address, read-only.
func (w *Wallet) Open(ctx context.Context, publicKey string) error {
	w.setState(StateInitializing)
	if _, err := xrpl.DecodeAccountID(publicKey); err != nil {
		w.setState(StateError)
		return &InvalidAddressError{Address: publicKey, Cause: err}
	}
	return w.initialize(ctx, publicKey)
}

// initialize fixes the address and seeds the balance from storage so a fresh
// session shows the last known value before any network load.
func (w *Wallet) initialize(ctx context.Context, address string) error {
	w.mu.Lock()
	w.address = address
	w.mu.Unlock()

	if v, ok, err := w.store.Get(ctx, balanceKey); err != nil {
		w.setState(StateError)
		return fmt.Errorf("read cached balance: %w", err)
	} else if ok {
		if cached, err := strconv.ParseInt(v, 10, 64); err == nil {
			w.mu.Lock()
			w.balance = cached
			w.mu.Unlock()
		}
	}

	w.setState(StateInitialized)
	return nil
}

// Load hydrates balance, sequence and activation from the node and persists
// the balance. On any failure the wallet transitions to the error state and
// the previously cached values stay untouched.
func (w *Wallet) Load(ctx context.Context) error {
	w.setState(StateLoading)

	info, err := w.accountInfo(ctx, w.Address())
	if err != nil {
		w.setState(StateError)
		return err
	}
	balance, err := xrpl.ParseXRP(info.Balance)
	if err != nil {
		w.setState(StateError)
		return fmt.Errorf("account balance: %w", err)
	}

	if err := w.persistBalance(ctx, balance); err != nil {
		w.setState(StateError)
		return err
	}

	w.mu.Lock()
	w.balance = balance
	w.sequence = info.Sequence
	w.isActive = info.IsActive
	w.state = StateLoaded
	w.mu.Unlock()

	w.logger.Info("wallet loaded",
		slog.String("address", w.Address()),
		slog.Int64("balance", balance),
		slog.Bool("is_active", info.IsActive))
	return nil
}

// Cleanup invalidates all memoized remote lookups at session end.
func (w *Wallet) Cleanup(_ context.Context) {
	w.memo.clear()
}

func (w *Wallet) persistBalance(ctx context.Context, balance int64) error {
	if err := w.store.Set(ctx, balanceKey, strconv.FormatInt(balance, 10)); err != nil {
		return fmt.Errorf("persist balance: %w", err)
	}
	if err := w.store.Save(ctx); err != nil {
		return fmt.Errorf("persist balance: %w", err)
	}
	return nil
}

func (w *Wallet) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

// State reports the wallet lifecycle position.
func (w *Wallet) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Address returns the wallet's account address.
func (w *Wallet) Address() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.address
}

// Balance returns the cached balance in drops.
func (w *Wallet) Balance() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.balance
}

// Sequence returns the next outgoing sequence number.
func (w *Wallet) Sequence() uint32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sequence
}

// IsActive reports whether the account has met the network reserve.
func (w *Wallet) IsActive() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isActive
}

// GetPublicKey exports the data needed to reopen the wallet watch-only.
func (w *Wallet) GetPublicKey() string {
	return w.Address()
}

// ExportedKey pairs an address with the family seed secret controlling it.
type ExportedKey struct {
	Address string
	Secret  string
}

// GetPrivateKey exports the family seed secret for the account derived from
// seed.
func (w *Wallet) GetPrivateKey(seed []byte) (ExportedKey, error) {
	secret, err := xrpl.SecretFromSeed(seed)
	if err != nil {
		return ExportedKey{}, err
	}
	address, err := xrpl.AddressFromSecret(secret)
	if err != nil {
		return ExportedKey{}, err
	}
	return ExportedKey{Address: address, Secret: secret}, nil
}

// TxURL returns the public explorer link for a transaction.
func (w *Wallet) TxURL(id string) string {
	return w.cfg.ExplorerURL + id
}

// LoadTransactions fetches one page of history. An empty cursor restarts from
// the newest transactions and resets the page cache.
func (w *Wallet) LoadTransactions(ctx context.Context, cursor string) (TxPage, error) {
	if cursor == "" {
		w.mu.Lock()
		w.txs = make(map[string]Tx)
		w.mu.Unlock()
	}

	page, err := w.api.AccountTxs(ctx, w.Address(), cursor)
	if err != nil {
		return TxPage{}, err
	}

	out := TxPage{HasMore: page.HasMore, Cursor: page.Cursor}
	for _, raw := range page.Transactions {
		tx, err := w.transformTx(raw)
		if err != nil {
			return TxPage{}, err
		}
		out.Transactions = append(out.Transactions, tx)
		w.mu.Lock()
		w.txs[tx.ID] = tx
		w.mu.Unlock()
	}
	return out, nil
}

// LoadTransaction fetches a single transaction, served from the page cache
// when available.
func (w *Wallet) LoadTransaction(ctx context.Context, id string) (Tx, error) {
	w.mu.Lock()
	if tx, ok := w.txs[id]; ok {
		w.mu.Unlock()
		return tx, nil
	}
	w.mu.Unlock()

	raw, err := w.api.Tx(ctx, id)
	if err != nil {
		return Tx{}, err
	}
	return w.transformTx(raw)
}

func (w *Wallet) transformTx(raw ledgerapi.Tx) (Tx, error) {
	amount, err := xrpl.ParseXRP(raw.Amount)
	if err != nil {
		return Tx{}, fmt.Errorf("transaction %s amount: %w", raw.ID, err)
	}
	fee, err := xrpl.ParseXRP(raw.Fee)
	if err != nil {
		return Tx{}, fmt.Errorf("transaction %s fee: %w", raw.ID, err)
	}
	address := w.Address()
	return Tx{
		ID:             raw.ID,
		From:           raw.From,
		To:             raw.To,
		Amount:         amount,
		Fee:            fee,
		Incoming:       raw.To == address && raw.From != raw.To,
		Timestamp:      raw.Timestamp,
		Status:         raw.Status,
		DestinationTag: raw.DestinationTag,
		InvoiceID:      raw.InvoiceID,
	}, nil
}

// minerFee returns the current per-transaction fee in drops, memoized for a
// short window.
func (w *Wallet) minerFee(ctx context.Context) (int64, error) {
	v, err := w.memo.do("fee", w.cfg.MemoTTL, func() (any, error) {
		fee, err := w.api.Fee(ctx)
		if err != nil {
			return nil, err
		}
		return xrpl.ParseXRP(fee)
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

// accountInfo fetches account state, memoized per address for a short window.
func (w *Wallet) accountInfo(ctx context.Context, address string) (ledgerapi.AccountInfo, error) {
	v, err := w.memo.do("account:"+address, w.cfg.MemoTTL, func() (any, error) {
		return w.api.AccountInfo(ctx, address)
	})
	if err != nil {
		return ledgerapi.AccountInfo{}, err
	}
	return v.(ledgerapi.AccountInfo), nil
}
