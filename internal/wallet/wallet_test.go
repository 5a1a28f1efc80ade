package wallet

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drip-wallet/drip_wallet/internal/ledgerapi"
	"github.com/drip-wallet/drip_wallet/internal/logging"
	"github.com/drip-wallet/drip_wallet/internal/storage"
	"github.com/drip-wallet/drip_wallet/internal/xrpl"
)

const destAddress = "rfUJGPU24ZyxiyT9bPE4kaG3EhBviBjb63"

func testWalletSeed() []byte {
	return bytes.Repeat([]byte{0x2b, 0x48}, 16)
}

type fakeNode struct {
	accounts  map[string]ledgerapi.AccountInfo
	fee       string
	maxLedger uint32
	submitID  string
	submitErr error
	submitted []string
	feeCalls  int
	infoCalls int
	page      ledgerapi.TxPage
	txs       map[string]ledgerapi.Tx
}

func newFakeNode() *fakeNode {
	return &fakeNode{
		accounts:  make(map[string]ledgerapi.AccountInfo),
		fee:       "0.000012",
		maxLedger: 1000,
		submitID:  "ABC123",
		txs:       make(map[string]ledgerapi.Tx),
	}
}

func (f *fakeNode) AccountInfo(_ context.Context, address string) (ledgerapi.AccountInfo, error) {
	f.infoCalls++
	info, ok := f.accounts[address]
	if !ok {
		return ledgerapi.AccountInfo{Balance: "0", IsActive: false}, nil
	}
	return info, nil
}

func (f *fakeNode) Fee(_ context.Context) (string, error) {
	f.feeCalls++
	return f.fee, nil
}

func (f *fakeNode) MaxLedgerVersion(_ context.Context) (uint32, error) {
	return f.maxLedger, nil
}

func (f *fakeNode) Submit(_ context.Context, rawtx string) (string, error) {
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.submitted = append(f.submitted, rawtx)
	return f.submitID, nil
}

func (f *fakeNode) AccountTxs(_ context.Context, _, _ string) (ledgerapi.TxPage, error) {
	return f.page, nil
}

func (f *fakeNode) Tx(_ context.Context, id string) (ledgerapi.Tx, error) {
	tx, ok := f.txs[id]
	if !ok {
		return ledgerapi.Tx{}, &ledgerapi.NodeError{StatusCode: 404, Message: "not found"}
	}
	return tx, nil
}

// loadedWallet builds a wallet created from the test seed and loaded with a
// 20 XRP active account at sequence 1; the destination holds 10 XRP.
func loadedWallet(t *testing.T) (*Wallet, *fakeNode, *storage.Memory) {
	t.Helper()
	ctx := context.Background()
	node := newFakeNode()
	store := storage.NewMemory()
	w := New(node, store, nil, logging.Discard(), Config{})

	require.NoError(t, w.Create(ctx, testWalletSeed()))
	node.accounts[w.Address()] = ledgerapi.AccountInfo{Balance: "20", Sequence: 1, IsActive: true}
	node.accounts[destAddress] = ledgerapi.AccountInfo{Balance: "10", Sequence: 3, IsActive: true}
	require.NoError(t, w.Load(ctx))
	return w, node, store
}

func TestCreateDerivesAddress(t *testing.T) {
	ctx := context.Background()
	w := New(newFakeNode(), storage.NewMemory(), nil, logging.Discard(), Config{})

	require.NoError(t, w.Create(ctx, testWalletSeed()))
	assert.Equal(t, StateInitialized, w.State())

	id, err := xrpl.DecodeAccountID(w.Address())
	require.NoError(t, err)
	assert.Len(t, id, 20)

	want, err := xrpl.AddressFromSeed(testWalletSeed())
	require.NoError(t, err)
	assert.Equal(t, want, w.Address())
}

func TestCreateRejectsShortSeed(t *testing.T) {
	w := New(newFakeNode(), storage.NewMemory(), nil, logging.Discard(), Config{})
	require.Error(t, w.Create(context.Background(), []byte{1, 2, 3}))
	assert.Equal(t, StateError, w.State())
}

func TestOpenWatchOnly(t *testing.T) {
	ctx := context.Background()
	w := New(newFakeNode(), storage.NewMemory(), nil, logging.Discard(), Config{})

	require.NoError(t, w.Open(ctx, destAddress))
	assert.Equal(t, StateInitialized, w.State())
	assert.Equal(t, destAddress, w.Address())
}

func TestOpenRejectsInvalidAddress(t *testing.T) {
	w := New(newFakeNode(), storage.NewMemory(), nil, logging.Discard(), Config{})
	err := w.Open(context.Background(), "not-an-address")
	var invalid *InvalidAddressError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, StateError, w.State())
}

func TestOpenSeedsBalanceFromStorage(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	store.Seed(balanceKey, "1234567890")
	w := New(newFakeNode(), store, nil, logging.Discard(), Config{})

	require.NoError(t, w.Open(ctx, destAddress))
	assert.Equal(t, int64(1234567890), w.Balance())
}

func TestLoadHydratesAndPersists(t *testing.T) {
	ctx := context.Background()
	node := newFakeNode()
	store := storage.NewMemory()
	w := New(node, store, nil, logging.Discard(), Config{})

	require.NoError(t, w.Open(ctx, destAddress))
	node.accounts[destAddress] = ledgerapi.AccountInfo{Balance: "12.345", Sequence: 1, IsActive: true}

	require.NoError(t, w.Load(ctx))
	assert.Equal(t, StateLoaded, w.State())
	assert.Equal(t, int64(12_345000), w.Balance())
	assert.Equal(t, uint32(1), w.Sequence())
	assert.True(t, w.IsActive())

	v, ok, err := store.Get(ctx, balanceKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "12345000", v)
	assert.Equal(t, 1, store.Saves())
}

type failingNode struct{ *fakeNode }

func (f failingNode) AccountInfo(context.Context, string) (ledgerapi.AccountInfo, error) {
	return ledgerapi.AccountInfo{}, &ledgerapi.NodeError{StatusCode: 500}
}

func TestLoadFailureKeepsCachedBalance(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	store.Seed(balanceKey, "777")
	w := New(failingNode{newFakeNode()}, store, nil, logging.Discard(), Config{})

	require.NoError(t, w.Open(ctx, destAddress))
	require.Error(t, w.Load(ctx))
	assert.Equal(t, StateError, w.State())
	assert.Equal(t, int64(777), w.Balance())
	assert.Equal(t, 0, store.Saves())
}

func TestGetPrivateKeyExportsSecret(t *testing.T) {
	ctx := context.Background()
	w := New(newFakeNode(), storage.NewMemory(), nil, logging.Discard(), Config{})
	require.NoError(t, w.Create(ctx, testWalletSeed()))

	key, err := w.GetPrivateKey(testWalletSeed())
	require.NoError(t, err)
	assert.Equal(t, w.Address(), key.Address)

	derived, err := xrpl.AddressFromSecret(key.Secret)
	require.NoError(t, err)
	assert.Equal(t, w.Address(), derived)
}

func TestCleanupInvalidatesMemoizedFee(t *testing.T) {
	ctx := context.Background()
	w, node, _ := loadedWallet(t)

	_, err := w.EstimateTransactionFee(ctx)
	require.NoError(t, err)
	_, err = w.EstimateTransactionFee(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, node.feeCalls)

	w.Cleanup(ctx)
	_, err = w.EstimateTransactionFee(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, node.feeCalls)
}

func TestLoadTransactionsConvertsAndFlagsDirection(t *testing.T) {
	ctx := context.Background()
	w, node, _ := loadedWallet(t)

	node.page = ledgerapi.TxPage{
		Transactions: []ledgerapi.Tx{
			{ID: "T1", From: w.Address(), To: destAddress, Amount: "5", Fee: "0.000012", Status: true},
			{ID: "T2", From: destAddress, To: w.Address(), Amount: "1.5", Fee: "0.000012", Status: true},
		},
		HasMore: true,
		Cursor:  "next",
	}

	page, err := w.LoadTransactions(ctx, "")
	require.NoError(t, err)
	require.Len(t, page.Transactions, 2)
	assert.True(t, page.HasMore)
	assert.Equal(t, "next", page.Cursor)

	out, in := page.Transactions[0], page.Transactions[1]
	assert.False(t, out.Incoming)
	assert.Equal(t, int64(5_000000), out.Amount)
	assert.Equal(t, int64(12), out.Fee)
	assert.True(t, in.Incoming)
	assert.Equal(t, int64(1_500000), in.Amount)

	// Single fetch is served from the page cache.
	cached, err := w.LoadTransaction(ctx, "T1")
	require.NoError(t, err)
	assert.Equal(t, out, cached)
}

func TestLoadTransactionFallsBackToNode(t *testing.T) {
	ctx := context.Background()
	w, node, _ := loadedWallet(t)
	node.txs["T9"] = ledgerapi.Tx{ID: "T9", From: destAddress, To: w.Address(), Amount: "2", Fee: "0.000012", Status: true}

	tx, err := w.LoadTransaction(ctx, "T9")
	require.NoError(t, err)
	assert.Equal(t, int64(2_000000), tx.Amount)
	assert.True(t, tx.Incoming)

	_, err = w.LoadTransaction(ctx, "missing")
	var nodeErr *ledgerapi.NodeError
	assert.ErrorAs(t, err, &nodeErr)
}

func TestTxURL(t *testing.T) {
	w, _, _ := loadedWallet(t)
	assert.Equal(t, "https://livenet.xrpl.org/transactions/ABC", w.TxURL("ABC"))
}

var errTransport = errors.New("connection reset")
