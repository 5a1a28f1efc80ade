package wallet

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drip-wallet/drip_wallet/internal/ledgerapi"
	"github.com/drip-wallet/drip_wallet/internal/xrpl"
)

// foreignAccount registers a funded foreign account on the fake node and
// returns the secret controlling it.
func foreignAccount(t *testing.T, node *fakeNode, balance string) string {
	t.Helper()
	secret, err := xrpl.EncodeSeed(bytes.Repeat([]byte{0x77}, 16))
	require.NoError(t, err)
	address, err := xrpl.AddressFromSecret(secret)
	require.NoError(t, err)
	node.accounts[address] = ledgerapi.AccountInfo{Balance: balance, Sequence: 5, IsActive: true}
	return secret
}

func TestEstimateImport(t *testing.T) {
	ctx := context.Background()
	w, node, _ := loadedWallet(t)
	secret := foreignAccount(t, node, "100500")

	estimate, err := w.EstimateImport(ctx, secret)
	require.NoError(t, err)

	// 100500 XRP - 10 XRP reserve - 12 drops fee.
	assert.Equal(t, int64(100_489_999988), estimate.Sendable)

	derived, err := xrpl.AddressFromSecret(secret)
	require.NoError(t, err)
	assert.Equal(t, derived, estimate.Address)
}

func TestEstimateImportInvalidSecret(t *testing.T) {
	ctx := context.Background()
	w, _, _ := loadedWallet(t)

	var invalid *InvalidPrivateKeyError
	_, err := w.EstimateImport(ctx, "123")
	require.ErrorAs(t, err, &invalid)
}

func TestEstimateImportOwnSecret(t *testing.T) {
	ctx := context.Background()
	w, _, _ := loadedWallet(t)

	secret, err := xrpl.SecretFromSeed(testWalletSeed())
	require.NoError(t, err)

	var invalid *InvalidPrivateKeyError
	_, err = w.EstimateImport(ctx, secret)
	require.ErrorAs(t, err, &invalid)
}

func TestEstimateImportBelowDust(t *testing.T) {
	ctx := context.Background()
	w, node, _ := loadedWallet(t)
	secret := foreignAccount(t, node, "10.000012") // sendable exactly zero

	var small *SmallAmountError
	_, err := w.EstimateImport(ctx, secret)
	require.ErrorAs(t, err, &small)
	assert.Equal(t, w.cfg.DustThreshold, small.Amount)
}

func TestEstimateImportInactiveWalletNeedsReserve(t *testing.T) {
	ctx := context.Background()
	w, node, _ := loadedWallet(t)
	w.mu.Lock()
	w.isActive = false
	w.mu.Unlock()
	secret := foreignAccount(t, node, "15") // sendable 5 XRP < 10 XRP reserve

	var reserve *MinimumReserveDestinationError
	_, err := w.EstimateImport(ctx, secret)
	require.ErrorAs(t, err, &reserve)
	assert.Equal(t, int64(10_000000), reserve.Amount)
}

func TestCreateImportCreditsReceivedAmountOnly(t *testing.T) {
	ctx := context.Background()
	w, node, store := loadedWallet(t)
	secret := foreignAccount(t, node, "100500")

	id, err := w.CreateImport(ctx, secret)
	require.NoError(t, err)
	assert.Equal(t, "ABC123", id)

	// Credit the swept amount; the fee is paid on the foreign side. Own
	// sequence is untouched, the sweep spends the foreign account's slot.
	assert.Equal(t, int64(20_000000+100_489_999988), w.Balance())
	assert.Equal(t, uint32(1), w.Sequence())

	v, ok, err := store.Get(ctx, balanceKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "100509999988", v)
	require.Len(t, node.submitted, 1)
}

func TestCreateImportRejectionLeavesStateAlone(t *testing.T) {
	ctx := context.Background()
	w, node, _ := loadedWallet(t)
	secret := foreignAccount(t, node, "100500")
	node.submitErr = &ledgerapi.NodeError{Code: "tecPATH_DRY", StatusCode: 400}

	_, err := w.CreateImport(ctx, secret)
	var nodeErr *ledgerapi.NodeError
	require.ErrorAs(t, err, &nodeErr)

	// The foreign account consumed its own sequence; local state is
	// untouched either way.
	assert.Equal(t, uint32(1), w.Sequence())
	assert.Equal(t, int64(20_000000), w.Balance())
}
