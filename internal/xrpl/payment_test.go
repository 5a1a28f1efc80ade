package xrpl

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedTestPayment(t *testing.T) (*Payment, *KeyPair) {
	t.Helper()
	secret, err := SecretFromSeed(testSeed())
	require.NoError(t, err)
	kp, err := DeriveKeyPair(secret)
	require.NoError(t, err)

	p := &Payment{
		Account:            kp.Address(),
		Destination:        "rfUJGPU24ZyxiyT9bPE4kaG3EhBviBjb63",
		Amount:             5_000000,
		Fee:                12,
		Sequence:           7,
		LastLedgerSequence: 1000,
		SigningPubKey:      kp.PublicKey(),
	}
	payload, err := p.SigningPayload()
	require.NoError(t, err)
	p.TxnSignature = kp.Sign(payload)
	return p, kp
}

func TestSigningPayloadPrefixAndSignature(t *testing.T) {
	p, kp := signedTestPayment(t)

	payload, err := p.SigningPayload()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(payload, []byte{0x53, 0x54, 0x58, 0x00}))
	assert.True(t, Verify(kp.PublicKey(), payload, p.TxnSignature))
}

func TestEncodeRequiresSignature(t *testing.T) {
	p, _ := signedTestPayment(t)
	p.TxnSignature = nil
	_, err := p.Encode()
	assert.Error(t, err)
}

func TestEncodeIsHexAndContainsAccounts(t *testing.T) {
	p, _ := signedTestPayment(t)
	blob, err := p.Encode()
	require.NoError(t, err)
	assert.Equal(t, strings.ToUpper(blob), blob)

	raw, err := hex.DecodeString(blob)
	require.NoError(t, err)

	src, err := DecodeAccountID(p.Account)
	require.NoError(t, err)
	dst, err := DecodeAccountID(p.Destination)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(raw, src))
	assert.True(t, bytes.Contains(raw, dst))
	// Native amount with the positive bit: 0x40... | drops.
	assert.True(t, bytes.Contains(raw, []byte{0x40, 0, 0, 0, 0, 0x4c, 0x4b, 0x40}))
}

func TestSerializeOptionalFields(t *testing.T) {
	p, _ := signedTestPayment(t)
	base, err := p.serialize(false)
	require.NoError(t, err)

	tag := uint32(12345)
	p.DestinationTag = &tag
	p.InvoiceID = strings.Repeat("ab", 32)
	withMeta, err := p.serialize(false)
	require.NoError(t, err)

	// tag header+value (5) plus invoice header+hash (34)
	assert.Equal(t, len(base)+5+34, len(withMeta))
}

func TestSerializeRejectsBadInvoice(t *testing.T) {
	p, _ := signedTestPayment(t)
	p.InvoiceID = "zz"
	_, err := p.serialize(false)
	assert.Error(t, err)
}
