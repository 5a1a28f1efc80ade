package xrpl

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

// Payment is a fully specified Payment transaction ready for signing and
// submission.
type Payment struct {
	Account            string
	Destination        string
	Amount             int64 // drops
	Fee                int64 // drops
	Sequence           uint32
	LastLedgerSequence uint32
	DestinationTag     *uint32
	InvoiceID          string // 64 hex chars, optional

	SigningPubKey []byte
	TxnSignature  []byte
}

const paymentTransactionType = 0

// Binary field IDs, ordered by (type code, field code) as the canonical
// serialization requires.
var (
	fieldTransactionType    = fieldID{1, 2}
	fieldSequence           = fieldID{2, 4}
	fieldDestinationTag     = fieldID{2, 14}
	fieldLastLedgerSequence = fieldID{2, 27}
	fieldInvoiceID          = fieldID{5, 17}
	fieldAmount             = fieldID{6, 1}
	fieldFee                = fieldID{6, 8}
	fieldSigningPubKey      = fieldID{7, 3}
	fieldTxnSignature       = fieldID{7, 4}
	fieldAccount            = fieldID{8, 1}
	fieldDestination        = fieldID{8, 3}
)

// singleSigningPrefix is prepended to the serialized fields before hashing
// for a single-signer signature ("STX\0").
var singleSigningPrefix = []byte{0x53, 0x54, 0x58, 0x00}

type fieldID struct {
	typeCode  byte
	fieldCode byte
}

func (f fieldID) header() []byte {
	if f.fieldCode < 16 {
		return []byte{f.typeCode<<4 | f.fieldCode}
	}
	return []byte{f.typeCode << 4, f.fieldCode}
}

// SigningPayload serializes the payment without its signature and prepends
// the single-signing prefix; the signer hashes and signs this blob.
func (p *Payment) SigningPayload() ([]byte, error) {
	body, err := p.serialize(false)
	if err != nil {
		return nil, err
	}
	return append(append([]byte{}, singleSigningPrefix...), body...), nil
}

// Encode returns the signed transaction as an uppercase hex blob accepted by
// the submit endpoint.
func (p *Payment) Encode() (string, error) {
	if len(p.TxnSignature) == 0 {
		return "", fmt.Errorf("payment is not signed")
	}
	body, err := p.serialize(true)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(body)), nil
}

func (p *Payment) serialize(withSignature bool) ([]byte, error) {
	source, err := DecodeAccountID(p.Account)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	dest, err := DecodeAccountID(p.Destination)
	if err != nil {
		return nil, fmt.Errorf("destination: %w", err)
	}
	if len(p.SigningPubKey) == 0 {
		return nil, fmt.Errorf("missing signing public key")
	}

	var buf []byte
	buf = appendUint16(buf, fieldTransactionType, paymentTransactionType)
	buf = appendUint32(buf, fieldSequence, p.Sequence)
	if p.DestinationTag != nil {
		buf = appendUint32(buf, fieldDestinationTag, *p.DestinationTag)
	}
	buf = appendUint32(buf, fieldLastLedgerSequence, p.LastLedgerSequence)
	if p.InvoiceID != "" {
		invoice, err := hex.DecodeString(p.InvoiceID)
		if err != nil || len(invoice) != 32 {
			return nil, fmt.Errorf("invoice ID must be a 256-bit hex string")
		}
		buf = append(buf, fieldInvoiceID.header()...)
		buf = append(buf, invoice...)
	}
	buf, err = appendAmount(buf, fieldAmount, p.Amount)
	if err != nil {
		return nil, err
	}
	buf, err = appendAmount(buf, fieldFee, p.Fee)
	if err != nil {
		return nil, err
	}
	buf = appendBlob(buf, fieldSigningPubKey, p.SigningPubKey)
	if withSignature {
		buf = appendBlob(buf, fieldTxnSignature, p.TxnSignature)
	}
	buf = appendAccountID(buf, fieldAccount, source)
	buf = appendAccountID(buf, fieldDestination, dest)
	return buf, nil
}

func appendUint16(buf []byte, f fieldID, v uint16) []byte {
	buf = append(buf, f.header()...)
	return binary.BigEndian.AppendUint16(buf, v)
}

func appendUint32(buf []byte, f fieldID, v uint32) []byte {
	buf = append(buf, f.header()...)
	return binary.BigEndian.AppendUint32(buf, v)
}

// appendAmount encodes a native drops amount: 62 bits of value with the
// "positive native" bit set.
func appendAmount(buf []byte, f fieldID, drops int64) ([]byte, error) {
	if drops < 0 || drops > MaxDrops {
		return nil, fmt.Errorf("amount %d drops out of range", drops)
	}
	buf = append(buf, f.header()...)
	return binary.BigEndian.AppendUint64(buf, uint64(drops)|0x4000000000000000), nil
}

func appendBlob(buf []byte, f fieldID, b []byte) []byte {
	buf = append(buf, f.header()...)
	buf = appendVarLen(buf, len(b))
	return append(buf, b...)
}

func appendAccountID(buf []byte, f fieldID, id []byte) []byte {
	buf = append(buf, f.header()...)
	buf = append(buf, byte(accountIDLen))
	return append(buf, id...)
}

// appendVarLen writes the variable-length prefix. Wallet payloads never reach
// the two-byte form but it is handled for completeness.
func appendVarLen(buf []byte, n int) []byte {
	switch {
	case n <= 192:
		return append(buf, byte(n))
	case n <= 12480:
		n -= 193
		return append(buf, byte(193+n>>8), byte(n&0xff))
	default:
		n -= 12481
		return append(buf, byte(241+n>>16), byte(n>>8&0xff), byte(n&0xff))
	}
}
