package xrpl

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"
)

// The ledger uses its own base58 dictionary; the classic bitcoin alphabet does
// not decode XRPL identifiers.
var alphabet = base58.NewAlphabet("rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz")

const (
	accountIDVersion  = 0x00
	familySeedVersion = 0x21

	accountIDLen = 20
	seedLen      = 16
)

func checksum(payload []byte) []byte {
	h := sha256.Sum256(payload)
	h = sha256.Sum256(h[:])
	return h[:4]
}

func encodeChecked(version byte, payload []byte) string {
	buf := make([]byte, 0, 1+len(payload)+4)
	buf = append(buf, version)
	buf = append(buf, payload...)
	buf = append(buf, checksum(buf)...)
	return base58.EncodeAlphabet(buf, alphabet)
}

func decodeChecked(s string, version byte, payloadLen int) ([]byte, error) {
	raw, err := base58.DecodeAlphabet(s, alphabet)
	if err != nil {
		return nil, fmt.Errorf("base58 decode: %w", err)
	}
	if len(raw) != 1+payloadLen+4 {
		return nil, fmt.Errorf("unexpected length %d", len(raw))
	}
	if raw[0] != version {
		return nil, fmt.Errorf("unexpected version 0x%02x", raw[0])
	}
	body, check := raw[:1+payloadLen], raw[1+payloadLen:]
	want := checksum(body)
	for i := range check {
		if check[i] != want[i] {
			return nil, fmt.Errorf("checksum mismatch")
		}
	}
	return body[1:], nil
}

// EncodeAccountID renders a 20-byte account ID as a classic address.
func EncodeAccountID(id []byte) (string, error) {
	if len(id) != accountIDLen {
		return "", fmt.Errorf("account ID must be %d bytes, got %d", accountIDLen, len(id))
	}
	return encodeChecked(accountIDVersion, id), nil
}

// DecodeAccountID validates a classic address and returns its 20-byte account
// ID. It is the pass/fail oracle for destination addresses.
func DecodeAccountID(address string) ([]byte, error) {
	id, err := decodeChecked(address, accountIDVersion, accountIDLen)
	if err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", address, err)
	}
	return id, nil
}

// EncodeSeed renders 16 bytes of entropy as a family seed secret ("s...").
func EncodeSeed(entropy []byte) (string, error) {
	if len(entropy) != seedLen {
		return "", fmt.Errorf("seed entropy must be %d bytes, got %d", seedLen, len(entropy))
	}
	return encodeChecked(familySeedVersion, entropy), nil
}

// DecodeSeed extracts the 16-byte entropy from a family seed secret.
func DecodeSeed(secret string) ([]byte, error) {
	entropy, err := decodeChecked(secret, familySeedVersion, seedLen)
	if err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}
	return entropy, nil
}
