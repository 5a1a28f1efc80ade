package xrpl

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // ledger-mandated hash
)

// KeyPair is a derived secp256k1 signing key for one ledger account.
type KeyPair struct {
	priv *secp256k1.PrivateKey
}

// DeriveKeyPair derives the account keypair from a family seed secret using
// the ledger's root/intermediate scheme (account index 0).
func DeriveKeyPair(secret string) (*KeyPair, error) {
	entropy, err := DecodeSeed(secret)
	if err != nil {
		return nil, err
	}

	n := secp256k1.S256().N
	rootScalar := deriveScalar(n, entropy)
	rootPriv := privFromScalar(rootScalar)

	mid := deriveScalar(n, rootPriv.PubKey().SerializeCompressed(), 0)
	account := new(big.Int).Add(rootScalar, mid)
	account.Mod(account, n)

	return &KeyPair{priv: privFromScalar(account)}, nil
}

// deriveScalar hashes seed material with an incrementing counter until the
// result is a valid non-zero scalar below the curve order.
func deriveScalar(n *big.Int, seed []byte, extra ...uint32) *big.Int {
	for i := uint32(0); ; i++ {
		buf := make([]byte, 0, len(seed)+4*(len(extra)+1))
		buf = append(buf, seed...)
		for _, e := range extra {
			buf = binary.BigEndian.AppendUint32(buf, e)
		}
		buf = binary.BigEndian.AppendUint32(buf, i)
		h := sha512Half(buf)
		k := new(big.Int).SetBytes(h)
		if k.Sign() > 0 && k.Cmp(n) < 0 {
			return k
		}
	}
}

func privFromScalar(k *big.Int) *secp256k1.PrivateKey {
	var b [32]byte
	k.FillBytes(b[:])
	return secp256k1.PrivKeyFromBytes(b[:])
}

// PublicKey returns the 33-byte compressed public key.
func (kp *KeyPair) PublicKey() []byte {
	return kp.priv.PubKey().SerializeCompressed()
}

// Address returns the classic address of the keypair's account.
func (kp *KeyPair) Address() string {
	addr, _ := EncodeAccountID(AccountID(kp.PublicKey()))
	return addr
}

// Sign produces a canonical DER signature over sha512-half of message.
func (kp *KeyPair) Sign(message []byte) []byte {
	return ecdsa.Sign(kp.priv, sha512Half(message)).Serialize()
}

// Verify reports whether sig is a valid DER signature over message for pub.
func Verify(pub, message, sig []byte) bool {
	pk, err := secp256k1.ParsePubKey(pub)
	if err != nil {
		return false
	}
	parsed, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return false
	}
	return parsed.Verify(sha512Half(message), pk)
}

// AccountID computes the 20-byte account ID of a compressed public key.
func AccountID(pub []byte) []byte {
	s := sha256.Sum256(pub)
	r := ripemd160.New()
	r.Write(s[:])
	return r.Sum(nil)
}

// SecretFromSeed deterministically encodes the wallet seed's first 16 bytes
// as a family seed secret.
func SecretFromSeed(seed []byte) (string, error) {
	if len(seed) < seedLen {
		return "", fmt.Errorf("seed must be at least %d bytes, got %d", seedLen, len(seed))
	}
	return EncodeSeed(seed[:seedLen])
}

// AddressFromSeed derives the classic address controlled by the wallet seed.
func AddressFromSeed(seed []byte) (string, error) {
	secret, err := SecretFromSeed(seed)
	if err != nil {
		return "", err
	}
	return AddressFromSecret(secret)
}

// AddressFromSecret derives the classic address controlled by a family seed
// secret.
func AddressFromSecret(secret string) (string, error) {
	kp, err := DeriveKeyPair(secret)
	if err != nil {
		return "", err
	}
	return kp.Address(), nil
}

func sha512Half(b []byte) []byte {
	h := sha512.Sum512(b)
	return h[:32]
}
