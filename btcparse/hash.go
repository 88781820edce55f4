package btcparse

import (
	"crypto/sha256"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck
)

// HashBtcTx returns the double SHA-256 of rawTx exactly as supplied.
//
// No witness stripping happens: for a segwit-serialized transaction this is
// the wtxid, not the txid. Callers that need the legacy txid must pass the
// non-witness serialization.
//
// The returned array holds the digest in natural (SHA-256 output) order.
// The conventional 32-byte transaction id, as shown by block explorers and
// used as a lookup key by relays, is the byte-reversed form: String() or
// the reversed array bytes.
func HashBtcTx(rawTx []byte) chainhash.Hash {
	return chainhash.DoubleHashH(rawTx)
}

// Hash160 returns RIPEMD160(SHA256(b)). It matches btcutil.Hash160 but
// returns a fixed array, using the x/crypto RIPEMD-160 directly.
func Hash160(b []byte) [20]byte {
	sha := sha256.Sum256(b)
	h := ripemd160.New()
	_, _ = h.Write(sha[:])
	var out [20]byte
	copy(out[:], h.Sum(nil))
	return out
}
