// Package txstore keeps raw transactions and block headers on disk, keyed by
// their double SHA-256, so the command-line tools can decode them again
// without the caller re-supplying hex.
package txstore

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/2tbmz9y2xt-lang/btcdecode/btcparse"
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketTxs     = []byte("raw_tx_by_hash")
	bucketTxIndex = []byte("tx_index_by_hash")
	bucketHeaders = []byte("headers_by_hash")
)

// ErrNotFound is returned when no record exists under the requested hash.
var ErrNotFound = errors.New("txstore: not found")

// TxIndexEntry is the structural summary kept next to each raw transaction.
type TxIndexEntry struct {
	Version     uint32
	HasWitness  bool
	InputCount  uint32
	OutputCount uint32
	Size        uint32
}

type DB struct {
	path string
	db   *bolt.DB
}

func Open(datadir string, network string) (*DB, error) {
	if datadir == "" {
		return nil, fmt.Errorf("datadir required")
	}
	if network == "" {
		return nil, fmt.Errorf("network required")
	}

	path := DBPath(datadir, network)
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return nil, err
	}

	bdb, err := bolt.Open(path, 0o600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("open bbolt: %w", err)
	}

	d := &DB{path: path, db: bdb}

	if err := d.db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{bucketTxs, bucketTxIndex, bucketHeaders} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("create bucket %s: %w", string(b), err)
			}
		}
		return nil
	}); err != nil {
		_ = bdb.Close()
		return nil, err
	}

	log.Debugf("Opened tx store at %s", path)
	return d, nil
}

func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

func (d *DB) Path() string { return d.path }

// PutTx stores a raw transaction under HashBtcTx(raw). The transaction must
// parse without trailing bytes.
func (d *DB) PutTx(raw []byte) (chainhash.Hash, error) {
	parsed, err := btcparse.ParseTx(raw)
	if err != nil {
		return chainhash.Hash{}, err
	}
	entry, err := indexEntryFor(parsed)
	if err != nil {
		return chainhash.Hash{}, err
	}
	hash := btcparse.HashBtcTx(raw)

	err = d.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketTxs).Put(hash[:], raw); err != nil {
			return err
		}
		return tx.Bucket(bucketTxIndex).Put(hash[:], encodeIndexEntry(entry))
	})
	if err != nil {
		return chainhash.Hash{}, err
	}

	log.Debugf("Stored tx %v (%d bytes)", hash, len(raw))
	return hash, nil
}

// GetTx returns a copy of the raw transaction stored under hash.
func (d *DB) GetTx(hash chainhash.Hash) ([]byte, error) {
	return d.get(bucketTxs, hash)
}

func (d *DB) GetTxIndex(hash chainhash.Hash) (*TxIndexEntry, error) {
	v, err := d.get(bucketTxIndex, hash)
	if err != nil {
		return nil, err
	}
	return decodeIndexEntry(v)
}

// ForEachTx calls fn for every stored transaction in key order. Returning an
// error from fn stops the iteration.
func (d *DB) ForEachTx(fn func(hash chainhash.Hash, e *TxIndexEntry) error) error {
	return d.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTxIndex).ForEach(func(k, v []byte) error {
			var hash chainhash.Hash
			if err := hash.SetBytes(k); err != nil {
				return err
			}
			e, err := decodeIndexEntry(v)
			if err != nil {
				return fmt.Errorf("tx %v: %w", hash, err)
			}
			return fn(hash, e)
		})
	})
}

// PutHeader stores an 80-byte block header under its block hash.
func (d *DB) PutHeader(header []byte) (chainhash.Hash, error) {
	hash, err := btcparse.BlockHash(header)
	if err != nil {
		return chainhash.Hash{}, err
	}
	err = d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketHeaders).Put(hash[:], header)
	})
	if err != nil {
		return chainhash.Hash{}, err
	}

	log.Debugf("Stored header %v", hash)
	return hash, nil
}

func (d *DB) GetHeader(hash chainhash.Hash) ([]byte, error) {
	return d.get(bucketHeaders, hash)
}

func (d *DB) get(bucket []byte, hash chainhash.Hash) ([]byte, error) {
	var out []byte
	err := d.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucket).Get(hash[:])
		if v == nil {
			return nil
		}
		out = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("%s %v: %w", bucket, hash, ErrNotFound)
	}
	return out, nil
}

func indexEntryFor(tx *btcparse.Tx) (TxIndexEntry, error) {
	if uint64(tx.InputCount) > math.MaxUint32 ||
		uint64(len(tx.Outputs)) > math.MaxUint32 ||
		uint64(tx.Size) > math.MaxUint32 {

		return TxIndexEntry{}, fmt.Errorf("index: transaction too large")
	}
	return TxIndexEntry{
		Version:     tx.Version,
		HasWitness:  tx.HasWitness,
		InputCount:  uint32(tx.InputCount),   // #nosec G115 -- checked above.
		OutputCount: uint32(len(tx.Outputs)), // #nosec G115 -- checked above.
		Size:        uint32(tx.Size),         // #nosec G115 -- checked above.
	}, nil
}

// Layout:
// version u32le | flags u8 | input_count u32le | output_count u32le | size u32le
const indexEntryLen = 4 + 1 + 4 + 4 + 4

func encodeIndexEntry(e TxIndexEntry) []byte {
	out := make([]byte, indexEntryLen)
	binary.LittleEndian.PutUint32(out[0:4], e.Version)
	if e.HasWitness {
		out[4] = 1
	}
	binary.LittleEndian.PutUint32(out[5:9], e.InputCount)
	binary.LittleEndian.PutUint32(out[9:13], e.OutputCount)
	binary.LittleEndian.PutUint32(out[13:17], e.Size)
	return out
}

func decodeIndexEntry(b []byte) (*TxIndexEntry, error) {
	if len(b) != indexEntryLen {
		return nil, fmt.Errorf("index: bad length %d", len(b))
	}
	if b[4] > 1 {
		return nil, fmt.Errorf("index: bad flags 0x%02x", b[4])
	}
	return &TxIndexEntry{
		Version:     binary.LittleEndian.Uint32(b[0:4]),
		HasWitness:  b[4] == 1,
		InputCount:  binary.LittleEndian.Uint32(b[5:9]),
		OutputCount: binary.LittleEndian.Uint32(b[9:13]),
		Size:        binary.LittleEndian.Uint32(b[13:17]),
	}, nil
}
