package btcparse

import (
	"encoding/binary"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const (
	// BlockHeaderLen is the only accepted header length.
	BlockHeaderLen = 80

	// version(4) + prev block hash(32) + merkle root(32).
	headerTimestampOffset = 68
)

func checkHeaderLen(header []byte) error {
	if len(header) != BlockHeaderLen {
		return parseErrf(ERR_INVALID_HEADER_LENGTH, "invalid header length: %d", len(header))
	}
	return nil
}

// GetBtcBlockTimestamp returns the little-endian timestamp of an 80-byte
// block header.
func GetBtcBlockTimestamp(header []byte) (uint32, error) {
	if err := checkHeaderLen(header); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(header[headerTimestampOffset : headerTimestampOffset+4]), nil
}

// BlockHash returns the double SHA-256 of an 80-byte block header.
func BlockHash(header []byte) (chainhash.Hash, error) {
	if err := checkHeaderLen(header); err != nil {
		return chainhash.Hash{}, err
	}
	return chainhash.DoubleHashH(header), nil
}
