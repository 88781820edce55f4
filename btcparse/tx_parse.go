package btcparse

import "bytes"

const (
	txVersionLen  = 4
	txLockTimeLen = 4
	outPointLen   = 32 + 4
	sequenceLen   = 4
	valueLen      = 8

	// Smallest possible serialized input and output, used to cap
	// pre-allocation against forged counts.
	minTxInLen  = outPointLen + 1 + sequenceLen
	minTxOutLen = valueLen + 1
)

var witnessMarkerFlag = []byte{0x00, 0x01}

// TxOutput is a single transaction output as it appears on the wire.
type TxOutput struct {
	Value      uint64
	PkScript   []byte
	ScriptSize uint64
	// TotalSize is ScriptSize + 8 (value) + the width of the CompactSize
	// prefix that encoded ScriptSize.
	TotalSize uint64
}

// Tx is the structural summary of a raw transaction. Input contents are not
// retained; only their count matters to callers of this package.
type Tx struct {
	Version    uint32
	HasWitness bool
	InputCount int
	Outputs    []TxOutput
	LockTime   uint32
	Size       int // serialized length in bytes
}

// GetOutputs walks rawTx and returns its outputs in index order. Bytes after
// the locktime are ignored.
func GetOutputs(rawTx []byte) ([]TxOutput, error) {
	tx, _, err := ParseTxPrefix(rawTx)
	if err != nil {
		return nil, err
	}
	return tx.Outputs, nil
}

// ParseTx parses a legacy or segwit-marked transaction and rejects trailing
// bytes.
func ParseTx(rawTx []byte) (*Tx, error) {
	tx, n, err := ParseTxPrefix(rawTx)
	if err != nil {
		return nil, err
	}
	if n != len(rawTx) {
		return nil, parseErrf(ERR_TRAILING_BYTES, "%d bytes after locktime", len(rawTx)-n)
	}
	return tx, nil
}

// ParseTxPrefix parses a single transaction from the start of b and returns
// the number of bytes consumed.
//
// Parsing is done in two phases: the non-witness fields (version, optional
// marker+flag, inputs, outputs) and then, only if the marker was present, one
// witness stack per input in input order, followed by the locktime.
func ParseTxPrefix(b []byte) (*Tx, int, error) {
	cur := newCursor(b)
	tx, err := parseTxFromCursor(cur)
	if err != nil {
		log.Tracef("Tx parse failed at offset %d: %v", cur.pos, err)
		return nil, 0, err
	}
	tx.Size = cur.pos

	log.Debugf("Parsed tx: version=%d witness=%v inputs=%d "+
		"outputs=%d size=%d", tx.Version, tx.HasWitness, tx.InputCount,
		len(tx.Outputs), tx.Size)

	return tx, cur.pos, nil
}

func parseTxFromCursor(cur *cursor) (*Tx, error) {
	version, err := cur.readU32LE("version")
	if err != nil {
		return nil, err
	}

	hasWitness := false
	if mf, ok := cur.peek(len(witnessMarkerFlag)); ok && bytes.Equal(mf, witnessMarkerFlag) {
		hasWitness = true
		cur.pos += len(witnessMarkerFlag)
	}

	// Phase one: non-witness fields.
	inputCount, err := skipInputList(cur)
	if err != nil {
		return nil, err
	}
	outputs, err := parseOutputList(cur)
	if err != nil {
		return nil, err
	}

	// Phase two: witness stacks, positioned after the outputs but keyed by
	// input order.
	if hasWitness {
		for i := 0; i < inputCount; i++ {
			if err := skipWitnessStack(cur, i); err != nil {
				return nil, err
			}
		}
	}

	lockTime, err := cur.readU32LE("locktime")
	if err != nil {
		return nil, err
	}

	return &Tx{
		Version:    version,
		HasWitness: hasWitness,
		InputCount: inputCount,
		Outputs:    outputs,
		LockTime:   lockTime,
	}, nil
}

func skipInput(cur *cursor) error {
	if err := cur.skip(outPointLen, "prev_outpoint"); err != nil {
		return err
	}
	scriptSigLen, _, err := cur.readLen("script_sig_len")
	if err != nil {
		return err
	}
	if err := cur.skip(scriptSigLen, "script_sig"); err != nil {
		return err
	}
	return cur.skip(sequenceLen, "sequence")
}

func skipInputList(cur *cursor) (int, error) {
	inputCount, _, err := cur.readLen("input_count")
	if err != nil {
		return 0, err
	}
	if inputCount > cur.remaining()/minTxInLen {
		return 0, parseErrf(ERR_OUT_OF_BOUNDS, "input_count %d exceeds remaining bytes", inputCount)
	}
	for i := 0; i < inputCount; i++ {
		if err := skipInput(cur); err != nil {
			return 0, err
		}
	}
	return inputCount, nil
}

func parseOutput(cur *cursor) (TxOutput, error) {
	value, err := cur.readU64LE("value")
	if err != nil {
		return TxOutput{}, err
	}
	scriptLen, prefixLen, err := cur.readLen("pk_script_len")
	if err != nil {
		return TxOutput{}, err
	}
	script, err := cur.readExact(scriptLen, "pk_script")
	if err != nil {
		return TxOutput{}, err
	}
	return TxOutput{
		Value:      value,
		PkScript:   script,
		ScriptSize: uint64(scriptLen),
		TotalSize:  uint64(scriptLen) + valueLen + uint64(prefixLen),
	}, nil
}

func parseOutputList(cur *cursor) ([]TxOutput, error) {
	outputCount, _, err := cur.readLen("output_count")
	if err != nil {
		return nil, err
	}
	if outputCount > cur.remaining()/minTxOutLen {
		return nil, parseErrf(ERR_OUT_OF_BOUNDS, "output_count %d exceeds remaining bytes", outputCount)
	}
	outputs := make([]TxOutput, 0, outputCount)
	for i := 0; i < outputCount; i++ {
		out, err := parseOutput(cur)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}

func skipWitnessStack(cur *cursor, input int) error {
	itemCount, _, err := cur.readLen("witness_item_count")
	if err != nil {
		return err
	}
	if itemCount > cur.remaining() {
		return parseErrf(ERR_OUT_OF_BOUNDS, "input %d: witness_item_count %d exceeds remaining bytes", input, itemCount)
	}
	for j := 0; j < itemCount; j++ {
		itemLen, _, err := cur.readLen("witness_item_len")
		if err != nil {
			return err
		}
		if err := cur.skip(itemLen, "witness_item"); err != nil {
			return err
		}
	}
	return nil
}
