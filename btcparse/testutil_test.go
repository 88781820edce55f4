package btcparse

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type outputFixture struct {
	Value      uint64 `json:"value"`
	PkScript   string `json:"pk_script"`
	ScriptSize uint64 `json:"script_size"`
	TotalSize  uint64 `json:"total_size"`
}

type txFixture struct {
	Name    string          `json:"name"`
	Raw     string          `json:"raw"`
	Hash    string          `json:"hash"`
	Outputs []outputFixture `json:"outputs"`
}

func loadTxFixtures(t testing.TB) []txFixture {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", "transactions.json"))
	require.NoError(t, err)
	var fixtures []txFixture
	require.NoError(t, json.Unmarshal(raw, &fixtures))
	require.NotEmpty(t, fixtures)
	return fixtures
}

func fixtureByName(t testing.TB, name string) txFixture {
	t.Helper()
	for _, f := range loadTxFixtures(t) {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("fixture %q not found", name)
	return txFixture{}
}

func mustHex(t testing.TB, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func mustErrCode(t testing.TB, err error) ErrorCode {
	t.Helper()
	e, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	return e.Code
}

func appendCompactSize(b []byte, v uint64) []byte {
	switch {
	case v < 0xfd:
		return append(b, byte(v))
	case v <= 0xffff:
		return binary.LittleEndian.AppendUint16(append(b, 0xfd), uint16(v))
	case v <= 0xffffffff:
		return binary.LittleEndian.AppendUint32(append(b, 0xfe), uint32(v))
	default:
		return binary.LittleEndian.AppendUint64(append(b, 0xff), v)
	}
}

type testOutput struct {
	value  uint64
	script []byte
}

// buildTx serializes a transaction with the given scriptSigs, outputs and
// optional per-input witness stacks. witness == nil selects the legacy layout.
func buildTx(scriptSigs [][]byte, outs []testOutput, witness [][][]byte) []byte {
	b := binary.LittleEndian.AppendUint32(nil, 2)
	if witness != nil {
		b = append(b, 0x00, 0x01)
	}
	b = appendCompactSize(b, uint64(len(scriptSigs)))
	for i, sig := range scriptSigs {
		prev := make([]byte, 32)
		prev[0] = byte(i + 1)
		b = append(b, prev...)
		b = binary.LittleEndian.AppendUint32(b, uint32(i))
		b = appendCompactSize(b, uint64(len(sig)))
		b = append(b, sig...)
		b = binary.LittleEndian.AppendUint32(b, 0xffffffff)
	}
	b = appendCompactSize(b, uint64(len(outs)))
	for _, o := range outs {
		b = binary.LittleEndian.AppendUint64(b, o.value)
		b = appendCompactSize(b, uint64(len(o.script)))
		b = append(b, o.script...)
	}
	for _, stack := range witness {
		b = appendCompactSize(b, uint64(len(stack)))
		for _, item := range stack {
			b = appendCompactSize(b, uint64(len(item)))
			b = append(b, item...)
		}
	}
	return binary.LittleEndian.AppendUint32(b, 0)
}

func hexStr(b []byte) string {
	return hex.EncodeToString(b)
}
