package btcparse

import "bytes"

// Opcodes used by the recognized output templates.
const (
	OP_0           = 0x00
	OP_DATA_20     = 0x14
	OP_DATA_32     = 0x20
	OP_DATA_33     = 0x21
	OP_DATA_65     = 0x41
	OP_1           = 0x51
	OP_RETURN      = 0x6a
	OP_DUP         = 0x76
	OP_EQUAL       = 0x87
	OP_EQUALVERIFY = 0x88
	OP_HASH160     = 0xa9
	OP_CHECKSIG    = 0xac
)

const (
	P2PKHScriptLen  = 25
	P2SHScriptLen   = 23
	P2WPKHScriptLen = 22
	P2WSHScriptLen  = 34
	P2TRScriptLen   = 34

	P2PKCompressedScriptLen   = 35
	P2PKUncompressedScriptLen = 67
)

// ScriptType is the output template a script matches. Templates never
// overlap, so at most one type applies to any script.
type ScriptType uint8

const (
	Unsupported ScriptType = iota
	P2PKH
	P2SH
	P2WPKH
	P2WSH
	P2TR
	P2PK
	NullData
)

var scriptTypeNames = []string{
	Unsupported: "unsupported",
	P2PKH:       "p2pkh",
	P2SH:        "p2sh",
	P2WPKH:      "p2wpkh",
	P2WSH:       "p2wsh",
	P2TR:        "p2tr",
	P2PK:        "p2pk",
	NullData:    "nulldata",
}

func (t ScriptType) String() string {
	if int(t) >= len(scriptTypeNames) {
		return "invalid"
	}
	return scriptTypeNames[t]
}

// IsWitness reports whether t is a segwit output type.
func (t ScriptType) IsWitness() bool {
	return t == P2WPKH || t == P2WSH || t == P2TR
}

// IsP2PKHOutput: OP_DUP OP_HASH160 <20> OP_EQUALVERIFY OP_CHECKSIG.
func IsP2PKHOutput(script []byte) bool {
	return len(script) == P2PKHScriptLen &&
		script[0] == OP_DUP &&
		script[1] == OP_HASH160 &&
		script[2] == OP_DATA_20 &&
		script[23] == OP_EQUALVERIFY &&
		script[24] == OP_CHECKSIG
}

// IsP2SHOutput: OP_HASH160 <20> OP_EQUAL.
func IsP2SHOutput(script []byte) bool {
	return len(script) == P2SHScriptLen &&
		script[0] == OP_HASH160 &&
		script[1] == OP_DATA_20 &&
		script[22] == OP_EQUAL
}

// IsP2WPKHOutput: OP_0 <20>.
func IsP2WPKHOutput(script []byte) bool {
	return len(script) == P2WPKHScriptLen &&
		script[0] == OP_0 &&
		script[1] == OP_DATA_20
}

// IsP2WSHOutput: OP_0 <32>.
func IsP2WSHOutput(script []byte) bool {
	return len(script) == P2WSHScriptLen &&
		script[0] == OP_0 &&
		script[1] == OP_DATA_32
}

// IsP2TROutput: OP_1 <32>.
func IsP2TROutput(script []byte) bool {
	return len(script) == P2TRScriptLen &&
		script[0] == OP_1 &&
		script[1] == OP_DATA_32
}

// IsP2PKOutput: <33 or 65 byte pubkey> OP_CHECKSIG.
func IsP2PKOutput(script []byte) bool {
	switch len(script) {
	case P2PKCompressedScriptLen:
		return script[0] == OP_DATA_33 && script[34] == OP_CHECKSIG
	case P2PKUncompressedScriptLen:
		return script[0] == OP_DATA_65 && script[66] == OP_CHECKSIG
	default:
		return false
	}
}

// IsNullDataOutput reports whether script starts with OP_RETURN.
func IsNullDataOutput(script []byte) bool {
	return len(script) >= 1 && script[0] == OP_RETURN
}

// scriptTemplates is the fixed classification order. First match wins.
var scriptTemplates = []struct {
	typ   ScriptType
	match func([]byte) bool
}{
	{P2PKH, IsP2PKHOutput},
	{P2SH, IsP2SHOutput},
	{P2WPKH, IsP2WPKHOutput},
	{P2WSH, IsP2WSHOutput},
	{P2TR, IsP2TROutput},
	{P2PK, IsP2PKOutput},
	{NullData, IsNullDataOutput},
}

// ClassifyScript returns the template script matches, or Unsupported.
func ClassifyScript(script []byte) ScriptType {
	for _, t := range scriptTemplates {
		if t.match(script) {
			return t.typ
		}
	}
	return Unsupported
}

func errStructure(want ScriptType, script []byte) error {
	return parseErrf(ERR_SCRIPT_STRUCTURE, "script hasn't the required structure: want %s, got %d bytes", want, len(script))
}

// ParsePayToWitnessPubKeyHash returns the 20-byte witness program.
func ParsePayToWitnessPubKeyHash(script []byte) ([]byte, error) {
	if !IsP2WPKHOutput(script) {
		return nil, errStructure(P2WPKH, script)
	}
	return bytes.Clone(script[2:]), nil
}

// ParsePayToWitnessScriptHash returns the 32-byte witness program.
func ParsePayToWitnessScriptHash(script []byte) ([]byte, error) {
	if !IsP2WSHOutput(script) {
		return nil, errStructure(P2WSH, script)
	}
	return bytes.Clone(script[2:]), nil
}

// ParsePayToTaproot returns the 32-byte output key.
func ParsePayToTaproot(script []byte) ([]byte, error) {
	if !IsP2TROutput(script) {
		return nil, errStructure(P2TR, script)
	}
	return bytes.Clone(script[2:]), nil
}

// ParsePayToPubKey returns the serialized public key of a P2PK script.
func ParsePayToPubKey(script []byte) ([]byte, error) {
	if !IsP2PKOutput(script) {
		return nil, errStructure(P2PK, script)
	}
	return bytes.Clone(script[1 : len(script)-1]), nil
}

// ParseNullDataScript returns everything after OP_RETURN, push opcodes
// included.
func ParseNullDataScript(script []byte) ([]byte, error) {
	if !IsNullDataOutput(script) {
		return nil, errStructure(NullData, script)
	}
	return bytes.Clone(script[1:]), nil
}
